package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"sellsync/internal/api/middleware"
	"sellsync/internal/importer"
	"sellsync/internal/logger"
	"sellsync/internal/spreadsheet"

	"github.com/gin-gonic/gin"
)

type ImportHandler struct {
	importer *importer.Service
	maxBytes int64
	logger   *logger.Logger
}

func NewImportHandler(importer *importer.Service, maxBytes int64, logger *logger.Logger) *ImportHandler {
	return &ImportHandler{
		importer: importer,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// Import accepts a multipart "file" field holding an .xlsx workbook.
func (h *ImportHandler) Import(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": fmt.Sprintf("File too large, the limit is %d bytes", h.maxBytes),
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}

	switch strings.ToLower(filepath.Ext(fileHeader.Filename)) {
	case ".xlsx":
	case ".xls":
		c.JSON(http.StatusBadRequest, gin.H{"error": "Legacy .xls files are not supported. Please save the workbook as .xlsx"})
		return
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file type. Please upload an Excel file (.xlsx)"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Failed to open upload: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("Failed to read upload: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}

	outcome, err := h.importer.Import(c.Request.Context(), middleware.AccountID(c), data)
	if errors.Is(err, spreadsheet.ErrUnsupportedWorkbook) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.logger.Error("Import error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Import completed successfully",
		"results": outcome,
	})
}
