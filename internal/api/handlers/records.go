package handlers

import (
	"net/http"
	"strconv"

	"sellsync/internal/api/middleware"
	"sellsync/internal/logger"
	"sellsync/internal/repository"

	"github.com/gin-gonic/gin"
)

// RecordsHandler serves the stored sales, orders, listings, inventory and deposits.
type RecordsHandler struct {
	store  *repository.Store
	logger *logger.Logger
}

func NewRecordsHandler(store *repository.Store, logger *logger.Logger) *RecordsHandler {
	return &RecordsHandler{
		store:  store,
		logger: logger,
	}
}

func pageOf(c *gin.Context) repository.Page {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	return repository.Page{Page: page, Limit: limit}
}

func pagination(page repository.Page, total int64) gin.H {
	return gin.H{
		"page":  page.Page,
		"limit": page.Limit,
		"total": total,
	}
}

func (h *RecordsHandler) Sales(c *gin.Context) {
	query := repository.SaleQuery{
		Page:      pageOf(c),
		Search:    c.Query("search"),
		SortBy:    c.DefaultQuery("sort_by", "sale_date"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}

	sales, total, err := h.store.ListSales(c.Request.Context(), middleware.AccountID(c), query)
	if err != nil {
		h.logger.Error("Failed to fetch sales: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sales"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       sales,
		"pagination": pagination(query.Page, total),
	})
}

func (h *RecordsHandler) Orders(c *gin.Context) {
	page := pageOf(c)
	orders, total, err := h.store.ListOrders(c.Request.Context(), middleware.AccountID(c), page)
	if err != nil {
		h.logger.Error("Failed to fetch orders: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       orders,
		"pagination": pagination(page, total),
	})
}

func (h *RecordsHandler) Listings(c *gin.Context) {
	listings, err := h.store.ListListings(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		h.logger.Error("Failed to fetch listings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch listings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": listings})
}

func (h *RecordsHandler) Inventory(c *gin.Context) {
	items, err := h.store.ListInventory(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		h.logger.Error("Failed to fetch inventory: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inventory"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (h *RecordsHandler) Deposits(c *gin.Context) {
	deposits, err := h.store.ListDeposits(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		h.logger.Error("Failed to fetch deposits: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch deposits"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": deposits})
}
