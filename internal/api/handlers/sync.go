package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"sellsync/internal/api/middleware"
	"sellsync/internal/logger"
	"sellsync/internal/repository"
	"sellsync/internal/syncer"
	"sellsync/internal/worker/processors"

	"github.com/gin-gonic/gin"
)

// SyncPublisher hands sync jobs to the background worker.
type SyncPublisher interface {
	PublishSync(ctx context.Context, event processors.Event) error
}

type SyncHandler struct {
	engine    *syncer.Engine
	store     *repository.Store
	publisher SyncPublisher
	logger    *logger.Logger
}

// NewSyncHandler builds the handler. publisher may be nil, in which case
// async requests are rejected.
func NewSyncHandler(engine *syncer.Engine, store *repository.Store, publisher SyncPublisher, logger *logger.Logger) *SyncHandler {
	return &SyncHandler{
		engine:    engine,
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

type syncRequest struct {
	Type     string `json:"type"`
	DaysBack int    `json:"days_back"`
	Async    bool   `json:"async"`
}

// Sync runs a sync of one resource type, or all of them.
func (h *SyncHandler) Sync(c *gin.Context) {
	var request syncRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if request.DaysBack < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days_back must not be negative"})
		return
	}

	syncType := strings.ToLower(request.Type)
	if syncType == "" {
		syncType = processors.ResourceAll
	}
	var resource syncer.Resource
	if syncType != processors.ResourceAll && syncType != processors.ResourceFees {
		r, err := syncer.ParseResource(syncType)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		resource = r
	}

	ctx := c.Request.Context()
	accountID := middleware.AccountID(c)

	cred, err := h.store.GetCredential(ctx, accountID)
	if err != nil {
		h.logger.Error("Failed to load credential: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load eBay connection"})
		return
	}
	if !cred.Connected() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "eBay account not connected"})
		return
	}

	if request.Async {
		h.enqueue(c, processors.Event{AccountID: accountID, Resource: syncType, DaysBack: request.DaysBack})
		return
	}

	opts := syncer.Options{DaysBack: request.DaysBack}
	switch syncType {
	case processors.ResourceAll:
		result, err := h.engine.SyncAll(ctx, accountID)
		if err != nil {
			h.syncError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "result": result})

	case processors.ResourceFees:
		updated, err := h.engine.SyncFees(ctx, accountID, opts)
		if err != nil {
			h.syncError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "orders_updated": updated})

	default:
		outcome, err := h.engine.SyncResource(ctx, accountID, resource, opts)
		if err != nil {
			h.syncError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "type": resource, "result": outcome})
	}
}

func (h *SyncHandler) enqueue(c *gin.Context, event processors.Event) {
	if h.publisher == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Background sync is not configured"})
		return
	}
	if err := h.publisher.PublishSync(c.Request.Context(), event); err != nil {
		h.logger.Error("Failed to enqueue sync: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enqueue sync"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"success": true, "queued": true, "type": event.Resource})
}

func (h *SyncHandler) syncError(c *gin.Context, err error) {
	if errors.Is(err, syncer.ErrSyncInProgress) {
		c.JSON(http.StatusConflict, gin.H{"error": "A sync is already running for this account"})
		return
	}
	h.logger.Error("eBay sync failed: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// Status reports stored record counts and the last sync time.
func (h *SyncHandler) Status(c *gin.Context) {
	counts, err := h.store.Counts(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		h.logger.Error("Failed to get sync status: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get sync status"})
		return
	}
	c.JSON(http.StatusOK, counts)
}
