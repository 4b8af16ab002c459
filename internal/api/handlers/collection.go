package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mreid-dev/deckvalue/internal/models"
	"github.com/mreid-dev/deckvalue/internal/services"
)

type CollectionHandler struct {
	ownershipService *services.OwnershipService
	catalogService   *services.CatalogService
	snapshotService  *services.SnapshotService
	rarities         models.RarityTable
}

func NewCollectionHandler(ownership *services.OwnershipService, catalog *services.CatalogService, snapshot *services.SnapshotService, rarities models.RarityTable) *CollectionHandler {
	return &CollectionHandler{
		ownershipService: ownership,
		catalogService:   catalog,
		snapshotService:  snapshot,
		rarities:         rarities,
	}
}

// userID resolves the acting user. Authentication is handled upstream; the
// proxy forwards the identity in a header.
func userID(c *gin.Context) string {
	if id := c.GetHeader("X-User-ID"); id != "" {
		return id
	}
	if id := c.Query("user"); id != "" {
		return id
	}
	return "default"
}

func (h *CollectionHandler) GetCollection(c *gin.Context) {
	items, err := h.ownershipService.GetItems(userID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *CollectionHandler) SetOwnership(c *gin.Context) {
	var req models.SetOwnershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := models.CardID{SetNumber: req.SetNumber, CardNumber: req.CardNumber}
	if _, err := h.catalogService.GetCard(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "card not found in catalog"})
		return
	}

	if err := h.ownershipService.SetOwnership(userID(c), id, req.Count); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"card":  id,
		"count": models.ClampCount(req.Count),
	})
}

func (h *CollectionHandler) GetStats(c *gin.Context) {
	stats, err := h.ownershipService.CalculateStats(userID(c), h.rarities)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *CollectionHandler) GetValueHistory(c *gin.Context) {
	period := c.DefaultQuery("period", "month")

	snapshots, err := h.snapshotService.GetHistory(userID(c), period)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.ValueHistoryResponse{
		Snapshots: snapshots,
		Period:    period,
	})
}
