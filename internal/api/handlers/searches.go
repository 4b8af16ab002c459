package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mreid-dev/deckvalue/internal/services"
)

type SearchHandler struct {
	searchService *services.DeckSearchService
	scrapeWorker  *services.ScrapeWorker
}

func NewSearchHandler(searches *services.DeckSearchService, worker *services.ScrapeWorker) *SearchHandler {
	return &SearchHandler{
		searchService: searches,
		scrapeWorker:  worker,
	}
}

func (h *SearchHandler) ListSearches(c *gin.Context) {
	searches, err := h.searchService.ListDeckSearches()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, searches)
}

type createSearchRequest struct {
	Name       string `json:"name" binding:"required"`
	MaxAgeDays int    `json:"max_age_days"`
	Tournament bool   `json:"tournament"`
}

func (h *SearchHandler) CreateSearch(c *gin.Context) {
	var req createSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	search, err := h.searchService.CreateDeckSearch(req.Name, req.MaxAgeDays, req.Tournament)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// New searches have no decks yet; scrape them ahead of the nightly run.
	h.scrapeWorker.QueueRefresh(search.ID)

	c.JSON(http.StatusCreated, search)
}

func (h *SearchHandler) GetWeights(c *gin.Context) {
	weighted, err := h.searchService.GetWeightedSearches(userID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, weighted)
}

type setWeightRequest struct {
	Weight float64 `json:"weight"`
}

func (h *SearchHandler) SetWeight(c *gin.Context) {
	var req setWeightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.searchService.SetWeight(userID(c), c.Param("id"), req.Weight); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *SearchHandler) RemoveWeight(c *gin.Context) {
	if err := h.searchService.RemoveWeight(userID(c), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *SearchHandler) QueueRefresh(c *gin.Context) {
	searchID := c.Param("id")
	if _, err := h.searchService.GetDeckSearch(searchID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "deck search not found"})
		return
	}

	position := h.scrapeWorker.QueueRefresh(searchID)
	c.JSON(http.StatusOK, gin.H{"queue_position": position})
}

func (h *SearchHandler) GetScrapeStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.scrapeWorker.GetStatus())
}
