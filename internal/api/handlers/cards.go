package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mreid-dev/deckvalue/internal/models"
	"github.com/mreid-dev/deckvalue/internal/services"
)

type CardHandler struct {
	catalogService *services.CatalogService
}

func NewCardHandler(catalog *services.CatalogService) *CardHandler {
	return &CardHandler{catalogService: catalog}
}

func (h *CardHandler) SearchCards(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'q' is required"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	result, err := h.catalogService.SearchCards(query, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *CardHandler) GetCard(c *gin.Context) {
	set, err := strconv.Atoi(c.Param("set"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid set number"})
		return
	}
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid card number"})
		return
	}

	card, err := h.catalogService.GetCard(models.CardID{SetNumber: set, CardNumber: number})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
		return
	}

	c.JSON(http.StatusOK, card)
}
