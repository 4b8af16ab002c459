package handlers

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mreid-dev/deckvalue/internal/pipeline"
)

type ValueHandler struct {
	pipeline *pipeline.Pipeline
}

func NewValueHandler(p *pipeline.Pipeline) *ValueHandler {
	return &ValueHandler{pipeline: p}
}

type valueTableResponse struct {
	Rows       []pipeline.ValueRow `json:"rows"`
	TotalCount int                 `json:"total_count"`
	HasMore    bool                `json:"has_more"`
}

// GetValues returns the user's ranked value table with presentation-side
// sorting, filtering, and paging. The pipeline output itself is unsorted and
// unfiltered; everything here is in-memory column work on the returned table.
func (h *ValueHandler) GetValues(c *gin.Context) {
	table, err := h.pipeline.ComputeValueTable(userID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	rows := filterValueRows(table.Rows, valueFilter{
		set:      atoiOrZero(c.Query("set")),
		name:     c.Query("name"),
		minValue: atofOrZero(c.Query("min_value")),
	})
	sortValueRows(rows, c.DefaultQuery("sort", "own_value"))

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}

	total := len(rows)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	c.JSON(http.StatusOK, valueTableResponse{
		Rows:       rows[offset:end],
		TotalCount: total,
		HasMore:    end < total,
	})
}

type valueFilter struct {
	set      int
	name     string
	minValue float64
}

func filterValueRows(rows []pipeline.ValueRow, f valueFilter) []pipeline.ValueRow {
	out := make([]pipeline.ValueRow, 0, len(rows))
	name := strings.ToLower(strings.TrimSpace(f.name))
	for _, row := range rows {
		if f.set != 0 && row.Card.SetNumber != f.set {
			continue
		}
		if name != "" && !strings.Contains(strings.ToLower(row.Name), name) {
			continue
		}
		if f.minValue > 0 && row.OwnValue < f.minValue {
			continue
		}
		out = append(out, row)
	}
	return out
}

// sortValueRows orders rows by the requested column, descending, with card
// identity as the tiebreaker so paging is stable.
func sortValueRows(rows []pipeline.ValueRow, field string) {
	value := func(r pipeline.ValueRow) float64 {
		switch field {
		case "craft_efficiency":
			return r.CraftEfficiency
		case "play_value":
			return r.PlayValue
		case "play_rate":
			return r.PlayRate
		case "resell_value":
			return r.ResellValue
		default:
			return r.OwnValue
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		vi, vj := value(rows[i]), value(rows[j])
		if vi != vj {
			return vi > vj
		}
		if rows[i].Card != rows[j].Card {
			if rows[i].Card.SetNumber != rows[j].Card.SetNumber {
				return rows[i].Card.SetNumber < rows[j].Card.SetNumber
			}
			return rows[i].Card.CardNumber < rows[j].Card.CardNumber
		}
		return rows[i].CopySlot < rows[j].CopySlot
	})
}

func atoiOrZero(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func atofOrZero(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
