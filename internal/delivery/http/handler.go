package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/switchtoindia/backend/internal/domain"
	"github.com/switchtoindia/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	search       *usecase.SearchService
	alternatives *usecase.AlternativeService
	basket       *usecase.BasketService
}

// NewHandler creates a new HTTP handler
func NewHandler(
	search *usecase.SearchService,
	alternatives *usecase.AlternativeService,
	basket *usecase.BasketService,
) *Handler {
	return &Handler{
		search:       search,
		alternatives: alternatives,
		basket:       basket,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "switchtoindia-backend",
		"version": "1.0.0",
	})
}

// SearchProducts filters the catalog by the q query parameter.
func (h *Handler) SearchProducts(c *gin.Context) {
	query := c.Query("q")
	results := h.search.Search(c.Request.Context(), query)
	c.JSON(http.StatusOK, gin.H{
		"query":   query,
		"count":   len(results),
		"results": results,
	})
}

// alternativesRequest is the body for the alternatives endpoint. When
// rawNames is omitted, the source product's own alternative list is used.
type alternativesRequest struct {
	Source   domain.ProductRecord `json:"source"`
	RawNames []string             `json:"rawNames"`
}

// SelectAlternatives ranks catalog alternatives for a source product.
func (h *Handler) SelectAlternatives(c *gin.Context) {
	var req alternativesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if !req.Source.Displayable() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "source product needs a name or id"})
		return
	}

	rawNames := req.RawNames
	if len(rawNames) == 0 {
		rawNames = req.Source.AlternativeNames
	}

	candidates := h.alternatives.SelectAlternatives(c.Request.Context(), req.Source, rawNames)
	if candidates == nil {
		candidates = []domain.AlternativeCandidate{}
	}
	c.JSON(http.StatusOK, gin.H{"alternatives": candidates})
}

// GetBasket returns the current line items with their impact summary.
func (h *Handler) GetBasket(c *gin.Context) {
	items := h.basket.Items()
	c.JSON(http.StatusOK, gin.H{
		"items":  items,
		"impact": usecase.Summarize(items),
	})
}

// addItemRequest is the body for adding a product to the basket.
type addItemRequest struct {
	Name    string   `json:"name" binding:"required"`
	Country string   `json:"country"`
	Price   *float64 `json:"price"`
	Qty     int      `json:"qty"`
}

// AddBasketItem merges a product into the basket.
func (h *Handler) AddBasketItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	item := h.basket.AddItem(c.Request.Context(), req.Name, req.Country, req.Price, req.Qty)
	c.JSON(http.StatusOK, gin.H{
		"item":   item,
		"impact": usecase.Summarize(h.basket.Items()),
	})
}

// quantityRequest carries a quantity delta plus the client-side
// confirmation answer used when the quantity would drop to zero.
type quantityRequest struct {
	Delta     int  `json:"delta"`
	Confirmed bool `json:"confirmed"`
}

// ChangeQuantity applies a quantity delta to a line item.
func (h *Handler) ChangeQuantity(c *gin.Context) {
	index, ok := h.itemIndex(c)
	if !ok {
		return
	}

	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	h.basket.ChangeQuantity(c.Request.Context(), index, req.Delta, func(string) bool {
		return req.Confirmed
	})
	h.GetBasket(c)
}

// priceRequest carries the raw price text as the user typed it.
type priceRequest struct {
	Price string `json:"price"`
}

// EditPrice parses and applies a price edit to a line item.
func (h *Handler) EditPrice(c *gin.Context) {
	index, ok := h.itemIndex(c)
	if !ok {
		return
	}

	var req priceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.basket.EditPrice(c.Request.Context(), index, req.Price); err != nil {
		if errors.Is(err, domain.ErrInvalidPrice) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "price does not parse to a number"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.GetBasket(c)
}

// RemoveBasketItem deletes a line item; requires confirmed=true.
func (h *Handler) RemoveBasketItem(c *gin.Context) {
	index, ok := h.itemIndex(c)
	if !ok {
		return
	}

	confirmed := c.Query("confirmed") == "true"
	err := h.basket.RemoveItem(c.Request.Context(), index, func(string) bool {
		return confirmed
	})
	if errors.Is(err, domain.ErrConfirmationRequired) {
		c.JSON(http.StatusConflict, gin.H{"error": "removal requires confirmed=true"})
		return
	}
	h.GetBasket(c)
}

// ClearBasket empties the basket.
func (h *Handler) ClearBasket(c *gin.Context) {
	h.basket.Clear(c.Request.Context())
	h.GetBasket(c)
}

// GetImpact returns only the impact summary.
func (h *Handler) GetImpact(c *gin.Context) {
	c.JSON(http.StatusOK, usecase.Summarize(h.basket.Items()))
}

// itemIndex parses the :index path parameter.
func (h *Handler) itemIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item index"})
		return 0, false
	}
	return index, true
}
