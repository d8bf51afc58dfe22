package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/fuel-quote-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/fuel-quote-service/internal/app"
)

// QuoteHandler handles quote-related HTTP endpoints.
type QuoteHandler struct {
	service *app.QuoteService
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(service *app.QuoteService) *QuoteHandler {
	return &QuoteHandler{
		service: service,
	}
}

// CreateQuote handles POST /api/v1/quotes.
// Prices the request and stores it as a new quote.
//
// @Summary Create a fuel quote
// @Tags quotes
// @Accept json
// @Produce json
// @Param body body dto.QuoteRequest true "Quote request"
// @Success 201 {object} dto.QuoteResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/quotes [post]
func (h *QuoteHandler) CreateQuote(c *gin.Context) {
	var req dto.QuoteRequest
	if !bindJSON(c, &req) {
		return
	}

	username, err := resolveUsername(c, req.Username)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	quote, err := h.service.CreateQuote(c.Request.Context(), username, req.Input())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewQuoteResponse(quote))
}

// PreviewQuote handles POST /api/v1/quotes/preview.
// Prices the request without storing anything.
//
// @Summary Preview a fuel price
// @Tags quotes
// @Accept json
// @Produce json
// @Param body body dto.QuoteRequest true "Quote request"
// @Success 200 {object} dto.PreviewResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/quotes/preview [post]
func (h *QuoteHandler) PreviewQuote(c *gin.Context) {
	var req dto.QuoteRequest
	if !bindJSON(c, &req) {
		return
	}

	username, err := resolveUsername(c, req.Username)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	result, err := h.service.PreviewQuote(c.Request.Context(), username, req.Input())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPreviewResponse(req.GallonsRequested, result))
}

// GetQuoteHistory handles GET /api/v1/quotes/history/:username.
// Returns the user's quotes, most recent first.
//
// @Summary List a user's quotes
// @Tags quotes
// @Produce json
// @Param username path string true "Username"
// @Success 200 {array} dto.QuoteResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/quotes/history/{username} [get]
func (h *QuoteHandler) GetQuoteHistory(c *gin.Context) {
	username, err := resolveUsername(c, c.Param("username"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	quotes, err := h.service.GetQuoteHistory(c.Request.Context(), username)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuoteHistoryResponse(quotes))
}

// RegisterQuoteRoutes registers quote routes on the given router group.
// Any middleware passed in applies to these routes only.
func (h *QuoteHandler) RegisterQuoteRoutes(rg *gin.RouterGroup, mw ...gin.HandlerFunc) {
	quotes := rg.Group("/quotes", mw...)
	quotes.POST("", h.CreateQuote)
	quotes.POST("/preview", h.PreviewQuote)
	quotes.GET("/history/:username", h.GetQuoteHistory)
}
