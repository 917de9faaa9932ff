package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/opsdash/ledgercore/internal/core/ports/services"
	"github.com/opsdash/ledgercore/internal/dto"
	"github.com/opsdash/ledgercore/internal/middleware"
)

// reviewHandler handles the human review queue for low-confidence
// classifications.
type reviewHandler struct {
	reviewService portssvc.ReviewSvc
}

func newReviewHandler(rs portssvc.ReviewSvc) *reviewHandler {
	return &reviewHandler{reviewService: rs}
}

// registerReviewRoutes registers the review queue routes.
func registerReviewRoutes(rg *gin.RouterGroup, reviewService portssvc.ReviewSvc) {
	h := newReviewHandler(reviewService)

	review := rg.Group("/review")
	{
		review.GET("", h.listOpenItems)
		review.POST("/:itemID/resolve", h.resolveItem)
	}
}

// listOpenItems godoc
// @Summary List open review items
// @Description Classified transactions below the confidence threshold, waiting for a human decision
// @Tags review
// @Produce  json
// @Success 200 {array} dto.ReviewItemResponse
// @Router /review [get]
func (h *reviewHandler) listOpenItems(c *gin.Context) {
	items, err := h.reviewService.ListOpenItems(c.Request.Context())
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to list review items", slog.String("error", err.Error()))
		respondServiceError(c, err, "Failed to list review items")
		return
	}
	c.JSON(http.StatusOK, dto.ToReviewItemResponses(items))
}

// resolveItem godoc
// @Summary Resolve a review item
// @Description Confirms or overrides the suggested account pairing and posts the entry, or rejects the item without posting
// @Tags review
// @Accept  json
// @Produce  json
// @Param   itemID path string true "Review item ID"
// @Param   resolution body dto.ResolveReviewRequest true "Resolution"
// @Success 200 {object} dto.ReviewItemResponse
// @Failure 404 {object} map[string]string "Item not found"
// @Failure 422 {object} map[string]string "Item already resolved or missing account pairing"
// @Router /review/{itemID}/resolve [post]
func (h *reviewHandler) resolveItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	itemID := c.Param("itemID")

	var req dto.ResolveReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for resolveItem", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	item, err := h.reviewService.ResolveItem(c.Request.Context(), itemID, req, actorID(c))
	if err != nil {
		logger.Warn("Failed to resolve review item", slog.String("item_id", itemID), slog.String("error", err.Error()))
		respondServiceError(c, err, "Failed to resolve review item")
		return
	}

	c.JSON(http.StatusOK, dto.ToReviewItemResponse(item))
}
