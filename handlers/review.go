package handlers

import (
	"net/http"

	"servicehub/services/review"
	"servicehub/utils"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	Service review.ReviewService
}

func NewReviewHandler(svc review.ReviewService) *ReviewHandler {
	return &ReviewHandler{Service: svc}
}

type submitReviewRequest struct {
	BookingID string `json:"bookingId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

type responseRequest struct {
	Comment string `json:"comment"`
}

// SubmitReviewHandler serves POST /api/reviews.
func (h *ReviewHandler) SubmitReviewHandler(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req submitReviewRequest
	if !bindJSON(c, &req) {
		return
	}
	rv, err := h.Service.SubmitReview(c.Request.Context(), req.BookingID, actor.ID, req.Rating, req.Comment)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rv)
}

// ListProviderReviewsHandler serves GET /api/reviews/:id where id names a provider.
func (h *ReviewHandler) ListProviderReviewsHandler(c *gin.Context) {
	reviews, err := h.Service.ListProviderReviews(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(reviews), "reviews": reviews})
}

// RespondToReviewHandler serves POST /api/reviews/:id/response.
func (h *ReviewHandler) RespondToReviewHandler(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req responseRequest
	if !bindJSON(c, &req) {
		return
	}
	rv, err := h.Service.RespondToReview(c.Request.Context(), c.Param("id"), actor.ID, req.Comment)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rv)
}
