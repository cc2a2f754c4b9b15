package handlers

import (
	"net/http"
	"time"

	"servicehub/models"
	"servicehub/services/booking"
	"servicehub/utils"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	Service booking.BookingService
}

func NewBookingHandler(svc booking.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

type createBookingRequest struct {
	ProviderID      string                `json:"providerId"`
	ServiceID       string                `json:"serviceId"`
	BookingDate     time.Time             `json:"bookingDate"`
	BookingTime     string                `json:"bookingTime"`
	ServiceAddress  models.ServiceAddress `json:"serviceAddress"`
	ContactPhone    string                `json:"contactPhone"`
	AdditionalNotes string                `json:"additionalNotes"`
	TotalAmount     float64               `json:"totalAmount"`
	ServiceFee      float64               `json:"serviceFee"`
	PaymentMethod   models.PaymentMethod  `json:"paymentMethod"`
}

// reasonRequest accepts the reason under either key; cancellationReason wins
// when both are sent.
type reasonRequest struct {
	Reason             string `json:"reason"`
	CancellationReason string `json:"cancellationReason"`
}

func (r reasonRequest) reason() string {
	if r.CancellationReason != "" {
		return r.CancellationReason
	}
	return r.Reason
}

type statusRequest struct {
	reasonRequest
	Status models.BookingStatus `json:"status"`
}

// CreateBookingHandler serves POST /api/bookings.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req createBookingRequest
	if !bindJSON(c, &req) {
		return
	}
	b, err := h.Service.CreateBooking(c.Request.Context(), actor.ID, req.ProviderID, req.ServiceID, models.BookingDetails{
		BookingDate:     req.BookingDate,
		BookingTime:     req.BookingTime,
		ServiceAddress:  req.ServiceAddress,
		ContactPhone:    req.ContactPhone,
		AdditionalNotes: req.AdditionalNotes,
		TotalAmount:     req.TotalAmount,
		ServiceFee:      req.ServiceFee,
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// ListMyBookingsHandler serves GET /api/bookings?status=.
func (h *BookingHandler) ListMyBookingsHandler(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	bookings, err := h.Service.ListCustomerBookings(c.Request.Context(), actor.ID, models.BookingStatus(c.Query("status")))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(bookings), "bookings": bookings})
}

// ListProviderBookingsHandler serves GET /api/bookings/provider?status=.
func (h *BookingHandler) ListProviderBookingsHandler(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	bookings, err := h.Service.ListProviderBookings(c.Request.Context(), actor.ID, models.BookingStatus(c.Query("status")))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(bookings), "bookings": bookings})
}

// GetBookingHandler serves GET /api/bookings/:id.
func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	b, err := h.Service.GetBooking(c.Request.Context(), c.Param("id"), actor.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// UpdateStatusHandler serves PATCH /api/bookings/:id/status.
func (h *BookingHandler) UpdateStatusHandler(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}
	b, err := h.Service.TransitionBooking(c.Request.Context(), c.Param("id"), actor.ID, req.Status, req.reason())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// UpdateBookingHandler serves PUT /api/bookings/:id.
func (h *BookingHandler) UpdateBookingHandler(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var patch models.BookingPatch
	if !bindJSON(c, &patch) {
		return
	}
	b, err := h.Service.UpdateBookingDetails(c.Request.Context(), c.Param("id"), actor.ID, patch)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// CancelBookingHandler serves DELETE /api/bookings/:id. The body is optional.
func (h *BookingHandler) CancelBookingHandler(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req reasonRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	b, err := h.Service.CancelBooking(c.Request.Context(), c.Param("id"), actor.ID, req.reason())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// AnnotateCancellationHandler serves PATCH /api/bookings/:id/cancellation.
func (h *BookingHandler) AnnotateCancellationHandler(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req reasonRequest
	if !bindJSON(c, &req) {
		return
	}
	b, err := h.Service.AnnotateCancellation(c.Request.Context(), c.Param("id"), actor.ID, req.reason())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}
