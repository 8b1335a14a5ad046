package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/venuedesk/tableops/internal/domain"
	"github.com/venuedesk/tableops/internal/service/transition"
)

type ReservationHandler struct {
	service transition.TransitionUseCase
}

func NewReservationHandler(service transition.TransitionUseCase) *ReservationHandler {
	return &ReservationHandler{service: service}
}

func (h *ReservationHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.PUT("/:reservation_id/assign", h.assign)
	router.DELETE("/:reservation_id", h.cancel)
	router.POST("/:reservation_id/no-show", h.noShow)
}

type reservationResponse struct {
	ID           int64  `json:"id"`
	VenueID      int64  `json:"venue_id"`
	TableID      *int64 `json:"table_id"`
	CustomerName string `json:"customer_name"`
	PartySize    int    `json:"party_size"`
	StartAt      string `json:"start_at"`
	EndAt        string `json:"end_at"`
	Status       string `json:"status"`
}

type assignRequest struct {
	TableID int64 `json:"table_id"`
}

func (h *ReservationHandler) create(c *gin.Context) {
	venueID, ok := paramInt64(c, "venue_id")
	if !ok {
		return
	}

	var req transition.CreateReservationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reservation, err := h.service.CreateReservation(c.Request.Context(), venueID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toReservationResponse(reservation))
}

func (h *ReservationHandler) assign(c *gin.Context) {
	venueID, ok := paramInt64(c, "venue_id")
	if !ok {
		return
	}
	reservationID, ok := paramInt64(c, "reservation_id")
	if !ok {
		return
	}

	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reservation, err := h.service.AssignReservation(c.Request.Context(), venueID, reservationID, req.TableID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReservationResponse(reservation))
}

func (h *ReservationHandler) cancel(c *gin.Context) {
	venueID, ok := paramInt64(c, "venue_id")
	if !ok {
		return
	}
	reservationID, ok := paramInt64(c, "reservation_id")
	if !ok {
		return
	}

	reservation, err := h.service.CancelReservation(c.Request.Context(), venueID, reservationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReservationResponse(reservation))
}

func (h *ReservationHandler) noShow(c *gin.Context) {
	venueID, ok := paramInt64(c, "venue_id")
	if !ok {
		return
	}
	reservationID, ok := paramInt64(c, "reservation_id")
	if !ok {
		return
	}

	reservation, err := h.service.NoShowReservation(c.Request.Context(), venueID, reservationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReservationResponse(reservation))
}

func toReservationResponse(r *domain.Reservation) reservationResponse {
	return reservationResponse{
		ID:           r.ID,
		VenueID:      r.VenueID,
		TableID:      r.ResourceID,
		CustomerName: r.CustomerName,
		PartySize:    r.PartySize,
		StartAt:      r.StartAt.Format(time.RFC3339),
		EndAt:        r.EndAt.Format(time.RFC3339),
		Status:       string(r.Status),
	}
}
