package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/venuedesk/tableops/internal/service/runtime"
)

type FloorHandler struct {
	service runtime.RuntimeUseCase
}

func NewFloorHandler(service runtime.RuntimeUseCase) *FloorHandler {
	return &FloorHandler{service: service}
}

func (h *FloorHandler) Register(router *gin.RouterGroup) {
	router.GET("/floor", h.floor)
}

type floorTableResponse struct {
	Table       tableResponse        `json:"table"`
	Status      string               `json:"status"`
	Overlay     string               `json:"overlay"`
	Reservation *reservationResponse `json:"reservation,omitempty"`
	SeatedSince *string              `json:"seated_since,omitempty"`
	StaffID     *string              `json:"staff_id,omitempty"`
}

type floorResponse struct {
	Tables     []floorTableResponse  `json:"tables"`
	Unassigned []reservationResponse `json:"unassigned_reservations"`
}

func (h *FloorHandler) floor(c *gin.Context) {
	venueID, ok := paramInt64(c, "venue_id")
	if !ok {
		return
	}

	view, err := h.service.FloorState(c.Request.Context(), venueID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := floorResponse{
		Tables:     make([]floorTableResponse, 0, len(view.Tables)),
		Unassigned: make([]reservationResponse, 0, len(view.Unassigned)),
	}
	for _, t := range view.Tables {
		entry := floorTableResponse{
			Table:   toTableResponse(&t.Resource),
			Status:  string(t.Status),
			Overlay: string(t.Overlay),
			StaffID: t.StaffID,
		}
		if t.Reservation != nil {
			r := toReservationResponse(t.Reservation)
			entry.Reservation = &r
		}
		if t.SeatedSince != nil {
			seated := t.SeatedSince.Format(time.RFC3339)
			entry.SeatedSince = &seated
		}
		resp.Tables = append(resp.Tables, entry)
	}
	for _, r := range view.Unassigned {
		resp.Unassigned = append(resp.Unassigned, toReservationResponse(&r))
	}

	c.JSON(http.StatusOK, resp)
}
