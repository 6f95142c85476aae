package handler

// This file defines HTTP handlers for managers to maintain the booking
// book: create, edit, soft-delete and restore event bookings for the
// two halls.  Every mutation writes its audit row inside the repository
// transaction, publishes a booking.changed event for the operational
// log, and invalidates the alert snapshot so the console reflects the
// new picture on the next read.

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking-console/internal/model"
	"github.com/iliyamo/venue-booking-console/internal/queue"
	"github.com/iliyamo/venue-booking-console/internal/repository"
	"github.com/iliyamo/venue-booking-console/internal/service"
)

// BookingHandler groups the booking repository with the alert service
// that has to be refreshed after every mutation.
type BookingHandler struct {
	Bookings *repository.BookingRepo
	Alerts   *service.AlertService
}

func NewBookingHandler(b *repository.BookingRepo, a *service.AlertService) *BookingHandler {
	return &BookingHandler{Bookings: b, Alerts: a}
}

// ----- DTOs -----

type hallReq struct {
	HallCode   string `json:"hall_code"`
	Capacity   int    `json:"capacity"`
	GuestsHere int    `json:"guests_here"`
}

type advanceReq struct {
	Amount  int64  `json:"amount"`
	Method  string `json:"method"`
	Account string `json:"account"`
}

type bookingReq struct {
	Reference       string      `json:"reference"`
	EventDate       string      `json:"event_date"` // YYYY-MM-DD
	Slot            string      `json:"slot"`
	Status          string      `json:"status"`
	TotalGuests     *int        `json:"total_guests"`
	HallAGuests     *int        `json:"hall_a_guests"`
	HallBGuests     *int        `json:"hall_b_guests"`
	Halls           []hallReq   `json:"halls"`
	CustomerName    string      `json:"customer_name"`
	Phone           string      `json:"phone"`
	WhatsApp        string      `json:"whatsapp"`
	Address         string      `json:"address"`
	ContactRef      string      `json:"contact_ref"`
	HasPerformance  bool        `json:"has_performance"`
	PerformanceNote string      `json:"performance_note"`
	Advance         *advanceReq `json:"advance"`
}

type deleteReq struct {
	Reason string `json:"reason"`
}

// toModel validates the request body and converts it into a Booking.
func (req *bookingReq) toModel() (model.Booking, error) {
	if strings.TrimSpace(req.Reference) == "" {
		return model.Booking{}, errors.New("reference required")
	}
	date, err := time.ParseInLocation("2006-01-02", req.EventDate, time.UTC)
	if err != nil {
		return model.Booking{}, errors.New("event_date must be YYYY-MM-DD")
	}
	slot := model.Slot(strings.ToUpper(strings.TrimSpace(req.Slot)))
	if !model.ValidSlot(slot) {
		return model.Booking{}, errors.New("slot must be LUNCH or DINNER")
	}
	status := model.BookingStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if status == "" {
		status = model.StatusInquiry
	}
	if !model.ValidStatus(status) {
		return model.Booking{}, errors.New("unknown status")
	}
	b := model.Booking{
		Reference:       strings.TrimSpace(req.Reference),
		EventDate:       date,
		Slot:            slot,
		Status:          status,
		TotalGuests:     req.TotalGuests,
		HallAGuests:     req.HallAGuests,
		HallBGuests:     req.HallBGuests,
		CustomerName:    strings.TrimSpace(req.CustomerName),
		Phone:           strings.TrimSpace(req.Phone),
		WhatsApp:        strings.TrimSpace(req.WhatsApp),
		Address:         strings.TrimSpace(req.Address),
		ContactRef:      strings.TrimSpace(req.ContactRef),
		HasPerformance:  req.HasPerformance,
		PerformanceNote: strings.TrimSpace(req.PerformanceNote),
	}
	for _, h := range req.Halls {
		code := strings.ToUpper(strings.TrimSpace(h.HallCode))
		if code != "A" && code != "B" {
			return model.Booking{}, errors.New("hall_code must be A or B")
		}
		if h.GuestsHere < 0 || h.Capacity < 0 {
			return model.Booking{}, errors.New("hall guests and capacity must be non-negative")
		}
		b.Halls = append(b.Halls, model.HallAllocation{
			HallCode:   code,
			Capacity:   h.Capacity,
			GuestsHere: h.GuestsHere,
		})
	}
	if req.Advance != nil {
		if req.Advance.Amount < 0 {
			return model.Booking{}, errors.New("advance amount must be non-negative")
		}
		b.Advance = &model.AdvancePayment{
			Amount:  req.Advance.Amount,
			Method:  strings.TrimSpace(req.Advance.Method),
			Account: strings.TrimSpace(req.Advance.Account),
		}
	}
	return b, nil
}

// Create handles POST /v1/bookings.
func (h *BookingHandler) Create(c echo.Context) error {
	var req bookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	b, err := req.toModel()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	actor := actorLabel(c)
	if err := h.Bookings.Create(ctx, &b, actor); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
	}
	h.afterMutation(c, b, "CREATE", actor, "")
	return c.JSON(http.StatusCreated, b)
}

// Update handles PUT /v1/bookings/:id.
func (h *BookingHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req bookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	b, err := req.toModel()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	b.ID = id

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	actor := actorLabel(c)
	if err := h.Bookings.Update(ctx, &b, actor); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking is deleted"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update booking failed"})
	}
	h.afterMutation(c, b, "UPDATE", actor, "")
	return c.JSON(http.StatusOK, b)
}

// Delete handles DELETE /v1/bookings/:id (soft delete with a reason).
func (h *BookingHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req deleteReq
	_ = c.Bind(&req) // reason is optional

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	actor := actorLabel(c)
	if err := h.Bookings.SoftDelete(ctx, id, actor, strings.TrimSpace(req.Reason)); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking already deleted"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete booking failed"})
	}
	if b, err := h.Bookings.GetByID(ctx, id); err == nil {
		h.afterMutation(c, b, "DELETE", actor, req.Reason)
	}
	return c.NoContent(http.StatusNoContent)
}

// Restore handles POST /v1/bookings/:id/restore.
func (h *BookingHandler) Restore(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	actor := actorLabel(c)
	if err := h.Bookings.Restore(ctx, id, actor); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking is not deleted"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "restore booking failed"})
	}
	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load booking failed"})
	}
	h.afterMutation(c, b, "RESTORE", actor, "")
	return c.JSON(http.StatusOK, b)
}

// Get handles GET /v1/bookings/:id.
func (h *BookingHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load booking failed"})
	}
	return c.JSON(http.StatusOK, b)
}

// List handles GET /v1/bookings.  Soft-deleted bookings are included
// only with ?include_deleted=true.
func (h *BookingHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var (
		bookings []model.Booking
		err      error
	)
	if c.QueryParam("include_deleted") == "true" {
		bookings, err = h.Bookings.ListAll(ctx)
	} else {
		bookings, err = h.Bookings.ListActive(ctx)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load bookings failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items": bookings,
		"count": len(bookings),
	})
}

// Audit handles GET /v1/audit.
func (h *BookingHandler) Audit(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	entries, err := h.Bookings.ListAudit(ctx, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load audit log failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items": entries,
		"count": len(entries),
	})
}

// afterMutation publishes the change event and rebuilds the alert
// snapshot.  Both are best effort; the booking change itself has
// already committed.
func (h *BookingHandler) afterMutation(c echo.Context, b model.Booking, action, actor, detail string) {
	_ = service.PublishBookingChanged(c.Request().Context(), queue.BookingChangedEvent{
		BookingID: b.ID,
		Reference: b.Reference,
		Action:    action,
		Actor:     actor,
		EventDate: b.DateKey(),
		Slot:      string(b.Slot),
		Status:    string(b.Status),
		Detail:    detail,
		ChangedAt: time.Now().UTC().Format(time.RFC3339),
	})
	h.Alerts.Invalidate(c.Request().Context())
}
