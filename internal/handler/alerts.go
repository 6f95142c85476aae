package handler

// This file defines the read and resolution surface over the derived
// alert list: the alerts page with its filter chips and free-text
// search, the dashboard summary, per-booking alert panels, the
// booking-form live preview, and the resolve/dismiss/reopen calls.

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking-console/internal/alert"
	"github.com/iliyamo/venue-booking-console/internal/model"
	"github.com/iliyamo/venue-booking-console/internal/service"
)

// AlertHandler serves the merged alert list maintained by the alert
// service.  All reads come from the in-memory snapshot; mutations go
// through the resolution store and show up on the next read.
type AlertHandler struct {
	Alerts *service.AlertService
}

func NewAlertHandler(a *service.AlertService) *AlertHandler {
	return &AlertHandler{Alerts: a}
}

type noteReq struct {
	Note string `json:"note"`
}

// List handles GET /v1/alerts with the alerts-page filters:
//
//	status     ACTIVE (default) | ALL | RESOLVED | DISMISSED
//	severity   critical | warning | info
//	type       one of the alert type names
//	booking_id numeric booking filter
//	q          free-text search over title/message/sub/date/booking
//
// Results are sorted most severe first.
func (h *AlertHandler) List(c echo.Context) error {
	merged := h.Alerts.Current()

	status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status")))
	if status == "" {
		status = string(alert.StatusActive)
	}
	severity := strings.ToLower(strings.TrimSpace(c.QueryParam("severity")))
	alertType := strings.ToUpper(strings.TrimSpace(c.QueryParam("type")))
	q := strings.ToLower(strings.TrimSpace(c.QueryParam("q")))
	var bookingID uint64
	if raw := c.QueryParam("booking_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking_id"})
		}
		bookingID = id
	}

	out := make([]alert.AlertWithResolution, 0, len(merged))
	for _, a := range merged {
		if status != "ALL" && string(a.EffectiveStatus) != status {
			continue
		}
		if severity != "" && string(a.Severity) != severity {
			continue
		}
		if alertType != "" && string(a.Type) != alertType {
			continue
		}
		if bookingID != 0 && (a.BookingID == nil || *a.BookingID != bookingID) {
			continue
		}
		if q != "" && !matchesQuery(a, q) {
			continue
		}
		out = append(out, a)
	}
	alert.SortBySeverity(out)

	return c.JSON(http.StatusOK, echo.Map{
		"items":        out,
		"count":        len(out),
		"refreshed_at": h.Alerts.RefreshedAt(),
	})
}

// Dashboard handles GET /v1/dashboard/alerts: the top five active
// alerts, most severe first, for the console landing page.
func (h *AlertHandler) Dashboard(c echo.Context) error {
	merged := h.Alerts.Current()
	active := make([]alert.AlertWithResolution, 0, len(merged))
	for _, a := range merged {
		if a.EffectiveStatus == alert.StatusActive {
			active = append(active, a)
		}
	}
	alert.SortBySeverity(active)
	if len(active) > 5 {
		active = active[:5]
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items":        active,
		"count":        len(active),
		"refreshed_at": h.Alerts.RefreshedAt(),
	})
}

// ForBooking handles GET /v1/bookings/:id/alerts: active alerts scoped
// to one booking for the detail page.
func (h *AlertHandler) ForBooking(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	out := h.Alerts.ForBooking(id)
	return c.JSON(http.StatusOK, echo.Map{"items": out, "count": len(out)})
}

// Preview handles GET /v1/alerts/preview?date=YYYY-MM-DD&slot=DINNER:
// the live preview shown while composing a booking for that slot.
func (h *AlertHandler) Preview(c echo.Context) error {
	dateKey := strings.TrimSpace(c.QueryParam("date"))
	if dateKey == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date required"})
	}
	slot := model.Slot(strings.ToUpper(strings.TrimSpace(c.QueryParam("slot"))))
	if !model.ValidSlot(slot) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "slot must be LUNCH or DINNER"})
	}
	out := h.Alerts.ForSlot(dateKey, slot)
	return c.JSON(http.StatusOK, echo.Map{"items": out, "count": len(out)})
}

// Resolve handles POST /v1/alerts/:id/resolve.  Resolving an id that no
// longer occurs in the current list is fine; the record simply waits
// for the id to recur.
func (h *AlertHandler) Resolve(c echo.Context) error {
	alertID := c.Param("id")
	if alertID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "alert id required"})
	}
	var req noteReq
	_ = c.Bind(&req) // note is optional
	h.Alerts.Resolve(c.Request().Context(), alertID, req.Note)
	return c.NoContent(http.StatusNoContent)
}

// Dismiss handles POST /v1/alerts/:id/dismiss.
func (h *AlertHandler) Dismiss(c echo.Context) error {
	alertID := c.Param("id")
	if alertID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "alert id required"})
	}
	var req noteReq
	_ = c.Bind(&req)
	h.Alerts.Dismiss(c.Request().Context(), alertID, req.Note)
	return c.NoContent(http.StatusNoContent)
}

// Reopen handles POST /v1/alerts/:id/reopen.
func (h *AlertHandler) Reopen(c echo.Context) error {
	alertID := c.Param("id")
	if alertID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "alert id required"})
	}
	h.Alerts.Reopen(c.Request().Context(), alertID)
	return c.NoContent(http.StatusNoContent)
}

// matchesQuery reports whether the free-text query hits any of the
// searchable alert fields: title, message, sub, date key or the linked
// booking id.
func matchesQuery(a alert.AlertWithResolution, q string) bool {
	if strings.Contains(strings.ToLower(a.Title), q) ||
		strings.Contains(strings.ToLower(a.Message), q) ||
		strings.Contains(strings.ToLower(a.Sub), q) ||
		strings.Contains(a.DateKey, q) {
		return true
	}
	if a.BookingID != nil && strings.Contains(strconv.FormatUint(*a.BookingID, 10), q) {
		return true
	}
	return false
}
