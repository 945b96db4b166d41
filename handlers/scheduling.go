package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"slotbook/config"
	"slotbook/models"
	"slotbook/services/scheduling"
	"slotbook/utils"
)

const sessionTTL = 10 * time.Minute

// SchedulingHandler exposes the scheduling façade over HTTP. It translates
// transport shapes and error kinds only; every domain decision happens in
// the scheduling service.
type SchedulingHandler struct {
	Service scheduling.SchedulingService
	Cache   *redis.Client
	Logger  *zap.Logger
}

// NewSchedulingHandler constructs the handler with its collaborators.
func NewSchedulingHandler(svc scheduling.SchedulingService, cache *redis.Client, logger *zap.Logger) *SchedulingHandler {
	return &SchedulingHandler{Service: svc, Cache: cache, Logger: logger}
}

// GetAvailability returns the Free/Busy slot list for a date range.
func (h *SchedulingHandler) GetAvailability(c *gin.Context) {
	calendarID := c.Query("calendarId")
	from, err := parseDate(c.DefaultQuery("from", ""))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid from date", err.Error())
		return
	}
	to, err := parseDate(c.DefaultQuery("to", ""))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid to date", err.Error())
		return
	}
	opts := scheduling.ResolveOptions{IncludePast: c.Query("includePast") == "true"}

	result, err := h.Service.ListAvailability(c.Request.Context(), calendarID, scheduling.DateRange{From: from, To: to}, opts)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// StartBookingSession resolves availability and caches a short-lived
// session so a chat flow can present slots and confirm one later.
func (h *SchedulingHandler) StartBookingSession(c *gin.Context) {
	var input struct {
		CalendarID string `json:"calendarId" binding:"required"`
		OwnerID    string `json:"ownerId" binding:"required"`
		Days       int    `json:"days"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	days := sessionWindowDays(input.Days)

	// The original flow offers slots starting tomorrow.
	from := time.Now().AddDate(0, 0, 1)
	rng := scheduling.DateRange{From: from, To: from.AddDate(0, 0, days-1)}
	result, err := h.Service.ListAvailability(c.Request.Context(), input.CalendarID, rng, scheduling.ResolveOptions{})
	if err != nil {
		h.respondError(c, err)
		return
	}

	session := models.BookingSession{
		SessionID:    uuid.New().String(),
		CalendarID:   input.CalendarID,
		OwnerID:      input.OwnerID,
		Availability: result.FreeSlots(),
	}
	sessionData, err := json.Marshal(session)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to marshal booking session", err.Error())
		return
	}

	ctx := context.Background()
	if err := h.Cache.Set(ctx, session.SessionID, sessionData, sessionTTL).Err(); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to cache booking session", err.Error())
		return
	}

	c.JSON(http.StatusOK, models.BookingResponse{
		SessionID:    session.SessionID,
		Availability: session.Availability,
	})
}

// ConfirmBooking books the chosen slot from a cached session. The ledger
// re-validates the interval regardless of what the session offered.
func (h *SchedulingHandler) ConfirmBooking(c *gin.Context) {
	sessionID := c.Param("sessionID")
	var input struct {
		Start time.Time `json:"start" binding:"required"`
		End   time.Time `json:"end" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	ctx := context.Background()
	sessionData, err := h.Cache.Get(ctx, sessionID).Result()
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "booking session not found or expired", "")
		return
	}
	var session models.BookingSession
	if err := json.Unmarshal([]byte(sessionData), &session); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to parse booking session", err.Error())
		return
	}

	appt, err := h.Service.Book(c.Request.Context(), session.CalendarID, session.OwnerID, input.Start, input.End)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.Cache.Del(ctx, sessionID).Err(); err != nil {
		h.Logger.Warn("failed to drop booking session", zap.String("sessionID", sessionID), zap.Error(err))
	}

	public := models.ToPublicAppointmentData(appt)
	c.JSON(http.StatusOK, models.BookingResponse{Appointment: &public})
}

// BookAppointment books directly without a session (admin flows).
func (h *SchedulingHandler) BookAppointment(c *gin.Context) {
	var input struct {
		CalendarID string    `json:"calendarId" binding:"required"`
		OwnerID    string    `json:"ownerId" binding:"required"`
		Start      time.Time `json:"start" binding:"required"`
		End        time.Time `json:"end" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	appt, err := h.Service.Book(c.Request.Context(), input.CalendarID, input.OwnerID, input.Start, input.End)
	if err != nil {
		h.respondError(c, err)
		return
	}
	public := models.ToPublicAppointmentData(appt)
	c.JSON(http.StatusOK, models.BookingResponse{Appointment: &public})
}

// RescheduleAppointment moves an appointment to a new interval.
func (h *SchedulingHandler) RescheduleAppointment(c *gin.Context) {
	apptID := c.Param("appointmentID")
	var input struct {
		CalendarID string    `json:"calendarId" binding:"required"`
		Start      time.Time `json:"start" binding:"required"`
		End        time.Time `json:"end" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	appt, err := h.Service.Reschedule(c.Request.Context(), input.CalendarID, apptID, input.Start, input.End)
	if err != nil {
		h.respondError(c, err)
		return
	}
	public := models.ToPublicAppointmentData(appt)
	c.JSON(http.StatusOK, models.BookingResponse{Appointment: &public})
}

// CancelAppointment cancels an appointment.
func (h *SchedulingHandler) CancelAppointment(c *gin.Context) {
	apptID := c.Param("appointmentID")
	calendarID := c.Query("calendarId")

	appt, err := h.Service.Cancel(c.Request.Context(), calendarID, apptID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	public := models.ToPublicAppointmentData(appt)
	c.JSON(http.StatusOK, models.BookingResponse{Appointment: &public})
}

// ListOwnerAppointments returns an owner's appointments, cancelled included.
func (h *SchedulingHandler) ListOwnerAppointments(c *gin.Context) {
	calendarID := c.Query("calendarId")
	ownerID := c.Query("ownerId")

	appts, err := h.Service.ListOwnerAppointments(c.Request.Context(), calendarID, ownerID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	public := make([]models.PublicAppointmentData, 0, len(appts))
	for _, a := range appts {
		public = append(public, models.ToPublicAppointmentData(a))
	}
	c.JSON(http.StatusOK, gin.H{"appointments": public})
}

// respondError maps domain error kinds onto HTTP statuses.
func (h *SchedulingHandler) respondError(c *gin.Context, err error) {
	var (
		validationErr   *scheduling.ValidationError
		conflictErr     *scheduling.ConflictError
		notFoundErr     *scheduling.NotFoundError
		collaboratorErr *scheduling.CollaboratorError
	)
	switch {
	case errors.As(err, &validationErr):
		utils.JSONError(c, http.StatusBadRequest, "validation failed", validationErr.Error())
	case errors.As(err, &conflictErr):
		utils.JSONError(c, http.StatusConflict, "slot unavailable", conflictErr.Error())
	case errors.As(err, &notFoundErr):
		utils.JSONError(c, http.StatusNotFound, "appointment not found", notFoundErr.Error())
	case errors.As(err, &collaboratorErr):
		utils.JSONError(c, http.StatusServiceUnavailable, "external service unavailable, please retry", collaboratorErr.Error())
	case errors.Is(err, scheduling.ErrLedgerFenced):
		utils.JSONError(c, http.StatusServiceUnavailable, "calendar requires reconciliation", err.Error())
	default:
		h.Logger.Error("unexpected scheduling error", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "internal error", "")
	}
}

// sessionWindowDays picks the availability window for a new booking
// session: the caller's day count when given, else the configured default.
func sessionWindowDays(requested int) int {
	if requested > 0 {
		return requested
	}
	if d := config.AppConfig.BookingWindowDays; d > 0 {
		return d
	}
	return 7
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	return time.Parse("2006-01-02", s)
}
