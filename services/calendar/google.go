package calendar

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"slotbook/models"
	"slotbook/utils"
)

// eventSummary tags every event this service writes so reconciliation can
// tell our events apart from ones created directly in the calendar UI.
const eventSummary = "Trial lesson"

// GoogleClient implements Client on top of the Google Calendar v3 API with
// service-account credentials.
type GoogleClient struct {
	svc    *gcal.Service
	logger *zap.Logger
}

// NewGoogleClient builds a calendar client from a service-account JSON file.
func NewGoogleClient(ctx context.Context, credentialsPath string) (*GoogleClient, error) {
	svc, err := gcal.NewService(ctx,
		option.WithCredentialsFile(credentialsPath),
		option.WithScopes(gcal.CalendarScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Calendar service: %w", err)
	}
	return &GoogleClient{svc: svc, logger: utils.GetLogger()}, nil
}

func (c *GoogleClient) ReadBusyIntervals(ctx context.Context, calendarID string, from, to time.Time) ([]models.TimeInterval, error) {
	events, err := c.svc.Events.List(calendarID).
		TimeMin(from.UTC().Format(time.RFC3339)).
		TimeMax(to.UTC().Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar events: %w", err)
	}

	var busy []models.TimeInterval
	for _, ev := range events.Items {
		iv, ok := eventInterval(ev)
		if !ok {
			// All-day events carry a Date instead of a DateTime; they block
			// nothing at slot granularity here.
			c.logger.Debug("skipping event without concrete times", zap.String("eventID", ev.Id))
			continue
		}
		busy = append(busy, iv)
	}
	return busy, nil
}

func (c *GoogleClient) WriteAppointment(ctx context.Context, calendarID string, interval models.TimeInterval, meta EventMetadata) (string, error) {
	summary := meta.Summary
	if summary == "" {
		summary = eventSummary
	}
	description := meta.Description
	if meta.OwnerID != "" {
		if description != "" {
			description += "\n"
		}
		description += fmt.Sprintf("Owner ID: %s", meta.OwnerID)
	}

	event := &gcal.Event{
		Summary:     summary,
		Description: description,
		Start: &gcal.EventDateTime{
			DateTime: interval.Start.UTC().Format(time.RFC3339),
			TimeZone: "UTC",
		},
		End: &gcal.EventDateTime{
			DateTime: interval.End.UTC().Format(time.RFC3339),
			TimeZone: "UTC",
		},
	}

	created, err := c.svc.Events.Insert(calendarID, event).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to insert calendar event: %w", err)
	}
	c.logger.Info("calendar event created", zap.String("eventID", created.Id))
	return created.Id, nil
}

func (c *GoogleClient) DeleteAppointment(ctx context.Context, calendarID, eventRef string) error {
	if err := c.svc.Events.Delete(calendarID, eventRef).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete calendar event %s: %w", eventRef, err)
	}
	c.logger.Info("calendar event deleted", zap.String("eventID", eventRef))
	return nil
}

func (c *GoogleClient) ListEventRefs(ctx context.Context, calendarID string, from, to time.Time) ([]string, error) {
	events, err := c.svc.Events.List(calendarID).
		TimeMin(from.UTC().Format(time.RFC3339)).
		TimeMax(to.UTC().Format(time.RFC3339)).
		Q(eventSummary).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar events: %w", err)
	}

	refs := make([]string, 0, len(events.Items))
	for _, ev := range events.Items {
		refs = append(refs, ev.Id)
	}
	return refs, nil
}

func eventInterval(ev *gcal.Event) (models.TimeInterval, bool) {
	if ev.Start == nil || ev.End == nil || ev.Start.DateTime == "" || ev.End.DateTime == "" {
		return models.TimeInterval{}, false
	}
	start, err := time.Parse(time.RFC3339, ev.Start.DateTime)
	if err != nil {
		return models.TimeInterval{}, false
	}
	end, err := time.Parse(time.RFC3339, ev.End.DateTime)
	if err != nil {
		return models.TimeInterval{}, false
	}
	iv, err := models.NewTimeInterval(start, end)
	if err != nil {
		return models.TimeInterval{}, false
	}
	return iv, true
}
