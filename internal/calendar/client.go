package calendar

import (
	"context"
	"fmt"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const listMaxResults = 100

// Client wraps the Google Calendar API for one calendar. A Client with a nil
// service is the unauthenticated state; Ready reports it.
type Client struct {
	srv        *gcal.Service
	calendarID string
}

// NewClient builds an authenticated client, running the OAuth consent flow
// if no cached token exists.
func NewClient(ctx context.Context, calendarID string) (*Client, error) {
	httpClient, err := AuthorizedHTTPClient(ctx)
	if err != nil {
		return nil, err
	}
	srv, err := gcal.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("build calendar service: %w", err)
	}
	return &Client{srv: srv, calendarID: calendarID}, nil
}

// NewClientIfReady is the non-interactive variant: it uses a cached token
// when one exists and otherwise returns an unauthenticated client instead of
// starting the consent flow.
func NewClientIfReady(ctx context.Context, calendarID string) *Client {
	httpClient, err := CachedHTTPClient(ctx)
	if err != nil {
		return &Client{calendarID: calendarID}
	}
	srv, err := gcal.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return &Client{calendarID: calendarID}
	}
	return &Client{srv: srv, calendarID: calendarID}
}

// Ready reports whether the client can talk to the API.
func (c *Client) Ready() bool { return c != nil && c.srv != nil }

// ListDay fetches the events whose occurrence falls on the given local day,
// recurring events expanded to that day's instances.
func (c *Client) ListDay(ctx context.Context, day time.Time) ([]Event, error) {
	if !c.Ready() {
		return nil, fmt.Errorf("calendar service not authenticated")
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 0, 1)

	result, err := c.srv.Events.List(c.calendarID).
		TimeMin(start.Format(time.RFC3339)).
		TimeMax(end.Format(time.RFC3339)).
		MaxResults(listMaxResults).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	// Expanded instances drop the recurrence rule; pull it from the master
	// event once per series so the UI can show "Repeats daily" etc.
	masters := map[string][]string{}
	for _, item := range result.Items {
		rid := item.RecurringEventId
		if rid == "" || len(item.Recurrence) > 0 {
			continue
		}
		if _, ok := masters[rid]; ok {
			continue
		}
		master, err := c.srv.Events.Get(c.calendarID, rid).Context(ctx).Do()
		if err != nil {
			masters[rid] = nil
			continue
		}
		masters[rid] = master.Recurrence
	}

	events := make([]Event, 0, len(result.Items))
	for _, item := range result.Items {
		if item.Id == "" {
			continue
		}
		recurrence := item.Recurrence
		if len(recurrence) == 0 && item.RecurringEventId != "" {
			recurrence = masters[item.RecurringEventId]
		}
		events = append(events, parseEvent(item, recurrence))
	}
	return events, nil
}

// Create inserts a new event. repeatDaily attaches a daily RRULE.
func (c *Client) Create(ctx context.Context, title, description string, start, end time.Time, repeatDaily bool) (*Event, error) {
	if !c.Ready() {
		return nil, fmt.Errorf("calendar service not authenticated")
	}

	body := &gcal.Event{
		Summary:     title,
		Description: description,
		Start:       &gcal.EventDateTime{DateTime: start.Format(time.RFC3339)},
		End:         &gcal.EventDateTime{DateTime: end.Format(time.RFC3339)},
	}
	if repeatDaily {
		body.Recurrence = []string{"RRULE:FREQ=DAILY"}
	}

	created, err := c.srv.Events.Insert(c.calendarID, body).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	ev := parseEvent(created, created.Recurrence)
	return &ev, nil
}

// Update patches title/description/times on an existing event. Zero-valued
// arguments leave the corresponding field unchanged.
func (c *Client) Update(ctx context.Context, eventID string, title, description string, start, end time.Time) (*Event, error) {
	if !c.Ready() {
		return nil, fmt.Errorf("calendar service not authenticated")
	}

	patch := &gcal.Event{}
	if title != "" {
		patch.Summary = title
	}
	if description != "" {
		patch.Description = description
	}
	if !start.IsZero() {
		patch.Start = &gcal.EventDateTime{DateTime: start.Format(time.RFC3339)}
	}
	if !end.IsZero() {
		patch.End = &gcal.EventDateTime{DateTime: end.Format(time.RFC3339)}
	}

	updated, err := c.srv.Events.Patch(c.calendarID, eventID, patch).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	ev := parseEvent(updated, updated.Recurrence)
	return &ev, nil
}

// Delete removes an event. For a recurring event id this removes only that
// occurrence.
func (c *Client) Delete(ctx context.Context, eventID string) error {
	if !c.Ready() {
		return fmt.Errorf("calendar service not authenticated")
	}
	if err := c.srv.Events.Delete(c.calendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func parseEvent(item *gcal.Event, recurrence []string) Event {
	ev := Event{
		ID:          item.Id,
		Title:       item.Summary,
		Description: item.Description,
		Recurrence:  SummarizeRecurrence(recurrence),
	}
	if ev.Title == "" {
		ev.Title = "No Title"
	}
	if item.Start != nil {
		if item.Start.DateTime != "" {
			if t, err := time.Parse(time.RFC3339, item.Start.DateTime); err == nil {
				ev.Start = t.Local()
			}
		} else if item.Start.Date != "" {
			if t, err := time.ParseInLocation("2006-01-02", item.Start.Date, time.Local); err == nil {
				ev.Start = t
				ev.AllDay = true
			}
		}
	}
	if item.End != nil {
		if item.End.DateTime != "" {
			if t, err := time.Parse(time.RFC3339, item.End.DateTime); err == nil {
				ev.End = t.Local()
			}
		} else if item.End.Date != "" {
			if t, err := time.ParseInLocation("2006-01-02", item.End.Date, time.Local); err == nil {
				ev.End = t
			}
		}
	}
	return ev
}
