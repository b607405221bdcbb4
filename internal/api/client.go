// Package api implements the REST client for the campus events backend.
//
// Requests are built with dghubble/sling against a deployment-provided
// base URL and executed on a single http.Client with a bounded timeout.
// There are no automatic retries: a timed-out call fails fast so callers
// never sit on a pending optimistic update.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/dghubble/sling"

	"github.com/cbruun/campus-events/internal/event"
)

// DefaultTimeout bounds every request issued by the client.
const DefaultTimeout = 10 * time.Second

// Client is a campus events API client.
type Client struct {
	base       *sling.Sling
	httpClient *http.Client
}

// NewClient creates a client for the given base URL (e.g.
// "http://localhost:8000").
func NewClient(baseURL string) *Client {
	return NewClientWithTimeout(baseURL, DefaultTimeout)
}

// NewClientWithTimeout creates a client with a custom request timeout.
func NewClientWithTimeout(baseURL string, timeout time.Duration) *Client {
	hc := &http.Client{Timeout: timeout}
	return &Client{
		base:       sling.New().Client(hc).Base(strings.TrimSuffix(baseURL, "/") + "/"),
		httpClient: hc,
	}
}

// listParams carries the viewer id so the backend can compute the
// per-viewer liked/RSVP'd flags.
type listParams struct {
	UserID string `url:"user_id,omitempty"`
}

type deleteParams struct {
	UserID string `url:"user_id"`
	Hard   bool   `url:"hard"`
}

// userRef is the body for membership toggles.
type userRef struct {
	UserID string `json:"user_id"`
}

// CreateRequest is the POST /events payload.
type CreateRequest struct {
	CreatorID     string   `json:"creatorID"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Location      string   `json:"location"`
	EventType     string   `json:"eventType"`
	EventAccess   string   `json:"eventAccess"`
	Images        *string  `json:"images"`
	StartDateTime string   `json:"startDateTime"`
	EndDateTime   string   `json:"endDateTime,omitempty"`
	RSVPRequired  bool     `json:"rsvpRequired"`
	IsPriced      bool     `json:"isPriced"`
	Cost          *float64 `json:"cost"`
	Categories    []string `json:"categories,omitempty"`
}

// UpdateRequest is the PUT /events/{id} payload. Every field except the
// updater id is optional; unset fields must be omitted entirely so the
// backend does not overwrite columns with empty placeholders.
type UpdateRequest struct {
	UpdaterID     string   `json:"updaterID"`
	Title         string   `json:"title,omitempty"`
	Description   string   `json:"description,omitempty"`
	Location      string   `json:"location,omitempty"`
	EventType     string   `json:"eventType,omitempty"`
	EventAccess   string   `json:"eventAccess,omitempty"`
	StartDateTime string   `json:"startDateTime,omitempty"`
	EndDateTime   string   `json:"endDateTime,omitempty"`
	RSVPRequired  *bool    `json:"rsvpRequired,omitempty"`
	IsPriced      *bool    `json:"isPriced,omitempty"`
	Cost          *float64 `json:"cost,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	ImageBase64   string   `json:"-"` // sent as a multipart field, never as JSON
}

type createResponse struct {
	EventID json.Number `json:"eventID"`
}

type likeResponse struct {
	Likes int `json:"likes"`
}

type rsvpResponse struct {
	RSVPs []json.Number `json:"rsvps"`
}

// ListEvents fetches all active events. When viewerID is non-empty the
// backend includes the viewer's liked/RSVP'd flags.
func (c *Client) ListEvents(ctx context.Context, viewerID string) ([]event.WireEvent, error) {
	var events []event.WireEvent
	s := c.base.New().Get("events").QueryStruct(&listParams{UserID: viewerID})
	if err := c.do(ctx, s, &events); err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	return events, nil
}

// GetEvent fetches a single event by id.
func (c *Client) GetEvent(ctx context.Context, id, viewerID string) (*event.WireEvent, error) {
	var evt event.WireEvent
	s := c.base.New().Get("events/"+id).QueryStruct(&listParams{UserID: viewerID})
	if err := c.do(ctx, s, &evt); err != nil {
		return nil, fmt.Errorf("fetching event %s: %w", id, err)
	}
	return &evt, nil
}

// CreateEvent creates an event and returns the server-assigned id.
func (c *Client) CreateEvent(ctx context.Context, req CreateRequest) (string, error) {
	var created createResponse
	s := c.base.New().Post("events").BodyJSON(&req)
	if err := c.do(ctx, s, &created); err != nil {
		return "", fmt.Errorf("creating event: %w", err)
	}
	if created.EventID.String() == "" {
		return "", fmt.Errorf("creating event: response missing eventID")
	}
	return created.EventID.String(), nil
}

// UpdateEvent updates an event. With an attached image the backend
// expects a multipart form (field name image_b64); otherwise plain JSON.
func (c *Client) UpdateEvent(ctx context.Context, id string, req UpdateRequest) error {
	if req.ImageBase64 != "" {
		if err := c.updateMultipart(ctx, id, req); err != nil {
			return fmt.Errorf("updating event %s: %w", id, err)
		}
		return nil
	}
	s := c.base.New().Put("events/" + id).BodyJSON(&req)
	if err := c.do(ctx, s, nil); err != nil {
		return fmt.Errorf("updating event %s: %w", id, err)
	}
	return nil
}

// DeleteEvent soft-deletes an event. The backend marks the row inactive;
// it disappears from the next ListEvents response.
func (c *Client) DeleteEvent(ctx context.Context, id, viewerID string) error {
	s := c.base.New().Delete("events/"+id).QueryStruct(&deleteParams{UserID: viewerID, Hard: false})
	if err := c.do(ctx, s, nil); err != nil {
		return fmt.Errorf("deleting event %s: %w", id, err)
	}
	return nil
}

// Like adds the viewer's like and returns the server-confirmed total.
func (c *Client) Like(ctx context.Context, id, viewerID string) (int, error) {
	return c.like(ctx, "POST", id, viewerID)
}

// Unlike removes the viewer's like and returns the server-confirmed total.
func (c *Client) Unlike(ctx context.Context, id, viewerID string) (int, error) {
	return c.like(ctx, "DELETE", id, viewerID)
}

func (c *Client) like(ctx context.Context, method, id, viewerID string) (int, error) {
	var out likeResponse
	path := "events/" + id + "/like"
	s := c.base.New().BodyJSON(&userRef{UserID: viewerID})
	if method == http.MethodDelete {
		s = s.Delete(path)
	} else {
		s = s.Post(path)
	}
	if err := c.do(ctx, s, &out); err != nil {
		return 0, fmt.Errorf("toggling like on %s: %w", id, err)
	}
	return out.Likes, nil
}

// RSVP adds the viewer's RSVP and returns the server-confirmed count.
func (c *Client) RSVP(ctx context.Context, id, viewerID string) (int, error) {
	return c.rsvp(ctx, "POST", id, viewerID)
}

// UnRSVP removes the viewer's RSVP and returns the server-confirmed count.
func (c *Client) UnRSVP(ctx context.Context, id, viewerID string) (int, error) {
	return c.rsvp(ctx, "DELETE", id, viewerID)
}

func (c *Client) rsvp(ctx context.Context, method, id, viewerID string) (int, error) {
	var out rsvpResponse
	path := "events/" + id + "/rsvp"
	s := c.base.New().BodyJSON(&userRef{UserID: viewerID})
	if method == http.MethodDelete {
		s = s.Delete(path)
	} else {
		s = s.Post(path)
	}
	if err := c.do(ctx, s, &out); err != nil {
		return 0, fmt.Errorf("toggling RSVP on %s: %w", id, err)
	}
	// The backend returns the RSVP'd account ids; the count is the length.
	return len(out.RSVPs), nil
}

// do builds the request, executes it with the shared client, and decodes
// the response. Non-2xx responses become *HTTPError with the backend's
// detail message when one can be parsed. A 2xx response with a malformed
// body is also reported as *HTTPError (empty detail) rather than a
// decode panic for the caller.
func (c *Client) do(ctx context.Context, s *sling.Sling, success interface{}) error {
	req, err := s.Request()
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req = req.WithContext(ctx)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		httpErr := &HTTPError{StatusCode: resp.StatusCode}
		var body apiError
		if decodeErr := json.NewDecoder(resp.Body).Decode(&body); decodeErr == nil {
			httpErr.Detail = body.Detail
		}
		return httpErr
	}

	if success == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(success); err != nil {
		return &HTTPError{StatusCode: resp.StatusCode}
	}
	return nil
}

// updateMultipart sends the update as a multipart form. sling has no
// multipart body provider, so the request is assembled by hand.
func (c *Client) updateMultipart(ctx context.Context, id string, req UpdateRequest) error {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	fields := map[string]string{
		"updaterID":     req.UpdaterID,
		"title":         req.Title,
		"description":   req.Description,
		"location":      req.Location,
		"eventType":     req.EventType,
		"eventAccess":   req.EventAccess,
		"startDateTime": req.StartDateTime,
		"endDateTime":   req.EndDateTime,
	}
	if req.RSVPRequired != nil {
		fields["rsvpRequired"] = fmt.Sprintf("%t", *req.RSVPRequired)
	}
	if req.IsPriced != nil {
		fields["isPriced"] = fmt.Sprintf("%t", *req.IsPriced)
	}
	if req.Cost != nil {
		fields["cost"] = fmt.Sprintf("%g", *req.Cost)
	}
	fields["image_b64"] = req.ImageBase64

	for name, value := range fields {
		if value == "" {
			// Unset fields are omitted, same as the JSON path.
			continue
		}
		if err := form.WriteField(name, value); err != nil {
			return fmt.Errorf("writing form field %s: %w", name, err)
		}
	}
	for _, cat := range req.Categories {
		if err := form.WriteField("categories", cat); err != nil {
			return fmt.Errorf("writing form field categories: %w", err)
		}
	}
	if err := form.Close(); err != nil {
		return fmt.Errorf("closing form: %w", err)
	}

	httpReq, err := c.base.New().
		Put("events/"+id).
		Body(&buf).
		Set("Content-Type", form.FormDataContentType()).
		Request()
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	httpReq = httpReq.WithContext(ctx)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		httpErr := &HTTPError{StatusCode: resp.StatusCode}
		var body apiError
		if decodeErr := json.NewDecoder(resp.Body).Decode(&body); decodeErr == nil {
			httpErr.Detail = body.Detail
		}
		return httpErr
	}
	return nil
}
