// Package booking scrapes the hotel's room-availability JSON API into
// natural-language text suitable for indexing.
package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SourceTag is the source label attached to availability documents.
const SourceTag = "API-Hotel"

// RequestError reports a non-success response from the booking API,
// carrying the upstream status code.
type RequestError struct {
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("booking API returned %d: %s", e.StatusCode, e.Body)
}

// Room is one room type in the availability response.
type Room struct {
	Name          string  `json:"name"`
	AvailableRoom int     `json:"available_room"`
	BedType       string  `json:"bed_type"`
	Offers        []Offer `json:"offers"`
}

// Offer is one rate plan for a room.
type Offer struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

// Availability is the parsed booking API response for one date range.
type Availability struct {
	Checkin  time.Time
	Checkout time.Time
	Rooms    []Room
}

// Config configures the booking API client.
type Config struct {
	URL     string
	Token   string
	Timeout time.Duration
}

// Client is an authenticated client for the room-availability endpoint.
type Client struct {
	url    string
	token  string
	client *http.Client
}

// NewClient creates a booking client. The bearer token comes from
// configuration, never from source.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		url:    cfg.URL,
		token:  cfg.Token,
		client: &http.Client{Timeout: timeout},
	}
}

// FetchAvailability requests room availability for the date range.
// checkin and checkout must be YYYY-MM-DD with checkin strictly before
// checkout; violations are reported as input errors before any request is
// made. Non-success upstream responses become a *RequestError.
func (c *Client) FetchAvailability(ctx context.Context, checkin, checkout, hotelID string) (*Availability, error) {
	in, err := ParseDate(checkin)
	if err != nil {
		return nil, err
	}
	out, err := ParseDate(checkout)
	if err != nil {
		return nil, err
	}
	if !in.Before(out) {
		return nil, fmt.Errorf("%w: checkin %s must be before checkout %s", ErrInvalidDateRange, checkin, checkout)
	}
	if hotelID == "" {
		return nil, fmt.Errorf("hotel id is required")
	}

	payload := map[string]string{
		"checkin":  checkin,
		"checkout": checkout,
		"id":       hotelID,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("booking API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &RequestError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(body))}
	}

	var decoded struct {
		Room []Room `json:"room"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode booking response: %w", err)
	}
	return &Availability{Checkin: in, Checkout: out, Rooms: decoded.Room}, nil
}
