package models

// AskRequest is the body for /ask-rag and /ask-no-rag. History is a free-text
// transcript of prior user turns supplied by the caller; when empty and
// SessionID is set, the transcript is rebuilt from the session store.
type AskRequest struct {
	Query     string `json:"query"`
	History   string `json:"history,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// BookingIngestRequest is the body for /indexing-url: a check-in/check-out
// date pair (YYYY-MM-DD) and the hotel identifier for the booking API.
type BookingIngestRequest struct {
	Checkin  string `json:"checkin"`
	Checkout string `json:"checkout"`
	HotelID  string `json:"hotel_id"`
}
