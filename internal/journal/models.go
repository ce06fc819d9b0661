package journal

import "time"

// Outcome values mirror services.Outcome.
const (
	OutcomeOK             = "ok"
	OutcomeTransportError = "transport_error"
	OutcomeDecodeError    = "decode_error"
)

// Entry is one notify attempt. Nil notice fields were absent from the request.
type Entry struct {
	ID         string        `json:"id"`
	CreatedAt  time.Time     `json:"created_at"`
	Endpoint   string        `json:"endpoint"`
	URL        string        `json:"url"`
	Status     *string       `json:"status,omitempty"`
	PType      *string       `json:"ptype,omitempty"`
	UID        *string       `json:"uid,omitempty"`
	VidName    *string       `json:"vidname,omitempty"`
	FSType     string        `json:"fstype"`
	Outcome    string        `json:"outcome"`
	StatusCode int           `json:"status_code,omitempty"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration_ns"`
}

// Filter narrows List results.
type Filter struct {
	// VidName matches video names after Unicode normalization and case
	// folding, so precomposed and decomposed Hangul compare equal.
	VidName string
	// Limit caps the number of rows; zero means no cap.
	Limit int
}
