// Package smoke replays the reference user scenario against a running
// server and reports the first response that does not match.
//
// The scenario mutates the directory (it creates Zoe, updates Paul and
// deletes Rob), so it expects a freshly started server with the default
// seed.
package smoke

import "time"

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL string        // Base URL of the service
	Timeout time.Duration // HTTP request timeout
	Verbose bool          // Log every step, not only failures
}

// User mirrors the JSON record returned by the service.
type User struct {
	Name       string `json:"name"`
	Age        string `json:"age"`
	Occupation string `json:"occupation"`
}

// Step is one request of the scenario and what the server must answer.
type Step struct {
	Method string
	Path   string
	Form   map[string]string // sent form-encoded when non-nil

	WantStatus int
	WantText   string // exact plain-text body, when set
	WantUser   *User  // exact JSON record, when set
}

// Result is the outcome of a single step.
type Result struct {
	Step   Step
	Status int
	Body   string
	Err    error
}

// Stats holds run statistics.
type Stats struct {
	Steps     int
	Passed    int
	StartTime time.Time
	Duration  time.Duration
}
