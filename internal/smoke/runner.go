package smoke

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/okian/userdir/pkg/logger"
)

// ErrMismatch marks a step whose response differed from the expectation.
var ErrMismatch = errors.New("unexpected response")

// Scenario returns the reference walk through the four operations.
func Scenario() []Step {
	return []Step{
		{Method: http.MethodGet, Path: "/user/Nick", WantStatus: http.StatusOK,
			WantUser: &User{Name: "Nick", Age: "20", Occupation: "Postman"}},
		{Method: http.MethodGet, Path: "/user/Zoe", WantStatus: http.StatusNotFound,
			WantText: "User not found"},
		{Method: http.MethodPost, Path: "/user/Zoe/occupation/Artist", Form: map[string]string{"age": "30"},
			WantStatus: http.StatusCreated, WantUser: &User{Name: "Zoe", Age: "30", Occupation: "Artist"}},
		{Method: http.MethodPost, Path: "/user/Zoe/occupation/Artist", Form: map[string]string{"age": "30"},
			WantStatus: http.StatusBadRequest, WantText: "User with name Zoe already exists"},
		{Method: http.MethodPut, Path: "/user/Paul", Form: map[string]string{"age": "26", "occupation": "Surgeon"},
			WantStatus: http.StatusOK, WantUser: &User{Name: "Paul", Age: "26", Occupation: "Surgeon"}},
		{Method: http.MethodDelete, Path: "/user/Rob", WantStatus: http.StatusOK,
			WantText: "Rob is deleted."},
		{Method: http.MethodGet, Path: "/user/Rob", WantStatus: http.StatusNotFound,
			WantText: "User not found"},
	}
}

// Run checks the service is up, then executes steps in order and stops at
// the first mismatch.
func Run(ctx context.Context, config *Config, steps []Step) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()
	client := newHTTPClient(config.BaseURL, config.Timeout)

	log.Info(ctx, "starting user directory smoke test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("steps", len(steps)),
		logger.String("timeout", config.Timeout.String()))

	if err := checkServiceHealth(ctx, client); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	for i, step := range steps {
		stats.Steps++
		res := runStep(ctx, client, step)
		if res.Err != nil {
			log.Error(ctx, "step failed",
				logger.Int("step", i+1),
				logger.String("method", step.Method),
				logger.String("path", step.Path),
				logger.Int("status", res.Status),
				logger.String("body", res.Body),
				logger.Error(res.Err))
			stats.Duration = time.Since(stats.StartTime)
			return stats, fmt.Errorf("step %d %s %s: %w", i+1, step.Method, step.Path, res.Err)
		}
		stats.Passed++
		if config.Verbose {
			log.Info(ctx, "step passed",
				logger.Int("step", i+1),
				logger.String("method", step.Method),
				logger.String("path", step.Path),
				logger.Int("status", res.Status),
				logger.String("body", res.Body))
		}
	}

	stats.Duration = time.Since(stats.StartTime)
	log.Info(ctx, "smoke test passed",
		logger.Int("steps", stats.Steps),
		logger.String("duration", stats.Duration.String()))
	return stats, nil
}

func runStep(ctx context.Context, client *HTTPClient, step Step) Result {
	status, body, err := client.Do(ctx, step.Method, step.Path, step.Form)
	res := Result{Step: step, Status: status, Body: body, Err: err}
	if err != nil {
		return res
	}
	res.Err = verify(step, status, body)
	return res
}

func verify(step Step, status int, body string) error {
	if status != step.WantStatus {
		return fmt.Errorf("%w: status %d, want %d", ErrMismatch, status, step.WantStatus)
	}
	if step.WantText != "" && body != step.WantText {
		return fmt.Errorf("%w: body %q, want %q", ErrMismatch, body, step.WantText)
	}
	if step.WantUser != nil {
		var got User
		if err := json.Unmarshal([]byte(body), &got); err != nil {
			return fmt.Errorf("%w: body is not a user record: %w", ErrMismatch, err)
		}
		if got != *step.WantUser {
			return fmt.Errorf("%w: user %+v, want %+v", ErrMismatch, got, *step.WantUser)
		}
	}
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	status, _, err := client.Do(ctx, http.MethodGet, "/healthz", nil)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	// Any 200 counts; the body is Prometheus metrics.
	if status != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", status)
	}
	return nil
}
