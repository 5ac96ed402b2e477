package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const requestTimeout = 30 * time.Second

// Client talks to the report/task backend. It is safe for use from the UI
// goroutine and from fetch goroutines; it holds no mutable state of its own.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a Client for the service at baseURL (scheme and host, no
// trailing slash required).
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string `json:"message"`
}

type updateStatusRequest struct {
	NewStatus string `json:"new_status"`
}

// Login verifies the credentials with the backend and returns the server's
// message on success. Any non-2xx response or transport failure comes back
// wrapped in ErrAuth; no identity is established here.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	body, err := json.Marshal(loginRequest{Username: username, Password: password})
	if err != nil {
		return "", fmt.Errorf("%w: encoding credentials: %w", ErrAuth, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAuth, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAuth, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: server returned %s", ErrAuth, resp.Status)
	}

	var lr loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return "", fmt.Errorf("%w: decoding login response: %w", ErrAuth, err)
	}

	return lr.Message, nil
}

// FetchTasks loads the full task collection. Records missing required fields
// are dropped and logged rather than handed to the views.
func (c *Client) FetchTasks(ctx context.Context) ([]Task, error) {
	var tasks []Task
	if err := c.get(ctx, "/fetch-tasks", &tasks); err != nil {
		return nil, fmt.Errorf("%w: tasks: %w", ErrFetch, err)
	}

	valid := tasks[:0]

	for _, t := range tasks {
		if err := t.validate(); err != nil {
			log.Warn().Err(err).Msg("dropping malformed task record")

			continue
		}

		valid = append(valid, t)
	}

	return valid, nil
}

// FetchReports loads the full report collection, dropping malformed records.
func (c *Client) FetchReports(ctx context.Context) ([]Report, error) {
	var reports []Report
	if err := c.get(ctx, "/fetch-reports", &reports); err != nil {
		return nil, fmt.Errorf("%w: reports: %w", ErrFetch, err)
	}

	valid := reports[:0]

	for _, r := range reports {
		if err := r.validate(); err != nil {
			log.Warn().Err(err).Msg("dropping malformed report record")

			continue
		}

		valid = append(valid, r)
	}

	return valid, nil
}

// UpdateStatus asks the backend to move the task with the given id to status.
// The caller re-fetches on success; the response body is not trusted to carry
// the new task state.
func (c *Client) UpdateStatus(ctx context.Context, taskID int, status string) error {
	path := fmt.Sprintf("/update-status/%d", taskID)
	if err := c.send(ctx, http.MethodPut, path, updateStatusRequest{NewStatus: status}); err != nil {
		return fmt.Errorf("%w: task %d to %q: %w", ErrUpdate, taskID, status, err)
	}

	return nil
}

// SubmitReport creates a new report.
func (c *Client) SubmitReport(ctx context.Context, report Report) error {
	if err := c.send(ctx, http.MethodPost, "/submit-report", report); err != nil {
		return fmt.Errorf("%w: report %q: %w", ErrSubmit, report.ReportTitle, err)
	}

	return nil
}

// SubmitTask creates a new task.
func (c *Client) SubmitTask(ctx context.Context, task Task) error {
	if err := c.send(ctx, http.MethodPost, "/submit-task", task); err != nil {
		return fmt.Errorf("%w: task %q: %w", ErrSubmit, task.Title, err)
	}

	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}

	return nil
}

func (c *Client) send(ctx context.Context, method, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("server returned %s", resp.Status)
	}

	return nil
}
