package synergy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Cxsmxnaut/Gradely/internal/config"
	"github.com/Cxsmxnaut/Gradely/internal/logger"
	"github.com/Cxsmxnaut/Gradely/internal/model"
	pkgerrors "github.com/Cxsmxnaut/Gradely/pkg/errors"
)

// Client fetches raw gradebook, attendance and student records from the
// upstream school information system. Fetch failures always propagate;
// the core never substitutes placeholder data for a failed fetch.
type Client struct {
	cfg         *config.Config
	httpClient  *http.Client
	authManager *AuthManager
	log         zerolog.Logger
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Synergy.Timeout,
		},
		authManager: NewAuthManager(cfg),
		log:         logger.With("synergy"),
	}
}

// FetchGradebook returns the raw course records for the student the
// credentials belong to.
func (c *Client) FetchGradebook(ctx context.Context, creds model.Credentials) (model.RawGradebook, error) {
	var gradebook model.RawGradebook
	if err := c.get(ctx, creds, c.cfg.Synergy.GradebookEndpoint, &gradebook); err != nil {
		return model.RawGradebook{}, err
	}
	c.log.Debug().Str("user_id", creds.UserID).Int("courses", len(gradebook.Courses)).Msg("Fetched gradebook")
	return gradebook, nil
}

func (c *Client) FetchAttendance(ctx context.Context, creds model.Credentials) (model.RawAttendance, error) {
	var attendance model.RawAttendance
	if err := c.get(ctx, creds, c.cfg.Synergy.AttendanceEndpoint, &attendance); err != nil {
		return model.RawAttendance{}, err
	}
	return attendance, nil
}

func (c *Client) FetchStudent(ctx context.Context, creds model.Credentials) (model.Student, error) {
	var student model.Student
	if err := c.get(ctx, creds, c.cfg.Synergy.StudentEndpoint, &student); err != nil {
		return model.Student{}, err
	}
	return student, nil
}

func (c *Client) get(ctx context.Context, creds model.Credentials, endpoint string, out interface{}) error {
	token, err := c.authManager.GetToken(ctx, creds)
	if err != nil {
		return pkgerrors.NewRetryableError(err, "failed to get auth token")
	}

	url := baseURL(c.cfg, creds) + endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.NewRetryableError(err, "HTTP request failed")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	case http.StatusUnauthorized:
		// Token might be expired, retry will refresh it
		c.authManager.Invalidate(creds.UserID)
		return pkgerrors.NewRetryableError(pkgerrors.ErrAuthenticationFailed, "authentication failed")
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return pkgerrors.NewRetryableError(pkgerrors.ErrUpstreamUnavailable, "upstream unavailable")
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("upstream returned status %d: %s", resp.StatusCode, string(body))
	}
}
