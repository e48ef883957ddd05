package diagnosis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/JaimeStill/casebook/pkg/fault"
)

// Generator produces differentials and educational content.
type Generator interface {
	Generate(ctx context.Context, req Request) ([]Candidate, error)
	Content(ctx context.Context, diagnosis string) (Content, error)
}

// Client calls the external generator over HTTP. It never retries.
type Client struct {
	http    *http.Client
	cfg     Config
	maxBody int64
	logger  *slog.Logger
}

// NewClient creates a generator client. A nil httpClient gets one with the
// configured timeout.
func NewClient(cfg *Config, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.TimeoutDuration()}
	}
	return &Client{
		http:    httpClient,
		cfg:     *cfg,
		maxBody: cfg.MaxResponseBytes(),
		logger:  logger.With("system", "diagnosis"),
	}
}

// Validate checks the generation input constraints.
func (r Request) Validate() error {
	return fault.Validate(validation.ValidateStruct(&r,
		validation.Field(&r.Region, validation.Required.Error("a body region is required")),
		validation.Field(&r.Symptoms, validation.Required.Error("at least one symptom is required")),
	))
}

// Generate requests a differential for req. Transport, status and decoding
// failures are GenerationErrors; an empty differential is not an error.
func (c *Client) Generate(ctx context.Context, req Request) ([]Candidate, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.Transcript == nil {
		req.Transcript = []Exchange{}
	}

	body, err := c.post(ctx, c.cfg.DiagnosesPath, req)
	if err != nil {
		return nil, err
	}

	candidates, err := Candidates(body)
	if err != nil {
		return nil, fault.Generation(err)
	}

	c.logger.InfoContext(ctx, "differential generated",
		"region", req.Region,
		"symptoms", len(req.Symptoms),
		"candidates", len(candidates),
	)
	return candidates, nil
}

// Content requests the educational block for a diagnosis name.
func (c *Client) Content(ctx context.Context, diagnosis string) (Content, error) {
	diagnosis = strings.TrimSpace(diagnosis)
	if diagnosis == "" {
		return Content{}, fault.Invalid("diagnosis", "a diagnosis name is required")
	}

	body, err := c.post(ctx, c.cfg.ContentPath, map[string]string{"diagnosis": diagnosis})
	if err != nil {
		return Content{}, err
	}

	content, err := ContentOf(body)
	if err != nil {
		return Content{}, fault.Generation(err)
	}

	c.logger.InfoContext(ctx, "content generated", "diagnosis", diagnosis)
	return content, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fault.Generation(fmt.Errorf("%w: encode request: %w", ErrUpstream, err))
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fault.Generation(fmt.Errorf("%w: %w", ErrUpstream, err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fault.Generation(fmt.Errorf("%w: %w", ErrUpstream, err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody))
	if err != nil {
		return "", fault.Generation(fmt.Errorf("%w: read response: %w", ErrUpstream, err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.WarnContext(ctx, "generator error status",
			"path", path,
			"status", resp.StatusCode,
		)
		return "", fault.Generation(fmt.Errorf("%w: %d", ErrUpstreamStatus, resp.StatusCode))
	}

	return string(body), nil
}
