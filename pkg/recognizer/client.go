// Package recognizer talks to the NLP server that hosts the pretrained NER
// models. The server loads models by name or path and exposes them over
// HTTP; nerkit never loads model weights itself.
package recognizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"github.com/google/uuid"

	"github.com/getzep/nerkit/internal"
	"github.com/getzep/nerkit/pkg/models"
)

var log = internal.GetLogger()

// Force compiler to validate that Client implements the BatchRecognizer interface.
var _ models.BatchRecognizer = &Client{}

const (
	entitiesPath = "/entities"
	healthPath   = "/healthz"

	aggregationSimple = "simple"
)

type Client struct {
	baseURL      string
	model        string
	language     string
	readyRetries int
	readyDelay   time.Duration
	readyMaxWait time.Duration
	http         *http.Client
}

type Option func(*Client)

// WithReadyBackoff sets the delay bounds used by WaitReady.
func WithReadyBackoff(delay, maxDelay time.Duration) Option {
	return func(cl *Client) {
		cl.readyDelay = delay
		cl.readyMaxWait = maxDelay
	}
}

// NewClient creates a Client for model, using the NLP server settings in
// the app config.
func NewClient(appState *models.AppState, model string, opts ...Option) *Client {
	nlp := appState.Config.NLP
	c := &Client{
		baseURL:      strings.TrimRight(nlp.ServerURL, "/"),
		model:        model,
		language:     nlp.Language,
		readyRetries: nlp.ReadyRetries,
		readyDelay:   500 * time.Millisecond,
		readyMaxWait: 10 * time.Second,
		http:         NewRetryableHTTPClient(nlp.RetryMax, nlp.Timeout),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Recognize returns the grouped entities the model finds in text.
func (c *Client) Recognize(ctx context.Context, text string) ([]models.Entity, error) {
	results, err := c.RecognizeBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return results[0], nil
}

// RecognizeBatch sends all texts in a single request. Empty texts are not
// sent and always yield no entities.
func (c *Client) RecognizeBatch(ctx context.Context, texts []string) ([][]models.Entity, error) {
	results := make([][]models.Entity, len(texts))

	ids := make(map[string]int, len(texts))
	records := make([]models.EntityRequestRecord, 0, len(texts))
	for i, text := range texts {
		if text == "" {
			continue
		}
		id := uuid.New().String()
		ids[id] = i
		records = append(records, models.EntityRequestRecord{
			UUID:     id,
			Text:     text,
			Language: c.language,
		})
	}
	if len(records) == 0 {
		return results, nil
	}

	jsonBody, err := json.Marshal(models.EntityRequest{
		Model:       c.model,
		Aggregation: aggregationSimple,
		Texts:       records,
	})
	if err != nil {
		return nil, fmt.Errorf("recognizer: marshal request: %w", err)
	}

	bodyBytes, err := c.post(ctx, c.baseURL+entitiesPath, jsonBody)
	if err != nil {
		return nil, err
	}

	var response models.EntityResponse
	if err := json.Unmarshal(bodyBytes, &response); err != nil {
		return nil, fmt.Errorf("recognizer: decode response: %w", err)
	}

	for _, r := range response.Texts {
		i, ok := ids[r.UUID]
		if !ok {
			return nil, fmt.Errorf("recognizer: response record %q does not match a pending request", r.UUID)
		}
		// each id is matched once; a repeated uuid fails the lookup above
		delete(ids, r.UUID)
		results[i] = r.Entities
	}
	if len(ids) > 0 {
		return nil, fmt.Errorf("recognizer: sent %d texts, %d got no result", len(records), len(ids))
	}

	log.Debugf("recognizer %s: %d texts processed", c.model, len(records))
	return results, nil
}

func (c *Client) post(ctx context.Context, url string, jsonBody []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("recognizer: request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		log.Errorf("Error making POST request: %s", err)
		return nil, fmt.Errorf("recognizer: %w: %v", models.ErrRecognizerUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &models.RecognizerError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("recognizer: read response: %w", err)
	}
	return bodyBytes, nil
}

// WaitReady blocks until the NLP server reports the model as loaded, retrying
// with backoff up to the configured number of times. With zero retries it
// returns immediately.
func (c *Client) WaitReady(ctx context.Context) error {
	if c.readyRetries == 0 {
		return nil
	}

	readyRetryPolicy := retrypolicy.Builder[any]().
		HandleErrors(models.ErrRecognizerUnavailable).
		WithBackoff(c.readyDelay, c.readyMaxWait).
		WithMaxRetries(c.readyRetries).
		Build()

	attempt := 0
	_, err := failsafe.Get(func() (any, error) {
		attempt++
		if attempt > 1 {
			log.Infof("waiting for NLP server to load %s (attempt %d)", c.model, attempt)
		}
		return nil, c.checkHealth(ctx)
	}, readyRetryPolicy)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %s not ready: %v", models.ErrRecognizerUnavailable, c.baseURL, err)
	}
	return nil
}

func (c *Client) checkHealth(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+healthPath, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", models.ErrRecognizerUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &models.RecognizerError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var health models.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return fmt.Errorf("recognizer: decode health: %w", err)
	}
	if health.Status != "ok" {
		return fmt.Errorf("%w: status %q", models.ErrRecognizerUnavailable, health.Status)
	}
	if len(health.Models) > 0 && !slices.Contains(health.Models, c.model) {
		return fmt.Errorf("%w: model %s not loaded", models.ErrRecognizerUnavailable, c.model)
	}
	return nil
}
