package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	pkgerrors "github.com/lodestone-app/lodestone-backend/internal/pkg/errors"
	"github.com/lodestone-app/lodestone-backend/internal/platform/logger"
	"github.com/lodestone-app/lodestone-backend/internal/utils"
)

// EmbedClient is the external embedding provider. Unavailability is reported
// as pkgerrors.ErrProviderUnavailable so callers can degrade instead of
// failing; only malformed input or responses produce plain errors.
type EmbedClient interface {
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
	Model() string
}

type embedClient struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	maxRetries int
	tracer     trace.Tracer
}

func NewEmbedClient(log *logger.Logger) EmbedClient {
	baseURL := utils.GetEnv("EMBED_BASE_URL", "http://localhost:11434", log)
	apiKey := utils.GetEnv("EMBED_API_KEY", "", log)
	model := utils.GetEnv("EMBED_MODEL", "nomic-embed-text", log)
	timeoutSec := utils.GetEnvAsInt("EMBED_TIMEOUT_SECONDS", 30, log)
	maxRetries := utils.GetEnvAsInt("EMBED_MAX_RETRIES", 3, log)

	return &embedClient{
		log:        log.With("service", "EmbedClient"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		maxRetries: maxRetries,
		tracer:     otel.Tracer("lodestone/embed"),
	}
}

func (c *embedClient) Model() string { return c.model }

type embedHTTPError struct {
	StatusCode int
	Body       string
}

func (e *embedHTTPError) Error() string {
	return fmt.Sprintf("embed provider http %d: %s", e.StatusCode, e.Body)
}

func isRetryable(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var httpErr *embedHTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusTooManyRequests ||
			httpErr.StatusCode == http.StatusRequestTimeout ||
			httpErr.StatusCode >= 500
	}
	return false
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

func (c *embedClient) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	if len(inputs) == 0 {
		return [][]float32{}, nil
	}
	for _, in := range inputs {
		if in == "" {
			return nil, fmt.Errorf("embed input must not be empty")
		}
	}

	ctx, span := c.tracer.Start(ctx, "embed.provider.request", trace.WithAttributes(
		attribute.String("embed.model", c.model),
		attribute.Int("embed.input_count", len(inputs)),
	))
	defer span.End()

	var resp embedResponse
	if err := c.do(ctx, &embedRequest{Model: c.model, Input: inputs}, &resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "provider call failed")
		return nil, err
	}

	out := make([][]float32, len(inputs))
	for _, d := range resp.Data {
		vec := make([]float32, len(d.Embedding))
		for i, f := range d.Embedding {
			vec[i] = float32(f)
		}
		if d.Index >= 0 && d.Index < len(out) {
			out[d.Index] = vec
		}
	}
	for i := range out {
		if out[i] == nil {
			return nil, fmt.Errorf("missing embedding for index %d", i)
		}
	}
	return out, nil
}

func (c *embedClient) do(ctx context.Context, reqBody *embedRequest, out any) error {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return err
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * 500 * time.Millisecond
			backoff += time.Duration(rand.Int63n(int64(backoff / 2)))
			select {
			case <-ctx.Done():
				return fmt.Errorf("%w: %v", pkgerrors.ErrProviderUnavailable, ctx.Err())
			case <-time.After(backoff):
			}
		}

		lastErr = c.once(ctx, payload, out)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil || !isRetryable(lastErr) {
			break
		}
		c.log.Debug("embed call failed, retrying", "attempt", attempt, "error", lastErr)
	}

	if isRetryable(lastErr) || ctx.Err() != nil {
		return fmt.Errorf("%w: %v", pkgerrors.ErrProviderUnavailable, lastErr)
	}
	return lastErr
}

func (c *embedClient) once(ctx context.Context, payload []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/embeddings", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return &embedHTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return json.Unmarshal(body, out)
}
