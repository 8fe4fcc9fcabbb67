package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pawkit-ai/pawkit-backend/internal/payload"
)

// StepRequest is the wire contract with the generation backend: one POST per
// step carrying the job identity plus the accumulated envelope.
type StepRequest struct {
	JobID    uint                `json:"jobId"`
	OrderID  string              `json:"orderId,omitempty"`
	UserID   string              `json:"userId"`
	BrandID  string              `json:"brandId,omitempty"`
	Step     string              `json:"step"`
	Payload  json.RawMessage     `json:"payload,omitempty"`
	Metadata map[string]any      `json:"metadata,omitempty"`
	History  []payload.StepEvent `json:"history,omitempty"`
}

// BackendClient calls one generation backend. The underlying http.Client has
// no timeout: a step call may take arbitrarily long, and a hung call is the
// watchdog's problem, not the dispatcher's.
type BackendClient struct {
	baseURL string
	hc      *http.Client
}

func NewBackendClient(baseURL string) *BackendClient {
	return &BackendClient{baseURL: baseURL, hc: &http.Client{}}
}

// Call POSTs a step request and decodes the JSON result. Non-2xx responses
// become errors carrying the body's error field when present.
func (c *BackendClient) Call(ctx context.Context, path string, req *StepRequest) (map[string]any, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal step request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build step request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &errBody) == nil && errBody.Error != "" {
			return nil, fmt.Errorf("%s: %s", path, errBody.Error)
		}
		return nil, fmt.Errorf("%s returned status %d", path, resp.StatusCode)
	}

	result := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &result); err != nil {
			return nil, fmt.Errorf("decode %s response: %w", path, err)
		}
	}
	return result, nil
}
