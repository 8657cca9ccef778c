package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeDisabled
	OutcomeTransportError
	OutcomeHTTPError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeDisabled:
		return "disabled"
	case OutcomeTransportError:
		return "transport_error"
	case OutcomeHTTPError:
		return "http_error"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result is what a single round-trip produced. Only OutcomeOK carries a Value.
type Result struct {
	Outcome    Outcome
	StatusCode int
	Value      any
	Err        error
}

type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// Request performs one JSON round-trip and returns the decoded response, or
// nil when the API is disabled, unreachable or answered with a non-2xx
// status. The only errors it returns are a body that could not be encoded and
// a successful response that could not be read or decoded.
func (c *Client) Request(ctx context.Context, endpoint, method string, body any) (any, error) {
	res, err := c.Do(ctx, endpoint, method, body)
	if err != nil {
		return nil, err
	}

	return res.Value, nil
}

// Do is Request with the failure cause kept in the Result.
func (c *Client) Do(ctx context.Context, endpoint, method string, body any) (*Result, error) {
	if !c.enabled {
		c.logger.Warn().Str("endpoint", endpoint).Msg("API disabled (frontend-only mode)")
		return &Result{Outcome: OutcomeDisabled}, nil
	}

	if method == "" {
		method = http.MethodPost
	}

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	url := joinURL(c.baseURL, endpoint)
	// A URL or method the transport cannot use fails like an unreachable host.
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		c.logger.Error().Err(err).Str("method", method).Str("url", url).Msg("API request failed")
		return &Result{Outcome: OutcomeTransportError, Err: err}, nil
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("method", method).Str("url", url).Msg("API request failed")
		return &Result{Outcome: OutcomeTransportError, Err: err}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Result{
			Outcome:    OutcomeHTTPError,
			StatusCode: resp.StatusCode,
			Err:        &HTTPError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)},
		}, nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// The whole body must be one JSON value; trailing bytes are an error.
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &Result{Outcome: OutcomeOK, StatusCode: resp.StatusCode, Value: value}, nil
}
