package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RequestConfig holds configuration for HTTP requests.
//
// Retries are off by default: the diagnostic tools built on this package must
// report a failing collaborator on the first attempt rather than mask it.
// Long-lived callers may opt in via RetryEnabled.
type RequestConfig struct {
	Logger         Logger
	Headers        map[string][]string
	Method         string
	URL            string
	Timeout        time.Duration
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	RetryEnabled   bool
}

// Logger interface for customizable logging
type Logger interface {
	Printf(format string, v ...interface{})
}

// DefaultRequestConfig returns a RequestConfig with sensible defaults
func DefaultRequestConfig(method, url string) RequestConfig {
	return RequestConfig{
		Method:         method,
		URL:            url,
		Timeout:        10 * time.Second,
		RetryEnabled:   false,
		MaxRetries:     3,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     5 * time.Second,
		Logger:         log.Default(),
	}
}

// Response represents an HTTP response with additional metadata
type Response struct {
	Headers    http.Header
	Body       []byte
	StatusCode int
}

// Request performs an HTTP request described by config. A payload of []byte or
// string is sent as-is; any other non-nil payload is JSON-marshaled. Non-2xx
// status codes are returned as errors, with the response still available for
// inspection.
func Request(ctx context.Context, config RequestConfig, payload interface{}) (*Response, error) {
	var payloadBytes []byte
	if payload != nil {
		var err error
		switch v := payload.(type) {
		case []byte:
			payloadBytes = v
		case string:
			payloadBytes = []byte(v)
		default:
			payloadBytes, err = json.Marshal(payload)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal payload: %w", err)
			}
		}
	}

	client := &http.Client{
		Timeout: config.Timeout,
	}

	var response *Response
	var firstAttempt = true

	// The request is rebuilt per attempt so a retry never sends an
	// already-drained body.
	operation := func() error {
		if !firstAttempt && config.Logger != nil {
			config.Logger.Printf("Retrying request to %s", config.URL)
		}
		firstAttempt = false

		var reqBody io.Reader
		if payloadBytes != nil {
			reqBody = bytes.NewReader(payloadBytes)
		}

		req, opErr := http.NewRequestWithContext(ctx, config.Method, config.URL, reqBody)
		if opErr != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", opErr))
		}

		for key, values := range config.Headers {
			for _, value := range values {
				req.Header.Add(key, value)
			}
		}

		if reqBody != nil && (config.Method == http.MethodPost || config.Method == http.MethodPut || config.Method == http.MethodPatch) {
			if req.Header.Get("Content-Type") == "" {
				req.Header.Set("Content-Type", "application/json")
			}
		}

		resp, opErr := client.Do(req)
		if opErr != nil {
			return fmt.Errorf("request failed: %w", opErr)
		}
		defer resp.Body.Close()

		body, opErr := io.ReadAll(resp.Body)
		if opErr != nil {
			return fmt.Errorf("failed to read response body: %w", opErr)
		}

		response = &Response{
			StatusCode: resp.StatusCode,
			Body:       body,
			Headers:    resp.Header,
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, body)
		}

		return nil
	}

	var err error
	if config.RetryEnabled {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = config.InitialBackoff
		b.MaxInterval = config.MaxBackoff
		b.MaxElapsedTime = time.Duration(config.MaxRetries) * config.MaxBackoff

		err = backoff.Retry(operation, backoff.WithContext(b, ctx))
	} else {
		err = operation()
	}

	if err != nil {
		return response, err // Return response even on error for inspection
	}

	return response, nil
}

// RequestJSON performs Request and unmarshals the response body into out.
// A nil out discards the body.
func RequestJSON(ctx context.Context, config RequestConfig, payload, out interface{}) error {
	response, err := Request(ctx, config, payload)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(response.Body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
