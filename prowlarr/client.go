// Package prowlarr talks to a Prowlarr instance over its v1 REST API and
// translates between wire payloads and the local schema representation.
package prowlarr

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

const (
	defaultTimeout = 30 * time.Second
	mediaTypeJSON  = "application/json"
	apiKeyHeader   = "X-Api-Key"
)

type Client struct {
	baseURL *url.URL
	apiKey  string
	client  *http.Client
	logger  zerolog.Logger
}

type ClientOption func(*Client)

func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.client.Timeout = timeout
		}
	}
}

// WithInsecureTLS disables certificate verification, for instances behind
// self-signed certificates.
func WithInsecureTLS(insecure bool) ClientOption {
	return func(c *Client) {
		transport, ok := c.client.Transport.(*http.Transport)
		if !ok {
			return
		}
		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{}
		}
		transport.TLSClientConfig.InsecureSkipVerify = insecure
	}
}

func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.client = client
		}
	}
}

func WithClientLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

func NewClient(rawURL string, apiKey string, options ...ClientOption) (*Client, error) {
	baseURL, err := parseBaseURL(rawURL)
	if err != nil {
		return nil, err
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	client := &Client{
		baseURL: baseURL,
		apiKey:  strings.TrimSpace(apiKey),
		client: &http.Client{
			Timeout:   defaultTimeout,
			Transport: transport,
		},
		logger: zerolog.Nop(),
	}
	for _, option := range options {
		if option == nil {
			continue
		}
		option(client)
	}
	return client, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, validationError("instance host URL is required", nil)
	}

	parsed, err := url.Parse(value)
	if err != nil {
		return nil, validationError("instance host URL is invalid", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, validationError("instance host URL must use http or https", nil)
	}
	if parsed.Host == "" {
		return nil, validationError("instance host URL host is required", nil)
	}
	parsed.Path = strings.TrimRight(parsed.Path, "/")
	return parsed, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method string, path string, body any, out any) error {
	target := *c.baseURL
	target.Path = c.baseURL.Path + path

	var bodyReader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return internalError("failed to encode request body", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, target.String(), bodyReader)
	if err != nil {
		return internalError("failed to create remote request", err)
	}
	request.Header.Set("Accept", mediaTypeJSON)
	if body != nil {
		request.Header.Set("Content-Type", mediaTypeJSON)
	}
	if c.apiKey != "" {
		request.Header.Set(apiKeyHeader, c.apiKey)
	}

	c.logger.Trace().Str("method", method).Str("path", path).Msg("remote request")

	response, err := c.client.Do(request)
	if err != nil {
		return connectivityError(fmt.Sprintf("%s %s failed", method, path), err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(io.LimitReader(response.Body, 8<<20))
	if err != nil {
		return connectivityError("failed to read remote response body", err)
	}
	if response.StatusCode >= http.StatusBadRequest {
		return classifyStatusError(method, path, response.StatusCode, responseBody)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(responseBody, out); err != nil {
		return internalError(fmt.Sprintf("failed to decode %s %s response", method, path), err)
	}
	return nil
}

// remoteFieldError is one entry of Prowlarr's 400 validation payload.
type remoteFieldError struct {
	PropertyName   string `json:"propertyName"`
	ErrorMessage   string `json:"errorMessage"`
	AttemptedValue any    `json:"attemptedValue"`
}

type remoteMessageError struct {
	Message string `json:"message"`
}

func classifyStatusError(method string, path string, statusCode int, body []byte) error {
	message := fmt.Sprintf("%s %s returned status %d: %s", method, path, statusCode, summarizeRemoteError(body))

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return authError(message, nil)
	case http.StatusNotFound:
		return notFoundError(message, nil)
	}
	return remoteOperationError(message, nil)
}

// summarizeRemoteError renders the remote error payload for humans. Prowlarr
// returns either a list of field validation failures or a single message
// object; anything else is truncated raw.
func summarizeRemoteError(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return "<empty>"
	}

	var fieldErrors []remoteFieldError
	if err := json.Unmarshal(body, &fieldErrors); err == nil && len(fieldErrors) > 0 {
		parts := make([]string, 0, len(fieldErrors))
		for _, fieldError := range fieldErrors {
			if fieldError.PropertyName == "" && fieldError.ErrorMessage == "" {
				continue
			}
			parts = append(parts, fmt.Sprintf("%s: %s", fieldError.PropertyName, fieldError.ErrorMessage))
		}
		if len(parts) > 0 {
			return strings.Join(parts, "; ")
		}
	}

	var messageError remoteMessageError
	if err := json.Unmarshal(body, &messageError); err == nil && messageError.Message != "" {
		return messageError.Message
	}

	if len(trimmed) > 512 {
		return trimmed[:512] + "..."
	}
	return trimmed
}

type systemStatus struct {
	AppName string `json:"appName"`
	Version string `json:"version"`
}

// Ping verifies the instance answers and the API key is accepted.
func (c *Client) Ping(ctx context.Context) error {
	var status systemStatus
	if err := c.get(ctx, "/api/v1/system/status", &status); err != nil {
		return err
	}
	if status.AppName != "" && !strings.EqualFold(status.AppName, "Prowlarr") {
		return validationError(fmt.Sprintf("instance reports application %q, expected Prowlarr", status.AppName), nil)
	}
	c.logger.Debug().Str("version", status.Version).Msg("instance reachable")
	return nil
}
