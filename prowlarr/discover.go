package prowlarr

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// initialize.js inlines the frontend bootstrap object; the API key sits in a
// quoted apiKey property.
var apiKeyPattern = regexp.MustCompile(`apiKey['"]?\s*:\s*['"]([0-9a-fA-F]+)['"]`)

// DiscoverAPIKey fetches the API key from an instance whose authentication is
// disabled for local addresses. Newer releases expose /initialize.json;
// older ones inline the bootstrap object in /initialize.js.
func DiscoverAPIKey(ctx context.Context, rawURL string, options ...ClientOption) (string, error) {
	client, err := NewClient(rawURL, "", options...)
	if err != nil {
		return "", err
	}

	var bootstrap struct {
		APIKey string `json:"apiKey"`
	}
	err = client.get(ctx, "/initialize.json", &bootstrap)
	if err == nil && bootstrap.APIKey != "" {
		return bootstrap.APIKey, nil
	}

	key, jsErr := client.discoverFromScript(ctx)
	if jsErr == nil {
		return key, nil
	}
	if err == nil {
		err = jsErr
	}
	return "", authError("could not discover the API key, the instance may require authentication", err)
}

func (c *Client) discoverFromScript(ctx context.Context) (string, error) {
	target := *c.baseURL
	target.Path = c.baseURL.Path + "/initialize.js"

	requestCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	request, err := http.NewRequestWithContext(requestCtx, http.MethodGet, target.String(), nil)
	if err != nil {
		return "", internalError("failed to create bootstrap request", err)
	}

	response, err := c.client.Do(request)
	if err != nil {
		return "", connectivityError("bootstrap request failed", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, 1<<20))
	if err != nil {
		return "", connectivityError("failed to read bootstrap response", err)
	}
	if response.StatusCode != http.StatusOK {
		return "", classifyStatusError(http.MethodGet, "/initialize.js", response.StatusCode, body)
	}

	// The script may be a bare JSON assignment; try the object form first.
	script := string(body)
	if start := strings.Index(script, "{"); start >= 0 {
		if end := strings.LastIndex(script, "}"); end > start {
			var bootstrap struct {
				APIKey string `json:"apiKey"`
			}
			if err := json.Unmarshal([]byte(script[start:end+1]), &bootstrap); err == nil && bootstrap.APIKey != "" {
				return bootstrap.APIKey, nil
			}
		}
	}

	match := apiKeyPattern.FindStringSubmatch(script)
	if match == nil {
		return "", internalError(fmt.Sprintf("no API key in bootstrap script (%d bytes)", len(body)), nil)
	}
	return match[1], nil
}
