package stylize

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"ghibli-backend/domain"
)

type (
	// Client calls the external transformation API: it takes a publicly
	// addressable image URL and returns the styled-image URL.
	Client interface {
		Stylize(ctx context.Context, imageURL string) (string, error)
	}

	client struct {
		baseURL    string
		apiKey     string
		httpClient *http.Client
	}

	stylizeRequest struct {
		ImageURL string `json:"image_url"`
		Style    string `json:"style"`
	}

	stylizeResponse struct {
		OutputURL string `json:"output_url"`
	}
)

func NewClient(baseURL, apiKey string) Client {
	return &client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// Stylize classifies failures for user messaging (auth, endpoint missing,
// timeout, generic); it never retries.
func (c *client) Stylize(ctx context.Context, imageURL string) (string, error) {
	jsonData, err := json.Marshal(stylizeRequest{
		ImageURL: imageURL,
		Style:    "ghibli",
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := strings.TrimSuffix(c.baseURL, "/") + "/transform"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("%w: %v", domain.ErrStylizeTimeout, err)
		}
		return "", fmt.Errorf("%w: %v", domain.ErrStylizeFailed, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", domain.ErrStylizeAuth
	case http.StatusNotFound:
		return "", domain.ErrStylizeNotFound
	case http.StatusRequestTimeout:
		return "", domain.ErrStylizeTimeout
	default:
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: status %d, body: %s", domain.ErrStylizeFailed, resp.StatusCode, string(body))
	}

	var result stylizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", domain.ErrStylizeFailed, err)
	}
	if result.OutputURL == "" {
		return "", fmt.Errorf("%w: output_url is empty", domain.ErrStylizeFailed)
	}

	return result.OutputURL, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
