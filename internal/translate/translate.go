package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var (
	ErrNotConfigured = errors.New("the translation service is not configured")
	ErrFailed        = errors.New("the translation service failed")
)

type Translator interface {
	Translate(ctx context.Context, text, sourceLanguage, destLanguage string) (string, error)
}

// Client talks to the Microsoft Translator v3 REST API.
type Client struct {
	Endpoint string
	Key      string
	Region   string
	HTTP     *http.Client
}

func NewClient(endpoint, key, region string) *Client {
	return &Client{
		Endpoint: strings.TrimRight(endpoint, "/"),
		Key:      key,
		Region:   region,
		HTTP:     &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
}

type requestItem struct {
	Text string `json:"Text"`
}

type responseItem struct {
	Translations []struct {
		Text string `json:"text"`
		To   string `json:"to"`
	} `json:"translations"`
}

func (c *Client) Translate(ctx context.Context, text, sourceLanguage, destLanguage string) (string, error) {
	if c.Key == "" {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal([]requestItem{{Text: text}})
	if err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("api-version", "3.0")
	q.Set("from", sourceLanguage)
	q.Set("to", destLanguage)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint+"/translate?"+q.Encode(), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.Key)
	if c.Region != "" {
		req.Header.Set("Ocp-Apim-Subscription-Region", c.Region)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrFailed, resp.StatusCode)
	}

	var items []responseItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrFailed, err)
	}
	if len(items) == 0 || len(items[0].Translations) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrFailed)
	}
	return items[0].Translations[0].Text, nil
}
