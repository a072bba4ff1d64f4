// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mtranslate fills untranslated catalog entries through a
// machine-translation backend. Machine results are always flagged fuzzy
// so a human reviewer clears them before they compile.
package mtranslate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pdiddy/localize-engine/internal/httputil"
	"github.com/pdiddy/localize-engine/pkg/types"
)

const (
	defaultEndpoint  = "https://api.cognitive.microsofttranslator.com"
	defaultBatchSize = 25
	defaultTimeout   = 30 * time.Second
)

// Backend translates batches of source strings into a target language.
type Backend interface {
	// Name identifies the backend in progress output.
	Name() string

	// Translate returns one translation per input text, in order.
	Translate(ctx context.Context, texts []string, from, to string) ([]string, error)
}

// MicrosoftBackend calls the Microsoft Translator v3 REST API.
type MicrosoftBackend struct {
	cfg    types.TranslateConfig
	client *http.Client
}

// NewMicrosoft builds a backend from cfg, filling in the public endpoint
// and a 30s timeout where cfg leaves them zero. The API key is required.
func NewMicrosoft(cfg types.TranslateConfig) (*MicrosoftBackend, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("translation API key not configured")
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	return &MicrosoftBackend{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func (b *MicrosoftBackend) Name() string { return "microsoft" }

type translateItem struct {
	Text string `json:"Text"`
}

type translateResult struct {
	Translations []struct {
		Text string `json:"text"`
	} `json:"translations"`
}

// Translate sends one POST to /translate for the whole batch and maps
// the response back positionally.
func (b *MicrosoftBackend) Translate(ctx context.Context, texts []string, from, to string) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	items := make([]translateItem, len(texts))
	for i, t := range texts {
		items[i] = translateItem{Text: t}
	}
	body, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	q := url.Values{}
	q.Set("api-version", "3.0")
	q.Set("from", from)
	q.Set("to", to)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		b.cfg.Endpoint+"/translate?"+q.Encode(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", b.cfg.APIKey)
	if b.cfg.Region != "" {
		req.Header.Set("Ocp-Apim-Subscription-Region", b.cfg.Region)
	}
	if b.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", b.cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, b.client, req, b.cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("calling translator: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("translator returned %s: %s", resp.Status, bytes.TrimSpace(msg))
	}

	var results []translateResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if len(results) != len(texts) {
		return nil, fmt.Errorf("translator returned %d results for %d texts", len(results), len(texts))
	}

	out := make([]string, len(texts))
	for i, r := range results {
		if len(r.Translations) == 0 {
			return nil, fmt.Errorf("translator returned no translation for %q", texts[i])
		}
		out[i] = r.Translations[0].Text
	}
	return out, nil
}
