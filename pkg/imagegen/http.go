package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// HTTPGenerator posts jobs to an OpenAI-style txt2img endpoint and reads
// the image URL out of the response.
type HTTPGenerator struct {
	name    string
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

func NewHTTPGenerator(name, baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *HTTPGenerator {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPGenerator{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (g *HTTPGenerator) Generate(ctx context.Context, genReq Request) (*Result, error) {
	if genReq.Width <= 0 {
		genReq.Width = 768
	}
	if genReq.Height <= 0 {
		genReq.Height = 1024
	}

	data, err := json.Marshal(genReq)
	if err != nil {
		return nil, &GenerationError{Backend: g.name, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL, bytes.NewReader(data))
	if err != nil {
		return nil, &GenerationError{Backend: g.name, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, &GenerationError{Backend: g.name, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &GenerationError{Backend: g.name, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &GenerationError{Backend: g.name,
			Err: fmt.Errorf("http %d: %s", resp.StatusCode, truncate(body))}
	}
	if strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		return nil, &GenerationError{Backend: g.name, Err: fmt.Errorf("returned html instead of json")}
	}

	var parsed struct {
		URL    string `json:"url"`
		Images []struct {
			ImageURL string `json:"image_url"`
		} `json:"images"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &GenerationError{Backend: g.name, Err: err}
	}

	url := parsed.URL
	if url == "" && len(parsed.Images) > 0 {
		url = parsed.Images[0].ImageURL
	}
	if url == "" {
		return nil, &GenerationError{Backend: g.name, Err: fmt.Errorf("no image url in response")}
	}

	g.logger.Debug("image generated",
		zap.String("backend", g.name),
		zap.Duration("took", time.Since(start)))

	return &Result{URL: url}, nil
}

func truncate(body []byte) string {
	s := string(body)
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
