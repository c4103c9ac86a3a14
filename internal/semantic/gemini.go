package semantic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"menu-upload-service/internal/menuimport/model"
)

const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	RPS     float64
	Timeout time.Duration
}

// GeminiMatcher asks a Gemini model to place headers on canonical fields.
type GeminiMatcher struct {
	cfg     GeminiConfig
	client  *http.Client
	limiter *rate.Limiter
	log     zerolog.Logger
}

func NewGeminiMatcher(cfg GeminiConfig, log zerolog.Logger) (*GeminiMatcher, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("missing GEMINI_API_KEY")
	}
	if cfg.Model == "" {
		return nil, errors.New("missing GEMINI_MODEL")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}
	return &GeminiMatcher{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(limit, 1),
		log:     log.With().Str("component", "gemini").Logger(),
	}, nil
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
	ResponseMIMEType string  `json:"responseMimeType"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (g *GeminiMatcher) MatchColumns(ctx context.Context, headers []string) (map[string]model.Field, error) {
	if len(headers) == 0 {
		return map[string]model.Field{}, nil
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: buildColumnPrompt(headers)}}}},
		GenerationConfig: generationConfig{
			Temperature:      0,
			MaxOutputTokens:  512,
			ResponseMIMEType: "application/json",
		},
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", strings.TrimRight(g.cfg.BaseURL, "/"), g.cfg.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.cfg.APIKey)

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	g.log.Debug().Int("status", resp.StatusCode).Dur("took", time.Since(start)).Int("headers", len(headers)).Msg("gemini column match")

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini api error: status %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode gemini response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return nil, errors.New("empty gemini response")
	}
	return parseColumnAnswer(out.Candidates[0].Content.Parts[0].Text, headers)
}

// parseColumnAnswer reads the model's JSON object, tolerating a fenced code
// block, and keeps only known headers mapped to known fields.
func parseColumnAnswer(text string, headers []string) (map[string]model.Field, error) {
	text = strings.TrimSpace(text)
	if i := strings.IndexByte(text, '{'); i >= 0 {
		if j := strings.LastIndexByte(text, '}'); j > i {
			text = text[i : j+1]
		}
	}
	var answer map[string]*string
	if err := json.Unmarshal([]byte(text), &answer); err != nil {
		return nil, errors.New("gemini returned non-json output")
	}

	known := make(map[string]bool, len(headers))
	for _, h := range headers {
		known[h] = true
	}
	out := make(map[string]model.Field)
	for h, v := range answer {
		if !known[h] || v == nil {
			continue
		}
		if f, ok := model.ParseField(*v); ok {
			out[h] = f
		}
	}
	return out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
