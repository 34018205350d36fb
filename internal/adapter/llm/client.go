// Package llm adapts an OpenAI-compatible chat API for the two places the
// agent leans on a language model: grounding launch-site coordinates the
// deterministic tiers could not resolve, and rephrasing the deterministic
// answer for the user.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hi-updesh/my-space-agent/internal/domain"
)

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a chat client. baseURL is the API root, e.g.
// "https://api.openai.com/v1".
func NewClient(apiKey, model, baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		apiKey:     apiKey,
		model:      model,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

const groundingSystemPrompt = `You resolve launch-site locations to WGS-84 coordinates.
Respond ONLY with valid JSON in the form:
{"found": true, "lat": 28.5618, "lon": -80.5772}
Use {"found": false} when you do not know the location with confidence.
Do not include any other text.`

// GroundCoordinates asks the model for the coordinates of a launch-site
// description. Found=false means the model declined; that is a legitimate
// answer, not an error.
func (c *Client) GroundCoordinates(ctx context.Context, location string) (domain.GeocodingResult, error) {
	content, err := c.chat(ctx,
		groundingSystemPrompt,
		fmt.Sprintf("Where is %q? Respond with the JSON form only.", location),
	)
	if err != nil {
		return domain.GeocodingResult{}, err
	}

	var parsed struct {
		Found bool    `json:"found"`
		Lat   float64 `json:"lat"`
		Lon   float64 `json:"lon"`
	}
	if err := json.Unmarshal([]byte(stripFences(content)), &parsed); err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("parse grounding response: %w", err)
	}
	if !parsed.Found {
		return domain.GeocodingResult{}, nil
	}
	return domain.GeocodingResult{
		Lat:   parsed.Lat,
		Lon:   parsed.Lon,
		Name:  location,
		Found: true,
	}, nil
}

const narrationSystemPrompt = `You are a launch weather assistant. Reword the given facts into a short,
natural answer to the user's question. Every fact given to you is the answer of
record: do not add, drop, or contradict any of them, and do not invent weather
or schedule details.`

// Narrate rewords the deterministic facts as a conversational answer. The
// caller keeps the facts when narration fails or comes back empty.
func (c *Client) Narrate(ctx context.Context, question, facts string) (string, error) {
	content, err := c.chat(ctx,
		narrationSystemPrompt,
		fmt.Sprintf("Question: %s\n\nFacts:\n%s", question, facts),
	)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

// Chat API wire types.

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) chat(ctx context.Context, system, user string) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("llm api key is not configured")
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("chat API error: status %d: %s", resp.StatusCode, respBody)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("no choices in chat response")
	}
	return parsed.Choices[0].Message.Content, nil
}

// stripFences removes a markdown code fence some models wrap JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
