package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"punchclock/internal/db/models"
)

const defaultBaseURL = "https://api.openai.com/v1"

// OpenAIConfig configures the chat-completions endpoint and HTTP
// behavior for the OpenAI-backed generator.
type OpenAIConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

type openAIGenerator struct {
	cfg OpenAIConfig
}

// NewOpenAI builds a Generator backed by an OpenAI-compatible
// chat-completions API.
func NewOpenAI(cfg OpenAIConfig) Generator {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = "gpt-4o-mini"
	}
	return &openAIGenerator{cfg: cfg}
}

const systemPrompt = `You are a productivity coach reviewing a user's time-tracking data.
Given their recent work days, reply with a JSON object only, no prose around it:
{"summary": string, "recommendations": [string, ...], "productivityScore": number between 0 and 100}`

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate sends the recent work-day summaries upstream and parses the
// reply into an insight. Any transport, status, or parse problem is
// returned as an error; substituting the fallback is the caller's job.
func (g *openAIGenerator) Generate(ctx context.Context, days []models.WorkDay) (models.Insight, error) {
	payload, err := json.Marshal(Recent(days))
	if err != nil {
		return models.Insight{}, fmt.Errorf("error serializing work days: %w", err)
	}

	body, err := json.Marshal(chatRequest{
		Model: g.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: string(payload)},
		},
	})
	if err != nil {
		return models.Insight{}, fmt.Errorf("error building request: %w", err)
	}

	url := strings.TrimRight(g.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return models.Insight{}, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)

	resp, err := g.cfg.HTTPClient.Do(req)
	if err != nil {
		return models.Insight{}, fmt.Errorf("error calling insight provider: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return models.Insight{}, fmt.Errorf("error reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return models.Insight{}, fmt.Errorf("insight provider returned status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return models.Insight{}, fmt.Errorf("error parsing response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return models.Insight{}, fmt.Errorf("insight provider returned no choices")
	}

	content := extractJSON(parsed.Choices[0].Message.Content)
	var result models.Insight
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return models.Insight{}, fmt.Errorf("error parsing insight body: %w", err)
	}
	if result.Summary == "" {
		return models.Insight{}, fmt.Errorf("insight is missing a summary")
	}
	return result, nil
}

// extractJSON strips markdown code fences some models wrap around JSON
// replies and trims to the outermost object.
func extractJSON(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		return content[start : end+1]
	}
	return content
}
