package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// fallbackAdvice is served whenever the generative call cannot produce
	// text. The history view must render something either way.
	fallbackAdvice = "You're within your average food budget. Enjoy your meal!"

	adviceTemperature = 0.7
)

// GeminiService produces the one-sentence spending insight on the history
// view. It never fails: any error degrades to the fallback sentence.
type GeminiService struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewGeminiService constructs the insight client. An empty API key is valid
// and pins the service to its fallback sentence.
func NewGeminiService(apiKey, model string) *GeminiService {
	return &GeminiService{
		apiKey:  apiKey,
		baseURL: defaultGeminiBaseURL,
		model:   model,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GetTransactionAdvice asks for a short budget remark about the most recent
// order amount against the month's spending total.
func (s *GeminiService) GetTransactionAdvice(ctx context.Context, latestAmount, monthTotal float64) string {
	if s.apiKey == "" {
		return fallbackAdvice
	}

	prompt := fmt.Sprintf(
		"I am at a checkout for a food order totaling $%.2f. "+
			"My total food spending this month is $%.2f. "+
			"Provide a very short, friendly, and helpful 1-sentence insight about my budget or the order. "+
			"Keep it concise and encouraging.",
		latestAmount, monthTotal,
	)

	payload, err := json.Marshal(geminiRequest{
		Contents:         []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: generationConfig{Temperature: adviceTemperature},
	})
	if err != nil {
		log.Printf("[Gemini] request marshal: %v", err)
		return fallbackAdvice
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", s.baseURL, s.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		log.Printf("[Gemini] request build: %v", err)
		return fallbackAdvice
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("[Gemini] request: %v", err)
		return fallbackAdvice
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[Gemini] status %d: %s", resp.StatusCode, string(body))
		return fallbackAdvice
	}

	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		log.Printf("[Gemini] response unmarshal: %v", err)
		return fallbackAdvice
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return fallbackAdvice
	}
	return parsed.Candidates[0].Content.Parts[0].Text
}
