package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	apperrors "santimsentry/internal/errors"
	"santimsentry/internal/logger"
)

// insightCount is how many recommendations the prompt demands and the
// response must contain.
const insightCount = 3

// advisorService relays a user's financial summary to the Gemini
// generateContent endpoint and returns its recommendations. Calls are
// single-attempt: a provider failure is surfaced to the caller, never
// retried transparently.
type advisorService struct {
	summaries SummaryServicer
	client    *http.Client
	apiURL    string
	apiKey    string
}

// NewAdvisorService creates a new AdvisorServicer.
func NewAdvisorService(summaries SummaryServicer, apiURL, apiKey string) AdvisorServicer {
	return &advisorService{
		summaries: summaries,
		client:    &http.Client{Timeout: 30 * time.Second},
		apiURL:    apiURL,
		apiKey:    apiKey,
	}
}

// geminiRequest is the minimal generateContent payload.
type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

// geminiResponse is the subset of the generateContent reply we read.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GenerateInsights builds the user's summary, asks the model for exactly
// three recommendations as a raw JSON array, and relays them.
func (s *advisorService) GenerateInsights(userID uint) ([]string, error) {
	summary, err := s.summaries.GetSummary(userID)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	prompt := fmt.Sprintf(
		"You are a highly analytical, strict financial AI. Analyze this user's financial summary: %s. "+
			"Provide exactly %d short, actionable, and brutal financial recommendations to improve their wealth. "+
			"Your response MUST be a raw JSON array of exactly %d strings. "+
			"Do NOT include markdown backticks or the word 'json'. Just return the array.",
		data, insightCount, insightCount)

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	req, err := http.NewRequest(http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrAdvisoryUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrAdvisoryUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Get().Errorw("advisory provider returned non-200",
			"status", resp.StatusCode,
			"user_id", userID,
		)
		return nil, apperrors.WithMessage(apperrors.ErrAdvisoryUnavailable,
			fmt.Sprintf("advisory provider returned status %d", resp.StatusCode))
	}

	var parsed geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrAdvisoryUnavailable, err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrAdvisoryUnavailable, "advisory provider returned no candidates")
	}

	insights, err := parseInsights(parsed.Candidates[0].Content.Parts[0].Text)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrAdvisoryUnavailable, err)
	}
	return insights, nil
}

// parseInsights extracts the JSON string array from the model's text reply,
// tolerating the markdown fences the prompt forbids but models still emit.
func parseInsights(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var insights []string
	if err := json.Unmarshal([]byte(text), &insights); err != nil {
		return nil, fmt.Errorf("unparseable advisory reply: %w", err)
	}
	if len(insights) < insightCount {
		return nil, fmt.Errorf("advisory reply had %d recommendations, want %d", len(insights), insightCount)
	}
	return insights[:insightCount], nil
}
