package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/beast-reader/internal/config"
	"github.com/yourusername/beast-reader/internal/logger"
	"github.com/yourusername/beast-reader/internal/metrics"
	"github.com/yourusername/beast-reader/internal/models"
)

const ticketPrompt = `Analyze the provided lottery ticket image.
Extract all individual plays. For each play, identify the bet number, straight amount, box amount, and combo amount.
- The "bet number" is the main number being played. It can be 2-4 digits, or two 2-digit numbers separated by a dash for 'pale' bets.
- "straightAmount", "boxAmount", and "comboAmount" are the dollar values for each type of bet.
- If a specific amount (straight, box, or combo) is not present for a play, its value must be null.
Return the result as a JSON array matching the provided schema. Do not return any text outside of the JSON array.`

// maxErrorBody bounds how much of a failed response is kept for logging
const maxErrorBody = 2048

type schema struct {
	Type        string            `json:"type"`
	Description string            `json:"description,omitempty"`
	Nullable    bool              `json:"nullable,omitempty"`
	Items       *schema           `json:"items,omitempty"`
	Properties  map[string]schema `json:"properties,omitempty"`
	Required    []string          `json:"required,omitempty"`
}

var playListSchema = schema{
	Type: "ARRAY",
	Items: &schema{
		Type: "OBJECT",
		Properties: map[string]schema{
			"betNumber":      {Type: "STRING", Description: `The number played, e.g., "123" or "45-67".`},
			"straightAmount": {Type: "NUMBER", Nullable: true, Description: `The amount for a "straight" bet. Return null if not present.`},
			"boxAmount":      {Type: "NUMBER", Nullable: true, Description: `The amount for a "box" bet. Return null if not present.`},
			"comboAmount":    {Type: "NUMBER", Nullable: true, Description: `The amount for a "combo" bet. Return null if not present.`},
		},
		Required: []string{"betNumber", "straightAmount", "boxAmount", "comboAmount"},
	},
}

type inlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type part struct {
	InlineData *inlineData `json:"inlineData,omitempty"`
	Text       string      `json:"text,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generationConfig struct {
	ResponseMIMEType string `json:"responseMimeType"`
	ResponseSchema   schema `json:"responseSchema"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// GeminiClient interprets ticket images with the Gemini generateContent API
type GeminiClient struct {
	http    *RateLimitedHTTPClient
	baseURL string
	model   string
	apiKey  string
	timeout time.Duration
	logger  *logger.OCRLogger
}

// NewGeminiClient creates a client from OCR configuration
func NewGeminiClient(cfg *config.OCRConfig, log *logrus.Logger) *GeminiClient {
	httpCfg := DefaultHTTPClientConfig()
	if cfg.TimeoutSeconds > 0 {
		httpCfg.Timeout = cfg.Timeout()
	}
	if cfg.RateLimit > 0 {
		httpCfg.RateLimit = cfg.RateLimit
	}
	httpCfg.MaxRetries = cfg.MaxRetries

	return &GeminiClient{
		http:    NewRateLimitedHTTPClient(httpCfg, log),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		apiKey:  cfg.APIKey,
		timeout: httpCfg.Timeout,
		logger:  logger.NewOCRLogger(log),
	}
}

// Model returns the configured model name
func (c *GeminiClient) Model() string {
	return c.model
}

// Interpret sends the image and parses the returned play list. Every
// failure other than cancellation is reported with FailureMessage.
func (c *GeminiClient) Interpret(ctx context.Context, img Image) ([]models.OCRResult, error) {
	start := time.Now()
	results, err := c.interpret(ctx, img)
	elapsed := time.Since(start)

	switch {
	case err == nil:
		metrics.RecordOCRRequest("success", elapsed.Seconds())
		c.logger.LogInterpretation(c.model, img.Size(), len(results), false, float64(elapsed.Milliseconds()))
		return results, nil
	case ctx.Err() != nil:
		metrics.RecordOCRRequest("cancelled", elapsed.Seconds())
		return nil, ctx.Err()
	default:
		metrics.RecordOCRRequest("failure", elapsed.Seconds())
		c.logger.LogInterpretationFailure(c.model, img.Size(), err)
		return nil, userFailure(err)
	}
}

func (c *GeminiClient) interpret(ctx context.Context, img Image) ([]models.OCRResult, error) {
	if img.Data == "" {
		return nil, ErrEmptyImage
	}
	mime := img.MIMEType
	if mime == "" {
		mime = "image/jpeg"
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{
			{InlineData: &inlineData{MIMEType: mime, Data: img.Data}},
			{Text: ticketPrompt},
		}}},
		GenerationConfig: generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   playListSchema,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	header := http.Header{}
	header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.http.Post(ctx, url, "application/json", bytes.NewReader(body), header)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: status %d: %s", ErrServiceUnavailable, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return parseCandidates(gr)
}

// parseCandidates extracts the JSON play list from the first candidate
func parseCandidates(gr generateResponse) ([]models.OCRResult, error) {
	if len(gr.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no candidates", ErrInvalidResponse)
	}

	var sb strings.Builder
	for _, p := range gr.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return ParseResults(sb.String())
}

// ParseResults decodes the model's text answer. Anything other than a JSON
// array of plays is rejected.
func ParseResults(text string) ([]models.OCRResult, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimSuffix(strings.TrimPrefix(text, "```"), "```")
	text = strings.TrimSpace(text)

	var raw json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if !strings.HasPrefix(strings.TrimSpace(string(raw)), "[") {
		return nil, fmt.Errorf("%w: AI response was not a valid array", ErrInvalidResponse)
	}

	var results []models.OCRResult
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	for i := range results {
		results[i].BetNumber = strings.TrimSpace(results[i].BetNumber)
		if err := validateAmounts(results[i]); err != nil {
			return nil, fmt.Errorf("%w: play %d: %v", ErrInvalidResponse, i, err)
		}
	}
	if results == nil {
		results = []models.OCRResult{}
	}
	return results, nil
}

func validateAmounts(r models.OCRResult) error {
	for name, a := range map[string]*decimal.Decimal{
		"straightAmount": r.StraightAmount,
		"boxAmount":      r.BoxAmount,
		"comboAmount":    r.ComboAmount,
	} {
		if a != nil && a.IsNegative() {
			return fmt.Errorf("%s is negative", name)
		}
	}
	return nil
}

// Close releases idle connections
func (c *GeminiClient) Close() error {
	return c.http.Close()
}
