// Package scoring grades news records through the Gemini generateContent
// API. The model is asked for strict JSON but routinely wraps it in prose,
// so the reply is parsed by carving out the outermost JSON object.
package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultBaseURL        = "https://generativelanguage.googleapis.com"
	DefaultModel          = "gemini-3-pro-preview"
	DefaultRequestTimeout = 45 * time.Second

	// GradeMin and GradeMax bound the accepted score range.
	GradeMin = -10
	GradeMax = 10

	maxErrorBodyBytes = 400
)

// Request is the record excerpt embedded in the grading prompt.
type Request struct {
	Symbol  string
	Title   string
	Content string
}

// Result is a validated grade with its one-line rationale.
type Result struct {
	Grade  float64
	Reason string
}

type Options struct {
	BaseURL        string
	Model          string
	APIKey         string
	RequestTimeout time.Duration
	HTTPClient     *http.Client
}

type Client struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
}

func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("scoring API key is required")
	}

	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = DefaultRequestTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:    baseURL,
		model:      model,
		apiKey:     strings.TrimSpace(opts.APIKey),
		httpClient: httpClient,
	}, nil
}

type generateContentRequest struct {
	Contents []generateContent `json:"contents"`
}

type generateContent struct {
	Role  string                `json:"role"`
	Parts []generateContentPart `json:"parts"`
}

type generateContentPart struct {
	Text string `json:"text"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type modelReply struct {
	StockName string          `json:"stock_name"`
	Grade     json.RawMessage `json:"grade"`
	Reason    string          `json:"reason"`
}

// Score grades one record. Every failure mode (transport, malformed reply,
// out-of-range grade, empty reason) returns an error and leaves retry policy
// to the caller: the record stays unscored and a later run picks it up.
func (c *Client) Score(ctx context.Context, req Request) (Result, error) {
	if c == nil {
		return Result{}, fmt.Errorf("scoring client is not initialized")
	}

	endpoint := fmt.Sprintf(
		"%s/v1beta/models/%s:generateContent?key=%s",
		c.baseURL,
		url.PathEscape(c.model),
		url.QueryEscape(c.apiKey),
	)

	payload, err := json.Marshal(generateContentRequest{
		Contents: []generateContent{
			{
				Role:  "user",
				Parts: []generateContentPart{{Text: BuildPrompt(req)}},
			},
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("marshal scoring request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("build scoring request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("call scoring API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("read scoring response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, fmt.Errorf("scoring API HTTP %d: %s", resp.StatusCode, truncateBody(body))
	}

	var decoded generateContentResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return Result{}, fmt.Errorf("decode scoring response: %w", err)
	}

	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return Result{}, fmt.Errorf("scoring response has no candidate text")
	}

	return ParseReply(decoded.Candidates[0].Content.Parts[0].Text)
}

// ParseReply extracts and validates the grade JSON from free-form model text.
func ParseReply(text string) (Result, error) {
	object := ExtractJSONObject(text)
	if object == "" {
		return Result{}, fmt.Errorf("no JSON object in model reply: %s", truncateBody([]byte(text)))
	}

	var reply modelReply
	if err := json.Unmarshal([]byte(object), &reply); err != nil {
		return Result{}, fmt.Errorf("decode model reply: %w", err)
	}

	if len(reply.Grade) == 0 {
		return Result{}, fmt.Errorf("model reply is missing grade")
	}
	var grade float64
	if err := json.Unmarshal(reply.Grade, &grade); err != nil {
		return Result{}, fmt.Errorf("grade is not numeric: %s", string(reply.Grade))
	}
	if math.IsNaN(grade) || math.IsInf(grade, 0) {
		return Result{}, fmt.Errorf("grade is not finite")
	}
	if grade < GradeMin || grade > GradeMax {
		return Result{}, fmt.Errorf("grade %g out of range [%d, %d]", grade, GradeMin, GradeMax)
	}

	reason := strings.TrimSpace(reply.Reason)
	if reason == "" {
		return Result{}, fmt.Errorf("model reply has empty reason")
	}

	return Result{Grade: grade, Reason: reason}, nil
}

// ExtractJSONObject carves the first-`{` to last-`}` substring out of text.
// Models occasionally wrap the JSON in prose or stray whitespace; anything
// more broken than that is rejected by the subsequent decode.
func ExtractJSONObject(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}
	first := strings.IndexByte(trimmed, '{')
	last := strings.LastIndexByte(trimmed, '}')
	if first == -1 || last == -1 || last <= first {
		return ""
	}
	return trimmed[first : last+1]
}

func truncateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorBodyBytes {
		return text[:maxErrorBodyBytes]
	}
	return text
}
