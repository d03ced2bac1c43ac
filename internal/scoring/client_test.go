package scoring

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestExtractJSONObject(t *testing.T) {
	t.Parallel()

	if got := ExtractJSONObject("here's the result:\n{\"grade\": 7.5, \"reason\": \"positive\"}\ndone"); got != `{"grade": 7.5, "reason": "positive"}` {
		t.Fatalf("unexpected extracted object: %q", got)
	}
	if got := ExtractJSONObject("no braces here"); got != "" {
		t.Fatalf("expected empty extraction, got %q", got)
	}
	if got := ExtractJSONObject("}{"); got != "" {
		t.Fatalf("expected empty extraction for reversed braces, got %q", got)
	}
	if got := ExtractJSONObject(""); got != "" {
		t.Fatalf("expected empty extraction for empty text, got %q", got)
	}
}

func TestParseReply_Valid(t *testing.T) {
	t.Parallel()

	result, err := ParseReply("here's the result:\n{\"grade\": 7.5, \"reason\": \"positive\"}\ndone")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Grade != 7.5 {
		t.Fatalf("unexpected grade: %g", result.Grade)
	}
	if result.Reason != "positive" {
		t.Fatalf("unexpected reason: %q", result.Reason)
	}
}

func TestParseReply_Rejections(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		text string
	}{
		{name: "out of range", text: `{"grade": 15, "reason": "x"}`},
		{name: "missing reason", text: `{"grade": 3}`},
		{name: "blank reason", text: `{"grade": 3, "reason": "   "}`},
		{name: "non-numeric grade", text: `{"grade": "high", "reason": "x"}`},
		{name: "missing grade", text: `{"reason": "x"}`},
		{name: "no JSON", text: "the model refused"},
		{name: "broken JSON", text: `{"grade": 3, "reason": `},
	}

	for _, tc := range cases {
		if _, err := ParseReply(tc.text); err == nil {
			t.Fatalf("%s: expected validation error for %q", tc.name, tc.text)
		}
	}
}

func TestParseReply_IgnoresStockName(t *testing.T) {
	t.Parallel()

	result, err := ParseReply(`{"stock_name": "老板电器", "grade": -2, "reason": "短期利空"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Grade != -2 || result.Reason != "短期利空" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestBuildPrompt_EmbedsRecordFields(t *testing.T) {
	t.Parallel()

	prompt := BuildPrompt(Request{Symbol: "002508", Title: "标题", Content: "内容"})
	for _, want := range []string{"股票代码：002508", "标题：标题", "内容：内容", `"grade"`, `"reason"`} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}

func TestClient_Score(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if !strings.Contains(r.URL.Path, ":generateContent") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("missing api key in query")
		}

		var body struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(body.Contents) != 1 || !strings.Contains(body.Contents[0].Parts[0].Text, "002508") {
			t.Errorf("prompt missing symbol")
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{
					"content": map[string]any{
						"parts": []map[string]any{
							{"text": "评分如下：\n{\"grade\": 6, \"reason\": \"战略投资落地\"}"},
						},
					},
				},
			},
		})
	}))
	defer server.Close()

	client, err := NewClient(Options{BaseURL: server.URL, Model: "test-model", APIKey: "test-key"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	result, err := client.Score(context.Background(), Request{Symbol: "002508", Title: "标题", Content: "内容"})
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if result.Grade != 6 || result.Reason != "战略投资落地" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestClient_Score_HTTPError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, err := NewClient(Options{BaseURL: server.URL, APIKey: "test-key"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if _, err := client.Score(context.Background(), Request{Symbol: "002508"}); err == nil {
		t.Fatalf("expected error for non-2xx response")
	}
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(Options{}); err == nil {
		t.Fatalf("expected error for missing API key")
	}
}
