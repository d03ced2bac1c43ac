package reader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetchArticleTextHTML(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<!doctype html>
<html><head><title>公告</title></head><body>
<article>
<h1>战略投资公告</h1>
<p>公司今日宣布与合作方签署战略投资意向书，交易金额为一亿元人民币。</p>
<p>本次投资旨在加强双方在智能烹饪设备领域的协同，不会影响当期业绩。</p>
</article>
</body></html>`))
	}))
	defer server.Close()

	text, err := FetchArticleText(context.Background(), server.URL, "")
	if err != nil {
		t.Fatalf("FetchArticleText: %v", err)
	}
	if !strings.Contains(text, "战略投资意向书") {
		t.Errorf("extracted text missing article body: %q", text)
	}
}

func TestFetchArticleTextPlain(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("第一段内容。\r\n\r\n  第二段   内容。  \n"))
	}))
	defer server.Close()

	text, err := FetchArticleText(context.Background(), server.URL, "")
	if err != nil {
		t.Fatalf("FetchArticleText: %v", err)
	}
	want := "第一段内容。\n\n第二段 内容。"
	if text != want {
		t.Errorf("text = %q, want %q", text, want)
	}
}

func TestFetchArticleTextErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	if _, err := FetchArticleText(context.Background(), server.URL, ""); err == nil {
		t.Error("404 fetch succeeded, want error")
	}
	if _, err := FetchArticleText(context.Background(), "   ", ""); err == nil {
		t.Error("blank URL accepted, want error")
	}
}

func TestCleanText(t *testing.T) {
	t.Parallel()

	got := CleanText("  a \t b \r\n\r\n c  \n\n\n d ")
	want := "a b\n\nc\n\nd"
	if got != want {
		t.Errorf("CleanText = %q, want %q", got, want)
	}
}

func TestTruncateText(t *testing.T) {
	t.Parallel()

	if got, truncated := TruncateText("短文本", 10); got != "短文本" || truncated {
		t.Errorf("TruncateText short = %q, %v", got, truncated)
	}
	got, truncated := TruncateText("一二三四五六七八九十", 5)
	if !truncated || got != "一二三四…" {
		t.Errorf("TruncateText clipped = %q, %v", got, truncated)
	}
	if got, truncated := TruncateText("abc", 1); got != "…" || !truncated {
		t.Errorf("TruncateText one = %q, %v", got, truncated)
	}
}
