package schema

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestValidateNewsRecordPayload_Valid(t *testing.T) {
	payload := json.RawMessage(`{
		"payload_version":"v1",
		"symbol":"002508",
		"title":"某公司签署战略投资意向书",
		"content":"公司今日公告称，与合作方签署战略投资意向书。",
		"published_at":"2025-03-03T09:30:00+08:00",
		"source":"每日经济新闻",
		"news_url":"https://example.com/news/1",
		"language":"zh"
	}`)

	record, err := ValidateNewsRecordPayload(payload)
	if err != nil {
		t.Fatalf("expected payload to be valid, got error: %v", err)
	}
	if record.Symbol != "002508" {
		t.Fatalf("expected symbol=002508, got %q", record.Symbol)
	}

	publishedAt, err := ParsePublishedAt(record)
	if err != nil {
		t.Fatalf("ParsePublishedAt: %v", err)
	}
	if publishedAt == nil || publishedAt.Hour() != 1 {
		t.Fatalf("expected 01:30 UTC, got %v", publishedAt)
	}
}

func TestValidateNewsRecordPayload_UppercasesSymbol(t *testing.T) {
	payload := json.RawMessage(`{
		"payload_version":"v1",
		"symbol":"sh600519",
		"title":"标题"
	}`)

	record, err := ValidateNewsRecordPayload(payload)
	if err != nil {
		t.Fatalf("expected payload to be valid, got error: %v", err)
	}
	if record.Symbol != "SH600519" {
		t.Fatalf("expected symbol uppercased, got %q", record.Symbol)
	}
}

func TestValidateNewsRecordPayload_MissingSymbol(t *testing.T) {
	payload := json.RawMessage(`{
		"payload_version":"v1",
		"title":"缺少代码"
	}`)

	if _, err := ValidateNewsRecordPayload(payload); err == nil {
		t.Fatal("expected validation to fail for missing symbol")
	}
}

func TestValidateNewsRecordPayload_WhitespaceTitle(t *testing.T) {
	payload := json.RawMessage(`{
		"payload_version":"v1",
		"symbol":"002508",
		"title":"   "
	}`)

	_, err := ValidateNewsRecordPayload(payload)
	if err == nil {
		t.Fatal("expected validation to fail for whitespace-only title")
	}
	if !strings.Contains(err.Error(), "title must not be empty") {
		t.Fatalf("expected title semantic error, got: %v", err)
	}
}

func TestValidateNewsRecordPayload_BadVersion(t *testing.T) {
	payload := json.RawMessage(`{
		"payload_version":"v2",
		"symbol":"002508",
		"title":"标题"
	}`)

	if _, err := ValidateNewsRecordPayload(payload); err == nil {
		t.Fatal("expected validation to fail for payload_version v2")
	}
}

func TestValidateNewsRecordPayload_InvalidPublishedAt(t *testing.T) {
	payload := json.RawMessage(`{
		"payload_version":"v1",
		"symbol":"002508",
		"title":"标题",
		"published_at":"昨天"
	}`)

	if _, err := ValidateNewsRecordPayload(payload); err == nil {
		t.Fatal("expected validation to fail for invalid published_at")
	}
}

func TestValidateNewsRecordPayload_UnknownField(t *testing.T) {
	payload := json.RawMessage(`{
		"payload_version":"v1",
		"symbol":"002508",
		"title":"标题",
		"grade":5
	}`)

	if _, err := ValidateNewsRecordPayload(payload); err == nil {
		t.Fatal("expected validation to fail for unknown field")
	}
}

func TestValidateNewsRecordPayload_TrailingContent(t *testing.T) {
	payload := json.RawMessage(`{"payload_version":"v1","symbol":"002508","title":"标题"} {}`)

	if _, err := ValidateNewsRecordPayload(payload); err == nil {
		t.Fatal("expected validation to fail for trailing content")
	}
}
