package textnorm

import "testing"

func TestNormalize_CollapsesWhitespaceAndStripsBrackets(t *testing.T) {
	t.Parallel()

	if got := Normalize("【快讯】 老板电器  与\t优特智厨（UTCOOK）签署协议"); got != "快讯 老板电器 与 优特智厨utcook签署协议" {
		t.Fatalf("unexpected normalized text: %q", got)
	}
	if got := Normalize("  Hello   WORLD  "); got != "hello world" {
		t.Fatalf("unexpected normalized text: %q", got)
	}
	// Stripping space-separated brackets must not leave a widened run behind.
	if got := Normalize("a 【 】 b"); got != "a b" {
		t.Fatalf("unexpected normalized text: %q", got)
	}
}

func TestNormalize_EmptyInput(t *testing.T) {
	t.Parallel()

	if got := Normalize(""); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
	if got := Normalize("   \t\n "); got != "" {
		t.Fatalf("expected empty string for blank input, got %q", got)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"【盘中播报】今日3只个股突破年线",
		"  A   (b)  C  ",
		"某公司与优特智厨签署1亿元战略投资意向书",
		"a 【 】 b",
		"老板电器 （ 公告 ） 增资",
	}
	for _, input := range inputs {
		once := Normalize(input)
		if twice := Normalize(once); twice != once {
			t.Fatalf("normalize not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}
