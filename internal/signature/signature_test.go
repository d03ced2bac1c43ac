package signature

import "testing"

func TestExtract_EntitiesMoneyAndCode(t *testing.T) {
	t.Parallel()

	extractor := NewExtractor(DefaultConfig())
	sig := extractor.Extract("XX公司(002508)与优特智厨签署投资合作意向书，增资1亿元")

	for _, want := range []string{"优特智厨", "投资合作意向书", "意向书", "增资", "投资", "002508"} {
		if _, ok := sig[want]; !ok {
			t.Fatalf("expected token %q in signature %v", want, sig)
		}
	}
	if !HasMoneyTerm(sig) {
		t.Fatalf("expected a money term in signature %v", sig)
	}
	if !HasStockCode(sig) {
		t.Fatalf("expected a stock code in signature %v", sig)
	}
}

func TestExtract_CaseInsensitiveEntities(t *testing.T) {
	t.Parallel()

	extractor := NewExtractor(DefaultConfig())
	sig := extractor.Extract("老板电器牵手utcook布局智能餐饮")

	if _, ok := sig["UTCOOK"]; !ok {
		t.Fatalf("expected case-insensitive entity match, got %v", sig)
	}
	if _, ok := sig["智能餐饮"]; !ok {
		t.Fatalf("expected theme token, got %v", sig)
	}
}

func TestExtract_EmptyText(t *testing.T) {
	t.Parallel()

	extractor := NewExtractor(DefaultConfig())
	if sig := extractor.Extract("  "); len(sig) != 0 {
		t.Fatalf("expected empty signature for blank text, got %v", sig)
	}
}

func TestMoneyTerms(t *testing.T) {
	t.Parallel()

	terms := MoneyTerms("拟增资1亿元，另出资5000万元，合计约1.5亿")
	for _, want := range []string{"1亿元", "5000万元", "1.5亿"} {
		if _, ok := terms[want]; !ok {
			t.Fatalf("expected money term %q in %v", want, terms)
		}
	}

	if len(MoneyTerms("没有金额的句子")) != 0 {
		t.Fatalf("expected no money terms")
	}
}

func TestHasMoneyTerm(t *testing.T) {
	t.Parallel()

	sig := map[string]struct{}{"1亿元": {}, "优特智厨": {}}
	if !HasMoneyTerm(sig) {
		t.Fatalf("expected money term detection")
	}
	if HasMoneyTerm(map[string]struct{}{"优特智厨": {}, "002508": {}}) {
		t.Fatalf("did not expect money term")
	}
}

func TestIntersectionAndHasAny(t *testing.T) {
	t.Parallel()

	a := map[string]struct{}{"增资": {}, "优特智厨": {}, "1亿元": {}}
	b := map[string]struct{}{"增资": {}, "优特智厨": {}, "002508": {}}

	inter := Intersection(a, b)
	if len(inter) != 2 {
		t.Fatalf("unexpected intersection: %v", inter)
	}
	if !HasAny(inter, []string{"优特智厨", "UTCOOK"}) {
		t.Fatalf("expected counterparty in intersection")
	}
	if HasAny(inter, []string{"炒菜机器人"}) {
		t.Fatalf("did not expect theme in intersection")
	}
}
