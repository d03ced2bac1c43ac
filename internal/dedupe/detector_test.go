package dedupe

import (
	"strings"
	"testing"
	"time"

	"horse.fit/newswash/internal/signature"
)

func newTestDetector() *Detector {
	return NewDetector(DefaultConfig(), signature.NewExtractor(signature.DefaultConfig()))
}

func timePtr(t time.Time) *time.Time {
	return &t
}

var baseTime = time.Date(2026, 8, 20, 9, 30, 0, 0, time.FixedZone("CST", 8*3600))

func longContent(seed string) string {
	return strings.Repeat(seed, 40)
}

func TestComparisonText_ShortContentFallsBackToTitle(t *testing.T) {
	t.Parallel()

	d := newTestDetector()
	if got := d.ComparisonText("标题", "短内容"); got != "标题 短内容" {
		t.Fatalf("expected title fallback, got %q", got)
	}

	long := longContent("公司公告内容很长")
	if got := d.ComparisonText("标题", long); got != long {
		t.Fatalf("expected long content to stand alone")
	}
}

func TestIsContentDuplicate_IdenticalContentDifferentTitle(t *testing.T) {
	t.Parallel()

	d := newTestDetector()
	content := longContent("老板电器公告称拟对珠海优特智厨增资，本次增资完成后持股比例将提升。")

	a := d.Fingerprint(Record{ID: 1, Title: "标题甲", Content: content, PublishedAt: timePtr(baseTime)})
	b := d.Fingerprint(Record{ID: 2, Title: "标题乙", Content: content, PublishedAt: timePtr(baseTime.Add(time.Hour))})

	if !d.IsContentDuplicate(a, b) {
		t.Fatalf("identical content must be a content duplicate")
	}
}

func TestIsContentDuplicate_NearIdenticalWireCopy(t *testing.T) {
	t.Parallel()

	d := newTestDetector()
	base := "老板电器今日公告，公司与珠海优特智厨签署投资合作意向书，拟以自有资金增资1亿元，交易完成后公司将持有其部分股权。" +
		"公告显示，优特智厨专注于炒菜机器人及智能餐饮解决方案，双方将在产品研发、渠道共享等方面展开深度协同。" +
		"公司表示，本次投资符合长期战略方向，预计不会对当期业绩产生重大影响，后续进展将另行披露。"

	a := d.Fingerprint(Record{ID: 1, Title: "快讯", Content: base})
	b := d.Fingerprint(Record{ID: 2, Title: "播报", Content: "本报讯 " + base})

	if a.ContentHash == b.ContentHash {
		t.Fatalf("prefix edit should change the content hash")
	}
	if !d.IsContentDuplicate(a, b) {
		t.Fatalf("near-identical wire copy must exceed the bigram threshold")
	}

	c := d.Fingerprint(Record{ID: 3, Title: "其他", Content: longContent("完全无关的另一家公司发布了季度经营数据，与前述事项没有任何联系。")})
	if d.IsContentDuplicate(a, c) {
		t.Fatalf("unrelated content must not be a content duplicate")
	}
}

func TestIsEventDuplicate_FlashRestatementSameDay(t *testing.T) {
	t.Parallel()

	d := newTestDetector()

	a := d.Fingerprint(Record{
		ID:          10,
		Source:      "人民财讯",
		Title:       "XX公司与优特智厨签署投资合作意向书，增资1亿元，股票代码002508",
		PublishedAt: timePtr(baseTime),
	})
	b := d.Fingerprint(Record{
		ID:          11,
		Source:      "证券时报网",
		Title:       "老板电器拟向珠海优特智厨增资1亿元人民币（002508）",
		PublishedAt: timePtr(baseTime.Add(5 * time.Hour)),
	})

	if !d.IsEventDuplicate(a, b) {
		t.Fatalf("same-day flash restatements must be event duplicates")
	}
}

func TestIsEventDuplicate_WindowGateRejectsLateAnalysis(t *testing.T) {
	t.Parallel()

	d := newTestDetector()

	flash := d.Fingerprint(Record{
		ID:          10,
		Source:      "人民财讯",
		Title:       "XX公司与优特智厨签署投资合作意向书，增资1亿元，股票代码002508",
		PublishedAt: timePtr(baseTime),
	})
	analysis := d.Fingerprint(Record{
		ID:          12,
		Source:      "某财经周刊",
		Title:       "复盘：老板电器为何向优特智厨增资1亿元（002508）",
		Content:     "深度解读这笔交易的战略逻辑……",
		PublishedAt: timePtr(baseTime.Add(10 * 24 * time.Hour)),
	})

	if d.IsEventDuplicate(flash, analysis) {
		t.Fatalf("analysis published 10 days later must not match the flash")
	}
}

func TestIsEventDuplicate_RequiresBothFlashLike(t *testing.T) {
	t.Parallel()

	d := newTestDetector()

	flash := d.Fingerprint(Record{
		ID:          10,
		Source:      "人民财讯",
		Title:       "优特智厨获战略投资，增资1亿元，代码002508",
		PublishedAt: timePtr(baseTime),
	})
	sameDayAnalysis := d.Fingerprint(Record{
		ID:          13,
		Source:      "独立观察",
		Title:       "优特智厨获战略投资1亿元始末（002508）",
		PublishedAt: timePtr(baseTime.Add(time.Hour)),
	})

	if sameDayAnalysis.FlashLike {
		t.Fatalf("test record unexpectedly classified flash-like")
	}
	if d.IsEventDuplicate(flash, sameDayAnalysis) {
		t.Fatalf("event matching must require both sides to be flash-like")
	}
}

func TestIsEventDuplicate_MissingDates(t *testing.T) {
	t.Parallel()

	d := newTestDetector()

	a := d.Fingerprint(Record{ID: 1, Source: "人民财讯", Title: "优特智厨增资1亿元 002508"})
	b := d.Fingerprint(Record{ID: 2, Source: "人民财讯", Title: "优特智厨获增资一事 002508", PublishedAt: timePtr(baseTime)})

	if d.IsEventDuplicate(a, b) {
		t.Fatalf("records without publish dates must not match on events")
	}
}

func TestIsDuplicateOf_ShortCircuitsOnFirstMatch(t *testing.T) {
	t.Parallel()

	d := newTestDetector()
	content := longContent("老板电器公告称拟对珠海优特智厨增资，本次增资完成后持股比例将提升。")

	candidate := d.Fingerprint(Record{ID: 5, Symbol: "002508", Title: "转发", Content: content})
	priors := []Record{
		{ID: 4, Symbol: "002508", Title: "无关", Content: longContent("另一条完全不同的旧新闻，讲的是海外市场的渠道拓展进展。")},
		{ID: 3, Symbol: "002508", Title: "原稿", Content: content},
	}

	if !d.IsDuplicateOf(candidate, priors) {
		t.Fatalf("expected duplicate against prior record")
	}

	empty := d.Fingerprint(Record{ID: 6, Symbol: "002508"})
	if d.IsDuplicateOf(empty, priors) {
		t.Fatalf("empty comparison text must never match")
	}
}

func TestSweep_DeletesLaterDuplicatesAndIsIdempotent(t *testing.T) {
	t.Parallel()

	d := newTestDetector()
	content := longContent("老板电器与优特智厨签署投资合作意向书，拟增资1亿元，深化智能餐饮合作。")

	records := []Record{
		{ID: 1, Symbol: "002508", Title: "原稿", Content: content, PublishedAt: timePtr(baseTime)},
		{ID: 2, Symbol: "002508", Title: "独家", Content: longContent("与前述事项无关的供应链调研纪要，覆盖多家上游厂商的产能情况。"), PublishedAt: timePtr(baseTime.Add(time.Hour))},
		{ID: 3, Symbol: "002508", Title: "转发", Content: content, PublishedAt: timePtr(baseTime.Add(2 * time.Hour))},
	}

	deletions := d.Sweep(records)
	if len(deletions) != 1 {
		t.Fatalf("expected exactly one sweep deletion, got %d", len(deletions))
	}
	if deletions[0].Record.ID != 3 || deletions[0].KeptID != 1 {
		t.Fatalf("expected later record 3 deleted in favor of 1, got %+v", deletions[0])
	}

	remaining := []Record{records[0], records[1]}
	if again := d.Sweep(remaining); len(again) != 0 {
		t.Fatalf("re-sweeping a deduplicated set must delete nothing, got %d", len(again))
	}
}

func TestSweep_SingleRecord(t *testing.T) {
	t.Parallel()

	d := newTestDetector()
	if got := d.Sweep([]Record{{ID: 1, Title: "唯一"}}); got != nil {
		t.Fatalf("single record sweep must return nil, got %v", got)
	}
}
