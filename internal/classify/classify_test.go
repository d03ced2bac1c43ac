package classify

import "testing"

func TestIsMarketNoise(t *testing.T) {
	t.Parallel()

	noisy := []string{
		"今日3只个股突破年线",
		"盘中播报：XX股份快速拉升",
		"龙虎榜数据揭秘",
		"主力资金流向监测",
		"收盘快评",
	}
	for _, title := range noisy {
		if !IsMarketNoise(title, "") {
			t.Fatalf("expected market noise: %q", title)
		}
	}

	clean := []string{
		"某公司与优特智厨签署1亿元战略投资意向书",
		"老板电器发布年度财报",
	}
	for _, title := range clean {
		if IsMarketNoise(title, "") {
			t.Fatalf("did not expect market noise: %q", title)
		}
	}

	if IsMarketNoise("", "") {
		t.Fatalf("empty record must not classify as noise")
	}
}

func TestIsMarketNoise_MatchesContent(t *testing.T) {
	t.Parallel()

	if !IsMarketNoise("公司动态", "该股今日涨停，换手率创新高") {
		t.Fatalf("expected noise match in content")
	}
}

func TestIsFlashLike(t *testing.T) {
	t.Parallel()

	if !IsFlashLike("某平台", "AI快讯：老板电器增资优特智厨", "") {
		t.Fatalf("expected flash-like for AI快讯 title")
	}
	if !IsFlashLike("人民财讯", "老板电器对外投资", "公司今日公告") {
		t.Fatalf("expected flash-like for allowlisted source")
	}
	if !IsFlashLike("某报", "老板电器", "公司发布公告，拟增资1亿元") {
		t.Fatalf("expected flash-like for 发布公告 content")
	}
	if IsFlashLike("深度观察", "智能厨房的长期主义", "长篇分析……") {
		t.Fatalf("did not expect flash-like for analysis piece")
	}
}
