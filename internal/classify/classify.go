// Package classify holds the pattern-based record classifiers: the market
// noise filter that short-circuits records to deletion, and the softer
// flash-like heuristic that gates event-signature deduplication.
package classify

import (
	"regexp"
	"strings"
)

// Market-mechanics chatter: intraday recaps, technical levels, capital flow
// rankings. Records matching any of these carry no analytical value.
var marketNoisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`盘中播报`),
	regexp.MustCompile(`今日\d+只个股`),
	regexp.MustCompile(`突破年线`),
	regexp.MustCompile(`跨越牛熊分界线`),
	regexp.MustCompile(`创(历史)?新高`),
	regexp.MustCompile(`涨停`),
	regexp.MustCompile(`跌停`),
	regexp.MustCompile(`资金流向`),
	regexp.MustCompile(`龙虎榜`),
	regexp.MustCompile(`换手率`),
	regexp.MustCompile(`技术面`),
	regexp.MustCompile(`均线`),
	regexp.MustCompile(`K线`),
	regexp.MustCompile(`分时`),
	regexp.MustCompile(`收盘|开盘`),
	regexp.MustCompile(`主力`),
	regexp.MustCompile(`大单`),
	regexp.MustCompile(`北向资金`),
}

// Wire-flash style markers, matched against lowercased source+title+content.
var flashPatterns = []*regexp.Regexp{
	regexp.MustCompile(`ai快讯`),
	regexp.MustCompile(`盘中播报`),
	regexp.MustCompile(`财讯`),
	regexp.MustCompile(`电`),
	regexp.MustCompile(`公告称`),
	regexp.MustCompile(`发布公告`),
}

// Outlets that publish bulletin-style feeds rather than analysis pieces.
var flashSourceHints = []string{
	"人民财讯",
	"每日经济新闻",
	"中国证券报",
	"中证网",
	"财中社",
	"证券时报网",
}

// IsMarketNoise reports whether title+content reads as pure market-mechanics
// reporting. Pure and total; no I/O.
func IsMarketNoise(title, content string) bool {
	text := strings.TrimSpace(title + " " + content)
	if text == "" {
		return false
	}
	for _, pattern := range marketNoisePatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

// IsFlashLike reports whether a record looks like a wire flash or bulletin
// rather than an analytical article. Used only to gate event-signature
// matching, never to delete on its own.
func IsFlashLike(source, title, content string) bool {
	combined := strings.ToLower(source + " " + title + " " + content)
	for _, pattern := range flashPatterns {
		if pattern.MatchString(combined) {
			return true
		}
	}
	for _, hint := range flashSourceHints {
		if strings.Contains(source, hint) {
			return true
		}
	}
	return false
}
