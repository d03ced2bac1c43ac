// Package dedupe decides whether two news records restate the same content
// or the same underlying event. It layers three signals: content-hash
// equality, character-bigram Jaccard similarity, and event-signature
// matching gated to flash-style records published close together.
package dedupe

import (
	"time"

	"horse.fit/newswash/internal/classify"
	"horse.fit/newswash/internal/signature"
	"horse.fit/newswash/internal/similarity"
	"horse.fit/newswash/internal/textnorm"
)

// Config carries the tunable thresholds and bounds. The lookback and sweep
// caps are operational limits, not correctness guarantees: a duplicate whose
// original falls outside them is only caught by a later full re-sweep.
type Config struct {
	ContentSimThreshold float64
	EventSimThreshold   float64
	EventNearWindow     time.Duration
	BigramMaxChars      int
	HashMaxChars        int
	MinContentChars     int
	RecentLookback      int
	SweepLimit          int
}

func DefaultConfig() Config {
	return Config{
		ContentSimThreshold: 0.92,
		EventSimThreshold:   0.45,
		EventNearWindow:     24 * time.Hour,
		BigramMaxChars:      similarity.DefaultBigramMaxChars,
		HashMaxChars:        similarity.DefaultHashMaxChars,
		MinContentChars:     120,
		RecentLookback:      80,
		SweepLimit:          1000,
	}
}

// Record is the view of a news record the detector needs.
type Record struct {
	ID          int64
	Symbol      string
	Source      string
	Title       string
	Content     string
	PublishedAt *time.Time
}

// Fingerprint holds the derived comparison state for one record. It is
// computed fresh per run and never persisted, so normalization and
// extraction rules can evolve without a backfill.
type Fingerprint struct {
	Record      Record
	ContentHash string
	Bigrams     map[string]struct{}
	EventSig    map[string]struct{}
	FlashLike   bool
	emptyText   bool
}

type Detector struct {
	cfg       Config
	extractor *signature.Extractor
}

func NewDetector(cfg Config, extractor *signature.Extractor) *Detector {
	if extractor == nil {
		extractor = signature.NewExtractor(signature.DefaultConfig())
	}
	return &Detector{cfg: cfg, extractor: extractor}
}

func (d *Detector) Config() Config {
	return d.cfg
}

// ComparisonText returns the text a record is compared by: the content when
// it is long enough to be informative on its own, otherwise title+content,
// since bigram sets over near-empty content match everything and nothing.
func (d *Detector) ComparisonText(title, content string) string {
	if len([]rune(textnorm.Normalize(content))) >= d.cfg.MinContentChars {
		return content
	}
	joined := title + " " + content
	return joined
}

// Fingerprint derives the comparison state for a record.
func (d *Detector) Fingerprint(rec Record) Fingerprint {
	text := d.ComparisonText(rec.Title, rec.Content)
	normalized := textnorm.Normalize(text)

	return Fingerprint{
		Record:      rec,
		ContentHash: similarity.ContentHash(text, d.cfg.HashMaxChars),
		Bigrams:     similarity.Bigrams(text, d.cfg.BigramMaxChars),
		EventSig:    d.extractor.Extract(text),
		FlashLike:   classify.IsFlashLike(rec.Source, rec.Title, rec.Content),
		emptyText:   normalized == "",
	}
}

// IsContentDuplicate reports whether two records carry the same content:
// equal content hashes, or bigram Jaccard at or above the content threshold.
func (d *Detector) IsContentDuplicate(a, b Fingerprint) bool {
	if a.ContentHash == b.ContentHash {
		return true
	}
	return similarity.Jaccard(a.Bigrams, b.Bigrams) >= d.cfg.ContentSimThreshold
}

// IsEventDuplicate reports whether two records retell the same underlying
// event. Matching is restricted to flash-vs-flash pairs published within the
// near window: an analytical piece revisiting an old announcement must not
// be folded into the original wire flash.
func (d *Detector) IsEventDuplicate(a, b Fingerprint) bool {
	if len(a.EventSig) == 0 || len(b.EventSig) == 0 {
		return false
	}
	if !a.FlashLike || !b.FlashLike {
		return false
	}
	if !withinWindow(a.Record.PublishedAt, b.Record.PublishedAt, d.cfg.EventNearWindow) {
		return false
	}

	inter := signature.Intersection(a.EventSig, b.EventSig)
	terms := d.extractor.Terms()

	counterparty := signature.HasAny(inter, terms.Counterparties)
	action := signature.HasAny(inter, terms.Actions)
	theme := signature.HasAny(inter, terms.Themes)
	code := signature.HasStockCode(inter)
	money := signature.HasMoneyTerm(inter) ||
		(signature.HasMoneyTerm(a.EventSig) && signature.HasMoneyTerm(b.EventSig))

	if code && counterparty && action {
		if money || similarity.Jaccard(a.EventSig, b.EventSig) >= d.cfg.EventSimThreshold {
			return true
		}
	}

	// Weak rule: amount may be missing from one retelling, but counterparty,
	// action, and theme together still pin the event.
	return counterparty && action && theme
}

// IsDuplicateOf reports whether candidate duplicates any of the prior
// records, checked in the order given and short-circuiting on first match.
// Callers bound the prior window (most-recent-first, RecentLookback cap).
func (d *Detector) IsDuplicateOf(candidate Fingerprint, priors []Record) bool {
	if candidate.emptyText {
		return false
	}
	for _, prior := range priors {
		prev := d.Fingerprint(prior)
		if prev.emptyText {
			continue
		}
		if d.IsContentDuplicate(candidate, prev) {
			return true
		}
		if d.IsEventDuplicate(candidate, prev) {
			return true
		}
	}
	return false
}

// SweepDeletion records one duplicate found during a chronological sweep.
type SweepDeletion struct {
	Record Record
	KeptID int64
}

// Sweep walks records in the given (chronological) order, keeping the first
// occurrence of each content or event and flagging later duplicates. Each
// record's fingerprint is computed once; kept entries are scanned in order
// with a first-match short-circuit.
func (d *Detector) Sweep(records []Record) []SweepDeletion {
	if len(records) <= 1 {
		return nil
	}

	kept := make([]Fingerprint, 0, len(records))
	var deletions []SweepDeletion

	for _, rec := range records {
		fp := d.Fingerprint(rec)

		duplicate := false
		var keptID int64
		for _, prev := range kept {
			if d.IsContentDuplicate(fp, prev) || d.IsEventDuplicate(fp, prev) {
				duplicate = true
				keptID = prev.Record.ID
				break
			}
		}

		if duplicate {
			deletions = append(deletions, SweepDeletion{Record: rec, KeptID: keptID})
			continue
		}
		kept = append(kept, fp)
	}

	return deletions
}

func withinWindow(a, b *time.Time, window time.Duration) bool {
	if a == nil || b == nil {
		return false
	}
	diff := a.Sub(*b)
	if diff < 0 {
		diff = -diff
	}
	return diff <= window
}
