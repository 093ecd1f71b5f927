// Package matching implements the lost-and-found matching engine: pairwise
// similarity scoring, enterprise relationship resolution, score composition,
// and ranked candidate search.
package matching

import (
	"math"
	"strings"

	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/normalizers"
)

// fillerWords are dropped from title tokens before overlap comparison
var fillerWords = map[string]bool{
	"a":     true,
	"an":    true,
	"the":   true,
	"my":    true,
	"lost":  true,
	"found": true,
}

// ScorerConfig holds the factor weights used by SimilarityScorer. The
// weights sum to 1.0 so a perfect candidate scores exactly 1.0 raw.
type ScorerConfig struct {
	TitleWeight       float64
	CategoryWeight    float64
	DescriptionWeight float64
	KeywordsWeight    float64
	LocationWeight    float64
	TimeWeight        float64
	ColorWeight       float64
	BrandWeight       float64
}

// DefaultScorerConfig returns the production weights
func DefaultScorerConfig() ScorerConfig {
	return ScorerConfig{
		TitleWeight:       0.35,
		CategoryWeight:    0.20,
		DescriptionWeight: 0.10,
		KeywordsWeight:    0.10,
		LocationWeight:    0.10,
		TimeWeight:        0.10,
		ColorWeight:       0.025,
		BrandWeight:       0.025,
	}
}

// SimilarityScorer computes a weighted raw similarity score between two
// items. It is stateless and safe for concurrent use.
type SimilarityScorer struct {
	config ScorerConfig
}

// NewSimilarityScorer creates a SimilarityScorer with the given weights
func NewSimilarityScorer(config ScorerConfig) *SimilarityScorer {
	return &SimilarityScorer{config: config}
}

// Score compares a source item against a candidate and returns the weighted
// composite raw score along with a per-factor breakdown. Breakdown values
// are the unweighted factor scores, each in [0, 1]. Missing or empty fields
// contribute 0 to their factor; Score never fails on sparse data.
func (s *SimilarityScorer) Score(source, candidate models.Item) (float64, map[string]float64) {
	breakdown := map[string]float64{
		"title":       s.TitleSimilarity(source.Title, candidate.Title),
		"category":    s.CategorySimilarity(source.Category, candidate.Category),
		"description": s.DescriptionSimilarity(source.Description, candidate.Description),
		"keywords":    s.KeywordSimilarity(source.Keywords, candidate.Keywords),
		"location":    s.LocationSimilarity(source.Location, candidate.Location),
		"time":        s.TimeProximity(source, candidate),
		"color":       s.ColorSimilarity(source.PrimaryColor, candidate.PrimaryColor),
		"brand":       s.BrandSimilarity(source.Brand, candidate.Brand),
	}

	composite := breakdown["title"]*s.config.TitleWeight +
		breakdown["category"]*s.config.CategoryWeight +
		breakdown["description"]*s.config.DescriptionWeight +
		breakdown["keywords"]*s.config.KeywordsWeight +
		breakdown["location"]*s.config.LocationWeight +
		breakdown["time"]*s.config.TimeWeight +
		breakdown["color"]*s.config.ColorWeight +
		breakdown["brand"]*s.config.BrandWeight

	return composite, breakdown
}

// TitleSimilarity compares two titles. Whitespace and case insensitive
// equality scores 1.0, containment 0.9. Otherwise the titles are tokenized,
// filler words are dropped, and the score is the Jaccard overlap of the
// remaining word sets plus a partial-substring bonus of 0.1 per cross-pair
// of words (length >= 3) where one contains the other, capped at 0.3.
func (s *SimilarityScorer) TitleSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}

	na := normalizers.ApplyChain(a, "lowercase", "remove_whitespace")
	nb := normalizers.ApplyChain(b, "lowercase", "remove_whitespace")
	if na == nb {
		return 1.0
	}

	la := strings.ToLower(a)
	lb := strings.ToLower(b)
	if strings.Contains(la, lb) || strings.Contains(lb, la) {
		return 0.9
	}

	wordsA := contentWords(la)
	wordsB := contentWords(lb)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0.0
	}

	overlap := jaccard(wordsA, wordsB)

	bonus := 0.0
	for wa := range wordsA {
		for wb := range wordsB {
			if wa == wb || len(wa) < 3 || len(wb) < 3 {
				continue
			}
			if strings.Contains(wa, wb) || strings.Contains(wb, wa) {
				bonus += 0.1
			}
		}
	}
	if bonus > 0.3 {
		bonus = 0.3
	}

	return math.Min(overlap+bonus, 1.0)
}

// CategorySimilarity is a case-insensitive exact match
func (s *SimilarityScorer) CategorySimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}
	if strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b)) {
		return 1.0
	}
	return 0.0
}

// DescriptionSimilarity compares descriptions: exact match 1.0, containment
// 0.8, otherwise Jaccard word overlap of raw tokens without filler removal.
func (s *SimilarityScorer) DescriptionSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}

	la := strings.ToLower(strings.TrimSpace(a))
	lb := strings.ToLower(strings.TrimSpace(b))
	if la == lb {
		return 1.0
	}
	if strings.Contains(la, lb) || strings.Contains(lb, la) {
		return 0.8
	}

	return jaccard(wordSet(la), wordSet(lb))
}

// KeywordSimilarity is the Jaccard similarity of the two keyword sets,
// compared case-insensitively. Either set empty scores 0.
func (s *SimilarityScorer) KeywordSimilarity(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	setA := make(map[string]bool, len(a))
	for _, k := range a {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			setA[k] = true
		}
	}
	setB := make(map[string]bool, len(b))
	for _, k := range b {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			setB[k] = true
		}
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}

	return jaccard(setA, setB)
}

// LocationSimilarity scores by place: same building and room 1.0, same
// building 0.8, otherwise banded by straight-line coordinate distance.
func (s *SimilarityScorer) LocationSimilarity(a, b models.Location) float64 {
	if a.Building != "" && b.Building != "" && strings.EqualFold(a.Building, b.Building) {
		if a.Room != nil && b.Room != nil && strings.EqualFold(*a.Room, *b.Room) {
			return 1.0
		}
		return 0.8
	}

	if a.Latitude == nil || a.Longitude == nil || b.Latitude == nil || b.Longitude == nil {
		return 0.0
	}

	dist := math.Hypot(*a.Latitude-*b.Latitude, *a.Longitude-*b.Longitude)
	switch {
	case dist < 0.1:
		return 0.6
	case dist < 0.5:
		return 0.3
	case dist < 1.0:
		return 0.1
	default:
		return 0.0
	}
}

// TimeProximity scores how close together the two reports were filed
func (s *SimilarityScorer) TimeProximity(a, b models.Item) float64 {
	if a.ReportedDate.IsZero() || b.ReportedDate.IsZero() {
		return 0.0
	}

	hours := math.Abs(a.ReportedDate.Sub(b.ReportedDate).Hours())
	switch {
	case hours < 24:
		return 1.0
	case hours < 72:
		return 0.7
	case hours < 168:
		return 0.4
	case hours < 336:
		return 0.2
	default:
		return 0.0
	}
}

// ColorSimilarity is a flat bonus when both colors are present and equal
// after normalization
func (s *SimilarityScorer) ColorSimilarity(a, b *string) float64 {
	if a == nil || b == nil {
		return 0.0
	}
	na := normalizers.NormalizeColor(*a)
	nb := normalizers.NormalizeColor(*b)
	if na == "" || nb == "" {
		return 0.0
	}
	if na == nb {
		return 1.0
	}
	return 0.0
}

// BrandSimilarity is a flat bonus when both brands are present and equal
// after normalization
func (s *SimilarityScorer) BrandSimilarity(a, b *string) float64 {
	if a == nil || b == nil {
		return 0.0
	}
	na := normalizers.NormalizeBrand(*a)
	nb := normalizers.NormalizeBrand(*b)
	if na == "" || nb == "" {
		return 0.0
	}
	if na == nb {
		return 1.0
	}
	return 0.0
}

// contentWords tokenizes a lowercased string and drops filler words
func contentWords(s string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		if !fillerWords[w] {
			words[w] = true
		}
	}
	return words
}

// wordSet tokenizes a lowercased string keeping every token
func wordSet(s string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		words[w] = true
	}
	return words
}

// jaccard is |intersection| / |union| of two word sets
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	intersection := 0
	for w := range a {
		if b[w] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection

	return float64(intersection) / float64(union)
}
