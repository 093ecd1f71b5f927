package matching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/clover/pkg/models"
)

func newTestScorer() *SimilarityScorer {
	return NewSimilarityScorer(DefaultScorerConfig())
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func TestTitleSimilarity(t *testing.T) {
	s := newTestScorer()

	t.Run("ExactMatchIgnoresCaseAndWhitespace", func(t *testing.T) {
		assert.Equal(t, 1.0, s.TitleSimilarity("Blue Backpack", "blue  backpack"))
	})

	t.Run("Containment", func(t *testing.T) {
		assert.Equal(t, 0.9, s.TitleSimilarity("Nike Backpack", "Blue Nike Backpack"))
	})

	t.Run("ReorderedWordsScoreFullOverlap", func(t *testing.T) {
		assert.Equal(t, 1.0, s.TitleSimilarity("Blue Nike Backpack", "Backpack blue nike"))
	})

	t.Run("FillerWordsAreIgnored", func(t *testing.T) {
		assert.Equal(t, 1.0, s.TitleSimilarity("my lost wallet", "the wallet"))
	})

	t.Run("OnlyFillerWordsScoresZero", func(t *testing.T) {
		assert.Equal(t, 0.0, s.TitleSimilarity("lost", "wallet"))
	})

	t.Run("SubstringBonus", func(t *testing.T) {
		// no shared words, but "backpack" is contained in "backpacks"
		score := s.TitleSimilarity("red backpack", "crimson backpacks")
		assert.InDelta(t, 0.1, score, 0.0001)
	})

	t.Run("SubstringBonusIsCapped", func(t *testing.T) {
		score := s.TitleSimilarity("backpack jacket umbrella wallet", "backpacks jackets umbrellas wallets")
		assert.InDelta(t, 0.3, score, 0.0001)
	})

	t.Run("EmptyTitleScoresZero", func(t *testing.T) {
		assert.Equal(t, 0.0, s.TitleSimilarity("", "wallet"))
		assert.Equal(t, 0.0, s.TitleSimilarity("wallet", ""))
	})

	t.Run("Symmetry", func(t *testing.T) {
		pairs := [][2]string{
			{"Blue Nike Backpack", "Backpack blue nike"},
			{"red umbrella", "large red umbrella with wooden handle"},
			{"iphone 13", "black iphone"},
		}
		for _, p := range pairs {
			assert.Equal(t, s.TitleSimilarity(p[0], p[1]), s.TitleSimilarity(p[1], p[0]))
		}
	})
}

func TestCategorySimilarity(t *testing.T) {
	s := newTestScorer()

	assert.Equal(t, 1.0, s.CategorySimilarity("BACKPACK", "backpack"))
	assert.Equal(t, 1.0, s.CategorySimilarity(" electronics", "electronics "))
	assert.Equal(t, 0.0, s.CategorySimilarity("backpack", "wallet"))
	assert.Equal(t, 0.0, s.CategorySimilarity("", "wallet"))
}

func TestDescriptionSimilarity(t *testing.T) {
	s := newTestScorer()

	t.Run("ExactMatch", func(t *testing.T) {
		assert.Equal(t, 1.0, s.DescriptionSimilarity("Blue backpack with laptop", "blue backpack with laptop"))
	})

	t.Run("Containment", func(t *testing.T) {
		assert.Equal(t, 0.8, s.DescriptionSimilarity("blue backpack", "a worn blue backpack with stickers"))
	})

	t.Run("WordOverlap", func(t *testing.T) {
		// {blue, jansport, backpack} vs {red, jansport, backpack}: 2 shared of 4 total
		assert.InDelta(t, 0.5, s.DescriptionSimilarity("blue jansport backpack", "red jansport backpack"), 0.0001)
	})

	t.Run("MissingDescriptionScoresZero", func(t *testing.T) {
		assert.Equal(t, 0.0, s.DescriptionSimilarity("", "anything"))
	})
}

func TestKeywordSimilarity(t *testing.T) {
	s := newTestScorer()

	assert.InDelta(t, 1.0/3.0, s.KeywordSimilarity([]string{"nike", "blue"}, []string{"Nike", "water bottle"}), 0.0001)
	assert.Equal(t, 1.0, s.KeywordSimilarity([]string{"nike"}, []string{"NIKE "}))
	assert.Equal(t, 0.0, s.KeywordSimilarity(nil, []string{"nike"}))
	assert.Equal(t, 0.0, s.KeywordSimilarity([]string{"nike"}, nil))
}

func TestLocationSimilarity(t *testing.T) {
	s := newTestScorer()

	t.Run("SameBuildingAndRoom", func(t *testing.T) {
		a := models.Location{Building: "Building A", Room: strPtr("101")}
		b := models.Location{Building: "building a", Room: strPtr("101")}
		assert.Equal(t, 1.0, s.LocationSimilarity(a, b))
	})

	t.Run("SameBuildingDifferentRoom", func(t *testing.T) {
		a := models.Location{Building: "Building A", Room: strPtr("101")}
		b := models.Location{Building: "Building A", Room: strPtr("202")}
		assert.Equal(t, 0.8, s.LocationSimilarity(a, b))
	})

	t.Run("SameBuildingMissingRoom", func(t *testing.T) {
		a := models.Location{Building: "Building A"}
		b := models.Location{Building: "Building A", Room: strPtr("101")}
		assert.Equal(t, 0.8, s.LocationSimilarity(a, b))
	})

	t.Run("DistanceBands", func(t *testing.T) {
		base := models.Location{Building: "A", Latitude: floatPtr(10.0), Longitude: floatPtr(10.0)}
		cases := []struct {
			name     string
			lat, lng float64
			expected float64
		}{
			{"VeryClose", 10.05, 10.0, 0.6},
			{"Close", 10.3, 10.0, 0.3},
			{"Nearby", 10.0, 10.8, 0.1},
			{"Far", 12.0, 10.0, 0.0},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				other := models.Location{Building: "B", Latitude: floatPtr(tc.lat), Longitude: floatPtr(tc.lng)}
				assert.Equal(t, tc.expected, s.LocationSimilarity(base, other))
			})
		}
	})

	t.Run("MissingCoordinatesScoreZero", func(t *testing.T) {
		a := models.Location{Building: "A", Latitude: floatPtr(10.0), Longitude: floatPtr(10.0)}
		b := models.Location{Building: "B"}
		assert.Equal(t, 0.0, s.LocationSimilarity(a, b))
	})
}

func TestTimeProximity(t *testing.T) {
	s := newTestScorer()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		offset   time.Duration
		expected float64
	}{
		{"SameDay", 12 * time.Hour, 1.0},
		{"TwoDays", 48 * time.Hour, 0.7},
		{"FourDays", 100 * time.Hour, 0.4},
		{"NineDays", 200 * time.Hour, 0.2},
		{"ThreeWeeks", 400 * time.Hour, 0.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := models.Item{ReportedDate: base}
			b := models.Item{ReportedDate: base.Add(tc.offset)}
			assert.Equal(t, tc.expected, s.TimeProximity(a, b))
			assert.Equal(t, tc.expected, s.TimeProximity(b, a))
		})
	}

	t.Run("ZeroDateScoresZero", func(t *testing.T) {
		a := models.Item{ReportedDate: base}
		assert.Equal(t, 0.0, s.TimeProximity(a, models.Item{}))
	})
}

func TestColorAndBrandSimilarity(t *testing.T) {
	s := newTestScorer()

	assert.Equal(t, 1.0, s.ColorSimilarity(strPtr("Navy  Blue"), strPtr("navy blue")))
	assert.Equal(t, 0.0, s.ColorSimilarity(strPtr("red"), strPtr("blue")))
	assert.Equal(t, 0.0, s.ColorSimilarity(nil, strPtr("blue")))

	assert.Equal(t, 1.0, s.BrandSimilarity(strPtr("Levi's"), strPtr("levis")))
	assert.Equal(t, 0.0, s.BrandSimilarity(strPtr("Nike"), strPtr("Adidas")))
	assert.Equal(t, 0.0, s.BrandSimilarity(strPtr("Nike"), nil))
}

func TestScore(t *testing.T) {
	s := newTestScorer()
	reported := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("IdenticalItemsScoreOne", func(t *testing.T) {
		item := models.Item{
			Title:        "Blue Nike Backpack",
			Category:     "backpack",
			Description:  "blue backpack with white logo",
			Keywords:     []string{"nike", "blue", "backpack"},
			Location:     models.Location{Building: "Building A", Room: strPtr("101")},
			ReportedDate: reported,
			PrimaryColor: strPtr("blue"),
			Brand:        strPtr("Nike"),
		}

		composite, breakdown := s.Score(item, item)
		assert.InDelta(t, 1.0, composite, 0.0001)
		for factor, score := range breakdown {
			assert.Equal(t, 1.0, score, factor)
		}
	})

	t.Run("MissingColorAndBrandBoundTheScore", func(t *testing.T) {
		item := models.Item{
			Title:        "Blue Nike Backpack",
			Category:     "backpack",
			Description:  "blue backpack with white logo",
			Keywords:     []string{"nike"},
			Location:     models.Location{Building: "Building A", Room: strPtr("101")},
			ReportedDate: reported,
		}

		composite, breakdown := s.Score(item, item)
		assert.InDelta(t, 0.95, composite, 0.0001)
		assert.Equal(t, 0.0, breakdown["color"])
		assert.Equal(t, 0.0, breakdown["brand"])
	})

	t.Run("AllNullItemsScoreZero", func(t *testing.T) {
		composite, _ := s.Score(models.Item{}, models.Item{})
		assert.Equal(t, 0.0, composite)
	})

	t.Run("ScoreIsAlwaysInRange", func(t *testing.T) {
		a := models.Item{Title: "backpack jacket umbrella wallet", Category: "misc", ReportedDate: reported}
		b := models.Item{Title: "backpacks jackets umbrellas wallets", Category: "misc", ReportedDate: reported}
		composite, _ := s.Score(a, b)
		assert.GreaterOrEqual(t, composite, 0.0)
		assert.LessOrEqual(t, composite, 1.0)
	})
}
