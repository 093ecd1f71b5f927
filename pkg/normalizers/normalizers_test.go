package normalizers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuiltins(t *testing.T) {
	tests := []struct {
		name       string
		normalizer string
		input      string
		expected   string
	}{
		{"Lowercase", "lowercase", "Blue Backpack", "blue backpack"},
		{"Uppercase", "uppercase", "acme", "ACME"},
		{"Trim", "trim", "  umbrella  ", "umbrella"},
		{"RemoveWhitespace", "remove_whitespace", "blue back pack", "bluebackpack"},
		{"RemoveWhitespaceTabsAndNewlines", "remove_whitespace", "a\tb\nc", "abc"},
		{"RemovePunctuation", "remove_punctuation", "levi's, inc.", "levis inc"},
		{"Alphanumeric", "alphanumeric", "iPhone 13 Pro!", "iPhone13Pro"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Apply(tt.input, tt.normalizer))
		})
	}
}

func TestNormalizeColor(t *testing.T) {
	assert.Equal(t, "navy blue", NormalizeColor("  Navy  Blue "))
	assert.Equal(t, "red", NormalizeColor("RED"))
	assert.Equal(t, "", NormalizeColor("   "))
}

func TestNormalizeBrand(t *testing.T) {
	assert.Equal(t, "levis", NormalizeBrand("Levi's"))
	assert.Equal(t, "thenorthface", NormalizeBrand("The North Face"))
	assert.Equal(t, "adidas", NormalizeBrand("adidas"))
}

func TestApplyUnknownNormalizerIsIdentity(t *testing.T) {
	assert.Equal(t, "Blue", Apply("Blue", "does_not_exist"))
}

func TestApplyChain(t *testing.T) {
	assert.Equal(t, "bluebackpack", ApplyChain(" Blue Back pack ", "lowercase", "remove_whitespace"))
}

func TestRegisterCustomNormalizer(t *testing.T) {
	Register("reverse_test", func(s string) string {
		runes := []rune(s)
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
		return string(runes)
	})

	fn, ok := Get("reverse_test")
	assert.True(t, ok)
	assert.Equal(t, "cba", fn("abc"))
}
