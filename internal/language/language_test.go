package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "en"},
		{" EN ", "en"},
		{"eng", "en"},
		{"english", "en"},
		{"ger", "de"},
		{"en_us", "en-US"},
		{"ENG-gb", "en-GB"},
		{"es-419", "es-419"},
		{"chinese-hans", "zh-Hans"},
		{"en-orig", "en-orig"},
		{"fil", "fil"},
		{"pt--BR", "pt-BR"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, Normalize(tt.input), "Normalize(%q)", tt.input)
	}
}

func TestBase(t *testing.T) {
	assert.Equal(t, "en", Base("eng-US"))
	assert.Equal(t, "fil", Base("fil"))
	assert.Equal(t, "", Base(" "))
}

func TestNormalizeList(t *testing.T) {
	got := NormalizeList([]string{"EN", " de ", "english", "", "en-us", "en_US"})
	assert.Equal(t, []string{"en", "de", "en-US"}, got)
	assert.Empty(t, NormalizeList(nil))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "English", DisplayName("en"))
	assert.Equal(t, "English (US)", DisplayName("en_us"))
	assert.Equal(t, "French", DisplayName("fre"))
	assert.Equal(t, "fil", DisplayName("FIL"))
	assert.Equal(t, "Unknown", DisplayName(""))
}
