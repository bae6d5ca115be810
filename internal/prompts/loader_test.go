package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_HeadlinePrompt(t *testing.T) {
	prompt, err := Get(Rewriting, "headline-alternative")
	require.NoError(t, err)
	assert.Contains(t, prompt, "{{.Headline}}")
	assert.Contains(t, prompt, "{{.Limit}}")
	assert.Contains(t, prompt, `"alternative"`)
}

func TestGet_InvalidFile(t *testing.T) {
	_, err := Get("nonexistent.json", "some-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prompt file nonexistent.json not found")
}

func TestGet_InvalidKey(t *testing.T) {
	_, err := Get(Rewriting, "nonexistent-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet(t *testing.T) {
	assert.Panics(t, func() { MustGet("nonexistent.json", "x") })
	assert.NotPanics(t, func() {
		assert.NotEmpty(t, MustGet(Rewriting, "headline-avoid"))
	})
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		template string
		data     map[string]string
		want     string
	}{
		{"fills placeholders", "Rewrite {{.Headline}} in {{.Limit}}", map[string]string{"Headline": "Trade Now", "Limit": "30"}, "Rewrite Trade Now in 30"},
		{"repeated placeholder", "{{.A}}-{{.A}}", map[string]string{"A": "x"}, "x-x"},
		{"unknown placeholder kept", "Hello {{.Name}}", map[string]string{"Other": "v"}, "Hello {{.Name}}"},
		{"empty data", "Hello {{.Name}}", nil, "Hello {{.Name}}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.template, tt.data))
		})
	}
}

func TestKeys(t *testing.T) {
	keys, err := Keys(Rewriting)
	require.NoError(t, err)
	assert.Equal(t, []string{"headline-alternative", "headline-avoid"}, keys)
}

func TestKeys_UnknownFile(t *testing.T) {
	_, err := Keys("missing.json")
	assert.Error(t, err)
}

func TestRewritingPromptsFormatCompletely(t *testing.T) {
	prompt := Format(MustGet(Rewriting, "headline-alternative"), map[string]string{
		"Limit":    "30",
		"Avoid":    "",
		"Headline": "Trade Forex Today",
	})
	assert.NotContains(t, prompt, "{{.")
	assert.Contains(t, prompt, "Headline: Trade Forex Today")
}
