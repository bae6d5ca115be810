package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ad-quality/internal/rules"
	"github.com/jonathan/ad-quality/internal/types"
)

func TestRulesCommands_File(t *testing.T) {
	path := writeFile(t, "rules.json", rulesFixture)

	out, err := execute(t, "", "rules", "list", "--json", "--rules", path)
	require.NoError(t, err)
	assert.Equal(t, []string{"ACME"}, decodeOutput[[]string](t, out))

	out, err = execute(t, "", "rules", "get", "acme", "--json", "--rules", path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Globex"}, decodeOutput[types.EntityRules](t, out).CompetitorNames)

	out, err = execute(t, `{"prohibited_words": ["free", " FREE "], "competitor_names": []}`,
		"rules", "set", "Initech", "--json", "--rules", path)
	require.NoError(t, err)
	assert.Equal(t, []string{"free"}, decodeOutput[types.EntityRules](t, out).ProhibitedWords)

	// the file was rewritten and still loads
	reloaded, err := rules.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"ACME", "Initech"}, reloaded.Entities())

	out, err = execute(t, "", "rules", "delete", "acme", "--rules", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted rules for acme")

	_, err = execute(t, "", "rules", "get", "acme", "--rules", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no rules for entity "acme"`)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "ACME")
}

func TestRulesCommands_NoSource(t *testing.T) {
	_, err := execute(t, "", "rules", "list")
	assert.ErrorIs(t, err, errNoRulesSource)
}

func TestRulesCommands_InvalidFile(t *testing.T) {
	path := writeFile(t, "rules.json", `{"entities": {"ACME": {"prohibited_words": [""]}}}`)

	_, err := execute(t, "", "rules", "list", "--rules", path)
	assert.Error(t, err)
}
