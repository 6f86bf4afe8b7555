package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	require.Equal(t, []string{"TODO", "DONE"}, cfg.OrgTodoKeywords)
	require.True(t, cfg.PlainTextCollapseNewlines)

	policy := cfg.CheckOnFor("languagetool")
	require.Equal(t, AnalyserCheckOn{OnOpen: true, OnChange: false, OnSave: true}, policy)
}

func TestApplyInitializationOptionsOverridesDefaults(t *testing.T) {
	cfg := NewConfig()
	cfg.ApplyInitializationOptions(map[string]any{
		"org_todo_keywords":           []any{"TODO", "WIP", "DONE"},
		"plaintext_collapse_newlines": false,
		"check_on": map[string]any{
			"languagetool": map[string]any{
				"on_change": true,
			},
		},
	})

	require.Equal(t, []string{"TODO", "WIP", "DONE"}, cfg.OrgTodoKeywords)
	require.False(t, cfg.PlainTextCollapseNewlines)

	policy := cfg.CheckOnFor("languagetool")
	require.True(t, policy.OnChange)
	require.True(t, policy.OnOpen)
	require.True(t, policy.OnSave)
}

func TestApplyInitializationOptionsIgnoresUnknownOrMalformedKeys(t *testing.T) {
	cfg := NewConfig()
	before := *cfg

	cfg.ApplyInitializationOptions(map[string]any{
		"org_todo_keywords":           "not-an-array",
		"plaintext_collapse_newlines": "not-a-bool",
		"check_on":                    "not-a-map",
	})

	require.Equal(t, before.OrgTodoKeywords, cfg.OrgTodoKeywords)
	require.Equal(t, before.PlainTextCollapseNewlines, cfg.PlainTextCollapseNewlines)
}
