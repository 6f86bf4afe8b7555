package config

// AnalyserCheckOn controls when a single analyser re-checks a document:
// on open, on every change, and/or on save.
type AnalyserCheckOn struct {
	OnOpen   bool
	OnChange bool
	OnSave   bool
}

func defaultCheckOn() AnalyserCheckOn {
	return AnalyserCheckOn{OnOpen: true, OnChange: false, OnSave: true}
}

// Config holds the server-wide settings read from the client's
// initializationOptions: one field per tsdoc.Options knob plus the
// per-analyser check-on policy.
type Config struct {
	WorkspaceRoot string

	// OrgTodoKeywords overrides the default {"TODO", "DONE"} set used to
	// recognize and strip Org TODO keywords.
	OrgTodoKeywords []string

	// PlainTextCollapseNewlines toggles whether isolated newlines in
	// plain-text documents are collapsed to spaces before checking.
	PlainTextCollapseNewlines bool

	// CheckOn is keyed by analyser name (e.g. "languagetool"); an entry
	// absent from this map falls back to defaultCheckOn().
	CheckOn map[string]AnalyserCheckOn
}

func NewConfig() *Config {
	return &Config{
		OrgTodoKeywords:           []string{"TODO", "DONE"},
		PlainTextCollapseNewlines: true,
		CheckOn:                   make(map[string]AnalyserCheckOn),
	}
}

// CheckOnFor returns the check-on policy for the named analyser, falling
// back to the package default when the client never configured one.
func (c *Config) CheckOnFor(name string) AnalyserCheckOn {
	if policy, ok := c.CheckOn[name]; ok {
		return policy
	}
	return defaultCheckOn()
}

// ApplyInitializationOptions merges the client-supplied
// initializationOptions map into the config, keyed for the
// prose-document domain.
func (c *Config) ApplyInitializationOptions(m map[string]any) {
	if keywords, ok := m["org_todo_keywords"]; ok {
		if arr, ok := keywords.([]any); ok {
			var kws []string
			for _, v := range arr {
				if str, ok := v.(string); ok && str != "" {
					kws = append(kws, str)
				}
			}
			if len(kws) > 0 {
				c.OrgTodoKeywords = kws
			}
		}
	}

	if collapse, ok := m["plaintext_collapse_newlines"]; ok {
		if b, ok := collapse.(bool); ok {
			c.PlainTextCollapseNewlines = b
		}
	}

	if checkOn, ok := m["check_on"]; ok {
		if perAnalyser, ok := checkOn.(map[string]any); ok {
			for name, raw := range perAnalyser {
				settings, ok := raw.(map[string]any)
				if !ok {
					continue
				}
				policy := c.CheckOnFor(name)
				if v, ok := settings["on_open"].(bool); ok {
					policy.OnOpen = v
				}
				if v, ok := settings["on_change"].(bool); ok {
					policy.OnChange = v
				}
				if v, ok := settings["on_save"].(bool); ok {
					policy.OnSave = v
				}
				c.CheckOn[name] = policy
			}
		}
	}
}
