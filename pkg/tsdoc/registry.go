package tsdoc

import (
	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// Options configures document construction per workspace settings,
// threaded through from internal/config so callers never hardcode TODO
// keywords or the plain-text collapse toggle.
type Options struct {
	OrgTodoKeywords           []string
	PlainTextCollapseNewlines bool
}

// DefaultOptions returns the default TODO-keyword set and collapse
// toggle.
func DefaultOptions() Options {
	return Options{
		OrgTodoKeywords:           []string{"TODO", "DONE"},
		PlainTextCollapseNewlines: true,
	}
}

// canonicalLanguage maps an LSP language id to a grammar name:
// text->plain; tex->latex; md->markdown; others by direct name; unknown
// IDs fall back to plain-text.
func canonicalLanguage(languageID string) string {
	switch languageID {
	case "text", "plaintext":
		return "plain"
	case "tex":
		return "latex"
	case "md":
		return "markdown"
	case "latex", "markdown", "org":
		return languageID
	default:
		return "plain"
	}
}

// NewProseDocument builds the ProseDocument appropriate for languageID,
// wiring GrammarProvider.Load + the language's LanguageSpec + NewDocument
// together. When the grammar load, the query build or the parse fails it
// logs a warning and downgrades to plain-text rather than erroring.
func NewProseDocument(provider GrammarProvider, languageID, text string, opts Options) ProseDocument {
	name := canonicalLanguage(languageID)
	if name == "plain" {
		return NewPlainTextDocument(text, opts.PlainTextCollapseNewlines)
	}

	lang, parser, err := provider.Load(name)
	if err != nil {
		logger.Warningf("grammar %q unavailable, falling back to plain-text: %v", name, err)
		return NewPlainTextDocument(text, opts.PlainTextCollapseNewlines)
	}

	spec, err := newSpec(name, lang, opts)
	if err != nil {
		logger.Warningf("query build failed for %q, falling back to plain-text: %v", name, err)
		return NewPlainTextDocument(text, opts.PlainTextCollapseNewlines)
	}

	doc, err := NewDocument(spec, parser, text)
	if err != nil {
		logger.Warningf("parse failed for %q, falling back to plain-text: %v", name, err)
		return NewPlainTextDocument(text, opts.PlainTextCollapseNewlines)
	}
	return doc
}

func newSpec(name string, lang sitter.Language, opts Options) (LanguageSpec, error) {
	switch name {
	case "latex":
		return newLatexSpec(lang)
	case "markdown":
		return newMarkdownSpec(lang)
	case "org":
		return newOrgSpec(lang, opts.OrgTodoKeywords)
	default:
		return nil, nil
	}
}
