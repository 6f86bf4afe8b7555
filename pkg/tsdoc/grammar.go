package tsdoc

import (
	"fmt"

	latexforest "github.com/alexaandru/go-sitter-forest/latex"
	markdownforest "github.com/alexaandru/go-sitter-forest/markdown"
	orgforest "github.com/alexaandru/go-sitter-forest/org"
	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// GrammarProvider resolves a language name to its parser. Build-on-demand
// grammar compilation is explicitly not part of the contract; the
// default implementation resolves a statically-linked grammar from
// go-sitter-forest, since Go links grammars at compile time.
type GrammarProvider interface {
	Load(name string) (sitter.Language, *sitter.Parser, error)
}

// forestGrammarProvider is the default GrammarProvider, backed by
// alexaandru/go-sitter-forest's per-language packages, supplying
// latex/markdown/org grammars.
type forestGrammarProvider struct{}

// DefaultGrammarProvider is shared process-wide: languages, parsers, and
// compiled queries are read-only after construction and safely
// sharable.
var DefaultGrammarProvider GrammarProvider = forestGrammarProvider{}

func (forestGrammarProvider) Load(name string) (sitter.Language, *sitter.Parser, error) {
	switch name {
	case "latex":
		return newLangParser(latexforest.GetLanguage())
	case "markdown":
		return newLangParser(markdownforest.GetLanguage())
	case "org":
		return newLangParser(orgforest.GetLanguage())
	default:
		return sitter.Language{}, nil, fmt.Errorf("tsdoc: unknown grammar %q", name)
	}
}

func newLangParser(ptr interface{}) (sitter.Language, *sitter.Parser, error) {
	lang := sitter.NewLanguage(ptr)
	parser := sitter.NewParser()
	if err := parser.SetLanguage(lang); err != nil {
		return sitter.Language{}, nil, fmt.Errorf("tsdoc: set language: %w", err)
	}
	return lang, parser, nil
}
