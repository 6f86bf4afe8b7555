package server

import (
	"sync"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/hangyav/textlsp-go/internal/config"
	"github.com/hangyav/textlsp-go/pkg/analyser"
)

// Store is the document-uri-keyed collection of open Documents, backed
// by tsdoc's language-id-routed ProseDocument.
type Store struct {
	mu        sync.RWMutex
	docs      map[protocol.DocumentUri]*Document
	config    *config.Config
	analysers map[string]analyser.Analyser
}

func NewStore(cfg *config.Config) *Store {
	return &Store{
		docs:      make(map[protocol.DocumentUri]*Document),
		config:    cfg,
		analysers: make(map[string]analyser.Analyser),
	}
}

// RegisterAnalyser wires in a checker plugin (LanguageTool, OpenAI, Ollama,
// HuggingFace — none shipped here, they're external collaborators).
// Every document opened after registration gets its own
// ChangeTracker/Shifter pair for this analyser.
func (s *Store) RegisterAnalyser(name string, a analyser.Analyser) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analysers[name] = a
}

func (s *Store) Get(uri protocol.DocumentUri) (*Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[uri]
	return doc, ok
}

func (s *Store) Open(uri protocol.DocumentUri, languageID string, version int32, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := newDocument(uri, languageID, version, text, s.config, s.analysers)
	if err != nil {
		return err
	}
	s.docs[uri] = doc
	return nil
}

func (s *Store) Close(uri protocol.DocumentUri) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc, ok := s.docs[uri]; ok {
		doc.Prose.Close()
	}
	delete(s.docs, uri)
}

// analysersSnapshot returns the registered analysers, safe to range over
// after the lock is released.
func (s *Store) analysersSnapshot() map[string]analyser.Analyser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]analyser.Analyser, len(s.analysers))
	for k, v := range s.analysers {
		out[k] = v
	}
	return out
}
