package server

import (
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"

	"github.com/hangyav/textlsp-go/internal/config"
	"github.com/hangyav/textlsp-go/internal/progress"
	"github.com/hangyav/textlsp-go/pkg/analyser"
	"github.com/hangyav/textlsp-go/pkg/tracker"
)

const lsName = "textlsp-go"

var version = "0.1.0"

var logger = commonlog.GetLoggerf("textlsp.server")

// Server wires glsp's LSP transport to the prose-document Store,
// dispatching to every language in tsdoc's registry.
type Server struct {
	config *config.Config
	store  *Store
	h      protocol.Handler
}

func NewServer() *Server {
	cfg := config.NewConfig()
	s := &Server{
		config: cfg,
		store:  NewStore(cfg),
	}
	s.h = protocol.Handler{
		Initialize:             s.initialize,
		Initialized:            s.initialized,
		Shutdown:               s.shutdown,
		SetTrace:               s.setTrace,
		TextDocumentDidOpen:    s.didOpen,
		TextDocumentDidChange:  s.didChange,
		TextDocumentDidSave:    s.didSave,
		TextDocumentDidClose:   s.didClose,
		TextDocumentCodeAction: s.onCodeAction,
	}
	return s
}

func (s *Server) Run() {
	server := glspserver.NewServer(&s.h, lsName, false)
	server.RunStdio()
}

func (s *Server) initialize(_ *glsp.Context, params *protocol.InitializeParams) (any, error) {
	caps := s.h.CreateServerCapabilities()
	openClose := true
	change := protocol.TextDocumentSyncKindIncremental
	caps.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &openClose,
		Change:    &change,
	}
	caps.CodeActionProvider = true

	if params.InitializationOptions != nil {
		if m, ok := params.InitializationOptions.(map[string]any); ok {
			s.config.ApplyInitializationOptions(m)
		}
	}

	return protocol.InitializeResult{
		Capabilities: caps,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &version,
		},
	}, nil
}

func (s *Server) initialized(_ *glsp.Context, _ *protocol.InitializedParams) error { return nil }
func (s *Server) shutdown(_ *glsp.Context) error                                   { return nil }
func (s *Server) setTrace(_ *glsp.Context, p *protocol.SetTraceParams) error {
	protocol.SetTraceValue(p.Value)
	return nil
}

func (s *Server) didOpen(ctx *glsp.Context, p *protocol.DidOpenTextDocumentParams) error {
	uri := p.TextDocument.URI
	if err := s.store.Open(uri, p.TextDocument.LanguageID, p.TextDocument.Version, p.TextDocument.Text); err != nil {
		logger.Warningf("open %s: %v", uri, err)
		return nil
	}

	doc, ok := s.store.Get(uri)
	if !ok {
		return nil
	}
	s.runChecks(ctx, doc, "onOpen", func(policy config.AnalyserCheckOn) bool { return policy.OnOpen })
	return nil
}

func (s *Server) didChange(ctx *glsp.Context, p *protocol.DidChangeTextDocumentParams) error {
	doc, ok := s.store.Get(p.TextDocument.URI)
	if !ok {
		return nil
	}

	doc.mu.Lock()
	doc.Version = p.TextDocument.Version
	doc.mu.Unlock()

	for _, change := range p.ContentChanges {
		if err := doc.applyChange(change); err != nil {
			logger.Warningf("apply change to %s: %v", p.TextDocument.URI, err)
			return nil
		}
	}

	s.runChecks(ctx, doc, "onChange", func(policy config.AnalyserCheckOn) bool { return policy.OnChange })
	return nil
}

func (s *Server) didSave(ctx *glsp.Context, p *protocol.DidSaveTextDocumentParams) error {
	doc, ok := s.store.Get(p.TextDocument.URI)
	if !ok {
		return nil
	}
	s.runChecks(ctx, doc, "onSave", func(policy config.AnalyserCheckOn) bool { return policy.OnSave })
	return nil
}

func (s *Server) didClose(_ *glsp.Context, p *protocol.DidCloseTextDocumentParams) error {
	s.store.Close(p.TextDocument.URI)
	return nil
}

// onCodeAction publishes the shifted code actions stored for the
// document's analysers whose keys lie within the requested range. Each item
// passes through RewriteVersion, but only its Action is published, without
// the version.
func (s *Server) onCodeAction(_ *glsp.Context, p *protocol.CodeActionParams) ([]protocol.CodeAction, error) {
	doc, ok := s.store.Get(p.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	doc.mu.RLock()
	defer doc.mu.RUnlock()

	reqRange := fromProtocolRange(p.Range)
	var out []protocol.CodeAction
	for _, state := range doc.analysis {
		items := state.codeActions.Dict().IrangeValues(reqRange.Start, reqRange.End, [2]bool{true, true})
		for _, item := range items {
			stamped := analyser.RewriteVersion(*item, doc.Version)
			out = append(out, stamped.Action)
		}
	}
	return out, nil
}

// runChecks invokes Changed on every registered analyser whose check-on
// policy permits running at this event, wrapped in a progress.Bar so the
// client sees a suspension-point indicator while the check runs.
func (s *Server) runChecks(ctx *glsp.Context, doc *Document, event string, allow func(config.AnalyserCheckOn) bool) {
	for name, a := range s.store.analysersSnapshot() {
		policy := s.config.CheckOnFor(name)
		if !allow(policy) {
			continue
		}

		doc.mu.Lock()
		state, ok := doc.analysis[name]
		doc.mu.Unlock()
		if !ok {
			continue
		}

		changes := state.tracker.GetChanges()
		if len(changes) == 0 && state.checked {
			continue
		}

		progress.Run(ctx, name+" checking", progress.NewToken(), func() {
			if err := a.Changed(changes); err != nil {
				logger.Warningf("%s: %s check (%s) failed: %v", doc.URI, name, event, err)
				return
			}
			state.checked = true

			// Reset the tracker against the now-checked snapshot so the
			// next GetChanges only reports what moved since this check.
			if cleaned, err := doc.Prose.CleanedSource(); err == nil {
				doc.mu.Lock()
				state.tracker = tracker.NewChangeTracker(len(cleaned))
				doc.mu.Unlock()
			}
		})
	}
}
