// Package lsp publishes handler diagnostics to editors over the language
// server protocol.
package lsp

import (
	"sort"
	"strings"
	"sync"
	"unicode/utf16"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"

	"github.com/toyz/axon-debug/internal/analyzer"
	"github.com/toyz/axon-debug/internal/diagnostic"
	"github.com/toyz/axon-debug/internal/syntax"

	_ "github.com/tliron/commonlog/simple"
)

const lspName = "axon-debug"

var log = commonlog.GetLogger("axon-debug.lsp")

// Server analyzes open documents and publishes their diagnostics.
//
// All open documents are analyzed together so that a router in one file
// can check handlers declared in another.
type Server struct {
	analyzer *analyzer.Analyzer

	mu   sync.Mutex
	docs map[protocol.DocumentUri]string

	handler protocol.Handler
	server  *glspserver.Server
	version string
}

// New creates a server checking documents with a.
func New(a *analyzer.Analyzer, version string) *Server {
	s := &Server{
		analyzer: a,
		docs:     make(map[protocol.DocumentUri]string),
		version:  version,
	}

	s.handler = protocol.Handler{
		Initialize:  s.initialize,
		Initialized: s.initialized,
		Shutdown:    s.shutdown,
		SetTrace:    s.setTrace,

		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidClose:  s.textDocumentDidClose,
	}

	s.server = glspserver.NewServer(&s.handler, lspName, false)
	return s
}

// RunStdio serves on stdin and stdout until the client disconnects.
func (s *Server) RunStdio() error {
	return s.server.RunStdio()
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Infof("initializing %s %s", lspName, s.version)

	capabilities := s.handler.CreateServerCapabilities()
	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &syncKind,
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lspName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI
	if !isSource(uri) {
		return nil
	}
	s.mu.Lock()
	s.docs[uri] = params.TextDocument.Text
	s.mu.Unlock()

	s.publish(ctx)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI
	if !isSource(uri) || len(params.ContentChanges) == 0 {
		return nil
	}
	// Full sync: the last change holds the whole document.
	whole, ok := params.ContentChanges[len(params.ContentChanges)-1].(protocol.TextDocumentContentChangeEventWhole)
	if !ok {
		return nil
	}
	s.mu.Lock()
	s.docs[uri] = whole.Text
	s.mu.Unlock()

	s.publish(ctx)
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	s.mu.Lock()
	_, open := s.docs[uri]
	delete(s.docs, uri)
	s.mu.Unlock()
	if !open {
		return nil
	}

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})
	s.publish(ctx)
	return nil
}

// publish analyzes the open documents and sends every one of them its
// diagnostics, an empty list included, so fixed problems disappear.
func (s *Server) publish(ctx *glsp.Context) {
	s.mu.Lock()
	uris := make([]string, 0, len(s.docs))
	texts := make(map[string]string, len(s.docs))
	for uri, text := range s.docs {
		uris = append(uris, string(uri))
		texts[string(uri)] = text
	}
	s.mu.Unlock()
	sort.Strings(uris)

	sources := make([]analyzer.Source, len(uris))
	for i, uri := range uris {
		sources[i] = analyzer.Source{Name: uri, Text: texts[uri]}
	}
	report, err := s.analyzer.AnalyzeFiles(sources)
	if err != nil {
		log.Errorf("analysis failed: %s", err)
		return
	}

	byFile := make(map[string][]protocol.Diagnostic, len(uris))
	for _, d := range report.Diagnostics {
		byFile[d.Span.File] = append(byFile[d.Span.File], convert(d, texts))
	}
	for _, uri := range uris {
		diags := byFile[uri]
		if diags == nil {
			diags = []protocol.Diagnostic{}
		}
		log.Debugf("%s: %d diagnostics", uri, len(diags))
		ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
			URI:         protocol.DocumentUri(uri),
			Diagnostics: diags,
		})
	}
}

func convert(d diagnostic.Diagnostic, texts map[string]string) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	source := lspName
	code := protocol.IntegerOrString{Value: d.RuleID}

	out := protocol.Diagnostic{
		Range:    toRange(d.Span, texts[d.Span.File]),
		Severity: &severity,
		Code:     &code,
		Source:   &source,
		Message:  d.Message,
	}
	for _, n := range d.Notes {
		out.RelatedInformation = append(out.RelatedInformation, protocol.DiagnosticRelatedInformation{
			Location: protocol.Location{
				URI:   protocol.DocumentUri(n.Span.File),
				Range: toRange(n.Span, texts[n.Span.File]),
			},
			Message: n.Message,
		})
	}
	return out
}

// toRange converts a span to a protocol range: 0-based lines and UTF-16
// code unit columns.
func toRange(span syntax.Span, text string) protocol.Range {
	return protocol.Range{
		Start: toPosition(span.Start, text),
		End:   toPosition(span.End, text),
	}
}

func toPosition(pos syntax.Position, text string) protocol.Position {
	line := pos.Line - 1
	if line < 0 {
		line = 0
	}
	return protocol.Position{
		Line:      protocol.UInteger(line),
		Character: protocol.UInteger(utf16Column(lineAt(text, line), pos.Column-1)),
	}
}

// lineAt returns the 0-based line n of text.
func lineAt(text string, n int) string {
	lines := strings.SplitN(text, "\n", n+2)
	if n >= len(lines) {
		return ""
	}
	return lines[n]
}

// utf16Column converts a rune offset within line to UTF-16 code units.
func utf16Column(line string, runes int) int {
	units, i := 0, 0
	for _, r := range line {
		if i >= runes {
			return units
		}
		units += len(utf16.Encode([]rune{r}))
		i++
	}
	return units + (runes - i)
}

func isSource(uri protocol.DocumentUri) bool {
	return strings.HasSuffix(string(uri), ".rs")
}

func boolPtr(b bool) *bool {
	return &b
}
