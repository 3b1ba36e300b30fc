// Package lsp serves lexical and syntax diagnostics over the language
// server protocol.
package lsp

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhamidi/cfront/format"
	"github.com/dhamidi/cfront/frontend"
	"github.com/dhamidi/cfront/lexer"
	"github.com/dhamidi/cfront/lr1"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "cfront"

var log = commonlog.GetLogger("cfront.lsp")

type Server struct {
	docs    *frontend.Documents
	handler protocol.Handler
	server  *server.Server
	version string
}

func NewServer(f *frontend.Frontend, version string) *Server {
	ls := &Server{
		docs:    frontend.NewDocuments(f),
		version: version,
	}

	ls.handler = protocol.Handler{
		Initialize:            ls.initialize,
		Initialized:           ls.initialized,
		Shutdown:              ls.shutdown,
		SetTrace:              ls.setTrace,
		TextDocumentDidOpen:   ls.textDocumentDidOpen,
		TextDocumentDidChange: ls.textDocumentDidChange,
		TextDocumentDidClose:  ls.textDocumentDidClose,
		TextDocumentDidSave:   ls.textDocumentDidSave,
		TextDocumentHover:     ls.textDocumentHover,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *Server) RunStdio() error {
	return ls.server.RunStdio()
}

// Documents exposes the analysed documents.
func (ls *Server) Documents() *frontend.Documents {
	return ls.docs
}

func (ls *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}
	capabilities.HoverProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Infof("client initialized")
	return nil
}

func (ls *Server) shutdown(ctx *glsp.Context) error {
	return nil
}

func (ls *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	doc := ls.docs.Update(string(params.TextDocument.URI), int32(params.TextDocument.Version), params.TextDocument.Text)
	ls.publish(ctx, doc)
	return nil
}

func (ls *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	change := params.ContentChanges[len(params.ContentChanges)-1]
	textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole)
	if !ok {
		log.Warningf("%s: ignoring incremental change", params.TextDocument.URI)
		return nil
	}
	doc := ls.docs.Update(string(params.TextDocument.URI), int32(params.TextDocument.Version), textChange.Text)
	ls.publish(ctx, doc)
	return nil
}

func (ls *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := string(params.TextDocument.URI)
	ls.docs.Remove(uri)
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentUri(uri),
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (ls *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	uri := string(params.TextDocument.URI)

	var text string
	if params.Text != nil {
		text = *params.Text
	} else {
		path, err := uriToPath(uri)
		if err != nil {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			log.Warningf("%s", err)
			return nil
		}
		text = string(content)
	}

	var version int32
	if prev := ls.docs.Get(uri); prev != nil {
		version = prev.Version
	}
	ls.publish(ctx, ls.docs.Update(uri, version, text))
	return nil
}

func (ls *Server) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc := ls.docs.Get(string(params.TextDocument.URI))
	if doc == nil {
		return nil, nil
	}

	row := int(params.Position.Line) + 1
	column := int(params.Position.Character) + 1
	tok, ok := doc.Result.TokenAt(row, column)
	if !ok || tok.Kind.IsTrivia() {
		return nil, nil
	}

	r := toRange(tok.Span)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: hoverText(tok),
		},
		Range: &r,
	}, nil
}

func (ls *Server) publish(ctx *glsp.Context, doc *frontend.Document) {
	version := protocol.UInteger(doc.Version)
	diagnostics := Diagnostics(doc.Result)
	log.Debugf("%s: %d diagnostics", doc.URI, len(diagnostics))
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentUri(doc.URI),
		Version:     &version,
		Diagnostics: diagnostics,
	})
}

// Diagnostics converts the errors of result to protocol diagnostics.
func Diagnostics(result *frontend.Result) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}
	for _, err := range result.Errors() {
		d := format.NewDiagnostic(err)
		severity := protocol.DiagnosticSeverityError
		source := lsName + " " + d.Kind
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    errorRange(err),
			Severity: &severity,
			Source:   &source,
			Message:  d.Message,
		})
	}
	return diagnostics
}

func errorRange(err error) protocol.Range {
	switch e := err.(type) {
	case *lexer.Error:
		return toRange(e.Span)
	case *lr1.SyntaxError:
		return toRange(e.Token.Span)
	}
	return protocol.Range{}
}

// toRange converts a 1-based span to a 0-based protocol range.
func toRange(span lexer.Span) protocol.Range {
	return protocol.Range{
		Start: toPosition(span.Start),
		End:   toPosition(span.End),
	}
}

func toPosition(pos lexer.Position) protocol.Position {
	if !pos.IsValid() {
		return protocol.Position{}
	}
	return protocol.Position{
		Line:      protocol.UInteger(pos.Row - 1),
		Character: protocol.UInteger(pos.Column - 1),
	}
}

func hoverText(tok lexer.Token) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**", tok.Kind)
	if terminal := tok.Terminal(); terminal != "" {
		fmt.Fprintf(&b, " terminal `%s`", terminal)
	}
	if tok.Value != tok.Terminal() {
		fmt.Fprintf(&b, "\n\n```c\n%s\n```", tok.Value)
	}
	return b.String()
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(kind protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &kind
}
