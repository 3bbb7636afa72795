package codebase

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/dhamidi/javafront/config"
	"github.com/dhamidi/javafront/java/diag"
	"github.com/dhamidi/javafront/java/position"
	"github.com/dhamidi/javafront/java/symbol"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "javafront"

type LSPServer struct {
	codebase *Codebase
	cfg      *config.Config
	handler  protocol.Handler
	server   *server.Server
	version  string

	mu      sync.Mutex
	notify  glsp.NotifyFunc
	watcher *FileWatcher
}

func NewLSPServer(version string, cfg *config.Config) *LSPServer {
	if cfg == nil {
		cfg = config.Default()
	}
	ls := &LSPServer{
		version: version,
		cfg:     cfg,
	}

	ls.handler = protocol.Handler{
		Initialize:                 ls.initialize,
		Initialized:                ls.initialized,
		Shutdown:                   ls.shutdown,
		SetTrace:                   ls.setTrace,
		TextDocumentDidOpen:        ls.textDocumentDidOpen,
		TextDocumentDidChange:      ls.textDocumentDidChange,
		TextDocumentDidClose:       ls.textDocumentDidClose,
		TextDocumentDidSave:        ls.textDocumentDidSave,
		TextDocumentCompletion:     ls.textDocumentCompletion,
		TextDocumentDocumentSymbol: ls.textDocumentDocumentSymbol,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	ls.codebase = New(rootDir, ls.cfg)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}
	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{"."},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	ls.mu.Lock()
	ls.notify = ctx.Notify
	ls.mu.Unlock()

	if err := ls.codebase.ScanAll(context.Background()); err != nil {
		log.Warningf("scanning %s: %s", ls.codebase.RootDir(), err)
	}
	for _, path := range ls.codebase.Paths() {
		ls.publish(path, ls.codebase.GetFile(path))
	}

	ls.watcher = NewFileWatcher(ls.codebase, time.Second, ls.publish)
	ls.watcher.Start(context.Background())
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	if ls.watcher != nil {
		ls.watcher.Stop()
	}
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.update(path, []byte(params.TextDocument.Text))
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.update(path, []byte(whole.Text))
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		ls.update(path, []byte(*params.Text))
		return nil
	}
	info, err := ls.codebase.ScanFile(context.Background(), path)
	if err != nil {
		log.Warningf("scanning %s: %s", path, err)
		return nil
	}
	ls.publish(path, info)
	return nil
}

func (ls *LSPServer) update(path string, content []byte) {
	info, changed, err := ls.codebase.UpdateFile(context.Background(), path, content)
	if err != nil {
		log.Warningf("analyzing %s: %s", path, err)
		return
	}
	if changed {
		ls.publish(path, info)
	}
}

// publish sends the diagnostics of path to the client. A nil info clears
// them.
func (ls *LSPServer) publish(path string, info *FileInfo) {
	ls.mu.Lock()
	notify := ls.notify
	ls.mu.Unlock()
	if notify == nil {
		return
	}
	diagnostics := []protocol.Diagnostic{}
	if info != nil {
		lm := info.Source.LineMap(false)
		for _, d := range info.Diagnostics {
			diagnostics = append(diagnostics, toProtocolDiagnostic(lm, d))
		}
	}
	notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         pathToURI(path),
		Diagnostics: diagnostics,
	})
}

func (ls *LSPServer) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}

	completions := ls.codebase.CompletionsAt(path, int(params.Position.Line), int(params.Position.Character))
	if len(completions) == 0 {
		return nil, nil
	}

	var items []protocol.CompletionItem
	for _, c := range completions {
		kind := toProtocolKind(c.Kind)
		detail := c.Detail
		insertText := c.InsertText
		items = append(items, protocol.CompletionItem{
			Label:      c.Label,
			Kind:       &kind,
			Detail:     &detail,
			InsertText: &insertText,
		})
	}
	return items, nil
}

func (ls *LSPServer) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	f := ls.codebase.GetFile(path)
	if f == nil {
		return nil, nil
	}
	cursor := f.Source.LineMap(false).Cursor()
	var out []protocol.DocumentSymbol
	for _, s := range ls.codebase.Symbols(path) {
		out = append(out, toProtocolSymbol(cursor, s))
	}
	return out, nil
}

func toProtocolSymbol(cursor *position.Cursor, s DocumentSymbol) protocol.DocumentSymbol {
	detail := s.Detail
	ps := protocol.DocumentSymbol{
		Name:           s.Name,
		Kind:           toSymbolKind(s.Kind),
		Range:          protocol.Range{Start: toPosition(cursor, s.Pos), End: toPosition(cursor, s.End)},
		SelectionRange: protocol.Range{Start: toPosition(cursor, s.NamePos), End: toPosition(cursor, s.NamePos)},
	}
	if detail != "" {
		ps.Detail = &detail
	}
	for _, child := range s.Children {
		ps.Children = append(ps.Children, toProtocolSymbol(cursor, child))
	}
	return ps
}

func toProtocolDiagnostic(lm position.LineMap, d diag.Diagnostic) protocol.Diagnostic {
	cursor := lm.Cursor()
	start, end := d.StartPos, d.EndPos
	if start < 0 {
		start = d.Pos
	}
	if end < start {
		end = start
	}
	severity := toSeverity(d.Kind)
	source := lsName
	pd := protocol.Diagnostic{
		Range:    protocol.Range{Start: toPosition(cursor, start), End: toPosition(cursor, end)},
		Severity: &severity,
		Source:   &source,
		Message:  d.Message,
	}
	if d.Code != "" {
		pd.Code = &protocol.IntegerOrString{Value: d.Code}
	}
	return pd
}

// toPosition converts an offset to a zero-based line and character.
// Offsets without a location map to the start of the file.
func toPosition(cursor *position.Cursor, pos int) protocol.Position {
	if pos < 0 {
		return protocol.Position{}
	}
	line, col := cursor.LineColumn(pos)
	return protocol.Position{
		Line:      protocol.UInteger(line - position.FirstLine),
		Character: protocol.UInteger(col - position.FirstColumn),
	}
}

func toSeverity(k diag.Kind) protocol.DiagnosticSeverity {
	switch k {
	case diag.Error:
		return protocol.DiagnosticSeverityError
	case diag.Warning, diag.MandatoryWarning:
		return protocol.DiagnosticSeverityWarning
	case diag.Note:
		return protocol.DiagnosticSeverityInformation
	default:
		return protocol.DiagnosticSeverityHint
	}
}

func toSymbolKind(k symbol.Kind) protocol.SymbolKind {
	switch k {
	case symbol.KindInterface, symbol.KindAnnotationType:
		return protocol.SymbolKindInterface
	case symbol.KindEnum:
		return protocol.SymbolKindEnum
	case symbol.KindRecord:
		return protocol.SymbolKindStruct
	case symbol.KindMethod:
		return protocol.SymbolKindMethod
	case symbol.KindConstructor:
		return protocol.SymbolKindConstructor
	case symbol.KindField:
		return protocol.SymbolKindField
	case symbol.KindEnumConstant:
		return protocol.SymbolKindEnumMember
	case symbol.KindTypeParameter:
		return protocol.SymbolKindTypeParameter
	default:
		return protocol.SymbolKindClass
	}
}

func toProtocolKind(kind CompletionKind) protocol.CompletionItemKind {
	switch kind {
	case CompletionKindMethod:
		return protocol.CompletionItemKindMethod
	case CompletionKindField:
		return protocol.CompletionItemKindField
	case CompletionKindClass:
		return protocol.CompletionItemKindClass
	case CompletionKindVariable:
		return protocol.CompletionItemKindVariable
	case CompletionKindTypeParameter:
		return protocol.CompletionItemKindTypeParameter
	default:
		return protocol.CompletionItemKindText
	}
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

func pathToURI(path string) protocol.DocumentUri {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
