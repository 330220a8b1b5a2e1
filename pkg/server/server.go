// Package server exposes the document/schema engine over LSP. It owns
// document sync and diagnostics publishing; completion and hover content
// generation live with other collaborators.
package server

import (
	"context"
	"log"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"

	"github.com/yamlnext/yls/pkg/constants"
	"github.com/yamlnext/yls/pkg/document"
	"github.com/yamlnext/yls/pkg/schema"
)

// Version is stamped by the build; the initialize response reports it.
var Version = "dev"

// Server wires editor notifications to the engine: text changes flow into
// the cache, every new version is validated and its diagnostics published.
type Server struct {
	conn   jsonrpc2.Conn
	logger *log.Logger
	cache  *document.Cache
	graph  schema.Graph
}

// New builds a server validating against the given schema graph.
func New(graph schema.Graph, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(log.Writer(), "["+constants.BinaryName+"] ", log.LstdFlags)
	}
	return &Server{
		logger: logger,
		cache:  document.NewCache(),
		graph:  graph,
	}
}

// Serve runs the LSP session over the stream until the connection closes.
func (s *Server) Serve(ctx context.Context, stream jsonrpc2.Stream) error {
	conn := jsonrpc2.NewConn(stream)
	s.conn = conn
	conn.Go(ctx, s.Handler())
	<-conn.Done()
	return conn.Err()
}

func (s *Server) initialize(ctx context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	s.logger.Printf("initialize from client %v", params.ClientInfo)
	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
			},
		},
		ServerInfo: &protocol.ServerInfo{
			Name:    constants.BinaryName,
			Version: Version,
		},
	}, nil
}

func (s *Server) didOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	doc := params.TextDocument
	s.validate(ctx, string(doc.URI), doc.Text, doc.Version)
	return nil
}

// didChange applies full-sync content changes. The host delivers changes
// for a URI in order, so the version passed here is never behind one the
// cache has already seen.
func (s *Server) didChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	last := params.ContentChanges[len(params.ContentChanges)-1]
	s.validate(ctx, string(params.TextDocument.URI), last.Text, params.TextDocument.Version)
	return nil
}

func (s *Server) didClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.cache.Remove(string(params.TextDocument.URI))
	s.publish(ctx, params.TextDocument.URI, 0, nil, "")
	return nil
}

// validate parses through the cache and publishes the combined parse and
// schema diagnostics for every document in the stream.
func (s *Server) validate(ctx context.Context, uri, text string, version int32) {
	set := s.cache.Get(uri, text, version, document.Options{}, true)

	var diags []document.Diagnostic
	for _, doc := range set.Documents {
		diags = append(diags, doc.Errors()...)
		diags = append(diags, doc.Warnings()...)
		matcher := schema.NewMatcher(s.graph, schema.NewCollector())
		diags = append(diags, matcher.Check(doc)...)
	}
	s.publish(ctx, protocol.DocumentURI(uri), version, diags, text)
}

func (s *Server) publish(ctx context.Context, uri protocol.DocumentURI, version int32, diags []document.Diagnostic, text string) {
	if s.conn == nil {
		return
	}
	params := &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Version:     uint32(version),
		Diagnostics: toProtocol(diags, text),
	}
	if err := s.conn.Notify(ctx, protocol.MethodTextDocumentPublishDiagnostics, params); err != nil {
		s.logger.Printf("failed to publish diagnostics for %s: %v", uri, err)
	}
}
