package server

import (
	"context"
	"encoding/json"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
)

// Handler dispatches the LSP methods this server implements; everything
// else answers method-not-found so clients can degrade gracefully.
func (s *Server) Handler() jsonrpc2.Handler {
	return func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		switch req.Method() {
		case protocol.MethodInitialize:
			var params protocol.InitializeParams
			if err := json.Unmarshal(req.Params(), &params); err != nil {
				return reply(ctx, nil, err)
			}
			result, err := s.initialize(ctx, &params)
			return reply(ctx, result, err)

		case protocol.MethodInitialized:
			return reply(ctx, nil, nil)

		case protocol.MethodShutdown:
			s.logger.Printf("shutdown requested")
			return reply(ctx, nil, nil)

		case protocol.MethodExit:
			s.logger.Printf("exit")
			return nil

		case protocol.MethodTextDocumentDidOpen:
			var params protocol.DidOpenTextDocumentParams
			if err := json.Unmarshal(req.Params(), &params); err != nil {
				return reply(ctx, nil, err)
			}
			return reply(ctx, nil, s.didOpen(ctx, &params))

		case protocol.MethodTextDocumentDidChange:
			var params protocol.DidChangeTextDocumentParams
			if err := json.Unmarshal(req.Params(), &params); err != nil {
				return reply(ctx, nil, err)
			}
			return reply(ctx, nil, s.didChange(ctx, &params))

		case protocol.MethodTextDocumentDidClose:
			var params protocol.DidCloseTextDocumentParams
			if err := json.Unmarshal(req.Params(), &params); err != nil {
				return reply(ctx, nil, err)
			}
			return reply(ctx, nil, s.didClose(ctx, &params))

		default:
			return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
		}
	}
}
