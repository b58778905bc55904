// Package mcp exposes the read API as Model Context Protocol tools over a
// single JSON-RPC endpoint.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/XiaoConstantine/mcp-go/pkg/handler"
	models "github.com/XiaoConstantine/mcp-go/pkg/model"
	"github.com/XiaoConstantine/mcp-go/pkg/protocol"

	interestsdomain "parliament-interests/internal/domain/interests"
	membersdomain "parliament-interests/internal/domain/members"
	"parliament-interests/pkg/logger"
)

const (
	ProtocolVersion = "2025-03-26"
	ServerName      = "parliament-interests"

	maxRequestBytes = 1 << 20
)

// rpcError carries a JSON-RPC error code out of a method handler.
type rpcError struct {
	code    int
	message string
}

func (e *rpcError) Error() string {
	return e.message
}

type handlerFunc func(ctx context.Context, msg *protocol.Message) (*protocol.Message, error)

func (f handlerFunc) HandleMessage(ctx context.Context, msg *protocol.Message) (*protocol.Message, error) {
	return f(ctx, msg)
}

type Server struct {
	router  *handler.MessageRouter
	tools   *toolset
	version string
	log     logger.Logger
}

func NewServer(members *membersdomain.Service, interests *interestsdomain.Service, version string, log logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	log = log.With("component", "mcp")

	s := &Server{
		router:  handler.NewMessageRouter(log),
		tools:   newToolset(members, interests),
		version: version,
		log:     log,
	}

	s.router.RegisterHandler("initialize", handlerFunc(s.initialize))
	s.router.RegisterHandler("notifications/initialized", handlerFunc(s.ignore))
	s.router.RegisterHandler("notifications/cancelled", handlerFunc(s.ignore))
	s.router.RegisterHandler("ping", handlerFunc(s.ping))
	s.router.RegisterHandler("tools/list", handlerFunc(s.listTools))
	s.router.RegisterHandler("tools/call", handlerFunc(s.callTool))
	return s
}

// Handle answers one JSON-RPC message. Notifications yield nil.
func (s *Server) Handle(ctx context.Context, msg *protocol.Message) *protocol.Message {
	if msg.JSONRPC != "2.0" || msg.Method == "" {
		return errorResponse(msg.ID, protocol.ErrCodeInvalidRequest, "invalid request")
	}

	resp, err := s.router.HandleMessage(ctx, msg)
	if err != nil && msg.ID == nil {
		s.log.Debug("mcp: notification dropped", "method", msg.Method, "err", err)
		return nil
	}
	if err != nil {
		var rpcErr *rpcError
		switch {
		case errors.As(err, &rpcErr):
			s.log.Debug("mcp: request rejected", "method", msg.Method, "err", err)
			return errorResponse(msg.ID, rpcErr.code, rpcErr.message)
		case strings.HasPrefix(err.Error(), "no handler registered"):
			s.log.Debug("mcp: unknown method", "method", msg.Method)
			return errorResponse(msg.ID, protocol.ErrCodeMethodNotFound, "method not found: "+msg.Method)
		default:
			s.log.InternalError("mcp: handler failed", err, "method", msg.Method)
			return errorResponse(msg.ID, protocol.ErrCodeInternalError, "internal error")
		}
	}

	if msg.ID == nil {
		return nil
	}
	if resp == nil {
		resp = &protocol.Message{Result: struct{}{}}
	}
	resp.JSONRPC = "2.0"
	resp.ID = msg.ID
	return resp
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, errorResponse(nil, protocol.ErrCodeParseError, "read body failed"))
		return
	}

	var msg protocol.Message
	if err := json.Unmarshal(body, &msg); err != nil {
		writeMessage(w, http.StatusBadRequest, errorResponse(nil, protocol.ErrCodeParseError, "parse error"))
		return
	}

	resp := s.Handle(r.Context(), &msg)
	if resp == nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}
	writeMessage(w, http.StatusOK, resp)
}

func (s *Server) initialize(_ context.Context, _ *protocol.Message) (*protocol.Message, error) {
	return &protocol.Message{Result: models.InitializeResult{
		ProtocolVersion: ProtocolVersion,
		Capabilities: protocol.ServerCapabilities{
			Tools: &protocol.ToolsCapability{ListChanged: false},
		},
		ServerInfo:   models.Implementation{Name: ServerName, Version: s.version},
		Instructions: "Search UK Parliament members and their registered financial interests.",
	}}, nil
}

func (s *Server) ignore(context.Context, *protocol.Message) (*protocol.Message, error) {
	return nil, nil
}

func (s *Server) ping(context.Context, *protocol.Message) (*protocol.Message, error) {
	return &protocol.Message{Result: struct{}{}}, nil
}

func (s *Server) listTools(context.Context, *protocol.Message) (*protocol.Message, error) {
	return &protocol.Message{Result: models.ListToolsResult{Tools: s.tools.definitions()}}, nil
}

func (s *Server) callTool(ctx context.Context, msg *protocol.Message) (*protocol.Message, error) {
	var params models.CallToolParams
	if len(msg.Params) == 0 {
		return nil, &rpcError{code: protocol.ErrCodeInvalidParams, message: "missing params"}
	}
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return nil, &rpcError{code: protocol.ErrCodeInvalidParams, message: "invalid params"}
	}

	t, ok := s.tools.lookup(params.Name)
	if !ok {
		return nil, &rpcError{code: protocol.ErrCodeInvalidParams, message: "unknown tool: " + params.Name}
	}

	result, err := t.run(ctx, params.Arguments)
	if err != nil {
		s.log.BusinessError("mcp: tool failed", err, "tool", params.Name)
		return &protocol.Message{Result: toolError(err)}, nil
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	return &protocol.Message{Result: models.CallToolResult{
		Content: []models.Content{models.TextContent{Type: "text", Text: string(payload)}},
	}}, nil
}

func toolError(err error) models.CallToolResult {
	return models.CallToolResult{
		Content: []models.Content{models.TextContent{Type: "text", Text: err.Error()}},
		IsError: true,
	}
}

func errorResponse(id *protocol.RequestID, code int, message string) *protocol.Message {
	return &protocol.Message{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &protocol.ErrorObject{Code: code, Message: message},
	}
}

func writeMessage(w http.ResponseWriter, status int, msg *protocol.Message) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(msg)
}
