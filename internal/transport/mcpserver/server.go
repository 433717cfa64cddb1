// Package mcpserver exposes the chatbot and user profiles as MCP tools over streamable HTTP.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sandevgo/alexbot/internal/core"
	"github.com/sandevgo/alexbot/pkg/log"
)

const (
	ToolGetUserProfile = "get_user_profile"
	ToolSendMessage    = "send_message"
)

type Server struct {
	addr     string
	chatbot  core.Chatbot
	profiles core.ProfileStore
	mcp      *server.MCPServer
	http     *server.StreamableHTTPServer
}

func New(addr string, chatbot core.Chatbot, profiles core.ProfileStore) *Server {
	s := &Server{
		addr:     addr,
		chatbot:  chatbot,
		profiles: profiles,
		mcp: server.NewMCPServer(
			core.AlexName,
			core.AlexVersion,
			server.WithToolCapabilities(false),
		),
	}

	s.mcp.AddTool(mcp.NewTool(ToolGetUserProfile,
		mcp.WithDescription("Return everything remembered about a user: facts, themes and conversation count"),
		mcp.WithString("userId", mcp.Required(), mcp.Description("Opaque user identifier")),
	), s.handleGetUserProfile)

	s.mcp.AddTool(mcp.NewTool(ToolSendMessage,
		mcp.WithDescription("Send a message to Alex on behalf of a user and return the reply"),
		mcp.WithString("userId", mcp.Required(), mcp.Description("Opaque user identifier")),
		mcp.WithString("message", mcp.Required(), mcp.Description("The user's message")),
		mcp.WithString("sessionId", mcp.Description("Conversation session; a new one is created when empty")),
	), s.handleSendMessage)

	return s
}

func (s *Server) Start(ctx context.Context) error {
	s.http = server.NewStreamableHTTPServer(s.mcp)

	log.FromCtx(ctx).Info().Str("addr", s.addr).Msg("starting mcp server")
	if err := s.http.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) handleGetUserProfile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := req.RequireString("userId")
	if err != nil || userID == "" {
		return mcp.NewToolResultError("userId is required"), nil
	}

	profile, err := s.profiles.GetOrCreateProfile(ctx, userID)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("user_id", userID).Msg("mcp profile lookup failed")
		return mcp.NewToolResultError("failed to load profile"), nil
	}

	data, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("marshal profile: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleSendMessage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID := req.GetString("userId", "")
	message := req.GetString("message", "")
	if userID == "" || message == "" {
		return mcp.NewToolResultError("userId and message are required"), nil
	}

	sessionID := req.GetString("sessionId", "")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	reply := s.chatbot.GenerateResponse(ctx, userID, message, sessionID)

	data, err := json.Marshal(map[string]any{
		"response":   reply.Text,
		"confidence": reply.Confidence,
		"sessionId":  sessionID,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal reply: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
