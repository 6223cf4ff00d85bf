package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jrsteele09/gh-agent-gateway/agent"
	apperrors "github.com/jrsteele09/gh-agent-gateway/internal/errors"
	"github.com/jrsteele09/gh-agent-gateway/operations"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

type chatRequest struct {
	Message  string `json:"message" validate:"required,max=8000"`
	ThreadID string `json:"threadId" validate:"omitempty,max=128"`
}

type chatDetails struct {
	FinishReason string            `json:"finishReason"`
	ToolsUsed    []operations.Name `json:"toolsUsed"`
	Timestamp    string            `json:"timestamp"`
}

type chatResponse struct {
	Success     bool             `json:"success"`
	ThreadID    string           `json:"threadId"`
	Message     string           `json:"message"`
	Details     chatDetails      `json:"details"`
	ToolResults []agent.ToolCall `json:"toolResults"`
}

// ChatHandler hands the message to the agent with the session credential
// bound to its only tool.
func (s *Server) ChatHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := zerolog.Ctx(r.Context())

		token := sessionFrom(r).AccessToken()
		if token == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"error":   "GitHub authentication required",
				"message": "Please authenticate with GitHub first",
			})
			return
		}

		var req chatRequest
		if !s.decodeBody(w, r, &req) {
			return
		}

		resp, err := s.agent.Generate(r.Context(), agent.Request{
			Message:  req.Message,
			ThreadID: req.ThreadID,
			Tool:     agent.DispatcherTool{Dispatcher: s.dispatcher, Token: token},
		})
		if err != nil {
			logger.Error().Err(err).Msg("agent failed")
			if apperrors.KindOf(err) == apperrors.KindAuthentication {
				s.sessions.Destroy(r.Context(), sessionFrom(r))
			}
			writeAgentError(w, err)
			return
		}

		toolsUsed := make([]operations.Name, 0, len(resp.ToolCalls))
		for _, call := range resp.ToolCalls {
			toolsUsed = append(toolsUsed, call.Operation)
		}
		toolResults := resp.ToolCalls
		if toolResults == nil {
			toolResults = []agent.ToolCall{}
		}

		writeJSON(w, http.StatusOK, chatResponse{
			Success:  true,
			ThreadID: resp.ThreadID,
			Message:  resp.Text,
			Details: chatDetails{
				FinishReason: resp.FinishReason,
				ToolsUsed:    toolsUsed,
				Timestamp:    time.Now().UTC().Format(time.RFC3339),
			},
			ToolResults: toolResults,
		})
	}
}

// writeAgentError answers with the body for the error's kind.
func writeAgentError(w http.ResponseWriter, err error) {
	kind := apperrors.KindOf(err)
	switch kind {
	case apperrors.KindRateLimited:
		writeJSON(w, statusForKind(kind), map[string]any{
			"error":      "GitHub API rate limit exceeded",
			"message":    "Please try again later",
			"retryAfter": "60 seconds",
		})
	case apperrors.KindAuthentication:
		writeJSON(w, statusForKind(kind), map[string]any{
			"error":   "GitHub authentication failed",
			"message": "Please re-authenticate with GitHub",
			"action":  "redirect_to_login",
		})
	case apperrors.KindPermission:
		writeJSON(w, statusForKind(kind), map[string]any{
			"error":      "GitHub permission denied",
			"message":    "Insufficient permissions to access this resource",
			"suggestion": "Check repository permissions or OAuth scopes",
		})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   "Internal server error",
			"message": "An error occurred while communicating with GitHub",
		})
	}
}

// decodeJSON reads a JSON body, answering 400 itself on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return false
	}
	return true
}

// decodeBody is decodeJSON followed by struct tag validation.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if !decodeJSON(w, r, dst) {
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return false
	}
	return true
}
