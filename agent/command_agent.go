package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/gh-agent-gateway/internal/errors"
	"github.com/jrsteele09/gh-agent-gateway/operations"
	"github.com/mattn/go-shellwords"
)

const (
	finishStop     = "stop"
	finishToolCall = "tool-calls"
)

// CommandAgent is a deterministic agent. It runs one operation per message,
// written either as a slash command
//
//	/create_issue owner=octo repo=hello title="Broken build"
//
// or as a JSON operation object. Anything else gets usage help.
type CommandAgent struct {
	catalogue []operations.Info
}

var _ Agent = (*CommandAgent)(nil)

func NewCommandAgent(catalogue []operations.Info) *CommandAgent {
	return &CommandAgent{catalogue: catalogue}
}

func (a *CommandAgent) Generate(ctx context.Context, req Request) (*Response, error) {
	threadID := req.ThreadID
	if threadID == "" {
		threadID = uuid.NewString()
	}
	resp := &Response{ThreadID: threadID, FinishReason: finishStop}

	msg := strings.TrimSpace(req.Message)
	var opReq operations.Request
	var err error
	switch {
	case strings.HasPrefix(msg, "/"):
		opReq, err = parseCommand(msg[1:])
	case strings.HasPrefix(msg, "{"):
		err = json.Unmarshal([]byte(msg), &opReq)
	default:
		resp.Text = a.usage()
		return resp, nil
	}
	if err != nil {
		resp.Text = fmt.Sprintf("I could not read that command: %s\n\n%s", messageOf(err), a.usage())
		return resp, nil
	}
	if req.Tool == nil {
		return nil, fmt.Errorf("no tool bound to agent request")
	}

	result := req.Tool.Execute(ctx, opReq)
	resp.ToolCalls = append(resp.ToolCalls, ToolCall{Operation: opReq.Operation, Result: result})
	resp.FinishReason = finishToolCall

	if !result.Success {
		switch result.Kind {
		case apperrors.KindAuthentication, apperrors.KindPermission, apperrors.KindRateLimited:
			return nil, apperrors.New(result.Kind, "%s", result.Message)
		}
	}
	resp.Text = result.Message
	return resp, nil
}

func (a *CommandAgent) usage() string {
	var b strings.Builder
	b.WriteString("Send an operation as /<operation> key=value ... (quote values with spaces).\nAvailable operations:\n")
	for _, info := range a.catalogue {
		fields := make([]string, 0, len(info.Required))
		for _, f := range info.Required {
			fields = append(fields, string(f))
		}
		fmt.Fprintf(&b, "  %s (%s)\n", info.Name, strings.Join(fields, ", "))
	}
	return b.String()
}

func parseCommand(cmd string) (operations.Request, error) {
	words, err := shellwords.Parse(cmd)
	if err != nil {
		return operations.Request{}, fmt.Errorf("could not split command: %w", err)
	}
	if len(words) == 0 {
		return operations.Request{}, fmt.Errorf("missing operation name")
	}

	req := operations.Request{Operation: operations.Name(words[0])}
	for _, w := range words[1:] {
		key, value, ok := strings.Cut(w, "=")
		if !ok {
			return operations.Request{}, fmt.Errorf("expected key=value, got %q", w)
		}
		// repo=owner/name sets both fields.
		if operations.Field(key) == operations.FieldRepo && strings.Contains(value, "/") {
			req.Owner, req.Repo, _ = strings.Cut(value, "/")
			continue
		}
		if err := req.Set(operations.Field(key), value); err != nil {
			return operations.Request{}, err
		}
	}
	return req, nil
}

func messageOf(err error) string {
	var appErr *apperrors.Error
	if apperrors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
