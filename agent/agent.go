package agent

import (
	"context"

	"github.com/jrsteele09/gh-agent-gateway/operations"
)

// Tool executes catalogue operations with a credential already bound.
type Tool interface {
	Execute(ctx context.Context, req operations.Request) operations.Result
}

type Request struct {
	Message  string
	ThreadID string
	Tool     Tool
}

type ToolCall struct {
	Operation operations.Name   `json:"toolName"`
	Result    operations.Result `json:"result"`
}

type Response struct {
	ThreadID     string
	Text         string
	FinishReason string
	ToolCalls    []ToolCall
}

// Agent turns a user message into a reply, calling the tool as it sees fit.
type Agent interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}

// DispatcherTool binds a session credential to a dispatcher.
type DispatcherTool struct {
	Dispatcher *operations.Dispatcher
	Token      string
}

var _ Tool = DispatcherTool{}

func (t DispatcherTool) Execute(ctx context.Context, req operations.Request) operations.Result {
	return t.Dispatcher.Execute(ctx, t.Token, req)
}
