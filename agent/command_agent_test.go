package agent_test

import (
	"context"
	"testing"

	"github.com/jrsteele09/gh-agent-gateway/agent"
	apperrors "github.com/jrsteele09/gh-agent-gateway/internal/errors"
	"github.com/jrsteele09/gh-agent-gateway/operations"
	"github.com/stretchr/testify/require"
)

type recordingTool struct {
	calls  []operations.Request
	result operations.Result
}

func (r *recordingTool) Execute(_ context.Context, req operations.Request) operations.Result {
	r.calls = append(r.calls, req)
	res := r.result
	res.Operation = req.Operation
	return res
}

func newAgent() *agent.CommandAgent {
	return agent.NewCommandAgent(operations.NewDispatcher(nil).Catalogue())
}

func TestSlashCommandInvokesTool(t *testing.T) {
	tool := &recordingTool{result: operations.Result{Success: true, Message: "Issue #3 created successfully"}}

	resp, err := newAgent().Generate(context.Background(), agent.Request{
		Message: `/create_issue repo=octo/hello title="Broken build" body="CI is \"red\"" issue_number=3`,
		Tool:    tool,
	})
	require.NoError(t, err)
	require.Len(t, tool.calls, 1)

	call := tool.calls[0]
	require.Equal(t, operations.CreateIssue, call.Operation)
	require.Equal(t, "octo", call.Owner)
	require.Equal(t, "hello", call.Repo)
	require.Equal(t, "Broken build", call.Title)
	require.Equal(t, `CI is "red"`, call.Body)
	require.Equal(t, 3, call.IssueNumber)

	require.Equal(t, "Issue #3 created successfully", resp.Text)
	require.Len(t, resp.ToolCalls, 1)
	require.NotEmpty(t, resp.ThreadID)
}

func TestJSONOperationInvokesTool(t *testing.T) {
	tool := &recordingTool{result: operations.Result{Success: true, Message: "ok"}}

	_, err := newAgent().Generate(context.Background(), agent.Request{
		Message:  `{"operation":"merge_pr","owner":"octo","repo":"hello","pr_number":9}`,
		ThreadID: "thread-1",
		Tool:     tool,
	})
	require.NoError(t, err)
	require.Equal(t, 9, tool.calls[0].PRNumber)
}

func TestPlainTextGetsUsage(t *testing.T) {
	tool := &recordingTool{}

	resp, err := newAgent().Generate(context.Background(), agent.Request{Message: "hello there", ThreadID: "t", Tool: tool})
	require.NoError(t, err)
	require.Empty(t, tool.calls)
	require.Equal(t, "t", resp.ThreadID)
	require.Contains(t, resp.Text, "update_file (owner, repo, path, content, message, sha)")
}

func TestSlashCommandSingleQuotes(t *testing.T) {
	tool := &recordingTool{result: operations.Result{Success: true}}

	_, err := newAgent().Generate(context.Background(), agent.Request{
		Message: `/get_file repo=octo/hello path='docs/my notes.md' branch=dev`,
		Tool:    tool,
	})
	require.NoError(t, err)
	require.Len(t, tool.calls, 1)
	require.Equal(t, "docs/my notes.md", tool.calls[0].Path)
	require.Equal(t, "dev", tool.calls[0].Branch)
}

func TestMalformedCommand(t *testing.T) {
	tool := &recordingTool{}

	resp, err := newAgent().Generate(context.Background(), agent.Request{Message: `/get_repo owner="octo`, Tool: tool})
	require.NoError(t, err)
	require.Empty(t, tool.calls)
	require.Contains(t, resp.Text, "could not split command")
}

func TestAuthFailureBecomesError(t *testing.T) {
	tool := &recordingTool{result: operations.Result{Success: false, Kind: apperrors.KindAuthentication, Message: "GitHub operation failed: 401 Bad credentials"}}

	_, err := newAgent().Generate(context.Background(), agent.Request{Message: "/get_repo repo=octo/hello", Tool: tool})
	require.Error(t, err)
	require.Equal(t, apperrors.KindAuthentication, apperrors.KindOf(err))
}

func TestValidationFailureIsExplained(t *testing.T) {
	tool := &recordingTool{result: operations.Result{Success: false, Kind: apperrors.KindValidation, Message: "GitHub operation failed: sha is required for update_file operation"}}

	resp, err := newAgent().Generate(context.Background(), agent.Request{Message: "/update_file repo=octo/hello path=a", Tool: tool})
	require.NoError(t, err)
	require.Contains(t, resp.Text, "sha")
}
