package operations_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/google/go-github/v74/github"
	apperrors "github.com/jrsteele09/gh-agent-gateway/internal/errors"
	"github.com/jrsteele09/gh-agent-gateway/operations"
	"github.com/stretchr/testify/require"
)

type remote struct {
	mux  *http.ServeMux
	hits atomic.Int32
	srv  *httptest.Server
}

func newRemote(t *testing.T) *remote {
	t.Helper()
	r := &remote{mux: http.NewServeMux()}
	r.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.hits.Add(1)
		r.mux.ServeHTTP(w, req)
	}))
	t.Cleanup(r.srv.Close)
	return r
}

func (r *remote) handle(pattern string, status int, body string) {
	r.mux.HandleFunc(pattern, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

func (r *remote) dispatcher() *operations.Dispatcher {
	return operations.NewDispatcher(func(token string) *github.Client {
		c := github.NewClient(nil).WithAuthToken(token)
		base, _ := url.Parse(r.srv.URL + "/")
		c.BaseURL = base
		return c
	})
}

func exec(t *testing.T, r *remote, req operations.Request) (operations.Result, map[string]any) {
	t.Helper()
	res := r.dispatcher().Execute(context.Background(), "tok123", req)
	raw, err := json.Marshal(res)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	return res, m
}

func request(name operations.Name, p operations.Params) operations.Request {
	if p.Owner == "" {
		p.Owner = "octo"
	}
	if p.Repo == "" {
		p.Repo = "hello"
	}
	return operations.Request{Operation: name, Params: p}
}

func TestUpdateFileWithoutSHAFailsWithoutRemoteCall(t *testing.T) {
	r := newRemote(t)

	res, m := exec(t, r, request(operations.UpdateFile, operations.Params{
		Path: "README.md", Content: "hi", Message: "update",
	}))

	require.False(t, res.Success)
	require.Contains(t, res.Message, "sha")
	require.Equal(t, "sha", res.Field)
	require.Equal(t, apperrors.KindValidation, res.Kind)
	require.Nil(t, m["data"])
	require.Contains(t, m, "data")
	require.EqualValues(t, 0, r.hits.Load())
}

func TestOwnerAndRepoAlwaysRequired(t *testing.T) {
	r := newRemote(t)
	d := r.dispatcher()

	res := d.Execute(context.Background(), "tok123", operations.Request{Operation: operations.GetRepo, Params: operations.Params{Repo: "x"}})
	require.False(t, res.Success)
	require.Equal(t, "owner", res.Field)

	res = d.Execute(context.Background(), "tok123", operations.Request{Operation: operations.ListIssues, Params: operations.Params{Owner: "x"}})
	require.False(t, res.Success)
	require.Equal(t, "repo", res.Field)
	require.EqualValues(t, 0, r.hits.Load())
}

func TestMissingTokenMakesNoCall(t *testing.T) {
	r := newRemote(t)

	res := r.dispatcher().Execute(context.Background(), "", request(operations.GetRepo, operations.Params{}))
	require.False(t, res.Success)
	require.Equal(t, apperrors.KindAuthentication, res.Kind)
	require.EqualValues(t, 0, r.hits.Load())
}

func TestUnsupportedOperation(t *testing.T) {
	r := newRemote(t)

	res, _ := exec(t, r, request("drop_database", operations.Params{}))
	require.False(t, res.Success)
	require.Equal(t, "GitHub operation failed: Unsupported operation: drop_database", res.Message)
	require.EqualValues(t, 0, r.hits.Load())
}

func TestEnumValidationRunsBeforeRemoteCall(t *testing.T) {
	r := newRemote(t)

	res, _ := exec(t, r, request(operations.AddCollaborator, operations.Params{Username: "hubot", Permission: "owner"}))
	require.False(t, res.Success)
	require.Equal(t, "permission", res.Field)

	res, _ = exec(t, r, request(operations.UpdateIssue, operations.Params{IssueNumber: 3, State: "merged"}))
	require.False(t, res.Success)
	require.Equal(t, "state", res.Field)
	require.EqualValues(t, 0, r.hits.Load())
}

func TestGetRepoProjection(t *testing.T) {
	r := newRemote(t)
	r.handle("GET /repos/octo/hello", http.StatusOK, `{
		"id": 1, "node_id": "R_1", "name": "hello", "full_name": "octo/hello",
		"owner": {"login": "octo"}, "html_url": "https://github.com/octo/hello",
		"private": false, "fork": false, "language": "Go",
		"stargazers_count": 5, "forks_count": 2, "open_issues_count": 1,
		"default_branch": "main", "permissions": {"admin": true}, "clone_url": "x"
	}`)

	res, m := exec(t, r, request(operations.GetRepo, operations.Params{}))
	require.True(t, res.Success)
	require.Equal(t, "Repository information retrieved successfully", res.Message)

	data := m["data"].(map[string]any)
	require.Equal(t, "octo", data["owner"])
	require.Equal(t, "octo/hello", data["full_name"])
	require.Equal(t, "", data["description"])
	require.EqualValues(t, 5, data["stargazers_count"])
	require.NotContains(t, data, "permissions")
	require.NotContains(t, data, "clone_url")
	require.NotContains(t, m, "count")
}

func TestListIssuesCountsAndDefaultsUnknownUser(t *testing.T) {
	r := newRemote(t)
	r.mux.HandleFunc("GET /repos/octo/hello/issues", func(w http.ResponseWriter, req *http.Request) {
		require.Equal(t, "all", req.URL.Query().Get("state"))
		require.Equal(t, "50", req.URL.Query().Get("per_page"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": 10, "number": 1, "title": "bug", "state": "open", "user": {"login": "a"}, "labels": [{"name": "bug", "color": "f00"}]},
			{"id": 11, "number": 2, "title": "ghost", "state": "closed"}
		]`))
	})

	res, m := exec(t, r, request(operations.ListIssues, operations.Params{}))
	require.True(t, res.Success)
	require.Equal(t, "Found 2 issues", res.Message)
	require.Equal(t, 2, *res.Count)

	items := m["data"].([]any)
	second := items[1].(map[string]any)
	require.Equal(t, "unknown", second["user"].(map[string]any)["login"])
	first := items[0].(map[string]any)
	require.Equal(t, "bug", first["labels"].([]any)[0].(map[string]any)["name"])
}

func TestCreateIssueMessage(t *testing.T) {
	r := newRemote(t)
	r.handle("POST /repos/octo/hello/issues", http.StatusCreated, `{"id": 9, "number": 42, "title": "t", "state": "open", "user": {"login": "me"}}`)

	res, _ := exec(t, r, request(operations.CreateIssue, operations.Params{Title: "t"}))
	require.True(t, res.Success)
	require.Equal(t, "Issue #42 created successfully", res.Message)
}

func TestCreateFileSendsBase64Content(t *testing.T) {
	r := newRemote(t)
	var sent map[string]any
	r.mux.HandleFunc("PUT /repos/octo/hello/contents/docs/a.md", func(w http.ResponseWriter, req *http.Request) {
		require.NoError(t, json.NewDecoder(req.Body).Decode(&sent))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"content": {"name": "a.md", "path": "docs/a.md", "sha": "abc"}, "commit": {"sha": "c1", "message": "add"}}`))
	})

	res, m := exec(t, r, request(operations.CreateFile, operations.Params{
		Path: "docs/a.md", Content: "# hello\n", Message: "add", Branch: "dev",
	}))
	require.True(t, res.Success)
	require.Equal(t, "File created successfully: docs/a.md", res.Message)
	require.Equal(t, base64.StdEncoding.EncodeToString([]byte("# hello\n")), sent["content"])
	require.Equal(t, "dev", sent["branch"])
	require.NotContains(t, sent, "sha")

	data := m["data"].(map[string]any)
	require.Equal(t, "c1", data["commit"].(map[string]any)["sha"])
}

func TestGetFileRejectsDirectory(t *testing.T) {
	r := newRemote(t)
	r.handle("GET /repos/octo/hello/contents/src", http.StatusOK, `[{"name": "a.go", "path": "src/a.go", "type": "file"}]`)

	res, _ := exec(t, r, request(operations.GetFile, operations.Params{Path: "src"}))
	require.False(t, res.Success)
	require.Equal(t, "GitHub operation failed: Path points to a directory, not a file", res.Message)
}

func TestListDirectory(t *testing.T) {
	r := newRemote(t)
	r.handle("GET /repos/octo/hello/contents/src", http.StatusOK, `[{"name": "a.go", "path": "src/a.go", "type": "file", "size": 3}, {"name": "pkg", "path": "src/pkg", "type": "dir"}]`)

	res, _ := exec(t, r, request(operations.ListDirectory, operations.Params{Path: "src"}))
	require.True(t, res.Success)
	require.Equal(t, "Directory contents retrieved: 2 items", res.Message)
}

func TestCreatePRDefaultsBaseToMain(t *testing.T) {
	r := newRemote(t)
	var sent map[string]any
	r.mux.HandleFunc("POST /repos/octo/hello/pulls", func(w http.ResponseWriter, req *http.Request) {
		require.NoError(t, json.NewDecoder(req.Body).Decode(&sent))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 1, "number": 7, "head": {"ref": "feature"}, "base": {"ref": "main"}}`))
	})

	res, _ := exec(t, r, request(operations.CreatePR, operations.Params{Title: "t", Head: "feature"}))
	require.True(t, res.Success)
	require.Equal(t, "main", sent["base"])
	require.Equal(t, "Pull request #7 created successfully", res.Message)
}

func TestCreateBranchPostsRef(t *testing.T) {
	r := newRemote(t)
	var sent map[string]any
	r.mux.HandleFunc("POST /repos/octo/hello/git/refs", func(w http.ResponseWriter, req *http.Request) {
		require.NoError(t, json.NewDecoder(req.Body).Decode(&sent))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ref": "refs/heads/topic", "object": {"type": "commit", "sha": "abc"}}`))
	})

	res, _ := exec(t, r, request(operations.CreateBranch, operations.Params{Branch: "topic", SHA: "abc"}))
	require.True(t, res.Success)
	require.Equal(t, map[string]any{"ref": "refs/heads/topic", "sha": "abc"}, sent)
}

func TestSearchIsScopedToRepository(t *testing.T) {
	r := newRemote(t)
	r.mux.HandleFunc("GET /search/code", func(w http.ResponseWriter, req *http.Request) {
		require.Equal(t, "TODO repo:octo/hello", req.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"total_count": 12, "items": [{"name": "a.go", "path": "a.go", "repository": {"name": "hello", "full_name": "octo/hello"}}]}`))
	})

	res, _ := exec(t, r, request(operations.SearchCode, operations.Params{Query: "TODO"}))
	require.True(t, res.Success)
	require.Equal(t, 12, *res.Count)
	require.Equal(t, "Found 12 code results", res.Message)
}

func TestAddCollaboratorDefaultsToPush(t *testing.T) {
	r := newRemote(t)
	var sent map[string]any
	r.mux.HandleFunc("PUT /repos/octo/hello/collaborators/hubot", func(w http.ResponseWriter, req *http.Request) {
		require.NoError(t, json.NewDecoder(req.Body).Decode(&sent))
		w.WriteHeader(http.StatusNoContent)
	})

	res, m := exec(t, r, request(operations.AddCollaborator, operations.Params{Username: "hubot"}))
	require.True(t, res.Success)
	require.Equal(t, "push", sent["permission"])
	require.Equal(t, "push", m["data"].(map[string]any)["permission"])
}

func TestRemoteFailuresAreClassified(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   apperrors.Kind
	}{
		{"unauthorized", http.StatusUnauthorized, `{"message": "Bad credentials"}`, apperrors.KindAuthentication},
		{"forbidden", http.StatusForbidden, `{"message": "Resource not accessible by integration"}`, apperrors.KindPermission},
		{"not found", http.StatusNotFound, `{"message": "Not Found"}`, apperrors.KindTransport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRemote(t)
			r.handle("GET /repos/octo/hello", tt.status, tt.body)

			res, m := exec(t, r, request(operations.GetRepo, operations.Params{}))
			require.False(t, res.Success)
			require.Equal(t, tt.kind, res.Kind)
			require.Contains(t, res.Message, "GitHub operation failed: ")
			require.NotContains(t, res.Message, r.srv.URL)
			require.Nil(t, m["data"])
		})
	}
}

func TestCatalogue(t *testing.T) {
	d := operations.NewDispatcher(nil)
	infos := d.Catalogue()

	byName := map[operations.Name][]operations.Field{}
	for _, info := range infos {
		byName[info.Name] = info.Required
	}
	require.Len(t, byName, 32)
	require.Equal(t, []operations.Field{"owner", "repo", "path", "content", "message", "sha"}, byName[operations.UpdateFile])
	require.Equal(t, []operations.Field{"owner", "repo", "base_sha", "sha"}, byName[operations.CompareCommits])
	require.Equal(t, []operations.Field{"owner", "repo"}, byName[operations.ListCommits])
}

func TestParamsSet(t *testing.T) {
	var p operations.Params
	require.NoError(t, p.Set(operations.FieldIssueNumber, "#12"))
	require.NoError(t, p.Set(operations.FieldDraft, "true"))
	require.NoError(t, p.Set(operations.FieldPath, "a/b.go"))
	require.Equal(t, 12, p.IssueNumber)
	require.True(t, p.Draft)
	require.Equal(t, "a/b.go", p.Path)

	err := p.Set(operations.FieldPRNumber, "abc")
	require.Error(t, err)
	require.Equal(t, "pr_number", apperrors.FieldOf(err))
	require.Error(t, p.Set("colour", "red"))
}

func TestRequestDecodesLooseScalars(t *testing.T) {
	var req operations.Request
	require.NoError(t, json.Unmarshal([]byte(`{
		"operation": "create_release", "owner": "octo", "repo": "hello", "tag_name": "v1",
		"draft": "true", "prerelease": true, "issue_number": 7, "pr_number": "#8",
		"title": null, "unknown": {"x": 1}
	}`), &req))
	require.Equal(t, operations.CreateRelease, req.Operation)
	require.True(t, req.Draft)
	require.True(t, req.Prerelease)
	require.Equal(t, 7, req.IssueNumber)
	require.Equal(t, 8, req.PRNumber)
	require.Empty(t, req.Title)

	err := json.Unmarshal([]byte(`{"operation":"close_issue","issue_number":"five"}`), &req)
	require.Error(t, err)
	require.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	require.Equal(t, "issue_number", apperrors.FieldOf(err))

	err = json.Unmarshal([]byte(`{"operation":"close_issue","issue_number":2.5}`), &req)
	require.Equal(t, "issue_number", apperrors.FieldOf(err))
}

func TestRejectHidesDecoderDetail(t *testing.T) {
	d := newRemote(t).dispatcher()

	var syntaxErr *json.SyntaxError
	err := json.Unmarshal([]byte(`{"operation":`), &struct{}{})
	require.ErrorAs(t, err, &syntaxErr)

	res := d.Reject("", err)
	require.False(t, res.Success)
	require.Equal(t, apperrors.KindValidation, res.Kind)
	require.Equal(t, "GitHub operation failed: request body must be a JSON operation object", res.Message)
	require.Nil(t, res.Data)
}
