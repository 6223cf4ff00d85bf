package operations

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	apperrors "github.com/jrsteele09/gh-agent-gateway/internal/errors"
)

// Field is the wire name of a parameter.
type Field string

const (
	FieldOwner           Field = "owner"
	FieldRepo            Field = "repo"
	FieldIssueNumber     Field = "issue_number"
	FieldPath            Field = "path"
	FieldTitle           Field = "title"
	FieldBody            Field = "body"
	FieldHead            Field = "head"
	FieldBase            Field = "base"
	FieldContent         Field = "content"
	FieldMessage         Field = "message"
	FieldBranch          Field = "branch"
	FieldSHA             Field = "sha"
	FieldUsername        Field = "username"
	FieldPermission      Field = "permission"
	FieldState           Field = "state"
	FieldTagName         Field = "tag_name"
	FieldTargetCommitish Field = "target_commitish"
	FieldDraft           Field = "draft"
	FieldPrerelease      Field = "prerelease"
	FieldQuery           Field = "query"
	FieldPRNumber        Field = "pr_number"
	FieldCommitSHA       Field = "commit_sha"
	FieldBaseSHA         Field = "base_sha"
)

// Params is the flat parameter bag shared by every operation.
type Params struct {
	Owner           string `json:"owner"`
	Repo            string `json:"repo"`
	IssueNumber     int    `json:"issue_number,omitempty"`
	Path            string `json:"path,omitempty"`
	Title           string `json:"title,omitempty"`
	Body            string `json:"body,omitempty"`
	Head            string `json:"head,omitempty"`
	Base            string `json:"base,omitempty"`
	Content         string `json:"content,omitempty"`
	Message         string `json:"message,omitempty"`
	Branch          string `json:"branch,omitempty"`
	SHA             string `json:"sha,omitempty"`
	Username        string `json:"username,omitempty"`
	Permission      string `json:"permission,omitempty"`
	State           string `json:"state,omitempty"`
	TagName         string `json:"tag_name,omitempty"`
	TargetCommitish string `json:"target_commitish,omitempty"`
	Draft           bool   `json:"draft,omitempty"`
	Prerelease      bool   `json:"prerelease,omitempty"`
	Query           string `json:"query,omitempty"`
	PRNumber        int    `json:"pr_number,omitempty"`
	CommitSHA       string `json:"commit_sha,omitempty"`
	BaseSHA         string `json:"base_sha,omitempty"`
}

// Request is an operation name plus its parameters, flattened on the wire.
type Request struct {
	Operation Name `json:"operation"`
	Params
}

// UnmarshalJSON takes every parameter as a string, number or boolean and
// converts it with Set, so "issue_number": "5" decodes like 5. Unknown keys
// are ignored.
func (r *Request) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return apperrors.Validation("", err, "request must be a JSON object")
	}

	if op, ok := raw["operation"]; ok {
		var name string
		if err := json.Unmarshal(op, &name); err != nil {
			return apperrors.Validation("operation", apperrors.ErrInvalidField, "operation must be a string")
		}
		r.Operation = Name(name)
	}

	var p Params
	for _, key := range slices.Sorted(maps.Keys(raw)) {
		f := Field(key)
		if !p.known(f) {
			continue
		}
		var v any
		if err := json.Unmarshal(raw[key], &v); err != nil {
			return apperrors.Validation(key, apperrors.ErrInvalidField, "%s is not valid JSON", key)
		}
		var text string
		switch x := v.(type) {
		case nil:
			continue
		case string:
			text = x
		case float64:
			text = strconv.FormatFloat(x, 'f', -1, 64)
		case bool:
			text = strconv.FormatBool(x)
		default:
			return apperrors.Validation(key, apperrors.ErrInvalidField, "%s must be a string, number or boolean", key)
		}
		if err := p.Set(f, text); err != nil {
			return err
		}
	}
	r.Params = p
	return nil
}

// Has reports whether f carries a usable value.
func (p Params) Has(f Field) bool {
	switch f {
	case FieldIssueNumber:
		return p.IssueNumber > 0
	case FieldPRNumber:
		return p.PRNumber > 0
	case FieldDraft:
		return p.Draft
	case FieldPrerelease:
		return p.Prerelease
	}
	s, ok := p.str(f)
	return ok && *s != ""
}

// Set assigns a textual value to f, converting numbers and booleans.
func (p *Params) Set(f Field, value string) error {
	switch f {
	case FieldIssueNumber, FieldPRNumber:
		n, err := strconv.Atoi(strings.TrimPrefix(value, "#"))
		if err != nil || n <= 0 {
			return apperrors.Validation(string(f), apperrors.ErrInvalidField, "%s must be a positive number", f)
		}
		if f == FieldIssueNumber {
			p.IssueNumber = n
		} else {
			p.PRNumber = n
		}
		return nil
	case FieldDraft, FieldPrerelease:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return apperrors.Validation(string(f), apperrors.ErrInvalidField, "%s must be true or false", f)
		}
		if f == FieldDraft {
			p.Draft = b
		} else {
			p.Prerelease = b
		}
		return nil
	}

	s, ok := p.str(f)
	if !ok {
		return apperrors.Validation(string(f), apperrors.ErrInvalidField, "unknown parameter %q", f)
	}
	*s = value
	return nil
}

func (p *Params) known(f Field) bool {
	switch f {
	case FieldIssueNumber, FieldPRNumber, FieldDraft, FieldPrerelease:
		return true
	}
	_, ok := p.str(f)
	return ok
}

func (p *Params) str(f Field) (*string, bool) {
	switch f {
	case FieldOwner:
		return &p.Owner, true
	case FieldRepo:
		return &p.Repo, true
	case FieldPath:
		return &p.Path, true
	case FieldTitle:
		return &p.Title, true
	case FieldBody:
		return &p.Body, true
	case FieldHead:
		return &p.Head, true
	case FieldBase:
		return &p.Base, true
	case FieldContent:
		return &p.Content, true
	case FieldMessage:
		return &p.Message, true
	case FieldBranch:
		return &p.Branch, true
	case FieldSHA:
		return &p.SHA, true
	case FieldUsername:
		return &p.Username, true
	case FieldPermission:
		return &p.Permission, true
	case FieldState:
		return &p.State, true
	case FieldTagName:
		return &p.TagName, true
	case FieldTargetCommitish:
		return &p.TargetCommitish, true
	case FieldQuery:
		return &p.Query, true
	case FieldCommitSHA:
		return &p.CommitSHA, true
	case FieldBaseSHA:
		return &p.BaseSHA, true
	}
	return nil, false
}

func (p Params) fullName() string {
	return fmt.Sprintf("%s/%s", p.Owner, p.Repo)
}

func oneOf(f Field, value string, allowed ...string) error {
	if value == "" {
		return nil
	}
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return apperrors.Validation(string(f), apperrors.ErrInvalidField, "%s must be one of %s", f, strings.Join(allowed, ", "))
}
