package operations

import (
	"fmt"

	apperrors "github.com/jrsteele09/gh-agent-gateway/internal/errors"
)

// Result is the envelope returned for every dispatched operation. Data is
// null whenever Success is false.
type Result struct {
	Operation Name           `json:"operation"`
	Success   bool           `json:"success"`
	Message   string         `json:"message,omitempty"`
	Count     *int           `json:"count,omitempty"`
	Data      any            `json:"data"`
	Kind      apperrors.Kind `json:"kind,omitempty"`
	Field     string         `json:"field,omitempty"`
	Hint      string         `json:"hint,omitempty"`
}

// Outcome is what a projection produces from a successful remote call.
type Outcome struct {
	Message string
	Count   *int
	Data    any
}

// listed builds the outcome of a list operation. format receives n first.
func listed(n int, data any, format string, args ...any) Outcome {
	return Outcome{
		Message: fmt.Sprintf(format, append([]any{n}, args...)...),
		Count:   &n,
		Data:    data,
	}
}
