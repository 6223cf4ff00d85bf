package operations

import (
	"context"
	"time"

	"github.com/google/go-github/v74/github"
	apperrors "github.com/jrsteele09/gh-agent-gateway/internal/errors"
	"github.com/rs/zerolog/log"
)

const failurePrefix = "GitHub operation failed: "

// ClientFactory returns a REST client authenticated with token.
type ClientFactory func(token string) *github.Client

// Info describes a catalogue entry to callers.
type Info struct {
	Name     Name    `json:"name"`
	Required []Field `json:"required"`
}

// Dispatcher validates, executes and normalizes catalogue operations.
type Dispatcher struct {
	newClient ClientFactory
	ops       map[Name]descriptor
	order     []Name
}

func NewDispatcher(newClient ClientFactory) *Dispatcher {
	d := &Dispatcher{
		newClient: newClient,
		ops:       make(map[Name]descriptor),
	}
	for _, o := range catalogue() {
		d.ops[o.Name()] = o
		d.order = append(d.order, o.Name())
	}
	return d
}

// Catalogue lists every operation with its required fields, owner and repo
// included.
func (d *Dispatcher) Catalogue() []Info {
	infos := make([]Info, 0, len(d.order))
	for _, name := range d.order {
		infos = append(infos, Info{
			Name:     name,
			Required: append([]Field{FieldOwner, FieldRepo}, d.ops[name].Required()...),
		})
	}
	return infos
}

func (d *Dispatcher) Supports(name Name) bool {
	_, ok := d.ops[name]
	return ok
}

// Execute runs req with token. It never returns an error or panics: failures
// are reported through Result.Success.
func (d *Dispatcher) Execute(ctx context.Context, token string, req Request) (res Result) {
	start := time.Now()
	outcome := outcomeFailure

	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("operation", string(req.Operation)).Interface("panic", r).Msg("operation panicked")
			res = failure(req.Operation, apperrors.KindTransport, "", "unexpected internal error", "")
			outcome = outcomeFailure
		}
		operationsTotal.WithLabelValues(metricLabel(d, req.Operation), outcome).Inc()
		operationDuration.WithLabelValues(metricLabel(d, req.Operation)).Observe(time.Since(start).Seconds())
	}()

	o, ok := d.ops[req.Operation]
	if !ok {
		outcome = outcomeInvalid
		err := apperrors.Validation("operation", apperrors.ErrUnsupportedOperation, "Unsupported operation: %s", req.Operation)
		return failure(req.Operation, err.Kind, err.Field, err.Message, "")
	}

	if token == "" {
		return failure(req.Operation, apperrors.KindAuthentication, "", "GitHub token not found", "Re-authenticate with GitHub")
	}

	if err := d.validate(o, req.Params); err != nil {
		outcome = outcomeInvalid
		kind, msg, _ := Classify(err)
		return failure(req.Operation, kind, apperrors.FieldOf(err), msg, "")
	}

	log.Info().Str("operation", string(req.Operation)).Str("repo", req.fullName()).Msg("GitHub operation")

	out, err := o.Run(ctx, d.newClient(token), req.Params)
	if err != nil {
		kind, msg, hint := Classify(err)
		log.Err(err).Str("operation", string(req.Operation)).Str("kind", string(kind)).Msg("GitHub operation failed")
		return failure(req.Operation, kind, apperrors.FieldOf(err), msg, hint)
	}

	outcome = outcomeSuccess
	return Result{
		Operation: req.Operation,
		Success:   true,
		Message:   out.Message,
		Count:     out.Count,
		Data:      out.Data,
	}
}

// Reject reports a request that could not be decoded as a validation
// failure, keeping decoder internals out of the message.
func (d *Dispatcher) Reject(name Name, err error) Result {
	operationsTotal.WithLabelValues(metricLabel(d, name), outcomeInvalid).Inc()
	var appErr *apperrors.Error
	if apperrors.As(err, &appErr) && appErr.Message != "" {
		return failure(name, apperrors.KindValidation, appErr.Field, appErr.Message, "")
	}
	return failure(name, apperrors.KindValidation, "", "request body must be a JSON operation object", "")
}

func (d *Dispatcher) validate(o descriptor, p Params) error {
	for _, f := range append([]Field{FieldOwner, FieldRepo}, o.Required()...) {
		if !p.Has(f) {
			return apperrors.Validation(string(f), apperrors.ErrMissingField, "%s is required for %s operation", f, o.Name())
		}
	}
	return o.Validate(p)
}

func failure(name Name, kind apperrors.Kind, field, message, hint string) Result {
	return Result{
		Operation: name,
		Success:   false,
		Message:   failurePrefix + message,
		Data:      nil,
		Kind:      kind,
		Field:     field,
		Hint:      hint,
	}
}

// metricLabel keeps label cardinality bounded to the catalogue.
func metricLabel(d *Dispatcher, name Name) string {
	if d.Supports(name) {
		return string(name)
	}
	return "unknown"
}
