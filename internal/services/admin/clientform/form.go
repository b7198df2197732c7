// Package clientform holds the state of the client creation form.
package clientform

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/louisbranch/cardapp/internal/services/admin/cardapi"
)

// ErrBusy is returned when a submission is attempted while another is in flight.
var ErrBusy = errors.New("clientform: submission already in progress")

var validate = validator.New()

// Values are the editable form fields.
type Values struct {
	FirstName  string             `validate:"required"`
	LastName   string             `validate:"required"`
	Identifier string             `validate:"len=11"`
	CardStatus cardapi.CardStatus `validate:"oneof=PENDING APPROVED REJECTED IN_PROGRESS COMPLETED"`
}

// Defaults returns an empty form with the PENDING status preselected.
func Defaults() Values {
	return Values{CardStatus: cardapi.StatusPending}
}

func (v Values) normalized() Values {
	v.FirstName = strings.TrimSpace(v.FirstName)
	v.LastName = strings.TrimSpace(v.LastName)
	v.Identifier = strings.TrimSpace(v.Identifier)
	if v.CardStatus == "" {
		v.CardStatus = cardapi.StatusPending
	}
	return v
}

// FieldError names a rejected field and the catalog key describing why.
type FieldError struct {
	Field string
	Key   string
}

// Validate reports every field that fails the local checks.
func Validate(values Values) []FieldError {
	err := validate.Struct(values.normalized())
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []FieldError{{Field: "form", Key: "form.error_generic"}}
	}
	out := make([]FieldError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, FieldError{Field: fe.Field(), Key: messageKey(fe)})
	}
	return out
}

func messageKey(fe validator.FieldError) string {
	switch fe.Field() {
	case "FirstName":
		return "validation.first_name_required"
	case "LastName":
		return "validation.last_name_required"
	case "Identifier":
		return "validation.oib_length"
	case "CardStatus":
		return "validation.card_status_invalid"
	default:
		return "form.error_generic"
	}
}

// Outcome tags a submission Result.
type Outcome int

const (
	// OutcomeNone means nothing has been submitted yet.
	OutcomeNone Outcome = iota
	OutcomeSuccess
	OutcomeFailure
)

// Result is the outcome of the latest submission.
type Result struct {
	Outcome Outcome
	// Client is the created record on success.
	Client cardapi.Client
	// Kind classifies a failure.
	Kind cardapi.Kind
	// Message is the server message for a failure, when one was sent.
	Message string
	Fields  []FieldError
}

// Succeeded reports whether the result is a success.
func (r Result) Succeeded() bool { return r.Outcome == OutcomeSuccess }

// Failed reports whether the result is a failure.
func (r Result) Failed() bool { return r.Outcome == OutcomeFailure }

// FieldKey returns the catalog key for field, or "".
func (r Result) FieldKey(field string) string {
	for _, fe := range r.Fields {
		if fe.Field == field {
			return fe.Key
		}
	}
	return ""
}

// Creator persists a new client.
type Creator interface {
	CreateClient(ctx context.Context, input cardapi.NewClient) (cardapi.Client, error)
}

// CreatedFunc is called after a client was created.
type CreatedFunc func(ctx context.Context, created cardapi.Client)

// Form tracks one operator's creation form.
type Form struct {
	creator   Creator
	onCreated CreatedFunc

	mu     sync.Mutex
	values Values
	busy   bool
	last   Result
}

// New builds a form in its default state.
func New(creator Creator, onCreated CreatedFunc) *Form {
	return &Form{creator: creator, onCreated: onCreated, values: Defaults()}
}

// Snapshot returns the current field values, busy flag and last result.
func (f *Form) Snapshot() (Values, bool, Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values, f.busy, f.last
}

// Submit validates input and, when valid, creates the client. On success the
// fields reset to Defaults and onCreated runs; otherwise the input is kept so
// the operator can correct it. The only returned error is ErrBusy.
func (f *Form) Submit(ctx context.Context, input Values) (Result, error) {
	input = input.normalized()

	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return Result{}, ErrBusy
	}
	if fields := Validate(input); len(fields) > 0 {
		f.values = input
		f.last = Result{Outcome: OutcomeFailure, Kind: cardapi.KindValidation, Fields: fields}
		result := f.last
		f.mu.Unlock()
		return result, nil
	}
	f.busy = true
	f.values = input
	f.mu.Unlock()

	created, err := f.creator.CreateClient(ctx, cardapi.NewClient{
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Identifier: input.Identifier,
		CardStatus: input.CardStatus,
	})

	f.mu.Lock()
	f.busy = false
	if err != nil {
		f.last = Result{Outcome: OutcomeFailure, Kind: cardapi.KindOf(err), Message: cardapi.MessageOf(err)}
	} else {
		f.values = Defaults()
		f.last = Result{Outcome: OutcomeSuccess, Client: created}
	}
	result := f.last
	f.mu.Unlock()

	if err == nil && f.onCreated != nil {
		f.onCreated(ctx, created)
	}
	return result, nil
}
