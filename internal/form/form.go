// Package form implements the Form Controller: the editable state behind
// the registration form and the dashboard's add/update form.
//
// A Form holds the seven fields as a flat mapping, checks them against
// the same constraints a browser enforces on the inputs, and submits the
// record either as a create or as an update depending on edit mode.
// Submission outcomes are reported through a transient Notice.
package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/aanand-mishra/students-portal/internal/client"
	"github.com/aanand-mishra/students-portal/internal/types"
	"github.com/aanand-mishra/students-portal/internal/validator"
)

var (
	// ErrBusy is returned when a submission is already in flight.
	ErrBusy = errors.New("form: submission in progress")
	// ErrInvalid wraps every constraint failure. No request is sent.
	ErrInvalid = errors.New("form: invalid input")
	// ErrUnknownField is returned by Set for a name outside FieldNames.
	ErrUnknownField = errors.New("form: unknown field")
)

// Fallback and success texts shown when the server gives no message.
const (
	RegistrationSuccess  = "Registration successful!"
	RegistrationFallback = "Registration failed. Please try again."
	OperationFallback    = "Operation failed"
)

// Submitter is the slice of the API client a form needs.
type Submitter interface {
	Create(ctx context.Context, s types.Student) (types.Student, error)
	Update(ctx context.Context, id string, s types.Student) (types.Student, error)
}

// NoticeKind tells a screen how to style a notice.
type NoticeKind int

const (
	NoticeNone NoticeKind = iota
	NoticeSuccess
	NoticeError
)

// Notice is a message for the user about the last submission.
type Notice struct {
	Kind NoticeKind
	Text string
}

func (n Notice) IsError() bool   { return n.Kind == NoticeError }
func (n Notice) IsSuccess() bool { return n.Kind == NoticeSuccess }

// Options tune a Form for the screen that embeds it.
type Options struct {
	// SuccessNotice is shown after a successful submit. Empty means none.
	SuccessNotice string
	// Fallback is shown when a failure carries no server message.
	Fallback string
}

// Result describes a successful submission.
type Result struct {
	Student types.Student // record as returned by the server
	Updated bool          // false for a create
	ID      string        // identifier the update targeted
}

// Form is safe for concurrent use. Network calls are made without holding
// the lock.
type Form struct {
	api      Submitter
	validate *validator.Validator
	opts     Options

	mu       sync.Mutex
	fields   Fields
	loading  bool
	editMode bool
	editID   string
	notice   Notice
}

// New returns an empty form in create mode.
func New(api Submitter, v *validator.Validator, opts Options) *Form {
	if opts.Fallback == "" {
		opts.Fallback = OperationFallback
	}
	return &Form{
		api:      api,
		validate: v,
		opts:     opts,
		fields:   EmptyFields(),
	}
}

// NewRegistration returns the form used by the registration screen.
func NewRegistration(api Submitter, v *validator.Validator) *Form {
	return New(api, v, Options{
		SuccessNotice: RegistrationSuccess,
		Fallback:      RegistrationFallback,
	})
}

// Set replaces one field's value, leaving the others untouched.
func (f *Form) Set(name, value string) error {
	if !IsKnown(name) {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	f.mu.Lock()
	f.fields[name] = value
	f.mu.Unlock()
	return nil
}

// Fields returns a copy of the current values.
func (f *Form) Fields() Fields {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields.Clone()
}

// Loading reports whether a submission is in flight.
func (f *Form) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}

// EditMode reports whether the form edits an existing record, and which.
func (f *Form) EditMode() (bool, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.editMode, f.editID
}

// Edit loads s into the fields and switches to edit mode for s.ID.
func (f *Form) Edit(s types.Student) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields = FieldsOf(s)
	f.editMode = true
	f.editID = s.ID
}

// Cancel leaves edit mode and clears the fields.
func (f *Form) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reset()
}

// Notice returns the current notice without clearing it.
func (f *Form) Notice() Notice {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.notice
}

// TakeNotice returns the current notice and clears it.
func (f *Form) TakeNotice() Notice {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := f.notice
	f.notice = Notice{}
	return n
}

// record checks the fields against the input constraints and converts
// them into a record.
func (f *Form) record(fields Fields) (types.Student, error) {
	in := fields.input()
	if err := f.validate.Struct(in); err != nil {
		return types.Student{}, fmt.Errorf("%w: %s", ErrInvalid, f.validate.Message(err))
	}

	age, err := strconv.Atoi(strings.TrimSpace(in.Age))
	if err != nil {
		return types.Student{}, fmt.Errorf("%w: age must be a valid number", ErrInvalid)
	}

	s := types.Student{
		Name:        in.Name,
		Email:       in.Email,
		Phone:       in.Phone,
		Gender:      types.Gender(in.Gender),
		Age:         age,
		Education:   types.Education(in.Education),
		Description: in.Description,
	}
	if err := f.validate.Struct(s); err != nil {
		return types.Student{}, fmt.Errorf("%w: %s", ErrInvalid, f.validate.Message(err))
	}
	return s, nil
}

// Submit sends the current fields as a create, or as an update of the
// edited record when in edit mode.
//
// On success the fields are cleared and edit mode ends. On failure the
// fields stay as they are and the notice carries the server's message or
// the fallback. The loading flag is always released before Submit
// returns.
func (f *Form) Submit(ctx context.Context) (Result, error) {
	f.mu.Lock()
	if f.loading {
		f.mu.Unlock()
		return Result{}, ErrBusy
	}
	rec, err := f.record(f.fields)
	if err != nil {
		f.notice = Notice{Kind: NoticeError, Text: invalidText(err)}
		f.mu.Unlock()
		return Result{}, err
	}
	editing, id := f.editMode, f.editID
	f.loading = true
	f.notice = Notice{}
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.loading = false
		f.mu.Unlock()
	}()

	var saved types.Student
	if editing {
		slog.Info("updating a student", slog.String("id", id))
		saved, err = f.api.Update(ctx, id, rec)
	} else {
		slog.Info("creating a student")
		saved, err = f.api.Create(ctx, rec)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		slog.Error("student submission failed", slog.String("error", err.Error()))
		f.notice = Notice{Kind: NoticeError, Text: client.Message(err, f.opts.Fallback)}
		return Result{}, err
	}

	f.reset()
	if f.opts.SuccessNotice != "" {
		f.notice = Notice{Kind: NoticeSuccess, Text: f.opts.SuccessNotice}
	}
	return Result{Student: saved, Updated: editing, ID: id}, nil
}

// reset must be called with mu held.
func (f *Form) reset() {
	f.fields = EmptyFields()
	f.editMode = false
	f.editID = ""
}

func invalidText(err error) string {
	return strings.TrimPrefix(err.Error(), ErrInvalid.Error()+": ")
}
