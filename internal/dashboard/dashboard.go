// Package dashboard implements the Record List Controller behind the
// dashboard screen: the ordered list of students fetched from the API,
// per-row edit and delete actions, and an embedded form.Form whose
// submissions patch the local list from the server's response.
//
// The local list only changes after the server has answered: a delete
// removes the row once the request succeeded, a create appends the
// returned record, an update replaces the matching row in place.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/aanand-mishra/students-portal/internal/client"
	"github.com/aanand-mishra/students-portal/internal/form"
	"github.com/aanand-mishra/students-portal/internal/types"
	"github.com/aanand-mishra/students-portal/internal/validator"
)

// Texts shown when a failure carries no server message.
const (
	FetchFallback  = "Failed to fetch students"
	DeleteFallback = "Failed to delete student"
	DeletePrompt   = "Are you sure you want to delete this student?"
)

var (
	// ErrNotFound is returned for an identifier that is not in the list.
	ErrNotFound = errors.New("dashboard: student not found")
	// ErrBusy is returned when another action on the same student is
	// still in flight.
	ErrBusy = errors.New("dashboard: student has an action in progress")
)

// API is the slice of the API client the dashboard needs.
type API interface {
	form.Submitter
	List(ctx context.Context) ([]types.Student, error)
	Delete(ctx context.Context, id string) error
}

// ConfirmFunc asks the user a yes/no question.
type ConfirmFunc func(prompt string) bool

// View is a point-in-time copy of everything the screen renders.
type View struct {
	Students []types.Student
	Loading  bool
	EditMode bool
	EditID   string
	Error    string
	Fields   form.Fields
}

// Dashboard is safe for concurrent use. Network calls are made without
// holding the lock.
type Dashboard struct {
	api  API
	form *form.Form

	mu       sync.Mutex
	students []types.Student
	loading  bool
	err      string
	fetchErr bool // err came from the last fetch
	pending  map[string]bool
}

// New returns an empty, unmounted dashboard.
func New(api API, v *validator.Validator) *Dashboard {
	return &Dashboard{
		api:      api,
		form:     form.New(api, v, form.Options{Fallback: form.OperationFallback}),
		students: make([]types.Student, 0),
		pending:  make(map[string]bool),
	}
}

// Form returns the embedded form so the screen can set fields.
func (d *Dashboard) Form() *form.Form { return d.form }

// Mount fetches the full collection and replaces the local list. Every
// visit of the screen mounts it again. A failed fetch leaves the list
// empty and sets the error; a successful one clears an earlier fetch
// error but keeps the error of a failed submit or delete.
func (d *Dashboard) Mount(ctx context.Context) error {
	d.mu.Lock()
	d.loading = true
	d.mu.Unlock()

	students, err := d.api.List(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.loading = false

	if err != nil {
		slog.Error("error getting students", slog.String("error", err.Error()))
		d.students = make([]types.Student, 0)
		d.setError(client.Message(err, FetchFallback), true)
		return err
	}

	d.students = students
	if d.fetchErr {
		d.setError("", false)
	}
	slog.Info("students loaded", slog.Int("count", len(students)))
	return nil
}

// Edit copies the student with the given id into the form and switches
// it to edit mode.
func (d *Dashboard) Edit(id string) error {
	d.mu.Lock()
	i := d.indexOf(id)
	if i < 0 {
		d.mu.Unlock()
		return ErrNotFound
	}
	s := d.students[i]
	d.mu.Unlock()

	d.form.Edit(s)
	return nil
}

// CancelEdit leaves edit mode and clears the form.
func (d *Dashboard) CancelEdit() {
	d.form.Cancel()
}

// Delete asks confirm first; when the user declines nothing happens and
// no request is sent. Otherwise the record is deleted on the server and,
// only once that succeeded, removed from the list. The bool reports
// whether the user confirmed.
func (d *Dashboard) Delete(ctx context.Context, id string, confirm ConfirmFunc) (bool, error) {
	if confirm == nil || !confirm(DeletePrompt) {
		return false, nil
	}

	d.mu.Lock()
	if d.indexOf(id) < 0 {
		d.mu.Unlock()
		return true, ErrNotFound
	}
	if d.pending[id] {
		d.mu.Unlock()
		return true, ErrBusy
	}
	d.pending[id] = true
	d.mu.Unlock()

	slog.Info("deleting a student", slog.String("id", id))
	err := d.api.Delete(ctx, id)

	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.pending, id)

	if err != nil {
		slog.Error("error deleting student", slog.String("id", id), slog.String("error", err.Error()))
		d.setError(client.Message(err, DeleteFallback), false)
		return true, err
	}

	if i := d.indexOf(id); i >= 0 {
		d.students = append(d.students[:i:i], d.students[i+1:]...)
	}
	slog.Info("student deleted", slog.String("id", id))
	return true, nil
}

// Submit sends the embedded form. A create appends the returned record;
// an update replaces the row with the same identifier, keeping the order
// of every other row. Failures leave the list untouched and set the
// error.
func (d *Dashboard) Submit(ctx context.Context) (form.Result, error) {
	editing, id := d.form.EditMode()

	d.mu.Lock()
	d.setError("", false)
	if editing {
		if d.pending[id] {
			d.mu.Unlock()
			return form.Result{}, ErrBusy
		}
		d.pending[id] = true
	}
	d.mu.Unlock()

	res, err := d.form.Submit(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()
	if editing {
		delete(d.pending, id)
	}

	if err != nil {
		if n := d.form.TakeNotice(); n.Kind == form.NoticeError {
			d.setError(n.Text, false)
		}
		return res, err
	}

	if res.Updated {
		if i := d.indexOf(res.ID); i >= 0 {
			d.students[i] = res.Student
		}
		slog.Info("student updated", slog.String("id", res.ID))
	} else {
		d.students = append(d.students, res.Student)
		slog.Info("student created", slog.String("id", res.Student.ID))
	}
	return res, nil
}

// Students returns a copy of the list in display order.
func (d *Dashboard) Students() []types.Student {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append(make([]types.Student, 0, len(d.students)), d.students...)
}

// ErrorText returns the current error text, "" when there is none.
func (d *Dashboard) ErrorText() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

// ClearError dismisses the error.
func (d *Dashboard) ClearError() {
	d.mu.Lock()
	d.setError("", false)
	d.mu.Unlock()
}

// View snapshots the dashboard for rendering.
func (d *Dashboard) View() View {
	editing, id := d.form.EditMode()
	fields := d.form.Fields()
	formLoading := d.form.Loading()

	d.mu.Lock()
	defer d.mu.Unlock()
	return View{
		Students: append(make([]types.Student, 0, len(d.students)), d.students...),
		Loading:  d.loading || formLoading,
		EditMode: editing,
		EditID:   id,
		Error:    d.err,
		Fields:   fields,
	}
}

// setError must be called with mu held.
func (d *Dashboard) setError(text string, fromFetch bool) {
	d.err = text
	d.fetchErr = fromFetch && text != ""
}

// indexOf must be called with mu held.
func (d *Dashboard) indexOf(id string) int {
	for i, s := range d.students {
		if s.ID == id {
			return i
		}
	}
	return -1
}
