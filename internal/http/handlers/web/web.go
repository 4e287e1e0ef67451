// Package web serves the two screens of the front-end as server-rendered
// HTML: the registration screen at "/" and the dashboard at "/dashboard".
//
// Each screen is backed by its own state container (a form.Form for
// registration, a dashboard.Dashboard for the list). Handlers translate
// posted forms into controller actions and then redirect back to the
// screen (Post/Redirect/Get), so a notice is rendered exactly once.
package web

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/students-portal/internal/dashboard"
	"github.com/aanand-mishra/students-portal/internal/form"
	"github.com/aanand-mishra/students-portal/internal/types"
)

//go:embed templates/*.html
var templateFS embed.FS

// Option is one entry of a select input.
type Option struct {
	Value string
	Label string
}

// GenderOptions and EducationOptions are the select choices, in display
// order.
var (
	GenderOptions = []Option{
		{Value: string(types.GenderMale), Label: "Male"},
		{Value: string(types.GenderFemale), Label: "Female"},
		{Value: string(types.GenderOther), Label: "Other"},
	}
	EducationOptions = []Option{
		{Value: string(types.EducationHighSchool), Label: "High School"},
		{Value: string(types.EducationBachelors), Label: "Bachelor's Degree"},
		{Value: string(types.EducationMasters), Label: "Master's Degree"},
		{Value: string(types.EducationPhD), Label: "Ph.D."},
		{Value: string(types.EducationOther), Label: "Other"},
	}
)

type registerPage struct {
	Fields     form.Fields
	Notice     form.Notice
	Loading    bool
	Genders    []Option
	Educations []Option
}

type dashboardPage struct {
	dashboard.View
	Genders    []Option
	Educations []Option
}

type confirmPage struct {
	Prompt  string
	Student types.Student
}

// Handler owns the screens' state and templates.
type Handler struct {
	register  *form.Form
	dashboard *dashboard.Dashboard
	pages     map[string]*template.Template
}

// New parses the embedded templates.
func New(register *form.Form, dash *dashboard.Dashboard) (*Handler, error) {
	pages := make(map[string]*template.Template)
	for _, name := range []string{"register", "dashboard", "confirm"} {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("web.New: parse %s: %w", name, err)
		}
		pages[name] = t
	}

	return &Handler{register: register, dashboard: dash, pages: pages}, nil
}

// Routes builds the front-end router.
//
// Route table:
//
//	GET  /                                → registration screen
//	POST /                                → submit registration
//	GET  /dashboard                       → dashboard (fetches on every visit)
//	POST /dashboard                       → submit the add/update form
//	POST /dashboard/cancel                → leave edit mode
//	POST /dashboard/dismiss               → clear the error
//	POST /dashboard/students/{id}/edit    → load a row into the form
//	GET  /dashboard/students/{id}/delete  → confirmation prompt
//	POST /dashboard/students/{id}/delete  → delete when confirm=yes
func (h *Handler) Routes() *http.ServeMux {
	router := http.NewServeMux()

	router.HandleFunc("GET /{$}", h.showRegister)
	router.HandleFunc("POST /{$}", h.submitRegister)
	router.HandleFunc("GET /dashboard", h.showDashboard)
	router.HandleFunc("POST /dashboard", h.submitDashboard)
	router.HandleFunc("POST /dashboard/cancel", h.cancelEdit)
	router.HandleFunc("POST /dashboard/dismiss", h.dismissError)
	router.HandleFunc("POST /dashboard/students/{id}/edit", h.editStudent)
	router.HandleFunc("GET /dashboard/students/{id}/delete", h.confirmDelete)
	router.HandleFunc("POST /dashboard/students/{id}/delete", h.deleteStudent)

	return router
}

func (h *Handler) showRegister(w http.ResponseWriter, r *http.Request) {
	h.render(w, "register", registerPage{
		Fields:     h.register.Fields(),
		Notice:     h.register.TakeNotice(),
		Loading:    h.register.Loading(),
		Genders:    GenderOptions,
		Educations: EducationOptions,
	})
}

func (h *Handler) submitRegister(w http.ResponseWriter, r *http.Request) {
	if !bindFields(w, r, h.register) {
		return
	}

	if _, err := h.register.Submit(r.Context()); err != nil {
		slog.Info("registration not completed", slog.String("error", err.Error()))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) showDashboard(w http.ResponseWriter, r *http.Request) {
	// A failed fetch is already reflected in the view's error; the next
	// visit retries.
	_ = h.dashboard.Mount(r.Context())

	h.render(w, "dashboard", dashboardPage{
		View:       h.dashboard.View(),
		Genders:    GenderOptions,
		Educations: EducationOptions,
	})
}

func (h *Handler) submitDashboard(w http.ResponseWriter, r *http.Request) {
	if !bindFields(w, r, h.dashboard.Form()) {
		return
	}

	if _, err := h.dashboard.Submit(r.Context()); err != nil {
		slog.Info("dashboard submission not completed", slog.String("error", err.Error()))
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *Handler) cancelEdit(w http.ResponseWriter, r *http.Request) {
	h.dashboard.CancelEdit()
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *Handler) dismissError(w http.ResponseWriter, r *http.Request) {
	h.dashboard.ClearError()
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *Handler) editStudent(w http.ResponseWriter, r *http.Request) {
	if err := h.dashboard.Edit(r.PathValue("id")); err != nil {
		h.notFound(w, err)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *Handler) confirmDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	for _, s := range h.dashboard.Students() {
		if s.ID == id {
			h.render(w, "confirm", confirmPage{Prompt: dashboard.DeletePrompt, Student: s})
			return
		}
	}
	h.notFound(w, dashboard.ErrNotFound)
}

func (h *Handler) deleteStudent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	confirmed := func(string) bool { return r.PostForm.Get("confirm") == "yes" }

	_, err := h.dashboard.Delete(r.Context(), r.PathValue("id"), confirmed)
	if errors.Is(err, dashboard.ErrNotFound) {
		h.notFound(w, err)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// bindFields copies every posted field into f. Fields missing from the
// post keep their value.
func bindFields(w http.ResponseWriter, r *http.Request, f *form.Form) bool {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return false
	}
	for _, name := range form.FieldNames {
		if values, ok := r.PostForm[name]; ok && len(values) > 0 {
			// Names come from FieldNames, so Set cannot fail.
			_ = f.Set(name, values[0])
		}
	}
	return true
}

func (h *Handler) render(w http.ResponseWriter, page string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.pages[page].ExecuteTemplate(w, "layout", data); err != nil {
		slog.Error("error rendering page", slog.String("page", page), slog.String("error", err.Error()))
	}
}

func (h *Handler) notFound(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), http.StatusNotFound)
}
