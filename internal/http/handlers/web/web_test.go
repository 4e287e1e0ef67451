package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aanand-mishra/students-portal/internal/client"
	"github.com/aanand-mishra/students-portal/internal/config"
	"github.com/aanand-mishra/students-portal/internal/dashboard"
	"github.com/aanand-mishra/students-portal/internal/form"
	"github.com/aanand-mishra/students-portal/internal/http/handlers/student"
	"github.com/aanand-mishra/students-portal/internal/storage/sqlite"
	"github.com/aanand-mishra/students-portal/internal/types"
	"github.com/aanand-mishra/students-portal/internal/validator"
)

type app struct {
	web   http.Handler
	api   *client.Client
	store *sqlite.SQLite
}

// newApp wires the front-end to a real backend backed by a temp sqlite db.
func newApp(t *testing.T) *app {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "students.db"))
	if err != nil {
		t.Fatalf("sqlite.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	v := validator.MustNew()
	backend := httptest.NewServer(student.Routes(store, v))
	t.Cleanup(backend.Close)

	return newAppFor(t, backend.URL, store)
}

func newAppFor(t *testing.T, baseURL string, store *sqlite.SQLite) *app {
	t.Helper()
	v := validator.MustNew()
	api := client.New(config.API{BaseURL: baseURL, Timeout: 2 * time.Second})

	h, err := New(form.NewRegistration(api, v), dashboard.New(api, v))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return &app{web: h.Routes(), api: api, store: store}
}

func (a *app) get(t *testing.T, path string) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	a.web.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec.Code, rec.Body.String()
}

func (a *app) post(t *testing.T, path string, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	a.web.ServeHTTP(rec, req)
	return rec
}

func annValues() url.Values {
	return url.Values{
		"name":        {"Ann"},
		"email":       {"ann@example.com"},
		"phone":       {"555-0100"},
		"gender":      {"female"},
		"age":         {"21"},
		"education":   {"bachelors"},
		"description": {"likes maths"},
	}
}

func (a *app) seed(t *testing.T, name string) types.Student {
	t.Helper()
	s, err := a.store.CreateStudent(context.Background(), types.Student{
		Name: name, Email: strings.ToLower(name) + "@example.com", Phone: "1",
		Gender: types.GenderOther, Age: 22, Education: types.EducationOther, Description: "seeded",
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return s
}

func TestRegister_Page(t *testing.T) {
	a := newApp(t)

	code, body := a.get(t, "/")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	for _, want := range []string{"Student Registration", "Join Now", `name="description"`, "Bachelor&#39;s Degree"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestRegister_SuccessShowsNoticeOnce(t *testing.T) {
	a := newApp(t)

	rec := a.post(t, "/", annValues())
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Fatalf("expected redirect to /, got %d %q", rec.Code, rec.Header().Get("Location"))
	}

	_, body := a.get(t, "/")
	if !strings.Contains(body, form.RegistrationSuccess) {
		t.Errorf("expected success notice, got:\n%s", body)
	}
	if strings.Contains(body, `value="Ann"`) {
		t.Error("fields must be cleared after success")
	}

	_, body = a.get(t, "/")
	if strings.Contains(body, form.RegistrationSuccess) {
		t.Error("notice must be shown only once")
	}

	list, err := a.api.List(context.Background())
	if err != nil || len(list) != 1 || list[0].Name != "Ann" {
		t.Errorf("expected one stored record, got %+v (%v)", list, err)
	}
}

func TestRegister_InvalidKeepsFields(t *testing.T) {
	a := newApp(t)
	values := annValues()
	values.Set("age", "200")

	a.post(t, "/", values)

	_, body := a.get(t, "/")
	if !strings.Contains(body, "age must be 120 or less") {
		t.Errorf("expected constraint message, got:\n%s", body)
	}
	if !strings.Contains(body, `value="Ann"`) {
		t.Error("fields must stay populated")
	}
	if list, _ := a.api.List(context.Background()); len(list) != 0 {
		t.Errorf("no record may be created, got %+v", list)
	}
}

func TestDashboard_ListsRecords(t *testing.T) {
	a := newApp(t)
	a.seed(t, "Ann")
	a.seed(t, "Bob")

	code, body := a.get(t, "/dashboard")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	annAt, bobAt := strings.Index(body, "<td>Ann</td>"), strings.Index(body, "<td>Bob</td>")
	if annAt < 0 || bobAt < 0 || annAt > bobAt {
		t.Errorf("expected Ann then Bob in the table, got:\n%s", body)
	}
	if !strings.Contains(body, "Add New Student") {
		t.Error("expected create mode heading")
	}
}

func TestDashboard_EditAnnToAnnie(t *testing.T) {
	a := newApp(t)
	ann := a.seed(t, "Ann")
	a.get(t, "/dashboard")

	rec := a.post(t, "/dashboard/students/"+ann.ID+"/edit", nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("edit: expected redirect, got %d", rec.Code)
	}
	_, body := a.get(t, "/dashboard")
	if !strings.Contains(body, "Update Student") || !strings.Contains(body, `value="Ann"`) {
		t.Fatalf("expected edit form populated with Ann, got:\n%s", body)
	}

	a.post(t, "/dashboard", url.Values{"name": {"Annie"}})

	_, body = a.get(t, "/dashboard")
	if !strings.Contains(body, "<td>Annie</td>") || strings.Contains(body, "<td>Ann</td>") {
		t.Errorf("expected Ann renamed to Annie, got:\n%s", body)
	}
	if !strings.Contains(body, "Add New Student") {
		t.Error("edit mode must end after update")
	}

	stored, _ := a.store.GetStudentByID(context.Background(), ann.ID)
	if stored.Name != "Annie" {
		t.Errorf("backend not updated: %+v", stored)
	}
}

func TestDashboard_CreateAppends(t *testing.T) {
	a := newApp(t)
	a.seed(t, "Ann")
	a.get(t, "/dashboard")

	values := annValues()
	values.Set("name", "Cy")
	values.Set("email", "cy@example.com")
	a.post(t, "/dashboard", values)

	_, body := a.get(t, "/dashboard")
	if strings.Count(body, "<td>Cy</td>") != 1 {
		t.Errorf("expected Cy exactly once, got:\n%s", body)
	}
}

func TestDashboard_DeleteNeedsConfirmation(t *testing.T) {
	a := newApp(t)
	ann := a.seed(t, "Ann")
	a.get(t, "/dashboard")

	code, body := a.get(t, "/dashboard/students/"+ann.ID+"/delete")
	if code != http.StatusOK || !strings.Contains(body, dashboard.DeletePrompt) {
		t.Fatalf("expected confirmation page, got %d:\n%s", code, body)
	}

	a.post(t, "/dashboard/students/"+ann.ID+"/delete", url.Values{})
	if _, err := a.store.GetStudentByID(context.Background(), ann.ID); err != nil {
		t.Fatalf("unconfirmed delete must not reach the backend: %v", err)
	}

	a.post(t, "/dashboard/students/"+ann.ID+"/delete", url.Values{"confirm": {"yes"}})
	_, body = a.get(t, "/dashboard")
	if strings.Contains(body, "<td>Ann</td>") {
		t.Error("confirmed delete must remove the row")
	}
	if _, err := a.store.GetStudentByID(context.Background(), ann.ID); err == nil {
		t.Error("record must be gone from the backend")
	}
}

func TestDashboard_UnknownStudent(t *testing.T) {
	a := newApp(t)
	a.get(t, "/dashboard")

	if code, _ := a.get(t, "/dashboard/students/nope/delete"); code != http.StatusNotFound {
		t.Errorf("confirm page: expected 404, got %d", code)
	}
	if rec := a.post(t, "/dashboard/students/nope/edit", nil); rec.Code != http.StatusNotFound {
		t.Errorf("edit: expected 404, got %d", rec.Code)
	}
}

func TestDashboard_BackendDown(t *testing.T) {
	backend := httptest.NewServer(http.NotFoundHandler())
	baseURL := backend.URL
	backend.Close()

	a := newAppFor(t, baseURL, nil)

	code, body := a.get(t, "/dashboard")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if !strings.Contains(body, dashboard.FetchFallback) {
		t.Errorf("expected fetch error, got:\n%s", body)
	}
}

func TestDashboard_ShowsStudentsRegisteredElsewhere(t *testing.T) {
	a := newApp(t)
	a.get(t, "/dashboard")

	a.post(t, "/", annValues())

	_, body := a.get(t, "/dashboard")
	if !strings.Contains(body, "<td>Ann</td>") {
		t.Errorf("expected Ann on the dashboard after registering, got:\n%s", body)
	}
}

func TestDashboard_RetriesAfterBackendRecovers(t *testing.T) {
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "students.db"))
	if err != nil {
		t.Fatalf("sqlite.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	var down atomic.Bool
	down.Store(true)
	routes := student.Routes(store, validator.MustNew())
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if down.Load() {
			http.NotFound(w, r)
			return
		}
		routes.ServeHTTP(w, r)
	}))
	t.Cleanup(backend.Close)

	a := newAppFor(t, backend.URL, store)

	_, body := a.get(t, "/dashboard")
	if !strings.Contains(body, dashboard.FetchFallback) {
		t.Fatalf("expected fetch error, got:\n%s", body)
	}

	down.Store(false)
	a.seed(t, "Bob")

	_, body = a.get(t, "/dashboard")
	if !strings.Contains(body, "<td>Bob</td>") {
		t.Errorf("expected Bob after the backend recovered, got:\n%s", body)
	}
	if strings.Contains(body, dashboard.FetchFallback) {
		t.Error("fetch error must be cleared by a successful fetch")
	}
}

func TestDashboard_DismissError(t *testing.T) {
	a := newApp(t)
	a.get(t, "/dashboard")

	values := annValues()
	values.Set("email", "not-an-email")
	a.post(t, "/dashboard", values)

	_, body := a.get(t, "/dashboard")
	if !strings.Contains(body, "email must be a valid email address") {
		t.Fatalf("expected the submit error, got:\n%s", body)
	}

	a.post(t, "/dashboard/dismiss", nil)
	_, body = a.get(t, "/dashboard")
	if strings.Contains(body, "email must be a valid email address") {
		t.Error("error must be dismissed")
	}
}
