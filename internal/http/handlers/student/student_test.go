package student

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aanand-mishra/students-portal/internal/storage/sqlite"
	"github.com/aanand-mishra/students-portal/internal/types"
	"github.com/aanand-mishra/students-portal/internal/utils/response"
	"github.com/aanand-mishra/students-portal/internal/validator"
)

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "students.db"))
	if err != nil {
		t.Fatalf("sqlite.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	srv := httptest.NewServer(Routes(store, validator.MustNew()))
	t.Cleanup(srv.Close)
	return srv
}

func send(t *testing.T, srv *httptest.Server, method, path, body string) (int, envelope) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode %s %s: %v", method, path, err)
	}
	return resp.StatusCode, env
}

const annJSON = `{"name":"Ann","email":"ann@example.com","phone":"555-0100","gender":"female","age":21,"education":"bachelors","description":"likes maths"}`

func register(t *testing.T, srv *httptest.Server, body string) types.Student {
	t.Helper()
	status, env := send(t, srv, http.MethodPost, "/api/v1/register", body)
	if status != http.StatusCreated || !env.Success {
		t.Fatalf("register: status %d, %+v", status, env)
	}
	var s types.Student
	if err := json.Unmarshal(env.Data, &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return s
}

func TestRegister(t *testing.T) {
	srv := newServer(t)

	s := register(t, srv, annJSON)
	if s.ID == "" || s.Name != "Ann" || s.Age != 21 {
		t.Errorf("unexpected record %+v", s)
	}
}

func TestRegister_AcceptsFormStyleBody(t *testing.T) {
	srv := newServer(t)

	s := register(t, srv, `{"name":"Bob","email":"bob@example.com","phone":"1","gender":"male","age":"30","education":"phd","des":"old field name"}`)
	if s.Age != 30 || s.Description != "old field name" {
		t.Errorf("unexpected record %+v", s)
	}
}

func TestRegister_ValidationFailure(t *testing.T) {
	srv := newServer(t)

	status, env := send(t, srv, http.MethodPost, "/api/v1/register", `{"name":"","email":"x","age":200}`)
	if status != http.StatusBadRequest || env.Success {
		t.Fatalf("expected 400 failure, got %d %+v", status, env)
	}
	for _, want := range []string{"name is a required field", "email must be a valid email address", "age must be 120 or less"} {
		if !strings.Contains(env.Message, want) {
			t.Errorf("message %q missing %q", env.Message, want)
		}
	}
}

func TestRegister_EmptyBody(t *testing.T) {
	srv := newServer(t)

	status, env := send(t, srv, http.MethodPost, "/api/v1/register", "")
	if status != http.StatusBadRequest || env.Message != "request body is empty" {
		t.Errorf("unexpected response %d %+v", status, env)
	}
}

func TestList(t *testing.T) {
	srv := newServer(t)

	status, env := send(t, srv, http.MethodGet, "/api/v1/getStudent", "")
	if status != http.StatusOK || string(env.Data) != "[]" {
		t.Fatalf("expected empty array, got %d %s", status, env.Data)
	}

	a := register(t, srv, annJSON)
	b := register(t, srv, strings.Replace(annJSON, "Ann", "Bea", 1))

	_, env = send(t, srv, http.MethodGet, "/api/v1/getStudent", "")
	var list []types.Student
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(list) != 2 || list[0].ID != a.ID || list[1].ID != b.ID {
		t.Errorf("unexpected list %+v", list)
	}
}

func TestUpdate_Partial(t *testing.T) {
	srv := newServer(t)
	a := register(t, srv, annJSON)

	status, env := send(t, srv, http.MethodPatch, "/api/v1/UpdateStudent/"+a.ID, `{"name":"Annie"}`)
	if status != http.StatusOK {
		t.Fatalf("update: %d %+v", status, env)
	}
	var got types.Student
	_ = json.Unmarshal(env.Data, &got)

	want := a
	want.Name = "Annie"
	if got != want {
		t.Errorf("unexpected record\n got: %+v\nwant: %+v", got, want)
	}
}

func TestUpdate_InvalidMerge(t *testing.T) {
	srv := newServer(t)
	a := register(t, srv, annJSON)

	status, env := send(t, srv, http.MethodPatch, "/api/v1/UpdateStudent/"+a.ID, `{"gender":"robot"}`)
	if status != http.StatusBadRequest || !strings.Contains(env.Message, "gender must be one of") {
		t.Errorf("unexpected response %d %+v", status, env)
	}
}

func TestRegister_ValidationFailurePerField(t *testing.T) {
	srv := newServer(t)

	_, env := send(t, srv, http.MethodPost, "/api/v1/register", `{"name":"Ann","email":"x","phone":"1","gender":"female","age":200,"education":"phd","description":"d"}`)

	want := map[string]string{
		"email": "email must be a valid email address",
		"age":   "age must be 120 or less",
	}
	if len(env.Errors) != len(want) {
		t.Fatalf("expected errors %v, got %v", want, env.Errors)
	}
	for field, msg := range want {
		if env.Errors[field] != msg {
			t.Errorf("errors[%q] = %q, want %q", field, env.Errors[field], msg)
		}
	}
}

func TestUpdateAndDelete_NotFound(t *testing.T) {
	srv := newServer(t)

	status, env := send(t, srv, http.MethodPatch, "/api/v1/UpdateStudent/nope", `{"name":"x"}`)
	if status != http.StatusNotFound || env.Message != "no student found with id: nope" {
		t.Errorf("update: unexpected response %d %+v", status, env)
	}

	status, env = send(t, srv, http.MethodDelete, "/api/v1/DeleteStudent/nope", "")
	if status != http.StatusNotFound || env.Success {
		t.Errorf("delete: unexpected response %d %+v", status, env)
	}
}

func TestDelete(t *testing.T) {
	srv := newServer(t)
	a := register(t, srv, annJSON)

	status, env := send(t, srv, http.MethodDelete, "/api/v1/DeleteStudent/"+a.ID, "")
	if status != http.StatusOK || !env.Success {
		t.Fatalf("delete: %d %+v", status, env)
	}

	status, _ = send(t, srv, http.MethodGet, "/api/v1/getStudent/"+a.ID, "")
	if status != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", status)
	}
}

// brokenStorage fails every call.
type brokenStorage struct{}

var errDown = errors.New("database is down")

func (brokenStorage) CreateStudent(context.Context, types.Student) (types.Student, error) {
	return types.Student{}, errDown
}
func (brokenStorage) GetStudentByID(context.Context, string) (types.Student, error) {
	return types.Student{}, errDown
}
func (brokenStorage) GetStudents(context.Context) ([]types.Student, error) { return nil, errDown }
func (brokenStorage) UpdateStudentByID(context.Context, string, types.Student) (types.Student, error) {
	return types.Student{}, errDown
}
func (brokenStorage) DeleteStudentByID(context.Context, string) error { return errDown }

func TestStorageFailureIs500(t *testing.T) {
	h := GetList(brokenStorage{})
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/api/v1/getStudent", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	var got response.Response
	_ = json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&got)
	if got.Success || got.Message != errDown.Error() {
		t.Errorf("unexpected body %+v", got)
	}
}
