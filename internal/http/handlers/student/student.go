// Package student contains all HTTP handlers of the students API.
//
// HANDLER PATTERN USED HERE — THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────────────────
// Each exported function accepts its dependencies (storage, validator)
// and returns a func(http.ResponseWriter, *http.Request) that closes over
// them:
//
//	router.HandleFunc("POST /api/v1/register", student.New(storage, v))
//
// New(storage, v) runs ONCE at startup; the returned handler runs on
// EVERY incoming request.
package student

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/students-portal/internal/storage"
	"github.com/aanand-mishra/students-portal/internal/types"
	"github.com/aanand-mishra/students-portal/internal/utils/response"
	"github.com/aanand-mishra/students-portal/internal/validator"
)

// Routes builds the API router.
//
// Route table:
//
//	GET    /api/v1/getStudent          → list all students
//	GET    /api/v1/getStudent/{id}     → get one student
//	POST   /api/v1/register            → create a student
//	PATCH  /api/v1/UpdateStudent/{id}  → partially update a student
//	DELETE /api/v1/DeleteStudent/{id}  → delete a student
//	GET    /health                     → liveness
func Routes(storage storage.Storage, v *validator.Validator) *http.ServeMux {
	router := http.NewServeMux()

	router.HandleFunc("GET /api/v1/getStudent", GetList(storage))
	router.HandleFunc("GET /api/v1/getStudent/{id}", GetByID(storage))
	router.HandleFunc("POST /api/v1/register", New(storage, v))
	router.HandleFunc("PATCH /api/v1/UpdateStudent/{id}", Update(storage, v))
	router.HandleFunc("DELETE /api/v1/DeleteStudent/{id}", Delete(storage))
	router.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, response.OKMessage("ok"))
	})

	return router
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/v1/register
// Creates a new student from the JSON request body.
//
// Success response (201 Created):
//
//	{ "success": true, "message": "Student registered successfully",
//	  "data": { "_id": "6f1c…", "name": "Rakesh", ... } }
//
// Error responses:
//
//	400 Bad Request  — empty body, malformed JSON, or failed validation
//	500 Internal     — database error
//
// ─────────────────────────────────────────────────────────────────────────────
func New(storage storage.Storage, v *validator.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		// ── Step 1: Decode ────────────────────────────────────────────
		p, ok := decode(w, r)
		if !ok {
			return
		}
		var student types.Student
		p.apply(&student)

		// ── Step 2: Validate ──────────────────────────────────────────
		if err := v.Struct(student); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(v, err))
			return
		}

		// ── Step 3: Persist ───────────────────────────────────────────
		created, err := storage.CreateStudent(r.Context(), student)
		if err != nil {
			slog.Error("error creating student", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		slog.Info("student created", slog.String("id", created.ID))

		response.WriteJSON(w, http.StatusCreated, response.Response{
			Success: true,
			Message: "Student registered successfully",
			Data:    created,
		})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /api/v1/getStudent/{id}
//
// Error responses:
//
//	404 Not Found    — no student with that id
//	500 Internal     — database error
//
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("getting a student", slog.String("id", id))

		student, err := storage.GetStudentByID(r.Context(), id)
		if err != nil {
			writeStorageError(w, "error getting student", id, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, response.OK(student))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /api/v1/getStudent
// Returns every student in insertion order.
//
// Success response (200 OK):
//
//	{ "success": true, "data": [ { "_id": "…", "name": "Rakesh", ... } ] }
//
// "data" is an empty array (not null) when there are no students.
// ─────────────────────────────────────────────────────────────────────────────
func GetList(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all students")

		students, err := storage.GetStudents(r.Context())
		if err != nil {
			slog.Error("error getting students", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, response.OK(students))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PATCH /api/v1/UpdateStudent/{id}
// Replaces only the fields present (and non-empty) in the body; the merged
// record must still pass validation.
//
// Success response (200 OK) — the updated student:
//
//	{ "success": true, "data": { "_id": "…", "name": "Rakesh Updated", ... } }
//
// Error responses:
//
//	400 Bad Request  — empty body, malformed JSON, or validation failure
//	404 Not Found    — no student with that id
//	500 Internal     — database error
//
// ─────────────────────────────────────────────────────────────────────────────
func Update(storage storage.Storage, v *validator.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("updating a student", slog.String("id", id))

		p, ok := decode(w, r)
		if !ok {
			return
		}

		student, err := storage.GetStudentByID(r.Context(), id)
		if err != nil {
			writeStorageError(w, "error getting student", id, err)
			return
		}
		p.apply(&student)

		if err := v.Struct(student); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(v, err))
			return
		}

		updated, err := storage.UpdateStudentByID(r.Context(), id, student)
		if err != nil {
			writeStorageError(w, "error updating student", id, err)
			return
		}

		slog.Info("student updated", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, response.OK(updated))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /api/v1/DeleteStudent/{id}
//
// Success response (200 OK):
//
//	{ "success": true, "message": "Student deleted successfully" }
//
// ─────────────────────────────────────────────────────────────────────────────
func Delete(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("deleting a student", slog.String("id", id))

		if err := storage.DeleteStudentByID(r.Context(), id); err != nil {
			writeStorageError(w, "error deleting student", id, err)
			return
		}

		slog.Info("student deleted", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, response.OKMessage("Student deleted successfully"))
	}
}

// decode reads the JSON body, writing a 400 and returning false when it
// is empty or malformed.
func decode(w http.ResponseWriter, r *http.Request) (payload, bool) {
	var p payload
	err := json.NewDecoder(r.Body).Decode(&p)
	if errors.Is(err, io.EOF) {
		response.WriteJSON(w, http.StatusBadRequest, response.Fail("request body is empty"))
		return p, false
	}
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return p, false
	}
	return p, true
}

// writeStorageError maps storage.ErrNotFound to 404 and anything else to
// 500.
func writeStorageError(w http.ResponseWriter, logMsg, id string, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		response.WriteJSON(w, http.StatusNotFound,
			response.Fail(fmt.Sprintf("no student found with id: %s", id)))
		return
	}
	slog.Error(logMsg, slog.String("id", id), slog.String("error", err.Error()))
	response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
}
