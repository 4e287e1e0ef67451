// Package storage defines the Storage interface — a contract that any
// database backend must satisfy to work with the students API.
//
// Handlers depend only on this interface, so tests can hand them a fake
// and the SQLite implementation can be swapped without handler changes.
package storage

import (
	"context"
	"errors"

	"github.com/aanand-mishra/students-portal/internal/types"
)

// ErrNotFound is returned when no student has the requested identifier.
var ErrNotFound = errors.New("student not found")

// Storage is the database contract.
type Storage interface {
	// CreateStudent inserts a new student record, assigning it a fresh
	// identifier, and returns the stored record.
	CreateStudent(ctx context.Context, student types.Student) (types.Student, error)

	// GetStudentByID fetches a single student. Returns ErrNotFound if
	// there is none.
	GetStudentByID(ctx context.Context, id string) (types.Student, error)

	// GetStudents returns every student in insertion order.
	// Returns an empty slice (not nil) if there are no students.
	GetStudents(ctx context.Context) ([]types.Student, error)

	// UpdateStudentByID replaces the fields of an existing student and
	// returns the stored record. Returns ErrNotFound if there is none.
	UpdateStudentByID(ctx context.Context, id string, student types.Student) (types.Student, error)

	// DeleteStudentByID removes a student record permanently. Returns
	// ErrNotFound if there is none.
	DeleteStudentByID(ctx context.Context, id string) error
}
