// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// The blank import below registers the sqlite3 driver with database/sql.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/aanand-mishra/students-portal/internal/config"
	"github.com/aanand-mishra/students-portal/internal/storage"
	"github.com/aanand-mishra/students-portal/internal/types"

	_ "github.com/mattn/go-sqlite3"
)

const studentColumns = "id, name, email, phone, gender, age, education, description"

// SQLite is the concrete implementation of storage.Storage.
// A single *sql.DB is safe for concurrent use by multiple goroutines.
type SQLite struct {
	Db *sql.DB
}

// New opens the SQLite database at cfg.StoragePath, creating its
// directory and the students table when missing.
func New(cfg *config.Config) (*SQLite, error) {
	return Open(cfg.StoragePath)
}

// Open is New for a bare path.
func Open(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite.Open: create dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.Open: open db: %w", err)
	}

	// Schema:
	//   seq         — insertion order, so lists come back the way they went in
	//   id          — opaque identifier handed to clients (UUID)
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS students (
			seq         INTEGER PRIMARY KEY AUTOINCREMENT,
			id          TEXT    NOT NULL UNIQUE,
			name        TEXT    NOT NULL,
			email       TEXT    NOT NULL,
			phone       TEXT    NOT NULL,
			gender      TEXT    NOT NULL,
			age         INTEGER NOT NULL,
			education   TEXT    NOT NULL,
			description TEXT    NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.Open: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// ─────────────────────────────────────────────────────────────────────────────
// CreateStudent inserts a new row with a freshly generated identifier.
// Any ID already set on student is ignored.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) CreateStudent(ctx context.Context, student types.Student) (types.Student, error) {
	student.ID = uuid.NewString()

	_, err := s.Db.ExecContext(ctx,
		"INSERT INTO students ("+studentColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		student.ID,
		student.Name,
		student.Email,
		student.Phone,
		string(student.Gender),
		student.Age,
		string(student.Education),
		student.Description,
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: exec: %w", err)
	}

	return student, nil
}

// GetStudentByID fetches exactly one student row matched by identifier.
func (s *SQLite) GetStudentByID(ctx context.Context, id string) (types.Student, error) {
	row := s.Db.QueryRowContext(ctx,
		"SELECT "+studentColumns+" FROM students WHERE id = ? LIMIT 1", id)

	student, err := scanStudent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Student{}, fmt.Errorf("no student found with id: %s: %w", id, storage.ErrNotFound)
		}
		return types.Student{}, fmt.Errorf("GetStudentByID: scan: %w", err)
	}

	return student, nil
}

// GetStudents returns all student rows in insertion order.
func (s *SQLite) GetStudents(ctx context.Context) ([]types.Student, error) {
	rows, err := s.Db.QueryContext(ctx,
		"SELECT "+studentColumns+" FROM students ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("GetStudents: query: %w", err)
	}
	defer rows.Close()

	students := make([]types.Student, 0)
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("GetStudents: scan row: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetStudents: rows iteration: %w", err)
	}

	return students, nil
}

// UpdateStudentByID replaces a student's data and returns the stored row.
func (s *SQLite) UpdateStudentByID(ctx context.Context, id string, student types.Student) (types.Student, error) {
	result, err := s.Db.ExecContext(ctx,
		`UPDATE students
		 SET name = ?, email = ?, phone = ?, gender = ?, age = ?, education = ?, description = ?
		 WHERE id = ?`,
		student.Name,
		student.Email,
		student.Phone,
		string(student.Gender),
		student.Age,
		string(student.Education),
		student.Description,
		id,
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: exec: %w", err)
	}

	if err := requireRow(result, id); err != nil {
		return types.Student{}, err
	}

	// Re-fetch the record so we return exactly what is stored in the DB.
	return s.GetStudentByID(ctx, id)
}

// DeleteStudentByID removes a student row by identifier.
func (s *SQLite) DeleteStudentByID(ctx context.Context, id string) error {
	result, err := s.Db.ExecContext(ctx, "DELETE FROM students WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("DeleteStudentByID: exec: %w", err)
	}

	return requireRow(result, id)
}

type scanner interface {
	Scan(dest ...any) error
}

// scanStudent reads one row whose columns follow studentColumns.
func scanStudent(row scanner) (types.Student, error) {
	var (
		student   types.Student
		gender    string
		education string
	)
	err := row.Scan(
		&student.ID,
		&student.Name,
		&student.Email,
		&student.Phone,
		&gender,
		&student.Age,
		&education,
		&student.Description,
	)
	student.Gender = types.Gender(gender)
	student.Education = types.Education(education)
	return student, err
}

func requireRow(result sql.Result, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("no student found with id: %s: %w", id, storage.ErrNotFound)
	}
	return nil
}
