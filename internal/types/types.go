// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// the API client, the controllers, the handlers and storage can all
// import types without depending on each other.
package types

// Gender is one of the values offered by the registration form's
// gender select.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Education is the highest education level a student selected.
type Education string

const (
	EducationHighSchool Education = "high_school"
	EducationBachelors  Education = "bachelors"
	EducationMasters    Education = "masters"
	EducationPhD        Education = "phd"
	EducationOther      Education = "other"
)

// Student represents a student record in our system.
//
// Struct tags serve two purposes:
//
//  1. json:"..."  — controls how the field appears on the wire.
//     The identifier travels as "_id" and is left out of create payloads
//     (omitempty) because the server assigns it.
//
//  2. validate:"..." — rules checked by the go-playground/validator
//     package. They mirror the constraints of the registration form:
//     everything required, a real email, age between 1 and 120, and the
//     two selects limited to their options.
type Student struct {
	ID          string    `json:"_id,omitempty"`
	Name        string    `json:"name"        validate:"required"`
	Email       string    `json:"email"       validate:"required,email"`
	Phone       string    `json:"phone"       validate:"required"`
	Gender      Gender    `json:"gender"      validate:"required,oneof=male female other"`
	Age         int       `json:"age"         validate:"min=1,max=120"`
	Education   Education `json:"education"   validate:"required,oneof=high_school bachelors masters phd other"`
	Description string    `json:"description" validate:"required"`
}

// ListResponse is the body of GET /api/v1/getStudent.
type ListResponse struct {
	Data []Student `json:"data"`
}

// RecordResponse is the body returned by register and UpdateStudent.
//
// Success is a pointer because only the register endpoint is guaranteed
// to send it; a missing field must not be read as "false".
type RecordResponse struct {
	Success *bool   `json:"success,omitempty"`
	Message string  `json:"message,omitempty"`
	Data    Student `json:"data"`
}
