package form

import (
	"strconv"

	"github.com/aanand-mishra/students-portal/internal/types"
)

// Field keys. They match the json names of types.Student so a
// validation message names the same thing the form does.
const (
	FieldName        = "name"
	FieldEmail       = "email"
	FieldPhone       = "phone"
	FieldGender      = "gender"
	FieldAge         = "age"
	FieldEducation   = "education"
	FieldDescription = "description"
)

// FieldNames lists the seven fields in display order.
var FieldNames = []string{
	FieldName,
	FieldEmail,
	FieldPhone,
	FieldGender,
	FieldAge,
	FieldEducation,
	FieldDescription,
}

// Fields is the flat name → value mapping behind a form. Values are raw
// input strings, age included.
type Fields map[string]string

// EmptyFields returns all seven fields set to "".
func EmptyFields() Fields {
	f := make(Fields, len(FieldNames))
	for _, name := range FieldNames {
		f[name] = ""
	}
	return f
}

// FieldsOf copies a record into form fields.
func FieldsOf(s types.Student) Fields {
	age := ""
	if s.Age != 0 {
		age = strconv.Itoa(s.Age)
	}
	return Fields{
		FieldName:        s.Name,
		FieldEmail:       s.Email,
		FieldPhone:       s.Phone,
		FieldGender:      string(s.Gender),
		FieldAge:         age,
		FieldEducation:   string(s.Education),
		FieldDescription: s.Description,
	}
}

// Clone returns an independent copy.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// IsKnown reports whether name is one of the seven fields.
func IsKnown(name string) bool {
	for _, n := range FieldNames {
		if n == name {
			return true
		}
	}
	return false
}

// input is the form as the browser would see it: every value a string.
// Its tags are the native input constraints (required, type=email,
// type=number, the select options); the numeric range is checked on
// types.Student once age is an int.
type input struct {
	Name        string `json:"name"        validate:"required"`
	Email       string `json:"email"       validate:"required,email"`
	Phone       string `json:"phone"       validate:"required"`
	Gender      string `json:"gender"      validate:"required,oneof=male female other"`
	Age         string `json:"age"         validate:"required,number"`
	Education   string `json:"education"   validate:"required,oneof=high_school bachelors masters phd other"`
	Description string `json:"description" validate:"required"`
}

func (f Fields) input() input {
	return input{
		Name:        f[FieldName],
		Email:       f[FieldEmail],
		Phone:       f[FieldPhone],
		Gender:      f[FieldGender],
		Age:         f[FieldAge],
		Education:   f[FieldEducation],
		Description: f[FieldDescription],
	}
}
