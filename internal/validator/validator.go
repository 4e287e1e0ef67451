// Package validator wraps go-playground/validator with English
// translations so every constraint failure reads as a sentence a person
// can act on ("age must be 120 or less"). Field names come from json
// tags, which are also the form's field keys.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Validator is safe for concurrent use once built.
type Validator struct {
	validate *govalidator.Validate
	trans    ut.Translator
}

// New builds a validator with json tag names and English messages.
func New() (*Validator, error) {
	v := govalidator.New(govalidator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, found := uni.GetTranslator("en")
	if !found {
		return nil, errors.New("validator.New: en translator not found")
	}
	if err := en_translations.RegisterDefaultTranslations(v, trans); err != nil {
		return nil, fmt.Errorf("validator.New: register translations: %w", err)
	}

	return &Validator{validate: v, trans: trans}, nil
}

// MustNew is New for program setup and tests; it panics on error.
func MustNew() *Validator {
	v, err := New()
	if err != nil {
		panic(err)
	}
	return v
}

// Struct checks every validate:"..." tag on s.
func (v *Validator) Struct(s any) error {
	return v.validate.Struct(s)
}

// TranslateErrors takes a validation error and returns a map of
// field name → human-readable error message. If the error is not a
// validation error, it returns a single-key map with "detail".
func (v *Validator) TranslateErrors(err error) map[string]string {
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[fe.Field()] = fe.Translate(v.trans)
		}
		return fields
	}

	fields["detail"] = err.Error()
	return fields
}

// Message flattens a validation error into one line, keeping the struct's
// field order: "name is a required field, age must be 120 or less".
func (v *Validator) Message(err error) string {
	var ve govalidator.ValidationErrors
	if !errors.As(err, &ve) {
		return err.Error()
	}

	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fe.Translate(v.trans))
	}
	return strings.Join(msgs, ", ")
}
