// Trendcompare - Keyword Interest Comparison Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trendcompare

// Package validation provides struct validation using go-playground/validator v10.
// It provides a thread-safe singleton validator instance with the custom
// "notblank", "timeframe" and "notreserved" tags and translates failures into
// the user-facing messages of the comparison endpoints.
//
// Example usage:
//
//	q := models.NewQuery(keywords, timeframe)
//	if err := validation.ValidateStruct(&q); err != nil {
//	    respondError(w, http.StatusBadRequest, validation.QueryMessage(err))
//	    return
//	}
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/tomtom215/trendcompare/internal/models"
)

// User-facing messages for an invalid comparison query.
const (
	MsgTooFewKeywords   = "Please provide at least two keywords as a list."
	MsgTooManyKeywords  = "Cannot compare more than five keywords."
	MsgNonStringKeyword = "All keywords must be strings."
	MsgBlankKeyword     = "Keywords must not be empty."
	MsgDuplicateKeyword = "Keywords must be unique."
	MsgReservedKeyword  = "Keywords \"date\" and \"isPartial\" are reserved."
	MsgInvalidTimeframe = "Invalid timeframe."
)

// singleton validator instance
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// ValidationError represents a single field validation error with structured information.
type ValidationError struct {
	field   string
	tag     string
	param   string
	value   interface{}
	message string
}

// Field returns the struct field name that failed validation.
func (e *ValidationError) Field() string {
	return e.field
}

// Tag returns the validation tag that failed.
func (e *ValidationError) Tag() string {
	return e.tag
}

// Param returns the parameter for the validation tag (e.g., "5" for "max=5").
func (e *ValidationError) Param() string {
	return e.param
}

// Value returns the actual value that failed validation.
func (e *ValidationError) Value() interface{} {
	return e.value
}

// Error returns a human-readable error message.
func (e *ValidationError) Error() string {
	return e.message
}

// RequestValidationError represents a collection of validation errors.
type RequestValidationError struct {
	errors []ValidationError
}

// Errors returns the slice of validation errors.
func (ve *RequestValidationError) Errors() []ValidationError {
	return ve.errors
}

// Error implements the error interface, returning a combined error message.
func (ve *RequestValidationError) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}

	messages := make([]string, 0, len(ve.errors))
	for _, err := range ve.errors {
		messages = append(messages, err.Error())
	}

	return strings.Join(messages, "; ")
}

// GetValidator returns the singleton validator instance.
// The validator is initialized once with custom validators and options.
// This function is thread-safe.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Registration only fails for an empty tag or nil func.
		_ = validate.RegisterValidation("notblank", validators.NotBlank)
		_ = validate.RegisterValidation("timeframe", func(fl validator.FieldLevel) bool {
			return models.ValidTimeframe(fl.Field().String())
		})
		// Table output keys rows by column name.
		_ = validate.RegisterValidation("notreserved", func(fl validator.FieldLevel) bool {
			return !models.ReservedColumn(strings.TrimSpace(fl.Field().String()))
		})
	})

	return validate
}

// ValidateStruct validates a struct using the singleton validator.
// Returns nil if validation passes, or *RequestValidationError if validation fails.
func ValidateStruct(s interface{}) *RequestValidationError {
	v := GetValidator()

	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return &RequestValidationError{
			errors: []ValidationError{
				{
					field:   "unknown",
					tag:     "unknown",
					message: err.Error(),
				},
			},
		}
	}

	fieldErrors := make([]ValidationError, len(validationErrs))
	for i, fieldErr := range validationErrs {
		fieldErrors[i] = ValidationError{
			field:   fieldErr.Field(),
			tag:     fieldErr.Tag(),
			param:   fieldErr.Param(),
			value:   fieldErr.Value(),
			message: translateError(fieldErr),
		}
	}

	return &RequestValidationError{errors: fieldErrors}
}

// QueryMessage maps the first failure on a models.Query to the message shown
// to the user. Keyword rules are checked before the timeframe.
func QueryMessage(ve *RequestValidationError) string {
	if ve == nil || len(ve.errors) == 0 {
		return ""
	}

	var timeframeBad bool
	for _, e := range ve.errors {
		switch {
		case e.field == "Keywords" && e.tag == "min":
			return MsgTooFewKeywords
		case e.field == "Keywords" && e.tag == "max":
			return MsgTooManyKeywords
		case e.field == "Keywords" && e.tag == "unique":
			return MsgDuplicateKeyword
		case strings.HasPrefix(e.field, "Keywords[") && e.tag == "notreserved":
			return MsgReservedKeyword
		case strings.HasPrefix(e.field, "Keywords["):
			return MsgBlankKeyword
		case e.field == "Timeframe":
			timeframeBad = true
		}
	}
	if timeframeBad {
		return MsgInvalidTimeframe
	}
	return ve.errors[0].message
}

// errorMessageTemplates maps validation tags to message templates.
var errorMessageTemplates = map[string]string{
	"required":    "%s is required",
	"notblank":    "%s must not be blank",
	"unique":      "%s must not contain duplicates",
	"notreserved": "%s is a reserved column name",
	"timeframe":   "%s must be a recognized timeframe",
}

// errorMessageWithParam maps validation tags to templates that include param.
var errorMessageWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
}

// translateError converts a validator.FieldError to a human-readable message.
func translateError(fe validator.FieldError) string {
	field := fe.Field()
	tag := fe.Tag()
	param := fe.Param()

	if template, ok := errorMessageTemplates[tag]; ok {
		return fmt.Sprintf(template, field)
	}

	if template, ok := errorMessageWithParam[tag]; ok {
		return fmt.Sprintf(template, field, param)
	}

	return translateMinMax(fe, field, tag, param)
}

// translateMinMax handles min/max validation with type-specific messages.
func translateMinMax(fe validator.FieldError, field, tag, param string) string {
	var unit string
	switch fe.Kind().String() {
	case "string":
		unit = " characters"
	case "slice", "array":
		unit = " items"
	}

	switch tag {
	case "min":
		return fmt.Sprintf("%s must contain at least %s%s", field, param, unit)
	case "max":
		return fmt.Sprintf("%s must contain at most %s%s", field, param, unit)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}
