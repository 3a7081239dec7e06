package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"vivendi/backend/internal/apperrors"
)

// The request validation pipeline: each route declares its rules on a DTO,
// every field is checked, and ALL violations are collected before a single
// Bad Request error is raised. The joined messages form the error message
// (",\n" separator) and the cause ("," separator).

var (
	validate *validator.Validate
	once     sync.Once
)

func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		// Report violations under the wire name, not the Go field name.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// checkStruct evaluates every rule on the payload and returns all violation
// messages; it never stops at the first failure.
func checkStruct(payload any) []string {
	err := getValidator().Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return []string{"request is invalid"}
	}

	violations := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		violations = append(violations, violationMessage(fe))
	}
	return violations
}

func violationMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		switch fe.Kind() {
		case reflect.String:
			if fe.Param() == "1" {
				return field + " cannot be empty"
			}
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		case reflect.Slice, reflect.Array, reflect.Map:
			if fe.Param() == "1" {
				return field + " cannot be empty"
			}
			return fmt.Sprintf("%s must contain at least %s items", field, fe.Param())
		}
		if fe.Param() == "0" {
			return field + " must be a non-negative integer"
		}
		if fe.Param() == "1" {
			return field + " must be a positive integer"
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		options := strings.Fields(fe.Param())
		if len(options) == 2 {
			return fmt.Sprintf("%s must be either %s or %s", field, options[0], options[1])
		}
		return fmt.Sprintf("%s must be one of %s", field, strings.Join(options, ", "))
	case "uuid4", "uuid":
		return field + " must be a valid uuid"
	default:
		return field + " is invalid"
	}
}

// raiseViolations folds the collected violations into one Bad Request error
// value routed to the responder.
func raiseViolations(violations []string) error {
	return apperrors.BadRequest(apperrors.Params{
		Message: strings.Join(violations, ",\n"),
		Cause:   strings.Join(violations, ","),
	})
}

// normalizer lets a DTO clean its fields (trimming, mostly) after decoding
// and before the rules run.
type normalizer interface {
	normalize()
}

// decodeAndValidate parses the JSON body into the DTO and runs its rules.
// Type mismatches are reported as per-field violations the same way rule
// failures are.
func decodeAndValidate(r *http.Request, dto any) error {
	if err := json.NewDecoder(r.Body).Decode(dto); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return raiseViolations([]string{
				fmt.Sprintf("%s must be a %s", typeErr.Field, jsonTypeName(typeErr.Type)),
			})
		}
		if errors.Is(err, io.EOF) {
			return apperrors.BadRequest(apperrors.Params{Message: "Request body is required"})
		}
		return apperrors.BadRequest(apperrors.Params{Message: "Invalid request body", Err: err})
	}

	if n, ok := dto.(normalizer); ok {
		n.normalize()
	}

	if violations := checkStruct(dto); len(violations) > 0 {
		return raiseViolations(violations)
	}
	return nil
}

func jsonTypeName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	default:
		return t.Kind().String()
	}
}

// validateID checks the :id path parameter.
func validateID(id string) error {
	if err := uuid.Validate(id); err != nil {
		return raiseViolations([]string{"id must be a valid uuid"})
	}
	return nil
}
