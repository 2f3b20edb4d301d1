// Package validation decodes untrusted payloads into typed requests and checks
// them against struct-tag rules. Failures are reported as a single validation
// error listing every violated rule, never just the first one.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	dErrors "hamon/pkg/domain-errors"
)

// InvalidMessage is the caller-facing summary attached to every validation failure.
const InvalidMessage = "Invalid form data"

// BodyField names the violation reported when the payload is not an object.
const BodyField = "body"

var (
	phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
	cuidPattern  = regexp.MustCompile(`^c[a-z0-9]{8,}$`)
)

var defaultValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(fieldName)
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("cuid", func(fl validator.FieldLevel) bool {
		return cuidPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("accepted", func(fl validator.FieldLevel) bool {
		return fl.Field().Kind() == reflect.Bool && fl.Field().Bool()
	})
	return v
}

// fieldName reports the name a caller uses for a struct field: the json tag,
// then the query tag, then nothing (field skipped).
func fieldName(sf reflect.StructField) string {
	for _, tag := range []string{"json", "query"} {
		name, _, _ := strings.Cut(sf.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return ""
}

// Validate checks an already-decoded request against its struct tags.
func Validate(req any) error {
	violations, err := structViolations(req, nil)
	if err != nil {
		return err
	}
	if len(violations) > 0 {
		return dErrors.NewValidation(InvalidMessage, violations)
	}
	return nil
}

// Parse decodes raw JSON into T and validates it. Unknown fields are ignored;
// a field of the wrong JSON type is a violation, never coerced. The returned
// error, when non-nil, is a validation error carrying every violation.
func Parse[T any](raw []byte) (*T, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, dErrors.NewValidation(InvalidMessage, []dErrors.Violation{
			{Field: BodyField, Message: "request body must be a JSON object"},
		})
	}

	var out T
	rv := reflect.ValueOf(&out).Elem()
	if rv.Kind() != reflect.Struct {
		return nil, dErrors.New(dErrors.CodeInternal, fmt.Sprintf("cannot parse into %T", out))
	}

	var violations []dErrors.Violation
	typeFailed := make(map[string]bool)
	rt := rv.Type()
	for i := range rt.NumField() {
		sf := rt.Field(i)
		name := fieldName(sf)
		if !sf.IsExported() || name == "" {
			continue
		}
		value, ok := fields[name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(value, rv.Field(i).Addr().Interface()); err != nil {
			rv.Field(i).SetZero()
			typeFailed[name] = true
			violations = append(violations, dErrors.Violation{Field: name, Message: typeMessage(name, sf.Type)})
		}
	}

	more, err := structViolations(&out, typeFailed)
	if err != nil {
		return nil, err
	}
	violations = append(violations, more...)
	if len(violations) > 0 {
		sortByDeclaration(rt, violations)
		return nil, dErrors.NewValidation(InvalidMessage, violations)
	}
	return &out, nil
}

// ParseQuery fills T from URL query values using `query` tags. Absent values
// take the field's `default` tag. Numeric fields that do not parse are
// violations.
func ParseQuery[T any](values url.Values) (*T, error) {
	var out T
	rv := reflect.ValueOf(&out).Elem()
	if rv.Kind() != reflect.Struct {
		return nil, dErrors.New(dErrors.CodeInternal, fmt.Sprintf("cannot parse query into %T", out))
	}

	var violations []dErrors.Violation
	typeFailed := make(map[string]bool)
	rt := rv.Type()
	for i := range rt.NumField() {
		sf := rt.Field(i)
		name, _, _ := strings.Cut(sf.Tag.Get("query"), ",")
		if !sf.IsExported() || name == "" || name == "-" {
			continue
		}
		raw := strings.TrimSpace(values.Get(name))
		if raw == "" {
			raw = sf.Tag.Get("default")
		}
		if raw == "" {
			continue
		}
		if !setScalar(rv.Field(i), raw) {
			typeFailed[name] = true
			violations = append(violations, dErrors.Violation{Field: name, Message: typeMessage(name, sf.Type)})
		}
	}

	more, err := structViolations(&out, typeFailed)
	if err != nil {
		return nil, err
	}
	violations = append(violations, more...)
	if len(violations) > 0 {
		sortByDeclaration(rt, violations)
		return nil, dErrors.NewValidation(InvalidMessage, violations)
	}
	return &out, nil
}

func setScalar(field reflect.Value, raw string) bool {
	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Int, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || field.OverflowInt(n) {
			return false
		}
		field.SetInt(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return false
		}
		field.SetBool(b)
	default:
		return false
	}
	return true
}

func structViolations(req any, skip map[string]bool) ([]dErrors.Violation, error) {
	err := defaultValidator.Struct(req)
	if err == nil {
		return nil, nil
	}
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "validator rejected request type")
	}
	violations := make([]dErrors.Violation, 0, len(validationErrs))
	for _, fe := range validationErrs {
		if skip[rootField(fe.Field())] {
			continue
		}
		violations = append(violations, dErrors.Violation{Field: fe.Field(), Message: ErrorMessage(fe)})
	}
	return violations, nil
}

// rootField strips a map or slice index, "specifications[blade]" -> "specifications".
func rootField(field string) string {
	name, _, _ := strings.Cut(field, "[")
	return name
}

func sortByDeclaration(rt reflect.Type, violations []dErrors.Violation) {
	order := make(map[string]int, rt.NumField())
	for i := range rt.NumField() {
		if name := fieldName(rt.Field(i)); name != "" {
			order[name] = i
		}
	}
	slices.SortStableFunc(violations, func(a, b dErrors.Violation) int {
		return order[rootField(a.Field)] - order[rootField(b.Field)]
	})
}

func typeMessage(field string, t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return fmt.Sprintf("%s must be a string", field)
	case reflect.Bool:
		return fmt.Sprintf("%s must be a boolean", field)
	case reflect.Int, reflect.Int32, reflect.Int64:
		return fmt.Sprintf("%s must be an integer", field)
	case reflect.Float32, reflect.Float64:
		return fmt.Sprintf("%s must be a number", field)
	case reflect.Map, reflect.Struct:
		return fmt.Sprintf("%s must be an object", field)
	case reflect.Slice, reflect.Array:
		return fmt.Sprintf("%s must be an array", field)
	default:
		return fmt.Sprintf("%s has the wrong type", field)
	}
}

// ErrorMessage converts one failed rule into a caller-safe sentence.
func ErrorMessage(fe validator.FieldError) string {
	field := fe.Field()
	if field == "" {
		field = fe.StructField()
	}
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}

	switch fe.ActualTag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "url", "http_url":
		return fmt.Sprintf("%s must be a valid url", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s%s", field, fe.Param(), unit)
	case "max":
		return fmt.Sprintf("%s must be at most %s%s", field, fe.Param(), unit)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "notblank":
		return fmt.Sprintf("%s must not be blank", field)
	case "phone":
		return fmt.Sprintf("%s must be a valid phone number", field)
	case "cuid":
		return fmt.Sprintf("%s must be a valid id", field)
	case "accepted":
		return fmt.Sprintf("%s must be accepted", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
