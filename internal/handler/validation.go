package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// flexString accepts any JSON scalar and keeps its text, so that "7", 7
// and true all reach the validator instead of failing at bind time.  null
// becomes the empty string.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*f = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
	default:
		// Numbers and booleans keep their literal text.  Objects and arrays
		// do too, which no scalar rule accepts.
		*f = flexString(b)
	}
	return nil
}

func (f flexString) String() string { return strings.TrimSpace(string(f)) }

// dateLayouts are the formats accepted wherever a date is expected.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// ValidationErrors maps a request field to its messages.  It renders as
// the 422 response body.
type ValidationErrors map[string][]string

func (v ValidationErrors) Error() string { return v.Summary() }

func (v ValidationErrors) Add(field, msg string) { v[field] = append(v[field], msg) }

func (v ValidationErrors) Has(field string) bool { return len(v[field]) > 0 }

func (v ValidationErrors) Empty() bool { return len(v) == 0 }

// Summary is the first message plus a count of the remaining ones.
func (v ValidationErrors) Summary() string {
	fields := make([]string, 0, len(v))
	total := 0
	for f, msgs := range v {
		fields = append(fields, f)
		total += len(msgs)
	}
	if total == 0 {
		return ""
	}
	sort.Strings(fields)
	first := v[fields[0]][0]
	switch rest := total - 1; rest {
	case 0:
		return first
	case 1:
		return first + " (and 1 more error)"
	default:
		return fmt.Sprintf("%s (and %d more errors)", first, rest)
	}
}

// RequestValidator plugs go-playground/validator into echo's Validate hook.
// Field names come from the json tag, falling back to the query tag.
type RequestValidator struct {
	v *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Rules see flexString values trimmed, so "  " fails required.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if f, ok := field.Interface().(flexString); ok {
			return f.String()
		}
		return nil
	}, flexString(""))
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, ok := parseDate(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("integer", func(fl validator.FieldLevel) bool {
		_, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
		return err == nil
	})
	return &RequestValidator{v: v}
}

// Validate returns ValidationErrors for rule violations and any other error
// unchanged.
func (rv *RequestValidator) Validate(i interface{}) error {
	err := rv.v.Struct(i)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := ValidationErrors{}
	for _, fe := range fieldErrs {
		out.Add(fe.Field(), ruleMessage(fe))
	}
	return out
}

func ruleMessage(fe validator.FieldError) string {
	attr := attributeName(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", attr)
	case "date":
		return fmt.Sprintf("The %s field must be a valid date.", attr)
	case "numeric":
		return fmt.Sprintf("The %s field must be a number.", attr)
	case "integer":
		return fmt.Sprintf("The %s field must be an integer.", attr)
	case "boolean":
		return fmt.Sprintf("The %s field must be true or false.", attr)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", attr)
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", attr, fe.Param())
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", attr)
	}
	return fmt.Sprintf("The %s field is invalid.", attr)
}

// attributeName turns number_of_days or dateFrom into "number of days" and
// "date from".
func attributeName(field string) string {
	var b strings.Builder
	for i, r := range field {
		switch {
		case r == '_':
			b.WriteRune(' ')
		case unicode.IsUpper(r):
			if i > 0 {
				b.WriteRune(' ')
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// validateRequest runs echo's validator on req.  Rule violations come back
// as a (possibly empty) ValidationErrors the caller may extend; anything
// else is returned as err.
func validateRequest(c echo.Context, req interface{}) (ValidationErrors, error) {
	err := c.Validate(req)
	if err == nil {
		return ValidationErrors{}, nil
	}
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve, nil
	}
	return nil, err
}

func unprocessable(c echo.Context, errs ValidationErrors) error {
	return c.JSON(http.StatusUnprocessableEntity, echo.Map{
		"message": errs.Summary(),
		"errors":  errs,
	})
}
