package model

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// maxTextLength matches the varchar(100) columns of the destination table.
const maxTextLength = 100

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report json names instead of Go field names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidationError is returned when a request body is well formed JSON but
// does not satisfy the body schema of its route.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return "invalid request body: " + strings.Join(parts, ", ")
}

// CreateDestinationRequest is the body of POST /destinations. Pointers are
// used so that "required" checks presence, not a non-zero value: a rating of
// 0 is accepted.
type CreateDestinationRequest struct {
	Destination *string  `json:"destination" validate:"required,max=100"`
	Country     *string  `json:"country" validate:"required,max=100"`
	Rating      *float64 `json:"rating" validate:"required"`
}

func (r CreateDestinationRequest) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	fields := make(map[string]string, len(validationErrors))
	for _, fieldError := range validationErrors {
		fields[fieldError.Field()] = describe(fieldError.Tag(), fieldError.Param())
	}
	return &ValidationError{Fields: fields}
}

// ToDestination must only be called after a successful Validate.
func (r CreateDestinationRequest) ToDestination() Destination {
	return Destination{
		Destination: *r.Destination,
		Country:     *r.Country,
		Rating:      *r.Rating,
	}
}

// UpdateDestinationRequest is the body of PUT /destinations/{id}. Every
// attribute is optional; absent attributes keep their stored value.
type UpdateDestinationRequest struct {
	Destination Optional[string]  `json:"destination"`
	Country     Optional[string]  `json:"country"`
	Rating      Optional[float64] `json:"rating"`
}

func (r UpdateDestinationRequest) Validate() error {
	fields := make(map[string]string)

	texts := []struct {
		name  string
		value Optional[string]
	}{
		{"destination", r.Destination},
		{"country", r.Country},
	}
	for _, text := range texts {
		if !text.value.Set {
			continue
		}
		err := validate.Var(text.value.Value, fmt.Sprintf("max=%d", maxTextLength))
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			fields[text.name] = describe(validationErrors[0].Tag(), validationErrors[0].Param())
		} else if err != nil {
			return err
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Fields returns the column values to overwrite, keyed by column name.
func (r UpdateDestinationRequest) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if r.Destination.Set {
		fields["destination"] = r.Destination.Value
	}
	if r.Country.Set {
		fields["country"] = r.Country.Value
	}
	if r.Rating.Set {
		fields["rating"] = r.Rating.Value
	}
	return fields
}

func describe(tag, param string) string {
	switch tag {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + param + " characters"
	default:
		return "is invalid"
	}
}
