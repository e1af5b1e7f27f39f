package model

import (
	"bytes"
	"encoding/json"
	"errors"
)

var ErrNullField = errors.New("field must not be null")

// Optional distinguishes an attribute that was absent from the request body
// from one that was present, including present with a zero value.
type Optional[T any] struct {
	Value T
	Set   bool
}

// UnmarshalJSON only runs when the key is present in the body, so a
// successful call always marks the value as set.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return ErrNullField
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	o.Value = value
	o.Set = true
	return nil
}
