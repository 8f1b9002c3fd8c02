package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// RequireKeys verifies that every listed wire key is present in the object in
// data. An explicit null counts as absent: the wire contract never round-trips
// an intentional null, so a required field set to null is a missing field.
func RequireKeys(data []byte, keys ...string) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return wrapDecode(err)
	}
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return NewMissingFieldError(k)
		}
	}
	return nil
}

// DecodeAdditional unmarshals the wire object in data into an extension bag,
// dropping every known wire key. Known fields always win: a key covered by
// the record's schema never appears in the bag. Returns nil when nothing is
// left over, so closed payloads carry no allocation.
func DecodeAdditional(data []byte, known ...string) (map[string]Value, error) {
	var bag map[string]Value
	if err := json.Unmarshal(data, &bag); err != nil {
		return nil, wrapDecode(err)
	}
	for _, k := range known {
		delete(bag, k)
	}
	if len(bag) == 0 {
		return nil, nil
	}
	return bag, nil
}

// EncodeWithAdditional marshals v and merges the extension bag into the
// emitted object. A bag key that collides with an emitted known field is a
// programmer error and fails with ErrDuplicateKey rather than silently
// overwriting.
func EncodeWithAdditional(v any, additional map[string]Value) ([]byte, error) {
	base, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	if len(additional) == 0 {
		return base, nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(base, &obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	for k, val := range additional {
		if _, exists := obj[k]; exists {
			return nil, &EncodeError{Key: k}
		}
		raw, err := val.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
		}
		obj[k] = raw
	}
	return json.Marshal(obj)
}

// UnmarshalRecord decodes data into out and maps failures onto the decode
// taxonomy. Array elements fail the whole array with the element's error,
// which is the encoding/json contract.
func UnmarshalRecord(data []byte, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			return err
		}
		return wrapDecode(err)
	}
	return nil
}

// wrapDecode maps encoding/json failures onto the decode taxonomy so callers
// can errors.Is against the sentinels.
func wrapDecode(err error) error {
	if err == nil {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &DecodeError{Sentinel: ErrWrongType, Field: typeErr.Field, Err: err}
	}
	return &DecodeError{Sentinel: ErrWrongType, Err: err}
}
