package core

import (
	"errors"
	"fmt"
)

var (
	// Sentinel errors for errors.Is checks at the boundary.
	ErrMissingRequiredField = errors.New("codec: missing required field")
	ErrWrongType            = errors.New("codec: wrong type for field")
	ErrDuplicateKey         = errors.New("codec: additional property collides with a known field")
	ErrPathEncoding         = errors.New("request: path parameter cannot be encoded")
	ErrSerialization        = errors.New("request: body serialization failed")
	ErrTransport            = errors.New("transport: request failed before a response was received")
	ErrService              = errors.New("service: request rejected by the service")
)

// DecodeError reports a failure mapping a wire object to a typed record.
type DecodeError struct {
	Sentinel error // ErrMissingRequiredField or ErrWrongType
	Field    string
	Err      error // nested lower-level error (e.g. *json.UnmarshalTypeError)
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("decode: %v", e.Sentinel)
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %q", msg, e.Field)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *DecodeError) Unwrap() error { return e.Sentinel }

// NewMissingFieldError reports a required wire key absent from the payload.
func NewMissingFieldError(field string) *DecodeError {
	return &DecodeError{Sentinel: ErrMissingRequiredField, Field: field}
}

// EncodeError reports a collision between an extension-bag key and a known
// field during encoding. Decode never produces such a bag, so hitting this
// means the caller put a known wire key into the bag by hand.
type EncodeError struct {
	Key string
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode: %v: %q", ErrDuplicateKey, e.Key)
}

func (e *EncodeError) Unwrap() error { return ErrDuplicateKey }

// EncodingError reports a path parameter that cannot be turned into a URL
// segment. The call aborts before any network I/O.
type EncodingError struct {
	Param string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("%v: %q", ErrPathEncoding, e.Param)
}

func (e *EncodingError) Unwrap() error { return ErrPathEncoding }

// ServiceError carries a non-2xx response status plus the best-effort message
// extracted from the error document. Message may be empty when the body was
// absent or unparsable.
type ServiceError struct {
	Operation string
	Status    int
	Message   string
}

func (e *ServiceError) Error() string {
	msg := fmt.Sprintf("%s: HTTP %d", e.Operation, e.Status)
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	return msg
}

func (e *ServiceError) Unwrap() error { return ErrService }
