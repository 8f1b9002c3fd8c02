package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// errorEnvelope is the error document shape returned by the service. Some
// deployments use "error", others "message"; both are tolerated.
type errorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Errors  []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Dispatch classifies the response and decodes a 2xx body into out. A 2xx
// with an empty body, or a nil out, is an empty success. Any other status
// yields a *ServiceError carrying the best-effort message from the body;
// message extraction failure degrades to a status-only error. The body is
// fully consumed so the connection can be reused.
func Dispatch(resp *http.Response, operation string, out any) error {
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %s: reading response: %v", ErrTransport, operation, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || len(bytes.TrimSpace(body)) == 0 {
			return nil
		}
		if err := UnmarshalRecord(body, out); err != nil {
			return fmt.Errorf("%s: %w", operation, err)
		}
		return nil
	}

	return &ServiceError{
		Operation: operation,
		Status:    resp.StatusCode,
		Message:   extractMessage(body),
	}
}

func extractMessage(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}
	var env errorEnvelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return ""
	}
	switch {
	case env.Error != "":
		return env.Error
	case env.Message != "":
		return env.Message
	case len(env.Errors) > 0:
		return env.Errors[0].Message
	}
	return ""
}
