package tui

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// JSONOutput writes one JSON document per call for scripts.
type JSONOutput struct {
	encoder *json.Encoder
}

// NewJSONOutput creates a JSONOutput.
func NewJSONOutput(w io.Writer) *JSONOutput {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return &JSONOutput{encoder: encoder}
}

// jsonMessage is the format for Success/Warning/Info.
type jsonMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// jsonError is the format for Error.
type jsonError struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
	Context    string `json:"context,omitempty"`
}

// Success emits {"type":"success","message":...}.
func (o *JSONOutput) Success(msg string) {
	//nolint:errchkjson // interface has no error return
	_ = o.encoder.Encode(jsonMessage{Type: "success", Message: msg})
}

// Error emits {"type":"error",...}. Details holds the raw error chain when
// it differs from the friendly message.
func (o *JSONOutput) Error(err error) {
	out := jsonError{Type: "error"}
	var ae *ActionableError
	if errors.As(err, &ae) {
		out.Context = ae.Context
	} else {
		ae = FromError(err)
	}
	out.Message = ae.Message
	out.Suggestion = ae.Suggestion
	if raw := err.Error(); raw != ae.Message {
		out.Details = raw
	}
	//nolint:errchkjson // interface has no error return
	_ = o.encoder.Encode(out)
}

// Warning emits {"type":"warning","message":...}.
func (o *JSONOutput) Warning(msg string) {
	//nolint:errchkjson // interface has no error return
	_ = o.encoder.Encode(jsonMessage{Type: "warning", Message: msg})
}

// Info emits {"type":"info","message":...}.
func (o *JSONOutput) Info(msg string) {
	//nolint:errchkjson // interface has no error return
	_ = o.encoder.Encode(jsonMessage{Type: "info", Message: msg})
}

// Table emits the rows as an array of lowercase-keyed records.
func (o *JSONOutput) Table(t *Table) error {
	return o.JSON(t.Records())
}

// JSON writes v as a JSON document.
func (o *JSONOutput) JSON(v any) error {
	if err := o.encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// IsJSON is true for JSON output.
func (o *JSONOutput) IsJSON() bool { return true }
