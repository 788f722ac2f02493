package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// jsonOutput is set by the global --json flag.
var jsonOutput bool

func isJSONOutput() bool { return jsonOutput }

// Response is the envelope every --json invocation prints exactly once.
type Response struct {
	OK       bool       `json:"ok"`
	Data     any        `json:"data,omitempty"`
	Error    *ErrorInfo `json:"error,omitempty"`
	Warnings []Warning  `json:"warnings,omitempty"`
	Meta     *Meta      `json:"meta,omitempty"`
}

type ErrorInfo struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Warning is a non-fatal problem; Ref names the object it concerns.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Ref     string `json:"ref,omitempty"`
}

type Meta struct {
	Count     int   `json:"count,omitempty"`
	ElapsedMs int64 `json:"elapsed_ms,omitempty"`
}

func writeResponse(resp Response) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(resp)
}

func outputSuccess(data any, meta *Meta) {
	outputSuccessWithWarnings(data, nil, meta)
}

func outputSuccessWithWarnings(data any, warnings []Warning, meta *Meta) {
	writeResponse(Response{OK: true, Data: data, Warnings: warnings, Meta: meta})
}

// errReported is returned once the failure envelope has been printed; the
// process still exits non-zero but prints nothing more.
type errReported struct{ code string }

func (e errReported) Error() string { return e.code }

func isReported(err error) bool {
	var r errReported
	return errors.As(err, &r)
}

// fail prints the failure envelope in JSON mode and returns errReported.
// In text mode it returns err, with the suggestion appended, for cobra to
// print.
func fail(info ErrorInfo, err error) error {
	if jsonOutput {
		writeResponse(Response{Error: &info})
		return errReported{code: info.Code}
	}
	if info.Suggestion != "" {
		return fmt.Errorf("%w\n\n%s", err, info.Suggestion)
	}
	return err
}

func handleError(code string, err error, suggestion string) error {
	return fail(ErrorInfo{Code: code, Message: err.Error(), Suggestion: suggestion}, err)
}

func handleErrorMsg(code, message, suggestion string) error {
	return handleError(code, errors.New(message), suggestion)
}

func handleErrorWithDetails(code, message, suggestion string, details any) error {
	return fail(ErrorInfo{Code: code, Message: message, Details: details, Suggestion: suggestion}, errors.New(message))
}
