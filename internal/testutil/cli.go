package testutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
)

// CLIResult is one invocation of the mtpoi binary with --json.
type CLIResult struct {
	OK       bool           `json:"ok"`
	Data     map[string]any `json:"data,omitempty"`
	Error    *CLIError      `json:"error,omitempty"`
	Warnings []CLIWarning   `json:"warnings,omitempty"`
	Meta     *CLIMeta       `json:"meta,omitempty"`

	RawJSON  string `json:"-"`
	Stderr   string `json:"-"`
	ExitCode int    `json:"-"`
}

type CLIError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`
	Suggestion string         `json:"suggestion,omitempty"`
}

type CLIWarning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Ref     string `json:"ref,omitempty"`
}

type CLIMeta struct {
	Count     int   `json:"count,omitempty"`
	ElapsedMs int64 `json:"elapsed_ms,omitempty"`
}

// buildBinary compiles ./cmd/mtpoi once per test process.
var buildBinary = sync.OnceValues(func() (string, error) {
	root, err := moduleRoot()
	if err != nil {
		return "", err
	}
	dir, err := os.MkdirTemp("", "mtpoi-cli-bin-*")
	if err != nil {
		return "", err
	}
	name := "mtpoi"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	bin := filepath.Join(dir, name)

	cmd := exec.Command("go", "build", "-o", bin, "./cmd/mtpoi")
	cmd.Dir = root
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("go build: %w\n%s", err, out)
	}
	return bin, nil
})

// BuildCLI returns the path of the mtpoi binary, building it on first use.
func BuildCLI(t *testing.T) string {
	t.Helper()
	bin, err := buildBinary()
	if err != nil {
		t.Fatalf("failed to build CLI: %v", err)
	}
	return bin
}

func moduleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("go.mod not found above " + dir)
		}
		dir = parent
	}
}

// RunCLI runs mtpoi --json from the dump directory. The user config
// directory is an empty temp dir, so only a mtpoi.toml inside the dump is
// picked up. Unparseable stdout becomes a PARSE_ERROR result.
func (d *TestDump) RunCLI(args ...string) *CLIResult {
	d.t.Helper()

	home := d.t.TempDir()
	cmd := exec.Command(BuildCLI(d.t), append([]string{"--json"}, args...)...)
	cmd.Dir = d.Path
	cmd.Env = append(os.Environ(), "XDG_CONFIG_HOME="+home, "HOME="+home)
	var stdout, stderr bytes.Buffer
	cmd.Stdout, cmd.Stderr = &stdout, &stderr

	runErr := cmd.Run()

	res := &CLIResult{}
	if err := json.Unmarshal(stdout.Bytes(), res); err != nil {
		res = &CLIResult{Error: &CLIError{
			Code:    "PARSE_ERROR",
			Message: "failed to parse JSON output: " + err.Error(),
		}}
	}
	res.RawJSON, res.Stderr = stdout.String(), stderr.String()

	var exitErr *exec.ExitError
	switch {
	case runErr == nil:
	case errors.As(runErr, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	default:
		res.ExitCode = -1
	}
	return res
}

func (r *CLIResult) describe() string {
	return fmt.Sprintf("exit %d\nstdout: %s\nstderr: %s", r.ExitCode, r.RawJSON, r.Stderr)
}

// MustSucceed fails the test unless the envelope reports ok.
func (r *CLIResult) MustSucceed(t *testing.T) *CLIResult {
	t.Helper()
	if !r.OK {
		msg := "no error in envelope"
		if r.Error != nil {
			msg = r.Error.Code + ": " + r.Error.Message
		}
		t.Fatalf("expected success, got %s\n%s", msg, r.describe())
	}
	return r
}

// MustFail fails the test unless the command failed with code and a
// non-zero exit status.
func (r *CLIResult) MustFail(t *testing.T, code string) *CLIResult {
	t.Helper()
	switch {
	case r.OK:
		t.Fatalf("expected failure %s, command succeeded\n%s", code, r.describe())
	case r.Error == nil || r.Error.Code != code:
		t.Fatalf("expected error code %s\n%s", code, r.describe())
	case r.ExitCode == 0:
		t.Fatalf("expected non-zero exit for %s\n%s", code, r.describe())
	}
	return r
}

// HasWarning reports whether a warning with code and a ref containing
// refSubstr was emitted.
func (r *CLIResult) HasWarning(code, refSubstr string) bool {
	for _, w := range r.Warnings {
		if w.Code == code && strings.Contains(w.Ref, refSubstr) {
			return true
		}
	}
	return false
}

func (r *CLIResult) DataList(key string) []any {
	list, _ := r.Data[key].([]any)
	return list
}

func (r *CLIResult) DataString(key string) string {
	s, _ := r.Data[key].(string)
	return s
}
