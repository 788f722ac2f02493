// Package history keeps an append-only log of extraction runs next to the
// outputs they produced.
package history

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileName is the log file inside the output directory.
const FileName = ".mtpoi-history.jsonl"

// Entry is one extraction run.
type Entry struct {
	Timestamp  time.Time        `json:"ts"`
	DumpRoot   string           `json:"dump_root"`
	Categories []string         `json:"categories"`
	Strict     bool             `json:"strict"`
	Records    map[string]int   `json:"records"`
	Skipped    int              `json:"skipped,omitempty"`
	DropPoints int              `json:"drop_points_updated,omitempty"`
	ElapsedMs  int64            `json:"elapsed_ms"`
	Index      map[string]int64 `json:"index,omitempty"`
}

// Log appends entries to a history file.
type Log struct {
	path    string
	enabled bool
	mu      sync.Mutex
}

// New returns the history log for outDir. A disabled log records nothing
// and reads nothing.
func New(outDir string, enabled bool) *Log {
	return &Log{path: filepath.Join(outDir, FileName), enabled: enabled}
}

// Path returns the log file path.
func (l *Log) Path() string { return l.path }

// Enabled reports whether the log records entries.
func (l *Log) Enabled() bool { return l.enabled }

// Append writes entry as one JSON line.
func (l *Log) Append(entry Entry) error {
	if !l.enabled {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal history entry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write history entry: %w", err)
	}
	return nil
}

// Read returns every entry, oldest first. Malformed lines are skipped; a
// missing file is an empty history.
func (l *Log) Read() ([]Entry, error) {
	if !l.enabled {
		return nil, nil
	}

	f, err := os.Open(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	defer f.Close()

	var entries []Entry
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		if len(sc.Bytes()) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, sc.Err()
}

// ReadSince returns the entries at or after since.
func (l *Log) ReadSince(since time.Time) ([]Entry, error) {
	all, err := l.Read()
	if err != nil {
		return nil, err
	}
	var out []Entry
	for _, e := range all {
		if !e.Timestamp.Before(since) {
			out = append(out, e)
		}
	}
	return out, nil
}
