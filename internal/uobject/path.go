package uobject

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMissingIndex is returned when an object path has no ".<index>" suffix.
var ErrMissingIndex = errors.New("missing object index")

// IndexParseError reports an object path whose trailing index segment is not
// a non-negative integer.
type IndexParseError struct {
	Path string
	Err  error
}

func (e *IndexParseError) Error() string {
	return fmt.Sprintf("invalid object path %q: %v", e.Path, e.Err)
}

func (e *IndexParseError) Unwrap() error { return e.Err }

// ObjectPath is a reference to another exported object, written by the
// exporter as {"ObjectName": "...", "ObjectPath": "<container>.<index>"}.
//
// The raw path is split once at decode time. A malformed index does not fail
// the decode of the surrounding file; it is kept and reported by Err when the
// reference is actually followed.
type ObjectPath struct {
	ObjectName string
	Raw        string
	Container  string
	Index      int

	err error
}

// ParseObjectPath splits raw on its last '.' into container and index.
func ParseObjectPath(objectName, raw string) ObjectPath {
	p := ObjectPath{ObjectName: objectName, Raw: raw, Index: -1}

	dot := strings.LastIndexByte(raw, '.')
	if dot < 0 {
		p.Container = raw
		p.err = &IndexParseError{Path: raw, Err: ErrMissingIndex}
		return p
	}

	p.Container = raw[:dot]
	idx, err := strconv.Atoi(raw[dot+1:])
	if err != nil {
		p.err = &IndexParseError{Path: raw, Err: err}
		return p
	}
	if idx < 0 {
		p.err = &IndexParseError{Path: raw, Err: fmt.Errorf("negative index %d", idx)}
		return p
	}
	p.Index = idx
	return p
}

// Err returns the deferred parse error, if any.
func (p ObjectPath) Err() error {
	return p.err
}

// IsZero reports whether the path is empty (an unset reference).
func (p ObjectPath) IsZero() bool {
	return p.Raw == "" && p.ObjectName == ""
}

func (p ObjectPath) String() string {
	return p.Raw
}

func (p *ObjectPath) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = ObjectPath{}
		return nil
	}
	var raw struct {
		ObjectName string `json:"ObjectName"`
		ObjectPath string `json:"ObjectPath"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = ParseObjectPath(raw.ObjectName, raw.ObjectPath)
	return nil
}

func (p ObjectPath) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ObjectName string `json:"ObjectName"`
		ObjectPath string `json:"ObjectPath"`
	}{p.ObjectName, p.Raw})
}
