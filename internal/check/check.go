// Package check validates written output files against the bundled JSON
// Schemas and cross-checks the links between them.
package check

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/aidanlsb/mtpoi/internal/export"
	"github.com/aidanlsb/mtpoi/internal/model"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

const schemaBase = "https://mtpoi.local/schemas/"

// IssueLevel indicates the severity of an issue.
type IssueLevel int

const (
	LevelError IssueLevel = iota
	LevelWarning
)

func (l IssueLevel) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarning:
		return "WARN"
	default:
		return "UNKNOWN"
	}
}

// MarshalText renders the level as its string form.
func (l IssueLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Issue represents a validation issue.
type Issue struct {
	Level   IssueLevel `json:"level"`
	File    string     `json:"file"`
	Pointer string     `json:"pointer,omitempty"` // JSON pointer into the file
	Message string     `json:"message"`
}

func (i Issue) String() string {
	if i.Pointer != "" {
		return fmt.Sprintf("%s %s%s: %s", i.Level, i.File, i.Pointer, i.Message)
	}
	return fmt.Sprintf("%s %s: %s", i.Level, i.File, i.Message)
}

// FileResult describes one checked file.
type FileResult struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Records int    `json:"records"`
}

// Report is the outcome of checking an output directory.
type Report struct {
	Files  []FileResult `json:"files"`
	Issues []Issue      `json:"issues"`
}

// Errors counts error-level issues.
func (r *Report) Errors() int {
	n := 0
	for _, i := range r.Issues {
		if i.Level == LevelError {
			n++
		}
	}
	return n
}

// Checker holds the compiled output schemas.
type Checker struct {
	schemas map[string]*jsonschema.Schema
}

// schemaFile maps an output file name to its schema.
func schemaFile(name string) string {
	name = strings.TrimSuffix(name, export.CompressedExt)
	name = strings.TrimPrefix(name, "out_")
	return strings.TrimSuffix(name, ".json") + ".schema.json"
}

// New compiles the bundled schemas.
func New() (*Checker, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	for _, name := range export.Files {
		file := schemaFile(name)
		data, err := schemaFS.ReadFile("schemas/" + file)
		if err != nil {
			return nil, fmt.Errorf("missing schema for %s: %w", name, err)
		}
		if err := c.AddResource(schemaBase+file, bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("load schema %s: %w", file, err)
		}
	}

	ch := &Checker{schemas: make(map[string]*jsonschema.Schema, len(export.Files))}
	for _, name := range export.Files {
		s, err := c.Compile(schemaBase + schemaFile(name))
		if err != nil {
			return nil, fmt.Errorf("compile schema for %s: %w", name, err)
		}
		ch.schemas[name] = s
	}
	return ch, nil
}

// Validate checks data, the contents of output file name, against its schema.
// It returns the number of records and one issue per violated constraint.
func (c *Checker) Validate(name string, data []byte) (int, []Issue, error) {
	base := strings.TrimSuffix(name, export.CompressedExt)
	s, ok := c.schemas[base]
	if !ok {
		return 0, nil, fmt.Errorf("no schema for %s", name)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return 0, []Issue{{Level: LevelError, File: name, Message: "invalid JSON: " + err.Error()}}, nil
	}

	records := 0
	if arr, ok := doc.([]any); ok {
		records = len(arr)
	}

	err := s.Validate(doc)
	if err == nil {
		return records, nil, nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return records, nil, err
	}
	var issues []Issue
	for _, leaf := range leaves(verr) {
		issues = append(issues, Issue{
			Level:   LevelError,
			File:    name,
			Pointer: leaf.InstanceLocation,
			Message: leaf.Message,
		})
	}
	return records, issues, nil
}

func leaves(e *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(e.Causes) == 0 {
		return []*jsonschema.ValidationError{e}
	}
	var out []*jsonschema.ValidationError
	for _, c := range e.Causes {
		out = append(out, leaves(c)...)
	}
	return out
}

// Dir checks every output file in dir. Files that were not written are
// reported as warnings; a ".zst" copy next to a ".json" file must decode to
// the same bytes.
func (c *Checker) Dir(dir string) (*Report, error) {
	report := &Report{}
	contents := map[string][]byte{}

	for _, name := range export.Files {
		path := filepath.Join(dir, name)
		zpath := path + export.CompressedExt
		hasJSON, hasZst := exists(path), exists(zpath)

		switch {
		case hasJSON:
		case hasZst:
			path = zpath
		default:
			report.Issues = append(report.Issues, Issue{Level: LevelWarning, File: name, Message: "not written"})
			continue
		}

		data, err := export.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		records, issues, err := c.Validate(filepath.Base(path), data)
		if err != nil {
			return nil, err
		}
		report.Files = append(report.Files, FileResult{Name: name, Path: path, Records: records})
		report.Issues = append(report.Issues, issues...)
		if len(issues) == 0 {
			contents[name] = data
		}

		if hasJSON && hasZst {
			zdata, err := export.ReadFile(zpath)
			if err != nil {
				report.Issues = append(report.Issues, Issue{Level: LevelError, File: name + export.CompressedExt, Message: "cannot decompress: " + err.Error()})
			} else if !bytes.Equal(zdata, data) {
				report.Issues = append(report.Issues, Issue{Level: LevelError, File: name + export.CompressedExt, Message: "differs from " + name})
			}
		}
	}

	links, err := crossCheck(contents)
	if err != nil {
		return nil, err
	}
	report.Issues = append(report.Issues, links...)
	return report, nil
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// crossCheck reports links between outputs that point nowhere. Only files
// that passed schema validation take part.
func crossCheck(contents map[string][]byte) ([]Issue, error) {
	var issues []Issue

	var areas []model.AreaVolume
	areaNames := map[string]bool{}
	if data, ok := contents[export.FileAreaVolume]; ok {
		if err := json.Unmarshal(data, &areas); err != nil {
			return nil, err
		}
		for _, a := range areas {
			areaNames[a.Name] = true
		}
	}
	checkAreas := func(file string, i int, names []string) {
		if len(areaNames) == 0 {
			return
		}
		for _, n := range names {
			if !areaNames[n] {
				issues = append(issues, Issue{
					Level:   LevelError,
					File:    file,
					Pointer: fmt.Sprintf("/%d/areas", i),
					Message: fmt.Sprintf("unknown area %q", n),
				})
			}
		}
	}

	if data, ok := contents[export.FileDeliveryPoint]; ok {
		var points []model.DeliveryPoint
		if err := json.Unmarshal(data, &points); err != nil {
			return nil, err
		}
		guids := map[string]int{}
		for _, p := range points {
			if p.GUID != "" {
				guids[model.ShortGUID(p.GUID)]++
			}
		}
		for _, g := range sortedDuplicates(guids) {
			issues = append(issues, Issue{
				Level:   LevelWarning,
				File:    export.FileDeliveryPoint,
				Message: fmt.Sprintf("guid %s used by %d points", g, guids[g]),
			})
		}
		for i, p := range points {
			checkAreas(export.FileDeliveryPoint, i, p.Areas)
			for _, d := range p.DropPoint {
				if guids[d] == 0 {
					issues = append(issues, Issue{
						Level:   LevelWarning,
						File:    export.FileDeliveryPoint,
						Pointer: fmt.Sprintf("/%d/dropPoint", i),
						Message: fmt.Sprintf("drop point %s is not a delivery point", d),
					})
				}
			}
		}
	}

	if data, ok := contents[export.FileBusStop]; ok {
		var stops []model.BusStopPoint
		if err := json.Unmarshal(data, &stops); err != nil {
			return nil, err
		}
		guids := map[string]bool{}
		for _, s := range stops {
			guids[model.ShortGUID(s.GUID)] = true
		}
		for i, s := range stops {
			checkAreas(export.FileBusStop, i, s.Areas)
			for _, d := range s.AdditionalDestinations {
				if !guids[d] {
					issues = append(issues, Issue{
						Level:   LevelWarning,
						File:    export.FileBusStop,
						Pointer: fmt.Sprintf("/%d/additionalDestinationsGuid", i),
						Message: fmt.Sprintf("destination %s is not a bus stop", d),
					})
				}
			}
		}
	}

	if data, ok := contents[export.FileEvCharger]; ok {
		var chargers []model.EvChargerPoint
		if err := json.Unmarshal(data, &chargers); err != nil {
			return nil, err
		}
		for i, c := range chargers {
			checkAreas(export.FileEvCharger, i, c.Areas)
		}
	}

	if data, ok := contents[export.FileHouse]; ok {
		var houses []model.HousePoint
		if err := json.Unmarshal(data, &houses); err != nil {
			return nil, err
		}
		for i, h := range houses {
			checkAreas(export.FileHouse, i, h.Areas)
		}
	}

	return issues, nil
}

func sortedDuplicates(counts map[string]int) []string {
	var out []string
	for k, n := range counts {
		if n > 1 {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
