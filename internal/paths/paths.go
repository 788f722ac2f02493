// Package paths provides canonical helpers for converting between:
// - dump-relative export files (e.g. "MotorTown/Content/Maps/Jeju/Jeju_World.json")
// - container paths used inside object references (e.g. "MotorTown/Content/Maps/Jeju/Jeju_World")
//
// It also centralizes the "/Game/" mount point so that references written
// against the engine's virtual content root land on the exported files.
package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultGameMount is the dump directory that the engine's "/Game/" mount
// point is exported to.
const DefaultGameMount = "MotorTown/Content"

// ExportExt is the suffix of every exported object file.
const ExportExt = ".json"

// ErrPathOutsideRoot is returned when a path escapes the dump root.
var ErrPathOutsideRoot = errors.New("path is outside dump root")

// normalizeRelPath normalizes a dump-relative path-like value:
// - converts OS separators to '/'
// - trims leading "./" and leading "/"
// - collapses repeated '/'
func normalizeRelPath(p string) string {
	p = filepath.ToSlash(p)
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimPrefix(p, "/")
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	return p
}

// ContainerKey normalizes a container path so that references and loaded
// files compare equal.
//
// It:
// - strips a trailing ".json"
// - maps a leading "/Game/" onto gameMount (when gameMount is set)
// - normalizes separators and leading slashes
func ContainerKey(container, gameMount string) string {
	container = strings.TrimSpace(container)
	container = filepath.ToSlash(container)
	if gameMount != "" && strings.HasPrefix(container, "/Game/") {
		container = strings.TrimSuffix(normalizeRelPath(gameMount), "/") + "/" + strings.TrimPrefix(container, "/Game/")
	}
	container = normalizeRelPath(container)
	return strings.TrimSuffix(container, ExportExt)
}

// ContainerFile returns the export file for a container under root.
func ContainerFile(root, container, gameMount string) string {
	key := ContainerKey(container, gameMount)
	return filepath.Join(root, filepath.FromSlash(key)+ExportExt)
}

// ContainerOf returns the container key for an export file. Absolute paths
// are made relative to root first.
func ContainerOf(root, file string) string {
	if filepath.IsAbs(file) {
		if rel, err := filepath.Rel(root, file); err == nil {
			file = rel
		}
	}
	return ContainerKey(file, "")
}

// ValidateWithinRoot checks that target stays inside root after resolving
// "..", returning ErrPathOutsideRoot otherwise.
func ValidateWithinRoot(root, target string) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve root: %w", err)
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	rel, err := filepath.Rel(absRoot, absTarget)
	if err != nil {
		return ErrPathOutsideRoot
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ErrPathOutsideRoot
	}
	return nil
}

// ExportFiles lists the export files directly inside dir, sorted by name.
// Subdirectories are not descended into.
func ExportFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ExportExt) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}
