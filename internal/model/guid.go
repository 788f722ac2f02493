package model

import (
	"strings"

	"github.com/google/uuid"
)

// ShortGUID normalizes an engine GUID for linking: lower-case, no hyphens.
// Canonical UUID strings go through uuid.Parse so braces and "urn:uuid:"
// prefixes are accepted too; anything else is normalized textually.
func ShortGUID(guid string) string {
	guid = strings.TrimSpace(guid)
	if guid == "" {
		return ""
	}
	if u, err := uuid.Parse(guid); err == nil {
		return strings.ReplaceAll(u.String(), "-", "")
	}
	return strings.ToLower(strings.ReplaceAll(guid, "-", ""))
}
