// Package slugs provides the stable keys used for areas and points in the
// SQLite index and in CLI output.
package slugs

import (
	"strconv"
	"strings"

	goslug "github.com/gosimple/slug"

	"github.com/aidanlsb/mtpoi/internal/model"
)

// AreaKey converts an area name to a URL-safe key.
// "Jeju Harbor" -> "jeju-harbor".
func AreaKey(name string) string {
	slugged := goslug.Make(name)
	if slugged == "" {
		slugged = strings.ToLower(strings.Join(strings.Fields(name), "-"))
	}
	return slugged
}

// PointKey returns the key for a point with the given type and GUID. Points
// without a GUID fall back to their position in the output.
func PointKey(typ, guid string, index int) string {
	base := AreaKey(strings.TrimSuffix(typ, "_C"))
	if short := model.ShortGUID(guid); short != "" {
		return base + "/" + short
	}
	return base + "/" + strconv.Itoa(index)
}
