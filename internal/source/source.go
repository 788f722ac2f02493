// Package source narrows decoded reflection objects to the few attributes
// each point category is built from.
//
// Adapters for world actors return a *SchemaGapError when a bag the builders
// rely on is missing. Adapters for type-default and template records are
// tolerant: a missing bag just means the level defines nothing.
package source

import (
	"fmt"
	"strings"

	"github.com/aidanlsb/mtpoi/internal/model"
	"github.com/aidanlsb/mtpoi/internal/uobject"
)

// SchemaGapError reports a required attribute missing from an object.
type SchemaGapError struct {
	Object string
	Type   string
	Field  string
}

func (e *SchemaGapError) Error() string {
	return fmt.Sprintf("object %s (%s): missing %s", e.Object, e.Type, e.Field)
}

func gap(obj *uobject.Object, field string) error {
	return &SchemaGapError{Object: obj.Name, Type: obj.Type, Field: field}
}

// placed returns the property bag and root component of a world actor.
func placed(obj *uobject.Object) (*uobject.Properties, uobject.ObjectPath, error) {
	if obj.Properties == nil {
		return nil, uobject.ObjectPath{}, gap(obj, "Properties")
	}
	if obj.Properties.RootComponent == nil || obj.Properties.RootComponent.IsZero() {
		return nil, uobject.ObjectPath{}, gap(obj, "Properties.RootComponent")
	}
	return obj.Properties, *obj.Properties.RootComponent, nil
}

// Location returns the relative location of a scene component, or nil.
func Location(scene *uobject.Object) *model.Vector3 {
	if scene == nil || scene.Properties == nil || scene.Properties.RelativeLocation == nil {
		return nil
	}
	v := scene.Properties.RelativeLocation
	return &model.Vector3{X: v.X, Y: v.Y, Z: v.Z}
}

func joinTexts(l *uobject.TextList, text func(*uobject.Text) string) string {
	if l == nil {
		return ""
	}
	parts := make([]string, len(l.Texts))
	for i := range l.Texts {
		parts[i] = text(&l.Texts[i])
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
