// Package spatial tags points with the named map regions containing them.
package spatial

import (
	"math"
	"strings"
)

// Area volume flags, in label precedence order.
const (
	FlagRaceTrack = "EMTAreaVolumeFlags::RaceTrack"
	FlagSmallArea = "EMTAreaVolumeFlags::SmallArea"
	FlagLargeArea = "EMTAreaVolumeFlags::LargeArea"
	FlagZone      = "EMTAreaVolumeFlags::Zone"
)

// LabelPrecedence is the flag order Label uses.
var LabelPrecedence = []string{FlagRaceTrack, FlagSmallArea, FlagLargeArea, FlagZone}

// Vec2 is a top-down point.
type Vec2 struct {
	X, Y float64
}

// BBox is an axis-aligned bounding box.
type BBox struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// Contains reports whether p lies inside or on the box.
func (b BBox) Contains(p Vec2) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// Area is a named polygon. The vertex ring may be non-convex and may repeat
// its first vertex at the end.
type Area struct {
	Name     string
	Flag     string
	Vertices []Vec2
	bbox     BBox
}

// NewArea builds an Area and caches its bounding box.
func NewArea(name, flag string, vertices []Vec2) Area {
	a := Area{Name: name, Flag: flag, Vertices: vertices}
	a.bbox = boundingBox(vertices)
	return a
}

// BBox returns the area's bounding box.
func (a Area) BBox() BBox {
	return a.bbox
}

func boundingBox(vs []Vec2) BBox {
	b := BBox{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	for _, v := range vs {
		b.MinX = math.Min(b.MinX, v.X)
		b.MinY = math.Min(b.MinY, v.Y)
		b.MaxX = math.Max(b.MaxX, v.X)
		b.MaxY = math.Max(b.MaxY, v.Y)
	}
	return b
}

// Contains reports whether p is inside the area by ray-casting parity.
// Areas with fewer than 3 vertices contain nothing.
func (a Area) Contains(p Vec2) bool {
	if len(a.Vertices) < 3 {
		return false
	}
	if !a.bbox.Contains(p) {
		return false
	}
	return pointInPolygon(p, a.Vertices)
}

func pointInPolygon(p Vec2, poly []Vec2) bool {
	inside := false
	j := len(poly) - 1
	for i := range poly {
		vi, vj := poly[i], poly[j]
		if (vi.Y > p.Y) != (vj.Y > p.Y) &&
			p.X < (vj.X-vi.X)*(p.Y-vi.Y)/(vj.Y-vi.Y)+vi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// Containing returns the areas containing p, in input order.
func Containing(p Vec2, areas []Area) []Area {
	var out []Area
	for _, a := range areas {
		if a.Contains(p) {
			out = append(out, a)
		}
	}
	return out
}

// Label collapses matched areas to a display label: for each flag in
// LabelPrecedence the first area carrying it, names joined with ", ".
func Label(areas []Area) string {
	var parts []string
	for _, flag := range LabelPrecedence {
		for _, a := range areas {
			if a.Flag == flag {
				parts = append(parts, a.Name)
				break
			}
		}
	}
	return strings.Join(parts, ", ")
}

// Names returns the names of areas, in order.
func Names(areas []Area) []string {
	if len(areas) == 0 {
		return nil
	}
	names := make([]string, len(areas))
	for i, a := range areas {
		names[i] = a.Name
	}
	return names
}

// Dedupe drops repeated vertices, keeping the first occurrence.
func Dedupe(vs []Vec2) []Vec2 {
	seen := make(map[Vec2]struct{}, len(vs))
	out := make([]Vec2, 0, len(vs))
	for _, v := range vs {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
