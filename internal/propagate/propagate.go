// Package propagate copies demand storage from drop points onto the delivery
// points that share inventory with them.
package propagate

import (
	"fmt"

	"github.com/aidanlsb/mtpoi/internal/model"
)

// Link is one drop-point reference, by short GUID.
type Link struct {
	From string
	To   string
}

func (l Link) String() string {
	return fmt.Sprintf("%s -> %s", l.From, l.To)
}

// Report describes what DropPoints did.
type Report struct {
	// Updated counts points whose demand storage changed.
	Updated int
	// Unknown lists drop points naming a GUID no point has.
	Unknown []Link
	// Cycles lists links skipped because they lead back to a point
	// already being resolved.
	Cycles []Link
}

type state uint8

const (
	pending state = iota
	visiting
	done
)

// DropPoints returns a copy of points in which each point's demand storage
// is overlaid with the demand storage of every drop point it lists, linked
// values overwriting its own. Drop points are resolved first, so chains
// propagate end to end and applying DropPoints to its own output changes
// nothing. points is not modified.
func DropPoints(points []model.DeliveryPoint) ([]model.DeliveryPoint, Report) {
	p := &propagator{
		in:    points,
		out:   make([]model.DeliveryPoint, len(points)),
		state: make([]state, len(points)),
		index: make(map[string]int, len(points)),
	}
	for i, pt := range points {
		p.out[i] = pt.Clone()
		// A duplicated GUID links to the last point carrying it.
		if pt.GUID != "" {
			p.index[pt.GUID] = i
		}
	}
	for i := range points {
		p.resolve(i)
	}
	return p.out, p.report
}

type propagator struct {
	in     []model.DeliveryPoint
	out    []model.DeliveryPoint
	state  []state
	index  map[string]int
	report Report
}

func (p *propagator) resolve(i int) map[string]int64 {
	if p.state[i] == done {
		return p.out[i].DemandStorage
	}
	p.state[i] = visiting

	pt := &p.out[i]
	changed := false
	for _, guid := range pt.DropPoint {
		j, ok := p.index[guid]
		if !ok {
			p.report.Unknown = append(p.report.Unknown, Link{From: pt.GUID, To: guid})
			continue
		}
		if p.state[j] == visiting {
			p.report.Cycles = append(p.report.Cycles, Link{From: pt.GUID, To: guid})
			continue
		}
		linked := p.resolve(j)
		for k, v := range linked {
			if pt.DemandStorage == nil {
				pt.DemandStorage = make(map[string]int64, len(linked))
			}
			if old, ok := pt.DemandStorage[k]; !ok || old != v {
				pt.DemandStorage[k] = v
				changed = true
			}
		}
	}
	if changed {
		p.report.Updated++
	}
	p.state[i] = done
	return pt.DemandStorage
}
