package source

import (
	"github.com/aidanlsb/mtpoi/internal/model"
	"github.com/aidanlsb/mtpoi/internal/spatial"
	"github.com/aidanlsb/mtpoi/internal/uobject"
)

// TerminalTag marks bus terminals.
const TerminalTag = "BusTerminal"

// BusStopSource is a placed bus stop or terminal.
type BusStopSource struct {
	Object                 string
	Type                   string
	Name                   string
	GUID                   string
	Terminal               bool
	RootComponent          uobject.ObjectPath
	AdditionalDestinations []uobject.ObjectPath
}

// BusStop adapts a placed bus stop actor. The name is the localized bus stop
// name fragments joined by spaces, else the localized display name.
func BusStop(obj *uobject.Object) (*BusStopSource, error) {
	p, root, err := placed(obj)
	if err != nil {
		return nil, err
	}
	name := joinTexts(p.BusStopName, (*uobject.Text).Localized)
	if name == "" {
		name = p.BusStopDisplayName.Localized()
	}
	return &BusStopSource{
		Object:                 obj.Name,
		Type:                   obj.Type,
		Name:                   name,
		GUID:                   model.ShortGUID(p.BusStopGuid),
		Terminal:               hasTag(p.Tags, TerminalTag),
		RootComponent:          root,
		AdditionalDestinations: p.AdditionalDestinations,
	}, nil
}

// BusStopGUID returns the short bus stop GUID of obj, or "".
func BusStopGUID(obj *uobject.Object) string {
	if obj == nil || obj.Properties == nil {
		return ""
	}
	return model.ShortGUID(obj.Properties.BusStopGuid)
}

// ChargerSource is a placed EV charger.
type ChargerSource struct {
	Object        string
	RootComponent uobject.ObjectPath
}

// Charger adapts a placed EV charger actor.
func Charger(obj *uobject.Object) (*ChargerSource, error) {
	_, root, err := placed(obj)
	if err != nil {
		return nil, err
	}
	return &ChargerSource{Object: obj.Name, RootComponent: root}, nil
}

// HouseSource is a placed house plot.
type HouseSource struct {
	Object        string
	Key           string
	RootComponent uobject.ObjectPath
	Size          model.Vector2
}

// House adapts a placed house actor. Size is the zero vector when the actor
// does not set an area size.
func House(obj *uobject.Object) (*HouseSource, error) {
	p, root, err := placed(obj)
	if err != nil {
		return nil, err
	}
	h := &HouseSource{Object: obj.Name, Key: p.HousegKey, RootComponent: root}
	if p.AreaSize != nil {
		h.Size = model.Vector2{X: p.AreaSize.X, Y: p.AreaSize.Y}
	}
	return h, nil
}

// AreaVolumeSource is a named map region.
type AreaVolumeSource struct {
	Name     string
	Flag     string
	Vertices []spatial.Vec2
}

// AreaVolume adapts an area volume actor. Missing attributes are left empty;
// the top-view polyline is de-duplicated into a vertex ring.
func AreaVolume(obj *uobject.Object) AreaVolumeSource {
	p := obj.Properties
	if p == nil {
		return AreaVolumeSource{}
	}
	a := AreaVolumeSource{}
	if p.AreaName != nil {
		a.Name = p.AreaName.SourceString
	}
	if len(p.AreaVolumeFlags) > 0 {
		a.Flag = p.AreaVolumeFlags[0]
	}
	vs := make([]spatial.Vec2, len(p.TopViewLines))
	for i, l := range p.TopViewLines {
		vs[i] = spatial.Vec2{X: l.X, Y: l.Y}
	}
	a.Vertices = spatial.Dedupe(vs)
	return a
}

// Area converts the source into a spatial.Area.
func (a AreaVolumeSource) Area() spatial.Area {
	return spatial.NewArea(a.Name, a.Flag, a.Vertices)
}
