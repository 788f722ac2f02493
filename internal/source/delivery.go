package source

import (
	"strconv"
	"strings"

	"github.com/aidanlsb/mtpoi/internal/cascade"
	"github.com/aidanlsb/mtpoi/internal/model"
	"github.com/aidanlsb/mtpoi/internal/uobject"
)

// DeliveryPointSource is what one record level says about a delivery point.
type DeliveryPointSource struct {
	Object string
	Type   string

	Name          string
	GUID          string // short form
	RootComponent uobject.ObjectPath
	MaxStorage    int64
	Rules         model.CargoRules
	DropPoints    []uobject.ObjectPath

	MaxDeliveryDistance        *float64
	MaxDeliveryReceiveDistance *float64
}

// DeliveryPoint adapts a placed delivery point actor.
func DeliveryPoint(obj *uobject.Object) (*DeliveryPointSource, error) {
	props, root, err := placed(obj)
	if err != nil {
		return nil, err
	}
	src := deliveryPoint(obj, props)
	src.RootComponent = root
	return src, nil
}

// DeliveryPointDefaults adapts a type-default or template record. nil in,
// nil out.
func DeliveryPointDefaults(obj *uobject.Object) *DeliveryPointSource {
	if obj == nil {
		return nil
	}
	if obj.Properties == nil {
		return &DeliveryPointSource{Object: obj.Name, Type: obj.Type}
	}
	return deliveryPoint(obj, obj.Properties)
}

func deliveryPoint(obj *uobject.Object, p *uobject.Properties) *DeliveryPointSource {
	return &DeliveryPointSource{
		Object:                     obj.Name,
		Type:                       obj.Type,
		Name:                       Name(p),
		GUID:                       model.ShortGUID(p.DeliveryPointGuid),
		MaxStorage:                 p.MaxStorage,
		Rules:                      cargoRules(p),
		DropPoints:                 p.InputInventoryShare,
		MaxDeliveryDistance:        p.MaxDeliveryDistance,
		MaxDeliveryReceiveDistance: p.MaxDeliveryReceiveDistance,
	}
}

// DeliveryPointGUID returns the short delivery point GUID of obj, or "".
func DeliveryPointGUID(obj *uobject.Object) string {
	if obj == nil || obj.Properties == nil {
		return ""
	}
	return model.ShortGUID(obj.Properties.DeliveryPointGuid)
}

// Name picks a display name from a property bag: the point-name fragments
// joined by spaces, else the mission point name, else the delivery point
// name with its number. Strategies never combine.
func Name(p *uobject.Properties) string {
	if p == nil {
		return ""
	}
	name, _ := cascade.FirstOf(
		func() (string, bool) {
			s := joinTexts(p.PointName, (*uobject.Text).Display)
			return s, s != ""
		},
		func() (string, bool) {
			s := p.MissionPointName.Display()
			return s, strings.TrimSpace(s) != ""
		},
		func() (string, bool) {
			if p.DeliveryPointName == nil {
				return "", false
			}
			s := p.DeliveryPointName.Name.Display()
			if strings.TrimSpace(s) == "" {
				return "", false
			}
			if n := p.DeliveryPointName.Number; n != nil {
				s += " " + strconv.FormatInt(*n, 10)
			}
			return s, true
		},
	)
	return name
}

func cargoRules(p *uobject.Properties) model.CargoRules {
	var r model.CargoRules
	for _, s := range p.StorageConfigs {
		r.Storage = append(r.Storage, model.StorageRule{
			CargoType:  s.CargoType,
			CargoKey:   s.CargoKey,
			MaxStorage: s.MaxStorage,
		})
	}
	for _, d := range p.DemandConfigs {
		r.Demand = append(r.Demand, model.DemandRule{
			CargoType:         d.CargoType,
			CargoKey:          d.CargoKey,
			MaxStorage:        d.MaxStorage,
			PaymentMultiplier: d.PaymentMultiplier,
		})
	}
	for _, c := range p.ProductionConfigs {
		r.Production = append(r.Production, model.ProductionRule{
			InputCargos:               amounts(c.InputCargos),
			InputCargoTypes:           amounts(c.InputCargoTypes),
			OutputCargos:              amounts(c.OutputCargos),
			OutputCargoTypes:          amounts(c.OutputCargoTypes),
			ProductionTimeSeconds:     c.ProductionTimeSeconds,
			ProductionSpeedMultiplier: c.ProductionSpeedMultiplier,
			LocalFoodSupply:           c.LocalFoodSupply,
		})
	}
	return r
}

func amounts(in []uobject.CargoAmount) []model.CargoAmount {
	if len(in) == 0 {
		return nil
	}
	out := make([]model.CargoAmount, len(in))
	for i, a := range in {
		out[i] = model.CargoAmount{Key: a.Key, Value: a.Value}
	}
	return out
}
