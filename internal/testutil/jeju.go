package testutil

import "testing"

// Dump-relative paths of the Jeju fixture.
const (
	JejuWorldFile        = "MotorTown/Content/Maps/Jeju/Jeju_World.json"
	JejuDeliveryPointDir = "MotorTown/Content/Objects/Mission/Delivery/DeliveryPoint"
	JejuGeneratedDir     = "MotorTown/Content/Maps/Jeju/Jeju_World/_Generated_"
	JejuHousesFile       = "MotorTown/Content/DataAsset/Houses.json"
)

// GUIDs and names the Jeju fixture is built from.
const (
	FarmGUID      = "0A1B2C3D-0000-0000-0000-00000000000A"
	FarmShort     = "0a1b2c3d00000000000000000000000a"
	SiloGUID      = "0A1B2C3D-0000-0000-0000-00000000000B"
	SiloShort     = "0a1b2c3d00000000000000000000000b"
	StopGUID      = "0A1B2C3D-0000-0000-0000-0000000000C1"
	TerminalGUID  = "0A1B2C3D-0000-0000-0000-0000000000C2"
	TerminalShort = "0a1b2c3d0000000000000000000000c2"
)

type obj = map[string]any

func path(name, raw string) obj {
	return obj{"ObjectName": name, "ObjectPath": raw}
}

func scene(x, y float64) obj {
	return obj{
		"Type":       "SceneComponent",
		"Name":       "DefaultSceneRoot",
		"Properties": obj{"RelativeLocation": obj{"X": x, "Y": y, "Z": 0}},
	}
}

func ring(points ...[2]float64) []obj {
	out := make([]obj, len(points))
	for i, p := range points {
		out[i] = obj{"X": p[0], "Y": p[1], "Z": 0}
	}
	return out
}

// JejuDump builds a small but complete dump: two area volumes, a farm
// delivery point sharing inventory with a silo, a bus stop linked to a
// terminal, a house, and one EV charger in a generated cell.
//
// The farm sits at (5,5) inside both areas; everything else sits at
// (50,50), inside the zone only.
func JejuDump(t *testing.T) *TestDump {
	t.Helper()
	const world = "/Game/Maps/Jeju/Jeju_World"

	worldObjects := []obj{
		0: {
			"Type": "MTAreaVolume", "Name": "MTAreaVolume_Jeju",
			"Properties": obj{
				"AreaName":        obj{"SourceString": "Jeju"},
				"AreaVolumeFlags": []string{"EMTAreaVolumeFlags::Zone"},
				"TopViewLines":    ring([2]float64{-100, -100}, [2]float64{100, -100}, [2]float64{100, 100}, [2]float64{-100, 100}, [2]float64{-100, -100}),
			},
		},
		1: {
			"Type": "MTAreaVolume", "Name": "MTAreaVolume_Harbor",
			"Properties": obj{
				"AreaName":        obj{"SourceString": "Harbor"},
				"AreaVolumeFlags": []string{"EMTAreaVolumeFlags::SmallArea"},
				"TopViewLines":    ring([2]float64{0, 0}, [2]float64{10, 0}, [2]float64{10, 10}, [2]float64{0, 10}),
			},
		},
		2: {
			"Type": "Farm_C", "Name": "Farm_C_1",
			"Properties": obj{
				"RootComponent":       path("DefaultSceneRoot", world+".3"),
				"DeliveryPointGuid":   FarmGUID,
				"PointName":           obj{"Texts": []obj{{"SourceString": "Jeju"}, {"SourceString": "Farm"}}},
				"InputInventoryShare": []obj{path("Farm_C_2", world+".4")},
			},
		},
		3: scene(5, 5),
		4: {
			"Type": "Farm_C", "Name": "Farm_C_2",
			"Properties": obj{
				"RootComponent":     path("DefaultSceneRoot", world+".5"),
				"DeliveryPointGuid": SiloGUID,
				"MissionPointName":  obj{"SourceString": "Silo"},
				"DemandConfigs": []obj{
					{"CargoType": "EDeliveryCargoType::None", "CargoKey": "Coal", "PaymentMultiplier": 1.5, "MaxStorage": 20},
					{"CargoType": "EDeliveryCargoType::Log", "CargoKey": "None", "PaymentMultiplier": 1, "MaxStorage": 80},
				},
				"MaxDeliveryDistance": 5000,
			},
		},
		5: scene(50, 50),
		6: {
			"Type": "BusStop_01_C", "Name": "BusStop_01_C_1",
			"Properties": obj{
				"RootComponent":          path("DefaultSceneRoot", world+".7"),
				"BusStopGuid":            StopGUID,
				"BusStopName":            obj{"Texts": []obj{{"LocalizedString": "Harbor"}, {"LocalizedString": "Stop"}}},
				"AdditionalDestinations": []obj{path("BusTerminal_01_C_1", world+".8")},
			},
		},
		7: scene(50, 50),
		8: {
			"Type": "BusTerminal_01_C", "Name": "BusTerminal_01_C_1",
			"Properties": obj{
				"RootComponent":      path("DefaultSceneRoot", world+".9"),
				"BusStopGuid":        TerminalGUID,
				"BusStopDisplayName": obj{"LocalizedString": "Jeju Terminal"},
				"Tags":               []string{"BusTerminal"},
			},
		},
		9: scene(50, 50),
		10: {
			"Type": "House_C", "Name": "House_C_1",
			"Properties": obj{
				"RootComponent": path("DefaultSceneRoot", world+".11"),
				"HousegKey":     "House_A",
			},
		},
		11: scene(50, 50),
	}

	const farm = "/Game/Objects/Mission/Delivery/DeliveryPoint/Farm"
	blueprint := []obj{
		{"Type": "BlueprintGeneratedClass", "Name": "Farm_C", "ClassDefaultObject": path("Default__Farm_C", farm+".1")},
		{
			"Type": "Farm_C", "Name": "Default__Farm_C",
			"Template": path("Default__DeliveryPointBase_C", "/Game/Objects/Mission/Delivery/DeliveryPointBase.0"),
			"Properties": obj{
				"MaxStorage":          40,
				"MaxDeliveryDistance": 3000,
				"ProductionConfigs": []obj{{
					"InputCargoTypes":       []obj{{"Key": "EDeliveryCargoType::Log", "Value": 2}},
					"OutputCargos":          []obj{{"Key": "Pizza_01", "Value": 1}},
					"ProductionTimeSeconds": 60,
				}},
			},
		},
	}
	template := []obj{{
		"Type": "DeliveryPointBase_C", "Name": "Default__DeliveryPointBase_C",
		"Properties": obj{
			"MissionPointName": obj{"SourceString": "Delivery Point"},
			"StorageConfigs": []obj{
				{"CargoType": "EDeliveryCargoType::Food", "CargoKey": "None", "MaxStorage": 30},
			},
			"MaxDeliveryReceiveDistance": 800,
		},
	}}
	cell := []obj{
		{
			"Type": "EVCharger_C", "Name": "EVCharger_C_1",
			"Properties": obj{"RootComponent": path("DefaultSceneRoot", "/Game/Maps/Jeju/Jeju_World/_Generated_/Cell_01.1")},
		},
		scene(5, 5),
	}
	houses := []obj{{"Rows": obj{"House_A": obj{"Cost": 50000}}}}

	return NewTestDump(t).
		WithJSON(JejuWorldFile, worldObjects).
		WithJSON(JejuDeliveryPointDir+"/Farm.json", blueprint).
		WithJSON("MotorTown/Content/Objects/Mission/Delivery/DeliveryPointBase.json", template).
		WithJSON(JejuGeneratedDir+"/Cell_01.json", cell).
		WithJSON(JejuHousesFile, houses).
		Build()
}
