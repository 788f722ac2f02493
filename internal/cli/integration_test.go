//go:build integration

package cli_test

import (
	"testing"

	"github.com/aidanlsb/mtpoi/internal/testutil"
)

func TestIntegration_ExtractThenCheck(t *testing.T) {
	dump := testutil.JejuDump(t)

	result := dump.RunCLI("extract", "--out", "out", "--compress")
	result.MustSucceed(t)
	if got := len(result.DataList("files")); got != 5 {
		t.Fatalf("files = %d, want 5\n%s", got, result.RawJSON)
	}
	for _, name := range []string{"out/out_delivery_point.json", "out/out_delivery_point.json.zst", "out/out_area_volume.json"} {
		if !dump.FileExists(name) {
			t.Errorf("expected %s to exist", name)
		}
	}

	dump.RunCLI("check", "out").MustSucceed(t)
}

func TestIntegration_LenientSkipsBrokenEntity(t *testing.T) {
	good := testutil.JejuDump(t)
	world := good.ReadFile(testutil.JejuWorldFile)
	// Drop the closing bracket and append a bus stop whose root component
	// points past the end of the world.
	broken := world[:len(world)-1] + `,
  {"Type": "BusStop_02_C", "Name": "BusStop_02_C_broken",
   "Properties": {"RootComponent": {"ObjectName": "x", "ObjectPath": "/Game/Maps/Jeju/Jeju_World.999"}}}
]`
	dump := testutil.NewTestDump(t).
		WithFile(testutil.JejuWorldFile, broken).
		WithFile(testutil.JejuDeliveryPointDir+"/Farm.json", good.ReadFile(testutil.JejuDeliveryPointDir+"/Farm.json")).
		WithFile("MotorTown/Content/Objects/Mission/Delivery/DeliveryPointBase.json", good.ReadFile("MotorTown/Content/Objects/Mission/Delivery/DeliveryPointBase.json")).
		WithFile(testutil.JejuGeneratedDir+"/Cell_01.json", good.ReadFile(testutil.JejuGeneratedDir+"/Cell_01.json")).
		WithFile(testutil.JejuHousesFile, good.ReadFile(testutil.JejuHousesFile)).
		Build()

	dump.RunCLI("extract", "--only", "bus").MustFail(t, "REF_INVALID")

	result := dump.RunCLI("extract", "--only", "bus", "--strict=false")
	result.MustSucceed(t)
	if !result.HasWarning("ENTITY_SKIPPED", "BusStop_02_C_broken") {
		t.Fatalf("expected ENTITY_SKIPPED warning, got %+v", result.Warnings)
	}
}

func TestIntegration_ConfigFileIsRead(t *testing.T) {
	dump := testutil.NewTestDump(t).
		WithFile("mtpoi.toml", "dump_root = \"dump\"\nstrict = false\n").
		Build()

	result := dump.RunCLI("config", "show")
	result.MustSucceed(t)
	cfg, _ := result.Data["config"].(map[string]interface{})
	if cfg["dump_root"] != "dump" || cfg["strict"] != false {
		t.Fatalf("unexpected config: %v", cfg)
	}
	if result.DataString("path") != "mtpoi.toml" {
		t.Fatalf("path = %q, want mtpoi.toml", result.DataString("path"))
	}

	testutil.NewTestDump(t).
		WithFile("mtpoi.toml", "dump_rot = \"x\"\n").
		Build().
		RunCLI("config", "show").
		MustFail(t, "CONFIG_INVALID")
}
