package uobject

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseObjectPath(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		container string
		index     int
		wantErr   bool
	}{
		{"simple", "MotorTown/Content/Maps/Jeju/Jeju_World.42", "MotorTown/Content/Maps/Jeju/Jeju_World", 42, false},
		{"dotted container", "Game/Foo.Bar.7", "Game/Foo.Bar", 7, false},
		{"zero", "Jeju_World.0", "Jeju_World", 0, false},
		{"no index", "Jeju_World", "Jeju_World", -1, true},
		{"bad index", "Jeju_World.PersistentLevel", "Jeju_World", -1, true},
		{"negative", "Jeju_World.-3", "Jeju_World", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ParseObjectPath("obj", tt.raw)
			if p.Container != tt.container {
				t.Errorf("container = %q, want %q", p.Container, tt.container)
			}
			if p.Index != tt.index {
				t.Errorf("index = %d, want %d", p.Index, tt.index)
			}
			if (p.Err() != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", p.Err(), tt.wantErr)
			}
			if tt.wantErr {
				var ipe *IndexParseError
				if !errors.As(p.Err(), &ipe) {
					t.Errorf("expected *IndexParseError, got %T", p.Err())
				}
			}
		})
	}
}

func TestObjectPathDecodeDefersIndexError(t *testing.T) {
	data := `[{"Type":"X","Name":"a","Properties":{"RootComponent":{"ObjectName":"c","ObjectPath":"World.nope"}}}]`
	objs, err := Decode(strings.NewReader(data))
	if err != nil {
		t.Fatalf("decode should not fail on a bad index: %v", err)
	}
	ref := objs[0].Properties.RootComponent
	if ref == nil || ref.Err() == nil {
		t.Fatal("expected deferred index error on RootComponent")
	}
}

func TestObjectPathRoundTrip(t *testing.T) {
	p := ParseObjectPath("Scene", "World.3")
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	var back ObjectPath
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.Container != "World" || back.Index != 3 || back.ObjectName != "Scene" {
		t.Errorf("round trip mismatch: %+v", back)
	}
}

func TestTextDisplay(t *testing.T) {
	var nilText *Text
	if nilText.Display() != "" {
		t.Error("nil text should display empty")
	}
	txt := &Text{LocalizedString: "Gwangjin", CultureInvariantString: "inv"}
	if got := txt.Display(); got != "Gwangjin" {
		t.Errorf("Display() = %q", got)
	}
	txt = &Text{CultureInvariantString: "inv"}
	if got := txt.Display(); got != "inv" {
		t.Errorf("Display() = %q", got)
	}
}
