package ui

import (
	"strings"
	"testing"
)

func TestTableRendersAlignedRows(t *testing.T) {
	tbl := NewTable("file", "records")
	tbl.AddRow("out_delivery_point.json", "812")
	tbl.AddRow("out_house.json", "3")

	out := tbl.String()
	if tbl.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tbl.Len())
	}
	for _, want := range []string{"file", "records", "out_delivery_point.json", "812", "out_house.json"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered table missing %q:\n%s", want, out)
		}
	}
	for _, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
		if strings.HasSuffix(line, " ") {
			t.Errorf("line has trailing spaces: %q", line)
		}
	}
}

func TestEmptyTable(t *testing.T) {
	if got := NewTable("a").String(); got != "" {
		t.Fatalf("empty table rendered %q", got)
	}
}
