package client

import (
	"encoding/json"
	"testing"
)

func TestPreviewRowKeepsColumnOrder(t *testing.T) {
	raw := `{"Equipment Name":"Pump-1","Type":"Pump","Flowrate":120.5,"Pressure":4.2,"Temperature":85}`

	var row PreviewRow
	if err := json.Unmarshal([]byte(raw), &row); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}

	want := []string{"Equipment Name", "Type", "Flowrate", "Pressure", "Temperature"}
	got := row.Columns()
	if len(got) != len(want) {
		t.Fatalf("Columns() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Columns()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPreviewRowCellValues(t *testing.T) {
	raw := `{"Equipment Name":"Pump-1","Flowrate":120.5,"Count":3,"Spare":null,"Active":true}`

	var row PreviewRow
	if err := json.Unmarshal([]byte(raw), &row); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}

	tests := []struct {
		col  string
		want string
	}{
		{"Equipment Name", "Pump-1"},
		{"Flowrate", "120.5"}, // no float rounding artifacts
		{"Count", "3"},
		{"Spare", ""},
		{"Active", "true"},
		{"Missing", ""},
	}
	for _, tt := range tests {
		if got := row.Cell(tt.col); got != tt.want {
			t.Errorf("Cell(%q) = %q, want %q", tt.col, got, tt.want)
		}
	}
}

func TestPreviewRowRejectsNonObject(t *testing.T) {
	var row PreviewRow
	if err := json.Unmarshal([]byte(`[1,2,3]`), &row); err == nil {
		t.Fatal("expected error for non-object row")
	}
}

func TestDatasetDecode(t *testing.T) {
	raw := `{
		"id": 1,
		"name": "plant1.csv",
		"uploaded_at": "2026-01-15T10:30:00Z",
		"summary": {
			"total_count": 3,
			"average_flowrate": 110.25,
			"average_pressure": 4.5,
			"average_temperature": 80.0,
			"type_distribution": {"Pump": 2, "Valve": 1}
		},
		"preview_rows": [
			{"Equipment Name": "Pump-1", "Type": "Pump"},
			{"Equipment Name": "Valve-1", "Type": "Valve"}
		]
	}`

	var ds Dataset
	if err := json.Unmarshal([]byte(raw), &ds); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}

	if ds.ID != 1 {
		t.Errorf("ID = %d, want 1", ds.ID)
	}
	if ds.Name != "plant1.csv" {
		t.Errorf("Name = %q, want plant1.csv", ds.Name)
	}
	if ds.Summary.TotalCount == nil || *ds.Summary.TotalCount != 3 {
		t.Errorf("TotalCount = %v, want 3", ds.Summary.TotalCount)
	}
	if ds.Summary.AverageFlowrate == nil || *ds.Summary.AverageFlowrate != 110.25 {
		t.Errorf("AverageFlowrate = %v, want 110.25", ds.Summary.AverageFlowrate)
	}
	if ds.Summary.TypeDistribution["Pump"] != 2 {
		t.Errorf("TypeDistribution[Pump] = %d, want 2", ds.Summary.TypeDistribution["Pump"])
	}

	cols := ds.Columns()
	if len(cols) != 2 || cols[0] != "Equipment Name" || cols[1] != "Type" {
		t.Errorf("Columns() = %v, want [Equipment Name Type]", cols)
	}
}

func TestDatasetColumnsEmpty(t *testing.T) {
	var ds Dataset
	if cols := ds.Columns(); cols != nil {
		t.Errorf("Columns() on empty dataset = %v, want nil", cols)
	}
}

func TestSummaryMissingFields(t *testing.T) {
	var s Summary
	if err := json.Unmarshal([]byte(`{"type_distribution":{}}`), &s); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if s.TotalCount != nil {
		t.Error("TotalCount should be nil when absent")
	}
	if s.AverageFlowrate != nil {
		t.Error("AverageFlowrate should be nil when absent")
	}
}
