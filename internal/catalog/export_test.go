package catalog

import (
	"bytes"
	"encoding/csv"
	"testing"
)

func TestWriteCSV(t *testing.T) {
	c := &Catalog{Products: []Product{
		{ID: 1, Name: "Aroma Pro", Brand: "Alpha", Category: Device},
		{ID: 2, Name: "Lavender, 50g", Brand: "Alpha", Category: Refill, GrammG: 50},
	}}

	var buf bytes.Buffer
	if err := c.WriteCSV(&buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("unreadable csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected header and 2 rows, got %d", len(rows))
	}
	if rows[1][4] != "" {
		t.Errorf("Expected empty weight for device, got %q", rows[1][4])
	}
	if rows[2][1] != "Lavender, 50g" || rows[2][3] != "REFILL" || rows[2][4] != "50" {
		t.Errorf("unexpected refill row %v", rows[2])
	}
}
