// Package client provides the HTTP client for the analytics backend.
// Types mirror the backend wire format without importing server code.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Summary holds the server-computed statistics for one dataset. The fields
// are pointers so a missing value renders as a placeholder instead of 0.00.
type Summary struct {
	TotalCount         *int           `json:"total_count"`
	AverageFlowrate    *float64       `json:"average_flowrate"`
	AveragePressure    *float64       `json:"average_pressure"`
	AverageTemperature *float64       `json:"average_temperature"`
	TypeDistribution   map[string]int `json:"type_distribution"`
}

// Dataset is the full analytic result of one uploaded file. It is immutable
// once received; a new upload replaces it wholesale.
type Dataset struct {
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	UploadedAt  time.Time    `json:"uploaded_at"`
	Summary     Summary      `json:"summary"`
	PreviewRows []PreviewRow `json:"preview_rows"`
}

// Columns returns the column names derived from the first preview row, in
// the order the uploaded file declared them.
func (d *Dataset) Columns() []string {
	if len(d.PreviewRows) == 0 {
		return nil
	}
	return d.PreviewRows[0].Columns()
}

// HistoryEntry is a lightweight reference to a past dataset. The listing
// endpoint may include the summary; the TUI shows its total count when it
// does.
type HistoryEntry struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	UploadedAt time.Time `json:"uploaded_at"`
	Summary    *Summary  `json:"summary,omitempty"`
}

// PreviewRow is one row of the dataset preview. The backend emits rows as
// JSON objects keyed by column name; decoding into a Go map would lose the
// column order, so the object tokens are walked instead.
type PreviewRow struct {
	cols  []string
	cells map[string]string
}

// Columns returns the row's column names in wire order.
func (r *PreviewRow) Columns() []string {
	return r.cols
}

// Cell returns the display value for a column, or "" when absent.
func (r *PreviewRow) Cell(col string) string {
	return r.cells[col]
}

// UnmarshalJSON decodes a row object preserving key order. Cell values are
// heterogeneous (strings and numbers, depending on the CSV), so everything
// is normalized to its display string on receipt.
func (r *PreviewRow) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("preview row: expected object, got %v", tok)
	}

	r.cols = nil
	r.cells = make(map[string]string)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("preview row: expected key, got %v", keyTok)
		}

		var val interface{}
		if err := dec.Decode(&val); err != nil {
			return err
		}

		r.cols = append(r.cols, key)
		r.cells[key] = formatCell(val)
	}

	return nil
}

func formatCell(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
