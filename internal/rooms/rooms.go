// Package rooms serves the hotel room catalog from a spreadsheet.
package rooms

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Room is one catalog entry.
type Room struct {
	Type        string `json:"type"`
	BedType     string `json:"bed_type"`
	Capacity    string `json:"capacity"`
	Price       string `json:"price"`
	Description string `json:"description,omitempty"`
}

// headerAliases maps recognized column headers to Room fields.
var headerAliases = map[string]string{
	"tipe":         "type",
	"tipe kamar":   "type",
	"type":         "type",
	"tempat tidur": "bed_type",
	"bed type":     "bed_type",
	"kapasitas":    "capacity",
	"capacity":     "capacity",
	"harga":        "price",
	"price":        "price",
	"deskripsi":    "description",
	"description":  "description",
	"keterangan":   "description",
}

// LoadFile reads the room catalog from a spreadsheet on disk. The first
// sheet's first row is treated as a header; recognized columns (Indonesian
// or English) map to Room fields.
func LoadFile(path string) ([]Room, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()
	return load(f)
}

// Load reads the room catalog from in-memory spreadsheet content.
func Load(content []byte) ([]Room, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()
	return load(f)
}

func load(f *excelize.File) ([]Room, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("spreadsheet has no data rows")
	}

	fields := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		fields[i] = headerAliases[strings.ToLower(strings.TrimSpace(h))]
	}

	var result []Room
	for _, row := range rows[1:] {
		var r Room
		empty := true
		for i, cell := range row {
			if i >= len(fields) {
				break
			}
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			switch fields[i] {
			case "type":
				r.Type = cell
			case "bed_type":
				r.BedType = cell
			case "capacity":
				r.Capacity = cell
			case "price":
				r.Price = cell
			case "description":
				r.Description = cell
			default:
				continue
			}
			empty = false
		}
		if !empty {
			result = append(result, r)
		}
	}
	return result, nil
}
