package quarry

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// decodeDelimited reads delimited text into a Table. The first record is the
// header; every following record must have the same number of fields.
func decodeDelimited(r io.Reader, comma rune) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.ReuseRecord = false

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("quarry: missing header row")
		}
		return nil, fmt.Errorf("quarry: reading header: %w", err)
	}

	var rows [][]string
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("quarry: reading row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, record)
	}

	return &Table{Header: header, Rows: rows}, nil
}
