package quarry

import (
	"strings"
	"testing"
)

func TestDecodeDelimited_Comma(t *testing.T) {
	table, err := decodeDelimited(strings.NewReader("A,B\n1,2\n3,4\n"), ',')
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if table.Width() != 2 || table.Len() != 2 {
		t.Errorf("shape mismatch: got %dx%d", table.Width(), table.Len())
	}
}

func TestDecodeDelimited_Tab(t *testing.T) {
	table, err := decodeDelimited(strings.NewReader("A\tB\nx\ty\n"), '\t')
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if table.Rows[0][0] != "x" || table.Rows[0][1] != "y" {
		t.Errorf("row mismatch: got %v", table.Rows[0])
	}
}

func TestDecodeDelimited_Ragged(t *testing.T) {
	if _, err := decodeDelimited(strings.NewReader("A,B\n1\n"), ','); err == nil {
		t.Error("expected error for ragged row")
	}
}

func TestDecodeDelimited_Empty(t *testing.T) {
	if _, err := decodeDelimited(strings.NewReader(""), ','); err == nil {
		t.Error("expected error for missing header")
	}
}

func TestDecodeDelimited_HeaderOnly(t *testing.T) {
	table, err := decodeDelimited(strings.NewReader("A,B\n"), ',')
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if table.Len() != 0 || table.Width() != 2 {
		t.Errorf("expected empty 2-column table, got %dx%d", table.Width(), table.Len())
	}
}
