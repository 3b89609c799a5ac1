package c2m2

import (
	"math"
	"strconv"
)

// Kind identifies the type of value held by a Cell.
type Kind int

const (
	KindEmpty Kind = iota
	KindString
	KindNumber
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return "empty"
	}
}

// Cell is a single worksheet value. The zero Cell is empty.
// Cells are comparable with ==.
type Cell struct {
	kind Kind
	str  string
	num  float64
	b    bool
}

// StringCell returns a text cell. An empty string yields an empty cell.
func StringCell(s string) Cell {
	if s == "" {
		return Cell{}
	}
	return Cell{kind: KindString, str: s}
}

// NumberCell returns a numeric cell.
func NumberCell(f float64) Cell {
	return Cell{kind: KindNumber, num: f}
}

// IntCell returns a numeric cell holding an integer.
func IntCell(i int) Cell {
	return Cell{kind: KindNumber, num: float64(i)}
}

// BoolCell returns a boolean cell.
func BoolCell(b bool) Cell {
	return Cell{kind: KindBool, b: b}
}

// Kind reports the cell's value type.
func (c Cell) Kind() Kind { return c.kind }

// IsEmpty reports whether the cell holds no value.
func (c Cell) IsEmpty() bool { return c.kind == KindEmpty }

// Text returns the string value and true for text cells only.
func (c Cell) Text() (string, bool) {
	if c.kind != KindString {
		return "", false
	}
	return c.str, true
}

// Float returns the numeric value and true for numeric cells only.
func (c Cell) Float() (float64, bool) {
	if c.kind != KindNumber {
		return 0, false
	}
	return c.num, true
}

// String returns the display form of the cell. Integral numbers render
// without a fractional part, so the MIL value 1 displays as "1".
func (c Cell) String() string {
	switch c.kind {
	case KindString:
		return c.str
	case KindNumber:
		return formatNumber(c.num)
	case KindBool:
		if c.b {
			return "TRUE"
		}
		return "FALSE"
	default:
		return ""
	}
}

// value returns the cell as the Go value excelize expects when writing.
func (c Cell) value() interface{} {
	switch c.kind {
	case KindString:
		return c.str
	case KindNumber:
		if c.num == math.Trunc(c.num) && math.Abs(c.num) < 1<<53 {
			return int64(c.num)
		}
		return c.num
	case KindBool:
		return c.b
	default:
		return nil
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
