package hdl

import (
	"reflect"
	"testing"
)

func TestParsePins(t *testing.T) {
	td := []struct {
		in   string
		pins []Pin
		err  string
	}{
		{"", nil, ""},
		{"a", []Pin{{"a", 1, 0}}, ""},
		{"a[16], b[16], op[3]", []Pin{{"a", 16, 0}, {"b", 16, 7}, {"op", 3, 14}}, ""},
		{"a[", nil, `in "a[" at pos 3: integer value expected after '['`},
		{"a[0]", nil, `in "a[0]" at pos 3: invalid bus width 0`},
		{"a[4", nil, `in "a[4" at pos 4: closing ']' expected after bus width`},
		{"a b", nil, `in "a b" at pos 3: expected comma or end of input, got identifier "b"`},
		{"a,,b", nil, `in "a,,b" at pos 3: expected pin name, got ','`},
	}
	for _, d := range td {
		pins, err := ParsePins(d.in)
		if d.err != "" {
			if err == nil || err.Error() != d.err {
				t.Errorf("ParsePins(%q): got error %v, expected %q", d.in, err, d.err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePins(%q): %v", d.in, err)
			continue
		}
		if !reflect.DeepEqual(pins, d.pins) {
			t.Errorf("ParsePins(%q) = %v, expected %v", d.in, pins, d.pins)
		}
	}
}

func TestParseConns(t *testing.T) {
	td := []struct {
		in    string
		conns []Conn
		err   bool
	}{
		{"", nil, false},
		{"a=x", []Conn{{"a", "x", 0}}, false},
		{"a = x, b=regs.r5 ,out=y_1", []Conn{{"a", "x", 0}, {"b", "regs.r5", 7}, {"out", "y_1", 18}}, false},
		{"a", nil, true},
		{"a=", nil, true},
		{"a=b=c", nil, true},
		{"a=%", nil, true},
	}
	for _, d := range td {
		conns, err := ParseConns(d.in)
		if d.err {
			if err == nil {
				t.Errorf("ParseConns(%q): expected error", d.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseConns(%q): %v", d.in, err)
			continue
		}
		if !reflect.DeepEqual(conns, d.conns) {
			t.Errorf("ParseConns(%q) = %v, expected %v", d.in, conns, d.conns)
		}
	}
}
