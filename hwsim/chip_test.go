package hwsim_test

import (
	"testing"

	"github.com/db47h/mips16/hwlib"
	hw "github.com/db47h/mips16/hwsim"
	"github.com/pkg/errors"
)

func trace(t *testing.T, err error) {
	t.Helper()
	if err, ok := err.(interface {
		StackTrace() errors.StackTrace
	}); ok {
		for _, f := range err.StackTrace() {
			t.Logf("%+v ", f)
		}
	}
}

func TestChip_errors(t *testing.T) {
	unkChip, err := hw.Chip("TESTCHIP", "a, b", "out",
		// chip input a is unused
		hwlib.Nand("a=b, b=b, out=out"),
	)
	if err != nil {
		t.Fatal(err)
	}
	data := []struct {
		name  string
		in    string
		out   string
		parts hw.Parts
		err   string
	}{
		{"true_out", "a, b", "out", hw.Parts{
			hwlib.Nand("a=a, b=b, out=true"),
			hwlib.Nand("a=a, b=b, out=out"),
		}, "NAND.out:true: output pin connected to constant true input"},
		{"clk_out", "a, b", "out", hw.Parts{
			hwlib.Nand("a=a, b=b, out=clk"),
			hwlib.Nand("a=a, b=b, out=out"),
		}, "NAND.out:clk: output pin connected to constant clk input"},
		{"input_out", "a, b", "out", hw.Parts{
			hwlib.Nand("a=a, b=b, out=a"),
			hwlib.Nand("a=a, b=b, out=out"),
		}, "NAND.out:a: chip input pin used as output"},
		{"multi_driver", "a, b", "out", hw.Parts{
			hwlib.Nand("a=a, b=b, out=x"),
			hwlib.Nand("a=a, b=b, out=x"),
			hwlib.Not("in=x, out=out"),
		}, "NAND.out:x: output pin already used as output by NAND.out"},
		{"multi_in", "a, b", "out", hw.Parts{
			hwlib.Nand("a=a, a=b, out=out"),
		}, "NAND.a: input pin connected more than once"},
		{"multi_out", "a, b", "out, out2", hw.Parts{
			hwlib.Nand("a=a, b=b, out=out, out=out2"),
		}, "NAND.out: output pin connected to more than one wire"},
		{"no_output", "a, b", "out", hw.Parts{
			hwlib.Nand("a=a, b=wx, out=out"),
		}, "pin wx not connected to any output"},
		{"no_input", "a, b", "out", hw.Parts{
			hwlib.Nand("a=a, b=b, out=foo"),
			hwlib.Nand("a=a, b=b, out=out"),
		}, "pin foo not connected to any input"},
		{"width", "a[16], b", "out[16]", hw.Parts{
			hwlib.Mux16("a=a, b=b, sel=b, out=out"),
		}, "Mux16.b:b: width mismatch: 16 bits pin, 1 bits wire"},
		{"width_internal", "a[16], b[16]", "out[4]", hw.Parts{
			hwlib.Mux16("a=a, b=b, sel=true, out=w"),
			hwlib.Mux4("a=w, b=w, sel=false, out=out"),
		}, "Mux4.a:w: width mismatch: 4 bits pin, 16 bits wire"},
		{"unconnected_in", "a, b", "out", hw.Parts{}, ""},
		{"unknown_pin", "a, b", "out", hw.Parts{
			hwlib.Nand("a=a, typo=b, out=out"),
		}, "invalid pin name typo for part NAND"},
		{"unknown_pin_chip", "a, b", "out", hw.Parts{
			unkChip("a=a, typo=b, out=out"),
		}, "invalid pin name typo for part TESTCHIP"},
		{"ok_chip", "a, b", "out", hw.Parts{
			unkChip("a=a, b=b, out=out"),
		}, ""},
		{"dup_label", "a, b", "out, out2", hw.Parts{
			hwlib.Nand("a=a, b=b, out=out").As("g"),
			hwlib.Nand("a=a, b=b, out=out2").As("g"),
		}, "duplicate part label g in chip dup_label"},
		{"dup_pin", "a, a", "out", hw.Parts{}, "duplicate pin name a in chip dup_pin"},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			_, err := hw.Chip(d.name, d.in, d.out, d.parts...)
			if err == nil && d.err != "" || err != nil && err.Error() != d.err {
				t.Errorf("Got error %q, expected %q", err, d.err)
				return
			}
		})
	}
}

func TestChip_omitted_pins(t *testing.T) {
	var a, b, c, tr, f, o0, o1 int
	var width int
	dummy := (&hw.PartSpec{
		Name:    "dummy",
		Inputs:  hw.IO("a, b[8], c, t, f"),
		Outputs: hw.IO("o0, o1[4]"),
		Mount: func(s *hw.Socket) []hw.Component {
			a, b, c, tr, f, o0, o1 = s.Pin("a"), s.Pin("b"), s.Pin("c"), s.Pin("t"), s.Pin("f"), s.Pin("o0"), s.Pin("o1")
			return []hw.Component{func(c *hw.Circuit) {
				width = c.Width(b)
			}}
		}}).NewPart
	wrapper, err := hw.Chip("wrapper", "wa, wb", "wo0, wo1",
		dummy("a=wa, c=clk, t=true, f=false, o0=wo0"),
	)
	if err != nil {
		trace(t, err)
		t.Fatal(err)
	}

	_, err = hw.NewCircuit(wrapper(""))
	if err != nil {
		t.Fatal(err)
	}

	if a != 0 || f != 0 { // unconnected 1 bit inputs and false share signal 0
		t.Errorf("a = %v, f = %v, all must be 0", a, f)
	}
	if b < 3 || width != 8 {
		t.Errorf("b = %v (%d bits), must be a private 8 bits zero signal", b, width)
	}
	if tr != 1 {
		t.Errorf("t = %v, must be 1", tr)
	}
	if c != 2 {
		t.Errorf("c = %v, must be 2", c)
	}
	if o0 < 3 || o1 < 3 || o0 == o1 {
		t.Errorf("o0 = %v, o1 = %v, both must be distinct and >= 3", o0, o1)
	}
}

func TestChip_fanout_to_outputs(t *testing.T) {
	gate, err := hw.Chip("FANOUT", "in", "a[8], b[8]",
		hwlib.Fan(8)("in=in, out=w"),
		hwlib.AndN(8)("a=w, b=w, out=a"),
		hwlib.OrN(8)("a=w, b=w, out=b"),
	)
	if err != nil {
		trace(t, err)
		t.Fatal(err)
	}
	var a, b uint64
	_, err = hw.NewCircuit(
		gate("in=true, a=wa, b=wb"),
		hwlib.OutputN(8, func(v uint64) { a = v })("in=wa"),
		hwlib.OutputN(8, func(v uint64) { b = v })("in=wb"),
	)
	if err != nil {
		trace(t, err)
		t.Fatal(err)
	}
	if a != 255 || b != 255 {
		t.Fatalf("a = %d, b = %d, expected 255", a, b)
	}
}
