// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Updater is the interface that custom components built using reflection must implement.
// See MakePart.
type Updater interface {
	Update(c *Circuit)
}

type field struct {
	index int
	pin   Pin
	input bool
}

// MakePart wraps an Updater into a custom component.
// Input/output pins are identified by field tags.
//
// The field tag must be `hw:"in"` or `hw:"out"` to identify input and output
// pins. By default, the pin name is the field name in lowercase. A specific
// pin name can be forced by adding it in the tag: `hw:"in,pin_name"`.
//
// Pin fields must be exported, of type int, and will hold the signal number of the pin
// when Update is called. Pins are 1 bit wide unless a `bits:"n"` tag is
// present.
//
// A new value of the underlying type is created each time the part is
// mounted. Other exported or unexported fields can be used to keep per
// instance state.
func MakePart(t Updater) *PartSpec {
	typ := reflect.TypeOf(t)
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if k := typ.Kind(); k != reflect.Struct {
		panic(errors.Errorf("unsupported type %q for %q", k, typ.Name()))
	}
	if !reflect.PtrTo(typ).Implements(reflect.TypeOf((*Updater)(nil)).Elem()) {
		panic(errors.Errorf("type *%s does not implement Updater", typ.Name()))
	}

	sp := &PartSpec{
		Name: typ.Name(),
	}

	var fields []field
	n := typ.NumField()
	for i := 0; i < n; i++ {
		f := typ.Field(i)
		tag, ok := f.Tag.Lookup("hw")
		if !ok {
			continue
		}
		fl := field{index: i, pin: Pin{strings.ToLower(f.Name), 1}}
		tv := strings.Split(tag, ",")
		if len(tv) > 1 && tv[1] != "" {
			fl.pin.Name = tv[1]
		}
		switch tv[0] {
		case "in":
			fl.input = true
		case "out":
		default:
			panic(errors.Errorf("unsupported tag %q for field %q in %q", tag, f.Name, typ.Name()))
		}
		if f.Type.Kind() != reflect.Int {
			panic(errors.Errorf("unsupported type %q for field %q in %q", f.Type.Kind(), f.Name, typ.Name()))
		}
		if b, ok := f.Tag.Lookup("bits"); ok {
			w, err := strconv.Atoi(b)
			if err != nil || w <= 0 {
				panic(errors.Errorf("invalid bits tag %q for field %q in %q", b, f.Name, typ.Name()))
			}
			fl.pin.Width = w
		}
		if fl.input {
			sp.Inputs = append(sp.Inputs, fl.pin)
		} else {
			sp.Outputs = append(sp.Outputs, fl.pin)
		}
		fields = append(fields, fl)
	}
	sp.Mount = mountPart(typ, fields)
	return sp
}

func mountPart(typ reflect.Type, fields []field) MountFn {
	return func(s *Socket) []Component {
		v := reflect.New(typ)
		e := v.Elem()
		for _, f := range fields {
			e.Field(f.index).SetInt(int64(s.Pin(f.pin.Name)))
		}
		u := v.Interface().(Updater)
		return []Component{u.Update}
	}
}
