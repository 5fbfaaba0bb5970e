package hwio

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/rtiangha/duckstation/emu/log"
)

// Table is a flat 16-bit-aligned register window. Unlike the sparse,
// variable-size address space a CPU bus has to support, the SPU
// register window is small (640 bytes) and entirely static, so a plain
// slice indexed by offset>>1 replaces the radix-tree bus lookup a
// general-purpose memory map would need.
type Table struct {
	Name string
	regs []*Reg16
}

// NewTable creates a register window spanning size bytes (rounded up
// to a 16-bit boundary).
func NewTable(name string, size uint16) *Table {
	t := &Table{Name: name}
	t.Reset(size)
	return t
}

func (t *Table) Reset(size uint16) {
	t.regs = make([]*Reg16, (size+1)/2)
}

// MapBank maps every Reg16 field tagged `hwio:"offset=0x..,..."` in
// bank at addr+offset. bank must be a pointer to a struct; MapBank does
// not wire callbacks itself, so MustInitRegs must already have been
// called on bank for its fields' ReadCb/WriteCb/PeekCb to be set.
func (t *Table) MapBank(addr uint16, bank any, bankNum int) {
	regs, err := bankGetRegs(bank, bankNum)
	if err != nil {
		panic(err)
	}
	for _, r := range regs {
		t.MapReg16(addr+r.offset, r.reg)
	}
}

func (t *Table) MapReg16(addr uint16, reg *Reg16) {
	idx := addr / 2
	if int(idx) >= len(t.regs) {
		panic(fmt.Errorf("hwio: register %q at %#x is outside table %q (size %d)", reg.Name, addr, t.Name, len(t.regs)*2))
	}
	log.ModHwIo.DebugZ("mapping reg16").
		Hex16("addr", addr).
		String("name", reg.Name).
		String("bus", t.Name).
		End()
	t.regs[idx] = reg
}

func (t *Table) lookup(addr uint16) *Reg16 {
	idx := addr / 2
	if int(idx) >= len(t.regs) {
		return nil
	}
	return t.regs[idx]
}

// Read16 returns 0xFFFF and logs for unmapped addresses, matching how
// PS1 hardware returns open-bus-like all-ones for unknown SPU offsets.
func (t *Table) Read16(addr uint16) uint16 {
	reg := t.lookup(addr)
	if reg == nil {
		log.ModHwIo.ErrorZ("unmapped Read16").
			String("name", t.Name).
			Hex16("addr", addr).
			End()
		return 0xFFFF
	}
	return reg.Read16(addr)
}

func (t *Table) Peek16(addr uint16) uint16 {
	reg := t.lookup(addr)
	if reg == nil {
		return 0xFFFF
	}
	return reg.Peek16(addr)
}

func (t *Table) Write16(addr uint16, val uint16) {
	reg := t.lookup(addr)
	if reg == nil {
		log.ModHwIo.ErrorZ("unmapped Write16").
			String("name", t.Name).
			Hex16("addr", addr).
			Hex16("val", val).
			End()
		return
	}
	reg.Write16(addr, val)
}

type boundReg struct {
	offset uint16
	reg    *Reg16
}

// bankGetRegs reflects over bank (a pointer to a struct) and collects
// every Reg16 field tagged `hwio:"..."` whose `bank=` option (default
// 0) matches bankNum. MustInitRegs must have been called on bank
// first so that ReadCb/WriteCb/PeekCb are wired.
func bankGetRegs(bank any, bankNum int) ([]boundReg, error) {
	v := reflect.ValueOf(bank)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("hwio: bank must be a pointer to a struct, got %T", bank)
	}
	v = v.Elem()
	t := v.Type()

	var out []boundReg
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag, ok := field.Tag.Lookup("hwio")
		if !ok {
			continue
		}
		reg, ok := v.Field(i).Addr().Interface().(*Reg16)
		if !ok {
			continue
		}

		opts, err := parseTag(tag)
		if err != nil {
			return nil, fmt.Errorf("hwio: field %s: %w", field.Name, err)
		}
		if opts.bank != bankNum {
			continue
		}
		out = append(out, boundReg{offset: opts.offset, reg: reg})
	}
	return out, nil
}

type regOpts struct {
	offset    uint16
	hasOffset bool
	bank      int
	rcb       bool
	wcb       bool
	pcb       string
	readonly  bool
	writeonly bool
	romask    uint16
	reset     uint16
}

func parseTag(tag string) (regOpts, error) {
	var opts regOpts
	for _, tok := range strings.Split(tag, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		key, val, hasVal := strings.Cut(tok, "=")
		switch key {
		case "offset":
			n, err := strconv.ParseUint(strings.TrimPrefix(val, "0x"), 16, 16)
			if err != nil {
				return opts, fmt.Errorf("invalid offset %q: %w", val, err)
			}
			opts.offset = uint16(n)
			opts.hasOffset = true
		case "bank":
			n, err := strconv.Atoi(val)
			if err != nil {
				return opts, fmt.Errorf("invalid bank %q: %w", val, err)
			}
			opts.bank = n
		case "rcb":
			opts.rcb = true
		case "wcb":
			opts.wcb = true
		case "pcb":
			if hasVal {
				opts.pcb = val
			} else {
				opts.pcb = "$"
			}
		case "readonly":
			opts.readonly = true
		case "writeonly":
			opts.writeonly = true
		case "romask":
			n, err := strconv.ParseUint(strings.TrimPrefix(val, "0x"), 16, 16)
			if err != nil {
				return opts, fmt.Errorf("invalid romask %q: %w", val, err)
			}
			opts.romask = uint16(n)
		case "reset":
			n, err := strconv.ParseUint(strings.TrimPrefix(val, "0x"), 16, 16)
			if err != nil {
				return opts, fmt.Errorf("invalid reset %q: %w", val, err)
			}
			opts.reset = uint16(n)
		}
	}
	if !opts.hasOffset {
		return opts, fmt.Errorf("missing required offset= option")
	}
	return opts, nil
}

// MustInitRegs wires each Reg16 field tagged `hwio:"..."` in bank (a
// pointer to a struct) to same-named Read<FIELD>/Write<FIELD>/
// Peek<FIELD> methods on bank, per the rcb/wcb/pcb options in its tag.
// It panics if a required callback method is missing.
func MustInitRegs(bank any) {
	v := reflect.ValueOf(bank)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		panic(fmt.Errorf("hwio: MustInitRegs needs a pointer to a struct, got %T", bank))
	}
	rv := v.Elem()
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag, ok := field.Tag.Lookup("hwio")
		if !ok {
			continue
		}
		reg, ok := rv.Field(i).Addr().Interface().(*Reg16)
		if !ok {
			continue
		}

		opts, err := parseTag(tag)
		if err != nil {
			panic(fmt.Errorf("hwio: field %s: %w", field.Name, err))
		}

		reg.Name = field.Name
		reg.RoMask = opts.romask
		reg.Value = opts.reset
		if opts.readonly {
			reg.Flags |= ReadOnlyFlag
		}
		if opts.writeonly {
			reg.Flags |= WriteOnlyFlag
		}

		if opts.rcb {
			reg.ReadCb = bindRead16(v, "Read"+field.Name)
		}
		if opts.wcb {
			reg.WriteCb = bindWrite16(v, "Write"+field.Name)
		}
		if opts.pcb != "" {
			name := opts.pcb
			if name == "$" {
				name = "Peek" + field.Name
			}
			reg.PeekCb = bindRead16(v, name)
		}
	}
}

func bindRead16(v reflect.Value, method string) func(uint16) uint16 {
	m := v.MethodByName(method)
	if !m.IsValid() {
		panic(fmt.Errorf("hwio: missing callback method %s", method))
	}
	fn, ok := m.Interface().(func(uint16) uint16)
	if !ok {
		panic(fmt.Errorf("hwio: method %s has wrong signature, want func(uint16) uint16", method))
	}
	return fn
}

func bindWrite16(v reflect.Value, method string) func(uint16, uint16) {
	m := v.MethodByName(method)
	if !m.IsValid() {
		panic(fmt.Errorf("hwio: missing callback method %s", method))
	}
	fn, ok := m.Interface().(func(uint16, uint16))
	if !ok {
		panic(fmt.Errorf("hwio: method %s has wrong signature, want func(uint16, uint16)", method))
	}
	return fn
}
