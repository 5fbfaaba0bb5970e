package log

import (
	"fmt"
	"sync"
	"time"
)

// maxZFields bounds the builder buffer so EntryZ needs no allocation
// for the common case; a log statement with more fields than this
// silently drops the overflow rather than growing a slice.
const maxZFields = 8

// EntryZ is the zero-allocation log builder. Module.DebugZ/InfoZ/...
// return nil when that level is disabled for the module, and every
// method here is nil-safe, so a disabled call chain costs nothing
// beyond the initial Enabled() check.
type EntryZ struct {
	mod   Module
	lvl   Level
	msg   string
	zfbuf [maxZFields]ZField
	zfidx int
}

var entryZPool = sync.Pool{New: func() any { return &EntryZ{} }}

func NewEntryZ() *EntryZ {
	e := entryZPool.Get().(*EntryZ)
	e.zfidx = 0
	return e
}

func (e *EntryZ) addField(f ZField) *EntryZ {
	if e == nil {
		return nil
	}
	if e.zfidx < len(e.zfbuf) {
		e.zfbuf[e.zfidx] = f
		e.zfidx++
	}
	return e
}

func (e *EntryZ) Bool(key string, v bool) *EntryZ {
	return e.addField(ZField{Type: FieldTypeBool, Key: key, Boolean: v})
}

func (e *EntryZ) String(key string, v string) *EntryZ {
	return e.addField(ZField{Type: FieldTypeString, Key: key, String: v})
}

func (e *EntryZ) Int(key string, v int) *EntryZ {
	return e.addField(ZField{Type: FieldTypeInt, Key: key, Integer: uint64(v)})
}

func (e *EntryZ) Uint(key string, v uint) *EntryZ {
	return e.addField(ZField{Type: FieldTypeUint, Key: key, Integer: uint64(v)})
}

func (e *EntryZ) Uint8(key string, v uint8) *EntryZ {
	return e.addField(ZField{Type: FieldTypeUint, Key: key, Integer: uint64(v)})
}

func (e *EntryZ) Uint16(key string, v uint16) *EntryZ {
	return e.addField(ZField{Type: FieldTypeUint, Key: key, Integer: uint64(v)})
}

func (e *EntryZ) Uint32(key string, v uint32) *EntryZ {
	return e.addField(ZField{Type: FieldTypeUint, Key: key, Integer: uint64(v)})
}

func (e *EntryZ) Hex8(key string, v uint8) *EntryZ {
	return e.addField(ZField{Type: FieldTypeHex8, Key: key, Integer: uint64(v)})
}

func (e *EntryZ) Hex16(key string, v uint16) *EntryZ {
	return e.addField(ZField{Type: FieldTypeHex16, Key: key, Integer: uint64(v)})
}

func (e *EntryZ) Hex32(key string, v uint32) *EntryZ {
	return e.addField(ZField{Type: FieldTypeHex32, Key: key, Integer: uint64(v)})
}

func (e *EntryZ) Hex64(key string, v uint64) *EntryZ {
	return e.addField(ZField{Type: FieldTypeHex64, Key: key, Integer: v})
}

func (e *EntryZ) Error(key string, err error) *EntryZ {
	return e.addField(ZField{Type: FieldTypeError, Key: key, Error: err})
}

func (e *EntryZ) Duration(key string, v time.Duration) *EntryZ {
	return e.addField(ZField{Type: FieldTypeDuration, Key: key, Duration: v})
}

func (e *EntryZ) Stringer(key string, v fmt.Stringer) *EntryZ {
	return e.addField(ZField{Type: FieldTypeStringer, Key: key, Interface: v})
}

func (e *EntryZ) Blob(key string, v []byte) *EntryZ {
	return e.addField(ZField{Type: FieldTypeBlob, Key: key, Blob: v})
}

// End flushes the entry through the standard Entry machinery (which
// also merges in any registered Context fields) and returns e to the
// pool. Calling End twice on the same chain is not supported, same as
// a logrus entry.
func (e *EntryZ) End() {
	if e == nil {
		return
	}
	fields := make(Fields, e.zfidx)
	for i := 0; i < e.zfidx; i++ {
		fields[e.zfbuf[i].Key] = e.zfbuf[i].Value()
	}
	bound := Entry{mod: e.mod}.WithFields(fields)
	switch e.lvl {
	case DebugLevel:
		bound.Debug(e.msg)
	case InfoLevel:
		bound.Info(e.msg)
	case WarnLevel:
		bound.Warn(e.msg)
	case ErrorLevel:
		bound.Error(e.msg)
	case FatalLevel:
		bound.Fatal(e.msg)
	case PanicLevel:
		bound.Panic(e.msg)
	}
	entryZPool.Put(e)
}
