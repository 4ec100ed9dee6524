package classfile

import (
	"bytes"
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/dhamidi/combo"
)

type classWriter struct {
	bytes.Buffer
}

func (w *classWriter) u1(v uint8)  { w.WriteByte(v) }
func (w *classWriter) u2(v uint16) { binary.Write(&w.Buffer, binary.BigEndian, v) }
func (w *classWriter) u4(v uint32) { binary.Write(&w.Buffer, binary.BigEndian, v) }
func (w *classWriter) u8(v uint64) { binary.Write(&w.Buffer, binary.BigEndian, v) }

func (w *classWriter) utf8(s string) {
	w.u1(uint8(ConstantUtf8))
	w.u2(uint16(len(s)))
	w.WriteString(s)
}

func (w *classWriter) class(nameIndex uint16) {
	w.u1(uint8(ConstantClass))
	w.u2(nameIndex)
}

// sampleClass builds a class file header for
//
//	public class Foo extends java.lang.Object implements java.lang.Runnable
//
// with a Long and a Double constant in its pool.
func sampleClass() []byte {
	w := &classWriter{}
	w.u4(Magic)
	w.u2(0)
	w.u2(65)
	w.u2(12)
	w.utf8("Foo")              // 1
	w.class(1)                 // 2
	w.utf8("java/lang/Object") // 3
	w.class(3)                 // 4
	w.u1(uint8(ConstantLong))  // 5, 6
	w.u8(1 << 40)
	w.utf8("java/lang/Runnable") // 7
	w.class(7)                   // 8
	w.u1(uint8(ConstantNameAndType))
	w.u2(3) // 9
	w.u2(1)
	w.u1(uint8(ConstantDouble)) // 10, 11
	w.u8(math.Float64bits(2.5))
	w.u2(uint16(AccPublic | AccSuper))
	w.u2(2)
	w.u2(4)
	w.u2(1)
	w.u2(8)
	return w.Bytes()
}

func TestParseHeader(t *testing.T) {
	h, err := Parse(sampleClass())
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	t.Run("version", func(t *testing.T) {
		if h.MajorVersion != 65 || h.MinorVersion != 0 {
			t.Errorf("version = %d.%d, want 65.0", h.MajorVersion, h.MinorVersion)
		}
	})

	t.Run("class name", func(t *testing.T) {
		if got := h.ClassName(); got != "Foo" {
			t.Errorf("ClassName() = %q, want %q", got, "Foo")
		}
	})

	t.Run("super class", func(t *testing.T) {
		if got := h.SuperClassName(); got != "java/lang/Object" {
			t.Errorf("SuperClassName() = %q, want %q", got, "java/lang/Object")
		}
	})

	t.Run("interfaces", func(t *testing.T) {
		names := h.InterfaceNames()
		if len(names) != 1 || names[0] != "java/lang/Runnable" {
			t.Errorf("InterfaceNames() = %v, want [java/lang/Runnable]", names)
		}
	})

	t.Run("access flags", func(t *testing.T) {
		if !h.AccessFlags.IsPublic() || !h.IsClass() || h.IsInterface() {
			t.Errorf("AccessFlags = %v, want a public class", h.AccessFlags.Names())
		}
	})

	t.Run("wide constants take two slots", func(t *testing.T) {
		if len(h.ConstantPool) != 11 {
			t.Fatalf("len(ConstantPool) = %d, want 11", len(h.ConstantPool))
		}
		long, ok := h.ConstantPool.Entry(5).(*ConstantLongInfo)
		if !ok || long.Value != 1<<40 {
			t.Errorf("entry 5 = %#v, want Long 1<<40", h.ConstantPool.Entry(5))
		}
		if h.ConstantPool.Entry(6) != nil {
			t.Errorf("entry 6 = %#v, want nil", h.ConstantPool.Entry(6))
		}
		double, ok := h.ConstantPool.Entry(10).(*ConstantDoubleInfo)
		if !ok || double.Value != 2.5 {
			t.Errorf("entry 10 = %#v, want Double 2.5", h.ConstantPool.Entry(10))
		}
	})

	t.Run("name and type", func(t *testing.T) {
		name, desc := h.ConstantPool.GetNameAndType(9)
		if name != "java/lang/Object" || desc != "Foo" {
			t.Errorf("GetNameAndType(9) = %q, %q", name, desc)
		}
	})
}

func TestParseHeaderErrors(t *testing.T) {
	good := sampleClass()

	badMagic := append([]byte{0xCA, 0xFE, 0xBA, 0xBF}, good[4:]...)

	unknownTag := &classWriter{}
	unknownTag.Write(good[:10])
	unknownTag.u1(2)

	tests := []struct {
		name  string
		data  []byte
		want  string
		fatal bool
	}{
		{"wrong magic", badMagic, "Expected `0xCAFEBABE`, but found `0xCAFEBABF` at line 1, column 1.", true},
		{"empty", nil, "Expected `0xCAFEBABE`, but hit end of input.", true},
		{"unknown tag", unknownTag.Bytes(), "unknown constant pool tag 2", true},
		{"truncated", good[:len(good)-1], "but hit end of input.", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
			pe, ok := err.(*combo.ParseError)
			if !ok {
				t.Fatalf("error is %T, want *combo.ParseError", err)
			}
			if pe.Fatal != tt.fatal {
				t.Errorf("Fatal = %v, want %v", pe.Fatal, tt.fatal)
			}
		})
	}
}

func TestDecodeModifiedUTF8(t *testing.T) {
	tests := []struct {
		in   []byte
		want string
	}{
		{[]byte("plain"), "plain"},
		{[]byte{0xC0, 0x80}, "\x00"},
		{[]byte{0xC3, 0xA9}, "é"},
		{[]byte{0xED, 0xA0, 0xBD, 0xED, 0xB8, 0x80}, "😀"},
	}
	for _, tt := range tests {
		if got := decodeModifiedUTF8(tt.in); got != tt.want {
			t.Errorf("decodeModifiedUTF8(% X) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
