// Package classfiletest assembles minimal, valid class files and jars for
// tests. Only the structures the classfile reader decodes are emitted.
package classfiletest

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/dhamidi/mappingpoet/classfile"
)

type Member struct {
	Name       string
	Descriptor string
	Flags      classfile.AccessFlags
	Exceptions []string
}

type InnerClass struct {
	Inner  string
	Outer  string
	Simple string
	Flags  classfile.AccessFlags
}

type Class struct {
	Name       string
	Super      string
	Interfaces []string
	Flags      classfile.AccessFlags
	Fields     []Member
	Methods    []Member
	Inner      []InnerClass
}

// New returns a public class extending java/lang/Object.
func New(name string) Class {
	return Class{Name: name, Super: classfile.ObjectClass, Flags: classfile.AccPublic | classfile.AccSuper}
}

func (c Class) Implements(ifaces ...string) Class {
	c.Interfaces = append(append([]string(nil), c.Interfaces...), ifaces...)
	return c
}

func (c Class) Method(name, desc string, flags classfile.AccessFlags) Class {
	c.Methods = append(append([]Member(nil), c.Methods...), Member{Name: name, Descriptor: desc, Flags: flags})
	return c
}

func (c Class) Field(name, desc string, flags classfile.AccessFlags) Class {
	c.Fields = append(append([]Member(nil), c.Fields...), Member{Name: name, Descriptor: desc, Flags: flags})
	return c
}

type pool struct {
	buf     bytes.Buffer
	count   uint16
	utf8s   map[string]uint16
	classes map[string]uint16
}

func newPool() *pool {
	return &pool{count: 1, utf8s: map[string]uint16{}, classes: map[string]uint16{}}
}

func (p *pool) utf8(s string) uint16 {
	if idx, ok := p.utf8s[s]; ok {
		return idx
	}
	p.buf.WriteByte(byte(classfile.ConstantUtf8))
	binary.Write(&p.buf, binary.BigEndian, uint16(len(s)))
	p.buf.WriteString(s)
	idx := p.count
	p.count++
	p.utf8s[s] = idx
	return idx
}

func (p *pool) class(name string) uint16 {
	if idx, ok := p.classes[name]; ok {
		return idx
	}
	nameIdx := p.utf8(name)
	p.buf.WriteByte(byte(classfile.ConstantClass))
	binary.Write(&p.buf, binary.BigEndian, nameIdx)
	idx := p.count
	p.count++
	p.classes[name] = idx
	return idx
}

type attribute struct {
	name uint16
	data []byte
}

func u2(v uint16) []byte {
	return binary.BigEndian.AppendUint16(nil, v)
}

// Bytes encodes the class file.
func (c Class) Bytes() []byte {
	p := newPool()
	this := p.class(c.Name)
	var super uint16
	if c.Super != "" {
		super = p.class(c.Super)
	}
	ifaces := make([]uint16, len(c.Interfaces))
	for i, name := range c.Interfaces {
		ifaces[i] = p.class(name)
	}

	var body bytes.Buffer
	w := func(v any) { binary.Write(&body, binary.BigEndian, v) }

	w(uint16(c.Flags))
	w(this)
	w(super)
	w(uint16(len(ifaces)))
	for _, idx := range ifaces {
		w(idx)
	}

	members := func(list []Member) {
		w(uint16(len(list)))
		for _, m := range list {
			w(uint16(m.Flags))
			w(p.utf8(m.Name))
			w(p.utf8(m.Descriptor))
			if len(m.Exceptions) == 0 {
				w(uint16(0))
				continue
			}
			data := u2(uint16(len(m.Exceptions)))
			for _, ex := range m.Exceptions {
				data = append(data, u2(p.class(ex))...)
			}
			w(uint16(1))
			writeAttribute(&body, attribute{name: p.utf8("Exceptions"), data: data})
		}
	}
	members(c.Fields)
	members(c.Methods)

	if len(c.Inner) == 0 {
		w(uint16(0))
	} else {
		data := u2(uint16(len(c.Inner)))
		for _, ic := range c.Inner {
			data = append(data, u2(p.class(ic.Inner))...)
			var outer, simple uint16
			if ic.Outer != "" {
				outer = p.class(ic.Outer)
			}
			if ic.Simple != "" {
				simple = p.utf8(ic.Simple)
			}
			data = append(data, u2(outer)...)
			data = append(data, u2(simple)...)
			data = append(data, u2(uint16(ic.Flags))...)
		}
		w(uint16(1))
		writeAttribute(&body, attribute{name: p.utf8("InnerClasses"), data: data})
	}

	var out bytes.Buffer
	binary.Write(&out, binary.BigEndian, uint32(classfile.Magic))
	binary.Write(&out, binary.BigEndian, uint16(0))
	binary.Write(&out, binary.BigEndian, uint16(52))
	binary.Write(&out, binary.BigEndian, p.count)
	out.Write(p.buf.Bytes())
	out.Write(body.Bytes())
	return out.Bytes()
}

func writeAttribute(buf *bytes.Buffer, a attribute) {
	binary.Write(buf, binary.BigEndian, a.name)
	binary.Write(buf, binary.BigEndian, uint32(len(a.data)))
	buf.Write(a.data)
}

// Entry is a raw jar entry. A name ending in "/" is written as a directory.
type Entry struct {
	Name string
	Data []byte
}

// Entries converts classes into jar entries named after their internal names.
func Entries(classes ...Class) []Entry {
	entries := make([]Entry, len(classes))
	for i, c := range classes {
		entries[i] = Entry{Name: c.Name + ".class", Data: c.Bytes()}
	}
	return entries
}

// WriteJar writes the entries into a jar inside a fresh temp directory and
// returns its path.
func WriteJar(tb testing.TB, entries ...Entry) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), "input.jar")
	f, err := os.Create(path)
	if err != nil {
		tb.Fatalf("create jar: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, e := range entries {
		fw, err := zw.Create(e.Name)
		if err != nil {
			tb.Fatalf("create entry %s: %v", e.Name, err)
		}
		if _, err := fw.Write(e.Data); err != nil {
			tb.Fatalf("write entry %s: %v", e.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		tb.Fatalf("close jar: %v", err)
	}
	return path
}
