package classfile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrMalformed is wrapped by every structural error Parse reports.
var ErrMalformed = errors.New("malformed class file")

type reader struct {
	r   io.Reader
	err error
}

func (r *reader) readU1() uint8 {
	if r.err != nil {
		return 0
	}
	var buf [1]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return buf[0]
}

func (r *reader) readU2() uint16 {
	if r.err != nil {
		return 0
	}
	var buf [2]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return binary.BigEndian.Uint16(buf[:])
}

func (r *reader) readU4() uint32 {
	if r.err != nil {
		return 0
	}
	var buf [4]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return binary.BigEndian.Uint32(buf[:])
}

func (r *reader) readBytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	buf := make([]byte, n)
	_, r.err = io.ReadFull(r.r, buf)
	return buf
}

func Parse(rd io.Reader) (*ClassFile, error) {
	r := &reader{r: rd}

	magic := r.readU4()
	if r.err != nil {
		return nil, malformed("failed to read magic: %w", r.err)
	}
	if magic != Magic {
		return nil, malformed("invalid magic number: 0x%X (expected 0xCAFEBABE)", magic)
	}

	cf := &ClassFile{
		MinorVersion: r.readU2(),
		MajorVersion: r.readU2(),
	}
	if r.err != nil {
		return nil, malformed("failed to read version: %w", r.err)
	}

	constantPoolCount := r.readU2()
	if r.err != nil {
		return nil, malformed("failed to read constant pool count: %w", r.err)
	}
	if constantPoolCount == 0 {
		return nil, malformed("constant pool count is zero")
	}

	cf.ConstantPool = make(ConstantPool, constantPoolCount-1)
	for i := uint16(1); i < constantPoolCount; i++ {
		entry, err := readConstantPoolEntry(r)
		if err != nil {
			return nil, malformed("failed to read constant pool entry %d: %w", i, err)
		}
		cf.ConstantPool[i-1] = entry
		if entry.Tag().wide() {
			i++
		}
	}

	cf.AccessFlags = AccessFlags(r.readU2())
	cf.ThisClass = r.readU2()
	cf.SuperClass = r.readU2()

	interfacesCount := r.readU2()
	if r.err != nil {
		return nil, malformed("failed to read class info: %w", r.err)
	}
	if cf.ClassName() == "" {
		return nil, malformed("this_class index %d does not name a class", cf.ThisClass)
	}
	if cf.SuperClass != 0 && cf.SuperClassName() == "" {
		return nil, malformed("super_class index %d does not name a class", cf.SuperClass)
	}

	cf.Interfaces = make([]uint16, interfacesCount)
	for i := uint16(0); i < interfacesCount; i++ {
		cf.Interfaces[i] = r.readU2()
	}
	if r.err != nil {
		return nil, malformed("failed to read interfaces: %w", r.err)
	}
	for i, idx := range cf.Interfaces {
		if cf.ConstantPool.GetClassName(idx) == "" {
			return nil, malformed("interface %d index %d does not name a class", i, idx)
		}
	}

	fieldsCount := r.readU2()
	if r.err != nil {
		return nil, malformed("failed to read fields count: %w", r.err)
	}

	cf.Fields = make([]FieldInfo, fieldsCount)
	for i := uint16(0); i < fieldsCount; i++ {
		flags, name, desc, attrs, err := readMember(r, cf.ConstantPool)
		if err != nil {
			return nil, malformed("failed to read field %d: %w", i, err)
		}
		cf.Fields[i] = FieldInfo{AccessFlags: flags, NameIndex: name, DescriptorIndex: desc, Attributes: attrs}
	}

	methodsCount := r.readU2()
	if r.err != nil {
		return nil, malformed("failed to read methods count: %w", r.err)
	}

	cf.Methods = make([]MethodInfo, methodsCount)
	for i := uint16(0); i < methodsCount; i++ {
		flags, name, desc, attrs, err := readMember(r, cf.ConstantPool)
		if err != nil {
			return nil, malformed("failed to read method %d: %w", i, err)
		}
		cf.Methods[i] = MethodInfo{AccessFlags: flags, NameIndex: name, DescriptorIndex: desc, Attributes: attrs}
	}

	attrs, err := readAttributes(r, cf.ConstantPool)
	if err != nil {
		return nil, malformed("failed to read class attributes: %w", err)
	}
	cf.Attributes = attrs

	return cf, nil
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Errorf(format, args...))
}

func readConstantPoolEntry(r *reader) (ConstantPoolEntry, error) {
	tag := ConstantTag(r.readU1())
	if r.err != nil {
		return nil, r.err
	}

	switch tag {
	case ConstantUtf8:
		length := r.readU2()
		bytes := r.readBytes(int(length))
		if r.err != nil {
			return nil, r.err
		}
		return &ConstantUtf8Info{Value: decodeModifiedUtf8(bytes)}, nil

	case ConstantClass:
		nameIndex := r.readU2()
		if r.err != nil {
			return nil, r.err
		}
		return &ConstantClassInfo{NameIndex: nameIndex}, nil
	}

	size, ok := tag.payloadSize()
	if !ok {
		return nil, fmt.Errorf("unknown constant pool tag: %d", tag)
	}
	data := r.readBytes(size)
	if r.err != nil {
		return nil, r.err
	}
	return &ConstantOtherInfo{Kind: tag, Data: data}, nil
}

func readMember(r *reader, cp ConstantPool) (AccessFlags, uint16, uint16, []AttributeInfo, error) {
	flags := AccessFlags(r.readU2())
	nameIndex := r.readU2()
	descIndex := r.readU2()
	if r.err != nil {
		return 0, 0, 0, nil, r.err
	}
	if cp.GetUtf8(nameIndex) == "" || cp.GetUtf8(descIndex) == "" {
		return 0, 0, 0, nil, fmt.Errorf("name index %d or descriptor index %d is not a utf8 constant", nameIndex, descIndex)
	}
	attrs, err := readAttributes(r, cp)
	if err != nil {
		return 0, 0, 0, nil, err
	}
	return flags, nameIndex, descIndex, attrs, nil
}

func readAttributes(r *reader, cp ConstantPool) ([]AttributeInfo, error) {
	count := r.readU2()
	if r.err != nil {
		return nil, r.err
	}
	attrs := make([]AttributeInfo, count)
	for i := uint16(0); i < count; i++ {
		attr, err := readAttributeInfo(r, cp)
		if err != nil {
			return nil, fmt.Errorf("attribute %d: %w", i, err)
		}
		attrs[i] = *attr
	}
	return attrs, nil
}

func decodeModifiedUtf8(bytes []byte) string {
	runes := make([]rune, 0, len(bytes))
	i := 0
	for i < len(bytes) {
		b := bytes[i]
		if b&0x80 == 0 {
			runes = append(runes, rune(b))
			i++
		} else if b&0xE0 == 0xC0 {
			if i+1 >= len(bytes) {
				break
			}
			r := rune(b&0x1F)<<6 | rune(bytes[i+1]&0x3F)
			runes = append(runes, r)
			i += 2
		} else if b&0xF0 == 0xE0 {
			if i+2 >= len(bytes) {
				break
			}
			r := rune(b&0x0F)<<12 | rune(bytes[i+1]&0x3F)<<6 | rune(bytes[i+2]&0x3F)
			if r >= 0xD800 && r <= 0xDBFF {
				if i+5 < len(bytes) && bytes[i+3] == 0xED {
					high := r
					low := rune(bytes[i+3]&0x0F)<<12 | rune(bytes[i+4]&0x3F)<<6 | rune(bytes[i+5]&0x3F)
					if low >= 0xDC00 && low <= 0xDFFF {
						r = 0x10000 + ((high - 0xD800) << 10) + (low - 0xDC00)
						runes = append(runes, r)
						i += 6
						continue
					}
				}
			}
			runes = append(runes, r)
			i += 3
		} else {
			runes = append(runes, rune(b))
			i++
		}
	}
	return string(runes)
}
