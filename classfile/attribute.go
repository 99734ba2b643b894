package classfile

import (
	"encoding/binary"
	"fmt"
)

// AttributeInfo keeps the raw bytes of every attribute. The few attributes
// a stub needs are decoded into Parsed.
type AttributeInfo struct {
	NameIndex uint16
	Info      []byte
	Parsed    any
}

type ExceptionsAttribute struct {
	ExceptionIndexTable []uint16
}

type InnerClassesAttribute struct {
	Classes []InnerClassEntry
}

type InnerClassEntry struct {
	InnerClassInfoIndex   uint16
	OuterClassInfoIndex   uint16
	InnerNameIndex        uint16
	InnerClassAccessFlags AccessFlags
}

func (a *AttributeInfo) AsExceptions() *ExceptionsAttribute {
	ex, _ := a.Parsed.(*ExceptionsAttribute)
	return ex
}

func (a *AttributeInfo) AsInnerClasses() *InnerClassesAttribute {
	ic, _ := a.Parsed.(*InnerClassesAttribute)
	return ic
}

func readAttributeInfo(r *reader, cp ConstantPool) (*AttributeInfo, error) {
	nameIndex := r.readU2()
	length := r.readU4()
	info := r.readBytes(int(length))
	if r.err != nil {
		return nil, r.err
	}

	attr := &AttributeInfo{
		NameIndex: nameIndex,
		Info:      info,
	}

	var err error
	switch name := cp.GetUtf8(nameIndex); name {
	case "Exceptions":
		attr.Parsed, err = parseExceptionsAttribute(info)
	case "InnerClasses":
		attr.Parsed, err = parseInnerClassesAttribute(info)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cp.GetUtf8(nameIndex), err)
	}

	return attr, nil
}

func parseExceptionsAttribute(info []byte) (*ExceptionsAttribute, error) {
	if len(info) < 2 {
		return nil, fmt.Errorf("truncated: %d bytes", len(info))
	}
	count := binary.BigEndian.Uint16(info[0:2])
	if len(info) < 2+int(count)*2 {
		return nil, fmt.Errorf("truncated: %d entries in %d bytes", count, len(info))
	}

	ex := &ExceptionsAttribute{
		ExceptionIndexTable: make([]uint16, count),
	}

	offset := 2
	for i := uint16(0); i < count; i++ {
		ex.ExceptionIndexTable[i] = binary.BigEndian.Uint16(info[offset : offset+2])
		offset += 2
	}

	return ex, nil
}

func parseInnerClassesAttribute(info []byte) (*InnerClassesAttribute, error) {
	if len(info) < 2 {
		return nil, fmt.Errorf("truncated: %d bytes", len(info))
	}
	count := binary.BigEndian.Uint16(info[0:2])
	if len(info) < 2+int(count)*8 {
		return nil, fmt.Errorf("truncated: %d entries in %d bytes", count, len(info))
	}

	ic := &InnerClassesAttribute{
		Classes: make([]InnerClassEntry, count),
	}

	offset := 2
	for i := uint16(0); i < count; i++ {
		ic.Classes[i] = InnerClassEntry{
			InnerClassInfoIndex:   binary.BigEndian.Uint16(info[offset : offset+2]),
			OuterClassInfoIndex:   binary.BigEndian.Uint16(info[offset+2 : offset+4]),
			InnerNameIndex:        binary.BigEndian.Uint16(info[offset+4 : offset+6]),
			InnerClassAccessFlags: AccessFlags(binary.BigEndian.Uint16(info[offset+6 : offset+8])),
		}
		offset += 8
	}

	return ic, nil
}
