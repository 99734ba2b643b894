package classfile

// ConstantPoolEntry is a decoded constant. Only the kinds needed to name
// classes and members are decoded; everything else is kept as an opaque
// ConstantOtherInfo so indices stay aligned.
type ConstantPoolEntry interface {
	Tag() ConstantTag
}

type ConstantUtf8Info struct {
	Value string
}

func (c *ConstantUtf8Info) Tag() ConstantTag { return ConstantUtf8 }

type ConstantClassInfo struct {
	NameIndex uint16
}

func (c *ConstantClassInfo) Tag() ConstantTag { return ConstantClass }

type ConstantOtherInfo struct {
	Kind ConstantTag
	Data []byte
}

func (c *ConstantOtherInfo) Tag() ConstantTag { return c.Kind }

// ConstantPool is indexed from 1; slot i lives at cp[i-1]. The unusable
// slot after a long or double is nil.
type ConstantPool []ConstantPoolEntry

func (cp ConstantPool) entry(index uint16) ConstantPoolEntry {
	if index == 0 || int(index) > len(cp) {
		return nil
	}
	return cp[index-1]
}

func (cp ConstantPool) GetUtf8(index uint16) string {
	if entry, ok := cp.entry(index).(*ConstantUtf8Info); ok {
		return entry.Value
	}
	return ""
}

func (cp ConstantPool) GetClassName(index uint16) string {
	if entry, ok := cp.entry(index).(*ConstantClassInfo); ok {
		return cp.GetUtf8(entry.NameIndex)
	}
	return ""
}
