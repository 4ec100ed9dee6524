package classfile

type ConstantPoolEntry interface {
	Tag() ConstantTag
}

type ConstantUtf8Info struct {
	Value string
}

func (c *ConstantUtf8Info) Tag() ConstantTag { return ConstantUtf8 }

type ConstantIntegerInfo struct {
	Value int32
}

func (c *ConstantIntegerInfo) Tag() ConstantTag { return ConstantInteger }

type ConstantFloatInfo struct {
	Value float32
}

func (c *ConstantFloatInfo) Tag() ConstantTag { return ConstantFloat }

type ConstantLongInfo struct {
	Value int64
}

func (c *ConstantLongInfo) Tag() ConstantTag { return ConstantLong }

type ConstantDoubleInfo struct {
	Value float64
}

func (c *ConstantDoubleInfo) Tag() ConstantTag { return ConstantDouble }

// ConstantNameInfo covers the entries holding a single index into the
// pool: Class, String, MethodType, Module and Package.
type ConstantNameInfo struct {
	Kind  ConstantTag
	Index uint16
}

func (c *ConstantNameInfo) Tag() ConstantTag { return c.Kind }

// ConstantRefInfo covers the entries holding two indices: Fieldref,
// Methodref, InterfaceMethodref, NameAndType, Dynamic and InvokeDynamic.
type ConstantRefInfo struct {
	Kind   ConstantTag
	First  uint16
	Second uint16
}

func (c *ConstantRefInfo) Tag() ConstantTag { return c.Kind }

type ConstantMethodHandleInfo struct {
	ReferenceKind  MethodHandleKind
	ReferenceIndex uint16
}

func (c *ConstantMethodHandleInfo) Tag() ConstantTag { return ConstantMethodHandle }

// ConstantPool is indexed from 1 like in the class file. The slot after a
// Long or Double entry is nil.
type ConstantPool []ConstantPoolEntry

// Entry returns the entry at the 1-based index, or nil.
func (cp ConstantPool) Entry(index uint16) ConstantPoolEntry {
	if index == 0 || int(index) > len(cp) {
		return nil
	}
	return cp[index-1]
}

func (cp ConstantPool) GetUtf8(index uint16) string {
	if entry, ok := cp.Entry(index).(*ConstantUtf8Info); ok {
		return entry.Value
	}
	return ""
}

// name resolves an index-holding entry of the given kind to its UTF-8 text.
func (cp ConstantPool) name(index uint16, kind ConstantTag) string {
	if entry, ok := cp.Entry(index).(*ConstantNameInfo); ok && entry.Kind == kind {
		return cp.GetUtf8(entry.Index)
	}
	return ""
}

func (cp ConstantPool) GetClassName(index uint16) string {
	return cp.name(index, ConstantClass)
}

func (cp ConstantPool) GetString(index uint16) string {
	return cp.name(index, ConstantString)
}

func (cp ConstantPool) GetNameAndType(index uint16) (name, descriptor string) {
	if entry, ok := cp.Entry(index).(*ConstantRefInfo); ok && entry.Kind == ConstantNameAndType {
		return cp.GetUtf8(entry.First), cp.GetUtf8(entry.Second)
	}
	return "", ""
}

// GetRef resolves a Fieldref, Methodref or InterfaceMethodref.
func (cp ConstantPool) GetRef(index uint16) (className, name, descriptor string) {
	entry, ok := cp.Entry(index).(*ConstantRefInfo)
	if !ok {
		return "", "", ""
	}
	switch entry.Kind {
	case ConstantFieldref, ConstantMethodref, ConstantInterfaceMethodref:
		name, descriptor = cp.GetNameAndType(entry.Second)
		return cp.GetClassName(entry.First), name, descriptor
	}
	return "", "", ""
}

// Count returns the number of entries per tag.
func (cp ConstantPool) Count() map[ConstantTag]int {
	counts := make(map[ConstantTag]int)
	for _, e := range cp {
		if e != nil {
			counts[e.Tag()]++
		}
	}
	return counts
}
