// Package remap translates class names and type descriptors between two
// naming namespaces using a flat owner rename table.
package remap

import "strings"

// Remapper rewrites owner names through a rename table. Names missing from
// the table map to themselves. A Remapper is immutable after construction.
type Remapper struct {
	table map[string]string
}

// New copies table, so later changes to the map do not leak in.
func New(table map[string]string) *Remapper {
	t := make(map[string]string, len(table))
	for from, to := range table {
		t[from] = to
	}
	return &Remapper{table: t}
}

// Identity maps every name to itself.
func Identity() *Remapper {
	return &Remapper{table: map[string]string{}}
}

func (r *Remapper) Len() int {
	return len(r.table)
}

// Inverse returns the remapper for the opposite direction. When several
// names map to the same target the lexically smallest source wins.
func (r *Remapper) Inverse() *Remapper {
	inv := make(map[string]string, len(r.table))
	for from, to := range r.table {
		if prev, ok := inv[to]; ok && prev < from {
			continue
		}
		inv[to] = from
	}
	return &Remapper{table: inv}
}

func (r *Remapper) MapOwner(name string) string {
	if mapped, ok := r.table[name]; ok {
		return mapped
	}
	return name
}

// MapFieldDescriptor rewrites every class reference inside a field
// descriptor such as "[Lpkg/Foo;".
func (r *Remapper) MapFieldDescriptor(desc string) string {
	return r.mapDescriptor(desc)
}

// MapMethodDescriptor rewrites the class references of all parameter types
// and the return type of a method descriptor.
func (r *Remapper) MapMethodDescriptor(desc string) string {
	return r.mapDescriptor(desc)
}

// mapDescriptor rewrites each "L<name>;" token and copies every other byte
// unchanged. Malformed tails (an "L" without a closing ";") pass through.
func (r *Remapper) mapDescriptor(desc string) string {
	if len(r.table) == 0 || strings.IndexByte(desc, 'L') == -1 {
		return desc
	}

	var sb strings.Builder
	sb.Grow(len(desc))
	i := 0
	for i < len(desc) {
		c := desc[i]
		if c != 'L' {
			sb.WriteByte(c)
			i++
			continue
		}
		end := strings.IndexByte(desc[i:], ';')
		if end == -1 {
			sb.WriteString(desc[i:])
			break
		}
		sb.WriteByte('L')
		sb.WriteString(r.MapOwner(desc[i+1 : i+end]))
		sb.WriteByte(';')
		i += end + 1
	}
	return sb.String()
}
