// Package docs resolves documentation for classes, fields, methods and
// method parameters named in the archive namespace. Method documentation
// is inherited: when a class does not document a method itself, its
// supertypes are searched in declaration order and the first hit wins.
package docs

import (
	"slices"
	"strconv"
	"sync/atomic"

	"github.com/dhamidi/mappingpoet/mappings"
	"github.com/dhamidi/mappingpoet/remap"
)

// AncestorLookup returns the direct supertypes of a class, superclass
// first and interfaces in declaration order. Unknown classes have none.
type AncestorLookup func(owner string) []string

// ParamStatus tells apart the ways a parameter lookup can end.
type ParamStatus int

const (
	ParamMethodUnknown ParamStatus = iota
	ParamNoMetadata
	ParamSlotMissing
	ParamFound
)

func (s ParamStatus) String() string {
	switch s {
	case ParamMethodUnknown:
		return "method unknown"
	case ParamNoMetadata:
		return "method known, no parameter metadata"
	case ParamSlotMissing:
		return "no parameter at slot"
	case ParamFound:
		return "found"
	}
	return "ParamStatus(" + strconv.Itoa(int(s)) + ")"
}

type paramKey struct {
	sym  mappings.Symbol
	slot int
}

// symbolKey joins the parts of s with a byte no class, member or
// descriptor name contains.
func symbolKey(s mappings.Symbol) string {
	return s.Owner + "\x00" + s.Name + "\x00" + s.Descriptor
}

type paramResult struct {
	status ParamStatus
	doc    mappings.ParamDoc
}

// Stats counts memo activity since the resolver was created.
type Stats struct {
	MethodHits   int64
	MethodMisses int64
	ParamHits    int64
	ParamMisses  int64
	Walks        int64
	Cached       int
}

// Resolver answers documentation queries. It owns its memo for its whole
// lifetime; entries are never evicted. A Resolver is safe for concurrent
// use provided every AncestorLookup passed to it describes an acyclic
// hierarchy across goroutines.
type Resolver struct {
	index    *mappings.Index
	remapper *remap.Remapper
	methods  *memo[mappings.Symbol, *mappings.MethodDoc]
	params   *memo[paramKey, paramResult]

	methodHits, methodMisses atomic.Int64
	paramHits, paramMisses   atomic.Int64
	walks                    atomic.Int64
}

// NewResolver binds an index in the mapping namespace to a remapper from
// the archive namespace into it.
func NewResolver(index *mappings.Index, remapper *remap.Remapper) *Resolver {
	if remapper == nil {
		remapper = remap.Identity()
	}
	return &Resolver{
		index:    index,
		remapper: remapper,
		methods:  newMemo[mappings.Symbol, *mappings.MethodDoc](symbolKey),
		params: newMemo[paramKey, paramResult](func(k paramKey) string {
			return symbolKey(k.sym) + "\x00" + strconv.Itoa(k.slot)
		}),
	}
}

func (r *Resolver) ClassDoc(owner string) (string, bool) {
	doc, ok := r.index.Class(r.remapper.MapOwner(owner))
	if !ok || doc.Comment == "" {
		return "", false
	}
	return doc.Comment, true
}

// FieldDoc looks up a field exactly; fields do not inherit documentation.
func (r *Resolver) FieldDoc(owner, name, descriptor string) (string, bool) {
	doc, ok := r.index.Field(mappings.Symbol{
		Owner:      r.remapper.MapOwner(owner),
		Name:       name,
		Descriptor: r.remapper.MapFieldDescriptor(descriptor),
	})
	if !ok || doc.Comment == "" {
		return "", false
	}
	return doc.Comment, true
}

// MethodDoc returns the comment of the nearest declaration of the method
// along the supertype graph.
func (r *Resolver) MethodDoc(owner, name, descriptor string, lookup AncestorLookup) (string, bool) {
	doc, _ := r.searchMethod(mappings.Symbol{Owner: owner, Name: name, Descriptor: descriptor}, lookup, nil)
	if doc == nil || doc.Comment == "" {
		return "", false
	}
	return doc.Comment, true
}

// ParamDoc returns the name and comment of the parameter at local
// variable slot, taken from the nearest declaration of the method.
func (r *Resolver) ParamDoc(owner, name, descriptor string, slot int, lookup AncestorLookup) (mappings.ParamDoc, bool) {
	doc, status := r.ResolveParam(owner, name, descriptor, slot, lookup)
	return doc, status == ParamFound
}

// ResolveParam is ParamDoc with the reason for an absent result.
func (r *Resolver) ResolveParam(owner, name, descriptor string, slot int, lookup AncestorLookup) (mappings.ParamDoc, ParamStatus) {
	sym := mappings.Symbol{Owner: owner, Name: name, Descriptor: descriptor}
	if !r.index.HasClass(r.remapper.MapOwner(owner)) {
		return mappings.ParamDoc{}, ParamMethodUnknown
	}

	res, hit := r.params.getOrCompute(paramKey{sym: sym, slot: slot}, func() (paramResult, bool) {
		// a walk from the top of the graph never depends on the caller
		method, _ := r.searchMethod(sym, lookup, nil)
		switch {
		case method == nil:
			return paramResult{status: ParamMethodUnknown}, true
		case len(method.Params) == 0:
			return paramResult{status: ParamNoMetadata}, true
		}
		if p, ok := method.Param(slot); ok {
			return paramResult{status: ParamFound, doc: p}, true
		}
		return paramResult{status: ParamSlotMissing}, true
	})
	if hit {
		r.paramHits.Add(1)
	} else {
		r.paramMisses.Add(1)
	}
	return res.doc, res.status
}

// searchMethod finds the method entry for sym, an archive-namespace
// symbol. path holds the owners already on the current walk. complete is
// false when the walk was cut short at an owner already on path. Such a
// result depends on where the walk started, so it is memoized only for
// the owner the walk started from.
func (r *Resolver) searchMethod(sym mappings.Symbol, lookup AncestorLookup, path []string) (doc *mappings.MethodDoc, complete bool) {
	// classes the mappings never mention are not searched, nor cached
	if !r.index.HasClass(r.remapper.MapOwner(sym.Owner)) {
		return nil, true
	}
	if slices.Contains(path, sym.Owner) {
		return nil, false
	}

	complete = true
	doc, hit := r.methods.getOrCompute(sym, func() (*mappings.MethodDoc, bool) {
		mapped := mappings.Symbol{
			Owner:      r.remapper.MapOwner(sym.Owner),
			Name:       sym.Name,
			Descriptor: r.remapper.MapMethodDescriptor(sym.Descriptor),
		}
		if doc, ok := r.index.Method(mapped); ok {
			return doc, true
		}

		r.walks.Add(1)
		next := append(path[:len(path):len(path)], sym.Owner)
		for _, ancestor := range lookup(sym.Owner) {
			// name and descriptor stay in the archive namespace
			up := mappings.Symbol{Owner: ancestor, Name: sym.Name, Descriptor: sym.Descriptor}
			doc, ok := r.searchMethod(up, lookup, next)
			complete = complete && ok
			if doc != nil {
				return doc, complete || len(path) == 0
			}
		}
		return nil, complete || len(path) == 0
	})
	if hit {
		r.methodHits.Add(1)
	} else {
		r.methodMisses.Add(1)
	}
	return doc, complete
}

func (r *Resolver) Stats() Stats {
	return Stats{
		MethodHits:   r.methodHits.Load(),
		MethodMisses: r.methodMisses.Load(),
		ParamHits:    r.paramHits.Load(),
		ParamMisses:  r.paramMisses.Load(),
		Walks:        r.walks.Load(),
		Cached:       r.methods.len() + r.params.len(),
	}
}
