// Copyright 2024 The QuantumEnvelope Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ham

import (
	"sort"

	"github.com/seanr7/QuantumEnvelope/det"
)

// Set is a set of determinant indices
type Set map[int]struct{}

// Sorted returns the members in increasing order
func (s Set) Sorted() []int {
	out := make([]int, 0, len(s))
	for i := range s {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// Orbs is a small set of orbital indices used to phrase occupancy queries
type Orbs map[int]struct{}

// NewOrbs builds an orbital set from the given members
func NewOrbs(os ...int) Orbs {
	s := make(Orbs, len(os))
	for _, o := range os {
		s[o] = struct{}{}
	}
	return s
}

// OrbRange returns the half-open orbital range [lo, hi)
func OrbRange(lo, hi int) Orbs {
	s := make(Orbs, hi-lo)
	for o := lo; o < hi; o++ {
		s[o] = struct{}{}
	}
	return s
}

// Has reports membership
func (s Orbs) Has(o int) bool {
	_, ok := s[o]
	return ok
}

// With returns a copy extended by the given orbitals
func (s Orbs) With(os ...int) Orbs {
	out := make(Orbs, len(s)+len(os))
	for o := range s {
		out[o] = struct{}{}
	}
	for _, o := range os {
		out[o] = struct{}{}
	}
	return out
}

// Without returns a copy with the given orbitals removed
func (s Orbs) Without(os ...int) Orbs {
	out := make(Orbs, len(s))
	for o := range s {
		out[o] = struct{}{}
	}
	for _, o := range os {
		delete(out, o)
	}
	return out
}

// Minus returns the difference s \ t
func (s Orbs) Minus(t Orbs) Orbs {
	out := make(Orbs, len(s))
	for o := range s {
		if !t.Has(o) {
			out[o] = struct{}{}
		}
	}
	return out
}

// OccIndex is the inverted index mapping orbital -> indices of determinants
// occupied in that orbital, one map per spin channel. Immutable after
// construction; rebuilt whenever the basis changes.
type OccIndex struct {
	A map[int]Set
	B map[int]Set
}

// BuildOcc indexes the determinant list psi
func BuildOcc(psi []det.Det) *OccIndex {
	o := &OccIndex{A: make(map[int]Set), B: make(map[int]Set)}
	add := func(m map[int]Set, orb, i int) {
		s, ok := m[orb]
		if !ok {
			s = make(Set)
			m[orb] = s
		}
		s[i] = struct{}{}
	}
	for i, d := range psi {
		for _, orb := range d.Alpha {
			add(o.A, orb, i)
		}
		for _, orb := range d.Beta {
			add(o.B, orb, i)
		}
	}
	return o
}

// occIn returns the determinants occupied in the requested orbitals: the
// intersection over all of them when all is true, the union otherwise.
// "same" orbitals are looked up in the same-spin map, "opp" in the other
// channel's. An empty query returns the empty set.
func occIn(same, opp map[int]Set, sameOrbs, oppOrbs Orbs, all bool) Set {
	var terms []Set
	for o := range sameOrbs {
		terms = append(terms, same[o])
	}
	for o := range oppOrbs {
		terms = append(terms, opp[o])
	}
	out := make(Set)
	if len(terms) == 0 {
		return out
	}
	if all {
		// intersect starting from the smallest term
		smallest := 0
		for t, s := range terms {
			if len(s) < len(terms[smallest]) {
				smallest = t
			}
		}
		if len(terms[smallest]) == 0 {
			return out
		}
	scan:
		for i := range terms[smallest] {
			for t, s := range terms {
				if t == smallest {
					continue
				}
				if _, ok := s[i]; !ok {
					continue scan
				}
			}
			out[i] = struct{}{}
		}
		return out
	}
	for _, s := range terms {
		for i := range s {
			out[i] = struct{}{}
		}
	}
	return out
}

// detsVia returns the determinants occupied in all of (occS, occO) and
// unoccupied in every one of (unoccS, unoccO)
func detsVia(same, opp map[int]Set, occS, occO, unoccS, unoccO Orbs) Set {
	occ := occIn(same, opp, occS, occO, true)
	if len(occ) == 0 {
		return occ
	}
	drop := occIn(same, opp, unoccS, unoccO, false)
	if len(drop) == 0 {
		return occ
	}
	out := make(Set, len(occ))
	for i := range occ {
		if _, ok := drop[i]; !ok {
			out[i] = struct{}{}
		}
	}
	return out
}

// DetsOccIn is the exported form of occIn against the index, taking the
// querying spin channel ("same") as alpha when alpha is true
func (o *OccIndex) DetsOccIn(alpha bool, sameOrbs, oppOrbs Orbs, all bool) Set {
	if alpha {
		return occIn(o.A, o.B, sameOrbs, oppOrbs, all)
	}
	return occIn(o.B, o.A, sameOrbs, oppOrbs, all)
}

// DetsVia is the exported form of detsVia against the index
func (o *OccIndex) DetsVia(alpha bool, occS, occO, unoccS, unoccO Orbs) Set {
	if alpha {
		return detsVia(o.A, o.B, occS, occO, unoccS, unoccO)
	}
	return detsVia(o.B, o.A, occS, occO, unoccS, unoccO)
}
