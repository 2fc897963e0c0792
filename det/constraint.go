// Copyright 2024 The QuantumEnvelope Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package det

import "github.com/cpmech/gosl/chk"

// Constraint is a triplet of alpha orbitals, strictly increasing. A
// determinant satisfies the constraint when its three highest occupied
// alpha orbitals are exactly this triplet; the constraints partition the
// connected space into disjoint shards.
type Constraint [3]int

// CheckConstraint returns the constraint satisfied by d
func CheckConstraint(d Det) (c Constraint) {
	n := len(d.Alpha)
	if n < 3 {
		chk.Panic("determinant with %d alpha electrons cannot satisfy a triplet constraint", n)
	}
	copy(c[:], d.Alpha[n-3:])
	return
}

// AllConstraints enumerates every triplet constraint reachable by a system
// of nElec alpha electrons in nOrb orbitals: the 3-subsets of
// {nElec-3, ..., nOrb-1}. The bottom nElec-3 alpha electrons are pinned to
// the lowest orbitals since only the top three matter.
func AllConstraints(nElec, nOrb int) []Constraint {
	if nElec < 3 {
		chk.Panic("need at least 3 alpha electrons to build triplet constraints (have %d)", nElec)
	}
	orbs := make([]int, 0, nOrb-(nElec-3))
	for o := nElec - 3; o < nOrb; o++ {
		orbs = append(orbs, o)
	}
	var out []Constraint
	combinations(orbs, 3, func(sel []int) {
		out = append(out, Constraint{sel[0], sel[1], sel[2]})
	})
	return out
}

// Has reports whether orbital o belongs to the constraint
func (c Constraint) Has(o int) bool {
	return o == c[0] || o == c[1] || o == c[2]
}

// Min returns the lowest constraint orbital
func (c Constraint) Min() int {
	return c[0]
}
