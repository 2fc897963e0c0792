// Copyright 2024 The QuantumEnvelope Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pt2

import (
	"github.com/seanr7/QuantumEnvelope/comm"
	"github.com/seanr7/QuantumEnvelope/det"
)

// constraintWork estimates the number of connected determinants reachable
// from the basis that satisfy C: per source determinant, an upper bound on
// hole/particle pairs per spin combination (a, b, aa, bb, ab) that can
// preserve the constraint.
func constraintWork(C det.Constraint, psi []det.Det, nOrb int) int {
	a1 := C.Min()
	nb := len(psi[0].Beta)
	work := 0
	for _, d := range psi {
		// alpha occupancies relative to the constraint orbitals and the
		// non-constraint orbitals above min(C)
		inC := 0
		higher := 0
		lowerOcc := 0
		for _, o := range d.Alpha {
			switch {
			case C.Has(o):
				inC++
			case o > a1:
				higher++
			case o < a1:
				lowerOcc++
			}
		}
		lowerUnocc := a1 - lowerOcc // orbitals below min(C) not occupied in alpha

		// particles (or pairs) that can complete the constraint
		var pa, pb, paa, pbb, pab int
		switch inC {
		case 0:
			// no excitation reaches C
		case 1:
			paa = 1
		case 2:
			pa = 1
			paa = lowerUnocc
			pab = nOrb - nb
		case 3:
			pa = lowerUnocc
			pb = nOrb - nb
			paa = lowerUnocc * (lowerUnocc - 1) / 2
			pbb = (nOrb - nb) * (nOrb - nb - 1) / 2
			pab = (nOrb - nb) * lowerUnocc
		}

		// holes (or pairs) that can vacate the obstructing orbitals
		var ha, hb, haa, hbb, hab int
		switch {
		case higher > 2:
			// no excitation reaches C
		case higher == 2:
			haa = 1
		case higher == 1:
			ha = 1
			haa = lowerOcc
			hab = nb
		default:
			ha = lowerOcc
			hb = nb
			haa = lowerOcc * (lowerOcc - 1) / 2
			hbb = nb * (nb - 1) / 2
			hab = lowerOcc * nb
		}

		work += pa*ha + pb*hb + paa*haa + pbb*hbb + pab*hab
	}
	return work
}

// DispatchConstraints statically load-balances the triplet constraints
// across the group: each constraint with nonzero estimated work goes to the
// currently least-loaded rank (MINLOC reduction, ties to the lowest rank).
// Every rank walks the full constraint list in the same order, so the
// assignment is deterministic. Returns this rank's constraints and their
// estimated work.
func DispatchConstraints(c *comm.Comm, psi []det.Det, nOrb int) ([]det.Constraint, []int) {
	na := len(psi[0].Alpha)
	var mine []det.Constraint
	var work []int
	load := 0
	for _, C := range det.AllConstraints(na, nOrb) {
		h := constraintWork(C, psi, nOrb)
		if h == 0 {
			continue
		}
		if c.AllreduceMinloc(load) == c.Rank() {
			mine = append(mine, C)
			work = append(work, h)
			load += h
		}
	}
	return mine, work
}
