// Copyright 2024 The QuantumEnvelope Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ham

import (
	"github.com/cpmech/gosl/chk"

	"github.com/seanr7/QuantumEnvelope/det"
	"github.com/seanr7/QuantumEnvelope/idx"
)

// PT2 variants of the integral-driven dispatch. The target determinants
// live in the connected space selected by a triplet constraint C, which is
// being discovered by this very enumeration, so membership tests are
// replaced by constraint pruning of the candidate source determinants:
// an excitation out of C can never satisfy it, a particle above min(C)
// outside C lands in a higher constraint, and every alpha orbital above
// min(C) not in C must end up unoccupied.

// pt2Emit receives one (I, J) coupling where J is passed by value
type pt2Emit func(I int, dJ det.Det, phase int)

// pt2Ctx carries the source basis, its occupancy index and the orbital count
type pt2Ctx struct {
	psi  []det.Det
	occ  *OccIndex
	nOrb int
}

func (c *pt2Ctx) views() [2]spinView {
	return [2]spinView{
		{same: c.occ.A, opp: c.occ.B, alpha: true},
		{same: c.occ.B, opp: c.occ.A, alpha: false},
	}
}

// doSinglePT2 applies the single h -> p in the view's channel to every
// candidate; by construction of the pre-filter the result satisfies C
func (c *pt2Ctx) doSinglePT2(indices Set, phasemod, h, p int, sv spinView, C det.Constraint, emit pt2Emit) {
	for _, a := range indices.Sorted() {
		d := c.psi[a]
		var dj det.Det
		var phase int
		if sv.alpha {
			dj = d.ApplyExc([]int{h}, []int{p}, nil, nil)
			phase = det.SinglePhase(d.Alpha, dj.Alpha, h, p)
		} else {
			dj = d.ApplyExc(nil, nil, []int{h}, []int{p})
			phase = det.SinglePhase(d.Beta, dj.Beta, h, p)
		}
		if det.CheckConstraint(dj) != C {
			chk.Panic("single %d->%d from %v escapes constraint %v", h, p, d, C)
		}
		emit(a, dj, phasemod*phase)
	}
}

// doDoubleSamePT2 is the constrained form of doDoubleSame
func (c *pt2Ctx) doDoubleSamePT2(hp1, hp2 [2]int, sv spinView, C det.Constraint, emit pt2Emit) {
	h1, p1 := hp1[0], hp1[1]
	h2, p2 := hp2[0], hp2[1]
	a1 := C.Min()
	cs := NewOrbs(C[0], C[1], C[2])
	var indices Set
	if sv.alpha {
		if C.Has(h1) || C.Has(h2) {
			return
		}
		p1out, p2out := !C.Has(p1), !C.Has(p2)
		if (p1out && p1 > a1) || (p2out && p2 > a1) {
			return
		}
		// the alpha channel of every candidate must already carry C minus
		// whatever the particles themselves supply
		occC := cs
		if p1out && p2out {
			// both particles below a1
		} else if p1out {
			occC = cs.Without(p2)
		} else if p2out {
			occC = cs.Without(p1)
		} else {
			occC = cs.Without(p1, p2)
		}
		unocc := OrbRange(a1+1, c.nOrb).Minus(occC.With(h1, h2)).With(p1, p2)
		indices = detsVia(sv.same, sv.opp, occC.With(h1, h2), nil, unocc, nil)
	} else {
		unoccOpp := OrbRange(a1+1, c.nOrb).Minus(cs)
		indices = detsVia(sv.same, sv.opp, NewOrbs(h1, h2), cs, NewOrbs(p1, p2), unoccOpp)
	}
	for _, a := range indices.Sorted() {
		d := c.psi[a]
		var dj det.Det
		var phase int
		if sv.alpha {
			dj = d.ApplyExc([]int{h1, h2}, []int{p1, p2}, nil, nil)
			phase = det.DoublePhase(d.Alpha, dj.Alpha, h1, h2, p1, p2)
		} else {
			dj = d.ApplyExc(nil, nil, []int{h1, h2}, []int{p1, p2})
			phase = det.DoublePhase(d.Beta, dj.Beta, h1, h2, p1, p2)
		}
		if det.CheckConstraint(dj) != C {
			chk.Panic("same-spin double from %v escapes constraint %v", d, C)
		}
		emit(a, dj, phase)
	}
}

// doDoubleOppPT2 is the constrained form of doDoubleOpp; hp1 excites the
// view's channel, hp2 the opposite one
func (c *pt2Ctx) doDoubleOppPT2(hp1, hp2 [2]int, sv spinView, C det.Constraint, emit pt2Emit) {
	h1, p1 := hp1[0], hp1[1]
	h2, p2 := hp2[0], hp2[1]
	a1 := C.Min()
	cs := NewOrbs(C[0], C[1], C[2])
	var indices Set
	if sv.alpha {
		if C.Has(h1) {
			return
		}
		if !C.Has(p1) && p1 > a1 {
			return
		}
		occC := cs
		if C.Has(p1) {
			occC = cs.Without(p1)
		}
		unocc := OrbRange(a1+1, c.nOrb).Minus(occC.With(h1)).With(p1)
		indices = detsVia(sv.same, sv.opp, occC.With(h1), NewOrbs(h2), unocc, NewOrbs(p2))
	} else {
		// hp2 lands in the alpha channel here
		if C.Has(h2) {
			return
		}
		if !C.Has(p2) && p2 > a1 {
			return
		}
		occC := cs
		if C.Has(p2) {
			occC = cs.Without(p2)
		}
		unoccOpp := OrbRange(a1+1, c.nOrb).Minus(occC.With(h2)).With(p2)
		indices = detsVia(sv.same, sv.opp, NewOrbs(h1), occC.With(h2), NewOrbs(p1), unoccOpp)
	}
	for _, a := range indices.Sorted() {
		d := c.psi[a]
		var dj det.Det
		var phaseA, phaseB int
		if sv.alpha {
			dj = d.ApplyExc([]int{h1}, []int{p1}, []int{h2}, []int{p2})
			phaseA = det.SinglePhase(d.Alpha, dj.Alpha, h1, p1)
			phaseB = det.SinglePhase(d.Beta, dj.Beta, h2, p2)
		} else {
			dj = d.ApplyExc([]int{h2}, []int{p2}, []int{h1}, []int{p1})
			phaseA = det.SinglePhase(d.Beta, dj.Beta, h1, p1)
			phaseB = det.SinglePhase(d.Alpha, dj.Alpha, h2, p2)
		}
		if det.CheckConstraint(dj) != C {
			chk.Panic("opposite-spin double from %v escapes constraint %v", d, C)
		}
		emit(a, dj, phaseA*phaseB)
	}
}

// singlePT2 prunes and emits one constrained single direction h -> p with a
// spectator orbital occ. spectatorOpp limits the spectator to the opposite
// channel (category D); spectatorSame to the same channel (category E).
func (c *pt2Ctx) singlePT2(occ, h, p, phasemod int, spectatorOpp, spectatorSame bool, sv spinView, C det.Constraint, emit pt2Emit) {
	a1 := C.Min()
	cs := NewOrbs(C[0], C[1], C[2])
	if sv.alpha {
		if C.Has(h) {
			return
		}
		if !C.Has(p) && p > a1 {
			return
		}
		occC := cs
		if C.Has(p) {
			occC = cs.Without(p)
		}
		unocc := OrbRange(a1+1, c.nOrb).Minus(occC.With(h)).With(p)
		occHigh := !C.Has(occ) && occ > a1
		if spectatorSame && occHigh {
			// an alpha spectator above min(C) outside C pins a different
			// constraint, and this category has no opposite-spin spectator
			return
		}
		if !spectatorSame {
			// spectator in the opposite channel
			c.doSinglePT2(detsVia(sv.same, sv.opp, occC.With(h), NewOrbs(occ), unocc, nil),
				phasemod, h, p, sv, C, emit)
		}
		if spectatorOpp {
			return
		}
		if !occHigh {
			// spectator in the same channel
			c.doSinglePT2(detsVia(sv.same, sv.opp, occC.With(occ, h), nil, unocc, nil),
				phasemod, h, p, sv, C, emit)
		}
		return
	}
	// beta excitation: the alpha channel must already satisfy C
	unoccOpp := OrbRange(a1+1, c.nOrb).Minus(cs)
	occHigh := !C.Has(occ) && occ > a1
	if spectatorSame {
		// spectator is beta, no restriction from C
		c.doSinglePT2(detsVia(sv.same, sv.opp, NewOrbs(h, occ), cs, NewOrbs(p), unoccOpp),
			phasemod, h, p, sv, C, emit)
		return
	}
	if spectatorOpp {
		// spectator is alpha
		if occHigh {
			return
		}
		c.doSinglePT2(detsVia(sv.same, sv.opp, NewOrbs(h), cs.With(occ), NewOrbs(p), OrbRange(a1+1, c.nOrb).Minus(cs.With(occ))),
			phasemod, h, p, sv, C, emit)
		return
	}
	// spectator of either spin (category C)
	c.doSinglePT2(detsVia(sv.same, sv.opp, NewOrbs(h, occ), cs, NewOrbs(p), unoccOpp),
		phasemod, h, p, sv, C, emit)
	if !occHigh {
		c.doSinglePT2(detsVia(sv.same, sv.opp, NewOrbs(h), cs.With(occ), NewOrbs(p), OrbRange(a1+1, c.nOrb).Minus(cs.With(occ))),
			phasemod, h, p, sv, C, emit)
	}
}

// catCPT2: constrained singles with a spectator of either spin
func (c *pt2Ctx) catCPT2(i, j, k, l int, C det.Constraint, emit pt2Emit) {
	var occ, x, y int
	if i == k {
		occ, x, y = i, j, l
	} else {
		occ, x, y = j, i, k
	}
	for _, sv := range c.views() {
		for _, hp := range perms(x, y) {
			c.singlePT2(occ, hp[0], hp[1], 1, false, false, sv, C, emit)
		}
	}
}

// catDPT2: constrained singles with an opposite-spin spectator
func (c *pt2Ctx) catDPT2(i, j, l int, C det.Constraint, emit pt2Emit) {
	var occ, x, y int
	if i == j {
		occ, x, y = i, i, l
	} else {
		occ, x, y = j, j, i
	}
	for _, sv := range c.views() {
		for _, hp := range perms(x, y) {
			c.singlePT2(occ, hp[0], hp[1], 1, true, false, sv, C, emit)
		}
	}
}

// catEPT2: constrained opposite-spin doubles plus same-spin singles
func (c *pt2Ctx) catEPT2(i, j, k, l int, C det.Constraint, emit pt2Emit) {
	for _, hp1 := range perms(i, k) {
		for _, hp2 := range perms(j, l) {
			for _, sv := range c.views() {
				c.doDoubleOppPT2(hp1, hp2, sv, C, emit)
			}
		}
	}
	var occ, x, y int
	switch {
	case i == j:
		occ, x, y = i, k, l
	case j == k:
		occ, x, y = j, i, l
	default: // k == l
		occ, x, y = k, i, j
	}
	for _, sv := range c.views() {
		for _, hp := range perms(x, y) {
			c.singlePT2(occ, hp[0], hp[1], -1, false, true, sv, C, emit)
		}
	}
}

// catFPT2: constrained opposite-spin doubles; the diagonal part couples
// nothing outside the basis
func (c *pt2Ctx) catFPT2(i, k int, C det.Constraint, emit pt2Emit) {
	vs := c.views()
	av, bv := vs[0], vs[1]
	c.doDoubleOppPT2([2]int{i, k}, [2]int{i, k}, av, C, emit)
	c.doDoubleOppPT2([2]int{i, k}, [2]int{k, i}, av, C, emit)
	c.doDoubleOppPT2([2]int{i, k}, [2]int{k, i}, bv, C, emit)
	c.doDoubleOppPT2([2]int{k, i}, [2]int{k, i}, av, C, emit)
}

// catGPT2: constrained same-spin and opposite-spin doubles
func (c *pt2Ctx) catGPT2(i, j, k, l int, C det.Constraint, emit pt2Emit) {
	for _, hp1 := range perms(i, k) {
		for _, hp2 := range perms(j, l) {
			for _, sv := range c.views() {
				c.doDoubleSamePT2(hp1, hp2, sv, C, emit)
			}
		}
	}
	for _, hp1 := range perms(i, k) {
		for _, hp2 := range perms(j, l) {
			for _, sv := range c.views() {
				c.doDoubleOppPT2(hp1, hp2, sv, C, emit)
			}
		}
	}
}

// dispatchPT2 routes one canonical index; categories A and B only touch
// diagonals and never reach the connected space
func (c *pt2Ctx) dispatchPT2(i, j, k, l int, C det.Constraint, emit pt2Emit) {
	switch idx.Category(i, j, k, l) {
	case idx.CatC:
		c.catCPT2(i, j, k, l, C, emit)
	case idx.CatD:
		c.catDPT2(i, j, l, C, emit)
	case idx.CatE:
		c.catEPT2(i, j, k, l, C, emit)
	case idx.CatF:
		c.catFPT2(i, k, C, emit)
	case idx.CatG:
		c.catGPT2(i, j, k, l, C, emit)
	}
}

// EachPT2 sweeps the integral list once, emitting every contribution to a
// connected determinant satisfying C
func (t *IntDriven) EachPT2(psi []det.Det, C det.Constraint, emit EmitPT2Func) {
	c := &pt2Ctx{psi: psi, occ: BuildOcc(psi), nOrb: t.S.NOrb}
	t.S.EachIntegral(func(i, j, k, l int, v float64) {
		c.dispatchPT2(i, j, k, l, C, func(I int, dJ det.Det, phase int) {
			emit(I, dJ, i, j, k, l, phase)
		})
	})
}

// EachIdxPT2 runs the constrained dispatch for a single canonical index;
// used by the category-level tests
func (t *IntDriven) EachIdxPT2(i, j, k, l int, psi []det.Det, C det.Constraint, emit EmitPT2Func) {
	c := &pt2Ctx{psi: psi, occ: BuildOcc(psi), nOrb: t.S.NOrb}
	c.dispatchPT2(i, j, k, l, C, func(I int, dJ det.Det, phase int) {
		emit(I, dJ, i, j, k, l, phase)
	})
}
