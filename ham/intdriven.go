// Copyright 2024 The QuantumEnvelope Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ham

import (
	"github.com/seanr7/QuantumEnvelope/det"
	"github.com/seanr7/QuantumEnvelope/idx"
)

// IntDriven dispatches two-electron matrix elements integral by integral:
// one sweep over the compressed integral list, and for each integral the
// occupancy index pre-filters the determinants it can couple. The category
// of the canonical index fixes the kinds of contributions (diagonal,
// single, same-spin double, opposite-spin double) it can produce.
type IntDriven struct {
	S *Store
}

// Hii is the two-electron diagonal element
func (t *IntDriven) Hii(d det.Det) float64 {
	return diagTwoE(t.S, d)
}

// intCtx carries the per-sweep state: the source basis with its occupancy
// index and the target basis membership index
type intCtx struct {
	psi   []det.Det
	index det.Map
	occ   *OccIndex
}

// spinView orients a query: same/opp occupancy maps plus which channel
// "same" refers to
type spinView struct {
	same, opp map[int]Set
	alpha     bool
}

func (c *intCtx) views() [2]spinView {
	return [2]spinView{
		{same: c.occ.A, opp: c.occ.B, alpha: true},
		{same: c.occ.B, opp: c.occ.A, alpha: false},
	}
}

// pairEmit receives one (I,J) coupling with its phase; the caller attaches
// the integral index
type pairEmit func(I, J, phase int)

// doDiagonal emits (I,I)-style couplings for the pre-filtered determinants.
// With distinct source and target bases a diagonal term survives only if
// the determinant appears in both.
func (c *intCtx) doDiagonal(indices Set, phase int, emit pairEmit) {
	for _, a := range indices.Sorted() {
		if J, ok := c.index.Index(c.psi[a]); ok {
			emit(a, J, phase)
		}
	}
}

// doSingle applies the single excitation h -> p in the view's channel to
// every candidate and emits the pairs that land in the target basis
func (c *intCtx) doSingle(indices Set, phasemod, h, p int, sv spinView, emit pairEmit) {
	for _, a := range indices.Sorted() {
		d := c.psi[a]
		var dj det.Det
		if sv.alpha {
			dj = d.ApplyExc([]int{h}, []int{p}, nil, nil)
		} else {
			dj = d.ApplyExc(nil, nil, []int{h}, []int{p})
		}
		if J, ok := c.index.Index(dj); ok {
			var phase int
			if sv.alpha {
				phase = det.SinglePhase(d.Alpha, dj.Alpha, h, p)
			} else {
				phase = det.SinglePhase(d.Beta, dj.Beta, h, p)
			}
			emit(a, J, phasemod*phase)
		}
	}
}

// doDoubleSame applies the same-spin double (h1->p1, h2->p2) in the view's
// channel. hp1 and hp2 are (hole, particle) pairs.
func (c *intCtx) doDoubleSame(hp1, hp2 [2]int, sv spinView, emit pairEmit) {
	h1, p1 := hp1[0], hp1[1]
	h2, p2 := hp2[0], hp2[1]
	indices := detsVia(sv.same, sv.opp, NewOrbs(h1, h2), nil, NewOrbs(p1, p2), nil)
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
		if J, ok := c.index.Index(dj); ok {
			emit(a, J, phase)
		}
	}
}

// doDoubleOpp applies one single per channel: (h1->p1) in the view's
// channel and (h2->p2) in the opposite one
func (c *intCtx) doDoubleOpp(hp1, hp2 [2]int, sv spinView, emit pairEmit) {
	h1, p1 := hp1[0], hp1[1]
	h2, p2 := hp2[0], hp2[1]
	indices := detsVia(sv.same, sv.opp, NewOrbs(h1), NewOrbs(h2), NewOrbs(p1), NewOrbs(p2))
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
		if J, ok := c.index.Index(dj); ok {
			emit(a, J, phaseA*phaseB)
		}
	}
}

// permutations of a (hole, particle) orbital pair
func perms(a, b int) [2][2]int {
	return [2][2]int{{a, b}, {b, a}}
}

// catA: i=j=k=l. Diagonal only; the orbital must be occupied in both spins.
func (c *intCtx) catA(i, j int, emit pairEmit) {
	indices := occIn(c.occ.A, c.occ.B, NewOrbs(i), NewOrbs(j), true)
	c.doDiagonal(indices, 1, emit)
}

// catB: i=k<j=l. Diagonal only; i and j occupied in any spin combination.
func (c *intCtx) catB(i, j int, emit pairEmit) {
	for _, sv := range c.views() {
		c.doDiagonal(occIn(sv.same, sv.opp, NewOrbs(i), NewOrbs(j), true), 1, emit)
		c.doDiagonal(occIn(sv.same, sv.opp, NewOrbs(i, j), nil, true), 1, emit)
	}
}

// catC: one of i=k, j=l. Single excitations with a spectator occupation of
// either spin; both excitation directions are produced.
func (c *intCtx) catC(i, j, k, l int, emit pairEmit) {
	var occ, x, y int
	if i == k { // <ij|il>: j <-> l with spectator i
		occ, x, y = i, j, l
	} else { // j == l, <ij|kj>: i <-> k with spectator j
		occ, x, y = j, i, k
	}
	for _, sv := range c.views() {
		for _, hp := range perms(x, y) {
			h, p := hp[0], hp[1]
			c.doSingle(detsVia(sv.same, sv.opp, NewOrbs(occ, h), nil, NewOrbs(p), nil), 1, h, p, sv, emit)
			c.doSingle(detsVia(sv.same, sv.opp, NewOrbs(h), NewOrbs(occ), NewOrbs(p), nil), 1, h, p, sv, emit)
		}
	}
}

// catD: three equal indices. Single excitations with a necessarily
// opposite-spin spectator.
func (c *intCtx) catD(i, j, l int, emit pairEmit) {
	var occ, x, y int
	if i == j { // <ii|il>: i <-> l with opposite-spin spectator i
		occ, x, y = i, i, l
	} else { // i < j=k=l, <ij|jj>: j <-> i with opposite-spin spectator j
		occ, x, y = j, j, i
	}
	for _, sv := range c.views() {
		for _, hp := range perms(x, y) {
			h, p := hp[0], hp[1]
			c.doSingle(detsVia(sv.same, sv.opp, NewOrbs(h), NewOrbs(occ), NewOrbs(p), nil), 1, h, p, sv, emit)
		}
	}
}

// catE: one adjacent equality. Same-spin singles with phase -1 plus all
// opposite-spin doubles.
func (c *intCtx) catE(i, j, k, l int, emit pairEmit) {
	for _, hp1 := range perms(i, k) {
		for _, hp2 := range perms(j, l) {
			for _, sv := range c.views() {
				c.doDoubleOpp(hp1, hp2, sv, emit)
			}
		}
	}
	var occ, x, y int
	switch {
	case i == j: // <ii|kl>: k <-> l with same-spin spectator i
		occ, x, y = i, k, l
	case j == k: // <ij|jl>: i <-> l with same-spin spectator j
		occ, x, y = j, i, l
	default: // k == l, <ij|kk>: i <-> j with same-spin spectator k
		occ, x, y = k, i, j
	}
	for _, sv := range c.views() {
		for _, hp := range perms(x, y) {
			h, p := hp[0], hp[1]
			c.doSingle(detsVia(sv.same, sv.opp, NewOrbs(occ, h), nil, NewOrbs(p), nil), -1, h, p, sv, emit)
		}
	}
}

// catF: i=j<k=l. Exchange diagonal with phase -1 plus opposite-spin doubles
// pairing (i,k) against (i,k). One hole-particle ordering is spin-symmetric
// and enumerated once per spin orientation that produces distinct pairs.
func (c *intCtx) catF(i, k int, emit pairEmit) {
	for _, sv := range c.views() {
		c.doDiagonal(occIn(sv.same, sv.opp, NewOrbs(i, k), nil, true), -1, emit)
	}
	vs := c.views()
	av, bv := vs[0], vs[1]
	c.doDoubleOpp([2]int{i, k}, [2]int{i, k}, av, emit)
	c.doDoubleOpp([2]int{i, k}, [2]int{k, i}, av, emit)
	c.doDoubleOpp([2]int{i, k}, [2]int{k, i}, bv, emit)
	c.doDoubleOpp([2]int{k, i}, [2]int{k, i}, av, emit)
}

// catG: all four distinct. Same-spin and opposite-spin doubles over every
// hole-particle pairing of (i,k) with (j,l).
func (c *intCtx) catG(i, j, k, l int, emit pairEmit) {
	for _, hp1 := range perms(i, k) {
		for _, hp2 := range perms(j, l) {
			for _, sv := range c.views() {
				c.doDoubleSame(hp1, hp2, sv, emit)
			}
		}
	}
	for _, hp1 := range perms(i, k) {
		for _, hp2 := range perms(j, l) {
			for _, sv := range c.views() {
				c.doDoubleOpp(hp1, hp2, sv, emit)
			}
		}
	}
}

// dispatch routes one canonical integral index through its category handler
func (c *intCtx) dispatch(i, j, k, l int, emit pairEmit) {
	switch idx.Category(i, j, k, l) {
	case idx.CatA:
		c.catA(i, j, emit)
	case idx.CatB:
		c.catB(i, j, emit)
	case idx.CatC:
		c.catC(i, j, k, l, emit)
	case idx.CatD:
		c.catD(i, j, l, emit)
	case idx.CatE:
		c.catE(i, j, k, l, emit)
	case idx.CatF:
		c.catF(i, k, emit)
	case idx.CatG:
		c.catG(i, j, k, l, emit)
	}
}

// Each sweeps the integral list once, emitting every (I,J) contribution
func (t *IntDriven) Each(psiI, psiJ []det.Det, emit EmitFunc) {
	c := &intCtx{psi: psiI, index: det.NewMap(psiJ), occ: BuildOcc(psiI)}
	t.S.EachIntegral(func(i, j, k, l int, v float64) {
		c.dispatch(i, j, k, l, func(I, J, phase int) {
			emit(I, J, i, j, k, l, phase)
		})
	})
}

// EachIdx runs the category dispatch for a single canonical index against
// an explicit target index; used by the category-level tests
func (t *IntDriven) EachIdx(i, j, k, l int, psiI []det.Det, index det.Map, emit EmitFunc) {
	c := &intCtx{psi: psiI, index: index, occ: BuildOcc(psiI)}
	c.dispatch(i, j, k, l, func(I, J, phase int) {
		emit(I, J, i, j, k, l, phase)
	})
}
