// Copyright 2024 The QuantumEnvelope Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ham

import (
	"github.com/seanr7/QuantumEnvelope/det"
)

// DetDriven dispatches two-electron matrix elements determinant by
// determinant: for every pair (I,J) the excitation degree selects the
// Slater-Condon case and the integral indices follow from the hole/particle
// pairs. Simple and exhaustive; quadratic in the basis size.
type DetDriven struct {
	S *Store
}

// Hii is the two-electron diagonal element
func (t *DetDriven) Hii(d det.Det) float64 {
	return diagTwoE(t.S, d)
}

// HijIndices yields the integral-index/phase terms of <I|H|J>, dispatching
// on the per-channel excitation degrees
func (t *DetDriven) HijIndices(di, dj det.Det, fn func(i, j, k, l, phase int)) {
	single := func(si, sj, spectator det.Spin) {
		phase, h, p := det.SingleExc(si, sj)
		for _, i := range si {
			fn(h, i, p, i, phase)
			fn(h, i, i, p, -phase)
		}
		for _, i := range spectator {
			fn(h, i, p, i, phase)
		}
	}
	double := func(si, sj det.Spin) {
		phase, h1, h2, p1, p2 := det.DoubleExc(si, sj)
		fn(h1, h2, p1, p2, phase)
		fn(h1, h2, p2, p1, -phase)
	}
	da, db := det.ExcDegree(di, dj)
	switch {
	case da == 0 && db == 0:
		eachDiagIndex(di, fn)
	case da == 1 && db == 0:
		single(di.Alpha, dj.Alpha, di.Beta)
	case da == 0 && db == 1:
		single(di.Beta, dj.Beta, di.Alpha)
	case da == 2 && db == 0:
		double(di.Alpha, dj.Alpha)
	case da == 0 && db == 2:
		double(di.Beta, dj.Beta)
	case da == 1 && db == 1:
		phaseA, h1, p1 := det.SingleExc(di.Alpha, dj.Alpha)
		phaseB, h2, p2 := det.SingleExc(di.Beta, dj.Beta)
		fn(h1, h2, p1, p2, phaseA*phaseB)
	}
}

// Each walks every (I,J) pair of the two bases
func (t *DetDriven) Each(psiI, psiJ []det.Det, emit EmitFunc) {
	for a, di := range psiI {
		for b, dj := range psiJ {
			t.HijIndices(di, dj, func(i, j, k, l, phase int) {
				emit(a, b, i, j, k, l, phase)
			})
		}
	}
}

// EachPT2 walks, for every internal I, the single and double excitations
// of I that land in the shard of the connected space selected by C
func (t *DetDriven) EachPT2(psi []det.Det, C det.Constraint, emit EmitPT2Func) {
	exc := det.Excitations{NOrb: t.S.NOrb}
	for a, di := range psi {
		for _, dj := range exc.ConstrainedSingles(di, C) {
			dj := dj
			t.HijIndices(di, dj, func(i, j, k, l, phase int) {
				emit(a, dj, i, j, k, l, phase)
			})
		}
		for _, dj := range exc.ConstrainedDoubles(di, C) {
			dj := dj
			t.HijIndices(di, dj, func(i, j, k, l, phase int) {
				emit(a, dj, i, j, k, l, phase)
			})
		}
	}
}
