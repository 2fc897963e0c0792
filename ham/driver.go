// Copyright 2024 The QuantumEnvelope Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ham

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"

	"github.com/seanr7/QuantumEnvelope/det"
)

// EmitFunc receives one two-electron contribution to <I|H|J>: the integral
// index (i,j,k,l), not necessarily canonical, and its signed phase
type EmitFunc func(I, J int, i, j, k, l, phase int)

// EmitPT2Func receives one contribution to <I|H|J> where J lies in the
// connected space and is therefore passed by value, not by basis index
type EmitPT2Func func(I int, dJ det.Det, i, j, k, l, phase int)

// TwoElectron is the two-electron Slater-Condon dispatcher. Each walks all
// (I,J) pairs of (psiI, psiJ) with nonzero coupling; EachPT2 walks the
// pairs (I, J) with I internal and J in the shard of the connected space
// selected by the constraint C. Both emit lazily, one term at a time.
type TwoElectron interface {
	Hii(d det.Det) float64
	Each(psiI, psiJ []det.Det, emit EmitFunc)
	EachPT2(psi []det.Det, C det.Constraint, emit EmitPT2Func)
}

// drivers holds the available two-electron dispatch strategies
var drivers = map[string]func(s *Store) TwoElectron{
	"determinant": func(s *Store) TwoElectron { return &DetDriven{S: s} },
	"integral":    func(s *Store) TwoElectron { return &IntDriven{S: s} },
}

// NewTwoElectron returns the dispatcher named by drivenBy
func NewTwoElectron(drivenBy string, s *Store) TwoElectron {
	alloc, ok := drivers[drivenBy]
	if !ok {
		chk.Panic("cannot find two-electron driver named %q", drivenBy)
	}
	return alloc(s)
}

// eachDiagIndex yields the two-electron integral indices and phases of the
// diagonal element <I|H|I>: direct and exchange terms for same-spin pairs,
// direct only for opposite-spin pairs
func eachDiagIndex(d det.Det, fn func(i, j, k, l, phase int)) {
	for a := 0; a < len(d.Alpha); a++ {
		for b := a + 1; b < len(d.Alpha); b++ {
			i, j := d.Alpha[a], d.Alpha[b]
			fn(i, j, i, j, 1)
			fn(i, j, j, i, -1)
		}
	}
	for a := 0; a < len(d.Beta); a++ {
		for b := a + 1; b < len(d.Beta); b++ {
			i, j := d.Beta[a], d.Beta[b]
			fn(i, j, i, j, 1)
			fn(i, j, j, i, -1)
		}
	}
	for _, i := range d.Alpha {
		for _, j := range d.Beta {
			fn(i, j, i, j, 1)
		}
	}
}

// diagTwoE evaluates the two-electron diagonal against the store
func diagTwoE(s *Store, d det.Det) float64 {
	res := 0.0
	eachDiagIndex(d, func(i, j, k, l, phase int) {
		res += float64(phase) * s.H2(i, j, k, l)
	})
	return res
}

// MatTwoE accumulates a dense psiI x psiJ two-electron block from a driver
func MatTwoE(t TwoElectron, s *Store, psiI, psiJ []det.Det) [][]float64 {
	h := la.MatAlloc(len(psiI), len(psiJ))
	t.Each(psiI, psiJ, func(I, J, i, j, k, l, phase int) {
		h[I][J] += float64(phase) * s.H2(i, j, k, l)
	})
	return h
}
