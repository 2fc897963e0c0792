// Copyright 2024 The QuantumEnvelope Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package det

import "github.com/cpmech/gosl/chk"

// SinglePhase computes the +-1 sign of the single excitation h -> p
// relating the channels si and sj. The phase flips once for every occupied
// orbital passed before reaching h in si and before reaching p in sj.
func SinglePhase(si, sj Spin, h, p int) int {
	phase := 1
	for _, o := range si {
		if o == h {
			break
		}
		phase = -phase
	}
	for _, o := range sj {
		if o == p {
			break
		}
		phase = -phase
	}
	return phase
}

// SingleExcNoPhase extracts the unique hole/particle pair of two channels
// differing by exactly one orbital: h occupied only in si, p only in sj
func SingleExcNoPhase(si, sj Spin) (h, p int) {
	h, p = -1, -1
	for _, o := range si {
		if !sj.Has(o) {
			if h >= 0 {
				chk.Panic("channels %v and %v differ by more than one orbital", si, sj)
			}
			h = o
		}
	}
	for _, o := range sj {
		if !si.Has(o) {
			if p >= 0 {
				chk.Panic("channels %v and %v differ by more than one orbital", si, sj)
			}
			p = o
		}
	}
	if h < 0 || p < 0 {
		chk.Panic("channels %v and %v are not related by a single excitation", si, sj)
	}
	return
}

// SingleExc returns (phase, hole, particle) for a single excitation
func SingleExc(si, sj Spin) (phase, h, p int) {
	h, p = SingleExcNoPhase(si, sj)
	return SinglePhase(si, sj, h, p), h, p
}

// DoublePhase computes the sign of the double excitation (h1,h2) -> (p1,p2)
// within one channel. See https://arxiv.org/abs/1311.6244 for a loopless
// formulation of the same bookkeeping.
func DoublePhase(si, sj Spin, h1, h2, p1, p2 int) int {
	phase := SinglePhase(si, sj, h1, p1) * SinglePhase(sj, si, p2, h2)
	if h2 < h1 {
		phase = -phase
	}
	if p2 < p1 {
		phase = -phase
	}
	return phase
}

// DoubleExcNoPhase extracts the ascending holes/particles of two channels
// differing by exactly two orbitals
func DoubleExcNoPhase(si, sj Spin) (h1, h2, p1, p2 int) {
	var holes, parts []int
	for _, o := range si {
		if !sj.Has(o) {
			holes = append(holes, o)
		}
	}
	for _, o := range sj {
		if !si.Has(o) {
			parts = append(parts, o)
		}
	}
	if len(holes) != 2 || len(parts) != 2 {
		chk.Panic("channels %v and %v are not related by a double excitation", si, sj)
	}
	return holes[0], holes[1], parts[0], parts[1]
}

// DoubleExc returns (phase, h1, h2, p1, p2) for a same-spin double excitation
func DoubleExc(si, sj Spin) (phase, h1, h2, p1, p2 int) {
	h1, h2, p1, p2 = DoubleExcNoPhase(si, sj)
	return DoublePhase(si, sj, h1, h2, p1, p2), h1, h2, p1, p2
}
