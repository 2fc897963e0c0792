// Copyright 2024 The QuantumEnvelope Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ham implements the Hamiltonian machinery: compressed integral
// storage, the orbital-occupancy inverted index, the determinant-driven and
// integral-driven Slater-Condon dispatchers (variational and PT2 variants),
// and the block-row-distributed Hamiltonian generator.
package ham

import (
	"sort"

	"github.com/cpmech/gosl/chk"

	"github.com/seanr7/QuantumEnvelope/idx"
)

// Store holds the one- and two-electron integrals over molecular orbitals.
// One-electron integrals are keyed by the triangular pair index; two-electron
// integrals by the canonical 4-index, one entry per 8-fold equivalence
// class. Missing entries read as zero. Immutable after construction.
type Store struct {
	NOrb int
	E0   float64 // nuclear repulsion

	oneE map[int]float64
	twoE map[int]float64
	keys []int // sorted two-electron keys, for deterministic sweeps
}

// NewStore builds a store from the loader's maps: oneE keyed by Idx2,
// twoE keyed by canonical Idx4
func NewStore(nOrb int, e0 float64, oneE, twoE map[int]float64) *Store {
	s := &Store{NOrb: nOrb, E0: e0, oneE: oneE, twoE: twoE}
	s.keys = make([]int, 0, len(twoE))
	for k := range twoE {
		s.keys = append(s.keys, k)
	}
	sort.Ints(s.keys)
	return s
}

func (s *Store) checkOrb(os ...int) {
	for _, o := range os {
		if o < 0 || o >= s.NOrb {
			chk.Panic("orbital index %d out of range [0,%d)", o, s.NOrb)
		}
	}
}

// H1 returns the one-electron integral <i|h|j>
func (s *Store) H1(i, j int) float64 {
	s.checkOrb(i, j)
	return s.oneE[idx.Idx2(i, j)]
}

// H2 returns the two-electron integral <ij|kl> in physicist notation
func (s *Store) H2(i, j, k, l int) float64 {
	s.checkOrb(i, j, k, l)
	return s.twoE[idx.Idx4(i, j, k, l)]
}

// EachIntegral sweeps the stored two-electron integrals once, in increasing
// compound-key order, passing the canonical index and value
func (s *Store) EachIntegral(fn func(i, j, k, l int, v float64)) {
	for _, key := range s.keys {
		i, j, k, l := idx.Reverse4(key)
		fn(i, j, k, l, s.twoE[key])
	}
}

// NumTwoE returns the number of stored two-electron equivalence classes
func (s *Store) NumTwoE() int { return len(s.keys) }
