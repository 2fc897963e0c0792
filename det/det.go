// Copyright 2024 The QuantumEnvelope Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package det implements Slater determinants as pairs of ordered
// occupied-orbital lists (one per spin channel), together with the
// excitation-degree, hole/particle and signed-phase bookkeeping of the
// Slater-Condon rules.
package det

import (
	"sort"

	"github.com/cpmech/gosl/chk"
)

// Spin holds the occupied orbitals of one spin channel, strictly increasing
type Spin []int

// Det is a Slater determinant: product of one alpha and one beta channel.
// Determinants are immutable value objects; operations return new ones.
type Det struct {
	Alpha Spin
	Beta  Spin
}

// Has reports whether orbital o is occupied
func (s Spin) Has(o int) bool {
	n := len(s)
	i := sort.SearchInts(s, o)
	return i < n && s[i] == o
}

// Equal reports whether two spin channels hold the same orbitals
func (s Spin) Equal(t Spin) bool {
	if len(s) != len(t) {
		return false
	}
	for i, o := range s {
		if t[i] != o {
			return false
		}
	}
	return true
}

// Equal reports whether two determinants are identical
func (d Det) Equal(e Det) bool {
	return d.Alpha.Equal(e.Alpha) && d.Beta.Equal(e.Beta)
}

// Key encodes the determinant as a compact string usable as a map key.
// Two bytes per orbital, channels separated by 0xff 0xff.
func (d Det) Key() string {
	b := make([]byte, 0, 2*(len(d.Alpha)+len(d.Beta))+2)
	for _, o := range d.Alpha {
		b = append(b, byte(o>>8), byte(o))
	}
	b = append(b, 0xff, 0xff)
	for _, o := range d.Beta {
		b = append(b, byte(o>>8), byte(o))
	}
	return string(b)
}

// ExcDegreeSpin is the number of orbitals by which two same-spin channels
// differ; half the size of their symmetric difference
func ExcDegreeSpin(si, sj Spin) int {
	n := 0
	a, b := 0, 0
	for a < len(si) && b < len(sj) {
		switch {
		case si[a] == sj[b]:
			a++
			b++
		case si[a] < sj[b]:
			n++
			a++
		default:
			n++
			b++
		}
	}
	n += len(si) - a + len(sj) - b
	return n / 2
}

// ExcDegree returns the per-channel excitation degrees between two
// determinants. Values above 2 in either channel mean no coupling.
func ExcDegree(di, dj Det) (da, db int) {
	return ExcDegreeSpin(di.Alpha, dj.Alpha), ExcDegreeSpin(di.Beta, dj.Beta)
}

// IsConnected reports whether dj is reachable from di by a single or
// double excitation
func IsConnected(di, dj Det) bool {
	da, db := ExcDegree(di, dj)
	ed := da + db
	return ed == 1 || ed == 2
}

// Apply returns a new channel with the given holes removed and particles
// added. Panics if a hole is not occupied or a particle already is;
// either indicates a broken upstream enumeration.
func (s Spin) Apply(holes, parts []int) Spin {
	res := make(Spin, 0, len(s)-len(holes)+len(parts))
	res = append(res, s...)
	for _, h := range holes {
		i := sort.SearchInts(res, h)
		if i == len(res) || res[i] != h {
			chk.Panic("degenerate excitation: hole %d not occupied in %v", h, s)
		}
		res = append(res[:i], res[i+1:]...)
	}
	for _, p := range parts {
		i := sort.SearchInts(res, p)
		if i < len(res) && res[i] == p {
			chk.Panic("degenerate excitation: particle %d already occupied in %v", p, s)
		}
		res = append(res, 0)
		copy(res[i+1:], res[i:])
		res[i] = p
	}
	return res
}

// ApplyExc builds the excited determinant obtained by applying the
// hole/particle lists per channel
func (d Det) ApplyExc(holesA, partsA, holesB, partsB []int) Det {
	e := Det{Alpha: d.Alpha, Beta: d.Beta}
	if len(holesA)+len(partsA) > 0 {
		e.Alpha = d.Alpha.Apply(holesA, partsA)
	}
	if len(holesB)+len(partsB) > 0 {
		e.Beta = d.Beta.Apply(holesB, partsB)
	}
	return e
}

// Map indexes a list of determinants by Key for O(1) membership tests
type Map map[string]int

// NewMap builds the determinant -> position index of psi
func NewMap(psi []Det) Map {
	m := make(Map, len(psi))
	for i, d := range psi {
		m[d.Key()] = i
	}
	return m
}

// Index returns the position of d and whether it is present
func (m Map) Index(d Det) (int, bool) {
	i, ok := m[d.Key()]
	return i, ok
}
