// Copyright 2024 The QuantumEnvelope Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package det

// Excitations enumerates single and double excitations within a fixed
// orbital space of NOrb spatial orbitals
type Excitations struct {
	NOrb int
}

// combinations calls fn with every k-subset of orbs, in lexicographic order
func combinations(orbs []int, k int, fn func(sel []int)) {
	n := len(orbs)
	if k > n {
		return
	}
	sel := make([]int, k)
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		for i, j := range idx {
			sel[i] = orbs[j]
		}
		fn(sel)
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// complement returns the unoccupied orbitals of s
func (e Excitations) complement(s Spin) []int {
	out := make([]int, 0, e.NOrb-len(s))
	j := 0
	for o := 0; o < e.NOrb; o++ {
		if j < len(s) && s[j] == o {
			j++
			continue
		}
		out = append(out, o)
	}
	return out
}

// EachExc calls fn with every (holes, particles) pair of degree ed from the
// channel s. The slices are reused between calls.
func (e Excitations) EachExc(s Spin, ed int, fn func(holes, parts []int)) {
	free := e.complement(s)
	combinations(s, ed, func(holes []int) {
		h := append([]int(nil), holes...)
		combinations(free, ed, func(parts []int) {
			fn(h, parts)
		})
	})
}

// ConnectedSpins returns all channels reachable from s by a degree-ed
// excitation, in enumeration order
func (e Excitations) ConnectedSpins(s Spin, ed int) []Spin {
	var out []Spin
	e.EachExc(s, ed, func(holes, parts []int) {
		out = append(out, s.Apply(holes, parts))
	})
	return out
}

// ConnectedFrom returns all determinants connected to d: alpha singles and
// doubles, beta singles and doubles, and alpha x beta single products
func (e Excitations) ConnectedFrom(d Det) []Det {
	var out []Det
	singlesA := e.ConnectedSpins(d.Alpha, 1)
	for _, sa := range singlesA {
		out = append(out, Det{Alpha: sa, Beta: d.Beta})
	}
	for _, sa := range e.ConnectedSpins(d.Alpha, 2) {
		out = append(out, Det{Alpha: sa, Beta: d.Beta})
	}
	singlesB := e.ConnectedSpins(d.Beta, 1)
	for _, sb := range singlesB {
		out = append(out, Det{Alpha: d.Alpha, Beta: sb})
	}
	for _, sb := range e.ConnectedSpins(d.Beta, 2) {
		out = append(out, Det{Alpha: d.Alpha, Beta: sb})
	}
	for _, sa := range singlesA {
		for _, sb := range singlesB {
			out = append(out, Det{Alpha: sa, Beta: sb})
		}
	}
	return out
}

// ConnectedAll returns the connected space of psi: every determinant
// reachable from some member by a single or double excitation, excluding
// the members themselves. A connected determinant reachable from several
// members is reported once, by its first generator.
func (e Excitations) ConnectedAll(psi []Det) []Det {
	inPsi := NewMap(psi)
	var out []Det
	for i, d := range psi {
		for _, dj := range e.ConnectedFrom(d) {
			if _, ok := inPsi.Index(dj); ok {
				continue
			}
			dup := false
			for _, prev := range psi[:i] {
				if IsConnected(dj, prev) {
					dup = true
					break
				}
			}
			if dup {
				continue
			}
			out = append(out, dj)
		}
	}
	return out
}

// ConstrainedSingles returns the single excitations of d whose result
// satisfies the triplet constraint C
func (e Excitations) ConstrainedSingles(d Det, C Constraint) []Det {
	var out []Det
	for _, sa := range e.ConnectedSpins(d.Alpha, 1) {
		j := Det{Alpha: sa, Beta: d.Beta}
		if CheckConstraint(j) == C {
			out = append(out, j)
		}
	}
	for _, sb := range e.ConnectedSpins(d.Beta, 1) {
		j := Det{Alpha: d.Alpha, Beta: sb}
		if CheckConstraint(j) == C {
			out = append(out, j)
		}
	}
	return out
}

// ConstrainedDoubles returns the double excitations of d (same-spin in
// either channel, or one single per channel) whose result satisfies C
func (e Excitations) ConstrainedDoubles(d Det, C Constraint) []Det {
	var out []Det
	for _, sa := range e.ConnectedSpins(d.Alpha, 2) {
		j := Det{Alpha: sa, Beta: d.Beta}
		if CheckConstraint(j) == C {
			out = append(out, j)
		}
	}
	for _, sb := range e.ConnectedSpins(d.Beta, 2) {
		j := Det{Alpha: d.Alpha, Beta: sb}
		if CheckConstraint(j) == C {
			out = append(out, j)
		}
	}
	for _, sa := range e.ConnectedSpins(d.Alpha, 1) {
		j := Det{Alpha: sa, Beta: d.Beta}
		if CheckConstraint(j) != C {
			continue
		}
		for _, sb := range e.ConnectedSpins(d.Beta, 1) {
			out = append(out, Det{Alpha: sa, Beta: sb})
		}
	}
	return out
}
