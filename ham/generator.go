// Copyright 2024 The QuantumEnvelope Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ham

import (
	"github.com/cpmech/gosl/la"

	"github.com/seanr7/QuantumEnvelope/comm"
	"github.com/seanr7/QuantumEnvelope/det"
)

// Generator owns one rank's block-row of the Hamiltonian over the current
// determinant basis. It lives for one outer CIPSI iteration and is
// discarded when the basis grows. Matrix elements are gathered on the fly
// at first use and cached in sparse tables; the full matrix is never
// materialized except through the debug Full path.
type Generator struct {
	C        *comm.Comm
	S        *Store
	Psi      []det.Det // internal basis, fully replicated
	DrivenBy string

	One OneElectron
	Two TwoElectron

	dist    []int // rows per rank
	offsets []int // first row per rank

	di []float64         // lazy diagonal of the local block
	m1 map[[2]int]float64 // lazy (localRow, globalCol) -> 1e element
	m2 map[[2]int]float64 // lazy (localRow, globalCol) -> 2e element
}

// NewGenerator partitions psi row-wise across the communicator: the first
// N mod W ranks get ceil(N/W) rows, the rest floor(N/W)
func NewGenerator(c *comm.Comm, s *Store, psi []det.Det, drivenBy string) *Generator {
	g := &Generator{
		C:        c,
		S:        s,
		Psi:      psi,
		DrivenBy: drivenBy,
		One:      OneElectron{S: s},
		Two:      NewTwoElectron(drivenBy, s),
	}
	n, w := len(psi), c.Size()
	floor, rem := n/w, n%w
	g.dist = make([]int, w)
	g.offsets = make([]int, w)
	off := 0
	for r := 0; r < w; r++ {
		g.dist[r] = floor
		if r < rem {
			g.dist[r]++
		}
		g.offsets[r] = off
		off += g.dist[r]
	}
	return g
}

// Size returns the full problem size
func (g *Generator) Size() int { return len(g.Psi) }

// Distribution returns the per-rank row counts
func (g *Generator) Distribution() []int { return g.dist }

// Offsets returns the per-rank first-row indices
func (g *Generator) Offsets() []int { return g.offsets }

// LocalSize returns this rank's row count
func (g *Generator) LocalSize() int { return g.dist[g.C.Rank()] }

// Offset returns this rank's first row
func (g *Generator) Offset() int { return g.offsets[g.C.Rank()] }

// PsiLocal returns this rank's share of the basis
func (g *Generator) PsiLocal() []det.Det {
	return g.Psi[g.Offset() : g.Offset()+g.LocalSize()]
}

// Hii is the full diagonal element of one determinant
func (g *Generator) Hii(d det.Det) float64 {
	return g.One.Hii(d) + g.Two.Hii(d)
}

// Di returns the diagonal entries of the local block-row, cached. Used by
// the Davidson preconditioner.
func (g *Generator) Di() []float64 {
	if g.di == nil {
		local := g.PsiLocal()
		g.di = make([]float64, len(local))
		for i, d := range local {
			g.di[i] = g.Hii(d)
		}
	}
	return g.di
}

// elements1e fills the sparse one-electron table on first access
func (g *Generator) elements1e() map[[2]int]float64 {
	if g.m1 == nil {
		g.m1 = make(map[[2]int]float64)
		for I, di := range g.PsiLocal() {
			for J, dj := range g.Psi {
				if v := g.One.Hij(di, dj); v != 0 {
					g.m1[[2]int{I, J}] += v
				}
			}
		}
	}
	return g.m1
}

// elements2e fills the sparse two-electron table on first access with a
// single pass through the driver's emission stream
func (g *Generator) elements2e() map[[2]int]float64 {
	if g.m2 == nil {
		g.m2 = make(map[[2]int]float64)
		g.Two.Each(g.PsiLocal(), g.Psi, func(I, J, i, j, k, l, phase int) {
			g.m2[[2]int{I, J}] += float64(phase) * g.S.H2(i, j, k, l)
		})
	}
	return g.m2
}

// MatVec computes the local block of W = H * M implicitly from the cached
// sparse tables. M has Size() rows; the result has LocalSize() rows.
func (g *Generator) MatVec(M [][]float64) [][]float64 {
	k := 0
	if len(M) > 0 {
		k = len(M[0])
	}
	w := la.MatAlloc(g.LocalSize(), k)
	for _, tab := range []map[[2]int]float64{g.elements1e(), g.elements2e()} {
		for ij, v := range tab {
			I, J := ij[0], ij[1]
			row, src := w[I], M[J]
			for c := 0; c < k; c++ {
				row[c] += v * src[c]
			}
		}
	}
	return w
}

// MatVec1 is MatVec for a single vector
func (g *Generator) MatVec1(x []float64) []float64 {
	M := make([][]float64, len(x))
	for i, v := range x {
		M[i] = []float64{v}
	}
	w := g.MatVec(M)
	out := make([]float64, len(w))
	for i := range w {
		out[i] = w[i][0]
	}
	return out
}

// Hi builds the dense local block-row; debugging and tests only
func (g *Generator) Hi() [][]float64 {
	local := g.Psi[g.Offset() : g.Offset()+g.LocalSize()]
	h1 := g.One.Mat(local, g.Psi)
	h2 := MatTwoE(g.Two, g.S, local, g.Psi)
	for i := range h1 {
		for j := range h1[i] {
			h1[i][j] += h2[i][j]
		}
	}
	return h1
}

// Full assembles the replicated dense Hamiltonian by gathering the local
// block-rows on rank 0 and broadcasting; debugging and the dense
// eigensolver fallback only
func (g *Generator) Full() [][]float64 {
	hi := g.Hi()
	n := g.Size()
	flat := make([]float64, 0, g.LocalSize()*n)
	for _, row := range hi {
		flat = append(flat, row...)
	}
	gathered := g.C.GathervFloats(flat, 0)
	full := g.C.BcastFloats(gathered, 0)
	h := la.MatAlloc(n, n)
	for i := 0; i < n; i++ {
		copy(h[i], full[i*n:(i+1)*n])
	}
	return h
}
