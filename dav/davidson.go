// Copyright 2024 The QuantumEnvelope Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package dav implements a distributed, matrix-free Davidson eigensolver
// for the lowest eigenpairs of the block-row-distributed Hamiltonian.
//
// References:
//   - "A Parallel Davidson-Type Algorithm for Several Eigenvalues"
//     [L. Borges, S. Oliveira, 1998]
//   - "The Davidson Method" [M. Crouzeix, B. Philippe, M. Sadkane, 1994]
package dav

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
	"gonum.org/v1/gonum/mat"

	"github.com/seanr7/QuantumEnvelope/comm"
	"github.com/seanr7/QuantumEnvelope/ham"
)

// Options tunes the Davidson iteration
type Options struct {
	NEig        int     // number of desired eigenpairs
	ConvTol     float64 // residual norm convergence tolerance
	SubspaceTol float64 // minimum norm for admitting a new trial vector
	MaxIter     int     // hard iteration cap
	MinDim      int     // initial subspace dimension, >= NEig
	MaxDim      int     // maximum subspace dimension before restart
}

// DefaultOptions returns the standard solver parameters
func DefaultOptions() Options {
	return Options{NEig: 1, ConvTol: 1e-8, SubspaceTol: 1e-10, MaxIter: 1000, MinDim: 1, MaxDim: 100}
}

// Solver runs the Davidson iteration against one rank's block-row supplier
type Solver struct {
	C       *comm.Comm
	G       *ham.Generator
	Opt     Options
	Verbose bool
}

// NewSolver returns a solver with default options
func NewSolver(c *comm.Comm, g *ham.Generator) *Solver {
	return &Solver{C: c, G: g, Opt: DefaultOptions()}
}

func (s *Solver) pf(msg string, args ...interface{}) {
	if s.Verbose && s.C.Rank() == 0 {
		io.Pf(msg, args...)
	}
}

// mgs orthogonalizes the local piece t against the trial columns V by
// parallel modified Gram-Schmidt: per column, a local partial inner
// product, an Allreduce to the full scalar, and a subtraction; finally the
// 2-norm of the gathered result. Returns the normalized vector and the
// pre-normalization norm.
func (s *Solver) mgs(V [][]float64, t []float64) ([]float64, float64) {
	out := make([]float64, len(t))
	copy(out, t)
	for _, v := range V {
		c := s.C.AllreduceSum1(la.VecDot(v, out))
		for i := range out {
			out[i] -= c * v[i]
		}
	}
	norm := la.VecNorm(s.C.AllgathervFloats(out))
	for i := range out {
		out[i] /= norm
	}
	return out, norm
}

// precondition applies the clipped diagonal Jacobi preconditioner
// M = diag(clip(1/(D_i - lambda), +-1e5)) to the local residual
func precondition(di []float64, lambda float64, r []float64) []float64 {
	t := make([]float64, len(r))
	for i := range r {
		m := 1.0 / (di[i] - lambda)
		if m > 1e5 {
			m = 1e5
		} else if m < -1e5 {
			m = -1e5
		}
		t[i] = m * r[i]
	}
	return t
}

// eigSym diagonalizes the small projected matrix, all ranks redundantly;
// eigenvalues ascending
func eigSym(dim int, flat []float64) ([]float64, *mat.Dense, error) {
	var es mat.EigenSym
	if !es.Factorize(mat.NewSymDense(dim, flat), true) {
		return nil, nil, chk.Err("projected matrix eigendecomposition failed")
	}
	var vecs mat.Dense
	es.VectorsTo(&vecs)
	return es.Values(nil), &vecs, nil
}

// restart collapses the trial basis to the leading Ritz vectors plus the
// most recently added trial vectors, re-orthogonalized
func (s *Solver) restart(nEig, nNew int, X, V [][]float64) (newV [][]float64, dim int) {
	cand := make([][]float64, 0, nEig+nNew)
	for j := 0; j < nEig; j++ {
		cand = append(cand, X[j])
	}
	if nNew > 0 {
		cand = append(cand, V[len(V)-nNew:]...)
	}
	dim = len(cand)
	first := make([]float64, len(cand[0]))
	copy(first, cand[0])
	norm := la.VecNorm(s.C.AllgathervFloats(first))
	for i := range first {
		first[i] /= norm
	}
	newV = [][]float64{first}
	for j := 1; j < dim; j++ {
		v, _ := s.mgs(newV, cand[j])
		newV = append(newV, v)
	}
	return
}

// Solve finds the Opt.NEig lowest eigenpairs. guess, if non-nil, supplies
// the initial full-length trial columns (MinDim of them); otherwise the
// canonical basis vectors are used. Returns eigenvalues and the gathered
// full-length Ritz columns.
func (s *Solver) Solve(guess [][]float64) ([]float64, [][]float64, error) {
	opt := s.Opt
	n := s.G.Size()
	localSize := s.G.LocalSize()
	offset := s.G.Offset()
	if opt.MinDim < opt.NEig {
		chk.Panic("davidson: subspace dimension %d below number of eigenpairs %d", opt.MinDim, opt.NEig)
	}
	dim := opt.MinDim
	if dim > n {
		dim = n
	}

	// initial trial columns, local rows only
	V := make([][]float64, 0, dim)
	if guess == nil {
		for j := 0; j < dim; j++ {
			col := make([]float64, localSize)
			if j >= offset && j < offset+localSize {
				col[j-offset] = 1
			}
			V = append(V, col)
		}
	} else {
		for _, full := range guess {
			col := make([]float64, localSize)
			copy(col, full[offset:offset+localSize])
			V = append(V, col)
		}
		dim = len(V)
	}

	W := make([][]float64, 0, dim)
	di := s.G.Di()
	var sik [][]float64 // local partial projected matrix
	var X [][]float64   // local Ritz columns
	var lam []float64

	nNew := dim
	restart := true
	for k := 1; k < opt.MaxIter; k++ {
		s.pf("davidson: iteration %d, subspace dimension %d\n", k, dim)

		// gather the newly added trial columns and apply H implicitly
		newFull := la.MatAlloc(n, nNew)
		for c := 0; c < nNew; c++ {
			full := s.C.AllgathervFloats(V[len(V)-nNew+c])
			for r := 0; r < n; r++ {
				newFull[r][c] = full[r]
			}
		}
		wNew := s.G.MatVec(newFull)
		for c := 0; c < nNew; c++ {
			col := make([]float64, localSize)
			for r := 0; r < localSize; r++ {
				col[r] = wNew[r][c]
			}
			W = append(W, col)
		}

		// rank-one update of the local projected matrix
		if restart {
			sik = la.MatAlloc(dim, dim)
			for i := 0; i < dim; i++ {
				for j := 0; j < dim; j++ {
					sik[i][j] = la.VecDot(V[i], W[j])
				}
			}
			restart = false
		} else {
			old := dim - nNew
			for i := 0; i < old; i++ {
				for j := old; j < dim; j++ {
					sik[i] = append(sik[i], la.VecDot(V[i], W[j]))
				}
			}
			for i := old; i < dim; i++ {
				row := make([]float64, dim)
				for j := 0; j < dim; j++ {
					row[j] = la.VecDot(V[i], W[j])
				}
				sik = append(sik, row)
			}
		}

		// reduce and diagonalize the projected matrix on every rank
		flat := make([]float64, 0, dim*dim)
		for i := 0; i < dim; i++ {
			flat = append(flat, sik[i][:dim]...)
		}
		sk := s.C.AllreduceSum(flat)
		vals, vecs, err := eigSym(dim, sk)
		if err != nil {
			return nil, nil, err
		}
		lam = vals[:opt.NEig]

		// Ritz vectors and local residuals
		X = make([][]float64, opt.NEig)
		R := make([][]float64, opt.NEig)
		for c := 0; c < opt.NEig; c++ {
			x := make([]float64, localSize)
			r := make([]float64, localSize)
			for j := 0; j < dim; j++ {
				y := vecs.At(j, c)
				for i := 0; i < localSize; i++ {
					x[i] += V[j][i] * y
					r[i] += W[j][i] * y
				}
			}
			for i := 0; i < localSize; i++ {
				r[i] -= lam[c] * x[i]
			}
			X[c] = x
			R[c] = r
		}

		// residual norms from the gathered residuals
		allDone := true
		var working []int
		for c := 0; c < opt.NEig; c++ {
			res := la.VecNorm(s.C.AllgathervFloats(R[c]))
			s.pf("davidson: ||r_%d|| = %g\n", c, res)
			if res >= opt.ConvTol {
				allDone = false
				working = append(working, c)
			}
		}
		if allDone {
			s.pf("davidson: all eigenpairs converged\n")
			break
		}

		// precondition and orthogonalize one new trial vector per
		// non-converged eigenpair
		nNew = 0
		for _, c := range working {
			t := precondition(di, lam[c], R[c])
			norm := la.VecNorm(s.C.AllgathervFloats(t))
			for i := range t {
				t[i] /= norm
			}
			t, normT := s.mgs(V, t)
			if normT > opt.SubspaceTol {
				V = append(V, t)
				nNew++
			}
		}
		dim = len(V)

		if opt.MaxDim <= dim {
			s.pf("davidson: subspace dimension %d at cap, restarting\n", dim)
			V, dim = s.restart(opt.NEig, nNew, X, V)
			W = W[:0]
			nNew = dim
			restart = true
		} else if nNew == 0 {
			s.pf("davidson: no new trial vectors, restarting\n")
			V, dim = s.restart(opt.NEig, 0, X, V)
			W = W[:0]
			nNew = dim
			restart = true
		}

		if k == opt.MaxIter-1 {
			return nil, nil, chk.Err("davidson did not converge after %d iterations", opt.MaxIter)
		}
	}

	// gather the converged Ritz columns on every rank
	full := make([][]float64, opt.NEig)
	for c := 0; c < opt.NEig; c++ {
		full[c] = s.C.AllgathervFloats(X[c])
	}
	return lam, full, nil
}
