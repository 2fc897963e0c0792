// Copyright 2024 The QuantumEnvelope Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dav

import (
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"
)

// DenseEigen diagonalizes a replicated symmetric matrix. Fallback path for
// when the Davidson iteration fails to converge, and reference for tests.
// Returns all eigenvalues ascending and the eigenvectors as columns.
func DenseEigen(h [][]float64) ([]float64, [][]float64, error) {
	n := len(h)
	flat := make([]float64, 0, n*n)
	for _, row := range h {
		flat = append(flat, row...)
	}
	var es mat.EigenSym
	if !es.Factorize(mat.NewSymDense(n, flat), true) {
		return nil, nil, chk.Err("dense eigendecomposition failed")
	}
	var vecs mat.Dense
	es.VectorsTo(&vecs)
	vals := es.Values(nil)
	cols := make([][]float64, n)
	for c := 0; c < n; c++ {
		col := make([]float64, n)
		for r := 0; r < n; r++ {
			col[r] = vecs.At(r, c)
		}
		cols[c] = col
	}
	return vals, cols, nil
}
