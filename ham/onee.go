// Copyright 2024 The QuantumEnvelope Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ham

import (
	"github.com/cpmech/gosl/la"

	"github.com/seanr7/QuantumEnvelope/det"
)

// OneElectron is the one-electron part of the Hamiltonian: kinetic energy
// plus nucleus-electron potential. The matrix is symmetric; the nuclear
// repulsion constant rides along on the diagonal.
type OneElectron struct {
	S *Store
}

// Hii is the one-electron diagonal element <I|h|I> plus E0
func (o OneElectron) Hii(d det.Det) float64 {
	res := o.S.E0
	for _, i := range d.Alpha {
		res += o.S.H1(i, i)
	}
	for _, i := range d.Beta {
		res += o.S.H1(i, i)
	}
	return res
}

// Hij is the general one-electron element; nonzero only on the diagonal
// and for single excitations
func (o OneElectron) Hij(di, dj det.Det) float64 {
	da, db := det.ExcDegree(di, dj)
	switch {
	case da == 0 && db == 0:
		return o.Hii(di)
	case da == 1 && db == 0:
		phase, h, p := det.SingleExc(di.Alpha, dj.Alpha)
		return float64(phase) * o.S.H1(h, p)
	case da == 0 && db == 1:
		phase, h, p := det.SingleExc(di.Beta, dj.Beta)
		return float64(phase) * o.S.H1(h, p)
	}
	return 0
}

// Mat builds the dense psiI x psiJ one-electron block
func (o OneElectron) Mat(psiI, psiJ []det.Det) [][]float64 {
	h := la.MatAlloc(len(psiI), len(psiJ))
	for a, di := range psiI {
		for b, dj := range psiJ {
			h[a][b] = o.Hij(di, dj)
		}
	}
	return h
}
