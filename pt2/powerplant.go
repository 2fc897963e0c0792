// Copyright 2024 The QuantumEnvelope Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package pt2 computes the energies attached to the current wavefunction:
// the variational energy through the distributed eigensolver, and the
// second-order perturbative correction accumulated shard by shard over the
// constraint-partitioned connected space. It also implements determinant
// selection, which grows the basis by the strongest PT2 contributors.
package pt2

import (
	"sort"

	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"

	"github.com/seanr7/QuantumEnvelope/comm"
	"github.com/seanr7/QuantumEnvelope/dav"
	"github.com/seanr7/QuantumEnvelope/det"
	"github.com/seanr7/QuantumEnvelope/ham"
)

// Powerplant evaluates the energies of one basis through one rank's
// Hamiltonian generator
type Powerplant struct {
	C       *comm.Comm
	G       *ham.Generator
	Verbose bool
}

// NewPowerplant wraps a generator
func NewPowerplant(c *comm.Comm, g *ham.Generator) *Powerplant {
	return &Powerplant{C: c, G: g}
}

// E computes the variational energy coef' H coef by a distributed inner
// product; coef is assumed normalized
func (p *Powerplant) E(coef []float64) float64 {
	hv := p.G.MatVec1(coef)
	ci := coef[p.G.Offset() : p.G.Offset()+p.G.LocalSize()]
	return p.C.AllreduceSum1(la.VecDot(ci, hv))
}

// EAndCoef diagonalizes the Hamiltonian in the current basis and returns
// the ground-state energy and coefficients. On Davidson non-convergence it
// falls back to the dense eigensolver on the replicated matrix.
func (p *Powerplant) EAndCoef() (float64, []float64, error) {
	solver := dav.NewSolver(p.C, p.G)
	solver.Verbose = p.Verbose
	lam, x, err := solver.Solve(nil)
	if err == nil {
		return lam[0], x[0], nil
	}
	if p.C.Rank() == 0 {
		io.Pf("davidson failed (%v), falling back to dense eigensolver\n", err)
	}
	vals, vecs, err := dav.DenseEigen(p.G.Full())
	if err != nil {
		return 0, nil, err
	}
	return vals[0], vecs[0], nil
}

// LocalConstraints returns this rank's share of the triplet constraints
func (p *Powerplant) LocalConstraints() []det.Constraint {
	cs, _ := DispatchConstraints(p.C, p.G.Psi, p.G.S.NOrb)
	return cs
}

// ExternalPT2 accumulates, for the shard of the connected space selected
// by C, the PT2 contribution of every connected determinant J:
//
//	e(J) = (sum_I coef[I] <I|H|J>)^2 / (E_var - <J|H|J>)
//
// Internal determinants and exact degeneracies are screened out.
func (p *Powerplant) ExternalPT2(C det.Constraint, coef []float64, eVar float64) ([]det.Det, []float64) {
	psi := p.G.Psi
	nom := make(map[string]float64)
	byKey := make(map[string]det.Det)
	accum := func(I int, dJ det.Det, v float64) {
		key := dJ.Key()
		if _, ok := byKey[key]; !ok {
			byKey[key] = dJ
		}
		nom[key] += coef[I] * v
	}

	// two-electron contributions through the chosen driver
	p.G.Two.EachPT2(psi, C, func(I int, dJ det.Det, i, j, k, l, phase int) {
		accum(I, dJ, float64(phase)*p.G.S.H2(i, j, k, l))
	})

	// one-electron contributions: constrained singles only
	exc := det.Excitations{NOrb: p.G.S.NOrb}
	for I, dI := range psi {
		for _, dJ := range exc.ConstrainedSingles(dI, C) {
			accum(I, dJ, p.G.One.Hij(dI, dJ))
		}
	}

	// self-terms are not connected
	for _, dI := range psi {
		delete(nom, dI.Key())
	}

	keys := make([]string, 0, len(nom))
	for key := range nom {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	dets := make([]det.Det, 0, len(keys))
	energies := make([]float64, 0, len(keys))
	for _, key := range keys {
		dJ := byKey[key]
		den := eVar - p.G.Hii(dJ)
		if den == 0 {
			continue
		}
		v := nom[key]
		dets = append(dets, dJ)
		energies = append(energies, v*v/den)
	}
	return dets, energies
}

// EPT2 sums the PT2 contributions over this rank's constraints and reduces
// across the group
func (p *Powerplant) EPT2(coef []float64) float64 {
	eVar := p.E(coef)
	local := 0.0
	for _, C := range p.LocalConstraints() {
		_, energies := p.ExternalPT2(C, coef, eVar)
		for _, e := range energies {
			local += e
		}
	}
	return p.C.AllreduceSum1(local)
}
