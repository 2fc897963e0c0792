// Copyright 2024 The QuantumEnvelope Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pt2

import (
	"sort"

	"github.com/seanr7/QuantumEnvelope/comm"
	"github.com/seanr7/QuantumEnvelope/det"
	"github.com/seanr7/QuantumEnvelope/ham"
)

// tombstone marks an unused selection slot; PT2 contributions are always
// negative, so a tombstone is never preferred over a real candidate
const tombstone = 1.0

// localBest walks this rank's constraints and keeps the n most negative
// PT2 contributions seen so far, partial-sorting each shard against the
// running best
func localBest(p *Powerplant, coef []float64, n int) ([]det.Det, []float64) {
	eVar := p.E(coef)
	bestD := make([]det.Det, n)
	bestE := make([]float64, n)
	for i := range bestE {
		bestE[i] = tombstone
	}
	for _, C := range p.LocalConstraints() {
		dets, energies := p.ExternalPT2(C, coef, eVar)
		if len(dets) == 0 {
			continue
		}
		workD := append(dets, bestD...)
		workE := append(energies, bestE...)
		ord := make([]int, len(workE))
		for i := range ord {
			ord[i] = i
		}
		sort.SliceStable(ord, func(a, b int) bool { return workE[ord[a]] < workE[ord[b]] })
		for i := 0; i < n; i++ {
			bestD[i] = workD[ord[i]]
			bestE[i] = workE[ord[i]]
		}
	}
	return bestD, bestE
}

// globalBest gathers every rank's local best and partial-sorts down to the
// n globally strongest contributors. Tombstones are dropped, so fewer than
// n determinants come back when the connected space runs dry.
func globalBest(c *comm.Comm, bestD []det.Det, bestE []float64, n int) []det.Det {
	allD := c.AllgathervDets(bestD)
	allE := c.AllgathervFloats(bestE)
	ord := make([]int, len(allE))
	for i := range ord {
		ord[i] = i
	}
	sort.SliceStable(ord, func(a, b int) bool { return allE[ord[a]] < allE[ord[b]] })
	out := make([]det.Det, 0, n)
	for _, i := range ord {
		if len(out) == n || allE[i] >= 0 {
			break
		}
		out = append(out, allD[i])
	}
	return out
}

// SelectionStep runs one CIPSI cycle: score the connected space shard by
// shard, pick the n globally strongest PT2 contributors, extend the basis,
// and re-diagonalize. Returns the new variational energy, coefficients and
// basis.
func SelectionStep(c *comm.Comm, g *ham.Generator, coef []float64, n int) (float64, []float64, []det.Det, error) {
	p := NewPowerplant(c, g)
	bestD, bestE := localBest(p, coef, n)
	selected := globalBest(c, bestD, bestE, n)

	psiNew := make([]det.Det, 0, len(g.Psi)+len(selected))
	psiNew = append(psiNew, g.Psi...)
	psiNew = append(psiNew, selected...)

	gNew := ham.NewGenerator(c, g.S, psiNew, g.DrivenBy)
	e, coefNew, err := NewPowerplant(c, gNew).EAndCoef()
	return e, coefNew, psiNew, err
}

// ConnectedChunks splits this rank's share of the full connected space of
// psi into chunks of at most size determinants; debugging and tests
func ConnectedChunks(c *comm.Comm, psi []det.Det, nOrb, size int) [][]det.Det {
	exc := det.Excitations{NOrb: nOrb}
	connected := exc.ConnectedAll(psi)

	// contiguous split across ranks, longer pieces first
	w := c.Size()
	floor, rem := len(connected)/w, len(connected)%w
	off := 0
	var mine []det.Det
	for r := 0; r < w; r++ {
		cnt := floor
		if r < rem {
			cnt++
		}
		if r == c.Rank() {
			mine = connected[off : off+cnt]
			break
		}
		off += cnt
	}

	if size <= 0 {
		size = len(mine)
	}
	var chunks [][]det.Det
	for len(mine) > size {
		chunks = append(chunks, mine[:size])
		mine = mine[size:]
	}
	if len(mine) > 0 {
		chunks = append(chunks, mine)
	}
	return chunks
}
