// Copyright 2024 The QuantumEnvelope Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// QuantumEnvelope runs selected-CI (CIPSI) calculations: it repeatedly
// diagonalizes the Hamiltonian in the current determinant basis, scores
// the connected space perturbatively, and grows the basis by the strongest
// contributors until the PT2 correction or the basis size crosses the
// requested threshold.
package main

import (
	"flag"
	"math"
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/seanr7/QuantumEnvelope/comm"
	"github.com/seanr7/QuantumEnvelope/ham"
	"github.com/seanr7/QuantumEnvelope/inp"
	"github.com/seanr7/QuantumEnvelope/pt2"
)

func main() {

	// input data
	fcidump := flag.String("fcidump", "", "FCIDUMP integral file (.gz/.bz2 ok)")
	wf := flag.String("wf", "", "trial wavefunction file (.gz/.bz2 ok)")
	driver := flag.String("driver", "determinant", "two-electron dispatch: determinant or integral")
	nsel := flag.Int("n", 10, "determinants added per CIPSI cycle")
	pt2tol := flag.Float64("pt2tol", 1e-4, "stop when |E_pt2| falls below this")
	maxdets := flag.Int("maxdets", 10000, "stop when the basis reaches this size")
	nproc := flag.Int("nproc", 1, "number of workers")
	verbose := flag.Bool("verbose", true, "show progress")
	flag.Parse()

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			chk.Verbose = true
			io.PfRed("ERROR: %v\n", err)
			os.Exit(1)
		}
	}()

	if *fcidump == "" || *wf == "" {
		chk.Panic("both -fcidump and -wf are required")
	}

	// read input data
	nOrb, e0, oneE, twoE, err := inp.LoadIntegrals(*fcidump)
	if err != nil {
		chk.Panic("cannot load integrals:\n%v", err)
	}
	coef0, psi0, err := inp.LoadWavefunction(*wf)
	if err != nil {
		chk.Panic("cannot load wavefunction:\n%v", err)
	}
	store := ham.NewStore(nOrb, e0, oneE, twoE)
	if *verbose {
		io.Pf("> %d orbitals, %d two-electron integrals, %d determinants\n",
			nOrb, store.NumTwoE(), len(psi0))
	}

	err = comm.Run(*nproc, func(c *comm.Comm) error {
		psi := psi0
		g := ham.NewGenerator(c, store, psi, *driver)
		p := pt2.NewPowerplant(c, g)

		eVar, coef, err := p.EAndCoef()
		if err != nil {
			return err
		}

		for cycle := 1; ; cycle++ {
			ePT2 := p.EPT2(coef)
			if c.Rank() == 0 && *verbose {
				io.Pf("> cycle %2d: ndet = %5d  E_var = %.12f  E_pt2 = %.12f\n",
					cycle, len(psi), eVar, ePT2)
			}
			if math.Abs(ePT2) < *pt2tol || len(psi) >= *maxdets {
				break
			}
			eVar, coef, psi, err = pt2.SelectionStep(c, g, coef, *nsel)
			if err != nil {
				return err
			}
			g = ham.NewGenerator(c, store, psi, *driver)
			p = pt2.NewPowerplant(c, g)
		}
		if c.Rank() == 0 && *verbose {
			io.PfGreen("> done: E_var = %.12f\n", eVar)
		}
		return nil
	})
	if err != nil {
		chk.Panic("run failed:\n%v", err)
	}
}
