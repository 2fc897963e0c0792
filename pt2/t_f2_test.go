// Copyright 2024 The QuantumEnvelope Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pt2

import (
	"os"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/seanr7/QuantumEnvelope/comm"
	"github.com/seanr7/QuantumEnvelope/det"
	"github.com/seanr7/QuantumEnvelope/ham"
	"github.com/seanr7/QuantumEnvelope/inp"
)

// loadF2 reads the F2 6-31G reference system, skipping when the data
// files are not checked out
func loadF2(tst *testing.T, wfname string) (*ham.Store, []float64, []det.Det) {
	fcidump := "data/f2_631g.FCIDUMP"
	if _, err := os.Stat(fcidump); err != nil {
		tst.Skip("reference data not available")
	}
	nOrb, e0, oneE, twoE, err := inp.LoadIntegrals(fcidump)
	if err != nil {
		tst.Fatalf("cannot load integrals: %v", err)
	}
	coef, psi, err := inp.LoadWavefunction("data/" + wfname)
	if err != nil {
		tst.Fatalf("cannot load wavefunction: %v", err)
	}
	return ham.NewStore(nOrb, e0, oneE, twoE), coef, psi
}

func Test_f201(tst *testing.T) {

	//verbose()
	chk.PrintTitle("f201. F2 6-31G, one determinant")

	s, _, psi := loadF2(tst, "f2_631g.1det.wf")
	err := comm.Run(2, func(c *comm.Comm) error {
		g := ham.NewGenerator(c, s, psi, "integral")
		p := NewPowerplant(c, g)
		eVar, coef, err := p.EAndCoef()
		if err != nil {
			return err
		}
		if c.Rank() == 0 {
			chk.Scalar(tst, "E_var", 1e-6, eVar, -198.646096743145)
		}
		ePT2 := p.EPT2(coef)
		if c.Rank() == 0 {
			chk.Scalar(tst, "E_pt2", 1e-6, ePT2, -0.367587988032339)
		}
		return nil
	})
	if err != nil {
		tst.Errorf("run failed: %v", err)
	}
}

func Test_f202(tst *testing.T) {

	//verbose()
	chk.PrintTitle("f202. F2 6-31G, ten determinants")

	s, _, psi := loadF2(tst, "f2_631g.10det.wf")
	err := comm.Run(2, func(c *comm.Comm) error {
		g := ham.NewGenerator(c, s, psi, "integral")
		p := NewPowerplant(c, g)
		eVar, coef, err := p.EAndCoef()
		if err != nil {
			return err
		}
		if c.Rank() == 0 {
			chk.Scalar(tst, "E_var", 1e-6, eVar, -198.548963)
		}
		ePT2 := p.EPT2(coef)
		if c.Rank() == 0 {
			chk.Scalar(tst, "E_pt2", 1e-6, ePT2, -0.24321128)
		}
		return nil
	})
	if err != nil {
		tst.Errorf("run failed: %v", err)
	}
}

func Test_f203(tst *testing.T) {

	//verbose()
	chk.PrintTitle("f203. F2 6-31G, thirty determinants")

	s, _, psi := loadF2(tst, "f2_631g.30det.wf")
	err := comm.Run(2, func(c *comm.Comm) error {
		g := ham.NewGenerator(c, s, psi, "determinant")
		p := NewPowerplant(c, g)
		eVar, _, err := p.EAndCoef()
		if err != nil {
			return err
		}
		if c.Rank() == 0 {
			chk.Scalar(tst, "E_var", 1e-6, eVar, -198.738780989106)
		}
		return nil
	})
	if err != nil {
		tst.Errorf("run failed: %v", err)
	}
}

func Test_f204(tst *testing.T) {

	//verbose()
	chk.PrintTitle("f204. F2 6-31G, selection from one determinant")

	s, _, psi := loadF2(tst, "f2_631g.1det.wf")
	err := comm.Run(2, func(c *comm.Comm) error {
		g := ham.NewGenerator(c, s, psi, "integral")
		p := NewPowerplant(c, g)
		_, coef, err := p.EAndCoef()
		if err != nil {
			return err
		}

		// one shot of ten
		e10, _, _, err := SelectionStep(c, g, coef, 10)
		if err != nil {
			return err
		}
		if c.Rank() == 0 {
			chk.Scalar(tst, "E_var 1x10", 1e-6, e10, -198.72696793971556)
		}

		// five then five: the second cycle scores against a better basis
		e5, coef5, psi5, err := SelectionStep(c, g, coef, 5)
		if err != nil {
			return err
		}
		_ = e5
		g5 := ham.NewGenerator(c, s, psi5, "integral")
		e55, _, _, err := SelectionStep(c, g5, coef5, 5)
		if err != nil {
			return err
		}
		if c.Rank() == 0 {
			chk.Scalar(tst, "E_var 2x5", 1e-6, e55, -198.73029308564543)
			if e55 > e10 {
				tst.Errorf("two cycles should not end above one: %g > %g", e55, e10)
			}
		}
		return nil
	})
	if err != nil {
		tst.Errorf("run failed: %v", err)
	}
}
