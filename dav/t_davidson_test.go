// Copyright 2024 The QuantumEnvelope Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dav

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/seanr7/QuantumEnvelope/comm"
	"github.com/seanr7/QuantumEnvelope/det"
	"github.com/seanr7/QuantumEnvelope/ham"
	"github.com/seanr7/QuantumEnvelope/idx"
)

// model builds the 4-electron / 4-orbital all-ones system and its basis
func model() (*ham.Store, []det.Det) {
	twoE := make(map[int]float64)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			for k := 0; k < 4; k++ {
				for l := 0; l < 4; l++ {
					twoE[idx.Idx4(i, j, k, l)] = 1
				}
			}
		}
	}
	s := ham.NewStore(4, 0, map[int]float64{}, twoE)
	seed := det.Det{Alpha: det.Spin{0, 1}, Beta: det.Spin{0, 1}}
	psi := append([]det.Det{seed}, det.Excitations{NOrb: 4}.ConnectedAll([]det.Det{seed})...)
	return s, psi
}

func Test_dav01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dav01. lowest eigenpair vs dense reference")

	s, psi := model()

	// dense reference on one rank
	var refVal float64
	var refVec []float64
	err := comm.Run(1, func(c *comm.Comm) error {
		g := ham.NewGenerator(c, s, psi, "determinant")
		vals, vecs, err := DenseEigen(g.Full())
		if err != nil {
			return err
		}
		refVal, refVec = vals[0], vecs[0]
		return nil
	})
	if err != nil {
		tst.Errorf("dense reference failed: %v", err)
		return
	}

	for _, w := range []int{1, 2, 3} {
		err := comm.Run(w, func(c *comm.Comm) error {
			g := ham.NewGenerator(c, s, psi, "integral")
			lam, x, err := NewSolver(c, g).Solve(nil)
			if err != nil {
				return err
			}
			chk.Scalar(tst, "lambda0", 1e-6, lam[0], refVal)

			// eigenvectors agree up to a global sign
			dot := 0.0
			for i := range x[0] {
				dot += x[0][i] * refVec[i]
			}
			chk.Scalar(tst, "overlap", 1e-6, math.Abs(dot), 1)
			return nil
		})
		if err != nil {
			tst.Errorf("davidson failed with %d ranks: %v", w, err)
		}
	}
}

func Test_dav02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dav02. residual of the returned pair")

	s, psi := model()
	err := comm.Run(2, func(c *comm.Comm) error {
		g := ham.NewGenerator(c, s, psi, "determinant")
		lam, x, err := NewSolver(c, g).Solve(nil)
		if err != nil {
			return err
		}
		h := g.Full()
		n := len(psi)
		for i := 0; i < n; i++ {
			hx := 0.0
			for j := 0; j < n; j++ {
				hx += h[i][j] * x[0][j]
			}
			chk.Scalar(tst, "Hx = lambda x", 1e-6, hx, lam[0]*x[0][i])
		}
		return nil
	})
	if err != nil {
		tst.Errorf("run failed: %v", err)
	}
}

func Test_dav03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dav03. tight subspace cap forces restarts")

	s, psi := model()
	err := comm.Run(1, func(c *comm.Comm) error {
		g := ham.NewGenerator(c, s, psi, "determinant")
		solver := NewSolver(c, g)
		solver.Opt.MaxDim = 4
		lam, _, err := solver.Solve(nil)
		if err != nil {
			return err
		}
		vals, _, err := DenseEigen(g.Full())
		if err != nil {
			return err
		}
		chk.Scalar(tst, "lambda0 with restarts", 1e-6, lam[0], vals[0])
		return nil
	})
	if err != nil {
		tst.Errorf("run failed: %v", err)
	}
}

func Test_dav04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dav04. starting from the exact vector")

	s, psi := model()
	err := comm.Run(2, func(c *comm.Comm) error {
		g := ham.NewGenerator(c, s, psi, "determinant")
		vals, vecs, err := DenseEigen(g.Full())
		if err != nil {
			return err
		}
		lam, _, err := NewSolver(c, g).Solve([][]float64{vecs[0]})
		if err != nil {
			return err
		}
		chk.Scalar(tst, "lambda0 from exact guess", 1e-8, lam[0], vals[0])
		return nil
	})
	if err != nil {
		tst.Errorf("run failed: %v", err)
	}
}

func verbose() {
	chk.Verbose = true
}
