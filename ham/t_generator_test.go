// Copyright 2024 The QuantumEnvelope Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ham

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/seanr7/QuantumEnvelope/comm"
	"github.com/seanr7/QuantumEnvelope/det"
)

func dummyPsi(n int) []det.Det {
	psi := make([]det.Det, n)
	for i := range psi {
		psi[i] = det.Det{Alpha: det.Spin{0, i + 1}, Beta: det.Spin{0, i + 1}}
	}
	return psi
}

func Test_gen01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("gen01. block-row distribution")

	s := allOnes()
	err := comm.Run(3, func(c *comm.Comm) error {
		g := NewGenerator(c, s, dummyPsi(100), "determinant")
		chk.Ints(tst, "dist 100", g.Distribution(), []int{34, 33, 33})
		chk.Ints(tst, "offs 100", g.Offsets(), []int{0, 34, 67})

		g = NewGenerator(c, s, dummyPsi(101), "determinant")
		chk.Ints(tst, "dist 101", g.Distribution(), []int{34, 34, 33})

		g = NewGenerator(c, s, dummyPsi(102), "determinant")
		chk.Ints(tst, "dist 102", g.Distribution(), []int{34, 34, 34})
		return nil
	})
	if err != nil {
		tst.Errorf("run failed: %v", err)
	}
}

func Test_gen02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("gen02. implicit product matches the dense block")

	s := allOnes()
	psi := minimalBasis()
	n := len(psi)

	// identity right-hand side: H_i * I must reproduce the dense block
	eye := make([][]float64, n)
	for i := range eye {
		eye[i] = make([]float64, n)
		eye[i][i] = 1
	}

	for _, w := range []int{1, 3} {
		for _, driver := range []string{"determinant", "integral"} {
			err := comm.Run(w, func(c *comm.Comm) error {
				g := NewGenerator(c, s, psi, driver)
				hi := g.Hi()
				wi := g.MatVec(eye)
				chk.Matrix(tst, "H_i", 1e-13, wi, hi)

				// diagonal of the block
				di := g.Di()
				for r := 0; r < g.LocalSize(); r++ {
					chk.Scalar(tst, "D_i", 1e-13, di[r], hi[r][g.Offset()+r])
				}
				return nil
			})
			if err != nil {
				tst.Errorf("run failed: %v", err)
			}
		}
	}
}

func Test_gen03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("gen03. replicated assembly is rank-count invariant")

	s := allOnes()
	psi := minimalBasis()
	n := len(psi)

	var ref [][]float64
	err := comm.Run(1, func(c *comm.Comm) error {
		ref = NewGenerator(c, s, psi, "determinant").Full()
		return nil
	})
	if err != nil {
		tst.Errorf("run failed: %v", err)
		return
	}
	chk.IntAssert(len(ref), n)

	err = comm.Run(4, func(c *comm.Comm) error {
		full := NewGenerator(c, s, psi, "integral").Full()
		if c.Rank() == 0 {
			chk.Matrix(tst, "H", 1e-12, full, ref)
		}
		return nil
	})
	if err != nil {
		tst.Errorf("run failed: %v", err)
	}
}
