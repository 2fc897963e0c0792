// Copyright 2024 The QuantumEnvelope Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/klauspost/compress/gzip"

	"github.com/seanr7/QuantumEnvelope/idx"
)

func verbose() {
	chk.Verbose = true
}

const sampleFCIDUMP = `&FCI NORB=4,NELEC=4,MS2=0,
ORBSYM=1,1,1,1,
ISYM=1,
&END
0.5 1 1 1 1
-1.25 1 2 0 0
0.75 2 1 3 1
10.0 0 0 0 0
`

func writeSample(tst *testing.T, name, content string) string {
	path := filepath.Join(tst.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		tst.Fatalf("cannot write sample: %v", err)
	}
	return path
}

func Test_fcidump01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fcidump01. FCIDUMP parsing")

	path := writeSample(tst, "sample.FCIDUMP", sampleFCIDUMP)
	nOrb, e0, oneE, twoE, err := LoadIntegrals(path)
	if err != nil {
		tst.Errorf("load failed: %v", err)
		return
	}
	chk.IntAssert(nOrb, 4)
	chk.Scalar(tst, "E0", 1e-15, e0, 10.0)

	// one-electron record "-1.25 1 2 0 0" is <1|h|2>, symmetric, 0-based
	chk.Scalar(tst, "h(0,1)", 1e-15, oneE[idx.Idx2(0, 1)], -1.25)
	chk.Scalar(tst, "h(1,0)", 1e-15, oneE[idx.Idx2(1, 0)], -1.25)

	// two-electron record "0.5 1 1 1 1" is Mulliken (11|11) = <11|11>
	chk.Scalar(tst, "g(0,0,0,0)", 1e-15, twoE[idx.Idx4(0, 0, 0, 0)], 0.5)

	// "0.75 2 1 3 1" is Mulliken (21|31): i,k,j,l = 2,1,3,1 so the Dirac
	// element is <23|11> with 0-based (1,2,0,0)
	chk.Scalar(tst, "g(1,2,0,0)", 1e-15, twoE[idx.Idx4(1, 2, 0, 0)], 0.75)
	chk.IntAssert(len(twoE), 2)
}

func Test_fcidump02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fcidump02. gzip decompression by suffix")

	path := filepath.Join(tst.TempDir(), "sample.FCIDUMP.gz")
	f, err := os.Create(path)
	if err != nil {
		tst.Fatalf("cannot create: %v", err)
	}
	gz := gzip.NewWriter(f)
	gz.Write([]byte(sampleFCIDUMP))
	gz.Close()
	f.Close()

	nOrb, e0, _, twoE, err := LoadIntegrals(path)
	if err != nil {
		tst.Errorf("load failed: %v", err)
		return
	}
	chk.IntAssert(nOrb, 4)
	chk.Scalar(tst, "E0", 1e-15, e0, 10.0)
	chk.IntAssert(len(twoE), 2)
}

func Test_fcidump03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fcidump03. malformed files are fatal at load")

	if _, _, _, _, err := LoadIntegrals(writeSample(tst, "bad1", "no norb here\nx\ny\nz\n")); err == nil {
		tst.Errorf("missing NORB accepted")
	}
	if _, _, _, _, err := LoadIntegrals(writeSample(tst, "bad2", "&FCI NORB=4,\n")); err == nil {
		tst.Errorf("truncated header accepted")
	}
	bad := "&FCI NORB=4,\nx\ny\nz\n1.0 1 1 1\n"
	if _, _, _, _, err := LoadIntegrals(writeSample(tst, "bad3", bad)); err == nil {
		tst.Errorf("short record accepted")
	}
}

func Test_wf01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("wf01. wavefunction parsing and normalization")

	content := "3.0 ++-- +-+-\n4.0 +-+- ++--\n"
	coef, psi, err := LoadWavefunction(writeSample(tst, "sample.wf", content))
	if err != nil {
		tst.Errorf("load failed: %v", err)
		return
	}
	chk.IntAssert(len(psi), 2)
	chk.Ints(tst, "alpha0", psi[0].Alpha, []int{0, 1})
	chk.Ints(tst, "beta0", psi[0].Beta, []int{0, 2})
	chk.Ints(tst, "alpha1", psi[1].Alpha, []int{0, 2})
	chk.Ints(tst, "beta1", psi[1].Beta, []int{0, 1})

	// 3-4-5 triangle
	chk.Scalar(tst, "coef0", 1e-15, coef[0], 0.6)
	chk.Scalar(tst, "coef1", 1e-15, coef[1], 0.8)
	norm := 0.0
	for _, c := range coef {
		norm += c * c
	}
	chk.Scalar(tst, "norm", 1e-15, math.Sqrt(norm), 1.0)
}

func Test_eref01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("eref01. reference energy extraction")

	content := "some header\nE   =   -198.646096743145\nE = 1.0 (ignored, first match wins)\n"
	v, err := LoadERef(writeSample(tst, "sample.ref", content))
	if err != nil {
		tst.Errorf("load failed: %v", err)
		return
	}
	chk.Scalar(tst, "eref", 1e-12, v, -198.646096743145)

	if _, err := LoadERef(writeSample(tst, "empty.ref", "nothing\n")); err == nil {
		tst.Errorf("missing E line accepted")
	}
}
