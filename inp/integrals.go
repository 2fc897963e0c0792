// Copyright 2024 The QuantumEnvelope Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"

	"github.com/seanr7/QuantumEnvelope/idx"
)

// LoadIntegrals reads an FCIDUMP file. The header line carries NORB=<n>
// among other tokens and is followed by three more header lines; each
// record is "value i k j l" with 1-based indices in Mulliken (ik|jl)
// order. A record with i==0 carries the nuclear repulsion E0; one with
// j==0 a one-electron integral <i|h|k>, stored symmetrically. Everything
// else is a two-electron integral, stored once under the canonical Dirac
// <ij|kl> compound index with 0-based orbitals.
func LoadIntegrals(path string) (nOrb int, e0 float64, oneE, twoE map[int]float64, err error) {
	s, done, err := open(path)
	if err != nil {
		return
	}
	defer done()

	if !s.Scan() {
		err = chk.Err("integral file %q is empty", path)
		return
	}
	nOrb = -1
	for _, tok := range strings.FieldsFunc(s.Text(), func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	}) {
		if v, ok := strings.CutPrefix(tok, "NORB="); ok {
			nOrb, err = strconv.Atoi(v)
			if err != nil {
				err = chk.Err("integral file %q: bad NORB token %q", path, tok)
				return
			}
		}
	}
	if nOrb < 1 {
		err = chk.Err("integral file %q: header has no NORB entry", path)
		return
	}
	for skip := 0; skip < 3; skip++ {
		if !s.Scan() {
			err = chk.Err("integral file %q: truncated header", path)
			return
		}
	}

	oneE = make(map[int]float64)
	twoE = make(map[int]float64)
	line := 4
	for s.Scan() {
		line++
		fields := strings.Fields(s.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 5 {
			err = chk.Err("integral file %q line %d: want 5 fields, have %d", path, line, len(fields))
			return
		}
		var v float64
		v, err = strconv.ParseFloat(fields[0], 64)
		if err != nil {
			err = chk.Err("integral file %q line %d: bad value %q", path, line, fields[0])
			return
		}
		var n [4]int
		for t := 0; t < 4; t++ {
			n[t], err = strconv.Atoi(fields[t+1])
			if err != nil {
				err = chk.Err("integral file %q line %d: bad index %q", path, line, fields[t+1])
				return
			}
		}
		i, k, j, l := n[0], n[1], n[2], n[3]
		switch {
		case i == 0:
			e0 = v
		case j == 0:
			oneE[idx.Idx2(i-1, k-1)] = v
		default:
			twoE[idx.Idx4(i-1, j-1, k-1, l-1)] = v
		}
	}
	if serr := s.Err(); serr != nil {
		err = chk.Err("cannot read %q: %v", path, serr)
	}
	return
}
