// Copyright 2024 The QuantumEnvelope Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package idx

import "github.com/cpmech/gosl/chk"

// Cat labels the equality pattern of a canonical two-electron index.
// Each category fixes which kinds of determinant pairs the integral can
// couple (diagonal / single / same-spin double / opposite-spin double):
//
//	A  i=j=k=l          diagonal (orbital occupied in both spins)
//	B  i=k<j=l          diagonal (i,j occupied, any spin combination)
//	C  i=k or j=l only  singles with a spectator occupation
//	D  three equal      singles with an opposite-spin spectator
//	E  one adjacent eq. same-spin singles + opposite-spin doubles
//	F  i=j<k=l          diagonal (exchange) + opposite-spin doubles
//	G  all distinct     same-spin + opposite-spin doubles
type Cat uint8

const (
	CatA Cat = iota
	CatB
	CatC
	CatD
	CatE
	CatF
	CatG
	ncat
)

func (c Cat) String() string {
	return string('A' + byte(c))
}

// Category classifies a canonical two-electron index. The input must be
// its own canonical representative.
func Category(i, j, k, l int) Cat {
	if !IsCanonical4(i, j, k, l) {
		chk.Panic("integral index (%d,%d,%d,%d) is not canonical", i, j, k, l)
	}
	switch {
	case i == l:
		return CatA
	case i == k && j == l:
		return CatB
	case i == k || j == l:
		if j == k {
			return CatD
		}
		return CatC
	case j == k:
		return CatE
	case i == j && k == l:
		return CatF
	case i == j || k == l:
		return CatE
	default:
		return CatG
	}
}
