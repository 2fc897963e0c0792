// Copyright 2024 The QuantumEnvelope Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package det

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
)

func verbose() {
	chk.Verbose = true
}

func Test_det01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("det01. excitation degree")

	di := Det{Alpha: Spin{0, 1}, Beta: Spin{0, 1}}
	dj := Det{Alpha: Spin{0, 2}, Beta: Spin{4, 6}}
	da, db := ExcDegree(di, dj)
	chk.IntAssert(da, 1)
	chk.IntAssert(db, 2)

	da, db = ExcDegree(di, di)
	chk.IntAssert(da, 0)
	chk.IntAssert(db, 0)

	if !di.Equal(di) || di.Equal(dj) {
		tst.Errorf("determinant equality broken")
	}
}

func Test_det02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("det02. single excitation phases")

	phase, h, p := SingleExc(Spin{0, 4, 6}, Spin{0, 6, 22})
	chk.Ints(tst, "single (0,4,6)->(0,6,22)", []int{phase, h, p}, []int{-1, 4, 22})

	phase, h, p = SingleExc(Spin{0, 1, 8}, Spin{0, 8, 17})
	chk.Ints(tst, "single (0,1,8)->(0,8,17)", []int{phase, h, p}, []int{-1, 1, 17})

	h, p = SingleExcNoPhase(Spin{1, 5, 7}, Spin{1, 7, 23})
	chk.Ints(tst, "holepart", []int{h, p}, []int{5, 23})
}

func Test_det03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("det03. double excitation phases")

	si := Spin{0, 1, 2, 3, 4, 5, 6, 7, 8}
	phase, h1, h2, p1, p2 := DoubleExc(si, Spin{0, 1, 4, 5, 6, 7, 8, 11, 12})
	chk.Ints(tst, "double a", []int{phase, h1, h2, p1, p2}, []int{1, 2, 3, 11, 12})

	phase, h1, h2, p1, p2 = DoubleExc(si, Spin{0, 1, 3, 4, 5, 6, 7, 11, 17})
	chk.Ints(tst, "double b", []int{phase, h1, h2, p1, p2}, []int{-1, 2, 8, 11, 17})
}

func Test_det04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("det04. applying excitations")

	d := Det{Alpha: Spin{0, 1}, Beta: Spin{0, 1}}
	e := d.ApplyExc([]int{1}, []int{3}, nil, nil)
	chk.Ints(tst, "alpha", e.Alpha, []int{0, 3})
	chk.Ints(tst, "beta", e.Beta, []int{0, 1})

	e = d.ApplyExc([]int{0, 1}, []int{2, 3}, []int{1}, []int{2})
	chk.Ints(tst, "alpha", e.Alpha, []int{2, 3})
	chk.Ints(tst, "beta", e.Beta, []int{0, 2})

	// degenerate applications must panic
	degenerate := func(fn func()) (panicked bool) {
		defer func() { panicked = recover() != nil }()
		fn()
		return
	}
	if !degenerate(func() { d.ApplyExc([]int{2}, []int{3}, nil, nil) }) {
		tst.Errorf("missing hole did not panic")
	}
	if !degenerate(func() { d.ApplyExc([]int{0}, []int{1}, nil, nil) }) {
		tst.Errorf("occupied particle did not panic")
	}
}

func Test_exc01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("exc01. excitation generators")

	e := Excitations{NOrb: 4}
	singles := e.ConnectedSpins(Spin{0, 1}, 1)
	chk.IntAssert(len(singles), 4)
	chk.Ints(tst, "s0", singles[0], []int{1, 2})
	chk.Ints(tst, "s1", singles[1], []int{1, 3})
	chk.Ints(tst, "s2", singles[2], []int{0, 2})
	chk.Ints(tst, "s3", singles[3], []int{0, 3})

	doubles := e.ConnectedSpins(Spin{0, 1}, 2)
	chk.IntAssert(len(doubles), 1)
	chk.Ints(tst, "d0", doubles[0], []int{2, 3})

	chk.Ints(tst, "complement of empty", e.complement(Spin{}), utl.IntRange(4))
	chk.Ints(tst, "complement of full", e.complement(Spin{0, 1, 2, 3}), []int{})
}

func Test_exc02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("exc02. connected space")

	e3 := Excitations{NOrb: 3}
	conn := e3.ConnectedFrom(Det{Alpha: Spin{0, 1}, Beta: Spin{0}})
	chk.IntAssert(len(conn), 8)

	e4 := Excitations{NOrb: 4}
	d1 := Det{Alpha: Spin{0, 1}, Beta: Spin{0}}
	d2 := Det{Alpha: Spin{0, 2}, Beta: Spin{0}}
	all := e4.ConnectedAll([]Det{d1, d2})
	chk.IntAssert(len(all), 22)

	// no member of psi leaks into its connected space, no duplicates
	m := NewMap(all)
	chk.IntAssert(len(m), 22)
	if _, ok := m.Index(d1); ok {
		tst.Errorf("psi member found in connected space")
	}
	if _, ok := m.Index(d2); ok {
		tst.Errorf("psi member found in connected space")
	}
}

func Test_con01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("con01. triplet constraints")

	cs := AllConstraints(3, 4)
	chk.IntAssert(len(cs), 4)
	chk.Ints(tst, "c0", cs[0][:], []int{0, 1, 2})
	chk.Ints(tst, "c1", cs[1][:], []int{0, 1, 3})
	chk.Ints(tst, "c2", cs[2][:], []int{0, 2, 3})
	chk.Ints(tst, "c3", cs[3][:], []int{1, 2, 3})

	chk.IntAssert(len(AllConstraints(3, 6)), 20)

	d := Det{Alpha: Spin{0, 2, 4, 5}, Beta: Spin{0, 1}}
	c := CheckConstraint(d)
	chk.Ints(tst, "check", c[:], []int{2, 4, 5})
}

func Test_con02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("con02. constrained excitations partition the connected space")

	e := Excitations{NOrb: 4}
	d := Det{Alpha: Spin{0, 1, 2}, Beta: Spin{0, 1}}

	// every connected determinant must appear under exactly one constraint
	total := 0
	for _, C := range AllConstraints(3, 4) {
		total += len(e.ConstrainedSingles(d, C))
		total += len(e.ConstrainedDoubles(d, C))
	}
	want := 0
	for _, dj := range e.ConnectedFrom(d) {
		_ = dj
		want++
	}
	chk.IntAssert(total, want)
}
