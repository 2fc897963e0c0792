// Copyright 2024 The QuantumEnvelope Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package comm provides the collective primitives consumed by the solver
// core: Allreduce(SUM), Allgatherv, Gatherv and a MINLOC reduction. Workers
// run as goroutines inside one process; every collective is a barrier for
// the whole group and gather results are ordered by rank, so a run is
// deterministic modulo floating-point reduction order. The API mirrors an
// MPI communicator and can be re-backed by one without touching callers.
package comm

import (
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/seanr7/QuantumEnvelope/det"
)

// group holds the shared state of one worker set
type group struct {
	size    int
	mu      sync.Mutex
	cond    *sync.Cond
	arrived int
	gen     int

	floats [][]float64
	dets   [][]det.Det
	ints   []int
}

// Comm is one worker's handle on the group
type Comm struct {
	g    *group
	rank int
}

// Run executes fn once per rank, each on its own goroutine, and waits for
// the whole group. The first error cancels nothing mid-collective (ranks
// fail together or not at all); it is simply returned.
func Run(size int, fn func(c *Comm) error) error {
	g := &group{
		size:   size,
		floats: make([][]float64, size),
		dets:   make([][]det.Det, size),
		ints:   make([]int, size),
	}
	g.cond = sync.NewCond(&g.mu)
	var eg errgroup.Group
	for r := 0; r < size; r++ {
		c := &Comm{g: g, rank: r}
		eg.Go(func() error { return fn(c) })
	}
	return eg.Wait()
}

// Rank returns this worker's id in [0, Size)
func (c *Comm) Rank() int { return c.rank }

// Size returns the number of workers in the group
func (c *Comm) Size() int { return c.g.size }

// Barrier blocks until every rank has arrived
func (c *Comm) Barrier() {
	g := c.g
	g.mu.Lock()
	gen := g.gen
	g.arrived++
	if g.arrived == g.size {
		g.arrived = 0
		g.gen++
		g.cond.Broadcast()
	} else {
		for g.gen == gen {
			g.cond.Wait()
		}
	}
	g.mu.Unlock()
}

// AllreduceSum sums the local vectors element-wise across ranks; every rank
// receives the full sum. Summation order is fixed by rank id.
func (c *Comm) AllreduceSum(local []float64) []float64 {
	g := c.g
	g.mu.Lock()
	g.floats[c.rank] = local
	g.mu.Unlock()
	c.Barrier()
	out := make([]float64, len(local))
	for r := 0; r < g.size; r++ {
		for i, v := range g.floats[r] {
			out[i] += v
		}
	}
	c.Barrier()
	return out
}

// AllreduceSum1 is AllreduceSum for a single scalar
func (c *Comm) AllreduceSum1(local float64) float64 {
	return c.AllreduceSum([]float64{local})[0]
}

// AllgathervFloats concatenates the local vectors in rank order on every rank
func (c *Comm) AllgathervFloats(local []float64) []float64 {
	g := c.g
	g.mu.Lock()
	g.floats[c.rank] = local
	g.mu.Unlock()
	c.Barrier()
	n := 0
	for r := 0; r < g.size; r++ {
		n += len(g.floats[r])
	}
	out := make([]float64, 0, n)
	for r := 0; r < g.size; r++ {
		out = append(out, g.floats[r]...)
	}
	c.Barrier()
	return out
}

// AllgathervDets concatenates the local determinant lists in rank order
func (c *Comm) AllgathervDets(local []det.Det) []det.Det {
	g := c.g
	g.mu.Lock()
	g.dets[c.rank] = local
	g.mu.Unlock()
	c.Barrier()
	n := 0
	for r := 0; r < g.size; r++ {
		n += len(g.dets[r])
	}
	out := make([]det.Det, 0, n)
	for r := 0; r < g.size; r++ {
		out = append(out, g.dets[r]...)
	}
	c.Barrier()
	return out
}

// GathervFloats concatenates the local vectors on the root rank only; the
// other ranks receive nil
func (c *Comm) GathervFloats(local []float64, root int) []float64 {
	g := c.g
	g.mu.Lock()
	g.floats[c.rank] = local
	g.mu.Unlock()
	c.Barrier()
	var out []float64
	if c.rank == root {
		for r := 0; r < g.size; r++ {
			out = append(out, g.floats[r]...)
		}
	}
	c.Barrier()
	return out
}

// BcastFloats distributes the root's vector to every rank
func (c *Comm) BcastFloats(local []float64, root int) []float64 {
	g := c.g
	if c.rank == root {
		g.mu.Lock()
		g.floats[root] = local
		g.mu.Unlock()
	}
	c.Barrier()
	src := g.floats[root]
	out := make([]float64, len(src))
	copy(out, src)
	c.Barrier()
	return out
}

// AllreduceMinloc returns the rank holding the smallest value; ties go to
// the lowest rank, as in an MPI MINLOC reduction
func (c *Comm) AllreduceMinloc(value int) int {
	g := c.g
	g.mu.Lock()
	g.ints[c.rank] = value
	g.mu.Unlock()
	c.Barrier()
	loc := 0
	for r := 1; r < g.size; r++ {
		if g.ints[r] < g.ints[loc] {
			loc = r
		}
	}
	c.Barrier()
	return loc
}
