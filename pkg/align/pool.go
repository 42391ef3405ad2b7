package align

import (
	"runtime"
)

// Pool provides a pool of aligners for concurrent alignment. Aligners keep
// their dynamic programming buffers between calls.
type Pool interface {
	// Align retrieves an aligner from the pool, aligns query against ref
	// and returns the aligner to the pool. This method is safe for
	// concurrent use.
	Align(query, ref string) (EditScript, error)

	// Close shuts down the pool and releases buffers.
	// After calling Close, the pool should not be used.
	Close()
}

// PoolImpl implements the Pool interface with a buffered channel.
type PoolImpl struct {
	ch       chan *Aligner
	poolSize int
}

// NewPool creates a new pool of aligners.
// If jobsNum is 0, it defaults to runtime.NumCPU().
func NewPool(jobsNum, band int) Pool {
	poolSize := jobsNum
	if poolSize == 0 {
		poolSize = runtime.NumCPU()
	}

	ch := make(chan *Aligner, poolSize)
	for range poolSize {
		ch <- New(band)
	}

	return &PoolImpl{
		ch:       ch,
		poolSize: poolSize,
	}
}

// Align blocks until an aligner is available.
func (p *PoolImpl) Align(query, ref string) (EditScript, error) {
	a := <-p.ch
	defer func() { p.ch <- a }()
	return a.Align(query, ref)
}

// Close drains the pool.
func (p *PoolImpl) Close() {
	if p.ch == nil {
		return
	}
	close(p.ch)
	for range p.ch {
	}
}
