// SPDX-License-Identifier: Apache-2.0

package arena

// DefaultArenaSize is the block size for arenas whose use case has no
// recorded history yet (64 KiB).
const DefaultArenaSize = 64 * 1024

// sizeWindow bounds how many samples feed a use case's running average
// before it is collapsed back to one.
const sizeWindow = 50

// poolItemSize tracks the memory required across recent arenas of one
// use case.
type poolItemSize struct {
	count      int
	totalBytes int
}

// Pool is a free list of released Linear arenas. Acquire hands out a
// recycled arena when one is available, otherwise it creates a new one
// sized from the peak usage recorded for the use-case key.
//
// Like every structure in this module, the pool assumes single-threaded
// access.
type Pool struct {
	free  []*Linear
	sizes map[uint64]*poolItemSize
}

// NewPool creates an empty Pool.
func NewPool() *Pool {
	return &Pool{
		sizes: make(map[uint64]*poolItemSize),
	}
}

// Acquire returns an arena for the given use-case key. The free list is
// searched newest-first for an arena large enough for the key's recorded
// usage; a linear arena cannot grow, so an undersized one is never handed
// out. Without a fit, a new arena is created.
func (p *Pool) Acquire(key uint64) *Linear {
	want := p.arenaSize(key)
	for i := len(p.free) - 1; i >= 0; i-- {
		if l := p.free[i]; l.Cap() >= want {
			p.free = append(p.free[:i], p.free[i+1:]...)
			return l
		}
	}
	return NewLinear(want)
}

// Release records the arena's peak usage under the given key, resets it and
// returns it to the free list.
func (p *Pool) Release(key uint64, l *Linear) {
	peak := l.Peak()
	l.Reset()

	if size, ok := p.sizes[key]; ok {
		if size.count == sizeWindow {
			size.count = 1
			size.totalBytes = size.totalBytes / sizeWindow
		}
		size.count++
		size.totalBytes += peak
	} else {
		p.sizes[key] = &poolItemSize{count: 1, totalBytes: peak}
	}

	p.free = append(p.free, l)
}

// Drain releases the memory of every pooled arena and empties the free
// list. Recorded size history is kept.
func (p *Pool) Drain() {
	for _, l := range p.free {
		l.Release()
	}
	p.free = p.free[:0]
}

// arenaSize returns the block size for a new arena serving the given key:
// the key's average recorded peak, or DefaultArenaSize without history.
func (p *Pool) arenaSize(key uint64) int {
	if size, ok := p.sizes[key]; ok && size.totalBytes > 0 {
		return size.totalBytes / size.count
	}
	return DefaultArenaSize
}
