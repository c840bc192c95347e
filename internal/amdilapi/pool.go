package amdilapi

const poolPageSize = 128

// Pool is a paged arena of T. Items never move once allocated, so a *T returned by Allocate or View stays valid
// while more items are allocated, and every item is addressed by its allocation index.
type Pool[T any] struct {
	pages     []*[poolPageSize]T
	allocated int
}

// NewPool returns a new empty Pool.
func NewPool[T any]() Pool[T] {
	return Pool[T]{}
}

// Allocated returns the number of T allocated so far.
func (p *Pool[T]) Allocated() int {
	return p.allocated
}

// Allocate allocates a zero T and returns it together with its index.
func (p *Pool[T]) Allocate() (int, *T) {
	page, index := p.allocated/poolPageSize, p.allocated%poolPageSize
	if page == len(p.pages) {
		p.pages = append(p.pages, new([poolPageSize]T))
	}
	ret := &p.pages[page][index]
	p.allocated++
	return p.allocated - 1, ret
}

// View returns the pointer to the i-th item. It panics if i was never allocated.
func (p *Pool[T]) View(i int) *T {
	if i < 0 || i >= p.allocated {
		panic("BUG: pool index out of range")
	}
	return &p.pages[i/poolPageSize][i%poolPageSize]
}
