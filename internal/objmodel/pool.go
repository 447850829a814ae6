package objmodel

const poolPageSize = 128

// pool is a page-based allocator for T that supports index-stable
// allocation and O(1) lookup by index. Adapted from the wazevoapi.Pool[T]
// allocator idiom: pages grow lazily, and allocated slots are never
// relocated, which is exactly the stability the handle table needs.
type pool[T any] struct {
	pages     []*[poolPageSize]T
	allocated int
}

func newPool[T any]() pool[T] {
	return pool[T]{}
}

// allocate returns the index and pointer of a fresh zero-valued T.
func (p *pool[T]) allocate() (int, *T) {
	page, offset := p.allocated/poolPageSize, p.allocated%poolPageSize
	if page == len(p.pages) {
		p.pages = append(p.pages, new([poolPageSize]T))
	}
	idx := p.allocated
	p.allocated++
	return idx, &p.pages[page][offset]
}

// view returns the pointer to the i-th allocated T.
func (p *pool[T]) view(i int) *T {
	page, offset := i/poolPageSize, i%poolPageSize
	return &p.pages[page][offset]
}

func (p *pool[T]) len() int {
	return p.allocated
}
