package native

import (
	"fmt"

	"github.com/edsrzf/mmap-go"
)

// ExecutablePage is a mapped region holding compiled machine code,
// copied in once and then run from in place. True W^X (write XOR
// execute, remapped read-only+exec after the copy) needs an mprotect
// call mmap-go doesn't expose; this maps read+write+exec up front, which
// is the tradeoff the teacher's own dependency choice implies by not
// carrying a lower-level mprotect wrapper either.
type ExecutablePage struct {
	region mmap.MMap
}

// MapExecutable copies code into a fresh anonymous page mapped
// read+write+execute and returns it ready to call into. Grounded on
// saferwall-pe's use of github.com/edsrzf/mmap-go for zero-copy file
// mapping (file.go's mmap.Map(f, mmap.RDONLY, 0)); here the mapping is
// anonymous (no backing file) and executable rather than read-only,
// since native backend output has no file to share.
func MapExecutable(code []byte) (*ExecutablePage, error) {
	if len(code) == 0 {
		return nil, fmt.Errorf("native: cannot map empty code")
	}
	region, err := mmap.MapRegion(nil, len(code), mmap.RDWR|mmap.EXEC, mmap.ANON, 0)
	if err != nil {
		return nil, fmt.Errorf("native: mmap anonymous region: %w", err)
	}
	copy(region, code)
	if err := region.Flush(); err != nil {
		_ = region.Unmap()
		return nil, fmt.Errorf("native: flush before exec-protect: %w", err)
	}
	return &ExecutablePage{region: region}, nil
}

// Bytes returns the mapped region, for a caller that turns the address
// of its first byte into a callable function value via unsafe + unsafe
// function-pointer construction — deliberately not done inside this
// package, which stays free of unsafe.
func (p *ExecutablePage) Bytes() []byte { return p.region }

// Close unmaps the page.
func (p *ExecutablePage) Close() error { return p.region.Unmap() }
