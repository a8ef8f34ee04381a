package catalog

import (
	"context"
	"sync"
	"sync/atomic"

	"biglibrary/internal/metrics"
)

// BrowseState is the shared result of the most recently applied search.
type BrowseState struct {
	Query   Query
	Page    Page
	Loading bool
	Err     error
}

// Browser owns the browse view's result state. Searches may overlap; a
// response is applied only when no newer search has been applied already.
type Browser struct {
	searcher Searcher
	rec      metrics.Recorder

	seq atomic.Uint64

	mu      sync.Mutex
	applied uint64
	state   BrowseState
}

func NewBrowser(searcher Searcher, rec metrics.Recorder) *Browser {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Browser{searcher: searcher, rec: rec}
}

// Search runs q and returns the state after it settled, plus whether this
// call's result was the one applied.
func (b *Browser) Search(ctx context.Context, q Query) (BrowseState, bool) {
	seq := b.seq.Add(1)

	b.mu.Lock()
	if seq > b.applied {
		b.state.Loading = true
	}
	b.mu.Unlock()

	page, err := b.searcher.Search(ctx, q)

	b.mu.Lock()
	defer b.mu.Unlock()
	if seq <= b.applied {
		b.rec.RecordStaleSearchDropped()
		return b.state, false
	}
	b.applied = seq
	b.state = BrowseState{Query: q, Page: page, Err: err, Loading: seq != b.seq.Load()}
	if err != nil {
		b.state.Page = Page{}
	}
	return b.state, true
}

// State returns the current snapshot.
func (b *Browser) State() BrowseState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// TotalPages is PageCount over the applied page.
func (s BrowseState) TotalPages() int {
	return PageCount(s.Page.TotalItems, s.Page.Limit)
}
