// Package catalog tracks the active listing query — free-text search XOR a
// genre tag, plus a zero-based page index — and fetches matching results.
// Changing either filter clears the other and rewinds to the first page.
package catalog

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/and161185/bookstore/internal/api"
	"github.com/and161185/bookstore/internal/errs"
	"github.com/and161185/bookstore/internal/model"
)

// AllGenres is the sentinel that clears the genre filter.
const AllGenres = "All"

// Genres lists the tags the storefront offers, AllGenres first.
var Genres = []string{
	AllGenres, "Classic Fiction", "Dystopian Fiction", "Fantasy", "Science Fiction",
	"Thriller", "Non-Fiction", "Self-Help", "Fiction", "Technology", "Business",
}

// ErrStale marks a fetch whose response arrived after a newer query was
// issued; its result was discarded.
var ErrStale = errors.New("stale catalog response")

// Lister fetches one catalog page.
type Lister interface {
	ListBooks(ctx context.Context, p api.ListBooksParams) (model.BookPage, error)
}

// Controller is the catalog query state machine. Results replace prior state
// wholesale; an out-of-order response is fenced off by a per-fetch sequence
// number and never overwrites a newer one.
type Controller struct {
	lister   Lister
	pageSize int
	log      *zap.Logger

	mu      sync.Mutex
	search  string
	genre   string
	page    int
	seq     uint64 // latest issued fetch
	result  model.BookPage
	fetched bool
}

// NewController starts with no filter and page 0. Nothing is fetched until
// the first transition or Refresh.
func NewController(lister Lister, pageSize int, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{lister: lister, pageSize: pageSize, log: log}
}

// Search sets the free-text filter, clears the genre and rewinds to page 0.
func (c *Controller) Search(ctx context.Context, text string) (model.BookPage, error) {
	c.mu.Lock()
	c.search = text
	c.genre = ""
	c.page = 0
	return c.fetchLocked(ctx)
}

// SelectGenre sets the genre filter and clears the search; the AllGenres
// sentinel clears both. Either way the page rewinds to 0.
func (c *Controller) SelectGenre(ctx context.Context, g string) (model.BookPage, error) {
	c.mu.Lock()
	if g == AllGenres {
		c.genre = ""
	} else {
		c.genre = g
	}
	c.search = ""
	c.page = 0
	return c.fetchLocked(ctx)
}

// GoToPage moves to page n within the page count known from the last fetch.
// Out-of-range targets are rejected with the state unchanged.
func (c *Controller) GoToPage(ctx context.Context, n int) (model.BookPage, error) {
	c.mu.Lock()
	if n < 0 || (c.fetched && n >= c.result.TotalPages) || (!c.fetched && n != 0) {
		c.mu.Unlock()
		return model.BookPage{}, errs.ErrPageOutOfRange
	}
	c.page = n
	return c.fetchLocked(ctx)
}

// ClearFilter drops both filters and rewinds to page 0.
func (c *Controller) ClearFilter(ctx context.Context) (model.BookPage, error) {
	c.mu.Lock()
	c.search = ""
	c.genre = ""
	c.page = 0
	return c.fetchLocked(ctx)
}

// Refresh re-fetches the current query unchanged.
func (c *Controller) Refresh(ctx context.Context) (model.BookPage, error) {
	c.mu.Lock()
	return c.fetchLocked(ctx)
}

// fetchLocked issues a sequenced fetch for the current query. Called with the
// mutex held; releases it around the network call.
func (c *Controller) fetchLocked(ctx context.Context) (model.BookPage, error) {
	c.seq++
	seq := c.seq
	params := api.ListBooksParams{
		Search: c.search,
		Genre:  c.genre,
		Page:   c.page,
		Size:   c.pageSize,
	}
	c.mu.Unlock()

	page, err := c.lister.ListBooks(ctx, params)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		c.log.Debug("discarding stale catalog response",
			zap.Uint64("seq", seq), zap.Uint64("latest", c.seq))
		return model.BookPage{}, ErrStale
	}
	if err != nil {
		return model.BookPage{}, err
	}
	c.result = page
	c.fetched = true
	return page, nil
}

// Query returns the active filter and page index.
func (c *Controller) Query() (search, genre string, page int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.search, c.genre, c.page
}

// Result returns the last fetched page, ok=false before the first fetch.
func (c *Controller) Result() (model.BookPage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result, c.fetched
}
