// Package cart holds the client-side shopping cart: a keyed collection of
// lines validated against per-book stock snapshots and persisted after every
// mutation, so a reload never observes a state older than the last completed
// change.
package cart

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/and161185/bookstore/internal/errs"
	"github.com/and161185/bookstore/internal/model"
)

// SnapshotName is the snapshot file the store reads at construction and
// rewrites after each mutation.
const SnapshotName = "cart"

// Persister saves and restores named JSON snapshots.
type Persister interface {
	Save(name string, v any) error
	Load(name string, v any) (ok bool)
	Remove(name string) error
}

// AddOutcome distinguishes a freshly created line from a quantity bump, so
// callers can word their confirmation accordingly.
type AddOutcome int

const (
	LineAdded AddOutcome = iota
	LineUpdated
)

// Store is the cart. All mutations run under one mutex and persist before
// returning; there is exactly one Store per running client.
type Store struct {
	mu    sync.Mutex
	lines []model.CartLine
	files Persister
	log   *zap.Logger
}

// NewStore loads the persisted snapshot if one exists. A missing or corrupt
// snapshot yields an empty cart.
func NewStore(files Persister, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{files: files, log: log}
	var lines []model.CartLine
	if files.Load(SnapshotName, &lines) {
		s.lines = lines
	}
	return s
}

func (s *Store) persist() error {
	if err := s.files.Save(SnapshotName, s.lines); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}

func (s *Store) find(bookID int64) int {
	for i := range s.lines {
		if s.lines[i].BookID == bookID {
			return i
		}
	}
	return -1
}

// Add puts qty copies of book into the cart, merging into an existing line.
// The book's current stock is the ceiling for the attempt; exceeding it
// returns errs.ErrOutOfStock and leaves the cart untouched. The unit price is
// snapshotted on first add and never re-fetched.
func (s *Store) Add(book model.Book, qty int) (AddOutcome, error) {
	if qty < 1 {
		return 0, fmt.Errorf("validation: quantity %d < 1", qty)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.find(book.ID); i >= 0 {
		newQty := s.lines[i].Quantity + qty
		if newQty > book.StockQuantity {
			return 0, errs.ErrOutOfStock
		}
		s.lines[i].Quantity = newQty
		s.lines[i].StockCeiling = book.StockQuantity
		if err := s.persist(); err != nil {
			return 0, err
		}
		s.log.Debug("cart line updated", zap.Int64("bookId", book.ID), zap.Int("quantity", newQty))
		return LineUpdated, nil
	}

	if qty > book.StockQuantity {
		return 0, errs.ErrOutOfStock
	}
	s.lines = append(s.lines, model.CartLine{
		BookID:       book.ID,
		Title:        book.Title,
		Author:       book.Author,
		UnitPrice:    book.Price,
		Quantity:     qty,
		StockCeiling: book.StockQuantity,
	})
	if err := s.persist(); err != nil {
		return 0, err
	}
	s.log.Debug("cart line added", zap.Int64("bookId", book.ID), zap.Int("quantity", qty))
	return LineAdded, nil
}

// Remove deletes the line for bookID. Removing an absent line is a no-op,
// not an error; the snapshot is rewritten either way.
func (s *Store) Remove(bookID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(bookID)
}

func (s *Store) removeLocked(bookID int64) error {
	if i := s.find(bookID); i >= 0 {
		s.lines = append(s.lines[:i], s.lines[i+1:]...)
		s.log.Debug("cart line removed", zap.Int64("bookId", bookID))
	}
	return s.persist()
}

// SetQuantity replaces the line's quantity directly; qty <= 0 removes the
// line. No re-validation against the recorded stock ceiling happens here —
// callers that expose direct quantity edits clamp to the ceiling themselves,
// the way the quantity controls do.
func (s *Store) SetQuantity(bookID int64, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if qty <= 0 {
		return s.removeLocked(bookID)
	}
	if i := s.find(bookID); i >= 0 {
		s.lines[i].Quantity = qty
		s.log.Debug("cart quantity set", zap.Int64("bookId", bookID), zap.Int("quantity", qty))
	}
	return s.persist()
}

// Clear empties the cart and erases the persisted snapshot.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	if err := s.files.Remove(SnapshotName); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	s.log.Debug("cart cleared")
	return nil
}

// Lines returns a copy of the cart in insertion order.
func (s *Store) Lines() []model.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.CartLine(nil), s.lines...)
}

// Count is the sum of quantities over all lines.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for i := range s.lines {
		n += s.lines[i].Quantity
	}
	return n
}

// Total is the sum of unit price times quantity over all lines.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var t float64
	for i := range s.lines {
		t += s.lines[i].Subtotal()
	}
	return t
}

// Line returns the line for bookID, if present.
func (s *Store) Line(bookID int64) (model.CartLine, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.find(bookID); i >= 0 {
		return s.lines[i], true
	}
	return model.CartLine{}, false
}
