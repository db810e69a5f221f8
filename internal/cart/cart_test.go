package cart

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/and161185/bookstore/internal/errs"
	"github.com/and161185/bookstore/internal/model"
	"github.com/and161185/bookstore/internal/statefile"
)

// memFiles keeps snapshots in memory and counts writes.
type memFiles struct {
	data  map[string][]byte
	saves int
}

var _ Persister = (*memFiles)(nil)

func newMemFiles() *memFiles { return &memFiles{data: map[string][]byte{}} }

func (m *memFiles) Save(name string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.data[name] = b
	m.saves++
	return nil
}

func (m *memFiles) Load(name string, v any) bool {
	b, ok := m.data[name]
	if !ok {
		return false
	}
	return json.Unmarshal(b, v) == nil
}

func (m *memFiles) Remove(name string) error {
	delete(m.data, name)
	return nil
}

func book(id int64, price float64, stock int) model.Book {
	return model.Book{ID: id, Title: "t", Author: "a", Price: price, StockQuantity: stock}
}

func TestAdd_NewAndMerge(t *testing.T) {
	s := NewStore(newMemFiles(), nil)

	out, err := s.Add(book(1, 9.99, 5), 3)
	if err != nil || out != LineAdded {
		t.Fatalf("first add: out=%v err=%v", out, err)
	}
	out, err = s.Add(book(1, 9.99, 5), 2)
	if err != nil || out != LineUpdated {
		t.Fatalf("merge add: out=%v err=%v", out, err)
	}

	if got := s.Count(); got != 5 {
		t.Fatalf("count: want 5, got %d", got)
	}
	if got := len(s.Lines()); got != 1 {
		t.Fatalf("one line per book: got %d lines", got)
	}
}

func TestAdd_RejectsPastCeiling(t *testing.T) {
	s := NewStore(newMemFiles(), nil)

	if _, err := s.Add(book(1, 10, 5), 3); err != nil {
		t.Fatal(err)
	}
	// 3 + 3 = 6 > 5: rejected, quantity unchanged
	if _, err := s.Add(book(1, 10, 5), 3); !errors.Is(err, errs.ErrOutOfStock) {
		t.Fatalf("want ErrOutOfStock, got %v", err)
	}
	if got := s.Count(); got != 3 {
		t.Fatalf("count after rejection: want 3, got %d", got)
	}
	if got := s.Total(); got != 30 {
		t.Fatalf("total after rejection: want 30, got %v", got)
	}
}

func TestAdd_RejectsNewLinePastStock(t *testing.T) {
	s := NewStore(newMemFiles(), nil)

	if _, err := s.Add(book(1, 10, 2), 3); !errors.Is(err, errs.ErrOutOfStock) {
		t.Fatalf("want ErrOutOfStock, got %v", err)
	}
	if got := len(s.Lines()); got != 0 {
		t.Fatalf("cart must stay empty, got %d lines", got)
	}
}

func TestAdd_InvalidQuantity(t *testing.T) {
	s := NewStore(newMemFiles(), nil)
	if _, err := s.Add(book(1, 10, 5), 0); err == nil {
		t.Fatalf("want validation error")
	}
}

func TestRemoveThenAdd_FreshCeiling(t *testing.T) {
	s := NewStore(newMemFiles(), nil)

	if _, err := s.Add(book(1, 10, 2), 2); err != nil {
		t.Fatal(err)
	}
	if err := s.Remove(1); err != nil {
		t.Fatal(err)
	}
	// stock grew since; the re-added line uses the fresh ceiling
	if _, err := s.Add(book(1, 10, 7), 6); err != nil {
		t.Fatalf("add after remove: %v", err)
	}
	l, ok := s.Line(1)
	if !ok || l.Quantity != 6 || l.StockCeiling != 7 {
		t.Fatalf("line: %+v ok=%v", l, ok)
	}
}

func TestRemove_AbsentIsNoop(t *testing.T) {
	s := NewStore(newMemFiles(), nil)
	if err := s.Remove(42); err != nil {
		t.Fatalf("remove absent: %v", err)
	}
}

func TestSetQuantity(t *testing.T) {
	s := NewStore(newMemFiles(), nil)
	if _, err := s.Add(book(1, 2.5, 5), 1); err != nil {
		t.Fatal(err)
	}

	if err := s.SetQuantity(1, 4); err != nil {
		t.Fatal(err)
	}
	if got := s.Count(); got != 4 {
		t.Fatalf("count: want 4, got %d", got)
	}
	if got := s.Total(); got != 10 {
		t.Fatalf("total: want 10, got %v", got)
	}

	// zero and below behave as remove
	if err := s.SetQuantity(1, 0); err != nil {
		t.Fatal(err)
	}
	if got := len(s.Lines()); got != 0 {
		t.Fatalf("want empty cart, got %d lines", got)
	}
}

func TestTotalEmptyCartIsZero(t *testing.T) {
	s := NewStore(newMemFiles(), nil)
	if got := s.Total(); got != 0 {
		t.Fatalf("empty total: got %v", got)
	}
}

func TestPersistAfterEveryMutation(t *testing.T) {
	files := newMemFiles()
	s := NewStore(files, nil)

	_, _ = s.Add(book(1, 1, 9), 1)
	_ = s.SetQuantity(1, 3)
	_ = s.Remove(1)
	if files.saves != 3 {
		t.Fatalf("want 3 snapshot writes, got %d", files.saves)
	}
}

func TestReloadFromDisk(t *testing.T) {
	dir := statefile.NewDir(t.TempDir())

	s := NewStore(dir, nil)
	if _, err := s.Add(book(7, 19.95, 3), 2); err != nil {
		t.Fatal(err)
	}

	// a fresh store over the same directory sees the last completed mutation
	s2 := NewStore(dir, nil)
	if got := s2.Count(); got != 2 {
		t.Fatalf("reloaded count: want 2, got %d", got)
	}
	l, ok := s2.Line(7)
	if !ok || l.UnitPrice != 19.95 || l.StockCeiling != 3 {
		t.Fatalf("reloaded line: %+v ok=%v", l, ok)
	}
}

func TestClearThenReloadIsEmpty(t *testing.T) {
	dir := statefile.NewDir(t.TempDir())

	s := NewStore(dir, nil)
	if _, err := s.Add(book(1, 1, 5), 1); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(); err != nil { // idempotent
		t.Fatal(err)
	}

	s2 := NewStore(dir, nil)
	if got := len(s2.Lines()); got != 0 {
		t.Fatalf("reload after clear: want empty, got %d lines", got)
	}
}
