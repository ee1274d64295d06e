package cache

import (
	"errors"
	"fmt"
	"testing"
)

func kilobytes(n int) []byte {
	return make([]byte, n*1024)
}

func TestSetAndGet(t *testing.T) {
	c := New[string, []byte](1<<20, nil)

	c.Set("a", kilobytes(1))

	got, err := c.Get("a")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(got) != 1024 {
		t.Errorf("Expected 1024 bytes, got %d", len(got))
	}
}

func TestGetMissWithoutFactory(t *testing.T) {
	c := New[string, []byte](1<<20, nil)

	_, err := c.Get("missing")
	if !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Expected ErrKeyNotFound, got %v", err)
	}
}

func TestGetMissWithFactory(t *testing.T) {
	calls := 0
	c := New[string, []byte](1<<20, func() []byte {
		calls++
		return kilobytes(2)
	})

	got, err := c.Get("fresh")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(got) != 2048 {
		t.Errorf("Expected factory value, got %d bytes", len(got))
	}
	if calls != 1 {
		t.Errorf("Expected 1 factory call, got %d", calls)
	}

	// Second Get hits the inserted value, no new construction.
	if _, err := c.Get("fresh"); err != nil {
		t.Fatalf("Expected hit, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected factory not called again, got %d calls", calls)
	}
}

func TestCullEvictsOldest(t *testing.T) {
	// Budget fits roughly two 4 KiB entries.
	c := New[string, []byte](9*1024, nil)

	c.Set("first", kilobytes(4))
	c.Set("second", kilobytes(4))
	c.Set("third", kilobytes(4))

	if c.Contains("first") {
		t.Error("Expected LRU entry 'first' to be evicted")
	}
	if !c.Contains("second") || !c.Contains("third") {
		t.Error("Expected newer entries to survive the cull")
	}
}

func TestBudgetRespectedAcrossOperations(t *testing.T) {
	maxSize := int64(10 * 1024)
	c := New[string, []byte](maxSize, nil)

	for i := 0; i < 20; i++ {
		c.Set(fmt.Sprintf("k%d", i), kilobytes(3))
		if c.Len() > 1 && c.EstimatedSize() > maxSize {
			t.Fatalf("Budget exceeded with %d entries at step %d: %d > %d",
				c.Len(), i, c.EstimatedSize(), maxSize)
		}
	}
}

func TestGetPromotesToMRU(t *testing.T) {
	c := New[string, []byte](9*1024, nil)

	c.Set("a", kilobytes(4))
	c.Set("b", kilobytes(4))

	// Touch "a" so "b" becomes the eviction candidate.
	if _, err := c.Get("a"); err != nil {
		t.Fatalf("Expected hit, got %v", err)
	}

	c.Set("c", kilobytes(4))

	if !c.Contains("a") {
		t.Error("Promoted entry 'a' should not be evicted before 'b'")
	}
	if c.Contains("b") {
		t.Error("Unaccessed entry 'b' should be evicted first")
	}
}

func TestSoleOversizedEntrySurvives(t *testing.T) {
	c := New[string, []byte](1024, nil)

	c.Set("huge", kilobytes(64))

	if c.Len() != 1 {
		t.Errorf("Sole entry must never be evicted, got %d entries", c.Len())
	}
	if _, err := c.Get("huge"); err != nil {
		t.Errorf("Expected oversized sole entry to remain readable, got %v", err)
	}
}

func TestUpdateMergesThenCulls(t *testing.T) {
	c := New[string, []byte](9*1024, nil)
	c.Set("a", kilobytes(4))

	c.Update(map[string][]byte{
		"b": kilobytes(4),
		"c": kilobytes(4),
	})

	if c.Len() > 2 {
		t.Errorf("Expected cull after bulk merge, got %d entries", c.Len())
	}
	if !c.Contains("b") && !c.Contains("c") {
		t.Error("Expected merged entries to be retained over older ones")
	}
}

func TestClear(t *testing.T) {
	c := New[string, []byte](1<<20, nil)
	c.Set("a", kilobytes(1))
	c.Set("b", kilobytes(1))

	c.Clear()

	if c.Len() != 0 {
		t.Errorf("Expected empty cache after Clear, got %d entries", c.Len())
	}
	if _, err := c.Get("a"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Expected ErrKeyNotFound after Clear, got %v", err)
	}
}

func TestOverwriteMovesToMRU(t *testing.T) {
	c := New[string, []byte](9*1024, nil)

	c.Set("a", kilobytes(4))
	c.Set("b", kilobytes(4))
	c.Set("a", kilobytes(4)) // overwrite promotes "a"
	c.Set("c", kilobytes(4))

	if c.Contains("b") {
		t.Error("Expected 'b' evicted as LRU after 'a' was overwritten")
	}
	if !c.Contains("a") {
		t.Error("Expected overwritten 'a' to survive")
	}
}
