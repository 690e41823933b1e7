package matrix

import "testing"

func TestSetAndValue(t *testing.T) {
	m := New(2, 2)
	m.Set(0, 1, 5)
	if got := m.Value(0, 1); got != 5 {
		t.Errorf("expected 5, got %d", got)
	}
	if got := m.Value(1, 0); got != 0 {
		t.Errorf("expected unset cell to read 0, got %d", got)
	}
}

func TestAddAccumulates(t *testing.T) {
	m := New(1, 1)
	m.Add(0, 0, 1)
	m.Add(0, 0, 2)
	if got := m.Value(0, 0); got != 3 {
		t.Errorf("expected accumulated 3, got %d", got)
	}
}

func TestGrowsBeyondInitialSize(t *testing.T) {
	m := New(1, 1)
	m.Set(4, 7, 9)
	if m.M() < 5 || m.N() < 8 {
		t.Errorf("expected dimensions to grow to cover (4,7), got M=%d N=%d", m.M(), m.N())
	}
	if got := m.Value(4, 7); got != 9 {
		t.Errorf("expected 9 at (4,7), got %d", got)
	}
}

func TestValueCountCountsOnlyStoredCells(t *testing.T) {
	m := New(3, 3)
	if m.ValueCount() != 0 {
		t.Errorf("expected 0 stored cells initially, got %d", m.ValueCount())
	}
	m.Set(0, 0, 1)
	m.Set(1, 1, 1)
	m.Set(0, 0, 2) // overwrite, not a new cell
	if m.ValueCount() != 2 {
		t.Errorf("expected 2 stored cells, got %d", m.ValueCount())
	}
}
