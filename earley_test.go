package earley

import "testing"

func TestSpanBasics(t *testing.T) {
	s := NewSpan(2, 5)
	if s.From() != 2 || s.To() != 5 || s.Len() != 3 {
		t.Errorf("unexpected span accessors: %v", s)
	}
	if s.IsNull() {
		t.Error("expected non-empty span to not be null")
	}
	if !(Span{}).IsNull() {
		t.Error("expected the zero span to be null")
	}
}

func TestSpanExtend(t *testing.T) {
	a := NewSpan(2, 5)
	b := NewSpan(4, 9)
	got := a.Extend(b)
	if got.From() != 2 || got.To() != 9 {
		t.Errorf("expected extended span (2,9), got %v", got)
	}
}

func TestSpanString(t *testing.T) {
	if got := NewSpan(1, 3).String(); got != "(1…3)" {
		t.Errorf("unexpected string form: %q", got)
	}
}
