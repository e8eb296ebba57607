package points

import "testing"

func TestLookupFoldsCaseAndSpace(t *testing.T) {
	s, err := New(map[string]float64{
		"5 - Excellent": 5,
		"1 - Poor":      1,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, text := range []string{"5 - Excellent", "5 - excellent", "  5 -  EXCELLENT "} {
		v, ok := s.Lookup(text)
		if !ok || v != 5 {
			t.Errorf("Lookup(%q) = %v, %v; want 5, true", text, v, ok)
		}
	}
	if _, ok := s.Lookup("5"); ok {
		t.Errorf("Lookup(5) ok = true; want false")
	}
}

func TestNewRejectsConflicts(t *testing.T) {
	_, err := New(map[string]float64{"Good": 4, "good": 3})
	if err == nil {
		t.Fatalf("want error for conflicting spellings")
	}
	if _, err := New(map[string]float64{" ": 1}); err == nil {
		t.Fatalf("want error for blank rating text")
	}
}
