package models

import (
	"encoding/json"
	"testing"
)

func sequence() MonthlyValues {
	var v MonthlyValues
	for m := 1; m <= MonthsPerYear; m++ {
		v = v.With(m, float64(m))
	}
	return v
}

func TestSumThrough(t *testing.T) {
	v := sequence()
	for m := 1; m <= MonthsPerYear; m++ {
		want := float64(m*(m+1)) / 2
		if got := v.SumThrough(m); got != want {
			t.Errorf("SumThrough(%d) = %v, want %v", m, got, want)
		}
	}
	if got := v.Total(); got != 78 {
		t.Errorf("Total() = %v, want 78", got)
	}
	for _, m := range []int{0, 13, -1} {
		if got := v.SumThrough(m); got != 0 {
			t.Errorf("SumThrough(%d) = %v, want 0", m, got)
		}
	}
}

func TestWithDoesNotAlias(t *testing.T) {
	var v MonthlyValues
	w := v.With(3, 10)
	if v.At(3) != 0 {
		t.Errorf("With mutated receiver: %v", v)
	}
	if w.At(3) != 10 {
		t.Errorf("At(3) = %v, want 10", w.At(3))
	}
	if w.At(0) != 0 || w.At(13) != 0 {
		t.Errorf("out of range months should read as 0")
	}
}

func TestMonthlyValuesJSON(t *testing.T) {
	v := MonthlyValues{}.With(1, 1000).With(12, -5.5)
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var back MonthlyValues
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if back != v {
		t.Errorf("decoded %v, want %v", back, v)
	}

	var bad MonthlyValues
	if err := json.Unmarshal([]byte(`{"13": 1}`), &bad); err == nil {
		t.Errorf("expected error for month 13")
	}
}
