package timeseries

import (
	"math"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	s := New(values)

	if s.Len() != 5 {
		t.Errorf("Expected length 5, got %d", s.Len())
	}

	for i, v := range s.Values {
		if v != values[i] {
			t.Errorf("Expected value %f at index %d, got %f", values[i], i, v)
		}
	}

	if got := s.Timestamps[1].Sub(s.Timestamps[0]); got != 24*time.Hour {
		t.Errorf("Expected daily spacing, got %v", got)
	}
}

func TestNewWithTimestamps(t *testing.T) {
	ts := []time.Time{time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	if _, err := NewWithTimestamps(ts, []float64{1, 2}); err == nil {
		t.Error("Expected error for mismatched lengths")
	}
	s, err := NewWithTimestamps(ts, []float64{1})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("Expected length 1, got %d", s.Len())
	}
}

func TestMean(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{"simple", []float64{1, 2, 3, 4, 5}, 3.0},
		{"single", []float64{5}, 5.0},
		{"negative", []float64{-1, -2, -3}, -2.0},
		{"empty", []float64{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.values)
			if got := s.Mean(); math.Abs(got-tt.expected) > 1e-10 {
				t.Errorf("Mean() = %f, expected %f", got, tt.expected)
			}
		})
	}
}

func TestStd(t *testing.T) {
	s := New([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	// sample standard deviation
	expected := math.Sqrt(32.0 / 7.0)
	if got := s.Std(); math.Abs(got-expected) > 1e-10 {
		t.Errorf("Std() = %f, expected %f", got, expected)
	}

	if got := New([]float64{3}).Std(); got != 0 {
		t.Errorf("Std() of one value = %f, expected 0", got)
	}
}

func TestMinMax(t *testing.T) {
	s := New([]float64{3, -1, 7, 2})
	if s.Min() != -1 {
		t.Errorf("Min() = %f, expected -1", s.Min())
	}
	if s.Max() != 7 {
		t.Errorf("Max() = %f, expected 7", s.Max())
	}

	empty := New(nil)
	if !math.IsNaN(empty.Min()) || !math.IsNaN(empty.Max()) {
		t.Error("Expected NaN for empty series")
	}
}

func TestSlice(t *testing.T) {
	s := New([]float64{1, 2, 3, 4, 5})
	s.Name = "kpi"

	sliced := s.Slice(1, 4)
	if sliced.Len() != 3 {
		t.Errorf("Expected length 3, got %d", sliced.Len())
	}
	expected := []float64{2, 3, 4}
	for i, v := range expected {
		if sliced.Values[i] != v {
			t.Errorf("Slice value at %d: expected %f, got %f", i, v, sliced.Values[i])
		}
	}
	if !sliced.Timestamps[0].Equal(s.Timestamps[1]) {
		t.Error("Slice should keep the matching timestamps")
	}
	if sliced.Name != "kpi" {
		t.Errorf("Expected name to be kept, got %q", sliced.Name)
	}

	if got := s.Slice(4, 2).Len(); got != 0 {
		t.Errorf("Expected empty slice, got length %d", got)
	}
	if got := s.Slice(-3, 99).Len(); got != 5 {
		t.Errorf("Expected clamped slice of 5, got %d", got)
	}
}

func TestCopy(t *testing.T) {
	s := New([]float64{1, 2, 3})
	c := s.Copy()

	c.Values[0] = 100
	if s.Values[0] == 100 {
		t.Error("Copy should not share values with the original")
	}
	c.Timestamps[0] = time.Time{}
	if s.Timestamps[0].IsZero() {
		t.Error("Copy should not share timestamps with the original")
	}
}

func TestSum(t *testing.T) {
	a := New([]float64{1, 2, 3})
	b := New([]float64{10, 20, 30})
	b.Name = "tv"

	s, err := Sum("base", a, b)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	expected := []float64{11, 22, 33}
	for i, v := range expected {
		if s.Values[i] != v {
			t.Errorf("Sum value at %d: expected %f, got %f", i, v, s.Values[i])
		}
	}
	if s.Name != "base" {
		t.Errorf("Expected name base, got %q", s.Name)
	}
	if a.Values[0] != 1 {
		t.Error("Sum should not modify its inputs")
	}

	if _, err := Sum("base", a, New([]float64{1})); err == nil {
		t.Error("Expected error for mismatched lengths")
	}
	if _, err := Sum("base"); err == nil {
		t.Error("Expected error for no series")
	}
}
