package main

import (
	"testing"

	"github.com/san-kum/takens/internal/optim"
)

func TestTopResults(t *testing.T) {
	results := make([]optim.Result, 3)

	tests := []struct {
		n    int
		want int
	}{
		{-1, 0},
		{0, 0},
		{2, 2},
		{3, 3},
		{10, 3},
	}
	for _, tt := range tests {
		if got := len(topResults(results, tt.n)); got != tt.want {
			t.Errorf("top %d: expected %d results, got %d", tt.n, tt.want, got)
		}
	}

	if got := topResults(nil, 5); len(got) != 0 {
		t.Errorf("expected no results from an empty sweep, got %d", len(got))
	}
}
