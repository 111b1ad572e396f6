package search

import (
	"fmt"
	"math"
	"testing"

	"github.com/Sergio973-web/buscador-mega/internal/domain/catalog"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"scaled", []float32{1, 0}, []float32{5, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"empty", nil, []float32{1}, 0},
		{"dimension mismatch", []float32{1, 0}, []float32{1, 0, 0}, 0},
		{"zero norm", []float32{0, 0}, []float32{1, 1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CosineSimilarity = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestRankByVector_OrdersAndKeepsUnembedded(t *testing.T) {
	items := buildItems(
		catalog.Attrs{ID: "none"},
		catalog.Attrs{ID: "orth", Vector: []float32{0, 1}},
		catalog.Attrs{ID: "same", Vector: []float32{1, 0}},
		catalog.Attrs{ID: "near", Vector: []float32{1, 1}},
	)

	got := RankByVector([]float32{1, 0}, items, 10)
	if len(got) != 4 {
		t.Fatalf("expected 4 candidates, got %d", len(got))
	}
	if order := ids(got); fmt.Sprint(order) != "[same near none orth]" {
		t.Errorf("order = %v", order)
	}
	if got[0].Score() != 1 {
		t.Errorf("top score = %f, want 1", got[0].Score())
	}
	// cos(45°) rounded to four places
	if got[1].Score() != 0.7071 {
		t.Errorf("near score = %f, want 0.7071", got[1].Score())
	}
	if got[2].Score() != 0 {
		t.Errorf("unembedded score = %f, want 0", got[2].Score())
	}
}

func TestRankByVector_TopK(t *testing.T) {
	attrs := make([]catalog.Attrs, 15)
	for i := range attrs {
		attrs[i] = catalog.Attrs{ID: fmt.Sprintf("%d", i), Vector: []float32{1, float32(i)}}
	}
	got := RankByVector([]float32{1, 0}, buildItems(attrs...), 10)

	if len(got) != 10 {
		t.Fatalf("expected top 10, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Score() < got[i].Score() {
			t.Fatalf("not descending at %d: %f < %f", i, got[i-1].Score(), got[i].Score())
		}
	}
	if got[0].Item().ID() != "0" {
		t.Errorf("best = %s, want 0", got[0].Item().ID())
	}
}

func TestRankByVector_EmptyCatalog(t *testing.T) {
	if got := RankByVector([]float32{1}, nil, 10); len(got) != 0 {
		t.Errorf("expected no candidates, got %d", len(got))
	}
}
