package search

import (
	"fmt"
	"math"
	"testing"

	"github.com/Sergio973-web/buscador-mega/internal/domain/catalog"
)

func TestRankByHash(t *testing.T) {
	q := catalog.Hash{0x00, 0x00}
	items := buildItems(
		catalog.Attrs{ID: "far", Hash: catalog.Hash{0xff, 0x0f}},
		catalog.Attrs{ID: "nohash"},
		catalog.Attrs{ID: "exact", Hash: catalog.Hash{0x00, 0x00}},
		catalog.Attrs{ID: "short", Hash: catalog.Hash{0x00}},
		catalog.Attrs{ID: "near", Hash: catalog.Hash{0x01, 0x00}},
	)

	got := RankByHash(q, items, 10)
	if order := ids(got); fmt.Sprint(order) != "[exact near far nohash short]" {
		t.Fatalf("order = %v", order)
	}
	if got[1].Distance() != 1 || got[2].Distance() != 12 {
		t.Errorf("distances = %f, %f; want 1, 12", got[1].Distance(), got[2].Distance())
	}
	for _, c := range got[3:] {
		if !math.IsInf(c.Distance(), 1) || c.Comparable() {
			t.Errorf("%s: distance = %f, want +Inf", c.Item().ID(), c.Distance())
		}
	}
}

func TestRankByHash_TopK(t *testing.T) {
	attrs := make([]catalog.Attrs, 20)
	for i := range attrs {
		attrs[i] = catalog.Attrs{ID: fmt.Sprintf("%d", i), Hash: catalog.Hash{byte(i)}}
	}
	got := RankByHash(catalog.Hash{0}, buildItems(attrs...), DefaultHashTopK)
	if len(got) != DefaultHashTopK {
		t.Errorf("len = %d, want %d", len(got), DefaultHashTopK)
	}
	if got[0].Item().ID() != "0" {
		t.Errorf("best = %s, want 0", got[0].Item().ID())
	}
}
