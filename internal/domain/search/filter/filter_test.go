package filter

import (
	"testing"

	"github.com/Sergio973-web/buscador-mega/internal/domain/catalog"
)

func floatPtr(f float64) *float64 { return &f }

func item(provider, price string) catalog.Item {
	return catalog.NewItem(catalog.Attrs{Title: "x", Provider: provider, Price: price}, 0)
}

func TestFilter_Empty(t *testing.T) {
	f := New(nil, nil, nil)
	if !f.IsEmpty() {
		t.Fatal("expected empty filter")
	}
	it := item("", "")
	if !f.Matches(&it) {
		t.Error("empty filter must match everything")
	}
}

func TestFilter_BlankProvidersIgnored(t *testing.T) {
	f := New([]string{"", "  "}, nil, nil)
	if !f.IsEmpty() {
		t.Errorf("blank providers should not enable the filter, got %v", f.Providers())
	}
}

func TestFilter_Providers(t *testing.T) {
	f := New([]string{"Proveedor A", " Proveedor C "}, nil, nil)

	tests := []struct {
		provider string
		want     bool
	}{
		{"Proveedor A", true},
		{"Proveedor A ", true},
		{"Proveedor C", true},
		{"Proveedor B", false},
		{"", false},
	}
	for _, tc := range tests {
		t.Run(tc.provider, func(t *testing.T) {
			it := item(tc.provider, "")
			if got := f.Matches(&it); got != tc.want {
				t.Errorf("Matches(%q) = %v, want %v", tc.provider, got, tc.want)
			}
		})
	}
}

func TestFilter_PriceBounds(t *testing.T) {
	tests := []struct {
		name     string
		min, max *float64
		price    string
		want     bool
	}{
		{"no bounds, no price", nil, nil, "", true},
		{"min, no price", floatPtr(10), nil, "", false},
		{"max, no price", nil, floatPtr(10), "", false},
		{"min inclusive", floatPtr(1250.5), nil, "$1.250,50", true},
		{"below min", floatPtr(1300), nil, "$1.250,50", false},
		{"max inclusive", nil, floatPtr(1250.5), "$1.250,50", true},
		{"above max", nil, floatPtr(1000), "$1.250,50", false},
		{"inside range", floatPtr(1000), floatPtr(2000), "1.500", true},
		{"unparsable", floatPtr(0), nil, "consultar", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := New(nil, tc.min, tc.max)
			it := item("", tc.price)
			if got := f.Matches(&it); got != tc.want {
				t.Errorf("Matches = %v, want %v", got, tc.want)
			}
		})
	}
}
