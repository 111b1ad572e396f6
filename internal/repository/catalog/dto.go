package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	domcat "github.com/Sergio973-web/buscador-mega/internal/domain/catalog"
)

// itemDTO is the scraper's wire format. Producers disagree on the JSON types of
// id, precio and stock, so those are decoded leniently.
type itemDTO struct {
	ID          json.RawMessage `json:"id"`
	Title       string          `json:"titulo"`
	Provider    string          `json:"proveedor"`
	Price       json.RawMessage `json:"precio"`
	Stock       json.RawMessage `json:"stock"`
	Image       string          `json:"imagen"`
	URL         string          `json:"url"`
	Description string          `json:"descripcion"`
	ScrapedAt   string          `json:"fecha_scrapeo"`
	Embedding   []float32       `json:"embedding"`
	Hash        string          `json:"hash"`
}

// decodeFragment parses one fragment document: a JSON array of items.
func decodeFragment(data []byte) ([]itemDTO, error) {
	var items []itemDTO
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode fragment: %w", err)
	}
	return items, nil
}

// decodeIndex parses an index document: a JSON array of fragment locations.
func decodeIndex(data []byte) ([]string, error) {
	var locations []string
	if err := json.Unmarshal(data, &locations); err != nil {
		return nil, fmt.Errorf("decode index: %w", err)
	}
	out := locations[:0]
	for _, l := range locations {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out, nil
}

// attrs converts the DTO to domain attributes. An unparsable hash is dropped,
// leaving the item without a hash.
func (d *itemDTO) attrs() domcat.Attrs {
	h, err := domcat.ParseHash(d.Hash)
	if err != nil {
		h = nil
	}
	return domcat.Attrs{
		ID:          flexString(d.ID),
		Title:       d.Title,
		Provider:    d.Provider,
		Price:       flexString(d.Price),
		PriceValue:  numericPrice(d.Price),
		InStock:     flexBool(d.Stock),
		ImageURL:    d.Image,
		SourceURL:   d.URL,
		Description: d.Description,
		ScrapedAt:   d.ScrapedAt,
		Vector:      d.Embedding,
		Hash:        h,
	}
}

// flexString renders a JSON string or number as text; null and other kinds are empty.
func flexString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return string(raw)
	default:
		return ""
	}
}

// numericPrice returns the value of a JSON number price. Strings go through the
// locale rules instead, so they yield nil here.
func numericPrice(raw json.RawMessage) *float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || (raw[0] != '-' && (raw[0] < '0' || raw[0] > '9')) {
		return nil
	}
	d, err := decimal.NewFromString(string(raw))
	if err != nil {
		return nil
	}
	f, _ := d.Float64()
	return &f
}

// flexBool accepts true/false, non-zero numbers and affirmative strings.
func flexBool(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}
	switch raw[0] {
	case 't':
		return string(raw) == "true"
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "si", "sí", "true", "1", "yes", "disponible", "en stock":
			return true
		}
		return false
	default:
		n, err := strconv.ParseFloat(string(raw), 64)
		return err == nil && n != 0
	}
}
