package catalog

import "strconv"

// Attrs carries the raw fields of a catalog item as read from a fragment.
type Attrs struct {
	ID          string
	Title       string
	Provider    string
	Price       string
	// PriceValue is set when the source already carries a number; it takes
	// precedence over parsing Price.
	PriceValue  *float64
	InStock     bool
	ImageURL    string
	SourceURL   string
	Description string
	ScrapedAt   string
	Vector      []float32
	Hash        Hash
}

// Item is a catalog entry (immutable value object).
// The numeric price is derived once, from the raw locale string unless the source
// supplied a number.
type Item struct {
	id          string
	position    int
	title       string
	provider    string
	priceRaw    string
	price       float64
	hasPrice    bool
	inStock     bool
	imageURL    string
	sourceURL   string
	description string
	scrapedAt   string
	vector      []float32
	hash        Hash
}

// NewItem builds an Item. position is the item's index in the merged snapshot and
// serves as its identity when the source carries no id.
func NewItem(a Attrs, position int) Item {
	price, ok := ParsePrice(a.Price)
	if a.PriceValue != nil {
		price, ok = *a.PriceValue, true
	}
	return Item{
		id:          a.ID,
		position:    position,
		title:       a.Title,
		provider:    a.Provider,
		priceRaw:    a.Price,
		price:       price,
		hasPrice:    ok,
		inStock:     a.InStock,
		imageURL:    a.ImageURL,
		sourceURL:   a.SourceURL,
		description: a.Description,
		scrapedAt:   a.ScrapedAt,
		vector:      a.Vector,
		hash:        a.Hash,
	}
}

// ID returns the source identifier (may be empty).
func (i *Item) ID() string { return i.id }

// Key returns a stable identity: the id when present, otherwise the position.
func (i *Item) Key() string {
	if i.id != "" {
		return i.id
	}
	return "#" + strconv.Itoa(i.position)
}

// Position returns the index of the item in its snapshot.
func (i *Item) Position() int { return i.position }

// Title returns the display title.
func (i *Item) Title() string { return i.title }

// Provider returns the supplier name (may be empty).
func (i *Item) Provider() string { return i.provider }

// PriceRaw returns the price as written by the supplier.
func (i *Item) PriceRaw() string { return i.priceRaw }

// Price returns the parsed price and whether parsing succeeded.
func (i *Item) Price() (float64, bool) { return i.price, i.hasPrice }

// InStock reports the stock flag.
func (i *Item) InStock() bool { return i.inStock }

// ImageURL returns the product image URL.
func (i *Item) ImageURL() string { return i.imageURL }

// SourceURL returns the product page URL.
func (i *Item) SourceURL() string { return i.sourceURL }

// Description returns the supplier description.
func (i *Item) Description() string { return i.description }

// ScrapedAt returns the scrape timestamp as published by the source.
func (i *Item) ScrapedAt() string { return i.scrapedAt }

// Vector returns the precomputed embedding.
func (i *Item) Vector() []float32 { return i.vector }

// Hash returns the precomputed perceptual hash.
func (i *Item) Hash() Hash { return i.hash }

// HasVector reports whether the item can take part in vector ranking.
func (i *Item) HasVector() bool { return len(i.vector) > 0 }

// HasHash reports whether the item can take part in hash ranking.
func (i *Item) HasHash() bool { return len(i.hash) > 0 }
