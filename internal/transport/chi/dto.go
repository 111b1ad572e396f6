package chi

import (
	"github.com/Sergio973-web/buscador-mega/internal/domain/catalog"
	"github.com/Sergio973-web/buscador-mega/internal/domain/search/mode"
	"github.com/Sergio973-web/buscador-mega/internal/domain/search/result"
	imagesearchuc "github.com/Sergio973-web/buscador-mega/internal/usecase/imagesearch"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type uploadRequest struct {
	Image string `json:"image"`
}

type uploadResponse struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

type healthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks"`
	Items   map[string]int    `json:"items,omitempty"`
}

// productResponse is a catalog item in the wire shape of the scraped catalog.
type productResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"titulo"`
	Provider    string   `json:"proveedor"`
	Price       string   `json:"precio"`
	PriceNum    *float64 `json:"precioNum"`
	InStock     bool     `json:"stock"`
	Image       string   `json:"imagen"`
	URL         string   `json:"url,omitempty"`
	Description string   `json:"descripcion,omitempty"`
	ScrapedAt   string   `json:"fecha_scrapeo,omitempty"`
	Score       float64  `json:"score"`
}

type searchResponse struct {
	Total   int               `json:"total"`
	Page    int               `json:"page"`
	PerPage int               `json:"perPage"`
	Results []productResponse `json:"results"`
}

type imageResult struct {
	ID          string   `json:"id"`
	Title       string   `json:"titulo"`
	Description string   `json:"descripcion"`
	Image       string   `json:"imagen"`
	Price       string   `json:"precio"`
	Provider    string   `json:"proveedor"`
	URL         string   `json:"url"`
	ScrapedAt   string   `json:"fecha_scrapeo"`
	InStock     bool     `json:"stock"`
	Score       *float64 `json:"score,omitempty"`
	Distance    *float64 `json:"distance,omitempty"`
}

type imageSearchResponse struct {
	OK      bool          `json:"ok"`
	Total   int           `json:"total"`
	Results []imageResult `json:"resultados"`
}

func pageToResponse(p result.Page) searchResponse {
	items := make([]productResponse, len(p.Results))
	for i := range p.Results {
		c := &p.Results[i]
		items[i] = productToResponse(c.Item(), c.Score())
	}
	return searchResponse{Total: p.Total, Page: p.Page, PerPage: p.PerPage, Results: items}
}

func productToResponse(it *catalog.Item, score float64) productResponse {
	resp := productResponse{
		ID:          it.ID(),
		Title:       it.Title(),
		Provider:    it.Provider(),
		Price:       it.PriceRaw(),
		InStock:     it.InStock(),
		Image:       it.ImageURL(),
		URL:         it.SourceURL(),
		Description: it.Description(),
		ScrapedAt:   it.ScrapedAt(),
		Score:       score,
	}
	if p, ok := it.Price(); ok {
		resp.PriceNum = &p
	}
	return resp
}

// imageResults maps ranked candidates. Vector candidates carry a score; hash
// candidates carry a distance, omitted when there was no hash to compare.
func imageResults(res imagesearchuc.Result) []imageResult {
	out := make([]imageResult, len(res.Candidates))
	for i := range res.Candidates {
		c := &res.Candidates[i]
		it := c.Item()
		r := imageResult{
			ID:          it.ID(),
			Title:       it.Title(),
			Description: it.Description(),
			Image:       it.ImageURL(),
			Price:       it.PriceRaw(),
			Provider:    it.Provider(),
			URL:         it.SourceURL(),
			ScrapedAt:   it.ScrapedAt(),
			InStock:     it.InStock(),
		}
		switch {
		case res.Strategy != mode.PerceptualHash:
			score := c.Score()
			r.Score = &score
		case c.Comparable():
			d := c.Distance()
			r.Distance = &d
		}
		out[i] = r
	}
	return out
}
