package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/Sergio973-web/buscador-mega/internal/domain/search/result"
)

type row struct {
	ID       string   `json:"id"`
	Title    string   `json:"titulo"`
	Provider string   `json:"proveedor"`
	Price    *float64 `json:"precioNum"`
	InStock  bool     `json:"stock"`
	Score    float64  `json:"score"`
	Distance *float64 `json:"distance,omitempty"`
}

func toRow(c *result.Candidate) row {
	it := c.Item()
	r := row{ID: it.ID(), Title: it.Title(), Provider: it.Provider(), InStock: it.InStock(), Score: c.Score()}
	if p, ok := it.Price(); ok {
		r.Price = &p
	}
	return r
}

func printPage(w io.Writer, asJSON bool, p result.Page) error {
	rows := make([]row, len(p.Results))
	for i := range p.Results {
		rows[i] = toRow(&p.Results[i])
	}
	if asJSON {
		return writeJSON(w, map[string]any{
			"total":   p.Total,
			"page":    p.Page,
			"perPage": p.PerPage,
			"results": rows,
		})
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tPROVIDER\tPRICE\tSTOCK\tSCORE")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.2f\n",
			r.ID, r.Title, r.Provider, formatPrice(r.Price), yesNo(r.InStock), r.Score)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush table: %w", err)
	}
	_, err := fmt.Fprintf(w, "\n%d results, page %d of %d\n", p.Total, p.Page, pages(p.Total, p.PerPage))
	return err //nolint:wrapcheck // terminal write
}

func printCandidates(w io.Writer, asJSON bool, cands []result.Candidate) error {
	rows := make([]row, len(cands))
	for i := range cands {
		rows[i] = toRow(&cands[i])
		if cands[i].Comparable() {
			d := cands[i].Distance()
			rows[i].Distance = &d
		}
	}
	if asJSON {
		return writeJSON(w, rows)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tPROVIDER\tPRICE\tDISTANCE")
	for _, r := range rows {
		dist := "-"
		if r.Distance != nil {
			dist = fmt.Sprintf("%.0f", *r.Distance)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Title, r.Provider, formatPrice(r.Price), dist)
	}
	return tw.Flush() //nolint:wrapcheck // terminal write
}

func printProviders(w io.Writer, asJSON bool, providers []string) error {
	if providers == nil {
		providers = []string{}
	}
	if asJSON {
		return writeJSON(w, providers)
	}
	for _, p := range providers {
		if _, err := fmt.Fprintln(w, p); err != nil {
			return fmt.Errorf("write provider: %w", err)
		}
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func formatPrice(p *float64) string {
	if p == nil {
		return "-"
	}
	return "$" + decimal.NewFromFloat(*p).StringFixed(2)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func pages(total, perPage int) int {
	if perPage <= 0 || total == 0 {
		return 1
	}
	return (total + perPage - 1) / perPage
}
