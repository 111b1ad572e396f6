package mode

// Mode is the ranking strategy, selected by the shape of the query.
type Mode string

// Ranking strategies.
const (
	// Text combines exact and fuzzy title matching.
	Text Mode = "text"
	// Vector ranks by cosine similarity of embeddings.
	Vector Mode = "vector"
	// PerceptualHash ranks by Hamming distance of image hashes.
	PerceptualHash Mode = "hash"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Text || m == Vector || m == PerceptualHash
}

// Parse maps a user-supplied strategy name to a Mode, defaulting to fallback.
func Parse(s string, fallback Mode) Mode {
	m := Mode(s)
	if m.IsValid() {
		return m
	}
	return fallback
}
