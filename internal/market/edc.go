package market

// Normalizer canonicalises Electric Distribution Company names across
// sources that spell the same entity differently, and maps canonical names
// to their PJM wholesale zone. The tables are fixed at construction and
// never mutated afterwards.
type Normalizer struct {
	canonical map[string]string
	zones     map[string]string
}

// NewNormalizer builds the default Pennsylvania EDC tables.
func NewNormalizer() *Normalizer {
	return &Normalizer{
		canonical: map[string]string{
			"Met-Ed":                      "Met Ed",
			"Met Ed":                      "Met Ed",
			"Pike County Light":           "Pike County Light and Power",
			"Pike County Light and Power": "Pike County Light and Power",
		},
		zones: map[string]string{
			"West Penn Power":             "APS",
			"Duquesne Light":              "DUQ",
			"Met Ed":                      "METED",
			"PECO Energy":                 "PECO",
			"Penelec":                     "PENELEC",
			"PPL Electric Utilities":      "PPL",
			"Pike County Light and Power": "PPL",
		},
	}
}

// Normalize returns the canonical spelling for a raw EDC name. Unknown
// names pass through unchanged; the function is idempotent.
func (n *Normalizer) Normalize(raw string) string {
	if canonical, ok := n.canonical[raw]; ok {
		return canonical
	}
	return raw
}

// ZoneFor resolves a canonical EDC name to its PJM zone code.
func (n *Normalizer) ZoneFor(edc string) (string, bool) {
	zone, ok := n.zones[n.Normalize(edc)]
	return zone, ok
}

// EDCs lists every canonical name with a known wholesale zone.
func (n *Normalizer) EDCs() []string {
	names := make([]string, 0, len(n.zones))
	for name := range n.zones {
		names = append(names, name)
	}
	return names
}
