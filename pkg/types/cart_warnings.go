package types

// CartItemWarnings carries display-only advisories attached to a cart item,
// e.g. a requested quantity above the currently available stock. Warnings never
// block a mutation.
type CartItemWarnings []string

// Add appends a warning, dropping duplicates.
func (w CartItemWarnings) Add(warning string) CartItemWarnings {
	for _, existing := range w {
		if existing == warning {
			return w
		}
	}
	return append(w, warning)
}
