package types

import "strings"

// ShippingAddress is the address snapshot captured from the checkout form and
// stored on orders as jsonb. The same value is used for shipping and billing.
type ShippingAddress struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
}

// IsComplete reports whether every required field carries a non-blank value.
func (a ShippingAddress) IsComplete() bool {
	for _, field := range []string{a.FullName, a.Phone, a.Address, a.City, a.State, a.Pincode} {
		if strings.TrimSpace(field) == "" {
			return false
		}
	}
	return true
}
