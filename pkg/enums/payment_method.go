package enums

// PaymentMethod enumerates supported payment modes. Cash on delivery is the
// only mode the storefront accepts.
type PaymentMethod string

const (
	PaymentMethodCOD PaymentMethod = "cod"
)

// String implements fmt.Stringer.
func (m PaymentMethod) String() string {
	return string(m)
}

// IsValid reports whether the value is a known PaymentMethod.
func (m PaymentMethod) IsValid() bool {
	return m == PaymentMethodCOD
}
