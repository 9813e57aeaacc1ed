package domain

// CarCatalog maps rentable car ids to display names. Read-only for the
// process lifetime; injected rather than accessed as a package global so
// services can swap it in tests.
type CarCatalog map[string]string

func DefaultCarCatalog() CarCatalog {
	return CarCatalog{
		"car-1": "Toyota Corolla",
		"car-2": "VW Golf",
	}
}

func (c CarCatalog) Has(carID string) bool {
	_, ok := c[carID]
	return ok
}

// Name returns the display name, or "" for an unknown id.
func (c CarCatalog) Name(carID string) string {
	return c[carID]
}
