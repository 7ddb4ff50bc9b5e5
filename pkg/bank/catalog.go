package bank

import "strings"

const (
	RegionUS = "US"
	RegionEU = "EU"
)

// Bank is a receiving or sending institution a user can pick from
type Bank struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Region string `json:"region"`
}

// Catalog is a read-only list of banks
type Catalog struct {
	banks []Bank
	byID  map[string]Bank
}

// NewCatalog builds a catalog from the given banks. Later duplicates of an id are ignored.
func NewCatalog(banks []Bank) *Catalog {
	c := &Catalog{byID: make(map[string]Bank, len(banks))}

	for _, b := range banks {
		id := strings.TrimSpace(b.ID)
		if id == "" {
			continue
		}
		if _, ok := c.byID[id]; ok {
			continue
		}
		b.ID = id
		c.byID[id] = b
		c.banks = append(c.banks, b)
	}

	return c
}

// Default returns the catalog of supported banks
func Default() *Catalog {
	return NewCatalog([]Bank{
		{ID: "chase", Name: "JPMorgan Chase", Region: RegionUS},
		{ID: "boa", Name: "Bank of America", Region: RegionUS},
		{ID: "wells", Name: "Wells Fargo", Region: RegionUS},
		{ID: "barclays", Name: "Barclays", Region: RegionEU},
		{ID: "hsbc", Name: "HSBC", Region: RegionEU},
		{ID: "deutsche", Name: "Deutsche Bank", Region: RegionEU},
		{ID: "bnp", Name: "BNP Paribas", Region: RegionEU},
		{ID: "santander", Name: "Santander", Region: RegionEU},
	})
}

// Lookup finds a bank by id
func (c *Catalog) Lookup(id string) (Bank, bool) {
	b, ok := c.byID[strings.TrimSpace(id)]
	return b, ok
}

// Contains reports whether id references a known bank
func (c *Catalog) Contains(id string) bool {
	_, ok := c.Lookup(id)
	return ok
}

// List returns a copy of the banks in catalog order
func (c *Catalog) List() []Bank {
	out := make([]Bank, len(c.banks))
	copy(out, c.banks)
	return out
}
