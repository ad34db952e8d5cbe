package domain

// Product is one manufactured item. It lives either in an inventory
// (Price zero) or on a market grid cell (Price set).
type Product struct {
	ID       string   `json:"id"`
	Category Category `json:"category"`
	Value    int      `json:"value"`
	Cost     int      `json:"cost"`

	Popularity int    `json:"popularity"` // 1..6
	OwnerID    string `json:"owner_id"`
	Price      int    `json:"price,omitempty"`

	// Resale provenance. A product with PreviousOwner set is a resale item.
	PreviousOwner string `json:"previous_owner,omitempty"`
	PurchasePrice int    `json:"purchase_price,omitempty"`
}

// IsResale reports whether the product was bought from another seller.
func (p *Product) IsResale() bool {
	return p.PreviousOwner != ""
}

// NewProduct manufactures a product from a design for the given owner.
// Fresh products always start at popularity 1.
func NewProduct(id string, d Design, ownerID string) *Product {
	return &Product{
		ID:         id,
		Category:   d.Category,
		Value:      d.Value,
		Cost:       d.Cost,
		Popularity: 1,
		OwnerID:    ownerID,
	}
}
