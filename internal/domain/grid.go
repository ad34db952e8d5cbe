package domain

import "errors"

// Grid dimensions. Prices run 1..GridMaxPrice, popularity 1..GridMaxPopularity.
const (
	GridMaxPrice      = 20
	GridMaxPopularity = 6
)

// ErrCellOutOfRange indicates a price/popularity pair outside the grid.
var ErrCellOutOfRange = errors.New("market cell out of range")

// ErrCellOccupied indicates the target cell already holds a product.
var ErrCellOccupied = errors.New("market cell already occupied")

// Grid is a personal market: a fixed price x popularity matrix holding at
// most one product per cell. The zero value is an empty market.
type Grid [GridMaxPrice][GridMaxPopularity]*Product

// Listing pairs a product with the cell it occupies.
type Listing struct {
	Price      int
	Popularity int
	Product    *Product
}

// InRange reports whether the 1-based cell coordinates are valid.
func InRange(price, popularity int) bool {
	return price >= 1 && price <= GridMaxPrice && popularity >= 1 && popularity <= GridMaxPopularity
}

// At returns the product at a cell, or nil when empty or out of range.
func (g *Grid) At(price, popularity int) *Product {
	if !InRange(price, popularity) {
		return nil
	}
	return g[price-1][popularity-1]
}

// Place puts a product on an empty cell and stamps its listed price.
func (g *Grid) Place(price, popularity int, p *Product) error {
	if !InRange(price, popularity) {
		return ErrCellOutOfRange
	}
	if g[price-1][popularity-1] != nil {
		return ErrCellOccupied
	}
	p.Price = price
	p.Popularity = popularity
	g[price-1][popularity-1] = p
	return nil
}

// Remove clears a cell and returns the product that occupied it, resetting
// its listed price. Returns nil when the cell was empty or out of range.
func (g *Grid) Remove(price, popularity int) *Product {
	if !InRange(price, popularity) {
		return nil
	}
	p := g[price-1][popularity-1]
	if p != nil {
		g[price-1][popularity-1] = nil
		p.Price = 0
	}
	return p
}

// Move relocates a product between cells, failing if the destination is taken.
func (g *Grid) Move(fromPrice, fromPop, toPrice, toPop int) error {
	if !InRange(fromPrice, fromPop) || !InRange(toPrice, toPop) {
		return ErrCellOutOfRange
	}
	if fromPrice == toPrice && fromPop == toPop {
		return nil
	}
	p := g[fromPrice-1][fromPop-1]
	if p == nil {
		return ErrCellOutOfRange
	}
	if g[toPrice-1][toPop-1] != nil {
		return ErrCellOccupied
	}
	g[fromPrice-1][fromPop-1] = nil
	p.Price = toPrice
	p.Popularity = toPop
	g[toPrice-1][toPop-1] = p
	return nil
}

// Listings returns every occupied cell in deterministic order
// (price ascending, popularity ascending).
func (g *Grid) Listings() []Listing {
	var out []Listing
	for pi := 0; pi < GridMaxPrice; pi++ {
		for qi := 0; qi < GridMaxPopularity; qi++ {
			if p := g[pi][qi]; p != nil {
				out = append(out, Listing{Price: pi + 1, Popularity: qi + 1, Product: p})
			}
		}
	}
	return out
}

// Find locates a product by ID.
func (g *Grid) Find(productID string) (Listing, bool) {
	for pi := 0; pi < GridMaxPrice; pi++ {
		for qi := 0; qi < GridMaxPopularity; qi++ {
			if p := g[pi][qi]; p != nil && p.ID == productID {
				return Listing{Price: pi + 1, Popularity: qi + 1, Product: p}, true
			}
		}
	}
	return Listing{}, false
}

// Count returns the number of listed products.
func (g *Grid) Count() int {
	n := 0
	for pi := 0; pi < GridMaxPrice; pi++ {
		for qi := 0; qi < GridMaxPopularity; qi++ {
			if g[pi][qi] != nil {
				n++
			}
		}
	}
	return n
}
