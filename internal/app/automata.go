package app

import (
	"sort"

	"makerbazaar/internal/domain"
)

// ManufacturerOutcome summarizes one manufacturer automaton activation.
type ManufacturerOutcome struct {
	Roll     int             `json:"roll"`
	Band     string          `json:"band"`
	Produced *domain.Product `json:"produced,omitempty"`
	// ReviewedProductID is the product hit by the band's side review.
	ReviewedProductID string `json:"reviewed_product_id,omitempty"`
	RepricedCount     int    `json:"repriced_count,omitempty"`
}

// ResellerOutcome summarizes one reseller automaton activation.
type ResellerOutcome struct {
	Roll      int           `json:"roll"`
	Paused    bool          `json:"paused,omitempty"`
	Purchased []ClearedSale `json:"purchased,omitempty"`
	Funds     int           `json:"funds"`
}

// runManufacturer rolls the manufacturer's 2d6 band and applies it.
// The manufacturer has unbounded funds, so nothing is spent.
func (s *Service) runManufacturer(g *domain.Game) ManufacturerOutcome {
	roll := s.dice.Sum2D6()
	out := ManufacturerOutcome{Roll: roll}

	switch {
	case roll <= 4:
		out.Band = "premium"
		cost := s.dice.Between(3, 5)
		out.Produced = s.manufacturerRelease(g, cost, cost*3)
		if l, ok := highestPricedAcrossSellers(g); ok {
			shiftPopularity(l.grid, l.listing, -1)
			out.ReviewedProductID = l.listing.Product.ID
		}
	case roll <= 7:
		out.Band = "standard"
		out.Produced = s.manufacturerRelease(g, 3, 6)
	case roll <= 10:
		out.Band = "budget"
		cost := s.dice.Between(1, 3)
		out.Produced = s.manufacturerRelease(g, cost, cost*2)
		if l, ok := cheapestListing(&g.Manufacturer.Market); ok {
			shiftPopularity(&g.Manufacturer.Market, l, 1)
			out.ReviewedProductID = l.Product.ID
		}
	default:
		out.Band = "clearance"
		out.RepricedCount = clearanceReprice(&g.Manufacturer.Market)
	}
	return out
}

// manufacturerRelease rolls a design of the given cost, manufactures it and
// lists it. Returns nil when the target price row is full.
func (s *Service) manufacturerRelease(g *domain.Game, cost, price int) *domain.Product {
	category := domain.Categories[s.dice.Intn(len(domain.Categories))]
	value := 7 - cost // the cost mapping is its own inverse
	d := domain.NewDesign(category, value, false)
	product := domain.NewProduct(s.nextID(), d, domain.ManufacturerID)
	if price > domain.GridMaxPrice {
		price = domain.GridMaxPrice
	}
	if !placeInRow(&g.Manufacturer.Market, price, product) {
		return nil
	}
	return product
}

// placeInRow lists a product at the given price, probing popularity cells
// upward from the product's own popularity.
func placeInRow(grid *domain.Grid, price int, product *domain.Product) bool {
	for pop := product.Popularity; pop <= domain.GridMaxPopularity; pop++ {
		if grid.At(price, pop) == nil {
			return grid.Place(price, pop, product) == nil
		}
	}
	return false
}

// clearanceReprice lowers every listed price by 2 (floor 1), skipping
// products whose destination cell is taken. Low prices move first so a
// product never collides with one that has yet to move.
func clearanceReprice(grid *domain.Grid) int {
	moved := 0
	for _, l := range grid.Listings() {
		target := l.Price - 2
		if target < 1 {
			target = 1
		}
		if target == l.Price {
			continue
		}
		if grid.Move(l.Price, l.Popularity, target, l.Popularity) == nil {
			moved++
		}
	}
	return moved
}

// sellerListing is a listing joined with its owning grid and seller ID.
type sellerListing struct {
	sellerID string
	grid     *domain.Grid
	listing  domain.Listing
	seller   *domain.Player // nil for automata
}

// playerAndAutomataListings collects every listed product the reseller may
// buy: all player markets plus the manufacturer's. Order is deterministic.
func playerAndAutomataListings(g *domain.Game) []sellerListing {
	var out []sellerListing
	for _, p := range g.PlayersInOrder() {
		for _, l := range p.Market.Listings() {
			out = append(out, sellerListing{sellerID: p.UserID, grid: &p.Market, listing: l, seller: p})
		}
	}
	for _, l := range g.Manufacturer.Market.Listings() {
		out = append(out, sellerListing{sellerID: domain.ManufacturerID, grid: &g.Manufacturer.Market, listing: l})
	}
	return out
}

// highestPricedAcrossSellers finds the most expensive product listed on any
// market the manufacturer can review (players and the reseller).
func highestPricedAcrossSellers(g *domain.Game) (sellerListing, bool) {
	var best sellerListing
	found := false
	consider := func(sl sellerListing) {
		if !found || sl.listing.Price > best.listing.Price {
			best = sl
			found = true
		}
	}
	for _, p := range g.PlayersInOrder() {
		for _, l := range p.Market.Listings() {
			consider(sellerListing{sellerID: p.UserID, grid: &p.Market, listing: l, seller: p})
		}
	}
	for _, l := range g.Reseller.Market.Listings() {
		consider(sellerListing{sellerID: domain.ResellerID, grid: &g.Reseller.Market, listing: l})
	}
	return best, found
}

// runReseller rolls the reseller's 2d6 band and applies it. Regulation
// level 3 pauses the reseller entirely while the pause counter runs down.
func (s *Service) runReseller(g *domain.Game) ResellerOutcome {
	out := ResellerOutcome{Funds: g.Reseller.Funds}
	if g.RegulationLevel == 3 && g.Reseller.PausedRounds > 0 {
		g.Reseller.PausedRounds--
		out.Paused = true
		return out
	}

	roll := s.dice.Sum2D6()
	out.Roll = roll
	available := playerAndAutomataListings(g)

	switch {
	case roll <= 4:
		// Mass purchase of the cheapest listings, higher popularity first.
		limit := 3
		if g.RegulationLevel == 1 {
			limit = 2
		}
		sort.SliceStable(available, func(i, j int) bool {
			if available[i].listing.Price != available[j].listing.Price {
				return available[i].listing.Price < available[j].listing.Price
			}
			return available[i].listing.Popularity > available[j].listing.Popularity
		})
		for _, sl := range available {
			if len(out.Purchased) >= limit {
				break
			}
			if sale, ok := s.resellerBuy(g, sl); ok {
				out.Purchased = append(out.Purchased, sale)
			}
		}
	case roll == 5 || roll == 9:
		// Single pick: highest popularity, then lower price.
		sort.SliceStable(available, func(i, j int) bool {
			if available[i].listing.Popularity != available[j].listing.Popularity {
				return available[i].listing.Popularity > available[j].listing.Popularity
			}
			return available[i].listing.Price < available[j].listing.Price
		})
		if len(available) > 0 {
			if sale, ok := s.resellerBuy(g, available[0]); ok {
				out.Purchased = append(out.Purchased, sale)
			}
		}
	case roll >= 10:
		if len(available) > 0 {
			pick := available[s.dice.Intn(len(available))]
			if sale, ok := s.resellerBuy(g, pick); ok {
				out.Purchased = append(out.Purchased, sale)
			}
		}
	}

	out.Funds = g.Reseller.Funds
	return out
}

// resellerBuy purchases one listing for the reseller if funds allow, then
// relists it at purchase price +5 and raises the category's pollution.
func (s *Service) resellerBuy(g *domain.Game, sl sellerListing) (ClearedSale, bool) {
	price := sl.listing.Price
	if g.Reseller.Funds < price {
		return ClearedSale{}, false
	}

	product := sl.grid.Remove(sl.listing.Price, sl.listing.Popularity)
	if product == nil {
		return ClearedSale{}, false
	}
	g.Reseller.Funds -= price
	if sl.seller != nil {
		sl.seller.Funds += price
	}

	product.OwnerID = domain.ResellerID
	product.PreviousOwner = sl.sellerID
	product.PurchasePrice = price
	relist := price + 5
	if relist > domain.GridMaxPrice {
		relist = domain.GridMaxPrice
	}
	if !placeInRow(&g.Reseller.Market, relist, product) {
		// Grid row full; hold the item in the reseller inventory.
		g.Reseller.Inventory = append(g.Reseller.Inventory, product)
	}
	g.Pollution[product.Category]++

	return ClearedSale{
		SellerID:   sl.sellerID,
		ProductID:  product.ID,
		Price:      price,
		Popularity: sl.listing.Popularity,
	}, true
}
