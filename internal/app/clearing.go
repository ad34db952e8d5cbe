package app

import (
	"sort"

	"makerbazaar/internal/domain"
)

// clearedPurchaseLimit caps how many products sell per market phase.
const clearedPurchaseLimit = 5

// clearMarket resolves one market phase: rolls the round's demand value,
// matches listed products by manufacturing cost and sells the top five by
// popularity (price breaks ties). Sellers are paid; sold products leave
// the simulation.
func (s *Service) clearMarket(g *domain.Game) (int, []ClearedSale) {
	demand := s.dice.Sum2D6()

	var candidates []sellerListing
	for _, sl := range playerAndAutomataListings(g) {
		if domain.MatchesDemand(sl.listing.Product.Cost, demand) {
			candidates = append(candidates, sl)
		}
	}
	for _, l := range g.Reseller.Market.Listings() {
		if domain.MatchesDemand(l.Product.Cost, demand) {
			candidates = append(candidates, sellerListing{
				sellerID: domain.ResellerID,
				grid:     &g.Reseller.Market,
				listing:  l,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].listing.Popularity != candidates[j].listing.Popularity {
			return candidates[i].listing.Popularity > candidates[j].listing.Popularity
		}
		return candidates[i].listing.Price < candidates[j].listing.Price
	})

	var cleared []ClearedSale
	for _, sl := range candidates {
		if len(cleared) >= clearedPurchaseLimit {
			break
		}
		product := sl.grid.Remove(sl.listing.Price, sl.listing.Popularity)
		if product == nil {
			continue
		}
		switch {
		case sl.seller != nil:
			sl.seller.Funds += sl.listing.Price
		case sl.sellerID == domain.ResellerID:
			g.Reseller.Funds += sl.listing.Price
		}
		// Manufacturer proceeds are not tracked; its funds are unbounded.
		cleared = append(cleared, ClearedSale{
			SellerID:   sl.sellerID,
			ProductID:  product.ID,
			Price:      sl.listing.Price,
			Popularity: sl.listing.Popularity,
		})
	}
	return demand, cleared
}
