package app

import (
	"fmt"

	"makerbazaar/internal/domain"
)

func (s *Service) applyManufacture(g *domain.Game, p *domain.Player, a Manufacture) (any, error) {
	d := p.DesignAt(a.Slot)
	if d == nil {
		return nil, fmt.Errorf("%w: no design in slot %d", ErrEntityNotFound, a.Slot)
	}
	if p.Funds < d.Cost {
		return nil, ErrInsufficientFunds
	}

	p.Funds -= d.Cost
	product := domain.NewProduct(s.nextID(), *d, p.UserID)
	p.Inventory = append(p.Inventory, product)
	return ManufactureDetail{Product: product, Funds: p.Funds}, nil
}

func (s *Service) applySell(g *domain.Game, p *domain.Player, a Sell) (any, error) {
	product := p.InventoryProduct(a.ProductID)
	if product == nil {
		return nil, fmt.Errorf("%w: product %s not in inventory", ErrEntityNotFound, a.ProductID)
	}
	if product.IsResale() {
		return nil, fmt.Errorf("%w: purchased products must be listed through resale", ErrPreconditionFailed)
	}
	pollution := g.PollutionLevel(product.Category)
	if pollution >= domain.PollutionSellCeiling {
		return nil, fmt.Errorf("%w: %s pollution too high to sell", ErrPreconditionFailed, product.Category)
	}
	limit := domain.PriceLimit(p.Prestige, product.Cost)
	if a.Price < 1 || a.Price > limit {
		return nil, fmt.Errorf("%w: price %d outside prestige limit %d", ErrPreconditionFailed, a.Price, limit)
	}

	penalty := domain.PollutionPenalty(pollution)
	listed := a.Price - penalty
	if listed < 1 {
		listed = 1
	}
	if listed > domain.GridMaxPrice {
		return nil, fmt.Errorf("%w: price %d beyond market grid", ErrPreconditionFailed, listed)
	}
	if p.Market.At(listed, product.Popularity) != nil {
		return nil, ErrSlotOccupied
	}

	p.RemoveFromInventory(product.ID)
	if err := p.Market.Place(listed, product.Popularity, product); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	return SellDetail{
		ProductID:   product.ID,
		AskedPrice:  a.Price,
		ListedPrice: listed,
		Popularity:  product.Popularity,
		Penalty:     penalty,
	}, nil
}

func (s *Service) applyPurchase(g *domain.Game, buyer *domain.Player, a Purchase) (any, error) {
	if a.SellerID == buyer.UserID {
		return nil, fmt.Errorf("%w: cannot purchase from own market", ErrPreconditionFailed)
	}
	grid, seller, err := s.sellerGrid(g, a.SellerID)
	if err != nil {
		return nil, err
	}
	product := grid.At(a.Price, a.Popularity)
	if product == nil {
		return nil, fmt.Errorf("%w: no product at %d/%d", ErrEntityNotFound, a.Price, a.Popularity)
	}
	price := product.Price
	if buyer.Funds < price {
		return nil, ErrInsufficientFunds
	}

	buyer.Funds -= price
	switch {
	case seller != nil:
		seller.Funds += price
		seller.AddPrestige(-1)
	case a.SellerID == domain.ResellerID:
		g.Reseller.Funds += price
	}
	// Manufacturer proceeds are not tracked; its funds are unbounded.
	grid.Remove(a.Price, a.Popularity)
	product.OwnerID = buyer.UserID
	product.PreviousOwner = a.SellerID
	product.PurchasePrice = price
	buyer.Inventory = append(buyer.Inventory, product)
	buyer.ResaleHistory++

	return PurchaseDetail{
		SellerID:  a.SellerID,
		ProductID: product.ID,
		Price:     price,
		Funds:     buyer.Funds,
	}, nil
}

func (s *Service) applyReview(g *domain.Game, p *domain.Player, a Review) (any, error) {
	grid, _, err := s.sellerGrid(g, a.SellerID)
	if err != nil {
		return nil, err
	}
	product := grid.At(a.Price, a.Popularity)
	if product == nil {
		return nil, fmt.Errorf("%w: no product at %d/%d", ErrEntityNotFound, a.Price, a.Popularity)
	}

	newPop := product.Popularity
	if a.Positive {
		newPop++
	} else {
		newPop--
	}
	if newPop < 1 {
		newPop = 1
	}
	if newPop > domain.GridMaxPopularity {
		newPop = domain.GridMaxPopularity
	}
	if newPop != product.Popularity && grid.At(a.Price, newPop) != nil {
		return nil, ErrSlotOccupied
	}

	fee := 0
	detected := false
	if a.Outsource {
		// Outsourced reviews cost a rolled 2-3 fund fee and risk detection.
		fee = s.dice.Between(2, 3)
		if p.Funds < fee {
			return nil, ErrInsufficientFunds
		}
		detected = s.dice.D6() == 1
	} else if p.Prestige < 1 {
		return nil, ErrInsufficientPrestige
	}

	if a.Outsource {
		p.Funds -= fee
		if detected {
			p.AddPrestige(-2)
		}
	}
	if newPop != product.Popularity {
		if err := grid.Move(a.Price, product.Popularity, a.Price, newPop); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
		}
	}

	return ReviewDetail{
		SellerID:      a.SellerID,
		ProductID:     product.ID,
		NewPopularity: newPop,
		Outsourced:    a.Outsource,
		FeePaid:       fee,
		Detected:      detected,
	}, nil
}

func (s *Service) applyDesign(g *domain.Game, p *domain.Player, a DesignRoll) (any, error) {
	slot := a.Slot
	if slot == 0 {
		slot = p.FirstEmptySlot()
		if slot == 0 {
			return nil, fmt.Errorf("%w: no empty design slot", ErrSlotOccupied)
		}
	} else {
		if slot < 1 || slot > domain.DesignSlots {
			return nil, fmt.Errorf("%w: slot %d out of range", ErrPreconditionFailed, slot)
		}
		if p.DesignAt(slot) != nil {
			return nil, ErrSlotOccupied
		}
	}

	category := a.Category
	if category == "" {
		category = domain.Categories[s.dice.Intn(len(domain.Categories))]
	} else if !domain.ValidCategory(category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrPreconditionFailed, category)
	}

	d := domain.NewDesign(category, s.dice.D6(), a.OpenSource)
	p.Designs[slot-1] = &d
	if a.OpenSource {
		p.AddPrestige(2)
	}
	return DesignDetail{Slot: slot, Design: d}, nil
}

func (s *Service) applyBuyback(g *domain.Game, p *domain.Player, a Buyback) (any, error) {
	product := p.Market.At(a.Price, a.Popularity)
	if product == nil {
		return nil, fmt.Errorf("%w: no product at %d/%d", ErrEntityNotFound, a.Price, a.Popularity)
	}
	p.Market.Remove(a.Price, a.Popularity)
	p.Inventory = append(p.Inventory, product)
	return BuybackDetail{ProductID: product.ID}, nil
}

func (s *Service) applyEndSale(g *domain.Game, p *domain.Player, a EndSale) (any, error) {
	d := p.DesignAt(a.Slot)
	if d == nil {
		return nil, fmt.Errorf("%w: no design in slot %d", ErrEntityNotFound, a.Slot)
	}
	matches := func(pr *domain.Product) bool {
		return pr.Category == d.Category && pr.Value == d.Value && !pr.IsResale()
	}
	for _, l := range p.Market.Listings() {
		if matches(l.Product) {
			return nil, fmt.Errorf("%w: products of the design are still listed", ErrPreconditionFailed)
		}
	}
	for _, pr := range p.Inventory {
		if matches(pr) {
			return nil, fmt.Errorf("%w: products of the design remain in inventory", ErrPreconditionFailed)
		}
	}

	p.Designs[a.Slot-1] = nil
	return EndSaleDetail{Slot: a.Slot}, nil
}

func (s *Service) applyPromoteRegulation(g *domain.Game, p *domain.Player) (any, error) {
	roll := s.dice.Sum2D6()
	detail := RegulationDetail{Roll: roll, Level: g.RegulationLevel}
	if roll < 9 || g.RegulationLevel >= 3 {
		return detail, nil
	}

	g.RegulationLevel++
	detail.Promoted = true
	detail.Level = g.RegulationLevel
	if g.RegulationLevel == 3 {
		detail.Confiscated = s.confiscateResales(g)
	}
	return detail, nil
}

// confiscateResales removes every resale-flagged product from all ledgers,
// clears the reseller entirely and pauses it.
func (s *Service) confiscateResales(g *domain.Game) int {
	count := 0
	for _, p := range g.Players {
		kept := p.Inventory[:0]
		for _, pr := range p.Inventory {
			if pr.IsResale() {
				count++
				continue
			}
			kept = append(kept, pr)
		}
		p.Inventory = kept
		for _, l := range p.Market.Listings() {
			if l.Product.IsResale() {
				p.Market.Remove(l.Price, l.Popularity)
				count++
			}
		}
	}

	count += len(g.Reseller.Inventory)
	g.Reseller.Inventory = nil
	for _, l := range g.Reseller.Market.Listings() {
		g.Reseller.Market.Remove(l.Price, l.Popularity)
		count++
	}
	g.Reseller.PausedRounds = s.tuning.ResellerPauseRounds
	return count
}

func (s *Service) applyResale(g *domain.Game, p *domain.Player, a Resale) (any, error) {
	product := p.InventoryProduct(a.ProductID)
	if product == nil {
		return nil, fmt.Errorf("%w: product %s not in inventory", ErrEntityNotFound, a.ProductID)
	}
	if !product.IsResale() {
		return nil, fmt.Errorf("%w: product was not purchased from another seller", ErrPreconditionFailed)
	}
	if a.Price < 1 {
		return nil, fmt.Errorf("%w: price must be positive", ErrPreconditionFailed)
	}

	maxPrice := domain.ResaleCap(product.PurchasePrice, g.RegulationLevel, p.ResaleHistory)
	listed := a.Price
	if listed > maxPrice {
		listed = maxPrice
	}
	if listed > domain.GridMaxPrice {
		listed = domain.GridMaxPrice
	}
	if p.Market.At(listed, product.Popularity) != nil {
		return nil, ErrSlotOccupied
	}

	p.RemoveFromInventory(product.ID)
	if err := p.Market.Place(listed, product.Popularity, product); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	p.ResaleHistory++
	p.AddPrestige(-1)
	g.Pollution[product.Category]++

	return ResaleDetail{
		ProductID:   product.ID,
		AskedPrice:  a.Price,
		ListedPrice: listed,
		Cap:         maxPrice,
	}, nil
}
