package app

import (
	"makerbazaar/internal/domain"
)

// trendEffect is one entry of the 3d6 trend table. Cost is deducted from
// the researcher before apply runs; if the researcher cannot pay, the
// effect fizzles and only the action points are lost.
type trendEffect struct {
	Name  string
	Cost  int
	apply func(s *Service, g *domain.Game, p *domain.Player)
}

var trendTable = map[int]trendEffect{
	3: {Name: "viral_craze", apply: func(s *Service, g *domain.Game, p *domain.Player) {
		shiftAllPopularity(&p.Market, 1)
	}},
	4: {Name: "green_subsidy", Cost: 2, apply: func(s *Service, g *domain.Game, p *domain.Player) {
		for c, lvl := range g.Pollution {
			if lvl > 0 {
				g.Pollution[c] = lvl - 1
			}
		}
	}},
	5: {Name: "collector_hype", apply: func(s *Service, g *domain.Game, p *domain.Player) {
		if l, ok := cheapestListing(&p.Market); ok {
			shiftPopularity(&p.Market, l, 2)
		}
	}},
	6: {Name: "flea_market", apply: func(s *Service, g *domain.Game, p *domain.Player) {
		p.Funds += 2 * len(p.Inventory)
	}},
	7: {Name: "word_of_mouth", apply: func(s *Service, g *domain.Game, p *domain.Player) {
		p.AddPrestige(1)
	}},
	8: {Name: "steady_sales", apply: func(s *Service, g *domain.Game, p *domain.Player) {
		p.Funds += 3
	}},
	9: {Name: "small_commission", apply: func(s *Service, g *domain.Game, p *domain.Player) {
		p.Funds += 3
	}},
	10: {Name: "repair_gig", apply: func(s *Service, g *domain.Game, p *domain.Player) {
		p.Funds += 4
	}},
	11: {Name: "trade_show", Cost: 3, apply: func(s *Service, g *domain.Game, p *domain.Player) {
		p.AddPrestige(2)
	}},
	12: {Name: "bulk_order", apply: func(s *Service, g *domain.Game, p *domain.Player) {
		p.Funds += 6
	}},
	13: {Name: "patent_license", apply: func(s *Service, g *domain.Game, p *domain.Player) {
		for _, d := range p.Designs {
			if d != nil && d.OpenSource {
				p.Funds += 3
			}
		}
	}},
	14: {Name: "cleanup_campaign", Cost: 3, apply: func(s *Service, g *domain.Game, p *domain.Player) {
		c := domain.Categories[s.dice.Intn(len(domain.Categories))]
		g.Pollution[c] -= 2
		if g.Pollution[c] < 0 {
			g.Pollution[c] = 0
		}
	}},
	15: {Name: "celebrity_endorsement", apply: func(s *Service, g *domain.Game, p *domain.Player) {
		if l, ok := priciestListing(&p.Market); ok {
			shiftPopularity(&p.Market, l, 2)
		}
	}},
	16: {Name: "export_deal", apply: func(s *Service, g *domain.Game, p *domain.Player) {
		p.Funds += 10
	}},
	17: {Name: "angel_investor", Cost: 5, apply: func(s *Service, g *domain.Game, p *domain.Player) {
		p.AddPrestige(3)
	}},
	18: {Name: "golden_fair", apply: func(s *Service, g *domain.Game, p *domain.Player) {
		p.Funds += 12
		p.AddPrestige(1)
	}},
}

func (s *Service) applyTrendResearch(g *domain.Game, p *domain.Player) (any, error) {
	roll := s.dice.Sum3D6()
	effect := trendTable[roll]

	fizzled := false
	if effect.Cost > 0 && p.Funds < effect.Cost {
		fizzled = true
	} else {
		p.Funds -= effect.Cost
		effect.apply(s, g, p)
	}

	g.Trends = append(g.Trends, domain.TrendRecord{
		Round:   g.Round,
		Roll:    roll,
		Name:    effect.Name,
		ActorID: p.UserID,
		Fizzled: fizzled,
	})
	return TrendDetail{Roll: roll, Name: effect.Name, Fizzled: fizzled}, nil
}

// shiftPopularity moves a listed product up or down the popularity axis,
// clamped to the grid; occupied destinations leave the product in place.
func shiftPopularity(grid *domain.Grid, l domain.Listing, delta int) {
	newPop := l.Popularity + delta
	if newPop < 1 {
		newPop = 1
	}
	if newPop > domain.GridMaxPopularity {
		newPop = domain.GridMaxPopularity
	}
	if newPop == l.Popularity {
		return
	}
	_ = grid.Move(l.Price, l.Popularity, l.Price, newPop)
}

// shiftAllPopularity applies shiftPopularity to every listing. Iteration
// runs from the high-popularity end when shifting up so products do not
// collide with their own neighbours.
func shiftAllPopularity(grid *domain.Grid, delta int) {
	listings := grid.Listings()
	if delta > 0 {
		for i := len(listings) - 1; i >= 0; i-- {
			shiftPopularity(grid, listings[i], delta)
		}
	} else {
		for _, l := range listings {
			shiftPopularity(grid, l, delta)
		}
	}
}

func cheapestListing(grid *domain.Grid) (domain.Listing, bool) {
	listings := grid.Listings()
	if len(listings) == 0 {
		return domain.Listing{}, false
	}
	return listings[0], true
}

func priciestListing(grid *domain.Grid) (domain.Listing, bool) {
	listings := grid.Listings()
	if len(listings) == 0 {
		return domain.Listing{}, false
	}
	return listings[len(listings)-1], true
}
