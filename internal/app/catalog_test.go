package app

import (
	"errors"
	"testing"

	"makerbazaar/internal/domain"
)

func TestManufacture(t *testing.T) {
	s := newTestService(1)
	g := newStartedMatch(t, s)
	alice := g.Players["alice"]
	alice.Designs[0] = designOf(domain.CategoryFigure, 3) // cost 4

	if _, err := s.Apply(g, "alice", Manufacture{Slot: 2}); !errors.Is(err, ErrEntityNotFound) {
		t.Errorf("Manufacture from empty slot = %v, want ErrEntityNotFound", err)
	}

	if _, err := s.Apply(g, "alice", Manufacture{Slot: 1}); err != nil {
		t.Fatalf("Manufacture: %v", err)
	}
	if alice.Funds != 26 {
		t.Errorf("funds = %d, want 26 after paying cost 4", alice.Funds)
	}
	if len(alice.Inventory) != 1 {
		t.Fatalf("inventory = %d products, want 1", len(alice.Inventory))
	}
	pr := alice.Inventory[0]
	if pr.Category != domain.CategoryFigure || pr.Cost != 4 || pr.Popularity != 1 {
		t.Errorf("product = %+v", pr)
	}

	alice.Funds = 3
	if _, err := s.Apply(g, "alice", Manufacture{Slot: 1}); !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("Manufacture without funds = %v, want ErrInsufficientFunds", err)
	}
}

func TestSellPriceLimitAndPenalty(t *testing.T) {
	s := newTestService(1)
	g := newStartedMatch(t, s)
	alice := g.Players["alice"]
	alice.ActionPoints = 10
	alice.Designs[0] = designOf(domain.CategoryToy, 5) // cost 2

	if _, err := s.Apply(g, "alice", Manufacture{Slot: 1}); err != nil {
		t.Fatalf("Manufacture: %v", err)
	}
	pr := alice.Inventory[0]

	// Prestige 5 allows at most cost*3 = 6.
	if _, err := s.Apply(g, "alice", Sell{ProductID: pr.ID, Price: 7}); !errors.Is(err, ErrPreconditionFailed) {
		t.Errorf("Sell above the prestige limit = %v, want ErrPreconditionFailed", err)
	}

	// One pollution level discounts the listed price by one.
	g.Pollution[domain.CategoryToy] = 1
	detail, err := s.execute(g, alice, Sell{ProductID: pr.ID, Price: 6})
	if err != nil {
		t.Fatalf("Sell: %v", err)
	}
	sd := detail.(SellDetail)
	if sd.ListedPrice != 5 || sd.Penalty != 1 {
		t.Errorf("sell detail = %+v, want listed 5 with penalty 1", sd)
	}
	if alice.Market.At(5, 1) != pr {
		t.Errorf("product not on the market at 5/1")
	}
	if len(alice.Inventory) != 0 {
		t.Errorf("product still in inventory after listing")
	}
}

func TestSellBlockedByPollutionCeiling(t *testing.T) {
	s := newTestService(1)
	g := newStartedMatch(t, s)
	alice := g.Players["alice"]
	alice.Designs[0] = designOf(domain.CategoryToy, 5)
	if _, err := s.Apply(g, "alice", Manufacture{Slot: 1}); err != nil {
		t.Fatalf("Manufacture: %v", err)
	}
	pr := alice.Inventory[0]

	g.Pollution[domain.CategoryToy] = domain.PollutionSellCeiling
	if _, err := s.Apply(g, "alice", Sell{ProductID: pr.ID, Price: 4}); !errors.Is(err, ErrPreconditionFailed) {
		t.Errorf("Sell at the pollution ceiling = %v, want ErrPreconditionFailed", err)
	}
	if len(alice.Inventory) != 1 {
		t.Errorf("rejected sell removed the product from inventory")
	}
}

func TestSellOccupiedCell(t *testing.T) {
	s := newTestService(1)
	g := newStartedMatch(t, s)
	alice := g.Players["alice"]
	alice.ActionPoints = 10
	alice.Designs[0] = designOf(domain.CategoryToy, 5)

	for i := 0; i < 2; i++ {
		if _, err := s.Apply(g, "alice", Manufacture{Slot: 1}); err != nil {
			t.Fatalf("Manufacture: %v", err)
		}
	}
	first, second := alice.Inventory[0], alice.Inventory[1]
	if _, err := s.Apply(g, "alice", Sell{ProductID: first.ID, Price: 4}); err != nil {
		t.Fatalf("Sell: %v", err)
	}
	if _, err := s.Apply(g, "alice", Sell{ProductID: second.ID, Price: 4}); !errors.Is(err, ErrSlotOccupied) {
		t.Errorf("Sell into an occupied cell = %v, want ErrSlotOccupied", err)
	}
}

func TestSellRejectsPurchasedProduct(t *testing.T) {
	s := newTestService(1)
	g := newStartedMatch(t, s)
	alice := g.Players["alice"]
	g.RegulationLevel = 3

	// A purchased item may only go back on the market through resale,
	// where the regulated cap, prestige hit and pollution apply.
	pr := domain.NewProduct("r1", domain.NewDesign(domain.CategoryToy, 5, false), "alice")
	pr.PreviousOwner = "bob"
	pr.PurchasePrice = 2
	alice.Inventory = []*domain.Product{pr}
	prestige := alice.Prestige

	if _, err := s.execute(g, alice, Sell{ProductID: "r1", Price: 15}); !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("Sell of a resale-flagged product = %v, want ErrPreconditionFailed", err)
	}
	if len(alice.Inventory) != 1 || alice.Market.Count() != 0 {
		t.Errorf("rejected sell moved the product anyway")
	}
	if alice.Prestige != prestige || g.PollutionLevel(domain.CategoryToy) != 0 {
		t.Errorf("rejected sell touched prestige or pollution")
	}
}

func TestPurchaseFromPlayer(t *testing.T) {
	s := newTestService(1)
	g := newStartedMatch(t, s)
	alice := g.Players["alice"]
	bob := g.Players["bob"]

	pr := domain.NewProduct("sold-1", domain.NewDesign(domain.CategoryFigure, 4, false), "bob")
	if err := bob.Market.Place(6, 1, pr); err != nil {
		t.Fatalf("Place: %v", err)
	}
	bobPrestige := bob.Prestige

	detail, err := s.execute(g, alice, Purchase{SellerID: "bob", Price: 6, Popularity: 1})
	if err != nil {
		t.Fatalf("Purchase: %v", err)
	}
	pd := detail.(PurchaseDetail)
	if pd.Price != 6 {
		t.Errorf("detail = %+v", pd)
	}
	if alice.Funds != 24 || bob.Funds != 36 {
		t.Errorf("funds alice=%d bob=%d, want 24/36", alice.Funds, bob.Funds)
	}
	if bob.Prestige != bobPrestige-1 {
		t.Errorf("seller prestige = %d, want %d", bob.Prestige, bobPrestige-1)
	}
	if pr.PreviousOwner != "bob" || pr.PurchasePrice != 6 || pr.OwnerID != "alice" {
		t.Errorf("provenance = %+v", pr)
	}
	if !pr.IsResale() {
		t.Errorf("purchased product should be resale-flagged")
	}
	if bob.Market.At(6, 1) != nil {
		t.Errorf("product still listed after purchase")
	}
}

func TestPurchaseFromResellerCreditsItsFunds(t *testing.T) {
	s := newTestService(1)
	g := newStartedMatch(t, s)
	alice := g.Players["alice"]
	g.Reseller.Funds = 3

	pr := domain.NewProduct("h1", domain.NewDesign(domain.CategoryToy, 5, false), domain.ResellerID)
	pr.PreviousOwner = "bob"
	if err := g.Reseller.Market.Place(7, 1, pr); err != nil {
		t.Fatalf("Place: %v", err)
	}

	if _, err := s.execute(g, alice, Purchase{SellerID: domain.ResellerID, Price: 7, Popularity: 1}); err != nil {
		t.Fatalf("Purchase: %v", err)
	}
	if g.Reseller.Funds != 10 {
		t.Errorf("reseller funds = %d, want 10", g.Reseller.Funds)
	}
	if alice.Funds != 23 {
		t.Errorf("buyer funds = %d, want 23", alice.Funds)
	}
	if g.Reseller.Market.At(7, 1) != nil {
		t.Errorf("product still on the reseller market")
	}
}

func TestPurchaseErrors(t *testing.T) {
	s := newTestService(1)
	g := newStartedMatch(t, s)
	alice := g.Players["alice"]

	if _, err := s.execute(g, alice, Purchase{SellerID: "alice", Price: 1, Popularity: 1}); !errors.Is(err, ErrPreconditionFailed) {
		t.Errorf("self purchase = %v, want ErrPreconditionFailed", err)
	}
	if _, err := s.execute(g, alice, Purchase{SellerID: "ghost", Price: 1, Popularity: 1}); !errors.Is(err, ErrEntityNotFound) {
		t.Errorf("unknown seller = %v, want ErrEntityNotFound", err)
	}
	if _, err := s.execute(g, alice, Purchase{SellerID: "bob", Price: 1, Popularity: 1}); !errors.Is(err, ErrEntityNotFound) {
		t.Errorf("empty cell = %v, want ErrEntityNotFound", err)
	}

	pr := domain.NewProduct("pricey", domain.NewDesign(domain.CategoryToy, 2, false), domain.ManufacturerID)
	if err := g.Manufacturer.Market.Place(15, 1, pr); err != nil {
		t.Fatalf("Place: %v", err)
	}
	alice.Funds = 10
	if _, err := s.execute(g, alice, Purchase{SellerID: domain.ManufacturerID, Price: 15, Popularity: 1}); !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("unaffordable purchase = %v, want ErrInsufficientFunds", err)
	}
}

func TestReviewDirect(t *testing.T) {
	s := newTestService(1)
	g := newStartedMatch(t, s)
	alice := g.Players["alice"]
	bob := g.Players["bob"]

	pr := domain.NewProduct("r1", domain.NewDesign(domain.CategoryToy, 5, false), "bob")
	if err := bob.Market.Place(4, 2, pr); err != nil {
		t.Fatalf("Place: %v", err)
	}

	detail, err := s.execute(g, alice, Review{SellerID: "bob", Price: 4, Popularity: 2, Positive: true})
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	rd := detail.(ReviewDetail)
	if rd.NewPopularity != 3 || rd.Outsourced || rd.FeePaid != 0 {
		t.Errorf("review detail = %+v", rd)
	}
	if bob.Market.At(4, 3) != pr {
		t.Errorf("product did not move to popularity 3")
	}

	// Direct reviews need standing.
	alice.Prestige = 0
	if _, err := s.execute(g, alice, Review{SellerID: "bob", Price: 4, Popularity: 3, Positive: false}); !errors.Is(err, ErrInsufficientPrestige) {
		t.Errorf("review without prestige = %v, want ErrInsufficientPrestige", err)
	}
}

func TestReviewClampAtBounds(t *testing.T) {
	s := newTestService(1)
	g := newStartedMatch(t, s)
	alice := g.Players["alice"]
	bob := g.Players["bob"]

	pr := domain.NewProduct("r1", domain.NewDesign(domain.CategoryToy, 5, false), "bob")
	if err := bob.Market.Place(4, 1, pr); err != nil {
		t.Fatalf("Place: %v", err)
	}

	// A negative review at popularity 1 clamps in place and still succeeds.
	detail, err := s.execute(g, alice, Review{SellerID: "bob", Price: 4, Popularity: 1, Positive: false})
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if rd := detail.(ReviewDetail); rd.NewPopularity != 1 {
		t.Errorf("clamped review detail = %+v", rd)
	}
	if bob.Market.At(4, 1) != pr {
		t.Errorf("product moved despite the clamp")
	}
}

func TestReviewBlockedDestination(t *testing.T) {
	s := newTestService(1)
	g := newStartedMatch(t, s)
	alice := g.Players["alice"]
	bob := g.Players["bob"]

	pr := domain.NewProduct("r1", domain.NewDesign(domain.CategoryToy, 5, false), "bob")
	blocker := domain.NewProduct("r2", domain.NewDesign(domain.CategoryToy, 5, false), "bob")
	if err := bob.Market.Place(4, 2, pr); err != nil {
		t.Fatalf("Place: %v", err)
	}
	if err := bob.Market.Place(4, 3, blocker); err != nil {
		t.Fatalf("Place: %v", err)
	}

	if _, err := s.execute(g, alice, Review{SellerID: "bob", Price: 4, Popularity: 2, Positive: true}); !errors.Is(err, ErrSlotOccupied) {
		t.Errorf("review into occupied cell = %v, want ErrSlotOccupied", err)
	}
}

func TestDesignRoll(t *testing.T) {
	s := newTestService(7)
	g := newStartedMatch(t, s)
	alice := g.Players["alice"]

	detail, err := s.execute(g, alice, DesignRoll{Category: domain.CategoryAccessory, OpenSource: true})
	if err != nil {
		t.Fatalf("DesignRoll: %v", err)
	}
	dd := detail.(DesignDetail)
	if dd.Slot != 1 {
		t.Errorf("slot = %d, want first free slot", dd.Slot)
	}
	d := alice.DesignAt(1)
	if d == nil || d.Category != domain.CategoryAccessory || !d.OpenSource {
		t.Fatalf("design = %+v", d)
	}
	if d.Cost != 7-d.Value {
		t.Errorf("cost %d does not invert value %d", d.Cost, d.Value)
	}
	if alice.Prestige != 7 {
		t.Errorf("prestige = %d, want 7 after the open source bonus", alice.Prestige)
	}

	if _, err := s.execute(g, alice, DesignRoll{Slot: 1}); !errors.Is(err, ErrSlotOccupied) {
		t.Errorf("DesignRoll into taken slot = %v, want ErrSlotOccupied", err)
	}
	if _, err := s.execute(g, alice, DesignRoll{Slot: 9}); !errors.Is(err, ErrPreconditionFailed) {
		t.Errorf("DesignRoll out of range = %v, want ErrPreconditionFailed", err)
	}
	if _, err := s.execute(g, alice, DesignRoll{Category: "jetpack"}); !errors.Is(err, ErrPreconditionFailed) {
		t.Errorf("DesignRoll with bad category = %v, want ErrPreconditionFailed", err)
	}
}

func TestBuybackAndEndSale(t *testing.T) {
	s := newTestService(1)
	g := newStartedMatch(t, s)
	alice := g.Players["alice"]
	alice.Designs[0] = designOf(domain.CategoryToy, 5)

	pr := domain.NewProduct("b1", *alice.Designs[0], "alice")
	if err := alice.Market.Place(4, 1, pr); err != nil {
		t.Fatalf("Place: %v", err)
	}

	// End of sale is blocked while matching products are listed.
	if _, err := s.execute(g, alice, EndSale{Slot: 1}); !errors.Is(err, ErrPreconditionFailed) {
		t.Errorf("EndSale with listed product = %v, want ErrPreconditionFailed", err)
	}

	if _, err := s.execute(g, alice, Buyback{Price: 4, Popularity: 1}); err != nil {
		t.Fatalf("Buyback: %v", err)
	}
	if len(alice.Inventory) != 1 || alice.Market.Count() != 0 {
		t.Fatalf("buyback did not move the product to inventory")
	}

	// Still blocked while it sits in inventory.
	if _, err := s.execute(g, alice, EndSale{Slot: 1}); !errors.Is(err, ErrPreconditionFailed) {
		t.Errorf("EndSale with inventory product = %v, want ErrPreconditionFailed", err)
	}

	alice.Inventory = nil
	if _, err := s.execute(g, alice, EndSale{Slot: 1}); err != nil {
		t.Fatalf("EndSale: %v", err)
	}
	if alice.DesignAt(1) != nil {
		t.Errorf("design still present after end of sale")
	}
}

func TestPromoteRegulation(t *testing.T) {
	tests := []struct {
		name       string
		faces      []int64
		startLevel int
		wantRoll   int
		wantLevel  int
		promoted   bool
	}{
		{"below nine leaves the level", []int64{3, 4}, 0, 7, 0, false},
		{"nine promotes by one", []int64{4, 5}, 0, 9, 1, true},
		{"boxcars at the cap stay put", []int64{6, 6}, 3, 12, 3, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := scriptedService(tc.faces...)
			g := newStartedMatch(t, s)
			g.RegulationLevel = tc.startLevel
			alice := g.Players["alice"]

			detail, err := s.execute(g, alice, PromoteRegulation{})
			if err != nil {
				t.Fatalf("PromoteRegulation: %v", err)
			}
			rd := detail.(RegulationDetail)
			if rd.Roll != tc.wantRoll {
				t.Fatalf("roll = %d, want %d from the scripted faces", rd.Roll, tc.wantRoll)
			}
			if g.RegulationLevel != tc.wantLevel || rd.Promoted != tc.promoted {
				t.Errorf("regulation = %d promoted=%v, want %d/%v",
					g.RegulationLevel, rd.Promoted, tc.wantLevel, tc.promoted)
			}
		})
	}
}

func TestRegulationLevelThreeConfiscates(t *testing.T) {
	s := newTestService(1)
	g := newStartedMatch(t, s)
	alice := g.Players["alice"]

	fresh := domain.NewProduct("f1", domain.NewDesign(domain.CategoryToy, 5, false), "alice")
	resale := domain.NewProduct("r1", domain.NewDesign(domain.CategoryToy, 5, false), "alice")
	resale.PreviousOwner = "bob"
	listedResale := domain.NewProduct("r2", domain.NewDesign(domain.CategoryFigure, 4, false), "alice")
	listedResale.PreviousOwner = "bob"
	alice.Inventory = []*domain.Product{fresh, resale}
	if err := alice.Market.Place(8, 1, listedResale); err != nil {
		t.Fatalf("Place: %v", err)
	}

	held := domain.NewProduct("h1", domain.NewDesign(domain.CategoryToy, 5, false), domain.ResellerID)
	held.PreviousOwner = "bob"
	g.Reseller.Inventory = []*domain.Product{held}
	onSale := domain.NewProduct("h2", domain.NewDesign(domain.CategoryToy, 5, false), domain.ResellerID)
	onSale.PreviousOwner = "bob"
	if err := g.Reseller.Market.Place(9, 1, onSale); err != nil {
		t.Fatalf("Place: %v", err)
	}

	confiscated := s.confiscateResales(g)
	if confiscated != 4 {
		t.Errorf("confiscated = %d, want 4", confiscated)
	}
	if len(alice.Inventory) != 1 || alice.Inventory[0] != fresh {
		t.Errorf("fresh inventory lost: %+v", alice.Inventory)
	}
	if alice.Market.Count() != 0 {
		t.Errorf("listed resale survived confiscation")
	}
	if len(g.Reseller.Inventory) != 0 || g.Reseller.Market.Count() != 0 {
		t.Errorf("reseller holdings survived confiscation")
	}
	if g.Reseller.PausedRounds != 3 {
		t.Errorf("reseller pause = %d rounds, want 3", g.Reseller.PausedRounds)
	}
}

func TestResale(t *testing.T) {
	s := newTestService(1)
	g := newStartedMatch(t, s)
	alice := g.Players["alice"]

	pr := domain.NewProduct("r1", domain.NewDesign(domain.CategoryAccessory, 4, false), "alice")
	pr.PreviousOwner = "bob"
	pr.PurchasePrice = 6
	alice.Inventory = []*domain.Product{pr}

	// Rookie cap is purchase +5; the ask above it is clamped.
	detail, err := s.execute(g, alice, Resale{ProductID: "r1", Price: 18})
	if err != nil {
		t.Fatalf("Resale: %v", err)
	}
	rd := detail.(ResaleDetail)
	if rd.ListedPrice != 11 || rd.Cap != 11 {
		t.Errorf("resale detail = %+v, want clamp to 11", rd)
	}
	if alice.Market.At(11, 1) != pr {
		t.Errorf("product not listed at the capped price")
	}
	if alice.ResaleHistory != 1 {
		t.Errorf("resale history = %d, want 1", alice.ResaleHistory)
	}
	if alice.Prestige != 4 {
		t.Errorf("prestige = %d, want 4 after the resale hit", alice.Prestige)
	}
	if g.Pollution[domain.CategoryAccessory] != 1 {
		t.Errorf("pollution = %d, want 1", g.Pollution[domain.CategoryAccessory])
	}
}

func TestResaleRequiresProvenance(t *testing.T) {
	s := newTestService(1)
	g := newStartedMatch(t, s)
	alice := g.Players["alice"]

	fresh := domain.NewProduct("f1", domain.NewDesign(domain.CategoryToy, 5, false), "alice")
	alice.Inventory = []*domain.Product{fresh}

	if _, err := s.execute(g, alice, Resale{ProductID: "f1", Price: 5}); !errors.Is(err, ErrPreconditionFailed) {
		t.Errorf("resale of a fresh product = %v, want ErrPreconditionFailed", err)
	}
	if _, err := s.execute(g, alice, Resale{ProductID: "nope", Price: 5}); !errors.Is(err, ErrEntityNotFound) {
		t.Errorf("resale of a missing product = %v, want ErrEntityNotFound", err)
	}
}
