package nakama

import (
	"encoding/json"
	"fmt"

	"makerbazaar/internal/app"
	"makerbazaar/internal/domain"
)

// ActionRequest is the client payload for OpSubmitAction. The actor is the
// message sender; Params is decoded per action type.
type ActionRequest struct {
	Type   string          `json:"type"`
	Params json.RawMessage `json:"params,omitempty"`
}

type slotParams struct {
	Slot int `json:"slot"`
}

type productPriceParams struct {
	ProductID string `json:"product_id"`
	Price     int    `json:"price"`
}

type cellParams struct {
	Price      int `json:"price"`
	Popularity int `json:"popularity"`
}

type purchaseParams struct {
	SellerID   string `json:"seller_id"`
	Price      int    `json:"price"`
	Popularity int    `json:"popularity"`
}

type reviewParams struct {
	SellerID   string `json:"seller_id"`
	Price      int    `json:"price"`
	Popularity int    `json:"popularity"`
	Positive   bool   `json:"positive"`
	Outsource  bool   `json:"outsource"`
}

type designParams struct {
	Slot       int    `json:"slot"`
	Category   string `json:"category"`
	OpenSource bool   `json:"open_source"`
}

// decodeAction maps a wire request to a typed catalog action.
func decodeAction(req ActionRequest) (app.Action, error) {
	unmarshal := func(v any) error {
		if len(req.Params) == 0 {
			return nil
		}
		return json.Unmarshal(req.Params, v)
	}

	switch app.ActionKind(req.Type) {
	case app.KindManufacture:
		var p slotParams
		if err := unmarshal(&p); err != nil {
			return nil, err
		}
		return app.Manufacture{Slot: p.Slot}, nil
	case app.KindSell:
		var p productPriceParams
		if err := unmarshal(&p); err != nil {
			return nil, err
		}
		return app.Sell{ProductID: p.ProductID, Price: p.Price}, nil
	case app.KindPurchase:
		var p purchaseParams
		if err := unmarshal(&p); err != nil {
			return nil, err
		}
		return app.Purchase{SellerID: p.SellerID, Price: p.Price, Popularity: p.Popularity}, nil
	case app.KindReview:
		var p reviewParams
		if err := unmarshal(&p); err != nil {
			return nil, err
		}
		return app.Review{
			SellerID:   p.SellerID,
			Price:      p.Price,
			Popularity: p.Popularity,
			Positive:   p.Positive,
			Outsource:  p.Outsource,
		}, nil
	case app.KindDesign:
		var p designParams
		if err := unmarshal(&p); err != nil {
			return nil, err
		}
		return app.DesignRoll{Slot: p.Slot, Category: domain.Category(p.Category), OpenSource: p.OpenSource}, nil
	case app.KindPartTimeJob:
		return app.PartTimeJob{}, nil
	case app.KindDayLabor:
		return app.DayLabor{}, nil
	case app.KindBuyback:
		var p cellParams
		if err := unmarshal(&p); err != nil {
			return nil, err
		}
		return app.Buyback{Price: p.Price, Popularity: p.Popularity}, nil
	case app.KindEndSale:
		var p slotParams
		if err := unmarshal(&p); err != nil {
			return nil, err
		}
		return app.EndSale{Slot: p.Slot}, nil
	case app.KindPromoteRegulation:
		return app.PromoteRegulation{}, nil
	case app.KindTrendResearch:
		return app.TrendResearch{}, nil
	case app.KindResale:
		var p productPriceParams
		if err := unmarshal(&p); err != nil {
			return nil, err
		}
		return app.Resale{ProductID: p.ProductID, Price: p.Price}, nil
	case app.KindEndTurn:
		return app.EndTurn{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", app.ErrUnknownAction, req.Type)
	}
}

// ErrorMessage is sent privately on OpGameError.
type ErrorMessage struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ActionAppliedMessage is broadcast on OpActionApplied.
type ActionAppliedMessage struct {
	ActorID          string `json:"actor_id"`
	Action           string `json:"action"`
	ActionPointsLeft int    `json:"action_points_left"`
	Detail           any    `json:"detail,omitempty"`
}

// Label is the match label advertised for quick-match queries.
type Label struct {
	Open  int    `json:"open"`
	Game  string `json:"game"`
	State string `json:"state"`
}
