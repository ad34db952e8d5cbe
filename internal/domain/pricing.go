package domain

// PriceLimit is the highest price a player may ask for a fresh product,
// as a prestige-gated multiple of its manufacturing cost.
func PriceLimit(prestige, cost int) int {
	switch {
	case prestige <= 2:
		return cost * 2
	case prestige <= 8:
		return cost * 3
	default:
		return cost * 4
	}
}

// PollutionSellCeiling is the pollution level at which fresh sales of a
// category are blocked.
const PollutionSellCeiling = 3

// PollutionPenalty is the price reduction applied to a fresh sale for the
// category's pollution level. The top band covers relisted items, which
// are not gated by the sell ceiling.
func PollutionPenalty(level int) int {
	switch {
	case level <= 0:
		return 0
	case level == 1:
		return 1
	case level == 2:
		return 3
	default:
		return 5
	}
}

// ResaleBonus grants experienced resellers extra price headroom.
func ResaleBonus(history int) int {
	switch {
	case history <= 1:
		return 0
	case history <= 4:
		return 3
	case history <= 7:
		return 6
	default:
		return 10
	}
}

// ResaleCap is the maximum resale price under the current regulation level.
func ResaleCap(purchasePrice, regulationLevel, history int) int {
	switch regulationLevel {
	case 3:
		return purchasePrice + 1
	case 2:
		return purchasePrice + 3
	default:
		return purchasePrice + 5 + ResaleBonus(history)
	}
}

// demandTable maps manufacturing cost to the 2d6 demand values that clear it.
// Cost-6 products (value-1 designs) never clear through open demand.
var demandTable = map[int][]int{
	1: {6, 7, 8},
	2: {5, 9},
	3: {4, 10},
	4: {3, 11},
	5: {2, 12},
}

// DemandValues returns the demand rolls that clear a product of the given cost.
func DemandValues(cost int) []int {
	return demandTable[cost]
}

// MatchesDemand reports whether a product of the given cost clears on a roll.
func MatchesDemand(cost, demandValue int) bool {
	for _, v := range demandTable[cost] {
		if v == demandValue {
			return true
		}
	}
	return false
}
