package domain

// Category is a product category on the design die.
type Category string

const (
	CategoryGameConsole Category = "game_console"
	CategoryDIYGadget   Category = "diy_gadget"
	CategoryFigure      Category = "figure"
	CategoryAccessory   Category = "accessory"
	CategoryToy         Category = "toy"
)

// Categories lists every category in die-face order.
var Categories = []Category{
	CategoryGameConsole,
	CategoryDIYGadget,
	CategoryFigure,
	CategoryAccessory,
	CategoryToy,
}

// ValidCategory reports whether c is one of the five die faces.
func ValidCategory(c Category) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Design is one rolled blueprint occupying a slot on a player board.
type Design struct {
	Category   Category `json:"category"`
	Value      int      `json:"value"` // dice value 1..6
	Cost       int      `json:"cost"`  // manufacturing cost, inverse of Value
	OpenSource bool     `json:"open_source,omitempty"`
}

// CostForValue maps a design die value to its manufacturing cost.
// Value 6 is the cheapest build (cost 1), value 1 the most expensive (cost 6).
func CostForValue(value int) int {
	return 7 - value
}

// NewDesign builds a design from a category and die value.
func NewDesign(category Category, value int, openSource bool) Design {
	return Design{
		Category:   category,
		Value:      value,
		Cost:       CostForValue(value),
		OpenSource: openSource,
	}
}
