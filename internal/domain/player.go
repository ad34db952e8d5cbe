package domain

// Role distinguishes how a ledger is controlled.
type Role string

const (
	RoleHost   Role = "host"
	RolePlayer Role = "player"
	RoleAI     Role = "ai"
)

// DesignSlots is the number of design slots on each player board.
const DesignSlots = 6

// Player is the per-player ledger: funds, prestige, action points, designs,
// inventory and the personal market grid.
type Player struct {
	UserID string
	Name   string
	Role   Role

	Funds         int
	Prestige      int
	ActionPoints  int
	ResaleHistory int

	// Designs is a fixed array of optional design slots, index = slot-1.
	Designs [DesignSlots]*Design

	// Inventory holds manufactured products that are not yet priced.
	// A product is never in Inventory and Market at the same time.
	Inventory []*Product

	Market Grid
}

// NewPlayer creates a ledger with the given starting resources.
func NewPlayer(userID, name string, role Role, funds, prestige, actionPoints int) *Player {
	return &Player{
		UserID:       userID,
		Name:         name,
		Role:         role,
		Funds:        funds,
		Prestige:     prestige,
		ActionPoints: actionPoints,
	}
}

// AddPrestige applies a prestige delta, clamping at the floor of 1.
func (p *Player) AddPrestige(delta int) {
	p.Prestige += delta
	if p.Prestige < 1 {
		p.Prestige = 1
	}
}

// DesignAt returns the design in a 1-based slot, or nil.
func (p *Player) DesignAt(slot int) *Design {
	if slot < 1 || slot > DesignSlots {
		return nil
	}
	return p.Designs[slot-1]
}

// FirstEmptySlot returns the lowest free 1-based design slot, or 0 if full.
func (p *Player) FirstEmptySlot() int {
	for i, d := range p.Designs {
		if d == nil {
			return i + 1
		}
	}
	return 0
}

// InventoryProduct finds a product in the inventory by ID.
func (p *Player) InventoryProduct(id string) *Product {
	for _, pr := range p.Inventory {
		if pr.ID == id {
			return pr
		}
	}
	return nil
}

// RemoveFromInventory detaches a product from the inventory by ID and
// returns it, or nil when absent.
func (p *Player) RemoveFromInventory(id string) *Product {
	for i, pr := range p.Inventory {
		if pr.ID == id {
			p.Inventory = append(p.Inventory[:i], p.Inventory[i+1:]...)
			return pr
		}
	}
	return nil
}
