package domain

// Victory thresholds.
const (
	VictoryPrestigeMin      = 17
	VictoryPrestigeFundsMin = 75
	VictoryFundsMin         = 150
)

// CheckVictory is a pure function of a ledger's funds and prestige.
// Prestige victory requires both thresholds; funds victory requires funds alone.
func CheckVictory(p *Player) (VictoryType, bool) {
	if p.Prestige >= VictoryPrestigeMin && p.Funds >= VictoryPrestigeFundsMin {
		return VictoryPrestige, true
	}
	if p.Funds >= VictoryFundsMin {
		return VictoryFunds, true
	}
	return VictoryNone, false
}
