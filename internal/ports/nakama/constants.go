package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a
	// lobby-capable match.
	RpcQuickMatch = "quick_match"

	// RpcResultToken is the RPC id returning a signed outcome token for a
	// finished match.
	RpcResultToken = "result_token"

	// MatchNameMakerBazaar is the authoritative match handler name
	// registered with Nakama.
	MatchNameMakerBazaar = "makerbazaar_match"

	// MatchLabelKeyOpenSeats is the label key advertising free seats.
	MatchLabelKeyOpenSeats = "open"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartMatch      int64 = 1
	OpSubmitAction    int64 = 2
	OpRequestSnapshot int64 = 3

	// Server -> Client events
	OpPlayerJoined  int64 = 101
	OpPlayerLeft    int64 = 102
	OpMatchStarted  int64 = 103
	OpActionApplied int64 = 104
	OpTurnAdvanced  int64 = 105
	OpAutomataPhase int64 = 106
	OpMarketPhase   int64 = 107
	OpRoundStarted  int64 = 108
	OpMatchEnded    int64 = 109
	OpSnapshot      int64 = 110
	OpGameError     int64 = 111
)
