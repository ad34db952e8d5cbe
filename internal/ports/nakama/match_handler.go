package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/rand"
	"strconv"
	"time"

	"makerbazaar/internal/aiplayer"
	"makerbazaar/internal/app"
	"makerbazaar/internal/config"
	"makerbazaar/internal/dice"
	"makerbazaar/internal/domain"
	"makerbazaar/internal/ports"

	"github.com/google/uuid"
	"github.com/heroiclabs/nakama-common/runtime"
)

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	Seats     [4]string `json:"seats"` // user IDs, empty string means seat is empty
	OwnerSeat int       `json:"owner_seat"`
	Tick      int64     `json:"tick"`

	Presences map[string]runtime.Presence `json:"-"`
	App       *app.Service                `json:"-"`
	Game      *domain.Game                `json:"-"`
	Agents    map[string]*aiplayer.Agent  `json:"-"`
	Economy   ports.EconomyPort           `json:"-"`
	Results   ports.ResultStorePort       `json:"-"`
	Tuning    config.Tuning               `json:"-"`

	AIEnabled            bool  `json:"ai_enabled"`
	AIMinDelay           int   `json:"ai_min_delay"`
	AIMaxDelay           int   `json:"ai_max_delay"`
	AIAutoFillDelay      int   `json:"ai_auto_fill_delay"`
	AIWaitUntil          int64 `json:"ai_wait_until"`
	LastSinglePlayerTick int64 `json:"last_single_player_tick"`

	Settled bool `json:"settled"` // winner prize paid out
}

func (ms *MatchState) GetOpenSeatsCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat == "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) GetOccupiedSeatCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) GetHumanPlayerCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" && !aiplayer.IsAI(seat) {
			count++
		}
	}
	return count
}

// isHumanSeat reports whether the seat index belongs to a human player.
func isHumanSeat(seats []string, seatIndex int) bool {
	if seatIndex < 0 || seatIndex >= len(seats) {
		return false
	}
	userID := seats[seatIndex]
	return userID != "" && !aiplayer.IsAI(userID)
}

// findFirstHumanSeat returns the first seat index with a human occupant or -1.
func findFirstHumanSeat(seats []string) int {
	for i, userID := range seats {
		if userID != "" && !aiplayer.IsAI(userID) {
			return i
		}
	}
	return -1
}

func newMatchHandler() runtime.Match {
	return &matchHandler{}
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	if err := aiplayer.LoadIdentities("data/ai_identities.json"); err != nil {
		logger.Warn("MatchInit: Could not load AI identities: %v", err)
	}
	tuning, err := config.Load("data/tuning.yaml")
	if err != nil {
		logger.Warn("MatchInit: Could not load tuning, using defaults: %v", err)
		tuning = config.Default()
	}

	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)
	if matchID == "" {
		matchID = uuid.NewString()
	}
	svc := app.NewService(dice.NewRoller(nil), tuning, uuid.NewString)

	state := &MatchState{
		OwnerSeat: -1,
		Presences: make(map[string]runtime.Presence),
		App:       svc,
		Game:      svc.NewMatch(matchID),
		Agents:    make(map[string]*aiplayer.Agent),
		Economy:   NewNakamaEconomyAdapter(nk),
		Results:   NewNakamaResultStoreAdapter(nk),
		Tuning:    tuning,
		AIEnabled: tuning.AI.Enabled,
	}
	state.AIMinDelay = tuning.AI.MinDelaySec
	state.AIMaxDelay = tuning.AI.MaxDelaySec
	state.AIAutoFillDelay = tuning.AI.AutoFillDelaySec

	// Environment overrides for AI pacing.
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		if val, ok := env["makerbazaar_ai_enabled"]; ok {
			state.AIEnabled = val == "true"
		}
		if val, ok := env["makerbazaar_ai_min_delay_sec"]; ok {
			if i, err := strconv.Atoi(val); err == nil {
				state.AIMinDelay = i
			}
		}
		if val, ok := env["makerbazaar_ai_max_delay_sec"]; ok {
			if i, err := strconv.Atoi(val); err == nil {
				state.AIMaxDelay = i
			}
		}
		if val, ok := env["makerbazaar_ai_auto_fill_delay_sec"]; ok {
			if i, err := strconv.Atoi(val); err == nil {
				state.AIAutoFillDelay = i
			}
		}
	}

	labelBytes, err := json.Marshal(Label{Open: state.GetOpenSeatsCount(), Game: "makerbazaar", State: string(domain.LifecycleWaiting)})
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1
	return state, tickRate, string(labelBytes)
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// Rejoin is always allowed while the ledger exists.
	if _, exists := matchState.Game.Players[presence.GetUserId()]; exists {
		return state, true, ""
	}
	if matchState.Game.Lifecycle != domain.LifecycleWaiting {
		return state, false, "match already started"
	}

	if matchState.GetOpenSeatsCount() <= 0 {
		hasAI := false
		for _, seat := range matchState.Seats {
			if aiplayer.IsAI(seat) {
				hasAI = true
				break
			}
		}
		if !hasAI {
			return state, false, "match full"
		}
	}
	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		userID := p.GetUserId()
		matchState.Presences[userID] = p

		if _, exists := matchState.Game.Players[userID]; exists {
			continue // rejoin
		}

		assigned := false
		for i, seatUserID := range matchState.Seats {
			if seatUserID == "" {
				matchState.Seats[i] = userID
				assigned = true
				break
			}
		}
		if !assigned {
			for i, seatUserID := range matchState.Seats {
				if aiplayer.IsAI(seatUserID) {
					logger.Info("MatchJoin: Replacing AI %s with human %s in seat %d", seatUserID, userID, i)
					matchState.App.RemovePlayer(matchState.Game, seatUserID)
					delete(matchState.Agents, seatUserID)
					matchState.Seats[i] = userID
					assigned = true
					break
				}
			}
		}
		if !assigned {
			logger.Warn("MatchJoin: User %s joined but no seat was available.", userID)
			continue
		}

		role := domain.RolePlayer
		if matchState.OwnerSeat < 0 {
			role = domain.RoleHost
		}
		if _, err := matchState.App.AddPlayer(matchState.Game, userID, p.GetUsername(), role); err != nil {
			logger.Error("MatchJoin: Failed to add player %s: %v", userID, err)
			continue
		}

		evt, _ := json.Marshal(map[string]any{
			"user_id": userID,
			"name":    p.GetUsername(),
		})
		_ = dispatcher.BroadcastMessage(OpPlayerJoined, evt, nil, nil, true)
	}

	if !isHumanSeat(matchState.Seats[:], matchState.OwnerSeat) {
		matchState.OwnerSeat = findFirstHumanSeat(matchState.Seats[:])
		if matchState.OwnerSeat >= 0 {
			logger.Debug("MatchJoin: Owner set to human seat %d.", matchState.OwnerSeat)
		}
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastSnapshot(matchState, dispatcher, logger, nil)
	return matchState
}

// MatchLeave frees seats, drops ledgers and reassigns the owner.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		userID := p.GetUserId()
		delete(matchState.Presences, userID)
		matchState.App.RemovePlayer(matchState.Game, userID)

		for i, seatUserID := range matchState.Seats {
			if seatUserID == userID {
				matchState.Seats[i] = ""
				logger.Debug("MatchLeave: User %s left, seat %d freed.", userID, i)
				break
			}
		}

		evt, _ := json.Marshal(map[string]any{"user_id": userID})
		_ = dispatcher.BroadcastMessage(OpPlayerLeft, evt, nil, nil, true)
	}

	matchState.OwnerSeat = findFirstHumanSeat(matchState.Seats[:])

	if matchState.GetHumanPlayerCount() == 0 {
		logger.Info("MatchLeave: Terminating match with no humans.")
		return nil
	}
	if matchState.Game.Lifecycle == domain.LifecyclePlaying && len(matchState.Game.TurnOrder) < app.MinPlayersToStart {
		logger.Info("MatchLeave: Not enough players to continue, terminating.")
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}
	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartMatch:
			mh.handleStartMatch(ctx, matchState, dispatcher, logger, msg)
		case OpSubmitAction:
			mh.handleSubmitAction(ctx, matchState, dispatcher, logger, msg)
		case OpRequestSnapshot:
			mh.broadcastSnapshot(matchState, dispatcher, logger, []string{msg.GetUserId()})
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	if matchState.AIEnabled {
		mh.processAI(ctx, matchState, dispatcher, logger)
	}
	return matchState
}

func (mh *matchHandler) handleStartMatch(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderSeat := seatOf(state, msg.GetUserId())
	if senderSeat != state.OwnerSeat {
		logger.Warn("StartMatch: User %s tried to start but is not owner (owner_seat=%d)", msg.GetUserId(), state.OwnerSeat)
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), app.ErrNotOwner)
		return
	}

	events, err := state.App.StartMatch(state.Game)
	if err != nil {
		logger.Warn("StartMatch: %v", err)
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), err)
		return
	}

	mh.updateLabel(state, dispatcher, logger)
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
	logger.Info("StartMatch: Match started with %d players.", len(state.Game.TurnOrder))
}

func (mh *matchHandler) handleSubmitAction(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	var req ActionRequest
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		logger.Warn("SubmitAction: Invalid request from %s: %v", msg.GetUserId(), err)
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), app.ErrUnknownAction)
		return
	}

	action, err := decodeAction(req)
	if err != nil {
		logger.Warn("SubmitAction: Failed to decode %q from %s: %v", req.Type, msg.GetUserId(), err)
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), app.ErrUnknownAction)
		return
	}

	events, err := state.App.Apply(state.Game, msg.GetUserId(), action)
	if err != nil {
		logger.Warn("SubmitAction: User %s failed %q: %v", msg.GetUserId(), req.Type, err)
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), err)
		return
	}
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
}

// processAI fills lobby seats after a wait and drives AI turns as discrete
// action submissions, pacing them with a per-turn random delay.
func (mh *matchHandler) processAI(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Game.Lifecycle == domain.LifecycleWaiting {
		if state.GetHumanPlayerCount() == 1 {
			if state.LastSinglePlayerTick == 0 {
				state.LastSinglePlayerTick = state.Tick
			}
			if state.Tick-state.LastSinglePlayerTick >= int64(state.AIAutoFillDelay) {
				mh.fillWithAI(state, dispatcher, logger)
				state.LastSinglePlayerTick = 0
			}
		} else {
			state.LastSinglePlayerTick = 0
		}
		return
	}

	if state.Game.Lifecycle != domain.LifecyclePlaying {
		return
	}

	actorID, automated := state.App.NextActorIsAutomated(state.Game)
	if !automated {
		state.AIWaitUntil = 0
		return
	}

	if state.AIWaitUntil == 0 {
		delay := state.AIMinDelay
		if state.AIMaxDelay > state.AIMinDelay {
			delay += rand.Intn(state.AIMaxDelay - state.AIMinDelay + 1)
		}
		state.AIWaitUntil = state.Tick + int64(delay)
		return
	}
	if state.Tick < state.AIWaitUntil {
		return
	}
	state.AIWaitUntil = 0

	agent, exists := state.Agents[actorID]
	if !exists {
		agent = aiplayer.NewAgent(actorID, aiplayer.DisplayName(actorID))
		state.Agents[actorID] = agent
	}

	action := agent.Act(state.Game)
	events, err := state.App.Apply(state.Game, actorID, action)
	if err != nil {
		logger.Warn("processAI: Agent %s failed %q: %v; ending its turn", actorID, action.Kind(), err)
		events, err = state.App.Apply(state.Game, actorID, app.EndTurn{})
		if err != nil {
			logger.Error("processAI: Agent %s could not end turn: %v", actorID, err)
			return
		}
	}
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
}

// fillWithAI seats agents in every open seat of a waiting lobby.
func (mh *matchHandler) fillWithAI(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	added := false
	for i, seat := range state.Seats {
		if seat != "" {
			continue
		}
		identity := aiplayer.GetIdentity(i)
		if _, err := state.App.AddPlayer(state.Game, identity.UserID, identity.DisplayName, domain.RoleAI); err != nil {
			logger.Error("fillWithAI: Failed to add agent %s: %v", identity.UserID, err)
			continue
		}
		state.Seats[i] = identity.UserID
		state.Agents[identity.UserID] = aiplayer.NewAgent(identity.UserID, identity.DisplayName)
		logger.Info("fillWithAI: Added AI %s (%s) to seat %d", identity.DisplayName, identity.UserID, i)
		added = true
	}
	if added {
		mh.updateLabel(state, dispatcher, logger)
		mh.broadcastSnapshot(state, dispatcher, logger, nil)
	}
}

// broadcastEvents converts engine events to opcode messages.
func (mh *matchHandler) broadcastEvents(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	snapshotDue := false
	for _, ev := range events {
		var opCode int64
		var payload any

		switch ev.Kind {
		case app.EventMatchStarted:
			opCode = OpMatchStarted
			payload = ev.Payload
			snapshotDue = true
		case app.EventActionApplied:
			opCode = OpActionApplied
			p := ev.Payload.(app.ActionAppliedPayload)
			payload = ActionAppliedMessage{
				ActorID:          p.ActorID,
				Action:           string(p.Action),
				ActionPointsLeft: p.ActionPointsLeft,
				Detail:           p.Detail,
			}
		case app.EventTurnAdvanced:
			opCode = OpTurnAdvanced
			payload = ev.Payload
		case app.EventAutomataPhase:
			opCode = OpAutomataPhase
			payload = ev.Payload
		case app.EventMarketPhase:
			opCode = OpMarketPhase
			payload = ev.Payload
		case app.EventRoundStarted:
			opCode = OpRoundStarted
			payload = ev.Payload
			snapshotDue = true
		case app.EventMatchEnded:
			opCode = OpMatchEnded
			payload = ev.Payload
			snapshotDue = true
			ended := ev.Payload.(app.MatchEndedPayload)
			mh.settleWinner(ctx, state, logger, ended)
			mh.persistResult(ctx, state, logger, ended)
			mh.updateLabel(state, dispatcher, logger)
		default:
			logger.Warn("Unknown event kind: %v", ev.Kind)
			continue
		}

		data, err := json.Marshal(payload)
		if err != nil {
			logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
			continue
		}

		var recipients []runtime.Presence
		if len(ev.Recipients) > 0 {
			for _, uid := range ev.Recipients {
				if p, ok := state.Presences[uid]; ok {
					recipients = append(recipients, p)
				}
			}
			// Targeted events with no connected recipients (AI ledgers)
			// must not leak to everyone else.
			if len(recipients) == 0 {
				continue
			}
		}
		_ = dispatcher.BroadcastMessage(opCode, data, recipients, nil, true)
	}

	if snapshotDue {
		mh.broadcastSnapshot(state, dispatcher, logger, nil)
	}
}

// settleWinner credits the match prize to a human winner's wallet.
func (mh *matchHandler) settleWinner(ctx context.Context, state *MatchState, logger runtime.Logger, ended app.MatchEndedPayload) {
	if state.Settled || state.Economy == nil || state.Tuning.WinnerPrize <= 0 {
		return
	}
	if aiplayer.IsAI(ended.WinnerID) {
		return
	}
	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)
	err := state.Economy.UpdateBalances(ctx, []ports.WalletUpdate{{
		UserID: ended.WinnerID,
		Amount: state.Tuning.WinnerPrize,
		Metadata: map[string]interface{}{
			"match_id": matchID,
			"reason":   "match_prize",
			"victory":  string(ended.Victory),
		},
	}})
	if err != nil {
		logger.Error("settleWinner: Failed to credit %s: %v", ended.WinnerID, err)
		return
	}
	state.Settled = true
}

// persistResult records the outcome so the result token RPC can serve it
// after the match handler is gone.
func (mh *matchHandler) persistResult(ctx context.Context, state *MatchState, logger runtime.Logger, ended app.MatchEndedPayload) {
	if state.Results == nil {
		return
	}
	err := state.Results.Save(ctx, ports.MatchResult{
		MatchID:    state.Game.ID,
		WinnerID:   ended.WinnerID,
		Victory:    ended.Victory,
		Round:      ended.Round,
		FinishedAt: time.Now().UTC(),
	})
	if err != nil {
		logger.Error("persistResult: %v", err)
	}
}

func (mh *matchHandler) broadcastSnapshot(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userIDs []string) {
	data, err := json.Marshal(buildSnapshot(state.Game))
	if err != nil {
		logger.Error("Failed to marshal snapshot: %v", err)
		return
	}

	var recipients []runtime.Presence
	for _, uid := range userIDs {
		if p, ok := state.Presences[uid]; ok {
			recipients = append(recipients, p)
		}
	}
	if len(userIDs) > 0 && len(recipients) == 0 {
		return
	}
	_ = dispatcher.BroadcastMessage(OpSnapshot, data, recipients, nil, true)
}

// sendError sends a tagged rule error to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, err error) {
	data, mErr := json.Marshal(ErrorMessage{Kind: app.ErrorKind(err), Message: err.Error()})
	if mErr != nil {
		logger.Error("Failed to marshal error message: %v", mErr)
		return
	}
	presence, ok := state.Presences[userID]
	if !ok {
		// AI actors have no presence; their errors stay in the log.
		return
	}
	_ = dispatcher.BroadcastMessage(OpGameError, data, []runtime.Presence{presence}, nil, true)
}

func seatOf(state *MatchState, userID string) int {
	for i, seatUserID := range state.Seats {
		if seatUserID == userID {
			return i
		}
	}
	return -1
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	labelBytes, err := json.Marshal(Label{
		Open:  state.GetOpenSeatsCount(),
		Game:  "makerbazaar",
		State: string(state.Game.Lifecycle),
	})
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(string(labelBytes)); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
