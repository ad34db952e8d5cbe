package aiplayer

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
)

// IDPrefix marks user IDs belonging to AI stand-in players.
const IDPrefix = "ai:"

// Identity is one AI player profile from the data file.
type Identity struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarIndex int    `json:"avatar_index"`
}

var (
	identities []Identity
	nameByID   map[string]string
	loadOnce   sync.Once
	loadErr    error
)

// defaultIdentities seats matches when no profile file ships with the module.
var defaultIdentities = []Identity{
	{UserID: "ai:tinker-1", Username: "tinker1", DisplayName: "Tinker"},
	{UserID: "ai:solder-2", Username: "solder2", DisplayName: "Solder"},
	{UserID: "ai:gizmo-3", Username: "gizmo3", DisplayName: "Gizmo"},
	{UserID: "ai:widget-4", Username: "widget4", DisplayName: "Widget"},
}

// LoadIdentities loads the AI profiles from the given path. A missing file
// falls back to the built-in profiles.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		identities = defaultIdentities
		data, err := os.ReadFile(path)
		if err == nil {
			var fromFile []Identity
			if err := json.Unmarshal(data, &fromFile); err != nil {
				loadErr = fmt.Errorf("failed to unmarshal ai identities: %w", err)
			} else if len(fromFile) > 0 {
				identities = fromFile
			}
		} else if !os.IsNotExist(err) {
			loadErr = fmt.Errorf("failed to read ai identities: %w", err)
		}

		nameByID = make(map[string]string, len(identities))
		for _, id := range identities {
			nameByID[id.UserID] = id.DisplayName
		}
	})
	return loadErr
}

// GetIdentity returns the profile for a seat index, wrapping around when
// more seats than profiles exist.
func GetIdentity(seat int) Identity {
	if len(identities) == 0 {
		identities = defaultIdentities
	}
	return identities[seat%len(identities)]
}

// IsAI reports whether the given user ID belongs to a stand-in player.
func IsAI(userID string) bool {
	return strings.HasPrefix(userID, IDPrefix)
}

// DisplayName returns the profile name for an AI ID, or an empty string.
func DisplayName(userID string) string {
	if nameByID == nil {
		return ""
	}
	return nameByID[userID]
}
