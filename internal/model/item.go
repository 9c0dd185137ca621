package model

// FlashPlayerID is the ledger key of the runtime binary
const FlashPlayerID = "flash_player"

// CustomVersion marks a user-supplied runtime in the ledger
const CustomVersion = "custom"

// Game identifiers tracked by the launcher
const (
	GamePTD1       = "PTD1"
	GamePTD1RF     = "PTD1RF"
	GamePTD1Hacked = "PTD1_Hacked"
	GamePTD2       = "PTD2"
	GamePTD2Hacked = "PTD2_Hacked"
	GamePTD3       = "PTD3"
	GamePTD3Hacked = "PTD3_Hacked"
)

// Game file naming
const (
	GameFileExt   = ".swf"
	VersionMarker = "-v"
)

// PokéCenter websites per game series
const (
	PokecenterPTD1 = "https://ptd.ooo/"
	PokecenterPTD2 = "https://ptd.ooo/ptd2/"
	PokecenterPTD3 = "https://ptd.ooo/ptd3/"
)

// KnownGames lists every game id in display order. The ledger always
// carries a key for each of them.
var KnownGames = []string{
	GamePTD1,
	GamePTD1RF,
	GamePTD1Hacked,
	GamePTD2,
	GamePTD2Hacked,
	GamePTD3,
	GamePTD3Hacked,
}

var displayNames = map[string]string{
	GamePTD1:       "Pokémon Tower Defense",
	GamePTD1RF:     "PTD 1 Regional Forms",
	GamePTD1Hacked: "PTD 1 Hacked",
	GamePTD2:       "Pokémon Tower Defense 2",
	GamePTD2Hacked: "PTD 2 Hacked",
	GamePTD3:       "Pokémon Tower Defense 3",
	GamePTD3Hacked: "PTD 3 Hacked",
	FlashPlayerID:  "Flash Player",
}

// IsKnownGame reports whether id is one of KnownGames
func IsKnownGame(id string) bool {
	_, ok := displayNames[id]
	return ok && id != FlashPlayerID
}

// DisplayName returns a human readable name for an item id
func DisplayName(id string) string {
	if name, ok := displayNames[id]; ok {
		return name
	}
	return id
}

// PokecenterURL returns the website for a game series, or "" if the game has none
func PokecenterURL(game string) string {
	switch game {
	case GamePTD1, GamePTD1RF, GamePTD1Hacked:
		return PokecenterPTD1
	case GamePTD2, GamePTD2Hacked:
		return PokecenterPTD2
	case GamePTD3, GamePTD3Hacked:
		return PokecenterPTD3
	default:
		return ""
	}
}

// GameFileName returns the canonical on-disk file name of a game
func GameFileName(id string) string {
	return id + GameFileExt
}
