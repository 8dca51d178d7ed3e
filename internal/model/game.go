package model

import "fmt"

// Game identifies a title on the platform
type Game string

const (
	GameHonkai        Game = "honkai3rd"
	GameGenshin       Game = "genshin"
	GameTearsOfThemis Game = "tot"
	GameStarRail      Game = "hkrpg"
	GameZenless       Game = "nap"
)

// cardIDs maps each game to the game_id used by the record card summary
var cardIDs = map[Game]int{
	GameHonkai:        1,
	GameGenshin:       2,
	GameTearsOfThemis: 4,
	GameStarRail:      6,
	GameZenless:       8,
}

// AllGames returns every known game in record card id order
func AllGames() []Game {
	return []Game{GameHonkai, GameGenshin, GameTearsOfThemis, GameStarRail, GameZenless}
}

// CardID returns the record card game_id, or 0 for an unknown game
func (g Game) CardID() int {
	return cardIDs[g]
}

// IsValid returns true if the game is known
func (g Game) IsValid() bool {
	_, ok := cardIDs[g]
	return ok
}

// GameFromCardID maps a record card game_id back to a Game
func GameFromCardID(id int) (Game, bool) {
	for g, cid := range cardIDs {
		if cid == id {
			return g, true
		}
	}
	return "", false
}

// ParseGame accepts either the platform name ("hkrpg") or a common alias ("starrail")
func ParseGame(s string) (Game, error) {
	switch s {
	case "honkai3rd", "honkai", "bh3":
		return GameHonkai, nil
	case "genshin", "gi":
		return GameGenshin, nil
	case "tot", "themis":
		return GameTearsOfThemis, nil
	case "hkrpg", "starrail", "hsr":
		return GameStarRail, nil
	case "nap", "zenless", "zzz":
		return GameZenless, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGame, s)
}

func (g Game) String() string {
	return string(g)
}
