package schema

import (
	"cmp"
	"slices"
	"strconv"
)

// BitfieldType is the stat type code Steam uses for achievement bitfields.
const BitfieldType = "4"

// BitsPerBlock is the number of achievement slots in one stat block.
const BitsPerBlock = 32

// DefaultLanguage is the localization key used when none is configured.
const DefaultLanguage = "english"

// Schema maps an AppID (decimal string) to its game schema.
type Schema map[string]*GameSchema

// GameSchema is the achievement definition of one game.
type GameSchema struct {
	AppID   string
	Name    string
	Version uint32
	Stats   map[string]*StatBlock
}

// StatBlock groups up to 32 achievement bits.
type StatBlock struct {
	Type string
	ID   string
	Bits map[string]*AchievementBitDef
}

// AchievementBitDef describes one achievement slot.
type AchievementBitDef struct {
	APIName  string
	BitIndex int
	Display  Display
}

// Display holds the player-facing strings of an achievement.
type Display struct {
	Name     LocalizedText
	Desc     LocalizedText
	Hidden   string
	Icon     string
	IconGray string
}

// LocalizedText is a set of translations plus the localization token.
type LocalizedText struct {
	Text  map[string]string
	Token string
}

// AchievementRecord is one achievement as reported by the Steam Web API.
type AchievementRecord struct {
	APIName     string
	DisplayName string
	Description string
	Hidden      bool
	IconURL     string
	IconGrayURL string
}

// AchievementCount returns the number of bits across all blocks.
func (g *GameSchema) AchievementCount() int {
	n := 0
	for _, b := range g.Stats {
		n += len(b.Bits)
	}
	return n
}

// Achievements returns every bit definition ordered by block then bit.
func (g *GameSchema) Achievements() []*AchievementBitDef {
	var out []*AchievementBitDef
	for _, id := range sortedNumeric(g.Stats) {
		block := g.Stats[id]
		for _, bit := range sortedNumeric(block.Bits) {
			out = append(out, block.Bits[bit])
		}
	}
	return out
}

// sortedNumeric returns the keys of m ordered by numeric value. Keys that are
// not numbers sort after numbers, lexically.
func sortedNumeric[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareNumeric)
	return keys
}

func compareNumeric(a, b string) int {
	na, errA := strconv.ParseInt(a, 10, 64)
	nb, errB := strconv.ParseInt(b, 10, 64)
	switch {
	case errA == nil && errB == nil:
		return cmp.Compare(na, nb)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return cmp.Compare(a, b)
	}
}
