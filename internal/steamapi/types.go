package steamapi

import (
	"encoding/json"
	"strconv"

	"github.com/thoreinstein/slsah/internal/schema"
)

// GameInfo is the part of GetSchemaForGame a schema is built from.
type GameInfo struct {
	Name         string
	Version      uint32
	Achievements []schema.AchievementRecord
}

// PlayerAchievement is one entry of GetPlayerAchievements.
type PlayerAchievement struct {
	APIName    string `json:"apiname"`
	Achieved   int    `json:"achieved"`
	UnlockTime int64  `json:"unlocktime"`
}

// Unlocked reports whether the player has the achievement.
func (a PlayerAchievement) Unlocked() bool {
	return a.Achieved != 0
}

// AppDetails is the subset of the store's appdetails slsah caches.
type AppDetails struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type schemaResponse struct {
	Game gameSchema `json:"game"`
}

type gameSchema struct {
	GameName           string     `json:"gameName"`
	GameVersion        flexString `json:"gameVersion"`
	AvailableGameStats struct {
		Achievements []apiAchievement `json:"achievements"`
	} `json:"availableGameStats"`
}

type apiAchievement struct {
	Name         string `json:"name"`
	DisplayName  string `json:"displayName"`
	Description  string `json:"description"`
	Hidden       int    `json:"hidden"`
	Icon         string `json:"icon"`
	IconGray     string `json:"icongray"`
	DefaultValue int    `json:"defaultvalue"`
}

func (g gameSchema) info() *GameInfo {
	v, _ := strconv.ParseUint(string(g.GameVersion), 10, 32)
	info := &GameInfo{
		Name:         g.GameName,
		Version:      uint32(v),
		Achievements: make([]schema.AchievementRecord, 0, len(g.AvailableGameStats.Achievements)),
	}
	for _, a := range g.AvailableGameStats.Achievements {
		info.Achievements = append(info.Achievements, schema.AchievementRecord{
			APIName:     a.Name,
			DisplayName: a.DisplayName,
			Description: a.Description,
			Hidden:      a.Hidden != 0,
			IconURL:     a.Icon,
			IconGrayURL: a.IconGray,
		})
	}
	return info
}

type playerStatsResponse struct {
	PlayerStats struct {
		GameName     string              `json:"gameName"`
		Achievements []PlayerAchievement `json:"achievements"`
		Success      bool                `json:"success"`
		Error        string              `json:"error"`
	} `json:"playerstats"`
}

type appDetailsEnvelope struct {
	Success bool       `json:"success"`
	Data    AppDetails `json:"data"`
}

// flexString accepts a JSON string or number. gameVersion is a string
// in current responses and a number in some cached ones.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = flexString(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = flexString(n.String())
	return nil
}
