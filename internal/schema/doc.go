// Package schema models Steam achievement schemas and converts them to and
// from the binary key-value tree written to UserGameStatsSchema_<appid>.bin.
//
// The typed model is a strict tree:
//
//	Schema            AppID -> GameSchema
//	GameSchema        name, version, stats (BlockID "1".. -> StatBlock)
//	StatBlock         type "4", id, bits ("0".."31" -> AchievementBitDef)
//	AchievementBitDef API name, bit index, display strings and icons
//
// [Build] turns the ordered achievement list returned by the Steam Web API
// into a GameSchema, packing 32 achievements per stat block. [Merge] folds a
// freshly built tree into one read from disk without losing keys that only
// exist on disk. [Store] reads and writes the files under appcache/stats.
package schema
