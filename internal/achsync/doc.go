// Package achsync copies achievement unlocks into a Steam user stats file.
//
// Unlocks come from a Goldberg emulator save (achiev.ini) or from the
// player's Web API achievements. Every achievement entry of the stats file
// whose name is unlocked and whose unlock_time is unset gets a timestamp.
// Entries that already carry one are left alone, so syncing twice changes
// nothing.
package achsync
