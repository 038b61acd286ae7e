// Package generate turns Steam Web API achievement lists into
// UserGameStatsSchema files.
//
// For every AppID the pipeline fetches the achievement list, builds the
// schema, and then, depending on the [Mode], writes it fresh, merges it
// into the schema already on disk, or leaves the existing file alone. When
// a Steam ID and stats template are configured, a missing user stats file
// is seeded from the template.
//
// AppIDs are independent and may be processed concurrently; each one owns
// its schema file.
package generate
