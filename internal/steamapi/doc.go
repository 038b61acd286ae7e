// Package steamapi is a small client for the Steam Web API and the Steam
// store API.
//
// Only the endpoints slsah needs are covered: GetSchemaForGame (the
// achievement list a schema is built from), GetPlayerAchievements (unlock
// state for sync) and the store appdetails call (names for the app info
// cache).
//
// Requests run through a [RetryPolicy]. The default policy retries network
// errors and 5xx responses with exponential backoff and waits longer on
// HTTP 429. Other 4xx responses fail immediately. Request URLs are logged
// with the API key masked.
package steamapi
