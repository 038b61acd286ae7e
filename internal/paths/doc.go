// Package paths resolves the file system locations slsah works with.
//
// Two families of paths are covered: slsah's own configuration (under the
// XDG config home, via github.com/adrg/xdg) and the Steam/SLSsteam
// locations it edits:
//
//	| Location              | Default                                        |
//	|-----------------------|------------------------------------------------|
//	| Steam root            | ~/.steam/steam, then ~/.local/share/Steam,     |
//	|                       | then the Flatpak sandbox                       |
//	| Schema/stats files    | <steam>/appcache/stats                         |
//	| Library manifest      | <steam>/steamapps/libraryfolders.vdf           |
//	| Goldberg saves        | <steam>/goldberg_saves/<appid>/achiev.ini      |
//	| SLSsteam config       | ~/.config/SLSsteam/config.yaml                 |
//	| App info cache        | ~/.config/SLSsteam/appinfo_cache.json          |
//	| Config backups        | ~/.config/SLSsteam/backup/                     |
//
// Functions derived from a root return an empty string when that root is
// empty, so callers can tell "not configured" from a real path.
//
// Nothing here is cached in package state. Callers resolve defaults once
// and pass explicit paths to the components that need them.
package paths
