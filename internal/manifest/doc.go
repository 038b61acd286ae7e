// Package manifest reads Steam's text key-value files, such as
// steamapps/libraryfolders.vdf and appmanifest_<appid>.acf.
//
// The grammar is small: a document is a sequence of pairs, a pair is a key
// followed by either a string or a brace-delimited block of pairs. Keys and
// values are double-quoted (with backslash escapes) or bare words. Line
// comments start with "//" and conditional tags such as [$WIN32] are
// skipped.
//
// [Parse] is strict and reports the first syntax error with its line and
// column. [ParseAppIDs] is best effort: it collects the installed AppIDs
// from every "apps" block it reaches and never fails, so a manifest that is
// damaged part-way through still yields the IDs before the damage.
package manifest
