// Package slsconfig edits the SLSsteam config.yaml.
//
// The file is hand-maintained and heavily commented, so it is never
// re-serialized. Reads parse the whole document with gopkg.in/yaml.v3;
// writes splice one top-level section as text and leave every other byte
// alone. [WriteSection] is a pure function over the file contents, and
// [Store] wraps it with read-modify-write, a backup before each mutation,
// and an atomic replace of the file.
//
// The two sections slsah manages are AdditionalApps (a list of AppIDs) and
// FakeAppIds (AppID to AppID, used for online play through Spacewar).
package slsconfig
