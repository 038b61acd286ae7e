// Package vdf encodes and decodes Steam's binary key-value format, the
// serialization used by the UserGameStatsSchema_<appid>.bin and
// UserGameStats_<steamid>_<appid>.bin files under appcache/stats.
//
// # Wire Format
//
// A document is a sequence of type-tagged entries. Every entry starts with a
// one-byte tag followed by a NUL-terminated key:
//
//	0x00  nested map; its entries follow, closed by a standalone 0x08
//	0x01  string; NUL-terminated value
//	0x02  int32; 4 bytes little-endian
//	0x03  float32; 4 bytes little-endian
//	0x07  uint64; 8 bytes little-endian
//	0x0A  int64; 8 bytes little-endian
//	0x08  end of the enclosing map
//
// The document root is an implicit map closed by its own 0x08, so a schema
// file for one game reads 0x00 "<appid>" ... 0x08 0x08.
//
// # Type Preservation
//
// [Map] keeps entries in wire order and records the declared tag of every
// value. [Encode] writes exactly the tags that [Decode] read, so a decoded
// file re-encodes byte-for-byte. Consumers such as the Steam client are
// sensitive to a field changing from int32 to string, so callers that edit a
// tree should replace values with ones of the same [Kind].
//
// # Errors
//
// [Decode] rejects truncated input, unknown tags and unterminated maps with
// an error matching [ErrMalformedBinary]. It never returns a partial tree.
package vdf
