package config

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrInvalidSteamID indicates input that is not a recognizable Steam ID.
var ErrInvalidSteamID = errors.New("invalid steam id")

// steamID64Base is the SteamID64 of account 0 in the public universe.
const steamID64Base uint64 = 76561197960265728

var (
	steam2Pattern  = regexp.MustCompile(`^STEAM_[0-5]:([01]):(\d+)$`)
	trailingDigits = regexp.MustCompile(`(\d+)]?$`)
	accountIDLimit = uint64(1) << 32
)

// SteamID is a Steam account in the public universe. Steam names the
// per-user stats files after the 32-bit account number.
type SteamID struct {
	Account uint32
}

// ParseSteamID accepts the forms users copy from profile sites:
//
//	[U:1:22202]            Steam3
//	STEAM_0:0:11101        Steam2
//	76561197960287930      SteamID64
//	22202                  bare account number
//
// Surrounding whitespace is ignored.
func ParseSteamID(s string) (SteamID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SteamID{}, errors.Wrap(ErrInvalidSteamID, "empty")
	}

	if m := steam2Pattern.FindStringSubmatch(s); m != nil {
		y, _ := strconv.ParseUint(m[1], 10, 64)
		z, err := strconv.ParseUint(m[2], 10, 64)
		if err != nil || z*2+y >= accountIDLimit {
			return SteamID{}, errors.Wrapf(ErrInvalidSteamID, "%q", s)
		}
		return SteamID{Account: uint32(z*2 + y)}, nil
	}

	m := trailingDigits.FindStringSubmatch(s)
	if m == nil {
		return SteamID{}, errors.Wrapf(ErrInvalidSteamID, "%q", s)
	}
	n, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return SteamID{}, errors.Wrapf(ErrInvalidSteamID, "%q", s)
	}
	if n >= steamID64Base {
		n -= steamID64Base
	}
	if n == 0 || n >= accountIDLimit {
		return SteamID{}, errors.Wrapf(ErrInvalidSteamID, "%q out of range", s)
	}
	return SteamID{Account: uint32(n)}, nil
}

// String returns the account number in decimal.
func (id SteamID) String() string {
	return strconv.FormatUint(uint64(id.Account), 10)
}

// ID64 returns the SteamID64 form used by the Web API.
func (id SteamID) ID64() uint64 {
	return steamID64Base + uint64(id.Account)
}
