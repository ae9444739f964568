// Package steamid models the numeric identity of a Steam account and the
// conversions between its 64-bit and 32-bit encodings.
package steamid

import "strconv"

// Steam64Base is the fixed offset between the 64-bit identifier and the
// 32-bit account identifier of an individual account.
const Steam64Base uint64 = 76561197960265728

const communityURL = "https://steamcommunity.com"

// SteamID holds both encodings of one account identity. The zero value means
// the identity is unresolved.
type SteamID struct {
	Steam64   uint64
	AccountID uint32
}

// FromSteam64 builds an identity from its 64-bit form.
func FromSteam64(id uint64) SteamID {
	if id < Steam64Base {
		return SteamID{}
	}
	return SteamID{
		Steam64:   id,
		AccountID: uint32(id - Steam64Base),
	}
}

// FromAccountID builds an identity from its 32-bit account form.
func FromAccountID(id uint32) SteamID {
	if id == 0 {
		return SteamID{}
	}
	return SteamID{
		Steam64:   uint64(id) + Steam64Base,
		AccountID: id,
	}
}

// Parse derives an identity from a decimal token in either encoding. Values
// below 2^32 are treated as the account form, anything else as the 64-bit
// form. Tokens that are not a decimal number, or 64-bit values below the
// base offset, yield the unresolved zero value.
func Parse(token string) SteamID {
	value, err := strconv.ParseUint(token, 10, 64)
	if err != nil {
		return SteamID{}
	}
	if value < 1<<32 {
		return FromAccountID(uint32(value))
	}
	return FromSteam64(value)
}

func (id SteamID) Valid() bool {
	return id.Steam64 != 0
}

// ProfileURL returns the canonical community profile link for the account.
func (id SteamID) ProfileURL() string {
	return communityURL + "/profiles/" + strconv.FormatUint(id.Steam64, 10)
}

func (id SteamID) String() string {
	return strconv.FormatUint(id.Steam64, 10)
}
