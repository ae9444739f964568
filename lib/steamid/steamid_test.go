package steamid

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAccountID(t *testing.T) {
	id := Parse("39734273")
	require.Equal(t, uint64(76561198000000001), id.Steam64)
	require.Equal(t, uint32(39734273), id.AccountID)
	require.True(t, id.Valid())
}

func TestParseSteam64(t *testing.T) {
	id := Parse("76561198000000001")
	require.Equal(t, uint64(76561198000000001), id.Steam64)
	require.Equal(t, uint32(39734273), id.AccountID)
}

func TestParseUnresolved(t *testing.T) {
	for _, token := range []string{
		"",
		"0",
		"STEAM_0:1:19867136",
		"not a number",
		"-1",
		// 64-bit range but below the base offset
		"4294967296",
	} {
		id := Parse(token)
		require.False(t, id.Valid(), "token %q should not resolve", token)
		require.Equal(t, SteamID{}, id)
	}
}

func TestRoundTrip(t *testing.T) {
	accountIDs := []uint32{1, 39734273, 4294967295, 1 << 16, 987654321}
	for _, accountID := range accountIDs {
		id := FromAccountID(accountID)
		require.Equal(t, accountID, FromSteam64(id.Steam64).AccountID)
	}

	steam64s := []uint64{
		Steam64Base + 1,
		76561198000000001,
		76561197960265728 + 4294967295,
	}
	for _, steam64 := range steam64s {
		id := FromSteam64(steam64)
		require.Equal(t, steam64, FromAccountID(id.AccountID).Steam64)
	}
}

func TestParseRoundTrip(t *testing.T) {
	for _, accountID := range []uint32{1, 42, 39734273, 4294967295} {
		long := Parse(fmt.Sprintf("%d", accountID)).Steam64
		require.Equal(t, accountID, Parse(fmt.Sprintf("%d", long)).AccountID)
	}
}

func TestProfileURL(t *testing.T) {
	id := FromSteam64(76561198000000001)
	require.Equal(t, "https://steamcommunity.com/profiles/76561198000000001", id.ProfileURL())
}
