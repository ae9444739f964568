package steamguard

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// base64 of "steamguard-test-secret!!"
const testSecret = "c3RlYW1ndWFyZC10ZXN0LXNlY3JldCEh"

func TestGenerateCode(t *testing.T) {
	testCases := []struct {
		unix     int64
		expected string
	}{
		{0, "WPGGM"},
		{1500000000, "Y95P5"},
		// same 30 second window
		{1500000029, "Y95P5"},
		// next window
		{1500000030, "BJ2BJ"},
		{1700000000, "FVHH7"},
	}

	for _, test := range testCases {
		code, err := GenerateCode(testSecret, time.Unix(test.unix, 0))
		require.NoError(t, err)
		require.Equal(t, test.expected, code)
	}
}

func TestGenerateCodeAlphabet(t *testing.T) {
	for offset := int64(0); offset < 100; offset++ {
		code, err := GenerateCode(testSecret, time.Unix(offset*30, 0))
		require.NoError(t, err)
		require.Len(t, code, 5)
		for _, c := range code {
			require.True(t, strings.ContainsRune(codeChars, c), "unexpected character %q", c)
		}
	}
}

func TestGenerateCodeBadSecret(t *testing.T) {
	_, err := GenerateCode("not base64!!!", time.Unix(0, 0))
	require.Error(t, err)
}
