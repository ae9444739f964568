package steamauth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncryptPasswordRoundTrip(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 1024)
	require.NoError(t, err)

	first, err := encryptPassword(&key.PublicKey, "hunter2")
	require.NoError(t, err)
	second, err := encryptPassword(&key.PublicKey, "hunter2")
	require.NoError(t, err)

	// padding is randomized, identical plaintexts must still be allowed to
	// produce different ciphertexts
	require.NotEqual(t, first, second)

	for _, encrypted := range []string{first, second} {
		ciphertext, err := base64.StdEncoding.DecodeString(encrypted)
		require.NoError(t, err)
		plaintext, err := rsa.DecryptPKCS1v15(nil, key, ciphertext)
		require.NoError(t, err)
		require.Equal(t, "hunter2", string(plaintext))
	}
}

func TestParsePublicKey(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 1024)
	require.NoError(t, err)

	parsed, err := parsePublicKey(key.N.Text(16), "10001")
	require.NoError(t, err)
	require.Equal(t, 0, parsed.N.Cmp(key.N))
	require.Equal(t, 65537, parsed.E)

	_, err = parsePublicKey("not hex at all zzz", "10001")
	require.Error(t, err)
	_, err = parsePublicKey(key.N.Text(16), "zzz")
	require.Error(t, err)
}

func TestFetchKeyTransportErrors(t *testing.T) {
	status := http.StatusInternalServerError
	body := ""
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(Options{BaseURL: server.URL, StoreBaseURL: server.URL})
	require.NoError(t, err)

	creds := &Credentials{Username: "testuser", Password: "hunter2"}
	_, err = client.Login(context.Background(), creds)
	var transport *TransportError
	require.ErrorAs(t, err, &transport)
	require.Equal(t, http.StatusInternalServerError, transport.StatusCode)

	status = http.StatusOK
	body = `{"publickey_mod": "definitely not hex"`
	_, err = client.Login(context.Background(), creds)
	require.ErrorAs(t, err, &transport)
}
