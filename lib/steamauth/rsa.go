package steamauth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/codes"
)

// rsaKeyMaterial is the server-issued public key for one username. The
// timestamp token must be echoed back unmodified on the next dologin.
type rsaKeyMaterial struct {
	Key       *rsa.PublicKey
	Timestamp string
}

type rsaKeyResponse struct {
	Success      bool   `json:"success"`
	PublicKeyMod string `json:"publickey_mod"`
	PublicKeyExp string `json:"publickey_exp"`
	Timestamp    string `json:"timestamp"`
}

func (c *Client) fetchKey(ctx context.Context, username string) (*rsaKeyMaterial, error) {
	ctx, span := tracer.Start(ctx, "steamauth:fetchKey")
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"username":   username,
			"donotcache": donotcache(),
		}).
		Post("/login/getrsakey/")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch rsa key")
		return nil, &TransportError{Endpoint: "/login/getrsakey/", Err: err}
	}
	if !res.IsSuccess() {
		span.SetStatus(codes.Error, "rsa key endpoint returned non-success status")
		return nil, &TransportError{Endpoint: "/login/getrsakey/", StatusCode: res.StatusCode()}
	}

	var body rsaKeyResponse
	if err := json.Unmarshal(res.Body(), &body); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse rsa key response")
		return nil, &TransportError{Endpoint: "/login/getrsakey/", Err: err}
	}

	key, err := parsePublicKey(body.PublicKeyMod, body.PublicKeyExp)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rsa key response carries unusable key material")
		return nil, &TransportError{Endpoint: "/login/getrsakey/", Err: err}
	}

	// the key endpoint issues session cookies of its own, they belong to
	// the replicated set just like the ones from dologin
	c.captureCookies(res.Cookies())
	return &rsaKeyMaterial{Key: key, Timestamp: body.Timestamp}, nil
}

func parsePublicKey(modHex, expHex string) (*rsa.PublicKey, error) {
	mod, ok := new(big.Int).SetString(modHex, 16)
	if !ok {
		return nil, strconv.ErrSyntax
	}
	exp, err := strconv.ParseInt(expHex, 16, 32)
	if err != nil {
		return nil, err
	}
	return &rsa.PublicKey{N: mod, E: int(exp)}, nil
}

// encryptPassword encrypts the password under the server's public key with
// PKCS#1 v1.5 padding and base64-encodes it for transport. Padding is
// randomized, so repeated calls produce different ciphertexts.
func encryptPassword(key *rsa.PublicKey, password string) (string, error) {
	ciphertext, err := rsa.EncryptPKCS1v15(rand.Reader, key, []byte(password))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// donotcache is the cache-busting nonce both login endpoints expect.
func donotcache() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}
