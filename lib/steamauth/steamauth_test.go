package steamauth

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/SecorD0/steamweb/lib/telemetry"

	"github.com/stretchr/testify/require"
)

const fakeTimestamp = "284926700000"

// fakeSteam is an in-process stand-in for the login endpoints. It holds the
// private half of the RSA key it hands out, so tests can verify the
// encrypted password round-trips.
type fakeSteam struct {
	key    *rsa.PrivateKey
	server *httptest.Server

	mu         sync.Mutex
	keyFetches int
	keyCookies []*http.Cookie
	loginForms []url.Values
	dologin    http.HandlerFunc
	loggedIn   bool
}

func newFakeSteam(t *testing.T) *fakeSteam {
	cleanup := telemetry.SetupForTesting(t, "test:steamauth")
	t.Cleanup(cleanup)

	key, err := rsa.GenerateKey(rand.Reader, 1024)
	require.NoError(t, err)

	f := &fakeSteam{key: key}

	mux := http.NewServeMux()
	mux.HandleFunc("/login/getrsakey/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.keyFetches++
		keyCookies := f.keyCookies
		f.mu.Unlock()
		for _, cookie := range keyCookies {
			http.SetCookie(w, cookie)
		}
		fmt.Fprintf(
			w,
			`{"success":true,"publickey_mod":"%s","publickey_exp":"10001","timestamp":"%s"}`,
			f.key.N.Text(16),
			fakeTimestamp,
		)
	})
	mux.HandleFunc("/login/dologin/", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.loginForms = append(f.loginForms, r.PostForm)
		dologin := f.dologin
		f.mu.Unlock()
		dologin(w, r)
	})

	mux.HandleFunc("/logout/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.loggedIn = false
		f.mu.Unlock()
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		loggedIn := f.loggedIn
		f.mu.Unlock()
		if loggedIn {
			fmt.Fprint(w, `<html><body><span id="account_pulldown">testuser</span></body></html>`)
			return
		}
		fmt.Fprint(w, `<html><body>Welcome, guest</body></html>`)
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeSteam) newClient(t *testing.T, opts Options) *Client {
	opts.BaseURL = f.server.URL
	opts.StoreBaseURL = f.server.URL
	client, err := NewClient(opts)
	require.NoError(t, err)
	return client
}

// respond installs a fixed dologin response body.
func (f *fakeSteam) respond(body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dologin = func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	}
}

// respondSequence installs dologin responses consumed one per attempt, the
// last one repeating.
func (f *fakeSteam) respondSequence(bodies ...string) {
	attempt := 0
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dologin = func(w http.ResponseWriter, r *http.Request) {
		body := bodies[min(attempt, len(bodies)-1)]
		attempt++
		fmt.Fprint(w, body)
	}
}

func (f *fakeSteam) lastForm(t *testing.T) url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.loginForms)
	return f.loginForms[len(f.loginForms)-1]
}

func (f *fakeSteam) decryptPassword(t *testing.T, form url.Values) string {
	ciphertext, err := base64.StdEncoding.DecodeString(form.Get("password"))
	require.NoError(t, err)
	plaintext, err := rsa.DecryptPKCS1v15(nil, f.key, ciphertext)
	require.NoError(t, err)
	return string(plaintext)
}
