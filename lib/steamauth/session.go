package steamauth

import (
	"context"
	"crypto/rand"
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"net/url"

	"github.com/SecorD0/steamweb/lib/steamid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// noCaptchaGID marks that no captcha challenge is pending.
const noCaptchaGID int64 = -1

// Session is the authentication state of one Client. It is owned by the
// Client and must be treated as read-only by callers.
type Session struct {
	Authenticated bool
	SessionID     string
	SteamID       steamid.SteamID
	// OAuthToken is only set by the mobile flavor.
	OAuthToken  string
	EmailDomain string
	CaptchaGID  int64
	Language    string
}

func newSession(language string) *Session {
	return &Session{
		CaptchaGID: noCaptchaGID,
		Language:   language,
	}
}

// finalize turns a successful login response into a live session: it derives
// the identity, generates the session identifier and replicates cookies
// across the service domains.
func (c *Client) finalize(ctx context.Context, res *loginResponse, creds *Credentials) (*Session, error) {
	_, span := tracer.Start(ctx, "steamauth:finalize")
	defer span.End()

	id, oauthToken, err := c.flavor.extractIdentity(res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to extract identity")
		return nil, err
	}

	creds.Password = ""
	creds.CaptchaAnswer = ""
	c.session.CaptchaGID = noCaptchaGID
	c.session.SteamID = id
	c.session.OAuthToken = oauthToken

	sessionID, err := generateSessionID()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to generate session id")
		return nil, err
	}
	c.session.SessionID = sessionID

	c.replicateCookies()
	c.session.Authenticated = true

	span.SetAttributes(attribute.String("steamid", id.String()))
	return c.session, nil
}

// generateSessionID produces the opaque client-side session token: the
// SHA-1 of 32 random bytes, truncated to 32 lowercase hex characters.
func generateSessionID() (string, error) {
	nonce := make([]byte, 32)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	sum := sha1.Sum(nonce)
	return hex.EncodeToString(sum[:])[:32], nil
}

// captureCookies remembers cookies issued by the login endpoints, keyed by
// name, so they can later be replicated with their secure flag intact. The
// jar alone cannot serve this: it does not expose cookie attributes.
func (c *Client) captureCookies(cookies []*http.Cookie) {
	for _, cookie := range cookies {
		c.issued[cookie.Name] = cookie
	}
}

// replicateCookies copies every cookie issued during login, unchanged in
// name, value and secure flag, onto each service domain, and adds the
// language preference, the sentinel birth date and the generated session
// identifier.
func (c *Client) replicateCookies() {
	jar := c.http.GetClient().Jar
	for _, domain := range sessionDomains {
		endpoint := &url.URL{Scheme: "https", Host: domain}
		jar.SetCookies(endpoint, replicatedCookies(c.issued, domain, c.session.Language, c.session.SessionID))
	}
}

func replicatedCookies(issued map[string]*http.Cookie, domain, language, sessionID string) []*http.Cookie {
	var cookies []*http.Cookie
	for _, cookie := range issued {
		cookies = append(cookies, &http.Cookie{
			Name:   cookie.Name,
			Value:  cookie.Value,
			Secure: cookie.Secure,
			Domain: domain,
			Path:   "/",
		})
	}
	cookies = append(cookies,
		&http.Cookie{Name: "Steam_Language", Value: language, Domain: domain, Path: "/"},
		&http.Cookie{Name: "birthtime", Value: "-3333", Domain: domain, Path: "/"},
		&http.Cookie{Name: "sessionid", Value: sessionID, Domain: domain, Path: "/"},
	)
	return cookies
}
