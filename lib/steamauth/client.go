// Package steamauth logs into a Steam account over the web login endpoints
// and maintains the authenticated session: RSA password encryption, the
// captcha/email/two-factor challenge handling and the cross-domain cookie
// replication that makes every service subdomain recognize the session.
package steamauth

import (
	"bytes"
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/SecorD0/steamweb/lib/telemetry"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/net/publicsuffix"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

// Options configures one Client.
type Options struct {
	// Flavor selects the login dialect, defaults to Web.
	Flavor LoginFlavor
	// Proxy in "[http://][login:password@]host:port" form, empty for a
	// direct connection.
	Proxy string
	// Language is the Steam_Language cookie value, defaults to "english".
	Language string
	// Timeout bounds every request, defaults to 15s.
	Timeout time.Duration

	// BaseURL and StoreBaseURL override the real endpoints, for tests.
	BaseURL      string
	StoreBaseURL string
}

// Client owns one login session. Construct one Client per account; a Client
// must not run more than one login attempt at a time, and its state is never
// shared between instances.
type Client struct {
	http     *resty.Client
	flavor   LoginFlavor
	storeURL string

	key      *rsaKeyMaterial
	session  *Session
	username string
	// cookies issued by the login endpoints, by name
	issued map[string]*http.Cookie
}

func NewClient(opts Options) (*Client, error) {
	httpClient := resty.New()

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = CommunityURL
	}
	storeURL := opts.StoreBaseURL
	if storeURL == "" {
		storeURL = StoreURL
	}
	httpClient.SetBaseURL(baseURL)

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}
	httpClient.SetCookieJar(jar)

	httpClient.SetHeaders(map[string]string{
		"Origin":     StoreURL,
		"Referer":    StoreURL + "/",
		"User-Agent": userAgent,
	})

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = time.Second * 15
	}
	httpClient.SetTimeout(timeout)

	if opts.Proxy != "" {
		proxy := opts.Proxy
		if !strings.Contains(proxy, "://") {
			proxy = "http://" + proxy
		}
		if _, err := url.Parse(proxy); err != nil {
			return nil, &InvalidProxyError{Proxy: opts.Proxy, Err: err}
		}
		httpClient.SetProxy(proxy)
	}

	telemetry.InstrumentResty(httpClient, "steamweb/steamauth/http")

	flavor := opts.Flavor
	if flavor == nil {
		flavor = Web
	}
	language := opts.Language
	if language == "" {
		language = "english"
	}

	return &Client{
		http:     httpClient,
		flavor:   flavor,
		storeURL: storeURL,
		session:  newSession(language),
		issued:   map[string]*http.Cookie{},
	}, nil
}

// Session exposes the current authentication state, read-only.
func (c *Client) Session() Session {
	return *c.session
}

// Login runs one attempt of the login state machine: fetch the RSA key if
// absent, encrypt the password, submit, classify. On success the live
// session is returned; every challenge or failure comes back as a typed
// error the caller can answer and retry with. The key is fetched once per
// Client and reused across retries.
func (c *Client) Login(ctx context.Context, creds *Credentials) (*Session, error) {
	ctx, span := tracer.Start(ctx, "steamauth:Login")
	defer span.End()

	if c.session.Authenticated {
		return c.session, nil
	}

	if c.key == nil {
		key, err := c.fetchKey(ctx, creds.Username)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to fetch rsa key")
			return nil, err
		}
		c.key = key
	}

	res, err := c.submit(ctx, creds)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to submit login")
		return nil, err
	}

	if res.Success && res.LoginComplete {
		c.username = creds.Username
		return c.finalize(ctx, res, creds)
	}

	err = c.classify(res, creds)
	span.SetStatus(codes.Error, err.Error())
	return nil, err
}

// IsSessionAlive reports whether the server still recognizes the session,
// by looking for the logged-in account menu on the community front page.
func (c *Client) IsSessionAlive(ctx context.Context) (bool, error) {
	ctx, span := tracer.Start(ctx, "steamauth:IsSessionAlive")
	defer span.End()

	if !c.session.Authenticated {
		return false, ErrLoginRequired
	}

	res, err := c.http.R().
		SetContext(ctx).
		Get("/")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch community page")
		return false, &TransportError{Endpoint: "/", Err: err}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse community page")
		return false, err
	}

	if strings.TrimSpace(doc.Find("#account_pulldown").Text()) != "" {
		return true, nil
	}
	if c.username == "" {
		return false, nil
	}
	return strings.Contains(
		strings.ToLower(res.String()),
		strings.ToLower(c.username),
	), nil
}

// Logout ends the session on the server side and verifies it actually died.
func (c *Client) Logout(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "steamauth:Logout")
	defer span.End()

	if !c.session.Authenticated {
		return ErrLoginRequired
	}

	_, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{"sessionid": c.session.SessionID}).
		Post(c.storeURL + "/logout/")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to submit logout")
		return &TransportError{Endpoint: "/logout/", Err: err}
	}

	alive, err := c.IsSessionAlive(ctx)
	if err != nil {
		return err
	}
	if alive {
		span.SetStatus(codes.Error, ErrLogoutFailed.Error())
		return ErrLogoutFailed
	}

	c.session.Authenticated = false
	return nil
}
