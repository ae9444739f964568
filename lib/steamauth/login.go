package steamauth

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/SecorD0/steamweb/lib/steamid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Credentials is everything a caller can supply for one login attempt. The
// password is cleared in place once the session succeeds or once the server
// says the credentials are fundamentally wrong.
type Credentials struct {
	Username      string
	Password      string
	CaptchaAnswer string
	EmailCode     string
	TwoFactorCode string
}

type loginResponse struct {
	Success            bool       `json:"success"`
	LoginComplete      bool       `json:"login_complete"`
	RequiresTwofactor  bool       `json:"requires_twofactor"`
	CaptchaNeeded      bool       `json:"captcha_needed"`
	ClearPasswordField bool       `json:"clear_password_field"`
	CaptchaGID         captchaGID `json:"captcha_gid"`
	EmailauthNeeded    bool       `json:"emailauth_needed"`
	EmailDomain        string     `json:"emaildomain"`
	EmailSteamID       string     `json:"emailsteamid"`
	Message            string     `json:"message"`
	OAuth              string     `json:"oauth"`
	TransferParameters struct {
		SteamID string `json:"steamid"`
	} `json:"transfer_parameters"`
}

// captchaGID tolerates the server sending the gid as either a JSON number
// or a decimal string.
type captchaGID int64

func (g *captchaGID) UnmarshalJSON(data []byte) error {
	token := strings.Trim(string(data), `"`)
	if token == "" || token == "null" {
		*g = captchaGID(noCaptchaGID)
		return nil
	}
	value, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		return err
	}
	*g = captchaGID(value)
	return nil
}

func (c *Client) submit(ctx context.Context, creds *Credentials) (*loginResponse, error) {
	ctx, span := tracer.Start(ctx, "steamauth:submit")
	defer span.End()
	span.SetAttributes(attribute.String("flavor", c.flavor.friendlyName()))

	encrypted, err := encryptPassword(c.key.Key, creds.Password)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to encrypt password")
		return nil, err
	}

	// the identity hint only accompanies an email code answer, it comes from
	// a prior emailauth_needed response
	emailSteamID := ""
	if creds.EmailCode != "" && c.session.SteamID.Valid() {
		emailSteamID = c.session.SteamID.String()
	}

	form := map[string]string{
		"username":          creds.Username,
		"password":          encrypted,
		"emailauth":         creds.EmailCode,
		"emailsteamid":      emailSteamID,
		"twofactorcode":     creds.TwoFactorCode,
		"captchagid":        strconv.FormatInt(c.session.CaptchaGID, 10),
		"captcha_text":      creds.CaptchaAnswer,
		"loginfriendlyname": c.flavor.friendlyName(),
		"rsatimestamp":      c.key.Timestamp,
		"remember_login":    "true",
		"donotcache":        donotcache(),
	}
	c.flavor.extendPayload(form)

	req := c.http.R().
		SetContext(ctx).
		SetFormData(form)
	for _, cookie := range c.flavor.requestCookies() {
		req.SetCookie(cookie)
	}

	res, err := req.Post("/login/dologin/")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to submit login")
		return nil, &TransportError{Endpoint: "/login/dologin/", Err: err}
	}
	if !res.IsSuccess() {
		span.SetStatus(codes.Error, "login endpoint returned non-success status")
		return nil, &TransportError{Endpoint: "/login/dologin/", StatusCode: res.StatusCode()}
	}

	var body loginResponse
	if err := json.Unmarshal(res.Body(), &body); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse login response")
		return nil, &TransportError{Endpoint: "/login/dologin/", Err: err}
	}

	c.captureCookies(res.Cookies())
	return &body, nil
}

// classify maps a non-successful login response onto exactly one typed
// outcome. The order matters: the server can set several flags at once.
func (c *Client) classify(res *loginResponse, creds *Credentials) error {
	switch {
	case res.CaptchaNeeded:
		gid := int64(res.CaptchaGID)
		c.session.CaptchaGID = gid
		creds.CaptchaAnswer = ""
		if res.ClearPasswordField {
			creds.Password = ""
			return &CaptchaRequiredInvalidError{GID: gid, Message: res.Message}
		}
		return &CaptchaRequiredError{GID: gid, Message: res.Message}

	case res.EmailauthNeeded:
		c.session.EmailDomain = res.EmailDomain
		c.session.SteamID = steamid.Parse(res.EmailSteamID)
		return &EmailCodeRequiredError{Domain: res.EmailDomain, Message: res.Message}

	case res.RequiresTwofactor:
		return &TwoFactorRequiredError{Message: res.Message}

	case strings.Contains(res.Message, "too many login failures"):
		return &TooManyFailuresError{Message: res.Message}

	default:
		creds.Password = ""
		return &IncorrectCredentialsError{Message: res.Message}
	}
}
