package steamauth

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/SecorD0/steamweb/lib/steamid"
)

// LoginFlavor is the dialect spoken to the login endpoints. The web and
// mobile flavors differ only in extra payload fields and in where the
// account identity lives on a successful response.
type LoginFlavor interface {
	friendlyName() string
	extendPayload(form map[string]string)
	// requestCookies are attached to the dologin request only, never stored
	// in the client's jar.
	requestCookies() []*http.Cookie
	// extractIdentity reads the identity (and oauth token, mobile only) out
	// of a successful login response. Any other response shape is an error,
	// never guessed at.
	extractIdentity(res *loginResponse) (steamid.SteamID, string, error)
}

var (
	// Web authenticates a browser-style session.
	Web LoginFlavor = webFlavor{}
	// Mobile authenticates a mobile-app-style session and yields an oauth
	// token alongside the cookies.
	Mobile LoginFlavor = mobileFlavor{}
)

type webFlavor struct{}

func (webFlavor) friendlyName() string { return "webauth" }

func (webFlavor) extendPayload(map[string]string) {}

func (webFlavor) requestCookies() []*http.Cookie { return nil }

func (webFlavor) extractIdentity(res *loginResponse) (steamid.SteamID, string, error) {
	id := steamid.Parse(res.TransferParameters.SteamID)
	if !id.Valid() {
		return steamid.SteamID{}, "", fmt.Errorf(
			"login response carries no usable transfer_parameters.steamid: %q",
			res.TransferParameters.SteamID,
		)
	}
	return id, "", nil
}

type mobileFlavor struct{}

func (mobileFlavor) friendlyName() string { return "mobileauth" }

func (mobileFlavor) extendPayload(form map[string]string) {
	form["oauth_client_id"] = "DE45CD61"
	form["oauth_scope"] = "read_profile write_profile read_client write_client"
}

func (mobileFlavor) requestCookies() []*http.Cookie {
	return []*http.Cookie{
		{Name: "mobileClientVersion", Value: "0 (2.1.3)"},
		{Name: "mobileClient", Value: "android"},
	}
}

func (mobileFlavor) extractIdentity(res *loginResponse) (steamid.SteamID, string, error) {
	if res.OAuth == "" {
		return steamid.SteamID{}, "", fmt.Errorf("login response carries no oauth parameters")
	}
	var params struct {
		SteamID    string `json:"steamid"`
		OAuthToken string `json:"oauth_token"`
	}
	if err := json.Unmarshal([]byte(res.OAuth), &params); err != nil {
		return steamid.SteamID{}, "", fmt.Errorf("failed to parse oauth parameters: %w", err)
	}
	id := steamid.Parse(params.SteamID)
	if !id.Valid() {
		return steamid.SteamID{}, "", fmt.Errorf(
			"oauth parameters carry no usable steamid: %q", params.SteamID,
		)
	}
	return id, params.OAuthToken, nil
}
