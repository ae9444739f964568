package steamauth

const (
	// CommunityURL hosts the login endpoints.
	CommunityURL = "https://steamcommunity.com"
	StoreURL     = "https://store.steampowered.com"
	HelpURL      = "https://help.steampowered.com"
)

// sessionDomains are the subdomains that partition authentication state.
// The login endpoint only issues cookies for one of them, so a successful
// login replicates its cookies onto all three.
var sessionDomains = []string{
	"steamcommunity.com",
	"help.steampowered.com",
	"store.steampowered.com",
}
