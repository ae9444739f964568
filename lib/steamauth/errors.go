package steamauth

import "fmt"

var (
	// ErrLoginRequired is returned by operations that need an authenticated
	// session before Login has succeeded.
	ErrLoginRequired = fmt.Errorf("not logged in, call Login first")
	// ErrLogoutFailed means the logout request went through but the session
	// is still alive.
	ErrLogoutFailed = fmt.Errorf("logout did not end the session")
)

// TransportError covers network failures, non-2xx statuses and unparseable
// bodies on the login endpoints. It is always surfaced to the caller and
// never retried automatically.
type TransportError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request to %s failed: %s", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("request to %s failed with status %d", e.Endpoint, e.StatusCode)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// InvalidProxyError is returned at construction when the configured proxy
// address cannot be used.
type InvalidProxyError struct {
	Proxy string
	Err   error
}

func (e *InvalidProxyError) Error() string {
	return fmt.Sprintf("invalid proxy %q: %s", e.Proxy, e.Err)
}

func (e *InvalidProxyError) Unwrap() error {
	return e.Err
}

// CaptchaRequiredError means the server wants a captcha answer before it
// will consider the credentials.
type CaptchaRequiredError struct {
	GID     int64
	Message string
}

func (e *CaptchaRequiredError) Error() string {
	return fmt.Sprintf("captcha required (gid %d): %s", e.GID, e.Message)
}

// CaptchaURL returns the image to solve.
func (e *CaptchaRequiredError) CaptchaURL() string {
	return captchaURL(e.GID)
}

// CaptchaRequiredInvalidError means a captcha answer is required and the
// submitted password was rejected. The stored password has been cleared and
// must be supplied again.
type CaptchaRequiredInvalidError struct {
	GID     int64
	Message string
}

func (e *CaptchaRequiredInvalidError) Error() string {
	return fmt.Sprintf("captcha required, credentials rejected (gid %d): %s", e.GID, e.Message)
}

func (e *CaptchaRequiredInvalidError) CaptchaURL() string {
	return captchaURL(e.GID)
}

func captchaURL(gid int64) string {
	return fmt.Sprintf("%s/login/rendercaptcha/?gid=%d", CommunityURL, gid)
}

// EmailCodeRequiredError means a verification code was sent to the account's
// email address and must be submitted on the next attempt.
type EmailCodeRequiredError struct {
	Domain  string
	Message string
}

func (e *EmailCodeRequiredError) Error() string {
	return fmt.Sprintf("email code required (sent to %s address): %s", e.Domain, e.Message)
}

// TwoFactorRequiredError means a Steam Guard mobile code must be submitted
// on the next attempt.
type TwoFactorRequiredError struct {
	Message string
}

func (e *TwoFactorRequiredError) Error() string {
	return fmt.Sprintf("two-factor code required: %s", e.Message)
}

// TooManyFailuresError is terminal for the attempt cycle. The caller must
// back off or abort, never retry in a loop.
type TooManyFailuresError struct {
	Message string
}

func (e *TooManyFailuresError) Error() string {
	return fmt.Sprintf("too many login failures: %s", e.Message)
}

// IncorrectCredentialsError means the username or password is wrong. The
// stored password has been cleared.
type IncorrectCredentialsError struct {
	Message string
}

func (e *IncorrectCredentialsError) Error() string {
	return fmt.Sprintf("incorrect username or password: %s", e.Message)
}
