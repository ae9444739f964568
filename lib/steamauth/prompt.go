package steamauth

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Prompter supplies answers for login challenges that need a human.
type Prompter interface {
	// Credentials asks for a username/password pair. It is called once at
	// the start and again whenever the server rejects the pair.
	Credentials() (username, password string, err error)
	CaptchaAnswer(captchaURL string) (string, error)
	EmailCode(domain, username string) (string, error)
	TwoFactorCode(username string) (string, error)
}

// PromptLogin drives repeated login attempts, asking the prompter for
// whatever challenge data the server demands, until the login succeeds.
// TooManyFailuresError and TransportError are terminal for the cycle and
// propagate immediately: backoff policy belongs to the caller, never here.
func PromptLogin(ctx context.Context, client *Client, prompter Prompter) (*Session, error) {
	creds := &Credentials{}
	var err error
	creds.Username, creds.Password, err = prompter.Credentials()
	if err != nil {
		return nil, err
	}

	for {
		session, err := client.Login(ctx, creds)
		if err == nil {
			return session, nil
		}

		var captchaInvalid *CaptchaRequiredInvalidError
		var captcha *CaptchaRequiredError
		var emailCode *EmailCodeRequiredError
		var twoFactor *TwoFactorRequiredError
		var incorrect *IncorrectCredentialsError

		switch {
		case errors.As(err, &captchaInvalid):
			// the password was rejected along with the captcha demand
			creds.Username, creds.Password, err = prompter.Credentials()
			if err != nil {
				return nil, err
			}
			creds.CaptchaAnswer, err = prompter.CaptchaAnswer(captchaInvalid.CaptchaURL())
			if err != nil {
				return nil, err
			}

		case errors.As(err, &captcha):
			creds.CaptchaAnswer, err = prompter.CaptchaAnswer(captcha.CaptchaURL())
			if err != nil {
				return nil, err
			}

		case errors.As(err, &emailCode):
			creds.EmailCode, err = prompter.EmailCode(emailCode.Domain, creds.Username)
			if err != nil {
				return nil, err
			}
			creds.TwoFactorCode = ""

		case errors.As(err, &twoFactor):
			creds.TwoFactorCode, err = prompter.TwoFactorCode(creds.Username)
			if err != nil {
				return nil, err
			}
			creds.EmailCode = ""

		case errors.As(err, &incorrect):
			creds.Username, creds.Password, err = prompter.Credentials()
			if err != nil {
				return nil, err
			}

		default:
			return nil, err
		}
	}
}

// ConsolePrompter asks for challenge answers on a terminal.
type ConsolePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewConsolePrompter(in io.Reader, out io.Writer) *ConsolePrompter {
	return &ConsolePrompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

func (p *ConsolePrompter) readLine(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (p *ConsolePrompter) Credentials() (string, string, error) {
	username, err := p.readLine("Enter the username: ")
	if err != nil {
		return "", "", err
	}
	password, err := p.readLine("Enter the password: ")
	if err != nil {
		return "", "", err
	}
	return username, password, nil
}

func (p *ConsolePrompter) CaptchaAnswer(captchaURL string) (string, error) {
	fmt.Fprintf(p.out, "Solve the captcha at %s\n", captchaURL)
	return p.readLine("Enter the captcha answer: ")
}

func (p *ConsolePrompter) EmailCode(domain, username string) (string, error) {
	return p.readLine(fmt.Sprintf("Enter the code from the %s email for %s: ", domain, username))
}

func (p *ConsolePrompter) TwoFactorCode(username string) (string, error) {
	return p.readLine(fmt.Sprintf("Enter the two-factor code for %s: ", username))
}
