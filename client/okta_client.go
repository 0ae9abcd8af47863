package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/okta-tools/okta-aws/credentials"
	"github.com/okta-tools/okta-aws/credentials/helpers"
	"github.com/okta-tools/okta-aws/shared"
	"golang.org/x/net/publicsuffix"
)

// appLinkPageLimit is the page size requested from the appLinks API.  Results beyond the
// first page are not fetched, matching the behavior this tool has always had.
const appLinkPageLimit = 1000

const sessionCookieName = "sid"

// OktaClient talks to the Okta API endpoints needed for the credential exchange pipeline:
// primary authentication, session creation/validation, assigned application listing, and
// SAML assertion retrieval.
type OktaClient struct {
	// MfaTokenProvider supplies the TOTP passcode when the authentication flow requires it.
	MfaTokenProvider func() (string, error)
	Logger           shared.Logger

	baseUrl    *url.URL
	httpClient *http.Client
}

// NewOktaClient creates a client for the given Okta server.  The server may be a bare
// domain ("example.okta.com"), https is assumed when no scheme is present.
func NewOktaClient(server string) (*OktaClient, error) {
	if !strings.Contains(server, "://") {
		server = "https://" + server
	}

	u, err := url.Parse(server)
	if err != nil {
		return nil, err
	}

	if !strings.HasPrefix(u.Scheme, "http") || len(u.Host) < 1 {
		return nil, errors.New("invalid okta server URL")
	}

	// never errors with these options
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})

	return &OktaClient{
		MfaTokenProvider: helpers.NewMfaTokenProvider(os.Stdin).ReadInput,
		Logger:           new(shared.DefaultLogger),
		baseUrl:          u,
		httpClient:       &http.Client{Jar: jar},
	}, nil
}

// ValidateSession probes the sessions API using the supplied session identifier.  Only a
// successful response means the session is still valid, any other outcome (including
// transport errors) is treated as "not logged in" and never escalated to an error.
func (c *OktaClient) ValidateSession(ctx context.Context, sessionId string) bool {
	c.Logger.Debugf("Verifying if we are already logged in")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiUrl("/api/v1/sessions/me"), http.NoBody)
	if err != nil {
		return false
	}
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: sessionId})

	res, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer res.Body.Close()

	loggedIn := res.StatusCode == http.StatusOK
	c.Logger.Debugf("Logged in: %t", loggedIn)
	return loggedIn
}

// Authenticate performs primary authentication against the authn API and returns the
// single-use session token, handling the TOTP MFA factor when the response asks for it.
func (c *OktaClient) Authenticate(ctx context.Context, username, password string) (string, error) {
	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return "", err
	}

	res, err := c.postJson(ctx, c.apiUrl("/api/v1/authn"), body)
	if err != nil {
		return "", newLoginError(fmt.Sprintf("error contacting authentication endpoint: %v", err))
	}

	authRes, err := c.handleAuthResponse(res)
	if err != nil {
		return "", err
	}

	if authRes.Status == "MFA_REQUIRED" {
		c.Logger.Debugf("MFA Required")
		authRes, err = c.verifyTotpFactor(ctx, authRes)
		if err != nil {
			return "", err
		}
	}

	if authRes.Status != "SUCCESS" {
		return "", newLoginError(titleCaseStatus(authRes.Status))
	}

	if len(authRes.SessionToken) < 1 {
		return "", newLoginError("missing session token in authentication response")
	}

	return authRes.SessionToken, nil
}

// CreateSession exchanges the single-use session token from Authenticate for a long-lived
// session identifier.
func (c *OktaClient) CreateSession(ctx context.Context, sessionToken string) (string, error) {
	body, err := json.Marshal(map[string]string{"sessionToken": sessionToken})
	if err != nil {
		return "", err
	}

	res, err := c.postJson(ctx, c.apiUrl("/api/v1/sessions"), body)
	if err != nil {
		return "", newLoginError(fmt.Sprintf("error contacting session endpoint: %v", err))
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", newLoginError(fmt.Sprintf("session request returned HTTP status %d", res.StatusCode))
	}

	var session struct {
		Id string `json:"id"`
	}
	if err = json.NewDecoder(res.Body).Decode(&session); err != nil {
		return "", newLoginError("unable to parse session response")
	}

	if len(session.Id) < 1 {
		return "", newLoginError("missing session id in session response")
	}

	return session.Id, nil
}

// AppLinks queries the applications assigned to the authenticated user, filtered to the
// AWS federation application type, and returns a mapping of application label to
// activation URL.  Only the first appLinkPageLimit entries are consulted.
func (c *OktaClient) AppLinks(ctx context.Context, sessionId string) (map[string]string, error) {
	c.Logger.Debugf("Getting assigned application links from okta")

	u := c.apiUrl(fmt.Sprintf("/api/v1/users/me/appLinks?limit=%d", appLinkPageLimit))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, err
	}
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: sessionId})
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error getting assigned application list, HTTP status %d", res.StatusCode)
	}

	var links []struct {
		Label   string `json:"label"`
		LinkUrl string `json:"linkUrl"`
		AppName string `json:"appName"`
	}
	if err = json.NewDecoder(res.Body).Decode(&links); err != nil {
		return nil, err
	}

	appLinks := make(map[string]string)
	for _, l := range links {
		if l.AppName == "amazon_aws" {
			appLinks[l.Label] = l.LinkUrl
		}
	}
	return appLinks, nil
}

// SamlAssertion activates the application link and extracts the base64 encoded SAML
// assertion embedded in the returned HTML page.  The value is read from the SAMLResponse
// form input, HTML entity decoding is handled by the document parser.
func (c *OktaClient) SamlAssertion(ctx context.Context, sessionId, appUrl string) (*credentials.SamlAssertion, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, appUrl, http.NoBody)
	if err != nil {
		return nil, err
	}
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: sessionId})

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error getting saml assertion, HTTP status %d", res.StatusCode)
	}

	return extractSamlResponse(res.Body)
}

func extractSamlResponse(r io.Reader) (*credentials.SamlAssertion, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	var saml *credentials.SamlAssertion
	doc.Find("input").Each(func(i int, s *goquery.Selection) {
		if name, ok := s.Attr("name"); ok && name == "SAMLResponse" {
			v, _ := s.Attr("value")
			a := credentials.SamlAssertion(v)
			saml = &a
		}
	})

	if saml == nil || len(*saml) < 1 {
		return nil, ErrNoSamlResponse
	}
	return saml, nil
}

func (c *OktaClient) verifyTotpFactor(ctx context.Context, authRes *oktaAuthnResponse) (*oktaAuthnResponse, error) {
	var verifyUrl string
	for _, f := range authRes.EmbeddedData.MfaFactors {
		if f.FactorType == "token:software:totp" {
			verifyUrl = f.Links["verify"].Href
			break
		}
	}

	if len(verifyUrl) < 1 {
		return nil, newLoginError("MFA required, but no supported factor is configured")
	}

	if c.MfaTokenProvider == nil {
		return nil, newLoginError("MFA required, but no passcode source is available")
	}

	passcode, err := c.MfaTokenProvider()
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(map[string]string{"stateToken": authRes.StateToken, "passCode": passcode})
	if err != nil {
		return nil, err
	}

	res, err := c.postJson(ctx, verifyUrl, body)
	if err != nil {
		return nil, newLoginError(fmt.Sprintf("error contacting MFA verification endpoint: %v", err))
	}

	if res.StatusCode == http.StatusForbidden {
		_ = res.Body.Close()
		return nil, newLoginError("Incorrect passcode")
	}

	return c.handleAuthResponse(res)
}

func (c *OktaClient) postJson(ctx context.Context, url string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}

func (c *OktaClient) handleAuthResponse(res *http.Response) (*oktaAuthnResponse, error) {
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 1024*1024))
	if err != nil {
		return nil, err
	}

	if res.StatusCode == http.StatusUnauthorized {
		return nil, newLoginError("Incorrect password")
	}

	if res.StatusCode != http.StatusOK {
		c.Logger.Debugf("%s", string(body))
		return nil, newLoginError(fmt.Sprintf("login request returned HTTP status %d", res.StatusCode))
	}

	authRes := new(oktaAuthnResponse)
	if err = json.Unmarshal(body, authRes); err != nil {
		return nil, newLoginError("unable to parse authentication response")
	}

	if len(authRes.Status) < 1 {
		return nil, newLoginError("unknown error (missing status field in response)")
	}

	return authRes, nil
}

func (c *OktaClient) apiUrl(path string) string {
	return fmt.Sprintf("%s://%s%s", c.baseUrl.Scheme, c.baseUrl.Host, path)
}

// titleCaseStatus converts an API status value like PASSWORD_EXPIRED to a human-friendly
// form like "Password Expired".
func titleCaseStatus(status string) string {
	words := strings.Split(strings.ToLower(status), "_")
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

type oktaAuthnResponse struct {
	Status       string `json:"status"`
	SessionToken string `json:"sessionToken,omitempty"`
	StateToken   string `json:"stateToken,omitempty"`
	EmbeddedData struct {
		MfaFactors []*oktaMfaFactor `json:"factors"`
	} `json:"_embedded,omitempty"`
}

type oktaMfaFactor struct {
	Id         string `json:"id"`
	FactorType string `json:"factorType"`
	Provider   string `json:"provider"`
	Links      map[string]struct {
		Href string `json:"href"`
	} `json:"_links"`
}
