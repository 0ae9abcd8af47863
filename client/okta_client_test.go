package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

var s *httptest.Server

func init() {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/authn", mockAuthn)
	mux.HandleFunc("/api/v1/authn/factors/totp1/verify", mockVerifyTotp)
	mux.HandleFunc("/api/v1/sessions", mockCreateSession)
	mux.HandleFunc("/api/v1/sessions/me", mockSessionsMe)
	mux.HandleFunc("/api/v1/users/me/appLinks", mockAppLinks)
	mux.HandleFunc("/home/amazon_aws/app1", mockAppPage)
	mux.HandleFunc("/home/amazon_aws/broken", mockBrokenAppPage)
	s = httptest.NewServer(mux)
}

func mockAuthn(w http.ResponseWriter, r *http.Request) {
	var creds map[string]string
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	switch {
	case creds["username"] == "expired":
		_, _ = w.Write([]byte(`{"status": "PASSWORD_EXPIRED"}`))
	case creds["username"] == "mfauser" && creds["password"] == "goodPassword":
		body := fmt.Sprintf(`{"status": "MFA_REQUIRED", "stateToken": "state123", "_embedded": {"factors": [
{"id": "totp1", "factorType": "token:software:totp", "provider": "OKTA",
 "_links": {"verify": {"href": "http://%s/api/v1/authn/factors/totp1/verify"}}}
]}}`, r.Host)
		_, _ = w.Write([]byte(body))
	case creds["password"] == "goodPassword":
		_, _ = w.Write([]byte(`{"status": "SUCCESS", "sessionToken": "1234567890ABCDEFGHIJKLMNO"}`))
	default:
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}
}

func mockVerifyTotp(w http.ResponseWriter, r *http.Request) {
	var body map[string]string
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	if body["passCode"] != "123456" {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status": "SUCCESS", "sessionToken": "1234567890ABCDEFGHIJKLMNO"}`))
}

func mockCreateSession(w http.ResponseWriter, r *http.Request) {
	var body map[string]string
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	if body["sessionToken"] != "1234567890ABCDEFGHIJKLMNO" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"id": "mock-session-id"}`))
}

func mockSessionsMe(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie("sid")
	if err != nil || c.Value != "mock-session-id" {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"id": "mock-session-id", "status": "ACTIVE"}`))
}

func mockAppLinks(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie("sid")
	if err != nil || c.Value != "mock-session-id" {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	body := fmt.Sprintf(`[
{"label": "Company Engineering AWS", "appName": "amazon_aws", "linkUrl": "http://%s/home/amazon_aws/app1"},
{"label": "Corporate Wiki", "appName": "confluence", "linkUrl": "http://%s/home/confluence/app2"}
]`, r.Host, r.Host)
	_, _ = w.Write([]byte(body))
}

func mockAppPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	_, _ = w.Write([]byte(`<html><body>
<form method="post" action="https://signin.aws.amazon.com/saml">
<input type="hidden" name="SAMLResponse" value="VGVzdGluZyAxLi4uMi4uLjMuLi4K"/>
<input type="hidden" name="RelayState" value=""/>
</form>
</body></html>`))
}

func mockBrokenAppPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	_, _ = w.Write([]byte(`<html><body><p>Something went wrong</p></body></html>`))
}

func TestNewOktaClient(t *testing.T) {
	t.Run("bare domain", func(t *testing.T) {
		c, err := NewOktaClient("example.okta.com")
		if err != nil {
			t.Fatal(err)
		}

		if c.baseUrl.Scheme != "https" || c.baseUrl.Host != "example.okta.com" {
			t.Errorf("unexpected base url: %s", c.baseUrl)
		}
	})

	t.Run("explicit scheme", func(t *testing.T) {
		c, err := NewOktaClient("https://example.okta.com")
		if err != nil {
			t.Fatal(err)
		}

		if c.baseUrl.Host != "example.okta.com" {
			t.Errorf("unexpected base url: %s", c.baseUrl)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		if _, err := NewOktaClient("ftp://example.okta.com"); err == nil {
			t.Error("did not receive expected error")
		}
	})
}

func TestOktaClient_Authenticate(t *testing.T) {
	c, err := NewOktaClient(s.URL)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("good", func(t *testing.T) {
		token, err := c.Authenticate(context.Background(), "alice", "goodPassword")
		if err != nil {
			t.Fatal(err)
		}

		if token != "1234567890ABCDEFGHIJKLMNO" {
			t.Errorf("unexpected session token: %s", token)
		}
	})

	t.Run("bad password", func(t *testing.T) {
		_, err := c.Authenticate(context.Background(), "alice", "badPassword")

		var le *LoginError
		if !errors.As(err, &le) {
			t.Fatalf("expected LoginError, got %v", err)
		}

		if le.Reason != "Incorrect password" {
			t.Errorf("unexpected error reason: %s", le.Reason)
		}
	})

	t.Run("password expired", func(t *testing.T) {
		_, err := c.Authenticate(context.Background(), "expired", "goodPassword")

		var le *LoginError
		if !errors.As(err, &le) {
			t.Fatalf("expected LoginError, got %v", err)
		}

		if le.Reason != "Password Expired" {
			t.Errorf("unexpected error reason: %s", le.Reason)
		}
	})

	t.Run("mfa good", func(t *testing.T) {
		c.MfaTokenProvider = func() (string, error) { return "123456", nil }
		defer func() { c.MfaTokenProvider = nil }()

		token, err := c.Authenticate(context.Background(), "mfauser", "goodPassword")
		if err != nil {
			t.Fatal(err)
		}

		if token != "1234567890ABCDEFGHIJKLMNO" {
			t.Errorf("unexpected session token: %s", token)
		}
	})

	t.Run("mfa bad passcode", func(t *testing.T) {
		c.MfaTokenProvider = func() (string, error) { return "654321", nil }
		defer func() { c.MfaTokenProvider = nil }()

		_, err := c.Authenticate(context.Background(), "mfauser", "goodPassword")

		var le *LoginError
		if !errors.As(err, &le) {
			t.Fatalf("expected LoginError, got %v", err)
		}

		if le.Reason != "Incorrect passcode" {
			t.Errorf("unexpected error reason: %s", le.Reason)
		}
	})

	t.Run("mfa no provider", func(t *testing.T) {
		c.MfaTokenProvider = nil

		var le *LoginError
		if _, err := c.Authenticate(context.Background(), "mfauser", "goodPassword"); !errors.As(err, &le) {
			t.Fatalf("expected LoginError, got %v", err)
		}
	})
}

func TestOktaClient_CreateSession(t *testing.T) {
	c, err := NewOktaClient(s.URL)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("good", func(t *testing.T) {
		id, err := c.CreateSession(context.Background(), "1234567890ABCDEFGHIJKLMNO")
		if err != nil {
			t.Fatal(err)
		}

		if id != "mock-session-id" {
			t.Errorf("unexpected session id: %s", id)
		}
	})

	t.Run("bad token", func(t *testing.T) {
		var le *LoginError
		if _, err := c.CreateSession(context.Background(), "bogus"); !errors.As(err, &le) {
			t.Fatalf("expected LoginError, got %v", err)
		}
	})
}

func TestOktaClient_ValidateSession(t *testing.T) {
	c, err := NewOktaClient(s.URL)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("valid", func(t *testing.T) {
		if !c.ValidateSession(context.Background(), "mock-session-id") {
			t.Error("session unexpectedly reported invalid")
		}
	})

	t.Run("invalid", func(t *testing.T) {
		if c.ValidateSession(context.Background(), "stale-session-id") {
			t.Error("session unexpectedly reported valid")
		}
	})

	t.Run("empty", func(t *testing.T) {
		if c.ValidateSession(context.Background(), "") {
			t.Error("session unexpectedly reported valid")
		}
	})
}

func TestOktaClient_AppLinks(t *testing.T) {
	c, err := NewOktaClient(s.URL)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("good", func(t *testing.T) {
		links, err := c.AppLinks(context.Background(), "mock-session-id")
		if err != nil {
			t.Fatal(err)
		}

		if len(links) != 1 {
			t.Fatalf("got %d app links, expected 1", len(links))
		}

		u, ok := links["Company Engineering AWS"]
		if !ok || !strings.HasSuffix(u, "/home/amazon_aws/app1") {
			t.Errorf("missing or incorrect app link: %s", u)
		}
	})

	t.Run("bad session", func(t *testing.T) {
		if _, err := c.AppLinks(context.Background(), "stale-session-id"); err == nil {
			t.Error("did not receive expected error")
		}
	})
}

func TestOktaClient_SamlAssertion(t *testing.T) {
	c, err := NewOktaClient(s.URL)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("good", func(t *testing.T) {
		a, err := c.SamlAssertion(context.Background(), "mock-session-id", s.URL+"/home/amazon_aws/app1")
		if err != nil {
			t.Fatal(err)
		}

		if a.String() != "VGVzdGluZyAxLi4uMi4uLjMuLi4K" {
			t.Errorf("unexpected assertion: %s", a)
		}
	})

	t.Run("no saml response", func(t *testing.T) {
		_, err := c.SamlAssertion(context.Background(), "mock-session-id", s.URL+"/home/amazon_aws/broken")
		if !errors.Is(err, ErrNoSamlResponse) {
			t.Errorf("expected ErrNoSamlResponse, got %v", err)
		}
	})

	t.Run("http error", func(t *testing.T) {
		_, err := c.SamlAssertion(context.Background(), "mock-session-id", s.URL+"/home/amazon_aws/missing")
		if err == nil || errors.Is(err, ErrNoSamlResponse) {
			t.Errorf("expected http error, got %v", err)
		}
	})
}

func TestTitleCaseStatus(t *testing.T) {
	tests := []struct {
		status   string
		expected string
	}{
		{"PASSWORD_EXPIRED", "Password Expired"},
		{"LOCKED_OUT", "Locked Out"},
		{"SUCCESS", "Success"},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			if v := titleCaseStatus(tt.status); v != tt.expected {
				t.Errorf("got %q, expected %q", v, tt.expected)
			}
		})
	}
}
