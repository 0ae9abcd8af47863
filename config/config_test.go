package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const testConfig = `[general]
username  = alice
okta_server = example.okta.com
session_duration = 7200

[aliases]
dev = company-engineering
eng = company-engineering

[company-engineering]
role_arn = Okta_PowerUser
session_duration = 3600

[prod]
role_arn = arn:aws:iam::012345678901:role/Okta_ReadOnly
short_profile_names = false
`

func testFile(t *testing.T) *File {
	t.Helper()

	p := filepath.Join(t.TempDir(), "okta_aws.conf")
	if err := os.WriteFile(p, []byte(testConfig), 0600); err != nil {
		t.Fatal(err)
	}

	f, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestLoad(t *testing.T) {
	t.Run("good", func(t *testing.T) {
		f := testFile(t)
		if f.General().Username != "alice" {
			t.Error("data mismatch")
		}
	})

	t.Run("not found", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.conf"))
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestFile_Profile(t *testing.T) {
	f := testFile(t)

	t.Run("defaults", func(t *testing.T) {
		s := f.Profile("unconfigured")
		if s.Username != "alice" || s.OktaServer != "example.okta.com" {
			t.Error("general settings not inherited")
		}

		if s.SessionDuration != 7200 {
			t.Errorf("unexpected session duration: %d", s.SessionDuration)
		}

		if s.CookieFile != DefaultCookieFile || s.Exchange != ExchangeSdk {
			t.Error("built-in defaults not applied")
		}

		if !s.UseShortProfileNames() {
			t.Error("short profile names should default to enabled")
		}
	})

	t.Run("profile section", func(t *testing.T) {
		s := f.Profile("company-engineering")
		if s.RoleArn != "Okta_PowerUser" {
			t.Errorf("unexpected role: %s", s.RoleArn)
		}

		if s.SessionDuration != 3600 {
			t.Errorf("unexpected session duration: %d", s.SessionDuration)
		}
	})

	t.Run("alias inherits target", func(t *testing.T) {
		s := f.Profile("dev")
		if s.RoleArn != "Okta_PowerUser" {
			t.Error("alias did not inherit target profile settings")
		}
	})

	t.Run("short names off", func(t *testing.T) {
		if f.Profile("prod").UseShortProfileNames() {
			t.Error("expected short profile names disabled")
		}
	})
}

func TestFile_ResolveAlias(t *testing.T) {
	f := testFile(t)

	if v := f.ResolveAlias("dev"); v != "company-engineering" {
		t.Errorf("unexpected alias resolution: %s", v)
	}

	if v := f.ResolveAlias("prod"); v != "prod" {
		t.Errorf("non-alias name should resolve to itself, got %s", v)
	}
}

func TestFile_ReverseAliases(t *testing.T) {
	f := testFile(t)

	r := f.ReverseAliases()
	v, ok := r["company-engineering"]
	if !ok || len(v) != 2 {
		t.Fatalf("unexpected reverse alias data: %v", r)
	}

	if v[0] != "dev" || v[1] != "eng" {
		t.Errorf("aliases not sorted: %v", v)
	}
}

func TestSettings_Validate(t *testing.T) {
	t.Run("good", func(t *testing.T) {
		s := &Settings{Username: "alice", OktaServer: "example.okta.com"}
		if err := s.Validate(); err != nil {
			t.Error(err)
		}
	})

	t.Run("missing", func(t *testing.T) {
		err := new(Settings).Validate()
		if err == nil {
			t.Fatal("did not receive expected error")
		}

		if msg := err.Error(); msg != "missing required configuration settings: username, okta_server" {
			t.Errorf("unexpected error message: %s", msg)
		}
	})
}

func TestUpdate(t *testing.T) {
	p := filepath.Join(t.TempDir(), "okta_aws.conf")

	if err := Update(p, "bob", "corp.okta.com"); err != nil {
		t.Fatal(err)
	}

	f, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}

	s := f.General()
	if s.Username != "bob" || s.OktaServer != "corp.okta.com" {
		t.Error("data mismatch after update")
	}

	// updating again must preserve unrelated content and overwrite general values
	if err := Update(p, "carol", "corp.okta.com"); err != nil {
		t.Fatal(err)
	}

	f, err = Load(p)
	if err != nil {
		t.Fatal(err)
	}

	if f.General().Username != "carol" {
		t.Error("username not overwritten")
	}
}
