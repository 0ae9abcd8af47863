package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/ini.v1"
)

const (
	// DefaultConfigFile is the location of the okta-aws configuration file, unless overridden
	// on the command line.
	DefaultConfigFile = "~/.okta_aws.conf"

	// DefaultCookieFile is the location of the cached Okta session identifier.
	DefaultCookieFile = "~/.okta_aws_cookie"

	// DefaultSessionDuration is the default lifetime, in seconds, requested for the
	// temporary AWS credentials.
	DefaultSessionDuration int32 = 3600

	// ExchangeSdk and ExchangeCli are the supported bindings for the STS federation exchange.
	ExchangeSdk = "sdk"
	ExchangeCli = "cli"

	generalSection = "general"
	aliasSection   = "aliases"
)

// ErrNotFound is returned by Load when the configuration file does not exist, so callers
// can trigger the first-run setup flow instead of failing.
var ErrNotFound = errors.New("configuration file not found")

// File is the parsed okta-aws configuration file.  Sections other than [general] and
// [aliases] are per-profile settings overrides.
type File struct {
	Path string

	file *ini.File
}

// Load reads and parses the configuration file at the supplied path ("~" expansion is
// applied).  A missing file is reported as ErrNotFound.
func Load(path string) (*File, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}

	if _, err = os.Stat(expanded); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, expanded)
		}
		return nil, err
	}

	f, err := ini.Load(expanded)
	if err != nil {
		return nil, err
	}

	return &File{Path: expanded, file: f}, nil
}

// General returns the settings from the [general] section, with built-in defaults applied.
func (f *File) General() *Settings {
	s := defaultSettings()
	s.MergeIn(f.sectionSettings(generalSection))
	return s
}

// Profile returns the fully resolved settings for the named profile.  Attributes resolve
// from the profile's own section, then the section of the alias target (when the profile
// is an alias), then [general], then the built-in defaults.
func (f *File) Profile(profile string) *Settings {
	s := f.General()
	if target := f.ResolveAlias(profile); target != profile {
		s.MergeIn(f.sectionSettings(target))
	}
	s.MergeIn(f.sectionSettings(profile))
	return s
}

// ResolveAlias maps a profile alias to the real profile name.  Names with no alias entry
// are returned unchanged.
func (f *File) ResolveAlias(profile string) string {
	if f.file.HasSection(aliasSection) {
		if k, err := f.file.Section(aliasSection).GetKey(profile); err == nil {
			return k.String()
		}
	}
	return profile
}

// Aliases returns the alias -> real profile name mapping from the [aliases] section.
func (f *File) Aliases() map[string]string {
	m := make(map[string]string)
	if f.file.HasSection(aliasSection) {
		for _, k := range f.file.Section(aliasSection).Keys() {
			m[k.Name()] = k.String()
		}
	}
	return m
}

// ReverseAliases returns a mapping of real profile names to the sorted list of aliases
// pointing at them, for annotating list output.
func (f *File) ReverseAliases() map[string][]string {
	m := make(map[string][]string)
	for alias, target := range f.Aliases() {
		m[target] = append(m[target], alias)
	}

	for _, v := range m {
		sort.Strings(v)
	}
	return m
}

// Validate checks that the attributes required to talk to Okta are present, and reports
// all missing attribute names in a single error.
func (s *Settings) Validate() error {
	var missing []string

	if len(s.Username) < 1 {
		missing = append(missing, "username")
	}

	if len(s.OktaServer) < 1 {
		missing = append(missing, "okta_server")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration settings: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (f *File) sectionSettings(name string) *Settings {
	if !f.file.HasSection(name) || name == aliasSection {
		return nil
	}

	s := new(Settings)
	sec := f.file.Section(name)

	if k, err := sec.GetKey("username"); err == nil {
		s.Username = k.String()
	}

	if k, err := sec.GetKey("okta_server"); err == nil {
		s.OktaServer = k.String()
	}

	if k, err := sec.GetKey("cookie_file"); err == nil {
		s.CookieFile = k.String()
	}

	if k, err := sec.GetKey("session_duration"); err == nil {
		if v, err := k.Int(); err == nil {
			s.SessionDuration = int32(v)
		}
	}

	if k, err := sec.GetKey("role_arn"); err == nil {
		s.RoleArn = k.String()
	}

	if k, err := sec.GetKey("region"); err == nil {
		s.Region = k.String()
	}

	if k, err := sec.GetKey("exchange"); err == nil {
		s.Exchange = k.String()
	}

	if k, err := sec.GetKey("short_profile_names"); err == nil {
		if v, err := k.Bool(); err == nil {
			s.ShortProfileNames = &v
		}
	}

	return s
}

func defaultSettings() *Settings {
	return &Settings{
		CookieFile:      DefaultCookieFile,
		SessionDuration: DefaultSessionDuration,
		Exchange:        ExchangeSdk,
	}
}

// Update writes (or rewrites) the username and okta_server attributes in the [general]
// section of the configuration file at path, creating the file when necessary.  Any other
// existing content is preserved.  Used by the first-run setup flow.
func Update(path, username, oktaServer string) error {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return err
	}

	f, err := ini.LooseLoad(expanded)
	if err != nil {
		return err
	}

	sec := f.Section(generalSection)
	sec.Key("username").SetValue(username)
	sec.Key("okta_server").SetValue(oktaServer)

	return f.SaveTo(expanded)
}
