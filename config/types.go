package config

// Settings holds the configuration attributes understood in any section of the okta-aws
// configuration file.  A fully resolved Settings value is produced by merging the built-in
// defaults, the [general] section, the alias target's section (if the profile is an alias)
// and the profile's own section, in that order.
type Settings struct {
	Username          string `ini:"username"`
	OktaServer        string `ini:"okta_server"`
	CookieFile        string `ini:"cookie_file"`
	SessionDuration   int32  `ini:"session_duration"`
	RoleArn           string `ini:"role_arn"`
	Region            string `ini:"region"`
	Exchange          string `ini:"exchange"`
	ShortProfileNames *bool  `ini:"short_profile_names"`
}

// MergeIn merges the non-zero attributes of the provided Settings into this object,
// later arguments taking precedence over earlier ones.
func (s *Settings) MergeIn(settings ...*Settings) {
	for _, cfg := range settings {
		if cfg == nil {
			continue
		}

		if len(cfg.Username) > 0 {
			s.Username = cfg.Username
		}

		if len(cfg.OktaServer) > 0 {
			s.OktaServer = cfg.OktaServer
		}

		if len(cfg.CookieFile) > 0 {
			s.CookieFile = cfg.CookieFile
		}

		if cfg.SessionDuration > 0 {
			s.SessionDuration = cfg.SessionDuration
		}

		if len(cfg.RoleArn) > 0 {
			s.RoleArn = cfg.RoleArn
		}

		if len(cfg.Region) > 0 {
			s.Region = cfg.Region
		}

		if len(cfg.Exchange) > 0 {
			s.Exchange = cfg.Exchange
		}

		if cfg.ShortProfileNames != nil {
			s.ShortProfileNames = cfg.ShortProfileNames
		}
	}
}

// UseShortProfileNames reports whether application labels should be normalized to short
// profile names.  Enabled unless explicitly turned off in configuration.
func (s *Settings) UseShortProfileNames() bool {
	return s.ShortProfileNames == nil || *s.ShortProfileNames
}
