package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/okta-tools/okta-aws/client"
	"github.com/okta-tools/okta-aws/config"
	"github.com/okta-tools/okta-aws/credentials"
	"github.com/okta-tools/okta-aws/credentials/helpers"
	"github.com/urfave/cli/v2"
)

type runMode int

const (
	modeFetch runMode = iota
	modeList
	modeAll
)

// executor drives the credential exchange pipeline: ensure an Okta session, resolve the
// requested profile to an application link, fetch and decode the SAML assertion, select a
// role, perform the STS exchange, and store the result.  All collaborators are plain
// fields so tests can swap in stubs.
type executor struct {
	cfgFile  *config.File
	settings *config.Settings

	okta *client.OktaClient
	// cache is nil when session caching is disabled
	cache *client.SessionCache

	store     credentials.CredentialStore
	exchanger credentials.Exchanger

	readCredentials func(user, password string) (string, string, error)
	chooser         credentials.ChoiceProvider
	roleOverride    string

	output io.Writer
}

func newExecutor(ctx *cli.Context, cfg *config.File, profile string) (*executor, error) {
	settings := cfg.Profile(profile)

	roleOverride := ctx.String(roleFlag.Name)
	if len(roleOverride) > 0 {
		settings.RoleArn = roleOverride
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	okta, err := client.NewOktaClient(settings.OktaServer)
	if err != nil {
		return nil, err
	}
	okta.Logger = log

	x := &executor{
		cfgFile:         cfg,
		settings:        settings,
		okta:            okta,
		readCredentials: helpers.NewUserPasswordInputProvider(os.Stdin).ReadInput,
		chooser:         helpers.NewMenuChooser(os.Stdin, os.Stderr).Choose,
		roleOverride:    roleOverride,
		output:          os.Stdout,
	}

	if x.store, err = credentials.NewFileCredentialStore(""); err != nil {
		return nil, err
	}

	if !ctx.Bool(noCookiesFlag.Name) {
		if x.cache, err = client.NewSessionCache(settings.CookieFile); err != nil {
			return nil, err
		}
		x.cache.Logger = log
	}

	if x.exchanger, err = newExchanger(ctx.Context, settings, ctx.Bool(debugFlag.Name)); err != nil {
		return nil, err
	}

	return x, nil
}

func newExchanger(ctx context.Context, settings *config.Settings, debug bool) (credentials.Exchanger, error) {
	switch settings.Exchange {
	case config.ExchangeCli:
		if _, err := credentials.CheckAwsCommand(); err != nil {
			return nil, err
		}
		return credentials.NewCliExchange(), nil
	case config.ExchangeSdk, "":
		return credentials.NewStsExchange(ctx, settings.Region, debug)
	}
	return nil, fmt.Errorf("unknown exchange setting %q, expected %q or %q",
		settings.Exchange, config.ExchangeSdk, config.ExchangeCli)
}

func (x *executor) run(ctx context.Context, mode runMode, profile string) error {
	sessionId, err := x.ensureSession(ctx)
	if err != nil {
		return err
	}

	links, err := x.appLinks(ctx, sessionId)
	if err != nil {
		return err
	}

	switch mode {
	case modeList:
		x.list(links)
		return nil
	case modeAll:
		return x.fetchAll(ctx, sessionId, links)
	}

	return x.fetchCredentials(ctx, sessionId, links, profile)
}

// ensureSession returns a valid Okta session identifier, reusing the cached session when
// it still validates, otherwise performing a full login.
func (x *executor) ensureSession(ctx context.Context) (string, error) {
	if x.cache != nil {
		if sessionId := x.cache.Load(); len(sessionId) > 0 && x.okta.ValidateSession(ctx, sessionId) {
			return sessionId, nil
		}
	}
	return x.login(ctx)
}

func (x *executor) login(ctx context.Context) (string, error) {
	user, password, err := x.readCredentials(x.settings.Username, "")
	if err != nil {
		return "", err
	}

	log.Debugf("Logging in to Okta as %s", user)

	token, err := x.okta.Authenticate(ctx, user, password)
	if err != nil {
		return "", err
	}

	sessionId, err := x.okta.CreateSession(ctx, token)
	if err != nil {
		return "", err
	}

	if x.cache != nil {
		if err = x.cache.Store(sessionId); err != nil {
			log.Warningf("failed to save session: %v", err)
		}
	}

	return sessionId, nil
}

func (x *executor) appLinks(ctx context.Context, sessionId string) (map[string]string, error) {
	links, err := x.okta.AppLinks(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	if x.settings.UseShortProfileNames() {
		links = client.ShortenAppNames(links)
	}
	return links, nil
}

func (x *executor) list(links map[string]string) {
	aliases := x.cfgFile.ReverseAliases()

	for _, name := range sortedNames(links) {
		if a, ok := aliases[name]; ok {
			_, _ = fmt.Fprintf(x.output, "%s (Aliases: %s)\n", name, strings.Join(a, ", "))
		} else {
			_, _ = fmt.Fprintln(x.output, name)
		}
	}
}

func (x *executor) fetchAll(ctx context.Context, sessionId string, links map[string]string) error {
	var failed int

	names := sortedNames(links)
	for _, name := range names {
		if err := x.fetchCredentials(ctx, sessionId, links, name); err != nil {
			log.Errorf("%s: %v", name, err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("failed to fetch credentials for %d of %d profiles", failed, len(names))
	}
	return nil
}

func (x *executor) fetchCredentials(ctx context.Context, sessionId string, links map[string]string, profile string) error {
	target := x.cfgFile.ResolveAlias(profile)

	appUrl, ok := links[target]
	if !ok {
		valid := strings.Join(sortedNames(links), ", ")
		if target != profile {
			return fmt.Errorf("profile %q (alias of %q) is not in your AWS app list, valid names are: %s",
				profile, target, valid)
		}
		return fmt.Errorf("profile %q is not in your AWS app list, valid names are: %s", profile, valid)
	}

	assertion, err := x.okta.SamlAssertion(ctx, sessionId, appUrl)
	if err != nil {
		return err
	}

	entitlements, err := assertion.RoleEntitlements()
	if err != nil {
		return err
	}

	settings := x.profileSettings(profile)
	selector := &credentials.RoleSelector{RoleArn: settings.RoleArn, Chooser: x.chooser, Logger: log}

	role, err := selector.Select(entitlements)
	if err != nil {
		return err
	}

	log.Infof("Assuming AWS role %s", role.RoleArn)

	creds, err := x.exchanger.AssumeRole(ctx, role, assertion, settings.SessionDuration)
	if err != nil {
		return err
	}

	if err = x.store.Write(profile, creds); err != nil {
		return err
	}

	log.Infof("Temporary credentials stored in profile %q", profile)
	// report the clamped lifetime, since that is what the exchange actually requested
	log.Infof("Credentials expire in %s", friendlyInterval(credentials.ClampDuration(settings.SessionDuration)))

	if !creds.Expiration.IsZero() {
		log.Debugf("Credentials expire on %s (%s)",
			creds.Expiration.Local().Format(time.RFC1123), humanize.Time(creds.Expiration))
	}

	return nil
}

// profileSettings resolves the configuration for a single profile, so per-profile
// overrides apply even when iterating every profile.
func (x *executor) profileSettings(profile string) *config.Settings {
	s := x.cfgFile.Profile(profile)
	if len(x.roleOverride) > 0 {
		s.RoleArn = x.roleOverride
	}
	return s
}

func sortedNames(links map[string]string) []string {
	names := make([]string, 0, len(links))
	for k := range links {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
