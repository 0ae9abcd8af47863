package credentials

import (
	"errors"
	"strings"

	"github.com/okta-tools/okta-aws/shared"
)

// ChoiceProvider presents a prompt and an enumerated list of options, and returns the
// zero-based index of the selected option.  The interactive implementation lives in the
// helpers package, tests inject a scripted one.
type ChoiceProvider func(prompt string, options []string) (int, error)

// RoleSelector picks exactly one role entitlement from the set found in an assertion.
// A single entitlement is returned as-is.  With multiple entitlements, a configured role
// (full ARN, or a short name matched as an ARN suffix) wins, otherwise the user picks
// from a menu via the Chooser.
type RoleSelector struct {
	RoleArn string
	Chooser ChoiceProvider
	Logger  shared.Logger
}

// Select applies the selection policy to the provided entitlements.
func (s *RoleSelector) Select(entitlements []RoleEntitlement) (RoleEntitlement, error) {
	if s.Logger == nil {
		s.Logger = new(shared.DefaultLogger)
	}

	switch len(entitlements) {
	case 0:
		return RoleEntitlement{}, errors.New("no role entitlements found in saml assertion")
	case 1:
		return entitlements[0], nil
	}

	if len(s.RoleArn) > 0 {
		s.Logger.Debugf("Looking for configured role: %s", s.RoleArn)
		for _, e := range entitlements {
			// suffix match so a bare role name works in place of the full ARN
			if strings.HasSuffix(e.RoleArn, s.RoleArn) {
				return e, nil
			}
		}
		s.Logger.Debugf("Configured role did not match any available role")
	}

	if s.Chooser == nil {
		return RoleEntitlement{}, errors.New("multiple roles available and no way to choose one")
	}

	names := make([]string, len(entitlements))
	for i, e := range entitlements {
		names[i] = e.RoleName()
	}

	idx, err := s.Chooser("Select role to log in with: ", names)
	if err != nil {
		return RoleEntitlement{}, err
	}
	return entitlements[idx], nil
}
