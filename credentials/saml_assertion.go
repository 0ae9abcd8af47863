package credentials

import (
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"

	"github.com/crewjam/saml"
)

// awsRoleAttribute is the SAML attribute carrying the principal/role ARN pairs authorized
// for the AssumeRoleWithSAML call.
const awsRoleAttribute = "https://aws.amazon.com/SAML/Attributes/Role"

// SamlAssertion is the base64 encoded SAML response document returned by Okta, and provides
// methods for extracting the data necessary for the Assume Role with SAML operation.
type SamlAssertion string

// RoleEntitlement is one (principal, role) ARN combination the user is authorized to assume.
type RoleEntitlement struct {
	PrincipalArn string
	RoleArn      string
}

// RoleName returns the short role name (the last path segment of the role ARN).
func (r RoleEntitlement) RoleName() string {
	f := strings.Split(r.RoleArn, "/")
	return f[len(f)-1]
}

// Decode converts the base64 encoded assertion to its XML text form.
func (s *SamlAssertion) Decode() (string, error) {
	if s == nil || len(*s) < 1 {
		return "", errors.New("invalid saml assertion")
	}

	doc, err := base64.StdEncoding.DecodeString(string(*s))
	return string(doc), err
}

// RoleEntitlements parses the assertion document and extracts the principal/role ARN pairs
// from the AWS role attribute values.  Each attribute value holds the principal and role
// ARNs separated by a comma.  A malformed document is a fatal parse failure, attribute
// values without the expected comma separator are skipped.
func (s *SamlAssertion) RoleEntitlements() ([]RoleEntitlement, error) {
	doc, err := s.Decode()
	if err != nil {
		return nil, err
	}

	var res saml.Response
	if err = xml.Unmarshal([]byte(doc), &res); err != nil {
		return nil, fmt.Errorf("malformed assertion document: %w", err)
	}

	if res.Assertion == nil {
		return nil, errors.New("no assertion element in saml response")
	}

	var entitlements []RoleEntitlement
	for _, st := range res.Assertion.AttributeStatements {
		for _, attr := range st.Attributes {
			if attr.Name != awsRoleAttribute {
				continue
			}

			for _, v := range attr.Values {
				f := strings.SplitN(strings.TrimSpace(v.Value), ",", 2)
				if len(f) != 2 {
					continue
				}
				entitlements = append(entitlements, RoleEntitlement{PrincipalArn: f[0], RoleArn: f[1]})
			}
		}
	}

	return entitlements, nil
}

func (s *SamlAssertion) String() string {
	return string(*s)
}
