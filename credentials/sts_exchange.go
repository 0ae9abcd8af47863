package credentials

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go/logging"
	"github.com/okta-tools/okta-aws/shared"
)

const (
	// AssumeRoleDurationMin and AssumeRoleDurationMax are the bounds the STS API enforces
	// on the requested credential lifetime, in seconds.
	AssumeRoleDurationMin int32 = 900
	AssumeRoleDurationMax int32 = 43200

	// AssumeRoleDurationDefault is the requested credential lifetime when nothing was configured.
	AssumeRoleDurationDefault int32 = 3600

	fallbackRegion = "us-east-1"
)

type stsApi interface {
	AssumeRoleWithSAML(ctx context.Context, params *sts.AssumeRoleWithSAMLInput, optFns ...func(*sts.Options)) (*sts.AssumeRoleWithSAMLOutput, error)
}

type stsExchange struct {
	api    stsApi
	Logger shared.Logger
}

// NewStsExchange returns an Exchanger which performs the Assume Role with SAML operation
// using the AWS SDK.  The STS client is built with anonymous credentials (the call is
// unsigned) and never consults the AWS profile environment variables, so a profile that
// does not exist yet can not break the exchange which is meant to create it.  If no region
// is provided the ambient AWS configuration is consulted, explicitly pinned to the default
// profile for the same reason.
func NewStsExchange(ctx context.Context, region string, debug bool) (*stsExchange, error) {
	if len(region) < 1 {
		cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithSharedConfigProfile("default"))
		if err == nil {
			region = cfg.Region
		}

		if len(region) < 1 {
			region = fallbackRegion
		}
	}

	opts := sts.Options{
		Region:      region,
		Credentials: aws.AnonymousCredentials{},
	}

	if debug {
		opts.Logger = logging.NewStandardLogger(os.Stderr)
		opts.ClientLogMode = aws.LogRequest | aws.LogResponse
	}

	return &stsExchange{api: sts.New(opts), Logger: new(shared.DefaultLogger)}, nil
}

// AssumeRole implements the Exchanger interface using the STS AssumeRoleWithSAML API call.
func (x *stsExchange) AssumeRole(ctx context.Context, role RoleEntitlement, assertion *SamlAssertion,
	durationSeconds int32) (*Credentials, error) {
	if x.Logger == nil {
		x.Logger = new(shared.DefaultLogger)
	}
	x.Logger.Debugf("Assuming role %s via the STS API", role.RoleArn)

	in := &sts.AssumeRoleWithSAMLInput{
		DurationSeconds: aws.Int32(ClampDuration(durationSeconds)),
		PrincipalArn:    aws.String(role.PrincipalArn),
		RoleArn:         aws.String(role.RoleArn),
		SAMLAssertion:   aws.String(assertion.String()),
	}

	out, err := x.api.AssumeRoleWithSAML(ctx, in)
	if err != nil {
		return nil, newAssumeRoleError("assume role with SAML failed", err)
	}

	if out.Credentials == nil {
		return nil, newAssumeRoleError("Credentials missing from assume role response", nil)
	}

	return FromStsCredentials(out.Credentials), nil
}

// ClampDuration bounds a requested credential lifetime to the range the STS API accepts,
// substituting the default for an unset value.  The exchange bindings apply it before the
// call, and reporting uses it so the lifetime shown matches the lifetime requested.
func ClampDuration(d int32) int32 {
	switch {
	case d < 1:
		return AssumeRoleDurationDefault
	case d < AssumeRoleDurationMin:
		return AssumeRoleDurationMin
	case d > AssumeRoleDurationMax:
		return AssumeRoleDurationMax
	}
	return d
}
