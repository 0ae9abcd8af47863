package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/okta-tools/okta-aws/shared"
)

// DefaultAwsCommand is the external tool used by the CLI exchange binding.
const DefaultAwsCommand = "aws"

type cliExchange struct {
	cmd    string
	Logger shared.Logger
}

// NewCliExchange returns an Exchanger which performs the Assume Role with SAML operation
// by invoking the external AWS CLI.  The child process runs with an environment scrubbed
// of the profile selection variables, so a profile that does not exist yet can not break
// the exchange which is meant to create it.
func NewCliExchange() *cliExchange {
	return &cliExchange{cmd: DefaultAwsCommand, Logger: new(shared.DefaultLogger)}
}

// CheckAwsCommand verifies that the external AWS CLI is installed, returning the resolved
// path.  Used as a preflight check before starting the pipeline.
func CheckAwsCommand() (string, error) {
	p, err := exec.LookPath(DefaultAwsCommand)
	if err != nil {
		return "", newAssumeRoleError("the AWS CLI (the 'aws' command) cannot be found, "+
			"see https://docs.aws.amazon.com/cli/latest/userguide/getting-started-install.html", err)
	}
	return p, nil
}

// AssumeRole implements the Exchanger interface by running 'aws sts assume-role-with-saml'.
func (x *cliExchange) AssumeRole(ctx context.Context, role RoleEntitlement, assertion *SamlAssertion,
	durationSeconds int32) (*Credentials, error) {
	if x.Logger == nil {
		x.Logger = new(shared.DefaultLogger)
	}

	path, err := exec.LookPath(x.cmd)
	if err != nil {
		return nil, newAssumeRoleError(fmt.Sprintf("external tool %q not found", x.cmd), err)
	}
	x.Logger.Debugf("Assuming role %s via %s", role.RoleArn, path)

	cmd := exec.CommandContext(ctx, path, "sts", "assume-role-with-saml", "--output", "json",
		"--role-arn", role.RoleArn,
		"--principal-arn", role.PrincipalArn,
		"--saml-assertion", assertion.String(),
		"--duration-seconds", strconv.Itoa(int(ClampDuration(durationSeconds))))
	cmd.Env = scrubbedEnv()
	cmd.Stderr = os.Stderr

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, newAssumeRoleError(fmt.Sprintf("%s exited with status %d", x.cmd, exitErr.ExitCode()), err)
		}
		return nil, newAssumeRoleError(fmt.Sprintf("error invoking %s", x.cmd), err)
	}

	return parseExchangeOutput(out)
}

func parseExchangeOutput(data []byte) (*Credentials, error) {
	var res struct {
		Credentials *struct {
			AccessKeyId     string
			SecretAccessKey string
			SessionToken    string
			Expiration      string
		}
	}

	if err := json.Unmarshal(data, &res); err != nil {
		return nil, newAssumeRoleError("unable to parse assume role response", err)
	}

	if res.Credentials == nil {
		return nil, newAssumeRoleError("Credentials missing from assume role response", nil)
	}

	creds := &Credentials{
		AccessKeyId:     res.Credentials.AccessKeyId,
		SecretAccessKey: res.Credentials.SecretAccessKey,
		Token:           res.Credentials.SessionToken,
	}

	if t, err := time.Parse(time.RFC3339, res.Credentials.Expiration); err == nil {
		creds.Expiration = t
	}

	return creds, nil
}

// scrubbedEnv returns a copy of the process environment without the AWS profile selection
// variables.
func scrubbedEnv() []string {
	env := make([]string, 0, len(os.Environ()))
	for _, v := range os.Environ() {
		if strings.HasPrefix(v, "AWS_PROFILE=") || strings.HasPrefix(v, "AWS_DEFAULT_PROFILE=") {
			continue
		}
		env = append(env, v)
	}
	return env
}
