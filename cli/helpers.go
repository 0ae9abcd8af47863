package cli

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

// friendlyInterval formats a credential lifetime, given in seconds, for the post-exchange
// report.  Durations of an hour or more are reported in hours, anything shorter in
// minutes, with at most two significant digits.
func friendlyInterval(seconds int32) string {
	switch {
	case seconds == 3600:
		return "1 hour"
	case seconds > 3600:
		return fmt.Sprintf("%.2g hours", float64(seconds)/3600)
	case seconds == 60:
		return "1 minute"
	}
	return fmt.Sprintf("%.2g minutes", float64(seconds)/60)
}

// checkProfileArgs determines the requested profile name from the command line, falling
// back to the standard AWS environment variables, and finally to "default".
func checkProfileArgs(ctx *cli.Context) string {
	profile := ctx.Args().First()
	if len(profile) < 1 {
		profile = checkProfileEnv()
	}

	if len(profile) < 1 {
		profile = "default"
	}
	return profile
}

// checkProfileEnv reads the AWS profile env vars, then explicitly unsets them so they
// don't get in the way of the credential exchange we are about to run on their behalf.
func checkProfileEnv() string {
	profile := os.Getenv("AWS_PROFILE")
	if len(profile) < 1 {
		profile = os.Getenv("AWS_DEFAULT_PROFILE")
	}

	_ = os.Unsetenv("AWS_PROFILE")
	_ = os.Unsetenv("AWS_DEFAULT_PROFILE")

	return profile
}
