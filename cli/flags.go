package cli

import (
	"github.com/okta-tools/okta-aws/config"
	"github.com/urfave/cli/v2"
)

var appFlags = []cli.Flag{configFlag, roleFlag, listFlag, allFlag, setupFlag, noCookiesFlag, debugFlag, quietFlag}

var configFlag = &cli.StringFlag{
	Name:    "config",
	Aliases: []string{"c"},
	Usage:   "location of the configuration file",
	Value:   config.DefaultConfigFile,
	EnvVars: []string{"OKTA_AWS_CONFIG"},
}

var roleFlag = &cli.StringFlag{
	Name:    "role",
	Aliases: []string{"r"},
	Usage:   "name (or full ARN) of the AWS role to assume, overriding any configured value",
}

var listFlag = &cli.BoolFlag{
	Name:    "list",
	Aliases: []string{"l"},
	Usage:   "list the AWS accounts you can log in to, without fetching credentials",
}

var allFlag = &cli.BoolFlag{
	Name:    "all",
	Aliases: []string{"a"},
	Usage:   "fetch credentials for every AWS account you can log in to",
}

var setupFlag = &cli.BoolFlag{
	Name:    "setup",
	Aliases: []string{"s"},
	Usage:   "run the interactive configuration setup",
}

var noCookiesFlag = &cli.BoolFlag{
	Name:    "no-cookies",
	Aliases: []string{"n"},
	Usage:   "do not read or write the cached Okta session",
}

var debugFlag = &cli.BoolFlag{
	Name:    "debug",
	Aliases: []string{"d"},
	Usage:   "print debug messages",
}

var quietFlag = &cli.BoolFlag{
	Name:    "quiet",
	Aliases: []string{"q"},
	Usage:   "only print error messages",
}
