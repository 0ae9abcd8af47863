package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/okta-tools/okta-aws/config"
)

// runSetup interactively gathers the attributes required to talk to Okta and writes them
// to the [general] section of the configuration file.  Existing values are offered as
// defaults, and any other file content is preserved.
func runSetup(path string, in io.Reader, out io.Writer) error {
	var curUser, curServer string
	if cfg, err := config.Load(path); err == nil {
		g := cfg.General()
		curUser = g.Username
		curServer = g.OktaServer
	}

	scanner := bufio.NewScanner(in)
	username := prompt(scanner, out, "Okta username", curUser)
	oktaServer := prompt(scanner, out, "Okta server (example.okta.com)", curServer)

	if len(username) < 1 || len(oktaServer) < 1 {
		return errors.New("a username and an okta server are both required")
	}

	if err := config.Update(path, username, oktaServer); err != nil {
		return err
	}

	log.Infof("Configuration saved to %s", path)
	return nil
}

func prompt(scanner *bufio.Scanner, out io.Writer, label, def string) string {
	if len(def) > 0 {
		_, _ = fmt.Fprintf(out, "%s [%s]: ", label, def)
	} else {
		_, _ = fmt.Fprintf(out, "%s: ", label)
	}

	if !scanner.Scan() {
		return def
	}

	if v := strings.TrimSpace(scanner.Text()); len(v) > 0 {
		return v
	}
	return def
}
