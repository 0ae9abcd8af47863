package client

import (
	"regexp"
	"strings"
)

var (
	awsSuffixPattern   = regexp.MustCompile(` *AWS$`)
	parentheticPattern = regexp.MustCompile(` *\(.*\)`)
	whitespacePattern  = regexp.MustCompile(` +`)
)

// NormalizeAppName converts a long application label such as
// "Company Engineering AWS (dev use)" into a short stable profile name such as
// "company-engineering".  The transform strips any parenthetical qualifier, then the
// trailing AWS token it may have been hiding, lower-cases the result, and collapses
// whitespace runs to single hyphens.  It is deterministic and idempotent.
func NormalizeAppName(name string) string {
	// the qualifier goes first, otherwise the AWS token isn't trailing yet
	name = parentheticPattern.ReplaceAllString(name, "")
	name = awsSuffixPattern.ReplaceAllString(name, "")
	name = strings.ToLower(name)
	return whitespacePattern.ReplaceAllString(name, "-")
}

// ShortenAppNames rewrites the keys of an application link mapping using NormalizeAppName.
// Labels which collide after normalization are not de-duplicated, later entries overwrite
// earlier ones.
func ShortenAppNames(appLinks map[string]string) map[string]string {
	shortened := make(map[string]string, len(appLinks))
	for k, v := range appLinks {
		shortened[NormalizeAppName(k)] = v
	}
	return shortened
}
