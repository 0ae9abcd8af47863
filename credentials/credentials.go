package credentials

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sts/types"
)

// Credentials is the set of temporary AWS credentials returned by the federation exchange.
// The values are only held long enough to be written to the credential store, they are
// never cached by okta-aws itself.
type Credentials struct {
	AccessKeyId     string    `ini:"aws_access_key_id"`
	SecretAccessKey string    `ini:"aws_secret_access_key"`
	Token           string    `ini:"aws_session_token"`
	Expiration      time.Time `ini:"-"`
}

// HasKeys reports whether the credentials contain the minimum usable set of values.
func (c *Credentials) HasKeys() bool {
	return len(c.AccessKeyId) > 0 && len(c.SecretAccessKey) > 0
}

// FromStsCredentials converts an AWS sts.Credentials value to the local Credentials type.
func FromStsCredentials(v *types.Credentials) *Credentials {
	c := new(Credentials)

	if v == nil {
		return c
	}

	if v.AccessKeyId != nil {
		c.AccessKeyId = *v.AccessKeyId
	}

	if v.SecretAccessKey != nil {
		c.SecretAccessKey = *v.SecretAccessKey
	}

	if v.SessionToken != nil {
		c.Token = *v.SessionToken
	}

	if v.Expiration != nil {
		c.Expiration = *v.Expiration
	}

	return c
}
