package credentials

import (
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/ini.v1"
)

const defaultCredentialsFile = "~/.aws/credentials"

type fileCredentialStore struct {
	path string
}

// NewFileCredentialStore creates a CredentialStore backed by the shared AWS credentials
// file.  An empty path selects the AWS_SHARED_CREDENTIALS_FILE environment variable, or
// the standard ~/.aws/credentials location.
func NewFileCredentialStore(path string) (*fileCredentialStore, error) {
	if len(path) < 1 {
		path = os.Getenv("AWS_SHARED_CREDENTIALS_FILE")
	}

	if len(path) < 1 {
		path = defaultCredentialsFile
	}

	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}

	return &fileCredentialStore{path: expanded}, nil
}

// Write stores the credential fields in the named profile section, overwriting any prior
// values.  Each field is set independently, there is no partial-write rollback.
func (s *fileCredentialStore) Write(profile string, creds *Credentials) error {
	if creds == nil || !creds.HasKeys() {
		return newAssumeRoleError("refusing to store incomplete credentials", nil)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return err
	}

	f, err := ini.LooseLoad(s.path)
	if err != nil {
		return err
	}

	sec := f.Section(profile)
	sec.Key("aws_access_key_id").SetValue(creds.AccessKeyId)
	sec.Key("aws_secret_access_key").SetValue(creds.SecretAccessKey)
	sec.Key("aws_session_token").SetValue(creds.Token)

	if err = f.SaveTo(s.path); err != nil {
		return err
	}
	return os.Chmod(s.path, 0600)
}
