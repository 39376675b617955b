// Package identity supplies API credentials to the transport layer. Only
// static sources are implemented: a literal token, an environment variable,
// or the saved credentials file. Token refresh flows are out of scope.
package identity

import (
	"context"
	"os"
	"strings"

	"github.com/packsmith/packsmith/pkg/errors"
	"github.com/packsmith/packsmith/pkg/types"
)

// CredentialProvider yields a bearer token for outgoing requests. An empty
// token with a nil error means "send the request unauthenticated".
type CredentialProvider interface {
	Token(ctx context.Context) (string, error)
}

// Static returns the same token forever.
type Static string

func (s Static) Token(ctx context.Context) (string, error) {
	return string(s), nil
}

// EnvProvider reads the token from an environment variable on every call, so
// tests and wrapper scripts can swap it without restarting.
type EnvProvider struct {
	Var string
}

func (p EnvProvider) Token(ctx context.Context) (string, error) {
	return strings.TrimSpace(os.Getenv(p.Var)), nil
}

// FileProvider reads the token from a file, typically the saved credentials
// file under the user's state directory. A missing file yields an empty
// token; an unreadable one is an error.
type FileProvider struct {
	FS   types.FS
	Path string
}

func (p FileProvider) Token(ctx context.Context) (string, error) {
	data, err := p.FS.ReadFile(p.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrapf(err, errors.ErrUnauthorized,
			"cannot read credentials file %s", p.Path)
	}
	return strings.TrimSpace(string(data)), nil
}

// None is the provider for endpoints that need no authentication.
var None CredentialProvider = Static("")
