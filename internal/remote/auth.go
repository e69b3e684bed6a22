package remote

// Authenticator provides credentials for OCI registry operations.
type Authenticator interface {
	// Authenticate returns credentials for the given registry.
	Authenticate(registry string) (username, password string, err error)
}

// StaticAuth returns the same credentials for every registry. When no
// Authenticator is configured, the Docker keychain is used instead.
type StaticAuth struct {
	Username string
	Password string
}

func (a StaticAuth) Authenticate(registry string) (string, string, error) {
	return a.Username, a.Password, nil
}
