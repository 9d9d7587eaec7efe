package core

// AccessGate decides whether a join request may enter a channel.
// It is a casual deterrent, not an authentication boundary: secrets are
// kept in plaintext and compared exactly.
type AccessGate struct {
	secrets map[string]string
}

// NewAccessGate builds a gate from channel -> shared secret pairs.
// Channels absent from the map are unprotected.
func NewAccessGate(secrets map[string]string) *AccessGate {
	copied := make(map[string]string, len(secrets))
	for name, secret := range secrets {
		copied[name] = secret
	}
	return &AccessGate{secrets: copied}
}

// Protected reports whether the channel requires a credential.
func (g *AccessGate) Protected(channel string) bool {
	if g == nil {
		return false
	}
	_, ok := g.secrets[channel]
	return ok
}

// Check returns true when the supplied credential opens the channel.
func (g *AccessGate) Check(channel, supplied string) bool {
	if g == nil {
		return true
	}
	secret, ok := g.secrets[channel]
	if !ok {
		return true
	}
	return supplied == secret
}
