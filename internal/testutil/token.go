package testutil

// FixedTokenGenerator generates the same run token every time.
//
// This enables deterministic scenario execution and golden snapshot
// comparison. The same scenario with the same FixedTokenGenerator
// produces byte-identical logs.
//
// Unlike runner.FixedGenerator which returns tokens in sequence, this
// generator always returns the same token. This is useful for
// scenarios where every run should share one correlation token.
//
// Thread-safety: FixedTokenGenerator is stateless and safe for
// concurrent use.
type FixedTokenGenerator struct {
	token string
}

// NewFixedTokenGenerator creates a new fixed run token generator.
//
// If token is empty, Generate() returns "test-run-default".
func NewFixedTokenGenerator(token string) *FixedTokenGenerator {
	if token == "" {
		token = "test-run-default"
	}
	return &FixedTokenGenerator{token: token}
}

// Generate returns the fixed run token.
//
// Implements runner.TokenGenerator.
func (g *FixedTokenGenerator) Generate() string {
	return g.token
}
