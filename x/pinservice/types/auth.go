package types

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Authenticator decides whether the current call has proven control of an address.
// Every mutating operation consults it before touching state.
type Authenticator interface {
	RequireAuth(ctx context.Context, addr sdk.AccAddress) error
}

type signersKey struct{}

// WithSigners returns a context carrying the addresses whose signatures the host verified.
func WithSigners(ctx sdk.Context, signers ...sdk.AccAddress) sdk.Context {
	set := make(map[string]struct{}, len(signers))
	for _, s := range signers {
		set[s.String()] = struct{}{}
	}
	return ctx.WithValue(signersKey{}, set)
}

// SignersFromContext returns the verified signer set attached by WithSigners.
func SignersFromContext(ctx context.Context) map[string]struct{} {
	set, _ := ctx.Value(signersKey{}).(map[string]struct{})
	return set
}

// SignerAuthenticator accepts an address if it is in the context's verified signer set.
type SignerAuthenticator struct{}

var _ Authenticator = SignerAuthenticator{}

// RequireAuth implements Authenticator.
func (SignerAuthenticator) RequireAuth(ctx context.Context, addr sdk.AccAddress) error {
	if addr.Empty() {
		return ErrUnauthorized.Wrap("empty address")
	}
	if _, ok := SignersFromContext(ctx)[addr.String()]; !ok {
		return ErrUnauthorized.Wrapf("no proof of control for %s", addr)
	}
	return nil
}

// AuthenticatorFunc adapts a function to the Authenticator interface.
type AuthenticatorFunc func(ctx context.Context, addr sdk.AccAddress) error

// RequireAuth implements Authenticator.
func (f AuthenticatorFunc) RequireAuth(ctx context.Context, addr sdk.AccAddress) error {
	return f(ctx, addr)
}
