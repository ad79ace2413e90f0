package types_test

import (
	"context"
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/pinservice/x/pinservice/types"
)

func TestSignerAuthenticator(t *testing.T) {
	alice := sdk.AccAddress("alice-address-000001")
	bob := sdk.AccAddress("bob-address-00000001")
	ctx := types.WithSigners(sdk.Context{}.WithContext(context.Background()), alice)

	auth := types.SignerAuthenticator{}
	require.NoError(t, auth.RequireAuth(ctx, alice))
	require.ErrorIs(t, auth.RequireAuth(ctx, bob), types.ErrUnauthorized)
	require.ErrorIs(t, auth.RequireAuth(ctx, nil), types.ErrUnauthorized)
	require.ErrorIs(t, auth.RequireAuth(context.Background(), alice), types.ErrUnauthorized)
}

func TestAuthenticatorFunc(t *testing.T) {
	called := false
	var auth types.Authenticator = types.AuthenticatorFunc(func(context.Context, sdk.AccAddress) error {
		called = true
		return nil
	})
	require.NoError(t, auth.RequireAuth(context.Background(), nil))
	require.True(t, called)
}
