package keeper_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/paw-chain/pinservice/x/pinservice/types"
)

func TestAdminList(t *testing.T) {
	s := setupService(t)
	second := testAddr(1)
	third := testAddr(2)

	require.NoError(t, s.Keeper.AddAdmin(s.Signed(s.admin), s.admin, second))
	require.ErrorIs(t, s.Keeper.AddAdmin(s.Signed(s.admin), s.admin, second), types.ErrAlreadyAdmin)

	// a newly added admin can act immediately
	require.NoError(t, s.Keeper.AddAdmin(s.Signed(second), second, third))

	admins, err := s.Keeper.GetAdminList(s.Ctx)
	require.NoError(t, err)
	require.Equal(t, []string{s.admin.String(), second.String(), third.String()}, admins)

	require.NoError(t, s.Keeper.RemoveAdmin(s.Signed(third), third, second))
	require.ErrorIs(t, s.Keeper.RemoveAdmin(s.Signed(third), third, second), types.ErrAdminNotFound)
	require.ErrorIs(t, s.Keeper.RemoveAdmin(s.Signed(third), third, s.admin), types.ErrCannotRemoveInitialAdmin)

	isAdmin, err := s.Keeper.IsAdmin(s.Ctx, second)
	require.NoError(t, err)
	require.False(t, isAdmin)
	require.ErrorIs(t, s.Keeper.AddAdmin(s.Signed(second), second, testAddr(3)), types.ErrNotAdmin)

	event := s.requireEvent(t, types.EventTypeRemoveAdmin)
	require.Equal(t, second.String(), attr(event, types.AttributeKeyAdmin))
}

func TestAdminRequiresSignature(t *testing.T) {
	s := setupService(t)
	outsider := testAddr(1)

	// signed by someone else
	require.ErrorIs(t, s.Keeper.AddAdmin(s.Signed(outsider), s.admin, outsider), types.ErrUnauthorized)
	require.ErrorIs(t, s.Keeper.AddAdmin(s.Ctx, s.admin, outsider), types.ErrUnauthorized)

	admins, err := s.Keeper.GetAdminList(s.Ctx)
	require.NoError(t, err)
	require.Len(t, admins, 1)
}
