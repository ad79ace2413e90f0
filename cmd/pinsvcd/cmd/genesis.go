package cmd

import (
	"fmt"
	"strings"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/paw-chain/pinservice/app"
)

// GenesisCmd groups the genesis file editing commands
func GenesisCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "genesis",
		Short: "Edit the genesis file",
	}
	cmd.AddCommand(AddGenesisAccountCmd(), ValidateGenesisCmd())
	return cmd
}

// AddGenesisAccountCmd funds an account in genesis.json
func AddGenesisAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-account [address] [amount]",
		Short: "Fund an account at genesis",
		Long: `Fund an account at genesis. The amount is either a bare integer in the
payment denomination or a coin list such as "1000upin,5stake".`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := sdk.AccAddressFromBech32(args[0])
			if err != nil {
				return fmt.Errorf("invalid address: %w", err)
			}

			path := genesisPath(homeDir(cmd))
			genesis, err := app.LoadGenesisDoc(path)
			if err != nil {
				return err
			}

			coins, err := parseGenesisAmount(args[1], genesis.PinService.Config.PayDenom)
			if err != nil {
				return err
			}
			if err := genesis.AddAccount(addr, coins); err != nil {
				return err
			}
			if err := genesis.Validate(); err != nil {
				return err
			}
			if err := genesis.Save(path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "funded %s with %s\n", addr, coins)
			return nil
		},
	}
}

// ValidateGenesisCmd checks genesis.json without starting the node
func ValidateGenesisCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the genesis file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := genesisPath(homeDir(cmd))
			genesis, err := app.LoadGenesisDoc(path)
			if err != nil {
				return err
			}
			if err := genesis.Validate(); err != nil {
				return fmt.Errorf("%s is invalid: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", path)
			return nil
		},
	}
}

func parseGenesisAmount(s, payDenom string) (sdk.Coins, error) {
	s = strings.TrimSpace(s)
	if amount, err := cast.ToUint64E(s); err == nil {
		if amount == 0 {
			return nil, fmt.Errorf("amount must be positive")
		}
		return sdk.NewCoins(sdk.NewCoin(payDenom, sdkmath.NewIntFromUint64(amount))), nil
	}
	coins, err := sdk.ParseCoinsNormalized(s)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if coins.IsZero() {
		return nil, fmt.Errorf("amount must be positive")
	}
	return coins, nil
}
