package cmd

import (
	"fmt"
	"os"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"github.com/paw-chain/pinservice/app"
)

const (
	flagChainID   = "chain-id"
	flagAdmin     = "admin"
	flagOverwrite = "overwrite"
)

// InitCmd writes a default config.toml and genesis.json under the home directory
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the node configuration and genesis file",
		Long: `Initialize writes config/config.toml and config/genesis.json under --home.

The --admin address becomes the founding admin of the service. Fund accounts
afterwards with 'pinsvcd genesis add-account'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			home := homeDir(cmd)
			chainID, _ := cmd.Flags().GetString(flagChainID)
			adminStr, _ := cmd.Flags().GetString(flagAdmin)
			overwrite, _ := cmd.Flags().GetBool(flagOverwrite)

			if chainID == "" {
				return fmt.Errorf("--%s cannot be empty", flagChainID)
			}
			admin, err := sdk.AccAddressFromBech32(adminStr)
			if err != nil {
				return fmt.Errorf("invalid --%s address: %w", flagAdmin, err)
			}

			if !overwrite {
				for _, path := range []string{configPath(home), genesisPath(home)} {
					if _, err := os.Stat(path); err == nil {
						return fmt.Errorf("%s already exists; use --%s to replace it", path, flagOverwrite)
					}
				}
			}

			cfg := DefaultConfig()
			cfg.Chain.ChainID = chainID
			if err := WriteConfig(home, cfg); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}

			genesis := app.NewDefaultGenesisDoc(chainID, admin)
			if err := genesis.Save(genesisPath(home)); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "initialized %s (chain %s, admin %s)\n", home, chainID, admin)
			return nil
		},
	}

	cmd.Flags().String(flagChainID, DefaultConfig().Chain.ChainID, "chain id of the new network")
	cmd.Flags().String(flagAdmin, "", "bech32 address of the founding admin")
	cmd.Flags().Bool(flagOverwrite, false, "overwrite existing config and genesis files")
	_ = cmd.MarkFlagRequired(flagAdmin)
	return cmd
}
