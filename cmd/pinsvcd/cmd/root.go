package cmd

import (
	"sync"

	"github.com/spf13/cobra"

	"github.com/paw-chain/pinservice/app"
)

const flagHome = "home"

var sdkConfigOnce sync.Once

// initSDKConfig seals the bech32 prefixes once per process.
func initSDKConfig() {
	sdkConfigOnce.Do(app.SetConfig)
}

// NewRootCmd creates the root command for pinsvcd. It is called once in the
// main function.
func NewRootCmd() *cobra.Command {
	initSDKConfig()

	rootCmd := &cobra.Command{
		Use:   "pinsvcd",
		Short: "Pinning service daemon",
		Long: `pinsvcd hosts the pinning service ledger: publishers pay to have content
pinned, registered pinners collect the payments, and admins govern the
service configuration. State is committed in blocks and exposed over an
authenticated HTTP API.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())
			return nil
		},
	}

	rootCmd.PersistentFlags().String(flagHome, app.DefaultNodeHome, "directory for config and data")

	rootCmd.AddCommand(
		InitCmd(),
		StartCmd(),
		KeysCmd(),
		GenesisCmd(),
		VersionCmd(),
	)
	return rootCmd
}

func homeDir(cmd *cobra.Command) string {
	home, err := cmd.Flags().GetString(flagHome)
	if err != nil || home == "" {
		return app.DefaultNodeHome
	}
	return home
}
