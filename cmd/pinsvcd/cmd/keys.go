package cmd

import (
	"bufio"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cosmos/cosmos-sdk/client/input"
	"github.com/cosmos/cosmos-sdk/crypto/hd"
	"github.com/cosmos/cosmos-sdk/crypto/keyring"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/tx/signing"
	"github.com/cosmos/go-bip39"
	"github.com/spf13/cobra"

	"github.com/paw-chain/pinservice/api"
	"github.com/paw-chain/pinservice/app"
)

const (
	flagKeyringBackend = "keyring-backend"
	flagMnemonicLength = "mnemonic-length"
	flagNoBackup       = "no-backup"
	flagRecover        = "recover"
	flagAccount        = "account"
	flagIndex          = "index"
)

// KeysCmd manages the local keyring used to sign API logins
func KeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage local secp256k1 keys",
		Long: `Keys manages the local keyring. Keys sign the login challenges issued by
the API; the address of a key is the identity it acts as.`,
	}

	cmd.PersistentFlags().String(flagKeyringBackend, keyring.BackendTest, "keyring backend (os|file|test)")
	cmd.AddCommand(
		AddKeyCmd(),
		ListKeysCmd(),
		ShowKeyCmd(),
		DeleteKeyCmd(),
		SignLoginCmd(),
	)
	return cmd
}

func openKeyring(cmd *cobra.Command) (keyring.Keyring, error) {
	backend, _ := cmd.Flags().GetString(flagKeyringBackend)
	encoding := app.MakeEncodingConfig()
	kr, err := keyring.New(sdk.KeyringServiceName(), backend, homeDir(cmd), cmd.InOrStdin(), encoding.Codec)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	return kr, nil
}

// AddKeyCmd derives a new key from a fresh or recovered BIP39 mnemonic
func AddKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a new key with BIP39 mnemonic generation",
		Long: `Add a new key to the keyring. A BIP39 mnemonic is generated from secure
random entropy and displayed for backup unless --no-backup is set. With
--recover the mnemonic is read from stdin instead.

Examples:
  pinsvcd keys add publisher                      # 24-word mnemonic
  pinsvcd keys add pinner --mnemonic-length 12
  pinsvcd keys add admin --recover`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return fmt.Errorf("argument 'name' cannot be empty")
			}

			kr, err := openKeyring(cmd)
			if err != nil {
				return err
			}

			recoverExisting, _ := cmd.Flags().GetBool(flagRecover)
			noBackup, _ := cmd.Flags().GetBool(flagNoBackup)

			var mnemonic string
			if recoverExisting {
				mnemonic, err = readMnemonic(cmd)
				noBackup = true
			} else {
				length, _ := cmd.Flags().GetInt(flagMnemonicLength)
				mnemonic, err = newMnemonic(length)
			}
			if err != nil {
				return err
			}

			account, _ := cmd.Flags().GetUint32(flagAccount)
			index, _ := cmd.Flags().GetUint32(flagIndex)
			hdPath := hd.CreateHDPath(sdk.GetConfig().GetCoinType(), account, index)

			record, err := kr.NewAccount(name, mnemonic, keyring.DefaultBIP39Passphrase, hdPath.String(), hd.Secp256k1)
			if err != nil {
				return fmt.Errorf("failed to create key: %w", err)
			}
			if err := printKey(cmd, record); err != nil {
				return err
			}

			if !noBackup {
				fmt.Fprintf(cmd.OutOrStdout(), "**IMPORTANT** Write this mnemonic phrase in a safe place.\n")
				fmt.Fprintf(cmd.OutOrStdout(), "It is the only way to recover your key.\n\n")
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n", mnemonic)
			}
			return nil
		},
	}

	cmd.Flags().Bool(flagRecover, false, "recover the key from a mnemonic read from stdin")
	cmd.Flags().Int(flagMnemonicLength, 24, "mnemonic length (12 or 24 words)")
	cmd.Flags().Bool(flagNoBackup, false, "do not print the mnemonic")
	cmd.Flags().Uint32(flagAccount, 0, "account number for HD derivation")
	cmd.Flags().Uint32(flagIndex, 0, "address index number for HD derivation")
	return cmd
}

func newMnemonic(words int) (string, error) {
	var entropySize int
	switch words {
	case 12:
		entropySize = 128 / 8
	case 24:
		entropySize = 256 / 8
	default:
		return "", fmt.Errorf("mnemonic length must be 12 or 24 words")
	}

	entropy := make([]byte, entropySize)
	if _, err := rand.Read(entropy); err != nil {
		return "", fmt.Errorf("failed to generate secure entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("failed to generate mnemonic: %w", err)
	}
	return mnemonic, nil
}

func readMnemonic(cmd *cobra.Command) (string, error) {
	buf := bufio.NewReader(cmd.InOrStdin())
	raw, err := input.GetString("Enter your bip39 mnemonic", buf)
	if err != nil {
		return "", fmt.Errorf("failed to read mnemonic: %w", err)
	}

	words := strings.Fields(raw)
	if len(words) != 12 && len(words) != 24 {
		return "", fmt.Errorf("invalid mnemonic length: expected 12 or 24 words, got %d", len(words))
	}
	mnemonic := strings.Join(words, " ")
	if !bip39.IsMnemonicValid(mnemonic) {
		return "", fmt.Errorf("invalid mnemonic: checksum failed")
	}
	return mnemonic, nil
}

func printKey(cmd *cobra.Command, record *keyring.Record) error {
	addr, err := record.GetAddress()
	if err != nil {
		return fmt.Errorf("failed to get address: %w", err)
	}
	pubKey, err := record.GetPubKey()
	if err != nil {
		return fmt.Errorf("failed to get public key: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "- name: %s\n", record.Name)
	fmt.Fprintf(cmd.OutOrStdout(), "  address: %s\n", addr.String())
	fmt.Fprintf(cmd.OutOrStdout(), "  pubkey: %X\n\n", pubKey.Bytes())
	return nil
}

// ListKeysCmd lists every key in the keyring
func ListKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kr, err := openKeyring(cmd)
			if err != nil {
				return err
			}
			records, err := kr.List()
			if err != nil {
				return fmt.Errorf("failed to list keys: %w", err)
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No keys found")
				return nil
			}
			for _, record := range records {
				if err := printKey(cmd, record); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// ShowKeyCmd prints one key
func ShowKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [name]",
		Short: "Show key information",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kr, err := openKeyring(cmd)
			if err != nil {
				return err
			}
			record, err := kr.Key(args[0])
			if err != nil {
				return fmt.Errorf("key %s not found: %w", args[0], err)
			}
			return printKey(cmd, record)
		},
	}
}

// DeleteKeyCmd removes a key from the keyring
func DeleteKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [name]",
		Short: "Delete a key",
		Long:  "Delete a key from the keyring. The key cannot be restored without its mnemonic.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kr, err := openKeyring(cmd)
			if err != nil {
				return err
			}
			if err := kr.Delete(args[0]); err != nil {
				return fmt.Errorf("failed to delete key: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Key %s deleted\n", args[0])
			return nil
		},
	}
}

// SignLoginCmd answers an API login challenge. The output is the JSON body of
// POST /api/v1/auth/login.
func SignLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign-login [name] [nonce]",
		Short: "Sign an API login challenge",
		Long: `Sign the login challenge for nonce, as returned by
GET /api/v1/auth/challenge?address=<address>, and print the login request body.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			chainID, _ := cmd.Flags().GetString(flagChainID)
			if chainID == "" {
				return fmt.Errorf("--%s cannot be empty", flagChainID)
			}

			kr, err := openKeyring(cmd)
			if err != nil {
				return err
			}
			req, err := signLogin(kr, args[0], chainID, args[1])
			if err != nil {
				return err
			}

			bz, err := json.MarshalIndent(req, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(bz))
			return nil
		},
	}
	cmd.Flags().String(flagChainID, DefaultConfig().Chain.ChainID, "chain id the API serves")
	return cmd
}

func signLogin(kr keyring.Keyring, name, chainID, nonce string) (api.LoginRequest, error) {
	record, err := kr.Key(name)
	if err != nil {
		return api.LoginRequest{}, fmt.Errorf("key %s not found: %w", name, err)
	}
	addr, err := record.GetAddress()
	if err != nil {
		return api.LoginRequest{}, err
	}

	msg := api.ChallengeMessage(chainID, addr.String(), nonce)
	sig, pubKey, err := kr.Sign(name, msg, signing.SignMode_SIGN_MODE_DIRECT)
	if err != nil {
		return api.LoginRequest{}, fmt.Errorf("failed to sign challenge: %w", err)
	}
	return api.LoginRequest{
		Address:   addr.String(),
		PubKey:    pubKey.Bytes(),
		Nonce:     nonce,
		Signature: sig,
	}, nil
}
