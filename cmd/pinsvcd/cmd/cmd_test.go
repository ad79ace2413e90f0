package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/cosmos/cosmos-sdk/crypto/hd"
	"github.com/cosmos/cosmos-sdk/crypto/keyring"
	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/pinservice/api"
	"github.com/paw-chain/pinservice/app"
)

func setFlag(tb testing.TB, flagSet *pflag.FlagSet, name, value string) {
	tb.Helper()
	require.NoError(tb, flagSet.Set(name, value))
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func testAddress(seed string) sdk.AccAddress {
	initSDKConfig()
	return sdk.AccAddress(secp256k1.GenPrivKeyFromSecret([]byte(seed)).PubKey().Address())
}

func TestInitCmd(t *testing.T) {
	home := t.TempDir()
	admin := testAddress("admin")

	_, err := execute(t, "init", "--home", home, "--chain-id", "pinsvc-test", "--admin", admin.String())
	require.NoError(t, err)

	cfg, err := LoadConfig(home)
	require.NoError(t, err)
	require.Equal(t, "pinsvc-test", cfg.Chain.ChainID)
	require.Equal(t, 5*time.Second, cfg.Chain.BlockTime)
	require.Equal(t, []string{"http://localhost:3000"}, cfg.API.CORSOrigins)

	genesis, err := app.LoadGenesisDoc(genesisPath(home))
	require.NoError(t, err)
	require.NoError(t, genesis.Validate())
	require.Equal(t, "pinsvc-test", genesis.ChainID)
	require.Equal(t, []string{admin.String()}, genesis.PinService.Admins)

	_, err = execute(t, "init", "--home", home, "--admin", admin.String())
	require.ErrorContains(t, err, "already exists")

	_, err = execute(t, "init", "--home", home, "--chain-id", "pinsvc-2", "--admin", admin.String(), "--overwrite")
	require.NoError(t, err)
	cfg, err = LoadConfig(home)
	require.NoError(t, err)
	require.Equal(t, "pinsvc-2", cfg.Chain.ChainID)
}

func TestInitCmdRejectsBadAdmin(t *testing.T) {
	_, err := execute(t, "init", "--home", t.TempDir(), "--admin", "not-an-address")
	require.ErrorContains(t, err, "invalid --admin")
}

func TestAddGenesisAccountCmd(t *testing.T) {
	home := t.TempDir()
	admin := testAddress("admin")
	publisher := testAddress("publisher")

	_, err := execute(t, "init", "--home", home, "--admin", admin.String())
	require.NoError(t, err)

	_, err = execute(t, "genesis", "add-account", publisher.String(), "1000", "--home", home)
	require.NoError(t, err)
	_, err = execute(t, "genesis", "add-account", publisher.String(), "500upin,7stake", "--home", home)
	require.NoError(t, err)

	genesis, err := app.LoadGenesisDoc(genesisPath(home))
	require.NoError(t, err)
	require.Len(t, genesis.Balances, 1)
	require.Equal(t, "1500", genesis.Balances[0].Coins.AmountOf(app.PayDenom).String())
	require.Equal(t, "7", genesis.Balances[0].Coins.AmountOf("stake").String())

	out, err := execute(t, "genesis", "validate", "--home", home)
	require.NoError(t, err)
	require.Contains(t, out, "is valid")

	_, err = execute(t, "genesis", "add-account", publisher.String(), "0", "--home", home)
	require.Error(t, err)
	_, err = execute(t, "genesis", "add-account", "bogus", "10", "--home", home)
	require.ErrorContains(t, err, "invalid address")
}

func TestParseGenesisAmount(t *testing.T) {
	coins, err := parseGenesisAmount(" 42 ", "upin")
	require.NoError(t, err)
	require.Equal(t, "42upin", coins.String())

	_, err = parseGenesisAmount("-5", "upin")
	require.Error(t, err)

	_, err = parseGenesisAmount("ten", "upin")
	require.Error(t, err)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, WriteConfig(home, DefaultConfig()))

	t.Setenv("PINSVC_CHAIN_BLOCK_TIME", "2s")
	t.Setenv("PINSVC_API_RATE_LIMIT_RPS", "7")

	cfg, err := LoadConfig(home)
	require.NoError(t, err)
	require.Equal(t, 2*time.Second, cfg.Chain.BlockTime)
	require.Equal(t, 7, cfg.API.RateLimitRPS)
	require.Equal(t, DefaultConfig().API.Address, cfg.API.Address)
}

func TestLoadConfigWithoutFile(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, DefaultConfig().Chain.ChainID, cfg.Chain.ChainID)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Chain.BlockTime = 0
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Indexer.Postgres = true
	cfg.Indexer.DSN = ""
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Telemetry.SampleRate = 1.5
	require.Error(t, cfg.Validate())
}

func TestKeysAddAndShow(t *testing.T) {
	home := t.TempDir()

	out, err := execute(t, "keys", "add", "publisher", "--home", home, "--mnemonic-length", "12")
	require.NoError(t, err)
	require.Contains(t, out, "name: publisher")
	require.Contains(t, out, "address: "+app.Bech32PrefixAccAddr+"1")
	require.Contains(t, out, "**IMPORTANT**")

	out, err = execute(t, "keys", "list", "--home", home)
	require.NoError(t, err)
	require.Contains(t, out, "publisher")

	_, err = execute(t, "keys", "add", "bad", "--home", home, "--mnemonic-length", "15")
	require.ErrorContains(t, err, "12 or 24")

	_, err = execute(t, "keys", "delete", "publisher", "--home", home)
	require.NoError(t, err)
	_, err = execute(t, "keys", "show", "publisher", "--home", home)
	require.Error(t, err)
}

func TestKeysAddFlags(t *testing.T) {
	cmd := AddKeyCmd()
	setFlag(t, cmd.Flags(), flagMnemonicLength, "12")
	setFlag(t, cmd.Flags(), flagNoBackup, "true")

	length, err := cmd.Flags().GetInt(flagMnemonicLength)
	require.NoError(t, err)
	require.Equal(t, 12, length)
}

func TestSignLogin(t *testing.T) {
	initSDKConfig()
	kr := keyring.NewInMemory(app.MakeEncodingConfig().Codec)

	mnemonic, err := newMnemonic(24)
	require.NoError(t, err)
	record, err := kr.NewAccount("pinner", mnemonic, keyring.DefaultBIP39Passphrase,
		hd.CreateHDPath(app.CoinType, 0, 0).String(), hd.Secp256k1)
	require.NoError(t, err)
	addr, err := record.GetAddress()
	require.NoError(t, err)

	req, err := signLogin(kr, "pinner", "pinsvc-test", "nonce-1")
	require.NoError(t, err)
	require.Equal(t, addr.String(), req.Address)

	pk := &secp256k1.PubKey{Key: req.PubKey}
	require.Equal(t, addr, sdk.AccAddress(pk.Address()))
	require.True(t, pk.VerifySignature(api.ChallengeMessage("pinsvc-test", addr.String(), "nonce-1"), req.Signature))
	require.False(t, pk.VerifySignature(api.ChallengeMessage("other-chain", addr.String(), "nonce-1"), req.Signature))

	_, err = signLogin(kr, "missing", "pinsvc-test", "nonce-1")
	require.Error(t, err)
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, "pinsvcd "+api.Version)
}
