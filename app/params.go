package app

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	// Bech32PrefixAccAddr defines the Bech32 prefix of an account's address
	Bech32PrefixAccAddr = "pin"
	// Bech32PrefixAccPub defines the Bech32 prefix of an account's public key
	Bech32PrefixAccPub = "pinpub"

	// CoinType is the SLIP44 coin type used for key derivation
	CoinType = 118

	// PayDenom is the default payment denomination of the service.
	PayDenom = "upin"
)

// SetConfig seals the address prefixes of the pinservice network. Only the
// daemon calls it; tests run with the SDK defaults.
func SetConfig() {
	config := sdk.GetConfig()
	config.SetBech32PrefixForAccount(Bech32PrefixAccAddr, Bech32PrefixAccPub)
	config.SetCoinType(CoinType)
	config.Seal()
}
