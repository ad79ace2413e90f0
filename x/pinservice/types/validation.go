package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multiaddr"
)

// ValidateString enforces the identifier length limit. Empty strings are
// accepted; the service stores what the caller sends.
func ValidateString(field, s string) error {
	if len(s) > MaxStringLength {
		return ErrInvalidString.Wrapf("%s exceeds %d bytes", field, MaxStringLength)
	}
	return nil
}

// ValidateContentID checks the content id length. Any string is accepted and
// hashed, CID or not.
func ValidateContentID(s string) error {
	if len(s) == 0 || len(s) > MaxStringLength {
		return ErrInvalidCid.Wrapf("content id must be 1..%d bytes", MaxStringLength)
	}
	return nil
}

// ValidateMultiaddr checks the multiaddr length only.
func ValidateMultiaddr(s string) error {
	if len(s) > MaxStringLength {
		return ErrInvalidMultiaddr.Wrapf("multiaddr exceeds %d bytes", MaxStringLength)
	}
	return nil
}

// IsCID reports whether s decodes as a CID
func IsCID(s string) bool {
	_, err := cid.Decode(s)
	return err == nil
}

// IsMultiaddr reports whether s parses as a multiaddr
func IsMultiaddr(s string) bool {
	_, err := multiaddr.NewMultiaddr(s)
	return err == nil
}

// ValidateAddress checks that s is a bech32 account address.
func ValidateAddress(field, s string) (sdk.AccAddress, error) {
	addr, err := sdk.AccAddressFromBech32(s)
	if err != nil {
		return nil, ErrInvalidAddress.Wrapf("%s: %s", field, err)
	}
	return addr, nil
}
