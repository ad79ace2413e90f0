package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"

	pintypes "github.com/paw-chain/pinservice/x/pinservice/types"
)

// GenesisBalance is an account funded at genesis.
type GenesisBalance struct {
	Address string    `json:"address"`
	Coins   sdk.Coins `json:"coins"`
}

// GenesisDoc is the genesis.json document of a pinservice host.
type GenesisDoc struct {
	ChainID     string                `json:"chain_id"`
	GenesisTime time.Time             `json:"genesis_time"`
	Balances    []GenesisBalance      `json:"balances"`
	PinService  pintypes.GenesisState `json:"pinservice"`
}

// NewDefaultGenesisDoc returns a genesis with the default service config and
// admin as founding admin.
func NewDefaultGenesisDoc(chainID string, admin sdk.AccAddress) *GenesisDoc {
	pin := pintypes.DefaultGenesis()
	pin.Config.PayDenom = PayDenom
	if !admin.Empty() {
		pin.Admins = []string{admin.String()}
	}
	return &GenesisDoc{
		ChainID:     chainID,
		GenesisTime: time.Now().UTC().Truncate(time.Second),
		Balances:    []GenesisBalance{},
		PinService:  *pin,
	}
}

// Validate performs basic validation of the genesis document
func (g GenesisDoc) Validate() error {
	if g.ChainID == "" {
		return fmt.Errorf("chain_id cannot be empty")
	}
	seen := make(map[string]bool)
	for i, b := range g.Balances {
		if _, err := sdk.AccAddressFromBech32(b.Address); err != nil {
			return fmt.Errorf("balance %d: invalid address: %w", i, err)
		}
		if seen[b.Address] {
			return fmt.Errorf("balance %d: duplicate account %s", i, b.Address)
		}
		seen[b.Address] = true
		if err := b.Coins.Validate(); err != nil {
			return fmt.Errorf("balance %d: invalid coins: %w", i, err)
		}
	}
	if err := g.PinService.Validate(); err != nil {
		return fmt.Errorf("pinservice: %w", err)
	}
	return nil
}

// AddAccount funds addr at genesis, merging with an existing balance.
func (g *GenesisDoc) AddAccount(addr sdk.AccAddress, coins sdk.Coins) error {
	if err := coins.Validate(); err != nil {
		return fmt.Errorf("invalid coins: %w", err)
	}
	for i, b := range g.Balances {
		if b.Address == addr.String() {
			g.Balances[i].Coins = b.Coins.Add(coins...)
			return nil
		}
	}
	g.Balances = append(g.Balances, GenesisBalance{Address: addr.String(), Coins: coins})
	return nil
}

// LoadGenesisDoc reads a genesis document from path
func LoadGenesisDoc(path string) (*GenesisDoc, error) {
	bz, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read genesis: %w", err)
	}
	var g GenesisDoc
	if err := json.Unmarshal(bz, &g); err != nil {
		return nil, fmt.Errorf("failed to decode genesis: %w", err)
	}
	return &g, nil
}

// Save writes the genesis document to path, creating parent directories.
func (g GenesisDoc) Save(path string) error {
	bz, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode genesis: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, bz, 0o644)
}
