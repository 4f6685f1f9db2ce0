// Package metadata stores off-chain descriptions of deployed vaults.
package metadata

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned when no metadata exists for a vault address
var ErrNotFound = errors.New("vault metadata not found")

// AssetInfo describes one underlying asset of a vault
type AssetInfo struct {
	Address     string `json:"address"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Provider    string `json:"provider"`
	Country     string `json:"country"`
	Rating      string `json:"rating"`
	Description string `json:"description"`
}

// VaultMetadata is the off-chain record attached to a vault address
type VaultMetadata struct {
	VaultAddress string      `json:"vaultAddress"`
	Description  string      `json:"description"`
	APR          float64     `json:"apr"`
	IsNew        bool        `json:"isNew"`
	Assets       []AssetInfo `json:"assets"`
}

// Store reads and writes vault metadata. Addresses are matched case-insensitively.
type Store interface {
	Get(ctx context.Context, vaultAddress string) (*VaultMetadata, error)
	Set(ctx context.Context, meta VaultMetadata) error
	// Batch returns the metadata found for addresses, keyed by the address as requested
	Batch(ctx context.Context, vaultAddresses []string) (map[string]VaultMetadata, error)
}

// Key normalises a vault address for storage
func Key(vaultAddress string) string {
	return strings.ToLower(strings.TrimSpace(vaultAddress))
}

func (m VaultMetadata) clone() VaultMetadata {
	c := m
	c.Assets = append([]AssetInfo{}, m.Assets...)
	return c
}
