// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"io"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/vault/builtin/staker"
	"github.com/vechain/vault/vault"
)

const defaultBlockInterval = 10 * time.Second

// Mint is a collectible created when the ledger is initialized.
type Mint struct {
	Owner   vault.Address `yaml:"owner"`
	TokenID string        `yaml:"tokenId"`
}

// Config is the content of the ledger config file. Absent fields take defaults.
type Config struct {
	Administrator   *vault.Address `yaml:"administrator"`
	RewardPerBlock  string         `yaml:"rewardPerBlock"`
	DelayPeriod     *uint32        `yaml:"delayPeriod"`
	UnbondingPeriod *uint32        `yaml:"unbondingPeriod"`
	WithdrawGated   *bool          `yaml:"withdrawGated"`
	CountPolicy     string         `yaml:"countPolicy"`
	BlockInterval   time.Duration  `yaml:"blockInterval"`
	Minter          *vault.Address `yaml:"minter"`
	Mints           []Mint         `yaml:"mints"`
}

func loadConfig(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open config file")
	}
	defer file.Close()
	return decodeConfig(file)
}

func decodeConfig(r io.Reader) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decode config file")
	}
	return &cfg, nil
}

// StakerConfig builds the staker config, admin overrides the administrator of the file.
func (c *Config) StakerConfig(admin *vault.Address) (*staker.Config, error) {
	if admin == nil {
		admin = c.Administrator
	}
	if admin == nil {
		return nil, errors.New("administrator not specified")
	}
	cfg := staker.DefaultConfig(*admin)

	if c.RewardPerBlock != "" {
		rate, ok := math.ParseBig256(c.RewardPerBlock)
		if !ok {
			return nil, errors.Errorf("invalid rewardPerBlock %q", c.RewardPerBlock)
		}
		cfg.RewardPerBlock = rate
	}
	if c.DelayPeriod != nil {
		cfg.DelayPeriod = *c.DelayPeriod
	}
	if c.UnbondingPeriod != nil {
		cfg.UnbondingPeriod = *c.UnbondingPeriod
	}
	if c.WithdrawGated != nil {
		cfg.WithdrawGated = *c.WithdrawGated
	}
	switch c.CountPolicy {
	case "", "untilWithdrawn":
		cfg.CountPolicy = staker.CountUntilWithdrawn
	case "untilUnbonding":
		cfg.CountPolicy = staker.CountUntilUnbonding
	default:
		return nil, errors.Errorf("invalid countPolicy %q", c.CountPolicy)
	}
	return cfg, nil
}

// Interval returns the block interval, flag overrides the file.
func (c *Config) Interval(flag time.Duration) time.Duration {
	switch {
	case flag > 0:
		return flag
	case c.BlockInterval > 0:
		return c.BlockInterval
	default:
		return defaultBlockInterval
	}
}

// TokenIDs parses the ids of the initial mints.
func (c *Config) TokenIDs() ([]vault.TokenID, error) {
	ids := make([]vault.TokenID, 0, len(c.Mints))
	seen := make(map[vault.TokenID]bool, len(c.Mints))
	for _, m := range c.Mints {
		id, err := vault.ParseTokenID(m.TokenID)
		if err != nil {
			return nil, err
		}
		if seen[id] {
			return nil, errors.Errorf("duplicated mint of token %v", id)
		}
		if m.Owner.IsZero() {
			return nil, errors.Errorf("mint of token %v: owner not specified", id)
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}
