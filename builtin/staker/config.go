// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/vault/builtin/solidity"
	"github.com/vechain/vault/vault"
)

// LayoutVersion is written at initialization. Bump it when a migration is required.
const LayoutVersion = uint32(1)

// CountPolicy decides when a record stops counting as an active stake of its owner.
type CountPolicy = uint8

const (
	CountUntilWithdrawn CountPolicy = iota // decrement when custody is released
	CountUntilUnbonding                    // decrement when unbonding begins
)

var (
	slotInitialized     = solidity.Slot("initialized")
	slotVersion         = solidity.Slot("layout-version")
	slotAdministrator   = solidity.Slot("administrator")
	slotPaused          = solidity.Slot("paused")
	slotRewardPerBlock  = solidity.Slot("reward-per-block")
	slotDelayPeriod     = solidity.Slot("delay-period")
	slotUnbondingPeriod = solidity.Slot("unbonding-period")
	slotWithdrawGated   = solidity.Slot("withdraw-gated")
	slotCountPolicy     = solidity.Slot("count-policy")
)

// Config is the global configuration of the staker.
type Config struct {
	Administrator   vault.Address
	RewardPerBlock  *big.Int
	DelayPeriod     uint32
	UnbondingPeriod uint32
	WithdrawGated   bool        // withdraw is rejected while paused
	CountPolicy     CountPolicy // when active stake count is decremented
	Paused          bool
}

// DefaultConfig returns the config used when none is given.
func DefaultConfig(admin vault.Address) *Config {
	return &Config{
		Administrator:   admin,
		RewardPerBlock:  new(big.Int).Set(vault.DefaultRewardPerBlock),
		DelayPeriod:     vault.DefaultDelayPeriod,
		UnbondingPeriod: vault.DefaultUnbondingPeriod,
		WithdrawGated:   true,
		CountPolicy:     CountUntilWithdrawn,
	}
}

func validateRewardRate(rate *big.Int) error {
	if rate == nil || rate.Sign() < 0 {
		return errors.WithMessage(ErrInvalidConfig, "reward per block must be non-negative")
	}
	if _, overflow := uint256.FromBig(rate); overflow {
		return errors.WithMessage(ErrInvalidConfig, "reward per block exceeds 256 bits")
	}
	return nil
}

func (c *Config) validate() error {
	if c.Administrator.IsZero() {
		return errors.WithMessage(ErrInvalidConfig, "administrator must be set")
	}
	if err := validateRewardRate(c.RewardPerBlock); err != nil {
		return err
	}
	if c.CountPolicy > CountUntilUnbonding {
		return errors.WithMessagef(ErrInvalidConfig, "unknown count policy %d", c.CountPolicy)
	}
	return nil
}

// params holds the persisted configuration scalars.
type params struct {
	initialized     *solidity.Value[bool]
	version         *solidity.Value[uint32]
	administrator   *solidity.Address
	paused          *solidity.Value[bool]
	rewardPerBlock  *solidity.Uint256
	delayPeriod     *solidity.Value[uint32]
	unbondingPeriod *solidity.Value[uint32]
	withdrawGated   *solidity.Value[bool]
	countPolicy     *solidity.Value[uint8]
}

func newParams(sctx *solidity.Context) *params {
	return &params{
		initialized:     solidity.NewValue[bool](sctx, slotInitialized),
		version:         solidity.NewValue[uint32](sctx, slotVersion),
		administrator:   solidity.NewAddress(sctx, slotAdministrator),
		paused:          solidity.NewValue[bool](sctx, slotPaused),
		rewardPerBlock:  solidity.NewUint256(sctx, slotRewardPerBlock),
		delayPeriod:     solidity.NewValue[uint32](sctx, slotDelayPeriod),
		unbondingPeriod: solidity.NewValue[uint32](sctx, slotUnbondingPeriod),
		withdrawGated:   solidity.NewValue[bool](sctx, slotWithdrawGated),
		countPolicy:     solidity.NewValue[uint8](sctx, slotCountPolicy),
	}
}

func (p *params) write(cfg *Config) error {
	if err := p.administrator.Set(&cfg.Administrator); err != nil {
		return err
	}
	if err := p.rewardPerBlock.Set(cfg.RewardPerBlock); err != nil {
		return err
	}
	if err := p.delayPeriod.Set(cfg.DelayPeriod); err != nil {
		return err
	}
	if err := p.unbondingPeriod.Set(cfg.UnbondingPeriod); err != nil {
		return err
	}
	if err := p.withdrawGated.Set(cfg.WithdrawGated); err != nil {
		return err
	}
	if err := p.countPolicy.Set(cfg.CountPolicy); err != nil {
		return err
	}
	if err := p.paused.Set(cfg.Paused); err != nil {
		return err
	}
	if err := p.version.Set(LayoutVersion); err != nil {
		return err
	}
	return p.initialized.Set(true)
}

func (p *params) read() (*Config, error) {
	var (
		cfg Config
		err error
	)
	if cfg.Administrator, err = p.administrator.Get(); err != nil {
		return nil, err
	}
	if cfg.RewardPerBlock, err = p.rewardPerBlock.Get(); err != nil {
		return nil, err
	}
	if cfg.DelayPeriod, err = p.delayPeriod.Get(); err != nil {
		return nil, err
	}
	if cfg.UnbondingPeriod, err = p.unbondingPeriod.Get(); err != nil {
		return nil, err
	}
	if cfg.WithdrawGated, err = p.withdrawGated.Get(); err != nil {
		return nil, err
	}
	if cfg.CountPolicy, err = p.countPolicy.Get(); err != nil {
		return nil, err
	}
	if cfg.Paused, err = p.paused.Get(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
