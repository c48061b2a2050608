// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governance

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/vault/builtin/staker"
	"github.com/vechain/vault/vault"
)

type Config struct {
	Administrator   vault.Address         `json:"administrator"`
	RewardPerBlock  *math.HexOrDecimal256 `json:"rewardPerBlock"`
	DelayPeriod     uint32                `json:"delayPeriod"`
	UnbondingPeriod uint32                `json:"unbondingPeriod"`
	WithdrawGated   bool                  `json:"withdrawGated"`
	CountPolicy     string                `json:"countPolicy"`
	Paused          bool                  `json:"paused"`
	Block           uint32                `json:"block"`
}

var countPolicyNames = map[staker.CountPolicy]string{
	staker.CountUntilWithdrawn: "untilWithdrawn",
	staker.CountUntilUnbonding: "untilUnbonding",
}

func convertConfig(cfg *staker.Config, block uint32) *Config {
	return &Config{
		Administrator:   cfg.Administrator,
		RewardPerBlock:  (*math.HexOrDecimal256)(cfg.RewardPerBlock),
		DelayPeriod:     cfg.DelayPeriod,
		UnbondingPeriod: cfg.UnbondingPeriod,
		WithdrawGated:   cfg.WithdrawGated,
		CountPolicy:     countPolicyNames[cfg.CountPolicy],
		Paused:          cfg.Paused,
		Block:           block,
	}
}

type CallerRequest struct {
	Caller vault.Address `json:"caller"`
}

type RewardRateRequest struct {
	Caller         vault.Address         `json:"caller"`
	RewardPerBlock *math.HexOrDecimal256 `json:"rewardPerBlock"`
}

type PeriodRequest struct {
	Caller vault.Address `json:"caller"`
	Blocks uint32        `json:"blocks"`
}

type AdministratorRequest struct {
	Caller        vault.Address `json:"caller"`
	Administrator vault.Address `json:"administrator"`
}
