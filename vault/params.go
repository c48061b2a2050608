// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import "math/big"

// Default staking parameters, used when a deployment does not provide its own.
const (
	DefaultDelayPeriod     = uint32(10) // blocks between stake and an allowed unbonding request
	DefaultUnbondingPeriod = uint32(20) // blocks between unbonding start and an allowed withdrawal
)

// DefaultRewardPerBlock 1 reward token (18 decimals) per block.
var DefaultRewardPerBlock = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// Addresses of the built-in contracts. Their storage lives in the same state.
var (
	StakerAddress      = BytesToAddress([]byte("Staker"))
	CollectibleAddress = BytesToAddress([]byte("Collectible"))
	RewardsAddress     = BytesToAddress([]byte("Rewards"))
)
