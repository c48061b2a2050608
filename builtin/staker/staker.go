// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/vechain/vault/builtin/solidity"
	"github.com/vechain/vault/builtin/staker/stakes"
	"github.com/vechain/vault/custody"
	"github.com/vechain/vault/log"
	"github.com/vechain/vault/state"
	"github.com/vechain/vault/vault"
)

var logger = log.WithContext("pkg", "staker")

func SetLogger(l log.Logger) {
	logger = l
}

// Payer credits the reward of a withdrawn stake.
type Payer interface {
	Pay(to vault.Address, amount *big.Int) error
}

// Staker implements the native methods of the `Staker` contract: a custodial
// staking ledger where collectibles earn a per block reward until unbonding begins.
type Staker struct {
	address vault.Address
	storage *Storage
	params  *params
	custody custody.Adapter
	payer   Payer
	emitter Emitter
}

// New create a new instance bound to the storage of addr.
func New(addr vault.Address, state *state.State, custody custody.Adapter, payer Payer, emitter Emitter) *Staker {
	sctx := solidity.NewContext(addr, state)
	return &Staker{
		address: addr,
		storage: NewStorage(sctx),
		params:  newParams(sctx),
		custody: custody,
		payer:   payer,
		emitter: emitter,
	}
}

func (s *Staker) Address() vault.Address {
	return s.address
}

// elapsed reports whether at least period blocks passed since the given block.
// A block before since never satisfies it.
func elapsed(current, since, period uint32) bool {
	d, underflow := math.SafeSub(uint64(current), uint64(since))
	return !underflow && d >= uint64(period)
}

func (s *Staker) config() (*Config, error) {
	initialized, err := s.params.initialized.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get initialized flag")
	}
	if !initialized {
		return nil, ErrNotInitialized
	}
	cfg, err := s.params.read()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config")
	}
	return cfg, nil
}

// activeRecord returns the active record of tokenID owned by caller.
func (s *Staker) activeRecord(caller vault.Address, tokenID vault.TokenID) (*stakes.Record, error) {
	rec, err := s.storage.getActive(tokenID)
	if err != nil {
		return nil, err
	}
	if rec.IsEmpty() {
		return nil, ErrRecordNotFound
	}
	if rec.Owner != caller {
		return nil, ErrNotOwner
	}
	return rec, nil
}

//
// Getters - no state change
//

// IsInitialized reports whether the staker was initialized.
func (s *Staker) IsInitialized() (bool, error) {
	return s.params.initialized.Get()
}

// Config returns the current configuration.
func (s *Staker) Config() (*Config, error) {
	return s.config()
}

// IsPaused reports whether the admission gate is closed.
func (s *Staker) IsPaused() (bool, error) {
	cfg, err := s.config()
	if err != nil {
		return false, err
	}
	return cfg.Paused, nil
}

func (s *Staker) Administrator() (vault.Address, error) {
	cfg, err := s.config()
	if err != nil {
		return vault.Address{}, err
	}
	return cfg.Administrator, nil
}

func (s *Staker) RewardPerBlock() (*big.Int, error) {
	cfg, err := s.config()
	if err != nil {
		return nil, err
	}
	return cfg.RewardPerBlock, nil
}

func (s *Staker) DelayPeriod() (uint32, error) {
	cfg, err := s.config()
	if err != nil {
		return 0, err
	}
	return cfg.DelayPeriod, nil
}

func (s *Staker) UnbondingPeriod() (uint32, error) {
	cfg, err := s.config()
	if err != nil {
		return 0, err
	}
	return cfg.UnbondingPeriod, nil
}

// GetStakeInfo returns the active record of tokenID.
func (s *Staker) GetStakeInfo(tokenID vault.TokenID) (*stakes.Record, error) {
	rec, err := s.storage.getActive(tokenID)
	if err != nil {
		return nil, err
	}
	if rec.IsEmpty() {
		return nil, ErrRecordNotFound
	}
	return rec, nil
}

// ActiveStakeCount returns the number of active stakes of account, per the count policy.
func (s *Staker) ActiveStakeCount(account vault.Address) (uint64, error) {
	return s.storage.getActiveCount(account)
}

// PendingReward returns what the active record of tokenID would earn if unbonding
// began at currentBlock, or its frozen reward once unbonding began.
func (s *Staker) PendingReward(tokenID vault.TokenID, currentBlock uint32) (*big.Int, error) {
	cfg, err := s.config()
	if err != nil {
		return nil, err
	}
	rec, err := s.GetStakeInfo(tokenID)
	if err != nil {
		return nil, err
	}
	reward, err := rec.PendingReward(cfg.RewardPerBlock, currentBlock)
	if err != nil {
		return nil, rewardError(err)
	}
	return reward, nil
}

// StakesOf returns the stake history of account, oldest first.
func (s *Staker) StakesOf(account vault.Address) ([]*stakes.Record, error) {
	length, err := s.storage.getHistoryLen(account)
	if err != nil {
		return nil, err
	}
	records := make([]*stakes.Record, 0, length)
	for i := range length {
		rec, err := s.storage.getRecord(account, i)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// StakeAt returns the index-th stake of account.
func (s *Staker) StakeAt(account vault.Address, index uint64) (*stakes.Record, error) {
	length, err := s.storage.getHistoryLen(account)
	if err != nil {
		return nil, err
	}
	if index >= length {
		return nil, ErrRecordNotFound
	}
	return s.storage.getRecord(account, index)
}

//
// Setters - state change
//

// Stake takes tokenID into custody on behalf of caller.
func (s *Staker) Stake(caller vault.Address, tokenID vault.TokenID, currentBlock uint32) error {
	logger.Debug("staking", "caller", caller, "tokenID", tokenID, "block", currentBlock)

	if err := s.stake(caller, tokenID, currentBlock); err != nil {
		logger.Info("stake failed", "caller", caller, "tokenID", tokenID, "error", err)
		return err
	}

	logger.Info("staked", "owner", caller, "tokenID", tokenID, "block", currentBlock)
	return nil
}

func (s *Staker) stake(caller vault.Address, tokenID vault.TokenID, currentBlock uint32) error {
	cfg, err := s.config()
	if err != nil {
		return err
	}
	if cfg.Paused {
		return ErrPaused
	}

	existing, err := s.storage.getActive(tokenID)
	if err != nil {
		return err
	}
	if !existing.IsEmpty() {
		return ErrAlreadyStaked
	}

	if err := s.custody.TransferIn(caller, tokenID); err != nil {
		return &custodyError{cause: err}
	}

	rec := &stakes.Record{
		TokenID:       tokenID,
		Owner:         caller,
		Status:        stakes.StatusStaked,
		StakeBlock:    currentBlock,
		AccruedReward: new(big.Int),
	}
	if err := s.storage.addRecord(rec); err != nil {
		return err
	}
	if err := s.storage.addActiveCount(caller, 1); err != nil {
		return err
	}

	s.emit(EventStaked, caller, &tokenID, nil)
	return nil
}

// BeginUnbonding freezes the reward of a staked record once the delay period elapsed.
func (s *Staker) BeginUnbonding(caller vault.Address, tokenID vault.TokenID, currentBlock uint32) error {
	logger.Debug("beginning unbonding", "caller", caller, "tokenID", tokenID, "block", currentBlock)

	reward, err := s.beginUnbonding(caller, tokenID, currentBlock)
	if err != nil {
		logger.Info("begin unbonding failed", "caller", caller, "tokenID", tokenID, "error", err)
		return err
	}

	logger.Info("unbonding started", "owner", caller, "tokenID", tokenID, "block", currentBlock, "reward", reward)
	return nil
}

func (s *Staker) beginUnbonding(caller vault.Address, tokenID vault.TokenID, currentBlock uint32) (*big.Int, error) {
	cfg, err := s.config()
	if err != nil {
		return nil, err
	}
	if cfg.Paused {
		return nil, ErrPaused
	}

	rec, err := s.activeRecord(caller, tokenID)
	if err != nil {
		return nil, err
	}
	if rec.Status != stakes.StatusStaked {
		return nil, ErrNotStaked
	}
	if !elapsed(currentBlock, rec.StakeBlock, cfg.DelayPeriod) {
		return nil, ErrDelayNotElapsed
	}

	reward, err := stakes.Accrue(cfg.RewardPerBlock, rec.StakeBlock, currentBlock)
	if err != nil {
		return nil, rewardError(err)
	}

	rec.Status = stakes.StatusUnbonding
	rec.UnbondingStart = currentBlock
	rec.AccruedReward = reward
	if err := s.storage.updateRecord(rec); err != nil {
		return nil, err
	}
	if cfg.CountPolicy == CountUntilUnbonding {
		if err := s.storage.addActiveCount(caller, -1); err != nil {
			return nil, err
		}
	}

	s.emit(EventUnbondingStarted, caller, &tokenID, new(big.Int).Set(reward))
	return reward, nil
}

// Withdraw releases custody and pays the frozen reward once the unbonding period elapsed.
func (s *Staker) Withdraw(caller vault.Address, tokenID vault.TokenID, currentBlock uint32) (*big.Int, error) {
	logger.Debug("withdrawing", "caller", caller, "tokenID", tokenID, "block", currentBlock)

	reward, err := s.withdraw(caller, tokenID, currentBlock)
	if err != nil {
		logger.Info("withdraw failed", "caller", caller, "tokenID", tokenID, "error", err)
		return nil, err
	}

	logger.Info("withdrew", "owner", caller, "tokenID", tokenID, "block", currentBlock, "reward", reward)
	return reward, nil
}

func (s *Staker) withdraw(caller vault.Address, tokenID vault.TokenID, currentBlock uint32) (*big.Int, error) {
	cfg, err := s.config()
	if err != nil {
		return nil, err
	}
	if cfg.Paused && cfg.WithdrawGated {
		return nil, ErrPaused
	}

	rec, err := s.activeRecord(caller, tokenID)
	if err != nil {
		return nil, err
	}
	if rec.Status != stakes.StatusUnbonding {
		return nil, ErrNotUnbonding
	}
	if !elapsed(currentBlock, rec.UnbondingStart, cfg.UnbondingPeriod) {
		return nil, ErrUnbondingNotElapsed
	}

	rec.Status = stakes.StatusWithdrawn
	rec.WithdrawBlock = currentBlock
	if err := s.storage.updateRecord(rec); err != nil {
		return nil, err
	}
	s.storage.archive(tokenID)

	if cfg.CountPolicy == CountUntilWithdrawn {
		if err := s.storage.addActiveCount(caller, -1); err != nil {
			return nil, err
		}
	}

	if err := s.custody.TransferOut(caller, tokenID); err != nil {
		return nil, &custodyError{cause: err}
	}

	reward := rec.Reward()
	if reward.Sign() > 0 {
		if err := s.payer.Pay(caller, reward); err != nil {
			return nil, errors.Wrap(err, "failed to pay reward")
		}
	}

	s.emit(EventWithdrawn, caller, &tokenID, new(big.Int).Set(reward))
	return reward, nil
}

func rewardError(err error) error {
	if errors.Is(err, stakes.ErrOverflow) {
		return ErrRewardOverflow
	}
	return errors.Wrap(err, "failed to accrue reward")
}
