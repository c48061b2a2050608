// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/vault/vault"
)

// Initialize writes the initial configuration. It can run only once.
func (s *Staker) Initialize(cfg *Config) error {
	logger.Debug("initializing", "administrator", cfg.Administrator, "rewardPerBlock", cfg.RewardPerBlock,
		"delay", cfg.DelayPeriod, "unbonding", cfg.UnbondingPeriod)

	initialized, err := s.params.initialized.Get()
	if err != nil {
		return errors.Wrap(err, "failed to get initialized flag")
	}
	if initialized {
		return ErrAlreadyInitialized
	}
	if err := cfg.validate(); err != nil {
		return err
	}
	if err := s.params.write(cfg); err != nil {
		return errors.Wrap(err, "failed to write config")
	}

	s.emit(EventAdministratorChanged, cfg.Administrator, nil, nil)
	logger.Info("initialized", "administrator", cfg.Administrator)
	return nil
}

// onlyAdmin returns the config if caller is the administrator.
func (s *Staker) onlyAdmin(caller vault.Address) (*Config, error) {
	cfg, err := s.config()
	if err != nil {
		return nil, err
	}
	if caller != cfg.Administrator {
		return nil, ErrNotAuthorized
	}
	return cfg, nil
}

// admin runs an administrative change with uniform logging.
func (s *Staker) admin(op string, caller vault.Address, fn func(cfg *Config) error, ctx ...any) error {
	logger.Debug(op, append([]any{"caller", caller}, ctx...)...)

	cfg, err := s.onlyAdmin(caller)
	if err == nil {
		err = fn(cfg)
	}
	if err != nil {
		logger.Info(op+" failed", "caller", caller, "error", err)
		return err
	}

	logger.Info(op, ctx...)
	return nil
}

// Pause closes the admission gate.
func (s *Staker) Pause(caller vault.Address) error {
	return s.admin("pause", caller, func(cfg *Config) error {
		if cfg.Paused {
			return ErrPaused
		}
		if err := s.params.paused.Set(true); err != nil {
			return err
		}
		s.emit(EventPaused, caller, nil, nil)
		return nil
	})
}

// Unpause opens the admission gate.
func (s *Staker) Unpause(caller vault.Address) error {
	return s.admin("unpause", caller, func(cfg *Config) error {
		if !cfg.Paused {
			return ErrNotPaused
		}
		if err := s.params.paused.Set(false); err != nil {
			return err
		}
		s.emit(EventUnpaused, caller, nil, nil)
		return nil
	})
}

// SetRewardRate changes the reward per block. Records already unbonding keep their frozen reward.
func (s *Staker) SetRewardRate(caller vault.Address, rewardPerBlock *big.Int) error {
	return s.admin("set reward rate", caller, func(*Config) error {
		if err := validateRewardRate(rewardPerBlock); err != nil {
			return err
		}
		if err := s.params.rewardPerBlock.Set(rewardPerBlock); err != nil {
			return err
		}
		s.emit(EventRewardRateChanged, caller, nil, new(big.Int).Set(rewardPerBlock))
		return nil
	}, "rewardPerBlock", rewardPerBlock)
}

func (s *Staker) SetDelayPeriod(caller vault.Address, blocks uint32) error {
	return s.admin("set delay period", caller, func(*Config) error {
		if err := s.params.delayPeriod.Set(blocks); err != nil {
			return err
		}
		s.emit(EventDelayPeriodChanged, caller, nil, new(big.Int).SetUint64(uint64(blocks)))
		return nil
	}, "blocks", blocks)
}

func (s *Staker) SetUnbondingPeriod(caller vault.Address, blocks uint32) error {
	return s.admin("set unbonding period", caller, func(*Config) error {
		if err := s.params.unbondingPeriod.Set(blocks); err != nil {
			return err
		}
		s.emit(EventUnbondingPeriodChanged, caller, nil, new(big.Int).SetUint64(uint64(blocks)))
		return nil
	}, "blocks", blocks)
}

// TransferAdministrator hands the administrator capability to another account.
func (s *Staker) TransferAdministrator(caller vault.Address, newAdmin vault.Address) error {
	return s.admin("transfer administrator", caller, func(*Config) error {
		if newAdmin.IsZero() {
			return errors.WithMessage(ErrInvalidConfig, "administrator must be set")
		}
		if err := s.params.administrator.Set(&newAdmin); err != nil {
			return err
		}
		s.emit(EventAdministratorChanged, newAdmin, nil, nil)
		return nil
	}, "newAdmin", newAdmin)
}
