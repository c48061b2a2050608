// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/vechain/vault/builtin/solidity"
	"github.com/vechain/vault/builtin/staker/stakes"
	"github.com/vechain/vault/vault"
)

var (
	slotRecords     = solidity.Slot("stake-records")
	slotActive      = solidity.Slot("stake-active")
	slotHistoryLen  = solidity.Slot("stake-history-length")
	slotActiveCount = solidity.Slot("stake-active-count")
)

// historyKey locates a record as the index-th stake of owner.
type historyKey struct {
	Owner vault.Address
	Index uint64
}

func (k historyKey) Bytes() []byte {
	b := make([]byte, 0, vault.AddressLength+8)
	b = append(b, k.Owner[:]...)
	return binary.BigEndian.AppendUint64(b, k.Index)
}

// Storage keeps every record once, in the history of its owner. Active records
// are also reachable by token id until they are withdrawn.
type Storage struct {
	records     *solidity.Mapping[historyKey, *stakes.Record]
	active      *solidity.Mapping[vault.TokenID, historyKey]
	historyLen  *solidity.Mapping[vault.Address, uint64]
	activeCount *solidity.Mapping[vault.Address, uint64]
}

func NewStorage(sctx *solidity.Context) *Storage {
	return &Storage{
		records:     solidity.NewMapping[historyKey, *stakes.Record](sctx, slotRecords),
		active:      solidity.NewMapping[vault.TokenID, historyKey](sctx, slotActive),
		historyLen:  solidity.NewMapping[vault.Address, uint64](sctx, slotHistoryLen),
		activeCount: solidity.NewMapping[vault.Address, uint64](sctx, slotActiveCount),
	}
}

// getActive returns the active record of tokenID, or an empty record.
func (s *Storage) getActive(tokenID vault.TokenID) (*stakes.Record, error) {
	exists, err := s.active.Exists(tokenID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get active stake")
	}
	if !exists {
		return &stakes.Record{}, nil
	}
	key, err := s.active.Get(tokenID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get active stake")
	}
	return s.getRecord(key.Owner, key.Index)
}

func (s *Storage) getRecord(owner vault.Address, index uint64) (*stakes.Record, error) {
	rec, err := s.records.Get(historyKey{owner, index})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get stake record")
	}
	return rec, nil
}

// addRecord appends rec to the history of its owner and indexes it by token id.
func (s *Storage) addRecord(rec *stakes.Record) error {
	length, err := s.historyLen.Get(rec.Owner)
	if err != nil {
		return errors.Wrap(err, "failed to get history length")
	}
	rec.Index = length
	key := historyKey{rec.Owner, length}

	if err := s.records.Set(key, rec); err != nil {
		return errors.Wrap(err, "failed to set stake record")
	}
	if err := s.active.Set(rec.TokenID, key); err != nil {
		return errors.Wrap(err, "failed to set active stake")
	}
	if err := s.historyLen.Set(rec.Owner, length+1); err != nil {
		return errors.Wrap(err, "failed to set history length")
	}
	return nil
}

func (s *Storage) updateRecord(rec *stakes.Record) error {
	if err := s.records.Set(historyKey{rec.Owner, rec.Index}, rec); err != nil {
		return errors.Wrap(err, "failed to set stake record")
	}
	return nil
}

// archive removes the token id index of a record, keeping it in the history.
func (s *Storage) archive(tokenID vault.TokenID) {
	s.active.Delete(tokenID)
}

func (s *Storage) getHistoryLen(owner vault.Address) (uint64, error) {
	length, err := s.historyLen.Get(owner)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get history length")
	}
	return length, nil
}

func (s *Storage) getActiveCount(owner vault.Address) (uint64, error) {
	count, err := s.activeCount.Get(owner)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get active stake count")
	}
	return count, nil
}

func (s *Storage) addActiveCount(owner vault.Address, delta int) error {
	count, err := s.getActiveCount(owner)
	if err != nil {
		return err
	}
	if delta < 0 && count < uint64(-delta) {
		return errors.Errorf("active stake count underflow for %v", owner)
	}
	if err := s.activeCount.Set(owner, uint64(int64(count)+int64(delta))); err != nil {
		return errors.Wrap(err, "failed to set active stake count")
	}
	return nil
}
