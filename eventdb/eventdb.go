// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"context"
	"database/sql"
	"math"
	"math/big"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/vault/vault"
)

const eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY NOT NULL,
	kind TEXT NOT NULL,
	account BLOB NOT NULL,
	tokenID BLOB,
	amount TEXT
);

CREATE INDEX IF NOT EXISTS event_i0 ON event(account);
CREATE INDEX IF NOT EXISTS event_i1 ON event(tokenID);
CREATE INDEX IF NOT EXISTS event_i2 ON event(kind);
`

const memPath = ":memory:"

const insertEventQuery = "INSERT OR REPLACE INTO event(seq, kind, account, tokenID, amount) VALUES(?, ?, ?, ?, ?)"

// EventDB stores ledger events in sqlite.
type EventDB struct {
	path          string
	db            *sql.DB
	stmtCache     *stmtCache
	driverVersion string
}

// New create or open an event db at given path.
func New(path string) (eventDB *EventDB, err error) {
	dsn := path
	if path != memPath {
		dsn += "?_journal_mode=WAL&_busy_timeout=5000"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	defer func() {
		if eventDB == nil {
			db.Close()
		}
	}()
	if path == memPath {
		// a memory db lives as long as its only connection
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, errors.Wrap(err, "create schema")
	}

	driverVer, _, _ := sqlite3.Version()
	return &EventDB{
		path:          path,
		db:            db,
		stmtCache:     newStmtCache(db),
		driverVersion: driverVer,
	}, nil
}

// NewMem create an event db in ram.
func NewMem() (*EventDB, error) {
	return New(memPath)
}

func (db *EventDB) Close() error {
	db.stmtCache.Clear()
	return db.db.Close()
}

func (db *EventDB) Path() string {
	return db.path
}

func (db *EventDB) DriverVersion() string {
	return db.driverVersion
}

// Insert writes events atomically. Re-inserting an event at the same position replaces it.
func (db *EventDB) Insert(events []*Event) (err error) {
	if len(events) == 0 {
		return nil
	}
	stmt, err := db.stmtCache.Prepare(insertEventQuery)
	if err != nil {
		return err
	}
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	txStmt := tx.Stmt(stmt)
	for _, ev := range events {
		seq, err := newSequence(ev.BlockNumber, ev.Index)
		if err != nil {
			return err
		}
		var (
			tokenID []byte
			amount  any
		)
		if ev.TokenID != nil {
			tokenID = ev.TokenID.Bytes()
		}
		if ev.Amount != nil {
			amount = ev.Amount.String()
		}
		if _, err := txStmt.Exec(seq, ev.Kind, ev.Account.Bytes(), tokenID, amount); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// NewestBlock returns the block number of the latest event, 0 if there is none.
func (db *EventDB) NewestBlock() (uint32, error) {
	var seq sql.NullInt64
	if err := db.db.QueryRow("SELECT MAX(seq) FROM event").Scan(&seq); err != nil {
		return 0, err
	}
	if !seq.Valid {
		return 0, nil
	}
	return sequence(seq.Int64).BlockNumber(), nil
}

// Filter returns the events matching filter.
func (db *EventDB) Filter(ctx context.Context, filter *Filter) ([]*Event, error) {
	if filter == nil {
		return db.query(ctx, "SELECT seq, kind, account, tokenID, amount FROM event ORDER BY seq ASC")
	}

	var (
		args []any
		sb   strings.Builder
	)
	sb.WriteString("SELECT seq, kind, account, tokenID, amount FROM event WHERE 1")
	if filter.Range != nil {
		from, _ := newSequence(filter.Range.From, 0)
		to, _ := newSequence(filter.Range.To, math.MaxInt32)
		sb.WriteString(" AND seq >= ? AND seq <= ?")
		args = append(args, from, to)
	}
	if filter.Account != nil {
		sb.WriteString(" AND account = ?")
		args = append(args, filter.Account.Bytes())
	}
	if filter.TokenID != nil {
		sb.WriteString(" AND tokenID = ?")
		args = append(args, filter.TokenID.Bytes())
	}
	if len(filter.Kinds) > 0 {
		sb.WriteString(" AND kind IN (?" + strings.Repeat(", ?", len(filter.Kinds)-1) + ")")
		for _, kind := range filter.Kinds {
			args = append(args, kind)
		}
	}
	if filter.Order == DESC {
		sb.WriteString(" ORDER BY seq DESC")
	} else {
		sb.WriteString(" ORDER BY seq ASC")
	}
	if filter.Options != nil {
		sb.WriteString(" LIMIT ?, ?")
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.query(ctx, sb.String(), args...)
}

func (db *EventDB) query(ctx context.Context, query string, args ...any) ([]*Event, error) {
	stmt, err := db.stmtCache.Prepare(query)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var (
			seq     sequence
			kind    string
			account []byte
			tokenID []byte
			amount  sql.NullString
		)
		if err := rows.Scan(&seq, &kind, &account, &tokenID, &amount); err != nil {
			return nil, err
		}
		ev := &Event{
			BlockNumber: seq.BlockNumber(),
			Index:       seq.Index(),
			Kind:        kind,
			Account:     vault.BytesToAddress(account),
		}
		if len(tokenID) > 0 {
			var id vault.TokenID
			copy(id[:], tokenID)
			ev.TokenID = &id
		}
		if amount.Valid {
			v, ok := new(big.Int).SetString(amount.String, 10)
			if !ok {
				return nil, errors.Errorf("invalid amount %q", amount.String)
			}
			ev.Amount = v
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
