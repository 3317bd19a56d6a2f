package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	driver "github.com/go-sql-driver/mysql"

	"go-fairplay/internal/http-server/handlers/mysql"
	"go-fairplay/internal/http-server/model"
)

// InsertResult is the tagged outcome of InsertIfAbsent: a concurrent creation
// race surfaces as InsertConflict, never as an error the caller has to sniff.
type InsertResult int

const (
	InsertCreated InsertResult = iota
	InsertConflict
)

const mysqlDuplicateEntry = 1062

type SeedPairRepository struct {
	dbhandler mysql.Handler
}

func NewSeedPairRepository(dbhandler mysql.Handler) *SeedPairRepository {
	return &SeedPairRepository{dbhandler: dbhandler}
}

const seedPairColumns = "id, user_id, server_seed, server_seed_hash, client_seed, nonce," +
	" next_server_seed, next_server_seed_hash, is_active, revealed_at, created_at, updated_at"

func (repo *SeedPairRepository) FindActive(userID int64) (*model.SeedPair, error) {
	const op = "repository.seed_pair.FindActive"

	const query = "SELECT " + seedPairColumns + " FROM seed_pairs WHERE user_id = ? AND is_active = 1"
	row, err := repo.dbhandler.PrepareAndQueryRow(query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	pair, err := scanSeedPair(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return pair, nil
}

// InsertIfAbsent inserts a new active pair. The seed_pairs table carries a
// unique key on (user_id, is_active) with is_active stored as 1-or-NULL, so
// a concurrent insert for the same user loses with a duplicate-entry error,
// which is absorbed here into InsertConflict.
func (repo *SeedPairRepository) InsertIfAbsent(pair *model.SeedPair) (InsertResult, error) {
	const op = "repository.seed_pair.InsertIfAbsent"

	const query = "INSERT INTO seed_pairs(user_id," +
		" server_seed," +
		" server_seed_hash," +
		" client_seed," +
		" nonce," +
		" next_server_seed," +
		" next_server_seed_hash," +
		" is_active," +
		" created_at," +
		" updated_at) " +
		"VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"

	now := time.Now()

	res, err := repo.dbhandler.PrepareAndExecute(query,
		pair.UserID,
		pair.ServerSeed,
		pair.ServerSeedHash,
		pair.ClientSeed,
		pair.Nonce,
		pair.NextServerSeed,
		pair.NextServerSeedHash,
		activeFlag(pair.IsActive),
		now,
		now)
	if err != nil {
		var mysqlErr *driver.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return InsertConflict, nil
		}

		return InsertCreated, fmt.Errorf("%s: %w", op, err)
	}

	pair.ID, _ = res.LastInsertId()
	pair.CreatedAt = now
	pair.UpdatedAt = now

	return InsertCreated, nil
}

// IncrementNonce bumps the active pair's nonce under a row lock and returns
// the new value. Concurrent callers serialize on the lock, so no two of them
// ever observe the same nonce.
func (repo *SeedPairRepository) IncrementNonce(userID int64) (int64, error) {
	const op = "repository.seed_pair.IncrementNonce"

	tx, err := repo.dbhandler.StartTransaction()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var (
		id    int64
		nonce int64
	)

	row := tx.QueryRow("SELECT id, nonce FROM seed_pairs WHERE user_id = ? AND is_active = 1 FOR UPDATE", userID)
	if err = row.Scan(&id, &nonce); err != nil {
		tx.Rollback()

		return 0, fmt.Errorf("%s: %w", op, err)
	}

	nonce++

	if _, err = tx.Exec("UPDATE seed_pairs SET nonce = ?, updated_at = ? WHERE id = ?", nonce, time.Now(), id); err != nil {
		tx.Rollback()

		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return nonce, nil
}

// Rotate deactivates the current active pair, stamping revealed_at, and
// inserts the promoted successor as the new active row, all in one
// transaction.
func (repo *SeedPairRepository) Rotate(userID int64, revealedAt time.Time, promoted *model.SeedPair) error {
	const op = "repository.seed_pair.Rotate"

	tx, err := repo.dbhandler.StartTransaction()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	const deactivate = "UPDATE seed_pairs SET is_active = NULL, revealed_at = ?, updated_at = ? " +
		"WHERE user_id = ? AND is_active = 1"
	if _, err = tx.Exec(deactivate, revealedAt, revealedAt, userID); err != nil {
		tx.Rollback()

		return fmt.Errorf("%s: %w", op, err)
	}

	const insert = "INSERT INTO seed_pairs(user_id," +
		" server_seed," +
		" server_seed_hash," +
		" client_seed," +
		" nonce," +
		" next_server_seed," +
		" next_server_seed_hash," +
		" is_active," +
		" created_at," +
		" updated_at) " +
		"VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"

	res, err := tx.Exec(insert,
		promoted.UserID,
		promoted.ServerSeed,
		promoted.ServerSeedHash,
		promoted.ClientSeed,
		promoted.Nonce,
		promoted.NextServerSeed,
		promoted.NextServerSeedHash,
		activeFlag(promoted.IsActive),
		revealedAt,
		revealedAt)
	if err != nil {
		tx.Rollback()

		return fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	promoted.ID, _ = res.LastInsertId()
	promoted.CreatedAt = revealedAt
	promoted.UpdatedAt = revealedAt

	return nil
}

func scanSeedPair(row *sql.Row) (*model.SeedPair, error) {
	pair := &model.SeedPair{}

	var active sql.NullInt64

	err := row.Scan(
		&pair.ID,
		&pair.UserID,
		&pair.ServerSeed,
		&pair.ServerSeedHash,
		&pair.ClientSeed,
		&pair.Nonce,
		&pair.NextServerSeed,
		&pair.NextServerSeedHash,
		&active,
		&pair.RevealedAt,
		&pair.CreatedAt,
		&pair.UpdatedAt)
	if err != nil {
		return nil, err
	}

	pair.IsActive = active.Valid && active.Int64 == 1

	return pair, nil
}

// activeFlag maps the bool onto the 1-or-NULL column the unique key expects.
func activeFlag(active bool) interface{} {
	if active {
		return 1
	}

	return nil
}
