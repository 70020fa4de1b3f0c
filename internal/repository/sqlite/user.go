package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/rewear/internal/apperror"
	"github.com/sakif/rewear/internal/model"
	"github.com/sakif/rewear/internal/repository"
)

// compile-time check that *UserStore implements repository.UserRepository
var _ repository.UserRepository = (*UserStore)(nil)

// UserStore is the sqlite-backed repository.UserRepository.
type UserStore struct {
	conn *sql.DB
}

const userColumns = `id, fullname, email, phone_number, password_hash,
	profile_photo, role, github_id, created_at, updated_at`

// Create inserts a new user. The ID (an xid — 20 chars, URL-safe,
// sortable by creation time) and timestamps are generated here, so the
// caller's struct carries them afterwards.
//
// A duplicate email violates the UNIQUE constraint; we translate that
// into a Conflict so the service can tell "email taken" apart from a
// real database failure.
func (db *UserStore) Create(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Role == "" {
		user.Role = model.RoleUser
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, fullname, email, phone_number, password_hash,
		                    profile_photo, role, github_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.FullName,
		user.Email,
		user.PhoneNumber,
		user.PasswordHash,
		user.ProfilePhoto,
		user.Role,
		user.GitHubID,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.email") {
			return apperror.Conflict("user", user.Email)
		}
		return fmt.Errorf("sqlite: creating user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by their internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (db *UserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	return db.getUser(ctx, `WHERE id = ?`, id)
}

// GetByEmail retrieves a user by email — the signin lookup.
func (db *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return db.getUser(ctx, `WHERE email = ?`, email)
}

// GetByGitHubID retrieves a user linked to the given GitHub account.
func (db *UserStore) GetByGitHubID(ctx context.Context, githubID int64) (*model.User, error) {
	return db.getUser(ctx, `WHERE github_id = ? AND github_id != 0`, githubID)
}

func (db *UserStore) getUser(ctx context.Context, where string, arg any) (*model.User, error) {
	var u model.User
	err := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users `+where, arg,
	).Scan(
		&u.ID,
		&u.FullName,
		&u.Email,
		&u.PhoneNumber,
		&u.PasswordHash,
		&u.ProfilePhoto,
		&u.Role,
		&u.GitHubID,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		// sql.ErrNoRows is a sentinel, not a failure — translate it to
		// our domain NotFound so handlers map it to 404.
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", fmt.Sprint(arg))
		}
		return nil, fmt.Errorf("sqlite: getting user: %w", err)
	}

	return &u, nil
}

// Update persists profile mutations (fullname, phone, photo, role,
// password hash, github link). Email and ID are immutable here.
func (db *UserStore) Update(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE users
		 SET fullname = ?, phone_number = ?, password_hash = ?,
		     profile_photo = ?, role = ?, github_id = ?, updated_at = ?
		 WHERE id = ?`,
		user.FullName,
		user.PhoneNumber,
		user.PasswordHash,
		user.ProfilePhoto,
		user.Role,
		user.GitHubID,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("user", user.ID)
	}

	return nil
}

// Delete removes a user and everything hanging off them: swaps they
// participate in, their items, and swaps on those items. One transaction
// so an admin ban can never leave dangling references behind.
func (db *UserStore) Delete(ctx context.Context, id string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	// Rollback is a no-op after Commit — safe to always defer.
	defer tx.Rollback()

	// Swaps on the user's items (from third parties), then swaps the
	// user is a side of, then the items, then the user. Order matters
	// with foreign keys on.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM swaps WHERE item_id IN (SELECT id FROM items WHERE uploader_id = ?)`, id,
	); err != nil {
		return fmt.Errorf("sqlite: deleting swaps on user's items: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM swaps WHERE requester_id = ? OR owner_id = ?`, id, id,
	); err != nil {
		return fmt.Errorf("sqlite: deleting user's swaps: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM items WHERE uploader_id = ?`, id,
	); err != nil {
		return fmt.Errorf("sqlite: deleting user's items: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting user %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("user", id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing user delete: %w", err)
	}

	return nil
}
