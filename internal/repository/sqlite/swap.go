package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/rewear/internal/apperror"
	"github.com/sakif/rewear/internal/model"
	"github.com/sakif/rewear/internal/repository"
)

// compile-time check that *SwapStore implements repository.SwapRepository
var _ repository.SwapRepository = (*SwapStore)(nil)

// SwapStore is the sqlite-backed repository.SwapRepository.
type SwapStore struct {
	conn *sql.DB
}

// Create inserts a new swap request in state pending.
func (db *SwapStore) Create(ctx context.Context, swap *model.Swap) error {
	swap.ID = xid.New().String()
	now := time.Now()
	swap.CreatedAt = now
	swap.UpdatedAt = now
	if swap.Status == "" {
		swap.Status = model.SwapPending
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO swaps (id, item_id, requester_id, owner_id, status, message,
		                    created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		swap.ID,
		swap.ItemID,
		swap.RequesterID,
		swap.OwnerID,
		swap.Status,
		swap.Message,
		swap.CreatedAt,
		swap.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating swap: %w", err)
	}

	return nil
}

// GetByID retrieves a swap by its ID (bare record, no attachments —
// status updates only need the references and current state).
func (db *SwapStore) GetByID(ctx context.Context, id string) (*model.Swap, error) {
	var s model.Swap
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, item_id, requester_id, owner_id, status, message, created_at, updated_at
		 FROM swaps WHERE id = ?`,
		id,
	).Scan(
		&s.ID,
		&s.ItemID,
		&s.RequesterID,
		&s.OwnerID,
		&s.Status,
		&s.Message,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("swap", id)
		}
		return nil, fmt.Errorf("sqlite: getting swap %s: %w", id, err)
	}

	return &s, nil
}

// ListForUser returns all swaps where the user is requester or owner,
// newest first, with the item and both parties' display details attached.
// One query with three joins instead of N+1 per-swap lookups.
func (db *SwapStore) ListForUser(ctx context.Context, userID string) ([]model.Swap, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT s.id, s.item_id, s.requester_id, s.owner_id, s.status, s.message,
		        s.created_at, s.updated_at,
		        i.title, i.images, i.status, i.points_value,
		        req.fullname, req.email, req.profile_photo,
		        own.fullname, own.email, own.profile_photo
		 FROM swaps s
		 JOIN items i   ON i.id = s.item_id
		 JOIN users req ON req.id = s.requester_id
		 JOIN users own ON own.id = s.owner_id
		 WHERE s.requester_id = ? OR s.owner_id = ?
		 ORDER BY s.created_at DESC, s.id DESC`,
		userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing swaps for user %s: %w", userID, err)
	}
	defer rows.Close()

	swaps := []model.Swap{}
	for rows.Next() {
		var (
			s         model.Swap
			item      model.Item
			images    string
			requester model.UserSummary
			owner     model.UserSummary
		)
		if err := rows.Scan(
			&s.ID, &s.ItemID, &s.RequesterID, &s.OwnerID, &s.Status, &s.Message,
			&s.CreatedAt, &s.UpdatedAt,
			&item.Title, &images, &item.Status, &item.PointsValue,
			&requester.FullName, &requester.Email, &requester.ProfilePhoto,
			&owner.FullName, &owner.Email, &owner.ProfilePhoto,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning swap row: %w", err)
		}

		if item.Images, err = decodeList(images); err != nil {
			return nil, fmt.Errorf("sqlite: scanning swap row: %w", err)
		}
		item.ID = s.ItemID
		item.UploaderID = s.OwnerID
		requester.ID = s.RequesterID
		owner.ID = s.OwnerID

		s.Item = &item
		s.Requester = &requester
		s.Owner = &owner
		swaps = append(swaps, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating swaps: %w", err)
	}

	return swaps, nil
}

// UpdateStatus sets the swap's status and refreshes its timestamp.
// Used for reject and complete — transitions with no item side effect.
func (db *SwapStore) UpdateStatus(ctx context.Context, id string, status model.SwapStatus) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE swaps SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating swap %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("swap", id)
	}

	return nil
}

// Accept marks the swap accepted and the referenced item swapped, linked
// to the requester — one transaction, so the two writes land together or
// not at all.
//
// The item update is guarded on status = 'available'. Under SQLite's
// write lock, two concurrent accepts against the same item serialize;
// the second one finds the item already swapped, matches zero rows, and
// the whole transaction rolls back with Conflict. That closes both the
// partial-failure gap and the double-accept race.
func (db *SwapStore) Accept(ctx context.Context, swap *model.Swap) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()

	result, err := tx.ExecContext(ctx,
		`UPDATE items SET status = ?, swap_with_id = ?, updated_at = ?
		 WHERE id = ? AND status = ?`,
		model.ItemSwapped, swap.RequesterID, now,
		swap.ItemID, model.ItemAvailable,
	)
	if err != nil {
		return fmt.Errorf("sqlite: marking item %s swapped: %w", swap.ItemID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		// Item missing or no longer available — either way the accept
		// cannot proceed.
		return apperror.Conflict("item", swap.ItemID)
	}

	result, err = tx.ExecContext(ctx,
		`UPDATE swaps SET status = ?, updated_at = ? WHERE id = ?`,
		model.SwapAccepted, now, swap.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: accepting swap %s: %w", swap.ID, err)
	}
	rowsAffected, err = result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("swap", swap.ID)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing swap accept: %w", err)
	}

	swap.Status = model.SwapAccepted
	swap.UpdatedAt = now
	return nil
}
