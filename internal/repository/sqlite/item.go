package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/rewear/internal/apperror"
	"github.com/sakif/rewear/internal/model"
	"github.com/sakif/rewear/internal/repository"
)

// compile-time check that *ItemStore implements repository.ItemRepository
var _ repository.ItemRepository = (*ItemStore)(nil)

// ItemStore is the sqlite-backed repository.ItemRepository.
type ItemStore struct {
	conn *sql.DB
}

// encodeList JSON-encodes a string slice for storage. nil becomes "[]"
// so columns never hold NULL or the empty string.
func encodeList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("encoding list: %w", err)
	}
	return string(data), nil
}

func decodeList(data string) ([]string, error) {
	var list []string
	if err := json.Unmarshal([]byte(data), &list); err != nil {
		return nil, fmt.Errorf("decoding list: %w", err)
	}
	return list, nil
}

// Create inserts a new item. ID and timestamps are generated here;
// status defaults to available when the caller left it empty.
func (db *ItemStore) Create(ctx context.Context, item *model.Item) error {
	item.ID = xid.New().String()
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now
	if item.Status == "" {
		item.Status = model.ItemAvailable
	}

	images, err := encodeList(item.Images)
	if err != nil {
		return fmt.Errorf("sqlite: creating item: %w", err)
	}
	tags, err := encodeList(item.Tags)
	if err != nil {
		return fmt.Errorf("sqlite: creating item: %w", err)
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO items (id, title, description, images, category, type, size,
		                    condition, tags, status, uploader_id, swap_with_id,
		                    points_value, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID,
		item.Title,
		item.Description,
		images,
		item.Category,
		item.Type,
		item.Size,
		item.Condition,
		tags,
		item.Status,
		item.UploaderID,
		item.SwapWithID,
		item.PointsValue,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating item: %w", err)
	}

	return nil
}

// itemWithUploaderQuery selects item columns plus the uploader's display
// fields in one join, so reads never need a second user lookup.
const itemWithUploaderQuery = `
	SELECT i.id, i.title, i.description, i.images, i.category, i.type,
	       i.size, i.condition, i.tags, i.status, i.uploader_id,
	       i.swap_with_id, i.points_value, i.created_at, i.updated_at,
	       u.fullname, u.email, u.profile_photo
	FROM items i
	JOIN users u ON u.id = i.uploader_id`

// scanItem reads one joined row into an Item with its uploader attached.
func scanItem(scan func(dest ...any) error) (*model.Item, error) {
	var (
		item          model.Item
		images, tags  string
		uploaderName  string
		uploaderEmail string
		uploaderPhoto string
	)

	err := scan(
		&item.ID,
		&item.Title,
		&item.Description,
		&images,
		&item.Category,
		&item.Type,
		&item.Size,
		&item.Condition,
		&tags,
		&item.Status,
		&item.UploaderID,
		&item.SwapWithID,
		&item.PointsValue,
		&item.CreatedAt,
		&item.UpdatedAt,
		&uploaderName,
		&uploaderEmail,
		&uploaderPhoto,
	)
	if err != nil {
		return nil, err
	}

	if item.Images, err = decodeList(images); err != nil {
		return nil, err
	}
	if item.Tags, err = decodeList(tags); err != nil {
		return nil, err
	}

	item.Uploader = &model.UserSummary{
		ID:           item.UploaderID,
		FullName:     uploaderName,
		Email:        uploaderEmail,
		ProfilePhoto: uploaderPhoto,
	}

	return &item, nil
}

// GetByID retrieves a single item with uploader details attached.
func (db *ItemStore) GetByID(ctx context.Context, id string) (*model.Item, error) {
	row := db.conn.QueryRowContext(ctx, itemWithUploaderQuery+` WHERE i.id = ?`, id)

	item, err := scanItem(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("item", id)
		}
		return nil, fmt.Errorf("sqlite: getting item %s: %w", id, err)
	}

	return item, nil
}

// List retrieves items matching the filter, newest first.
//
// The WHERE clause is built dynamically but ONLY from fixed column
// predicates — values always go through ? placeholders, never string
// concatenation, so the filter set can't inject SQL.
func (db *ItemStore) List(ctx context.Context, filter repository.ItemFilter) ([]model.Item, error) {
	query := itemWithUploaderQuery
	var (
		conds []string
		args  []any
	)

	addCond := func(cond string, val any) {
		conds = append(conds, cond)
		args = append(args, val)
	}

	if filter.Category != "" {
		addCond("i.category = ?", filter.Category)
	}
	if filter.Type != "" {
		addCond("i.type = ?", filter.Type)
	}
	if filter.Size != "" {
		addCond("i.size = ?", filter.Size)
	}
	if filter.Condition != "" {
		addCond("i.condition = ?", filter.Condition)
	}
	if filter.Status != "" {
		addCond("i.status = ?", string(filter.Status))
	}
	if filter.UploaderID != "" {
		addCond("i.uploader_id = ?", filter.UploaderID)
	}

	for idx, cond := range conds {
		if idx == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY i.created_at DESC, i.id DESC"

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing items: %w", err)
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		item, err := scanItem(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning item row: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating items: %w", err)
	}

	return items, nil
}

// Update persists a modified item. Same RowsAffected pattern as the rest
// of the package — zero rows means the item vanished underneath us.
func (db *ItemStore) Update(ctx context.Context, item *model.Item) error {
	item.UpdatedAt = time.Now()

	images, err := encodeList(item.Images)
	if err != nil {
		return fmt.Errorf("sqlite: updating item: %w", err)
	}
	tags, err := encodeList(item.Tags)
	if err != nil {
		return fmt.Errorf("sqlite: updating item: %w", err)
	}

	result, err := db.conn.ExecContext(ctx,
		`UPDATE items
		 SET title = ?, description = ?, images = ?, category = ?, type = ?,
		     size = ?, condition = ?, tags = ?, status = ?, swap_with_id = ?,
		     points_value = ?, updated_at = ?
		 WHERE id = ?`,
		item.Title,
		item.Description,
		images,
		item.Category,
		item.Type,
		item.Size,
		item.Condition,
		tags,
		item.Status,
		item.SwapWithID,
		item.PointsValue,
		item.UpdatedAt,
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating item %s: %w", item.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("item", item.ID)
	}

	return nil
}

// Delete removes an item and its swaps in one transaction, so no swap is
// ever left pointing at a missing item.
func (db *ItemStore) Delete(ctx context.Context, id string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM swaps WHERE item_id = ?`, id); err != nil {
		return fmt.Errorf("sqlite: deleting item's swaps: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting item %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("item", id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing item delete: %w", err)
	}

	return nil
}
