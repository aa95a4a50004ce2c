package database

import "context"

const createMenuItemSQL = `
	INSERT INTO menu_items (name, category, price_cents, is_available_online, is_available_offline, tags)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id, name, category, price_cents, is_available_online, is_available_offline, tags`

type CreateMenuItemParams struct {
	Name               string
	Category           string
	PriceCents         int64
	IsAvailableOnline  bool
	IsAvailableOffline bool
	Tags               *string
}

func (q *Queries) CreateMenuItem(ctx context.Context, arg CreateMenuItemParams) (MenuItem, error) {
	row := q.db.QueryRow(ctx, createMenuItemSQL,
		arg.Name, arg.Category, arg.PriceCents, arg.IsAvailableOnline, arg.IsAvailableOffline, arg.Tags)
	var m MenuItem
	err := row.Scan(&m.ID, &m.Name, &m.Category, &m.PriceCents, &m.IsAvailableOnline, &m.IsAvailableOffline, &m.Tags)
	return m, err
}

const getMenuItemSQL = `
	SELECT id, name, category, price_cents, is_available_online, is_available_offline, tags
	FROM menu_items WHERE id = $1`

func (q *Queries) GetMenuItem(ctx context.Context, id int64) (MenuItem, error) {
	row := q.db.QueryRow(ctx, getMenuItemSQL, id)
	var m MenuItem
	err := row.Scan(&m.ID, &m.Name, &m.Category, &m.PriceCents, &m.IsAvailableOnline, &m.IsAvailableOffline, &m.Tags)
	return m, err
}

const listMenuItemsSQL = `
	SELECT id, name, category, price_cents, is_available_online, is_available_offline, tags
	FROM menu_items
	WHERE (NOT $1::bool OR is_available_online)
	  AND (NOT $2::bool OR is_available_offline)
	ORDER BY category ASC, name ASC`

type ListMenuItemsParams struct {
	OnlineOnly  bool
	OfflineOnly bool
}

func (q *Queries) ListMenuItems(ctx context.Context, arg ListMenuItemsParams) ([]MenuItem, error) {
	rows, err := q.db.Query(ctx, listMenuItemsSQL, arg.OnlineOnly, arg.OfflineOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []MenuItem
	for rows.Next() {
		var m MenuItem
		if err := rows.Scan(&m.ID, &m.Name, &m.Category, &m.PriceCents, &m.IsAvailableOnline, &m.IsAvailableOffline, &m.Tags); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

const listMenuItemsByIDsSQL = `
	SELECT id, name, category, price_cents, is_available_online, is_available_offline, tags
	FROM menu_items WHERE id = ANY($1)`

// ListMenuItemsByIDs batch-resolves menu items. Missing ids are simply
// absent from the result; callers decide whether that is an error.
func (q *Queries) ListMenuItemsByIDs(ctx context.Context, ids []int64) ([]MenuItem, error) {
	rows, err := q.db.Query(ctx, listMenuItemsByIDsSQL, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []MenuItem
	for rows.Next() {
		var m MenuItem
		if err := rows.Scan(&m.ID, &m.Name, &m.Category, &m.PriceCents, &m.IsAvailableOnline, &m.IsAvailableOffline, &m.Tags); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}
