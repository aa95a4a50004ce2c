package database

import "context"

const listInventorySQL = `
	SELECT id, menu_item_id, name, stock, last_restock
	FROM inventory_items ORDER BY name ASC`

func (q *Queries) ListInventory(ctx context.Context) ([]InventoryItem, error) {
	rows, err := q.db.Query(ctx, listInventorySQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []InventoryItem
	for rows.Next() {
		var it InventoryItem
		if err := rows.Scan(&it.ID, &it.MenuItemID, &it.Name, &it.Stock, &it.LastRestock); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

const setInventoryStockSQL = `
	UPDATE inventory_items
	SET stock = GREATEST($2, 0), last_restock = NOW()
	WHERE id = $1
	RETURNING id, menu_item_id, name, stock, last_restock`

type SetInventoryStockParams struct {
	ID    int64
	Stock int32
}

func (q *Queries) SetInventoryStock(ctx context.Context, arg SetInventoryStockParams) (InventoryItem, error) {
	row := q.db.QueryRow(ctx, setInventoryStockSQL, arg.ID, arg.Stock)
	var it InventoryItem
	err := row.Scan(&it.ID, &it.MenuItemID, &it.Name, &it.Stock, &it.LastRestock)
	return it, err
}

const decrementInventoryStockSQL = `
	UPDATE inventory_items
	SET stock = GREATEST(stock - $2, 0)
	WHERE menu_item_id = $1`

type DecrementInventoryStockParams struct {
	MenuItemID int64
	Quantity   int32
}

// DecrementInventoryStock consumes stock for a sold menu item, floored at
// zero. The single UPDATE makes the read-modify-write atomic in the
// database. Menu items with no linked inventory row are a no-op.
func (q *Queries) DecrementInventoryStock(ctx context.Context, arg DecrementInventoryStockParams) error {
	_, err := q.db.Exec(ctx, decrementInventoryStockSQL, arg.MenuItemID, arg.Quantity)
	return err
}

const createInventoryItemSQL = `
	INSERT INTO inventory_items (menu_item_id, name, stock, last_restock)
	VALUES ($1, $2, $3, NOW())
	RETURNING id, menu_item_id, name, stock, last_restock`

type CreateInventoryItemParams struct {
	MenuItemID *int64
	Name       string
	Stock      int32
}

func (q *Queries) CreateInventoryItem(ctx context.Context, arg CreateInventoryItemParams) (InventoryItem, error) {
	row := q.db.QueryRow(ctx, createInventoryItemSQL, arg.MenuItemID, arg.Name, arg.Stock)
	var it InventoryItem
	err := row.Scan(&it.ID, &it.MenuItemID, &it.Name, &it.Stock, &it.LastRestock)
	return it, err
}
