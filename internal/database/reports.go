package database

import (
	"context"
	"time"
)

const getDailySalesSQL = `
	SELECT DATE(created_at) AS day,
	       COUNT(id) AS orders,
	       COALESCE(SUM(total_cents), 0) AS revenue_cents
	FROM orders
	GROUP BY DATE(created_at)
	ORDER BY DATE(created_at) DESC
	LIMIT $1`

type DailySalesRow struct {
	Day          time.Time
	Orders       int64
	RevenueCents int64
}

func (q *Queries) GetDailySales(ctx context.Context, limit int32) ([]DailySalesRow, error) {
	rows, err := q.db.Query(ctx, getDailySalesSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []DailySalesRow
	for rows.Next() {
		var r DailySalesRow
		if err := rows.Scan(&r.Day, &r.Orders, &r.RevenueCents); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

const countOrdersByModeSQL = `
	SELECT mode, COUNT(id) FROM orders GROUP BY mode`

const countOrdersByStatusSQL = `
	SELECT status, COUNT(id) FROM orders GROUP BY status`

type CountRow struct {
	Key   string
	Count int64
}

func (q *Queries) CountOrdersByMode(ctx context.Context) ([]CountRow, error) {
	return q.countGrouped(ctx, countOrdersByModeSQL)
}

func (q *Queries) CountOrdersByStatus(ctx context.Context) ([]CountRow, error) {
	return q.countGrouped(ctx, countOrdersByStatusSQL)
}

func (q *Queries) countGrouped(ctx context.Context, sql string) ([]CountRow, error) {
	rows, err := q.db.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []CountRow
	for rows.Next() {
		var r CountRow
		if err := rows.Scan(&r.Key, &r.Count); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
