package index

import (
	"context"
	"database/sql"
	"fmt"
)

// Counts returns the row count of every data table.
func (d *Database) Counts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(Tables))
	for _, table := range Tables {
		var n int64
		if err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

// AreaSummary is an area with the number of points inside it.
type AreaSummary struct {
	Key    string `json:"key"`
	Name   string `json:"name"`
	Flag   string `json:"flag"`
	Points int64  `json:"points"`
}

// Areas lists areas ordered by name.
func (d *Database) Areas(ctx context.Context) ([]AreaSummary, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT a.key, a.name, a.flag, COUNT(pa.point_key)
		FROM areas a
		LEFT JOIN point_areas pa ON pa.area_key = a.key
		GROUP BY a.key, a.name, a.flag
		ORDER BY a.name
	`)
	if err != nil {
		return nil, err
	}
	return scanRows(rows, func(r *sql.Rows) (AreaSummary, error) {
		var a AreaSummary
		err := r.Scan(&a.Key, &a.Name, &a.Flag, &a.Points)
		return a, err
	})
}

// PointRef identifies a point in one of the point tables.
type PointRef struct {
	Table string `json:"table"`
	Key   string `json:"key"`
}

// PointsInArea lists the points tagged with any of the given area keys.
func (d *Database) PointsInArea(ctx context.Context, areaKeys ...string) ([]PointRef, error) {
	ph, args := inClause(areaKeys)
	rows, err := d.db.QueryContext(ctx, `
		SELECT DISTINCT point_table, point_key FROM point_areas
		WHERE area_key IN (`+ph+`)
		ORDER BY point_table, point_key
	`, args...)
	if err != nil {
		return nil, err
	}
	return scanRows(rows, func(r *sql.Rows) (PointRef, error) {
		var p PointRef
		err := r.Scan(&p.Table, &p.Key)
		return p, err
	})
}

// DemandFor returns demand capacity per point key for a cargo.
func (d *Database) DemandFor(ctx context.Context, cargo string) (map[string]int64, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT point_key, max_storage FROM delivery_point_cargo
		WHERE kind = 'demand' AND cargo = ?
	`, cargo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int64{}
	for rows.Next() {
		var key string
		var n int64
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		out[key] = n
	}
	return out, rows.Err()
}
