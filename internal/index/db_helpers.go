package index

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// Tables lists the data tables in dependency order.
var Tables = []string{"areas", "delivery_points", "delivery_point_cargo", "bus_stops", "ev_chargers", "houses", "point_areas"}

func deleteAll(e execer) error {
	for i := len(Tables) - 1; i >= 0; i-- {
		if _, err := e.Exec("DELETE FROM " + Tables[i]); err != nil {
			return fmt.Errorf("delete from %s: %w", Tables[i], err)
		}
	}
	return nil
}

func jsonText(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func nullFloat(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: v != 0}
}

// inClause returns "?" placeholders for items. No items yields "NULL", so
// `IN (NULL)` matches nothing.
func inClause(items []string) (string, []any) {
	if len(items) == 0 {
		return "NULL", nil
	}
	ph := make([]string, len(items))
	args := make([]any, len(items))
	for i, item := range items {
		ph[i] = "?"
		args[i] = item
	}
	return strings.Join(ph, ", "), args
}

// scanRows scans and closes rows.
func scanRows[T any](rows *sql.Rows, scan func(*sql.Rows) (T, error)) ([]T, error) {
	defer rows.Close()

	var out []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
