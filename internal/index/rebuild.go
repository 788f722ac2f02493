package index

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/aidanlsb/mtpoi/internal/extract"
	"github.com/aidanlsb/mtpoi/internal/model"
	"github.com/aidanlsb/mtpoi/internal/slugs"
	"github.com/aidanlsb/mtpoi/internal/spatial"
)

// Rebuild replaces the database contents with res in one transaction.
func (d *Database) Rebuild(ctx context.Context, res *extract.Result) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteAll(tx); err != nil {
		return err
	}
	if err := indexAreas(tx, res.Areas); err != nil {
		return err
	}
	if err := indexDeliveryPoints(tx, res.DeliveryPoints); err != nil {
		return err
	}
	if err := indexBusStops(tx, res.BusStops); err != nil {
		return err
	}
	if err := indexEvChargers(tx, res.EvChargers); err != nil {
		return err
	}
	if err := indexHouses(tx, res.Houses); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit index: %w", err)
	}

	_, err = d.db.ExecContext(ctx, "ANALYZE")
	return err
}

func indexAreas(tx *sql.Tx, areas []model.AreaVolume) error {
	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO areas (key, name, flag, vertex_count, min_x, min_y, max_x, max_y, vertices)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, a := range areas {
		verts := make([]spatial.Vec2, len(a.Vertex))
		for i, v := range a.Vertex {
			verts[i] = spatial.Vec2{X: v.X, Y: v.Y}
		}
		var bounds [4]sql.NullFloat64
		if len(verts) > 0 {
			box := spatial.NewArea(a.Name, a.Flag, verts).BBox()
			for i, v := range []float64{box.MinX, box.MinY, box.MaxX, box.MaxY} {
				bounds[i] = sql.NullFloat64{Float64: v, Valid: true}
			}
		}
		vertices, err := jsonText(a.Vertex)
		if err != nil {
			return err
		}
		if _, err := stmt.Exec(slugs.AreaKey(a.Name), a.Name, a.Flag, len(a.Vertex),
			bounds[0], bounds[1], bounds[2], bounds[3], vertices); err != nil {
			return fmt.Errorf("failed to insert area %s: %w", a.Name, err)
		}
	}
	return nil
}

// keyer hands out unique point keys, falling back to the record position when
// a GUID repeats.
type keyer map[string]bool

func (k keyer) key(typ, guid string, i int) string {
	key := slugs.PointKey(typ, guid, i)
	if k[key] {
		key = slugs.PointKey(typ, "", i)
	}
	k[key] = true
	return key
}

func indexDeliveryPoints(tx *sql.Tx, points []model.DeliveryPoint) error {
	stmt, err := tx.Prepare(`
		INSERT INTO delivery_points (key, guid, type, name, x, y, z, location, max_storage,
			max_delivery_distance, max_delivery_receive_distance, production_count, drop_points)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	cargoStmt, err := tx.Prepare(`
		INSERT INTO delivery_point_cargo (point_key, kind, cargo, max_storage, payment_multiplier)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer cargoStmt.Close()

	keys := keyer{}
	for i, p := range points {
		key := keys.key(p.Type, p.GUID, i)
		x, y, z := coords(p.RelativeLocation)
		drops, err := jsonText(orEmpty(p.DropPoint))
		if err != nil {
			return err
		}
		if _, err := stmt.Exec(key, p.GUID, p.Type, p.Name, x, y, z, p.Location, p.MaxStorage,
			nullFloat(p.MaxDeliveryDistance), nullFloat(p.MaxDeliveryReceiveDistance),
			len(p.ProductionConfigs), drops); err != nil {
			return fmt.Errorf("failed to insert delivery point %s: %w", key, err)
		}

		for _, cargo := range sortedKeys(p.DemandStorage) {
			mult := sql.NullFloat64{}
			if m, ok := p.DemandConfigs[cargo]; ok {
				mult = sql.NullFloat64{Float64: m, Valid: true}
			}
			if _, err := cargoStmt.Exec(key, "demand", cargo, p.DemandStorage[cargo], mult); err != nil {
				return fmt.Errorf("failed to insert demand %s for %s: %w", cargo, key, err)
			}
		}
		for _, cargo := range sortedKeys(p.SupplyStorage) {
			if _, err := cargoStmt.Exec(key, "supply", cargo, p.SupplyStorage[cargo], nil); err != nil {
				return fmt.Errorf("failed to insert supply %s for %s: %w", cargo, key, err)
			}
		}
		if err := indexPointAreas(tx, "delivery_points", key, p.Areas); err != nil {
			return err
		}
	}
	return nil
}

func indexBusStops(tx *sql.Tx, stops []model.BusStopPoint) error {
	stmt, err := tx.Prepare(`
		INSERT INTO bus_stops (key, guid, type, name, x, y, z, location, terminal)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	keys := keyer{}
	for i, s := range stops {
		key := keys.key(s.Type, s.GUID, i)
		x, y, z := coords(s.RelativeLocation)
		if _, err := stmt.Exec(key, s.GUID, s.Type, s.Name, x, y, z, s.Location, s.Terminal); err != nil {
			return fmt.Errorf("failed to insert bus stop %s: %w", key, err)
		}
		if err := indexPointAreas(tx, "bus_stops", key, s.Areas); err != nil {
			return err
		}
	}
	return nil
}

func indexEvChargers(tx *sql.Tx, chargers []model.EvChargerPoint) error {
	stmt, err := tx.Prepare(`INSERT INTO ev_chargers (key, x, y, z, location) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, c := range chargers {
		key := slugs.PointKey("ev-charger", "", i)
		x, y, z := coords(c.RelativeLocation)
		if _, err := stmt.Exec(key, x, y, z, c.Location); err != nil {
			return fmt.Errorf("failed to insert ev charger %s: %w", key, err)
		}
		if err := indexPointAreas(tx, "ev_chargers", key, c.Areas); err != nil {
			return err
		}
	}
	return nil
}

func indexHouses(tx *sql.Tx, houses []model.HousePoint) error {
	stmt, err := tx.Prepare(`
		INSERT INTO houses (key, name, x, y, z, location, size_x, size_y, cost)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, h := range houses {
		key := slugs.PointKey("house", "", i)
		x, y, z := coords(h.RelativeLocation)
		if _, err := stmt.Exec(key, h.Name, x, y, z, h.Location, h.Size.X, h.Size.Y, h.Cost); err != nil {
			return fmt.Errorf("failed to insert house %s: %w", key, err)
		}
		if err := indexPointAreas(tx, "houses", key, h.Areas); err != nil {
			return err
		}
	}
	return nil
}

func indexPointAreas(e execer, table, key string, areas []string) error {
	for _, name := range areas {
		if _, err := e.Exec(`INSERT OR IGNORE INTO point_areas (point_key, point_table, area_key) VALUES (?, ?, ?)`,
			key, table, slugs.AreaKey(name)); err != nil {
			return fmt.Errorf("failed to insert area %s for %s: %w", name, key, err)
		}
	}
	return nil
}

func coords(v *model.Vector3) (x, y, z sql.NullFloat64) {
	if v == nil {
		return
	}
	return sql.NullFloat64{Float64: v.X, Valid: true},
		sql.NullFloat64{Float64: v.Y, Valid: true},
		sql.NullFloat64{Float64: v.Z, Valid: true}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
