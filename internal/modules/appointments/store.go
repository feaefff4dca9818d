// README: Appointment mirror store backed by PostgreSQL.
package appointments

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"fieldslot/internal/types"
	"fieldslot/internal/zones"
)

// Store reads scheduled appointments from a local Postgres mirror of the
// tracking store. Deployments that sync the tracker into Postgres use this
// as the Source instead of hitting the tracker API on every refresh.
type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Fetch returns appointments scheduled from the start of today onward.
// Rows synced with coordinates skip geocoding during snapshot enrichment.
func (s *Store) Fetch(ctx context.Context) ([]Appointment, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, customer_name, address, city, zone, start_time, end_time, lat, lng
        FROM appointments
        WHERE start_time >= date_trunc('day', NOW())
        ORDER BY start_time`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Appointment
	for rows.Next() {
		var a Appointment
		var zone sql.NullString
		var lat, lng sql.NullFloat64
		var start, end time.Time
		if err := rows.Scan(&a.ID, &a.CustomerName, &a.Address, &a.City, &zone, &start, &end, &lat, &lng); err != nil {
			return nil, err
		}
		a.Start = start
		a.End = end
		if zone.Valid {
			a.Zone = zones.ID(zone.String)
		}
		if lat.Valid && lng.Valid {
			a.Location = types.Point{Lat: lat.Float64, Lng: lng.Float64}
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
