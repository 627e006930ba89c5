package repository // repository defines data access for establishments

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"errors"       // errors for sentinel definitions
	"strings"      // strings detects duplicate-key failures

	"github.com/ryofujimura/Oshiri-sub000/internal/model"
)

// ErrEstablishmentNotFound is returned when a lookup yields no rows.
var ErrEstablishmentNotFound = errors.New("establishment not found")

// EstablishmentRepo provides methods to work with establishments in
// the database. Rows are materialized lazily from search results and
// never deleted.
type EstablishmentRepo struct {
	db *sql.DB
}

// NewEstablishmentRepo constructs an EstablishmentRepo with the given DB handle.
func NewEstablishmentRepo(db *sql.DB) *EstablishmentRepo {
	return &EstablishmentRepo{db: db}
}

const establishmentCols = `id, external_id, name, address, city, state, zip_code,
	latitude, longitude, external_rating, phone, created_at, updated_at`

func scanEstablishment(row *sql.Row) (*model.Establishment, error) {
	var e model.Establishment
	err := row.Scan(
		&e.ID, &e.ExternalID, &e.Name, &e.Address, &e.City, &e.State, &e.ZipCode,
		&e.Latitude, &e.Longitude, &e.ExternalRating, &e.Phone, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEstablishmentNotFound
		}
		return nil, err
	}
	return &e, nil
}

// GetByID retrieves an establishment by its id.
func (r *EstablishmentRepo) GetByID(ctx context.Context, id uint64) (*model.Establishment, error) {
	const q = `SELECT ` + establishmentCols + ` FROM establishments WHERE id = ?`
	return scanEstablishment(r.db.QueryRowContext(ctx, q, id))
}

// GetByExternalID retrieves an establishment by the provider's key.
func (r *EstablishmentRepo) GetByExternalID(ctx context.Context, externalID string) (*model.Establishment, error) {
	const q = `SELECT ` + establishmentCols + ` FROM establishments WHERE external_id = ?`
	return scanEstablishment(r.db.QueryRowContext(ctx, q, externalID))
}

// FindOrCreate materializes a venue from the external directory.
// The insert is guarded by the unique key on external_id: when two
// first-time lookups race, the loser hits MySQL error 1062 and
// re-reads the winner's row instead of failing.
func (r *EstablishmentRepo) FindOrCreate(ctx context.Context, e *model.Establishment) (*model.Establishment, error) {
	if existing, err := r.GetByExternalID(ctx, e.ExternalID); err == nil {
		return existing, nil
	} else if !errors.Is(err, ErrEstablishmentNotFound) {
		return nil, err
	}
	const q = `INSERT INTO establishments
	           (external_id, name, address, city, state, zip_code, latitude, longitude, external_rating, phone)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		e.ExternalID, e.Name, e.Address, e.City, e.State, e.ZipCode,
		e.Latitude, e.Longitude, e.ExternalRating, e.Phone)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			// lost the race; the unique constraint guarantees a row now exists
			return r.GetByExternalID(ctx, e.ExternalID)
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, uint64(id))
}
