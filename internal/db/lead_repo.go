package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"agrodrone/internal/types"
)

// LeadRepository provides data access for the leads table.
type LeadRepository struct {
	db DBTX
}

// NewLeadRepository creates a new LeadRepository backed by the given database
// connection (pool or transaction).
func NewLeadRepository(db DBTX) *LeadRepository {
	return &LeadRepository{db: db}
}

// leadColumns defines the standard set of columns selected for lead queries.
const leadColumns = `id, name, company, email, phone, status,
	potential_value, source, notes,
	farm_hectares, crop_type, city, location_note, last_contact_at,
	created_at, updated_at`

// scanLead scans a single lead row. The columns must match the order defined
// in leadColumns. Works for both pgx.Row and pgx.Rows since both expose Scan.
func scanLead(row pgx.Row) (*types.Lead, error) {
	var lead types.Lead
	var (
		notes        *string
		farmHectares *string
		cropType     *string
		city         *string
		locationNote *string
	)

	err := row.Scan(
		&lead.ID,
		&lead.Name,
		&lead.Company,
		&lead.Email,
		&lead.Phone,
		&lead.Status,
		&lead.PotentialValue,
		&lead.Source,
		&notes,
		&farmHectares,
		&cropType,
		&city,
		&locationNote,
		&lead.LastContactAt,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	// Hydrate optional fields from nullable columns.
	if notes != nil {
		lead.Notes = *notes
	}
	if farmHectares != nil {
		lead.FarmHectares = *farmHectares
	}
	if cropType != nil {
		lead.CropType = *cropType
	}
	if city != nil {
		lead.City = *city
	}
	if locationNote != nil {
		lead.LocationNote = *locationNote
	}

	return &lead, nil
}

// Create inserts a new lead record. The caller must set the ID (prefixed
// UUID, e.g. "lead_...") before calling; created_at and updated_at default
// to NOW() when unset.
func (r *LeadRepository) Create(ctx context.Context, lead *types.Lead) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO leads (
			id, name, company, email, phone, status,
			potential_value, source, notes,
			farm_hectares, crop_type, city, location_note, last_contact_at,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9,
			$10, $11, $12, $13, $14,
			COALESCE($15, NOW()), COALESCE($16, NOW())
		)`,
		lead.ID,
		lead.Name,
		lead.Company,
		lead.Email,
		lead.Phone,
		lead.Status,
		lead.PotentialValue,
		lead.Source,
		nilIfEmpty(lead.Notes),
		nilIfEmpty(lead.FarmHectares),
		nilIfEmpty(lead.CropType),
		nilIfEmpty(lead.City),
		nilIfEmpty(lead.LocationNote),
		lead.LastContactAt,
		nilIfZeroTime(lead.CreatedAt),
		nilIfZeroTime(lead.UpdatedAt),
	)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to create lead", err)
	}
	return nil
}

// GetByID retrieves a lead by its ID. Returns ErrCodeNotFoundLead when no
// row matches.
func (r *LeadRepository) GetByID(ctx context.Context, id string) (*types.Lead, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE id = $1`,
		id,
	)

	lead, err := scanLead(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.NewAppError(types.ErrCodeNotFoundLead, "lead not found", nil)
		}
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to retrieve lead", err)
	}
	return lead, nil
}

// Update writes all mutable fields of the lead. The caller passes the full
// struct after merging any partial changes. updated_at is set by the
// database. Returns ErrCodeNotFoundLead when the row does not exist.
func (r *LeadRepository) Update(ctx context.Context, lead *types.Lead) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE leads SET
			name = $1,
			company = $2,
			email = $3,
			phone = $4,
			status = $5,
			potential_value = $6,
			source = $7,
			notes = $8,
			farm_hectares = $9,
			crop_type = $10,
			city = $11,
			location_note = $12,
			last_contact_at = $13,
			updated_at = NOW()
		 WHERE id = $14`,
		lead.Name,
		lead.Company,
		lead.Email,
		lead.Phone,
		lead.Status,
		lead.PotentialValue,
		lead.Source,
		nilIfEmpty(lead.Notes),
		nilIfEmpty(lead.FarmHectares),
		nilIfEmpty(lead.CropType),
		nilIfEmpty(lead.City),
		nilIfEmpty(lead.LocationNote),
		lead.LastContactAt,
		lead.ID,
	)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to update lead", err)
	}
	if tag.RowsAffected() == 0 {
		return types.NewAppError(types.ErrCodeNotFoundLead, "lead not found", nil)
	}
	return nil
}

// Delete removes a lead. Deleting an ID that no longer exists is not an
// error; the end state is the same either way.
func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to delete lead", err)
	}
	return nil
}

// List retrieves all leads ordered by created_at DESC (newest first).
func (r *LeadRepository) List(ctx context.Context) ([]*types.Lead, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+leadColumns+` FROM leads ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to list leads", err)
	}
	defer rows.Close()

	var results []*types.Lead
	for rows.Next() {
		lead, scanErr := scanLead(rows)
		if scanErr != nil {
			return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to scan lead row", scanErr)
		}
		results = append(results, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "error iterating lead rows", err)
	}

	return results, nil
}

// CountActive returns the number of leads still in play (status is neither
// won nor lost).
func (r *LeadRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM leads WHERE status NOT IN ($1, $2)`,
		types.LeadStatusWon, types.LeadStatusLost,
	).Scan(&count)
	if err != nil {
		return 0, types.NewAppError(types.ErrCodeInternalDB, "failed to count active leads", err)
	}
	return count, nil
}

// ActivePotentialValues returns the potential_value strings of all active
// leads. Values are free-form currency text ("R$ 15.000"); parsing and
// summation happen in the caller.
func (r *LeadRepository) ActivePotentialValues(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT potential_value FROM leads WHERE status NOT IN ($1, $2)`,
		types.LeadStatusWon, types.LeadStatusLost,
	)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to query lead potential values", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to scan potential value row", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "error iterating potential value rows", err)
	}

	return values, nil
}

// nilIfZeroTime maps the zero time to NULL so COALESCE defaults apply.
func nilIfZeroTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
