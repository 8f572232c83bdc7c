package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"agrodrone/internal/types"
)

// AppointmentRepository provides data access for the appointments table.
// Appointment date and time are stored as text ("YYYY-MM-DD" / "HH:MM"),
// matching the wire format the scheduling UI works with.
type AppointmentRepository struct {
	db DBTX
}

// NewAppointmentRepository creates a new AppointmentRepository backed by the
// given database connection (pool or transaction).
func NewAppointmentRepository(db DBTX) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

const appointmentColumns = `id, client_name, service_type, date, time, status, notes,
	created_at, updated_at`

func scanAppointment(row pgx.Row) (*types.Appointment, error) {
	var apt types.Appointment
	var notes *string

	err := row.Scan(
		&apt.ID,
		&apt.ClientName,
		&apt.ServiceType,
		&apt.Date,
		&apt.Time,
		&apt.Status,
		&notes,
		&apt.CreatedAt,
		&apt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if notes != nil {
		apt.Notes = *notes
	}

	return &apt, nil
}

// Create inserts a new appointment record. The caller must set the ID
// (prefixed UUID, e.g. "apt_...") before calling.
func (r *AppointmentRepository) Create(ctx context.Context, apt *types.Appointment) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO appointments (
			id, client_name, service_type, date, time, status, notes,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			COALESCE($8, NOW()), COALESCE($9, NOW())
		)`,
		apt.ID,
		apt.ClientName,
		apt.ServiceType,
		apt.Date,
		apt.Time,
		apt.Status,
		nilIfEmpty(apt.Notes),
		nilIfZeroTime(apt.CreatedAt),
		nilIfZeroTime(apt.UpdatedAt),
	)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to create appointment", err)
	}
	return nil
}

// GetByID retrieves an appointment by its ID. Returns
// ErrCodeNotFoundAppointment when no row matches.
func (r *AppointmentRepository) GetByID(ctx context.Context, id string) (*types.Appointment, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`,
		id,
	)

	apt, err := scanAppointment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.NewAppError(types.ErrCodeNotFoundAppointment, "appointment not found", nil)
		}
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to retrieve appointment", err)
	}
	return apt, nil
}

// Update writes all mutable fields of the appointment. Returns
// ErrCodeNotFoundAppointment when the row does not exist.
func (r *AppointmentRepository) Update(ctx context.Context, apt *types.Appointment) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE appointments SET
			client_name = $1,
			service_type = $2,
			date = $3,
			time = $4,
			status = $5,
			notes = $6,
			updated_at = NOW()
		 WHERE id = $7`,
		apt.ClientName,
		apt.ServiceType,
		apt.Date,
		apt.Time,
		apt.Status,
		nilIfEmpty(apt.Notes),
		apt.ID,
	)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to update appointment", err)
	}
	if tag.RowsAffected() == 0 {
		return types.NewAppError(types.ErrCodeNotFoundAppointment, "appointment not found", nil)
	}
	return nil
}

// Delete removes an appointment. Deleting an ID that no longer exists is
// not an error.
func (r *AppointmentRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to delete appointment", err)
	}
	return nil
}

// List retrieves all appointments ordered by created_at DESC (newest first).
func (r *AppointmentRepository) List(ctx context.Context) ([]*types.Appointment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+appointmentColumns+` FROM appointments ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to list appointments", err)
	}
	defer rows.Close()

	var results []*types.Appointment
	for rows.Next() {
		apt, scanErr := scanAppointment(rows)
		if scanErr != nil {
			return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to scan appointment row", scanErr)
		}
		results = append(results, apt)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "error iterating appointment rows", err)
	}

	return results, nil
}

// CountOnDate returns the number of appointments scheduled for the given
// date ("YYYY-MM-DD"). Used by the dashboard's "appointments today" stat.
func (r *AppointmentRepository) CountOnDate(ctx context.Context, date string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM appointments WHERE date = $1`,
		date,
	).Scan(&count)
	if err != nil {
		return 0, types.NewAppError(types.ErrCodeInternalDB, "failed to count appointments by date", err)
	}
	return count, nil
}
