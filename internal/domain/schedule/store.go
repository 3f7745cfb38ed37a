package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGStore struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{DB: db}
}

func (s *PGStore) CreateShift(ctx context.Context, input ShiftInput, createdBy string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO shifts (store_id, template_id, start_at, end_at, required_slots, created_by)
    VALUES ($1, NULLIF($2,'')::uuid, $3, $4, $5, $6)
    RETURNING id
  `, input.StoreID, input.TemplateID, input.Start, input.End, input.RequiredSlots, createdBy).Scan(&id)
	return id, err
}

func (s *PGStore) GetShift(ctx context.Context, shiftID string) (Shift, error) {
	var sh Shift
	err := s.DB.QueryRow(ctx, `
    SELECT id, store_id, COALESCE(template_id::text, ''), start_at, end_at, required_slots, created_by, created_at
    FROM shifts
    WHERE id = $1
  `, shiftID).Scan(&sh.ID, &sh.StoreID, &sh.TemplateID, &sh.Start, &sh.End, &sh.RequiredSlots, &sh.CreatedBy, &sh.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Shift{}, ErrNotFound
	}
	return sh, err
}

func (s *PGStore) UpdateShift(ctx context.Context, shiftID string, start, end time.Time, requiredSlots int) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE shifts SET start_at = $1, end_at = $2, required_slots = $3 WHERE id = $4
  `, start, end, requiredSlots, shiftID)
	return err
}

func (s *PGStore) ListShifts(ctx context.Context, storeID string, from, to time.Time) ([]Shift, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, store_id, COALESCE(template_id::text, ''), start_at, end_at, required_slots, created_by, created_at
    FROM shifts
    WHERE ($1 = '' OR store_id::text = $1)
      AND start_at >= $2 AND start_at < $3
    ORDER BY start_at
  `, storeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Shift
	for rows.Next() {
		var sh Shift
		if err := rows.Scan(&sh.ID, &sh.StoreID, &sh.TemplateID, &sh.Start, &sh.End, &sh.RequiredSlots, &sh.CreatedBy, &sh.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, sh)
	}
	return out, rows.Err()
}

func (s *PGStore) CreateTemplate(ctx context.Context, input TemplateInput) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO shift_templates (store_id, day_of_week, start_minute, end_minute, required_slots)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, input.StoreID, input.DayOfWeek, input.StartMinute, input.EndMinute, input.RequiredSlots).Scan(&id)
	return id, err
}

func (s *PGStore) GetTemplate(ctx context.Context, templateID string) (Template, error) {
	var t Template
	err := s.DB.QueryRow(ctx, `
    SELECT id, store_id, day_of_week, start_minute, end_minute, required_slots, created_at
    FROM shift_templates
    WHERE id = $1
  `, templateID).Scan(&t.ID, &t.StoreID, &t.DayOfWeek, &t.StartMinute, &t.EndMinute, &t.RequiredSlots, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Template{}, ErrNotFound
	}
	return t, err
}

func (s *PGStore) ListTemplates(ctx context.Context, storeID string) ([]Template, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, store_id, day_of_week, start_minute, end_minute, required_slots, created_at
    FROM shift_templates
    WHERE ($1 = '' OR store_id::text = $1)
    ORDER BY day_of_week, start_minute
  `, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Template
	for rows.Next() {
		var t Template
		if err := rows.Scan(&t.ID, &t.StoreID, &t.DayOfWeek, &t.StartMinute, &t.EndMinute, &t.RequiredSlots, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *PGStore) CountAssignments(ctx context.Context, shiftID string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM shift_assignments WHERE shift_id = $1", shiftID).Scan(&count)
	return count, err
}

func (s *PGStore) ListAssignments(ctx context.Context, shiftID string) ([]Assignment, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, shift_id, worker_id, status, created_at
    FROM shift_assignments
    WHERE shift_id = $1
    ORDER BY created_at
  `, shiftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Assignment
	for rows.Next() {
		var a Assignment
		if err := rows.Scan(&a.ID, &a.ShiftID, &a.WorkerID, &a.Status, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *PGStore) GetAssignment(ctx context.Context, shiftID, workerID string) (Assignment, error) {
	var a Assignment
	err := s.DB.QueryRow(ctx, `
    SELECT id, shift_id, worker_id, status, created_at
    FROM shift_assignments
    WHERE shift_id = $1 AND worker_id = $2
  `, shiftID, workerID).Scan(&a.ID, &a.ShiftID, &a.WorkerID, &a.Status, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Assignment{}, ErrNotFound
	}
	return a, err
}

func (s *PGStore) InsertAssignment(ctx context.Context, shiftID, workerID, status string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO shift_assignments (shift_id, worker_id, status)
    VALUES ($1,$2,$3)
    RETURNING id
  `, shiftID, workerID, status).Scan(&id)
	return id, err
}

func (s *PGStore) DeleteAssignment(ctx context.Context, shiftID, workerID string) error {
	_, err := s.DB.Exec(ctx, "DELETE FROM shift_assignments WHERE shift_id = $1 AND worker_id = $2", shiftID, workerID)
	return err
}

func (s *PGStore) UpdateAssignmentStatus(ctx context.Context, shiftID, workerID, status string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE shift_assignments SET status = $1 WHERE shift_id = $2 AND worker_id = $3
  `, status, shiftID, workerID)
	return err
}

func (s *PGStore) CountActiveRegistrations(ctx context.Context, templateID string, date time.Time) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM shift_registrations
    WHERE template_id = $1 AND date = $2::date AND status = $3
  `, templateID, date, RegistrationRegistered).Scan(&count)
	return count, err
}

func (s *PGStore) GetRegistration(ctx context.Context, templateID, workerID string, date time.Time) (Registration, error) {
	var r Registration
	err := s.DB.QueryRow(ctx, `
    SELECT id, template_id, worker_id, date, status, created_at
    FROM shift_registrations
    WHERE template_id = $1 AND worker_id = $2 AND date = $3::date
  `, templateID, workerID, date).Scan(&r.ID, &r.TemplateID, &r.WorkerID, &r.Date, &r.Status, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Registration{}, ErrNotFound
	}
	return r, err
}

func (s *PGStore) InsertRegistration(ctx context.Context, templateID, workerID string, date time.Time) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO shift_registrations (template_id, worker_id, date, status)
    VALUES ($1,$2,$3::date,$4)
    RETURNING id
  `, templateID, workerID, date, RegistrationRegistered).Scan(&id)
	return id, err
}

func (s *PGStore) ReactivateRegistration(ctx context.Context, registrationID string) error {
	_, err := s.DB.Exec(ctx, "UPDATE shift_registrations SET status = $1 WHERE id = $2", RegistrationRegistered, registrationID)
	return err
}

func (s *PGStore) CancelRegistration(ctx context.Context, registrationID string) error {
	_, err := s.DB.Exec(ctx, "UPDATE shift_registrations SET status = $1 WHERE id = $2", RegistrationCancelled, registrationID)
	return err
}

func (s *PGStore) ListRegistrations(ctx context.Context, templateID string, date time.Time) ([]Registration, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, template_id, worker_id, date, status, created_at
    FROM shift_registrations
    WHERE template_id = $1 AND date = $2::date
    ORDER BY created_at
  `, templateID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Registration
	for rows.Next() {
		var r Registration
		if err := rows.Scan(&r.ID, &r.TemplateID, &r.WorkerID, &r.Date, &r.Status, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PGStore) StoreMaxStaff(ctx context.Context, storeID string) (int, error) {
	var max int
	err := s.DB.QueryRow(ctx, "SELECT max_staff_per_shift FROM stores WHERE id = $1", storeID).Scan(&max)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	return max, err
}

func (s *PGStore) WorkerStoreID(ctx context.Context, workerID string) (string, error) {
	var storeID string
	err := s.DB.QueryRow(ctx, "SELECT COALESCE(store_id::text, '') FROM workers WHERE id = $1", workerID).Scan(&storeID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return storeID, err
}
