package core

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGStore struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{DB: db}
}

func (s *PGStore) ListWorkers(ctx context.Context, storeID string, includeInactive bool) ([]Worker, error) {
	query := `
    SELECT id, name, email, role, COALESCE(store_id::text, ''), hourly_rate, active, created_at
    FROM workers
    WHERE ($1 = '' OR store_id::text = $1)
  `
	if !includeInactive {
		query += " AND active = TRUE"
	}
	query += " ORDER BY name"

	rows, err := s.DB.Query(ctx, query, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Worker
	for rows.Next() {
		var w Worker
		if err := rows.Scan(&w.ID, &w.Name, &w.Email, &w.Role, &w.StoreID, &w.HourlyRate, &w.Active, &w.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (s *PGStore) GetWorker(ctx context.Context, workerID string) (Worker, error) {
	var w Worker
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, email, role, COALESCE(store_id::text, ''), hourly_rate, active, created_at
    FROM workers
    WHERE id = $1
  `, workerID).Scan(&w.ID, &w.Name, &w.Email, &w.Role, &w.StoreID, &w.HourlyRate, &w.Active, &w.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Worker{}, ErrNotFound
	}
	return w, err
}

func (s *PGStore) WorkerEmailExists(ctx context.Context, email string) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM workers WHERE email = $1", email).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *PGStore) CreateWorker(ctx context.Context, input WorkerInput, passwordHash string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO workers (name, email, role, store_id, hourly_rate, password_hash, active)
    VALUES ($1,$2,$3,NULLIF($4,'')::uuid,$5,$6,TRUE)
    RETURNING id
  `, input.Name, input.Email, input.Role, input.StoreID, input.HourlyRate, passwordHash).Scan(&id)
	return id, err
}

func (s *PGStore) UpdateWorker(ctx context.Context, workerID string, input WorkerInput) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE workers
    SET name = $1, role = $2, store_id = NULLIF($3,'')::uuid, hourly_rate = $4
    WHERE id = $5
  `, input.Name, input.Role, input.StoreID, input.HourlyRate, workerID)
	return err
}

func (s *PGStore) DeactivateWorker(ctx context.Context, workerID string) error {
	_, err := s.DB.Exec(ctx, "UPDATE workers SET active = FALSE WHERE id = $1", workerID)
	return err
}

func (s *PGStore) ListStores(ctx context.Context) ([]Store, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, address, opening_hour, closing_hour, COALESCE(manager_id::text, ''),
           min_hours_before_give, max_staff_per_shift, allow_cross_store_swap, created_at
    FROM stores
    ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Store
	for rows.Next() {
		var st Store
		if err := rows.Scan(&st.ID, &st.Name, &st.Address, &st.OpeningHour, &st.ClosingHour, &st.ManagerID,
			&st.MinHoursBeforeGive, &st.MaxStaffPerShift, &st.AllowCrossStoreSwap, &st.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *PGStore) GetStore(ctx context.Context, storeID string) (Store, error) {
	var st Store
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, address, opening_hour, closing_hour, COALESCE(manager_id::text, ''),
           min_hours_before_give, max_staff_per_shift, allow_cross_store_swap, created_at
    FROM stores
    WHERE id = $1
  `, storeID).Scan(&st.ID, &st.Name, &st.Address, &st.OpeningHour, &st.ClosingHour, &st.ManagerID,
		&st.MinHoursBeforeGive, &st.MaxStaffPerShift, &st.AllowCrossStoreSwap, &st.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Store{}, ErrNotFound
	}
	return st, err
}

func (s *PGStore) CreateStore(ctx context.Context, input StoreInput) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO stores (name, address, opening_hour, closing_hour, manager_id, min_hours_before_give, max_staff_per_shift, allow_cross_store_swap)
    VALUES ($1,$2,$3,$4,NULLIF($5,'')::uuid,$6,$7,$8)
    RETURNING id
  `, input.Name, input.Address, input.OpeningHour, input.ClosingHour, input.ManagerID,
		input.MinHoursBeforeGive, input.MaxStaffPerShift, input.AllowCrossStoreSwap).Scan(&id)
	return id, err
}

func (s *PGStore) UpdateStore(ctx context.Context, storeID string, input StoreInput) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE stores
    SET name = $1, address = $2, opening_hour = $3, closing_hour = $4, manager_id = NULLIF($5,'')::uuid,
        min_hours_before_give = $6, max_staff_per_shift = $7, allow_cross_store_swap = $8
    WHERE id = $9
  `, input.Name, input.Address, input.OpeningHour, input.ClosingHour, input.ManagerID,
		input.MinHoursBeforeGive, input.MaxStaffPerShift, input.AllowCrossStoreSwap, storeID)
	return err
}

func (s *PGStore) CountActiveStaff(ctx context.Context, storeID string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM workers WHERE store_id = $1 AND active = TRUE", storeID).Scan(&count)
	return count, err
}

func (s *PGStore) DeleteStore(ctx context.Context, storeID string) error {
	_, err := s.DB.Exec(ctx, "DELETE FROM stores WHERE id = $1", storeID)
	return err
}
