package marketplace

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shiftdesk/internal/domain/schedule"
)

type PGStore struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{DB: db}
}

func (s *PGStore) ShiftInfo(ctx context.Context, shiftID string) (ShiftInfo, error) {
	var info ShiftInfo
	err := s.DB.QueryRow(ctx, `
    SELECT id, store_id, start_at, end_at FROM shifts WHERE id = $1
  `, shiftID).Scan(&info.ID, &info.StoreID, &info.Start, &info.End)
	if errors.Is(err, pgx.ErrNoRows) {
		return ShiftInfo{}, ErrNotFound
	}
	return info, err
}

func (s *PGStore) StorePolicy(ctx context.Context, storeID string) (StorePolicy, error) {
	var policy StorePolicy
	err := s.DB.QueryRow(ctx, `
    SELECT id, COALESCE(manager_id::text, ''), min_hours_before_give, allow_cross_store_swap
    FROM stores WHERE id = $1
  `, storeID).Scan(&policy.ID, &policy.ManagerID, &policy.MinHoursBeforeGive, &policy.AllowCrossStoreSwap)
	if errors.Is(err, pgx.ErrNoRows) {
		return StorePolicy{}, ErrNotFound
	}
	return policy, err
}

func (s *PGStore) WorkerStoreID(ctx context.Context, workerID string) (string, error) {
	var storeID string
	err := s.DB.QueryRow(ctx, "SELECT COALESCE(store_id::text, '') FROM workers WHERE id = $1", workerID).Scan(&storeID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return storeID, err
}

func (s *PGStore) AssignmentByShiftWorker(ctx context.Context, shiftID, workerID string) (AssignmentDetail, error) {
	return s.assignmentQuery(ctx, "a.shift_id = $1 AND a.worker_id = $2", shiftID, workerID)
}

func (s *PGStore) AssignmentByID(ctx context.Context, assignmentID string) (AssignmentDetail, error) {
	return s.assignmentQuery(ctx, "a.id = $1", assignmentID)
}

func (s *PGStore) assignmentQuery(ctx context.Context, where string, args ...any) (AssignmentDetail, error) {
	var d AssignmentDetail
	err := s.DB.QueryRow(ctx, `
    SELECT a.id, a.shift_id, a.worker_id, sh.store_id, sh.start_at, sh.end_at
    FROM shift_assignments a
    JOIN shifts sh ON sh.id = a.shift_id
    WHERE `+where, args...).Scan(&d.ID, &d.ShiftID, &d.WorkerID, &d.StoreID, &d.ShiftStart, &d.ShiftEnd)
	if errors.Is(err, pgx.ErrNoRows) {
		return AssignmentDetail{}, ErrNotFound
	}
	return d, err
}

func (s *PGStore) WorkerWindows(ctx context.Context, workerID string, from time.Time) ([]Window, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT sh.id, sh.start_at, sh.end_at
    FROM shift_assignments a
    JOIN shifts sh ON sh.id = a.shift_id
    WHERE a.worker_id = $1 AND sh.end_at > $2 AND a.status <> $3
  `, workerID, from, schedule.AssignmentDeclined)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Window
	for rows.Next() {
		var w Window
		if err := rows.Scan(&w.ShiftID, &w.Start, &w.End); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (s *PGStore) HasActiveListing(ctx context.Context, shiftID string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM shift_listings
    WHERE shift_id = $1 AND status IN ($2, $3)
  `, shiftID, ListingPending, ListingClaimed).Scan(&count)
	return count > 0, err
}

func (s *PGStore) CreateListing(ctx context.Context, shiftID, fromWorker, listingType, reason string, expiresAt time.Time) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO shift_listings (shift_id, from_worker, type, status, reason, expires_at)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id
  `, shiftID, fromWorker, listingType, ListingPending, reason, expiresAt).Scan(&id)
	return id, err
}

func (s *PGStore) GetListing(ctx context.Context, listingID string) (Listing, error) {
	var l Listing
	err := s.DB.QueryRow(ctx, `
    SELECT id, shift_id, from_worker, COALESCE(to_worker::text, ''), type, status,
           COALESCE(reason, ''), COALESCE(manager_note, ''), expires_at, created_at
    FROM shift_listings
    WHERE id = $1
  `, listingID).Scan(&l.ID, &l.ShiftID, &l.FromWorker, &l.ToWorker, &l.Type, &l.Status,
		&l.Reason, &l.ManagerNote, &l.ExpiresAt, &l.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Listing{}, ErrNotFound
	}
	return l, err
}

func (s *PGStore) ListListings(ctx context.Context, storeID, status string) ([]Listing, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT l.id, l.shift_id, l.from_worker, COALESCE(l.to_worker::text, ''), l.type, l.status,
           COALESCE(l.reason, ''), COALESCE(l.manager_note, ''), l.expires_at, l.created_at
    FROM shift_listings l
    JOIN shifts sh ON sh.id = l.shift_id
    WHERE ($1 = '' OR sh.store_id::text = $1)
      AND ($2 = '' OR l.status = $2)
    ORDER BY l.created_at DESC
  `, storeID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Listing
	for rows.Next() {
		var l Listing
		if err := rows.Scan(&l.ID, &l.ShiftID, &l.FromWorker, &l.ToWorker, &l.Type, &l.Status,
			&l.Reason, &l.ManagerNote, &l.ExpiresAt, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *PGStore) ClaimListing(ctx context.Context, listingID, toWorker string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE shift_listings
    SET status = $1, to_worker = $2
    WHERE id = $3 AND status = $4
  `, ListingClaimed, toWorker, listingID, ListingPending)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// UpdateListingStatus moves a listing from fromStatus to toStatus. The status
// predicate makes the transition lose cleanly to a concurrent resolution
// instead of overwriting it.
func (s *PGStore) UpdateListingStatus(ctx context.Context, listingID, fromStatus, toStatus, managerNote string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE shift_listings SET status = $1, manager_note = NULLIF($2, '')
    WHERE id = $3 AND status = $4
  `, toStatus, managerNote, listingID, fromStatus)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return ErrInvalidState
	}
	return nil
}

func (s *PGStore) ApproveListingTransfer(ctx context.Context, listingID, shiftID, fromWorker, toWorker, managerNote string) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
    UPDATE shift_listings SET status = $1, manager_note = NULLIF($2, '')
    WHERE id = $3 AND status = $4
  `, ListingApproved, managerNote, listingID, ListingClaimed)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return ErrInvalidState
	}

	if _, err := tx.Exec(ctx, `
    DELETE FROM shift_assignments WHERE shift_id = $1 AND worker_id = $2
  `, shiftID, fromWorker); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
    INSERT INTO shift_assignments (shift_id, worker_id, status)
    VALUES ($1, $2, $3)
  `, shiftID, toWorker, schedule.AssignmentConfirmed); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *PGStore) ExpireListings(ctx context.Context, now time.Time) ([]string, error) {
	rows, err := s.DB.Query(ctx, `
    UPDATE shift_listings l
    SET status = $1
    FROM shifts sh
    WHERE sh.id = l.shift_id
      AND l.status = $2
      AND (l.expires_at <= $3 OR sh.start_at <= $3)
    RETURNING l.id
  `, ListingExpired, ListingPending, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *PGStore) HasActiveSwap(ctx context.Context, assignmentID string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM shift_swap_requests
    WHERE (from_assignment = $1 OR to_assignment = $1) AND status IN ($2, $3)
  `, assignmentID, SwapPendingPeer, SwapPendingManager).Scan(&count)
	return count > 0, err
}

func (s *PGStore) CreateSwapRequest(ctx context.Context, fromAssignment, toAssignment, fromWorker, toWorker, reason string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO shift_swap_requests (from_assignment, to_assignment, from_worker, to_worker, status, reason)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id
  `, fromAssignment, toAssignment, fromWorker, toWorker, SwapPendingPeer, reason).Scan(&id)
	return id, err
}

func (s *PGStore) GetSwapRequest(ctx context.Context, swapID string) (SwapRequest, error) {
	var sr SwapRequest
	err := s.DB.QueryRow(ctx, `
    SELECT id, from_assignment, to_assignment, from_worker, to_worker, status,
           peer_confirmed, COALESCE(reason, ''), COALESCE(manager_note, ''), created_at
    FROM shift_swap_requests
    WHERE id = $1
  `, swapID).Scan(&sr.ID, &sr.FromAssignmentID, &sr.ToAssignmentID, &sr.FromWorker, &sr.ToWorker,
		&sr.Status, &sr.PeerConfirmed, &sr.Reason, &sr.ManagerNote, &sr.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return SwapRequest{}, ErrNotFound
	}
	return sr, err
}

func (s *PGStore) ListSwapRequests(ctx context.Context, workerID, status string) ([]SwapRequest, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, from_assignment, to_assignment, from_worker, to_worker, status,
           peer_confirmed, COALESCE(reason, ''), COALESCE(manager_note, ''), created_at
    FROM shift_swap_requests
    WHERE ($1 = '' OR from_worker::text = $1 OR to_worker::text = $1)
      AND ($2 = '' OR status = $2)
    ORDER BY created_at DESC
  `, workerID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SwapRequest
	for rows.Next() {
		var sr SwapRequest
		if err := rows.Scan(&sr.ID, &sr.FromAssignmentID, &sr.ToAssignmentID, &sr.FromWorker, &sr.ToWorker,
			&sr.Status, &sr.PeerConfirmed, &sr.Reason, &sr.ManagerNote, &sr.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, sr)
	}
	return out, rows.Err()
}

func (s *PGStore) UpdateSwapStatus(ctx context.Context, swapID, fromStatus, toStatus string, peerConfirmed bool, managerNote string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE shift_swap_requests
    SET status = $1, peer_confirmed = $2, manager_note = NULLIF($3, '')
    WHERE id = $4 AND status = $5
  `, toStatus, peerConfirmed, managerNote, swapID, fromStatus)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return ErrInvalidState
	}
	return nil
}

func (s *PGStore) ApproveSwapExchange(ctx context.Context, swapID, fromAssignment, toAssignment, fromWorker, toWorker, managerNote string) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
    UPDATE shift_swap_requests SET status = $1, manager_note = NULLIF($2, '')
    WHERE id = $3 AND status = $4
  `, SwapApproved, managerNote, swapID, SwapPendingManager)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return ErrInvalidState
	}

	// Exchange the workers in place; no assignment rows are created or deleted.
	if _, err := tx.Exec(ctx, `
    UPDATE shift_assignments SET worker_id = $1 WHERE id = $2
  `, toWorker, fromAssignment); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
    UPDATE shift_assignments SET worker_id = $1 WHERE id = $2
  `, fromWorker, toAssignment); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
