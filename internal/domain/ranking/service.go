package ranking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shiftdesk/internal/domain/auth"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) Rank(ctx context.Context, actor auth.Actor, storeID string, from, to time.Time) ([]RankedWorker, error) {
	if actor.Role == auth.RoleStaff {
		return nil, fmt.Errorf("%w: staff may not view the ranking", ErrForbidden)
	}
	if storeID != "" && !actor.CanManageStore(storeID) {
		return nil, fmt.Errorf("%w: not your store", ErrForbidden)
	}
	if storeID == "" && !actor.IsOwner() {
		storeID = actor.StoreID
	}
	if !to.After(from) {
		return nil, fmt.Errorf("%w: period end must be after start", ErrInvalidInput)
	}

	stats, err := s.store.WorkerStats(ctx, storeID, from, to)
	if err != nil {
		return nil, err
	}
	return BuildRanking(stats), nil
}
