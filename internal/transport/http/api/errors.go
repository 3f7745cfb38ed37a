package api

import (
	"errors"
	"net/http"

	"shiftdesk/internal/domain/core"
	"shiftdesk/internal/domain/marketplace"
	"shiftdesk/internal/domain/payroll"
	"shiftdesk/internal/domain/ranking"
	"shiftdesk/internal/domain/schedule"
	"shiftdesk/internal/domain/timelog"
)

type mapping struct {
	status int
	code   string
}

// Every domain carries its own sentinel set; they all collapse onto the
// same HTTP vocabulary here.
var errorMap = []struct {
	err error
	mapping
}{
	{core.ErrNotFound, mapping{http.StatusNotFound, "not_found"}},
	{core.ErrInvalidInput, mapping{http.StatusBadRequest, "invalid_input"}},
	{core.ErrConflict, mapping{http.StatusConflict, "conflict"}},
	{core.ErrForbidden, mapping{http.StatusForbidden, "forbidden"}},

	{schedule.ErrNotFound, mapping{http.StatusNotFound, "not_found"}},
	{schedule.ErrInvalidInput, mapping{http.StatusBadRequest, "invalid_input"}},
	{schedule.ErrInvalidState, mapping{http.StatusUnprocessableEntity, "invalid_state"}},
	{schedule.ErrConflict, mapping{http.StatusConflict, "conflict"}},
	{schedule.ErrForbidden, mapping{http.StatusForbidden, "forbidden"}},
	{schedule.ErrCapacity, mapping{http.StatusUnprocessableEntity, "capacity_exceeded"}},

	{marketplace.ErrNotFound, mapping{http.StatusNotFound, "not_found"}},
	{marketplace.ErrInvalidInput, mapping{http.StatusBadRequest, "invalid_input"}},
	{marketplace.ErrInvalidState, mapping{http.StatusUnprocessableEntity, "invalid_state"}},
	{marketplace.ErrConflict, mapping{http.StatusConflict, "conflict"}},
	{marketplace.ErrForbidden, mapping{http.StatusForbidden, "forbidden"}},

	{timelog.ErrNotFound, mapping{http.StatusNotFound, "not_found"}},
	{timelog.ErrInvalidInput, mapping{http.StatusBadRequest, "invalid_input"}},
	{timelog.ErrInvalidState, mapping{http.StatusUnprocessableEntity, "invalid_state"}},
	{timelog.ErrConflict, mapping{http.StatusConflict, "conflict"}},
	{timelog.ErrForbidden, mapping{http.StatusForbidden, "forbidden"}},

	{payroll.ErrNotFound, mapping{http.StatusNotFound, "not_found"}},
	{payroll.ErrInvalidInput, mapping{http.StatusBadRequest, "invalid_input"}},
	{payroll.ErrInvalidState, mapping{http.StatusUnprocessableEntity, "invalid_state"}},
	{payroll.ErrConflict, mapping{http.StatusConflict, "conflict"}},
	{payroll.ErrForbidden, mapping{http.StatusForbidden, "forbidden"}},

	{ranking.ErrInvalidInput, mapping{http.StatusBadRequest, "invalid_input"}},
	{ranking.ErrForbidden, mapping{http.StatusForbidden, "forbidden"}},
}

// FailErr maps a service error to its HTTP status and writes the envelope.
// Unrecognized errors become an opaque 500.
func FailErr(w http.ResponseWriter, err error, requestID string) {
	for _, entry := range errorMap {
		if errors.Is(err, entry.err) {
			Fail(w, entry.status, entry.code, err.Error(), requestID)
			return
		}
	}
	Fail(w, http.StatusInternalServerError, "internal_error", "something went wrong", requestID)
}
