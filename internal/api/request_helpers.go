package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/bmi-api/internal/api/shared"
	"github.com/phrazzld/bmi-api/internal/domain"
)

// Query parameters of GET /api/measurements.
const (
	paramSkip       = "skip"
	paramTake       = "take"
	paramDescending = "descending"
)

// getUserIDFromContext returns the owner placed in the context by the auth
// middleware.
func getUserIDFromContext(r *http.Request) (uuid.UUID, bool) {
	return shared.GetUserID(r.Context())
}

// rawNumberFromJSON converts a JSON value into a RawNumber. Absent and null
// values are missing, strings are missing when blank and otherwise
// non-numeric, and every other non-number JSON type is non-numeric.
func rawNumberFromJSON(raw json.RawMessage) domain.RawNumber {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return domain.RawNumber{}
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil || strings.TrimSpace(s) == "" {
			return domain.RawNumber{}
		}
		return domain.RawNumber{Text: s, Present: true}
	case '{', '[', 't', 'f':
		return domain.RawNumber{Text: string(trimmed), Present: true}
	}

	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return domain.RawNumber{Text: string(trimmed), Present: true}
	}
	return domain.NumberLiteral(n.String())
}

// parseHistoryQuery reads skip, take and descending. Take defaults to all
// records and descending defaults to true.
func parseHistoryQuery(r *http.Request) (domain.HistoryQuery, error) {
	q := domain.HistoryQuery{Descending: true}
	values := r.URL.Query()

	var err error
	if q.Skip, err = intParam(values.Get(paramSkip), domain.FieldSkip); err != nil {
		return domain.HistoryQuery{}, err
	}
	if q.Take, err = intParam(values.Get(paramTake), domain.FieldTake); err != nil {
		return domain.HistoryQuery{}, err
	}

	if raw := values.Get(paramDescending); raw != "" {
		desc, perr := strconv.ParseBool(raw)
		if perr != nil {
			return domain.HistoryQuery{}, domain.NewValidationError(paramDescending, "must be true or false", nil)
		}
		q.Descending = desc
	}

	return q, q.Validate()
}

func intParam(raw, field string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &domain.ValidationError{
			Reason:  domain.ReasonInvalidPagination,
			Field:   field,
			Message: "must be a whole number",
			Err:     domain.ErrValidation,
		}
	}
	return n, nil
}
