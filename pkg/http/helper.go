package http

import (
	"net/http"
	"sharely/pkg/config"
	apperrors "sharely/pkg/errors"
	"strconv"
)

// CallerHeader carries the acting user's id on every domain request.
const CallerHeader = "X-Sharer-User-Id"

func ExtractCallerID(r *http.Request) (string, error) {
	callerID := r.Header.Get(CallerHeader)
	if callerID == "" {
		return "", apperrors.InvalidInput(CallerHeader + " header is required")
	}
	return callerID, nil
}

func ExtractLimitOffset(r *http.Request) (int, int64, error) {
	query := r.URL.Query()

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	var offset int64 = 0
	if s := query.Get("offset"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid offset parameter: " + s)
		}
		offset = int64(v)
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	return limit, offset, nil
}

// ExtractFromSize reads the from/size paging parameters used by listing
// endpoints. Bounds are enforced by the services, not here.
func ExtractFromSize(r *http.Request, defaultSize int) (int, int, error) {
	query := r.URL.Query()

	from := 0
	if s := query.Get("from"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid from parameter: " + s)
		}
		from = v
	}

	size := defaultSize
	if s := query.Get("size"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid size parameter: " + s)
		}
		size = v
	}

	return from, size, nil
}
