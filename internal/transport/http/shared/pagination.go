package shared

import (
	"net/http"
	"strconv"
)

type Pagination struct {
	Limit  int
	Offset int
}

// ParsePagination reads limit/offset query params, falling back to
// defaultLimit and clamping to maxLimit. Bad values are ignored rather than
// rejected; listing endpoints should never 400 on a mistyped page size.
func ParsePagination(r *http.Request, defaultLimit, maxLimit int) Pagination {
	page := Pagination{Limit: defaultLimit}

	if value, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && value > 0 {
		page.Limit = value
	}
	if value, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && value >= 0 {
		page.Offset = value
	}
	if maxLimit > 0 && page.Limit > maxLimit {
		page.Limit = maxLimit
	}
	return page
}
