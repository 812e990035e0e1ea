package httputil

import (
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/jellydator/validation"
)

const (
	// DefaultPageLimit is used when the request carries no limit.
	DefaultPageLimit = 50
	// MaxPageLimit caps a single page of list results.
	MaxPageLimit = 100
)

// ParsePagination reads the offset and limit query parameters of a list request.
// Both are validated together so one response reports every bad parameter.
func ParsePagination(c *gin.Context) (offset, limit int, err error) {
	offset, offsetErr := queryInt(c, "offset", 0)
	limit, limitErr := queryInt(c, "limit", DefaultPageLimit)

	errs := validation.Errors{}
	if offsetErr != nil {
		errs["offset"] = offsetErr
	} else if err := validation.Validate(offset, validation.Min(0)); err != nil {
		errs["offset"] = err
	}
	if limitErr != nil {
		errs["limit"] = limitErr
	} else if err := validation.Validate(limit, validation.Min(1), validation.Max(MaxPageLimit)); err != nil {
		errs["limit"] = err
	}

	if err := errs.Filter(); err != nil {
		return 0, 0, err
	}
	return offset, limit, nil
}

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, validation.NewError("validation_is_int", "must be an integer")
	}
	return n, nil
}
