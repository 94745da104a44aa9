package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barber-admin/internal/httperr"
)

// --------------------------------------------------
// Datas no timezone do negócio
// --------------------------------------------------

func parseDate(loc *time.Location, dateStr string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", dateStr, loc)
}

// parseOptionalDate returns nil for an empty string.
func parseOptionalDate(loc *time.Location, dateStr string) (*time.Time, error) {
	if dateStr == "" {
		return nil, nil
	}
	t, err := parseDate(loc, dateStr)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// --------------------------------------------------
// Params
// --------------------------------------------------

// idParam reads :id and writes a 400 when it is not a positive integer.
func idParam(c *gin.Context) (uint, bool) {
	return uintParam(c, "id")
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return 0, false
	}
	return uint(n), true
}

func optionalUintQuery(c *gin.Context, name string) *uint {
	n, err := strconv.ParseUint(c.Query(name), 10, 64)
	if err != nil || n == 0 {
		return nil
	}
	id := uint(n)
	return &id
}

func pageQuery(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return page, limit
}

// parseDecimal accepts "89.90" and "89,90".
func parseDecimal(s string) (decimal.Decimal, error) {
	for i := range s {
		if s[i] == ',' {
			s = s[:i] + "." + s[i+1:]
		}
	}
	return decimal.NewFromString(s)
}
