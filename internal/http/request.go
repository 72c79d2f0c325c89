package http

import (
	"fmt"
	"strconv"
	"time"

	"cashflow/internal/core"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const dateOnly = "2006-01-02"

// parseDate accepts a calendar date or a full RFC 3339 timestamp.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(dateOnly, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}

// parseEndDate widens a date-only upper bound to the end of that day so the
// range stays inclusive.
func parseEndDate(value string) (time.Time, error) {
	if t, err := time.Parse(dateOnly, value); err == nil {
		return t.Add(24*time.Hour - time.Nanosecond), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}

func pathID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id %q", c.Param("id"))
	}
	return id, nil
}

// parseTransactionFilter reads the list query parameters. Paging bounds are
// enforced by the service.
func parseTransactionFilter(c *gin.Context) (core.TransactionFilter, error) {
	var f core.TransactionFilter

	if v := c.Query("startDate"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return f, err
		}
		f.Start = t
	}
	if v := c.Query("endDate"); v != "" {
		t, err := parseEndDate(v)
		if err != nil {
			return f, err
		}
		f.End = t
	}
	if v := c.Query("category"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return f, fmt.Errorf("invalid category %q", v)
		}
		f.CategoryID = id
	}
	if v := c.Query("type"); v != "" {
		ft := core.FlowType(v)
		if !ft.Valid() {
			return f, fmt.Errorf("invalid type %q", v)
		}
		f.Type = ft
	}
	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return f, fmt.Errorf("invalid page %q", v)
		}
		f.Page = n
	}
	if v := c.Query("pageSize"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return f, fmt.Errorf("invalid pageSize %q", v)
		}
		f.PageSize = n
	}
	return f, nil
}
