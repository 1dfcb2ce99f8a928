package handlers

import (
	"strconv"
	"time"

	"kalban_greenbag/internal/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type pageQuery struct {
	Page  *int `form:"page" binding:"omitempty,min=1"`
	Limit *int `form:"limit" binding:"omitempty,min=1"`
}

type userOrdersQuery struct {
	Page   *int   `form:"page" binding:"omitempty,min=1"`
	Limit  *int   `form:"limit" binding:"omitempty,min=1"`
	Status string `form:"status"`
}

type dateRangeQuery struct {
	FromDate string `form:"fromDate" binding:"required"`
	ToDate   string `form:"toDate" binding:"required"`
}

type totalsQuery struct {
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondError(c, apperror.Validation("Invalid "+name+": "+c.Param(name)))
		return uuid.Nil, false
	}
	return id, true
}

func int64Param(c *gin.Context, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		respondError(c, apperror.Validation("Invalid "+name+": "+c.Param(name)))
		return 0, false
	}
	return v, true
}

func parseDate(value, name string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, apperror.Validation("Invalid " + name + ": " + value)
	}
	return t, nil
}
