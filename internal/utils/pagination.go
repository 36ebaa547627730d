package utils

import (
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// PaginationParams represents pagination query parameters
type PaginationParams struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// PaginationMeta contains pagination metadata
type PaginationMeta struct {
	CurrentPage int  `json:"current_page"`
	PerPage     int  `json:"per_page"`
	Total       int  `json:"total"`
	LastPage    int  `json:"last_page"`
	From        int  `json:"from"`
	To          int  `json:"to"`
	HasMore     bool `json:"has_more"`
}

// GetPaginationParams extracts pagination parameters from query string
func GetPaginationParams(c *fiber.Ctx) PaginationParams {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "25"))

	if page < 1 {
		page = 1
	}

	// Validate limit options
	isValidLimit := false
	for _, validLimit := range GetLimitOptions() {
		if limit == validLimit {
			isValidLimit = true
			break
		}
	}
	if !isValidLimit {
		limit = 25
	}

	return PaginationParams{
		Page:  page,
		Limit: limit,
	}
}

// CalculatePagination calculates pagination metadata
func CalculatePagination(page, limit, total int) PaginationMeta {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 25
	}

	lastPage := int(math.Ceil(float64(total) / float64(limit)))

	// pages past the end are empty; checked before multiplying so huge
	// page numbers cannot overflow
	from, to := 0, 0
	if page <= lastPage {
		from = (page-1)*limit + 1
		to = page * limit
		if to > total {
			to = total
		}
	}

	return PaginationMeta{
		CurrentPage: page,
		PerPage:     limit,
		Total:       total,
		LastPage:    lastPage,
		From:        from,
		To:          to,
		HasMore:     page < lastPage,
	}
}

// PageBounds returns the slice bounds of the page described by meta
func PageBounds(meta PaginationMeta) (int, int) {
	if meta.From <= 0 || meta.To < meta.From || meta.To > meta.Total {
		return 0, 0
	}
	return meta.From - 1, meta.To
}

// GetLimitOptions returns available limit options
func GetLimitOptions() []int {
	return []int{10, 25, 50, 100}
}
