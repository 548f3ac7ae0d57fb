package domain

import (
	"github.com/google/uuid"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

var (
	MesaageUserNotAllowed       = "user not allowed"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"
	MessageFailedUnauthorized   = "authentication required"

	ErrParseUUID      = Validation("id", "must be a valid UUID")
	ErrUserNotAllowed = Forbidden("user not allowed")
	ErrTokenNotFound  = Unauthorized("failed to token not found")
	ErrTokenInvalid   = Unauthorized("token invalid")
	ErrTokenExpired   = Unauthorized("token expired")
	ErrAdminRequired  = Forbidden("admin privileges required")
)

type (
	// Principal is the authenticated caller as established by the auth middleware.
	// The zero value is the anonymous caller.
	Principal struct {
		UserID uuid.UUID
		Role   string
	}

	Pagination struct {
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		Total      int64 `json:"total"`
		TotalPages int64 `json:"total_pages"`
	}

	PaginatedResponse[T any] struct {
		Results    []T        `json:"results"`
		Pagination Pagination `json:"pagination"`
	}
)

func (p Principal) IsAnonymous() bool { return p.UserID == uuid.Nil }

func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

func NewPagination(page, limit int, total int64) Pagination {
	totalPages := int64(0)
	if limit > 0 {
		totalPages = (total + int64(limit) - 1) / int64(limit)
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

func NewPaginatedResponse[T any](results []T, page, limit int, total int64) PaginatedResponse[T] {
	if results == nil {
		results = []T{}
	}
	return PaginatedResponse[T]{Results: results, Pagination: NewPagination(page, limit, total)}
}

// NormalizePage clamps page/limit query values to sane bounds.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// ParseID parses a path or body identifier, reporting a field-level validation error.
func ParseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, Validation(field, "must be a valid UUID")
	}
	return id, nil
}
