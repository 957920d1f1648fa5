package valuation

import "errors"

// Domain validation errors. Every failure in this package wraps exactly one of
// these sentinels so callers can classify it with errors.Is.
var (
	ErrUnknownArea  = errors.New("unknown area")
	ErrInvalidYear  = errors.New("invalid construction year")
	ErrInvalidWidth = errors.New("invalid road width")
	ErrInvalidSize  = errors.New("invalid size")
	ErrUnknownClass = errors.New("unknown property class")
)

// IsDomainError reports whether err is one of the input validation failures
// defined by this package.
func IsDomainError(err error) bool {
	return errors.Is(err, ErrUnknownArea) ||
		errors.Is(err, ErrInvalidYear) ||
		errors.Is(err, ErrInvalidWidth) ||
		errors.Is(err, ErrInvalidSize) ||
		errors.Is(err, ErrUnknownClass)
}

// Code returns a stable machine-readable code for a domain error, or "" when
// err is not one.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrUnknownArea):
		return "UNKNOWN_AREA"
	case errors.Is(err, ErrInvalidYear):
		return "INVALID_YEAR"
	case errors.Is(err, ErrInvalidWidth):
		return "INVALID_WIDTH"
	case errors.Is(err, ErrInvalidSize):
		return "INVALID_SIZE"
	case errors.Is(err, ErrUnknownClass):
		return "INVALID_PROPERTY_CLASS"
	default:
		return ""
	}
}
