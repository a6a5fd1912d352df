package lingrid

import "github.com/beetlebugorg/lingrid/internal/parser"

// Errors returned by a run. Use errors.As to inspect them.
type (
	ErrTruncatedRecord       = parser.ErrTruncatedRecord
	ErrResourceExhausted     = parser.ErrResourceExhausted
	ErrStreamOpen            = parser.ErrStreamOpen
	ErrInvalidHeader         = parser.ErrInvalidHeader
	ErrUnsupportedShapeType  = parser.ErrUnsupportedShapeType
	ErrContentLengthMismatch = parser.ErrContentLengthMismatch
	ErrInvalidGeometry       = parser.ErrInvalidGeometry
)
