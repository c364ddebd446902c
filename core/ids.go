package core

import (
	"context"
	"fmt"
	"time"
)

// Human-facing ID prefixes, one per registered entity type.
const (
	StudentIDPrefix  = "STU"
	EmployerIDPrefix = "EMP"
	FacultyIDPrefix  = "FAC"
	PositionIDPrefix = "POS"
)

// IDGenerator issues human-facing identifiers of the form
// {PREFIX}-{year}-{4-digit sequence}, e.g. STU-2025-0007.
// Issuance must be serialized per (prefix, year) by the implementation so
// concurrent inserts never collide.
type IDGenerator interface {
	NextID(ctx context.Context, prefix string) (string, error)
}

// FormatID renders an issued sequence number in the persisted ID format.
func FormatID(prefix string, year, seq int) string {
	return fmt.Sprintf("%s-%d-%04d", prefix, year, seq)
}

// IDYear returns the year bucket new IDs are issued under.
func IDYear() int {
	return time.Now().UTC().Year()
}
