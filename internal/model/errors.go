package model

import "errors"

var (
	// ErrMalformedRow marks a single input row missing fields a metric needs.
	// Rows carrying it are skipped, never fatal.
	ErrMalformedRow = errors.New("malformed row")

	// ErrReferenceDataMissing is returned when a percentile population is empty.
	ErrReferenceDataMissing = errors.New("reference data missing")

	// ErrRoleMetricMismatch is returned for a metric that is not defined, or
	// cannot be computed, for the player's role.
	ErrRoleMetricMismatch = errors.New("role metric mismatch")

	// ErrUnknownEntity is returned when a player, team or match id does not
	// resolve in the input tables.
	ErrUnknownEntity = errors.New("unknown entity")

	// ErrNoMinutes is returned when a per-90 rate is requested for an entity
	// with no recorded minutes.
	ErrNoMinutes = errors.New("no minutes played")
)
