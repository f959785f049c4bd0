package errorutil

import "errors"

// ErrContractViolation is a base error type for misuse of the recording API,
// such as an End without a matching Begin. These are programmer errors and
// are raised as panics.
var ErrContractViolation = errors.New("contract violation")

// ErrNoData represents statistics that cannot be derived because nothing has
// been aggregated yet.
var ErrNoData = errors.New("no data")

// ErrNoResults represents situations in which no results were returned by the called API.
var ErrNoResults = errors.New("no results returned")

// ErrDataIntegrity is a base error type to use for failures that are due to
// unrecoverable data integrity issues.
var ErrDataIntegrity = errors.New("data integrity error")
