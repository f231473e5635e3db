package repo

import "errors"

// ErrNotFound indicates that no record matched the given identifier
// for the requesting user.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateCode indicates that a debtor code was already taken at
// write time. Callers are expected to regenerate and retry.
var ErrDuplicateCode = errors.New("debtor code already exists")
