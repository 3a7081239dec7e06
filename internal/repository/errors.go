package repository

import "errors"

// ErrNotFound is returned when a query for a single entity finds no rows.
// Services translate it into a typed NotFound error, so business logic never
// sees the driver's sql.ErrNoRows.
var ErrNotFound = errors.New("repository: not found")
