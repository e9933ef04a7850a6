package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// document does not exist in the store.
// Handlers should map this to HTTP 404 (or the "该项目不存在" page body).
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails a presence or format check
// (e.g. a missing id, a date that is not YYYY-MM-DD).
// Handlers should map this to HTTP 400.
var ErrValidation = errors.New("validation error")

// ErrInvalidRange is returned by NewDateRange when the end date precedes the
// start date.
var ErrInvalidRange = errors.New("invalid date range")

// ErrUnknownCategory is returned when a URL slug or name does not match any
// record category.
var ErrUnknownCategory = errors.New("unknown category")

// ErrExportNotConfigured is the configuration error of an export: no
// temporary export directory is set. Nothing is queried or written.
var ErrExportNotConfigured = errors.New("export directory not configured")

// ErrSerialization wraps any failure while writing a workbook to disk.
var ErrSerialization = errors.New("workbook serialization failed")
