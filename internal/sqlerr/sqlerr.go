// Package sqlerr classifies database driver errors.
//
// Driver errors are normalized into Error for logging and mapped onto the
// HTTP error the client sees: unreachable database becomes 503, a missing
// row becomes 404 and everything else an opaque 500.
package sqlerr
