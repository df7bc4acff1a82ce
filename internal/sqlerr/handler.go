package sqlerr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/deppfellow/gym-api/internal/database"
	"github.com/deppfellow/gym-api/internal/errs"
)

// tablePrefix marks errors that carry the table they were raised for, see
// WithTable.
const tablePrefix = "table:"

// entityNames covers table names that cannot be derived by trimming a
// trailing "s".
var entityNames = map[string]string{
	"workoutsessions": "workout_session",
}

// WithTable annotates err with the table it came from so that a
// pgx.ErrNoRows turns into "<Entity> not found".
func WithTable(table string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s%s: %w", tablePrefix, table, err)
}

// ErrCode reports the mapped Code for err, or Other.
func ErrCode(err error) Code {
	if sqlErr := FromError(err); sqlErr != nil {
		return sqlErr.Code
	}
	return Other
}

// FromError extracts the Postgres error from err's chain and converts it.
// It returns nil when err holds no *pgconn.PgError.
func FromError(err error) *Error {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		return ConvertPgError(pgerr)
	}
	return nil
}

// ConvertPgError converts a raw Postgres error into an Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// IsConnectionError reports whether err means the database could not be
// reached at all.
func IsConnectionError(err error) bool {
	if errors.Is(err, database.ErrUnavailable) {
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	return ErrCode(err) == ConnectionFailure || ErrCode(err) == TooManyConnections
}

// getEntityName derives a display name from a table or a *_id column.
//
//	"members" -> "Member", "member_id" -> "Member"
func getEntityName(tableName, columnName string) string {
	if columnName != "" && strings.HasSuffix(strings.ToLower(columnName), "_id") {
		entity := strings.TrimSuffix(strings.ToLower(columnName), "_id")
		return humanizeText(entity)
	}

	if tableName != "" {
		if entity, ok := entityNames[tableName]; ok {
			return humanizeText(entity)
		}
		entity := tableName
		if strings.HasSuffix(entity, "s") && len(entity) > 1 {
			entity = entity[:len(entity)-1]
		}
		return humanizeText(entity)
	}

	return "record"
}

// humanizeText converts snake_case into Title Case.
//
//	"workout_session" -> "Workout Session"
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// tableFromError returns the table recorded by WithTable, if any.
func tableFromError(err error) string {
	_, rest, found := strings.Cut(err.Error(), tablePrefix)
	if !found {
		return ""
	}
	table, _, found := strings.Cut(rest, ":")
	if !found {
		return ""
	}
	return table
}

// HandleError converts a database error into the HTTPError sent to the
// client.
//
//   - *errs.HTTPError is returned unchanged.
//   - Connection failures become 503.
//   - pgx.ErrNoRows becomes 404, named after the table when known.
//   - Everything else, including every Postgres error, becomes an opaque 500.
//
// The original error is never exposed; callers log it.
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	if IsConnectionError(err) {
		return errs.NewServiceUnavailableError()
	}

	if errors.Is(err, pgx.ErrNoRows) {
		if table := tableFromError(err); table != "" {
			entityName := getEntityName(table, "")
			return errs.NewNotFoundError(fmt.Sprintf("%s not found", entityName), true, nil)
		}
		return errs.NewNotFoundError("Resource not found", false, nil)
	}

	return errs.NewInternalServerError()
}
