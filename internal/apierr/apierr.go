// Package apierr implements the Error Handling Design of spec.md §7: typed
// error kinds, their HTTP status mapping, and MySQL server error code
// classification grounded on tengo/errors.go's IsDatabaseError pattern.
package apierr

import (
	"errors"
	"net/http"

	"github.com/VividCortex/mysqlerr"
	"github.com/go-sql-driver/mysql"
)

// Kind classifies an API-level error per spec.md §7.
type Kind string

const (
	KindInputValidation      Kind = "InputValidation"
	KindSchemaIntrospection  Kind = "SchemaIntrospection"
	KindFDInconsistency      Kind = "FDInconsistency"
	KindDecompositionInvariant Kind = "DecompositionInvariant"
	KindDatabase             Kind = "Database"
	KindConnectionFailure    Kind = "ConnectionFailure"
)

// Error is the typed error carried through the request pipeline and
// rendered by internal/api as the {error: string, ...} envelope.
type Error struct {
	Kind    Kind
	Message string
	// NotFoundTable distinguishes the §7 "table does not exist -> 404"
	// case from the "column does not exist -> 400" case, both of which
	// fall under SchemaIntrospection.
	NotFoundTable bool
	cause         error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.cause }

// New constructs an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap constructs an Error of the given kind, preserving cause for errors.Is/As.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// NotFound constructs a SchemaIntrospection error for a missing table (404).
func NotFound(message string) *Error {
	return &Error{Kind: KindSchemaIntrospection, Message: message, NotFoundTable: true}
}

// HTTPStatus maps an error kind to the status code of spec.md §6/§7.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindInputValidation, KindFDInconsistency:
		return http.StatusBadRequest
	case KindSchemaIntrospection:
		if e.NotFoundTable {
			return http.StatusNotFound
		}
		return http.StatusBadRequest
	case KindDecompositionInvariant, KindDatabase, KindConnectionFailure:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// ER_CANT_ADD_FOREIGN_KEY (1822) is not present in VividCortex/mysqlerr's
// pinned constant set, so it is defined locally alongside the import,
// exactly as tengo/errors.go locally defines codes mysqlerr omits.
const erCantAddForeignKey = 1822

// mysqlMessages maps known MySQL error codes (spec.md §7) to a user-facing
// message prefix.
var mysqlMessages = map[uint16]string{
	mysqlerr.ER_BAD_FIELD_ERROR:        "unknown column",
	mysqlerr.ER_NO_SUCH_TABLE:          "table does not exist",
	mysqlerr.ER_PARSE_ERROR:            "SQL syntax error",
	mysqlerr.ER_WRONG_FIELD_WITH_GROUP: "GROUP BY violation",
	mysqlerr.ER_DUP_FIELDNAME:          "duplicate column",
	mysqlerr.ER_DUP_KEYNAME:            "duplicate key",
	erCantAddForeignKey:                "could not add foreign key",
}

// FromDatabaseError classifies an error returned by the Executor into a
// typed apierr.Error, mapping known MySQL error codes to user-facing
// messages per spec.md §7. Unrecognized database errors still classify as
// KindDatabase with a generic message; connection-level failures (no
// *mysql.MySQLError at all) classify as KindConnectionFailure.
func FromDatabaseError(err error) *Error {
	if err == nil {
		return nil
	}
	var merr *mysql.MySQLError
	if errors.As(err, &merr) {
		if merr.Number == mysqlerr.ER_NO_SUCH_TABLE {
			return Wrap(KindSchemaIntrospection, "table does not exist", err).withNotFound()
		}
		if msg, known := mysqlMessages[merr.Number]; known {
			return Wrap(KindDatabase, msg, err)
		}
		return Wrap(KindDatabase, "database error", err)
	}
	return Wrap(KindConnectionFailure, "could not reach the database", err)
}

func (e *Error) withNotFound() *Error {
	e.NotFoundTable = true
	return e
}

// IsTolerable reports whether a database error from the canvas-apply flow
// (spec.md §4.6 step 5) is tolerated: duplicate-column and
// duplicate-constraint errors. The canvas flow ignores a tolerable error and
// proceeds; it records any other FK error in its result instead.
func IsTolerable(err error) bool {
	var merr *mysql.MySQLError
	if !errors.As(err, &merr) {
		return false
	}
	return merr.Number == mysqlerr.ER_DUP_FIELDNAME || merr.Number == mysqlerr.ER_DUP_KEYNAME
}
