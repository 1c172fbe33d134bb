package apierr

import (
	"net/http"
	"testing"

	"github.com/VividCortex/mysqlerr"
	"github.com/go-sql-driver/mysql"
)

func TestHTTPStatus_Mapping(t *testing.T) {
	cases := []struct {
		err  *Error
		want int
	}{
		{New(KindInputValidation, "bad"), http.StatusBadRequest},
		{New(KindFDInconsistency, "bad"), http.StatusBadRequest},
		{NotFound("no such table"), http.StatusNotFound},
		{New(KindSchemaIntrospection, "bad column"), http.StatusBadRequest},
		{New(KindDecompositionInvariant, "bug"), http.StatusInternalServerError},
		{New(KindDatabase, "db"), http.StatusInternalServerError},
		{New(KindConnectionFailure, "conn"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := c.err.HTTPStatus(); got != c.want {
			t.Errorf("kind %s: got status %d, want %d", c.err.Kind, got, c.want)
		}
	}
}

func TestFromDatabaseError_NoSuchTableIs404(t *testing.T) {
	merr := &mysql.MySQLError{Number: mysqlerr.ER_NO_SUCH_TABLE, Message: "Table doesn't exist"}
	got := FromDatabaseError(merr)
	if got.HTTPStatus() != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", got.HTTPStatus())
	}
}

func TestFromDatabaseError_UnknownColumnIsDatabaseKind(t *testing.T) {
	merr := &mysql.MySQLError{Number: mysqlerr.ER_BAD_FIELD_ERROR, Message: "Unknown column"}
	got := FromDatabaseError(merr)
	if got.Kind != KindDatabase {
		t.Fatalf("expected KindDatabase, got %s", got.Kind)
	}
}

func TestFromDatabaseError_NonMySQLErrorIsConnectionFailure(t *testing.T) {
	got := FromDatabaseError(errPlain("connection refused"))
	if got.Kind != KindConnectionFailure {
		t.Fatalf("expected KindConnectionFailure, got %s", got.Kind)
	}
}

func TestIsTolerable_DuplicateColumnAndKey(t *testing.T) {
	if !IsTolerable(&mysql.MySQLError{Number: mysqlerr.ER_DUP_FIELDNAME}) {
		t.Fatal("expected duplicate column error to be tolerable")
	}
	if !IsTolerable(&mysql.MySQLError{Number: mysqlerr.ER_DUP_KEYNAME}) {
		t.Fatal("expected duplicate key error to be tolerable")
	}
	if IsTolerable(&mysql.MySQLError{Number: mysqlerr.ER_PARSE_ERROR}) {
		t.Fatal("parse error should not be tolerable")
	}
}

type errPlain string

func (e errPlain) Error() string { return string(e) }
