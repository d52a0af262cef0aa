package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		retryable bool
		detailsOK bool
		showMsg   bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, detailsOK: true, showMsg: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, showMsg: true},
		{code: CodeNotFound, status: http.StatusNotFound, showMsg: true},
		{code: CodeQuoteOnly, status: http.StatusUnprocessableEntity, detailsOK: true, showMsg: true},
		{code: CodeCheckoutRejected, status: http.StatusUnprocessableEntity, detailsOK: true, showMsg: true},
		{code: CodePayloadTooLarge, status: http.StatusRequestEntityTooLarge, detailsOK: true, showMsg: true},
		{code: CodeUnsupportedMedia, status: http.StatusUnsupportedMediaType, detailsOK: true, showMsg: true},
		{code: CodeRateLimit, status: http.StatusTooManyRequests, showMsg: true},
		{code: CodeInternal, status: http.StatusInternalServerError, retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, retryable: true, detailsOK: true, showMsg: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage == "" {
			t.Fatalf("code %s has no public message", tt.code)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
		if meta.ShowMessage != tt.showMsg {
			t.Fatalf("code %s expected show message %v got %v", tt.code, tt.showMsg, meta.ShowMessage)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing name")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing name" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	base.WithDetails(map[string]any{"field": "name"})
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeDependency, cause, "create cart")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if !strings.Contains(wrapped.Error(), "boom") {
		t.Fatalf("expected cause in error string, got %q", wrapped.Error())
	}

	formatted := Newf(CodeNotFound, "category %q not found", "spoons")
	if formatted.Message() != `category "spoons" not found` {
		t.Fatalf("unexpected formatted message %q", formatted.Message())
	}
}

func TestAsAndIsCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeQuoteOnly, "irons are quoted"))
	if got := As(err); got == nil || got.Code() != CodeQuoteOnly {
		t.Fatalf("As failed to return typed error")
	}
	if !IsCode(err, CodeQuoteOnly) {
		t.Fatalf("expected IsCode to match")
	}
	if IsCode(stdErrors.New("plain"), CodeQuoteOnly) {
		t.Fatalf("plain errors carry no code")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}

func TestIsMatchesByCode(t *testing.T) {
	sentinel := New(CodeNotFound, "")
	err := fmt.Errorf("lookup: %w", New(CodeNotFound, "basket item not found"))
	if !stdErrors.Is(err, sentinel) {
		t.Fatal("expected errors.Is to match on code")
	}
	if stdErrors.Is(err, New(CodeConflict, "")) {
		t.Fatal("different codes must not match")
	}
}

func TestHTTPStatusAndCodeOf(t *testing.T) {
	if got := HTTPStatus(New(CodeRateLimit, "slow down")); got != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", got)
	}
	if got := HTTPStatus(stdErrors.New("plain")); got != http.StatusInternalServerError {
		t.Fatalf("expected 500 for untyped errors, got %d", got)
	}
	if got := HTTPStatus(nil); got != http.StatusOK {
		t.Fatalf("expected 200 for nil, got %d", got)
	}
	if CodeOf(stdErrors.New("plain")) != CodeInternal {
		t.Fatal("untyped errors map to internal")
	}
}

func TestDumpIncludesChain(t *testing.T) {
	err := Wrap(CodeDependency, stdErrors.New("socket closed"), "storefront request")
	dump := Dump(err)
	if dump.Code != CodeDependency {
		t.Fatalf("expected dependency code, got %s", dump.Code)
	}
	if len(dump.Chain) != 2 {
		t.Fatalf("expected two chain entries, got %v", dump.Chain)
	}
}

func TestDumpReadsDriverErrors(t *testing.T) {
	pgErr := Wrap(CodeDependency, &pgconn.PgError{Code: "23505", ConstraintName: "enquiries_pkey", Message: "duplicate key value"}, "Failed to save enquiry")
	dump := Dump(pgErr)
	if dump.DB == nil || dump.DB.Driver != "postgres" || dump.DB.Code != "23505" {
		t.Fatalf("expected postgres detail, got %+v", dump.DB)
	}
	fields := dump.Fields()
	if fields["db_constraint"] != "enquiries_pkey" || fields["error_code"] != CodeDependency {
		t.Fatalf("unexpected fields %v", fields)
	}

	liteErr := fmt.Errorf("insert: %w", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique})
	dump = Dump(liteErr)
	if dump.DB == nil || dump.DB.Driver != "sqlite" || dump.DB.Code != "2067" {
		t.Fatalf("expected sqlite detail, got %+v", dump.DB)
	}

	if Dump(stdErrors.New("plain")).DB != nil {
		t.Fatal("plain errors carry no db detail")
	}
}
