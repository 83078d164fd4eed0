package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"validation", &ValidationError{Op: OpCreate, Fields: []string{FieldAmount}}, "VAL001"},
		{"not found", fmt.Errorf("edit: %w", ErrNotFound), "DB005"},
		{"foreign key by sqlstate", &WriteError{Op: OpCreate, Err: &pgconn.PgError{Code: "23503"}}, "DB001"},
		{"check violation by sqlstate", &WriteError{Op: OpUpdate, Err: &pgconn.PgError{Code: "23514"}}, "DB002"},
		{"bad uuid text", &WriteError{Op: OpCreate, Err: &pgconn.PgError{Code: "22P02"}}, "DB002"},
		{"query canceled", &pgconn.PgError{Code: "57014"}, "DB004"},
		{"deadline", fmt.Errorf("insert invoice: %w", context.DeadlineExceeded), "DB004"},
		{"connection refused pattern", errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"), "DB003"},
		{"foreign key pattern", errors.New(`violates foreign key constraint "invoices_customer_id_fkey"`), "DB001"},
		{"unknown sqlstate falls through", &pgconn.PgError{Code: "XX000", Message: "internal"}, "ERR000"},
		{"unknown", errors.New("something odd"), "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError(%v).Code = %q, want %q", tt.err, got.Code, tt.wantCode)
			}
			if got.Message == "" || got.Action == "" {
				t.Errorf("MapError(%v) = %+v, want message and action", tt.err, got)
			}
		})
	}
}

func TestMapError_Nil(t *testing.T) {
	if got := MapError(nil); got != (UserMessage{}) {
		t.Errorf("MapError(nil) = %+v, want zero value", got)
	}
}

func TestErrorCodesUnique(t *testing.T) {
	seen := make(map[string]string)
	for _, msg := range []UserMessage{
		msgValidation, msgForeignKey, msgConstraint, msgUnavailable, msgTimeout, msgNotFound, msgUnknown,
	} {
		if prev, ok := seen[msg.Code]; ok {
			t.Errorf("code %s used by %q and %q", msg.Code, prev, msg.Message)
		}
		seen[msg.Code] = msg.Message
	}
}
