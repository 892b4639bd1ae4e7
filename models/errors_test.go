package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslateError(t *testing.T) {
	timeout := errors.New("timeout")

	testCases := []struct {
		name string
		err  error
		want error
	}{
		{name: "Nil", err: nil, want: nil},
		{name: "gorm duplicate", err: gorm.ErrDuplicatedKey, want: ErrDuplicateKey},
		{name: "gorm foreign key", err: gorm.ErrForeignKeyViolated, want: ErrReferenceViolation},
		{name: "postgres unique", err: &pq.Error{Code: "23505"}, want: ErrDuplicateKey},
		{name: "postgres foreign key", err: &pq.Error{Code: "23503"}, want: ErrReferenceViolation},
		{
			name: "sqlite unique",
			err:  sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique},
			want: ErrDuplicateKey,
		},
		{
			name: "sqlite foreign key",
			err:  sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey},
			want: ErrReferenceViolation,
		},
		{
			name: "sqlite restrict on delete",
			err:  fmt.Errorf("delete: %w", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintTrigger}),
			want: ErrReferenceViolation,
		},
		{name: "Other errors pass through", err: timeout, want: timeout},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := translateError(tc.err)
			if tc.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tc.want)
			if tc.err != tc.want {
				assert.ErrorIs(t, got, tc.err, "the driver error stays in the chain")
			}
		})
	}
}
