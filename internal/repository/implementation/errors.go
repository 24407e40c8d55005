package implementation

import (
	"errors"

	"featureboard-be/internal/repository/contract"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// translateError maps driver errors onto the contract sentinels. GORM only
// translates duplicate keys when the dialector was opened with
// TranslateError, so the raw pg error code is checked as well.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return contract.ErrDuplicateRecord
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return contract.ErrDuplicateRecord
	}
	return err
}
