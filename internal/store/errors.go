package store

import (
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/FocuswithJustin/bibleinsight/core/errors"
	"github.com/FocuswithJustin/bibleinsight/core/sqlite"
)

// mapError classifies a driver error raised while writing table. Constraint
// violations become *errors.StorageConstraintError; everything else is
// wrapped with the operation name.
func mapError(op, table string, err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23") {
		// class 23: integrity_constraint_violation
		if pgErr.TableName != "" {
			table = pgErr.TableName
		}
		return &errors.StorageConstraintError{Table: table, Code: pgErr.Code, Err: err}
	}

	if code, ok := sqlite.IsConstraint(err); ok {
		return &errors.StorageConstraintError{Table: table, Code: strconv.Itoa(code), Err: err}
	}

	return errors.Wrapf(err, "store: %s", op)
}
