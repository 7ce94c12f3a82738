//go:build !cgo_sqlite

package sqlite

import (
	"errors"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	driverName    = "sqlite"
	driverType    = "purego"
	driverPackage = "modernc.org/sqlite"
)

func constraintCode(err error) (int, bool) {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return 0, false
	}
	// Extended codes keep the primary code in the low byte.
	return se.Code(), se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
}
