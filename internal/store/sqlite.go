package store

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"modernc.org/sqlite"
)

// unicodeLowerFunc is a SQLite scalar that lower-cases with Go's Unicode
// tables. SQLite's own LOWER and LIKE only fold ASCII letters.
const unicodeLowerFunc = "sweetshop_lower"

func init() {
	if err := sqlite.RegisterDeterministicScalarFunction(unicodeLowerFunc, 1, unicodeLower); err != nil {
		panic(fmt.Sprintf("register %s: %v", unicodeLowerFunc, err))
	}
}

func unicodeLower(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}
