//go:build !(sqlite_vec && cgo)

package knowledge

import (
	"database/sql/driver"
	"fmt"

	sqlite "modernc.org/sqlite"
)

// vecDriver selects the pure-Go driver. Building with -tags sqlite_vec under
// cgo switches to mattn/go-sqlite3 with the sqlite-vec extension instead.
const vecDriver = "sqlite"

func init() {
	// Deterministic: same input blobs produce the same distance.
	_ = sqlite.RegisterDeterministicScalarFunction("vector_distance_cos", 2, vecDistanceCos)
}

func vecDistanceCos(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("vector_distance_cos expects 2 arguments")
	}
	a, err := coerceVector(args[0])
	if err != nil {
		return nil, err
	}
	b, err := coerceVector(args[1])
	if err != nil {
		return nil, err
	}
	return vectorDistance(a, b)
}

func coerceVector(v driver.Value) ([]float32, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []byte:
		return DecodeVector(x)
	case string:
		return DecodeVector([]byte(x))
	default:
		return nil, fmt.Errorf("vector_distance_cos: unsupported type %T", v)
	}
}
