//go:build sqlite_vec && cgo

package knowledge

import (
	"database/sql"

	vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	sqlite3 "github.com/mattn/go-sqlite3"
)

const vecDriver = "sqlite3_vec"

func init() {
	// Register the sqlite-vec extension with the mattn/go-sqlite3 driver.
	// vec.Auto() registers it as an auto-loadable extension.
	vec.Auto()

	// The same vector_distance_cos the pure-Go build registers, so queries
	// are identical under either driver.
	sql.Register(vecDriver, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("vector_distance_cos", func(a, b []byte) (float64, error) {
				av, err := DecodeVector(a)
				if err != nil {
					return 0, err
				}
				bv, err := DecodeVector(b)
				if err != nil {
					return 0, err
				}
				return vectorDistance(av, bv)
			}, true)
		},
	})
}
