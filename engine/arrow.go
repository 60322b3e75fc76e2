// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

//go:build duckdb_arrow

package engine

import (
	"context"
	"database/sql/driver"

	duckdb "github.com/marcboeker/go-duckdb/v2"

	"parvu/table"
)

// queryBatch runs q through go-duckdb's Arrow interface and converts the
// streamed record batches into a host batch. go-duckdb gates this interface
// behind the duckdb_arrow build tag; without the tag the database/sql path
// in rows.go serves instead.
func (r *Reader) queryBatch(ctx context.Context, q string) (*table.Batch, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	var batch *table.Batch
	err = conn.Raw(func(driverConn any) error {
		ar, err := duckdb.NewArrowFromConn(driverConn.(driver.Conn))
		if err != nil {
			return err
		}
		rdr, err := ar.QueryContext(ctx, q)
		if err != nil {
			return err
		}
		defer rdr.Release()
		batch, err = batchFromRecords(rdr)
		return err
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}
