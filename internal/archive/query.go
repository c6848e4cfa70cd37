package archive

import (
	"database/sql"
	"fmt"

	_ "github.com/duckdb/duckdb-go/v2"
)

// Query opens an in-process DuckDB connection and runs a read-only SQL
// statement against the Parquet files named by paths, exposed as the table
// name "episodes" via read_parquet. Modeled on the teacher's
// viewer/db.go DBCache, stripped of its caching/refresh logic since a
// benchmark or analysis run is short-lived.
//
// Example: Query([]string{"out/*.parquet"}, "select avg(length) from episodes")
func Query(paths []string, sqlText string) ([]map[string]any, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	defer db.Close()

	globs := parquetGlobList(paths)
	if _, err := db.Exec(fmt.Sprintf(
		"create view episodes as select * from read_parquet(%s)", globs,
	)); err != nil {
		return nil, fmt.Errorf("create episodes view: %w", err)
	}

	rows, err := db.Query(sqlText)
	if err != nil {
		return nil, fmt.Errorf("run query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	var out []map[string]any
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row := make(map[string]any, len(cols))
		for i, c := range cols {
			row[c] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func parquetGlobList(paths []string) string {
	list := "["
	for i, p := range paths {
		if i > 0 {
			list += ", "
		}
		list += "'" + p + "'"
	}
	return list + "]"
}
