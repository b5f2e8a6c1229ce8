package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/vcfcompile/internal/merge"
)

// StoredVariant is one row of the variants table with its qualities.
type StoredVariant struct {
	Index     int64
	Key       merge.Key
	ID        string
	Genes     string
	Qualities map[string]sql.NullFloat64 // by file label; NULL if the file had no value
}

// WriteCompilation replaces the stored table with res.
func (s *Store) WriteCompilation(res *merge.Result) error {
	for _, table := range []string{"sources", "variants", "variant_qualities"} {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	if err := appendRows(conn, "sources", func(a *goduckdb.Appender) error {
		for col, f := range res.Files {
			size, modTime := fingerprint(f.Path)
			if err := a.AppendRow(int64(col), f.Label, f.Path, size, modTime,
				int64(f.Records), int64(f.Variants), int64(f.Skipped)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return err
	}

	if err := appendRows(conn, "variants", func(a *goduckdb.Appender) error {
		for _, e := range res.Registry.Entries() {
			k := e.Key
			if err := a.AppendRow(int64(e.Index), k.Chrom, k.Pos, e.ID, k.Ref, k.Alt, e.Genes); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return err
	}

	return appendRows(conn, "variant_qualities", func(a *goduckdb.Appender) error {
		for _, e := range res.Registry.Entries() {
			for _, label := range res.Matrix.Labels() {
				c, ok := res.Matrix.Value(e.Key, label)
				if !ok {
					continue
				}
				var q driver.Value
				if c.Valid {
					q = c.Quality
				}
				if err := a.AppendRow(int64(e.Index), label, q); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// appendRows runs fill with an appender on table and flushes it.
func appendRows(conn *sql.Conn, table string, fill func(*goduckdb.Appender) error) error {
	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", table)
		return err
	}); err != nil {
		return fmt.Errorf("create %s appender: %w", table, err)
	}
	defer appender.Close()

	if err := fill(appender); err != nil {
		return fmt.Errorf("append %s: %w", table, err)
	}
	return appender.Flush()
}

// fingerprint returns the size and modification time of path, or NULLs
// for inputs that cannot be stat'ed such as stdin.
func fingerprint(path string) (driver.Value, driver.Value) {
	info, err := os.Stat(path)
	if err != nil || path == "-" {
		return nil, nil
	}
	return info.Size(), info.ModTime()
}

// LookupVariant returns the stored variant with the given key, or nil if
// it is not in the table.
func (s *Store) LookupVariant(chrom string, pos int64, ref, alt string) (*StoredVariant, error) {
	sv := StoredVariant{Key: merge.Key{Chrom: chrom, Pos: pos, Ref: ref, Alt: alt}}
	err := s.db.QueryRow(`SELECT idx, id, genes FROM variants
		WHERE chrom=? AND pos=? AND ref=? AND alt=?`,
		chrom, pos, ref, alt).Scan(&sv.Index, &sv.ID, &sv.Genes)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query variant: %w", err)
	}

	rows, err := s.db.Query(`SELECT file_label, quality FROM variant_qualities WHERE idx=?`, sv.Index)
	if err != nil {
		return nil, fmt.Errorf("query qualities: %w", err)
	}
	defer rows.Close()

	sv.Qualities = make(map[string]sql.NullFloat64)
	for rows.Next() {
		var label string
		var q sql.NullFloat64
		if err := rows.Scan(&label, &q); err != nil {
			return nil, fmt.Errorf("scan quality: %w", err)
		}
		sv.Qualities[label] = q
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate qualities: %w", err)
	}
	return &sv, nil
}

// FileCounts returns the number of variants stored per file label.
func (s *Store) FileCounts() (map[string]int64, error) {
	rows, err := s.db.Query(`SELECT file_label, count(*) FROM variant_qualities GROUP BY file_label`)
	if err != nil {
		return nil, fmt.Errorf("query file counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var label string
		var n int64
		if err := rows.Scan(&label, &n); err != nil {
			return nil, fmt.Errorf("scan file count: %w", err)
		}
		counts[label] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate file counts: %w", err)
	}
	return counts, nil
}

// SharedCount returns the number of variants present in every source file.
func (s *Store) SharedCount() (int64, error) {
	var n int64
	err := s.db.QueryRow(`SELECT count(*) FROM (
		SELECT idx FROM variant_qualities GROUP BY idx
		HAVING count(*) = (SELECT count(*) FROM sources)
	)`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("query shared count: %w", err)
	}
	return n, nil
}
