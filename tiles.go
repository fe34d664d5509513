package main

import (
	"bytes"
	"compress/gzip"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/mattn/go-sqlite3" // sqlite driver for MBTiles
	"github.com/pdok/vtcomposite/processing"
	"github.com/pdok/vtcomposite/tilematrix"
)

// mbtilesSource reads tiles from an MBTiles file, rows are in TMS order
type mbtilesSource struct {
	db   *sql.DB
	stmt *sql.Stmt
}

func openMBTiles(file string) (*mbtilesSource, error) {
	if _, err := os.Stat(file); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", file))
	if err != nil {
		return nil, err
	}
	stmt, err := db.Prepare("SELECT tile_data FROM tiles WHERE zoom_level = ? AND tile_column = ? AND tile_row = ?")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("not an MBTiles file %s: %w", file, err)
	}
	return &mbtilesSource{db: db, stmt: stmt}, nil
}

func (s *mbtilesSource) ReadTile(ctx context.Context, c tilematrix.Coordinate) ([]byte, error) {
	row := tilematrix.MatrixSize(c.Z) - 1 - c.Y // XYZ -> TMS
	var data []byte
	if err := s.stmt.QueryRowContext(ctx, c.Z, c.X, row).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, processing.ErrTileNotFound
		}
		return nil, err
	}
	return decompress(data)
}

func (s *mbtilesSource) Close() error {
	return errors.Join(s.stmt.Close(), s.db.Close())
}

// xyzTiles reads and writes tiles as files, the path pattern contains {z}, {x} and {y}
type xyzTiles struct {
	pattern string
}

func newXYZTiles(pattern string) (*xyzTiles, error) {
	for _, p := range []string{"{z}", "{x}", "{y}"} {
		if !strings.Contains(pattern, p) {
			return nil, fmt.Errorf("path pattern %q is missing %s", pattern, p)
		}
	}
	return &xyzTiles{pattern: pattern}, nil
}

func (t *xyzTiles) path(c tilematrix.Coordinate) string {
	return strings.NewReplacer(
		"{z}", strconv.FormatUint(uint64(c.Z), 10),
		"{x}", strconv.FormatUint(uint64(c.X), 10),
		"{y}", strconv.FormatUint(uint64(c.Y), 10),
	).Replace(t.pattern)
}

func (t *xyzTiles) ReadTile(_ context.Context, c tilematrix.Coordinate) ([]byte, error) {
	data, err := os.ReadFile(t.path(c))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, processing.ErrTileNotFound
		}
		return nil, err
	}
	return decompress(data)
}

func (t *xyzTiles) WriteTile(_ context.Context, c tilematrix.Coordinate, raw []byte) error {
	p := t.path(c)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p, raw, 0o644) //nolint:gosec
}

var gzipMagic = []byte{0x1f, 0x8b}

// decompress unzips gzipped tiles and returns others as is
func decompress(data []byte) ([]byte, error) {
	if !bytes.HasPrefix(data, gzipMagic) {
		return data, nil
	}
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}
	return out, nil
}
