// Cinechat - Conversational Movie Recommendation Service
// Copyright 2026 Cinechat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinechat/cinechat

package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// LoadRows reads the movie catalog CSV: one record per movie with at least
// two fields, raw title and pipe-delimited genre list. A missing or
// malformed file is a fatal startup condition for the caller.
func LoadRows(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse catalog file %s: %w", path, err)
	}

	rows := make([]Row, 0, len(records))
	for i, rec := range records {
		if len(rec) < 2 {
			return nil, fmt.Errorf("catalog file %s: record %d has %d fields, want 2", path, i+1, len(rec))
		}
		rows = append(rows, Row{Title: rec[0], Genres: rec[1]})
	}
	return rows, nil
}

// LoadRatings reads the dense ratings matrix CSV: one record per movie,
// one numeric field per historical user. Every row must have the same
// width, and the row count must match the catalog size.
func LoadRatings(path string, wantMovies int) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ratings file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse ratings file %s: %w", path, err)
	}

	if len(records) != wantMovies {
		return nil, fmt.Errorf("ratings file %s: %d rows, catalog has %d movies", path, len(records), wantMovies)
	}

	matrix := make([][]float64, len(records))
	width := -1
	for i, rec := range records {
		if width == -1 {
			width = len(rec)
		} else if len(rec) != width {
			return nil, fmt.Errorf("ratings file %s: row %d has %d columns, want %d", path, i+1, len(rec), width)
		}
		row := make([]float64, len(rec))
		for j, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("ratings file %s: row %d column %d: %w", path, i+1, j+1, err)
			}
			row[j] = v
		}
		matrix[i] = row
	}
	return matrix, nil
}
