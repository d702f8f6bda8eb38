// Copyright 2021-2022
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package sheet reads and appends to the ledger workbook stored as an xlsx
// file.
package sheet

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/penny-vault/pv-ledger/ledger"
	"github.com/rs/zerolog/log"
	"github.com/tealeg/xlsx/v3"
)

var (
	ErrSheetNotFound  = errors.New("worksheet not found")
	ErrColumnNotFound = errors.New("column not found in header row")
	ErrInvalidRow     = errors.New("row must be greater than zero")
)

// Workbook is an xlsx file opened for reading and appending rows
type Workbook struct {
	path string
	file *xlsx.File
	lock sync.Mutex
}

// Open loads the workbook at path
func Open(path string) (*Workbook, error) {
	file, err := xlsx.OpenFile(path)
	if err != nil {
		log.Error().Err(err).Str("Path", path).Msg("could not open workbook")
		return nil, err
	}

	return &Workbook{
		path: path,
		file: file,
	}, nil
}

// Path returns the file the workbook was loaded from
func (wb *Workbook) Path() string {
	return wb.path
}

func (wb *Workbook) sheet(name string) (*xlsx.Sheet, error) {
	sh, ok := wb.file.Sheet[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, name)
	}
	return sh, nil
}

// cellText renders a cell the way the ledger expects to read it: dates as dd/mm/yyyy and numbers with ','
// as decimal separator
func cellText(cell *xlsx.Cell) string {
	if cell.Type() != xlsx.CellTypeNumeric {
		return cell.Value
	}

	if cell.IsTime() {
		if t, err := cell.GetTime(false); err == nil {
			return t.Format(ledger.DateFormat)
		}
	}

	return strings.Replace(cell.Value, ".", ",", 1)
}

// Rows returns the text of every cell of the named sheet, one slice per row
func (wb *Workbook) Rows(name string) ([][]string, error) {
	wb.lock.Lock()
	defer wb.lock.Unlock()

	sh, err := wb.sheet(name)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, sh.MaxRow)
	for r := 0; r < sh.MaxRow; r++ {
		rows[r] = make([]string, sh.MaxCol)
		for c := 0; c < sh.MaxCol; c++ {
			cell, err := sh.Cell(r, c)
			if err != nil {
				return nil, err
			}
			rows[r][c] = cellText(cell)
		}
	}

	return rows, nil
}

// Column returns the text of the 1-based column col of the named sheet starting at row 1
func (wb *Workbook) Column(name string, col int) ([]string, error) {
	rows, err := wb.Rows(name)
	if err != nil {
		return nil, err
	}

	res := make([]string, len(rows))
	for idx, row := range rows {
		if col-1 < len(row) {
			res[idx] = row[col-1]
		}
	}
	return res, nil
}

// WriteCells sets the cells of the 1-based row, keyed by 1-based column, and saves the workbook
func (wb *Workbook) WriteCells(name string, row int, cells map[int]string) error {
	if row <= 0 {
		return ErrInvalidRow
	}

	wb.lock.Lock()
	defer wb.lock.Unlock()

	sh, err := wb.sheet(name)
	if err != nil {
		return err
	}

	for col, val := range cells {
		cell, err := sh.Cell(row-1, col-1)
		if err != nil {
			return err
		}
		cell.SetString(val)
	}

	log.Debug().Str("Sheet", name).Int("Row", row).Int("NumCells", len(cells)).Msg("writing cells")
	if err := wb.file.Save(wb.path); err != nil {
		return err
	}

	// the in-memory sheet keeps its old MaxRow/MaxCol after cells past the used range are created, reload
	// so the written cells are visible to Rows
	file, err := xlsx.OpenFile(wb.path)
	if err != nil {
		log.Error().Err(err).Str("Path", wb.path).Msg("could not reload workbook")
		return err
	}
	wb.file = file
	return nil
}

// AppendRow writes values, keyed by column name, to the next empty row below headerRow. The next row is
// derived from the number of non-empty cells of refColumn. It returns the 1-based row written.
func (wb *Workbook) AppendRow(name string, headerRow int, refColumn string, values map[string]string) (int, error) {
	rows, err := wb.Rows(name)
	if err != nil {
		return 0, err
	}

	if headerRow <= 0 || headerRow > len(rows) {
		return 0, fmt.Errorf("%w: header row %d", ErrInvalidRow, headerRow)
	}

	columns := map[string]int{}
	for idx, colName := range rows[headerRow-1] {
		colName = strings.TrimSpace(colName)
		if _, ok := columns[colName]; !ok && colName != "" {
			columns[colName] = idx + 1
		}
	}

	refIdx, ok := columns[refColumn]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrColumnNotFound, refColumn)
	}

	cells := make(map[int]string, len(values))
	for colName, val := range values {
		idx, ok := columns[colName]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrColumnNotFound, colName)
		}
		cells[idx] = val
	}

	refValues := make([]string, len(rows))
	for r, row := range rows {
		refValues[r] = row[refIdx-1]
	}
	next := ledger.NextEmptyRow(refValues, headerRow)

	if err := wb.WriteCells(name, next, cells); err != nil {
		return 0, err
	}

	log.Info().Str("Sheet", name).Int("Row", next).Msg("appended row")
	return next, nil
}
