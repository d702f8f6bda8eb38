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

package dataframe

import (
	"math"
	"time"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

func nanSlice(n int) []float64 {
	res := make([]float64, n)
	for idx := range res {
		res[idx] = math.NaN()
	}
	return res
}

// AddScalar adds the scalar value to all columns in dataframe df and returns a new dataframe
func (df *DataFrame) AddScalar(scalar float64) *DataFrame {
	df = df.Copy()

	for colIdx := range df.ColNames {
		for rowIdx := range df.Vals[colIdx] {
			df.Vals[colIdx][rowIdx] += scalar
		}
	}
	return df
}

// CumMax computes the running maximum of each column from the first row to the last and returns a new dataframe.
// NaN values do not reset or update the running maximum
func (df *DataFrame) CumMax() *DataFrame {
	df = df.Copy()

	for _, col := range df.Vals {
		running := math.NaN()
		for rowIdx, v := range col {
			if !math.IsNaN(v) && (math.IsNaN(running) || v > running) {
				running = v
			}
			col[rowIdx] = running
		}
	}
	return df
}

// Div divides all columns in `df` by the corresponding column in `other` and returns a new dataframe.
// Panics if rows are not equal.
func (df *DataFrame) Div(other *DataFrame) *DataFrame {
	df = df.Copy()

	otherMap := make(map[string]int, len(other.ColNames))
	for idx, val := range other.ColNames {
		otherMap[val] = idx
	}

	for idx, colName := range df.ColNames {
		if otherIdx, ok := otherMap[colName]; ok {
			floats.Div(df.Vals[idx], other.Vals[otherIdx])
		}
	}
	return df
}

// Mul multiplies all columns in dataframe df by the corresponding column in dataframe other and returns a new dataframe.
// Columns in df that are not in other are set to NaN. Panics if rows are not equal.
func (df *DataFrame) Mul(other *DataFrame) *DataFrame {
	df = df.Copy()

	otherMap := make(map[string]int, len(other.ColNames))
	for idx, val := range other.ColNames {
		otherMap[val] = idx
	}

	for idx, colName := range df.ColNames {
		if otherIdx, ok := otherMap[colName]; ok {
			floats.Mul(df.Vals[idx], other.Vals[otherIdx])
		} else {
			df.Vals[idx] = nanSlice(df.Len())
		}
	}
	return df
}

// MulScalar multiplies all columns in dataframe df by the scalar and returns a new dataframe
func (df *DataFrame) MulScalar(scalar float64) *DataFrame {
	df = df.Copy()

	for colIdx := range df.ColNames {
		floats.Scale(scalar, df.Vals[colIdx])
	}
	return df
}

// PctChange computes the simple period over period change, x[t]/x[t-1] - 1, of each column. The first row
// has no prior value and is dropped from the result.
func (df *DataFrame) PctChange() *DataFrame {
	if df.Len() < 2 {
		return &DataFrame{
			Dates:    []time.Time{},
			ColNames: append([]string{}, df.ColNames...),
			Vals:     make([][]float64, len(df.ColNames)),
		}
	}

	res := &DataFrame{
		Dates:    append([]time.Time{}, df.Dates[1:]...),
		ColNames: append([]string{}, df.ColNames...),
		Vals:     make([][]float64, len(df.ColNames)),
	}

	for colIdx, col := range df.Vals {
		res.Vals[colIdx] = make([]float64, len(col)-1)
		for rowIdx := 1; rowIdx < len(col); rowIdx++ {
			res.Vals[colIdx][rowIdx-1] = col[rowIdx]/col[rowIdx-1] - 1.0
		}
	}

	return res
}

// RollingStdDev computes the sample standard deviation of each column over a trailing window of `window` rows
// and multiplies it by scalar. The first window-1 rows are NaN. Invalid windows result in a dataframe of all NaN.
func (df *DataFrame) RollingStdDev(window int, scalar float64) *DataFrame {
	res := &DataFrame{
		Dates:    df.Dates,
		ColNames: df.ColNames,
		Vals:     make([][]float64, df.ColCount()),
	}

	for colIdx := range res.Vals {
		res.Vals[colIdx] = nanSlice(df.Len())
	}

	// a sample standard deviation needs at least two observations
	if window < 2 {
		log.Error().Int("Window", window).Int("NRows", df.Len()).Msg("window must be >= 2")
		return res
	}

	for colIdx, col := range df.Vals {
		for rowIdx := window - 1; rowIdx < len(col); rowIdx++ {
			res.Vals[colIdx][rowIdx] = stat.StdDev(col[rowIdx-window+1:rowIdx+1], nil) * scalar
		}
	}

	return res
}
