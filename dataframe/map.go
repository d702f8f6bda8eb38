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
	"sort"
	"time"
)

// Merge combines every dataframe in the map into a single dataframe indexed by the union of all dates. Columns
// are ordered by map key and then by column order of each dataframe. Dates missing from a member are filled
// with NaN; no value is carried across dates here, use ForwardFill for that.
func (dfMap Map) Merge() *DataFrame {
	keys := make([]string, 0, len(dfMap))
	for k := range dfMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	// dates are keyed by unix time so that equal instants in different *time.Location values match
	dateSet := make(map[int64]time.Time)
	for _, df := range dfMap {
		for _, dt := range df.Dates {
			if _, ok := dateSet[dt.Unix()]; !ok {
				dateSet[dt.Unix()] = dt
			}
		}
	}

	dates := make([]time.Time, 0, len(dateSet))
	for _, dt := range dateSet {
		dates = append(dates, dt)
	}
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})

	rowMap := make(map[int64]int, len(dates))
	for idx, dt := range dates {
		rowMap[dt.Unix()] = idx
	}

	merged := &DataFrame{
		Dates:    dates,
		ColNames: []string{},
		Vals:     [][]float64{},
	}

	for _, k := range keys {
		df := dfMap[k]
		for colIdx, colName := range df.ColNames {
			vals := nanSlice(len(dates))
			for rowIdx, dt := range df.Dates {
				vals[rowMap[dt.Unix()]] = df.Vals[colIdx][rowIdx]
			}
			merged.ColNames = append(merged.ColNames, colName)
			merged.Vals = append(merged.Vals, vals)
		}
	}

	return merged
}

// Union returns a new dataframe whose index is the union of the dataframe dates and dates. Rows that only
// exist in dates are NaN.
func (df *DataFrame) Union(dates []time.Time) *DataFrame {
	extra := &DataFrame{Dates: dates, ColNames: []string{}, Vals: [][]float64{}}
	merged := Map{"0": df, "1": extra}.Merge()
	return merged
}
