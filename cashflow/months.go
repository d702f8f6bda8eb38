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

package cashflow

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// MonthOrder maps Italian month abbreviations to their number
var MonthOrder = map[string]int{
	"GEN": 1, "FEB": 2, "MAR": 3, "APR": 4, "MAG": 5, "GIU": 6,
	"LUG": 7, "AGO": 8, "SET": 9, "OTT": 10, "NOV": 11, "DIC": 12,
}

var monthNames = []string{"GEN", "FEB", "MAR", "APR", "MAG", "GIU", "LUG", "AGO", "SET", "OTT", "NOV", "DIC"}

// splitMonth returns the year and month number of a label such as "OTT/2026". Unknown parts are 0.
func splitMonth(label string) (year, month int) {
	name, yearStr, _ := strings.Cut(label, "/")
	year, _ = strconv.Atoi(strings.TrimSpace(yearStr))
	month = MonthOrder[strings.ToUpper(strings.TrimSpace(name))]
	return
}

// MonthName returns the abbreviation of the month of t, e.g. OTT
func MonthName(t time.Time) string {
	return monthNames[t.Month()-1]
}

// MonthLabel returns the sheet label of the month of t, e.g. OTT/2026
func MonthLabel(t time.Time) string {
	return fmt.Sprintf("%s/%d", MonthName(t), t.Year())
}

// SortMonths returns a copy of labels ordered by year then month
func SortMonths(labels []string) []string {
	res := append([]string{}, labels...)
	sort.SliceStable(res, func(i, j int) bool {
		yi, mi := splitMonth(res[i])
		yj, mj := splitMonth(res[j])
		if yi != yj {
			return yi < yj
		}
		return mi < mj
	})
	return res
}

// Years returns the distinct years of labels, most recent first
func Years(labels []string) []int {
	seen := make(map[int]bool)
	years := []int{}
	for _, label := range labels {
		year, _ := splitMonth(label)
		if !seen[year] {
			seen[year] = true
			years = append(years, year)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

// MonthsOfYear filters labels down to the given year
func MonthsOfYear(labels []string, year int) []string {
	res := []string{}
	for _, label := range labels {
		if y, _ := splitMonth(label); y == year {
			res = append(res, label)
		}
	}
	return res
}
