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

package portfolio

import (
	"math"
	"sort"
	"time"

	"github.com/penny-vault/pv-ledger/dataframe"
	"gonum.org/v1/gonum/stat"
)

// DrawDown is a single decline from a peak: Begin is the last date at the peak, End is the date of the
// lowest value and Recovery the first date back at or above the peak (zero if not yet recovered)
type DrawDown struct {
	Begin       time.Time
	End         time.Time
	Recovery    time.Time
	LossPercent float64
}

// RiskReport bundles the risk measures derived from a value series
type RiskReport struct {
	Returns           *dataframe.DataFrame
	RollingVolatility *dataframe.DataFrame
	Drawdown          *dataframe.DataFrame
	Volatility        float64
	MaxDrawdown       float64
	MaxDrawdownDate   time.Time
	DrawDowns         []*DrawDown
}

var annualizationFactor = math.Sqrt(TradingDays)

// Returns computes simple daily returns value[d]/value[d-1] - 1; the first date is dropped
func Returns(value *dataframe.DataFrame) *dataframe.DataFrame {
	returns := value.PctChange()
	returns.ColNames = []string{ReturnsColumn}
	return returns
}

// AnnualizedVolatility is the sample standard deviation of returns scaled by √252. It is NaN when there are
// fewer than two returns.
func AnnualizedVolatility(returns *dataframe.DataFrame) float64 {
	if returns.ColCount() == 0 || returns.Len() < 2 {
		return math.NaN()
	}
	return stat.StdDev(returns.Vals[0], nil) * annualizationFactor
}

// RollingVolatility computes the annualized volatility over a trailing window of returns. Dates without a
// full window are NaN.
func RollingVolatility(returns *dataframe.DataFrame, window int) *dataframe.DataFrame {
	vol := returns.RollingStdDev(window, annualizationFactor)
	vol.ColNames = []string{VolatilityCol}
	return vol
}

// Drawdown computes (value - running max) / running max for each date. The result is always <= 0 and is
// exactly 0 on dates where value is at its running maximum.
func Drawdown(value *dataframe.DataFrame) *dataframe.DataFrame {
	dd := value.Copy()
	dd.ColNames = []string{DrawdownColumn}
	if dd.ColCount() == 0 {
		return emptySeries(DrawdownColumn)
	}

	peak := value.CumMax().Vals[0]
	for idx, v := range dd.Vals[0] {
		if peak[idx] <= 0 || math.IsNaN(peak[idx]) {
			dd.Vals[0][idx] = 0
			continue
		}
		dd.Vals[0][idx] = (v - peak[idx]) / peak[idx]
	}
	return dd
}

// MaxDrawdown returns the minimum of a drawdown series and the first date it occurred on. An empty series
// yields NaN and the zero time.
func MaxDrawdown(dd *dataframe.DataFrame) (float64, time.Time) {
	if dd.ColCount() == 0 || dd.Len() == 0 {
		return math.NaN(), time.Time{}
	}

	minIdx := 0
	for idx, v := range dd.Vals[0] {
		if v < dd.Vals[0][minIdx] {
			minIdx = idx
		}
	}
	return dd.Vals[0][minIdx], dd.Dates[minIdx]
}

// AllDrawDowns lists every drawdown episode of the value series in chronological order. An episode that has
// not recovered by the end of the series is included with a zero Recovery date.
func AllDrawDowns(value *dataframe.DataFrame) []*DrawDown {
	allDrawDowns := []*DrawDown{}
	if value.ColCount() == 0 || value.Len() == 0 {
		return allDrawDowns
	}

	peak := value.Vals[0][0]
	peakDate := value.Dates[0]

	var drawDown *DrawDown
	for idx, v := range value.Vals[0] {
		date := value.Dates[idx]
		if v >= peak {
			if drawDown != nil {
				drawDown.Recovery = date
				allDrawDowns = append(allDrawDowns, drawDown)
				drawDown = nil
			}
			peak = v
			peakDate = date
			continue
		}

		loss := v/peak - 1.0
		if drawDown == nil {
			drawDown = &DrawDown{
				Begin:       peakDate,
				End:         date,
				LossPercent: loss,
			}
		}

		if loss < drawDown.LossPercent {
			drawDown.End = date
			drawDown.LossPercent = loss
		}
	}

	if drawDown != nil {
		allDrawDowns = append(allDrawDowns, drawDown)
	}

	return allDrawDowns
}

// TopDrawDowns returns the n largest drawdown episodes, largest loss first
func TopDrawDowns(value *dataframe.DataFrame, n int) []*DrawDown {
	allDrawDowns := AllDrawDowns(value)

	sort.SliceStable(allDrawDowns, func(i, j int) bool {
		return allDrawDowns[i].LossPercent < allDrawDowns[j].LossPercent
	})

	if n < len(allDrawDowns) {
		return allDrawDowns[:n]
	}
	return allDrawDowns
}

// Analyze computes every risk measure of the value series
func Analyze(value *dataframe.DataFrame, window int) *RiskReport {
	returns := Returns(value)
	dd := Drawdown(value)
	maxDD, maxDDDate := MaxDrawdown(dd)

	return &RiskReport{
		Returns:           returns,
		RollingVolatility: RollingVolatility(returns, window),
		Drawdown:          dd,
		Volatility:        AnnualizedVolatility(returns),
		MaxDrawdown:       maxDD,
		MaxDrawdownDate:   maxDDDate,
		DrawDowns:         AllDrawDowns(value),
	}
}
