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

package data

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"github.com/penny-vault/pv-ledger/common"
	"github.com/penny-vault/pv-ledger/dataframe"
	"github.com/rs/zerolog/log"
)

const (
	YahooName        = "yahoo"
	DefaultYahooAPI  = "https://query1.finance.yahoo.com"
	DefaultTimeout   = 10 * time.Second
	yahooUserAgent   = "Mozilla/5.0 (compatible; pvledger)"
	yahooChartFormat = "%s/v8/finance/chart/%s"
)

// Yahoo downloads daily closes from the Yahoo Finance chart API
type Yahoo struct {
	BaseURL string
	Client  *http.Client
	Now     func() time.Time
}

type yahooChartResponse struct {
	Chart struct {
		Result []*yahooChartResult `json:"result"`
		Error  *yahooChartError    `json:"error"`
	} `json:"chart"`
}

type yahooChartResult struct {
	Meta struct {
		Symbol   string `json:"symbol"`
		Currency string `json:"currency"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}

type yahooChartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// NewYahoo creates a Yahoo provider; an empty baseURL uses the public API
func NewYahoo(baseURL string, timeout time.Duration) *Yahoo {
	if baseURL == "" {
		baseURL = DefaultYahooAPI
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Yahoo{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
		Now:     time.Now,
	}
}

func (y *Yahoo) Name() string {
	return YahooName
}

// Close downloads the daily closes of every symbol from start until now and merges them on the union of
// their dates. Symbols Yahoo does not know are logged and omitted; any other failure aborts the request.
func (y *Yahoo) Close(ctx context.Context, symbols []string, start time.Time) (*dataframe.DataFrame, error) {
	end := y.Now()
	if !start.Before(end) {
		return nil, ErrInvalidTimeRange
	}

	tz := common.GetTimezone()
	dfMap := dataframe.Map{}
	for _, symbol := range symbols {
		df, err := y.chart(ctx, symbol, start, end, tz)
		if err != nil {
			return nil, err
		}
		if df == nil {
			continue
		}
		dfMap[symbol] = df
	}

	if len(dfMap) == 0 {
		return &dataframe.DataFrame{Dates: []time.Time{}, ColNames: []string{}, Vals: [][]float64{}}, nil
	}

	return dfMap.Merge(), nil
}

// chart fetches a single symbol; a nil dataframe means the symbol has no data
func (y *Yahoo) chart(ctx context.Context, symbol string, start, end time.Time, tz *time.Location) (*dataframe.DataFrame, error) {
	subLog := log.With().Str("Symbol", symbol).Time("Start", start).Time("End", end).Logger()

	query := url.Values{}
	query.Set("period1", fmt.Sprintf("%d", start.Unix()))
	query.Set("period2", fmt.Sprintf("%d", end.Unix()))
	query.Set("interval", "1d")
	query.Set("events", "history")
	reqURL := fmt.Sprintf(yahooChartFormat, y.BaseURL, url.PathEscape(symbol)) + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		subLog.Error().Err(err).Msg("could not build yahoo request")
		return nil, err
	}
	req.Header.Set("User-Agent", yahooUserAgent)

	resp, err := y.Client.Do(req)
	if err != nil {
		subLog.Error().Err(err).Msg("yahoo http request failed")
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		subLog.Error().Err(err).Msg("could not read yahoo body")
		return nil, err
	}

	if resp.StatusCode == http.StatusNotFound {
		subLog.Warn().Int("HTTPResponseStatusCode", resp.StatusCode).Msg("symbol not found; omitting")
		return nil, nil
	}

	if resp.StatusCode >= 400 {
		subLog.Error().Int("HTTPResponseStatusCode", resp.StatusCode).Msg("yahoo returned invalid response code")
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatusCode, resp.StatusCode)
	}

	chartResp := yahooChartResponse{}
	if err := json.Unmarshal(body, &chartResp); err != nil {
		subLog.Error().Err(err).Bytes("Body", body).Msg("could not unmarshal json")
		return nil, err
	}

	if chartResp.Chart.Error != nil {
		subLog.Warn().Str("Code", chartResp.Chart.Error.Code).Str("Description", chartResp.Chart.Error.Description).Msg("yahoo reported an error; omitting symbol")
		return nil, nil
	}

	if len(chartResp.Chart.Result) == 0 || len(chartResp.Chart.Result[0].Indicators.Quote) == 0 {
		subLog.Warn().Err(ErrNoData).Msg("omitting symbol")
		return nil, nil
	}

	return chartToDataFrame(symbol, chartResp.Chart.Result[0], tz), nil
}

// chartToDataFrame aligns each close to midnight of its calendar day in tz. When a day has more than one
// observation the last one wins.
func chartToDataFrame(symbol string, result *yahooChartResult, tz *time.Location) *dataframe.DataFrame {
	closes := result.Indicators.Quote[0].Close
	df := &dataframe.DataFrame{
		Dates:    []time.Time{},
		ColNames: []string{symbol},
		Vals:     [][]float64{{}},
	}

	for idx, ts := range result.Timestamp {
		val := math.NaN()
		if idx < len(closes) && closes[idx] != nil {
			val = *closes[idx]
		}

		day := common.Midnight(time.Unix(ts, 0), tz)
		last := df.Len() - 1
		if last >= 0 && df.Dates[last].Equal(day) {
			if !math.IsNaN(val) {
				df.Vals[0][last] = val
			}
			continue
		}
		if last >= 0 && day.Before(df.Dates[last]) {
			continue
		}
		df.InsertRow(day, val)
	}

	return df
}
