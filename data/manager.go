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
	"errors"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/penny-vault/pv-ledger/common"
	"github.com/penny-vault/pv-ledger/dataframe"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Manager memoizes price downloads of a provider in the process cache
type Manager struct {
	provider Provider
}

// cachedFrame is the serialized form of a dataframe; NaN is stored as null
type cachedFrame struct {
	Dates    []time.Time  `json:"dates"`
	ColNames []string     `json:"columns"`
	Vals     [][]*float64 `json:"vals"`
}

var (
	managerOnce     sync.Once
	managerInstance *Manager
)

func init() {
	viper.SetDefault("provider.base_url", DefaultYahooAPI)
	viper.SetDefault("provider.timeout", DefaultTimeout)
}

// NewManager creates a manager in front of provider
func NewManager(provider Provider) *Manager {
	return &Manager{
		provider: provider,
	}
}

// GetManagerInstance returns the process wide manager backed by the Yahoo provider configured through
// `provider.base_url` and `provider.timeout`
func GetManagerInstance() *Manager {
	managerOnce.Do(func() {
		yahoo := NewYahoo(viper.GetString("provider.base_url"), viper.GetDuration("provider.timeout"))
		managerInstance = NewManager(yahoo)
	})
	return managerInstance
}

func (manager *Manager) cacheKey(symbols []string, start time.Time) string {
	sorted := append([]string{}, symbols...)
	sort.Strings(sorted)
	parts := append([]string{manager.provider.Name(), start.Format("2006-01-02")}, sorted...)
	return common.CacheKey(parts...)
}

// Close returns daily closes of symbols from start. Results are served from the cache when present; a
// failed download is never cached.
func (manager *Manager) Close(ctx context.Context, symbols []string, start time.Time) (*dataframe.DataFrame, error) {
	subLog := log.With().Str("Provider", manager.provider.Name()).Strs("Symbols", symbols).Time("Start", start).Logger()
	key := manager.cacheKey(symbols, start)

	if raw, err := common.CacheGet(key); err == nil {
		df, decodeErr := DecodeFrame(raw)
		if decodeErr == nil {
			subLog.Debug().Msg("prices served from cache")
			return df, nil
		}
		subLog.Warn().Err(decodeErr).Msg("could not decode cached prices; downloading")
	} else if !errors.Is(err, common.ErrCacheMiss) {
		subLog.Warn().Err(err).Msg("cache lookup failed")
	}

	df, err := manager.provider.Close(ctx, symbols, start)
	if err != nil {
		subLog.Error().Err(err).Msg("could not download prices")
		return nil, err
	}

	if df.Len() == 0 {
		subLog.Warn().Err(ErrNoData).Msg("provider returned no prices")
		return df, nil
	}

	raw, err := EncodeFrame(df)
	if err != nil {
		subLog.Error().Err(err).Msg("could not encode prices for cache")
		return df, nil
	}

	if err := common.CacheSet(key, raw); err != nil {
		subLog.Warn().Err(err).Msg("could not cache prices")
	}

	return df, nil
}

// Refresh re-downloads prices for symbols and replaces the cached copy
func (manager *Manager) Refresh(ctx context.Context, symbols []string, start time.Time) error {
	df, err := manager.provider.Close(ctx, symbols, start)
	if err != nil {
		return err
	}

	if df.Len() == 0 {
		log.Warn().Strs("Symbols", symbols).Msg("provider returned no prices; keeping cached copy")
		return ErrNoData
	}

	raw, err := EncodeFrame(df)
	if err != nil {
		return err
	}

	log.Info().Strs("Symbols", symbols).Int("NumDays", df.Len()).Msg("refreshed prices")
	return common.CacheSet(manager.cacheKey(symbols, start), raw)
}

// EncodeFrame serializes df for the cache; NaN values become null
func EncodeFrame(df *dataframe.DataFrame) ([]byte, error) {
	cf := cachedFrame{
		Dates:    df.Dates,
		ColNames: df.ColNames,
		Vals:     make([][]*float64, len(df.Vals)),
	}

	for colIdx, col := range df.Vals {
		cf.Vals[colIdx] = make([]*float64, len(col))
		for rowIdx := range col {
			if !math.IsNaN(col[rowIdx]) {
				cf.Vals[colIdx][rowIdx] = &col[rowIdx]
			}
		}
	}

	return json.Marshal(cf)
}

// DecodeFrame is the inverse of EncodeFrame. Dates are returned in the configured timezone.
func DecodeFrame(raw []byte) (*dataframe.DataFrame, error) {
	cf := cachedFrame{}
	if err := json.Unmarshal(raw, &cf); err != nil {
		return nil, err
	}

	tz := common.GetTimezone()
	df := &dataframe.DataFrame{
		Dates:    make([]time.Time, len(cf.Dates)),
		ColNames: cf.ColNames,
		Vals:     make([][]float64, len(cf.Vals)),
	}

	for idx, dt := range cf.Dates {
		df.Dates[idx] = dt.In(tz)
	}

	for colIdx, col := range cf.Vals {
		df.Vals[colIdx] = make([]float64, len(col))
		for rowIdx, v := range col {
			if v == nil {
				df.Vals[colIdx][rowIdx] = math.NaN()
				continue
			}
			df.Vals[colIdx][rowIdx] = *v
		}
	}

	return df, nil
}
