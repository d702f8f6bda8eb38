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

package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/penny-vault/pv-ledger/cashflow"
	"github.com/penny-vault/pv-ledger/common"
	"github.com/penny-vault/pv-ledger/data"
	"github.com/penny-vault/pv-ledger/dataframe"
	"github.com/penny-vault/pv-ledger/ledger"
	"github.com/penny-vault/pv-ledger/portfolio"
	"github.com/penny-vault/pv-ledger/sheet"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// openWorkbook loads the workbook configured in `workbook.path`; the program exits when it cannot be read
func openWorkbook() *sheet.Workbook {
	path := viper.GetString("workbook.path")
	if path == "" {
		log.Fatal().Msg("no workbook configured; set workbook.path or pass --workbook")
	}

	wb, err := sheet.Open(path)
	if err != nil {
		log.Fatal().Err(err).Str("Path", path).Msg("could not open workbook")
	}
	return wb
}

// loadLedger reads and normalizes the Holding sheet
func loadLedger(wb *sheet.Workbook) *ledger.Ledger {
	holdingSheet := viper.GetString("workbook.holding_sheet")
	l, err := ledger.Load(wb.Source(holdingSheet), common.GetTimezone())
	if err != nil {
		log.Fatal().Err(err).Str("Sheet", holdingSheet).Msg("could not load ledger")
	}
	if l.Len() == 0 {
		log.Warn().Str("Sheet", holdingSheet).Msg("ledger has no transactions")
	}
	return l
}

// loadCategoryConfig reads the categories from `categories.file` when set and from the config sheet otherwise
func loadCategoryConfig(wb *sheet.Workbook) *cashflow.CategoryConfig {
	if path := viper.GetString("categories.file"); path != "" {
		cfg, err := cashflow.LoadConfigFile(path)
		if err != nil {
			log.Fatal().Err(err).Str("Path", path).Msg("could not load category file")
		}
		return cfg
	}

	configSheet := viper.GetString("workbook.config_sheet")
	records, err := wb.Rows(configSheet)
	if err != nil {
		log.Fatal().Err(err).Str("Sheet", configSheet).Msg("could not read category config")
	}

	cfg, err := cashflow.ConfigFromRecords(records)
	if err != nil {
		log.Fatal().Err(err).Str("Sheet", configSheet).Msg("invalid category config")
	}
	return cfg
}

// portfolioValue computes the daily value of the ledger. The result is memoized by ledger content and day so
// that repeated commands do not rebuild it.
func portfolioValue(ctx context.Context, l *ledger.Ledger) *dataframe.DataFrame {
	key := common.CacheKey("value", l.Hash(), time.Now().In(common.GetTimezone()).Format("2006-01-02"))
	if raw, err := common.CacheGet(key); err == nil {
		if value, err := data.DecodeFrame(raw); err == nil {
			return value
		}
	} else if !errors.Is(err, common.ErrCacheMiss) {
		log.Warn().Err(err).Msg("cache lookup failed")
	}

	value := portfolio.PortfolioValue(ctx, data.GetManagerInstance(), l)
	if value.Len() == 0 {
		return value
	}

	if raw, err := data.EncodeFrame(value); err == nil {
		if err := common.CacheSet(key, raw); err != nil {
			log.Warn().Err(err).Msg("could not cache portfolio value")
		}
	}
	return value
}

func newTable(header ...string) (*tablewriter.Table, *strings.Builder) {
	s := &strings.Builder{}
	table := tablewriter.NewWriter(s)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	return table, s
}

func percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

func money(v float64) string {
	return fmt.Sprintf("€ %.2f", v)
}
