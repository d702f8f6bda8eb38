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

	"github.com/go-co-op/gocron"
	"github.com/penny-vault/pv-ledger/common"
	"github.com/penny-vault/pv-ledger/data"
	"github.com/penny-vault/pv-ledger/symbols"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var refreshSchedule bool

func init() {
	bind("refresh.schedule", "PVLEDGER_REFRESH_SCHEDULE")
	refreshCmd.Flags().BoolVar(&refreshSchedule, "schedule", false, "Keep running and refresh on the refresh.schedule cron expression (hourly when unset)")
	rootCmd.AddCommand(refreshCmd)
}

// refreshPrices downloads prices of every ledger symbol into the cache
func refreshPrices() {
	ctx := context.Background()
	wb := openWorkbook()
	l := loadLedger(wb)
	if l.Len() == 0 {
		return
	}

	providerSymbols := symbols.ToProviderAll(l.Symbols())
	if err := data.GetManagerInstance().Refresh(ctx, providerSymbols, l.FirstDate()); err != nil {
		log.Error().Err(err).Strs("Symbols", providerSymbols).Msg("price refresh failed")
	}
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Download prices of every ledger symbol into the cache",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if !refreshSchedule {
			refreshPrices()
			return
		}

		scheduler := gocron.NewScheduler(common.GetTimezone())
		if expr := viper.GetString("refresh.schedule"); expr != "" {
			scheduler.Cron(expr)
		} else {
			scheduler.Every(1).Hours()
		}

		if _, err := scheduler.Do(refreshPrices); err != nil {
			log.Fatal().Err(err).Msg("could not schedule price refresh")
		}

		log.Info().Str("Schedule", viper.GetString("refresh.schedule")).Msg("starting price refresh scheduler")
		scheduler.StartBlocking()
	},
}
