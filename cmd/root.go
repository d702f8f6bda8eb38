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
	"fmt"
	"os"

	"github.com/penny-vault/pv-ledger/common"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func bind(key, env string) {
	if err := viper.BindEnv(key, env); err != nil {
		log.Panic().Err(err).Str("Key", key).Msg("could not bind env")
	}
}

func bindFlag(key, flag string) {
	if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		log.Panic().Err(err).Str("Key", key).Msg("could not bind flag")
	}
}

func init() {
	// Workbook
	bind("workbook.path", "PVLEDGER_WORKBOOK")
	rootCmd.PersistentFlags().StringP("workbook", "w", "", "Path of the ledger workbook (xlsx)")
	bindFlag("workbook.path", "workbook")

	viper.SetDefault("workbook.holding_sheet", "Holding")
	viper.SetDefault("workbook.cashflow_sheet", "IN-OUT")
	viper.SetDefault("workbook.config_sheet", "appconfig")

	bind("categories.file", "PVLEDGER_CATEGORIES")
	rootCmd.PersistentFlags().String("categories", "", "TOML file with cash-flow categories; overrides the appconfig sheet")
	bindFlag("categories.file", "categories")

	// Market data
	bind("provider.base_url", "PVLEDGER_PROVIDER_URL")
	bind("provider.timeout", "PVLEDGER_PROVIDER_TIMEOUT")

	// Cache
	bind("cache.redis_url", "REDIS_URL")
	rootCmd.PersistentFlags().String("redis-url", "", "Share the price cache through redis at the given URL")
	bindFlag("cache.redis_url", "redis-url")

	bind("cache.ttl", "PVLEDGER_CACHE_TTL")
	rootCmd.PersistentFlags().Int("cache-ttl", common.DefaultCacheTTL, "Seconds downloaded prices stay cached")
	bindFlag("cache.ttl", "cache-ttl")

	// Analytics
	viper.SetDefault("analytics.window", 30)
	viper.SetDefault("analytics.timezone", common.DefaultTimezone)
	bind("analytics.timezone", "PVLEDGER_TIMEZONE")

	// Logging configuration
	bind("log.level", "PVLEDGER_LOG_LEVEL")
	rootCmd.PersistentFlags().String("log-level", "warn", "Logging level")
	bindFlag("log.level", "log-level")

	bind("log.report_caller", "PVLEDGER_LOG_REPORT_CALLER")
	rootCmd.PersistentFlags().Bool("log-report-caller", false, "Log function name that called log statement")
	bindFlag("log.report_caller", "log-report-caller")

	bind("log.output", "PVLEDGER_LOG_OUTPUT")
	rootCmd.PersistentFlags().String("log-output", "stderr", "Write logs to specified output one of: file path, `stdout`, or `stderr`")
	bindFlag("log.output", "log-output")

	bind("log.pretty", "PVLEDGER_LOG_PRETTY")
	rootCmd.PersistentFlags().Bool("log-pretty", true, "Write human readable logs")
	bindFlag("log.pretty", "log-pretty")
}

var rootCmd = &cobra.Command{
	Use:     "pvledger",
	Version: common.CurrentVersion.String(),
	Short:   "pvledger analyzes a spreadsheet backed investment ledger",
	Long: `Reconstruct the daily value, cost basis and risk of a portfolio kept as a
ledger of purchases in a workbook, and summarize the monthly cash flow.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()
		if cmd.Name() == "version" {
			return
		}
		if err := common.SetupCache(); err != nil {
			log.Fatal().Err(err).Msg("could not setup cache")
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
