// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/challenge-registry/ledger"
	"github.com/vechain/challenge-registry/log"
)

func envVar(name string) string {
	return "REGISTRY_" + name
}

var (
	configFlag = cli.StringFlag{
		Name:   "config",
		Usage:  "path to a YAML file with flag defaults",
		EnvVar: envVar("CONFIG"),
	}
	dataDirFlag = cli.StringFlag{
		Name:   "data-dir",
		Value:  defaultDataDir(),
		Usage:  "directory for the record database",
		EnvVar: envVar("DATA_DIR"),
	}
	inMemoryFlag = cli.BoolFlag{
		Name:   "in-memory",
		Usage:  "keep records in memory only",
		EnvVar: envVar("IN_MEMORY"),
	}
	cacheFlag = cli.IntFlag{
		Name:   "cache",
		Value:  4096,
		Usage:  "number of records kept in the read cache",
		EnvVar: envVar("CACHE"),
	}
	programIDFlag = cli.StringFlag{
		Name:   "program-id",
		Value:  ledger.DefaultProgramID.String(),
		Usage:  "program id records are derived under",
		EnvVar: envVar("PROGRAM_ID"),
	}
	claimThresholdFlag = cli.StringFlag{
		Name:   "claim-threshold",
		Value:  "enforced",
		Usage:  "required stake check on claim (enforced|advisory)",
		EnvVar: envVar("CLAIM_THRESHOLD"),
	}

	issuerFlag = cli.StringFlag{
		Name:   "issuer",
		Value:  "memory",
		Usage:  "reward issuer backend (memory|solana)",
		EnvVar: envVar("ISSUER"),
	}
	memoryMintSupplyFlag = cli.Uint64Flag{
		Name:   "memory-mint-supply",
		Value:  1,
		Usage:  "supply cap of each reward token with the memory issuer (0 for unlimited)",
		EnvVar: envVar("MEMORY_MINT_SUPPLY"),
	}
	solanaRPCFlag = cli.StringFlag{
		Name:   "solana-rpc",
		Value:  "http://127.0.0.1:8899",
		Usage:  "Solana JSON-RPC endpoint used by the solana issuer",
		EnvVar: envVar("SOLANA_RPC"),
	}
	authorityKeyFileFlag = cli.StringFlag{
		Name:   "authority-keyfile",
		Usage:  "solana-keygen file of the mint authority used by the solana issuer",
		EnvVar: envVar("AUTHORITY_KEYFILE"),
	}
	externalTimeoutFlag = cli.Uint64Flag{
		Name:   "external-timeout",
		Value:  120000,
		Usage:  "bound in milliseconds of the reward and treasury transfers of a claim",
		EnvVar: envVar("EXTERNAL_TIMEOUT"),
	}
	enableTreasuryFlag = cli.BoolFlag{
		Name:   "enable-treasury",
		Usage:  "escrow stakes in the in-memory treasury and pay the pool to the claimant",
		EnvVar: envVar("ENABLE_TREASURY"),
	}

	apiAddrFlag = cli.StringFlag{
		Name:   "api-addr",
		Value:  "localhost:8670",
		Usage:  "API service listening address",
		EnvVar: envVar("API_ADDR"),
	}
	apiCorsFlag = cli.StringFlag{
		Name:   "api-cors",
		Value:  "",
		Usage:  "comma separated list of domains from which to accept cross origin requests to API",
		EnvVar: envVar("API_CORS"),
	}
	apiTimeoutFlag = cli.Uint64Flag{
		Name:   "api-timeout",
		Value:  10000,
		Usage:  "API request timeout value in milliseconds",
		EnvVar: envVar("API_TIMEOUT"),
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:   "enable-api-logs",
		Usage:  "enables API requests logging",
		EnvVar: envVar("ENABLE_API_LOGS"),
	}
	apiSlowQueriesThresholdFlag = cli.Uint64Flag{
		Name:   "api-slow-queries-threshold",
		Value:  0,
		Usage:  "all queries with execution time(ms) above threshold will be logged",
		EnvVar: envVar("API_SLOW_QUERIES_THRESHOLD"),
	}
	apiLog5xxErrorsFlag = cli.BoolFlag{
		Name:   "api-log-5xx-errors",
		Usage:  "log all requests answered with a 5xx status",
		EnvVar: envVar("API_LOG_5XX_ERRORS"),
	}
	pprofFlag = cli.BoolFlag{
		Name:  "pprof",
		Usage: "turn on go-pprof",
	}

	verbosityFlag = cli.IntFlag{
		Name:   "verbosity",
		Value:  log.LegacyLevelInfo,
		Usage:  "log verbosity (0-5)",
		EnvVar: envVar("VERBOSITY"),
	}
	logFormatFlag = cli.StringFlag{
		Name:   "log-format",
		Value:  "terminal",
		Usage:  "log output format (terminal|json|logfmt)",
		EnvVar: envVar("LOG_FORMAT"),
	}

	enableMetricsFlag = cli.BoolFlag{
		Name:   "enable-metrics",
		Usage:  "enables metrics collection",
		EnvVar: envVar("ENABLE_METRICS"),
	}
	metricsAddrFlag = cli.StringFlag{
		Name:   "metrics-addr",
		Value:  "localhost:2112",
		Usage:  "metrics service listening address",
		EnvVar: envVar("METRICS_ADDR"),
	}
	enableAdminFlag = cli.BoolFlag{
		Name:   "enable-admin",
		Usage:  "enables admin server",
		EnvVar: envVar("ENABLE_ADMIN"),
	}
	adminAddrFlag = cli.StringFlag{
		Name:   "admin-addr",
		Value:  "localhost:2113",
		Usage:  "admin service listening address",
		EnvVar: envVar("ADMIN_ADDR"),
	}
)
