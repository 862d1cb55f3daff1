// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/challenge-registry/api"
	"github.com/vechain/challenge-registry/cmd/registry/httpserver"
	"github.com/vechain/challenge-registry/co"
	"github.com/vechain/challenge-registry/health"
	"github.com/vechain/challenge-registry/ledger"
	"github.com/vechain/challenge-registry/log"
	"github.com/vechain/challenge-registry/lvldb"
	"github.com/vechain/challenge-registry/metrics"
	"github.com/vechain/challenge-registry/registry"
	"github.com/vechain/challenge-registry/reward"
	"github.com/vechain/challenge-registry/state"
)

var (
	version   string
	gitCommit string
	gitTag    string

	healthKey = []byte("health")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "Registry",
		Usage:     "Challenge registry and staking ledger",
		Copyright: "2026 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			configFlag,
			dataDirFlag,
			inMemoryFlag,
			cacheFlag,
			programIDFlag,
			claimThresholdFlag,
			issuerFlag,
			memoryMintSupplyFlag,
			solanaRPCFlag,
			authorityKeyFileFlag,
			enableTreasuryFlag,
			externalTimeoutFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			enableAPILogsFlag,
			apiSlowQueriesThresholdFlag,
			apiLog5xxErrorsFlag,
			pprofFlag,
			verbosityFlag,
			logFormatFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:  "derive",
				Usage: "print record addresses",
				Flags: []cli.Flag{programIDFlag},
				Subcommands: []cli.Command{
					{
						Name:      "challenge",
						Usage:     "derive the address of a challenge record",
						ArgsUsage: "<name>",
						Action:    deriveChallengeAction,
					},
					{
						Name:      "player",
						Usage:     "derive the address of a player stake record",
						ArgsUsage: "<player> <name>",
						Action:    derivePlayerAction,
					},
				},
			},
		},
	}

	if err := loadEnvFiles(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { log.Info("exited") }()

	if err := applyConfigFile(ctx); err != nil {
		return err
	}
	logLevel, err := initLogger(ctx)
	if err != nil {
		return err
	}

	programID, err := parseProgramID(ctx)
	if err != nil {
		return err
	}
	policy, err := registry.ParseClaimPolicy(ctx.String(claimThresholdFlag.Name))
	if err != nil {
		return err
	}

	store, location, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { log.Info("closing record database..."); store.Close() }()

	stater, err := state.NewStater(store, programID, ctx.Int(cacheFlag.Name))
	if err != nil {
		return err
	}

	issuer, err := newIssuer(ctx)
	if err != nil {
		return err
	}

	opts := registry.Options{
		ClaimPolicy:     policy,
		ExternalTimeout: time.Duration(ctx.Uint64(externalTimeoutFlag.Name)) * time.Millisecond,
	}
	if ctx.Bool(enableTreasuryFlag.Name) {
		opts.Treasury = reward.NewMemTreasury()
	}
	reg := registry.New(stater, issuer, opts)

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
		url, closeFunc, err := httpserver.StartMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		defer func() { log.Info("stopping metrics server..."); closeFunc() }()
		log.Info("metrics server started", "url", url)
	}

	h := health.New(func() error {
		_, err := store.Has(healthKey)
		return err
	})
	var goes co.Goes
	goes.GoContext(func(ctx context.Context) { h.Run(ctx, 10*time.Second) })
	defer func() { goes.Stop(); goes.Wait() }()

	apiLogs := &atomic.Bool{}
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	if ctx.Bool(enableAdminFlag.Name) {
		url, closeFunc, err := httpserver.StartAdminServer(ctx.String(adminAddrFlag.Name), logLevel, apiLogs, h)
		if err != nil {
			return err
		}
		defer func() { log.Info("stopping admin server..."); closeFunc() }()
		log.Info("admin server started", "url", url)
	}

	handler := api.New(reg, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		PprofOn:              ctx.Bool(pprofFlag.Name),
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		EnableReqLogger:      apiLogs,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		Log5xxErrors:         ctx.Bool(apiLog5xxErrorsFlag.Name),
	})
	apiURL, closeFunc, err := httpserver.StartAPIServer(
		ctx.String(apiAddrFlag.Name),
		handler,
		time.Duration(ctx.Uint64(apiTimeoutFlag.Name))*time.Millisecond,
	)
	if err != nil {
		return err
	}
	defer func() { log.Info("stopping API server..."); closeFunc() }()

	h.Ready(true)
	printStartupMessage(programID, policy, ctx.String(issuerFlag.Name), location, apiURL)

	<-exitSignal.Done()
	h.Ready(false)
	return nil
}

func deriveChallengeAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("expected exactly one argument: <name>")
	}
	programID, err := parseProgramID(ctx)
	if err != nil {
		return err
	}
	addr, err := ledger.ChallengeAddress(programID, ctx.Args().Get(0))
	if err != nil {
		return err
	}
	fmt.Printf("%v bump=%d\n", addr.Key, addr.Bump)
	return nil
}

func derivePlayerAction(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return errors.New("expected exactly two arguments: <player> <name>")
	}
	programID, err := parseProgramID(ctx)
	if err != nil {
		return err
	}
	player, err := solana.PublicKeyFromBase58(ctx.Args().Get(0))
	if err != nil {
		return errors.Wrap(err, "parse player")
	}
	addr, err := ledger.PlayerAddress(programID, player, ctx.Args().Get(1))
	if err != nil {
		return err
	}
	fmt.Printf("%v bump=%d\n", addr.Key, addr.Bump)
	return nil
}

func parseProgramID(ctx *cli.Context) (solana.PublicKey, error) {
	s := ctx.String(programIDFlag.Name)
	if s == "" {
		s = ctx.GlobalString(programIDFlag.Name)
	}
	if s == "" {
		return ledger.DefaultProgramID, nil
	}
	id, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return solana.PublicKey{}, errors.Wrapf(err, "parse %s", programIDFlag.Name)
	}
	return id, nil
}

func openStore(ctx *cli.Context) (*lvldb.LevelDB, string, error) {
	if ctx.Bool(inMemoryFlag.Name) {
		db, err := lvldb.NewMem()
		return db, "Memory", err
	}
	dataDir, err := makeDataDir(ctx)
	if err != nil {
		return nil, "", err
	}
	path := filepath.Join(dataDir, "registry.db")
	db, err := lvldb.New(path, lvldb.Options{
		CacheSize:              128,
		OpenFilesCacheCapacity: 64,
	})
	if err != nil {
		return nil, "", errors.Wrapf(err, "open record database [%v]", path)
	}
	return db, path, nil
}

func newIssuer(ctx *cli.Context) (reward.Issuer, error) {
	switch kind := ctx.String(issuerFlag.Name); kind {
	case "memory":
		mem := reward.NewMemLedger()
		mem.EnableAutoMint(ctx.Uint64(memoryMintSupplyFlag.Name))
		return reward.NewMintIssuer(mem), nil
	case "solana":
		keyFile := ctx.String(authorityKeyFileFlag.Name)
		if keyFile == "" {
			return nil, fmt.Errorf("-%s is required with the solana issuer", authorityKeyFileFlag.Name)
		}
		authority, err := solana.PrivateKeyFromSolanaKeygenFile(keyFile)
		if err != nil {
			return nil, errors.Wrapf(err, "load authority key [%v]", keyFile)
		}
		client := rpc.New(ctx.String(solanaRPCFlag.Name))
		return reward.NewMintIssuer(reward.NewSPLMinter(client, authority)), nil
	default:
		return nil, fmt.Errorf("unknown issuer %q", kind)
	}
}

func printStartupMessage(programID solana.PublicKey, policy registry.ClaimPolicy, issuer, location, apiURL string) {
	fmt.Printf(`Starting %v
    Program ID  [ %v ]
    Claim       [ %v ]
    Issuer      [ %v ]
    Records     [ %v ]
    API portal  [ %v ]
`,
		"Registry "+fullVersion(),
		programID,
		policy,
		issuer,
		location,
		apiURL)
}
