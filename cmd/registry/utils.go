// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/challenge-registry/log"
)

func initLogger(ctx *cli.Context) (*slog.LevelVar, error) {
	var level slog.LevelVar
	level.Set(log.FromLegacyLevel(ctx.Int(verbosityFlag.Name)))

	handler, err := newLogHandler(os.Stderr, ctx.String(logFormatFlag.Name), &level)
	if err != nil {
		return nil, err
	}
	log.SetDefault(log.NewLogger(handler))
	return &level, nil
}

func newLogHandler(w io.Writer, format string, level *slog.LevelVar) (slog.Handler, error) {
	switch format {
	case "", "terminal":
		useColor := false
		if f, ok := w.(*os.File); ok {
			useColor = (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) && os.Getenv("TERM") != "dumb"
		}
		return log.NewTerminalHandlerWithLevel(w, level, useColor), nil
	case "json":
		return log.JSONHandlerWithLevel(w, level), nil
	case "logfmt":
		return log.LogfmtHandlerWithLevel(w, level), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// handleExitSignal returns a context canceled on the first SIGINT or SIGTERM.
// A second signal exits immediately.
func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		log.Info("exit signal received", "signal", sig)
		cancel()

		<-exitSignalCh
		log.Warn("forced exit")
		os.Exit(1)
	}()
	return ctx
}

func makeDataDir(ctx *cli.Context) (string, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return "", fmt.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create data dir [%v]", dataDir)
	}
	return dataDir, nil
}

func defaultDataDir() string {
	// Try to place the data folder in the user's home dir
	if home := homeDir(); home != "" {
		switch runtime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "org.vechain.challenge-registry")
		case "windows":
			return filepath.Join(home, "AppData", "Roaming", "org.vechain.challenge-registry")
		default:
			return filepath.Join(home, ".org.vechain.challenge-registry")
		}
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}
