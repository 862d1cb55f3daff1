// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"
)

const defaultEnvFile = ".env"

// loadEnvFiles exports variables from .env style files, without overriding
// variables already present in the environment. A missing default file is not an error.
func loadEnvFiles() error {
	path := os.Getenv(envVar("ENV_FILE"))
	if path == "" {
		if _, err := os.Stat(defaultEnvFile); err != nil {
			return nil
		}
		path = defaultEnvFile
	}
	return errors.Wrapf(godotenv.Load(path), "load env file [%v]", path)
}

// applyConfigFile reads the YAML file named by --config and uses its entries as
// values of flags that were not given on the command line or through the environment.
// Keys are flag names.
func applyConfigFile(ctx *cli.Context) error {
	path := ctx.String(configFlag.Name)
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read config [%v]", path)
	}

	var entries map[string]any
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return errors.Wrapf(err, "decode config [%v]", path)
	}
	return applyConfig(ctx, entries)
}

func applyConfig(ctx *cli.Context, entries map[string]any) error {
	known := make(map[string]bool)
	for _, f := range ctx.App.Flags {
		known[f.GetName()] = true
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, name := range keys {
		if !known[name] || name == configFlag.Name {
			return fmt.Errorf("config: unknown key %q", name)
		}
		if ctx.IsSet(name) || os.Getenv(flagEnvVar(ctx, name)) != "" {
			continue
		}
		var value string
		switch v := entries[name].(type) {
		case map[string]any, []any:
			return fmt.Errorf("config: %q must be a scalar", name)
		case nil:
			continue
		default:
			value = fmt.Sprint(v)
		}
		if err := ctx.Set(name, value); err != nil {
			return errors.Wrapf(err, "config: %q", name)
		}
	}
	return nil
}

func flagEnvVar(ctx *cli.Context, name string) string {
	for _, f := range ctx.App.Flags {
		if f.GetName() != name {
			continue
		}
		switch flag := f.(type) {
		case cli.StringFlag:
			return flag.EnvVar
		case cli.BoolFlag:
			return flag.EnvVar
		case cli.IntFlag:
			return flag.EnvVar
		case cli.Uint64Flag:
			return flag.EnvVar
		}
	}
	return ""
}
