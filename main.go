package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/GustavoCaso/movienight/internal/catalog"
	"github.com/GustavoCaso/movienight/internal/cli"
	"github.com/GustavoCaso/movienight/internal/cli/account"
	"github.com/GustavoCaso/movienight/internal/cli/events"
	"github.com/GustavoCaso/movienight/internal/cli/filters"
	"github.com/GustavoCaso/movienight/internal/cli/popular"
	"github.com/GustavoCaso/movienight/internal/cli/preset"
	"github.com/GustavoCaso/movienight/internal/cli/search"
	"github.com/GustavoCaso/movienight/internal/cli/tui"
	"github.com/GustavoCaso/movienight/internal/config"
	"github.com/GustavoCaso/movienight/internal/logger"
	"github.com/GustavoCaso/movienight/internal/storage/sqlite"
)

var configPath string

var subcommands = map[string]cli.Command{
	"account": account.NewCommand(),
	"browse":  tui.NewCommand(),
	"event":   events.NewCommand(),
	"filters": filters.NewCommand(),
	"popular": popular.NewCommand(),
	"preset":  preset.NewCommand(),
	"search":  search.NewCommand(),
}

var subcommandsFlagSets = map[string]*flag.FlagSet{}

func main() {
	if len(os.Args) < 2 {
		fmt.Printf("subcommand is required\n")
		printUsage()

		os.Exit(1)
	}

	defaultConfig := os.Getenv("MOVIENIGHT_CONFIG")
	if defaultConfig == "" {
		defaultConfig = "movienight.toml"
	}

	for c, cLogic := range subcommands {
		fset := flag.NewFlagSet(c, flag.ExitOnError)
		fset.StringVar(&configPath, "c", defaultConfig, "Configuration file (.toml, .yaml or .yml)")

		cLogic.SetFlags(fset)

		subcommandsFlagSets[c] = fset
	}

	commandName := os.Args[1]
	command, ok := subcommands[commandName]
	if !ok {
		if strings.Contains(commandName, "help") {
			printHelp()

			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "unsupported command %s.\nUse 'help' command to print information about supported commands\n", commandName)
		os.Exit(1)
	}

	fset := subcommandsFlagSets[commandName]
	// ExitOnError handles parse failures
	_ = fset.Parse(os.Args[2:])

	os.Exit(run(command, fset.Args()))
}

func run(command cli.Command, args []string) int {
	conf, err := config.Parse(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to parse the configuration. %s\n", err.Error())
		return 1
	}

	appLogger := logger.New(conf.Logger)

	appLogger.Debug("Using database", "path", conf.DB.Source)

	storage, err := sqlite.New(conf.DB)
	if err != nil {
		appLogger.Error("Unable to get DB", "error", err.Error())
		return 1
	}
	defer func() {
		if closeErr := storage.Close(); closeErr != nil {
			appLogger.Error("Error closing storage", "error", closeErr)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = storage.ApplyMigrations(ctx, appLogger)
	if err != nil {
		appLogger.Error("Unable to create schema", "error", err.Error())
		return 1
	}

	client := catalog.New(catalog.Options{
		BaseURL:  conf.API.BaseURL,
		RetryMax: conf.API.RetryMax,
		Timeout:  conf.API.Timeout,
		Tokens:   cli.TokenStore(conf.API.Token, storage, conf.API.BaseURL),
	}, appLogger)

	err = command.Run(ctx, &cli.Env{
		Config:   conf,
		Storage:  storage,
		Catalog:  client,
		Events:   client,
		Accounts: client,
		Logger:   appLogger,
		In:       os.Stdin,
		Out:      os.Stdout,
		Args:     args,
	})
	if err != nil {
		appLogger.Error("Command failed", "error", err)
		return 1
	}

	return 0
}

func printHelp() {
	printUsage()

	names := make([]string, 0, len(subcommands))
	for c := range subcommands {
		names = append(names, c)
	}
	sort.Strings(names)

	for _, c := range names {
		fmt.Printf("subcommand <%s>: %s\n", c, subcommands[c].Description())
		subcommandsFlagSets[c].PrintDefaults()
		fmt.Println()
	}
}

func printUsage() {
	fmt.Printf("usage: movienight <subcommand> [flags] [args]\n\n")
}
