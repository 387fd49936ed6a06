// web3mock serves the emulated wallet provider to browsers over a websocket
// bridge and prints the injectable scripts for embedding hosts.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	w3m "github.com/status-im/status-web3-mock-go"
	"github.com/status-im/status-web3-mock-go/server"
)

var (
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	listenFlag = &cli.StringFlag{
		Name:  "listen",
		Usage: "address the bridge server listens on",
	}
	identityFlag = &cli.StringFlag{
		Name:  "identity",
		Usage: "wallet brand to emulate (metamask, coinbase, rainbow, trust, status)",
	}
	addressFlag = &cli.StringFlag{
		Name:  "address",
		Usage: "test account exposed to pages",
	}
	chainIDFlag = &cli.Uint64Flag{
		Name:  "chain-id",
		Usage: "chain id reported to pages",
	}
	autoconnectFlag = &cli.BoolFlag{
		Name:  "autoconnect",
		Usage: "connect pages without an explicit eth_requestAccounts",
	}
	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "log every bridge call and enable content side console output",
	}
	verbosityFlag = &cli.IntFlag{
		Name:  "verbosity",
		Usage: "log level: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=trace",
		Value: 3,
	}
)

func main() {
	app := &cli.App{
		Name:  "web3mock",
		Usage: "emulated EIP-1193 wallet provider and RPC bridge",
		Flags: []cli.Flag{
			configFlag,
			identityFlag,
			addressFlag,
			chainIDFlag,
			autoconnectFlag,
			debugFlag,
			verbosityFlag,
		},
		Before: setupLogging,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "serve provider.js and the websocket bridge",
				Flags:  []cli.Flag{listenFlag},
				Action: serve,
			},
			{
				Name:   "script",
				Usage:  "print the injectable script bundle for the webkit transport",
				Action: printScript,
			},
			{
				Name:   "identities",
				Usage:  "list the emulated wallet identities",
				Action: listIdentities,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogging(ctx *cli.Context) error {
	useColor := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	output := colorable.NewColorableStderr()
	if !useColor {
		output = colorable.NewNonColorable(os.Stderr)
	}

	level := log.FromLegacyLevel(ctx.Int(verbosityFlag.Name))
	log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(output, level, useColor)))
	return nil
}

// loadConfig layers command line flags over the config file over defaults.
func loadConfig(ctx *cli.Context) (w3m.Config, error) {
	cfg := w3m.DefaultConfig()
	if path := ctx.String(configFlag.Name); path != "" {
		var err error
		if cfg, err = w3m.LoadConfig(path); err != nil {
			return cfg, err
		}
	}

	if ctx.IsSet(identityFlag.Name) {
		k, err := w3m.ParseIdentityKey(ctx.String(identityFlag.Name))
		if err != nil {
			return cfg, err
		}
		cfg.Session.Identity = k
	}
	if ctx.IsSet(addressFlag.Name) {
		cfg.Session.TestAddress = ctx.String(addressFlag.Name)
	}
	if ctx.IsSet(chainIDFlag.Name) {
		cfg.Session.ChainID = ctx.Uint64(chainIDFlag.Name)
	}
	if ctx.IsSet(autoconnectFlag.Name) {
		cfg.Session.Autoconnect = ctx.Bool(autoconnectFlag.Name)
	}
	if ctx.IsSet(debugFlag.Name) {
		cfg.Session.Debug = ctx.Bool(debugFlag.Name)
	}
	if ctx.IsSet(listenFlag.Name) {
		cfg.Server.ListenAddr = ctx.String(listenFlag.Name)
	}

	return cfg, cfg.Session.Validate()
}

func serve(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	session, err := w3m.NewSession(cfg.Session)
	if err != nil {
		return err
	}
	srv := server.New(session, w3m.NewMockDispatcher(), cfg.Server)

	sigCtx, stop := signal.NotifyContext(ctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(sigCtx)
	g.Go(func() error {
		return srv.ListenAndServe(gctx, cfg.Server.ListenAddr)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		return nil
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

func printScript(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	session, err := w3m.NewSession(cfg.Session)
	if err != nil {
		return err
	}
	scripts, err := w3m.NewScriptGenerator(session).UserScripts()
	if err != nil {
		return err
	}

	fmt.Fprint(ctx.App.Writer, w3m.Bundle(scripts))
	return nil
}

func listIdentities(ctx *cli.Context) error {
	enc := json.NewEncoder(ctx.App.Writer)
	enc.SetIndent("", "  ")

	for _, k := range w3m.Identities() {
		id := w3m.Identity(k)
		if err := enc.Encode(map[string]interface{}{
			"key":   k.String(),
			"uuid":  id.UUID,
			"name":  id.Name,
			"rdns":  id.RDNS,
			"flags": k.Flags(),
		}); err != nil {
			return err
		}
	}
	return nil
}
