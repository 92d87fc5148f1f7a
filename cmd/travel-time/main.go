// Copyright 2026 The UrbanLogiq Authors
// SPDX-License-Identifier: Apache-2.0

// travel-time submits a travel time job to the UrbanLogiq API and
// writes the result to a local file.
//
// The account and schematic come from a configuration file (JSONC, or
// YAML by extension); the parameter rows come from a params file. The
// command authenticates, submits one job, polls until the job finishes,
// downloads the result in the requested format, and prints the path of
// the written file.
//
// If the configuration has no password and stdin is a terminal, the
// password is read from the terminal without echo.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/urbanlogiq/london-travel-time/lib/config"
	"github.com/urbanlogiq/london-travel-time/lib/traveltime"
	"github.com/urbanlogiq/london-travel-time/lib/ulapi"
	"github.com/urbanlogiq/london-travel-time/lib/version"
)

const programName = "travel-time"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if hint := errorHint(err); hint != "" {
			fmt.Fprintf(os.Stderr, "hint: %s\n", hint)
		}
		os.Exit(1)
	}
}

// errorHint suggests a fix for errors a user can act on, or returns "".
func errorHint(err error) string {
	if ulapi.IsUnauthorized(err) {
		return "the API rejected the credentials; check client_id, username, and password in the config file"
	}
	return ""
}

// options are the parsed command-line flags.
type options struct {
	paramsPath      string
	format          string
	configPath      string
	outputDirectory string
	pollTimeout     time.Duration
	verbose         bool
	showVersion     bool
}

// errHelp is returned by parseFlags after printing usage.
var errHelp = errors.New("help requested")

func parseFlags(args []string, output io.Writer) (*options, error) {
	var opts options
	flagSet := pflag.NewFlagSet(programName, pflag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.StringVarP(&opts.paramsPath, "params", "p", "example_params.json", "JSON file of parameter rows")
	flagSet.StringVarP(&opts.format, "format", "f", "xlsx", "result format: xlsx, csv, json, or none for the Arrow stream")
	flagSet.StringVarP(&opts.configPath, "config", "c", "config.json", "account configuration file (.json, .yaml)")
	flagSet.StringVarP(&opts.outputDirectory, "output-dir", "o", ".", "directory the result file is written to")
	flagSet.DurationVar(&opts.pollTimeout, "poll-timeout", 0, "maximum time to wait for the job (overrides poll_timeout)")
	flagSet.BoolVarP(&opts.verbose, "verbose", "v", false, "log requests and poll waits")
	flagSet.BoolVar(&opts.showVersion, "version", false, "print version information and exit")
	flagSet.Usage = func() {
		fmt.Fprintf(output, "Usage:\n  %s [flags]\n\nFlags:\n", programName)
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, errHelp
		}
		return nil, err
	}
	if flagSet.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument: %s", flagSet.Arg(0))
	}
	if opts.pollTimeout < 0 {
		return nil, errors.New("--poll-timeout must not be negative")
	}
	return &opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, errHelp) {
		return nil
	}
	if err != nil {
		return err
	}
	if opts.showVersion {
		version.Fprint(stdout, programName)
		return nil
	}

	logger := newLogger(stderr, opts.verbose)

	cfg, err := config.LoadFile(opts.configPath)
	if err != nil {
		return err
	}
	format, err := ulapi.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	rows, err := config.LoadParams(opts.paramsPath, cfg.Realm)
	if err != nil {
		return err
	}
	schematicID, err := cfg.SchematicID()
	if err != nil {
		return err
	}
	compression, err := cfg.Compression()
	if err != nil {
		return err
	}

	password := cfg.Password
	if password == "" {
		password, err = promptPassword(stderr, cfg.Username)
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(opts.outputDirectory, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	requestTimeout := cfg.RequestTimeout.Std()
	if requestTimeout == 0 {
		requestTimeout = ulapi.DefaultRequestTimeout
	}
	httpClient := ulapi.NewHTTPClient(requestTimeout)
	defer httpClient.CloseIdleConnections()

	client, err := ulapi.NewClient(ulapi.Config{
		BaseURL:        cfg.APIBaseURL,
		TokenURL:       cfg.TokenURL,
		Policy:         cfg.Policy,
		Authority:      cfg.Authority,
		HTTPClient:     httpClient,
		RequestTimeout: requestTimeout,
		AcceptZstd:     cfg.AcceptZstd,
		UserAgent:      version.UserAgent(programName),
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	poll := traveltime.PollPolicy{
		Initial: cfg.PollInitialInterval.Std(),
		Max:     cfg.PollMaxInterval.Std(),
		Timeout: cfg.PollTimeout.Std(),
	}
	if opts.pollTimeout > 0 {
		poll.Timeout = opts.pollTimeout
	}

	orchestrator, err := traveltime.New(traveltime.Config{
		API: client,
		Credentials: ulapi.Credentials{
			ClientID: cfg.ClientID,
			Username: cfg.Username,
			Password: password,
		},
		Schematic:       schematicID,
		Format:          format,
		OutputDirectory: opts.outputDirectory,
		Compression:     compression,
		Poll:            poll,
		Logger:          logger,
	})
	if err != nil {
		return err
	}

	result, err := orchestrator.Run(ctx, rows)
	if err != nil {
		return err
	}

	logger.Info("job finished",
		"job_id", result.JobID.String(),
		"worklog_id", result.WorklogID.String(),
		"polls", result.Polls,
		"bytes", result.Bytes,
		"blake3", result.Digest,
	)
	fmt.Fprintf(stdout, "Results written to %s\n", result.Path)
	return nil
}
