// Package cmd holds the cmdflow command line.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/askiada/cmdflow/internal/command"
	"github.com/askiada/cmdflow/internal/config"
	"github.com/askiada/cmdflow/internal/processor"
	"github.com/askiada/cmdflow/pkg/pipeline/drawer"
	"github.com/askiada/cmdflow/pkg/pipeline/logger"
	"github.com/askiada/cmdflow/pkg/pipeline/measure"
	"github.com/askiada/cmdflow/pkg/pipeline/model"
)

const stdinPath = "-"

type flags struct {
	configFile string
	queueSize  int
	logLevel   string
	measure    bool
	dotFile    string
}

type rootCommand struct {
	flags  flags
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// NewRootCommand creates the cmdflow command reading stdin for "-" and writing results to stdout.
func NewRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	rc := &rootCommand{stdin: stdin, stdout: stdout, stderr: stderr}

	cmd := &cobra.Command{
		Use:   "cmdflow [flags] <file>",
		Short: "Run every line of a file as a command",
		Long: `cmdflow reads command lines and runs each of them through a read, parse,
execute and print pipeline. Results are printed in input order.

Commands:
  gettime [utc]  current local time, or the time in the reference zone
  echo <text>    print text

Use - as file to read standard input.`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 {
				return newUsageError(errors.Wrapf(ErrMissingInput, "got %d arguments", len(args)))
			}

			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          rc.run,
	}

	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return newUsageError(err)
	})

	def := config.Default()
	cmd.Flags().StringVar(&rc.flags.configFile, "config", "", "YAML configuration file")
	cmd.Flags().IntVar(&rc.flags.queueSize, "queue-size", def.QueueSize, "queue size of every stage")
	cmd.Flags().StringVar(&rc.flags.logLevel, "log-level", def.LogLevel, "log level: debug, info, warn or error")
	cmd.Flags().BoolVar(&rc.flags.measure, "measure", def.Measure, "report stage durations once the run finished")
	cmd.Flags().StringVar(&rc.flags.dotFile, "dot", def.DOTFile, "write the pipeline graph to this DOT file")

	return cmd
}

// Execute runs cmdflow with os arguments and returns the exit status.
func Execute(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer) int {
	root := NewRootCommand(stdin, stdout, stderr)

	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)

		if ExitCode(err) == ExitUsage {
			fmt.Fprint(stderr, root.UsageString())
		}
	}

	return ExitCode(err)
}

func (rc *rootCommand) loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(rc.flags.configFile)
	if err != nil {
		return cfg, err
	}

	if cmd.Flags().Changed("queue-size") {
		cfg.QueueSize = rc.flags.queueSize
	}

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = rc.flags.logLevel
	}

	if cmd.Flags().Changed("measure") {
		cfg.Measure = rc.flags.measure
	}

	if cmd.Flags().Changed("dot") {
		cfg.DOTFile = rc.flags.dotFile
	}

	return cfg, cfg.Validate()
}

func (rc *rootCommand) openInput(path string) (io.Reader, func() error, error) {
	if path == stdinPath {
		return rc.stdin, func() error { return nil }, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "unable to open input %s", path)
	}

	return file, file.Close, nil
}

func (rc *rootCommand) run(cmd *cobra.Command, args []string) error {
	cfg, err := rc.loadConfig(cmd)
	if err != nil {
		return newUsageError(err)
	}

	in, closeInput, err := rc.openInput(args[0])
	if err != nil {
		return newUsageError(err)
	}
	defer closeInput() //nolint:errcheck // read only

	// Validate already checked both.
	level, _ := cfg.Level()
	reference, _ := cfg.Location()

	log := slog.New(slog.NewTextHandler(rc.stderr, &slog.HandlerOptions{Level: level})).
		With(slog.String("run_id", uuid.NewString()))

	var msr measure.Measure

	opts := []model.PipelineOption{logger.PipelineLogger(log)}

	if cfg.Measure {
		msr = measure.NewDefaultMeasure()
		opts = append(opts, measure.PipelineMeasure(msr))
	}

	if cfg.DOTFile != "" {
		opts = append(opts, drawer.PipelineDrawer(drawer.NewDOTDrawer(cfg.DOTFile), msr))
	}

	proc, err := processor.New(
		command.DefaultRegistry(command.WithReferenceZone(reference)),
		rc.stdout,
		processor.WithQueueSize(cfg.QueueSize),
		processor.WithPipelineOptions(opts...),
	)
	if err != nil {
		return err
	}

	log.Debug("run started",
		slog.String("input", args[0]),
		slog.Int("queue_size", cfg.QueueSize),
		slog.String("reference_zone", reference.String()),
	)

	runErr := proc.Run(cmd.Context(), in)

	if msr != nil {
		err = writeReport(rc.stderr, msr)
		if err != nil {
			log.Warn("unable to write measure report", slog.Any("error", err))
		}
	}

	if runErr != nil {
		return errors.Wrap(runErr, "run failed")
	}

	return nil
}
