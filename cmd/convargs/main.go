package main

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
	"golang.org/x/sys/unix"

	convargsinternal "github.com/sublee/convargs/internal/convargs"
)

var Version = "dev"

func init() {
	convargsinternal.Version = Version
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:                   "convargs",
		Usage:                  "Rewrite annotated functions to convert their arguments",
		ArgsUsage:              "[packages]",
		Version:                Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "tags",
				Aliases: []string{"b"},
				Usage:   "comma-separated build tags",
			},
			&cli.BoolFlag{
				Name:    "test",
				Aliases: []string{"t"},
				Usage:   "include tests",
			},
			&cli.StringFlag{
				Name:    "suffix",
				Aliases: []string{"s"},
				Usage:   "suffix of generated file names",
				Value:   convargsinternal.DefaultSuffix,
			},
			&cli.StringFlag{
				Name:    "color",
				Aliases: []string{"c"},
				Usage:   "colorize (auto|always|never)",
				Value:   "auto",
			},
			&cli.BoolFlag{
				Name:  "check",
				Usage: "report errors and outdated files without writing",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "YAML config file",
				Value: defaultConfigFile,
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log debug messages",
			},
		},
		Action: run,
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}

	opts, err := loadOptions(cmd.String("config"), cmd.IsSet("config"))
	if err != nil {
		return err
	}
	if err := opts.override(cmd); err != nil {
		return err
	}

	switch opts.Color {
	case "auto":
		color.NoColor = !isatty()
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	}

	level := zerolog.InfoLevel
	if cmd.Bool("verbose") {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: color.NoColor}).
		Level(level).With().Timestamp().Logger()
	ctx = log.WithContext(ctx)

	outs, err := convargsinternal.Main(ctx, wd, os.Environ(), opts.Tags, opts.Test, opts.Suffix, cmd.Args().Slice())
	if err != nil {
		fmt.Fprintln(os.Stderr, colorize(err.Error()))
		return cli.Exit("", 1)
	}

	if cmd.Bool("check") {
		return check(outs)
	}

	for _, out := range slices.Sorted(maps.Keys(outs)) {
		if err := os.WriteFile(out, outs[out], 0o644); err != nil {
			return err
		}

		if relOut, err := filepath.Rel(wd, out); err == nil {
			out = relOut
		}
		fmt.Println("Generated:", out)
	}
	log.Debug().Int("files", len(outs)).Msg("done")
	return nil
}

// check reports generated files which differ from the files on disk.
func check(outs map[string][]byte) error {
	outdated := 0
	for _, out := range slices.Sorted(maps.Keys(outs)) {
		code, err := os.ReadFile(out)
		if err == nil && string(code) == string(outs[out]) {
			continue
		}
		fmt.Fprintln(os.Stderr, colorize("Outdated: "+out))
		outdated++
	}
	if outdated != 0 {
		return cli.Exit("", 1)
	}
	return nil
}

// isatty reports whether the program is running in a terminal. If it is true,
// we can use ANSI color codes.
func isatty() bool {
	_, err := unix.IoctlGetWinsize(int(os.Stderr.Fd()), unix.TIOCGWINSZ)
	return err == nil
}

var (
	rePos      = regexp.MustCompile(`(?m)^(\S+:\d+:\d+:)( .+)$`)
	reOutdated = regexp.MustCompile(`(?m)^Outdated: .+$`)

	dim = color.New(color.Faint).SprintFunc()
	red = color.New(color.FgRed).SprintFunc()
)

// colorize dims positions and highlights messages. It does nothing if colors
// are disabled.
func colorize(message string) string {
	message = rePos.ReplaceAllStringFunc(message, func(line string) string {
		m := rePos.FindStringSubmatch(line)
		return dim(m[1]) + red(m[2])
	})
	return reOutdated.ReplaceAllStringFunc(message, func(line string) string {
		return red(line)
	})
}
