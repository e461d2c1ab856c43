package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// defaultConfigFile is loaded from the working directory if it exists.
const defaultConfigFile = "convargs.yaml"

// options configures a run. They are loaded from a config file and then
// overridden by flags.
type options struct {
	Tags   string `yaml:"tags"`
	Test   bool   `yaml:"test"`
	Suffix string `yaml:"suffix"`
	Color  string `yaml:"color"`
}

// loadOptions loads options from the YAML file. A missing file is an error
// only if the path was given explicitly.
func loadOptions(path string, explicit bool) (options, error) {
	opts := options{Color: "auto"}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		return opts, nil
	}
	if err != nil {
		return opts, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	// An empty file has no document.
	if err := dec.Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		return opts, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return opts, opts.validate()
}

// override replaces options with the flags set on the command line.
func (o *options) override(cmd *cli.Command) error {
	if cmd.IsSet("tags") {
		o.Tags = cmd.String("tags")
	}
	if cmd.IsSet("test") {
		o.Test = cmd.Bool("test")
	}
	if cmd.IsSet("suffix") {
		o.Suffix = cmd.String("suffix")
	}
	if cmd.IsSet("color") {
		o.Color = cmd.String("color")
	}
	return o.validate()
}

func (o *options) validate() error {
	switch o.Color {
	case "":
		o.Color = "auto"
	case "auto", "always", "never":
	default:
		return fmt.Errorf("invalid color value: %s (auto|always|never)", o.Color)
	}
	return nil
}
