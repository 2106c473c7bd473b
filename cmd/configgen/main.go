package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/danmuck/seedhunt/internal/config"
	"github.com/spf13/pflag"
)

const defaultPath = "config.toml"

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "configgen: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("configgen", pflag.ContinueOnError)
	fs.SetOutput(out)
	output := fs.String("output", defaultPath, "output path for config template")
	validate := fs.Bool("validate", false, "validate an existing config file")
	input := fs.String("input", defaultPath, "config path for validation")
	force := fs.Bool("force", false, "overwrite existing config file")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if *validate {
		cfg, err := config.Load(*input)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Validated config at %s: %d known, %d missing, target %s\n",
			*input, len(cfg.Words), cfg.Missing(), cfg.Target)
		return nil
	}

	if err := config.WriteTemplate(*output, *force); err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote config template to %s\n", *output)
	return nil
}
