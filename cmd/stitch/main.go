package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/stitchlang/stitch"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type appFlags struct {
	trace       bool
	bareStrings bool
	profilePath string
}

func rootCmd() *cobra.Command {
	var flags appFlags
	cmd := &cobra.Command{
		Use:          "stitch",
		Short:        "a small concatenative scripting runtime",
		Version:      stitch.Version,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().BoolVar(&flags.trace, "trace", false, "enable trace logging")
	cmd.PersistentFlags().BoolVar(&flags.bareStrings, "bare-strings", false, "treat unresolved tokens as string values")
	cmd.PersistentFlags().StringVar(&flags.profilePath, "profile", "", "YAML profile to preload")
	cmd.AddCommand(runCmd(&flags), replCmd(&flags), wordsCmd(&flags))
	return cmd
}

func newRuntime(ctx context.Context, flags *appFlags) (*stitch.Runtime, error) {
	var prof *profile
	if flags.profilePath != "" {
		p, err := loadProfile(flags.profilePath)
		if err != nil {
			return nil, err
		}
		prof = p
	}

	opts := []stitch.Option{stitch.WithOutput(os.Stdout)}
	if flags.trace {
		opts = append(opts, stitch.WithLogf(log.Printf))
	}
	if flags.bareStrings || (prof != nil && prof.Options.BareStrings) {
		opts = append(opts, stitch.WithBareStrings(true))
	}

	rt := stitch.New(opts...)
	if prof != nil {
		if err := prof.apply(ctx, rt); err != nil {
			rt.Close()
			return nil, err
		}
	}
	return rt, nil
}

func runCmd(flags *appFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "run <file>...",
		Short: "run script files in order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer rt.Close()
			for _, path := range args {
				src, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				if err := rt.Run(cmd.Context(), string(src)); err != nil {
					return fmt.Errorf("%v: %w", path, err)
				}
			}
			return nil
		},
	}
}

func wordsCmd(flags *appFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "words",
		Short: "list command and setting words with their metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer rt.Close()

			out := termenv.NewOutput(os.Stdout)
			for _, c := range rt.Commands() {
				fmt.Fprintf(os.Stdout, "%v", out.String(c.Name).Bold())
				if c.Key != "" {
					fmt.Fprintf(os.Stdout, "  %v", out.String(c.Key).Foreground(termenv.ANSICyan))
				}
				if c.Category != "" {
					fmt.Fprintf(os.Stdout, "  %v", out.String(c.Category).Faint())
				}
				if c.Doc != "" {
					fmt.Fprintf(os.Stdout, "  %v", c.Doc)
				}
				fmt.Fprintln(os.Stdout)
			}
			for _, s := range rt.Settings() {
				fmt.Fprintf(os.Stdout, "%v  %v", out.String(s.Name).Bold(), out.String("setting").Faint())
				if s.Type != "" {
					fmt.Fprintf(os.Stdout, "  %v", s.Type)
				}
				if s.Doc != "" {
					fmt.Fprintf(os.Stdout, "  %v", s.Doc)
				}
				fmt.Fprintln(os.Stdout)
			}
			return nil
		},
	}
}
