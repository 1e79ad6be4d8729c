package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/muesli/termenv"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/stitchlang/stitch"
)

const (
	historyFile = ".stitch_history"
	promptMain  = ">> "
	promptCont  = ".. "
)

func replCmd(flags *appFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "interactive prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(cmd.Context(), flags)
		},
	}
}

func runREPL(ctx context.Context, flags *appFlags) error {
	rt, err := newRuntime(ctx, flags)
	if err != nil {
		return err
	}
	defer rt.Close()
	rt.BindHooks()

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	histPath := historyPath()
	if f, err := os.Open(histPath); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	out := termenv.NewOutput(os.Stdout)
	fmt.Printf("stitch %v — :quit to exit, :words to list commands\n", stitch.Version)

	var pending string
	for {
		prompt := promptMain
		if pending != "" {
			prompt = promptCont
		}
		input, err := line.Prompt(prompt)
		if err == liner.ErrPromptAborted {
			pending = ""
			continue
		}
		if err == io.EOF {
			fmt.Println()
			break
		}
		if err != nil {
			return err
		}

		src := input
		if pending != "" {
			src = pending + "\n" + input
		}
		trimmed := strings.TrimSpace(src)
		if trimmed == "" {
			continue
		}
		if pending == "" {
			if trimmed == ":quit" {
				break
			}
			if trimmed == ":words" {
				for _, c := range rt.Commands() {
					fmt.Printf("%v  %v\n", out.String(c.Name).Bold(), c.Doc)
				}
				continue
			}
		}
		if needsMore(src) {
			pending = src
			continue
		}
		pending = ""
		line.AppendHistory(strings.ReplaceAll(src, "\n", " "))

		if err := rt.Run(ctx, src); err != nil {
			fmt.Println(out.String("error: " + err.Error()).Foreground(termenv.ANSIRed))
			continue
		}
		rt.DispatchHooks(ctx)
		if vals := rt.Stack(); len(vals) > 0 {
			fmt.Println(out.String("-- " + stitch.FormatValue(vals)).Faint())
		} else {
			fmt.Println(out.String("ok").Faint())
		}
	}

	if f, err := os.Create(histPath); err == nil {
		line.WriteHistory(f)
		f.Close()
	}
	return nil
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return historyFile
	}
	return filepath.Join(home, historyFile)
}

// needsMore reports whether src ends inside an open definition, quotation,
// comment, doc block, or string, so the REPL can keep prompting instead of
// running a fragment. It is a token-level approximation of the runtime's
// own scanning.
func needsMore(src string) bool {
	depth := 0
	toks := strings.Fields(src)
	for i := 0; i < len(toks); i++ {
		tok := toks[i]
		switch {
		case tok == ":" || tok == "[":
			depth++
		case tok == ";" || tok == "]":
			if depth > 0 {
				depth--
			}
		case tok == "(":
			for i < len(toks) && !strings.Contains(toks[i], ")") {
				i++
			}
			if i == len(toks) {
				return true
			}
		case tok == "doc{":
			for i < len(toks) && !strings.Contains(toks[i], "}") {
				i++
			}
			if i == len(toks) {
				return true
			}
		case strings.HasPrefix(tok, `"`):
			if len(tok) > 1 && strings.HasSuffix(tok, `"`) {
				continue
			}
			i++
			for i < len(toks) && !strings.HasSuffix(toks[i], `"`) {
				i++
			}
			if i == len(toks) {
				return true
			}
		}
	}
	return depth > 0
}
