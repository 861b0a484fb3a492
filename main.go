package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"rsc.io/diff"

	"mibk.dev/cssfmt/format"
	"mibk.dev/cssfmt/naive"
	"mibk.dev/cssfmt/watch"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "cssfmt"})

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

type formatFlags struct {
	inPlace bool
	list    bool
	diff    bool
}

func newRootCmd() *cobra.Command {
	var (
		ff       formatFlags
		sortFlag string
		verbose  bool
	)
	cmd := &cobra.Command{
		Use:   "cssfmt [flags] [path ...]",
		Short: "Format CSS, grouping declarations by category",
		Long: `cssfmt formats CSS files. Directories are searched for .css files.
With no path, it formats standard input.

Declarations of every rule are grouped by the categories of a sort spec
(see --sort) and ordered by property name. The CSSFMT environment variable
holds comma-separated options; "headers" precedes every group with
a comment naming its category.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			spec := loadSpec(sortFlag)
			return runFormat(cmd.OutOrStdout(), cmd.InOrStdin(), args, spec, ff)
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&ff.inPlace, "write", "w", false, "write result to (source) file instead of stdout")
	flags.BoolVarP(&ff.list, "list", "l", false, "list files whose formatting differs from cssfmt's")
	flags.BoolVarP(&ff.diff, "diff", "d", false, "display diffs instead of rewriting files")

	pflags := cmd.PersistentFlags()
	pflags.StringVar(&sortFlag, "sort", "", "group declarations by the sort spec in `file` (built-in spec if no file is given)")
	pflags.Lookup("sort").NoOptDefVal = builtinSpec
	pflags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newSyncCmd(&sortFlag))
	return cmd
}

func runFormat(stdout io.Writer, stdin io.Reader, paths []string, spec []naive.Category, ff formatFlags) error {
	if len(paths) == 0 {
		if ff.inPlace {
			return errors.New("cannot use -w with standard input")
		}
		return format.Pipe("<stdin>", stdout, stdin, spec, defaultOptions)
	}

	for _, root := range paths {
		fi, err := os.Stat(root)
		if err != nil {
			return err
		}
		if !fi.IsDir() {
			if err := formatFile(stdout, root, spec, ff); err != nil {
				return err
			}
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && watch.Ignored(rel, true) {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) != ".css" || watch.Ignored(rel, false) {
				return nil
			}
			return formatFile(stdout, path, spec, ff)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func formatFile(stdout io.Writer, path string, spec []naive.Category, ff formatFlags) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out := format.Source(src, spec, defaultOptions)

	if !ff.list && !ff.inPlace && !ff.diff {
		_, err := stdout.Write(out)
		return err
	}
	if bytes.Equal(src, out) {
		return nil
	}
	if ff.list {
		fmt.Fprintln(stdout, path)
	}
	if ff.inPlace {
		fi, err := os.Stat(path)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, out, fi.Mode().Perm()); err != nil {
			return err
		}
		logger.Debug("Formatted", "file", path)
	}
	if ff.diff {
		fmt.Fprintf(stdout, "diff %s cssfmt/%s\n%s", path, path, diff.Format(string(src), string(out)))
	}
	return nil
}
