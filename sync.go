package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"mibk.dev/cssfmt/cssmod"
	"mibk.dev/cssfmt/watch"
)

type syncFlags struct {
	dir   string
	gen   bool
	watch bool
	all   bool
}

func newSyncCmd(sortFlag *string) *cobra.Command {
	var sf syncFlags
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync CSS modules with the components that use them",
		Long: `sync orders the rules of every Name.module.css after the classes that
Name.tsx (or Name.jsx) uses through its styles object. Rules of classes
that are no longer used are marked; empty ones are removed.

The source directory is resolved against the nearest directory that holds
a package.json.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if sf.all {
				sf.gen, sf.watch = true, true
				if *sortFlag == "" {
					*sortFlag = builtinSpec
				}
			}
			return runSync(cmd.Context(), sf, *sortFlag)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&sf.dir, "dir", "src", "source `directory`")
	flags.BoolVar(&sf.gen, "gen", false, "generate missing modules and add styles imports to components")
	flags.BoolVar(&sf.watch, "watch", false, "keep watching the source directory for changes")
	flags.BoolVarP(&sf.all, "all", "a", false, "shorthand for --gen --watch --sort")
	return cmd
}

func runSync(ctx context.Context, sf syncFlags, sortFlag string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	dir, err := targetDir(cwd, sf.dir)
	if err != nil {
		return err
	}

	s := &cssmod.Syncer{
		Spec:    loadSpec(sortFlag),
		Options: defaultOptions,
		Gen:     sf.gen,
		Base:    cwd,
		Logger:  logger,
	}
	sorting := sortFlag != ""
	logger.Info("Syncing", "dir", dir, "watch", sf.watch, "gen", sf.gen, "sort", sorting)
	if err := s.Scan(ctx, dir); err != nil {
		return err
	}
	if !sf.watch {
		return nil
	}

	w, err := watch.New(watch.Config{
		Dir:    dir,
		Logger: logger,
		OnChange: func(_ context.Context, ev watch.Event) {
			handleChange(s, ev, sorting)
		},
	})
	if err != nil {
		return err
	}
	logger.Info("Watching for changes...")
	return w.Run(ctx)
}

// handleChange syncs a changed component, or formats a changed
// stylesheet if sorting is enabled. A new component adopts the module
// orphaned in its directory, if there is exactly one.
func handleChange(s *cssmod.Syncer, ev watch.Event, sorting bool) {
	var err error
	switch {
	case cssmod.IsComponent(ev.Path):
		if ev.Created && s.Gen {
			switch moved, err := cssmod.AdoptOrphan(ev.Path); {
			case err != nil:
				logger.Warn("Cannot adopt orphaned module", "err", err)
			case moved != "":
				logger.Info("Renamed", "file", moved)
			}
		}
		err = s.SyncFile(ev.Path)
	case filepath.Ext(ev.Path) == ".css" && sorting:
		err = s.FormatFile(ev.Path)
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("Update failed", "file", ev.Path, "err", err)
	}
}
