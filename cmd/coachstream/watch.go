package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/procwise/coachstream/extract"
)

func watchCmd() *cobra.Command {
	var (
		glob     string
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Watch transcript files and re-extract on every write",
		Long: `Watch re-runs extraction whenever a matching transcript file changes,
mimicking the streaming path for local prompt development: append to the
file and see the cleaned prose, partial-block state, and decoded payloads
after each save.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runWatch(dir, glob, debounce)
		},
	}

	cmd.Flags().StringVar(&glob, "glob", "**/*.md", "Doublestar pattern selecting transcript files, relative to dir")
	cmd.Flags().DurationVar(&debounce, "debounce", 200*time.Millisecond, "Quiet period before re-extracting a changed file")
	return cmd
}

func runWatch(dir, glob string, debounce time.Duration) error {
	logger := slog.Default()

	if !doublestar.ValidatePattern(glob) {
		return fmt.Errorf("invalid glob pattern %q", glob)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close() //nolint:errcheck

	// Watch dir and all subdirectories so nested transcripts are covered.
	if err := addRecursive(watcher, dir); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	extractor := extract.NewDefault()
	logger.Info("watching transcripts", "dir", dir, "glob", glob)

	// Debounce per path: editors fire several events per save.
	pending := make(map[string]*time.Timer)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
				if event.Op&fsnotify.Create != 0 {
					_ = addRecursive(watcher, event.Name)
				}
				continue
			}

			rel, err := filepath.Rel(dir, event.Name)
			if err != nil {
				continue
			}
			matched, err := doublestar.Match(glob, filepath.ToSlash(rel))
			if err != nil || !matched {
				continue
			}

			path := event.Name
			if timer, ok := pending[path]; ok {
				timer.Stop()
			}
			pending[path] = time.AfterFunc(debounce, func() {
				reportFile(extractor, path, logger)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		}
	}
}

// addRecursive registers dir and every subdirectory with the watcher.
func addRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if name := d.Name(); name != "." && strings.HasPrefix(name, ".") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// reportFile extracts one transcript and prints a summary.
func reportFile(extractor *extract.Extractor, path string, logger *slog.Logger) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("read transcript", "path", path, "error", err)
		return
	}

	result := extractor.Extract(string(data))
	fmt.Printf("== %s ==\n", path)
	printResult(result)
	fmt.Println()
}
