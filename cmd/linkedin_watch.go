package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/kurtosis-tech/stacktrace"
	"github.com/spf13/cobra"

	"github.com/thatrebeccarae/claude-code-skills/internal/database"
)

// watchDebounce batches the burst of filesystem events from an unzip or
// multi-file copy into a single pipeline run.
const watchDebounce = 500 * time.Millisecond

var (
	watchTemplatesFlag string
	watchOutputFlag    string
	watchThemeFlag     string
)

var linkedinWatchCmd = &cobra.Command{
	Use:   watchCmdStr + " [export-dir]",
	Short: "Watch an export directory and rerun the pipeline on changes",
	Long: `Run the full pipeline once, then keep watching the export directory and
rerun it whenever the CSV files change. Stays in the foreground until
interrupted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLinkedinWatch,
}

func init() {
	linkedinWatchCmd.Flags().StringVar(&watchTemplatesFlag, templatesFlagName, "", "visualization templates directory")
	linkedinWatchCmd.Flags().StringVarP(&watchOutputFlag, outputFlagName, "o", "", "directory to write pipeline output into")
	linkedinWatchCmd.Flags().StringVar(&watchThemeFlag, themeFlagName, "", "theme CSS file to inline")
	_ = linkedinWatchCmd.MarkFlagRequired(outputFlagName)
	linkedinCmd.AddCommand(linkedinWatchCmd)
}

func runLinkedinWatch(cmd *cobra.Command, args []string) error {
	exportDirpath, err := resolveExportDirpath(args)
	if err != nil {
		return err
	}
	templatesDirpath, err := resolveTemplatesDirpath(watchTemplatesFlag)
	if err != nil {
		return err
	}
	themeCSSFilepath, err := resolveThemeCSSFilepath(watchThemeFlag, templatesDirpath)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return stacktrace.Propagate(err, "failed to create filesystem watcher")
	}
	defer watcher.Close()

	if err := watcher.Add(exportDirpath); err != nil {
		return stacktrace.Propagate(err, "failed to watch '%s'", exportDirpath)
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal: %v", sig)
		cancel()
	}()

	logger.Printf("Watching %s", exportDirpath)

	runWatchedPipeline(logger, exportDirpath, templatesDirpath, themeCSSFilepath)

	// The timer only signals runCh; the select loop below executes runs, so
	// pipeline passes never overlap.
	runCh := make(chan struct{}, 1)
	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			logger.Printf("Watcher exited")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// The output directory may sit inside the watched directory;
			// only CSV changes should trigger a rebuild.
			if filepath.Ext(event.Name) != ".csv" {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(watchDebounce, func() {
				select {
				case runCh <- struct{}{}:
				default:
				}
			})

		case <-runCh:
			runWatchedPipeline(logger, exportDirpath, templatesDirpath, themeCSSFilepath)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Printf("Watch error: %v", err)
		}
	}
}

// runWatchedPipeline executes one pipeline pass and records it in run
// history. Failures are logged rather than returned so the watcher keeps
// running.
func runWatchedPipeline(logger *log.Logger, exportDirpath string, templatesDirpath string, themeCSSFilepath string) {
	startTime := time.Now()
	err := recordRun(linkedinCmdStr+" "+watchCmdStr, exportDirpath, watchOutputFlag, func() (database.RecordCounts, error) {
		export, _, err := runPipeline(exportDirpath, templatesDirpath, watchOutputFlag, themeCSSFilepath)
		if err != nil {
			return database.RecordCounts{}, err
		}
		return exportRecordCounts(export), nil
	})
	if err != nil {
		logger.Printf("Pipeline failed: %v", err)
		return
	}
	logger.Printf("Pipeline completed in %s", time.Since(startTime).Round(time.Millisecond))
}
