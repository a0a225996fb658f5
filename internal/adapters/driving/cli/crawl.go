package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	configfile "github.com/wiarlawd/fs-crawler/internal/adapters/driven/config/file"
	"github.com/wiarlawd/fs-crawler/internal/adapters/driven/mime"
	"github.com/wiarlawd/fs-crawler/internal/adapters/driven/sink"
	"github.com/wiarlawd/fs-crawler/internal/connectors/filesystem"
	"github.com/wiarlawd/fs-crawler/internal/core/domain"
	"github.com/wiarlawd/fs-crawler/internal/core/services"
	"github.com/wiarlawd/fs-crawler/internal/logger"
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Crawl the configured roots and feed documents to the sink",
	Long: `Loads the configured roots, builds one traverser per root, and runs
them under a shared schedule until interrupted (Ctrl-C).`,
	RunE: runCrawl,
}

func init() {
	rootCmd.AddCommand(crawlCmd)
}

func runCrawl(cmd *cobra.Command, _ []string) error {
	if configPath == "" {
		return errors.New("--config is required")
	}

	cfg, err := configfile.LoadFileSystemConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	matcher, err := services.NewFilePatternMatcher(cfg.IncludePatterns, cfg.ExcludePatterns)
	if err != nil {
		return fmt.Errorf("compile patterns: %w", err)
	}

	classifier := filesystem.NewClassifier(
		filesystem.NewSMBFileSystemType(cfg.LastAccessResetFlagForSmb),
		filesystem.NewNFSFileSystemType(nil),
		filesystem.NewWindowsFileSystemType(cfg.LastAccessResetFlagForLocalWindows),
		filesystem.NewPosixFileSystemType(),
	)

	factory := services.NewDocumentFactory(services.DocumentFactoryConfig{
		PushAcls:               cfg.PushAcls,
		MarkAllDocumentsPublic: cfg.MarkAllDocumentsPublic,
		SupportsInheritedAcls:  cfg.SupportsInheritedAcls,
		SecurityLevel:          cfg.SecurityLevel,
		UserAclFormat:          cfg.UserAclFormat,
		GroupAclFormat:         cfg.GroupAclFormat,
	}, mime.New())

	schedule := domain.StaticSchedule{
		RateDocsPerMinute: cfg.ScheduleRateDocsPerMinute,
		RetryDelaySeconds: -1,
	}

	fullInterval := time.Duration(-1)
	if cfg.FullTraversalIntervalDays >= 0 {
		fullInterval = time.Duration(cfg.FullTraversalIntervalDays) * 24 * time.Hour
	}

	docSink := sink.New()

	traversers := make([]*services.Traverser, 0, len(cfg.StartPaths))
	localRoots := make([]string, 0, len(cfg.StartPaths))
	for _, root := range cfg.StartPaths {
		normalized := filesystem.NormalizeRootPath(root)
		traversers = append(traversers, services.NewTraverser(services.TraverserConfig{
			RootPath:               normalized,
			Credentials:            cfg.Credentials.ToDomain(),
			Matcher:                matcher,
			FullTraversalInterval:  fullInterval,
			IfModifiedSinceCushion: time.Duration(cfg.IfModifiedSinceCushionMinutes) * time.Minute,
			PushAcls:               cfg.PushAcls,
			SupportsInheritedAcls:  cfg.SupportsInheritedAcls,
			MarkAllDocumentsPublic: cfg.MarkAllDocumentsPublic,
		}, classifier, factory, docSink, schedule))
		localRoots = append(localRoots, normalized)
	}

	lister := services.NewLister(traversers, cfg.ThreadPoolSize, docSink, schedule)
	lister.WatchLocalRoots(localRoots)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("crawl: starting %d traverser(s)", len(traversers))

	errCh := make(chan error, 1)
	go func() { errCh <- lister.Start(ctx) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		return lister.Shutdown(shutdownCtx)
	}
}
