package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/LJTian/IndexNewsHub/internal/collector"
	"github.com/LJTian/IndexNewsHub/internal/config"
	"github.com/LJTian/IndexNewsHub/internal/scraper"
)

// 仅执行一次采集的命令行入口：打印标题，一行一条
func main() {
	if err := newRootCmd(config.Load()).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	var (
		date     string
		maxPages int
		maxNews  int
	)

	cmd := &cobra.Command{
		Use:          "collect",
		Short:        "Scrape headlines from the news index once and print them",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fetcher, closeFetcher := collector.NewPageFetcher(cfg.FetchMode, cfg.FetchTimeout, cfg.UserAgent)
			defer closeFetcher()

			c := collector.NewCollector(fetcher)
			c.Concurrency = cfg.FetchConcurrency
			svc := scraper.New(cfg.NewsBaseURL, c)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return run(ctx, svc, cmd.OutOrStdout(), date, maxPages, maxNews)
		},
	}

	cmd.Flags().StringVar(&date, "date", scraper.Today().String(), "target date, dd/mm/yyyy")
	cmd.Flags().IntVar(&maxPages, "max-pages", cfg.DefaultMaxPages, "listing pages to visit at most")
	cmd.Flags().IntVar(&maxNews, "max-news", cfg.DefaultMaxNews, "titles to return at most")
	return cmd
}

func run(ctx context.Context, svc *scraper.Service, out io.Writer, date string, maxPages, maxNews int) error {
	titles, err := svc.ScrapeNewsString(ctx, date, maxPages, maxNews)
	if err != nil {
		return err
	}
	for _, t := range titles {
		if _, err := fmt.Fprintln(out, t); err != nil {
			return err
		}
	}
	return nil
}
