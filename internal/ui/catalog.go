package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/timetable/internal/catalog"
)

func (a *App) catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the local catalog mirror",
		Long: `Manage the local catalog mirror.

'catalog sync' fetches the configured sources and stores them in the
SQLite mirror, so a source of kind "sqlite" can serve them offline.`,
	}
	cmd.AddCommand(a.catalogSyncCmd())
	cmd.AddCommand(a.catalogStatusCmd())
	return cmd
}

func (a *App) catalogSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync [source...]",
		Short: "Fetch sources into the mirror",
		RunE: func(_ *cobra.Command, args []string) error {
			ctx := context.Background()
			mirror, err := a.openMirror()
			if err != nil {
				return err
			}

			cache := a.newCache()
			keys := args
			if len(keys) == 0 {
				for _, sc := range a.config.Catalog.Sources {
					// The mirror cannot be synced from itself.
					if sc.Kind != catalog.KindSQLite {
						keys = append(keys, sc.Key)
					}
				}
			}

			var failed int
			for _, key := range keys {
				lectures, err := cache.Fetch(ctx, key)
				if err != nil {
					failed++
					a.printf("  %s  %s\n", formatID(key), formatWarning(err.Error()))
					continue
				}
				if err := mirror.SaveLectures(ctx, key, lectures); err != nil {
					return fmt.Errorf("saving %s: %w", key, err)
				}
				a.printf("  %s  %d lectures\n", formatID(key), len(lectures))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d sources failed", failed, len(keys))
			}
			return nil
		},
	}
}

func (a *App) catalogStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show what the mirror holds",
		RunE: func(_ *cobra.Command, _ []string) error {
			mirror, err := a.openMirror()
			if err != nil {
				return err
			}
			syncs, err := mirror.Syncs(context.Background())
			if err != nil {
				return err
			}
			if len(syncs) == 0 {
				a.println("Mirror is empty. Run 'timetable catalog sync'.")
				return nil
			}
			for _, s := range syncs {
				a.printf("  %s  %d lectures  %s\n",
					formatID(s.Source), s.Count,
					formatMuted("synced "+s.SyncedAt.Local().Format(time.DateTime)))
			}
			return nil
		},
	}
}
