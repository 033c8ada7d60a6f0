package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/folio-cli/internal/adapters/repository"
	"github.com/kamal-hamza/folio-cli/internal/core/domain"
	"github.com/kamal-hamza/folio-cli/internal/core/services"
	"github.com/kamal-hamza/folio-cli/pkg/ui"
	"github.com/kamal-hamza/folio-cli/pkg/workspace"
)

var (
	urlsDryRun  bool
	urlsNoAbout bool
)

var urlsCmd = &cobra.Command{
	Use:   "urls [records-dir]",
	Short: "Add size and format parameters to CDN links in project records",
	Long: `Rewrite the CDN image and video links in project records so the CDN
serves a resized, automatically compressed version.

Every project-*.json file in the records directory is processed, plus the
profile image in about.json next to it. Links that already request f_auto
or q_auto are left untouched.

Before anything is changed, all record files are copied to a timestamped
backup directory next to the records directory. Only the newest
backup_retention backups are kept.

Examples:
  folio urls
  folio urls ./site/projects --dry-run`,
	Args: cobra.MaximumNArgs(1),
	RunE: runURLs,
}

func init() {
	urlsCmd.Flags().BoolVarP(&urlsDryRun, "dry-run", "n", false, "Show what would change without writing")
	urlsCmd.Flags().BoolVar(&urlsNoAbout, "no-about", false, "Skip the profile record")
}

func runURLs(cmd *cobra.Command, args []string) error {
	ctx := getContext(cmd)

	recordsDir := appConfig.RecordsDir
	if len(args) > 0 {
		recordsDir = args[0]
	}
	rewriteService, site := newRewriteService(recordsDir)

	fmt.Println(ui.FormatRocket("Optimizing CDN links in " + site.RecordsDir))
	if urlsDryRun {
		fmt.Println(ui.FormatMuted("Dry run: no files will be changed"))
	}

	resp, err := rewriteService.Execute(ctx, services.RewriteRequest{
		DryRun:       urlsDryRun,
		IncludeAbout: !urlsNoAbout,
		OnResult:     printRecordResult,
	})
	if err != nil {
		if errors.Is(err, services.ErrNoRecords) {
			fmt.Println(ui.FormatWarning(fmt.Sprintf("No %s files found in %s", appConfig.RecordPattern, site.RecordsDir)))
			return nil
		}
		if resp == nil {
			return err
		}
	}

	fmt.Println()
	if resp.BackupDir != "" {
		fmt.Println(ui.RenderKeyValue(ui.IconBackup+" Backup", resp.BackupDir))
	}
	fmt.Println(ui.RenderKeyValue("Records", fmt.Sprintf("%d processed, %d modified, %d failed", resp.Processed, resp.Modified, resp.Failed)))

	if resp.Modified > 0 && !urlsDryRun {
		fmt.Println(ui.FormatSuccess("Links updated. Test the site, then commit the changes."))
	} else if resp.Modified == 0 && resp.Failed == 0 {
		fmt.Println(ui.FormatSuccess("All links are already optimized"))
	}

	if !urlsDryRun {
		removed, pruneErr := rewriteService.PruneBackups(ctx, appConfig.BackupRetention)
		if pruneErr != nil {
			appLog.WithError(pruneErr).Warn("Failed to prune old backups")
		} else if len(removed) > 0 {
			fmt.Println(ui.FormatMuted(fmt.Sprintf("Removed %d old backup(s), keeping %d", len(removed), appConfig.BackupRetention)))
		}
	}

	return err
}

// newRewriteService wires a rewrite service for the records in recordsDir
func newRewriteService(recordsDir string) (*services.RewriteService, workspace.Site) {
	site := workspace.ResolveSite(recordsDir, appConfig.AboutFile)

	repo := repository.NewFileRecordRepository(appFs, repository.RecordRepositoryConfig{
		Dir:          site.RecordsDir,
		Pattern:      appConfig.RecordPattern,
		AboutPath:    site.AboutPath,
		BackupRoot:   site.BackupRoot,
		BackupPrefix: appConfig.BackupPrefix,
	})
	widths := services.RewriteWidths{
		Preview:      appConfig.PreviewWidth,
		ContentImage: appConfig.ContentImageWidth,
		ContentVideo: appConfig.ContentVideoWidth,
		Profile:      appConfig.ProfileWidth,
	}
	return services.NewRewriteService(repo, urlRewriter, widths, appLog), site
}

func printRecordResult(r domain.RecordResult) {
	fmt.Println()
	fmt.Println(ui.StyleHeader.Render(ui.IconRecord + " " + filepath.Base(r.Path)))

	if r.Err != nil {
		fmt.Println(ui.FormatError(r.Err.Error()))
		return
	}

	for _, c := range r.Changes {
		field := string(c.Field)
		if c.Index >= 0 {
			field = fmt.Sprintf("%s[%d]", c.Field, c.Index)
		}
		fmt.Printf("  %s %s %s\n", ui.StyleAccent.Render("➜"), field, ui.FormatMuted(fmt.Sprintf("%s → w_%d", ui.Truncate(c.Before, 60), c.Width)))
	}
	if r.AlreadyOptimized > 0 {
		fmt.Println(ui.FormatMuted(fmt.Sprintf("  %s %d link(s) already optimized", ui.IconSuccess, r.AlreadyOptimized)))
	}
	if !r.Modified {
		fmt.Println(ui.FormatSkip("No changes needed"))
	}
}
