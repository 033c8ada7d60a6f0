package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/folio-cli/pkg/ui"
)

var cleanKeep int

var cleanCmd = &cobra.Command{
	Use:   "clean [records-dir]",
	Short: "Remove old record backups",
	Long: `Remove record backup directories created by 'folio urls', keeping the
newest ones.

By default backup_retention backups are kept. Use --keep 0 to remove all.

Examples:
  folio clean             # Keep the newest backups from config
  folio clean --keep 1    # Keep only the latest backup`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().IntVarP(&cleanKeep, "keep", "k", 0, "Number of backups to keep (default from config)")
}

func runClean(cmd *cobra.Command, args []string) error {
	ctx := getContext(cmd)

	recordsDir := appConfig.RecordsDir
	if len(args) > 0 {
		recordsDir = args[0]
	}
	rewriteService, site := newRewriteService(recordsDir)

	keep := appConfig.BackupRetention
	if cmd.Flags().Changed("keep") {
		keep = cleanKeep
	}

	fmt.Print(ui.StyleWarning.Render(fmt.Sprintf("Cleaning backups in %s... ", site.BackupRoot)))

	removed, err := rewriteService.PruneBackups(ctx, keep)
	if err != nil {
		fmt.Println(ui.FormatError("Failed"))
		return err
	}

	fmt.Println(ui.FormatSuccess("Done"))
	if len(removed) == 0 {
		fmt.Println(ui.FormatMuted(fmt.Sprintf("Nothing to remove (keeping %d).", keep)))
		return nil
	}
	for _, dir := range removed {
		fmt.Println(ui.FormatMuted("  removed " + dir))
	}
	return nil
}
