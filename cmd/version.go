package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/folio-cli/internal/adapters/codec"
	"github.com/kamal-hamza/folio-cli/internal/core/domain"
	"github.com/kamal-hamza/folio-cli/pkg/ui"
)

// Version information - these can be set during build with ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	Long:  `Display the current version of folio, its build information and the supported file types.`,
	Run:   runVersion,
}

func runVersion(cmd *cobra.Command, args []string) {
	registry := codec.NewRegistry(0)
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, ui.StyleTitle.Render("folio")+" - Portfolio Media Optimizer")
	fmt.Fprintln(out)
	fmt.Fprintln(out, ui.RenderKeyValue("Version", Version))
	fmt.Fprintln(out, ui.RenderKeyValue("Commit", GitCommit))
	fmt.Fprintln(out, ui.RenderKeyValue("Build Date", BuildDate))
	fmt.Fprintln(out)
	fmt.Fprintln(out, ui.RenderKeyValue("Images", strings.Join(registry.Extensions(domain.KindImage), " ")))
	fmt.Fprintln(out, ui.RenderKeyValue("Animated", strings.Join(registry.Extensions(domain.KindAnimated), " ")))
	fmt.Fprintln(out, ui.RenderKeyValue("Skipped videos", strings.Join(registry.Extensions(domain.KindVideo), " ")))
}
