package cmd

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/folio-cli/internal/core/services"
	"github.com/kamal-hamza/folio-cli/pkg/ui"
)

var (
	urlWidth int
	urlCopy  bool
)

var urlCmd = &cobra.Command{
	Use:   "url <url>",
	Short: "Add size and format parameters to a single CDN link",
	Long: `Print the optimized form of one CDN link.

Links on other hosts, links without an /upload/ segment and links that
already request f_auto or q_auto are printed unchanged.

Examples:
  folio url https://res.cloudinary.com/<cloud>/image/upload/v1/hero.jpg
  folio url <link> --width 800 --copy`,
	Args: cobra.ExactArgs(1),
	RunE: runURL,
}

func init() {
	urlCmd.Flags().IntVarP(&urlWidth, "width", "w", 0, "Target width (default: content image width from config)")
	urlCmd.Flags().BoolVarP(&urlCopy, "copy", "c", false, "Copy the result to the clipboard")
}

func runURL(cmd *cobra.Command, args []string) error {
	src := args[0]

	width := appConfig.ContentImageWidth
	if cmd.Flags().Changed("width") {
		if urlWidth <= 0 {
			return fmt.Errorf("width must be positive, got %d", urlWidth)
		}
		width = urlWidth
	}

	out := urlRewriter.Rewrite(src, width)
	fmt.Fprintln(cmd.OutOrStdout(), out)

	switch {
	case !urlRewriter.IsCDNURL(src):
		fmt.Fprintln(cmd.ErrOrStderr(), ui.FormatWarning("Not a "+appConfig.CDNBase+" link, left unchanged"))
	case services.IsOptimized(src):
		fmt.Fprintln(cmd.ErrOrStderr(), ui.FormatMuted(ui.IconSuccess+" Already optimized"))
	case out == src:
		fmt.Fprintln(cmd.ErrOrStderr(), ui.FormatWarning("No "+services.UploadMarker+" segment, left unchanged"))
	}

	if urlCopy {
		if err := clipboard.WriteAll(out); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), ui.FormatWarning("Could not copy to clipboard: "+err.Error()))
			return nil
		}
		fmt.Fprintln(cmd.ErrOrStderr(), ui.FormatSuccess("Copied to clipboard"))
	}

	return nil
}
