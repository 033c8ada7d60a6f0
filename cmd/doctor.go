package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/folio-cli/internal/core/services"
	"github.com/kamal-hamza/folio-cli/pkg/ui"
	"github.com/kamal-hamza/folio-cli/pkg/workspace"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the health of your folio setup",
	Long: `Diagnose issues with your folio setup.

Checks for:
  - Configuration file existence and validity
  - Input, output and records directories
  - Clipboard support (for 'folio url --copy')
  - Malformed records and links that are not optimized yet`,
	Run: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) {
	ctx := getContext(cmd)

	fmt.Println(ui.FormatTitle("🏥 folio doctor"))
	fmt.Println()

	// 1. Check Config
	checkStep("Configuration File", func() error {
		if _, err := os.Stat(appWorkspace.ConfigPath); os.IsNotExist(err) {
			return fmt.Errorf("missing at %s (defaults in use, run 'folio config init')", appWorkspace.ConfigPath)
		}
		return nil
	})

	checkStep("Configuration Values", func() error {
		return appConfig.Validate()
	})

	// 2. Check Directories
	checkStep("Input Directory", func() error {
		if !workspace.IsDir(appConfig.InputDir) {
			return fmt.Errorf("not found at %s", appConfig.InputDir)
		}
		return nil
	})

	checkStep("Output Directory", func() error {
		output := workspace.ResolveOutputDir(appConfig.InputDir, appConfig.OutputDir)
		if workspace.IsDir(output) {
			return checkWritable(output)
		}
		return fmt.Errorf("not created yet at %s (created on first run)", output)
	})

	checkStep("Records Directory", func() error {
		if !workspace.IsDir(appConfig.RecordsDir) {
			return fmt.Errorf("not found at %s (only needed for 'folio urls')", appConfig.RecordsDir)
		}
		return nil
	})

	// 3. Check Tools
	checkStep("Clipboard", func() error {
		if clipboard.Unsupported {
			return fmt.Errorf("unsupported on this system (install xclip, xsel or wl-clipboard)")
		}
		return nil
	})

	checkStep("ffmpeg (Videos)", func() error {
		if _, err := exec.LookPath("ffmpeg"); err != nil {
			return fmt.Errorf("not found (videos are skipped, compress them separately)")
		}
		return nil
	})

	if !workspace.IsDir(appConfig.RecordsDir) {
		return
	}

	fmt.Println()
	fmt.Println(ui.FormatInfo("Checking records..."))

	rewriteService, _ := newRewriteService(appConfig.RecordsDir)
	resp, err := rewriteService.Execute(ctx, services.RewriteRequest{DryRun: true, IncludeAbout: true})

	checkStep("Record Integrity", func() error {
		if errors.Is(err, services.ErrNoRecords) {
			return fmt.Errorf("no %s files found", appConfig.RecordPattern)
		}
		if err != nil {
			return err
		}

		var broken []string
		for _, r := range resp.Results {
			if r.Err != nil {
				broken = append(broken, r.Err.Error())
			}
		}
		if len(broken) > 0 {
			return fmt.Errorf("%d malformed record(s):\n    %s", len(broken), strings.Join(broken, "\n    "))
		}
		return nil
	})

	checkStep("Link Optimization", func() error {
		if resp == nil {
			return fmt.Errorf("skipped")
		}
		pending := 0
		for _, r := range resp.Results {
			pending += len(r.Changes)
		}
		if pending > 0 {
			return fmt.Errorf("%d link(s) can be optimized (run 'folio urls')", pending)
		}
		return nil
	})
}

// checkWritable creates and removes a temporary file in dir
func checkWritable(dir string) error {
	f, err := afero.TempFile(appFs, dir, ".folio-doctor-*")
	if err != nil {
		return fmt.Errorf("not writable: %w", err)
	}
	name := f.Name()
	f.Close()
	return appFs.Remove(name)
}

// checkStep runs a check function and prints the result nicely
func checkStep(name string, check func() error) {
	err := check()
	if err == nil {
		fmt.Printf("%s %s\n", ui.StyleSuccess.Render(ui.IconSuccess), name)
	} else {
		fmt.Printf("%s %s\n", ui.StyleError.Render(ui.IconError), name)
		fmt.Printf("    %s\n", ui.StyleMuted.Render(err.Error()))
	}
}
