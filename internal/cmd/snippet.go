package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/gradientbg/internal/snippet"
)

var snippetCmd = &cobra.Command{
	Use:   "snippet",
	Short: "Print an HTML embed snippet for the configuration",
	RunE:  runSnippet,
}

func init() {
	rootCmd.AddCommand(snippetCmd)

	snippetCmd.Flags().String("selector", snippet.DefaultSelector, "CSS selector of the mount element")
	snippetCmd.Flags().String("script", snippet.DefaultScript, "URL of the embed runtime")
	snippetCmd.Flags().Bool("copy", false, "Also copy the snippet to the clipboard (OSC 52)")
	addGradientFlags(snippetCmd)

	bindFlags(snippetCmd, []struct{ key, flag string }{
		{"snippet.selector", "selector"},
		{"snippet.script", "script"},
		{"snippet.copy", "copy"},
	})
}

func runSnippet(cmd *cobra.Command, args []string) error {
	selector := viper.GetString("snippet.selector")
	script := viper.GetString("snippet.script")
	copyOut := viper.GetBool("snippet.copy")

	if logger == nil {
		initLogging()
	}

	cfg, err := loadGradientConfig(cmd)
	if err != nil {
		return err
	}
	live, err := describeConfig(cfg)
	if err != nil {
		return err
	}

	text, err := snippet.Generate(live, snippet.Options{Selector: selector, Script: script})
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), text)

	if copyOut {
		// Clipboard failures are reported, never fatal.
		err := snippet.NewOSC52(os.Stderr).Copy(text)
		if err != nil {
			logger.Debug("Clipboard copy failed", "error", err)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), snippet.CopyMessage(err))
	}
	return nil
}
