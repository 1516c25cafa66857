package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/gradientbg/internal/params"
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Print the effective gradient configuration",
	Long: `Print the configuration a mount would actually use, after defaults, clamping
and color normalization. The output can be fed back as a --preset.`,
	RunE: runDescribe,
}

func init() {
	rootCmd.AddCommand(describeCmd)

	describeCmd.Flags().String("format", "json", "Output format (json, yaml)")
	addGradientFlags(describeCmd)

	bindFlags(describeCmd, []struct{ key, flag string }{
		{"describe.format", "format"},
	})
}

func runDescribe(cmd *cobra.Command, args []string) error {
	format := viper.GetString("describe.format")

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

	out, err := params.Encode(live, format)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
