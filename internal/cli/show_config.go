package cli

import (
	"fmt"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var showConfigPretty bool

var showConfigCmd = &cobra.Command{
	Use:   "show-config",
	Short: "Print the effective configuration after file, environment and flags",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		if showConfigPretty {
			_, err := pp.Fprintln(w, currentConfig)
			return err
		}

		data, err := yaml.Marshal(currentConfig)
		if err != nil {
			return fmt.Errorf("failed to render config: %w", err)
		}
		_, err = w.Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(showConfigCmd)

	showConfigCmd.Flags().BoolVar(&showConfigPretty, "pretty", false, "Pretty-print with colors instead of YAML")
}
