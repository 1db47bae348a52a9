package cmd

import (
	"github.com/spf13/cobra"

	"github.com/aroldanm/mkdw-demo/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize mkdw configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure mkdw and generates a .mkdw.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
