package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var toolsOutputFormat string

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the available tools and their schemas",
	RunE: func(cmd *cobra.Command, args []string) error {
		defs := buildRegistry().ListDefinitions()

		switch toolsOutputFormat {
		case "json":
			out, err := json.MarshalIndent(defs, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
		case "yaml":
			out, err := yaml.Marshal(defs)
			if err != nil {
				return err
			}
			fmt.Print(string(out))
		case "names":
			for _, def := range defs {
				fmt.Printf("%-32s %s\n", def.Name, def.Description)
			}
		default:
			return fmt.Errorf("unknown output format: %s", toolsOutputFormat)
		}
		return nil
	},
}

func init() {
	toolsCmd.Flags().StringVarP(&toolsOutputFormat, "output", "o", "names", "output format: names, json, or yaml")
	rootCmd.AddCommand(toolsCmd)
}
