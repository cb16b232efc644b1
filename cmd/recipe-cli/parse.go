package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"recipe-assistant/internal/core/recipe"
	"recipe-assistant/internal/pkg/common"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Extract a recipe from a page and print it as JSON",
	Long: `Parse runs section location, field parsing and step enrichment on a recipe
page. Use --url to download an allowed recipe site or --file to read saved HTML.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := loadRecipe(cmd)
		if err != nil {
			return err
		}
		out, err := common.ToIndentedJSON(r)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	addSourceFlags(parseCmd)
	rootCmd.AddCommand(parseCmd)
}

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().String("url", "", "recipe page URL")
	cmd.Flags().String("file", "", "saved recipe HTML file")
	cmd.Flags().String("name", "", "recipe name (default: page title)")
	cmd.MarkFlagsMutuallyExclusive("url", "file")
	cmd.MarkFlagsOneRequired("url", "file")
}

// loadRecipe 依 --url 或 --file 取得食譜
func loadRecipe(cmd *cobra.Command) (*recipe.Recipe, error) {
	url, _ := cmd.Flags().GetString("url")
	file, _ := cmd.Flags().GetString("file")
	name, _ := cmd.Flags().GetString("name")

	if url != "" {
		r, err := deps.Assistant.FetchRecipe(cmd.Context(), url)
		if err != nil {
			return nil, err
		}
		if name != "" {
			r = recipe.New(name, r.URL(), r.Ingredients(), r.Steps())
		}
		return r, nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	return deps.Assistant.ParseRecipe(name, "file://"+file, string(data))
}
