package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"recipe-assistant/internal/core/dialogue"
	"recipe-assistant/internal/core/extract"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask questions about a recipe in an interactive session",
	Long: `Chat loads one recipe and reads questions from standard input, one per line.
Type "exit" or "quit" (or send EOF) to leave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := loadRecipe(cmd)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		engine := deps.Assistant.Engine()
		conv := dialogue.NewConversation(r)
		fmt.Fprintf(out, "Loaded %q with %d steps. Ask away.\n", r.Name(), r.Len())

		scanner := bufio.NewScanner(cmd.InOrStdin())
		for {
			fmt.Fprint(out, "> ")
			if !scanner.Scan() {
				fmt.Fprintln(out)
				return scanner.Err()
			}
			question := strings.TrimSpace(scanner.Text())
			switch strings.ToLower(question) {
			case "":
				continue
			case "exit", "quit":
				return nil
			}

			reply := engine.Ask(cmd.Context(), conv, question)
			fmt.Fprintln(out, plainText(reply.Text))
			for _, s := range reply.Suggestions {
				fmt.Fprintf(out, "  [%s] %s\n", s.Display, s.Fill)
			}
		}
	},
}

func init() {
	addSourceFlags(chatCmd)
	rootCmd.AddCommand(chatCmd)
}

// plainText 去掉回覆中的 HTML 標籤
func plainText(answer string) string {
	doc, err := extract.ParseHTML(answer)
	if err != nil {
		return answer
	}
	return extract.SpacedText(doc.Selection)
}
