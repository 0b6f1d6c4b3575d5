package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/busrag/internal/core/domain"
)

var (
	askLimit int
	askJSON  bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question from the indexed corpus",
	Long: `Retrieves the passages nearest to the question and asks the configured
LLM to answer from them. The passages are listed as sources.

Requires an LLM provider: busrag settings set llm.provider ollama`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askLimit, "limit", "n", domain.DefaultAskK,
		"number of passages to ground the answer in (default from retrieval.ask_k)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if answerService == nil {
		return errors.New("answer service not configured")
	}
	if err := ensureIndex(cmd); err != nil {
		return err
	}

	k := resolveK(cmd, askLimit, func(s *domain.AppSettings) int { return s.Retrieval.AskK })
	answer, err := answerService.Ask(commandContext(cmd), args[0], k)
	if errors.Is(err, domain.ErrNoGroundingData) {
		cmd.PrintErrln("No data indexed to answer this question.")
		return nil
	}
	if errors.Is(err, domain.ErrLLMUnavailable) {
		return errors.New("no LLM configured; run 'busrag settings set llm.provider <ollama|openai|anthropic>'")
	}
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return outputJSON(cmd, answer)
	}

	cmd.Printf("Answer: %s\n", answer.Text)
	cmd.Println()
	cmd.Println("Sources:")
	for i, s := range answer.Sources {
		cmd.Printf("  [%d] %s\n", i+1, s.ID)
		cmd.Println(indent(s.Text, "      "))
	}
	return nil
}
