package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List the topics teams can pick from",
	Long: `List the topic pool. The built-in topics are used unless
game.topics_file points at a YAML topic pack:

  name: Bollywood night
  topics:
    - 90s Bollywood
    - Filmfare Awards`,
	Args: cobra.NoArgs,
	RunE: runTopics,
}

func init() {
	rootCmd.AddCommand(topicsCmd)
}

func runTopics(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	topics, err := cfg.Game.Topics()
	if err != nil {
		return fmt.Errorf("failed to load topics: %w", err)
	}

	out := cmd.OutOrStdout()
	source := "built-in"
	if cfg.Game.TopicsFile != "" {
		source = cfg.Game.TopicsFile
	}
	fmt.Fprintf(out, "%d topics (%s):\n", len(topics), source)
	for _, topic := range topics {
		fmt.Fprintf(out, "  %s\n", topic)
	}
	return nil
}
