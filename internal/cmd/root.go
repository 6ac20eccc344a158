package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shubham-0921/kbc-ai/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "kbc",
	Short: "Team trivia game for the terminal",
	Long: `kbc runs a team-versus-team trivia game in your terminal.

Players are split into teams, each team picks a topic on its turn, and a
question about that topic is generated on the spot. Two lifelines, a hot
seat that rotates through every team member, and a saved game that
survives a closed terminal are included.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/kbc/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("KBC")
	// Replace dots with underscores for nested keys in env vars
	// e.g., KBC_GAME_QUESTIONS_PER_TEAM for game.questions_per_team
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
