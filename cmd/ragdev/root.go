package ragdev

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ShenSeanChen/yt-agentic-rag/pkg/config"
	"github.com/ShenSeanChen/yt-agentic-rag/pkg/rag"
)

var cfgFile string
var logLevel string
var cfg *config.Config
var rootCmd = &cobra.Command{
	Use:   "ragdev",
	Short: "Developer tools for the agentic RAG service",
	Long:  `ragdev validates, seeds, inspects and chats with the RAG service and its vector store`,
	Run: func(cmd *cobra.Command, args []string) {
		versionFlag, _ := cmd.Flags().GetBool("version")
		if versionFlag {
			fmt.Println(config.Version)
			return
		}

		// If no subcommand is provided, print help
		cmd.Help()
	},
}

func Main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/ragdev.yaml)")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "L", "info", "log at this level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolP("version", "v", false, "Print the version number")
}

func initConfig() {
	// Merge a local .env first; the real environment wins.
	_ = godotenv.Load()

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}
}

// newLogger builds a zap logger honouring the --log-level flag.
func newLogger() *zap.Logger {
	level, err := zap.ParseAtomicLevel(logLevel)
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = level
	logger, err := zapCfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// storeConfig assembles the vector-store client config from the loaded
// configuration.
func storeConfig() rag.Config {
	sc := rag.DefaultConfig()
	sc.TableName = cfg.Database.Table
	sc.ModelID = cfg.LLM.EmbedModel
	sc.APIURL = cfg.LLM.APIURL
	sc.APIKey = cfg.LLM.APIKey
	sc.Dimensions = cfg.LLM.Dimensions
	return sc
}
