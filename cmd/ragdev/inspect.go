package ragdev

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ShenSeanChen/yt-agentic-rag/pkg/config"
	"github.com/ShenSeanChen/yt-agentic-rag/pkg/rag"
)

var inspectSample int

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Inspect stored embedding dimensions",
	Long: `Reads a sample of stored embedding vectors and reports the chunk count,
the vector dimension found, and the leading values of one embedding. Warns
when sampled dimensions disagree or differ from the configured dimension.`,
	Run: runInspect,
}

func init() {
	inspectCmd.Flags().IntVar(&inspectSample, "sample", 5, "number of embeddings to sample")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	logger := newLogger()
	defer logger.Sync()

	if cfg.Database.URL == "" {
		fmt.Printf("error: %s is not set\n", config.EnvDatabaseURL)
		os.Exit(1)
	}

	store, err := rag.Connect(ctx, cfg.Database.URL, storeConfig(), logger)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close(ctx)

	count, err := store.CountChunks(ctx)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%d chunks in %s\n", count, store.Config.TableName)

	samples, err := store.SampleEmbeddings(ctx, inspectSample)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
	if len(samples) == 0 {
		fmt.Println("no embeddings stored, nothing to inspect")
		return
	}

	for _, s := range samples {
		fmt.Printf("  %-28s dim=%d\n", s.ChunkID, s.Dimension())
	}
	fmt.Printf("leading values of %s: %v\n", samples[0].ChunkID, samples[0].LeadingValues(8))

	report := rag.InspectDimensions(samples, store.Config.Dimensions)
	switch {
	case !report.Consistent:
		fmt.Printf("warning: dimension mismatch across samples, chunks %v differ from %d\n",
			report.Mismatched, report.Dimension)
	case report.Dimension != report.Expected:
		fmt.Printf("warning: dimension %d differs from expected %d\n",
			report.Dimension, report.Expected)
	default:
		fmt.Printf("dimension %d, consistent across %d samples\n", report.Dimension, len(samples))
	}
}
