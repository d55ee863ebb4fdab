package ragdev

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ShenSeanChen/yt-agentic-rag/pkg/api"
	"github.com/ShenSeanChen/yt-agentic-rag/pkg/rag"
)

// verifyQueries are answerable from the default seed corpus. The first two
// are identical on purpose: identical text must embed to near-identical
// vectors and retrieve the same chunks.
var verifyQueries = []string{
	"What is your return policy?",
	"What is your return policy?",
	"How long does shipping take?",
	"How do I schedule a product demo?",
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Demonstrate that vector retrieval is real",
	Long: `Embeds the same text twice and checks the vectors agree, runs a fixed
set of similarity queries against the service, and cross-checks the first
query directly against the vector store.`,
	Run: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	logger := newLogger()
	defer logger.Sync()

	apiClient, err := api.NewClient(cfg.API.BaseURL, logger)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
	apiClient.TopK = cfg.API.TopK

	store := openStoreBestEffort(ctx, logger)
	defer store.Close(ctx)

	// Identical text must produce near-identical embeddings.
	fmt.Printf("embedding %q twice\n", verifyQueries[0])
	first, err := store.FetchEmbedding(ctx, []string{verifyQueries[0]})
	if err != nil {
		fmt.Printf("error: embeddings API unreachable: %v\n", err)
		os.Exit(1)
	}
	second, err := store.FetchEmbedding(ctx, []string{verifyQueries[0]})
	if err != nil {
		fmt.Printf("error: embeddings API unreachable: %v\n", err)
		os.Exit(1)
	}
	if len(first) == 0 || len(second) == 0 {
		fmt.Println("error: embeddings API returned no vectors")
		os.Exit(1)
	}

	a, b := first[0], second[0]
	fmt.Printf("  first:  dim=%d leading=%v\n", len(a), leading(a, 8))
	fmt.Printf("  second: dim=%d leading=%v\n", len(b), leading(b, 8))
	sim := rag.CosineSimilarity(a, b)
	fmt.Printf("  cosine similarity: %.6f  [%s] (want >= 0.99)\n", sim, passFail(sim >= 0.99))

	// Fixed queries against the service's search endpoint.
	var topHits []api.SearchMatch
	for i, query := range verifyQueries {
		fmt.Printf("\nsearch %d: %q\n", i+1, query)
		resp, err := apiClient.Search(ctx, query, cfg.API.TopK)
		if err != nil {
			fmt.Printf("error: search failed: %v\n", err)
			os.Exit(1)
		}
		if len(resp.Matches) == 0 {
			fmt.Println("  no matches (is the database seeded?)")
			topHits = append(topHits, api.SearchMatch{})
			continue
		}
		for _, m := range resp.Matches {
			fmt.Printf("  %.4f  %-28s %s\n", m.Similarity, m.ChunkID, snippet(m.Content, 60))
		}
		topHits = append(topHits, resp.Matches[0])
	}

	// The identical pair must agree on the top chunk and its score.
	if topHits[0].ChunkID != "" && topHits[1].ChunkID != "" {
		sameChunk := topHits[0].ChunkID == topHits[1].ChunkID
		scoreDelta := math.Abs(topHits[0].Similarity - topHits[1].Similarity)
		fmt.Printf("\nidentical queries: same top chunk=%v score delta=%.6f  [%s]\n",
			sameChunk, scoreDelta, passFail(sameChunk && scoreDelta < 0.01))
	}

	// Cross-check the first query directly against the store.
	if !store.HasDatabase() {
		fmt.Println("\nwarning: database unavailable, skipping store cross-check")
		return
	}
	chunks, err := store.SearchSimilar(ctx, a, cfg.API.TopK)
	if err != nil {
		fmt.Printf("\nwarning: store cross-check failed: %v\n", err)
		return
	}
	fmt.Printf("\nstore scan for %q (ORDER BY embedding <=> query):\n", verifyQueries[0])
	for _, c := range chunks {
		fmt.Printf("  %.4f  %-28s %s\n", c.Similarity, c.ChunkID, snippet(c.Content, 60))
	}
}

// openStoreBestEffort connects to the database when configured; on failure it
// returns an API-only client so the embedding checks still run.
func openStoreBestEffort(ctx context.Context, logger *zap.Logger) *rag.Client {
	if cfg.Database.URL != "" {
		store, err := rag.Connect(ctx, cfg.Database.URL, storeConfig(), logger)
		if err == nil {
			return store
		}
		fmt.Printf("warning: database unavailable: %v\n", err)
	}

	store, err := rag.NewClient(nil, storeConfig(), logger)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
	return store
}

func leading(v []float32, n int) []float32 {
	if n > len(v) {
		n = len(v)
	}
	return v[:n]
}

func passFail(ok bool) string {
	if ok {
		return "PASS"
	}
	return "FAIL"
}

// snippet truncates to n runes so a multi-byte character is never split.
func snippet(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
