package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/schemadoc/schemadoc/internal/indexer"
	"github.com/schemadoc/schemadoc/internal/indexstore"
	"github.com/schemadoc/schemadoc/internal/llm"
)

var (
	indexIncremental    bool
	indexResume         bool
	indexForce          bool
	indexSkipEmbeddings bool
	indexDryRun         bool
	indexWorkUnit       string
	indexStats          bool
	indexVerify         bool
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "parse generated artifacts, compute embeddings, and load the search index",
	Run: func(cmd *cobra.Command, args []string) {
		runIndex()
	},
}

func init() {
	indexCmd.Flags().BoolVar(&indexIncremental, "incremental", false, "only reindex new/changed/deleted files since the last run")
	indexCmd.Flags().BoolVar(&indexResume, "resume", false, "resume a previously interrupted run from its checkpoint")
	indexCmd.Flags().BoolVar(&indexForce, "force", false, "reindex and rebuild relationships even if nothing changed")
	indexCmd.Flags().BoolVar(&indexSkipEmbeddings, "skip-embeddings", false, "index documents without computing vector embeddings")
	indexCmd.Flags().BoolVar(&indexDryRun, "dry-run", false, "parse and validate without writing to the index store")
	indexCmd.Flags().StringVar(&indexWorkUnit, "work-unit", "", "limit indexing to a single work unit's files")
	indexCmd.Flags().BoolVar(&indexStats, "stats", false, "print index store document counts and exit")
	indexCmd.Flags().BoolVar(&indexVerify, "verify", false, "verify the index against the manifest and exit")
	rootCmd.AddCommand(indexCmd)
}

func openIndexStore() *indexstore.PostgresStore {
	dsn := os.Getenv("SCHEMADOC_INDEX_DSN")
	if dsn == "" {
		fatalf("SCHEMADOC_INDEX_DSN must be set to the Postgres index store's connection string")
	}
	store, err := indexstore.Open(rootCtx, dsn, 0)
	if err != nil {
		fatalf("opening index store: %v", err)
	}
	return store
}

func runIndex() {
	store := openIndexStore()

	if indexStats || indexVerify {
		runIndexInspect(store)
		return
	}

	// Anthropic has no embeddings endpoint, so the indexer's client embeds
	// through OpenAI whatever LLM_PRIMARY_MODEL names.
	embedClient := buildLLMClient()
	embedClient.Primary = llm.NewOpenAIProvider("")

	opts := indexer.Options{
		Store:          store,
		LLM:            embedClient,
		EmbeddingModel: envOrDefault("LLM_EMBEDDING_MODEL", "text-embedding-3-small"),
		Incremental:    indexIncremental,
		Resume:         indexResume,
		Force:          indexForce,
		SkipEmbeddings: indexSkipEmbeddings,
		DryRun:         indexDryRun,
		WorkUnit:       indexWorkUnit,
	}

	if err := indexer.Run(rootCtx, opts); err != nil {
		fatalf("indexing: %v", err)
	}
	fmt.Println("indexing run complete; see progress/indexer-progress.json")
}

func runIndexInspect(store *indexstore.PostgresStore) {
	hashes, err := store.ContentHashes(rootCtx)
	if err != nil {
		fatalf("reading index store content hashes: %v", err)
	}

	if indexStats {
		fmt.Printf("indexed files: %d\n", len(hashes))
	}

	if indexVerify {
		manifest, _, err := indexer.LoadManifest()
		if err != nil {
			fatalf("loading manifest: %v", err)
		}
		var missing []string
		for _, f := range manifest.IndexableFiles {
			if hashes[f.Path] != f.ContentHash {
				missing = append(missing, f.Path)
			}
		}
		if len(missing) == 0 {
			fmt.Println("index matches the manifest")
			return
		}
		fmt.Printf("%d manifest entries missing or stale in the index:\n", len(missing))
		for _, path := range missing {
			fmt.Println("  " + path)
		}
		os.Exit(1)
	}
}
