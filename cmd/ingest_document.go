/*
Copyright © 2025 docuchat
*/
package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/docuchat/pdf-gpt-be/config"
	"github.com/docuchat/pdf-gpt-be/database"
	"github.com/docuchat/pdf-gpt-be/service"
	"github.com/docuchat/pdf-gpt-be/types"
	"github.com/docuchat/pdf-gpt-be/utils"
	"github.com/spf13/cobra"
)

// ingestDocumentCmd ingests a PDF into a namespace from the command line,
// useful for seeding a session or smoke-testing the pipeline without the
// server.
var ingestDocumentCmd = &cobra.Command{
	Use:   "ingest-document",
	Short: "Ingest a PDF into a session namespace",
	Long: `Extracts text from a PDF, chunks it, embeds the chunks and stores
them in the configured vector index under the given namespace. Replaces
whatever document the namespace currently holds.`,
	Run: func(cmd *cobra.Command, args []string) {
		filePath, _ := cmd.Flags().GetString("file")
		namespace, _ := cmd.Flags().GetString("namespace")
		if filePath == "" || namespace == "" {
			log.Fatal("both --file and --namespace are required")
		}

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		if cfg.VectorStore != "weaviate" {
			log.Fatal("ingest-document needs a persistent vector store, set vector_store: weaviate")
		}
		weaviateDb, err := database.NewWeaviateStore(cfg.WeaviateStoreConfig)
		if err != nil {
			log.Fatalf("Failed to connect to Weaviate: %v", err)
		}

		pdfService := service.NewPDFService(
			types.DocumentServiceConfig{
				MaxChunkSize: cfg.MaxChunkSize,
				OverlapSize:  cfg.OverlapSize,
			}, nil, nil)
		embedder := service.NewOpenAIEmbedder(cfg.AIEndpoint, cfg.OpenAIAPIKey, cfg.EmbeddingModel)
		indexService := service.NewIndexService(embedder, weaviateDb, cfg.TopK, nil)

		storedPath, err := utils.CopyFileWithTimestamp(filePath, cfg.UploadDir)
		if err != nil {
			log.Fatalf("Failed to copy file: %v", err)
		}

		ctx := context.Background()
		doc, err := pdfService.ProcessPDF(ctx, storedPath)
		if err != nil {
			log.Fatalf("Failed to process PDF: %v", err)
		}
		if err := indexService.BuildIndex(ctx, namespace, doc); err != nil {
			log.Fatalf("Failed to build index: %v", err)
		}

		fmt.Printf("Ingested %q: %d pages, %d chunks into namespace %s\n",
			doc.Title, doc.TotalPages, len(doc.Chunks), namespace)
	},
}

func init() {
	rootCmd.AddCommand(ingestDocumentCmd)
	ingestDocumentCmd.Flags().StringP("file", "f", "", "path to the PDF file")
	ingestDocumentCmd.Flags().StringP("namespace", "n", "", "session or user namespace")
}
