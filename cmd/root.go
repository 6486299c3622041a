package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"funcscan/internal/analyzer"
	"funcscan/internal/callgraph"
	"funcscan/internal/config"
	"funcscan/internal/embeddings"
	"funcscan/internal/indexer"
	"funcscan/internal/models"
	"funcscan/internal/parser"
	"funcscan/internal/qdrant"
	"funcscan/internal/report"
	"funcscan/internal/scanner"
)

// Version info, set from main via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "funcscan",
	Short: "Function metadata extractor for JavaScript and TypeScript codebases",
	Long:  "A CLI tool that walks tree-sitter parse trees and reports each function's name, parameters, inferred return type, enclosing class, and callees",
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Extract function records from a file or project directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		dir, _ := cmd.Flags().GetString("dir")
		positions, _ := cmd.Flags().GetBool("positions")
		noTypes, _ := cmd.Flags().GetBool("no-types")

		opts := analyzer.Options{
			InferReturnTypes: !noTypes,
			IncludePositions: positions,
		}

		results, err := runAnalysis(cmd.Context(), file, dir, opts)
		if err != nil {
			return err
		}
		return report.Write(os.Stdout, results)
	},
}

var callgraphCmd = &cobra.Command{
	Use:   "callgraph",
	Short: "Build a project-wide call graph and print it as DOT or JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		format, _ := cmd.Flags().GetString("format")

		results, err := runAnalysis(cmd.Context(), "", dir, analyzer.Options{})
		if err != nil {
			return err
		}

		graph := callgraph.Build(results)
		switch format {
		case "dot":
			return graph.WriteDOT(os.Stdout)
		case "json":
			return graph.WriteJSON(os.Stdout)
		default:
			return fmt.Errorf("unsupported format: %s (use dot or json)", format)
		}
	},
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index extracted function records into Qdrant for semantic search",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadFromUserConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		}

		dir, _ := cmd.Flags().GetString("dir")

		qc, err := qdrant.NewClient()
		if err != nil {
			return err
		}
		defer qc.Close()

		ec := embeddings.NewClient()
		idx := indexer.NewIndexer(qc, ec)

		fmt.Printf("Indexing project at: %s\n", dir)
		return idx.IndexProject(cmd.Context(), dir)
	},
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Semantic search over indexed function records",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadFromUserConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		}

		q, _ := cmd.Flags().GetString("q")
		topK, _ := cmd.Flags().GetInt("top_k")
		dir, _ := cmd.Flags().GetString("dir")

		qc, err := qdrant.NewClient()
		if err != nil {
			return err
		}
		defer qc.Close()

		ec := embeddings.NewClient()
		idx := indexer.NewIndexer(qc, ec)

		hits, err := idx.Search(cmd.Context(), dir, q, topK)
		if err != nil {
			return err
		}

		data, _ := json.MarshalIndent(hits, "", "  ")
		fmt.Println(string(data))
		return nil
	},
}

var clearIndexCmd = &cobra.Command{
	Use:   "clear-index",
	Short: "Delete the Qdrant collection and local state for a project",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadFromUserConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		}

		dir, _ := cmd.Flags().GetString("dir")
		projectID, err := scanner.ProjectID(dir)
		if err != nil {
			return fmt.Errorf("failed to compute project id: %w", err)
		}
		collection := indexer.CollectionName(projectID)

		qc, err := qdrant.NewClient()
		if err != nil {
			return err
		}
		defer qc.Close()

		fmt.Printf("Deleting collection: %s\n", collection)
		if err := qc.DeleteCollection(cmd.Context(), collection); err != nil {
			return err
		}
		if err := indexer.ClearProjectState(projectID); err != nil {
			fmt.Fprintf(os.Stderr, "⚠ Failed to clear local state: %v\n", err)
		}
		fmt.Println("✓ Collection deleted")
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("funcscan %s (commit %s, built %s)\n", Version, GitCommit, BuildTime)
	},
}

// runAnalysis analyzes a single file or every supported file under dir.
// Files are processed in sorted path order so output is deterministic;
// within each file, records keep pre-order source order.
func runAnalysis(ctx context.Context, file, dir string, opts analyzer.Options) ([]models.FileResult, error) {
	var files []string
	if file != "" {
		files = []string{file}
	} else {
		found, err := scanner.SourceFiles(dir)
		if err != nil {
			return nil, err
		}
		files = found
		sort.Strings(files)
	}

	factory := parser.NewParserFactory()
	results := make([]models.FileResult, 0, len(files))

	for _, path := range files {
		p, err := factory.GetParserByFilePath(path)
		if err != nil {
			return nil, err
		}

		code, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		result, err := analyzer.AnalyzeSource(ctx, p, code, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "✗ Error analyzing %s: %v\n", path, err)
			continue
		}

		results = append(results, models.FileResult{
			FilePath:    path,
			Language:    p.Language(),
			Functions:   result.Functions,
			Diagnostics: result.Diagnostics,
		})
	}
	return results, nil
}

func init() {
	analyzeCmd.Flags().String("file", "", "Analyze a single source file")
	analyzeCmd.Flags().String("dir", ".", "Project root directory")
	analyzeCmd.Flags().Bool("positions", false, "Include start/end positions in records")
	analyzeCmd.Flags().Bool("no-types", false, "Skip return-type inference")
	callgraphCmd.Flags().String("dir", ".", "Project root directory")
	callgraphCmd.Flags().String("format", "dot", "Output format: dot or json")
	indexCmd.Flags().String("dir", ".", "Project root directory")
	searchCmd.Flags().String("q", "", "Natural language query")
	searchCmd.Flags().Int("top_k", 10, "Maximum number of results to return")
	searchCmd.Flags().String("dir", ".", "Project root directory (must match the directory passed to 'funcscan index')")
	clearIndexCmd.Flags().String("dir", ".", "Project root directory to clear")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(callgraphCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(clearIndexCmd)
	rootCmd.AddCommand(versionCmd)
}

func Execute() error {
	return rootCmd.Execute()
}
