// Small operational helper: counts the points stored for a project's collection.
// Run with: go run ./tools <project-dir>
package main

import (
	"context"
	"fmt"
	"os"

	qdrantpb "github.com/qdrant/go-client/qdrant"

	"funcscan/internal/config"
	"funcscan/internal/indexer"
	"funcscan/internal/qdrant"
	"funcscan/internal/scanner"
)

func main() {
	if err := config.LoadFromUserConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
	}

	dir := "."
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}
	projectID, err := scanner.ProjectID(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to compute project id: %v\n", err)
		os.Exit(1)
	}
	collectionName := indexer.CollectionName(projectID)

	qc, err := qdrant.NewClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create qdrant client: %v\n", err)
		os.Exit(1)
	}
	defer qc.Close()

	ctx := context.Background()
	var totalPoints int
	var offset *qdrantpb.PointId
	limit := uint32(100)

	fmt.Printf("Checking collection: %s\n", collectionName)

	for {
		points, nextOffset, err := qc.Scroll(ctx, collectionName, limit, offset)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error scrolling: %v\n", err)
			break
		}

		totalPoints += len(points)
		if len(points) > 0 {
			fmt.Printf("  Batch: %d points\n", len(points))
		}

		if nextOffset == nil || len(points) == 0 {
			break
		}
		offset = nextOffset
	}

	fmt.Printf("\n✓ Total points in collection: %d\n", totalPoints)
}
