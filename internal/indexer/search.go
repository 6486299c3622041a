package indexer

import (
	"context"
	"encoding/json"
	"fmt"

	"funcscan/internal/models"
	"funcscan/internal/qdrant"
	"funcscan/internal/scanner"
)

// Search embeds the query and returns the closest indexed function records
// for the project rooted at rootPath.
func (idx *Indexer) Search(ctx context.Context, rootPath, query string, topK int) ([]models.SearchHit, error) {
	if topK <= 0 {
		topK = 10
	}

	projectID, err := scanner.ProjectID(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to compute project id: %w", err)
	}
	collection := CollectionName(projectID)

	vector, err := idx.embeddings.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	points, err := idx.qdrant.Search(ctx, collection, vector, uint64(topK))
	if err != nil {
		return nil, err
	}

	hits := make([]models.SearchHit, 0, len(points))
	for _, point := range points {
		payloadJSON, err := json.Marshal(qdrant.PayloadToMap(point.Payload))
		if err != nil {
			continue
		}
		var payload models.FunctionPayload
		if err := json.Unmarshal(payloadJSON, &payload); err != nil {
			continue
		}
		hits = append(hits, models.SearchHit{Score: point.Score, Payload: payload})
	}
	return hits, nil
}
