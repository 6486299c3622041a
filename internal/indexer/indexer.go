// Package indexer embeds extracted function records into a Qdrant
// collection for semantic retrieval, with incremental per-file reindexing.
package indexer

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	qdrantpb "github.com/qdrant/go-client/qdrant"

	"funcscan/internal/analyzer"
	"funcscan/internal/config"
	"funcscan/internal/embeddings"
	"funcscan/internal/models"
	"funcscan/internal/parser"
	"funcscan/internal/qdrant"
	"funcscan/internal/scanner"
)

const (
	defaultCollectionName = "funcscan_default"
	collectionPrefix      = "funcscan_"
	NumWorkers            = 4
)

// CollectionName returns the Qdrant collection name for a given project ID.
// If projectID is empty, the shared default collection is used.
func CollectionName(projectID string) string {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return defaultCollectionName
	}
	return collectionPrefix + projectID
}

type Indexer struct {
	qdrant     *qdrant.Client
	embeddings *embeddings.Client
	factory    *parser.ParserFactory
	projectID  string
	collection string
}

func NewIndexer(qc *qdrant.Client, ec *embeddings.Client) *Indexer {
	return &Indexer{
		qdrant:     qc,
		embeddings: ec,
		factory:    parser.NewParserFactory(),
	}
}

// IndexProject analyzes every supported source file under rootPath and
// upserts one point per extracted function. Files whose content hash is
// unchanged since the previous run are skipped; points belonging to removed
// files are deleted.
func (idx *Indexer) IndexProject(ctx context.Context, rootPath string) error {
	normalizedRoot, err := scanner.NormalizeProjectRoot(rootPath)
	if err != nil {
		return fmt.Errorf("failed to normalize project root: %w", err)
	}

	projectID, err := scanner.ProjectID(normalizedRoot)
	if err != nil {
		return fmt.Errorf("failed to compute project id: %w", err)
	}
	idx.projectID = projectID
	idx.collection = CollectionName(projectID)
	fmt.Printf("→ Project fingerprint: %s\n", projectID)
	fmt.Printf("→ Using collection: %s\n", idx.collection)

	files, err := scanner.SourceFiles(normalizedRoot)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Found %d source files\n", len(files))

	if len(files) == 0 {
		fmt.Println("⚠ No source files found to index")
		return nil
	}

	prevHashes, err := loadFileHashes(projectID)
	if err != nil {
		return fmt.Errorf("failed to load file hashes: %w", err)
	}

	currentHashes := make(map[string]string, len(files))
	var changedFiles []string

	for _, f := range files {
		hash, herr := hashFile(f)
		if herr != nil {
			fmt.Fprintf(os.Stderr, "✗ Failed to hash %s: %v\n", f, herr)
			continue
		}
		key := normalizeFilePath(f)
		currentHashes[key] = hash
		if prev, ok := prevHashes[key]; !ok || prev != hash {
			changedFiles = append(changedFiles, f)
		}
	}

	var deletedFiles []string
	for path := range prevHashes {
		if _, ok := currentHashes[path]; !ok {
			deletedFiles = append(deletedFiles, path)
		}
	}

	fmt.Printf("→ Incremental index: %d added/modified, %d deleted, %d total files\n",
		len(changedFiles), len(deletedFiles), len(files))

	if len(changedFiles) == 0 && len(deletedFiles) == 0 {
		fmt.Println("✓ No changes detected, index is already up to date")
		return nil
	}

	for _, normalizedPath := range deletedFiles {
		if err := idx.deleteFilePoints(ctx, normalizedPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ Error deleting vectors for removed file %s: %v\n", normalizedPath, err)
		} else {
			fmt.Printf("✓ Deleted vectors for removed file %s\n", normalizedPath)
		}
	}

	if len(changedFiles) > 0 {
		var wg sync.WaitGroup
		fileCh := make(chan string, len(changedFiles))

		for i := 0; i < NumWorkers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				idx.processWorker(ctx, fileCh)
			}()
		}

		for _, f := range changedFiles {
			fileCh <- f
		}
		close(fileCh)
		wg.Wait()
	}

	if err := saveFileHashes(idx.projectID, currentHashes); err != nil {
		return fmt.Errorf("failed to save file hashes: %w", err)
	}

	fmt.Println("✓ Indexing completed")
	return nil
}

func (idx *Indexer) processWorker(ctx context.Context, fileCh <-chan string) {
	for path := range fileCh {
		if err := idx.processFile(ctx, path); err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", path, err)
		}
	}
}

func (idx *Indexer) processFile(ctx context.Context, path string) error {
	if idx.collection == "" {
		return fmt.Errorf("collection name is not set on indexer")
	}
	normalizedPath := normalizeFilePath(path)

	// Clear existing vectors for this file so removed functions do not
	// leave stale points behind.
	if err := idx.deleteFilePoints(ctx, normalizedPath); err != nil {
		fmt.Fprintf(os.Stderr, "✗ Error deleting existing vectors for %s: %v\n", path, err)
	}

	p, err := idx.factory.GetParserByFilePath(path)
	if err != nil {
		return nil
	}

	code, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	result, err := analyzer.AnalyzeSource(ctx, p, code, analyzer.Options{
		InferReturnTypes: true,
		IncludePositions: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ Error analyzing %s: %v\n", path, err)
		return err
	}
	for _, diag := range result.Diagnostics {
		fmt.Fprintf(os.Stderr, "⚠ %s:%d:%d: %s\n",
			path, diag.StartPosition.Row+1, diag.StartPosition.Column, diag.Message)
	}

	if len(result.Functions) == 0 {
		return nil
	}

	fmt.Printf("→ Processing %s (%d functions)\n", path, len(result.Functions))

	payloads := make([]models.FunctionPayload, 0, len(result.Functions))
	contents := make([]string, 0, len(result.Functions))
	for _, fn := range result.Functions {
		payload := buildPayload(fn, normalizedPath, p.Language(), code)
		payloads = append(payloads, payload)
		contents = append(contents, buildEmbedText(payload))
	}

	vectors, err := idx.embeddings.EmbedBatch(ctx, contents)
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ Error embedding %s: %v\n", path, err)
		return err
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return fmt.Errorf("no embedding vectors returned for %s", path)
	}

	// Ensure the collection lazily using the actual embedding dimension so
	// no separate probe request is needed.
	vectorSize := uint64(len(vectors[0]))
	if err := idx.qdrant.EnsureCollection(ctx, idx.collection, vectorSize); err != nil {
		return err
	}

	points := make([]*qdrantpb.PointStruct, 0, len(payloads))
	for i, payload := range payloads {
		points = append(points, &qdrantpb.PointStruct{
			Id: &qdrantpb.PointId{
				PointIdOptions: &qdrantpb.PointId_Num{
					Num: contentHashToPointID(payload.CodeHash + payload.Qualified),
				},
			},
			Vectors: &qdrantpb.Vectors{
				VectorsOptions: &qdrantpb.Vectors_Vector{
					Vector: &qdrantpb.Vector{
						Data: vectors[i],
					},
				},
			},
			Payload: qdrant.MapToPayload(payloadMap(payload)),
		})
	}

	if err := idx.qdrant.Upsert(ctx, idx.collection, points); err != nil {
		fmt.Fprintf(os.Stderr, "✗ Error upserting %s: %v\n", path, err)
		return err
	}

	fmt.Printf("✓ Indexed %s (%d vectors)\n", path, len(points))
	return nil
}

// buildPayload flattens one FunctionRecord into the stored payload form,
// slicing the function's source text out of code by line span.
func buildPayload(fn models.FunctionRecord, normalizedPath, language string, code []byte) models.FunctionPayload {
	startRow, endRow := 0, 0
	if fn.StartPosition != nil {
		startRow = fn.StartPosition.Row
	}
	if fn.EndPosition != nil {
		endRow = fn.EndPosition.Row
	}
	content := sliceContent(code, startRow, endRow)

	return models.FunctionPayload{
		FilePath:   normalizedPath,
		Language:   language,
		Name:       fn.Name,
		Qualified:  fn.Qualified(),
		Class:      fn.Class,
		Parameters: fn.Parameters,
		ReturnType: fn.ReturnType,
		Calls:      fn.Calls,
		StartRow:   startRow,
		EndRow:     endRow,
		CodeHash:   scanner.HashContent(content),
		Content:    content,
	}
}

// buildEmbedText combines record metadata with the function source so the
// embedding carries symbol, signature, and call-level signals.
func buildEmbedText(payload models.FunctionPayload) string {
	metaLines := []string{
		fmt.Sprintf("file_path: %s", payload.FilePath),
		fmt.Sprintf("language: %s", payload.Language),
		fmt.Sprintf("function: %s", payload.Qualified),
	}
	if payload.Class != "" {
		metaLines = append(metaLines, fmt.Sprintf("class: %s", payload.Class))
	}
	if payload.Parameters != "" {
		metaLines = append(metaLines, fmt.Sprintf("parameters: %s", payload.Parameters))
	}
	if payload.ReturnType != "" {
		metaLines = append(metaLines, fmt.Sprintf("return_type: %s", payload.ReturnType))
	}
	if len(payload.Calls) > 0 {
		metaLines = append(metaLines, fmt.Sprintf("calls: %s", strings.Join(payload.Calls, ", ")))
	}
	return fmt.Sprintf("%s\n\n%s", strings.Join(metaLines, "\n"), payload.Content)
}

func payloadMap(payload models.FunctionPayload) map[string]interface{} {
	return map[string]interface{}{
		"file_path":   payload.FilePath,
		"language":    payload.Language,
		"name":        payload.Name,
		"qualified":   payload.Qualified,
		"class":       payload.Class,
		"parameters":  payload.Parameters,
		"return_type": payload.ReturnType,
		"calls":       payload.Calls,
		"start_row":   payload.StartRow,
		"end_row":     payload.EndRow,
		"code_hash":   payload.CodeHash,
		"content":     payload.Content,
	}
}

// sliceContent returns the source lines spanning startRow..endRow inclusive,
// both zero-based.
func sliceContent(code []byte, startRow, endRow int) string {
	lines := strings.Split(string(code), "\n")
	if startRow < 0 {
		startRow = 0
	}
	if endRow >= len(lines) {
		endRow = len(lines) - 1
	}
	if startRow > endRow {
		return ""
	}
	return strings.Join(lines[startRow:endRow+1], "\n")
}

// contentHashToPointID derives a 64-bit numeric point ID accepted by
// Qdrant's PointId_Num field from an arbitrary key string.
func contentHashToPointID(key string) uint64 {
	h := sha256.Sum256([]byte(key))
	return binary.BigEndian.Uint64(h[:8])
}

func hashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return scanner.HashContent(string(data)), nil
}

func normalizeFilePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	abs := path
	if !filepath.IsAbs(abs) {
		if a, err := filepath.Abs(abs); err == nil {
			abs = a
		}
	}
	normalized := filepath.ToSlash(filepath.Clean(abs))
	if runtime.GOOS == "windows" {
		normalized = strings.ToLower(normalized)
	}
	return normalized
}

// loadFileHashes loads the last-seen file hash map from disk, stored as JSON
// under the user state dir scoped by project ID.
func loadFileHashes(projectID string) (map[string]string, error) {
	statePath, err := fileHashStatePath(projectID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(statePath)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}

	var hashes map[string]string
	if err := json.Unmarshal(data, &hashes); err != nil {
		return nil, err
	}
	if hashes == nil {
		hashes = make(map[string]string)
	}
	return hashes, nil
}

func saveFileHashes(projectID string, hashes map[string]string) error {
	statePath, err := fileHashStatePath(projectID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(hashes, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(statePath, data, 0o644)
}

func fileHashStatePath(projectID string) (string, error) {
	stateDir, err := config.UserStateDir()
	if err != nil {
		return "", err
	}
	if projectID == "" {
		projectID = "default"
	}
	return filepath.Join(stateDir, projectID+"_file_hashes.json"), nil
}

// ClearProjectState removes the on-disk file-hash map for a project.
func ClearProjectState(projectID string) error {
	statePath, err := fileHashStatePath(projectID)
	if err != nil {
		return err
	}
	if err := os.Remove(statePath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// deleteFilePoints removes all vectors whose payload file_path matches the
// given path.
func (idx *Indexer) deleteFilePoints(ctx context.Context, path string) error {
	if idx.collection == "" {
		return fmt.Errorf("collection name is not set on indexer")
	}
	filter := &qdrantpb.Filter{
		Must: []*qdrantpb.Condition{
			{
				ConditionOneOf: &qdrantpb.Condition_Field{
					Field: &qdrantpb.FieldCondition{
						Key: "file_path",
						Match: &qdrantpb.Match{
							MatchValue: &qdrantpb.Match_Keyword{
								Keyword: path,
							},
						},
					},
				},
			},
		},
	}
	return idx.qdrant.DeleteByFilter(ctx, idx.collection, filter)
}
