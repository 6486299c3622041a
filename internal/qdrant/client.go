// Package qdrant wraps the Qdrant gRPC client with the small surface the
// indexer needs: collection lifecycle, upsert, search, scroll, and
// filter-scoped deletion.
package qdrant

import (
	"context"
	"errors"
	"fmt"
	"net"
	neturl "net/url"
	"strconv"
	"strings"

	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"

	"funcscan/internal/config"
)

type Client struct {
	points      qdrant.PointsClient
	collections qdrant.CollectionsClient
	grpcConn    *grpc.ClientConn
}

func NewClient() (*Client, error) {
	addr := config.Get("QDRANT_URL", "qdrant_url")
	host, port, err := parseAddress(addr)
	if err != nil {
		return nil, err
	}

	cfg := &qdrant.Config{
		Host: host,
		Port: port,
	}
	if apiKey := config.Get("QDRANT_API_KEY", "qdrant_api_key"); apiKey != "" {
		cfg.APIKey = apiKey
	}

	grpcClient, err := qdrant.NewGrpcClient(cfg)
	if err != nil {
		return nil, err
	}

	return &Client{
		points:      grpcClient.Points(),
		collections: grpcClient.Collections(),
		grpcConn:    grpcClient.Conn(),
	}, nil
}

// parseAddress accepts "host:port", a bare host, or a URL and falls back to
// localhost:6334 for any missing part.
func parseAddress(raw string) (string, int, error) {
	const (
		defaultHost = "localhost"
		defaultPort = 6334
	)

	endpoint := strings.TrimSpace(raw)
	if endpoint == "" {
		return defaultHost, defaultPort, nil
	}

	if strings.Contains(endpoint, "://") {
		parsed, err := neturl.Parse(endpoint)
		if err != nil {
			return "", 0, err
		}
		if parsed.Host == "" {
			return defaultHost, defaultPort, nil
		}
		endpoint = parsed.Host
	}

	host, portStr, err := net.SplitHostPort(endpoint)
	if err != nil {
		var addrErr *net.AddrError
		if errors.As(err, &addrErr) && strings.Contains(addrErr.Err, "missing port") {
			return endpoint, defaultPort, nil
		}
		return "", 0, err
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, err
	}
	if host == "" {
		host = defaultHost
	}
	return host, port, nil
}

func (c *Client) Close() error {
	return c.grpcConn.Close()
}

// EnsureCollection creates the collection if it does not exist. An existing
// collection with a different vector dimension is deleted and recreated.
func (c *Client) EnsureCollection(ctx context.Context, name string, vectorSize uint64) error {
	info, err := c.collections.Get(ctx, &qdrant.GetCollectionInfoRequest{
		CollectionName: name,
	})
	if err == nil {
		if params := info.GetResult().GetConfig().GetParams(); params != nil {
			existingSize := params.GetVectorsConfig().GetParams().GetSize()
			if existingSize == vectorSize {
				return nil
			}
			fmt.Printf("⚠ Collection exists with wrong dimension (expected %d, got %d). Recreating...\n", vectorSize, existingSize)
			if _, err := c.collections.Delete(ctx, &qdrant.DeleteCollection{CollectionName: name}); err != nil {
				return fmt.Errorf("failed to delete collection: %w", err)
			}
		} else {
			return nil
		}
	}

	_, err = c.collections.Create(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: &qdrant.VectorsConfig{
			Config: &qdrant.VectorsConfig_Params{
				Params: &qdrant.VectorParams{
					Size:     vectorSize,
					Distance: qdrant.Distance_Cosine,
				},
			},
		},
	})
	return err
}

// DeleteCollection removes the entire collection and all its points.
func (c *Client) DeleteCollection(ctx context.Context, name string) error {
	_, err := c.collections.Delete(ctx, &qdrant.DeleteCollection{
		CollectionName: name,
	})
	return err
}

func (c *Client) Upsert(ctx context.Context, collectionName string, points []*qdrant.PointStruct) error {
	wait := true
	_, err := c.points.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collectionName,
		Points:         points,
		Wait:           &wait,
	})
	return err
}

func (c *Client) Search(ctx context.Context, collectionName string, vector []float32, limit uint64) ([]*qdrant.ScoredPoint, error) {
	resp, err := c.points.Search(ctx, &qdrant.SearchPoints{
		CollectionName: collectionName,
		Vector:         vector,
		Limit:          limit,
		WithPayload:    &qdrant.WithPayloadSelector{SelectorOptions: &qdrant.WithPayloadSelector_Enable{Enable: true}},
	})
	if err != nil {
		return nil, err
	}
	return resp.Result, nil
}

func (c *Client) Scroll(ctx context.Context, collectionName string, limit uint32, offset *qdrant.PointId) ([]*qdrant.RetrievedPoint, *qdrant.PointId, error) {
	resp, err := c.points.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: collectionName,
		Limit:          &limit,
		Offset:         offset,
		WithPayload:    &qdrant.WithPayloadSelector{SelectorOptions: &qdrant.WithPayloadSelector_Enable{Enable: true}},
	})
	if err != nil {
		return nil, nil, err
	}
	return resp.Result, resp.NextPageOffset, nil
}

// DeleteByFilter removes all points in a collection matching the filter.
func (c *Client) DeleteByFilter(ctx context.Context, collectionName string, filter *qdrant.Filter) error {
	_, err := c.points.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: filter,
			},
		},
	})
	return err
}

func PayloadToMap(payload map[string]*qdrant.Value) map[string]interface{} {
	result := make(map[string]interface{})
	for k, v := range payload {
		result[k] = valueToInterface(v)
	}
	return result
}

func valueToInterface(v *qdrant.Value) interface{} {
	if v == nil {
		return nil
	}
	switch val := v.Kind.(type) {
	case *qdrant.Value_StringValue:
		return val.StringValue
	case *qdrant.Value_IntegerValue:
		return val.IntegerValue
	case *qdrant.Value_DoubleValue:
		return val.DoubleValue
	case *qdrant.Value_BoolValue:
		return val.BoolValue
	case *qdrant.Value_ListValue:
		items := val.ListValue.GetValues()
		out := make([]interface{}, 0, len(items))
		for _, item := range items {
			out = append(out, valueToInterface(item))
		}
		return out
	default:
		return fmt.Sprintf("%v", v)
	}
}

func MapToPayload(m map[string]interface{}) map[string]*qdrant.Value {
	result := make(map[string]*qdrant.Value)
	for k, v := range m {
		result[k] = interfaceToValue(v)
	}
	return result
}

func interfaceToValue(i interface{}) *qdrant.Value {
	switch v := i.(type) {
	case string:
		return &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: v}}
	case int:
		return &qdrant.Value{Kind: &qdrant.Value_IntegerValue{IntegerValue: int64(v)}}
	case int64:
		return &qdrant.Value{Kind: &qdrant.Value_IntegerValue{IntegerValue: v}}
	case float64:
		return &qdrant.Value{Kind: &qdrant.Value_DoubleValue{DoubleValue: v}}
	case bool:
		return &qdrant.Value{Kind: &qdrant.Value_BoolValue{BoolValue: v}}
	case []string:
		items := make([]*qdrant.Value, 0, len(v))
		for _, s := range v {
			items = append(items, &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: s}})
		}
		return &qdrant.Value{Kind: &qdrant.Value_ListValue{ListValue: &qdrant.ListValue{Values: items}}}
	default:
		return &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: fmt.Sprintf("%v", v)}}
	}
}
