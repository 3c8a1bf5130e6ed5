package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"stock-insights/internal/api"
	"stock-insights/internal/interfaces"
	"stock-insights/internal/logger"
	"stock-insights/internal/types"
)

const stage = "fetch"

type Fetcher struct {
	client *api.Client
	apiKey string
	rawDir string
}

var _ interfaces.Fetcher = (*Fetcher)(nil)

// New returns a Fetcher that queries the API through client and writes
// responses to rawDir.
func New(client *api.Client, apiKey, rawDir string) *Fetcher {
	return &Fetcher{client: client, apiKey: apiKey, rawDir: rawDir}
}

// FetchAll requests every id in order. A company whose request fails or whose
// body is not a non-empty JSON document is skipped; the run continues.
func (f *Fetcher) FetchAll(ctx context.Context, ids []string) (types.FetchSummary, error) {
	summary := types.FetchSummary{Requested: len(ids)}

	if err := os.MkdirAll(f.rawDir, 0o755); err != nil {
		return summary, fmt.Errorf("create raw dir: %w", err)
	}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		if !validID(id) {
			logger.Stage(ctx, stage, id, "failed", "reason", "invalid company id")
			summary.Failed++
			continue
		}

		logger.Info(ctx, "Fetching company data", "company_id", id)
		body, err := f.fetchOne(ctx, id)
		if err != nil {
			logger.Stage(ctx, stage, id, "failed", "error", err.Error())
			summary.Failed++
			continue
		}
		if body == nil {
			logger.Stage(ctx, stage, id, "skipped", "reason", "empty response")
			summary.Skipped++
			continue
		}

		path := filepath.Join(f.rawDir, id+".json")
		if err := os.WriteFile(path, body, 0o644); err != nil {
			logger.Stage(ctx, stage, id, "failed", "error", err.Error())
			summary.Failed++
			continue
		}
		logger.Stage(ctx, stage, id, "ok", "path", path)
		summary.Saved++
	}
	return summary, nil
}

// fetchOne returns the indented body, or nil when the API answered with an
// empty document.
func (f *Fetcher) fetchOne(ctx context.Context, id string) ([]byte, error) {
	resp, err := f.client.GET(ctx, "", url.Values{"id": {id}, "api_key": {f.apiKey}})
	if err != nil {
		return nil, err
	}
	return normalize(resp.Body)
}

func normalize(body []byte) ([]byte, error) {
	var probe any
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, fmt.Errorf("response is not JSON: %w", err)
	}
	switch v := probe.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		if len(v) == 0 {
			return nil, nil
		}
	case []any:
		if len(v) == 0 {
			return nil, nil
		}
	}

	var out bytes.Buffer
	if err := json.Indent(&out, body, "", "    "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func validID(id string) bool {
	return id != "" && id != "." && id != ".." && !strings.ContainsAny(id, `/\`)
}
