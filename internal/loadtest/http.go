package loadtest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/okian/runform/internal/domain/model"
	"github.com/okian/runform/internal/domain/types"
	"github.com/okian/runform/pkg/logger"
)

// apiError mirrors the server's error body.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type batchRequest struct {
	Runs []types.BatchRun `json:"runs"`
}

type batchItem struct {
	ID     string        `json:"id"`
	Report *model.Report `json:"report,omitempty"`
	Error  *apiError     `json:"error,omitempty"`
}

type batchResponse struct {
	Results   []batchItem `json:"results"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
}

// outcome is the server's answer for one run on one path.
type outcome struct {
	Status int           `json:"status"`
	Report *model.Report `json:"report,omitempty"`
	Error  *apiError     `json:"error,omitempty"`
}

// httpClient wraps http.Client with the base URL and locale.
type httpClient struct {
	client  *http.Client
	baseURL string
	lang    string
}

func newHTTPClient(cfg *Config) *httpClient {
	return &httpClient{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		lang:    cfg.Lang,
	}
}

func (c *httpClient) endpoint(path string) string {
	if c.lang == "" {
		return c.baseURL + path
	}
	return c.baseURL + path + "?lang=" + url.QueryEscape(c.lang)
}

func (c *httpClient) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return c.client.Do(req)
}

// post sends body as JSON and decodes a 200 answer into ok or an error
// answer into an apiError.
func (c *httpClient) post(ctx context.Context, path string, body, ok any) (int, *apiError, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return 0, nil, fmt.Errorf("marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), bytes.NewReader(data))
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode == http.StatusOK {
		if err := json.Unmarshal(raw, ok); err != nil {
			return resp.StatusCode, nil, fmt.Errorf("decode response: %w", err)
		}
		return resp.StatusCode, nil, nil
	}
	var apiErr apiError
	if err := json.Unmarshal(raw, &apiErr); err != nil {
		return resp.StatusCode, nil, fmt.Errorf("decode error body: %w", err)
	}
	return resp.StatusCode, &apiErr, nil
}

// submitReports posts every run to /v1/report with cfg.Workers clients and
// returns the outcomes in run order.
func submitReports(ctx context.Context, cfg *Config, log logger.Logger, runs []GeneratedRun, stats *Stats) []outcome {
	log.Info(ctx, "submitting reports", logger.Int("runs", len(runs)), logger.Int("workers", cfg.Workers))

	client := newHTTPClient(cfg)
	outcomes := make([]outcome, len(runs))
	indexes := make(chan int, cfg.Workers*workerChannelMultiplier)

	var (
		mu         sync.Mutex
		wg         sync.WaitGroup
		lastReport time.Time
	)
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				if ctx.Err() != nil {
					continue
				}
				var report model.Report
				status, apiErr, err := client.post(ctx, "/v1/report", runs[i].Input, &report)
				o := outcome{Status: status, Error: apiErr}
				if err == nil && status == http.StatusOK {
					o.Report = &report
				}
				if err != nil {
					log.Debug(ctx, "report request failed", logger.String("run", runs[i].ID), logger.Error(err))
				}
				outcomes[i] = o

				mu.Lock()
				stats.ReportsSubmitted++
				switch {
				case o.Report != nil:
					stats.ReportsSucceeded++
				case status == http.StatusUnprocessableEntity:
					stats.ReportsRejected++
				case status == http.StatusTooManyRequests:
					stats.ReportsThrottled++
				default:
					stats.ReportsFailed++
				}
				if time.Since(lastReport) >= progressInterval {
					lastReport = time.Now()
					log.Info(ctx, "report progress",
						logger.Int("submitted", stats.ReportsSubmitted),
						logger.Int("succeeded", stats.ReportsSucceeded))
				}
				mu.Unlock()
			}
		}()
	}

	for i := range runs {
		indexes <- i
	}
	close(indexes)
	wg.Wait()
	return outcomes
}

// submitBatches posts the runs to /v1/batch in chunks of cfg.BatchSize, one
// chunk per client at a time, and returns the per-run outcomes in run order.
func submitBatches(ctx context.Context, cfg *Config, log logger.Logger, runs []GeneratedRun, stats *Stats) []outcome {
	outcomes := make([]outcome, len(runs))
	if cfg.BatchSize == 0 {
		return outcomes
	}
	log.Info(ctx, "submitting batches", logger.Int("runs", len(runs)), logger.Int("batchSize", cfg.BatchSize))

	client := newHTTPClient(cfg)
	starts := make(chan int, cfg.Workers*workerChannelMultiplier)

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for start := range starts {
				if ctx.Err() != nil {
					continue
				}
				end := min(start+cfg.BatchSize, len(runs))
				req := batchRequest{Runs: make([]types.BatchRun, 0, end-start)}
				for _, r := range runs[start:end] {
					req.Runs = append(req.Runs, types.BatchRun{ID: r.ID, Input: r.Input})
				}

				var resp batchResponse
				status, apiErr, err := client.post(ctx, "/v1/batch", req, &resp)
				if err != nil {
					log.Debug(ctx, "batch request failed", logger.Int("start", start), logger.Error(err))
				}

				mu.Lock()
				stats.BatchesSubmitted++
				if status == http.StatusTooManyRequests {
					stats.BatchesThrottled++
				}
				for i := start; i < end; i++ {
					o := outcome{Status: status, Error: apiErr}
					if status == http.StatusOK && err == nil && i-start < len(resp.Results) {
						item := resp.Results[i-start]
						o.Report, o.Error = item.Report, item.Error
					}
					outcomes[i] = o
					if o.Report != nil {
						stats.BatchRunsSucceeded++
					} else {
						stats.BatchRunsFailed++
					}
				}
				mu.Unlock()
			}
		}()
	}

	for start := 0; start < len(runs); start += cfg.BatchSize {
		starts <- start
	}
	close(starts)
	wg.Wait()
	return outcomes
}
