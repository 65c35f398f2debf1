package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// CategoryInfo is the slice of catalog metadata the core needs for
// reporting; the catalog service owns the rest.
type CategoryInfo struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type CatalogClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewCatalogClient(baseURL string, timeout time.Duration) *CatalogClient {
	return &CatalogClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *CatalogClient) GetCategoryById(ctx context.Context, id uint64) (*CategoryInfo, error) {
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/categories/%d", c.baseURL, id), nil)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog service returned status %d", resp.StatusCode)
	}
	var cat CategoryInfo
	if err := json.NewDecoder(resp.Body).Decode(&cat); err != nil {
		return nil, err
	}

	return &cat, nil
}
