// Package web fetches the shooting-incident table from the city's open-data
// endpoint.
package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-gota/gota/dataframe"

	"ShootingInsights/src/utils"
)

// FetchCSV downloads a CSV resource and parses it into a DataFrame. Any
// transport failure or non-2xx status is returned as an error; there is no
// retry, the caller decides whether to fall back to a local file.
func FetchCSV(ctx context.Context, url string, timeout time.Duration) (dataframe.DataFrame, error) {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return dataframe.DataFrame{}, fmt.Errorf("unexpected status %s fetching %s", resp.Status, url)
	}

	df := utils.ReadCSV(resp.Body)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to parse CSV from %s: %w", url, df.Err)
	}

	return df, nil
}
