// Package analytics talks to the remote work-time analytics service that
// knows how many hours each employee actually worked in a month.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"opsconsole/internal/domain/payroll"
)

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// GetEmployeeHours fetches worked hours for the named employees in the
// given month. The service matches by display name, so a renamed or
// duplicated employee comes back with no row.
func (c *Client) GetEmployeeHours(ctx context.Context, names []string, year, month int) ([]payroll.EmployeeHours, error) {
	query := url.Values{}
	for _, name := range names {
		query.Add("name", name)
	}
	query.Set("year", strconv.Itoa(year))
	query.Set("month", strconv.Itoa(month))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/employee-hours?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("analytics service returned %s", resp.Status)
	}

	var hours []payroll.EmployeeHours
	if err := json.NewDecoder(resp.Body).Decode(&hours); err != nil {
		return nil, fmt.Errorf("decode employee hours: %w", err)
	}
	return hours, nil
}
