package googlebooks

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Search queries the volumes endpoint. Pages are 1-based.
//
// The provider has a pagination quirk at the boundary: when the requested
// page size exceeds the total result count, some queries return an empty
// items array alongside a positive totalItems. When that happens the
// request is retried exactly once with maxResults clamped to the reported
// total.
func (c *Client) Search(ctx context.Context, query string, page, pageSize int) (*SearchPage, error) {
	if strings.TrimSpace(query) == "" {
		return nil, wrapError("search", "", fmt.Errorf("empty query"))
	}

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	result, err := c.searchOnce(ctx, query, page, pageSize)
	if err != nil {
		return nil, err
	}

	if len(result.Items) == 0 && result.TotalItems > 0 && result.TotalItems < pageSize {
		result, err = c.searchOnce(ctx, query, page, result.TotalItems)
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

func (c *Client) searchOnce(ctx context.Context, query string, page, pageSize int) (*SearchPage, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("startIndex", strconv.Itoa((page-1)*pageSize))
	params.Set("maxResults", strconv.Itoa(pageSize))
	params.Set("printType", "books")

	body, err := c.doRequest(ctx, "/volumes", params)
	if err != nil {
		return nil, wrapError("search", "", err)
	}

	var resp rawSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, wrapError("search", "", fmt.Errorf("parse response: %w", err))
	}

	items := make([]Volume, 0, len(resp.Items))
	for i := range resp.Items {
		items = append(items, normalizeVolume(&resp.Items[i]))
	}

	return &SearchPage{
		Items:      items,
		TotalItems: resp.TotalItems,
	}, nil
}

// normalizeVolume maps the provider shape to the package's Volume type.
func normalizeVolume(raw *rawVolume) Volume {
	info := raw.VolumeInfo
	return Volume{
		ID:            raw.ID,
		Title:         info.Title,
		Subtitle:      info.Subtitle,
		Description:   cleanDescription(info.Description),
		Authors:       info.Authors,
		Categories:    flattenCategories(info.Categories),
		Publisher:     info.Publisher,
		PublishedDate: info.PublishedDate,
		Language:      info.Language,
		CoverURL:      info.ImageLinks.coverURL(),
		PageCount:     info.PageCount,
	}
}

// flattenCategories splits the provider's nested "Fiction / Thrillers /
// Suspense" category paths into individual tags and deduplicates them,
// preserving first-seen order.
func flattenCategories(categories []string) []string {
	var tags []string
	seen := make(map[string]bool)
	for _, category := range categories {
		for _, part := range strings.Split(category, "/") {
			tag := strings.TrimSpace(part)
			if tag == "" {
				continue
			}
			key := strings.ToLower(tag)
			if seen[key] {
				continue
			}
			seen[key] = true
			tags = append(tags, tag)
		}
	}
	return tags
}
