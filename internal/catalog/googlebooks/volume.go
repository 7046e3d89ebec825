package googlebooks

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"net/url"
	"strings"
)

// GetVolume fetches a single volume by its provider ID.
// Returns ErrNotFound if the provider has no such volume.
func (c *Client) GetVolume(ctx context.Context, volumeID string) (*Volume, error) {
	if strings.TrimSpace(volumeID) == "" {
		return nil, wrapError("getVolume", volumeID, fmt.Errorf("empty volume id"))
	}

	body, err := c.doRequest(ctx, "/volumes/"+url.PathEscape(volumeID), url.Values{})
	if err != nil {
		return nil, wrapError("getVolume", volumeID, err)
	}

	var raw rawVolume
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, wrapError("getVolume", volumeID, fmt.Errorf("parse response: %w", err))
	}

	volume := normalizeVolume(&raw)
	return &volume, nil
}
