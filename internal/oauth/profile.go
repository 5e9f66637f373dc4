package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Profile is the provider's view of the authenticated user.
type Profile struct {
	ID         string  `json:"id"`
	Username   string  `json:"username"`
	GlobalName *string `json:"global_name"`
	Avatar     *string `json:"avatar"`
}

// AvatarURL builds the CDN URL for the profile's avatar, or "" when the
// user has none.
func (p *Profile) AvatarURL() string {
	if p.Avatar == nil {
		return ""
	}
	return fmt.Sprintf("%s/avatars/%s/%s.webp?size=512", discordCDN, p.ID, *p.Avatar)
}

// Profile fetches the profile for a bearer token obtained earlier via
// Exchange.
func (c *Coordinator) Profile(ctx context.Context, token string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.profileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedQuery, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedQuery, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: provider returned %s", ErrFailedQuery, resp.Status)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedQuery, err)
	}

	return &profile, nil
}
