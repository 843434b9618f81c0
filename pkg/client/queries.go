package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goliatone/go-entityform/pkg/entity"
	"github.com/goliatone/go-entityform/pkg/entity/manufacturer"
	"github.com/goliatone/go-entityform/pkg/entity/storenotice"
)

// Shop is the subset of a shop record the forms need.
type Shop struct {
	ID   entity.ID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// Settings is the platform settings document.
type Settings struct {
	Language string          `json:"language,omitempty"`
	Options  SettingsOptions `json:"options"`
}

// SettingsOptions holds the settings flags the forms read.
type SettingsOptions struct {
	SiteTitle string `json:"siteTitle,omitempty"`
	UseAI     bool   `json:"useAi"`
}

// User is the authenticated operator.
type User struct {
	ID          entity.ID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	Permissions []string  `json:"permissions"`
	ShopID      entity.ID `json:"shop_id,omitempty"`
}

// Category is a product category.
type Category struct {
	ID   entity.ID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// CategoryFilter narrows the category listing.
type CategoryFilter struct {
	Limit    int
	Language string
	// Type is a product group slug.
	Type string
}

// Shops queries the shop directory.
type Shops struct{ client *Client }

// Shops returns the shop queries.
func (c *Client) Shops() Shops { return Shops{client: c} }

// BySlug loads one shop.
func (s Shops) BySlug(ctx context.Context, slug string) (Shop, error) {
	var out Shop
	if strings.TrimSpace(slug) == "" {
		return out, errors.New("client: shop slug is required")
	}
	path, err := recordPath("shops", slug)
	if err != nil {
		return out, err
	}
	err = s.client.Do(ctx, http.MethodGet, path, nil, nil, &out)
	return out, err
}

// Me reads the profile of the token owner.
func (c *Client) Me(ctx context.Context) (User, error) {
	var out User
	err := c.Do(ctx, http.MethodGet, "me", nil, nil, &out)
	return out, err
}

// SettingsQuery reads platform settings.
type SettingsQuery struct{ client *Client }

// Settings returns the settings query.
func (c *Client) Settings() SettingsQuery { return SettingsQuery{client: c} }

// Get loads the settings for language.
func (s SettingsQuery) Get(ctx context.Context, language string) (Settings, error) {
	var out Settings
	err := s.client.Do(ctx, http.MethodGet, "settings", languageQuery(language), nil, &out)
	return out, err
}

// Notices holds the store notice lookups.
type Notices struct{ client *Client }

// Notices returns the store notice lookups.
func (c *Client) Notices() Notices { return Notices{client: c} }

// UsersOrShops lists the recipients a notice can address. The API answers
// with vendors for super admins and shops otherwise.
func (n Notices) UsersOrShops(ctx context.Context) ([]storenotice.Recipient, error) {
	var out []storenotice.Recipient
	err := n.client.Do(ctx, http.MethodGet, "store-notices/getUsersToNotify", nil, nil, &out)
	return out, err
}

// Types lists product groups.
type Types struct{ client *Client }

// Types returns the product group listing.
func (c *Client) Types() Types { return Types{client: c} }

// List returns every product group in language.
func (t Types) List(ctx context.Context, language string) ([]manufacturer.Group, error) {
	var out []manufacturer.Group
	err := t.client.Do(ctx, http.MethodGet, "types", languageQuery(language), nil, &out)
	return out, err
}

// Categories lists product categories.
type Categories struct{ client *Client }

// Categories returns the category listing.
func (c *Client) Categories() Categories { return Categories{client: c} }

// List returns one page of categories matching filter.
func (c Categories) List(ctx context.Context, filter CategoryFilter) ([]Category, error) {
	query := languageQuery(filter.Language)
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}
	if t := strings.TrimSpace(filter.Type); t != "" {
		query.Set("search", "type.slug:"+t)
	}
	var page struct {
		Data []Category `json:"data"`
	}
	if err := c.client.Do(ctx, http.MethodGet, "categories", query, nil, &page); err != nil {
		return nil, err
	}
	return page.Data, nil
}

func languageQuery(language string) url.Values {
	query := url.Values{}
	if language = strings.TrimSpace(language); language != "" {
		query.Set("language", language)
	}
	return query
}
