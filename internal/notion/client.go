// Package notion talks to the Notion-style document database that persists
// game records: query-with-filter, create page, patch page, plus typed
// accessors for the handful of property variants the databases use.
package notion

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

const (
	defaultBaseURL = "https://api.notion.com/v1"
	apiVersion     = "2022-06-28"
	requestTimeout = 15 * time.Second

	// maxPageSize is the query result cap the API enforces.
	maxPageSize = 100
)

// Client is a minimal Notion API client.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
	log        *logrus.Logger
}

// NewClient creates a client authenticated with an integration token.
func NewClient(token string, log *logrus.Logger) *Client {
	return &Client{
		token:      token,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		log:        log,
	}
}

// QueryRequest is a database query: an optional single-property filter plus
// sorting and a page size.
type QueryRequest struct {
	Filter   *Filter `json:"filter,omitempty"`
	Sorts    []Sort  `json:"sorts,omitempty"`
	PageSize int     `json:"page_size,omitempty"`
}

// Filter matches one property. Exactly one of the condition fields is set.
type Filter struct {
	Property string           `json:"property"`
	Select   *EqualsCondition `json:"select,omitempty"`
	Title    *EqualsCondition `json:"title,omitempty"`
	RichText *EqualsCondition `json:"rich_text,omitempty"`
	Date     *DateCondition   `json:"date,omitempty"`
}

type EqualsCondition struct {
	Equals string `json:"equals"`
}

type DateCondition struct {
	IsEmpty bool `json:"is_empty,omitempty"`
}

type Sort struct {
	Property  string `json:"property"`
	Direction string `json:"direction"` // ascending / descending
}

// Page is one document with its typed properties.
type Page struct {
	ID         string              `json:"id"`
	Properties map[string]Property `json:"properties"`
}

// Property is the union of the property variants the databases use. Exactly
// one field is populated per property.
type Property struct {
	Title    []RichText    `json:"title,omitempty"`
	RichText []RichText    `json:"rich_text,omitempty"`
	Select   *SelectOption `json:"select,omitempty"`
	Date     *DateValue    `json:"date,omitempty"`
	Number   *float64      `json:"number,omitempty"`
	Checkbox *bool         `json:"checkbox,omitempty"`
}

type RichText struct {
	Text TextContent `json:"text"`
}

type TextContent struct {
	Content string `json:"content"`
}

type SelectOption struct {
	Name string `json:"name"`
}

type DateValue struct {
	Start string `json:"start"` // ISO calendar day, YYYY-MM-DD
}

// Property builders.

func NewTitle(s string) Property {
	return Property{Title: []RichText{{Text: TextContent{Content: s}}}}
}

func NewRichText(s string) Property {
	return Property{RichText: []RichText{{Text: TextContent{Content: s}}}}
}

func NewSelect(name string) Property {
	return Property{Select: &SelectOption{Name: name}}
}

func NewDate(day string) Property {
	return Property{Date: &DateValue{Start: day}}
}

func NewNumber(v float64) Property {
	return Property{Number: &v}
}

// Typed accessors with explicit defaults: absent or differently-typed
// properties read as zero values, never as errors.

func (p Page) TitleText(property string) string {
	if prop, ok := p.Properties[property]; ok && len(prop.Title) > 0 {
		return prop.Title[0].Text.Content
	}
	return ""
}

func (p Page) RichTextValue(property string) string {
	if prop, ok := p.Properties[property]; ok && len(prop.RichText) > 0 {
		return prop.RichText[0].Text.Content
	}
	return ""
}

func (p Page) SelectName(property string) string {
	if prop, ok := p.Properties[property]; ok && prop.Select != nil {
		return prop.Select.Name
	}
	return ""
}

func (p Page) DateStart(property string) string {
	if prop, ok := p.Properties[property]; ok && prop.Date != nil {
		return prop.Date.Start
	}
	return ""
}

func (p Page) NumberValue(property string) float64 {
	if prop, ok := p.Properties[property]; ok && prop.Number != nil {
		return *prop.Number
	}
	return 0
}

// QueryDatabase runs a filtered query and returns up to 100 matching pages.
// An empty result is not an error.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, query QueryRequest) ([]Page, error) {
	if query.PageSize <= 0 || query.PageSize > maxPageSize {
		query.PageSize = maxPageSize
	}

	var result struct {
		Results []Page `json:"results"`
	}
	url := fmt.Sprintf("%s/databases/%s/query", c.baseURL, databaseID)
	if err := c.do(ctx, http.MethodPost, url, query, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

// CreatePage creates one document in a database.
func (c *Client) CreatePage(ctx context.Context, databaseID string, properties map[string]Property) error {
	body := struct {
		Parent     map[string]string   `json:"parent"`
		Properties map[string]Property `json:"properties"`
	}{
		Parent:     map[string]string{"database_id": databaseID},
		Properties: properties,
	}
	return c.do(ctx, http.MethodPost, c.baseURL+"/pages", body, nil)
}

// UpdatePage patches only the given properties of a document; everything
// else is left untouched.
func (c *Client) UpdatePage(ctx context.Context, pageID string, properties map[string]Property) error {
	body := struct {
		Properties map[string]Property `json:"properties"`
	}{Properties: properties}
	return c.do(ctx, http.MethodPatch, c.baseURL+"/pages/"+pageID, body, nil)
}

func (c *Client) do(ctx context.Context, method, url string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("notion: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", apiVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("notion: %s %s returned %d: %s", method, url, resp.StatusCode, detail)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("notion: decode response: %w", err)
		}
	}
	return nil
}
