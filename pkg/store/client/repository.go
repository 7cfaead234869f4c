package client

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/de-tools/ecfr-atlas/pkg/adapters"
	"github.com/de-tools/ecfr-atlas/pkg/models/domain"
	"github.com/de-tools/ecfr-atlas/pkg/models/store"
	json "github.com/goccy/go-json"
)

// Repository is a typed accessor over the remote API. Implementations return
// *domain.NetworkError, *domain.NotFoundError or *domain.ServerError.
type Repository interface {
	Status(ctx context.Context) (domain.ServiceStatus, error)

	ListAgencies(ctx context.Context) ([]domain.Agency, error)
	GetAgency(ctx context.Context, id string) (domain.Agency, error)
	ListAgencyTitles(ctx context.Context, agencyID string) ([]domain.Title, error)
	SearchAgencies(ctx context.Context, name string) ([]domain.Agency, error)
	ListAgenciesByTitleCount(ctx context.Context) ([]domain.Agency, error)

	ListTitles(ctx context.Context) ([]domain.Title, error)
	GetTitle(ctx context.Context, id string) (domain.Title, error)
	GetTitleByNumber(ctx context.Context, number string) (domain.Title, error)
	SearchTitles(ctx context.Context, name string) ([]domain.Title, error)
	ListTitleSections(ctx context.Context, titleID string) ([]domain.Section, error)
	ListTitlesByWordCount(ctx context.Context) ([]domain.Title, error)

	WordCountsByAgency(ctx context.Context) ([]domain.AggregateRecord, error)
	WordCountsByTitle(ctx context.Context) ([]domain.AggregateRecord, error)
	WordCountsBySection(ctx context.Context, titleID string) ([]domain.AggregateRecord, error)
	ChangeFrequencyByAgency(ctx context.Context) ([]domain.AggregateRecord, error)
	ChangeFrequencyByTitle(ctx context.Context) ([]domain.AggregateRecord, error)

	Summary(ctx context.Context) (string, error)
}

var _ Repository = (*Client)(nil)

func (c *Client) Status(ctx context.Context) (domain.ServiceStatus, error) {
	var status store.Status
	if err := c.getJSON(ctx, "/api/status", nil, &status); err != nil {
		return "", err
	}
	if status.Status == string(domain.ServiceRunning) {
		return domain.ServiceRunning, nil
	}
	return domain.ServiceNotRunning, nil
}

func (c *Client) ListAgencies(ctx context.Context) ([]domain.Agency, error) {
	return c.agencies(ctx, "/api/agencies", nil)
}

func (c *Client) GetAgency(ctx context.Context, id string) (domain.Agency, error) {
	var agency store.Agency
	if err := c.getJSON(ctx, "/api/agencies/"+url.PathEscape(id), nil, &agency); err != nil {
		return domain.Agency{}, err
	}
	return adapters.MapStoreAgencyToDomain(agency), nil
}

func (c *Client) ListAgencyTitles(ctx context.Context, agencyID string) ([]domain.Title, error) {
	return c.titles(ctx, "/api/agencies/"+url.PathEscape(agencyID)+"/titles", nil)
}

func (c *Client) SearchAgencies(ctx context.Context, name string) ([]domain.Agency, error) {
	return c.agencies(ctx, "/api/agencies/search", url.Values{"name": []string{name}})
}

func (c *Client) ListAgenciesByTitleCount(ctx context.Context) ([]domain.Agency, error) {
	return c.agencies(ctx, "/api/agencies/by-title-count", nil)
}

func (c *Client) ListTitles(ctx context.Context) ([]domain.Title, error) {
	return c.titles(ctx, "/api/titles", nil)
}

func (c *Client) GetTitle(ctx context.Context, id string) (domain.Title, error) {
	return c.title(ctx, "/api/titles/"+url.PathEscape(id))
}

func (c *Client) GetTitleByNumber(ctx context.Context, number string) (domain.Title, error) {
	return c.title(ctx, "/api/titles/number/"+url.PathEscape(number))
}

func (c *Client) SearchTitles(ctx context.Context, name string) ([]domain.Title, error) {
	return c.titles(ctx, "/api/titles/search", url.Values{"name": []string{name}})
}

func (c *Client) ListTitlesByWordCount(ctx context.Context) ([]domain.Title, error) {
	return c.titles(ctx, "/api/titles/by-word-count", nil)
}

func (c *Client) ListTitleSections(ctx context.Context, titleID string) ([]domain.Section, error) {
	resource := "/api/titles/" + url.PathEscape(titleID) + "/sections"
	var sections []store.Section
	if err := c.getJSON(ctx, resource, nil, &sections); err != nil {
		return nil, err
	}
	out, err := adapters.MapStoreSectionsToDomain(sections)
	if err != nil {
		return nil, contractError(resource, err)
	}
	return out, nil
}

func (c *Client) WordCountsByAgency(ctx context.Context) ([]domain.AggregateRecord, error) {
	return c.wordCounts(ctx, "/api/analytics/word-count/by-agency")
}

func (c *Client) WordCountsByTitle(ctx context.Context) ([]domain.AggregateRecord, error) {
	return c.wordCounts(ctx, "/api/analytics/word-count/by-title")
}

func (c *Client) WordCountsBySection(ctx context.Context, titleID string) ([]domain.AggregateRecord, error) {
	return c.wordCounts(ctx, "/api/analytics/word-count/by-section/title/"+url.PathEscape(titleID))
}

func (c *Client) ChangeFrequencyByAgency(ctx context.Context) ([]domain.AggregateRecord, error) {
	return c.changeFrequency(ctx, "/api/analytics/change-frequency/by-agency")
}

func (c *Client) ChangeFrequencyByTitle(ctx context.Context) ([]domain.AggregateRecord, error) {
	return c.changeFrequency(ctx, "/api/analytics/change-frequency/by-title")
}

// Summary returns the markdown narrative. The endpoint answers with plain
// text, though some deployments wrap it in a JSON string.
func (c *Client) Summary(ctx context.Context) (string, error) {
	const resource = "/api/analytics/summary"
	body, err := c.get(ctx, resource, nil)
	if err != nil {
		return "", err
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return "", contractError(resource, err)
		}
		return text, nil
	}
	return string(body), nil
}

func (c *Client) agencies(ctx context.Context, resource string, query url.Values) ([]domain.Agency, error) {
	var agencies []store.Agency
	if err := c.getJSON(ctx, resource, query, &agencies); err != nil {
		return nil, err
	}
	return adapters.MapStoreAgenciesToDomain(agencies), nil
}

func (c *Client) titles(ctx context.Context, resource string, query url.Values) ([]domain.Title, error) {
	var titles []store.Title
	if err := c.getJSON(ctx, resource, query, &titles); err != nil {
		return nil, err
	}
	out, err := adapters.MapStoreTitlesToDomain(titles)
	if err != nil {
		return nil, contractError(resource, err)
	}
	return out, nil
}

func (c *Client) title(ctx context.Context, resource string) (domain.Title, error) {
	var title store.Title
	if err := c.getJSON(ctx, resource, nil, &title); err != nil {
		return domain.Title{}, err
	}
	out, err := adapters.MapStoreTitleToDomain(title)
	if err != nil {
		return domain.Title{}, contractError(resource, err)
	}
	return out, nil
}

func (c *Client) wordCounts(ctx context.Context, resource string) ([]domain.AggregateRecord, error) {
	var results []store.WordCountResult
	if err := c.getJSON(ctx, resource, nil, &results); err != nil {
		return nil, err
	}
	out, err := adapters.MapWordCountsToAggregates(results)
	if err != nil {
		return nil, contractError(resource, err)
	}
	return out, nil
}

func (c *Client) changeFrequency(ctx context.Context, resource string) ([]domain.AggregateRecord, error) {
	var results []store.ChangeFrequencyResult
	if err := c.getJSON(ctx, resource, nil, &results); err != nil {
		return nil, err
	}
	out, err := adapters.MapChangeFrequenciesToAggregates(results)
	if err != nil {
		return nil, contractError(resource, err)
	}
	return out, nil
}

func contractError(resource string, err error) error {
	return &domain.ServerError{
		Resource:   resource,
		StatusCode: http.StatusOK,
		Err:        fmt.Errorf("malformed payload: %w", err),
	}
}
