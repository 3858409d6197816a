package board

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/b-harvest/agentboard-backend/schema"
	"github.com/b-harvest/agentboard-backend/util"
)

const (
	DefaultLimit = 50
	MaxLimit     = 100

	DefaultSort = "score"

	OrderAsc  = "asc"
	OrderDesc = "desc"

	categoryAll = "all"

	MaxCategoryLength = 50
)

type compareFunc func(c *collate.Collator, a, b *schema.Agent) int

var sortFields = map[string]compareFunc{
	"rank": func(_ *collate.Collator, a, b *schema.Agent) int { return compareInt(int64(a.Rank), int64(b.Rank)) },
	"name": func(c *collate.Collator, a, b *schema.Agent) int { return c.CompareString(a.Name, b.Name) },
	"symbol": func(c *collate.Collator, a, b *schema.Agent) int {
		return c.CompareString(a.Symbol, b.Symbol)
	},
	"score":     func(_ *collate.Collator, a, b *schema.Agent) int { return compareFloat(a.Score, b.Score) },
	"marketCap": func(_ *collate.Collator, a, b *schema.Agent) int { return compareFloat(a.MarketCap, b.MarketCap) },
	"price":     func(_ *collate.Collator, a, b *schema.Agent) int { return compareFloat(a.Price, b.Price) },
	"priceChange24h": func(_ *collate.Collator, a, b *schema.Agent) int {
		return compareFloat(a.PriceChange24h, b.PriceChange24h)
	},
	"volume24h": func(_ *collate.Collator, a, b *schema.Agent) int { return compareFloat(a.Volume24h, b.Volume24h) },
	"holderCount": func(_ *collate.Collator, a, b *schema.Agent) int {
		return compareInt(a.HolderCount, b.HolderCount)
	},
}

type listParams struct {
	query    string
	category schema.Category
	compare  compareFunc
	desc     bool
	limit    int
	offset   int
}

func parseListParams(req schema.GetAgentsRequest) (listParams, error) {
	p := listParams{
		query:  strings.ToLower(strings.TrimSpace(req.Query)),
		desc:   true,
		limit:  DefaultLimit,
		offset: 0,
	}
	if len(req.Category) > MaxCategoryLength {
		return listParams{}, fmt.Errorf("%w: category longer than %d", ErrInvalidRequest, MaxCategoryLength)
	}
	// Categories outside the enum filter everything out rather than fail.
	if req.Category != "" && req.Category != categoryAll {
		p.category = schema.Category(req.Category)
	}
	field := req.Sort
	if field == "" {
		field = DefaultSort
	}
	var ok bool
	if p.compare, ok = sortFields[field]; !ok {
		return listParams{}, fmt.Errorf("%w: unknown sort field %q", ErrInvalidRequest, req.Sort)
	}
	switch req.Order {
	case "", OrderDesc:
	case OrderAsc:
		p.desc = false
	default:
		return listParams{}, fmt.Errorf("%w: order must be %q or %q", ErrInvalidRequest, OrderAsc, OrderDesc)
	}
	if req.Limit != nil {
		if *req.Limit < 1 || *req.Limit > MaxLimit {
			return listParams{}, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidRequest, MaxLimit)
		}
		p.limit = *req.Limit
	}
	if req.Offset != nil {
		if *req.Offset < 0 {
			return listParams{}, fmt.Errorf("%w: offset must not be negative", ErrInvalidRequest)
		}
		p.offset = *req.Offset
	}
	return p, nil
}

// ListAgents filters, sorts and paginates the stored agents.
func (s *Service) ListAgents(ctx context.Context, req schema.GetAgentsRequest) (schema.GetAgentsResponse, error) {
	p, err := parseListParams(req)
	if err != nil {
		return schema.GetAgentsResponse{}, err
	}
	agents, err := s.agents(ctx)
	if err != nil {
		return schema.GetAgentsResponse{}, err
	}

	filtered := make([]schema.Agent, 0, len(agents))
	for _, a := range agents {
		if p.category != "" && a.Category != p.category {
			continue
		}
		if p.query != "" &&
			!strings.Contains(strings.ToLower(a.Name), p.query) &&
			!strings.Contains(strings.ToLower(a.Symbol), p.query) &&
			!strings.Contains(strings.ToLower(a.Description), p.query) {
			continue
		}
		filtered = append(filtered, a)
	}

	c := collate.New(language.English)
	sort.SliceStable(filtered, func(i, j int) bool {
		r := p.compare(c, &filtered[i], &filtered[j])
		if p.desc {
			return r > 0
		}
		return r < 0
	})

	resp := schema.GetAgentsResponse{
		Agents: []schema.Agent{},
		Total:  len(filtered),
		Offset: p.offset,
		Limit:  p.limit,
	}
	if p.offset < len(filtered) {
		resp.Agents = filtered[p.offset:util.MinInt(p.offset+p.limit, len(filtered))]
	}
	resp.HasMore = p.offset+p.limit < len(filtered)
	return resp, nil
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
