package schema

import "time"

type GetStatusResponse struct {
	NumAgents   int       `json:"numAgents"`
	IsStale     bool      `json:"isStale"`
	RefreshedAt time.Time `json:"refreshedAt"`
}

type GetAgentsRequest struct {
	Query    string `query:"q"`
	Category string `query:"category"`
	Sort     string `query:"sort"`
	Order    string `query:"order"`
	Limit    *int   `query:"limit"`
	Offset   *int   `query:"offset"`
}

type GetAgentsResponse struct {
	Agents  []Agent `json:"agents"`
	Total   int     `json:"total"`
	Offset  int     `json:"offset"`
	Limit   int     `json:"limit"`
	HasMore bool    `json:"hasMore"`
}

type GetAgentResponse struct {
	Agent *AgentDetail `json:"agent"`
}

type GetChartRequest struct {
	Resolution string `query:"resolution"`
}

type RefreshRequest struct {
	Force bool `json:"force"`
}

type RefreshResponse struct {
	Success    bool      `json:"success"`
	AgentCount int       `json:"agentCount"`
	Errors     []string  `json:"errors"`
	DurationMs int64     `json:"durationMs"`
	Timestamp  time.Time `json:"timestamp"`
}

type Stats struct {
	TotalAgents    int     `json:"totalAgents"`
	TotalVolume    float64 `json:"totalVolume"`
	TotalMarketCap float64 `json:"totalMarketCap"`
	TotalHolders   int64   `json:"totalHolders"`
	AvgScore       float64 `json:"avgScore"`
	GraduatedCount int     `json:"graduatedCount"`
}

type GetStatsResponse struct {
	Stats Stats `json:"stats"`
}
