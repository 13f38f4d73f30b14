package models

// Dashboard is the home-page aggregate over all documents
type Dashboard struct {
	TotalCount     int    `json:"total_count"`
	PendingCount   int    `json:"pending_count"`
	SignedCount    int    `json:"signed_count"`
	CompletionRate string `json:"completion_rate"`
}

// StatusDistribution holds document counts per status
type StatusDistribution struct {
	Total        int                    `json:"total"`
	Distribution map[DocumentStatus]int `json:"distribution"`
}
