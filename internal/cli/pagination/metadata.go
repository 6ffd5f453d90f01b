package pagination

// Meta describes a paginated list in JSON output.
type Meta struct {
	TotalItems int  `json:"total_items"`
	Offset     int  `json:"offset"`
	Limit      int  `json:"limit"`
	Returned   int  `json:"returned"`
	HasNext    bool `json:"has_next"`
}

// NewMeta builds the metadata for a window of p over totalCount items.
func NewMeta(p Params, totalCount int) Meta {
	returned := totalCount - p.Offset
	if returned < 0 {
		returned = 0
	}
	if p.Limit > 0 && returned > p.Limit {
		returned = p.Limit
	}
	return Meta{
		TotalItems: totalCount,
		Offset:     p.Offset,
		Limit:      p.Limit,
		Returned:   returned,
		HasNext:    p.Offset+returned < totalCount,
	}
}
