package models

// Record is one parsed data line of a profit-and-loss export.
type Record struct {
	Period string `json:"period"`
	Entity string `json:"entity"`
	Major  string `json:"majorCategory"`
	Mid    string `json:"midCategory"`
	// Minor is nil when the line has no minor category.
	Minor   *string       `json:"minorCategory"`
	Monthly MonthlyValues `json:"monthlyValues"`
	IsRatio bool          `json:"isRatioRow"`
}

// MinorLabel returns the minor category or fallback when it is absent.
func (r Record) MinorLabel(fallback string) string {
	if r.Minor == nil {
		return fallback
	}
	return *r.Minor
}
