package model

// ExperienceKind tells the two experience shapes apart.
type ExperienceKind string

const (
	// KindPosition is a single role: title, company and dates.
	KindPosition ExperienceKind = "position"
	// KindGroup collapses several roles held at one company.
	KindGroup ExperienceKind = "group"
)

// ExperienceEntry is either a position or a company group. Build it with
// NewPosition or NewGroup so that only one shape's fields are set.
type ExperienceEntry struct {
	Kind          ExperienceKind `json:"kind"`
	JobTitle      string         `json:"job_title,omitempty"`
	Company       string         `json:"company"`
	DateRange     string         `json:"date_range,omitempty"`
	TotalDuration string         `json:"total_duration,omitempty"`
}

func NewPosition(title, company, dateRange string) ExperienceEntry {
	return ExperienceEntry{Kind: KindPosition, JobTitle: title, Company: company, DateRange: dateRange}
}

func NewGroup(company, totalDuration string) ExperienceEntry {
	return ExperienceEntry{Kind: KindGroup, Company: company, TotalDuration: totalDuration}
}

// IsGroup reports whether the entry is a grouped-company entry.
func (e ExperienceEntry) IsGroup() bool {
	if e.Kind != "" {
		return e.Kind == KindGroup
	}
	return e.TotalDuration != "" && e.JobTitle == "" && e.DateRange == ""
}
