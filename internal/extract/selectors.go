package extract

// Selectors are the CSS selectors for every field read from a profile
// page. The markup belongs to the site and changes without notice, so all
// of them can be overridden from configuration.
type Selectors struct {
	Name     string `yaml:"name"`
	Headline string `yaml:"headline"`
	Summary  string `yaml:"summary"`

	ExperienceSection string `yaml:"experience_section"`
	// ExperienceItem matches both grouped and single entries.
	ExperienceItem  string `yaml:"experience_item"`
	GroupSummary    string `yaml:"group_summary"`
	GroupCompany    string `yaml:"group_company"`
	GroupDuration   string `yaml:"group_duration"`
	PositionTitle   string `yaml:"position_title"`
	PositionCompany string `yaml:"position_company"`
	PositionDates   string `yaml:"position_dates"`

	EducationSection string `yaml:"education_section"`
	EducationItem    string `yaml:"education_item"`
	DegreeInfo       string `yaml:"degree_info"`
	EducationDates   string `yaml:"education_dates"`

	// HiddenLabel matches screen-reader labels such as "Dates Employed"
	// that precede a value.
	HiddenLabel string `yaml:"hidden_label"`
}

func DefaultSelectors() Selectors {
	return Selectors{
		Name:     `h1.pv-top-card-section__name`,
		Headline: `h2.pv-top-card-section__headline`,
		Summary:  `div.pv-top-card-section__summary p`,

		ExperienceSection: `#experience-section`,
		ExperienceItem:    `.pv-entity__position-group-pager, li.pv-profile-section__sortable-item`,
		GroupSummary:      `.pv-entity__company-summary-info`,
		GroupCompany:      `.pv-entity__company-summary-info h3`,
		GroupDuration:     `.pv-entity__company-summary-info h4`,
		PositionTitle:     `h3`,
		PositionCompany:   `.pv-entity__secondary-title`,
		PositionDates:     `h4.pv-entity__date-range`,

		EducationSection: `#education-section`,
		EducationItem:    `li`,
		DegreeInfo:       `.pv-entity__degree-info`,
		EducationDates:   `p.pv-entity__dates`,

		HiddenLabel: `.visually-hidden`,
	}
}

// Merge returns s with every empty field taken from d.
func (s Selectors) Merge(d Selectors) Selectors {
	pick := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}
	return Selectors{
		Name:              pick(s.Name, d.Name),
		Headline:          pick(s.Headline, d.Headline),
		Summary:           pick(s.Summary, d.Summary),
		ExperienceSection: pick(s.ExperienceSection, d.ExperienceSection),
		ExperienceItem:    pick(s.ExperienceItem, d.ExperienceItem),
		GroupSummary:      pick(s.GroupSummary, d.GroupSummary),
		GroupCompany:      pick(s.GroupCompany, d.GroupCompany),
		GroupDuration:     pick(s.GroupDuration, d.GroupDuration),
		PositionTitle:     pick(s.PositionTitle, d.PositionTitle),
		PositionCompany:   pick(s.PositionCompany, d.PositionCompany),
		PositionDates:     pick(s.PositionDates, d.PositionDates),
		EducationSection:  pick(s.EducationSection, d.EducationSection),
		EducationItem:     pick(s.EducationItem, d.EducationItem),
		DegreeInfo:        pick(s.DegreeInfo, d.DegreeInfo),
		EducationDates:    pick(s.EducationDates, d.EducationDates),
		HiddenLabel:       pick(s.HiddenLabel, d.HiddenLabel),
	}
}
