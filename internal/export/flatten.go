// Package export flattens stored profile records into a table and writes
// it as CSV or XLSX.
package export

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/DanielFillol/linkedin-people-scraper/internal/model"
)

var (
	coreColumns       = []string{"link", "name", "headline", "description"}
	experienceColumns = []string{"kind", "job_title", "company", "date_range", "total_duration"}
	educationColumns  = []string{"school_name", "title_name", "date_range"}
	trailingColumns   = []string{"issues", "scraped_at"}
)

// Flatten turns one record into column -> value. Indexed columns such as
// experience_2_company are 1-based and only present when non-empty.
func Flatten(rec model.ProfileRecord) map[string]string {
	row := map[string]string{
		"link":     rec.Link,
		"name":     rec.Name,
		"headline": rec.Headline,
	}
	if rec.Description != nil {
		row["description"] = *rec.Description
	}
	for i, e := range rec.Experience {
		put(row, "experience", i+1, "kind", string(e.Kind))
		put(row, "experience", i+1, "job_title", e.JobTitle)
		put(row, "experience", i+1, "company", e.Company)
		put(row, "experience", i+1, "date_range", e.DateRange)
		put(row, "experience", i+1, "total_duration", e.TotalDuration)
	}
	for i, e := range rec.Education {
		put(row, "education", i+1, "school_name", e.SchoolName)
		put(row, "education", i+1, "title_name", e.TitleName)
		put(row, "education", i+1, "date_range", e.DateRange)
	}
	if len(rec.Issues) > 0 {
		parts := make([]string, len(rec.Issues))
		for i, is := range rec.Issues {
			parts[i] = is.Field + ":" + string(is.Status)
		}
		row["issues"] = strings.Join(parts, "; ")
	}
	if !rec.ScrapedAt.IsZero() {
		row["scraped_at"] = rec.ScrapedAt.UTC().Format(time.RFC3339)
	}
	return row
}

func put(row map[string]string, group string, i int, field, v string) {
	if v == "" {
		return
	}
	row[fmt.Sprintf("%s_%d_%s", group, i, field)] = v
}

// Table is a rectangular view of many records.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Build unions the columns of every record: core fields first, then
// experience and education groups in index order, then issues and
// scraped_at.
func Build(records []model.ProfileRecord) Table {
	flat := make([]map[string]string, len(records))
	seen := map[string]struct{}{}
	for _, c := range coreColumns {
		seen[c] = struct{}{}
	}
	for i, rec := range records {
		flat[i] = Flatten(rec)
		for k := range flat[i] {
			seen[k] = struct{}{}
		}
	}

	cols := make([]string, 0, len(seen))
	for k := range seen {
		cols = append(cols, k)
	}
	sort.Slice(cols, func(i, j int) bool { return rank(cols[i]).less(rank(cols[j])) })

	t := Table{Columns: cols, Rows: make([][]string, len(flat))}
	for i, row := range flat {
		out := make([]string, len(cols))
		for j, c := range cols {
			out[j] = row[c]
		}
		t.Rows[i] = out
	}
	return t
}

type colRank struct {
	group, index, field int
	name                string
}

func (a colRank) less(b colRank) bool {
	if a.group != b.group {
		return a.group < b.group
	}
	if a.index != b.index {
		return a.index < b.index
	}
	if a.field != b.field {
		return a.field < b.field
	}
	return a.name < b.name
}

func rank(col string) colRank {
	if i := indexOf(coreColumns, col); i >= 0 {
		return colRank{group: 0, field: i, name: col}
	}
	if i := indexOf(trailingColumns, col); i >= 0 {
		return colRank{group: 4, field: i, name: col}
	}
	for g, grp := range []struct {
		prefix string
		fields []string
	}{{"experience_", experienceColumns}, {"education_", educationColumns}} {
		rest, ok := strings.CutPrefix(col, grp.prefix)
		if !ok {
			continue
		}
		num, field, ok := strings.Cut(rest, "_")
		n, err := strconv.Atoi(num)
		if !ok || err != nil {
			break
		}
		f := indexOf(grp.fields, field)
		if f < 0 {
			f = len(grp.fields)
		}
		return colRank{group: g + 1, index: n, field: f, name: col}
	}
	return colRank{group: 3, name: col}
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
