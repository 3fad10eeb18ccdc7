// Package extract turns a rendered profile page into a ProfileRecord.
//
// Name and headline are required. Every other field is best effort: when it
// cannot be read the record keeps a FieldIssue and extraction carries on
// with the sibling fields.
package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/DanielFillol/linkedin-people-scraper/internal/model"
)

// ErrRequiredField is returned when name or headline is not on the page.
var ErrRequiredField = errors.New("required field not found")

// Extractor reads profile pages with a fixed set of selectors.
type Extractor struct {
	sel Selectors
}

// New returns an Extractor; empty selector fields fall back to defaults.
func New(sel Selectors) *Extractor {
	return &Extractor{sel: sel.Merge(DefaultSelectors())}
}

// Extract parses html captured from link.
func (e *Extractor) Extract(html string, link model.ProfileLink) (model.ProfileRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return model.ProfileRecord{}, fmt.Errorf("parse profile %s: %w", link, err)
	}
	return e.ExtractDocument(doc, link)
}

// ExtractDocument is Extract over an already parsed document.
func (e *Extractor) ExtractDocument(doc *goquery.Document, link model.ProfileLink) (model.ProfileRecord, error) {
	rec := model.ProfileRecord{Link: link.String()}
	var issues issueList

	var err error
	if rec.Name, err = required(doc.Selection, e.sel.Name, "name"); err != nil {
		return model.ProfileRecord{}, err
	}
	if rec.Headline, err = required(doc.Selection, e.sel.Headline, "headline"); err != nil {
		return model.ProfileRecord{}, err
	}

	if summary := doc.Find(e.sel.Summary).First(); summary.Length() > 0 {
		if text := clean(summary.Text()); text != "" {
			rec.Description = &text
		} else {
			issues.add("description", model.FieldUnparseable, "empty summary")
		}
	} else {
		issues.add("description", model.FieldMissing, "")
	}

	rec.Experience = e.experience(doc, &issues)
	rec.Education = e.education(doc, &issues)
	rec.Issues = issues
	rec.Normalize()
	return rec, nil
}

func (e *Extractor) experience(doc *goquery.Document, issues *issueList) []model.ExperienceEntry {
	section := doc.Find(e.sel.ExperienceSection).First()
	if section.Length() == 0 {
		issues.add("experience", model.FieldMissing, "")
		return []model.ExperienceEntry{}
	}

	out := []model.ExperienceEntry{}
	section.Find(e.sel.ExperienceItem).Each(func(_ int, item *goquery.Selection) {
		if item.ParentsFiltered(e.sel.ExperienceItem).Length() > 0 {
			return
		}
		field := func(name string) string { return fmt.Sprintf("experience[%d].%s", len(out), name) }

		if item.Find(e.sel.GroupSummary).Length() > 0 {
			company := e.labeled(item.Find(e.sel.GroupCompany).First(), field("company"), issues)
			duration := e.labeled(item.Find(e.sel.GroupDuration).First(), field("total_duration"), issues)
			out = append(out, model.NewGroup(company, duration))
			return
		}

		title := clean(item.Find(e.sel.PositionTitle).First().Text())
		if title == "" {
			issues.add(field("job_title"), model.FieldMissing, "")
		}
		company := e.labeled(item.Find(e.sel.PositionCompany).First(), field("company"), issues)
		dates := e.labeled(item.Find(e.sel.PositionDates).First(), field("date_range"), issues)
		out = append(out, model.NewPosition(title, company, dates))
	})
	return out
}

func (e *Extractor) education(doc *goquery.Document, issues *issueList) []model.EducationEntry {
	section := doc.Find(e.sel.EducationSection).First()
	if section.Length() == 0 {
		issues.add("education", model.FieldMissing, "")
		return []model.EducationEntry{}
	}

	out := []model.EducationEntry{}
	section.Find(e.sel.EducationItem).Each(func(_ int, item *goquery.Selection) {
		info := item.Find(e.sel.DegreeInfo).First()
		if info.Length() == 0 {
			return
		}
		parts := e.fragments(info)
		if len(parts) == 0 {
			issues.add(fmt.Sprintf("education[%d].school_name", len(out)), model.FieldUnparseable, "empty degree info")
			return
		}
		entry := model.EducationEntry{
			SchoolName: parts[0],
			TitleName:  strings.Join(parts[1:], ", "),
		}
		if dates := item.Find(e.sel.EducationDates).First(); dates.Length() > 0 {
			entry.DateRange = e.labeled(dates, fmt.Sprintf("education[%d].date_range", len(out)), issues)
		}
		out = append(out, entry)
	})
	return out
}

// labeled returns the text of s without its hidden label, recording an
// issue when s is missing or holds nothing but the label.
func (e *Extractor) labeled(s *goquery.Selection, field string, issues *issueList) string {
	if s.Length() == 0 {
		issues.add(field, model.FieldMissing, "")
		return ""
	}
	v := e.value(s)
	if v == "" {
		issues.add(field, model.FieldUnparseable, clean(s.Text()))
	}
	return v
}

func (e *Extractor) value(s *goquery.Selection) string {
	var parts []string
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		if goquery.NodeName(c) != "#text" && c.Is(e.sel.HiddenLabel) {
			return
		}
		if t := clean(c.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, " ")
}

// fragments returns the visible text of each child of s, one per line as
// the page renders them.
func (e *Extractor) fragments(s *goquery.Selection) []string {
	var out []string
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		var t string
		if goquery.NodeName(c) == "#text" {
			t = clean(c.Text())
		} else if !c.Is(e.sel.HiddenLabel) {
			t = e.value(c)
		}
		if t != "" {
			out = append(out, t)
		}
	})
	return out
}

func required(s *goquery.Selection, sel, field string) (string, error) {
	n := s.Find(sel).First()
	if n.Length() == 0 {
		return "", fmt.Errorf("%s (%s): %w", field, sel, ErrRequiredField)
	}
	text := clean(n.Text())
	if text == "" {
		return "", fmt.Errorf("%s (%s) is empty: %w", field, sel, ErrRequiredField)
	}
	return text, nil
}

// clean collapses whitespace, non-breaking spaces included.
func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

type issueList []model.FieldIssue

func (l *issueList) add(field string, status model.FieldStatus, detail string) {
	*l = append(*l, model.FieldIssue{Field: field, Status: status, Detail: detail})
}
