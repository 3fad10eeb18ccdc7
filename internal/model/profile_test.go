package model_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/DanielFillol/linkedin-people-scraper/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileLinkID(t *testing.T) {
	cases := []struct {
		name string
		link model.ProfileLink
		want string
	}{
		{"trailing slash", "https://www.linkedin.com/in/jane-doe-42/", "jane-doe-42"},
		{"no trailing slash", "https://www.linkedin.com/in/jane-doe-42", "jane-doe-42"},
		{"query stripped", "https://www.linkedin.com/in/john?trk=abc", "john"},
		{"escaped segment", "https://www.linkedin.com/in/jos%C3%A9-p/", "josé-p"},
		{"double slash", "https://www.linkedin.com/in/ana//", "ana"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := tc.link.ID()
			require.NoError(t, err)
			assert.Equal(t, tc.want, id)
		})
	}
}

func TestProfileLinkIDWithoutSegment(t *testing.T) {
	_, err := model.ProfileLink("https://www.linkedin.com/").ID()
	assert.True(t, errors.Is(err, model.ErrNoIdentifier))
}

func TestExperienceShapesAreExclusive(t *testing.T) {
	p := model.NewPosition("Data Scientist", "Acme", "Jan 2020 – Present")
	g := model.NewGroup("Globex", "3 yrs 2 mos")

	assert.False(t, p.IsGroup())
	assert.NotEmpty(t, p.JobTitle)
	assert.NotEmpty(t, p.DateRange)
	assert.Empty(t, p.TotalDuration)

	assert.True(t, g.IsGroup())
	assert.Empty(t, g.JobTitle)
	assert.Empty(t, g.DateRange)
	assert.NotEmpty(t, g.TotalDuration)
}

func TestIsGroupWithoutKind(t *testing.T) {
	assert.True(t, model.ExperienceEntry{Company: "Globex", TotalDuration: "2 yrs"}.IsGroup())
	assert.False(t, model.ExperienceEntry{JobTitle: "Dev", Company: "Globex"}.IsGroup())
}

func TestRecordJSONKeepsEmptyListsAndNullDescription(t *testing.T) {
	rec := model.ProfileRecord{Link: "https://www.linkedin.com/in/a/", Name: "A", Headline: "H"}
	rec.Normalize()

	b, err := json.Marshal(rec)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.Nil(t, raw["description"])
	assert.Contains(t, raw, "description")
	assert.Equal(t, []any{}, raw["experience"])
	assert.Equal(t, []any{}, raw["education"])
}

type stubResolver map[string]string

func (s stubResolver) Resolve(name string) (string, error) {
	if c, ok := s[name]; ok {
		return c, nil
	}
	return "", errors.New("unknown")
}

func TestNewSearchQuery(t *testing.T) {
	q, err := model.NewSearchQuery("Data Scientist", "Colombia", stubResolver{"Colombia": "co"})
	require.NoError(t, err)
	assert.Equal(t, "Data Scientist", q.Keyword())
	assert.Equal(t, "Colombia", q.Location())
	assert.Equal(t, "co", q.LocationCode())

	_, err = model.NewSearchQuery("  ", "Colombia", stubResolver{"Colombia": "co"})
	assert.ErrorIs(t, err, model.ErrEmptyKeyword)

	_, err = model.NewSearchQuery("x", "Peru", stubResolver{})
	assert.Error(t, err)
}
