package services

import (
	"encoding/json"
	"testing"

	"github.com/jobintellect/jobintellect/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jobWithSkills(location string, skills ...string) models.JobSummary {
	return models.JobSummary{
		Title:    "Engineer",
		Company:  "Acme",
		Location: location,
		Details:  &models.JobDetail{Status: models.DetailFetched, Text: "desc", Skills: skills},
	}
}

func TestSkillFrequency_SortedDescending(t *testing.T) {
	jobs := []models.JobSummary{
		jobWithSkills("Berlin", "Python", "SQL"),
		jobWithSkills("Berlin", "Python", "Docker"),
		jobWithSkills("Munich", "Python"),
	}

	freq := SkillFrequency(jobs)

	require.Len(t, freq, 3)
	assert.Equal(t, models.FrequencyEntry{Label: "Python", Count: 3}, freq[0])
	// SQL and Docker tie at 1; first-seen order wins.
	assert.Equal(t, models.FrequencyEntry{Label: "SQL", Count: 1}, freq[1])
	assert.Equal(t, models.FrequencyEntry{Label: "Docker", Count: 1}, freq[2])
}

func TestSkillFrequency_IgnoresUnenrichedJobs(t *testing.T) {
	jobs := []models.JobSummary{
		jobWithSkills("Berlin", "Go"),
		{Title: "Engineer", Company: "Acme", Location: "Berlin"}, // no details
	}

	freq := SkillFrequency(jobs)
	require.Len(t, freq, 1)
	assert.Equal(t, "Go", freq[0].Label)
}

func TestLocationFrequency_CountsAllJobs(t *testing.T) {
	jobs := []models.JobSummary{
		jobWithSkills("Berlin", "Go"),
		{Title: "A", Company: "X", Location: "Berlin"},
		{Title: "B", Company: "Y", Location: "Munich"},
		{Title: "C", Company: "Z", Location: ""},
	}

	freq := LocationFrequency(jobs)

	require.Len(t, freq, 3)
	assert.Equal(t, models.FrequencyEntry{Label: "Berlin", Count: 2}, freq[0])
	assert.Equal(t, models.FrequencyEntry{Label: "Munich", Count: 1}, freq[1])
	assert.Equal(t, models.FrequencyEntry{Label: "Unknown", Count: 1}, freq[2])
}

func TestFrequencyStability_ManyTies(t *testing.T) {
	labels := []string{"Zeta", "Alpha", "Mid", "Beta", "Omega"}
	var jobs []models.JobSummary
	for _, l := range labels {
		jobs = append(jobs, models.JobSummary{Title: "T", Company: "C", Location: l})
	}

	freq := LocationFrequency(jobs)
	require.Len(t, freq, len(labels))
	for i, l := range labels {
		assert.Equal(t, l, freq[i].Label, "equal counts keep first-seen order")
	}
}

func TestFrequencyEntry_MarshalsAsPair(t *testing.T) {
	b, err := json.Marshal(models.FrequencyEntry{Label: "Python", Count: 4})
	require.NoError(t, err)
	assert.JSONEq(t, `["Python", 4]`, string(b))
}
