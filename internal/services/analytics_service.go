package services

import (
	"sort"

	"github.com/jobintellect/jobintellect/internal/models"
)

// SkillFrequency counts extracted skills across the batch. Only enriched
// jobs contribute, since only they carry skills. Entries come back sorted
// by count descending; ties keep first-seen order.
func SkillFrequency(jobs []models.JobSummary) []models.FrequencyEntry {
	counts := make(map[string]int)
	var order []string
	for _, job := range jobs {
		if job.Details == nil {
			continue
		}
		for _, skill := range job.Details.Skills {
			if _, seen := counts[skill]; !seen {
				order = append(order, skill)
			}
			counts[skill]++
		}
	}
	return sortedEntries(counts, order)
}

// LocationFrequency counts job locations across the whole batch, enriched
// or not.
func LocationFrequency(jobs []models.JobSummary) []models.FrequencyEntry {
	counts := make(map[string]int)
	var order []string
	for _, job := range jobs {
		location := job.Location
		if location == "" {
			location = "Unknown"
		}
		if _, seen := counts[location]; !seen {
			order = append(order, location)
		}
		counts[location]++
	}
	return sortedEntries(counts, order)
}

func sortedEntries(counts map[string]int, order []string) []models.FrequencyEntry {
	entries := make([]models.FrequencyEntry, 0, len(order))
	for _, label := range order {
		entries = append(entries, models.FrequencyEntry{Label: label, Count: counts[label]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	return entries
}
