package services

import (
	"encoding/csv"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jobintellect/jobintellect/internal/models"
)

// The CSV export truncates descriptions harder than the database does.
const maxCSVDescription = 1000

// ExportService writes the in-memory batch of a search to portable files
// under a single export directory. Download requests are resolved against
// the same directory.
type ExportService struct {
	Dir string
}

func NewExportService(dir string) *ExportService {
	return &ExportService{Dir: dir}
}

// Path maps a user-supplied filename onto the export directory. Only the
// base name is honored.
func (s *ExportService) Path(filename string) string {
	return filepath.Join(s.Dir, filepath.Base(filename))
}

// SaveJSON writes all jobs with their metadata: total count and how many
// carry details.
func (s *ExportService) SaveJSON(filename string, jobs []models.JobSummary) error {
	withDetails := 0
	for _, job := range jobs {
		if job.Details != nil {
			withDetails++
		}
	}

	payload := map[string]any{
		"jobs": jobs,
		"metadata": map[string]any{
			"scraped_at":         time.Now().Format(time.RFC3339),
			"total_jobs":         len(jobs),
			"total_with_details": withDetails,
		},
	}

	f, err := os.Create(s.Path(filename))
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return err
	}
	log.Printf("Saved %d jobs to %s", len(jobs), filename)
	return nil
}

var csvHeader = []string{
	"title", "company", "location", "url", "post_date",
	"scraped_at", "source", "description", "industry", "skills",
}

// SaveCSV writes the flat tabular export: description capped at 1000 chars,
// skills joined into one delimited field.
func (s *ExportService) SaveCSV(filename string, jobs []models.JobSummary) error {
	f, err := os.Create(s.Path(filename))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, job := range jobs {
		description := ""
		industry := ""
		skills := ""
		if job.Details != nil {
			description = truncate(job.Details.Description(), maxCSVDescription)
			industry = job.Details.Industry
			skills = strings.Join(job.Details.Skills, ", ")
		}
		row := []string{
			job.Title,
			job.Company,
			job.Location,
			job.URL,
			job.PostDate,
			job.ScrapedAt.Format(time.RFC3339),
			string(job.Source),
			description,
			industry,
			skills,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	log.Printf("Saved %d jobs to %s", len(jobs), filename)
	return nil
}
