package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/jobintellect/jobintellect/internal/models"
	"github.com/jobintellect/jobintellect/internal/scraper"
)

// The pipeline serves at most six results and enriches at most six of them,
// regardless of what the request asked for.
const (
	effectiveMaxResults = 6
	maxDetails          = 6
)

// ErrNoResults signals that the upstream search yielded zero jobs. Nothing
// is persisted or exported in that case.
var ErrNoResults = errors.New("no jobs found")

// SearchParams is one search request after handler-level validation.
type SearchParams struct {
	Keywords      string
	Location      string
	UseAuth       bool
	SessionCookie string
}

// SearchResult is everything one pipeline run produced.
type SearchResult struct {
	SessionID       string
	Jobs            []models.JobSummary
	JobsWithDetails int
	TopSkills       []models.FrequencyEntry
	TopLocations    []models.FrequencyEntry
	JSONFilename    string
	CSVFilename     string
	DBSuccess       bool
}

// SearchService orchestrates one search: listing pages, bounded enrichment,
// frequency aggregation, then persistence and file export.
type SearchService struct {
	jobs       *JobService
	exports    *ExportService
	scraperCfg scraper.Config
}

func NewSearchService(jobs *JobService, exports *ExportService, cfg scraper.Config) *SearchService {
	return &SearchService{jobs: jobs, exports: exports, scraperCfg: cfg}
}

// Run executes the full pipeline for one request. Upstream fetch failures
// degrade inside the scraper; only ErrNoResults and truly unexpected
// conditions surface here.
func (s *SearchService) Run(p SearchParams) (*SearchResult, error) {
	cfg := s.scraperCfg
	if p.UseAuth && p.SessionCookie != "" {
		cfg.SessionCookie = p.SessionCookie
	}
	sc := scraper.New(cfg)

	log.Println("Starting job search...")
	jobs := sc.SearchJobs(p.Keywords, p.Location, effectiveMaxResults)
	if len(jobs) == 0 {
		log.Println("No jobs found for search")
		return nil, ErrNoResults
	}

	jobsWithDetails := sc.EnrichJobs(jobs, maxDetails)

	topSkills := SkillFrequency(jobs)
	topLocations := LocationFrequency(jobs)

	sessionID := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	jsonFilename := fmt.Sprintf("linkedin_jobs_%s.json", sessionID)
	csvFilename := fmt.Sprintf("linkedin_jobs_%s.csv", sessionID)

	dbSuccess := true
	if err := s.jobs.SaveSession(sessionID, p.Keywords, p.Location, effectiveMaxResults, p.UseAuth, jobs); err != nil {
		log.Printf("Error saving to database: %v", err)
		dbSuccess = false
	}

	if err := s.exports.SaveJSON(jsonFilename, jobs); err != nil {
		log.Printf("File save error: %v", err)
	}
	if err := s.exports.SaveCSV(csvFilename, jobs); err != nil {
		log.Printf("File save error: %v", err)
	}

	return &SearchResult{
		SessionID:       sessionID,
		Jobs:            jobs,
		JobsWithDetails: jobsWithDetails,
		TopSkills:       topSkills,
		TopLocations:    topLocations,
		JSONFilename:    jsonFilename,
		CSVFilename:     csvFilename,
		DBSuccess:       dbSuccess,
	}, nil
}
