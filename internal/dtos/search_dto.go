package dtos

import "github.com/jobintellect/jobintellect/internal/models"

// SearchRequest is the POST /search form. max_results is accepted for
// compatibility but the pipeline forces its own cap, so it binds as a
// string and non-numeric values do not fail the request.
type SearchRequest struct {
	Keywords      string `form:"keywords"`
	Location      string `form:"location"`
	MaxResults    string `form:"max_results"`
	UseAuth       string `form:"use_auth"`
	SessionCookie string `form:"session_cookie"`
}

// SearchResponse is the JSON body of a successful search.
type SearchResponse struct {
	Success         bool                    `json:"success"`
	Message         string                  `json:"message"`
	JobsCount       int                     `json:"jobs_count"`
	JobsWithDetails int                     `json:"jobs_with_details"`
	TopSkills       []models.FrequencyEntry `json:"top_skills"`
	TopLocations    []models.FrequencyEntry `json:"top_locations"`
	JSONFilename    string                  `json:"json_filename"`
	CSVFilename     string                  `json:"csv_filename"`
	DBSuccess       bool                    `json:"db_success"`
}

// ResultsResponse is what GET /results serves from the cookie session.
type ResultsResponse struct {
	Jobs            []models.JobSummary     `json:"jobs"`
	SkillsFrequency []models.FrequencyEntry `json:"skills_frequency"`
	GeoTrends       []models.FrequencyEntry `json:"geo_trends"`
}
