package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/jobintellect/jobintellect/internal/dtos"
	"github.com/jobintellect/jobintellect/internal/models"
	"github.com/jobintellect/jobintellect/internal/services"
)

// The response caps both frequency reports at their top six entries.
const topEntryCap = 6

const resultsSessionKey = "last_results"

// SearchHandler exposes the scrape pipeline and its persisted data over HTTP.
type SearchHandler struct {
	SearchService *services.SearchService
	JobService    *services.JobService
	ExportService *services.ExportService
}

func NewSearchHandler(search *services.SearchService, jobs *services.JobService, exports *services.ExportService) *SearchHandler {
	return &SearchHandler{
		SearchService: search,
		JobService:    jobs,
		ExportService: exports,
	}
}

// Register wires all routes onto the router.
func (h *SearchHandler) Register(r *gin.Engine) {
	r.POST("/search", h.SearchJobs)
	r.GET("/results", h.Results)
	r.GET("/download/:filename", h.DownloadFile)
	r.GET("/database", h.DatabaseAdmin)
	r.GET("/health", h.HealthCheck)
	r.GET("/test", h.TestEndpoint)
}

// SearchJobs is the POST /search endpoint: validate, run the pipeline,
// stash results in the cookie session and answer with the aggregate report.
func (h *SearchHandler) SearchJobs(c *gin.Context) {
	var req dtos.SearchRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid form data: " + err.Error()})
		return
	}

	keywords := strings.TrimSpace(req.Keywords)
	location := strings.TrimSpace(req.Location)
	log.Printf("Search request received - Keywords: %q, Location: %q", keywords, location)

	if keywords == "" {
		log.Println("Empty keywords received")
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Please enter job keywords to search.",
		})
		return
	}

	useAuth := req.UseAuth == "on"
	result, err := h.SearchService.Run(services.SearchParams{
		Keywords:      keywords,
		Location:      location,
		UseAuth:       useAuth,
		SessionCookie: strings.TrimSpace(req.SessionCookie),
	})
	if errors.Is(err, services.ErrNoResults) {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": "No jobs found. Try different keywords or location.",
		})
		return
	}
	if err != nil {
		log.Printf("Error in search: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "An error occurred during search: " + err.Error(),
		})
		return
	}

	h.storeResults(c, result)

	log.Printf("Search completed successfully. Jobs found: %d", len(result.Jobs))
	c.JSON(http.StatusOK, dtos.SearchResponse{
		Success:         true,
		Message:         fmt.Sprintf("Found %d job listings for '%s' in '%s'", len(result.Jobs), keywords, location),
		JobsCount:       len(result.Jobs),
		JobsWithDetails: result.JobsWithDetails,
		TopSkills:       capEntries(result.TopSkills),
		TopLocations:    capEntries(result.TopLocations),
		JSONFilename:    result.JSONFilename,
		CSVFilename:     result.CSVFilename,
		DBSuccess:       result.DBSuccess,
	})
}

// storeResults keeps the last search's data in the cookie-keyed session so
// GET /results can replay it. Stored as JSON text: session backends are
// pluggable and JSON avoids per-backend type registration.
func (h *SearchHandler) storeResults(c *gin.Context, result *services.SearchResult) {
	payload, err := json.Marshal(dtos.ResultsResponse{
		Jobs:            result.Jobs,
		SkillsFrequency: result.TopSkills,
		GeoTrends:       result.TopLocations,
	})
	if err != nil {
		log.Printf("Failed to encode session results: %v", err)
		return
	}
	session := sessions.Default(c)
	session.Set(resultsSessionKey, string(payload))
	if err := session.Save(); err != nil {
		log.Printf("Failed to save session results: %v", err)
	}
}

// Results serves the last search's data from the server-side session.
func (h *SearchHandler) Results(c *gin.Context) {
	session := sessions.Default(c)
	stored, ok := session.Get(resultsSessionKey).(string)
	if !ok || stored == "" {
		c.JSON(http.StatusOK, dtos.ResultsResponse{
			Jobs:            []models.JobSummary{},
			SkillsFrequency: []models.FrequencyEntry{},
			GeoTrends:       []models.FrequencyEntry{},
		})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(stored))
}

// DownloadFile streams a previously exported file as an attachment. Any hint
// of path traversal is rejected before touching the filesystem.
func (h *SearchHandler) DownloadFile(c *gin.Context) {
	filename := c.Param("filename")
	if strings.Contains(filename, "..") || strings.HasPrefix(filename, "/") {
		c.String(http.StatusBadRequest, "Invalid filename")
		return
	}

	path := h.ExportService.Path(filename)
	if _, err := os.Stat(path); err != nil {
		c.String(http.StatusNotFound, "File not found")
		return
	}
	c.FileAttachment(path, filepath.Base(filename))
}

// DatabaseAdmin reports aggregate counts and the ten most recent sessions.
func (h *SearchHandler) DatabaseAdmin(c *gin.Context) {
	stats, err := h.JobService.Stats()
	if err != nil {
		log.Printf("Database admin error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
		return
	}
	recent, err := h.JobService.RecentSessions(10)
	if err != nil {
		log.Printf("Database admin error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total_jobs":      stats.TotalJobs,
		"total_sessions":  stats.TotalSessions,
		"total_skills":    stats.TotalSkills,
		"recent_searches": recent,
	})
}

func (h *SearchHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"database":  "SQLite",
	})
}

func (h *SearchHandler) TestEndpoint(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Server is running correctly",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func capEntries(entries []models.FrequencyEntry) []models.FrequencyEntry {
	if len(entries) > topEntryCap {
		return entries[:topEntryCap]
	}
	return entries
}
