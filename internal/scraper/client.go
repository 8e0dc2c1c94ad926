package scraper

import (
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"github.com/jobintellect/jobintellect/internal/models"
)

const (
	defaultBaseURL = "https://www.linkedin.com"
	searchPath     = "/jobs-guest/jobs/api/seeMoreJobPostings/search"

	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	listingTimeout = 20 * time.Second
	detailTimeout  = 15 * time.Second

	// One page of the guest search endpoint holds six cards; the paging
	// offset advances by the same stride in both modes.
	pageSize   = 6
	maxPageCap = 10

	enrichmentCeiling = 60 * time.Second
)

// Config carries the per-search knobs for a Scraper. The zero value is
// usable: defaults are filled in by New. Sleep, Now and Rand exist so tests
// can observe pauses and drive the wall clock.
type Config struct {
	BaseURL       string
	SessionCookie string // li_at cookie; non-empty switches to authenticated mode
	UserAgent     string
	Sleep         func(time.Duration)
	Now           func() time.Time
	Rand          func() float64 // uniform in [0,1)
}

// Scraper drives one search request: paging through listing results, then
// best-effort detail enrichment. It is single-shot and not safe for
// concurrent use; build one per request.
type Scraper struct {
	listingClient *http.Client
	detailClient  *http.Client

	base      *url.URL
	cookie    string
	userAgent string
	source    models.Source

	sleep     func(time.Duration)
	now       func() time.Time
	randFloat func() float64
	startTime time.Time
}

func New(cfg Config) *Scraper {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Sleep == nil {
		cfg.Sleep = time.Sleep
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.Float64
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		log.Printf("invalid base URL %q, falling back to default: %v", cfg.BaseURL, err)
		base, _ = url.Parse(defaultBaseURL)
	}

	source := models.SourcePublic
	if cfg.SessionCookie != "" {
		source = models.SourceAuthenticated
	}

	s := &Scraper{
		listingClient: &http.Client{Timeout: listingTimeout},
		detailClient:  &http.Client{Timeout: detailTimeout},
		base:          base,
		cookie:        cfg.SessionCookie,
		userAgent:     cfg.UserAgent,
		source:        source,
		sleep:         cfg.Sleep,
		now:           cfg.Now,
		randFloat:     cfg.Rand,
	}
	s.startTime = s.now()
	return s
}

// Source reports which mode this scraper runs in.
func (s *Scraper) Source() models.Source { return s.source }

// SearchJobs pages through the listing search endpoint and returns parsed
// job summaries in document order, at most maxResults of them. Fetch errors
// stop paging but never fail the search.
func (s *Scraper) SearchJobs(keywords, location string, maxResults int) []models.JobSummary {
	log.Printf("Searching %s for: %q in %q", s.source, keywords, location)

	maxPages := (maxResults + pageSize - 1) / pageSize
	if maxPages > maxPageCap {
		maxPages = maxPageCap
	}

	var jobs []models.JobSummary
	for page := 0; page < maxPages; page++ {
		log.Printf("Fetching page %d", page+1)
		body, err := s.fetchListingPage(keywords, location, page*pageSize)
		if err != nil {
			log.Printf("Error during job search: %v", err)
			break
		}

		cards := s.parseListingPage(body)
		if len(cards) == 0 {
			log.Println("No more job cards found")
			break
		}

		for _, j := range cards {
			if len(jobs) >= maxResults {
				break
			}
			jobs = append(jobs, j)
		}

		s.sleep(s.uniform(2, 4))

		if len(jobs) >= maxResults {
			break
		}
	}

	log.Printf("Search completed. Found %d jobs", len(jobs))
	return jobs
}

// EnrichJobs fetches details for the first maxDetails jobs and attaches the
// results in place. It returns how many attached descriptions are neither
// empty nor the timeout sentinel. The phase aborts once the wall clock since
// scraper creation exceeds the ceiling.
func (s *Scraper) EnrichJobs(jobs []models.JobSummary, maxDetails int) int {
	n := len(jobs)
	if n > maxDetails {
		n = maxDetails
	}
	log.Printf("Enriching %d jobs with details", n)

	enriched := 0
	for i := 0; i < n; i++ {
		if jobs[i].URL == "" {
			continue
		}
		log.Printf("Getting details for job %d/%d", i+1, n)
		detail := s.GetJobDetails(jobs[i].URL)
		jobs[i].Details = &detail
		if detail.Enriched() {
			enriched++
		}

		s.sleep(s.uniform(1, 2))

		if s.now().Sub(s.startTime) > enrichmentCeiling {
			log.Println("Stopping job enrichment early to avoid timeout")
			break
		}
	}

	log.Printf("Successfully enriched %d jobs with details", enriched)
	return enriched
}

func (s *Scraper) fetchListingPage(keywords, location string, offset int) (io.ReadCloser, error) {
	u := *s.base
	u.Path = searchPath
	q := url.Values{}
	q.Set("keywords", keywords)
	q.Set("location", location)
	q.Set("start", fmt.Sprint(offset))
	u.RawQuery = q.Encode()

	req, err := http.NewRequest(http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	s.setHeaders(req)

	resp, err := s.listingClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("listing fetch returned status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

func (s *Scraper) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Connection", "keep-alive")
	if s.cookie != "" {
		req.AddCookie(&http.Cookie{Name: "li_at", Value: s.cookie})
	}
}

// uniform returns a random duration in [lo, hi] seconds.
func (s *Scraper) uniform(lo, hi float64) time.Duration {
	sec := lo + s.randFloat()*(hi-lo)
	return time.Duration(sec * float64(time.Second))
}
