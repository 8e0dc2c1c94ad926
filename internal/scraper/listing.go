package scraper

import (
	"errors"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	"github.com/jobintellect/jobintellect/internal/models"
)

// errMissingFields marks a candidate card that lacks one of the three
// required fields. Such cards are dropped, not reported.
var errMissingFields = errors.New("listing card missing required fields")

// parseListingPage converts one page of listing markup into job summaries in
// document order. A page with no recognizable cards yields an empty slice,
// which is the caller's signal to stop paging.
func (s *Scraper) parseListingPage(body io.ReadCloser) []models.JobSummary {
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil
	}

	var jobs []models.JobSummary
	doc.Find("div.base-card").Each(func(_ int, card *goquery.Selection) {
		job, err := s.parseCard(card)
		if err != nil {
			return
		}
		jobs = append(jobs, job)
	})
	return jobs
}

func (s *Scraper) parseCard(card *goquery.Selection) (models.JobSummary, error) {
	title := strings.TrimSpace(card.Find("h3.base-search-card__title").First().Text())
	company := strings.TrimSpace(card.Find("h4.base-search-card__subtitle").First().Text())
	location := strings.TrimSpace(card.Find("span.job-search-card__location").First().Text())

	if title == "" || company == "" || location == "" {
		return models.JobSummary{}, errMissingFields
	}

	jobURL := card.Find("a.base-card__full-link").First().AttrOr("href", "")
	jobURL = s.normalizeJobURL(jobURL)

	postDate := ""
	if attr, ok := card.Find("time.job-search-card__listdate").First().Attr("datetime"); ok {
		postDate = normalizePostDate(attr)
	}

	return models.JobSummary{
		Title:     title,
		Company:   company,
		Location:  location,
		URL:       jobURL,
		PostDate:  postDate,
		ScrapedAt: s.now(),
		Source:    s.source,
	}, nil
}

// normalizeJobURL strips the query string and, in authenticated mode,
// resolves site-relative links against the base origin.
func (s *Scraper) normalizeJobURL(jobURL string) string {
	if i := strings.Index(jobURL, "?"); i >= 0 {
		jobURL = jobURL[:i]
	}
	if s.source == models.SourceAuthenticated && strings.HasPrefix(jobURL, "/") {
		jobURL = s.base.Scheme + "://" + s.base.Host + jobURL
	}
	return jobURL
}

// normalizePostDate reduces the datetime attribute to a plain date when it
// parses; otherwise the raw attribute value is kept.
func normalizePostDate(attr string) string {
	attr = strings.TrimSpace(attr)
	if attr == "" {
		return ""
	}
	if t, err := dateparse.ParseAny(attr); err == nil {
		return t.Format("2006-01-02")
	}
	return attr
}
