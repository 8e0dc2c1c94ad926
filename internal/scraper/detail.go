package scraper

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/jobintellect/jobintellect/internal/models"
)

const (
	// Hard caps: the stored description and the readable-text fallback.
	maxDescriptionLength = 5000
	maxFallbackLength    = 2000
)

// Ordered by specificity; the first selector yielding non-empty text wins.
var descriptionSelectors = []string{
	"div.description__text",
	"section.description",
	"div.description",
	"div.job-details",
	"div.job-description",
}

// GetJobDetails fetches one job page and extracts description, skills and
// industry. Failures come back as tagged results, never as errors, so the
// enrichment phase stays failure-tolerant. An empty URL short-circuits
// without any network call.
func (s *Scraper) GetJobDetails(jobURL string) models.JobDetail {
	if jobURL == "" {
		return models.JobDetail{Status: models.DetailSkipped, Skills: []string{}}
	}

	log.Printf("Fetching job details from: %s", clip(jobURL, 100))

	body, err := s.fetchDetailPage(jobURL)
	if err != nil {
		var nerr net.Error
		if errors.As(err, &nerr) && nerr.Timeout() {
			log.Printf("Timeout fetching job details from: %s", clip(jobURL, 100))
			return models.JobDetail{Status: models.DetailTimeout, Skills: []string{}}
		}
		log.Printf("Error getting job details: %v", err)
		return models.JobDetail{Status: models.DetailFailed, Message: err.Error(), Skills: []string{}}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		log.Printf("Error parsing job details: %v", err)
		return models.JobDetail{Status: models.DetailFailed, Message: err.Error(), Skills: []string{}}
	}

	description := extractDescription(doc, body, jobURL)
	if len(description) > maxDescriptionLength {
		description = description[:maxDescriptionLength]
	}

	return models.JobDetail{
		Status:   models.DetailFetched,
		Text:     description,
		Skills:   ExtractSkills(description),
		Industry: extractIndustry(doc),
	}
}

func (s *Scraper) fetchDetailPage(jobURL string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, jobURL, nil)
	if err != nil {
		return nil, err
	}
	s.setHeaders(req)

	resp, err := s.detailClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("detail fetch returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// extractDescription walks the structural selectors in order, then falls
// back to readable main-content text capped at the fallback length.
func extractDescription(doc *goquery.Document, raw []byte, jobURL string) string {
	for _, sel := range descriptionSelectors {
		if text := strings.TrimSpace(doc.Find(sel).First().Text()); text != "" {
			return text
		}
	}

	pageURL, _ := url.Parse(jobURL)
	if article, err := readability.FromReader(bytes.NewReader(raw), pageURL); err == nil {
		if text := strings.TrimSpace(article.TextContent); text != "" {
			return clip(text, maxFallbackLength)
		}
	}

	// Readability found nothing; last resort is the raw body text.
	if text := strings.TrimSpace(doc.Find("body").Text()); text != "" {
		return clip(text, maxFallbackLength)
	}
	return ""
}

// clip caps s at n bytes without splitting a multi-byte rune.
func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
