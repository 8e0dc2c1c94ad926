package scraper

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUpstream serves listing pages keyed by the start offset and simple
// detail pages for every other path.
type fakeUpstream struct {
	pages         map[int]int // start offset -> number of cards
	listingCalls  int64
	detailCalls   int64
	failListings  bool
	detailContent string
}

func (f *fakeUpstream) handler(baseURL *string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, searchPath) {
			atomic.AddInt64(&f.listingCalls, 1)
			if f.failListings {
				http.Error(w, "blocked", http.StatusTooManyRequests)
				return
			}
			start, _ := strconv.Atoi(r.URL.Query().Get("start"))
			var cards []string
			for i := 0; i < f.pages[start]; i++ {
				href := fmt.Sprintf("%s/jobs/view/%d-%d", *baseURL, start, i)
				cards = append(cards, listingCard(
					fmt.Sprintf("Role %d-%d", start, i), "Acme", "Berlin, Germany", href, "2024-05-01"))
			}
			fmt.Fprint(w, "<html><body>"+strings.Join(cards, "")+"</body></html>")
			return
		}
		atomic.AddInt64(&f.detailCalls, 1)
		content := f.detailContent
		if content == "" {
			content = "Python and SQL heavy role."
		}
		fmt.Fprint(w, detailPage(content))
	}
}

func startUpstream(t *testing.T, f *fakeUpstream) *httptest.Server {
	t.Helper()
	var baseURL string
	server := httptest.NewServer(f.handler(&baseURL))
	baseURL = server.URL
	t.Cleanup(server.Close)
	return server
}

func TestSearchJobs_StopsOnEmptyPage(t *testing.T) {
	f := &fakeUpstream{pages: map[int]int{0: 6, 6: 6}} // page 3 is empty
	server := startUpstream(t, f)

	var pauses int
	s := New(Config{BaseURL: server.URL, Sleep: func(time.Duration) { pauses++ }})
	jobs := s.SearchJobs("data engineer", "Berlin", 18)

	assert.Len(t, jobs, 12)
	assert.EqualValues(t, 3, f.listingCalls)
	assert.Equal(t, 2, pauses, "one pause per non-empty page")
}

func TestSearchJobs_StopsAtMaxResults(t *testing.T) {
	f := &fakeUpstream{pages: map[int]int{0: 6, 6: 6}}
	server := startUpstream(t, f)

	s := newTestScraper(t, Config{BaseURL: server.URL})
	jobs := s.SearchJobs("data engineer", "Berlin", 6)

	assert.Len(t, jobs, 6)
	assert.EqualValues(t, 1, f.listingCalls)
}

func TestSearchJobs_PageCap(t *testing.T) {
	pages := make(map[int]int)
	for start := 0; start < 200*pageSize; start += pageSize {
		pages[start] = pageSize
	}
	f := &fakeUpstream{pages: pages}
	server := startUpstream(t, f)

	s := newTestScraper(t, Config{BaseURL: server.URL})
	jobs := s.SearchJobs("data engineer", "", 600)

	assert.Len(t, jobs, maxPageCap*pageSize)
	assert.EqualValues(t, maxPageCap, f.listingCalls)
}

func TestSearchJobs_FetchErrorStopsPaging(t *testing.T) {
	f := &fakeUpstream{failListings: true}
	server := startUpstream(t, f)

	s := newTestScraper(t, Config{BaseURL: server.URL})
	jobs := s.SearchJobs("data engineer", "Berlin", 12)

	assert.Empty(t, jobs)
	assert.EqualValues(t, 1, f.listingCalls)
}

func TestSearchJobs_RandomizedPauseRange(t *testing.T) {
	f := &fakeUpstream{pages: map[int]int{0: 6}}
	server := startUpstream(t, f)

	var slept []time.Duration
	s := New(Config{
		BaseURL: server.URL,
		Sleep:   func(d time.Duration) { slept = append(slept, d) },
		Rand:    func() float64 { return 0.5 },
	})
	s.SearchJobs("data engineer", "", 6)

	require.Len(t, slept, 1)
	assert.Equal(t, 3*time.Second, slept[0], "uniform(2,4) with rand=0.5")
}

func TestEnrichJobs_BoundedByMaxDetails(t *testing.T) {
	pages := map[int]int{0: 6, 6: 6, 12: 6, 18: 2}
	f := &fakeUpstream{pages: pages}
	server := startUpstream(t, f)

	s := newTestScraper(t, Config{BaseURL: server.URL})
	jobs := s.SearchJobs("data engineer", "", 20)
	require.Len(t, jobs, 20)

	enriched := s.EnrichJobs(jobs, 6)

	assert.Equal(t, 6, enriched)
	assert.EqualValues(t, 6, f.detailCalls)
	for i := 0; i < 6; i++ {
		require.NotNil(t, jobs[i].Details, "job %d should carry details", i)
		assert.ElementsMatch(t, []string{"Python", "SQL"}, jobs[i].Details.Skills)
	}
	for i := 6; i < len(jobs); i++ {
		assert.Nil(t, jobs[i].Details, "job %d should stay unenriched", i)
	}
}

func TestEnrichJobs_SkipsJobsWithoutURL(t *testing.T) {
	f := &fakeUpstream{pages: map[int]int{0: 2}}
	server := startUpstream(t, f)

	s := newTestScraper(t, Config{BaseURL: server.URL})
	jobs := s.SearchJobs("data engineer", "", 2)
	require.Len(t, jobs, 2)
	jobs[0].URL = ""

	enriched := s.EnrichJobs(jobs, 6)

	assert.Equal(t, 1, enriched)
	assert.Nil(t, jobs[0].Details)
	assert.NotNil(t, jobs[1].Details)
	assert.EqualValues(t, 1, f.detailCalls)
}

func TestEnrichJobs_WallClockCeiling(t *testing.T) {
	f := &fakeUpstream{pages: map[int]int{0: 6}}
	server := startUpstream(t, f)

	// First Now() call pins the start time; every later call reports the
	// budget as blown.
	start := time.Now()
	calls := 0
	clock := func() time.Time {
		calls++
		if calls == 1 {
			return start
		}
		return start.Add(enrichmentCeiling + time.Second)
	}

	s := New(Config{BaseURL: server.URL, Sleep: func(time.Duration) {}, Now: clock})
	jobs := s.SearchJobs("data engineer", "", 6)
	require.Len(t, jobs, 6)

	s.EnrichJobs(jobs, 6)

	assert.EqualValues(t, 1, f.detailCalls, "enrichment should abort after the first item")
	assert.NotNil(t, jobs[0].Details)
	assert.Nil(t, jobs[1].Details)
}

func TestEnrichJobs_FailedFetchesStillCount(t *testing.T) {
	f := &fakeUpstream{pages: map[int]int{0: 2}}
	server := startUpstream(t, f)

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer broken.Close()

	s := newTestScraper(t, Config{BaseURL: server.URL})
	jobs := s.SearchJobs("data engineer", "", 2)
	require.Len(t, jobs, 2)
	jobs[0].URL = broken.URL

	enriched := s.EnrichJobs(jobs, 6)

	// A failed fetch carries an error description, which is neither empty
	// nor the timeout sentinel, so both jobs count.
	assert.Equal(t, 2, enriched)
	require.NotNil(t, jobs[0].Details)
	assert.Equal(t, "Error: detail fetch returned status 403", jobs[0].Details.Description())
}

func TestEnrichJobs_TimeoutsDoNotCount(t *testing.T) {
	f := &fakeUpstream{pages: map[int]int{0: 2}}
	server := startUpstream(t, f)

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer slow.Close()

	s := newTestScraper(t, Config{BaseURL: server.URL})
	s.detailClient = &http.Client{Timeout: 20 * time.Millisecond}

	jobs := s.SearchJobs("data engineer", "", 2)
	require.Len(t, jobs, 2)
	jobs[0].URL = slow.URL
	jobs[1].URL = slow.URL

	enriched := s.EnrichJobs(jobs, 6)

	assert.Equal(t, 0, enriched)
	require.NotNil(t, jobs[0].Details)
	assert.Equal(t, "Timeout fetching details", jobs[0].Details.Description())
}
