package services

import (
	"errors"
	"log"
	"time"
	"unicode/utf8"

	"github.com/jobintellect/jobintellect/internal/models"
	"gorm.io/gorm"
)

// Column caps applied before insert; oversized values are truncated, never
// rejected.
const (
	maxTitleLen          = 1000
	maxCompanyLen        = 500
	maxLocationLen       = 500
	maxURLLen            = 1000
	maxStoredDescription = 65000
	maxIndustryLen       = 500
	maxSkillLen          = 255
)

// JobService is the persistence gateway for search sessions and their jobs.
type JobService struct {
	DB *gorm.DB
}

func NewJobService(db *gorm.DB) *JobService {
	return &JobService{DB: db}
}

// SaveSession writes one search session and its jobs/skills. Saving an ID
// that already exists is an idempotent no-op. A failure on one job row or
// its skills is logged and skipped; the save succeeds once the session row
// itself committed.
func (s *JobService) SaveSession(sessionID, keywords, location string, maxResults int, useAuth bool, jobs []models.JobSummary) error {
	var existing models.SearchSession
	err := s.DB.Where("id = ?", sessionID).First(&existing).Error
	if err == nil {
		log.Printf("Session %s already exists, skipping duplicate", sessionID)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	session := models.SearchSession{
		ID:         sessionID,
		Keywords:   keywords,
		Location:   location,
		MaxResults: maxResults,
		UseAuth:    useAuth,
		SearchedAt: time.Now(),
		TotalJobs:  len(jobs),
	}
	if err := s.DB.Create(&session).Error; err != nil {
		return err
	}
	log.Printf("Saved search session: %s", sessionID)

	jobsSaved := 0
	skillsSaved := 0
	for i, job := range jobs {
		row := models.Job{
			SessionID: sessionID,
			Title:     truncate(job.Title, maxTitleLen),
			Company:   truncate(job.Company, maxCompanyLen),
			Location:  truncate(job.Location, maxLocationLen),
			URL:       truncate(job.URL, maxURLLen),
			PostDate:  job.PostDate,
			ScrapedAt: job.ScrapedAt,
			Source:    string(job.Source),
		}
		if job.Details != nil {
			row.Description = truncate(job.Details.Description(), maxStoredDescription)
			row.Industry = truncate(job.Details.Industry, maxIndustryLen)
		}

		if err := s.DB.Create(&row).Error; err != nil {
			log.Printf("Failed to save job %d: %v", i, err)
			continue
		}
		jobsSaved++

		if job.Details == nil {
			continue
		}
		for _, skill := range job.Details.Skills {
			if skill == "" || len(skill) > maxSkillLen {
				continue
			}
			if err := s.DB.Create(&models.JobSkill{JobID: row.ID, Skill: skill}).Error; err != nil {
				log.Printf("Failed to save skill %q for job %d: %v", skill, i, err)
				continue
			}
			skillsSaved++
		}
	}

	log.Printf("Database save completed: %d jobs, %d skills saved", jobsSaved, skillsSaved)
	return nil
}

// DatabaseStats are the aggregate counts shown on the admin endpoint.
type DatabaseStats struct {
	TotalJobs     int64 `json:"total_jobs"`
	TotalSessions int64 `json:"total_sessions"`
	TotalSkills   int64 `json:"total_skills"`
}

func (s *JobService) Stats() (DatabaseStats, error) {
	var stats DatabaseStats
	if err := s.DB.Model(&models.Job{}).Count(&stats.TotalJobs).Error; err != nil {
		return stats, err
	}
	if err := s.DB.Model(&models.SearchSession{}).Count(&stats.TotalSessions).Error; err != nil {
		return stats, err
	}
	if err := s.DB.Model(&models.JobSkill{}).Distinct("skill").Count(&stats.TotalSkills).Error; err != nil {
		return stats, err
	}
	return stats, nil
}

// RecentSessions returns the latest sessions by search time, newest first.
func (s *JobService) RecentSessions(limit int) ([]models.SearchSession, error) {
	var sessions []models.SearchSession
	err := s.DB.Order("searched_at DESC").Limit(limit).Find(&sessions).Error
	return sessions, err
}

// truncate caps s at n bytes without splitting a multi-byte rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
