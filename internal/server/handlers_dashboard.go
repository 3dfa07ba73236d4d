package server

import (
	"net/http"
	"time"

	"github.com/jonathan/resume-builder/internal/resume"
)

// dashboardStatistics is the aggregate block of the dashboard response.
type dashboardStatistics struct {
	TotalResumes   int `json:"totalResumes"`
	TotalViews     int `json:"totalViews"`
	TotalDownloads int `json:"totalDownloads"`
	PublicResumes  int `json:"publicResumes"`
	RecentActivity int `json:"recentActivity"`
}

// dashboardResume is the trimmed per-resume projection on the dashboard.
type dashboardResume struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updatedAt"`
	Views     int       `json:"views"`
	Downloads int       `json:"downloads"`
}

// dashboardMostViewed names the owner's most viewed resume.
type dashboardMostViewed struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Views int    `json:"views"`
}

// handleDashboard aggregates the owner's resume statistics: totals, public
// count, activity in the last 30 days, and the most viewed resume.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	docs, err := s.gateway.List(r.Context(), owner)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	stats := dashboardStatistics{TotalResumes: len(docs)}
	cutoff := time.Now().Add(-30 * 24 * time.Hour)
	recent := []dashboardResume{}
	var mostViewed *resume.Document

	for _, doc := range docs {
		stats.TotalViews += doc.ViewCount
		stats.TotalDownloads += doc.DownloadCount
		if doc.Visibility == resume.VisibilityPublic {
			stats.PublicResumes++
		}
		if doc.UpdatedAt.After(cutoff) {
			stats.RecentActivity++
			if len(recent) < 5 {
				// List is ordered by updatedAt descending already.
				recent = append(recent, dashboardResume{
					ID:        doc.ID.String(),
					Title:     doc.Title,
					UpdatedAt: doc.UpdatedAt,
					Views:     doc.ViewCount,
					Downloads: doc.DownloadCount,
				})
			}
		}
		if mostViewed == nil || doc.ViewCount > mostViewed.ViewCount {
			mostViewed = doc
		}
	}

	response := map[string]any{
		"statistics":       stats,
		"recentResumes":    recent,
		"mostViewedResume": nil,
	}
	if mostViewed != nil {
		response["mostViewedResume"] = dashboardMostViewed{
			ID:    mostViewed.ID.String(),
			Title: mostViewed.Title,
			Views: mostViewed.ViewCount,
		}
	}
	s.jsonResponse(w, http.StatusOK, response)
}
