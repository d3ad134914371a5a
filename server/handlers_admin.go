package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/jrsteele09/go-blog-server/auth"
	"github.com/jrsteele09/go-blog-server/posts"
	"github.com/jrsteele09/go-blog-server/users"
)

const dashboardMonths = 12

// DashboardStats are the figures shown on the admin dashboard for the signed-in admin.
type DashboardStats struct {
	TotalUsers   int
	TotalPosts   int
	TotalViews   int64
	CommentCount int
	AverageViews string
	Monthly      []posts.MonthViews
}

// averageViews formats total/count with two decimals, "0" when there are no posts.
func averageViews(total int64, count int) string {
	if count == 0 {
		return "0"
	}
	return strconv.FormatFloat(float64(total)/float64(count), 'f', 2, 64)
}

// DashboardHandler renders the admin landing page.
func (s *Server) DashboardHandler() auth.UserHandler {
	return func(w http.ResponseWriter, r *http.Request, ac auth.Context, user *users.User) {
		ctx := r.Context()
		totalUsers, err := s.repos.Users.Count(ctx)
		if err != nil {
			serverError(w, r, err, "failed to count users")
			return
		}
		own, err := s.repos.Posts.Find(ctx, posts.Filter{AuthorID: user.ID}, 0, 0)
		if err != nil {
			serverError(w, r, err, "failed to load posts")
			return
		}

		stats := DashboardStats{TotalUsers: totalUsers, TotalPosts: len(own)}
		ids := make([]string, 0, len(own))
		for _, p := range own {
			stats.TotalViews += p.Views
			ids = append(ids, p.ID)
		}
		if stats.CommentCount, err = s.repos.Comments.CountByPosts(ctx, ids); err != nil {
			serverError(w, r, err, "failed to count comments")
			return
		}
		stats.AverageViews = averageViews(stats.TotalViews, stats.TotalPosts)
		stats.Monthly = posts.MonthlyViews(own, time.Now(), dashboardMonths)

		labels := make([]string, 0, len(stats.Monthly))
		values := make([]int64, 0, len(stats.Monthly))
		for _, m := range stats.Monthly {
			labels = append(labels, m.Label)
			values = append(values, m.Views)
		}
		chartLabels, _ := json.Marshal(labels)
		chartViews, _ := json.Marshal(values)

		data := s.adminPage(ac, user, "Dashboard", "dashboard")
		data["Stats"] = stats
		data["ChartLabels"] = string(chartLabels)
		data["ChartViews"] = string(chartViews)
		s.views.Render(w, http.StatusOK, "admin_dashboard.html", data)
	}
}
