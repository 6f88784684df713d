package services

import (
	"time"

	"github.com/rahasiadapur/backend/internal/models"
	"github.com/rahasiadapur/backend/internal/store"
	"gorm.io/gorm"
)

const growthMonths = 6

// Chart is a label/dataset pair shaped for chart rendering on the client.
type Chart struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

type Dataset struct {
	Label string  `json:"label"`
	Data  []int64 `json:"data"`
}

// DashboardStats is the full admin dashboard payload.
type DashboardStats struct {
	TotalUsers        int64                `json:"total_users"`
	TotalRecipes      int64                `json:"total_recipes"`
	TotalTips         int64                `json:"total_tips"`
	RecipesByCategory Chart                `json:"recipes_by_category"`
	MonthlyGrowth     Chart                `json:"monthly_growth"`
	RecentActivity    []models.ActivityLog `json:"recent_activity"`
}

// DashboardService aggregates counts, charts and the activity feed for the
// admin dashboard.
type DashboardService struct {
	db      *gorm.DB
	users   *store.Users
	recipes *store.Recipes
	tips    *store.Tips
}

func NewDashboardService(db *gorm.DB, users *store.Users, recipes *store.Recipes, tips *store.Tips) *DashboardService {
	return &DashboardService{
		db:      db,
		users:   users,
		recipes: recipes,
		tips:    tips,
	}
}

// Stats assembles the dashboard payload.
func (s *DashboardService) Stats() (*DashboardStats, error) {
	totalUsers, err := s.users.Count()
	if err != nil {
		return nil, err
	}
	totalRecipes, err := s.recipes.Count()
	if err != nil {
		return nil, err
	}
	totalTips, err := s.tips.Count()
	if err != nil {
		return nil, err
	}

	byCategory, err := s.recipes.CountByCategory()
	if err != nil {
		return nil, err
	}

	growth, err := s.monthlyGrowth(time.Now())
	if err != nil {
		return nil, err
	}

	activity, err := RecentActivity(s.db, 10)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TotalUsers:        totalUsers,
		TotalRecipes:      totalRecipes,
		TotalTips:         totalTips,
		RecipesByCategory: categoryChart(byCategory),
		MonthlyGrowth:     growth,
		RecentActivity:    activity,
	}, nil
}

func categoryChart(rows []store.CategoryCount) Chart {
	labels := make([]string, 0, len(rows))
	data := make([]int64, 0, len(rows))
	for _, row := range rows {
		labels = append(labels, row.Category)
		data = append(data, row.Count)
	}
	return Chart{
		Labels:   labels,
		Datasets: []Dataset{{Label: "Recipes", Data: data}},
	}
}

// monthlyGrowth buckets user and recipe creation timestamps into the last
// six calendar months. Timestamps come out of the store raw and are grouped
// here, so the same code serves every SQL dialect.
func (s *DashboardService) monthlyGrowth(now time.Time) (Chart, error) {
	start := monthStart(now).AddDate(0, -(growthMonths - 1), 0)

	userStamps, err := s.users.CreatedSince(start)
	if err != nil {
		return Chart{}, err
	}
	recipeStamps, err := s.recipes.CreatedSince(start)
	if err != nil {
		return Chart{}, err
	}

	labels := make([]string, growthMonths)
	index := make(map[string]int, growthMonths)
	for i := 0; i < growthMonths; i++ {
		month := start.AddDate(0, i, 0)
		key := month.Format("2006-01")
		labels[i] = month.Format("Jan 2006")
		index[key] = i
	}

	userData := bucketByMonth(userStamps, index)
	recipeData := bucketByMonth(recipeStamps, index)

	return Chart{
		Labels: labels,
		Datasets: []Dataset{
			{Label: "Users", Data: userData},
			{Label: "Recipes", Data: recipeData},
		},
	}, nil
}

func bucketByMonth(stamps []time.Time, index map[string]int) []int64 {
	data := make([]int64, growthMonths)
	for _, ts := range stamps {
		if i, ok := index[ts.Format("2006-01")]; ok {
			data[i]++
		}
	}
	return data
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
