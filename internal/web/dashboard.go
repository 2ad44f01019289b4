package web

import (
	"net/http"

	"github.com/erazemk/hranilka/internal/model"
	"github.com/erazemk/hranilka/internal/store"
)

// Department is one storage department's occupancy.
type Department struct {
	Category model.Category
	Count    int
	Capacity int
}

// Full reports whether the department holds more items than it has slots.
func (d Department) Full() bool {
	return d.Capacity > 0 && d.Count > d.Capacity
}

type dashboardPage struct {
	PageData
	Counts      model.Counts
	Departments []Department
	Items       []model.Item
}

// Dashboard handles GET /.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListItems(r.Context(), s.DB, store.ItemFilter{Status: model.StatusActive})
	if err != nil {
		s.Logger.Errorw("failed to list active items", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	counts := model.Tally(items)
	s.Templates.Render(w, "dashboard.html", &dashboardPage{
		PageData:    s.page(w, r, "Камера хранения"),
		Counts:      counts,
		Departments: s.departments(counts),
		Items:       items,
	})
}

// departments lists the categories that have a configured capacity, in
// display order.
func (s *Server) departments(counts model.Counts) []Department {
	var out []Department
	for _, c := range model.Categories {
		capacity, ok := s.Capacity[c]
		if !ok {
			continue
		}
		out = append(out, Department{Category: c, Count: counts.Of(c), Capacity: capacity})
	}
	return out
}
