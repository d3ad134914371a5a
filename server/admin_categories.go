package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-blog-server/auth"
	"github.com/jrsteele09/go-blog-server/categories"
	blogerrors "github.com/jrsteele09/go-blog-server/internal/errors"
	"github.com/jrsteele09/go-blog-server/users"
	"github.com/rs/zerolog/log"
)

// CategoryView is a category with its post count and resolved creators.
type CategoryView struct {
	categories.WithCount
	Creators []*users.User
}

// ViewCategoriesHandler lists categories to any signed-in user; the mutation controls
// are shown to admins only.
func (s *Server) ViewCategoriesHandler() auth.UserHandler {
	return func(w http.ResponseWriter, r *http.Request, ac auth.Context, user *users.User) {
		ctx := r.Context()
		list, err := s.categoriesWithCounts(ctx)
		if err != nil {
			serverError(w, r, err, "failed to load categories")
			return
		}
		var ids []string
		for _, c := range list {
			ids = append(ids, c.CreatedBy...)
		}
		creators, err := s.usersByID(ctx, ids)
		if err != nil {
			serverError(w, r, err, "failed to load category creators")
			return
		}

		views := make([]CategoryView, 0, len(list))
		for _, c := range list {
			view := CategoryView{WithCount: c}
			for _, id := range c.CreatedBy {
				if u, ok := creators[id]; ok {
					view.Creators = append(view.Creators, u)
				}
			}
			views = append(views, view)
		}
		data := s.adminPage(ac, user, "Categories", "categories")
		data["Categories"] = views
		data["Error"] = r.URL.Query().Get("error")
		s.views.Render(w, http.StatusOK, "admin_categories.html", data)
	}
}

func (s *Server) renderCategoryForm(w http.ResponseWriter, r *http.Request, ac auth.Context, user *users.User, status int, category *categories.Category, action, errMsg string) {
	all, err := s.repos.Users.List(r.Context(), 0, 0)
	if err != nil {
		serverError(w, r, err, "failed to load users")
		return
	}
	selected := make(map[string]bool, len(category.CreatedBy))
	for _, id := range category.CreatedBy {
		selected[id] = true
	}

	title := "Create Category"
	if category.ID != "" {
		title = "Edit Category"
	}
	data := s.adminPage(ac, user, title, "categories")
	data["Category"] = category
	data["Users"] = all
	data["Selected"] = selected
	data["Action"] = action
	data["Error"] = errMsg
	s.views.Render(w, status, "admin_category_form.html", data)
}

// bindCategoryForm reads the name and creators; with no creator selected the caller is used.
func bindCategoryForm(r *http.Request, user *users.User, category *categories.Category) {
	_ = r.ParseForm()
	category.Name = strings.TrimSpace(r.FormValue("name"))
	category.CreatedBy = nil
	for _, id := range r.Form["createdBy"] {
		if id = strings.TrimSpace(id); id != "" {
			category.CreatedBy = append(category.CreatedBy, id)
		}
	}
	if len(category.CreatedBy) == 0 {
		category.CreatedBy = []string{user.ID}
	}
}

// nameTaken reports whether another category already uses name.
func (s *Server) nameTaken(r *http.Request, name, selfID string) (bool, error) {
	existing, err := s.repos.Categories.GetByName(r.Context(), name)
	if errors.Is(err, blogerrors.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return existing.ID != selfID, nil
}

func (s *Server) CreateCategoryPageHandler() auth.UserHandler {
	return func(w http.ResponseWriter, r *http.Request, ac auth.Context, user *users.User) {
		category := &categories.Category{CreatedBy: []string{user.ID}}
		s.renderCategoryForm(w, r, ac, user, http.StatusOK, category, RouteAdminCreateCategory, r.URL.Query().Get("error"))
	}
}

func (s *Server) CreateCategoryHandler() auth.UserHandler {
	return func(w http.ResponseWriter, r *http.Request, ac auth.Context, user *users.User) {
		category := &categories.Category{}
		bindCategoryForm(r, user, category)
		if err := category.Validate(); err != nil {
			s.renderCategoryForm(w, r, ac, user, http.StatusBadRequest, category, RouteAdminCreateCategory, "Name is required")
			return
		}
		taken, err := s.nameTaken(r, category.Name, "")
		if err != nil {
			serverError(w, r, err, "failed to check category name")
			return
		}
		if taken {
			s.renderCategoryForm(w, r, ac, user, http.StatusBadRequest, category, RouteAdminCreateCategory, "Category already exists")
			return
		}
		if err := s.repos.Categories.Create(r.Context(), category); err != nil {
			log.Err(err).Msg("failed to create category")
			redirectWithError(w, r, pathCreateCategory, "Failed to create category")
			return
		}
		redirectSuccess(w, r, pathViewCategory)
	}
}

func editCategoryPath(id string) string {
	return "/admin/category/edit-category/" + id
}

// loadCategory writes a 404 and returns nil when the id path value names no category.
func (s *Server) loadCategory(w http.ResponseWriter, r *http.Request) *categories.Category {
	category, err := s.repos.Categories.GetByID(r.Context(), r.PathValue("id"))
	if errors.Is(err, blogerrors.ErrNotFound) {
		http.Error(w, "Category not found", http.StatusNotFound)
		return nil
	}
	if err != nil {
		serverError(w, r, err, "failed to load category")
		return nil
	}
	return category
}

func (s *Server) EditCategoryPageHandler() auth.UserHandler {
	return func(w http.ResponseWriter, r *http.Request, ac auth.Context, user *users.User) {
		category := s.loadCategory(w, r)
		if category == nil {
			return
		}
		s.renderCategoryForm(w, r, ac, user, http.StatusOK, category, editCategoryPath(category.ID), "")
	}
}

func (s *Server) EditCategoryHandler() auth.UserHandler {
	return func(w http.ResponseWriter, r *http.Request, ac auth.Context, user *users.User) {
		category := s.loadCategory(w, r)
		if category == nil {
			return
		}
		action := editCategoryPath(category.ID)
		bindCategoryForm(r, user, category)
		if err := category.Validate(); err != nil {
			s.renderCategoryForm(w, r, ac, user, http.StatusBadRequest, category, action, "Name is required")
			return
		}
		taken, err := s.nameTaken(r, category.Name, category.ID)
		if err != nil {
			serverError(w, r, err, "failed to check category name")
			return
		}
		if taken {
			s.renderCategoryForm(w, r, ac, user, http.StatusBadRequest, category, action, "Category already exists")
			return
		}
		if err := s.repos.Categories.Update(r.Context(), category); err != nil {
			serverError(w, r, err, "failed to update category")
			return
		}
		redirectSuccess(w, r, pathViewCategory)
	}
}

func (s *Server) DeleteCategoryHandler() auth.UserHandler {
	return func(w http.ResponseWriter, r *http.Request, _ auth.Context, user *users.User) {
		id := r.PathValue("id")
		err := s.repos.Categories.Delete(r.Context(), id)
		if errors.Is(err, blogerrors.ErrNotFound) {
			http.Error(w, "Category not found", http.StatusNotFound)
			return
		}
		if err != nil {
			serverError(w, r, err, "failed to delete category")
			return
		}
		log.Info().Str("category_id", id).Str("by", user.ID).Msg("category deleted")
		redirectSuccess(w, r, pathViewCategory)
	}
}
