package http

import (
	"net/http"

	"cashflow/internal/core"
	"cashflow/internal/services"

	"github.com/gin-gonic/gin"
)

type createCategoryRequest struct {
	Name      string        `json:"name"`
	Type      core.FlowType `json:"type"`
	Color     string        `json:"color"`
	Protected bool          `json:"protected"`
}

type updateCategoryRequest struct {
	Name      *string        `json:"name"`
	Type      *core.FlowType `json:"type"`
	Color     *string        `json:"color"`
	Protected *bool          `json:"protected"`
}

func (s *Server) createCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	created, err := s.categories.Create(c.Request.Context(), currentUser(c).ID, services.CreateCategoryInput{
		Name:      req.Name,
		Type:      req.Type,
		Color:     req.Color,
		Protected: req.Protected,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCategoryResponse(created))
}

func (s *Server) listCategories(c *gin.Context) {
	cats, err := s.categories.List(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]categoryResponse, 0, len(cats))
	for _, cat := range cats {
		out = append(out, toCategoryResponse(cat))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getCategory(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	cat, err := s.categories.Get(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCategoryResponse(cat))
}

func (s *Server) updateCategory(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	var req updateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	updated, err := s.categories.Update(c.Request.Context(), currentUser(c).ID, id, services.UpdateCategoryInput{
		Name:      req.Name,
		Type:      req.Type,
		Color:     req.Color,
		Protected: req.Protected,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCategoryResponse(updated))
}

func (s *Server) deleteCategory(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := s.categories.Delete(c.Request.Context(), currentUser(c).ID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
