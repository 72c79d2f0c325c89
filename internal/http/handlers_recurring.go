package http

import (
	"net/http"
	"time"

	"cashflow/internal/core"
	"cashflow/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type createTemplateRequest struct {
	Category    uuid.UUID      `json:"category"`
	Type        core.FlowType  `json:"type"`
	Amount      core.Money     `json:"amount"`
	Description string         `json:"description"`
	Frequency   core.Frequency `json:"frequency"`
	StartDate   string         `json:"startDate"`
	EndDate     string         `json:"endDate"`
}

type updateTemplateRequest struct {
	Category    *uuid.UUID      `json:"category"`
	Type        *core.FlowType  `json:"type"`
	Amount      *core.Money     `json:"amount"`
	Description *string         `json:"description"`
	Frequency   *core.Frequency `json:"frequency"`
	StartDate   *string         `json:"startDate"`
	EndDate     *string         `json:"endDate"`
}

func (s *Server) createTemplate(c *gin.Context) {
	var req createTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	in := services.CreateTemplateInput{
		CategoryID:  req.Category,
		Type:        req.Type,
		Amount:      req.Amount,
		Description: req.Description,
		Frequency:   req.Frequency,
	}
	var err error
	if req.StartDate != "" {
		if in.StartDate, err = parseDate(req.StartDate); err != nil {
			badRequest(c, err.Error())
			return
		}
	}
	if req.EndDate != "" {
		if in.EndDate, err = parseEndDate(req.EndDate); err != nil {
			badRequest(c, err.Error())
			return
		}
	}

	created, err := s.recurring.Create(c.Request.Context(), currentUser(c).ID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTemplateResponse(created))
}

func (s *Server) listTemplates(c *gin.Context) {
	tpls, err := s.recurring.List(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]templateResponse, 0, len(tpls))
	for _, tpl := range tpls {
		out = append(out, toTemplateResponse(tpl))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getTemplate(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	tpl, err := s.recurring.Get(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTemplateResponse(tpl))
}

func (s *Server) updateTemplate(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	var req updateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	in := services.UpdateTemplateInput{
		CategoryID:  req.Category,
		Type:        req.Type,
		Amount:      req.Amount,
		Description: req.Description,
		Frequency:   req.Frequency,
	}
	if req.StartDate != nil {
		parsed, err := parseDate(*req.StartDate)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		in.StartDate = &parsed
	}
	if req.EndDate != nil {
		// An empty string clears the end date, reopening the template.
		var parsed time.Time
		if *req.EndDate != "" {
			if parsed, err = parseEndDate(*req.EndDate); err != nil {
				badRequest(c, err.Error())
				return
			}
		}
		in.EndDate = &parsed
	}

	updated, err := s.recurring.Update(c.Request.Context(), currentUser(c).ID, id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTemplateResponse(updated))
}

func (s *Server) deleteTemplate(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := s.recurring.Delete(c.Request.Context(), currentUser(c).ID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
