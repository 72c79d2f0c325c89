package http

import (
	"net/http"
	"time"

	"cashflow/internal/core"
	"cashflow/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type createTransactionRequest struct {
	Category    uuid.UUID     `json:"category"`
	Type        core.FlowType `json:"type"`
	Amount      core.Money    `json:"amount"`
	Description string        `json:"description"`
	Date        string        `json:"date"`
}

type updateTransactionRequest struct {
	Category    *uuid.UUID     `json:"category"`
	Type        *core.FlowType `json:"type"`
	Amount      *core.Money    `json:"amount"`
	Description *string        `json:"description"`
	Date        *string        `json:"date"`
}

func (s *Server) createTransaction(c *gin.Context) {
	var req createTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	var date time.Time
	if req.Date != "" {
		parsed, err := parseDate(req.Date)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		date = parsed
	}

	created, err := s.transactions.Create(c.Request.Context(), currentUser(c).ID, services.CreateTransactionInput{
		CategoryID:  req.Category,
		Type:        req.Type,
		Amount:      req.Amount,
		Description: req.Description,
		Date:        date,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTransactionResponse(created))
}

func (s *Server) listTransactions(c *gin.Context) {
	filter, err := parseTransactionFilter(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	txns, page, err := s.transactions.List(c.Request.Context(), currentUser(c).ID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTransactionListResponse(txns, page))
}

func (s *Server) getTransaction(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	txn, err := s.transactions.Get(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTransactionResponse(txn))
}

func (s *Server) updateTransaction(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	var req updateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	in := services.UpdateTransactionInput{
		CategoryID:  req.Category,
		Type:        req.Type,
		Amount:      req.Amount,
		Description: req.Description,
	}
	if req.Date != nil {
		parsed, err := parseDate(*req.Date)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		in.Date = &parsed
	}

	updated, err := s.transactions.Update(c.Request.Context(), currentUser(c).ID, id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTransactionResponse(updated))
}

func (s *Server) deleteTransaction(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := s.transactions.Delete(c.Request.Context(), currentUser(c).ID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) getSummary(c *gin.Context) {
	var req services.SummaryRequest
	if v := c.Query("startDate"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		req.Start = t
	}
	if v := c.Query("endDate"); v != "" {
		t, err := parseEndDate(v)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		req.End = t
	}

	summary, err := s.summary.Summarize(c.Request.Context(), currentUser(c).ID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
