package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	quotationdomain "github.com/smallbiznis/cotiza/internal/quotation/domain"
	"github.com/smallbiznis/cotiza/pkg/db/pagination"
)

type lineItemRequest struct {
	Name         string   `json:"name"`
	Quantity     int64    `json:"quantity"`
	DurationDays int64    `json:"duration_days"`
	UnitPrice    float64  `json:"unit_price"`
	SubItems     []string `json:"sub_items"`
}

type createQuotationRequest struct {
	UniqueQuotationID string            `json:"unique_quotation_id"`
	ClientName        string            `json:"client_name"`
	Email             string            `json:"email"`
	Phone             string            `json:"phone"`
	QuotationDate     string            `json:"quotation_date"`
	Items             []lineItemRequest `json:"items"`
}

type updateQuotationRequest struct {
	ClientName    string            `json:"client_name"`
	Email         string            `json:"email"`
	Phone         string            `json:"phone"`
	QuotationDate string            `json:"quotation_date"`
	Items         []lineItemRequest `json:"items"`
}

func (s *Server) CreateQuotation(c *gin.Context) {
	var req createQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	date, err := parseOptionalDate(req.QuotationDate)
	if err != nil {
		AbortWithError(c, newValidationError("quotation_date", "invalid_quotation_date", "invalid quotation_date"))
		return
	}

	resp, err := s.quotationSvc.Create(c.Request.Context(), quotationdomain.CreateQuotationRequest{
		UniqueQuotationID: strings.TrimSpace(req.UniqueQuotationID),
		ClientName:        strings.TrimSpace(req.ClientName),
		Email:             strings.TrimSpace(req.Email),
		Phone:             strings.TrimSpace(req.Phone),
		Date:              date,
		Items:             toLineItemInputs(req.Items),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListQuotations(c *gin.Context) {
	var query struct {
		pagination.Pagination
		ClientName string `form:"client_name"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.quotationSvc.List(c.Request.Context(), quotationdomain.ListQuotationRequest{
		ClientName: strings.TrimSpace(query.ClientName),
		PageToken:  query.PageToken,
		PageSize:   query.PageSize,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetQuotation(c *gin.Context) {
	resp, err := s.quotationSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateQuotation(c *gin.Context) {
	var req updateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	date, err := parseOptionalDate(req.QuotationDate)
	if err != nil {
		AbortWithError(c, newValidationError("quotation_date", "invalid_quotation_date", "invalid quotation_date"))
		return
	}

	resp, err := s.quotationSvc.Update(c.Request.Context(), c.Param("id"), quotationdomain.UpdateQuotationRequest{
		ClientName: strings.TrimSpace(req.ClientName),
		Email:      strings.TrimSpace(req.Email),
		Phone:      strings.TrimSpace(req.Phone),
		Date:       date,
		Items:      toLineItemInputs(req.Items),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteQuotation(c *gin.Context) {
	if err := s.quotationSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func toLineItemInputs(items []lineItemRequest) []quotationdomain.LineItemInput {
	inputs := make([]quotationdomain.LineItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, quotationdomain.LineItemInput{
			Name:         item.Name,
			Quantity:     item.Quantity,
			DurationDays: item.DurationDays,
			UnitPrice:    item.UnitPrice,
			SubItems:     item.SubItems,
		})
	}
	return inputs
}

func parseOptionalDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
