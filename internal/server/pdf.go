package server

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
)

func (s *Server) DownloadQuotationPDF(c *gin.Context) {
	quotation, err := s.quotationSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc, err := s.pdfProvider.RenderQuotation(c.Request.Context(), quotation)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.obsMetrics.RecordPDFRender(c.Request.Context(), "quotation")
	writePDF(c, fmt.Sprintf("quotation-%s.pdf", slug.Make(quotation.ClientName)), doc)
}

func (s *Server) DownloadInvoicePDF(c *gin.Context) {
	invoice, err := s.invoiceSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc, err := s.pdfProvider.RenderInvoice(c.Request.Context(), invoice)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.obsMetrics.RecordPDFRender(c.Request.Context(), "invoice")
	writePDF(c, fmt.Sprintf("%s.pdf", slug.Make(invoice.InvoiceNumber)), doc)
}

func writePDF(c *gin.Context, filename string, doc io.Reader) {
	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, doc)
}
