package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	meterdomain "github.com/upravdom/upravdom/internal/meter/domain"
)

func (s *Server) CreateMeter(c *gin.Context) {
	var req meterdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	meter, err := s.meterSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": meter})
}

func (s *Server) ListMeters(c *gin.Context) {
	meters, err := s.meterSvc.List(c.Request.Context(), c.Query("apartment_id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": meters})
}

func (s *Server) GetMeter(c *gin.Context) {
	meter, err := s.meterSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": meter})
}

func (s *Server) RecordMeterReading(c *gin.Context) {
	var req struct {
		Reading decimal.Decimal `json:"reading"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	meter, err := s.meterSvc.RecordReading(c.Request.Context(), c.Param("id"), req.Reading)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": meter})
}

func (s *Server) DeleteMeter(c *gin.Context) {
	if err := s.meterSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
