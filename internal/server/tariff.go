package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	tariffdomain "github.com/upravdom/upravdom/internal/tariff/domain"
)

func (s *Server) CreateTariff(c *gin.Context) {
	var req tariffdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	tariff, err := s.tariffSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": tariff})
}

func (s *Server) GetTariff(c *gin.Context) {
	tariff, err := s.tariffSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tariff})
}

func (s *Server) UpdateTariff(c *gin.Context) {
	var req tariffdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	tariff, err := s.tariffSvc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tariff})
}

func (s *Server) DeleteTariff(c *gin.Context) {
	if err := s.tariffSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) TariffStatus(c *gin.Context) {
	info, err := s.tariffSvc.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": info})
}

// TariffStatusBatch resolves statuses for many tariffs in one round trip,
// sized for list screens.
func (s *Server) TariffStatusBatch(c *gin.Context) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	statuses, err := s.tariffSvc.StatusMany(c.Request.Context(), req.IDs)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": statuses})
}

func (s *Server) TariffStartDates(c *gin.Context) {
	opts, err := s.tariffSvc.StartDateOptions(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": opts})
}
