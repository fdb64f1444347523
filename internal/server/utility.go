package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	tariffdomain "github.com/upravdom/upravdom/internal/tariff/domain"
	utilitydomain "github.com/upravdom/upravdom/internal/utility/domain"
)

func (s *Server) CreateUtilityService(c *gin.Context) {
	var req utilitydomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	svc, err := s.utilitySvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": svc})
}

func (s *Server) ListUtilityServices(c *gin.Context) {
	svcs, err := s.utilitySvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": svcs})
}

func (s *Server) GetUtilityService(c *gin.Context) {
	svc, err := s.utilitySvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": svc})
}

func (s *Server) UpdateUtilityService(c *gin.Context) {
	var req utilitydomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	svc, err := s.utilitySvc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": svc})
}

func (s *Server) DeleteUtilityService(c *gin.Context) {
	if err := s.utilitySvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListServiceTariffs returns the full tariff timeline of one utility service.
func (s *Server) ListServiceTariffs(c *gin.Context) {
	tariffs, err := s.tariffSvc.List(c.Request.Context(), tariffdomain.ListRequest{
		ServiceID: c.Param("id"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tariffs})
}
