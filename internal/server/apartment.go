package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apartmentdomain "github.com/upravdom/upravdom/internal/apartment/domain"
)

func (s *Server) CreateApartment(c *gin.Context) {
	var req apartmentdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	apartment, err := s.apartmentSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": apartment})
}

func (s *Server) ListApartments(c *gin.Context) {
	apartments, err := s.apartmentSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": apartments})
}

func (s *Server) GetApartment(c *gin.Context) {
	apartment, err := s.apartmentSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": apartment})
}

func (s *Server) UpdateApartment(c *gin.Context) {
	var req apartmentdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	apartment, err := s.apartmentSvc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": apartment})
}

func (s *Server) DeleteApartment(c *gin.Context) {
	if err := s.apartmentSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
