package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	ownerdomain "github.com/upravdom/upravdom/internal/owner/domain"
)

func (s *Server) CreateOwner(c *gin.Context) {
	var req ownerdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	owner, err := s.ownerSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": owner})
}

func (s *Server) ListOwners(c *gin.Context) {
	owners, err := s.ownerSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": owners})
}

func (s *Server) GetOwner(c *gin.Context) {
	owner, err := s.ownerSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": owner})
}

func (s *Server) UpdateOwner(c *gin.Context) {
	var req ownerdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	owner, err := s.ownerSvc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": owner})
}

func (s *Server) DeleteOwner(c *gin.Context) {
	if err := s.ownerSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
