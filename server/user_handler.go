package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	errs "github.com/galleried/galleria/errors"
	"github.com/galleried/galleria/server/response"
)

func (s *Server) handleGetUserProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, apiErr := s.AuthService.GetUserByName(c.Param("username"))
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

func (s *Server) handleSearchUsers() gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Query("q")
		if query == "" {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("Search query is required", http.StatusBadRequest))
			return
		}

		users, apiErr := s.AuthService.SearchUsers(query)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}

		c.JSON(http.StatusOK, users)
	}
}
