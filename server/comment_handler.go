package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	errs "github.com/galleried/galleria/errors"
	"github.com/galleried/galleria/models"
	"github.com/galleried/galleria/server/response"
)

func (s *Server) handleListComments() gin.HandlerFunc {
	return func(c *gin.Context) {
		comments, apiErr := s.MediaService.ListComments(c, c.Param("id"))
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}

		c.JSON(http.StatusOK, comments)
	}
}

func (s *Server) handlePostComment() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userID")
		mediaID := c.Param("id")

		var request models.CommentRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("Comment content is required", http.StatusBadRequest))
			return
		}

		comment, apiErr := s.MediaService.PostComment(c, mediaID, userID, request.Content)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}

		c.JSON(http.StatusCreated, comment)
	}
}
