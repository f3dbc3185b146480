package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/galleried/galleria/db"
	errs "github.com/galleried/galleria/errors"
	"github.com/galleried/galleria/models"
	"github.com/galleried/galleria/server/response"
)

func (s *Server) handleGetFeed() gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(db.DefaultPage)))
		if err != nil || page < 1 {
			page = db.DefaultPage
		}
		limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(db.DefaultPageSize)))
		if err != nil || limit < 1 {
			limit = db.DefaultPageSize
		}

		feed, apiErr := s.MediaService.GetFeed(c, page, limit, s.currentViewerID(c))
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}

		c.JSON(http.StatusOK, feed)
	}
}

func (s *Server) handleGetUserMedia() gin.HandlerFunc {
	return func(c *gin.Context) {
		creatorID, err := strconv.ParseUint(c.Param("userID"), 10, 64)
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("invalid user id", http.StatusBadRequest))
			return
		}

		media, apiErr := s.MediaService.GetUserMedia(c, uint(creatorID), s.currentViewerID(c))
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}

		c.JSON(http.StatusOK, media)
	}
}

func (s *Server) handleUploadMedia() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userID")
		if c.GetString("role") != models.RoleCreator {
			response.JSON(c, "", http.StatusForbidden, nil, errs.New("Creator access required", http.StatusForbidden))
			return
		}

		fileHeader, err := c.FormFile("media")
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("No file uploaded", http.StatusBadRequest))
			return
		}

		params := models.UploadMediaParams{
			Title:       c.PostForm("title"),
			Description: c.PostForm("description"),
			People:      c.PostForm("people"),
			Location:    c.PostForm("location"),
		}

		media, apiErr := s.MediaService.UploadMedia(c, userID, params, fileHeader)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}

		c.JSON(http.StatusCreated, media)
	}
}

func (s *Server) handleDeleteMedia() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userID")
		mediaID := c.Param("id")

		if apiErr := s.MediaService.DeleteMedia(c, mediaID, userID); apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Media deleted successfully"})
	}
}
