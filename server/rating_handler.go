package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	errs "github.com/galleried/galleria/errors"
	"github.com/galleried/galleria/models"
	"github.com/galleried/galleria/server/response"
)

func (s *Server) handleRateMedia() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userID")
		mediaID := c.Param("id")

		var request models.RatingRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("Rating must be between 1 and 10", http.StatusBadRequest))
			return
		}

		summary, apiErr := s.MediaService.RateMedia(c, mediaID, userID, request.Rating)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}

		c.JSON(http.StatusOK, summary)
	}
}
