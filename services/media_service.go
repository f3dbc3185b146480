package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/jpeg"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/galleried/galleria/config"
	"github.com/galleried/galleria/db"
	apiError "github.com/galleried/galleria/errors"
	"github.com/galleried/galleria/models"
)

const (
	MaxMediaFileSize = 25 * 1024 * 1024 // 25 MB
	thumbnailWidth   = 400
)

// MediaService is the feed aggregator plus the write paths around it.
type MediaService interface {
	UploadMedia(ctx context.Context, userID uint, params models.UploadMediaParams, fileHeader *multipart.FileHeader) (*models.EnrichedMedia, *apiError.Error)
	GetFeed(ctx context.Context, page, pageSize int, viewerID *uint) (*models.FeedResponse, *apiError.Error)
	GetUserMedia(ctx context.Context, creatorID uint, viewerID *uint) ([]models.EnrichedMedia, *apiError.Error)
	RateMedia(ctx context.Context, mediaID string, userID uint, value int) (*models.RatingSummary, *apiError.Error)
	ListComments(ctx context.Context, mediaID string) ([]models.CommentResponse, *apiError.Error)
	PostComment(ctx context.Context, mediaID string, userID uint, content string) (*models.CommentResponse, *apiError.Error)
	DeleteMedia(ctx context.Context, mediaID string, requesterID uint) *apiError.Error
}

type mediaService struct {
	Config      *config.Config
	mediaRepo   db.MediaRepository
	commentRepo db.CommentRepository
	ratingRepo  db.RatingRepository
	authRepo    db.AuthRepository
	storage     MediaStorage
}

func NewMediaService(mediaRepo db.MediaRepository, commentRepo db.CommentRepository, ratingRepo db.RatingRepository, authRepo db.AuthRepository, storage MediaStorage, conf *config.Config) MediaService {
	return &mediaService{
		Config:      conf,
		mediaRepo:   mediaRepo,
		commentRepo: commentRepo,
		ratingRepo:  ratingRepo,
		authRepo:    authRepo,
		storage:     storage,
	}
}

// CheckSupportedFile reports the media kind for the filename, or false when
// the extension is not an accepted image or video format.
func CheckSupportedFile(filename string) (string, bool) {
	supportedFileTypes := map[string]string{
		".jpg":  models.MediaTypeImage,
		".jpeg": models.MediaTypeImage,
		".png":  models.MediaTypeImage,
		".gif":  models.MediaTypeImage,
		".mp4":  models.MediaTypeVideo,
		".webm": models.MediaTypeVideo,
		".mov":  models.MediaTypeVideo,
	}

	mediaType, ok := supportedFileTypes[strings.ToLower(filepath.Ext(filename))]
	return mediaType, ok
}

func generateUniqueFilename(extension string) string {
	timestamp := time.Now().UnixNano()
	randomUUID := uuid.New()
	return fmt.Sprintf("%d_%s%s", timestamp, randomUUID, extension)
}

func (m *mediaService) UploadMedia(ctx context.Context, userID uint, params models.UploadMediaParams, fileHeader *multipart.FileHeader) (*models.EnrichedMedia, *apiError.Error) {
	if err := models.ValidateWhiteSpaces(&params); err != nil {
		log.Printf("UploadMedia conform error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	if params.Title == "" {
		return nil, apiError.New("Title is required", http.StatusBadRequest)
	}
	if fileHeader == nil {
		return nil, apiError.New("No file uploaded", http.StatusBadRequest)
	}
	if fileHeader.Size > MaxMediaFileSize {
		return nil, apiError.New("file size exceeds the maximum allowed size", http.StatusBadRequest)
	}

	mediaType, ok := CheckSupportedFile(fileHeader.Filename)
	if !ok {
		return nil, apiError.New("Only images and videos are allowed", http.StatusBadRequest)
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("UploadMedia error opening file: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	defer file.Close()

	key := "media/" + generateUniqueFilename(filepath.Ext(fileHeader.Filename))
	mediaURL, err := m.storage.Upload(ctx, key, file, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		log.Printf("UploadMedia error uploading to storage: %v", err)
		return nil, apiError.New("Upload failed", http.StatusInternalServerError)
	}

	var thumbnailURL, thumbnailKey string
	if mediaType == models.MediaTypeImage {
		thumbnailURL, thumbnailKey, err = m.uploadThumbnail(ctx, fileHeader)
		if err != nil {
			// the full-size upload succeeded, serve that instead
			log.Printf("UploadMedia thumbnail generation failed: %v", err)
			thumbnailURL, thumbnailKey = "", ""
		}
	}

	media := &models.Media{
		ID:           uuid.New().String(),
		Title:        params.Title,
		Description:  params.Description,
		MediaURL:     mediaURL,
		ThumbnailURL: thumbnailURL,
		MediaType:    mediaType,
		StorageKey:   key,
		ThumbnailKey: thumbnailKey,
		CreatorID:    userID,
		People:       models.ParsePeople(params.People),
		Location:     params.Location,
		CreatedAt:    time.Now(),
	}

	if err := m.mediaRepo.SaveMedia(ctx, media); err != nil {
		log.Printf("UploadMedia error saving media: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	creator, err := m.authRepo.FindUserByID(userID)
	if err != nil {
		log.Printf("UploadMedia error resolving creator: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	return &models.EnrichedMedia{
		Media:       *media,
		CreatorName: creator.Name,
	}, nil
}

func (m *mediaService) uploadThumbnail(ctx context.Context, fileHeader *multipart.FileHeader) (string, string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", "", err
	}
	defer file.Close()

	img, err := imaging.Decode(file)
	if err != nil {
		return "", "", err
	}

	thumb := imaging.Resize(img, thumbnailWidth, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, nil); err != nil {
		return "", "", err
	}

	key := "thumbnails/" + generateUniqueFilename(".jpg")
	url, err := m.storage.Upload(ctx, key, &buf, "image/jpeg")
	if err != nil {
		return "", "", err
	}
	return url, key, nil
}

// GetFeed returns one page of the global feed, newest first, each item
// enriched with its derived read-only fields.
func (m *mediaService) GetFeed(ctx context.Context, page, pageSize int, viewerID *uint) (*models.FeedResponse, *apiError.Error) {
	if page < 1 {
		page = db.DefaultPage
	}
	if pageSize < 1 {
		pageSize = db.DefaultPageSize
	}
	offset := (page - 1) * pageSize

	totalCount, err := m.mediaRepo.CountMedia(ctx)
	if err != nil {
		log.Printf("GetFeed error counting media: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	items, err := m.mediaRepo.ListMedia(ctx, offset, pageSize)
	if err != nil {
		log.Printf("GetFeed error listing media: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	enriched, apiErr := m.enrichMedia(ctx, items, viewerID)
	if apiErr != nil {
		return nil, apiErr
	}

	return &models.FeedResponse{
		Media:   enriched,
		HasMore: totalCount > int64(page*pageSize),
	}, nil
}

// GetUserMedia returns all of one creator's items, newest first, enriched
// the same way the feed is. No pagination.
func (m *mediaService) GetUserMedia(ctx context.Context, creatorID uint, viewerID *uint) ([]models.EnrichedMedia, *apiError.Error) {
	items, err := m.mediaRepo.ListMediaByCreator(ctx, creatorID)
	if err != nil {
		log.Printf("GetUserMedia error listing media: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	return m.enrichMedia(ctx, items, viewerID)
}

// enrichMedia resolves creator names and attaches comment counts, rating
// averages and the viewer's own rating using one grouped query per concern.
func (m *mediaService) enrichMedia(ctx context.Context, items []models.Media, viewerID *uint) ([]models.EnrichedMedia, *apiError.Error) {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}

	commentCounts, err := m.commentRepo.CountCommentsForMedia(ctx, ids)
	if err != nil {
		log.Printf("enrichMedia error counting comments: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	aggregates, err := m.ratingRepo.AggregatesForMedia(ctx, ids)
	if err != nil {
		log.Printf("enrichMedia error aggregating ratings: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	var viewerRatings map[string]int
	if viewerID != nil {
		viewerRatings, err = m.ratingRepo.UserRatingsForMedia(ctx, ids, *viewerID)
		if err != nil {
			log.Printf("enrichMedia error fetching viewer ratings: %v", err)
			return nil, apiError.ErrInternalServerError
		}
	}

	enriched := make([]models.EnrichedMedia, 0, len(items))
	for _, item := range items {
		e := models.EnrichedMedia{
			Media:         item,
			CreatorName:   item.Creator.Name,
			CommentsCount: commentCounts[item.ID],
		}
		if agg, ok := aggregates[item.ID]; ok {
			e.AverageRating = agg.Average
		}
		if value, ok := viewerRatings[item.ID]; ok {
			v := value
			e.UserRating = &v
		}
		enriched = append(enriched, e)
	}
	return enriched, nil
}

// RateMedia validates the value, upserts the rater's rating atomically and
// returns the recomputed average.
func (m *mediaService) RateMedia(ctx context.Context, mediaID string, userID uint, value int) (*models.RatingSummary, *apiError.Error) {
	if value < models.MinRating || value > models.MaxRating {
		return nil, apiError.New("Rating must be between 1 and 10", http.StatusBadRequest)
	}

	if _, apiErr := m.getMedia(ctx, mediaID); apiErr != nil {
		return nil, apiErr
	}

	if err := m.ratingRepo.UpsertRating(ctx, mediaID, userID, value); err != nil {
		log.Printf("RateMedia error upserting rating: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	agg, err := m.ratingRepo.GetAggregate(ctx, mediaID)
	if err != nil {
		log.Printf("RateMedia error aggregating ratings: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	return &models.RatingSummary{
		AverageRating: agg.Average,
		UserRating:    value,
	}, nil
}

func (m *mediaService) ListComments(ctx context.Context, mediaID string) ([]models.CommentResponse, *apiError.Error) {
	if _, apiErr := m.getMedia(ctx, mediaID); apiErr != nil {
		return nil, apiErr
	}

	comments, err := m.commentRepo.ListCommentsByMedia(ctx, mediaID)
	if err != nil {
		log.Printf("ListComments error: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	results := make([]models.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		results = append(results, models.CommentResponse{
			Comment:    comment,
			AuthorName: comment.User.Name,
		})
	}
	return results, nil
}

func (m *mediaService) PostComment(ctx context.Context, mediaID string, userID uint, content string) (*models.CommentResponse, *apiError.Error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apiError.New("Comment content is required", http.StatusBadRequest)
	}

	if _, apiErr := m.getMedia(ctx, mediaID); apiErr != nil {
		return nil, apiErr
	}

	author, err := m.authRepo.FindUserByID(userID)
	if err != nil {
		log.Printf("PostComment error resolving author: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	comment := &models.Comment{
		ID:        uuid.New().String(),
		MediaID:   mediaID,
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := m.commentRepo.SaveComment(ctx, comment); err != nil {
		log.Printf("PostComment error saving comment: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	return &models.CommentResponse{
		Comment:    *comment,
		AuthorName: author.Name,
	}, nil
}

// DeleteMedia removes the hosted object first, then the comments, ratings
// and the record itself. A provider failure aborts before anything local is
// touched so no record ever points at a removed object.
func (m *mediaService) DeleteMedia(ctx context.Context, mediaID string, requesterID uint) *apiError.Error {
	media, apiErr := m.getMedia(ctx, mediaID)
	if apiErr != nil {
		return apiErr
	}

	if media.CreatorID != requesterID {
		return apiError.New("Not authorized to delete this media", http.StatusForbidden)
	}

	if err := m.storage.Delete(ctx, media.StorageKey); err != nil {
		log.Printf("DeleteMedia error removing object from storage: %v", err)
		return apiError.New("failed to remove media from storage", http.StatusInternalServerError)
	}
	if media.ThumbnailKey != "" {
		if err := m.storage.Delete(ctx, media.ThumbnailKey); err != nil {
			// orphaned thumbnail only, keep going
			log.Printf("DeleteMedia error removing thumbnail: %v", err)
		}
	}

	if err := m.commentRepo.DeleteCommentsByMedia(ctx, mediaID); err != nil {
		log.Printf("DeleteMedia error removing comments: %v", err)
		return apiError.New("media removed from storage but local cleanup failed", http.StatusInternalServerError)
	}
	if err := m.ratingRepo.DeleteRatingsByMedia(ctx, mediaID); err != nil {
		log.Printf("DeleteMedia error removing ratings: %v", err)
		return apiError.New("media removed from storage but local cleanup failed", http.StatusInternalServerError)
	}
	if err := m.mediaRepo.DeleteMedia(ctx, mediaID); err != nil {
		log.Printf("DeleteMedia error removing record: %v", err)
		return apiError.New("media removed from storage but local cleanup failed", http.StatusInternalServerError)
	}

	return nil
}

func (m *mediaService) getMedia(ctx context.Context, mediaID string) (*models.Media, *apiError.Error) {
	media, err := m.mediaRepo.GetMediaByID(ctx, mediaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.New("Media not found", http.StatusNotFound)
		}
		log.Printf("error fetching media %s: %v", mediaID, err)
		return nil, apiError.ErrInternalServerError
	}
	return media, nil
}
