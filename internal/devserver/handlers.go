package devserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vikkirkobane/karma-club-sub000/internal/models"
)

func (s *Server) findOrCreateUser(id string) (models.UserRecord, error) {
	var user models.UserRecord
	err := s.db.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.UserRecord{ID: id, Username: id}
		err = s.db.Create(&user).Error
	}
	return user, err
}

func (s *Server) handleGetStats(c *gin.Context) {
	id := c.Param("id")

	var user models.UserRecord
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no stats for user"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var counts models.CategoryCounts
	for _, cat := range models.Categories {
		var n int64
		if err := s.db.Model(&models.SubmissionRecord{}).
			Where("user_id = ? AND category = ? AND status = ?", id, cat, models.SubmissionApproved).
			Count(&n).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		counts.Add(cat, int(n))
	}

	c.JSON(http.StatusOK, gin.H{
		"points":     user.Points,
		"streakDays": user.StreakDays,
		"counts":     counts,
	})
}

type submitRequest struct {
	UserID      string `json:"userId" binding:"required"`
	ActivityID  string `json:"activityId" binding:"required"`
	Description string `json:"description"`
	MediaURL    string `json:"mediaUrl"`
}

func (s *Server) handleSubmit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission payload"})
		return
	}

	act, ok := s.cat.Activity(req.ActivityID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown activity id"})
		return
	}

	if _, err := s.findOrCreateUser(req.UserID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var existing models.SubmissionRecord
	err := s.db.First(&existing, "user_id = ? AND activity_id = ?", req.UserID, req.ActivityID).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "duplicate submission for this activity"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	sub := models.SubmissionRecord{
		UserID:      req.UserID,
		ActivityID:  req.ActivityID,
		Category:    act.Category,
		Points:      act.Points,
		Description: req.Description,
		MediaURL:    req.MediaURL,
		Status:      models.SubmissionApproved,
	}
	if err := s.db.Create(&sub).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// The emulator has no review queue: daily acts also bump the streak
	// counter so the client's streak rules have data to chew on.
	if act.Category == models.CategoryDaily {
		s.db.Model(&models.UserRecord{}).Where("id = ?", req.UserID).
			Update("streak_days", gorm.Expr("streak_days + 1"))
	}

	s.hub.broadcast(ChangeEvent{Table: "submissions", EventType: "INSERT", UserID: req.UserID})
	c.JSON(http.StatusCreated, sub)
}

type pointsRequest struct {
	UserID string `json:"userId" binding:"required"`
	Delta  int    `json:"delta"`
}

func (s *Server) handleAddPoints(c *gin.Context) {
	var req pointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid points payload"})
		return
	}
	if req.Delta < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "points increments must be non-negative"})
		return
	}

	user, err := s.findOrCreateUser(req.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	user.Points += req.Delta
	if err := s.db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.hub.broadcast(ChangeEvent{Table: "users", EventType: "UPDATE", UserID: req.UserID})
	c.JSON(http.StatusOK, gin.H{"points": user.Points})
}

type createPostRequest struct {
	AuthorID string `json:"authorId" binding:"required"`
	Content  string `json:"content"`
}

func (s *Server) handleCreatePost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post payload"})
		return
	}
	post := models.PostRecord{AuthorID: req.AuthorID, Content: req.Content}
	if err := s.db.Create(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, post)
}

type likeRequest struct {
	UserID string `json:"userId" binding:"required"`
}

func (s *Server) handleToggleLike(c *gin.Context) {
	postID := c.Param("id")

	var req likeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid like payload"})
		return
	}

	var post models.PostRecord
	if err := s.db.First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var like models.PostLikeRecord
	err := s.db.First(&like, "post_id = ? AND user_id = ?", postID, req.UserID).Error
	liked := false
	switch {
	case err == nil:
		if err := s.db.Delete(&models.PostLikeRecord{}, "post_id = ? AND user_id = ?", postID, req.UserID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if post.LikeCount > 0 {
			post.LikeCount--
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := s.db.Create(&models.PostLikeRecord{PostID: postID, UserID: req.UserID}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		post.LikeCount++
		liked = true
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := s.db.Save(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.hub.broadcast(ChangeEvent{Table: "posts", EventType: "UPDATE", UserID: req.UserID})
	c.JSON(http.StatusOK, gin.H{"liked": liked, "likeCount": post.LikeCount})
}
