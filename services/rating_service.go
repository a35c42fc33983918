package services

import (
	"errors"
	"math"

	"learnhub/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RatingService struct {
	db *gorm.DB
}

func NewRatingService(db *gorm.DB) *RatingService {
	return &RatingService{db: db}
}

type StarCount struct {
	Star  int   `json:"star"`
	Count int64 `json:"count"`
}

type RatingSummary struct {
	Average      float64               `json:"average"`
	Distribution []StarCount           `json:"distribution"`
	Ratings      []models.CourseRating `json:"ratings"`
	Pagination   Pagination            `json:"pagination"`
}

// RateCourse upserts the user's rating; enrolled users only, one rating per
// user and course.
func (s *RatingService) RateCourse(userID, courseID uint, rating int, review string) (*models.CourseRating, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	var course models.Course
	err := s.db.Where("id = ? AND is_published = ?", courseID, true).First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}

	var enrollment models.Enrollment
	err = s.db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotEnrolled
	}
	if err != nil {
		return nil, err
	}

	courseRating := models.CourseRating{
		UserID:   userID,
		CourseID: courseID,
		Rating:   rating,
		Review:   review,
	}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "review", "updated_at"}),
	}).Create(&courseRating).Error
	if err != nil {
		return nil, err
	}
	return &courseRating, nil
}

// GetCourseRatings returns the aggregate view: average, star distribution
// and one page of reviews.
func (s *RatingService) GetCourseRatings(courseID uint, page, limit int) (*RatingSummary, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var total int64
	if err := s.db.Model(&models.CourseRating{}).Where("course_id = ?", courseID).Count(&total).Error; err != nil {
		return nil, err
	}

	var counts []StarCount
	err := s.db.Model(&models.CourseRating{}).
		Select("rating AS star, COUNT(*) AS count").
		Where("course_id = ?", courseID).
		Group("rating").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	var ratings []models.CourseRating
	err = s.db.Where("course_id = ?", courseID).
		Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&ratings).Error
	if err != nil {
		return nil, err
	}

	return &RatingSummary{
		Average:      averageRating(counts),
		Distribution: starDistribution(counts),
		Ratings:      ratings,
		Pagination: Pagination{
			Total: total,
			Page:  page,
			Limit: limit,
			Pages: int(math.Ceil(float64(total) / float64(limit))),
		},
	}, nil
}

func averageRating(counts []StarCount) float64 {
	var sum, n int64
	for _, c := range counts {
		sum += int64(c.Star) * c.Count
		n += c.Count
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

// starDistribution fills in the zero-count stars so the caller always gets
// five buckets, 5 down to 1.
func starDistribution(counts []StarCount) []StarCount {
	byStar := make(map[int]int64, len(counts))
	for _, c := range counts {
		byStar[c.Star] = c.Count
	}
	out := make([]StarCount, 0, 5)
	for star := 5; star >= 1; star-- {
		out = append(out, StarCount{Star: star, Count: byStar[star]})
	}
	return out
}
