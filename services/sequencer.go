package services

import (
	"learnhub/models"

	"gorm.io/gorm"
)

// sequencer maintains the dense ordering invariant for one kind of sibling
// group: all live rows under a parent hold positions {base .. base+n-1},
// no gaps, no duplicates. Every mutation here must run inside a transaction
// scoped to the parent, otherwise concurrent shifts can interleave and
// corrupt contiguity.
type sequencer struct {
	model     interface{}
	parentCol string
	base      int
}

var (
	chapterSeq  = sequencer{model: &models.Chapter{}, parentCol: "course_id", base: 1}
	lessonSeq   = sequencer{model: &models.Lesson{}, parentCol: "chapter_id", base: 1}
	questionSeq = sequencer{model: &models.Question{}, parentCol: "test_id", base: 0}
)

func (s sequencer) siblings(tx *gorm.DB, parentID uint) *gorm.DB {
	return tx.Model(s.model).Where(s.parentCol+" = ?", parentID)
}

func (s sequencer) count(tx *gorm.DB, parentID uint) (int, error) {
	var n int64
	if err := s.siblings(tx, parentID).Count(&n).Error; err != nil {
		return 0, err
	}
	return int(n), nil
}

// NextPosition returns the append slot: one past the highest live position,
// or the base index when the group is empty.
func (s sequencer) NextPosition(tx *gorm.DB, parentID uint) (int, error) {
	var next int
	row := s.siblings(tx, parentID).
		Select("COALESCE(MAX(position), ?) + 1", s.base-1).
		Row()
	if err := row.Scan(&next); err != nil {
		return 0, err
	}
	return next, nil
}

// MakeRoom shifts every sibling at or above pos up by one so that pos can be
// assigned to a new row. pos may be one past the current end (plain append).
func (s sequencer) MakeRoom(tx *gorm.DB, parentID uint, pos int) error {
	n, err := s.count(tx, parentID)
	if err != nil {
		return err
	}
	if pos < s.base || pos > n+s.base {
		return ErrInvalidPosition
	}
	return s.siblings(tx, parentID).
		Where("position >= ?", pos).
		Update("position", gorm.Expr("position + 1")).Error
}

// Move shifts the siblings between the old and new slot so the caller can
// assign `to` to the moved row. The range bounds are deliberately
// asymmetric: (from, to] moves down when heading toward the end, [to, from)
// moves up when heading toward the front. Changing the inclusivity on
// either side silently duplicates or skips a position.
func (s sequencer) Move(tx *gorm.DB, parentID uint, from, to int) error {
	n, err := s.count(tx, parentID)
	if err != nil {
		return err
	}
	if to < s.base || to > n+s.base-1 {
		return ErrInvalidPosition
	}
	if to == from {
		return nil
	}
	if to > from {
		return s.siblings(tx, parentID).
			Where("position > ? AND position <= ?", from, to).
			Update("position", gorm.Expr("position - 1")).Error
	}
	return s.siblings(tx, parentID).
		Where("position >= ? AND position < ?", to, from).
		Update("position", gorm.Expr("position + 1")).Error
}

// Compact closes the hole left at pos after a sibling was removed. Removing
// the last sibling shifts nothing.
func (s sequencer) Compact(tx *gorm.DB, parentID uint, pos int) error {
	return s.siblings(tx, parentID).
		Where("position > ?", pos).
		Update("position", gorm.Expr("position - 1")).Error
}

// Reorder overwrites positions from an explicit ordering. The ID list must
// be exactly the live sibling set; a list that omits, repeats or adds
// members is rejected rather than silently breaking contiguity.
func (s sequencer) Reorder(tx *gorm.DB, parentID uint, ids []uint) error {
	var existing []uint
	if err := s.siblings(tx, parentID).Pluck("id", &existing).Error; err != nil {
		return err
	}
	if len(ids) != len(existing) {
		return ErrInvalidReorder
	}
	known := make(map[uint]bool, len(existing))
	for _, id := range existing {
		known[id] = true
	}
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if !known[id] || seen[id] {
			return ErrInvalidReorder
		}
		seen[id] = true
	}
	for i, id := range ids {
		if err := tx.Model(s.model).
			Where("id = ?", id).
			Update("position", s.base+i).Error; err != nil {
			return err
		}
	}
	return nil
}
