package model

import (
	"errors"
	"fmt"

	"github.com/aurum-labs/jewel-studio/common"
	"github.com/aurum-labs/jewel-studio/common/helper"
	"gorm.io/gorm"
)

// Design is one generation run: a 2D preview followed by a 3D model.
type Design struct {
	Id           int    `json:"id"`
	RequestId    string `json:"request_id" gorm:"index"`
	SessionId    string `json:"session_id" gorm:"index"`
	Prompt       string `json:"prompt"`
	JewelryType  string `json:"jewelry_type"`
	Material     string `json:"material"`
	Status       string `json:"status" gorm:"index;default:'pending'"`
	FailReason   string `json:"fail_reason"`
	ImageFormat  string `json:"image_format"`
	ImageWidth   int    `json:"image_width"`
	ImageHeight  int    `json:"image_height"`
	ImageUrl     string `json:"image_url"`
	ModelUrl     string `json:"model_url"`
	ThumbnailUrl string `json:"thumbnail_url"`
	TaskId       string `json:"task_id" gorm:"index"`
	CreatedAt    int64  `json:"created_at" gorm:"bigint;index"`
	UpdatedAt    int64  `json:"updated_at" gorm:"bigint"`
}

func (design *Design) Insert() error {
	if design.CreatedAt == 0 {
		design.CreatedAt = helper.GetTimestamp()
	}
	design.UpdatedAt = design.CreatedAt
	if design.Status == "" {
		design.Status = common.DesignStatusPending
	}
	return DB.Create(design).Error
}

func (design *Design) Update() error {
	design.UpdatedAt = helper.GetTimestamp()
	return DB.Save(design).Error
}

// UpdateDesignImageUrl only touches image_url, so it is safe from background jobs.
func UpdateDesignImageUrl(id int, imageUrl string) error {
	return DB.Model(&Design{}).Where("id = ?", id).Updates(map[string]any{
		"image_url":  imageUrl,
		"updated_at": helper.GetTimestamp(),
	}).Error
}

// UpdateModelResult writes only the 3D columns, leaving image_url to the
// background mirroring job.
func (design *Design) UpdateModelResult() error {
	design.UpdatedAt = helper.GetTimestamp()
	return DB.Model(&Design{}).Where("id = ?", design.Id).Updates(map[string]any{
		"status":        design.Status,
		"jewelry_type":  design.JewelryType,
		"material":      design.Material,
		"model_url":     design.ModelUrl,
		"thumbnail_url": design.ThumbnailUrl,
		"task_id":       design.TaskId,
		"updated_at":    design.UpdatedAt,
	}).Error
}

// UpdateStatus writes only status and fail_reason.
func (design *Design) UpdateStatus() error {
	design.UpdatedAt = helper.GetTimestamp()
	return DB.Model(&Design{}).Where("id = ?", design.Id).Updates(map[string]any{
		"status":      design.Status,
		"fail_reason": design.FailReason,
		"updated_at":  design.UpdatedAt,
	}).Error
}

func GetDesignById(id int) (*Design, error) {
	if id == 0 {
		return nil, errors.New("id is empty")
	}
	var design Design
	err := DB.First(&design, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("design %d not found", id)
		}
		return nil, err
	}
	return &design, nil
}

// GetSessionDesigns lists a session's designs, newest first.
func GetSessionDesigns(sessionId string, startIdx int, num int) ([]*Design, error) {
	var designs []*Design
	err := DB.Where("session_id = ?", sessionId).
		Order("id desc").
		Limit(num).
		Offset(startIdx).
		Find(&designs).Error
	return designs, err
}

// GetLatestPendingDesign finds the session's most recent design still waiting
// for its 3D model with the given prompt.
func GetLatestPendingDesign(sessionId string, prompt string) (*Design, error) {
	var design Design
	err := DB.Where("session_id = ? AND prompt = ? AND status = ?", sessionId, prompt, common.DesignStatusImageDone).
		Order("id desc").
		First(&design).Error
	if err != nil {
		return nil, err
	}
	return &design, nil
}

func CountSessionDesigns(sessionId string) (int64, error) {
	var count int64
	err := DB.Model(&Design{}).Where("session_id = ?", sessionId).Count(&count).Error
	return count, err
}
