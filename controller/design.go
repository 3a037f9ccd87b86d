package controller

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/aurum-labs/jewel-studio/common/config"
	"github.com/aurum-labs/jewel-studio/middleware"
	"github.com/aurum-labs/jewel-studio/model"
	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
)

// DesignItem is the public view of a design record.
type DesignItem struct {
	Id           int    `json:"id"`
	Prompt       string `json:"prompt"`
	JewelryType  string `json:"jewelry_type"`
	Material     string `json:"material"`
	Status       string `json:"status"`
	FailReason   string `json:"fail_reason,omitempty"`
	ImageFormat  string `json:"image_format,omitempty"`
	ImageWidth   int    `json:"image_width,omitempty"`
	ImageHeight  int    `json:"image_height,omitempty"`
	ImageUrl     string `json:"image_url,omitempty"`
	ModelUrl     string `json:"model_url,omitempty"`
	ThumbnailUrl string `json:"thumbnail_url,omitempty"`
	CreatedAt    int64  `json:"created_at"`
	UpdatedAt    int64  `json:"updated_at"`
}

func GetDesigns(c *gin.Context) {
	sessionId := c.GetString(middleware.DesignSessionKey)
	p, _ := strconv.Atoi(c.Query("p"))
	if p < 0 {
		p = 0
	}
	designs, err := model.GetSessionDesigns(sessionId, p*config.ItemsPerPage, config.ItemsPerPage)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": err.Error(),
		})
		return
	}
	total, err := model.CountSessionDesigns(sessionId)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": err.Error(),
		})
		return
	}
	items := make([]DesignItem, 0, len(designs))
	if err := copier.Copy(&items, &designs); err != nil {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"data": gin.H{
			"list":        items,
			"currentPage": p,
			"pageSize":    config.ItemsPerPage,
			"total":       total,
		},
	})
}

// AssetItem is the public view of a mirrored asset.
type AssetItem struct {
	Kind      string `json:"kind"`
	SourceUrl string `json:"source_url"`
	StoreUrl  string `json:"store_url"`
	MimeType  string `json:"mime_type"`
	Size      int    `json:"size"`
	CreatedAt int64  `json:"created_at"`
}

// GetDesign returns one of the session's designs with its mirrored assets.
func GetDesign(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": "invalid design id",
		})
		return
	}
	design, err := model.GetDesignById(id)
	if err != nil || design.SessionId != c.GetString(middleware.DesignSessionKey) {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": fmt.Sprintf("design %d not found", id),
		})
		return
	}
	assets, err := model.GetAssetsByDesignId(design.Id)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": err.Error(),
		})
		return
	}
	var item DesignItem
	assetItems := make([]AssetItem, 0, len(assets))
	err = copier.Copy(&item, design)
	if err == nil {
		err = copier.Copy(&assetItems, &assets)
	}
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"data": gin.H{
			"design": item,
			"assets": assetItems,
		},
	})
}
