package model

import (
	"github.com/aurum-labs/jewel-studio/common/helper"
)

const (
	AssetKindImage = "image"
	AssetKindModel = "model"
)

// Asset records a generated file mirrored to object storage.
type Asset struct {
	Id        int    `json:"id"`
	DesignId  int    `json:"design_id" gorm:"index"`
	Kind      string `json:"kind"`
	SourceUrl string `json:"source_url"`
	StoreUrl  string `json:"store_url"`
	MimeType  string `json:"mime_type"`
	Size      int    `json:"size"`
	CreatedAt int64  `json:"created_at" gorm:"bigint"`
}

func (asset *Asset) Insert() error {
	if asset.CreatedAt == 0 {
		asset.CreatedAt = helper.GetTimestamp()
	}
	return DB.Create(asset).Error
}

func GetAssetsByDesignId(designId int) ([]*Asset, error) {
	var assets []*Asset
	err := DB.Where("design_id = ?", designId).Order("id asc").Find(&assets).Error
	return assets, err
}
