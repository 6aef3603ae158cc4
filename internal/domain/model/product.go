package model

import "time"

// 酒類カテゴリ
type Category string

const (
	CategoryBeer   Category = "Beer"
	CategoryWine   Category = "Wine"
	CategoryWhisky Category = "Whisky"
	CategoryRum    Category = "Rum"
	CategoryVodka  Category = "Vodka"
	CategoryBrandy Category = "Brandy"
)

// 表示順
var Categories = []Category{
	CategoryBeer,
	CategoryWine,
	CategoryWhisky,
	CategoryRum,
	CategoryVodka,
	CategoryBrandy,
}

func (c Category) Valid() bool {
	for _, x := range Categories {
		if x == c {
			return true
		}
	}
	return false
}

// 商品。カタログから読み込んだ後は変更しない。
// 金額はすべてパイサ（1/100ルピー）の整数。
type Product struct {
	ID          string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Brand       string    `gorm:"type:varchar(255);not null;index" json:"brand"`
	Category    Category  `gorm:"type:varchar(20);not null;index" json:"category"`
	VolumeMl    int64     `gorm:"not null" json:"volume_ml"`
	PricePaise  int64     `gorm:"not null" json:"price_paise"`
	ABV         *float64  `json:"abv,omitempty"`
	Origin      string    `gorm:"type:varchar(255)" json:"origin,omitempty"`
	Rating      *float64  `json:"rating,omitempty"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	ImageURL    string    `gorm:"type:varchar(512)" json:"image_url,omitempty"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"-"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"-"`
}
