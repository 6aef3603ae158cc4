package model

// 注文明細。確定時点の商品名・価格を必ず保存する。
type OrderItem struct {
	ID             int64  `gorm:"primaryKey;autoIncrement" json:"-"`
	OrderID        string `gorm:"type:varchar(64);not null;index" json:"-"`
	ProductID      string `gorm:"type:varchar(64);not null;index" json:"product_id"`
	NameSnapshot   string `gorm:"type:varchar(255);not null" json:"name"`
	BrandSnapshot  string `gorm:"type:varchar(255);not null" json:"brand"`
	VolumeMl       int64  `gorm:"not null" json:"volume_ml"`
	UnitPricePaise int64  `gorm:"not null" json:"unit_price_paise"`
	Quantity       int64  `gorm:"not null" json:"quantity"`
}
