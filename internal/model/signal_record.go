package model

import (
	"time"

	"gorm.io/datatypes"
)

// SignalRecord is a delivered signal kept for the /status surface and
// operator forensics.
type SignalRecord struct {
	ID          uint           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Asset       string         `gorm:"column:asset;type:varchar(32);not null" json:"asset"`
	Entry       string         `gorm:"column:entry;type:varchar(32);not null" json:"entry"`
	TakeProfits datatypes.JSON `gorm:"column:take_profits" json:"take_profits"`
	StopLoss    string         `gorm:"column:stop_loss;type:varchar(32);not null" json:"stop_loss"`
	Score       int            `gorm:"column:score;not null" json:"score"`
	SentAt      time.Time      `gorm:"column:sent_at;not null" json:"sent_at"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"-"`
}

func (SignalRecord) TableName() string {
	return "signal_records"
}
