package model

type User struct {
	ID       uint   `gorm:"primaryKey"`
	Username string `gorm:"uniqueIndex;not null"`
	Passcode string `gorm:"not null"`
	IsAdmin  bool   `gorm:"not null;default:false"`
}
