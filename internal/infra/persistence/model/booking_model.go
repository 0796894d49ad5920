package model

import "time"

// BookingModel mirrors the 'bookings' table. Customer and provider are two independent
// references to users; Status holds the string enumeration value.
type BookingModel struct {
	ID            uint64      `gorm:"primaryKey;autoIncrement"`
	CustomerID    uint64      `gorm:"not null;index"`
	Customer      *UserModel  `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	ProviderID    uint64      `gorm:"not null;index"`
	Provider      *UserModel  `gorm:"foreignKey:ProviderID;constraint:OnDelete:CASCADE"`
	SkillID       uint64      `gorm:"not null;index"`
	Skill         *SkillModel `gorm:"foreignKey:SkillID;constraint:OnDelete:CASCADE"`
	Status        string      `gorm:"type:varchar(20);not null;default:pending;index;check:chk_bookings_status,status IN ('pending','accepted','completed','cancelled')"`
	ScheduledAt   *time.Time  `gorm:"index"`
	DurationHours int         `gorm:"not null;default:1;check:chk_bookings_duration,duration_hours > 0"`
	Notes         *string     `gorm:"type:text"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName explicitly sets the table name for GORM.
func (BookingModel) TableName() string {
	return "bookings"
}

// All returns every model in dependency order, for migrations.
func All() []any {
	return []any{&UserModel{}, &SkillModel{}, &BookingModel{}}
}
