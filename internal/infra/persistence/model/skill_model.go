package model

import "time"

// SkillModel mirrors the 'skills' table. Deleting the owner deletes the skill.
type SkillModel struct {
	ID          uint64     `gorm:"primaryKey;autoIncrement"`
	Name        string     `gorm:"type:varchar(100);not null"`
	Description *string    `gorm:"type:text"`
	OwnerID     uint64     `gorm:"not null;index"`
	Owner       *UserModel `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (SkillModel) TableName() string {
	return "skills"
}
