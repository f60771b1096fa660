package models

import "time"

// Seeded role names.
const (
	RoleAdmin = "admin"
	RoleSales = "sales"
)

// User & auth related models
type User struct {
	ID        uint   `gorm:"primaryKey"`
	Email     string `gorm:"unique;not null;index"`
	Password  string `gorm:"not null"` // bcrypt hash
	FirstName string
	LastName  string
	RoleID    uint
	Role      Role `gorm:"foreignKey:RoleID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Role struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"unique;not null"` // admin, sales
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
