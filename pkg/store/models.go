package store

import (
	"time"

	"gorm.io/datatypes"
)

// GORM models used for persistence.
type BookModel struct {
	ID              string `gorm:"primaryKey"`
	ISBN            string `gorm:"not null;index"`
	Title           string `gorm:"not null"`
	Author          string
	Publisher       string
	PublishYear     int
	Category        string `gorm:"index"`
	TotalCopies     int    `gorm:"not null"`
	AvailableCopies int    `gorm:"not null"`
	ShelfLocation   string
	Description     string `gorm:"type:text"`
	Price           float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type MemberModel struct {
	ID                 string `gorm:"primaryKey"`
	Username           string `gorm:"not null"`
	Email              string `gorm:"not null;index"`
	Phone              string
	Address            string
	MembershipDate     time.Time
	Status             string         `gorm:"not null;index"`
	BorrowedBooks      datatypes.JSON `gorm:"type:jsonb"`
	TotalBooksBorrowed int            `gorm:"not null"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type StaffModel struct {
	ID           string `gorm:"primaryKey"`
	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	Phone        string
	EmployeeID   string `gorm:"uniqueIndex;not null"`
	Role         string `gorm:"not null"`
	Department   string
	JoinDate     time.Time
	Salary       float64
	Status       string `gorm:"not null"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type LoanModel struct {
	ID         string `gorm:"primaryKey"`
	BookID     string `gorm:"not null;index"`
	MemberID   string `gorm:"not null;index"`
	IssueDate  time.Time
	DueDate    time.Time `gorm:"index"`
	ReturnDate *time.Time
	Status     string `gorm:"not null;index"`
	IssuedBy   string
	FineAmount float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type PullRequestModel struct {
	ID             string `gorm:"primaryKey"`
	Title          string `gorm:"not null"`
	Description    string `gorm:"type:text"`
	Branch         string
	Author         string
	Status         string `gorm:"not null;index"`
	LintScore      int
	TestsPassed    bool
	ReviewComments datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt      time.Time      `gorm:"not null;index"`
	UpdatedAt      time.Time
}
