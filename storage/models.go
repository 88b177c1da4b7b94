package storage

import (
	"sort"
	"time"
)

type Role string

const (
	RoleStudent   Role = "student"
	RoleProfessor Role = "professor"
	RoleGuest     Role = "guest"
)

var ValidRoles = map[Role]string{
	RoleStudent:   "student",
	RoleProfessor: "professor",
	RoleGuest:     "guest",
}

type CategoryType string

const (
	CategoryTypeLegacy    CategoryType = ""
	CategoryTypeAcademic  CategoryType = "academic"
	CategoryTypeCommunity CategoryType = "community"
	CategoryTypeTeacher   CategoryType = "teacher"
)

var ValidCategoryTypes = map[CategoryType]string{
	CategoryTypeAcademic:  "academic",
	CategoryTypeCommunity: "community",
	CategoryTypeTeacher:   "teacher",
}

type User struct {
	Email       string    `dynamodbav:"PK"`
	DisplayName string    `dynamodbav:"DisplayName"`
	Role        Role      `dynamodbav:"Role"`
	Generation  int       `dynamodbav:"Generation"` // 0 when not a student
	IsActive    bool      `dynamodbav:"IsActive"`
	CreatedAt   time.Time `dynamodbav:"CreatedAt"`
	UpdatedAt   time.Time `dynamodbav:"UpdatedAt"`
	UpdatedBy   string    `dynamodbav:"UpdatedBy"`
}

type Category struct {
	ID           string       `dynamodbav:"PK"`
	Name         string       `dynamodbav:"Name"`
	Description  string       `dynamodbav:"Description"`
	Type         CategoryType `dynamodbav:"Type"`
	Generation   int          `dynamodbav:"Generation"` // community only, 0 = any generation
	AllowedRoles []Role       `dynamodbav:"AllowedRoles"`
	Order        int          `dynamodbav:"Order"`
	CreatedAt    time.Time    `dynamodbav:"CreatedAt"`
	CreatedBy    string       `dynamodbav:"CreatedBy"`
}

type Candidate struct {
	ID           string    `dynamodbav:"PK"`
	CategoryID   string    `dynamodbav:"CategoryID"`
	Name         string    `dynamodbav:"Name"`
	Description  string    `dynamodbav:"Description"`
	Image        string    `dynamodbav:"Image"`
	ProjectImage string    `dynamodbav:"ProjectImage"`
	Votes        int       `dynamodbav:"Votes"`
	CreatedAt    time.Time `dynamodbav:"CreatedAt"`
	CreatedBy    string    `dynamodbav:"CreatedBy"`
}

// VoteRecord is keyed by (Email, CategoryID) so the table itself holds at
// most one vote per user and category.
type VoteRecord struct {
	Email       string    `dynamodbav:"PK" json:"email"`
	CategoryID  string    `dynamodbav:"SK" json:"categoryId"`
	ID          string    `dynamodbav:"ID" json:"id"`
	CandidateID string    `dynamodbav:"CandidateID" json:"candidateId"`
	Timestamp   time.Time `dynamodbav:"Timestamp" json:"timestamp"`
	UserAgent   string    `dynamodbav:"UserAgent" json:"userAgent"`
	IPAddress   string    `dynamodbav:"IPAddress" json:"ipAddress"`
}

// VoteFilter narrows FindVoteRecords. Empty fields match everything.
type VoteFilter struct {
	Email      string
	CategoryID string
}

func (f VoteFilter) Matches(v *VoteRecord) bool {
	if f.Email != "" && v.Email != f.Email {
		return false
	}
	if f.CategoryID != "" && v.CategoryID != f.CategoryID {
		return false
	}
	return true
}

// SortCategories puts categories in presentation order.
func SortCategories(categories []*Category) {
	sort.SliceStable(categories, func(i, j int) bool {
		a, b := categories[i], categories[j]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// SortCandidates restores insertion order, which a table scan does not keep.
func SortCandidates(candidates []*Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
