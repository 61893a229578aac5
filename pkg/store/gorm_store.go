package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"librarydesk/pkg/domain"
)

// GormStore implements Store using GORM + Postgres.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB and runs auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	gormLog := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(
		&BookModel{},
		&MemberModel{},
		&StaffModel{},
		&LoanModel{},
		&PullRequestModel{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// SaveBook stores or updates a book.
func (s *GormStore) SaveBook(b domain.Book) error {
	model := bookToModel(b)
	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"isbn", "title", "author", "publisher", "publish_year", "category",
			"total_copies", "available_copies", "shelf_location", "description", "price", "updated_at",
		}),
	}).Create(&model).Error
}

// GetBook retrieves a book.
func (s *GormStore) GetBook(id string) (domain.Book, bool, error) {
	var model BookModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.Book{}, false, nil
		}
		return domain.Book{}, false, err
	}
	return bookFromModel(model), true, nil
}

// ListBooks returns all books ordered by created_at.
func (s *GormStore) ListBooks() ([]domain.Book, error) {
	var models []BookModel
	if err := s.db.Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Book, 0, len(models))
	for _, m := range models {
		res = append(res, bookFromModel(m))
	}
	return res, nil
}

// DeleteBook removes a book row.
func (s *GormStore) DeleteBook(id string) error {
	return s.db.Delete(&BookModel{}, "id = ?", id).Error
}

// SaveMember stores or updates a member.
func (s *GormStore) SaveMember(m domain.Member) error {
	model, err := memberToModel(m)
	if err != nil {
		return err
	}
	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"username", "email", "phone", "address", "membership_date",
			"status", "borrowed_books", "total_books_borrowed", "updated_at",
		}),
	}).Create(&model).Error
}

// GetMember retrieves a member.
func (s *GormStore) GetMember(id string) (domain.Member, bool, error) {
	var model MemberModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.Member{}, false, nil
		}
		return domain.Member{}, false, err
	}
	member, err := memberFromModel(model)
	if err != nil {
		return domain.Member{}, false, err
	}
	return member, true, nil
}

// ListMembers returns all members ordered by created_at.
func (s *GormStore) ListMembers() ([]domain.Member, error) {
	var models []MemberModel
	if err := s.db.Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Member, 0, len(models))
	for _, m := range models {
		member, err := memberFromModel(m)
		if err != nil {
			return nil, err
		}
		res = append(res, member)
	}
	return res, nil
}

// DeleteMember removes a member row.
func (s *GormStore) DeleteMember(id string) error {
	return s.db.Delete(&MemberModel{}, "id = ?", id).Error
}

// SaveStaff stores or updates a staff record.
func (s *GormStore) SaveStaff(st domain.Staff) error {
	model := staffToModel(st)
	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "email", "phone", "employee_id", "role", "department",
			"join_date", "salary", "status", "password_hash", "updated_at",
		}),
	}).Create(&model).Error
}

// GetStaff retrieves a staff record.
func (s *GormStore) GetStaff(id string) (domain.Staff, bool, error) {
	var model StaffModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.Staff{}, false, nil
		}
		return domain.Staff{}, false, err
	}
	return staffFromModel(model), true, nil
}

// GetStaffByEmail looks up a staff record by email.
func (s *GormStore) GetStaffByEmail(email string) (domain.Staff, bool, error) {
	var model StaffModel
	if err := s.db.Where("email = ?", email).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.Staff{}, false, nil
		}
		return domain.Staff{}, false, err
	}
	return staffFromModel(model), true, nil
}

// ListStaff returns all staff ordered by created_at.
func (s *GormStore) ListStaff() ([]domain.Staff, error) {
	var models []StaffModel
	if err := s.db.Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Staff, 0, len(models))
	for _, m := range models {
		res = append(res, staffFromModel(m))
	}
	return res, nil
}

// DeleteStaff removes a staff row.
func (s *GormStore) DeleteStaff(id string) error {
	return s.db.Delete(&StaffModel{}, "id = ?", id).Error
}

// SaveLoan stores or updates a loan.
func (s *GormStore) SaveLoan(l domain.Loan) error {
	model := loanToModel(l)
	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"book_id", "member_id", "issue_date", "due_date", "return_date",
			"status", "issued_by", "fine_amount", "updated_at",
		}),
	}).Create(&model).Error
}

// GetLoan retrieves a loan.
func (s *GormStore) GetLoan(id string) (domain.Loan, bool, error) {
	var model LoanModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.Loan{}, false, nil
		}
		return domain.Loan{}, false, err
	}
	return loanFromModel(model), true, nil
}

// ListLoans returns all loans ordered by created_at.
func (s *GormStore) ListLoans() ([]domain.Loan, error) {
	var models []LoanModel
	if err := s.db.Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Loan, 0, len(models))
	for _, m := range models {
		res = append(res, loanFromModel(m))
	}
	return res, nil
}

// SavePullRequest stores or updates a pull request.
func (s *GormStore) SavePullRequest(pr domain.PullRequest) error {
	model, err := pullRequestToModel(pr)
	if err != nil {
		return err
	}
	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "description", "branch", "author", "status",
			"lint_score", "tests_passed", "review_comments", "updated_at",
		}),
	}).Create(&model).Error
}

// GetPullRequest retrieves a pull request.
func (s *GormStore) GetPullRequest(id string) (domain.PullRequest, bool, error) {
	var model PullRequestModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.PullRequest{}, false, nil
		}
		return domain.PullRequest{}, false, err
	}
	pr, err := pullRequestFromModel(model)
	if err != nil {
		return domain.PullRequest{}, false, err
	}
	return pr, true, nil
}

// ListPullRequests returns all pull requests ordered by created_at.
func (s *GormStore) ListPullRequests() ([]domain.PullRequest, error) {
	var models []PullRequestModel
	if err := s.db.Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.PullRequest, 0, len(models))
	for _, m := range models {
		pr, err := pullRequestFromModel(m)
		if err != nil {
			return nil, err
		}
		res = append(res, pr)
	}
	return res, nil
}

func bookToModel(b domain.Book) BookModel {
	return BookModel{
		ID:              b.ID,
		ISBN:            b.ISBN,
		Title:           b.Title,
		Author:          b.Author,
		Publisher:       b.Publisher,
		PublishYear:     b.PublishYear,
		Category:        b.Category,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
		ShelfLocation:   b.ShelfLocation,
		Description:     b.Description,
		Price:           b.Price,
		UpdatedAt:       time.Now().UTC(),
	}
}

func bookFromModel(m BookModel) domain.Book {
	return domain.Book{
		ID:              m.ID,
		ISBN:            m.ISBN,
		Title:           m.Title,
		Author:          m.Author,
		Publisher:       m.Publisher,
		PublishYear:     m.PublishYear,
		Category:        m.Category,
		TotalCopies:     m.TotalCopies,
		AvailableCopies: m.AvailableCopies,
		ShelfLocation:   m.ShelfLocation,
		Description:     m.Description,
		Price:           m.Price,
	}
}

func memberToModel(m domain.Member) (MemberModel, error) {
	borrowed, err := marshalStrings(m.BorrowedBooks)
	if err != nil {
		return MemberModel{}, fmt.Errorf("marshal borrowed books: %w", err)
	}
	return MemberModel{
		ID:                 m.ID,
		Username:           m.Username,
		Email:              m.Email,
		Phone:              m.Phone,
		Address:            m.Address,
		MembershipDate:     m.MembershipDate,
		Status:             string(m.Status),
		BorrowedBooks:      borrowed,
		TotalBooksBorrowed: m.TotalBooksBorrowed,
		UpdatedAt:          time.Now().UTC(),
	}, nil
}

func memberFromModel(m MemberModel) (domain.Member, error) {
	borrowed, err := unmarshalStrings(m.BorrowedBooks)
	if err != nil {
		return domain.Member{}, fmt.Errorf("unmarshal borrowed books: %w", err)
	}
	return domain.Member{
		ID:                 m.ID,
		Username:           m.Username,
		Email:              m.Email,
		Phone:              m.Phone,
		Address:            m.Address,
		MembershipDate:     m.MembershipDate,
		Status:             domain.MemberStatus(m.Status),
		BorrowedBooks:      borrowed,
		TotalBooksBorrowed: m.TotalBooksBorrowed,
	}, nil
}

func staffToModel(s domain.Staff) StaffModel {
	return StaffModel{
		ID:           s.ID,
		Name:         s.Name,
		Email:        s.Email,
		Phone:        s.Phone,
		EmployeeID:   s.EmployeeID,
		Role:         string(s.Role),
		Department:   s.Department,
		JoinDate:     s.JoinDate,
		Salary:       s.Salary,
		Status:       string(s.Status),
		PasswordHash: s.PasswordHash,
		UpdatedAt:    time.Now().UTC(),
	}
}

func staffFromModel(m StaffModel) domain.Staff {
	return domain.Staff{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		Phone:        m.Phone,
		EmployeeID:   m.EmployeeID,
		Role:         domain.StaffRole(m.Role),
		Department:   m.Department,
		JoinDate:     m.JoinDate,
		Salary:       m.Salary,
		Status:       domain.StaffStatus(m.Status),
		PasswordHash: m.PasswordHash,
	}
}

func loanToModel(l domain.Loan) LoanModel {
	return LoanModel{
		ID:         l.ID,
		BookID:     l.BookID,
		MemberID:   l.MemberID,
		IssueDate:  l.IssueDate,
		DueDate:    l.DueDate,
		ReturnDate: l.ReturnDate,
		Status:     string(l.Status),
		IssuedBy:   l.IssuedBy,
		FineAmount: l.FineAmount,
		UpdatedAt:  time.Now().UTC(),
	}
}

func loanFromModel(m LoanModel) domain.Loan {
	return domain.Loan{
		ID:         m.ID,
		BookID:     m.BookID,
		MemberID:   m.MemberID,
		IssueDate:  m.IssueDate,
		DueDate:    m.DueDate,
		ReturnDate: m.ReturnDate,
		Status:     domain.LoanStatus(m.Status),
		IssuedBy:   m.IssuedBy,
		FineAmount: m.FineAmount,
	}
}

func pullRequestToModel(pr domain.PullRequest) (PullRequestModel, error) {
	comments, err := marshalStrings(pr.ReviewComments)
	if err != nil {
		return PullRequestModel{}, fmt.Errorf("marshal review comments: %w", err)
	}
	return PullRequestModel{
		ID:             pr.ID,
		Title:          pr.Title,
		Description:    pr.Description,
		Branch:         pr.Branch,
		Author:         pr.Author,
		Status:         string(pr.Status),
		LintScore:      pr.LintScore,
		TestsPassed:    pr.TestsPassed,
		ReviewComments: comments,
		CreatedAt:      pr.CreatedAt,
		UpdatedAt:      pr.UpdatedAt,
	}, nil
}

func pullRequestFromModel(m PullRequestModel) (domain.PullRequest, error) {
	comments, err := unmarshalStrings(m.ReviewComments)
	if err != nil {
		return domain.PullRequest{}, fmt.Errorf("unmarshal review comments: %w", err)
	}
	return domain.PullRequest{
		ID:             m.ID,
		Title:          m.Title,
		Description:    m.Description,
		Branch:         m.Branch,
		Author:         m.Author,
		Status:         domain.ReviewStatus(m.Status),
		LintScore:      m.LintScore,
		TestsPassed:    m.TestsPassed,
		ReviewComments: comments,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}, nil
}

func marshalStrings(values []string) (datatypes.JSON, error) {
	if values == nil {
		values = []string{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func unmarshalStrings(raw datatypes.JSON) ([]string, error) {
	if len(raw) == 0 {
		return []string{}, nil
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, err
	}
	return values, nil
}
