package config

import (
	"log"

	"libmanager-backend/internal/adapters/persistence/models"
	"libmanager-backend/internal/core/domain"
	"libmanager-backend/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedUsers(); err != nil {
		return err
	}
	if err := s.seedBooks(); err != nil {
		return err
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedUsers seeds one account per role when the users table is empty.
// Default passwords are for development only; change them in production.
func (s *Seeder) seedUsers() error {
	var count int64
	s.db.Model(&models.User{}).Count(&count)
	if count > 0 {
		return nil
	}

	seeds := []struct {
		username string
		fullName string
		role     domain.Role
		pass     string
	}{
		{"admin", "Quản Trị Viên", domain.RoleAdmin, "admin123"},
		{"librarian", "Thủ Thư", domain.RoleLibrarian, "librarian123"},
		{"user", "Nguyễn Văn Độc Giả", domain.RoleUser, "user123"},
	}

	for _, seed := range seeds {
		hashed, err := password.Hash(seed.pass)
		if err != nil {
			return err
		}
		user := &models.User{
			Username:      seed.username,
			FullName:      seed.fullName,
			Password:      hashed,
			Role:          seed.role,
			Notifications: true,
		}
		if err := s.db.Create(user).Error; err != nil {
			return err
		}
		log.Printf("✅ Seeded %s account: %s", seed.role, seed.username)
	}

	return nil
}

// seedBooks seeds the initial catalog when the books table is empty.
// AvailableStock below TotalStock reflects copies already on loan in the
// demo data set.
func (s *Seeder) seedBooks() error {
	var count int64
	s.db.Model(&models.Book{}).Count(&count)
	if count > 0 {
		return nil
	}

	books := []models.Book{
		{
			Title: "Nhà Giả Kim", Author: "Paulo Coelho", Category: "Văn học",
			PublishYear: 1988, TotalStock: 5, AvailableStock: 5,
			Description: "Cuốn sách bán chạy nhất mọi thời đại về hành trình theo đuổi ước mơ.",
			Language:    "Tiếng Việt", Translator: "Lê Chu Cầu", Publisher: "NXB Văn Học",
		},
		{
			Title: "Clean Code", Author: "Robert C. Martin", Category: "Công nghệ",
			PublishYear: 2008, TotalStock: 3, AvailableStock: 3,
			Description: "Hướng dẫn viết mã sạch và tối ưu cho lập trình viên.",
			Language:    "Tiếng Anh", Publisher: "Prentice Hall",
		},
		{
			Title: "Đắc Nhân Tâm", Author: "Dale Carnegie", Category: "Kỹ năng sống",
			PublishYear: 1936, TotalStock: 10, AvailableStock: 10,
			Description: "Nghệ thuật thu phục lòng người.",
			Language:    "Tiếng Việt", Translator: "Nguyễn Hiến Lê", Publisher: "NXB Tổng Hợp TP.HCM",
		},
		{
			Title: "Sapiens: Lược sử loài người", Author: "Yuval Noah Harari", Category: "Lịch sử",
			PublishYear: 2011, TotalStock: 4, AvailableStock: 4,
			Description: "Câu chuyện về sự tiến hóa và phát triển của loài người.",
			Language:    "Tiếng Việt", Translator: "Nguyễn Thủy Chung", Publisher: "NXB Tri Thức",
		},
		{
			Title: "Tuổi trẻ đáng giá bao nhiêu", Author: "Rosie Nguyễn", Category: "Kỹ năng sống",
			PublishYear: 2016, TotalStock: 6, AvailableStock: 6,
			Description: "Cuốn sách truyền cảm hứng cho giới trẻ Việt Nam.",
			Language:    "Tiếng Việt", Publisher: "NXB Nhã Nam",
		},
	}

	if err := s.db.Create(&books).Error; err != nil {
		return err
	}

	log.Printf("✅ Seeded %d books", len(books))
	return nil
}
