package services

import (
	"context"
	"errors"
	"strings"

	"libmanager-backend/internal/adapters/persistence/models"
	"libmanager-backend/internal/adapters/persistence/repositories"
	"libmanager-backend/internal/core/domain"

	"gorm.io/gorm"
)

// BookService handles catalog maintenance. Stock edits go through
// reconcileStock so an edit can never create phantom availability or a
// negative counter.
type BookService struct {
	bookRepo *repositories.BookRepository
}

// NewBookService creates a new book service
func NewBookService(bookRepo *repositories.BookRepository) *BookService {
	return &BookService{bookRepo: bookRepo}
}

// BookInput represents book create/update input
type BookInput struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Category    string `json:"category"`
	PublishYear int    `json:"publish_year"`
	TotalStock  int    `json:"total_stock"`
	ImageURL    string `json:"image_url"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Translator  string `json:"translator"`
	Publisher   string `json:"publisher"`
}

func (in *BookInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return domain.ErrEmptyTitle
	}
	if strings.TrimSpace(in.Author) == "" {
		return domain.ErrEmptyAuthor
	}
	if in.TotalStock < 0 {
		return domain.ErrNegativeStock
	}
	return nil
}

// Create creates a new book. A new title starts with all copies available.
func (s *BookService) Create(ctx context.Context, input *BookInput, actorRole domain.Role) (*models.Book, error) {
	if err := domain.Require(actorRole, domain.ActionManageCatalog); err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	book := &models.Book{
		Title:          strings.TrimSpace(input.Title),
		Author:         strings.TrimSpace(input.Author),
		Category:       input.Category,
		PublishYear:    input.PublishYear,
		TotalStock:     input.TotalStock,
		AvailableStock: input.TotalStock,
		ImageURL:       input.ImageURL,
		Description:    input.Description,
		Language:       input.Language,
		Translator:     input.Translator,
		Publisher:      input.Publisher,
	}

	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, err
	}

	return book, nil
}

// Update updates a book. A change of TotalStock shifts AvailableStock by
// the same signed delta, clamped to [0, newTotal], so copies currently on
// loan stay accounted for.
func (s *BookService) Update(ctx context.Context, id uint, input *BookInput, actorRole domain.Role) (*models.Book, error) {
	if err := domain.Require(actorRole, domain.ActionManageCatalog); err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookNotFound
		}
		return nil, err
	}

	book.AvailableStock = reconcileStock(book.TotalStock, book.AvailableStock, input.TotalStock)
	book.TotalStock = input.TotalStock
	book.Title = strings.TrimSpace(input.Title)
	book.Author = strings.TrimSpace(input.Author)
	book.Category = input.Category
	book.PublishYear = input.PublishYear
	book.ImageURL = input.ImageURL
	book.Description = input.Description
	book.Language = input.Language
	book.Translator = input.Translator
	book.Publisher = input.Publisher

	if err := s.bookRepo.Update(ctx, book); err != nil {
		return nil, err
	}

	return book, nil
}

// Delete removes a book from the catalog. Borrow records keep their title
// snapshot, so history stays readable after deletion.
func (s *BookService) Delete(ctx context.Context, id uint, actorRole domain.Role) error {
	if err := domain.Require(actorRole, domain.ActionManageCatalog); err != nil {
		return err
	}

	if _, err := s.bookRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrBookNotFound
		}
		return err
	}

	return s.bookRepo.Delete(ctx, id)
}

// GetByID gets a book by ID
func (s *BookService) GetByID(ctx context.Context, id uint) (*models.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookNotFound
		}
		return nil, err
	}
	return book, nil
}

// ListBooksInput represents list input
type ListBooksInput struct {
	Page   int
	Limit  int
	Search string
}

// ListBooksOutput represents list output
type ListBooksOutput struct {
	Books      []*models.Book `json:"books"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}

// List lists books with optional search over title, author and category
func (s *BookService) List(ctx context.Context, input *ListBooksInput) (*ListBooksOutput, error) {
	if input.Page < 1 {
		input.Page = 1
	}
	if input.Limit < 1 {
		input.Limit = 20
	}
	if input.Limit > 100 {
		input.Limit = 100
	}

	offset := (input.Page - 1) * input.Limit
	books, total, err := s.bookRepo.List(ctx, input.Search, offset, input.Limit)
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / input.Limit
	if int(total)%input.Limit > 0 {
		totalPages++
	}

	return &ListBooksOutput{
		Books:      books,
		Total:      total,
		Page:       input.Page,
		Limit:      input.Limit,
		TotalPages: totalPages,
	}, nil
}

// reconcileStock applies a total-stock edit to the available counter:
// available shifts by the same signed delta and is clamped to
// [0, newTotal]. With 3 copies on loan, reducing total from 5 to 2 yields
// available 0, never a negative value.
func reconcileStock(oldTotal, oldAvailable, newTotal int) int {
	available := oldAvailable + (newTotal - oldTotal)
	if available < 0 {
		available = 0
	}
	if available > newTotal {
		available = newTotal
	}
	return available
}
