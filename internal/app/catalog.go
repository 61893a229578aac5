package app

import (
	"fmt"

	"librarydesk/pkg/domain"
	"librarydesk/pkg/validate"
)

// BookInput carries the caller-supplied fields for a new catalog entry.
// Available copies are not part of the input: a new title starts with every
// copy on the shelf, and the count moves only through issue/return.
type BookInput struct {
	ISBN          string  `json:"isbn"`
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	Publisher     string  `json:"publisher"`
	PublishYear   int     `json:"publishYear"`
	Category      string  `json:"category"`
	TotalCopies   int     `json:"totalCopies"`
	ShelfLocation string  `json:"shelfLocation"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
}

// BookUpdate carries optional field changes; nil means "leave unchanged".
type BookUpdate struct {
	ISBN          *string  `json:"isbn"`
	Title         *string  `json:"title"`
	Author        *string  `json:"author"`
	Publisher     *string  `json:"publisher"`
	PublishYear   *int     `json:"publishYear"`
	Category      *string  `json:"category"`
	TotalCopies   *int     `json:"totalCopies"`
	ShelfLocation *string  `json:"shelfLocation"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price"`
}

// CreateBook validates and stores a new catalog entry.
func (a *App) CreateBook(in BookInput) (domain.Book, error) {
	in.Title = validate.SanitizeString(in.Title)
	in.Author = validate.SanitizeString(in.Author)
	in.Publisher = validate.SanitizeString(in.Publisher)
	in.Category = validate.SanitizeString(in.Category)

	if in.Title == "" {
		return domain.Book{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if !validate.ISBN(in.ISBN) {
		return domain.Book{}, fmt.Errorf("%w: invalid isbn %q", ErrInvalidInput, in.ISBN)
	}
	if !validate.PublishYear(in.PublishYear) {
		return domain.Book{}, fmt.Errorf("%w: invalid publish year %d", ErrInvalidInput, in.PublishYear)
	}
	if in.TotalCopies <= 0 {
		return domain.Book{}, fmt.Errorf("%w: total copies must be positive", ErrInvalidInput)
	}
	if in.Price < 0 {
		return domain.Book{}, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}

	book := domain.Book{
		ID:              validate.NewID(),
		ISBN:            in.ISBN,
		Title:           in.Title,
		Author:          in.Author,
		Publisher:       in.Publisher,
		PublishYear:     in.PublishYear,
		Category:        in.Category,
		TotalCopies:     in.TotalCopies,
		AvailableCopies: in.TotalCopies,
		ShelfLocation:   in.ShelfLocation,
		Description:     in.Description,
		Price:           in.Price,
	}
	if err := a.store.SaveBook(book); err != nil {
		return domain.Book{}, fmt.Errorf("save book: %w", err)
	}
	return book, nil
}

// UpdateBook applies a partial update. Changing the total copy count moves
// the available count by the same delta so outstanding loans stay accounted
// for; shrinking below the outstanding count is rejected.
func (a *App) UpdateBook(id string, upd BookUpdate) (domain.Book, error) {
	book, ok, err := a.store.GetBook(id)
	if err != nil {
		return domain.Book{}, fmt.Errorf("get book: %w", err)
	}
	if !ok {
		return domain.Book{}, ErrBookNotFound
	}

	if upd.ISBN != nil {
		if !validate.ISBN(*upd.ISBN) {
			return domain.Book{}, fmt.Errorf("%w: invalid isbn %q", ErrInvalidInput, *upd.ISBN)
		}
		book.ISBN = *upd.ISBN
	}
	if upd.Title != nil {
		title := validate.SanitizeString(*upd.Title)
		if title == "" {
			return domain.Book{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
		}
		book.Title = title
	}
	if upd.Author != nil {
		book.Author = validate.SanitizeString(*upd.Author)
	}
	if upd.Publisher != nil {
		book.Publisher = validate.SanitizeString(*upd.Publisher)
	}
	if upd.PublishYear != nil {
		if !validate.PublishYear(*upd.PublishYear) {
			return domain.Book{}, fmt.Errorf("%w: invalid publish year %d", ErrInvalidInput, *upd.PublishYear)
		}
		book.PublishYear = *upd.PublishYear
	}
	if upd.Category != nil {
		book.Category = validate.SanitizeString(*upd.Category)
	}
	if upd.TotalCopies != nil {
		outstanding := book.TotalCopies - book.AvailableCopies
		if *upd.TotalCopies < outstanding {
			return domain.Book{}, fmt.Errorf("%w: total copies %d below %d outstanding loans",
				ErrInvalidInput, *upd.TotalCopies, outstanding)
		}
		book.TotalCopies = *upd.TotalCopies
		book.AvailableCopies = *upd.TotalCopies - outstanding
	}
	if upd.ShelfLocation != nil {
		book.ShelfLocation = *upd.ShelfLocation
	}
	if upd.Description != nil {
		book.Description = *upd.Description
	}
	if upd.Price != nil {
		if *upd.Price < 0 {
			return domain.Book{}, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
		}
		book.Price = *upd.Price
	}

	if err := a.store.SaveBook(book); err != nil {
		return domain.Book{}, fmt.Errorf("save book: %w", err)
	}
	return book, nil
}

// DeleteBook removes a catalog entry.
func (a *App) DeleteBook(id string) error {
	_, ok, err := a.store.GetBook(id)
	if err != nil {
		return fmt.Errorf("get book: %w", err)
	}
	if !ok {
		return ErrBookNotFound
	}
	return a.store.DeleteBook(id)
}

// GetBook retrieves a catalog entry.
func (a *App) GetBook(id string) (domain.Book, error) {
	book, ok, err := a.store.GetBook(id)
	if err != nil {
		return domain.Book{}, fmt.Errorf("get book: %w", err)
	}
	if !ok {
		return domain.Book{}, ErrBookNotFound
	}
	return book, nil
}

// ListBooks lists the catalog.
func (a *App) ListBooks() ([]domain.Book, error) {
	return a.store.ListBooks()
}
