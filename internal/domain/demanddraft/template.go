package demanddraft

import (
	"context"
	"errors"
	"html"
	"strings"

	"gorm.io/gorm"
)

type TemplateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

func (r *TemplateRepository) WithTx(tx *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db: tx}
}

func (r *TemplateRepository) Create(ctx context.Context, t *Template) error {
	return r.db.WithContext(ctx).Create(t).Error
}

// FindFirstActive returns the oldest active template.
func (r *TemplateRepository) FindFirstActive(ctx context.Context) (*Template, error) {
	var t Template
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("id").First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *TemplateRepository) List(ctx context.Context) ([]Template, error) {
	var ts []Template
	err := r.db.WithContext(ctx).Order("id").Find(&ts).Error
	return ts, err
}

type Rendered struct {
	Subject     string
	HTMLContent string
}

// Render substitutes {{key}} placeholders. Unknown placeholders are left as is.
// Values are HTML-escaped in the body and inserted raw in the subject.
func Render(t *Template, data TemplateData) Rendered {
	return Rendered{
		Subject:     strings.NewReplacer(placeholders(data, nil)...).Replace(t.Subject),
		HTMLContent: strings.NewReplacer(placeholders(data, html.EscapeString)...).Replace(t.HTMLContent),
	}
}

func placeholders(d TemplateData, escape func(string) string) []string {
	values := map[string]string{
		"draft_number":          d.DraftNumber,
		"booking_number":        d.BookingNumber,
		"customer_name":         d.CustomerName,
		"property_name":         d.PropertyName,
		"tower_name":            d.TowerName,
		"flat_number":           d.FlatNumber,
		"milestone_name":        d.MilestoneName,
		"milestone_description": d.MilestoneDescription,
		"amount":                d.Amount,
		"amount_in_words":       d.AmountInWords,
		"due_date":              d.DueDate,
		"issue_date":            d.IssueDate,
		"bank_name":             d.Bank.BankName,
		"account_name":          d.Bank.AccountName,
		"account_number":        d.Bank.AccountNumber,
		"ifsc_code":             d.Bank.IFSC,
		"branch":                d.Bank.Branch,
	}

	pairs := make([]string, 0, len(values)*2)
	for k, v := range values {
		if escape != nil {
			v = escape(v)
		}
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	return pairs
}

type CreateTemplateRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Subject     string `json:"subject" validate:"required,max=255"`
	HTMLContent string `json:"html_content" validate:"required"`
}
