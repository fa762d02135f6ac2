package model

import (
	"fmt"
	"strings"

	"resume-builder/internal/domain"
	apperrors "resume-builder/internal/errors"
	"resume-builder/internal/theme"

	"github.com/go-playground/validator/v10"
)

// Request bodies accepted at the data-entry boundary.

type PreviewRequest struct {
	TemplateID string          `json:"templateId" validate:"omitempty,template"`
	Document   domain.Document `json:"document"`
}

type ExportRequest struct {
	TemplateID string          `json:"templateId" validate:"omitempty,template"`
	Encoding   string          `json:"encoding" validate:"required,oneof=pdf docx html"`
	Document   domain.Document `json:"document"`
}

type SaveDraftRequest struct {
	ID            string          `json:"id" validate:"omitempty,uuid"`
	TemplateID    string          `json:"templateId" validate:"omitempty,template"`
	ActiveSection string          `json:"activeSection" validate:"omitempty,section"`
	Document      domain.Document `json:"document"`
}

type FormRequest struct {
	Document domain.Document `json:"document"`
}

type EntryRequest struct {
	Section  string          `json:"section" validate:"required,section"`
	Index    int             `json:"index" validate:"gte=0"`
	Document domain.Document `json:"document"`
}

var requestValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("template", func(fl validator.FieldLevel) bool {
		_, err := theme.Lookup(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("section", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseSection(fl.Field().String())
		return err == nil
	})
	return v
}

func (r PreviewRequest) Validate() error   { return check(r) }
func (r ExportRequest) Validate() error    { return check(r) }
func (r SaveDraftRequest) Validate() error { return check(r) }
func (r EntryRequest) Validate() error     { return check(r) }

func check(s any) error {
	err := requestValidator.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.InvalidInput("invalid request", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
	}
	return apperrors.InvalidInput(strings.Join(msgs, ", "), err)
}
