package model

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Status must be one of the two save labels; empty is defaulted later
	_ = v.RegisterValidation("savestatus", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == StatusUnsaved || s == StatusSaved
	})
	return v
}

// ValidateArticle trims the text fields and checks the stored shape. An
// empty title is allowed; untitled blocks are still kept.
func ValidateArticle(a *Article) error {
	a.Title = strings.TrimSpace(a.Title)
	a.Link = strings.TrimSpace(a.Link)
	a.Summary = strings.TrimSpace(a.Summary)

	err := validate.Struct(a)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[strings.ToLower(fe.Field())] = fe.Tag()
	}
	return &ValidationError{Record: "Article", Fields: fields}
}
