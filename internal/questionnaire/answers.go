package questionnaire

import (
	"encoding/json"
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"btoolme/internal/catalog"
	"btoolme/internal/recommend"
	"btoolme/internal/shared/apperr"
	"btoolme/internal/shared/util"
)

// Answers is the business profile collected by the questionnaire.
type Answers struct {
	BusinessSize string   `json:"businessSize" validate:"required,oneof=solo small medium large"`
	Industry     string   `json:"industry" validate:"required,oneof=retail services technology healthcare manufacturing hospitality other"`
	Needs        []string `json:"needs" validate:"required,min=1,dive,category"`
	Budget       string   `json:"budget" validate:"required,tier"`
	Features     []string `json:"features,omitempty" validate:"omitempty,dive,required,max=64"`
	Name         string   `json:"name" validate:"required,max=200"`
	Email        string   `json:"email" validate:"required,email"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		_, ok := catalog.ParseCategory(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("tier", func(fl validator.FieldLevel) bool {
		_, ok := catalog.ParseTier(fl.Field().String())
		return ok
	})
	return v
}

// Normalize trims whitespace and lower-cases enumerated values.
func (a Answers) Normalize() Answers {
	a.BusinessSize = strings.ToLower(strings.TrimSpace(a.BusinessSize))
	a.Industry = strings.ToLower(strings.TrimSpace(a.Industry))
	a.Budget = strings.ToLower(strings.TrimSpace(a.Budget))
	a.Name = strings.TrimSpace(a.Name)
	a.Email = strings.TrimSpace(a.Email)
	a.Needs = normalizeList(a.Needs)
	a.Features = normalizeList(a.Features)
	return a
}

// Validate reports every invalid or missing field.
func (a Answers) Validate() error {
	return validationError(validate.Struct(a))
}

// Complete reports whether the answers are ready for scoring.
func (a Answers) Complete() bool {
	return a.Validate() == nil
}

// Profile converts validated answers into the scoring engine's input.
func (a Answers) Profile() recommend.Profile {
	p := recommend.Profile{
		BusinessSize: a.BusinessSize,
		Industry:     a.Industry,
		Features:     append([]string(nil), a.Features...),
	}
	for _, n := range a.Needs {
		if c, ok := catalog.ParseCategory(n); ok {
			p.Needs = append(p.Needs, c)
		}
	}
	if tier, ok := catalog.ParseTier(a.Budget); ok {
		p.Budget = tier
	}
	return p
}

// Fingerprint identifies the scoring-relevant part of the answers.
// Contact details do not affect scoring and are left out.
func (a Answers) Fingerprint() string {
	needs := append([]string(nil), a.Needs...)
	features := append([]string(nil), a.Features...)
	sort.Strings(needs)
	sort.Strings(features)
	data, _ := json.Marshal(struct {
		Size     string   `json:"s"`
		Industry string   `json:"i"`
		Needs    []string `json:"n"`
		Budget   string   `json:"b"`
		Features []string `json:"f"`
	}{a.BusinessSize, a.Industry, needs, a.Budget, features})
	return util.HashKey(string(data))
}

func validationError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Unexpected(err)
	}
	issues := make([]apperr.FieldIssue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, apperr.FieldIssue{Field: fieldPath(fe), Issue: fe.Tag()})
	}
	return apperr.Validation("Invalid questionnaire answers", issues)
}

// fieldPath strips the struct name from the validator namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func normalizeList(values []string) []string {
	if values == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		key := strings.ToLower(strings.TrimSpace(v))
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}
