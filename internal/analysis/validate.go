package analysis

import (
	"errors"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/interview-prep/internal/types"
)

// MinDescriptionLength is the minimum trimmed length of a job description
// accepted for analysis.
const MinDescriptionLength = 50

const (
	msgJDRequired            = "jdText is required and must be a string"
	msgJDTooShort            = "jdText is too short. Please provide a more detailed job description."
	msgRequirementsRequired  = "requirements array is required"
	msgRequirementsEmpty     = "requirements array cannot be empty"
	msgRequirementIncomplete = "Each requirement must have id, category, and text"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateDescription checks that jdText is long enough to analyse.
func ValidateDescription(jdText string) error {
	if err := validate.Struct(types.ExtractRequirementsRequest{JDText: jdText}); err != nil {
		return &ValidationError{Field: "jdText", Message: msgJDRequired}
	}
	if utf8.RuneCountInString(strings.TrimSpace(jdText)) < MinDescriptionLength {
		return &ValidationError{Field: "jdText", Message: msgJDTooShort}
	}
	return nil
}

// ValidateEvidenceRequest checks that every requirement stub is complete.
func ValidateEvidenceRequest(req types.EvidenceRequest) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	fe, ok := firstFieldError(err)
	if !ok {
		return &ValidationError{Field: "requirements", Message: msgRequirementsRequired}
	}
	if fe.Field() == "requirements" {
		switch fe.Tag() {
		case "required":
			return &ValidationError{Field: "requirements", Message: msgRequirementsRequired}
		case "min":
			return &ValidationError{Field: "requirements", Message: msgRequirementsEmpty}
		}
	}
	return &ValidationError{Field: fieldPath(fe), Message: msgRequirementIncomplete}
}

// ValidateInterviewQARequest checks the interview Q&A input.
func ValidateInterviewQARequest(req types.InterviewQARequest) error {
	return ValidateStruct(req)
}

// ValidateReverseQuestionsRequest checks the reverse questions input.
func ValidateReverseQuestionsRequest(req types.ReverseQuestionsRequest) error {
	return ValidateStruct(req)
}

// ValidateStruct checks the validate tags on v and reports the first
// failing field by its JSON path.
func ValidateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	fe, ok := firstFieldError(err)
	if !ok {
		return &ValidationError{Message: err.Error()}
	}

	path := fieldPath(fe)
	switch fe.Tag() {
	case "url", "http_url":
		return &ValidationError{Field: path, Message: path + " must be a valid URL"}
	case "oneof":
		return &ValidationError{Field: path, Message: path + " must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")}
	case "max":
		return &ValidationError{Field: path, Message: path + " is too long"}
	}
	return &ValidationError{Field: path, Message: path + " is required"}
}

func firstFieldError(err error) (validator.FieldError, bool) {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return nil, false
	}
	return errs[0], true
}

// fieldPath drops the struct name from the validator namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
