package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kumarshubhh/Yuvamanthan/common/id"
	"github.com/kumarshubhh/Yuvamanthan/internal/model"
)

var validate = newValidator()

// fieldMessages holds the user-facing message per leaf field. Messages do not
// depend on which rule failed.
var fieldMessages = map[string]string{
	"title":         "Title must be at least 5 characters",
	"description":   "Description must be at least 20 characters",
	"location":      "Location is required",
	"lat":           "Valid latitude is required",
	"lng":           "Valid longitude is required",
	"category":      "Valid category is required",
	"images":        "At least one image is required",
	"status":        "Valid status is required",
	"priority":      "Valid priority is required",
	"problem":       "Valid problem ID is required",
	"difficulty":    "Valid difficulty is required",
	"estimatedTime": "Valid estimated time is required",
	"estimatedCost": "Estimated cost must be a non-negative number",
	"voteType":      "Valid vote type is required",
	"text":          "Comment text is required",
	"type":          "Valid resource type is required",
	"name":          "Resource name is required",
	"url":           "Resource URL is required",
}

var indexSuffix = regexp.MustCompile(`\[\d+\]$`)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	enums := map[string]func(string) bool{
		"category":       func(s string) bool { return model.Category(s).Valid() },
		"priority":       func(s string) bool { return model.Priority(s).Valid() },
		"problem_status": func(s string) bool { return model.ProblemStatus(s).Valid() },
		"estimated_time": func(s string) bool { return model.EstimatedTime(s).Valid() },
		"difficulty":     func(s string) bool { return model.Difficulty(s).Valid() },
		"resource_type":  func(s string) bool { return model.ResourceType(s).Valid() },
		"vote_type":      func(s string) bool { return model.VoteType(s).Valid() },
		"snowflake": func(s string) bool {
			_, err := id.Parse(s)
			return err == nil
		},
	}
	for tag, valid := range enums {
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return valid(fl.Field().String())
		}); err != nil {
			panic(fmt.Sprintf("register validation %s: %v", tag, err))
		}
	}
	return v
}

// validateStruct runs the struct rules and converts failures into a
// ValidationError with one entry per field.
func validateStruct(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating input: %w", err)
	}

	out := &ValidationError{Errors: make([]FieldError, 0, len(verrs))}
	seen := make(map[string]bool, len(verrs))
	for _, fe := range verrs {
		field := fieldPath(fe.Namespace())
		if seen[field] {
			continue
		}
		seen[field] = true
		out.Errors = append(out.Errors, FieldError{Field: field, Message: messageFor(fe)})
	}
	return out
}

// fieldPath drops the root struct name from a validator namespace,
// e.g. "CreateProblemInput.coordinates.lat" becomes "coordinates.lat".
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

func messageFor(fe validator.FieldError) string {
	leaf := indexSuffix.ReplaceAllString(fe.Field(), "")
	if msg, ok := fieldMessages[leaf]; ok {
		return msg
	}
	return fmt.Sprintf("%s is invalid", leaf)
}
