// Package types provides type definitions shared by the cover letter generator packages.
package types

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// GenerationRequest holds the form fields sent to the generation model.
type GenerationRequest struct {
	CandidateName  string `json:"candidate_name" validate:"notblank"`
	CompanyName    string `json:"company_name" validate:"notblank"`
	CompanyAddress string `json:"company_address,omitempty"`
	HiringManager  string `json:"hiring_manager,omitempty"`
	JobDescription string `json:"job_description" validate:"notblank"`
	CVText         string `json:"cv_text" validate:"notblank"`
}

// MissingFieldsMessage is shown when any required field is blank.
const MissingFieldsMessage = "Please fill in Your Name, Company Name, Job Description, and provide a CV."

// ValidationError reports the required fields that were blank.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation error: " + MissingFieldsMessage
	}
	return fmt.Sprintf("validation error: %s - %s", strings.Join(e.Fields, ", "), MissingFieldsMessage)
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func requestValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
	return validate
}

// Validate checks that every required field is non-blank.
func (r *GenerationRequest) Validate() error {
	err := requestValidator().Struct(r)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return &ValidationError{}
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return &ValidationError{Fields: fields}
}
