/*
 * Copyright 2026 The Yorkie Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package validation provides the validation functions for requests that
// enter Revisor from the outside, such as incoming and local edits.
package validation

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

const (
	hexIDRegexString       = `^[0-9a-f]{24}$`
	contentTypeRegexString = `^[a-zA-Z0-9][a-zA-Z0-9!#$&^_.+-]*/[a-zA-Z0-9][a-zA-Z0-9!#$&^_.+-]*$`
)

var (
	hexIDRegex       = regexp.MustCompile(hexIDRegexString)
	contentTypeRegex = regexp.MustCompile(contentTypeRegexString)
)

var (
	// defaultValidator is the validation instance shared by every request
	// type of the api/types package.
	defaultValidator = validator.New()

	defaultEn = en.New()
	uni       = ut.New(defaultEn, defaultEn)

	// trans renders violations in English.
	trans, _ = uni.GetTranslator(defaultEn.Locale())
)

// FieldLevel is the field level interface.
type FieldLevel = validator.FieldLevel

// Violation is a single failed rule.
type Violation struct {
	Tag         string
	Field       string
	Err         error
	Description string
}

// Error returns the error message.
func (v Violation) Error() string {
	if v.Description != "" {
		return v.Description
	}
	return v.Err.Error()
}

// Unwrap returns the underlying validator error.
func (v Violation) Unwrap() error {
	return v.Err
}

// StructError is the error returned by the validation of struct.
type StructError struct {
	Violations []Violation
}

// Error returns the error message.
func (s *StructError) Error() string {
	sb := strings.Builder{}

	for _, v := range s.Violations {
		sb.WriteString(v.Error())
		sb.WriteString("\n")
	}

	return strings.TrimSpace(sb.String())
}

// RegisterValidation registers a custom rule with the given tag.
func RegisterValidation(tag string, fn validator.Func) error {
	if err := defaultValidator.RegisterValidation(tag, fn); err != nil {
		return fmt.Errorf("register validation: %w", err)
	}
	return nil
}

// RegisterTranslation registers the message rendered for violations of tag.
func RegisterTranslation(tag, msg string) error {
	if err := defaultValidator.RegisterTranslation(
		tag,
		trans,
		func(ut ut.Translator) error {
			if err := ut.Add(tag, msg, true); err != nil {
				return fmt.Errorf("register translation: %w", err)
			}
			return nil
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(tag, fe.Field())
			return t
		},
	); err != nil {
		return fmt.Errorf("register translation: %w", err)
	}
	return nil
}

// ValidateValue validates the value with the tag.
func ValidateValue(v interface{}, tag string) error {
	err := defaultValidator.Var(v, tag)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}

	for _, e := range errs {
		return Violation{
			Tag:         e.Tag(),
			Err:         e,
			Description: e.Translate(trans),
		}
	}
	return nil
}

// ValidateStruct validates the struct and collects every violation.
func ValidateStruct(s interface{}) error {
	err := defaultValidator.Struct(s)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}

	structError := &StructError{}
	for _, e := range errs {
		structError.Violations = append(structError.Violations, Violation{
			Tag:         e.Tag(),
			Field:       e.StructField(),
			Err:         e,
			Description: e.Translate(trans),
		})
	}
	return structError
}

func mustRegister(tag, msg string, fn validator.Func) {
	if err := RegisterValidation(tag, fn); err != nil {
		fmt.Fprintf(os.Stderr, "validation %s: %v\n", tag, err)
		os.Exit(1)
	}
	if err := RegisterTranslation(tag, msg); err != nil {
		fmt.Fprintf(os.Stderr, "validation %s: %v\n", tag, err)
		os.Exit(1)
	}
}

func init() {
	if err := entranslations.RegisterDefaultTranslations(defaultValidator, trans); err != nil {
		fmt.Fprintf(os.Stderr, "validation register default translations: %v\n", err)
		os.Exit(1)
	}

	mustRegister("hexid", "{0} must be a 24 character hexadecimal ID", func(level validator.FieldLevel) bool {
		return hexIDRegex.MatchString(level.Field().String())
	})

	mustRegister("content_type", "{0} must be a valid MIME content type", func(level validator.FieldLevel) bool {
		return contentTypeRegex.MatchString(level.Field().String())
	})

	mustRegister("duration", "{0} must be a valid time duration string", func(level validator.FieldLevel) bool {
		_, err := time.ParseDuration(level.Field().String())
		return err == nil
	})
}
