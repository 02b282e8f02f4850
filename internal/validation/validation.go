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

// Package validation wraps go-playground/validator. Paths use it to evaluate
// their tag rules, e.g. "email,max=64", and configurations use it to check
// struct fields.
package validation

import (
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
	// identifierRegexString matches names of schemas, collections and paths.
	identifierRegexString = `^[a-zA-Z_][a-zA-Z0-9_.\-]*$`
	objectIDRegexString   = `^[0-9a-fA-F]{24}$`
)

var (
	identifierRegex = regexp.MustCompile(identifierRegexString)
	objectIDRegex   = regexp.MustCompile(objectIDRegexString)
)

var (
	// defaultValidator is shared by every rule. Validators cache parsed tags,
	// so rules are parsed only once per process.
	defaultValidator = validator.New()
	defaultEn        = en.New()
	uni              = ut.New(defaultEn, defaultEn)

	trans, _ = uni.GetTranslator(defaultEn.Locale())
)

// FieldLevel is the field level interface.
type FieldLevel = validator.FieldLevel

// Violation is the error returned when a value breaks a rule.
type Violation struct {
	Tag         string
	Field       string
	Err         error
	Description string
}

// Error returns the error message.
func (e Violation) Error() string {
	return e.Err.Error()
}

// StructError is the error returned by the validation of a struct.
type StructError struct {
	Violations []Violation
}

// Error returns the descriptions of every violation, one per line.
func (s StructError) Error() string {
	sb := strings.Builder{}

	for _, v := range s.Violations {
		sb.WriteString(v.Description)
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

// RegisterTranslation registers the message of the given tag. "{0}" in msg
// is replaced with the field name.
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

// CheckRules returns an error if the given rules can't be evaluated on
// values like the given sample: a tag that is not registered, or a tag that
// doesn't apply to the kind of the sample. The validator panics in both
// cases, so the rules are evaluated once here before they are used.
func CheckRules(sample interface{}, rules string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid rules %q for %T: %v", rules, sample, r)
		}
	}()

	_ = defaultValidator.Var(sample, rules)
	return nil
}

// ValidateValue validates the value with the given rules and returns the
// first violation. A rule that doesn't apply to the value is returned as an
// error instead of a panic.
func ValidateValue(v interface{}, rules string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("rules %q can't validate %T: %v", rules, v, r)
		}
	}()

	if err := defaultValidator.Var(v, rules); err != nil {
		errs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}

		for _, e := range errs {
			return Violation{
				Tag:         e.Tag(),
				Err:         e,
				Description: strings.TrimSpace(e.Translate(trans)),
			}
		}
	}
	return nil
}

// ValidateStruct validates the struct with its `validate` tags.
func ValidateStruct(s interface{}) error {
	if err := defaultValidator.Struct(s); err != nil {
		errs, ok := err.(validator.ValidationErrors)
		if !ok {
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

	return nil
}

// IsIdentifier returns whether the given string can name a schema, a
// collection or a path.
func IsIdentifier(s string) bool {
	return identifierRegex.MatchString(s)
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

	mustRegister("identifier", "{0} must start with a letter or underscore and contain only letters, numbers, underscore, period and hyphen",
		func(level validator.FieldLevel) bool {
			return IsIdentifier(level.Field().String())
		})

	mustRegister("objectid", "{0} must be a valid object id",
		func(level validator.FieldLevel) bool {
			return objectIDRegex.MatchString(level.Field().String())
		})

	mustRegister("duration", "{0} must be a valid time duration",
		func(level validator.FieldLevel) bool {
			_, err := time.ParseDuration(level.Field().String())
			return err == nil
		})
}
