package main

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// LoginForm is the local input of the login view.
type LoginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// SignupForm is the local input of the signup view.
type SignupForm struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

// BookForm is the local input of the add/edit book view.
// Title and author are the only required fields.
type BookForm struct {
	Title       string `validate:"required"`
	Author      string `validate:"required"`
	Description string
	Genre       string
	Year        int
}

// ReviewForm is the local input of the add review view. A zero rating
// means the user never picked one.
type ReviewForm struct {
	Rating    int    `validate:"required,min=1,max=5"`
	ReviewTxt string `validate:"required"`
}

// CheckForm validates a form locally and converts the first violation
// into a ValidationFailure fault. It runs before any network call.
func CheckForm(form interface{}) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if ok := asValidationErrors(err, &fieldErrors); ok && len(fieldErrors) > 0 {
		return NewFault(ErrValidation, fieldMessage(fieldErrors[0]), err)
	}
	return NewFault(ErrValidation, "Some submitted values are not valid.", err)
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	ve, ok := err.(validator.ValidationErrors)
	if ok {
		*target = ve
	}
	return ok
}

// fieldMessage turns one field violation into a readable sentence.
func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		if field == "rating" {
			return "Please select a rating."
		}
		return fmt.Sprintf("%s is required.", field)
	case "email":
		return "Please provide a valid email address."
	case "min":
		if fe.Kind().String() == "int" {
			return fmt.Sprintf("%s must be at least %s.", field, fe.Param())
		}
		return fmt.Sprintf("%s must have at least %s characters.", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s.", field, fe.Param())
	default:
		return fmt.Sprintf("%s is not valid.", field)
	}
}
