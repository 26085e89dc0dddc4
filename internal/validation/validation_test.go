package validation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tazhibayda/devconnector/internal/apperror"
	"github.com/tazhibayda/devconnector/internal/validation"
)

type signup struct {
	Name     string `json:"name" validate:"required" msg:"Name is required"`
	Email    string `json:"email" validate:"email" msg:"Please include a valid email"`
	Password string `json:"password" validate:"min=5" msg:"Please enter a password with 5 or more characters"`
}

type listing struct {
	Status string `json:"status" validate:"required" msg:"Status is required"`
	Skills string `json:"skills" validate:"skills" msg:"Skills is required"`
	Note   string `json:"note" validate:"max=3"`
}

func fieldsOf(t *testing.T, err error) []apperror.FieldError {
	t.Helper()
	var ae *apperror.Error
	require.True(t, errors.As(err, &ae), "want *apperror.Error, got %T", err)
	assert.Equal(t, apperror.KindValidation, ae.Kind)
	return ae.Fields
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, validation.Struct(&signup{Name: "A", Email: "a@b.co", Password: "12345"}))
	assert.NoError(t, validation.Struct(&listing{Status: "dev", Skills: "go"}))
}

func TestStruct_AllFieldsInDeclarationOrder(t *testing.T) {
	got := fieldsOf(t, validation.Struct(&signup{Email: "not-an-email", Password: "123"}))

	assert.Equal(t, []apperror.FieldError{
		{Msg: "Name is required", Param: "name", Location: "body"},
		{Msg: "Please include a valid email", Param: "email", Location: "body"},
		{Msg: "Please enter a password with 5 or more characters", Param: "password", Location: "body"},
	}, got)
}

func TestStruct_EmptyEmailIsInvalid(t *testing.T) {
	got := fieldsOf(t, validation.Struct(&signup{Name: "A", Password: "12345"}))
	require.Len(t, got, 1)
	assert.Equal(t, "email", got[0].Param)
}

func TestStruct_BlankSkillsCountAsMissing(t *testing.T) {
	got := fieldsOf(t, validation.Struct(&listing{Status: "dev", Skills: " , ,"}))
	assert.Equal(t, []apperror.FieldError{{Msg: "Skills is required", Param: "skills", Location: "body"}}, got)
}

func TestStruct_FallbackMessage(t *testing.T) {
	got := fieldsOf(t, validation.Struct(&listing{Status: "dev", Skills: "go", Note: "too long"}))
	assert.Equal(t, "Invalid value", got[0].Msg)
	assert.Equal(t, "note", got[0].Param)
}
