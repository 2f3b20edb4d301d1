package validation

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "hamon/pkg/domain-errors"
)

type signupRequest struct {
	Name        string            `json:"name" validate:"required,min=2,max=50"`
	Email       string            `json:"email" validate:"required,email"`
	Phone       *string           `json:"phone,omitempty" validate:"omitempty,phone"`
	AcceptTerms bool              `json:"acceptTerms" validate:"accepted"`
	Tags        map[string]string `json:"tags,omitempty" validate:"omitempty,dive,notblank"`
	internal    string
}

type listQuery struct {
	Page   int    `query:"page" default:"1" validate:"min=1"`
	Limit  int    `query:"limit" default:"10" validate:"min=1,max=100"`
	Order  string `query:"order" default:"desc" validate:"oneof=asc desc"`
	Search string `query:"search" validate:"omitempty,max=20"`
}

func violationsOf(t *testing.T, err error) []dErrors.Violation {
	t.Helper()
	var domainErr *dErrors.Error
	require.True(t, errors.As(err, &domainErr), "expected domain error, got %v", err)
	assert.Equal(t, dErrors.CodeValidation, domainErr.Code)
	assert.Equal(t, InvalidMessage, domainErr.Message)
	return domainErr.Violations
}

func fieldsOf(violations []dErrors.Violation) []string {
	fields := make([]string, 0, len(violations))
	for _, v := range violations {
		fields = append(fields, v.Field)
	}
	return fields
}

func TestParse(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		req, err := Parse[signupRequest]([]byte(`{"name":"Ada","email":"ada@example.com","phone":"+15551234567","acceptTerms":true}`))
		require.NoError(t, err)
		assert.Equal(t, "Ada", req.Name)
		require.NotNil(t, req.Phone)
		assert.Equal(t, "+15551234567", *req.Phone)
		assert.True(t, req.AcceptTerms)
	})

	t.Run("unknown fields are ignored", func(t *testing.T) {
		req, err := Parse[signupRequest]([]byte(`{"name":"Ada","email":"ada@example.com","acceptTerms":true,"extra":1,"internal":"x"}`))
		require.NoError(t, err)
		assert.Empty(t, req.internal)
	})

	t.Run("reports every violated rule", func(t *testing.T) {
		_, err := Parse[signupRequest]([]byte(`{"name":"A","email":"nope","phone":"0123","acceptTerms":false}`))
		violations := violationsOf(t, err)
		assert.Equal(t, []string{"name", "email", "phone", "acceptTerms"}, fieldsOf(violations))
		assert.Equal(t, "name must be at least 2 characters", violations[0].Message)
		assert.Equal(t, "acceptTerms must be accepted", violations[3].Message)
	})

	t.Run("missing fields are required", func(t *testing.T) {
		_, err := Parse[signupRequest]([]byte(`{}`))
		violations := violationsOf(t, err)
		assert.Equal(t, []string{"name", "email", "acceptTerms"}, fieldsOf(violations))
		assert.Equal(t, "name is required", violations[0].Message)
	})

	t.Run("wrong JSON type is not coerced", func(t *testing.T) {
		_, err := Parse[signupRequest]([]byte(`{"name":42,"email":"ada@example.com","acceptTerms":"true"}`))
		violations := violationsOf(t, err)
		require.Len(t, violations, 2)
		assert.Equal(t, dErrors.Violation{Field: "name", Message: "name must be a string"}, violations[0])
		assert.Equal(t, dErrors.Violation{Field: "acceptTerms", Message: "acceptTerms must be a boolean"}, violations[1])
	})

	t.Run("map values are validated", func(t *testing.T) {
		_, err := Parse[signupRequest]([]byte(`{"name":"Ada","email":"ada@example.com","acceptTerms":true,"tags":{"blade":"  "}}`))
		violations := violationsOf(t, err)
		require.Len(t, violations, 1)
		assert.Equal(t, "tags[blade]", violations[0].Field)
	})

	for _, body := range []string{``, `null`, `[]`, `"text"`, `{"name":`} {
		t.Run("non-object body "+body, func(t *testing.T) {
			_, err := Parse[signupRequest]([]byte(body))
			violations := violationsOf(t, err)
			require.Len(t, violations, 1)
			assert.Equal(t, BodyField, violations[0].Field)
		})
	}
}

func TestParseQuery(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		q, err := ParseQuery[listQuery](url.Values{})
		require.NoError(t, err)
		assert.Equal(t, listQuery{Page: 1, Limit: 10, Order: "desc"}, *q)
	})

	t.Run("reads values", func(t *testing.T) {
		q, err := ParseQuery[listQuery](url.Values{"page": {"3"}, "limit": {"25"}, "order": {"asc"}, "search": {"tachi"}})
		require.NoError(t, err)
		assert.Equal(t, listQuery{Page: 3, Limit: 25, Order: "asc", Search: "tachi"}, *q)
	})

	t.Run("reports type and rule violations together", func(t *testing.T) {
		_, err := ParseQuery[listQuery](url.Values{"page": {"abc"}, "limit": {"500"}, "order": {"sideways"}})
		violations := violationsOf(t, err)
		assert.Equal(t, []string{"page", "limit", "order"}, fieldsOf(violations))
		assert.Equal(t, "page must be an integer", violations[0].Message)
		assert.Equal(t, "limit must be at most 100", violations[1].Message)
	})
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(&signupRequest{Name: "Ada", Email: "ada@example.com", AcceptTerms: true}))

	err := Validate(&signupRequest{Name: "Ada", Email: "ada@example.com"})
	violations := violationsOf(t, err)
	assert.Equal(t, []string{"acceptTerms"}, fieldsOf(violations))
}

func TestCustomRules(t *testing.T) {
	tests := []struct {
		rule  string
		value string
		valid bool
	}{
		{"phone", "+15551234567", true},
		{"phone", "15551234567", true},
		{"phone", "+0123", false},
		{"phone", "555-1234", false},
		{"cuid", "ckxyz12345abcde", true},
		{"cuid", "xyz12345abcde", false},
		{"cuid", "c123", false},
		{"notblank", "x", true},
		{"notblank", " \t", false},
	}

	for _, tt := range tests {
		t.Run(tt.rule+"/"+tt.value, func(t *testing.T) {
			err := defaultValidator.Var(tt.value, tt.rule)
			assert.Equal(t, tt.valid, err == nil)
		})
	}
}
