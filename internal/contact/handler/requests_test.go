package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hamon/internal/intake"
)

func TestSubmitContactRequestArrivesAsSent(t *testing.T) {
	body := `{"name":"  Jo  ","email":"Jo@Example.COM","phone":"+15551234567",` +
		`"interest":"katana","message":"   I want a blade.   ","acceptTerms":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))

	got, err := intake.JSONBody[SubmitContactRequest](req)
	require.NoError(t, err)

	phone := "+15551234567"
	assert.Equal(t, &SubmitContactRequest{
		Name:        "  Jo  ",
		Email:       "Jo@Example.COM",
		Phone:       &phone,
		Interest:    "katana",
		Message:     "   I want a blade.   ",
		AcceptTerms: true,
	}, got)
}

func TestPaddedShortValuesStayWithinLimits(t *testing.T) {
	body := `{"name":"  a  ","email":"jo@example.com","interest":"tanto",` +
		`"message":"         x          ","acceptTerms":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))

	got, err := intake.JSONBody[SubmitContactRequest](req)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(got.Name), 2)
	assert.GreaterOrEqual(t, len(got.Message), 10)
}
