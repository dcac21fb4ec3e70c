package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/glpi-gateway/internal/domain"
	apperrors "github.com/spec-kit/glpi-gateway/pkg/util/errorutil"
)

func validInput() CreateTicketInput {
	return CreateTicketInput{
		Description:   "printer jam",
		Status:        "New",
		OpeningDate:   "2024-03-01",
		RequestSource: "Phone",
	}
}

func TestBuildTicketRequest(t *testing.T) {
	tables := domain.DefaultEnumTables()

	t.Run("valid input resolves and normalizes", func(t *testing.T) {
		req, err := buildTicketRequest(validInput(), tables)
		require.NoError(t, err)

		assert.Equal(t, "printer jam", req.Content)
		assert.Equal(t, 1, req.StatusID)
		assert.Equal(t, 3, req.RequestSourceID)
		assert.Equal(t, "2024-03-01 00:00:00", req.OpeningDate)
		assert.NotEmpty(t, req.Name)
		assert.Nil(t, req.RequesterID)
	})

	t.Run("missing fields are all named", func(t *testing.T) {
		_, err := buildTicketRequest(CreateTicketInput{Status: "New"}, tables)
		require.Error(t, err)

		var domainErr *apperrors.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
		assert.ElementsMatch(t,
			[]string{"description", "opening_date", "request_source"},
			domainErr.Details["missing"])
	})

	t.Run("unknown status label surfaces structurally", func(t *testing.T) {
		input := validInput()
		input.Status = "Bogus"
		_, err := buildTicketRequest(input, tables)
		require.Error(t, err)

		var unknownErr *domain.UnknownLabelError
		require.True(t, errors.As(err, &unknownErr))
		assert.Equal(t, "Bogus", unknownErr.Label)
	})

	t.Run("both unknown labels are aggregated", func(t *testing.T) {
		input := validInput()
		input.Status = "Bogus"
		input.RequestSource = "Carrier Pigeon"
		_, err := buildTicketRequest(input, tables)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Bogus")
		assert.Contains(t, err.Error(), "Carrier Pigeon")
	})

	t.Run("numeric requester is forwarded", func(t *testing.T) {
		input := validInput()
		input.Requester = "17"
		req, err := buildTicketRequest(input, tables)
		require.NoError(t, err)
		require.NotNil(t, req.RequesterID)
		assert.Equal(t, 17, *req.RequesterID)
	})

	t.Run("free text requester is dropped", func(t *testing.T) {
		input := validInput()
		input.Requester = "jane.doe"
		req, err := buildTicketRequest(input, tables)
		require.NoError(t, err)
		assert.Nil(t, req.RequesterID)
	})

	t.Run("generated names are unique per build", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 50; i++ {
			req, err := buildTicketRequest(validInput(), tables)
			require.NoError(t, err)
			assert.False(t, seen[req.Name], "name %q generated twice", req.Name)
			seen[req.Name] = true
		}
	})
}

func TestNormalizeOpeningDate(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"date only gets midnight", "2024-01-15", "2024-01-15 00:00:00"},
		{"date-time passes through", "2024-01-15 09:30:00", "2024-01-15 09:30:00"},
		{"surrounding whitespace is trimmed", "  2024-01-15  ", "2024-01-15 00:00:00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, normalizeOpeningDate(tc.input))
		})
	}
}
