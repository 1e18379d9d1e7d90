package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Email    string `validate:"required,email"`
	Category string `validate:"required,oneof=court coach"`
	Duration int    `validate:"gte=30,lte=240"`
}

func TestValidateStruct_OK(t *testing.T) {
	errs := ValidateStruct(sampleRequest{
		Email:    "player@example.com",
		Category: "court",
		Duration: 60,
	})
	assert.Empty(t, errs)
}

func TestValidateStruct_Messages(t *testing.T) {
	errs := ValidateStruct(sampleRequest{
		Email:    "not-an-email",
		Category: "pool",
		Duration: 10,
	})

	assert.Len(t, errs, 3)

	byField := map[string]ValidationError{}
	for _, e := range errs {
		byField[e.Field] = e
	}

	assert.Equal(t, "Email must be a valid email address", byField["Email"].Message)
	assert.Equal(t, "Category must be one of: court coach", byField["Category"].Message)
	assert.Equal(t, "Duration must be greater than or equal to 30", byField["Duration"].Message)
}

func TestTestEmail_RejectsBadAddress(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/test-email", TestEmail(nil))

	tests := []struct {
		name  string
		query string
	}{
		{"missing address", ""},
		{"malformed address", "?email=not-an-email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test-email"+tt.query, nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)

			var body struct {
				Error   string            `json:"error"`
				Details []ValidationError `json:"details"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "validation failed", body.Error)
			require.Len(t, body.Details, 1)
			assert.Equal(t, "Email", body.Details[0].Field)
		})
	}
}
