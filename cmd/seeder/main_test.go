package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckState(t *testing.T) {
	assert.Equal(t, "Bien", checkState(0))
	assert.Equal(t, "Mal", checkState(1))
}

func TestGetEnv(t *testing.T) {
	os.Unsetenv("SEEDER_TEST_KEY")
	assert.Equal(t, "fallback", getEnv("SEEDER_TEST_KEY", "fallback"))

	os.Setenv("SEEDER_TEST_KEY", "value")
	defer os.Unsetenv("SEEDER_TEST_KEY")
	assert.Equal(t, "value", getEnv("SEEDER_TEST_KEY", "fallback"))
}

func TestGetEnvInt(t *testing.T) {
	os.Unsetenv("SEEDER_TEST_INT")
	assert.Equal(t, 7, getEnvInt("SEEDER_TEST_INT", 7))

	os.Setenv("SEEDER_TEST_INT", "12")
	defer os.Unsetenv("SEEDER_TEST_INT")
	assert.Equal(t, 12, getEnvInt("SEEDER_TEST_INT", 7))

	os.Setenv("SEEDER_TEST_INT", "not-a-number")
	assert.Equal(t, 7, getEnvInt("SEEDER_TEST_INT", 7))
}

func TestPostJSON(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			var payload map[string]interface{}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "ABC-123", payload["plate"])

			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]string{"id": "abc123"})
		}))
		defer server.Close()

		out, err := postJSON(server.URL+"/api/vehicles", map[string]string{"plate": "ABC-123"})
		assert.NoError(t, err)
		assert.Equal(t, "abc123", out["id"])
	})

	t.Run("error status surfaces the body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"message": "plate is required"})
		}))
		defer server.Close()

		_, err := postJSON(server.URL+"/api/vehicles", map[string]string{})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "plate is required")
	})
}

func TestLogin(t *testing.T) {
	origToken := authToken
	defer func() { authToken = origToken }()

	t.Run("stores the token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"token": "jwt-token"})
		}))
		defer server.Close()

		authToken = ""
		assert.NoError(t, login(server.URL, "admin", "admin123"))
		assert.Equal(t, "jwt-token", authToken)
	})

	t.Run("missing token is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{})
		}))
		defer server.Close()

		authToken = ""
		assert.Error(t, login(server.URL, "admin", "admin123"))
	})
}

func TestAuthorizedRequestSetsBearer(t *testing.T) {
	origToken := authToken
	defer func() { authToken = origToken }()
	authToken = "seed-token"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer seed-token", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	resp, err := authorizedRequest(http.MethodPost, server.URL, nil)
	assert.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
