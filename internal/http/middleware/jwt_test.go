package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"connect_four/internal/service"

	"github.com/gin-gonic/gin"
)

func TestJWT(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service.InitJWT("middleware-secret")

	token, err := service.GenerateJWT(7, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	r := gin.New()
	r.GET("/me", JWT(), func(c *gin.Context) {
		p, ok := Player(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, strconv.FormatInt(int64(p), 10))
	})

	cases := []struct {
		name   string
		header string
		code   int
		body   string
	}{
		{"valid", "Bearer " + token, http.StatusOK, "7"},
		{"missing", "", http.StatusUnauthorized, ""},
		{"no bearer", token, http.StatusUnauthorized, ""},
		{"bad token", "Bearer nope", http.StatusUnauthorized, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tc.code {
				t.Fatalf("code = %d; want %d", w.Code, tc.code)
			}
			if tc.body != "" && w.Body.String() != tc.body {
				t.Fatalf("body = %q; want %q", w.Body.String(), tc.body)
			}
			if tc.code == http.StatusUnauthorized {
				var res struct {
					Error   string `json:"error"`
					Message string `json:"message"`
				}
				if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
					t.Fatalf("decode body: %v", err)
				}
				if res.Error != CodeUnauthorized || res.Message == "" {
					t.Fatalf("body = %+v; want Unauthorized with a message", res)
				}
			}
		})
	}
}
