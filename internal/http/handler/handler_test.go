package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"starterapi/docs"
	"starterapi/internal/model"
	"starterapi/internal/service"
	serviceMocks "starterapi/internal/service/mocks"
)

var testInfo = AppInfo{Name: "starterapi", Version: "9.9.9"}

func newApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zerolog.Nop())})
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestRoot(t *testing.T) {
	app := newApp()
	app.Get("/", Root(testInfo))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[map[string]any](t, resp)
	assert.Equal(t, "starterapi is running", body["message"])
	assert.Equal(t, "9.9.9", body["version"])
	assert.Equal(t, "/docs", body["docs"])
	assert.Equal(t, map[string]any{"health": "/health", "items": "/items"}, body["endpoints"])
}

func TestHealthCheck(t *testing.T) {
	var dbErr error
	checks := map[string]ReadinessCheck{
		"db": func(ctx context.Context) error { return dbErr },
	}

	app := newApp()
	app.Get("/health", HealthCheck(testInfo, checks))

	t.Run("healthy", func(t *testing.T) {
		dbErr = nil
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decode[map[string]any](t, resp)
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, "9.9.9", body["version"])
		assert.Equal(t, []any{"db"}, body["checks"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbErr = errors.New("db error")
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		body := decode[errorPayload](t, resp)
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
		assert.Equal(t, map[string]string{"db": "unavailable"}, body.Error.Fields)
	})
}

func TestHealthCheck_NoChecks(t *testing.T) {
	app := newApp()
	app.Get("/health", HealthCheck(testInfo, nil))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLivenessProbe(t *testing.T) {
	app := newApp()
	app.Get("/healthz", LivenessProbe())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRedoc(t *testing.T) {
	app := newApp()
	app.Get("/redoc", Redoc())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/redoc", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `spec-url="/docs/doc.json"`)
}

func TestListItems(t *testing.T) {
	mockSvc := new(serviceMocks.MockItemService)
	app := newApp()
	app.Get("/items", ListItems(mockSvc))

	t.Run("success with defaults", func(t *testing.T) {
		expected := &service.ItemListResult{
			Items: []model.Item{{ID: uuid.NewString(), Title: "a"}},
			Total: 1,
			Limit: 100,
		}
		mockSvc.On("List", mock.Anything, 100, 0).Return(expected, nil).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		result := decode[service.ItemListResult](t, resp)
		assert.Len(t, result.Items, 1)
		assert.Equal(t, 1, result.Total)
		mockSvc.AssertExpectations(t)
	})

	t.Run("explicit paging", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, 10, 20).Return(&service.ItemListResult{Items: []model.Item{}}, nil).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items?limit=10&offset=20", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid limit", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items?limit=abc", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_LIMIT", decode[errorPayload](t, resp).Error.Code)
	})

	t.Run("invalid offset", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items?offset=x", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_OFFSET", decode[errorPayload](t, resp).Error.Code)
	})

	t.Run("out of range", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, 5000, 0).
			Return(nil, &service.ValidationError{Fields: map[string]string{"limit": "must be between 1 and 1000"}}).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items?limit=5000", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		body := decode[errorPayload](t, resp)
		assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
		assert.Contains(t, body.Error.Fields, "limit")
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, 100, 0).Return(nil, errors.New("service error")).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestCreateItem(t *testing.T) {
	mockSvc := new(serviceMocks.MockItemService)
	app := newApp()
	app.Post("/items", CreateItem(mockSvc))

	t.Run("success", func(t *testing.T) {
		expected := &model.Item{ID: uuid.NewString(), Title: "t", Content: "c"}
		mockSvc.On("Create", mock.Anything, model.ItemCreate{Title: "t", Content: "c"}).Return(expected, nil).Once()

		resp, err := app.Test(jsonRequest(http.MethodPost, "/items", `{"title":"t","content":"c"}`))
		require.NoError(t, err)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, expected.ID, decode[model.Item](t, resp).ID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("malformed json", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(http.MethodPost, "/items", `{"title":`))
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_BODY", decode[errorPayload](t, resp).Error.Code)
	})

	t.Run("validation error", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, model.ItemCreate{}).
			Return(nil, &service.ValidationError{Fields: map[string]string{"title": "is required", "content": "is required"}}).Once()

		resp, err := app.Test(jsonRequest(http.MethodPost, "/items", `{}`))
		require.NoError(t, err)

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		body := decode[errorPayload](t, resp)
		assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
		assert.Equal(t, "is required", body.Error.Fields["title"])
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("boom")).Once()

		resp, err := app.Test(jsonRequest(http.MethodPost, "/items", `{"title":"t","content":"c"}`))
		require.NoError(t, err)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

func TestGetItem(t *testing.T) {
	mockSvc := new(serviceMocks.MockItemService)
	app := newApp()
	app.Get("/items/:id", GetItem(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.NewString()
		mockSvc.On("Get", mock.Anything, id).Return(&model.Item{ID: id}, nil).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items/"+id, nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, id, decode[model.Item](t, resp).ID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.NewString()
		mockSvc.On("Get", mock.Anything, id).Return(nil, service.ErrNotFound).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items/"+id, nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decode[errorPayload](t, resp).Error.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items/invalid-uuid", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ID", decode[errorPayload](t, resp).Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		id := uuid.NewString()
		mockSvc.On("Get", mock.Anything, id).Return(nil, errors.New("db error")).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items/"+id, nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

func TestUpdateItem(t *testing.T) {
	mockSvc := new(serviceMocks.MockItemService)
	app := newApp()
	app.Put("/items/:id", UpdateItem(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.NewString()
		mockSvc.On("Update", mock.Anything, id, mock.MatchedBy(func(in model.ItemUpdate) bool {
			return in.Title != nil && *in.Title == "new" && in.Content == nil
		})).Return(&model.Item{ID: id, Title: "new"}, nil).Once()

		resp, err := app.Test(jsonRequest(http.MethodPut, "/items/"+id, `{"title":"new"}`))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "new", decode[model.Item](t, resp).Title)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(http.MethodPut, "/items/nope", `{"title":"new"}`))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.NewString()
		mockSvc.On("Update", mock.Anything, id, mock.Anything).Return(nil, service.ErrNotFound).Once()

		resp, err := app.Test(jsonRequest(http.MethodPut, "/items/"+id, `{"content":"x"}`))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("validation error", func(t *testing.T) {
		id := uuid.NewString()
		mockSvc.On("Update", mock.Anything, id, mock.Anything).
			Return(nil, &service.ValidationError{Fields: map[string]string{"content": "is required"}}).Once()

		resp, err := app.Test(jsonRequest(http.MethodPut, "/items/"+id, `{"content":"  "}`))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})
}

func TestDeleteItem(t *testing.T) {
	mockSvc := new(serviceMocks.MockItemService)
	app := newApp()
	app.Delete("/items/:id", DeleteItem(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.NewString()
		mockSvc.On("Delete", mock.Anything, id).Return(nil).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/items/"+id, nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.NewString()
		mockSvc.On("Delete", mock.Anything, id).Return(service.ErrNotFound).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/items/"+id, nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decode[errorPayload](t, resp).Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		id := uuid.NewString()
		mockSvc.On("Delete", mock.Anything, id).Return(errors.New("delete error")).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/items/"+id, nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

func TestRouting(t *testing.T) {
	app := newApp()
	RegisterRoutes(app, Deps{Info: testInfo, Items: new(serviceMocks.MockItemService)})

	t.Run("not found route", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/non-existent", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decode[errorPayload](t, resp).Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		// Health endpoint only allows GET
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/health", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "METHOD_NOT_ALLOWED", decode[errorPayload](t, resp).Error.Code)
	})

	t.Run("docs redirect", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/docs", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusMovedPermanently, resp.StatusCode)
		assert.Equal(t, "/docs/index.html", resp.Header.Get("Location"))
	})

	t.Run("openapi document", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/docs/doc.json", nil)
		req.Host = "api.test"
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		doc := decode[map[string]any](t, resp)
		assert.Equal(t, "2.0", doc["swagger"])
		assert.Equal(t, "api.test", doc["host"])
		assert.Contains(t, doc["paths"], "/items/{id}")
	})
}

func TestOpenAPIDoc(t *testing.T) {
	app := newApp()
	app.Get("/docs/doc.json", OpenAPIDoc(testInfo))

	t.Run("forwarded scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/docs/doc.json", nil)
		req.Host = "edge.test"
		req.Header.Set("X-Forwarded-Proto", "https, http")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")

		doc := decode[map[string]any](t, resp)
		assert.Equal(t, "edge.test", doc["host"])
		assert.Equal(t, []any{"https"}, doc["schemes"])
		info := doc["info"].(map[string]any)
		assert.Equal(t, "starterapi", info["title"])
		assert.Equal(t, "9.9.9", info["version"])
	})

	t.Run("concurrent hosts stay per request", func(t *testing.T) {
		var wg sync.WaitGroup
		for _, host := range []string{"a.test", "b.test", "c.test", "d.test"} {
			wg.Add(1)
			go func(host string) {
				defer wg.Done()
				req := httptest.NewRequest(http.MethodGet, "/docs/doc.json", nil)
				req.Host = host
				resp, err := app.Test(req)
				if !assert.NoError(t, err) {
					return
				}
				var doc map[string]any
				if assert.NoError(t, json.NewDecoder(resp.Body).Decode(&doc)) {
					assert.Equal(t, host, doc["host"])
				}
			}(host)
		}
		wg.Wait()

		assert.Empty(t, docs.SwaggerInfo.Host)
		assert.Empty(t, docs.SwaggerInfo.Schemes)
	})
}

func TestErrorHandler(t *testing.T) {
	app := newApp()
	app.Get("/limited", func(c *fiber.Ctx) error { return fiber.ErrTooManyRequests })
	app.Get("/plain", func(c *fiber.Ctx) error { return errors.New("hidden detail") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/limited", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", decode[errorPayload](t, resp).Error.Code)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/plain", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.NotContains(t, string(body), "hidden detail")
	assert.Contains(t, string(body), "INTERNAL_ERROR")
}

func TestErrorHandler_UnlistedStatuses(t *testing.T) {
	tests := []struct {
		err     *fiber.Error
		code    string
		message string
	}{
		{fiber.ErrUnauthorized, "CLIENT_ERROR", "unauthorized"},
		{fiber.ErrForbidden, "CLIENT_ERROR", "forbidden"},
		{fiber.ErrRequestTimeout, "CLIENT_ERROR", "request timeout"},
		{fiber.ErrUnprocessableEntity, "CLIENT_ERROR", "unprocessable entity"},
		{fiber.ErrRequestHeaderFieldsTooLarge, "CLIENT_ERROR", "request header fields too large"},
		{fiber.ErrBadGateway, "INTERNAL_ERROR", "internal server error"},
	}

	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.err.Code), func(t *testing.T) {
			app := newApp()
			app.Get("/fail", func(c *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/fail", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.err.Code, resp.StatusCode)

			body := decode[errorPayload](t, resp)
			assert.Equal(t, tt.code, body.Error.Code)
			assert.Equal(t, tt.message, body.Error.Message)
		})
	}
}
