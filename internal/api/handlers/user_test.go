package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aaravmahajanofficial/users-api/internal/api/handlers"
	appErrors "github.com/aaravmahajanofficial/users-api/internal/errors"
	"github.com/aaravmahajanofficial/users-api/internal/models"
	"github.com/aaravmahajanofficial/users-api/internal/services/mocks"
	"github.com/aaravmahajanofficial/users-api/internal/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const maxBodyBytes = 1 << 20

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestUserHandler_Routing(t *testing.T) {
	id := uuid.NewString()

	tests := []struct {
		name   string
		method string
		target string
		setup  func(m *mocks.MockUserService)
		status int
	}{
		{
			name: "GET collection lists", method: http.MethodGet, target: "/api/users",
			setup:  func(m *mocks.MockUserService) { m.On("ListUsers", mock.Anything).Return([]*models.User{}, nil).Once() },
			status: http.StatusOK,
		},
		{
			name: "GET collection with trailing slash lists", method: http.MethodGet, target: "/api/users/",
			setup:  func(m *mocks.MockUserService) { m.On("ListUsers", mock.Anything).Return([]*models.User{}, nil).Once() },
			status: http.StatusOK,
		},
		{
			name: "GET with id fetches", method: http.MethodGet, target: "/api/users/" + id,
			setup: func(m *mocks.MockUserService) {
				m.On("GetUserByID", mock.Anything, id).Return(&models.User{ID: id, Hobbies: []string{}}, nil).Once()
			},
			status: http.StatusOK,
		},
		{
			name: "DELETE with id deletes", method: http.MethodDelete, target: "/api/users/" + id,
			setup:  func(m *mocks.MockUserService) { m.On("DeleteUser", mock.Anything, id).Return(nil).Once() },
			status: http.StatusNoContent,
		},
		{name: "PATCH is not found", method: http.MethodPatch, target: "/api/users/" + id, status: http.StatusNotFound},
		{name: "HEAD is not found", method: http.MethodHead, target: "/api/users", status: http.StatusNotFound},
		{name: "Foreign path is not found", method: http.MethodGet, target: "/api/products", status: http.StatusNotFound},
		{name: "Prefix without separator is not found", method: http.MethodGet, target: "/api/usersX", status: http.StatusNotFound},
		{name: "PUT without id is a bad uuid", method: http.MethodPut, target: "/api/users", status: http.StatusBadRequest},
		{name: "DELETE without id is a bad uuid", method: http.MethodDelete, target: "/api/users/", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUserService := mocks.NewMockUserService(t)
			if tt.setup != nil {
				tt.setup(mockUserService)
			}
			userHandler := handlers.NewUserHandler(mockUserService, maxBodyBytes)

			rr := serve(userHandler, testutils.CreateTestRequest(tt.method, tt.target, nil, nil))

			assert.Equal(t, tt.status, rr.Code)
		})
	}
}

func TestUserHandler_CreateUser(t *testing.T) {
	t.Run("Success - User Created", func(t *testing.T) {
		// Arrange
		mockUserService := mocks.NewMockUserService(t)
		userHandler := handlers.NewUserHandler(mockUserService, maxBodyBytes)

		reqBody := &models.CreateUser{Username: "Test User", Age: 25, Hobbies: []string{"go"}}
		reqBytes, err := json.Marshal(reqBody)
		require.NoError(t, err)

		createdUser := &models.User{ID: uuid.NewString(), Username: reqBody.Username, Age: reqBody.Age, Hobbies: reqBody.Hobbies}

		// did the handler pass the right data to the service?
		mockUserService.On("CreateUser", mock.Anything, reqBody).Return(createdUser, nil).Once()

		// Act
		rr := serve(userHandler, testutils.CreateTestRequest(http.MethodPost, "/api/users", bytes.NewReader(reqBytes), nil))

		// Assert
		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

		var respUser models.User
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &respUser))
		assert.Equal(t, *createdUser, respUser)
	})

	t.Run("Success - Id in path is ignored", func(t *testing.T) {
		mockUserService := mocks.NewMockUserService(t)
		userHandler := handlers.NewUserHandler(mockUserService, maxBodyBytes)

		mockUserService.On("CreateUser", mock.Anything, mock.AnythingOfType("*models.CreateUser")).
			Return(&models.User{ID: uuid.NewString(), Username: "a", Age: 1, Hobbies: []string{}}, nil).Once()

		body := `{"username":"a","age":1,"hobbies":[]}`
		rr := serve(userHandler, testutils.CreateTestRequest(http.MethodPost, "/api/users/whatever", strings.NewReader(body), nil))

		assert.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("Invalid Input - Bad JSON", func(t *testing.T) {
		// Arrange
		mockUserService := mocks.NewMockUserService(t)
		userHandler := handlers.NewUserHandler(mockUserService, maxBodyBytes)

		// Act
		rr := serve(userHandler, testutils.CreateTestRequest(http.MethodPost, "/api/users", strings.NewReader("{invalid json"), nil))

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
		assert.Equal(t, "<h1>400 Parse JSON error</h1>", rr.Body.String())
		mockUserService.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("Invalid Input - Missing fields", func(t *testing.T) {
		// Arrange
		mockUserService := mocks.NewMockUserService(t)
		userHandler := handlers.NewUserHandler(mockUserService, maxBodyBytes)

		// Act
		rr := serve(userHandler, testutils.CreateTestRequest(http.MethodPost, "/api/users", strings.NewReader(`{"username":"a"}`), nil))

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "<h1>400 User not created</h1><p>fields age, hobbies required</p>", rr.Body.String())
		mockUserService.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("Invalid Input - Body too large", func(t *testing.T) {
		mockUserService := mocks.NewMockUserService(t)
		userHandler := handlers.NewUserHandler(mockUserService, 16)

		body := `{"username":"a very long name","age":1,"hobbies":[]}`
		rr := serve(userHandler, testutils.CreateTestRequest(http.MethodPost, "/api/users", strings.NewReader(body), nil))

		assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
		mockUserService.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Service Error", func(t *testing.T) {
		// Arrange
		mockUserService := mocks.NewMockUserService(t)
		userHandler := handlers.NewUserHandler(mockUserService, maxBodyBytes)

		mockUserService.On("CreateUser", mock.Anything, mock.Anything).Return(nil, errors.New("boom")).Once()

		// Act
		body := `{"username":"a","age":1,"hobbies":[]}`
		rr := serve(userHandler, testutils.CreateTestRequest(http.MethodPost, "/api/users", strings.NewReader(body), nil))

		// Assert
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestUserHandler_GetUser(t *testing.T) {
	t.Run("Invalid ID Format", func(t *testing.T) {
		// Arrange
		mockUserService := mocks.NewMockUserService(t)
		userHandler := handlers.NewUserHandler(mockUserService, maxBodyBytes)

		// Act
		handler := userHandler.GetUser()
		rr := serve(handler, testutils.CreateTestRequest(http.MethodGet, "/api/users/not-a-uuid", nil, map[string]string{"id": "not-a-uuid"}))

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "<h1>400 Bad UUID</h1>", rr.Body.String())
		mockUserService.AssertNotCalled(t, "GetUserByID", mock.Anything, mock.Anything)
	})

	t.Run("User Not Found", func(t *testing.T) {
		// Arrange
		mockUserService := mocks.NewMockUserService(t)
		userHandler := handlers.NewUserHandler(mockUserService, maxBodyBytes)
		id := uuid.NewString()

		mockUserService.On("GetUserByID", mock.Anything, id).Return(nil, appErrors.NotFoundError("User not found")).Once()

		// Act
		handler := userHandler.GetUser()
		rr := serve(handler, testutils.CreateTestRequest(http.MethodGet, "/api/users/"+id, nil, map[string]string{"id": id}))

		// Assert
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "<h1>404 User not found</h1>", rr.Body.String())
	})
}

func TestUserHandler_UpdateUser(t *testing.T) {
	id := uuid.NewString()
	body := `{"username":"renamed","age":33,"hobbies":["tea"]}`
	expectedReq := &models.CreateUser{Username: "renamed", Age: 33, Hobbies: []string{"tea"}}

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockUserService := mocks.NewMockUserService(t)
		userHandler := handlers.NewUserHandler(mockUserService, maxBodyBytes)

		existing := &models.User{ID: id, Username: "old", Age: 20, Hobbies: []string{}}
		updated := models.NewUser(id, expectedReq)

		mockUserService.On("GetUserByID", mock.Anything, id).Return(existing, nil).Once()
		mockUserService.On("UpdateUser", mock.Anything, id, expectedReq).Return(updated, nil).Once()

		// Act
		rr := serve(userHandler, testutils.CreateTestRequest(http.MethodPut, "/api/users/"+id, strings.NewReader(body), nil))

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)

		var respUser models.User
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &respUser))
		assert.Equal(t, *updated, respUser)
	})

	t.Run("Not found is reported before the body is validated", func(t *testing.T) {
		mockUserService := mocks.NewMockUserService(t)
		userHandler := handlers.NewUserHandler(mockUserService, maxBodyBytes)

		mockUserService.On("GetUserByID", mock.Anything, id).Return(nil, appErrors.NotFoundError("User not found")).Once()

		rr := serve(userHandler, testutils.CreateTestRequest(http.MethodPut, "/api/users/"+id, strings.NewReader("{invalid"), nil))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		mockUserService.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Invalid body", func(t *testing.T) {
		mockUserService := mocks.NewMockUserService(t)
		userHandler := handlers.NewUserHandler(mockUserService, maxBodyBytes)

		mockUserService.On("GetUserByID", mock.Anything, id).Return(&models.User{ID: id}, nil).Once()

		rr := serve(userHandler, testutils.CreateTestRequest(http.MethodPut, "/api/users/"+id, strings.NewReader(`{"age":3}`), nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "<h1>400 User not created</h1><p>fields username, hobbies required</p>", rr.Body.String())
		mockUserService.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Bad UUID", func(t *testing.T) {
		mockUserService := mocks.NewMockUserService(t)
		userHandler := handlers.NewUserHandler(mockUserService, maxBodyBytes)

		rr := serve(userHandler, testutils.CreateTestRequest(http.MethodPut, "/api/users/123", strings.NewReader(body), nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "<h1>400 Bad UUID</h1>", rr.Body.String())
	})
}

func TestUserHandler_DeleteUser(t *testing.T) {
	t.Run("Not found", func(t *testing.T) {
		mockUserService := mocks.NewMockUserService(t)
		userHandler := handlers.NewUserHandler(mockUserService, maxBodyBytes)
		id := uuid.NewString()

		mockUserService.On("DeleteUser", mock.Anything, id).Return(appErrors.NotFoundError("User not found")).Once()

		rr := serve(userHandler, testutils.CreateTestRequest(http.MethodDelete, "/api/users/"+id, nil, nil))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "<h1>404 User not found</h1>", rr.Body.String())
	})

	t.Run("Success - Empty body", func(t *testing.T) {
		mockUserService := mocks.NewMockUserService(t)
		userHandler := handlers.NewUserHandler(mockUserService, maxBodyBytes)
		id := uuid.NewString()

		mockUserService.On("DeleteUser", mock.Anything, id).Return(nil).Once()

		rr := serve(userHandler, testutils.CreateTestRequest(http.MethodDelete, "/api/users/"+id, nil, nil))

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Empty(t, rr.Body.String())
	})
}

func TestUserHandler_NotFound(t *testing.T) {
	userHandler := handlers.NewUserHandler(mocks.NewMockUserService(t), maxBodyBytes)

	rr := serve(userHandler.NotFound(), testutils.CreateTestRequest(http.MethodGet, "/nowhere", nil, nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "<h1>404 Method not found</h1>", rr.Body.String())
}
