package job

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pawkit-ai/pawkit-backend/common"
	"github.com/pawkit-ai/pawkit-backend/internal/dto"
	"github.com/pawkit-ai/pawkit-backend/internal/mocks"
	"github.com/pawkit-ai/pawkit-backend/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func handlerRouter(svc OrderServiceInterface) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewOrderHandler(svc)

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, "user-1")
	})
	r.POST("/orders", h.CreateOrder)
	r.GET("/orders/:id", h.GetOrder)
	r.GET("/jobs/:id", h.GetJob)
	r.GET("/jobs", h.ListJobs)
	return r
}

func TestOrderHandler_CreateOrder(t *testing.T) {
	svc := new(mocks.OrderServiceMock)
	r := handlerRouter(svc)

	svc.On("CreateOrder", mock.Anything, "user-1", mock.AnythingOfType("*dto.OrderCreateDTO")).
		Return(&dto.OrderCreatedDTO{OrderID: "o1", JobID: 1, Status: "queued"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/orders",
		strings.NewReader(`{"brief":{"product":"dog bed"}}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"order_id":"o1","job_id":1,"status":"queued"}`, w.Body.String())
}

func TestOrderHandler_CreateOrderRejectsMissingBrief(t *testing.T) {
	svc := new(mocks.OrderServiceMock)
	r := handlerRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "CreateOrder")
}

func TestOrderHandler_GetJobValidatesID(t *testing.T) {
	svc := new(mocks.OrderServiceMock)
	r := handlerRouter(svc)

	for _, bad := range []string{"abc", "-2", "0"} {
		req := httptest.NewRequest(http.MethodGet, "/jobs/"+bad, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, "id %q", bad)
	}
	svc.AssertNotCalled(t, "GetJob")
}

func TestOrderHandler_GetOrderError(t *testing.T) {
	svc := new(mocks.OrderServiceMock)
	r := handlerRouter(svc)

	svc.On("GetOrder", mock.Anything, "user-1", "missing").
		Return(nil, common.Errf(http.StatusNotFound, "order not found"))

	req := httptest.NewRequest(http.MethodGet, "/orders/missing", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"order not found"}`, w.Body.String())
}

func TestOrderHandler_ListJobsPassesStatusFilter(t *testing.T) {
	svc := new(mocks.OrderServiceMock)
	r := handlerRouter(svc)

	svc.On("ListJobs", mock.Anything, "user-1", "failed").
		Return([]dto.JobResponseDTO{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/jobs?status=failed", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}
