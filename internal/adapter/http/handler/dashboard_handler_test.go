package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/amotify/amotify/internal/adapter/http/dto"
	"github.com/amotify/amotify/internal/usecase"
)

type dashboardServiceStub struct {
	getDashboardFn func(ctx context.Context, userID string) (*usecase.Dashboard, error)
}

func (s *dashboardServiceStub) GetDashboard(ctx context.Context, userID string) (*usecase.Dashboard, error) {
	return s.getDashboardFn(ctx, userID)
}

func TestDashboardHandler_Get(t *testing.T) {
	svc := &dashboardServiceStub{
		getDashboardFn: func(ctx context.Context, userID string) (*usecase.Dashboard, error) {
			if userID != "user-1" {
				t.Fatalf("unexpected userID %s", userID)
			}
			return &usecase.Dashboard{
				YouOwe:     decimal.RequireFromString("12.50"),
				YouAreOwed: decimal.RequireFromString("30"),
				OpenCount:  3,
			}, nil
		},
	}
	h := NewDashboardHandler(svc)

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil), "user-1")
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.DashboardResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.YouOwe.Equal(decimal.RequireFromString("12.50")) {
		t.Fatalf("you_owe = %s, want 12.50", resp.YouOwe)
	}
	if resp.OpenCount != 3 {
		t.Fatalf("open_count = %d, want 3", resp.OpenCount)
	}
}

func TestDashboardHandler_Get_Unauthenticated(t *testing.T) {
	h := NewDashboardHandler(&dashboardServiceStub{
		getDashboardFn: func(ctx context.Context, userID string) (*usecase.Dashboard, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestDashboardHandler_Get_ServiceError(t *testing.T) {
	h := NewDashboardHandler(&dashboardServiceStub{
		getDashboardFn: func(ctx context.Context, userID string) (*usecase.Dashboard, error) {
			return nil, errors.New("boom")
		},
	})

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil), "user-1")
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
