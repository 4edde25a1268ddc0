package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	utils "github.com/Oikion/mvp-sub017/pkg/context"
	"github.com/Oikion/mvp-sub017/pkg/middleware"
	"github.com/Oikion/mvp-sub017/pkg/models"
)

type fakeRepository struct {
	clients  map[string]*models.Client
	page     int
	pageSize int
}

func (f *fakeRepository) Create(_ context.Context, tenantID string, req models.CreateClientRequest) (*models.Client, error) {
	c := &models.Client{ID: "new-id", OrganizationID: tenantID, Name: req.Name, IsActive: true}
	f.clients[c.ID] = c
	return c, nil
}

func (f *fakeRepository) Get(_ context.Context, tenantID, id string) (*models.Client, error) {
	c, ok := f.clients[id]
	if !ok || c.OrganizationID != tenantID {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "client %s not found", id)
	}
	return c, nil
}

func (f *fakeRepository) List(_ context.Context, tenantID string, page, pageSize int) ([]models.Client, int, error) {
	f.page, f.pageSize = page, pageSize
	var out []models.Client
	for _, c := range f.clients {
		if c.OrganizationID == tenantID {
			out = append(out, *c)
		}
	}
	return out, len(out), nil
}

func (f *fakeRepository) SetActive(ctx context.Context, tenantID, id string, active bool) (*models.Client, error) {
	c, err := f.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	c.IsActive = active
	return c, nil
}

func setup() (*echo.Echo, *fakeRepository) {
	logger := ectologger.NewEctoLogger(func(ectologger.EctoLogMessage) {})
	repo := &fakeRepository{clients: map[string]*models.Client{
		"c1": {ID: "c1", OrganizationID: "org-1", Name: "Maria", IsActive: true},
		"c2": {ID: "c2", OrganizationID: "org-2", Name: "Other", IsActive: true},
	}}

	e := echo.New()
	e.HTTPErrorHandler = middleware.Error(logger)
	g := e.Group("/clients", func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := utils.SetTenantID(c.Request().Context(), "org-1")
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	})
	NewHandler(repo, logger).Register(g)
	return e, repo
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestListClients(t *testing.T) {
	e, repo := setup()

	rec := do(e, http.MethodGet, "/clients?page=2&page_size=500", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.ClientListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.TotalCount)
	assert.Equal(t, "c1", resp.Items[0].ID)
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 20, resp.PageSize)
	assert.Equal(t, 20, repo.pageSize)
}

func TestGetClient(t *testing.T) {
	e, _ := setup()

	rec := do(e, http.MethodGet, "/clients/c1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var client models.Client
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &client))
	assert.Equal(t, "Maria", client.Name)

	assert.Equal(t, http.StatusNotFound, do(e, http.MethodGet, "/clients/c2", "").Code)
}

func TestCreateClient(t *testing.T) {
	e, repo := setup()

	rec := do(e, http.MethodPost, "/clients", `{"name":"Eleni","intent":"rent","budget_max":900}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "org-1", repo.clients["new-id"].OrganizationID)

	t.Run("validation", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, do(e, http.MethodPost, "/clients", `{"intent":"rent"}`).Code)
		assert.Equal(t, http.StatusBadRequest, do(e, http.MethodPost, "/clients", `{"name":"x","intent":"lease"}`).Code)
		assert.Equal(t, http.StatusBadRequest, do(e, http.MethodPost, "/clients", `{"name":`).Code)
	})
}

func TestDeactivateClient(t *testing.T) {
	e, repo := setup()

	assert.Equal(t, http.StatusNoContent, do(e, http.MethodDelete, "/clients/c1", "").Code)
	assert.False(t, repo.clients["c1"].IsActive)

	assert.Equal(t, http.StatusNotFound, do(e, http.MethodDelete, "/clients/c2", "").Code)
	assert.True(t, repo.clients["c2"].IsActive)
}
