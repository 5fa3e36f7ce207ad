package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avoronov/online-store/internal/models"
)

func TestGetProduct(t *testing.T) {
	env := newTestEnv(t)
	_, prod := env.createCatalog(t)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/products/1", nil)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(prod.ID))
	require.NoError(t, env.P.GetProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, prod.ID, resp.ID)
	require.Equal(t, "Chair", resp.Title)
	require.Equal(t, int64(100), resp.Price)

	_, cMissing := env.doJSONRequest(http.MethodGet, "/api/products/999", nil)
	cMissing.SetParamNames("id")
	cMissing.SetParamValues("999")
	requireHTTPError(t, env.P.GetProduct(cMissing), http.StatusNotFound)
}

func TestCreateProduct(t *testing.T) {
	env := newTestEnv(t)
	cat, _ := env.createCatalog(t)

	payload := map[string]any{
		"title":       "Table",
		"category_id": cat.ID,
		"price":       250,
		"description": "oak",
	}
	rec, c := env.doJSONRequest(http.MethodPost, "/api/products", payload)
	require.NoError(t, env.P.CreateProduct(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Table", resp.Title)
	require.Equal(t, int64(250), resp.Price)
	require.Equal(t, cat.ID, resp.CategoryID)
}

func TestCreateProductMissingCategory(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]any{
		"title":       "Table",
		"category_id": 42,
		"price":       250,
		"description": "oak",
	}
	_, c := env.doJSONRequest(http.MethodPost, "/api/products", payload)
	requireHTTPError(t, env.P.CreateProduct(c), http.StatusNotFound)
}

func TestUpdateProductReplacesAllFields(t *testing.T) {
	env := newTestEnv(t)
	cat, prod := env.createCatalog(t)

	payload := map[string]any{
		"title":       "Armchair",
		"category_id": cat.ID,
		"price":       300,
		"description": "leather",
	}
	rec, c := env.doJSONRequest(http.MethodPut, "/api/products/1", payload)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(prod.ID))
	require.NoError(t, env.P.UpdateProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var stored models.Product
	require.NoError(t, env.DB.First(&stored, prod.ID).Error)
	require.Equal(t, "Armchair", stored.Title)
	require.Equal(t, int64(300), stored.Price)
	require.Equal(t, "leather", stored.Description)

	_, cMissing := env.doJSONRequest(http.MethodPut, "/api/products/999", payload)
	cMissing.SetParamNames("id")
	cMissing.SetParamValues("999")
	requireHTTPError(t, env.P.UpdateProduct(cMissing), http.StatusNotFound)
}

func TestDeleteProductCascades(t *testing.T) {
	env := newTestEnv(t)
	_, prod := env.createCatalog(t)

	require.NoError(t, env.DB.Create(&models.CartItem{
		UserID: 1, ProductID: prod.ID, Count: 1,
	}).Error)

	rec, c := env.doJSONRequest(http.MethodDelete, "/api/products/1", nil)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(prod.ID))
	require.NoError(t, env.P.DeleteProduct(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	var prodCount, cartCount int64
	require.NoError(t, env.DB.Model(&models.Product{}).Count(&prodCount).Error)
	require.NoError(t, env.DB.Model(&models.CartItem{}).Count(&cartCount).Error)
	require.Equal(t, int64(0), prodCount)
	require.Equal(t, int64(0), cartCount)
}

func TestFilterProducts(t *testing.T) {
	env := newTestEnv(t)
	cat, _ := env.createCatalog(t)

	require.NoError(t, env.DB.Create(&models.Product{
		Title: "Table", CategoryID: cat.ID, Price: 250, Description: "oak table",
	}).Error)
	require.NoError(t, env.DB.Create(&models.Product{
		Title: "Sofa", CategoryID: cat.ID, Price: 900, Description: "leather",
	}).Error)

	tests := []struct {
		name   string
		query  string
		titles []string
	}{
		{name: "by title", query: "title=Cha", titles: []string{"Chair"}},
		{name: "by description", query: "description=oak", titles: []string{"Table"}},
		{name: "by price range", query: "min_price=100&max_price=300", titles: []string{"Chair", "Table"}},
		{name: "combined", query: "title=a&min_price=200", titles: []string{"Table", "Sofa"}},
		{name: "no filters", query: "", titles: []string{"Chair", "Table", "Sofa"}},
		{name: "no match", query: "title=Bed", titles: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, c := env.doJSONRequest(http.MethodGet, "/api/products/filter?"+tt.query, nil)
			require.NoError(t, env.P.FilterProducts(c))
			require.Equal(t, http.StatusOK, rec.Code)

			var items []models.Product
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
			titles := make([]string, 0, len(items))
			for _, p := range items {
				titles = append(titles, p.Title)
			}
			require.ElementsMatch(t, tt.titles, titles)
		})
	}
}

func TestGetProductsPagination(t *testing.T) {
	env := newTestEnv(t)
	cat, _ := env.createCatalog(t)

	for i := 0; i < 14; i++ {
		require.NoError(t, env.DB.Create(&models.Product{
			Title: fmt.Sprintf("Item %d", i), CategoryID: cat.ID, Price: 10, Description: "x",
		}).Error)
	}

	rec, c := env.doJSONRequest(http.MethodGet, "/api/products?page=2&size=10", nil)
	require.NoError(t, env.P.GetProducts(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []models.Product `json:"data"`
		Meta struct {
			Total   int64 `json:"total"`
			HasPrev bool  `json:"has_prev"`
			HasNext bool  `json:"has_next"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 5)
	require.Equal(t, int64(15), resp.Meta.Total)
	require.True(t, resp.Meta.HasPrev)
	require.False(t, resp.Meta.HasNext)
}
