package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/avoronov/online-store/internal/models"
	"github.com/avoronov/online-store/internal/mykafka"
)

type CategoryHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

func (h *CategoryHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "product_events", fmt.Sprint(event["slug"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req struct {
		Title string `json:"title"`
		Slug  string `json:"slug"`
	}

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Title == "" || req.Slug == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title and slug required")
	}

	var existing models.Category
	err := h.DB.Where("slug = ?", req.Slug).First(&existing).Error
	if err == nil {
		return echo.NewHTTPError(http.StatusConflict, "category slug already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	cat := models.Category{Title: req.Title, Slug: req.Slug}
	if err := h.DB.Create(&cat).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]any{
		"type": "category_created",
		"slug": cat.Slug,
	})

	return c.JSON(http.StatusCreated, cat)
}

func (h *CategoryHandler) GetCategories(c echo.Context) error {
	var cats []models.Category
	if err := h.DB.Order("id ASC").Find(&cats).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, cats)
}

func (h *CategoryHandler) GetCategory(c echo.Context) error {
	var cat models.Category
	if err := h.DB.Where("slug = ?", c.Param("slug")).First(&cat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "category not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) GetCategoryProducts(c echo.Context) error {
	var cat models.Category
	if err := h.DB.Where("slug = ?", c.Param("slug")).First(&cat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "category not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var products []models.Product
	if err := h.DB.Where("category_id = ?", cat.ID).Order("id ASC").Find(&products).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, products)
}

// DeleteCategory removes the category together with its products and every
// cart entry and order line that referenced them. The cascade is spelled out
// inside one transaction instead of leaning on engine-level FK configuration.
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	slug := c.Param("slug")

	var cat models.Category
	if err := h.DB.Where("slug = ?", slug).First(&cat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "category not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		var productIDs []uint
		if err := tx.Model(&models.Product{}).
			Where("category_id = ?", cat.ID).
			Pluck("id", &productIDs).Error; err != nil {
			return err
		}

		if len(productIDs) > 0 {
			if err := tx.Where("product_id IN ?", productIDs).Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
			if err := tx.Where("product_id IN ?", productIDs).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			if err := tx.Where("category_id = ?", cat.ID).Delete(&models.Product{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&cat).Error
	})
	if txErr != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, txErr.Error())
	}

	h.publish(c, map[string]any{
		"type": "category_deleted",
		"slug": slug,
	})

	return c.NoContent(http.StatusNoContent)
}
