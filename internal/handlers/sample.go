package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/lemonpay/internal/models"
	"github.com/example/lemonpay/internal/utils"
)

// SampleHandler manages the demo sample records.
type SampleHandler struct {
	db *gorm.DB
}

// NewSampleHandler constructs SampleHandler.
func NewSampleHandler(db *gorm.DB) *SampleHandler {
	return &SampleHandler{db: db}
}

// CreateSample persists a new sample.
func (h *SampleHandler) CreateSample(c *fiber.Ctx) error {
	var payload models.Sample
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if payload.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}

	if err := h.db.Create(&payload).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":      payload.ID,
		"message": "sample created successfully",
	})
}

// ListSamples returns paginated samples.
func (h *SampleHandler) ListSamples(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	var samples []models.Sample
	var total int64

	if err := h.db.Model(&models.Sample{}).Count(&total).Error; err != nil {
		return err
	}

	if err := h.db.Limit(pg.Limit).Offset(pg.Offset).Order("created_at desc").
		Find(&samples).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    samples,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetSample returns a single sample by ID.
func (h *SampleHandler) GetSample(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var sample models.Sample
	if err := h.db.First(&sample, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "sample not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": sample})
}

// UpdateSample updates an existing sample.
func (h *SampleHandler) UpdateSample(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var sample models.Sample
	if err := h.db.First(&sample, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "sample not found")
		}
		return err
	}

	var payload models.Sample
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	payload.ID = sample.ID
	payload.CreatedAt = sample.CreatedAt
	if err := h.db.Save(&payload).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": payload})
}

// DeleteSample removes a sample.
func (h *SampleHandler) DeleteSample(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.db.Delete(&models.Sample{}, "id = ?", id).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true})
}
