package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/querocurso/marketplace/models"
)

type SettingsRequest struct {
	WhatsappNumber    string `json:"whatsapp_number" validate:"omitempty,numeric,min=10,max=15"`
	LowStockThreshold int    `json:"low_stock_threshold" validate:"gte=0"`
	InstagramURL      string `json:"instagram_url" validate:"omitempty,url"`
	LinkedinURL       string `json:"linkedin_url" validate:"omitempty,url"`
}

func (h *Handler) GetSettings(c *fiber.Ctx) error {
	setting, err := h.Courses.Settings(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(setting)
}

func (h *Handler) UpdateSettings(c *fiber.Ctx) error {
	var req SettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	saved, err := h.Courses.UpdateSettings(c.UserContext(), models.Setting{
		WhatsappNumber:    req.WhatsappNumber,
		LowStockThreshold: req.LowStockThreshold,
		InstagramURL:      req.InstagramURL,
		LinkedinURL:       req.LinkedinURL,
	})
	if err != nil {
		return err
	}
	return c.JSON(saved)
}
