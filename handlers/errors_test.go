package handlers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/querocurso/marketplace/ranking"
	"github.com/querocurso/marketplace/services"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"fiber error", fiber.NewError(fiber.StatusBadRequest, "bad"), fiber.StatusBadRequest},
		{"not found", fmt.Errorf("load: %w", services.ErrNotFound), fiber.StatusNotFound},
		{"validation sentinel", services.ErrValidation, fiber.StatusUnprocessableEntity},
		{"course validation", &ranking.ValidationError{Problems: []string{"x"}}, fiber.StatusUnprocessableEntity},
		{"template fetch", &services.RenderError{Kind: services.ErrTemplateFetch, Err: errors.New("404")}, fiber.StatusBadGateway},
		{"upload", &services.RenderError{Kind: services.ErrUpload, Err: errors.New("timeout")}, fiber.StatusBadGateway},
		{"compose", &services.RenderError{Kind: services.ErrCompose, Err: errors.New("crash")}, fiber.StatusInternalServerError},
		{"unknown", errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}
