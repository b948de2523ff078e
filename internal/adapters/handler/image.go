package handler

import (
	"charmapi/internal/core/domain"
	"charmapi/internal/core/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Image struct {
	service *service.ImageService
}

func NewImage(imageService *service.ImageService) *Image {
	return &Image{service: imageService}
}

func (h *Image) Models(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"models": h.service.Models()})
}

func (h *Image) Generate(c *gin.Context) {
	req := domain.NewImageGenerationRequest()
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	resp, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, prefixImageGeneration)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Image) Submit(c *gin.Context) {
	req := domain.NewImageGenerationRequest()
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	resp, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, prefixSubmit)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Image) Status(c *gin.Context) {
	resp, err := h.service.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, prefixStatus)
		return
	}

	c.JSON(http.StatusOK, resp)
}
