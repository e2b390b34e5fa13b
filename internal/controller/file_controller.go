package controller

import (
	"io"

	"doc-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IFileController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type fileController struct {
	fileService service.IFileService
}

func NewFileController(fileService service.IFileService) IFileController {
	return &fileController{
		fileService: fileService,
	}
}

func (c *fileController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/files")
	h.Post("/upload", c.Upload)
	h.Get("/list", c.List)
	h.Delete(":id", c.Delete)
}

func (c *fileController) Upload(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Missing 'file' form field")
	}

	opened, err := fileHeader.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Unable to read uploaded file")
	}
	defer opened.Close()

	content, err := io.ReadAll(opened)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Unable to read uploaded file")
	}

	res, err := c.fileService.Upload(ctx.Context(), fileHeader.Filename, content)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *fileController) List(ctx *fiber.Ctx) error {
	res, err := c.fileService.List(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *fileController) Delete(ctx *fiber.Ctx) error {
	fileId := ctx.Params("id")
	if fileId == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Missing file id")
	}

	res, err := c.fileService.Delete(ctx.Context(), fileId)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}
