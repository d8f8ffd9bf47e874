package controller

import (
	"fmt"
	"io"

	"resume-roaster-be/internal/entity"
	"resume-roaster-be/internal/pkg/serverutils"
	"resume-roaster-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

const resumeFormField = "resume"

type IRoastController interface {
	RegisterRoutes(r fiber.Router, sessionMiddleware fiber.Handler)
	Upload(ctx *fiber.Ctx) error
	Critique(ctx *fiber.Ctx) error
	ResetCritique(ctx *fiber.Ctx) error
	View(ctx *fiber.Ctx) error
	Download(ctx *fiber.Ctx) error
	Session(ctx *fiber.Ctx) error
}

type roastController struct {
	roastService service.IRoastService
}

func NewRoastController(roastService service.IRoastService) IRoastController {
	return &roastController{
		roastService: roastService,
	}
}

func (c *roastController) RegisterRoutes(r fiber.Router, sessionMiddleware fiber.Handler) {
	h := r.Group("/roast/v1")
	h.Use(sessionMiddleware)
	h.Post("/upload", c.Upload)
	h.Post("/critique", c.Critique)
	h.Delete("/critique", c.ResetCritique)
	h.Get("/view", c.View)
	h.Get("/download/:kind", c.Download)
	h.Get("/session", c.Session)
}

func (c *roastController) Upload(ctx *fiber.Ctx) error {
	session, err := serverutils.CurrentSession(ctx)
	if err != nil {
		return err
	}

	fileHeader, err := ctx.FormFile(resumeFormField)
	if err != nil {
		return serverutils.NewAppError(fiber.StatusBadRequest, fmt.Sprintf("multipart field %q is required", resumeFormField), err)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}

	res, err := c.roastService.Ingest(ctx.UserContext(), session, fileHeader.Filename, data)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Resume uploaded", res))
}

func (c *roastController) Critique(ctx *fiber.Ctx) error {
	session, err := serverutils.CurrentSession(ctx)
	if err != nil {
		return err
	}

	res, err := c.roastService.Critique(ctx.UserContext(), session)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Critique generated", res))
}

func (c *roastController) ResetCritique(ctx *fiber.Ctx) error {
	session, err := serverutils.CurrentSession(ctx)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Critique cleared", c.roastService.ResetCritique(session)))
}

func (c *roastController) View(ctx *fiber.Ctx) error {
	session, err := serverutils.CurrentSession(ctx)
	if err != nil {
		return err
	}

	res, err := c.roastService.View(ctx.UserContext(), session, paidParam(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

func (c *roastController) Download(ctx *fiber.Ctx) error {
	session, err := serverutils.CurrentSession(ctx)
	if err != nil {
		return err
	}

	kind := entity.ArtifactKind(ctx.Params("kind"))
	file, err := c.roastService.Download(ctx.UserContext(), session, kind, paidParam(ctx))
	if err != nil {
		return err
	}

	// Attachment guesses a type from the extension, so ours is set after it.
	ctx.Attachment(file.FileName)
	ctx.Set(fiber.HeaderContentType, file.ContentType)
	return ctx.Send(file.Body)
}

func (c *roastController) Session(ctx *fiber.Ctx) error {
	session, err := serverutils.CurrentSession(ctx)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success", c.roastService.Describe(session)))
}

// paidParam reads the post-payment redirect flag; only the exact value "true" counts.
func paidParam(ctx *fiber.Ctx) bool {
	return ctx.Query("paid") == "true"
}
