package scenes

import (
	"errors"

	"datajoin/core/dataset"
	"datajoin/core/join"
	"datajoin/core/logger"
	"datajoin/feature/scenes/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for scenes.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the scene routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/scenes")
	group.Get("/", h.HandleList)
	group.Get("/:name", h.HandleGet)
	group.Post("/:name/join", h.HandleJoin)
	group.Post("/:name/export", h.HandleExport)
	group.Delete("/:name", h.HandleDelete)
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	var dup *join.InvalidKeyError
	var missing *dataset.MissingFieldError
	switch {
	case errors.As(err, &dup):
		return fiber.StatusConflict
	case errors.Is(err, ErrInvalidRequest), errors.As(err, &missing):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrSceneNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	status := statusFor(err)
	l := logger.WithRayID(h.service.logger, c)
	if status >= fiber.StatusInternalServerError {
		l.Error(msg, zap.Error(err))
	} else {
		l.Debug(msg, zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// HandleList lists stored scenes.
// @Summary List Scenes
// @Description List every stored scene with its element count.
// @Tags scenes
// @Produce json
// @Success 200 {array} models.SceneInfo "Scenes"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security ApiKeyAuth
// @Router /scenes [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	infos, err := h.service.List(c.UserContext())
	if err != nil {
		return h.fail(c, "Scene listing failed", err)
	}
	return c.JSON(infos)
}

// HandleGet returns a scene tree.
// @Summary Get Scene
// @Description Get the element tree of a scene.
// @Tags scenes
// @Produce json
// @Param name path string true "Scene name"
// @Success 200 {object} map[string]interface{} "Scene"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security ApiKeyAuth
// @Router /scenes/{name} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	s, err := h.service.Get(c.UserContext(), c.Params("name"))
	if err != nil {
		return h.fail(c, "Scene lookup failed", err)
	}
	return c.JSON(s)
}

// HandleJoin joins data into a scene.
// @Summary Join Data
// @Description Reconcile records with the elements of a scene. Entering records create elements, exiting elements are removed.
// @Tags scenes
// @Accept json
// @Produce json
// @Param name path string true "Scene name"
// @Param request body models.JoinRequest true "Join request"
// @Success 200 {object} models.JoinReport "Join report"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 409 {object} map[string]string "Duplicate key in strict mode"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security ApiKeyAuth
// @Router /scenes/{name}/join [post]
func (h *Handler) HandleJoin(c *fiber.Ctx) error {
	var req models.JoinRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body: " + err.Error(),
		})
	}

	report, err := h.service.Join(c.UserContext(), c.Params("name"), req)
	if err != nil {
		return h.fail(c, "Scene join failed", err)
	}
	return c.JSON(report)
}

// HandleExport writes a scene snapshot to object storage.
// @Summary Export Scene
// @Description Write the scene as JSON to scenes/{name}.json in the bucket.
// @Tags scenes
// @Produce json
// @Param name path string true "Scene name"
// @Success 200 {object} models.ExportResult "Export result"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security ApiKeyAuth
// @Router /scenes/{name}/export [post]
func (h *Handler) HandleExport(c *fiber.Ctx) error {
	res, err := h.service.Export(c.UserContext(), c.Params("name"))
	if err != nil {
		return h.fail(c, "Scene export failed", err)
	}
	return c.JSON(res)
}

// HandleDelete deletes a scene.
// @Summary Delete Scene
// @Description Delete a scene and all its elements.
// @Tags scenes
// @Param name path string true "Scene name"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security ApiKeyAuth
// @Router /scenes/{name} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("name")); err != nil {
		return h.fail(c, "Scene delete failed", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
