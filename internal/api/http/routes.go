package httpapi

import (
	"bytes"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/i474232898/weather-journal/internal/records"
)

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	h := &handlers{deps: deps}

	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	// The JSON API is served under /api and mirrored at the root.
	h.registerAPI(app.Group("/api"))
	h.registerAPI(app)

	app.Get("/", h.index)
	app.Post("/records/form", h.createFromForm)
	app.Post("/records/:id/form", h.updateFromForm)
	app.Post("/records/:id/delete", h.deleteFromForm)
}

type handlers struct {
	deps Deps
}

func (h *handlers) registerAPI(r fiber.Router) {
	r.Get("/health", h.health)
	r.Get("/weather", h.lookup)
	r.Post("/records", h.createRecord)
	r.Get("/records", h.listRecords)
	r.Get("/records/:id", h.getRecord)
	r.Put("/records/:id", h.updateRecord)
	r.Delete("/records/:id", h.deleteRecord)
	r.Get("/export.csv", h.exportCSV)
}

func (h *handlers) health(c *fiber.Ctx) error {
	if h.deps.DB != nil {
		if err := h.deps.DB.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":  "unavailable",
				"service": serviceName,
				"error":   err.Error(),
			})
		}
	}
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": serviceName,
	})
}

func (h *handlers) lookup(c *fiber.Ctx) error {
	result, err := h.deps.Weather.Lookup(c.UserContext(), c.Query("query"), c.Query("units"))
	if err != nil {
		return badRequest(err)
	}
	return c.JSON(result)
}

func (h *handlers) createRecord(c *fiber.Ctx) error {
	var in records.CreateInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	rec, err := h.deps.Records.Create(c.UserContext(), in)
	if err != nil {
		return badRequest(err)
	}
	return c.Status(fiber.StatusCreated).JSON(rec)
}

func (h *handlers) listRecords(c *fiber.Ctx) error {
	list, err := h.deps.Records.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (h *handlers) getRecord(c *fiber.Ctx) error {
	id, err := recordID(c)
	if err != nil {
		return err
	}
	rec, err := h.deps.Records.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(rec)
}

func (h *handlers) updateRecord(c *fiber.Ctx) error {
	id, err := recordID(c)
	if err != nil {
		return err
	}

	// An empty body is an empty patch: the record is re-fetched as stored.
	var patch records.Patch
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&patch); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
	}

	rec, err := h.deps.Records.Update(c.UserContext(), id, patch)
	if err != nil {
		return badRequest(err)
	}
	return c.JSON(rec)
}

func (h *handlers) deleteRecord(c *fiber.Ctx) error {
	id, err := recordID(c)
	if err != nil {
		return err
	}
	if err := h.deps.Records.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (h *handlers) exportCSV(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.deps.Records.ExportCSV(c.UserContext(), &buf); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="records.csv"`)
	return c.Send(buf.Bytes())
}

// recordID parses the :id param. Anything that is not a positive integer cannot name a record.
func recordID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusNotFound, msgNotFound)
	}
	return uint(id), nil
}
