package trip

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"

	"backend-tripsight/internal/analytics"
	"backend-tripsight/internal/ingest"

	"github.com/gofiber/fiber/v2"
)

// Trip names start with a letter and may contain letters, spaces and hyphens.
var tripNamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z\s-]*$`)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler, maxUploadBytes int64) {
	r.Post("/upload", authMiddleware, func(c *fiber.Ctx) error {
		name := strings.TrimSpace(c.FormValue("tripName"))
		if len(name) < 5 || !tripNamePattern.MatchString(name) {
			return fiber.NewError(fiber.StatusBadRequest,
				"tripName must be at least 5 characters and contain only letters, spaces and hyphens")
		}

		header, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "file is required")
		}
		if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
			return fiber.NewError(fiber.StatusBadRequest, "only CSV files are accepted")
		}
		if maxUploadBytes > 0 && header.Size > maxUploadBytes {
			return fiber.NewError(fiber.StatusRequestEntityTooLarge, "file exceeds upload size limit")
		}

		file, err := header.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "could not read uploaded file")
		}
		defer file.Close()

		points, err := ingest.ParseCSV(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		trip, err := svc.Upload(c.Context(), userID(c), name, points)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "Trip uploaded and processed successfully",
			"trip":    trip,
		})
	})

	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		page := c.QueryInt("page", 1)
		limit := c.QueryInt("limit", 10)
		trips, pagination, err := svc.List(c.Context(), userID(c), page, limit)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{
			"trips":      trips,
			"pagination": pagination,
		})
	})

	// Registered ahead of /:id so "visualization" is not captured as an id.
	r.Get("/visualization", authMiddleware, func(c *fiber.Ctx) error {
		ids := splitIDs(c.Query("ids"))
		if len(ids) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ids query parameter is required")
		}
		vis, err := svc.MultiVisualization(c.Context(), ids, userID(c))
		if err != nil {
			switch {
			case errors.Is(err, analytics.ErrNoTrips):
				return fiber.NewError(fiber.StatusNotFound, "no trips found for the given ids")
			default:
				return fiber.NewError(fiber.StatusInternalServerError, err.Error())
			}
		}
		return c.JSON(vis)
	})

	r.Get("/:id", authMiddleware, func(c *fiber.Ctx) error {
		trip, err := svc.Get(c.Context(), c.Params("id"), userID(c))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "trip not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(trip)
	})

	r.Get("/:id/visualization", authMiddleware, func(c *fiber.Ctx) error {
		page := c.QueryInt("page", 1)
		pageSize := c.QueryInt("pageSize", 10)
		vis, err := svc.Visualization(c.Context(), c.Params("id"), userID(c), page, pageSize)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "trip not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(vis)
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.Delete(c.Context(), c.Params("id"), userID(c)); err != nil {
			if errors.Is(err, ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "trip not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"message": "Trip deleted successfully"})
	})
}

func userID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}

func splitIDs(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}
