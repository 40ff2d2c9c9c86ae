package vendor

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"ouidb/core/logger"
	"ouidb/feature/vendors/registry"
)

// Handler handles HTTP requests for vendor lookups.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the vendor routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/vendors")
	group.Get("/stats", h.HandleStats)
	group.Post("/refresh", h.HandleRefresh)
	group.Get("/:mac", h.HandleLookup)
}

// HandleLookup resolves the vendor for a hardware address.
// @Summary Lookup Vendor
// @Description Resolves the organization that registered the OUI of the given hardware address.
// @Tags vendors
// @Produce json
// @Param mac path string true "Hardware address, e.g. 00:22:72:a1:b2:c3"
// @Success 200 {object} map[string]interface{} "Vendor Record"
// @Failure 400 {object} map[string]string "Unparseable address"
// @Failure 404 {object} map[string]string "Unregistered prefix"
// @Router /vendors/{mac} [get]
func (h *Handler) HandleLookup(c *fiber.Ctx) error {
	rec, err := h.service.Lookup(c.Params("mac"))
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no vendor registered for this prefix"})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"prefix":       rec.Prefix.String(),
		"organization": rec.Organization,
		"address":      rec.Address,
	})
}

// HandleStats reports the active snapshot's statistics.
// @Summary Snapshot Stats
// @Description Returns the record count and version of the active snapshot.
// @Tags vendors
// @Produce json
// @Success 200 {object} Stats "Snapshot statistics"
// @Router /vendors/stats [get]
func (h *Handler) HandleStats(c *fiber.Ctx) error {
	return c.JSON(h.service.Stats())
}

// HandleRefresh triggers a refresh cycle.
// @Summary Refresh Snapshot
// @Description Runs one refresh cycle against the configured source. A skipped or failed cycle leaves the current snapshot in service.
// @Tags vendors
// @Produce json
// @Param force query boolean false "Bypass freshness gates"
// @Success 200 {object} map[string]interface{} "Refresh outcome"
// @Failure 502 {object} map[string]string "Refresh failed"
// @Router /vendors/refresh [post]
func (h *Handler) HandleRefresh(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	force := c.Query("force") == "true"
	l.Info("Refresh requested", zap.Bool("force", force))

	if err := h.service.Refresh(c.Context(), force); err != nil {
		l.Warn("Refresh failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}

	stats := h.service.Stats()
	return c.JSON(fiber.Map{
		"status":  "refreshed",
		"count":   stats.Count,
		"version": stats.Version,
	})
}
