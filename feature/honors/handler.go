package honors

import (
	"bytes"
	"encoding/json"

	"honor-sync/core/errors"
	"honor-sync/core/logger"
	"honor-sync/feature/honors/models"
	"honor-sync/feature/honors/report"
	"honor-sync/feature/honors/resolve"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for honor sync.
type Handler struct {
	service     *Service
	allowWrites bool
}

// NewHandler creates a new HTTP handler. Unless allowWrites is set, every
// run requested over HTTP is a dry run.
func NewHandler(service *Service, allowWrites bool) *Handler {
	return &Handler{service: service, allowWrites: allowWrites}
}

// RegisterRoutes registers the honors routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/honors")
	group.Get("/awards", h.HandleListAwards)
	group.Post("/sync", h.HandleSync)
}

// SyncRequest is the body of POST /honors/sync.
type SyncRequest struct {
	RunOptions
	// DryRun defaults to true when omitted.
	DryRun *bool `json:"dry_run"`
	// Records runs the pipeline on inline records instead of a stored snapshot.
	Records []models.RawRecord `json:"records,omitempty"`
}

// AwardView describes one configured award.
type AwardView struct {
	Name         string       `json:"name"`
	Aliases      []string     `json:"aliases,omitempty"`
	Source       string       `json:"source"`
	Description  string       `json:"description"`
	SpecialLabel string       `json:"special_label"`
	Caps         resolve.Caps `json:"caps"`
}

// HandleListAwards returns the configured award rule tables.
func (h *Handler) HandleListAwards(c *fiber.Ctx) error {
	list := h.service.Awards()
	views := make([]AwardView, 0, len(list))
	for _, a := range list {
		views = append(views, AwardView{
			Name:         a.Name,
			Aliases:      a.Aliases,
			Source:       a.Source,
			Description:  a.Description,
			SpecialLabel: a.SpecialLabel(),
			Caps:         a.Caps(),
		})
	}
	return c.JSON(views)
}

// HandleSync runs one sync and returns its report.
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req SyncRequest
	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body: " + err.Error(),
		})
	}

	opts := req.RunOptions
	opts.DryRun = req.DryRun == nil || *req.DryRun
	if !opts.DryRun && !h.allowWrites {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "writes are disabled on this server; send dry_run=true",
		})
	}

	var err error
	var rep *report.Report
	if req.Records != nil {
		rep, err = h.service.RunRecords(c.UserContext(), req.Records, opts)
	} else {
		rep, err = h.service.Run(c.UserContext(), opts)
	}
	if err != nil {
		l.Error("Honor sync failed", zap.String("award", opts.Award), zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(rep)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errors.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrRunInProgress):
		return fiber.StatusConflict
	case errors.Is(err, errors.ErrInputUnavailable):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
