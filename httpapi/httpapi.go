// Package httpapi exposes the validation engine, autosave sessions and the
// restore prompt over HTTP using fiber.
package httpapi

import (
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/meikuraledutech/workflow"
	"github.com/meikuraledutech/workflow/autosave"
	"github.com/meikuraledutech/workflow/validation"
)

// Server holds the dependencies shared by all handlers.
type Server struct {
	sink      workflow.Sink
	validator *validation.Validator
	saverOpts []autosave.Option
	log       *slog.Logger
	sessions  *sessions
	check     *validator.Validate
}

// New creates a Server writing snapshots to sink. saverOpts are applied to
// every autosave session.
func New(sink workflow.Sink, log *slog.Logger, saverOpts ...autosave.Option) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		sink:      sink,
		validator: validation.New(validation.WithUUIDs()),
		saverOpts: saverOpts,
		log:       log,
		sessions:  newSessions(),
		check:     validator.New(),
	}
}

// Close tears down every autosave session.
func (s *Server) Close() {
	s.sessions.closeAll()
}

// App builds the fiber application.
func (s *Server) App() *fiber.App {
	app := fiber.New()

	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// ── Validation ────────────────────────────────────────────────────
	app.Post("/validate", s.handleValidate)
	app.Post("/validate/field", s.handleValidateField)

	// ── Autosave ──────────────────────────────────────────────────────
	app.Post("/autosave/:key", s.handleOpenSession)
	app.Put("/autosave/:key", s.handleUpdateSession)
	app.Get("/autosave/:key", s.handleSessionStatus)
	app.Post("/autosave/:key/reset", s.handleResetSession)
	app.Delete("/autosave/:key", s.handleCloseSession)

	// ── Restore ───────────────────────────────────────────────────────
	app.Get("/snapshots/:key", s.handleGetSnapshot)
	app.Delete("/snapshots/:key", s.handleDiscardSnapshot)

	return app
}

type graphRequest struct {
	Nodes []workflow.Node `json:"nodes" validate:"max=10000"`
	Edges []workflow.Edge `json:"edges" validate:"max=50000"`
}

type fieldRequest struct {
	Field    string `json:"field" validate:"required,max=64"`
	Value    string `json:"value"`
	NodeType string `json:"nodeType"`
	Operator string `json:"operator"`
}

type validateResponse struct {
	validation.Result
	OK bool `json:"ok"`
}

// bind decodes and checks the request body. When it returns false the 400
// response has already been written.
func (s *Server) bind(c fiber.Ctx, v any) (bool, error) {
	if err := c.Bind().JSON(v); err != nil {
		return false, c.Status(400).JSON(fiber.Map{"error": "invalid body"})
	}
	if err := s.check.Struct(v); err != nil {
		return false, c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return true, nil
}

func (s *Server) handleValidate(c fiber.Ctx) error {
	var req graphRequest
	if ok, err := s.bind(c, &req); !ok {
		return err
	}
	res := s.validator.Validate(req.Nodes, req.Edges)
	return c.JSON(validateResponse{Result: res, OK: res.OK()})
}

func (s *Server) handleValidateField(c fiber.Ctx) error {
	var req fieldRequest
	if ok, err := s.bind(c, &req); !ok {
		return err
	}
	msg := validation.ValidateField(validation.Field(req.Field), req.Value, validation.FieldContext{
		NodeType: workflow.NodeType(req.NodeType),
		Operator: req.Operator,
	})
	if msg == "" {
		return c.JSON(fiber.Map{"error": nil})
	}
	return c.JSON(fiber.Map{"error": msg})
}

// input validates the graph so the saver never sees a graph without its errors.
func (s *Server) input(req graphRequest) autosave.Input {
	res := s.validator.Validate(req.Nodes, req.Edges)
	return autosave.Input{
		Nodes:       req.Nodes,
		Edges:       req.Edges,
		GraphErrors: res.GraphErrors,
		NodeErrors:  res.NodeErrors,
	}
}

func (s *Server) handleOpenSession(c fiber.Ctx) error {
	var req graphRequest
	if ok, err := s.bind(c, &req); !ok {
		return err
	}
	key := c.Params("key")
	opts := append([]autosave.Option{autosave.WithLogger(s.log)}, s.saverOpts...)
	sv := autosave.New(s.sink, key, s.input(req), opts...)
	s.sessions.put(key, sv)
	return c.Status(201).JSON(sv.Status())
}

func (s *Server) handleUpdateSession(c fiber.Ctx) error {
	sv, ok := s.sessions.get(c.Params("key"))
	if !ok {
		return c.Status(404).JSON(fiber.Map{"error": "session not found"})
	}
	var req graphRequest
	if ok, err := s.bind(c, &req); !ok {
		return err
	}
	in := s.input(req)
	sv.Update(in)
	return c.Status(202).JSON(fiber.Map{
		"status":      sv.Status(),
		"graphErrors": in.GraphErrors,
		"nodeErrors":  in.NodeErrors,
	})
}

func (s *Server) handleSessionStatus(c fiber.Ctx) error {
	sv, ok := s.sessions.get(c.Params("key"))
	if !ok {
		return c.Status(404).JSON(fiber.Map{"error": "session not found"})
	}
	return c.JSON(sv.Status())
}

func (s *Server) handleResetSession(c fiber.Ctx) error {
	sv, ok := s.sessions.get(c.Params("key"))
	if !ok {
		return c.Status(404).JSON(fiber.Map{"error": "session not found"})
	}
	sv.Reset()
	return c.JSON(sv.Status())
}

func (s *Server) handleCloseSession(c fiber.Ctx) error {
	if !s.sessions.remove(c.Params("key")) {
		return c.Status(404).JSON(fiber.Map{"error": "session not found"})
	}
	return c.SendStatus(204)
}

func (s *Server) handleGetSnapshot(c fiber.Ctx) error {
	snap, err := workflow.LoadSnapshot(c.Context(), s.sink, c.Params("key"))
	if errors.Is(err, workflow.ErrSnapshotNotFound) {
		return c.Status(404).JSON(fiber.Map{"error": "snapshot not found"})
	}
	if errors.Is(err, workflow.ErrInvalidSnapshot) {
		return c.Status(422).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		s.log.Error("load snapshot", "key", c.Params("key"), "error", err)
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(snap)
}

func (s *Server) handleDiscardSnapshot(c fiber.Ctx) error {
	if err := workflow.DiscardSnapshot(c.Context(), s.sink, c.Params("key")); err != nil {
		s.log.Error("discard snapshot", "key", c.Params("key"), "error", err)
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(204)
}
