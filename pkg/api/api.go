// Package api implements the HTTP service that evaluates posted AST
// documents.
package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lemonberrylabs/asteval/pkg/builtins"
	"github.com/lemonberrylabs/asteval/pkg/types"
)

// MIMEProtobuf selects the binary google.protobuf.Struct encoding for
// requests and responses.
const MIMEProtobuf = "application/x-protobuf"

// Server is the HTTP evaluation service.
type Server struct {
	app      *fiber.App
	log      zerolog.Logger
	registry *builtins.Registry
}

// New creates a new API server.
func New(logger zerolog.Logger, registry *builtins.Registry) *Server {
	srv := &Server{
		log:      logger,
		registry: registry,
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
	})

	app.Use(srv.requestLogger)
	app.Get("/healthz", srv.health)
	app.Post("/v1/evaluate", srv.evaluate)

	srv.app = app
	return srv
}

// Listen starts the HTTP server on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App returns the underlying Fiber app (useful for testing).
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) requestLogger(c *fiber.Ctx) error {
	id := c.Get(fiber.HeaderXRequestID)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(fiber.HeaderXRequestID, id)

	start := time.Now()
	err := c.Next()
	s.log.Info().
		Str("request_id", id).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", c.Response().StatusCode()).
		Dur("latency", time.Since(start)).
		Msg("request")
	return err
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) evaluate(c *fiber.Ctx) error {
	useProto := strings.HasPrefix(c.Get(fiber.HeaderContentType), MIMEProtobuf)

	req, err := decodeRequest(c.Body(), useProto)
	if err != nil {
		return badRequest(c, fmt.Sprintf("invalid request body: %v", err))
	}

	value, err := Run(req, s.registry)
	if err != nil {
		var reqErr *RequestError
		if errors.As(err, &reqErr) {
			return badRequest(c, reqErr.Error())
		}
		kind := ErrorKind(err)
		s.log.Debug().Err(err).Str("kind", kind).Msg("evaluation failed")
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    fiber.StatusUnprocessableEntity,
				"kind":    kind,
				"message": err.Error(),
				"status":  "FAILED_PRECONDITION",
			},
		})
	}

	if useProto {
		return sendProto(c, value)
	}
	return c.JSON(fiber.Map{
		"value": value,
		"type":  types.TypeOf(value),
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    fiber.StatusBadRequest,
			"message": message,
			"status":  "INVALID_ARGUMENT",
		},
	})
}

func decodeRequest(body []byte, useProto bool) (*Request, error) {
	if !useProto {
		doc, err := types.DecodeDocument(body)
		if err != nil {
			return nil, err
		}
		return ParseRequest(doc)
	}
	var s structpb.Struct
	if err := proto.Unmarshal(body, &s); err != nil {
		return nil, err
	}
	return ParseRequest(types.FromProtoStruct(&s))
}

func sendProto(c *fiber.Ctx, value types.Value) error {
	result, err := ResultStruct(value)
	if err != nil {
		return err
	}
	out, err := proto.Marshal(result)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, MIMEProtobuf)
	return c.Send(out)
}
