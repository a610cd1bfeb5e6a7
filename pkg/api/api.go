// Package api exposes the subscription and matching service over HTTP.
package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/meridianmq/mqselect/pkg/message"
	"github.com/meridianmq/mqselect/pkg/parser"
	"github.com/meridianmq/mqselect/pkg/selector"
	"github.com/meridianmq/mqselect/pkg/store"
	"github.com/meridianmq/mqselect/pkg/types"
)

// Server is the HTTP API server.
type Server struct {
	app   *fiber.App
	store *store.Store
}

// New creates the API server around a subscription store.
func New(st *store.Store) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
	})
	s := &Server{app: app, store: st}
	s.setupRoutes()
	return s
}

// App returns the underlying fiber app, used by tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen starts serving on the given address. It blocks until Shutdown.
func (s *Server) Listen(addr string) error {
	log.Printf("HTTP API listening on %s", addr)
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// LoadDir preloads subscriptions from YAML definitions in dir.
func (s *Server) LoadDir(dir string) error {
	defs, err := parser.ParseDir(dir)
	if err != nil {
		return err
	}
	loaded := 0
	for _, def := range defs {
		if _, err := s.store.Create(def.Name, def.Selector, def.Description); err != nil {
			log.Printf("Warning: skipping subscription '%s': %v", def.Name, err)
			continue
		}
		loaded++
	}
	log.Printf("Loaded %d subscription(s) from %s", loaded, dir)
	return nil
}

func (s *Server) setupRoutes() {
	v1 := s.app.Group("/v1")
	v1.Post("/subscriptions", s.createSubscription)
	v1.Get("/subscriptions", s.listSubscriptions)
	v1.Get("/subscriptions/:name", s.getSubscription)
	v1.Delete("/subscriptions/:name", s.deleteSubscription)
	v1.Post("/subscriptions/:name/match", s.matchSubscription)
	v1.Post("/match", s.matchAll)
	v1.Post("/selectors\\:validate", s.validateSelector)
}

type createSubscriptionRequest struct {
	Name        string `json:"name"`
	Selector    string `json:"selector"`
	Description string `json:"description"`
}

type subscriptionResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Selector    string `json:"selector"`
	Description string `json:"description,omitempty"`
	CreateTime  string `json:"createTime"`
	Matched     uint64 `json:"matched"`
	Dropped     uint64 `json:"dropped"`
}

func subscriptionJSON(sub store.Subscription) subscriptionResponse {
	return subscriptionResponse{
		ID:          sub.ID,
		Name:        sub.Name,
		Selector:    sub.Selector,
		Description: sub.Description,
		CreateTime:  sub.CreateTime.Format(time.RFC3339),
		Matched:     sub.Matched,
		Dropped:     sub.Dropped,
	}
}

func (s *Server) createSubscription(c *fiber.Ctx) error {
	var req createSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return errorResponse(c, http.StatusBadRequest, "name is required")
	}
	if _, exists := s.store.Get(req.Name); exists {
		return errorResponse(c, http.StatusConflict,
			fmt.Sprintf("subscription '%s' already exists", req.Name))
	}
	sub, err := s.store.Create(req.Name, req.Selector, req.Description)
	if err != nil {
		var selErr *types.SelectorError
		if errors.As(err, &selErr) {
			return compileErrorResponse(c, selErr)
		}
		return errorResponse(c, http.StatusConflict, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(subscriptionJSON(sub))
}

func (s *Server) listSubscriptions(c *fiber.Ctx) error {
	subs := s.store.List()
	out := make([]subscriptionResponse, 0, len(subs))
	for _, sub := range subs {
		out = append(out, subscriptionJSON(sub))
	}
	return c.JSON(fiber.Map{"subscriptions": out, "count": len(out)})
}

func (s *Server) getSubscription(c *fiber.Ctx) error {
	name := c.Params("name")
	sub, ok := s.store.Get(name)
	if !ok {
		return errorResponse(c, http.StatusNotFound,
			fmt.Sprintf("subscription '%s' not found", name))
	}
	return c.JSON(subscriptionJSON(sub))
}

func (s *Server) deleteSubscription(c *fiber.Ctx) error {
	name := c.Params("name")
	if !s.store.Delete(name) {
		return errorResponse(c, http.StatusNotFound,
			fmt.Sprintf("subscription '%s' not found", name))
	}
	return c.SendStatus(http.StatusNoContent)
}

func (s *Server) matchSubscription(c *fiber.Ctx) error {
	name := c.Params("name")
	msg, err := message.FromJSON(c.Body())
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err.Error())
	}
	matched, err := s.store.MatchOne(name, msg)
	if err != nil {
		return errorResponse(c, http.StatusNotFound, err.Error())
	}
	return c.JSON(fiber.Map{"subscription": name, "matched": matched})
}

func (s *Server) matchAll(c *fiber.Ctx) error {
	msg, err := message.FromJSON(c.Body())
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err.Error())
	}
	matches := s.store.Match(msg)
	names := make([]string, 0, len(matches))
	for _, sub := range matches {
		names = append(names, sub.Name)
	}
	return c.JSON(fiber.Map{"matches": names, "count": len(names)})
}

type validateSelectorRequest struct {
	Selector string `json:"selector"`
}

func (s *Server) validateSelector(c *fiber.Ctx) error {
	var req validateSelectorRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid request body")
	}
	if _, err := selector.CompileOrNil(req.Selector); err != nil {
		var selErr *types.SelectorError
		if errors.As(err, &selErr) {
			return c.JSON(fiber.Map{
				"valid":    false,
				"message":  selErr.Message,
				"position": selErr.Pos,
			})
		}
		return c.JSON(fiber.Map{"valid": false, "message": err.Error()})
	}
	return c.JSON(fiber.Map{"valid": true})
}

func errorResponse(c *fiber.Ctx, code int, msg string) error {
	return c.Status(code).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": msg,
			"status":  http.StatusText(code),
		},
	})
}

func compileErrorResponse(c *fiber.Ctx, selErr *types.SelectorError) error {
	return c.Status(http.StatusBadRequest).JSON(fiber.Map{
		"error": fiber.Map{
			"code":     http.StatusBadRequest,
			"message":  selErr.Error(),
			"status":   http.StatusText(http.StatusBadRequest),
			"position": selErr.Pos,
		},
	})
}
