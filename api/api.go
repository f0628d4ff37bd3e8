package api

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/edupool/utils/response"
)

// MaxBodySize leaves room for a 10MB syllabus PDF plus the rest of the form
const MaxBodySize = 12 * 1024 * 1024

type APIServer struct {
	app           *fiber.App
	listenAddress string
}

func NewAPIServer(listenAddress string, views fiber.Views) *APIServer {
	return &APIServer{
		app: fiber.New(fiber.Config{
			AppName:           "EduPool",
			Views:             views,
			PassLocalsToViews: true,
			BodyLimit:         MaxBodySize,
			ErrorHandler:      ErrorHandler,
		}),
		listenAddress: listenAddress,
	}
}

// ErrorHandler renders unhandled errors on the error page. Internal details stay in the log.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Something went wrong. Please try again later."

	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
		message = fe.Message
	}
	if status == fiber.StatusNotFound {
		message = "The page you are looking for does not exist."
	}
	if status >= fiber.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Method(), c.Path(), err)
	}

	return response.ErrorPage(c, status, message)
}

func (s *APIServer) GetEngine() *fiber.App {
	return s.app
}

func (s *APIServer) Run() error {
	log.Println("Starting API Server")
	log.Printf("Listening on %s", s.listenAddress)

	return s.app.Listen(s.listenAddress)
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *APIServer) Shutdown() error {
	return s.app.Shutdown()
}
