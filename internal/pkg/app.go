package pkg

import (
	"fmt"
	"time"

	"greenbites/internal/app/config"
	"greenbites/internal/app/handler"
	"greenbites/internal/app/lifecycle"
	"greenbites/internal/app/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Application struct {
	Config         *config.Config
	Router         *gin.Engine
	Handler        *handler.APIHandler
	AuthMiddleware *middleware.AuthMiddleware
	Lifecycle      *lifecycle.Service
}

func NewApp(c *config.Config, h *handler.APIHandler, am *middleware.AuthMiddleware, lc *lifecycle.Service) *Application {
	router := gin.Default()
	router.Use(cors.Default())

	return &Application{
		Config:         c,
		Router:         router,
		Handler:        h,
		AuthMiddleware: am,
		Lifecycle:      lc,
	}
}

func (a *Application) RunApp() {
	logrus.Info("Server start up")

	a.Handler.RegisterAPIRoutes(a.Router, a.AuthMiddleware)

	// Фоновая проверка просроченных пожертвований
	go a.runExpirySweep()

	serverAddress := fmt.Sprintf("%s:%d", a.Config.ServiceHost, a.Config.ServicePort)
	logrus.Infof("Starting server on %s", serverAddress)

	if err := a.Router.Run(serverAddress); err != nil {
		logrus.Fatal(err)
	}

	logrus.Info("Server down")
}

// runExpirySweep периодически переводит просроченные пожертвования в expired
func (a *Application) runExpirySweep() {
	ticker := time.NewTicker(a.Config.ExpirySweepInterval)
	defer ticker.Stop()

	for now := range ticker.C {
		affected, err := a.Lifecycle.ExpireOverdue(now)
		if err != nil {
			logrus.Error("expiry sweep failed: ", err)
			continue
		}
		if affected > 0 {
			logrus.Infof("expiry sweep: %d donations expired", affected)
		}
	}
}
