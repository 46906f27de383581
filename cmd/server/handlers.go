package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yourorg/payment-rails/internal/monitor"
	"github.com/yourorg/payment-rails/internal/payment"
	"github.com/yourorg/payment-rails/internal/registry"
	"github.com/yourorg/payment-rails/internal/reporting"
	"github.com/yourorg/payment-rails/internal/service"
)

// operationHandlers maps the URL operation segment onto service methods.
func operationHandlers(svc *service.Service) map[string]func(*gin.Context, *payment.OperationRequest) (*payment.OperationResult, error) {
	return map[string]func(*gin.Context, *payment.OperationRequest) (*payment.OperationResult, error){
		"simulate": func(c *gin.Context, req *payment.OperationRequest) (*payment.OperationResult, error) {
			return svc.Simulate(c.Request.Context(), req)
		},
		"execute": func(c *gin.Context, req *payment.OperationRequest) (*payment.OperationResult, error) {
			return svc.Execute(c.Request.Context(), req)
		},
		"simulate-cancellation": func(c *gin.Context, req *payment.OperationRequest) (*payment.OperationResult, error) {
			return svc.SimulateCancellation(c.Request.Context(), req)
		},
		"cancel": func(c *gin.Context, req *payment.OperationRequest) (*payment.OperationResult, error) {
			return svc.Cancel(c.Request.Context(), req)
		},
		"schedule": func(c *gin.Context, req *payment.OperationRequest) (*payment.OperationResult, error) {
			return svc.Schedule(c.Request.Context(), req)
		},
	}
}

func setupRouter(svc *service.Service, reg *registry.Registry, journal *reporting.MemoryJournal) (*gin.Engine, error) {
	contractMonitor, err := monitor.NewContractMonitor()
	if err != nil {
		return nil, err
	}
	handlers := operationHandlers(svc)

	router := gin.Default()
	router.Use(otelgin.Middleware("payment-rails"))

	router.POST("/payments/:operation", func(c *gin.Context) {
		handler, ok := handlers[c.Param("operation")]
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown operation: " + c.Param("operation")})
			return
		}

		body, err := c.GetRawData()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
			return
		}
		valid, validationErrors, err := contractMonitor.Validate(body)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if !valid {
			c.JSON(http.StatusBadRequest, gin.H{
				"errorCode": payment.ErrCodeValidation,
				"error":     monitor.FormatErrors(validationErrors),
			})
			return
		}

		var req payment.OperationRequest
		if err := json.Unmarshal(body, &req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"errorCode": payment.ErrCodeValidation,
				"error":     "invalid request format: " + err.Error(),
			})
			return
		}

		res, err := handler(c, &req)
		if err != nil {
			status, code := mapServiceError(err)
			c.JSON(status, gin.H{"errorCode": code, "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, res)
	})

	router.GET("/healthz", func(c *gin.Context) {
		statuses := make(map[string]bool)
		for _, kind := range reg.Kinds() {
			p, _ := reg.Provider(kind)
			statuses[string(kind)] = p.IsHealthy(c.Request.Context())
		}
		c.JSON(http.StatusOK, gin.H{"providers": statuses})
	})

	router.GET("/retrospective", func(c *gin.Context) {
		report := reporting.NewRetrospectiveReporter().GenerateRetrospective(journal.Entries())
		c.JSON(http.StatusOK, report)
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router, nil
}

func mapServiceError(err error) (int, string) {
	switch {
	case errors.Is(err, payment.ErrNoProviderAvailable):
		return http.StatusServiceUnavailable, payment.ErrCodeNoProvider
	case errors.Is(err, payment.ErrProviderTimeout):
		return http.StatusGatewayTimeout, payment.ErrCodeProviderTimeout
	case errors.Is(err, payment.ErrProviderUnhealthy):
		return http.StatusServiceUnavailable, payment.ErrCodeProviderUnhealthy
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}
