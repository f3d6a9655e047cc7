package health

import (
	"context"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/users-api/internal/config"
	repository "github.com/aaravmahajanofficial/users-api/internal/repositories"
	"github.com/hellofresh/health-go/v5"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"
)

type Endpoints struct {
	Users repository.UserRepository
}

func NewHealthHandler(cfg *config.Config, endpoints *Endpoints) (*health.Health, error) {

	checks := []health.Config{
		{
			Name:      "user-store",
			Timeout:   time.Second,
			SkipOnErr: false,
			Check: func(ctx context.Context) error {
				if endpoints.Users == nil {
					return fmt.Errorf("user store is not initialized")
				}
				if _, err := endpoints.Users.CountUsers(ctx); err != nil {
					return fmt.Errorf("user store unavailable: %w", err)
				}
				return nil
			},
		},
	}

	// the rate limiter fails open, so redis is not critical
	if cfg.RedisConnect.Enabled() {
		checks = append(checks, health.Config{
			Name:      "redis",
			Timeout:   2 * time.Second,
			SkipOnErr: true,
			Check: healthRedis.New(healthRedis.Config{
				DSN: cfg.RedisConnect.GetDSN(),
			}),
		})
	}

	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    cfg.Otel.ServiceName,
			Version: "1.0.0",
		}),
		health.WithSystemInfo(),
		health.WithChecks(checks...),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}
