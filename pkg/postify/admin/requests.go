package admin

import (
	"time"

	"github.com/madhvi-n/postify/pkg/postify"
)

// ProvisionUserRequest contains parameters for creating an account
type ProvisionUserRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// NameRequest carries the name of a new tag or category
type NameRequest struct {
	Name string `json:"name"`
}

// StatisticsResponse contains the statistics result
type StatisticsResponse struct {
	Statistics postify.Statistics `json:"statistics"`
	ComputedAt time.Time          `json:"computed_at"`
}
