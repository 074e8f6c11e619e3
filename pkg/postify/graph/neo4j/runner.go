// Package neo4j mirrors follow edges into a Neo4j graph so that
// recommendation queries can run on a graph store.
package neo4j

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Runner executes a Cypher query and returns a fully buffered result.
type Runner interface {
	Run(ctx context.Context, query string, params map[string]interface{}) (*neo4j.EagerResult, error)
}

// ExecutorRunner is a Runner backed by the official driver.
type ExecutorRunner struct {
	Driver   neo4j.DriverWithContext
	Database string
}

var _ Runner = (*ExecutorRunner)(nil)

// NewExecutorRunner creates a driver for uri with basic auth. It does not
// dial; call Verify to check connectivity.
func NewExecutorRunner(uri, username, password, database string) (*ExecutorRunner, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("could not create neo4j driver: %w", err)
	}
	return &ExecutorRunner{Driver: driver, Database: database}, nil
}

// Verify checks connectivity to the server.
func (e *ExecutorRunner) Verify(ctx context.Context) error {
	return e.Driver.VerifyConnectivity(ctx)
}

// Close releases the driver.
func (e *ExecutorRunner) Close(ctx context.Context) error {
	return e.Driver.Close(ctx)
}

func (e *ExecutorRunner) Run(ctx context.Context, query string, params map[string]interface{}) (*neo4j.EagerResult, error) {
	opts := []neo4j.ExecuteQueryConfigurationOption{}
	if e.Database != "" {
		opts = append(opts, neo4j.ExecuteQueryWithDatabase(e.Database))
	}
	result, err := neo4j.ExecuteQuery(ctx, e.Driver, query, params, neo4j.EagerResultTransformer, opts...)
	if err != nil {
		return nil, fmt.Errorf("error executing neo4j query: %w", err)
	}
	return result, nil
}
