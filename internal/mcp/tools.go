package mcp

import (
	"encoding/json"
	"errors"
	"fmt"

	"salesim/internal/batch"
	"salesim/internal/customers"
	"salesim/internal/simulation"

	"github.com/rs/zerolog/log"
)

func (s *Server) listTools() interface{} {
	return map[string]interface{}{
		"tools": []interface{}{
			map[string]interface{}{
				"name": "simulate_customer",
				"description": "Generate the daily sales ledger of one customer from its enrollment date to the end of the sales horizon. " +
					"The same customer_id, start_date and seed always yield the same ledger. Without a seed the server seed is used, matching a batch run.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"customer_id": map[string]interface{}{"type": "integer", "description": "Positive customer identifier"},
						"start_date":  map[string]interface{}{"type": "string", "description": "Enrollment date (YYYY-MM-DD)"},
						"seed":        map[string]interface{}{"type": "integer", "description": "Optional random seed"},
					},
					"required": []string{"customer_id", "start_date"},
				},
			},
			map[string]interface{}{
				"name":        "describe_config",
				"description": "Show the sales horizon, store IDs, probability schedules and catalog pool sizes the simulator runs with.",
				"inputSchema": map[string]interface{}{
					"type":       "object",
					"properties": map[string]interface{}{},
				},
			},
			map[string]interface{}{
				"name":        "describe_product",
				"description": "Look up a catalog product (name, brand, category) by the product_id found in ledger lines.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"product_id": map[string]interface{}{"type": "integer"},
					},
					"required": []string{"product_id"},
				},
			},
		},
	}
}

type simulateArgs struct {
	CustomerID int64  `json:"customer_id"`
	StartDate  string `json:"start_date"`
	Seed       *int64 `json:"seed"`
}

type productArgs struct {
	ProductID int64 `json:"product_id"`
}

// SimulationResult is the payload of simulate_customer.
type SimulationResult struct {
	CustomerID int64                 `json:"customer_id"`
	StartDate  string                `json:"start_date"`
	EndDate    string                `json:"end_date"`
	Seed       int64                 `json:"seed"`
	Stats      simulation.Stats      `json:"stats"`
	Lines      []simulation.LineItem `json:"lines"`
}

// ConfigResult is the payload of describe_config.
type ConfigResult struct {
	EndDate   string               `json:"end_date"`
	StoreIDs  []int64              `json:"store_ids"`
	Seed      int64                `json:"seed"`
	Schedules simulation.Schedules `json:"schedules"`
	Pools     map[string]int       `json:"pools"`
}

var errBadArguments = errors.New("invalid arguments")

func (s *Server) callTool(params json.RawMessage) (interface{}, *RPCError) {
	var call struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal(params, &call); err != nil {
		return nil, &RPCError{Code: codeInvalidParams, Message: "Invalid params"}
	}

	var data interface{}
	var err error

	switch call.Name {
	case "simulate_customer":
		var args simulateArgs
		if err := decodeArgs(call.Arguments, &args); err != nil {
			return nil, &RPCError{Code: codeInvalidParams, Message: err.Error()}
		}
		data, err = s.handleSimulateCustomer(args)
	case "describe_config":
		data = s.handleDescribeConfig()
	case "describe_product":
		var args productArgs
		if err := decodeArgs(call.Arguments, &args); err != nil {
			return nil, &RPCError{Code: codeInvalidParams, Message: err.Error()}
		}
		data, err = s.handleDescribeProduct(args)
	default:
		return nil, &RPCError{Code: codeMethodNotFound, Message: "Tool not found"}
	}

	if err != nil {
		if errors.Is(err, errBadArguments) {
			return nil, &RPCError{Code: codeInvalidParams, Message: err.Error()}
		}
		log.Warn().Err(err).Str("tool", call.Name).Msg("Tool call failed")
		return nil, &RPCError{Code: codeToolError, Message: err.Error()}
	}

	return map[string]interface{}{
		"content": []interface{}{
			map[string]interface{}{
				"type": "text",
				"text": s.formatResult(data),
			},
		},
	}, nil
}

func decodeArgs(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", errBadArguments, err)
	}
	return nil
}

func (s *Server) handleSimulateCustomer(args simulateArgs) (interface{}, error) {
	if args.CustomerID <= 0 {
		return nil, fmt.Errorf("%w: customer_id must be positive", errBadArguments)
	}
	start, err := simulation.ParseDate(args.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: start_date: %v", errBadArguments, err)
	}
	seed := s.seed
	if args.Seed != nil {
		seed = *args.Seed
	}

	items, stats, err := batch.Simulate(s.sales, s.catalog.Pools(), seed, customers.Customer{ID: args.CustomerID, CreatedAt: start})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []simulation.LineItem{}
	}
	return SimulationResult{
		CustomerID: args.CustomerID,
		StartDate:  start.Format(simulation.DateLayout),
		EndDate:    s.sales.EndDate.Format(simulation.DateLayout),
		Seed:       seed,
		Stats:      stats,
		Lines:      items,
	}, nil
}

func (s *Server) handleDescribeConfig() interface{} {
	pools := s.catalog.Pools()
	return ConfigResult{
		EndDate:   s.sales.EndDate.Format(simulation.DateLayout),
		StoreIDs:  s.sales.StoreIDs,
		Seed:      s.seed,
		Schedules: s.sales.Schedules,
		Pools: map[string]int{
			"devices":     len(pools.Devices),
			"refills":     len(pools.Refills),
			"accessories": len(pools.Accessories),
			"spare_parts": len(pools.SpareParts),
		},
	}
}

func (s *Server) handleDescribeProduct(args productArgs) (interface{}, error) {
	p, ok := s.catalog.Product(args.ProductID)
	if !ok {
		return nil, fmt.Errorf("product %d not found", args.ProductID)
	}
	return p, nil
}

func (s *Server) formatResult(data interface{}) string {
	out, _ := json.MarshalIndent(data, "", "  ")
	return string(out)
}
