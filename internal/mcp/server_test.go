package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"salesim/internal/catalog"
	"salesim/internal/config"
	"salesim/internal/simulation"
)

func testServer() *Server {
	sales := config.SalesConfig{
		EndDate:  time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
		StoreIDs: []int64{5},
		Schedules: simulation.Schedules{
			PBuyByYear:            simulation.Schedule{0.1},
			PCloseDay:             0,
			PInvoiceByNth:         simulation.Schedule{1.0, 0.1},
			PDeviceByNth:          simulation.Schedule{0.5, 0},
			RefillCountProbs:      []float64{1, 1},
			PRefillInvoice:        0.9,
			PAccessoryInvoice:     0.1,
			PSparePartInvoice:     0.1,
			StopInvoicesOnLostDay: true,
		},
	}
	cat := &catalog.Catalog{Products: []catalog.Product{
		{ID: 1, Name: "Aroma Pro", Brand: "Alpha", Category: catalog.Device},
		{ID: 2, Name: "Lavender 50g", Brand: "Alpha", Category: catalog.Refill, GrammG: 50},
		{ID: 3, Name: "Wall Mount", Brand: "Alpha", Category: catalog.Accessory},
		{ID: 4, Name: "Nozzle", Brand: "Alpha", Category: catalog.SparePart},
	}}
	return NewServer(sales, cat, 42, "test")
}

// exchange feeds lines to the server and returns the decoded responses.
func exchange(t *testing.T, s *Server, lines ...string) []JSONRPCResponse {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	if err := s.Serve(context.Background(), in, &out); err != nil {
		t.Fatalf("serve: %v", err)
	}

	var resps []JSONRPCResponse
	sc := bufio.NewScanner(&out)
	sc.Buffer(make([]byte, 1<<20), 1<<24)
	for sc.Scan() {
		var r JSONRPCResponse
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			t.Fatalf("bad response line %q: %v", sc.Text(), err)
		}
		resps = append(resps, r)
	}
	return resps
}

func toolText(t *testing.T, r JSONRPCResponse) string {
	t.Helper()
	if r.Error != nil {
		t.Fatalf("unexpected error: %+v", r.Error)
	}
	res := r.Result.(map[string]interface{})
	content := res["content"].([]interface{})
	return content[0].(map[string]interface{})["text"].(string)
}

func TestServe_InitializeAndList(t *testing.T) {
	resps := exchange(t, testServer(),
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
	)
	if len(resps) != 2 {
		t.Fatalf("expected 2 responses (notification unanswered), got %d", len(resps))
	}

	info := resps[0].Result.(map[string]interface{})
	if info["protocolVersion"] != protocolVersion {
		t.Errorf("unexpected protocol version %v", info["protocolVersion"])
	}

	tools := resps[1].Result.(map[string]interface{})["tools"].([]interface{})
	names := map[string]bool{}
	for _, tool := range tools {
		names[tool.(map[string]interface{})["name"].(string)] = true
	}
	for _, want := range []string{"simulate_customer", "describe_config", "describe_product"} {
		if !names[want] {
			t.Errorf("tool %s not listed", want)
		}
	}
}

func TestServe_SimulateCustomerIsDeterministic(t *testing.T) {
	call := `{"jsonrpc":"2.0","id":7,"method":"tools/call","params":{"name":"simulate_customer","arguments":{"customer_id":12,"start_date":"2024-01-01"}}}`
	resps := exchange(t, testServer(), call, call)
	if len(resps) != 2 {
		t.Fatalf("expected 2 responses, got %d", len(resps))
	}
	first, second := toolText(t, resps[0]), toolText(t, resps[1])
	if first != second {
		t.Fatal("same arguments produced different ledgers")
	}

	var res SimulationResult
	if err := json.Unmarshal([]byte(first), &res); err != nil {
		t.Fatal(err)
	}
	if res.Seed != 42 || res.EndDate != "2024-06-30" {
		t.Errorf("unexpected header: seed=%d end=%s", res.Seed, res.EndDate)
	}
	if res.Stats.DaysProcessed != 182 {
		t.Errorf("expected every day of H1 2024 processed, got %d", res.Stats.DaysProcessed)
	}
	if len(res.Lines) != res.Stats.Lines {
		t.Errorf("lines %d != stats %d", len(res.Lines), res.Stats.Lines)
	}
	for _, it := range res.Lines {
		if it.CustomerID != 12 || it.StoreID != 5 {
			t.Fatalf("unexpected line %+v", it)
		}
	}
}

func TestServe_DescribeConfigAndProduct(t *testing.T) {
	resps := exchange(t, testServer(),
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"describe_config"}}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"describe_product","arguments":{"product_id":2}}}`,
		`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"describe_product","arguments":{"product_id":99}}}`,
	)

	var cfg ConfigResult
	if err := json.Unmarshal([]byte(toolText(t, resps[0])), &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Pools["refills"] != 1 || cfg.Pools["devices"] != 1 {
		t.Errorf("unexpected pools %v", cfg.Pools)
	}

	var p catalog.Product
	if err := json.Unmarshal([]byte(toolText(t, resps[1])), &p); err != nil {
		t.Fatal(err)
	}
	if p.Category != catalog.Refill || p.Name != "Lavender 50g" {
		t.Errorf("unexpected product %+v", p)
	}

	if resps[2].Error == nil || resps[2].Error.Code != codeToolError {
		t.Errorf("expected tool error for unknown product, got %+v", resps[2].Error)
	}
}

func TestServe_Errors(t *testing.T) {
	resps := exchange(t, testServer(),
		`{"jsonrpc":"2.0","id":1,"method":"resources/list"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"nope"}}`,
		`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"simulate_customer","arguments":{"customer_id":"x"}}}`,
		`{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"simulate_customer","arguments":{"customer_id":1,"start_date":"2030-01-01"}}}`,
		`{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"simulate_customer","arguments":{"customer_id":1,"start_date":"tomorrow"}}}`,
		`not json`,
	)
	want := []int{codeMethodNotFound, codeMethodNotFound, codeInvalidParams, codeToolError, codeInvalidParams, codeParseError}
	if len(resps) != len(want) {
		t.Fatalf("expected %d responses, got %d", len(want), len(resps))
	}
	for i, code := range want {
		if resps[i].Error == nil || resps[i].Error.Code != code {
			t.Errorf("response %d: expected code %d, got %+v", i, code, resps[i].Error)
		}
	}
	if !strings.Contains(resps[3].Error.Message, simulation.ErrInvalidConfiguration.Error()) {
		t.Errorf("expected configuration error, got %q", resps[3].Error.Message)
	}
}

func TestServe_SkipsBlankLines(t *testing.T) {
	resps := exchange(t, testServer(),
		"",
		`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`,
		"   ",
		"\r",
		"\t",
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
		"",
	)
	if len(resps) != 2 {
		t.Fatalf("expected 2 responses, got %d: %+v", len(resps), resps)
	}
	for _, r := range resps {
		if r.Error != nil {
			t.Errorf("unexpected error for blank line: %+v", r.Error)
		}
	}
}

func TestServe_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	err := testServer().Serve(ctx, strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"initialize"}`+"\n"), &out)
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}
}
