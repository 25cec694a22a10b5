package customers

import (
	"bytes"
	"testing"
	"time"
)

func TestWriteCSV(t *testing.T) {
	list := []Customer{
		{ID: 1, CreatedAt: time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC)},
		{
			ID: 2, CreatedAt: time.Date(2022, 11, 30, 0, 0, 0, 0, time.UTC),
			FirstName: "Ada", Email: "ada@example.com", Phone: "5550100",
			EmailOptIn: true, CallOptIn: true,
		},
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, list); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "customer_id,created_at,first_name,last_name,email,phone,email_opt_in,sms_opt_in,call_opt_in\n" +
		"1,2021-03-04,,,,,0,0,0\n" +
		"2,2022-11-30,Ada,,ada@example.com,5550100,1,0,1\n"
	if buf.String() != want {
		t.Errorf("Expected %q, got %q", want, buf.String())
	}
}
