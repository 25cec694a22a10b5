package customers

import (
	"encoding/csv"
	"io"
	"strconv"

	"salesim/internal/simulation"
)

var csvHeader = []string{
	"customer_id", "created_at", "first_name", "last_name", "email", "phone",
	"email_opt_in", "sms_opt_in", "call_opt_in",
}

// WriteCSV writes customers one row each; opt-ins are written as 0 or 1.
func WriteCSV(w io.Writer, list []Customer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, c := range list {
		if err := cw.Write([]string{
			strconv.FormatInt(c.ID, 10),
			c.CreatedAt.Format(simulation.DateLayout),
			c.FirstName,
			c.LastName,
			c.Email,
			c.Phone,
			flag(c.EmailOptIn),
			flag(c.SMSOptIn),
			flag(c.CallOptIn),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
