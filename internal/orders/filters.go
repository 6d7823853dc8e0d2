package orders

import (
	"strings"
	"time"

	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/db/models"
	pkgerrors "github.com/tarekmechtaoui-svg/issaqadmin3/pkg/errors"
)

const dateLayout = "2006-01-02"

// Filters narrows the admin order table. Every filter is optional and they
// combine with AND, so application order does not matter.
type Filters struct {
	Status   string     `json:"status,omitempty"`
	Customer string     `json:"customer,omitempty"`
	From     *time.Time `json:"from,omitempty"`
	To       *time.Time `json:"to,omitempty"`
}

// ParseFilters reads the raw query values. Dates are YYYY-MM-DD in UTC; the
// upper bound covers its whole day.
func ParseFilters(status, customer, from, to string) (Filters, error) {
	f := Filters{
		Status:   strings.TrimSpace(status),
		Customer: strings.TrimSpace(customer),
	}
	var fields pkgerrors.FieldErrors
	if raw := strings.TrimSpace(from); raw != "" {
		day, err := time.Parse(dateLayout, raw)
		if err != nil {
			fields.Add("from", "must be a date formatted YYYY-MM-DD")
		} else {
			f.From = &day
		}
	}
	if raw := strings.TrimSpace(to); raw != "" {
		day, err := time.Parse(dateLayout, raw)
		if err != nil {
			fields.Add("to", "must be a date formatted YYYY-MM-DD")
		} else {
			end := EndOfDay(day)
			f.To = &end
		}
	}
	if err := fields.Err(); err != nil {
		return Filters{}, err
	}
	return f, nil
}

// EndOfDay returns 23:59:59.999 on the day of t.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// Matches reports whether order passes every set filter.
func (f Filters) Matches(order models.Order) bool {
	if f.Status != "" && !strings.EqualFold(strings.TrimSpace(order.Status), f.Status) {
		return false
	}
	if f.Customer != "" && !strings.Contains(strings.ToLower(order.CustomerName), strings.ToLower(f.Customer)) {
		return false
	}
	if f.From != nil && order.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && order.CreatedAt.After(*f.To) {
		return false
	}
	return true
}

// Apply keeps the matching orders in their original order.
func (f Filters) Apply(orders []models.Order) []models.Order {
	out := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		if f.Matches(order) {
			out = append(out, order)
		}
	}
	return out
}
