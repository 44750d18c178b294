package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	appnotification "github.com/innledger/backend/internal/application/notification"
	apppayment "github.com/innledger/backend/internal/application/payment"
	apprevenue "github.com/innledger/backend/internal/application/revenue"
	"github.com/innledger/backend/internal/domain/assistant"
)

// PaymentReader is the part of the payment service the tools read from
type PaymentReader interface {
	List(ctx context.Context, q apppayment.ListItemsQuery) (*apppayment.ItemList, error)
	Summary(ctx context.Context) (*apppayment.SummaryResponse, error)
}

// RevenueComparer is the part of the revenue service the tools read from
type RevenueComparer interface {
	Compare(ctx context.Context, q apprevenue.CompareQuery) (*apprevenue.CompareResponse, error)
}

// NotificationReader is the part of the notification service the tools read from
type NotificationReader interface {
	List(ctx context.Context, filter appnotification.ListFilter) ([]appnotification.NotificationResponse, error)
}

const (
	defaultToolListLimit = 20
	maxToolListLimit     = 100
)

type toolFunc func(ctx context.Context, args json.RawMessage) (any, error)

// Toolbox holds the tools offered to the model
type Toolbox struct {
	specs []assistant.ToolSpec
	funcs map[string]toolFunc
}

// NewToolbox registers the bookkeeping tools
func NewToolbox(payments PaymentReader, revenue RevenueComparer, notifications NotificationReader) *Toolbox {
	tb := &Toolbox{funcs: make(map[string]toolFunc)}

	tb.register(assistant.ToolSpec{
		Name:        "list_payment_items",
		Description: "List payment items, optionally filtered by status (pending, partial, paid, overdue).",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"status": map[string]any{"type": "string", "enum": []string{"pending", "partial", "paid", "overdue"}},
				"limit":  map[string]any{"type": "integer", "minimum": 1, "maximum": maxToolListLimit},
			},
		},
	}, func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args struct {
			Status string `json:"status"`
			Limit  int    `json:"limit"`
		}
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		switch {
		case args.Limit <= 0:
			args.Limit = defaultToolListLimit
		case args.Limit > maxToolListLimit:
			args.Limit = maxToolListLimit
		}
		return payments.List(ctx, apppayment.ListItemsQuery{
			Page:     1,
			Limit:    args.Limit,
			Status:   args.Status,
			OrderBy:  "due_date",
			OrderDir: "asc",
		})
	})

	tb.register(assistant.ToolSpec{
		Name:        "get_payment_summary",
		Description: "Totals of all payment items: amounts paid and remaining, overdue count and a breakdown by status.",
	}, func(ctx context.Context, _ json.RawMessage) (any, error) {
		return payments.Summary(ctx)
	})

	tb.register(assistant.ToolSpec{
		Name:        "compare_revenue",
		Description: "Compare PMS and PM revenue month by month for an inclusive range of months (YYYY-MM).",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"startMonth": map[string]any{"type": "string", "description": "YYYY-MM"},
				"endMonth":   map[string]any{"type": "string", "description": "YYYY-MM"},
			},
			"required": []string{"startMonth", "endMonth"},
		},
	}, func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args apprevenue.CompareQuery
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		if args.StartMonth == "" || args.EndMonth == "" {
			return nil, fmt.Errorf("startMonth and endMonth are required")
		}
		return revenue.Compare(ctx, args)
	})

	tb.register(assistant.ToolSpec{
		Name:        "list_notifications",
		Description: "List recent notifications, optionally only unread ones.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"unreadOnly": map[string]any{"type": "boolean"},
			},
		},
	}, func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args struct {
			UnreadOnly bool `json:"unreadOnly"`
		}
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		return notifications.List(ctx, appnotification.ListFilter{UnreadOnly: args.UnreadOnly, Limit: defaultToolListLimit})
	})

	return tb
}

func (tb *Toolbox) register(spec assistant.ToolSpec, fn toolFunc) {
	tb.specs = append(tb.specs, spec)
	tb.funcs[spec.Name] = fn
}

// Specs returns the tool definitions sent with every completion request
func (tb *Toolbox) Specs() []assistant.ToolSpec {
	return tb.specs
}

// Execute runs a tool and returns its JSON result. Failures are returned as
// a JSON error object so the model can react to them.
func (tb *Toolbox) Execute(ctx context.Context, name, arguments string) string {
	fn, ok := tb.funcs[name]
	if !ok {
		return errorResult(fmt.Errorf("unknown tool %q", name))
	}
	out, err := fn(ctx, json.RawMessage(arguments))
	if err != nil {
		return errorResult(err)
	}
	data, err := json.Marshal(out)
	if err != nil {
		return errorResult(err)
	}
	return string(data)
}

func decodeArgs(raw json.RawMessage, dst any) error {
	if strings.TrimSpace(string(raw)) == "" {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func errorResult(err error) string {
	data, _ := json.Marshal(map[string]string{"error": err.Error()})
	return string(data)
}
