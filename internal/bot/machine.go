package bot

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"orderly/internal/domain"
	applog "orderly/internal/log"
	"orderly/internal/metrics"
)

var (
	ErrStaleSelection = errors.New("selection was not offered by the last prompt")
	ErrUnexpectedText = errors.New("expected a selection, got text")
	ErrInvalidText    = errors.New("answer is empty or too long")
	ErrUnknownEvent   = errors.New("unknown event kind")
)

type EventKind string

const (
	EventStart  EventKind = "start"
	EventSelect EventKind = "select"
	EventText   EventKind = "text"
)

// Event is one inbound message from the chat transport.
type Event struct {
	Kind  EventKind
	Value string
}

func Start() Event { return Event{Kind: EventStart} }

func Select(token string) Event { return Event{Kind: EventSelect, Value: token} }

func Text(s string) Event { return Event{Kind: EventText, Value: s} }

type Option struct {
	Token string `json:"token"`
	Label string `json:"label"`
}

// Reply is what the transport should show the user next.
type Reply struct {
	Text    string   `json:"text"`
	Options []Option `json:"options,omitempty"`
	OrderID int64    `json:"order_id,omitempty"`
	Failed  bool     `json:"failed,omitempty"`
}

type OrderInserter interface {
	Insert(ctx context.Context, o domain.NewOrder) (int64, error)
}

// Notifier relays a committed order to the administrator.
type Notifier interface {
	Notify(ctx context.Context, o domain.Order) error
}

// DefaultNotifyTimeout bounds one administrator notification.
const DefaultNotifyTimeout = 5 * time.Second

type Machine struct {
	Orders        OrderInserter
	Notifier      Notifier
	Drafts        *DraftStore
	Metrics       *metrics.Registry
	NotifyTimeout time.Duration

	inflight sync.WaitGroup
}

func NewMachine(orders OrderInserter, n Notifier, drafts *DraftStore, m *metrics.Registry) *Machine {
	return &Machine{Orders: orders, Notifier: n, Drafts: drafts, Metrics: m, NotifyTimeout: DefaultNotifyTimeout}
}

// Handle applies one event to the user's draft. Events for the same user are
// applied one at a time; different users never wait on each other.
func (m *Machine) Handle(ctx context.Context, user int64, ev Event) (Reply, error) {
	sl := m.Drafts.acquire(user)
	reply, committed, err := m.apply(ctx, user, sl, ev)
	m.Drafts.release(user, sl)

	if committed != nil && m.Notifier != nil {
		m.inflight.Add(1)
		go func(o domain.Order) {
			defer m.inflight.Done()
			m.notify(ctx, o)
		}(*committed)
	}
	return reply, err
}

// Wait blocks until every notification dispatched so far has finished.
func (m *Machine) Wait() { m.inflight.Wait() }

func (m *Machine) apply(ctx context.Context, user int64, sl *slot, ev Event) (Reply, *domain.Order, error) {
	if ev.Kind == EventStart {
		sl.draft = newDraft(m.Drafts.now())
		return sl.draft.prompt(), nil, nil
	}
	d := sl.draft
	switch ev.Kind {
	case EventSelect:
		if d == nil || !d.offers(ev.Value) {
			m.staleSelection(user, ev.Value)
			if d == nil {
				return Reply{Text: text(txtSendStart, "")}, nil, ErrStaleSelection
			}
			return d.prompt(), nil, ErrStaleSelection
		}
		return m.selectOption(d, ev.Value), nil, nil
	case EventText:
		if d == nil {
			return Reply{Text: text(txtSendStart, "")}, nil, nil
		}
		if d.step.selection() {
			return d.prompt(), nil, ErrUnexpectedText
		}
		v, ok := cleanText(ev.Value)
		if !ok {
			return d.prompt(), nil, ErrInvalidText
		}
		return m.answer(ctx, user, sl, v)
	}
	return Reply{}, nil, ErrUnknownEvent
}

// selectOption advances a selection step. The token is known to be offered.
func (m *Machine) selectOption(d *Draft, token string) Reply {
	switch d.step {
	case AwaitLanguage:
		d.lang = domain.Language(strings.TrimPrefix(token, langPrefix))
		d.step = AwaitCategory
		d.offered = categoryOptions(d.lang)
	case AwaitCategory:
		d.category = domain.Category(strings.TrimPrefix(token, catPrefix))
		d.step = AwaitProduct
		d.offered = productOptions(d.category)
	case AwaitProduct:
		p, _ := productByToken(d.category, token)
		d.product = p.Name
		d.step = AwaitName
		d.offered = nil
	}
	return d.prompt()
}

func (m *Machine) answer(ctx context.Context, user int64, sl *slot, v string) (Reply, *domain.Order, error) {
	d := sl.draft
	switch d.step {
	case AwaitName:
		d.name, d.step = v, AwaitPhone
	case AwaitPhone:
		d.phone, d.step = v, AwaitAddress
	case AwaitAddress:
		d.address, d.step = v, AwaitQuantity
	case AwaitQuantity:
		d.quantity, d.step = v, d.afterQuantity()
	case AwaitSize:
		d.size, d.step = v, Committed
	}
	if d.step != Committed {
		return d.prompt(), nil, nil
	}
	return m.commit(ctx, user, sl)
}

// commit stores the draft and discards it whether or not the insert worked.
func (m *Machine) commit(ctx context.Context, user int64, sl *slot) (Reply, *domain.Order, error) {
	d := sl.draft
	sl.draft = nil
	in := d.order()

	start := time.Now()
	id, err := m.Orders.Insert(ctx, in)
	if m.Metrics != nil {
		m.Metrics.InsertLatencySec.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		applog.Error(nil, "bot.order.fail", err, map[string]any{"user_id": user, "category": string(in.Category)})
		if m.Metrics != nil {
			m.Metrics.OrdersFailed.Inc()
		}
		return Reply{Text: text(txtFailure, d.lang), Failed: true}, nil, nil
	}

	applog.Audit(nil, "bot.order.commit", map[string]any{"user_id": user, "order_id": id, "category": string(in.Category)})
	if m.Metrics != nil {
		m.Metrics.OrdersCommitted.Inc()
	}
	o := domain.Order{
		ID:           id,
		Category:     in.Category,
		Product:      in.Product,
		CustomerName: in.CustomerName,
		Phone:        in.Phone,
		Address:      in.Address,
		Quantity:     in.Quantity,
		Size:         in.Size,
		Language:     in.Language,
		Status:       domain.StatusNew,
		CreatedAt:    time.Now().UTC(),
		MerchantID:   domain.MerchantID,
	}
	return Reply{Text: text(txtConfirm, d.lang), OrderID: id}, &o, nil
}

// notify runs in the background, detached from the caller's cancellation.
// A failure never touches the order.
func (m *Machine) notify(parent context.Context, o domain.Order) {
	timeout := m.NotifyTimeout
	if timeout <= 0 {
		timeout = DefaultNotifyTimeout
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), timeout)
	defer cancel()
	if err := m.Notifier.Notify(ctx, o); err != nil {
		applog.Warn(nil, "bot.notify.fail", err, map[string]any{"order_id": o.ID})
		if m.Metrics != nil {
			m.Metrics.NotifyFailed.Inc()
		}
	}
}

func (m *Machine) staleSelection(user int64, token string) {
	applog.Security(nil, "bot.selection.stale", map[string]any{"user_id": user, "token": token})
	if m.Metrics != nil {
		m.Metrics.StaleSelections.Inc()
	}
}
