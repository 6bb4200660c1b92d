// Package flowstest runs the returns flows against in-memory state and a fake
// order management backend.
package flowstest

import (
	"context"
	"testing"

	"ReturnsAgent/bot/card"
	"ReturnsAgent/bot/dialog"
	"ReturnsAgent/bot/flows"
	"ReturnsAgent/bot/flows/createreturn"
	"ReturnsAgent/bot/flows/feedback"
	"ReturnsAgent/bot/flows/login"
	"ReturnsAgent/bot/flows/mainflow"
	"ReturnsAgent/bot/flows/trackreturn"
	"ReturnsAgent/entity"
	"ReturnsAgent/internal/brand"
	"ReturnsAgent/internal/lib/logger"
	"ReturnsAgent/internal/nlu"
	"ReturnsAgent/internal/service/oms/omstest"
	"ReturnsAgent/internal/state"

	"github.com/stretchr/testify/require"
)

// Classifier answers from a table keyed by the exact text.
type Classifier struct {
	Results  map[string]*nlu.Result
	Positive bool
	Texts    []string
}

func (c *Classifier) AnalyzeConversation(_ context.Context, text string) (*nlu.Result, error) {
	c.Texts = append(c.Texts, text)
	if r, ok := c.Results[text]; ok {
		cp := *r
		return &cp, nil
	}
	return nlu.None(), nil
}

func (c *Classifier) AnalyzeSentiment(context.Context, string) (*nlu.Result, error) {
	return &nlu.Result{Intent: nlu.IntentSendFeedback, IsPositiveFeedback: c.Positive}, nil
}

// Recorder collects the replies of one turn.
type Recorder struct {
	Texts   []string
	Cards   []*card.Card
	Layouts []string
}

func (r *Recorder) SendText(_ context.Context, text string) error {
	r.Texts = append(r.Texts, text)
	return nil
}

func (r *Recorder) SendCards(_ context.Context, layout string, cards ...*card.Card) error {
	r.Layouts = append(r.Layouts, layout)
	r.Cards = append(r.Cards, cards...)
	return nil
}

type Harness struct {
	t *testing.T

	Engine     *dialog.Engine
	Store      *state.Store
	Backend    *state.Memory
	OMS        *omstest.Fake
	Classifier *Classifier

	Channel      string
	Conversation string
	User         string
}

// New wires every returns flow onto a fresh engine.
func New(t *testing.T) *Harness {
	t.Helper()
	log := logger.Discard()
	backend := state.NewMemory()
	h := &Harness{
		t:            t,
		Engine:       dialog.NewEngine(flows.Main, log),
		Store:        state.NewStore(backend, log),
		Backend:      backend,
		OMS:          omstest.New(),
		Classifier:   &Classifier{Results: map[string]*nlu.Result{}},
		Channel:      "test",
		Conversation: "conv-1",
		User:         "user-1",
	}
	tenants := brand.NewMatcher(brand.DefaultTable, brand.DefaultCutoff, brand.DefaultTenant)
	eligibility, err := createreturn.NewEligibility("")
	require.NoError(t, err)

	h.Engine.RegisterFlow(mainflow.New(h.Classifier, log))
	h.Engine.RegisterFlow(login.New(h.OMS, tenants, log))
	h.Engine.RegisterFlow(createreturn.New(h.OMS, eligibility, log))
	h.Engine.RegisterFlow(trackreturn.New(h.OMS, tenants, log))
	h.Engine.RegisterFlow(feedback.New(h.Classifier, log))
	return h
}

// Run processes the activity and commits the turn when it succeeds.
func (h *Harness) Run(a *entity.Activity) (*Recorder, dialog.Status, error) {
	ctx := context.Background()
	rec := &Recorder{}
	turn := h.Store.Begin(h.Channel, h.Conversation, a.UserID)
	stack, err := dialog.StackProperty.Get(ctx, turn)
	if err != nil {
		return rec, dialog.StatusWaiting, err
	}
	status, err := h.Engine.Run(ctx, &dialog.TurnContext{Activity: a, Responder: rec, State: turn}, stack)
	if err != nil {
		return rec, status, err
	}
	return rec, status, turn.Flush(ctx)
}

func (h *Harness) activity(text string, value map[string]interface{}) *entity.Activity {
	return &entity.Activity{
		Channel:        h.Channel,
		ConversationID: h.Conversation,
		UserID:         h.User,
		Text:           text,
		Value:          value,
	}
}

// Say runs a text turn that must succeed.
func (h *Harness) Say(text string) *Recorder {
	h.t.Helper()
	rec, _, err := h.Run(h.activity(text, nil))
	require.NoError(h.t, err)
	return rec
}

// Submit runs a card submission turn that must succeed.
func (h *Harness) Submit(value map[string]interface{}) *Recorder {
	h.t.Helper()
	rec, _, err := h.Run(h.activity("", value))
	require.NoError(h.t, err)
	return rec
}

// Update mutates persisted state outside the engine.
func (h *Harness) Update(fn func(ctx context.Context, turn *state.Turn)) {
	h.t.Helper()
	ctx := context.Background()
	turn := h.Store.Begin(h.Channel, h.Conversation, h.User)
	fn(ctx, turn)
	require.NoError(h.t, turn.Flush(ctx))
}

func (h *Harness) Stack() *dialog.Stack {
	h.t.Helper()
	turn := h.Store.Begin(h.Channel, h.Conversation, h.User)
	stack, err := dialog.StackProperty.Get(context.Background(), turn)
	require.NoError(h.t, err)
	return stack
}

func (h *Harness) LogIn() *entity.LogInData {
	h.t.Helper()
	turn := h.Store.Begin(h.Channel, h.Conversation, h.User)
	data, err := flows.LogIn.Get(context.Background(), turn)
	require.NoError(h.t, err)
	return data
}

func (h *Harness) Selections() entity.OrderItemSelections {
	h.t.Helper()
	turn := h.Store.Begin(h.Channel, h.Conversation, h.User)
	s, err := flows.Selections.Get(context.Background(), turn)
	require.NoError(h.t, err)
	return *s
}

// LoggedIn stores a complete login record built from the fake backend.
func (h *Harness) LoggedIn() {
	h.Update(func(ctx context.Context, turn *state.Turn) {
		data, err := flows.LogIn.Get(ctx, turn)
		require.NoError(h.t, err)
		data.TenantCode = "NKENKE"
		data.OrderReference = h.OMS.Order.OrderReference
		data.EmailAddress = h.OMS.Order.ShopperDetails.Email
		data.AuthToken = h.OMS.Token
		data.Order = h.OMS.Order
		data.CountryConfiguration = h.OMS.CountryConfig
	})
}

// Select adds items to the user's return selection.
func (h *Harness) Select(itemID, reason string) {
	h.Update(func(ctx context.Context, turn *state.Turn) {
		s, err := flows.Selections.Get(ctx, turn)
		require.NoError(h.t, err)
		s.Add(h.User, itemID, reason)
	})
}

// ChooseMethod records the return method the user picked.
func (h *Harness) ChooseMethod(routeID string) {
	h.Update(func(ctx context.Context, turn *state.Turn) {
		data, err := flows.LogIn.Get(ctx, turn)
		require.NoError(h.t, err)
		m, ok := entity.FindReturnMethod(data.AvailableReturnMethods, routeID)
		require.True(h.t, ok, "route %s not offered", routeID)
		data.SelectedReturnMethod = m
	})
}
