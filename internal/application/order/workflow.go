package order

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/atelier/backoffice/internal/api"
	"github.com/atelier/backoffice/internal/domain/catalog"
	"github.com/atelier/backoffice/internal/domain/client"
	"github.com/atelier/backoffice/internal/domain/order"
	"github.com/atelier/backoffice/internal/domain/shared"
	"github.com/atelier/backoffice/internal/infrastructure/draft"
	"github.com/atelier/backoffice/internal/infrastructure/rest"
	"github.com/atelier/backoffice/internal/query"
)

// Tab identifies which client mode is active
type Tab string

const (
	TabExisting Tab = "existing"
	TabNew      Tab = "new"
)

// RouteOrders is the navigation target after a successful submission
const RouteOrders = "/orders"

// Workflow drives one order from an empty form to a submitted request. It
// accumulates location, dates, client, and items, guards each transition
// with the order's rules, and only talks to the server when every rule
// holds. All notices go through the Messenger.
type Workflow struct {
	api       *api.API
	drafts    *draft.Store
	messenger Messenger
	navigate  func(route string)
	debounce  *query.Debouncer
	logger    *zap.Logger
	now       func() time.Time

	mu               sync.Mutex
	location         catalog.Location
	receiveDate      *time.Time
	returnDate       *time.Time
	occasionDate     *time.Time
	activeTab        Tab
	selectedClientID int64
	selectedClient   *client.Client
	newClient        client.Form
	employeeID       int64
	orderDiscount    order.Discount
	items            order.Selection
	configuring      *ItemForm
}

// Option configures a workflow
type Option func(*Workflow)

// WithMessenger routes notices to m
func WithMessenger(m Messenger) Option {
	return func(w *Workflow) { w.messenger = m }
}

// WithNavigate sets the navigation callback invoked after submission
func WithNavigate(fn func(route string)) Option {
	return func(w *Workflow) { w.navigate = fn }
}

// WithDrafts enables draft persistence; a pending draft is restored
// immediately and deleted
func WithDrafts(store *draft.Store) Option {
	return func(w *Workflow) { w.drafts = store }
}

// WithLogger sets the workflow logger
func WithLogger(logger *zap.Logger) Option {
	return func(w *Workflow) { w.logger = logger }
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(w *Workflow) { w.now = now }
}

// NewWorkflow creates an order workflow over the given resource clients
func NewWorkflow(apiClient *api.API, opts ...Option) *Workflow {
	w := &Workflow{
		api:       apiClient,
		messenger: nopMessenger{},
		debounce:  query.NewDebouncer(query.DefaultDebounce),
		logger:    zap.NewNop(),
		now:       time.Now,
		activeTab: TabExisting,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.drafts != nil {
		w.restoreDraft()
	}
	return w
}

// SetLocation chooses the branch, factory, or workshop fulfilling the
// order. The location freezes once the first item is added; changing it
// then is rejected and the state left untouched.
func (w *Workflow) SetLocation(entityType catalog.EntityType, entityID int64) error {
	if !entityType.IsValid() || entityID == 0 {
		w.messenger.Error(shared.ErrLocationRequired.Message)
		return shared.ErrLocationRequired
	}

	w.mu.Lock()
	if len(w.items) > 0 {
		w.mu.Unlock()
		w.messenger.Error(shared.ErrLocationLocked.Message)
		return shared.ErrLocationLocked
	}
	w.location = catalog.Location{EntityType: entityType, EntityID: entityID}
	w.mu.Unlock()
	return nil
}

// Location returns the currently chosen location
func (w *Workflow) Location() catalog.Location {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.location
}

// SetReceiveDate records when the client visits to receive the order
func (w *Workflow) SetReceiveDate(t time.Time) {
	w.mu.Lock()
	w.receiveDate = &t
	w.mu.Unlock()
}

// SetReturnDate records when the order is due back
func (w *Workflow) SetReturnDate(t time.Time) {
	w.mu.Lock()
	w.returnDate = &t
	w.mu.Unlock()
}

// SetOccasionDate records the event the rental is for
func (w *Workflow) SetOccasionDate(t time.Time) {
	w.mu.Lock()
	w.occasionDate = &t
	w.mu.Unlock()
}

// SetActiveTab switches between the existing and new client tabs. The
// inactive tab keeps its state.
func (w *Workflow) SetActiveTab(tab Tab) {
	if tab != TabExisting && tab != TabNew {
		return
	}
	w.mu.Lock()
	w.activeTab = tab
	w.mu.Unlock()
}

// ActiveTab returns the current client tab
func (w *Workflow) ActiveTab() Tab {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.activeTab
}

// SelectExistingClient fetches a client summary and selects it
func (w *Workflow) SelectExistingClient(ctx context.Context, clientID int64) error {
	summary, err := w.api.Clients.Get(ctx, clientID)
	if err != nil {
		w.messenger.Error(userMessage(err))
		return err
	}
	w.mu.Lock()
	w.activeTab = TabExisting
	w.selectedClientID = summary.ID
	w.selectedClient = summary
	w.mu.Unlock()
	return nil
}

// Preselect enters the workflow with a known client: the existing tab is
// activated and the new-client form's name prefilled with the client's
// display name.
func (w *Workflow) Preselect(ctx context.Context, clientID int64) error {
	if err := w.SelectExistingClient(ctx, clientID); err != nil {
		return err
	}
	w.mu.Lock()
	w.newClient.Name = w.selectedClient.FullName()
	w.mu.Unlock()
	return nil
}

// SelectedClient returns the fetched summary of the chosen client, if any
func (w *Workflow) SelectedClient() *client.Client {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selectedClient
}

// NewClientForm exposes the new-client form for editing
func (w *Workflow) NewClientForm() *client.Form {
	return &w.newClient
}

// SetEmployee records who took the order
func (w *Workflow) SetEmployee(employeeID int64) {
	w.mu.Lock()
	w.employeeID = employeeID
	w.mu.Unlock()
}

// SetOrderDiscount sets the order-level discount
func (w *Workflow) SetOrderDiscount(d order.Discount) {
	w.mu.Lock()
	w.orderDiscount = d
	w.mu.Unlock()
}

// BrowseCatalog lists rentable cloths at the order's location. The catalog
// opens only once location and return date are both set.
func (w *Workflow) BrowseCatalog(ctx context.Context, name, category string, subCategories []string, page int) (*rest.Page[catalog.Cloth], error) {
	w.mu.Lock()
	location := w.location
	hasReturn := w.returnDate != nil
	w.mu.Unlock()

	if !location.IsSet() {
		return nil, shared.ErrLocationRequired
	}
	if !hasReturn {
		return nil, shared.ErrReturnDateNeeded
	}
	return w.api.Cloths.List(ctx, catalog.ClothFilter{
		Name:          name,
		Category:      category,
		SubCategories: subCategories,
		Location:      &location,
		Status:        catalog.ClothStatusReadyForRent,
		Page:          page,
	})
}

// BrowseCatalogDebounced runs BrowseCatalog after filter input settles,
// delivering the result to the callback. Rapid keystrokes collapse into
// one request.
func (w *Workflow) BrowseCatalogDebounced(ctx context.Context, name, category string, subCategories []string, page int, deliver func(*rest.Page[catalog.Cloth], error)) {
	w.debounce.Do(func() {
		deliver(w.BrowseCatalog(ctx, name, category, subCategories, page))
	})
}

// ConfigureItem opens the detail form for a catalog selection, seeded with
// its base price
func (w *Workflow) ConfigureItem(cloth catalog.Cloth) *ItemForm {
	w.mu.Lock()
	w.configuring = newItemForm(cloth)
	w.mu.Unlock()
	return w.configuring
}

// Configuring returns the detail form in progress, if any
func (w *Workflow) Configuring() *ItemForm {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.configuring
}

// AddItem commits the configured item into the selection. The form resets
// on success; the same cloth cannot be added twice.
func (w *Workflow) AddItem() error {
	w.mu.Lock()
	if w.configuring == nil {
		w.mu.Unlock()
		w.messenger.Error(shared.ErrNoItemSelected.Message)
		return shared.ErrNoItemSelected
	}
	item, err := w.configuring.build()
	if err != nil {
		w.mu.Unlock()
		w.messenger.Error(userMessage(err))
		return err
	}
	if w.items.Contains(item.Cloth.ID) {
		w.mu.Unlock()
		w.messenger.Error(shared.ErrDuplicateItem.Message)
		return shared.ErrDuplicateItem
	}
	w.items = append(w.items, item)
	w.configuring = nil
	w.mu.Unlock()

	w.messenger.Success("Item added to the order")
	return nil
}

// RemoveItem drops a selected item by cloth ID
func (w *Workflow) RemoveItem(clothID int64) {
	w.mu.Lock()
	w.items = w.items.Remove(clothID)
	w.mu.Unlock()
}

// Items returns a copy of the current selection
func (w *Workflow) Items() order.Selection {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append(order.Selection(nil), w.items...)
}

// Totals recomputes the order totals from the current selection
func (w *Workflow) Totals() order.Totals {
	w.mu.Lock()
	defer w.mu.Unlock()
	return order.ComputeTotals(w.items)
}

// Submit validates the whole order and, when every rule holds, posts it.
// The first violated rule short-circuits with a notice and no request.
func (w *Workflow) Submit(ctx context.Context) (*order.Order, error) {
	w.mu.Lock()
	if err := w.validateLocked(); err != nil {
		w.mu.Unlock()
		w.messenger.Error(userMessage(err))
		return nil, err
	}
	submission := w.submissionLocked()
	w.mu.Unlock()

	payload := order.BuildOrderPayload(submission, w.now)
	created, err := w.api.Orders.Create(ctx, payload)
	if err != nil {
		w.messenger.Error(userMessage(err))
		return nil, err
	}

	if w.drafts != nil {
		if derr := w.drafts.Delete(draft.Key); derr != nil {
			w.logger.Warn("Failed to clear order draft", zap.Error(derr))
		}
	}
	w.logger.Info("Order submitted", zap.Int64("order_id", created.ID))
	w.messenger.Success("Order created")
	if w.navigate != nil {
		w.navigate(RouteOrders)
	}
	return created, nil
}

// validateLocked checks the submission rules in their fixed order
func (w *Workflow) validateLocked() error {
	switch w.activeTab {
	case TabNew:
		if err := w.newClient.Validate(); err != nil {
			return err
		}
	default:
		if w.selectedClientID == 0 {
			return shared.ErrClientRequired
		}
	}
	if !w.location.IsSet() {
		return shared.ErrLocationRequired
	}
	if w.employeeID == 0 {
		return shared.ErrEmployeeRequired
	}
	if w.receiveDate == nil {
		return shared.ErrReceiveDateNeeded
	}
	if w.returnDate == nil {
		return shared.ErrReturnDateNeeded
	}
	if len(w.items) == 0 {
		return shared.ErrNoItems
	}
	if w.items.HasRentItem() && w.occasionDate == nil {
		return shared.ErrOccasionNeeded
	}
	return nil
}

// submissionLocked assembles the payload inputs from the current state
func (w *Workflow) submissionLocked() order.Submission {
	s := order.Submission{
		Location:      w.location,
		EmployeeID:    w.employeeID,
		DeliveryDate:  w.returnDate,
		VisitDate:     w.receiveDate,
		OccasionDate:  w.occasionDate,
		OrderDiscount: w.orderDiscount,
		Items:         append(order.Selection(nil), w.items...),
	}
	if w.activeTab == TabNew {
		form := w.newClient
		s.NewClient = &form
	} else {
		s.ExistingClient = true
		s.ClientID = w.selectedClientID
	}
	return s
}

// SaveDraft snapshots the in-progress order into the draft store
func (w *Workflow) SaveDraft() error {
	if w.drafts == nil {
		return nil
	}

	w.mu.Lock()
	snap := &draft.Snapshot{
		EntityType:       w.location.EntityType.String(),
		EntityID:         w.location.EntityID,
		DeliveryDate:     w.returnDate,
		ActiveTab:        string(w.activeTab),
		SelectedClientID: w.selectedClientID,
		SelectedProducts: append(order.Selection(nil), w.items...),
	}
	// Form values travel with the draft only while the new-client tab is
	// the active one.
	if w.activeTab == TabNew && !formIsEmpty(&w.newClient) {
		form := w.newClient
		snap.NewClientForm = &form
	}
	w.mu.Unlock()

	if err := w.drafts.Save(draft.Key, snap); err != nil {
		w.logger.Warn("Failed to save order draft", zap.Error(err))
		w.messenger.Error("Could not save the order draft")
		return err
	}
	w.messenger.Success("Draft saved")
	return nil
}

// restoreDraft rehydrates a pending snapshot, consuming it. Items without a
// delivery date inherit the draft's return date.
func (w *Workflow) restoreDraft() {
	snap, ok, err := w.drafts.Take(draft.Key)
	if err != nil {
		w.logger.Warn("Failed to restore order draft", zap.Error(err))
		w.messenger.Error("Could not restore the saved order draft")
		return
	}
	if !ok {
		return
	}

	w.mu.Lock()
	w.location = catalog.Location{
		EntityType: catalog.EntityType(snap.EntityType),
		EntityID:   snap.EntityID,
	}
	w.returnDate = snap.DeliveryDate
	if tab := Tab(snap.ActiveTab); tab == TabExisting || tab == TabNew {
		w.activeTab = tab
	}
	w.selectedClientID = snap.SelectedClientID
	if snap.NewClientForm != nil {
		w.newClient = *snap.NewClientForm
	}
	items := snap.SelectedProducts
	for i := range items {
		if items[i].DeliveryDate == nil {
			items[i].DeliveryDate = snap.DeliveryDate
		}
	}
	w.items = items
	w.mu.Unlock()

	w.messenger.Info("Restored your saved order draft")
}

// formIsEmpty reports whether the new-client form has no input yet
func formIsEmpty(f *client.Form) bool {
	return f.Name == "" && f.NationalID == "" && f.Phone == "" &&
		f.SecondPhone == "" && f.Address == "" && f.Notes == "" &&
		f.CityID == 0 && f.Source == "" && f.DateOfBirth == nil
}

// userMessage resolves an error into the text shown to the user
func userMessage(err error) string {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	var apiErr *rest.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return rest.FallbackMessage
}
