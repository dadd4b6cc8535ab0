package authz

import (
	_ "embed"
	"fmt"

	"github.com/casbin/casbin/v2"
	casbinmodel "github.com/casbin/casbin/v2/model"
	stringadapter "github.com/casbin/casbin/v2/persist/string-adapter"
	"github.com/zhwaweb/zhwaweb-admin/internal/app/model"
	"github.com/zhwaweb/zhwaweb-admin/pkg/logger"
)

//go:embed model.conf
var modelText string

// policy.csv rows are "p, role, resource, action, scope". Scope "any"
// covers every record, "own" only records the caller owns. A "list" row
// makes listings unscoped for that role.
//
//go:embed policy.csv
var policyText string

type Action string

const (
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"

	actionList       Action = "list"
	actionCreate     Action = "create"
	actionManage     Action = "manage"
	actionTransition Action = "transition"
)

func (a Action) writes() bool {
	return a == ActionUpdate || a == ActionDelete
}

const (
	resourceStore        = "store"
	resourceOffer        = "offer"
	resourceSubscription = "subscription"
)

// Engine makes every role and ownership decision through a casbin
// enforcer loaded from the embedded model and policy. Business rules that
// depend on record state (the one-store count, approved subscriptions)
// are checked after the enforcer allows the request. It is safe for
// concurrent use.
type Engine struct {
	enforcer *casbin.SyncedEnforcer
}

func NewEngine() (*Engine, error) {
	return newEngine(modelText, policyText)
}

func newEngine(modelConf, policy string) (*Engine, error) {
	m, err := casbinmodel.NewModelFromString(modelConf)
	if err != nil {
		return nil, fmt.Errorf("load authz model: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, stringadapter.NewAdapter(policy))
	if err != nil {
		return nil, fmt.Errorf("load authz policy: %w", err)
	}
	return &Engine{enforcer: enforcer}, nil
}

func (e *Engine) allowed(p *model.User, obj, owner string, act Action) bool {
	if p == nil {
		return false
	}
	ok, err := e.enforcer.Enforce(string(p.Type), p.ID, obj, owner, string(act))
	if err != nil {
		logger.Error("Authorization check failed", err, map[string]interface{}{
			"user_id": p.ID,
			"object":  obj,
			"action":  string(act),
		})
		return false
	}
	return ok
}

func (e *Engine) scope(p *model.User, obj string) (Scope, error) {
	if p == nil {
		return Scope{}, ErrForbidden
	}
	if e.allowed(p, obj, "", actionList) {
		return Unscoped, nil
	}
	return Scope{Restricted: true, OwnerID: p.ID}, nil
}

// StoreScope filters stores on owner_id.
func (e *Engine) StoreScope(p *model.User) (Scope, error) {
	return e.scope(p, resourceStore)
}

// OfferScope filters offers on the owner of their store.
func (e *Engine) OfferScope(p *model.User) (Scope, error) {
	return e.scope(p, resourceOffer)
}

// SubscriptionScope filters subscriptions on user_id.
func (e *Engine) SubscriptionScope(p *model.User) (Scope, error) {
	return e.scope(p, resourceSubscription)
}

func storeOwner(store *model.Store) string {
	if store == nil {
		return ""
	}
	return store.OwnerID
}

// AuthorizeStore gates read, update and delete of an existing store.
func (e *Engine) AuthorizeStore(p *model.User, store *model.Store) error {
	if !e.allowed(p, resourceStore, storeOwner(store), actionManage) {
		return ErrForbidden
	}
	return nil
}

// AuthorizeStoreCreate enforces one store per store owner. owned is the
// number of stores p already owns. Principals that list every store are
// not counted.
func (e *Engine) AuthorizeStoreCreate(p *model.User, owned int64) error {
	if !e.allowed(p, resourceStore, "", actionCreate) {
		return ErrForbidden
	}
	if owned > 0 && !e.allowed(p, resourceStore, "", actionList) {
		return ErrStoreLimitReached
	}
	return nil
}

// AuthorizeOffer gates every offer operation through the owning store.
// A missing store denies non-admins.
func (e *Engine) AuthorizeOffer(p *model.User, store *model.Store) error {
	if !e.allowed(p, resourceOffer, storeOwner(store), actionManage) {
		return ErrForbidden
	}
	return nil
}

// AuthorizeSubscription checks ownership first, then immutability of
// approved subscriptions for writes.
func (e *Engine) AuthorizeSubscription(p *model.User, sub *model.Subscription, action Action) error {
	if sub == nil {
		return ErrForbidden
	}
	owner := ""
	if sub.UserID != nil {
		owner = *sub.UserID
	}
	if !e.allowed(p, resourceSubscription, owner, action) {
		return ErrForbidden
	}
	if action.writes() && sub.IsApproved() {
		if action == ActionDelete {
			return ErrApprovedSubscriptionDelete
		}
		return ErrSubscriptionApproved
	}
	return nil
}

// RequireAdmin gates subscription transitions, denying with
// "Only admins can <what>".
func (e *Engine) RequireAdmin(p *model.User, what string) error {
	if e.allowed(p, resourceSubscription, "", actionTransition) {
		return nil
	}
	return &Denial{Reason: "Only admins can " + what, Err: ErrAdminOnly}
}

// AuthorizeSubscriptionTransition gates approve/reject. Only pending
// subscriptions move.
func (e *Engine) AuthorizeSubscriptionTransition(p *model.User, sub *model.Subscription) error {
	if !e.allowed(p, resourceSubscription, "", actionTransition) {
		return ErrAdminOnly
	}
	if sub == nil {
		return ErrForbidden
	}
	if !sub.IsPending() {
		return ErrSubscriptionNotPending
	}
	return nil
}

// AuthorizePublicSubscriptionUpdate gates the unauthenticated
// update-by-email path.
func (e *Engine) AuthorizePublicSubscriptionUpdate(sub *model.Subscription) error {
	if sub == nil {
		return ErrForbidden
	}
	if sub.IsApproved() {
		return ErrSubscriptionApproved
	}
	return nil
}
